package config

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

var (
	DB          *sql.DB
	MongoDB     *mongo.Database
	MongoClient *mongo.Client
)

const retryDelay = 5 * time.Second

// LoadEnv loads environment variables from a .env file.
func LoadEnv() error {
	possiblePaths := []string{
		".env",
		"../.env",
		os.Getenv("RELEVAMIENTO_ENV"),
	}

	var loadedFile string
	for _, path := range possiblePaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			loadedFile = path
			log.Printf("Found .env file at: %s", path)
			break
		}
	}

	if loadedFile == "" {
		// Running from real environment variables is fine.
		if os.Getenv("DATABASE_URL") != "" || os.Getenv("DB_HOST") != "" || os.Getenv("ESCUELAS_JSON") != "" {
			return nil
		}
		return fmt.Errorf("no .env file found and no database configuration set in environment")
	}

	file, err := os.Open(loadedFile)
	if err != nil {
		return fmt.Errorf("error opening .env file: %v", err)
	}
	defer file.Close()

	log.Printf("Loading environment variables from %s", loadedFile)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		os.Setenv(key, value)
		lower := strings.ToLower(key)
		if !strings.Contains(lower, "password") && !strings.Contains(lower, "secret") && !strings.Contains(lower, "key") {
			log.Printf("Set environment variable: %s", key)
		}
	}
	return scanner.Err()
}

// InitDBWithRetry attempts to connect to PostgreSQL with retries.
func InitDBWithRetry(maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = InitDB()
		if err == nil {
			return nil
		}
		log.Printf("Failed to connect to PostgreSQL (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(retryDelay)
	}
	return fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err)
}

func InitDB() error {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		host := GetEnvWithDefault("DB_HOST", "localhost")
		port := GetEnvWithDefault("DB_PORT", "5432")
		user := GetEnvWithDefault("DB_USER", "postgres")
		password := os.Getenv("DB_PASSWORD")
		dbname := GetEnvWithDefault("DB_NAME", "relevamiento")
		sslmode := GetEnvWithDefault("DB_SSL_MODE", "disable")

		log.Printf("DB Host: %s", host)
		log.Printf("DB Port: %s", port)
		log.Printf("DB Name: %s", dbname)
		log.Printf("DB User: %s", user)

		connStr = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("error opening PostgreSQL database: %v", err)
	}

	// Set connection pool settings
	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(30 * time.Minute)

	// Verify connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = DB.PingContext(ctx); err != nil {
		return fmt.Errorf("error connecting to PostgreSQL database: %v", err)
	}

	// Verify escuelas table exists
	var tableExists bool
	err = DB.QueryRowContext(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = 'escuelas'
        )`).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("error checking escuelas table: %v", err)
	}
	if !tableExists {
		return fmt.Errorf("escuelas table does not exist in the database")
	}

	log.Printf("Successfully connected to PostgreSQL, escuelas table verified")
	return nil
}

// InitMongoWithRetry connects to MongoDB, which persists the AI analysis
// cache across restarts. The service degrades to memory-only caching when it
// is unreachable, so callers may treat the returned error as a warning.
func InitMongoWithRetry(maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = connectMongo(getMongoURI())
		if err == nil {
			return nil
		}
		log.Printf("Failed to connect to MongoDB (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(retryDelay)
	}
	return fmt.Errorf("failed to connect to MongoDB after %d attempts: %v", maxRetries, err)
}

func connectMongo(uri string) error {
	clientOptions := options.Client().ApplyURI(uri).
		SetMaxPoolSize(50).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetSocketTimeout(30 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true).
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Majority()).
		SetReadPreference(readpref.Primary())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var err error
	MongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("error connecting to MongoDB: %v", err)
	}

	if err = MongoClient.Ping(ctx, nil); err != nil {
		return fmt.Errorf("error pinging MongoDB: %v", err)
	}

	dbName := GetEnvWithDefault("MONGO_DB_NAME", "relevamiento")
	MongoDB = MongoClient.Database(dbName)
	log.Printf("Successfully connected to MongoDB database: %s", dbName)

	if err := createIndexes(ctx); err != nil {
		return fmt.Errorf("error creating indexes: %v", err)
	}
	return nil
}

func createIndexes(ctx context.Context) error {
	analisis := MongoDB.Collection("analisis")
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "creado", Value: 1}},
			Options: options.Index().SetName("analisis_creado_idx"),
		},
	}
	if _, err := analisis.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating analisis indexes: %v", err)
	}
	log.Printf("Successfully created analisis indexes")
	return nil
}

// Health check functions
func CheckPostgresHealth() error {
	if DB == nil {
		return fmt.Errorf("PostgreSQL connection not initialized")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := DB.PingContext(ctx); err != nil {
		return fmt.Errorf("PostgreSQL health check failed: %v", err)
	}
	return nil
}

func CheckMongoHealth() error {
	if MongoClient == nil {
		return fmt.Errorf("MongoDB connection not initialized")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := MongoClient.Ping(ctx, nil); err != nil {
		return fmt.Errorf("MongoDB health check failed: %v", err)
	}
	return nil
}

// Graceful shutdown
func CloseDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if DB != nil {
		if err := DB.Close(); err != nil {
			log.Printf("Error closing PostgreSQL connection: %v", err)
		}
	}

	if MongoClient != nil {
		if err := MongoClient.Disconnect(ctx); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}
}
