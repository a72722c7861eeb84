package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/rs/cors"

	"github.com/GeronimoSerial/relevamiento-consejo/config"
	"github.com/GeronimoSerial/relevamiento-consejo/handlers"
	"github.com/GeronimoSerial/relevamiento-consejo/middleware"
)

type HealthResponse struct {
	Status    string `json:"status"`
	DBStatus  string `json:"db_status"`
	DBDetails struct {
		Host     string   `json:"host"`
		Port     string   `json:"port"`
		Database string   `json:"database"`
		Tables   []string `json:"tables,omitempty"`
	} `json:"db_details"`
	MongoStatus string `json:"mongo_status"`
	Escuelas    int    `json:"escuelas_loaded"`
	Error       string `json:"error,omitempty"`
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:   "ok",
		Escuelas: len(handlers.GetEscuelasSnapshot()),
	}

	// Check database connection
	if config.DB == nil {
		response.DBStatus = "not_initialized"
	} else if err := config.CheckPostgresHealth(); err != nil {
		response.Status = "error"
		response.DBStatus = "connection_error"
		response.Error = err.Error()
	} else {
		response.DBStatus = "connected"

		response.DBDetails.Host = os.Getenv("DB_HOST")
		response.DBDetails.Port = os.Getenv("DB_PORT")
		response.DBDetails.Database = os.Getenv("DB_NAME")

		// Check for required tables
		tables := []string{"escuelas"}
		var existingTables []string
		for _, table := range tables {
			var exists bool
			err := config.DB.QueryRow(`
                SELECT EXISTS (
                    SELECT FROM information_schema.tables
                    WHERE table_name = $1
                )`, table).Scan(&exists)
			if err == nil && exists {
				existingTables = append(existingTables, table)
			}
		}
		response.DBDetails.Tables = existingTables
	}

	if config.MongoClient == nil {
		response.MongoStatus = "not_initialized"
	} else if err := config.CheckMongoHealth(); err != nil {
		response.MongoStatus = "connection_error"
	} else {
		response.MongoStatus = "connected"
	}

	// The service can serve from a JSON snapshot without Postgres.
	if response.DBStatus != "connected" && response.Escuelas == 0 {
		response.Status = "error"
		if response.Error == "" {
			response.Error = "no data source available"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func allowedOrigins() []string {
	if env := os.Getenv("ALLOWED_ORIGINS"); env != "" {
		var origins []string
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		return origins
	}
	return []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://localhost:8080",
		"http://127.0.0.1:3000",
	}
}

func main() {
	startTime := time.Now()
	log.Printf("Starting server initialization at %s", startTime.Format(time.RFC3339))

	// Load environment variables first
	if err := config.LoadEnv(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("No PORT environment variable found, using default: %s", port)
	}

	config.InitCache()
	handlers.InitAnalisis()

	// Initialize PostgreSQL unless running from a JSON snapshot
	if os.Getenv("ESCUELAS_JSON") == "" {
		log.Println("Initializing PostgreSQL database...")
		if err := config.InitDBWithRetry(5); err != nil {
			log.Fatalf("Failed to initialize PostgreSQL: %v", err)
		}
		log.Println("PostgreSQL database initialized successfully")
	} else {
		log.Printf("ESCUELAS_JSON set, skipping PostgreSQL initialization")
	}
	defer config.CloseDB()

	// MongoDB persists the AI analysis cache; run without it if unreachable
	if err := config.InitMongoWithRetry(2); err != nil {
		log.Printf("Warning: %v (analysis cache will be memory-only)", err)
	}

	// Warm the in-memory school directory
	if err := handlers.LoadEscuelas(); err != nil {
		log.Fatalf("Failed to load escuelas: %v", err)
	}
	refresh := config.GetEnvAsDuration("ESCUELAS_REFRESH", 30*time.Minute)
	handlers.StartEscuelasRefresh(refresh)

	r := mux.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins(),
		AllowedMethods: []string{
			"GET", "POST", "OPTIONS",
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Requested-With",
			"Origin",
		},
		ExposedHeaders: []string{
			"Content-Length",
			"Content-Type",
		},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	// Apply middlewares in correct order
	r.Use(corsHandler.Handler)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.CompressHandler)

	// API routes
	api := r.PathPrefix("/api/v1").Subrouter()
	registerRoutes(api)
	log.Println("Routes registered successfully")

	// Health check endpoint
	api.HandleFunc("/health/detailed", healthCheck).Methods("GET")

	srv := &http.Server{
		Handler:           r,
		Addr:              ":" + port,
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Create error channel for server errors
	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting server on port %s...", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
			serverErrors <- err
		}
	}()

	log.Printf("Server is running at http://localhost:%s", port)
	log.Printf("Health check endpoint: http://localhost:%s/api/v1/health", port)

	// Handle graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("Shutdown signal received")
	case err := <-serverErrors:
		log.Printf("Server error received: %v", err)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	} else {
		log.Println("Server shutdown completed successfully")
	}
}

func registerRoutes(api *mux.Router) {
	// Escuela routes
	api.HandleFunc("/escuelas", handlers.GetEscuelas).Methods("GET")
	api.HandleFunc("/escuelas/aniversarios", handlers.GetAniversarios).Methods("GET")
	api.HandleFunc("/escuelas/departamentos/suggest", handlers.GetDepartamentoSuggestions).Methods("GET")
	api.HandleFunc("/escuelas/localidades/suggest", handlers.GetLocalidadSuggestions).Methods("GET")
	api.HandleFunc("/escuelas/{cue:[0-9]+}", handlers.GetEscuelaByCUE).Methods("GET")

	// Supervisor routes
	api.HandleFunc("/supervisores", handlers.GetSupervisores).Methods("GET")

	// Statistics routes
	api.HandleFunc("/estadisticas/resumen", handlers.GetResumen).Methods("GET")
	api.HandleFunc("/estadisticas/matricula", handlers.GetMatriculaPorDepartamento).Methods("GET")
	api.HandleFunc("/estadisticas/categorias", handlers.GetEscuelasPorCategoria).Methods("GET")
	api.HandleFunc("/estadisticas/conectividad", handlers.GetConectividad).Methods("GET")
	api.HandleFunc("/estadisticas/edificio", handlers.GetEdificio).Methods("GET")
	api.HandleFunc("/estadisticas/programas", handlers.GetProgramas).Methods("GET")
	api.HandleFunc("/estadisticas/avance", handlers.GetAvance).Methods("GET")
	api.HandleFunc("/estadisticas/matricula-baja", handlers.GetMatriculaBaja).Methods("GET")

	// AI analysis routes
	api.HandleFunc("/analisis/general", handlers.GetAnalisisGeneral).Methods("GET")
	api.HandleFunc("/analisis", handlers.PostAnalisisSupervisor).Methods("POST")

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")
}
