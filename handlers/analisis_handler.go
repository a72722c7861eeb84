package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GeronimoSerial/relevamiento-consejo/config"
	"github.com/GeronimoSerial/relevamiento-consejo/gemini"
	"github.com/GeronimoSerial/relevamiento-consejo/models"
	"github.com/GeronimoSerial/relevamiento-consejo/utils"
)

var geminiClient *gemini.Client

// InitAnalisis configures the Gemini client from the environment. Without an
// API key the analysis endpoints answer 503.
func InitAnalisis() {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Printf("GEMINI_API_KEY not set; analysis endpoints disabled")
		return
	}
	cfg := gemini.DefaultConfig(apiKey)
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Model = model
	}
	geminiClient = gemini.NewClientWithConfig(cfg)
	log.Printf("Gemini client initialized with model %s", geminiClient.Model())
}

// SetGeminiClient replaces the client (tests).
func SetGeminiClient(c *gemini.Client) {
	geminiClient = c
}

// analisisEntry is the persisted copy of a generated analysis.
type analisisEntry struct {
	Key    string    `bson:"_id"`
	Texto  string    `bson:"texto"`
	Creado time.Time `bson:"creado"`
}

func getCachedAnalisis(ctx context.Context, key string) (string, bool) {
	if config.AnalysisCache != nil {
		if cached, found := config.AnalysisCache.Get(key); found {
			return cached.(string), true
		}
	}

	if config.MongoDB == nil {
		return "", false
	}
	var entry analisisEntry
	err := config.MongoDB.Collection("analisis").FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			log.Printf("Error reading cached analysis %s: %v", key, err)
		}
		return "", false
	}
	if time.Since(entry.Creado) > config.AnalysisTTL {
		if _, err := config.MongoDB.Collection("analisis").DeleteOne(ctx, bson.M{"_id": key}); err != nil {
			log.Printf("Error deleting expired analysis %s: %v", key, err)
		}
		return "", false
	}

	if config.AnalysisCache != nil {
		config.AnalysisCache.SetDefault(key, entry.Texto)
	}
	return entry.Texto, true
}

func setCachedAnalisis(ctx context.Context, key, texto string) {
	if config.AnalysisCache != nil {
		config.AnalysisCache.SetDefault(key, texto)
	}
	if config.MongoDB == nil {
		return
	}
	_, err := config.MongoDB.Collection("analisis").ReplaceOne(ctx,
		bson.M{"_id": key},
		analisisEntry{Key: key, Texto: texto, Creado: time.Now()},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		log.Printf("Error persisting analysis %s: %v", key, err)
	}
}

const formatoAnalisis = `<u>ESCUELAS CON PROBLEMÁTICAS CRÍTICAS:</u>

1. <strong>Nombre de la escuela</strong>
  - <b>Problemática principal</b>
  - <b>Impacto</b>

2. <strong>Nombre de la escuela</strong>
  - <b>Problemática principal</b>
  - <b>Impacto</b>

(Continuar con máximo 5 escuelas)`

const requisitosAnalisis = `Requisitos:
- Máximo 5 escuelas
- Enfócate en los problemas más urgentes
- Usa lenguaje claro y directo
- Incluye solo la información más relevante
- NO uses asteriscos (**) para el formato
- Usa <strong> SOLO para los nombres de las escuelas
- NO uses <strong> en las problemáticas o impactos, utiliza <b> en su lugar
- Los nombres de escuelas deben estar en negrita usando <strong>`

func generalPrompt(problemas []utils.ProblemaEscuela) (string, error) {
	datos, err := json.MarshalIndent(problemas, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"Analiza las siguientes problemáticas reportadas en las escuelas y genera un análisis conciso con el siguiente formato:\n\n%s\n\n%s\n\n%s",
		formatoAnalisis, string(datos), requisitosAnalisis), nil
}

func supervisorPrompt(supervisor string, problemas []utils.ProblemaEscuela) (string, error) {
	datos, err := json.MarshalIndent(problemas, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"Analiza las problemáticas específicas para las escuelas del supervisor %s y genera un análisis conciso con el siguiente formato:\n\n%s\n\n%s\n\n%s",
		supervisor, formatoAnalisis, string(datos), requisitosAnalisis), nil
}

func generateAnalisis(w http.ResponseWriter, r *http.Request, cacheKey, prompt string) {
	ctx := r.Context()

	texto, err := geminiClient.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Error generating analysis %s: %v", cacheKey, err)
		writeError(w, http.StatusBadGateway, "error generating analysis")
		return
	}
	texto = utils.CleanText(texto)

	setCachedAnalisis(ctx, cacheKey, texto)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"text":    texto,
		"cached":  false,
	})
}

// GetAnalisisGeneral summarizes the prioritized problem reports across the
// whole directory: /analisis/general
func GetAnalisisGeneral(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "analisis_general"

	if texto, found := getCachedAnalisis(r.Context(), cacheKey); found {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"text":    texto,
			"cached":  true,
		})
		return
	}

	if geminiClient == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis service not configured")
		return
	}

	problemas := utils.RelevantProblems(GetEscuelasSnapshot())
	if len(problemas) == 0 {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"text":    "No hay problemáticas relevantes registradas.",
			"cached":  false,
		})
		return
	}

	prompt, err := generalPrompt(problemas)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error building prompt")
		return
	}
	generateAnalisis(w, r, cacheKey, prompt)
}

type analisisRequest struct {
	Supervisor string `json:"supervisor"`
}

// PostAnalisisSupervisor summarizes the problem reports of one supervisor's
// departments: POST /analisis {"supervisor": "..."}
func PostAnalisisSupervisor(w http.ResponseWriter, r *http.Request) {
	var req analisisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Supervisor) == "" {
		writeError(w, http.StatusBadRequest, "supervisor is required")
		return
	}

	cacheKey := "analisis_" + strings.ReplaceAll(utils.NormalizeText(req.Supervisor), " ", "_")
	if texto, found := getCachedAnalisis(r.Context(), cacheKey); found {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"text":    texto,
			"cached":  true,
		})
		return
	}

	if geminiClient == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis service not configured")
		return
	}

	problemas := utils.ProblemsForSupervisor(GetEscuelasSnapshot(), req.Supervisor, models.SupervisoresPorDepartamento)
	if len(problemas) == 0 {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"text":    "No hay problemáticas relevantes registradas para este supervisor.",
			"cached":  false,
		})
		return
	}

	prompt, err := supervisorPrompt(req.Supervisor, problemas)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error building prompt")
		return
	}
	generateAnalisis(w, r, cacheKey, prompt)
}
