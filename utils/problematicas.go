package utils

import (
	"regexp"
	"sort"
	"strings"

	"github.com/GeronimoSerial/relevamiento-consejo/models"
)

// Reported values that mean "nothing to report"; schools whose problems all
// fall here are excluded from the AI prompt.
var problematicasNoRelevantes = []string{
	"no presenta",
	"sin problemáticas",
	"sin problemas",
	"no hay problemas",
	"no hay problemáticas",
	"sin inconvenientes",
	"sin dificultades",
	"sin problemas de infraestructura",
	"no tiene",
	"no hay",
	"no hay inconvenientes",
	"no hay dificultades",
}

// Generic dimension-style reports carry less signal and rank behind concrete
// ones.
var problematicasGenericas = []string{
	"dimension organizativa",
	"dimension pedagogica",
	"dimension administrativa",
	"dimensión",
	"dimension",
	"problema",
	"problemática",
	"situación",
	"cuestión",
}

// ProblemaEscuela is the per-school problem digest sent to the AI service.
type ProblemaEscuela struct {
	Nombre        string   `json:"nombre"`
	CUE           int      `json:"cue"`
	Problematicas []string `json:"problematicas"`
	Prioridad     int      `json:"prioridad"`
}

func esRelevante(problema string) bool {
	p := strings.ToLower(problema)
	if strings.TrimSpace(p) == "" {
		return false
	}
	for _, noRelevante := range problematicasNoRelevantes {
		if strings.Contains(p, noRelevante) {
			return false
		}
	}
	return true
}

func esConcreta(problema string) bool {
	p := strings.ToLower(problema)
	for _, generica := range problematicasGenericas {
		if strings.Contains(p, generica) {
			return false
		}
	}
	return true
}

// RelevantProblems keeps only schools with substantive problem reports,
// scoring concrete reports above generic ones and ordering by priority then
// report count.
func RelevantProblems(escuelas []models.Escuela) []ProblemaEscuela {
	resultado := make([]ProblemaEscuela, 0, len(escuelas))
	for _, escuela := range escuelas {
		var relevantes []string
		for _, problema := range splitProblemas(escuela.Problematicas) {
			if esRelevante(problema) {
				relevantes = append(relevantes, problema)
			}
		}
		if len(relevantes) == 0 {
			continue
		}

		prioridad := 0
		for _, problema := range relevantes {
			if esConcreta(problema) {
				prioridad = 1
				break
			}
		}

		resultado = append(resultado, ProblemaEscuela{
			Nombre:        escuela.Nombre,
			CUE:           escuela.CUE,
			Problematicas: relevantes,
			Prioridad:     prioridad,
		})
	}

	sort.SliceStable(resultado, func(i, j int) bool {
		if resultado[i].Prioridad != resultado[j].Prioridad {
			return resultado[i].Prioridad > resultado[j].Prioridad
		}
		return len(resultado[i].Problematicas) > len(resultado[j].Problematicas)
	})
	return resultado
}

// splitProblemas breaks a free-text report into individual items. The source
// data separates multiple problems with newlines or semicolons.
func splitProblemas(texto string) []string {
	var problemas []string
	for _, parte := range strings.FieldsFunc(texto, func(r rune) bool {
		return r == '\n' || r == ';'
	}) {
		if parte = strings.TrimSpace(parte); parte != "" {
			problemas = append(problemas, parte)
		}
	}
	return problemas
}

// normalizeDepartamento makes department names comparable across data
// sources (accents, casing, stray punctuation).
func normalizeDepartamento(departamento string) string {
	return strings.NewReplacer(".", "", ",", "").Replace(NormalizeText(departamento))
}

// ProblemsForSupervisor scopes the problem digest to the departments the
// supervisor covers. The literal "all" keeps every school.
func ProblemsForSupervisor(escuelas []models.Escuela, supervisor string, supervisoresPorDepto map[string][]string) []ProblemaEscuela {
	if supervisor == "all" {
		return RelevantProblems(escuelas)
	}

	supervisorNormalizado := strings.ToLower(strings.TrimSpace(supervisor))
	supervisados := make(map[string]bool)
	for depto, supervisores := range supervisoresPorDepto {
		for _, s := range supervisores {
			if strings.ToLower(strings.TrimSpace(s)) == supervisorNormalizado {
				supervisados[normalizeDepartamento(depto)] = true
				break
			}
		}
	}

	var propias []models.Escuela
	for _, escuela := range escuelas {
		if supervisados[normalizeDepartamento(escuela.Departamento)] {
			propias = append(propias, escuela)
		}
	}
	return RelevantProblems(propias)
}

var (
	tituloNumerado = regexp.MustCompile(`(\d+\.\s*)\*\*(.*?)\*\*`)
	negritaSuelta  = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// CleanText rewrites the model's markdown bold markers: numbered school
// titles become <strong> and any remaining ** pairs are dropped.
func CleanText(texto string) string {
	texto = tituloNumerado.ReplaceAllString(texto, "$1<strong>$2</strong>")
	return negritaSuelta.ReplaceAllString(texto, "$1")
}
