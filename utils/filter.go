package utils

import (
	"strconv"
	"strings"

	"github.com/GeronimoSerial/relevamiento-consejo/models"
)

// FilterEscuelas applies the search box semantics: the term is normalized and
// split on whitespace, and a school matches when every sub-term appears in at
// least one of nombre, CUE, director, localidad or departamento. A non-empty
// supervisor additionally requires the school's own supervisor to equal the
// value, or the school's department to list it in supervisoresPorDepto.
// The input slice is never mutated and relative order is preserved.
func FilterEscuelas(escuelas []models.Escuela, termino, supervisor string, supervisoresPorDepto map[string][]string) []models.Escuela {
	terminos := strings.Fields(NormalizeText(termino))
	if len(terminos) == 0 && supervisor == "" {
		return escuelas
	}

	filtradas := make([]models.Escuela, 0, len(escuelas))
	for _, escuela := range escuelas {
		if !matchesTerminos(escuela, terminos) {
			continue
		}
		if supervisor != "" && !matchesSupervisor(escuela, supervisor, supervisoresPorDepto) {
			continue
		}
		filtradas = append(filtradas, escuela)
	}
	return filtradas
}

func matchesTerminos(escuela models.Escuela, terminos []string) bool {
	if len(terminos) == 0 {
		return true
	}

	campos := []string{
		NormalizeText(escuela.Nombre),
		strconv.Itoa(escuela.CUE),
		NormalizeText(escuela.Director),
		NormalizeText(escuela.Localidad),
		NormalizeText(escuela.Departamento),
	}

	for _, termino := range terminos {
		found := false
		for _, campo := range campos {
			if strings.Contains(campo, termino) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchesSupervisor(escuela models.Escuela, supervisor string, supervisoresPorDepto map[string][]string) bool {
	if escuela.Supervisor == supervisor {
		return true
	}
	for _, s := range supervisoresPorDepto[escuela.Departamento] {
		if s == supervisor {
			return true
		}
	}
	return false
}
