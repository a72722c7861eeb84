package handlers

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"sort"

	"github.com/GeronimoSerial/relevamiento-consejo/config"
	"github.com/GeronimoSerial/relevamiento-consejo/models"
	"github.com/GeronimoSerial/relevamiento-consejo/utils"
)

// GetResumen returns the directory-wide totals shown on the stats landing
// page.
func GetResumen(w http.ResponseWriter, r *http.Request) {
	escuelas := GetEscuelasSnapshot()

	var matricula2025, matricula2024 int
	departamentos := make(map[string]bool)
	localidades := make(map[string]bool)
	for _, escuela := range escuelas {
		matricula2025 += models.IntValue(escuela.Matricula2025)
		matricula2024 += models.IntValue(escuela.Matricula2024)
		if escuela.Departamento != "" {
			departamentos[escuela.Departamento] = true
		}
		if escuela.Localidad != "" {
			localidades[escuela.Localidad] = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]int{
			"totalEscuelas": len(escuelas),
			"matricula2025": matricula2025,
			"matricula2024": matricula2024,
			"departamentos": len(departamentos),
			"localidades":   len(localidades),
		},
	})
}

// MatriculaDepartamento is one bar of the enrollment-by-department chart.
type MatriculaDepartamento struct {
	Departamento  string `json:"departamento"`
	Matricula2025 int    `json:"matricula2025"`
	Matricula2024 int    `json:"matricula2024"`
}

// GetMatriculaPorDepartamento aggregates 2024/2025 enrollment per department.
func GetMatriculaPorDepartamento(w http.ResponseWriter, r *http.Request) {
	porDepto := make(map[string]*MatriculaDepartamento)
	for _, escuela := range GetEscuelasSnapshot() {
		departamento := escuela.Departamento
		if departamento == "" {
			departamento = "Sin departamento"
		}
		entry, ok := porDepto[departamento]
		if !ok {
			entry = &MatriculaDepartamento{Departamento: departamento}
			porDepto[departamento] = entry
		}
		entry.Matricula2025 += models.IntValue(escuela.Matricula2025)
		entry.Matricula2024 += models.IntValue(escuela.Matricula2024)
	}

	data := make([]MatriculaDepartamento, 0, len(porDepto))
	for _, entry := range porDepto {
		data = append(data, *entry)
	}
	sort.Slice(data, func(i, j int) bool {
		if data[i].Matricula2025 != data[j].Matricula2025 {
			return data[i].Matricula2025 > data[j].Matricula2025
		}
		return data[i].Departamento < data[j].Departamento
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// CountBucket is a generic name/count pair for the pie charts.
type CountBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func countBy(escuelas []models.Escuela, bucket func(models.Escuela) string) []CountBucket {
	counts := make(map[string]int)
	for _, escuela := range escuelas {
		counts[bucket(escuela)]++
	}
	data := make([]CountBucket, 0, len(counts))
	for name, value := range counts {
		data = append(data, CountBucket{Name: name, Value: value})
	}
	sort.Slice(data, func(i, j int) bool {
		if data[i].Value != data[j].Value {
			return data[i].Value > data[j].Value
		}
		return data[i].Name < data[j].Name
	})
	return data
}

// GetEscuelasPorCategoria counts schools per administrative category.
func GetEscuelasPorCategoria(w http.ResponseWriter, r *http.Request) {
	data := countBy(GetEscuelasSnapshot(), func(e models.Escuela) string {
		if e.Categoria == nil {
			return "Sin categoría"
		}
		return fmt.Sprintf("Categoría %d", *e.Categoria)
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": data})
}

// GetConectividad counts schools per reported internet connection type.
func GetConectividad(w http.ResponseWriter, r *http.Request) {
	data := countBy(GetEscuelasSnapshot(), func(e models.Escuela) string {
		if e.ConexionInternet == "" {
			return "Sin datos"
		}
		return e.ConexionInternet
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": data})
}

// GetEdificio counts schools by own-building status.
func GetEdificio(w http.ResponseWriter, r *http.Request) {
	data := countBy(GetEscuelasSnapshot(), func(e models.Escuela) string {
		switch e.TieneEdificioPropio {
		case "Sí":
			return "Edificio propio"
		case "No":
			return "Edificio compartido"
		default:
			return "Sin datos"
		}
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": data})
}

// GetProgramas counts schools per acompañamiento program.
func GetProgramas(w http.ResponseWriter, r *http.Request) {
	data := countBy(GetEscuelasSnapshot(), func(e models.Escuela) string {
		if e.ProgramasAcompanamiento == "" {
			return "Sin programas"
		}
		return e.ProgramasAcompanamiento
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": data})
}

// AvanceLocalidad reports load progress against the expected institution
// count for one locality.
type AvanceLocalidad struct {
	Localidad  string `json:"localidad"`
	Cargadas   int    `json:"cargadas"`
	Esperadas  int    `json:"esperadas"`
	Porcentaje int    `json:"porcentaje"`
}

// GetAvance compares loaded school counts against the expected totals per
// locality, sorted by progress ascending so laggards show first.
func GetAvance(w http.ResponseWriter, r *http.Request) {
	cargadasPor := make(map[string]int)
	for _, escuela := range GetEscuelasSnapshot() {
		cargadasPor[utils.NormalizeText(escuela.Localidad)]++
	}

	data := make([]AvanceLocalidad, 0, len(models.EscuelasEsperadas))
	for localidad, esperadas := range models.EscuelasEsperadas {
		cargadas := cargadasPor[utils.NormalizeText(localidad)]
		porcentaje := 0
		if esperadas > 0 {
			porcentaje = int(math.Round(float64(cargadas) / float64(esperadas) * 100))
		}
		data = append(data, AvanceLocalidad{
			Localidad:  localidad,
			Cargadas:   cargadas,
			Esperadas:  esperadas,
			Porcentaje: porcentaje,
		})
	}
	sort.Slice(data, func(i, j int) bool {
		if data[i].Porcentaje != data[j].Porcentaje {
			return data[i].Porcentaje < data[j].Porcentaje
		}
		return data[i].Localidad < data[j].Localidad
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": data})
}

// GetMatriculaBaja returns the ratio classification aggregate. Records whose
// categoría/zona fall outside the threshold table are reported, not
// reclassified.
func GetMatriculaBaja(w http.ResponseWriter, r *http.Request) {
	cacheKey := config.GetCacheKey("stats", "matricula-baja")
	if config.EscuelaCache != nil {
		if cached, found := config.EscuelaCache.Get(cacheKey); found {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	stats := utils.AggregateRatios(GetEscuelasSnapshot())
	for _, invalida := range stats.Invalidas {
		log.Printf("Data quality: escuela %d (%s): %s", invalida.CUE, invalida.Nombre, invalida.Motivo)
	}

	response := map[string]interface{}{
		"success": true,
		"data":    stats,
	}
	if config.EscuelaCache != nil {
		config.EscuelaCache.SetDefault(cacheKey, response)
	}
	writeJSON(w, http.StatusOK, response)
}
