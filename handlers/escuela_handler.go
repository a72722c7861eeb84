package handlers

import (
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/GeronimoSerial/relevamiento-consejo/config"
	"github.com/GeronimoSerial/relevamiento-consejo/models"
	"github.com/GeronimoSerial/relevamiento-consejo/utils"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	maxSuggestions  = 10
)

type PaginationInfo struct {
	Total       int `json:"total"`
	Pages       int `json:"pages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

type EscuelasResponse struct {
	Success    bool             `json:"success"`
	Pagination PaginationInfo   `json:"pagination"`
	Data       []models.Escuela `json:"data"`
}

// GetEscuelas lists schools with optional search term, supervisor filter and
// pagination: /escuelas?q=&supervisor=&page=&limit=
func GetEscuelas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	supervisor := r.URL.Query().Get("supervisor")

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	cacheKey := config.GetCacheKey("escuelas", q, supervisor, page, limit)
	if config.EscuelaCache != nil {
		if cached, found := config.EscuelaCache.Get(cacheKey); found {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	escuelas := GetEscuelasSnapshot()
	filtradas := utils.FilterEscuelas(escuelas, q, supervisor, models.SupervisoresPorDepartamento)
	items, totalPaginas, err := utils.PaginateEscuelas(filtradas, page, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := EscuelasResponse{
		Success: true,
		Pagination: PaginationInfo{
			Total:       len(filtradas),
			Pages:       totalPaginas,
			CurrentPage: page,
			Limit:       limit,
		},
		Data: items,
	}

	if config.EscuelaCache != nil {
		config.EscuelaCache.SetDefault(cacheKey, response)
	}
	writeJSON(w, http.StatusOK, response)
}

// GetEscuelaByCUE returns a single school: /escuelas/{cue}
func GetEscuelaByCUE(w http.ResponseWriter, r *http.Request) {
	cue, err := strconv.Atoi(mux.Vars(r)["cue"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "CUE must be numeric")
		return
	}

	for _, escuela := range GetEscuelasSnapshot() {
		if escuela.CUE == cue {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"data":    escuela,
			})
			return
		}
	}

	log.Printf("GetEscuelaByCUE: no school with CUE %d", cue)
	writeError(w, http.StatusNotFound, "escuela not found")
}

// AniversarioEscuela is a school celebrating its founding anniversary today.
type AniversarioEscuela struct {
	models.Escuela
	Anios int `json:"anios"`
}

// GetAniversarios returns the schools whose founding date (MM/DD/YYYY) falls
// on today's day and month and whose recorded year agrees with the founding
// year field, de-duplicated by CUE and name.
func GetAniversarios(w http.ResponseWriter, r *http.Request) {
	hoy := time.Now()
	resultado := aniversariosDelDia(GetEscuelasSnapshot(), hoy)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"fecha":   hoy.Format("2006-01-02"),
		"data":    resultado,
	})
}

func aniversariosDelDia(escuelas []models.Escuela, hoy time.Time) []AniversarioEscuela {
	vistos := make(map[string]bool)
	resultado := []AniversarioEscuela{}

	for _, escuela := range escuelas {
		partes := strings.Split(escuela.FechaFundacion, "/")
		if len(partes) != 3 {
			continue
		}
		mes, err1 := strconv.Atoi(partes[0])
		dia, err2 := strconv.Atoi(partes[1])
		anio, err3 := strconv.Atoi(partes[2])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		if dia != hoy.Day() || mes != int(hoy.Month()) {
			continue
		}
		if escuela.FechaFundacion2 == nil || *escuela.FechaFundacion2 != anio {
			continue
		}

		key := strconv.Itoa(escuela.CUE) + "-" + escuela.Nombre
		if vistos[key] {
			continue
		}
		vistos[key] = true

		resultado = append(resultado, AniversarioEscuela{
			Escuela: escuela,
			Anios:   hoy.Year() - anio,
		})
	}
	return resultado
}

// GetDepartamentoSuggestions suggests department names:
// /escuelas/departamentos/suggest?q=
func GetDepartamentoSuggestions(w http.ResponseWriter, r *http.Request) {
	suggest(w, r, func(e models.Escuela) string { return e.Departamento })
}

// GetLocalidadSuggestions suggests locality names:
// /escuelas/localidades/suggest?q=
func GetLocalidadSuggestions(w http.ResponseWriter, r *http.Request) {
	suggest(w, r, func(e models.Escuela) string { return e.Localidad })
}

func suggest(w http.ResponseWriter, r *http.Request, field func(models.Escuela) string) {
	q := utils.NormalizeText(r.URL.Query().Get("q"))

	distintos := make(map[string]string)
	for _, escuela := range GetEscuelasSnapshot() {
		valor := field(escuela)
		if valor == "" {
			continue
		}
		normalizado := utils.NormalizeText(valor)
		if q != "" && !strings.Contains(normalizado, q) {
			continue
		}
		distintos[normalizado] = valor
	}

	suggestions := make([]string, 0, len(distintos))
	for _, valor := range distintos {
		suggestions = append(suggestions, valor)
	}
	sort.Strings(suggestions)
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
	})
}

// SupervisorInfo pairs a supervisor with the departments they cover.
type SupervisorInfo struct {
	Nombre        string   `json:"nombre"`
	Departamentos []string `json:"departamentos"`
}

// GetSupervisores lists the supervisor roster with covered departments.
func GetSupervisores(w http.ResponseWriter, r *http.Request) {
	supervisores := make([]SupervisorInfo, 0, len(models.TodosSupervisores))
	for _, nombre := range models.TodosSupervisores {
		deptos := models.DepartamentosDeSupervisor(nombre)
		sort.Strings(deptos)
		supervisores = append(supervisores, SupervisorInfo{
			Nombre:        nombre,
			Departamentos: deptos,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    supervisores,
	})
}
