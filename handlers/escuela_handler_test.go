package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeronimoSerial/relevamiento-consejo/models"
)

// Handler tests share the package-level snapshot, so they run sequentially
// and reseed before each request.

func seedEscuelas(t *testing.T, escuelas []models.Escuela) {
	t.Helper()
	SetEscuelas(escuelas)
	t.Cleanup(func() { SetEscuelas(nil) })
}

func escuelasDirectorio() []models.Escuela {
	return []models.Escuela{
		{
			CUE:          180001,
			Nombre:       "Escuela N° 1 Villa María",
			Director:     "Juan Pérez",
			Departamento: "Capital",
			Localidad:    "Corrientes",
		},
		{
			CUE:          180002,
			Nombre:       "Escuela N° 2 San José",
			Director:     "María Gómez",
			Departamento: "Goya",
			Localidad:    "Goya",
			Supervisor:   "Edith Sanchez",
		},
		{
			CUE:          180003,
			Nombre:       "Escuela N° 3 Belgrano",
			Director:     "Carlos López",
			Departamento: "Goya",
			Localidad:    "Colonia Carolina",
		},
	}
}

func doRequest(method, target string, handler http.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestGetEscuelasDefaults(t *testing.T) {
	seedEscuelas(t, escuelasDirectorio())

	rec := doRequest(http.MethodGet, "/api/v1/escuelas", GetEscuelas)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EscuelasResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 3)
	assert.Equal(t, 3, resp.Pagination.Total)
	assert.Equal(t, 1, resp.Pagination.Pages)
	assert.Equal(t, 1, resp.Pagination.CurrentPage)
	assert.Equal(t, defaultPageSize, resp.Pagination.Limit)
}

func TestGetEscuelasSearchAccentInsensitive(t *testing.T) {
	seedEscuelas(t, escuelasDirectorio())

	rec := doRequest(http.MethodGet, "/api/v1/escuelas?q=villa+maria", GetEscuelas)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EscuelasResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 180001, resp.Data[0].CUE)
}

func TestGetEscuelasSupervisorFilter(t *testing.T) {
	seedEscuelas(t, escuelasDirectorio())

	// Edith Sanchez covers Goya: one school by attribute, one by department.
	rec := doRequest(http.MethodGet, "/api/v1/escuelas?supervisor=Edith+Sanchez", GetEscuelas)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EscuelasResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 2, resp.Pagination.Total)
}

func TestGetEscuelasPagination(t *testing.T) {
	escuelas := make([]models.Escuela, 0, 120)
	for i := 1; i <= 120; i++ {
		escuelas = append(escuelas, models.Escuela{CUE: 180000 + i, Nombre: "Escuela"})
	}
	seedEscuelas(t, escuelas)

	rec := doRequest(http.MethodGet, "/api/v1/escuelas?page=3&limit=50", GetEscuelas)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EscuelasResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 3, resp.Pagination.Pages)
	assert.Equal(t, 3, resp.Pagination.CurrentPage)
	assert.Len(t, resp.Data, 20)
}

func TestGetEscuelasClampsInvalidParams(t *testing.T) {
	seedEscuelas(t, escuelasDirectorio())

	rec := doRequest(http.MethodGet, "/api/v1/escuelas?page=abc&limit=9999", GetEscuelas)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EscuelasResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 1, resp.Pagination.CurrentPage)
	assert.Equal(t, maxPageSize, resp.Pagination.Limit)
}

func TestGetEscuelaByCUE(t *testing.T) {
	seedEscuelas(t, escuelasDirectorio())

	router := mux.NewRouter()
	router.HandleFunc("/escuelas/{cue:[0-9]+}", GetEscuelaByCUE)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/escuelas/180002", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool           `json:"success"`
		Data    models.Escuela `json:"data"`
	}
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "Escuela N° 2 San José", resp.Data.Nombre)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/escuelas/999999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAniversariosDelDia(t *testing.T) {
	hoy := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

	escuelas := []models.Escuela{
		{
			CUE: 180001, Nombre: "Cumple hoy",
			FechaFundacion: "03/15/1950", FechaFundacion2: models.IntPtr(1950),
		},
		{
			CUE: 180002, Nombre: "Años en desacuerdo",
			FechaFundacion: "03/15/1950", FechaFundacion2: models.IntPtr(1960),
		},
		{
			CUE: 180003, Nombre: "Otro día",
			FechaFundacion: "07/09/1950", FechaFundacion2: models.IntPtr(1950),
		},
		{
			CUE: 180004, Nombre: "Fecha malformada",
			FechaFundacion: "15 de marzo de 1950", FechaFundacion2: models.IntPtr(1950),
		},
		{
			CUE: 180001, Nombre: "Cumple hoy",
			FechaFundacion: "03/15/1950", FechaFundacion2: models.IntPtr(1950),
		},
	}

	resultado := aniversariosDelDia(escuelas, hoy)
	require.Len(t, resultado, 1)
	assert.Equal(t, 180001, resultado[0].CUE)
	assert.Equal(t, 76, resultado[0].Anios)
}

func TestSuggestLocalidades(t *testing.T) {
	seedEscuelas(t, escuelasDirectorio())

	rec := doRequest(http.MethodGet, "/api/v1/escuelas/localidades/suggest?q=co", GetLocalidadSuggestions)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, []string{"Colonia Carolina", "Corrientes"}, resp.Suggestions)
}

func TestSuggestCapsResults(t *testing.T) {
	escuelas := make([]models.Escuela, 0, 15)
	for i := 0; i < 15; i++ {
		escuelas = append(escuelas, models.Escuela{
			CUE:       180000 + i,
			Localidad: "Localidad " + string(rune('A'+i)),
		})
	}
	seedEscuelas(t, escuelas)

	rec := doRequest(http.MethodGet, "/api/v1/escuelas/localidades/suggest", GetLocalidadSuggestions)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	decodeBody(t, rec, &resp)
	assert.Len(t, resp.Suggestions, maxSuggestions)
}

func TestGetSupervisores(t *testing.T) {
	rec := doRequest(http.MethodGet, "/api/v1/supervisores", GetSupervisores)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    []SupervisorInfo `json:"data"`
	}
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.Data)
	for _, s := range resp.Data {
		assert.NotEmpty(t, s.Nombre)
		assert.NotEmpty(t, s.Departamentos, "supervisor %s without departments", s.Nombre)
	}
}
