package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeronimoSerial/relevamiento-consejo/models"
	"github.com/GeronimoSerial/relevamiento-consejo/utils"
)

func escuelasEstadisticas() []models.Escuela {
	return []models.Escuela{
		{
			CUE: 180001, Nombre: "Escuela 1", Departamento: "Capital", Localidad: "Corrientes",
			Categoria: models.IntPtr(1), Zona: "A",
			Matricula2025: models.IntPtr(100), Matricula2024: models.IntPtr(90),
			CantidadDocenGrado:  models.IntPtr(5),
			ConexionInternet:    "Fibra óptica",
			TieneEdificioPropio: "Sí",
		},
		{
			CUE: 180002, Nombre: "Escuela 2", Departamento: "Capital", Localidad: "Corrientes",
			Categoria: models.IntPtr(1), Zona: "A",
			Matricula2025: models.IntPtr(40), Matricula2024: models.IntPtr(45),
			CantidadDocenGrado:  models.IntPtr(5),
			ConexionInternet:    "Fibra óptica",
			TieneEdificioPropio: "No",
		},
		{
			CUE: 180003, Nombre: "Escuela 3", Departamento: "Goya", Localidad: "Goya",
			Categoria: models.IntPtr(2), Zona: "E",
			Matricula2025: models.IntPtr(60), Matricula2024: models.IntPtr(60),
			CantidadDocenGrado: models.IntPtr(4),
		},
	}
}

func TestGetResumen(t *testing.T) {
	seedEscuelas(t, escuelasEstadisticas())

	rec := doRequest(http.MethodGet, "/api/v1/estadisticas/resumen", GetResumen)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Data["totalEscuelas"])
	assert.Equal(t, 200, resp.Data["matricula2025"])
	assert.Equal(t, 195, resp.Data["matricula2024"])
	assert.Equal(t, 2, resp.Data["departamentos"])
	assert.Equal(t, 2, resp.Data["localidades"])
}

func TestGetMatriculaPorDepartamento(t *testing.T) {
	seedEscuelas(t, escuelasEstadisticas())

	rec := doRequest(http.MethodGet, "/api/v1/estadisticas/matricula", GetMatriculaPorDepartamento)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []MatriculaDepartamento `json:"data"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, MatriculaDepartamento{Departamento: "Capital", Matricula2025: 140, Matricula2024: 135}, resp.Data[0])
	assert.Equal(t, MatriculaDepartamento{Departamento: "Goya", Matricula2025: 60, Matricula2024: 60}, resp.Data[1])
}

func TestGetEscuelasPorCategoria(t *testing.T) {
	escuelas := escuelasEstadisticas()
	escuelas = append(escuelas, models.Escuela{CUE: 180004, Nombre: "Sin datos"})
	seedEscuelas(t, escuelas)

	rec := doRequest(http.MethodGet, "/api/v1/estadisticas/categorias", GetEscuelasPorCategoria)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []CountBucket `json:"data"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, CountBucket{Name: "Categoría 1", Value: 2}, resp.Data[0])
	// Ties sort by name.
	assert.Equal(t, CountBucket{Name: "Categoría 2", Value: 1}, resp.Data[1])
	assert.Equal(t, CountBucket{Name: "Sin categoría", Value: 1}, resp.Data[2])
}

func TestGetEdificio(t *testing.T) {
	seedEscuelas(t, escuelasEstadisticas())

	rec := doRequest(http.MethodGet, "/api/v1/estadisticas/edificio", GetEdificio)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []CountBucket `json:"data"`
	}
	decodeBody(t, rec, &resp)
	assert.ElementsMatch(t, []CountBucket{
		{Name: "Edificio propio", Value: 1},
		{Name: "Edificio compartido", Value: 1},
		{Name: "Sin datos", Value: 1},
	}, resp.Data)
}

func TestGetAvance(t *testing.T) {
	seedEscuelas(t, escuelasEstadisticas())

	rec := doRequest(http.MethodGet, "/api/v1/estadisticas/avance", GetAvance)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []AvanceLocalidad `json:"data"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Data, len(models.EscuelasEsperadas))

	// Progress sorts ascending: localities without loaded schools come first.
	assert.Zero(t, resp.Data[0].Porcentaje)

	byLocalidad := make(map[string]AvanceLocalidad)
	for _, avance := range resp.Data {
		byLocalidad[avance.Localidad] = avance
	}
	goya, ok := byLocalidad["Goya"]
	require.True(t, ok)
	assert.Equal(t, 1, goya.Cargadas)
	esperadas := models.EscuelasEsperadas["Goya"]
	require.Positive(t, esperadas)
	assert.Equal(t, int(float64(1)/float64(esperadas)*100+0.5), goya.Porcentaje)
}

func TestGetMatriculaBaja(t *testing.T) {
	escuelas := escuelasEstadisticas()
	escuelas = append(escuelas, models.Escuela{
		CUE: 180005, Nombre: "Zona inválida",
		Categoria: models.IntPtr(1), Zona: "Z",
		Matricula2025:      models.IntPtr(50),
		CantidadDocenGrado: models.IntPtr(5),
	})
	seedEscuelas(t, escuelas)

	rec := doRequest(http.MethodGet, "/api/v1/estadisticas/matricula-baja", GetMatriculaBaja)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    utils.RatioStats `json:"data"`
	}
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)

	// 100/5=20 minimo, 40/5=8 debajo, 60/4=15 arriba (cat 2 zona E, min 12).
	assert.Equal(t, 1, resp.Data.Conteos[utils.EstadoMinimo])
	assert.Equal(t, 1, resp.Data.Conteos[utils.EstadoDebajo])
	assert.Equal(t, 1, resp.Data.Conteos[utils.EstadoArriba])
	require.Len(t, resp.Data.DebajoMinimo, 1)
	assert.Equal(t, 180002, resp.Data.DebajoMinimo[0].CUE)
	require.Len(t, resp.Data.Invalidas, 1)
	assert.Equal(t, 180005, resp.Data.Invalidas[0].CUE)
}
