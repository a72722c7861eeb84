package utils

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/GeronimoSerial/relevamiento-consejo/models"
)

// RatioEstado is the staffing-adequacy bucket for a school's enrollment to
// grade-teacher ratio.
type RatioEstado string

const (
	EstadoDebajo   RatioEstado = "debajo"
	EstadoCerca    RatioEstado = "cerca"
	EstadoMinimo   RatioEstado = "minimo"
	EstadoArriba   RatioEstado = "arriba"
	EstadoSinDatos RatioEstado = "sin_datos"
)

// ErrCategoriaZonaInvalida reports a (categoría, zona) pair outside the
// threshold table. Never defaulted silently: a wrong threshold would skew
// severity reporting.
var ErrCategoriaZonaInvalida = errors.New("combinación de categoría y zona inválida")

// MinimoEsperado is the expected minimum ratio for a school. Categoría 4 uses
// a [Min, Max] range; every other categoría has Min == Max.
type MinimoEsperado struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Rango bool    `json:"rango"`
}

// RatioResultado is the classification of one school.
type RatioResultado struct {
	Estado         RatioEstado    `json:"estado"`
	Ratio          float64        `json:"ratio"`
	MinimoEsperado MinimoEsperado `json:"minimoEsperado"`
}

// placeholder reported with sin_datos results; callers must not read it as a
// real threshold.
var minimoPorDefecto = MinimoEsperado{Min: 20, Max: 20}

func minimoPara(categoria int, zona string) (MinimoEsperado, error) {
	valida := zona == "A" || zona == "B" || zona == "C" || zona == "D" || zona == "E"

	switch categoria {
	case 1:
		switch zona {
		case "A", "B":
			return MinimoEsperado{Min: 20, Max: 20}, nil
		case "C", "D":
			return MinimoEsperado{Min: 15, Max: 15}, nil
		case "E":
			return MinimoEsperado{Min: 8, Max: 8}, nil
		}
	case 2:
		switch zona {
		case "A", "B":
			return MinimoEsperado{Min: 15, Max: 15}, nil
		case "C", "D", "E":
			return MinimoEsperado{Min: 12, Max: 12}, nil
		}
	case 3:
		if valida {
			return MinimoEsperado{Min: 12, Max: 12}, nil
		}
	case 4:
		if valida {
			return MinimoEsperado{Min: 3, Max: 24, Rango: true}, nil
		}
	}
	return MinimoEsperado{}, fmt.Errorf("%w: categoría %d, zona %q", ErrCategoriaZonaInvalida, categoria, zona)
}

// ClassifyRatio computes matrícula 2025 / docentes de grado and classifies it
// against the categoría/zona threshold table. Schools without teacher count,
// enrollment, categoría or zona land in the sin_datos bucket rather than
// being counted below minimum. A categoría or zona outside the table returns
// ErrCategoriaZonaInvalida.
func ClassifyRatio(escuela models.Escuela) (RatioResultado, error) {
	docentes := models.IntValue(escuela.CantidadDocenGrado)
	if docentes <= 0 || escuela.Matricula2025 == nil || escuela.Categoria == nil || escuela.Zona == "" {
		return RatioResultado{Estado: EstadoSinDatos, Ratio: 0, MinimoEsperado: minimoPorDefecto}, nil
	}

	matricula := *escuela.Matricula2025
	if matricula < 0 {
		matricula = 0
	}
	ratio := float64(matricula) / float64(docentes)

	minimo, err := minimoPara(*escuela.Categoria, strings.ToUpper(strings.TrimSpace(escuela.Zona)))
	if err != nil {
		return RatioResultado{Ratio: ratio}, err
	}

	return RatioResultado{
		Estado:         clasificar(ratio, matricula, minimo),
		Ratio:          ratio,
		MinimoEsperado: minimo,
	}, nil
}

func clasificar(ratio float64, matricula int, minimo MinimoEsperado) RatioEstado {
	if minimo.Rango {
		switch {
		case ratio < minimo.Min:
			return EstadoDebajo
		case ratio > minimo.Max:
			return EstadoArriba
		default:
			return EstadoMinimo
		}
	}

	m := minimo.Min
	if matricula == 0 {
		return EstadoDebajo
	}
	if ratio < m {
		deficit := (m - ratio) / m * 100
		if deficit <= 10 {
			return EstadoCerca
		}
		return EstadoDebajo
	}
	if math.Abs(ratio-m) < 0.1 {
		return EstadoMinimo
	}
	return EstadoArriba
}

// PercentOfExpected derives the progress-bar percentage shown next to a
// school, capped at 200 for extreme outliers. For ranged minimums the whole
// [Min, Max] band reports 100.
func PercentOfExpected(r RatioResultado) float64 {
	if r.Estado == EstadoSinDatos {
		return 0
	}

	var porcentaje float64
	if r.MinimoEsperado.Rango {
		switch {
		case r.Ratio < r.MinimoEsperado.Min:
			porcentaje = r.Ratio / r.MinimoEsperado.Min * 100
		case r.Ratio > r.MinimoEsperado.Max:
			porcentaje = 100 + (r.Ratio-r.MinimoEsperado.Max)/r.MinimoEsperado.Max*100
		default:
			porcentaje = 100
		}
	} else if r.Ratio > 0 {
		porcentaje = r.Ratio / r.MinimoEsperado.Min * 100
	}

	return math.Min(porcentaje, 200)
}

// EscuelaRatio is a school annotated with its classification, as consumed by
// the matrícula-baja view.
type EscuelaRatio struct {
	CUE            int            `json:"cue"`
	Nombre         string         `json:"nombre"`
	Departamento   string         `json:"departamento"`
	Localidad      string         `json:"localidad"`
	Matricula2025  int            `json:"matricula2025"`
	Docentes       int            `json:"cantidadDocenGrado"`
	Estado         RatioEstado    `json:"estado"`
	Ratio          float64        `json:"ratio"`
	MinimoEsperado MinimoEsperado `json:"minimoEsperado"`
	Porcentaje     float64        `json:"porcentaje"`
}

// RatioInvalida surfaces a data-quality problem in a source record.
type RatioInvalida struct {
	CUE    int    `json:"cue"`
	Nombre string `json:"nombre"`
	Motivo string `json:"motivo"`
}

// RatioStats is the aggregate over a collection: per-state counts, the
// below-minimum list the UI renders (matrícula 0 first, then ascending
// percent), the schools lacking data, and the records whose categoría/zona
// could not be classified.
type RatioStats struct {
	Conteos      map[RatioEstado]int `json:"conteos"`
	DebajoMinimo []EscuelaRatio      `json:"debajoMinimo"`
	SinDatos     []EscuelaRatio      `json:"sinDatos"`
	Invalidas    []RatioInvalida     `json:"invalidas"`
}

// AggregateRatios classifies every school and folds the results into
// RatioStats. Schools in sin_datos are excluded from the below-minimum
// aggregate but listed so the UI can flag them.
func AggregateRatios(escuelas []models.Escuela) RatioStats {
	stats := RatioStats{
		Conteos:      make(map[RatioEstado]int),
		DebajoMinimo: []EscuelaRatio{},
		SinDatos:     []EscuelaRatio{},
		Invalidas:    []RatioInvalida{},
	}

	for _, escuela := range escuelas {
		resultado, err := ClassifyRatio(escuela)
		if err != nil {
			stats.Invalidas = append(stats.Invalidas, RatioInvalida{
				CUE:    escuela.CUE,
				Nombre: escuela.Nombre,
				Motivo: err.Error(),
			})
			continue
		}

		anotada := EscuelaRatio{
			CUE:            escuela.CUE,
			Nombre:         escuela.Nombre,
			Departamento:   escuela.Departamento,
			Localidad:      escuela.Localidad,
			Matricula2025:  models.IntValue(escuela.Matricula2025),
			Docentes:       models.IntValue(escuela.CantidadDocenGrado),
			Estado:         resultado.Estado,
			Ratio:          resultado.Ratio,
			MinimoEsperado: resultado.MinimoEsperado,
			Porcentaje:     PercentOfExpected(resultado),
		}

		if resultado.Estado == EstadoSinDatos {
			stats.SinDatos = append(stats.SinDatos, anotada)
			continue
		}

		stats.Conteos[resultado.Estado]++
		if resultado.Estado == EstadoDebajo {
			stats.DebajoMinimo = append(stats.DebajoMinimo, anotada)
		}
	}

	sort.SliceStable(stats.DebajoMinimo, func(i, j int) bool {
		a, b := stats.DebajoMinimo[i], stats.DebajoMinimo[j]
		if (a.Matricula2025 == 0) != (b.Matricula2025 == 0) {
			return a.Matricula2025 == 0
		}
		return a.Porcentaje < b.Porcentaje
	})

	return stats
}
