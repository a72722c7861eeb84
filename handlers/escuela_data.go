package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/GeronimoSerial/relevamiento-consejo/config"
	"github.com/GeronimoSerial/relevamiento-consejo/models"
)

// escuelaStore holds the process-wide snapshot of the school directory.
// Loaded once at startup and swapped whole by the background refresher;
// handlers only ever read it.
type escuelaStore struct {
	sync.RWMutex
	escuelas []models.Escuela
	loadedAt time.Time
}

var store escuelaStore

// GetEscuelasSnapshot returns the current record collection. Callers must
// treat the slice as read-only.
func GetEscuelasSnapshot() []models.Escuela {
	store.RLock()
	defer store.RUnlock()
	return store.escuelas
}

// SetEscuelas replaces the snapshot (used by loaders and tests) and drops
// any cached query results derived from the previous one.
func SetEscuelas(escuelas []models.Escuela) {
	store.Lock()
	store.escuelas = escuelas
	store.loadedAt = time.Now()
	store.Unlock()

	if config.EscuelaCache != nil {
		config.EscuelaCache.Flush()
	}
}

// LoadEscuelas populates the snapshot from the configured source: the
// escuelas table in PostgreSQL, or a JSON dump when ESCUELAS_JSON is set.
func LoadEscuelas() error {
	var (
		escuelas []models.Escuela
		err      error
	)
	if path := os.Getenv("ESCUELAS_JSON"); path != "" {
		escuelas, err = loadEscuelasFromJSON(path)
	} else {
		escuelas, err = loadEscuelasFromDB()
	}
	if err != nil {
		return err
	}

	resolveSupervisores(escuelas)
	SetEscuelas(escuelas)
	log.Printf("Loaded %d escuelas into memory", len(escuelas))
	return nil
}

// StartEscuelasRefresh reloads the snapshot on the given interval. A failed
// reload keeps the previous snapshot.
func StartEscuelasRefresh(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			if err := LoadEscuelas(); err != nil {
				log.Printf("Error refreshing escuelas snapshot: %v", err)
			}
		}
	}()
}

// resolveSupervisores fills each record's supervisor from the department
// table when the source left it empty. The first-listed supervisor is the
// nominal assignee.
func resolveSupervisores(escuelas []models.Escuela) {
	for i := range escuelas {
		if escuelas[i].Supervisor != "" {
			continue
		}
		if supervisores := models.SupervisoresPorDepartamento[escuelas[i].Departamento]; len(supervisores) > 0 {
			escuelas[i].Supervisor = supervisores[0]
		}
	}
}

func loadEscuelasFromJSON(path string) ([]models.Escuela, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading escuelas JSON %s: %v", path, err)
	}
	var escuelas []models.Escuela
	if err := json.Unmarshal(data, &escuelas); err != nil {
		return nil, fmt.Errorf("error parsing escuelas JSON %s: %v", path, err)
	}
	log.Printf("Loaded escuelas from JSON file %s", path)
	return escuelas, nil
}

func loadEscuelasFromDB() ([]models.Escuela, error) {
	if config.DB == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}

	rows, err := config.DB.Query(`
        SELECT
            cue,
            COALESCE(nombre, ''),
            COALESCE(director, ''),
            COALESCE(departamento, ''),
            COALESCE(localidad, ''),
            categoria,
            COALESCE(zona, ''),
            matricula_2025,
            matricula_2024,
            cantidad_docen_grado,
            cantidad_docen_doble_turno,
            cantidad_administrativos,
            cantidad_porteros,
            COALESCE(fecha_fundacion, ''),
            fecha_fundacion_anio,
            COALESCE(es_centenaria, ''),
            COALESCE(turno, ''),
            COALESCE(cabecera, ''),
            COALESCE(tipo_escuela, ''),
            COALESCE(situacion_revista_director, ''),
            COALESCE(ubicacion, ''),
            COALESCE(comparte_edificio, ''),
            COALESCE(tiene_edificio_propio, ''),
            COALESCE(empresa_limpieza, ''),
            COALESCE(docen_especiales, ''),
            COALESCE(tiene_profesionales_salud, ''),
            COALESCE(tiene_copa_leche_almuerzo, ''),
            COALESCE(programas_acompanamiento, ''),
            COALESCE(conexion_internet, ''),
            COALESCE(problematicas, ''),
            COALESCE(mail, ''),
            COALESCE(telefono, ''),
            COALESCE(supervisor, '')
        FROM escuelas
        ORDER BY cue`)
	if err != nil {
		return nil, fmt.Errorf("error querying escuelas: %v", err)
	}
	defer rows.Close()

	var escuelas []models.Escuela
	for rows.Next() {
		var (
			e                                            models.Escuela
			categoria, matricula2025, matricula2024      sql.NullInt64
			docenGrado, docenDobleTurno, administrativos sql.NullInt64
			porteros, fundacionAnio                      sql.NullInt64
		)
		err := rows.Scan(
			&e.CUE,
			&e.Nombre,
			&e.Director,
			&e.Departamento,
			&e.Localidad,
			&categoria,
			&e.Zona,
			&matricula2025,
			&matricula2024,
			&docenGrado,
			&docenDobleTurno,
			&administrativos,
			&porteros,
			&e.FechaFundacion,
			&fundacionAnio,
			&e.EsCentenaria,
			&e.Turno,
			&e.Cabecera,
			&e.TipoEscuela,
			&e.SituacionRevistaDirector,
			&e.Ubicacion,
			&e.ComparteEdificio,
			&e.TieneEdificioPropio,
			&e.EmpresaLimpieza,
			&e.DocenEspeciales,
			&e.TieneProfesionalesSalud,
			&e.TieneCopaLecheAlmuerzo,
			&e.ProgramasAcompanamiento,
			&e.ConexionInternet,
			&e.Problematicas,
			&e.Mail,
			&e.Telefono,
			&e.Supervisor,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning escuela row: %v", err)
		}

		e.Categoria = nullableInt(categoria)
		e.Matricula2025 = nullableInt(matricula2025)
		e.Matricula2024 = nullableInt(matricula2024)
		e.CantidadDocenGrado = nullableInt(docenGrado)
		e.CantidadDocenDobleTurno = nullableInt(docenDobleTurno)
		e.CantidadAdministrativos = nullableInt(administrativos)
		e.CantidadPorteros = nullableInt(porteros)
		e.FechaFundacion2 = nullableInt(fundacionAnio)
		e.Correo = e.Mail

		escuelas = append(escuelas, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating escuelas: %v", err)
	}
	return escuelas, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
