package models

// Escuela is one institution of the provincial directory. Field names and
// JSON tags follow the relevamiento source data; numeric fields that may be
// missing in the source are pointers so that "absent" and "zero" stay
// distinguishable.
type Escuela struct {
	CUE          int    `json:"cue"`
	Nombre       string `json:"nombre"`
	Director     string `json:"director"`
	Departamento string `json:"departamento"`
	Localidad    string `json:"localidad"`

	Categoria *int   `json:"categoria,omitempty"`
	Zona      string `json:"zona,omitempty"`

	Matricula2025 *int `json:"matricula2025,omitempty"`
	Matricula2024 *int `json:"matricula2024,omitempty"`

	CantidadDocenGrado      *int `json:"cantidadDocenGrado,omitempty"`
	CantidadDocenDobleTurno *int `json:"cantidadDocenDobleTurno,omitempty"`
	CantidadAdministrativos *int `json:"cantidadAdministrativos,omitempty"`
	CantidadPorteros        *int `json:"cantidadPorteros,omitempty"`

	FechaFundacion  string `json:"fechaFundacion,omitempty"`
	FechaFundacion2 *int   `json:"fechaFundacion2,omitempty"`
	EsCentenaria    string `json:"esCentenaria,omitempty"`

	Turno                    string `json:"turno,omitempty"`
	Cabecera                 string `json:"cabecera,omitempty"`
	TipoEscuela              string `json:"tipoEscuela,omitempty"`
	SituacionRevistaDirector string `json:"situacionRevistaDirector,omitempty"`
	Ubicacion                string `json:"ubicacion,omitempty"`
	ComparteEdificio         string `json:"comparteEdificio,omitempty"`
	TieneEdificioPropio      string `json:"tieneEdificioPropio,omitempty"`
	EmpresaLimpieza          string `json:"empresaLimpieza,omitempty"`
	DocenEspeciales          string `json:"DocenEspeciales,omitempty"`
	TieneProfesionalesSalud  string `json:"tieneProfesionalesSalud,omitempty"`
	TieneCopaLecheAlmuerzo   string `json:"tieneCopaLecheAlmuerzo,omitempty"`
	ProgramasAcompanamiento  string `json:"programasAcompañamiento,omitempty"`
	ConexionInternet         string `json:"conexionInternet,omitempty"`
	Problematicas            string `json:"problematicas,omitempty"`

	Mail     string `json:"mail,omitempty"`
	Correo   string `json:"correo,omitempty"`
	Telefono string `json:"telefono,omitempty"`

	Supervisor string `json:"supervisor,omitempty"`
}

// IntValue dereferences an optional numeric field, treating absence as zero.
func IntValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// IntPtr is a convenience for building records in code (fixtures, tests).
func IntPtr(v int) *int {
	return &v
}
