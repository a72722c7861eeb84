package models

// SupervisoresPorDepartamento maps each department to the supervisors that
// review its schools. Loaded once, never mutated; safe for concurrent reads.
var SupervisoresPorDepartamento = map[string][]string{
	"Berón de Astrada":    {"Virginia Coronel"},
	"San Cosme":           {"Virginia Coronel", "Patricia Ponce (Nivel Inicial)"},
	"Ituzaingó":           {"Virginia Coronel", "Patricia Ponce (Nivel Inicial)"},
	"San Miguel":          {"Virginia Coronel", "Patricia Ponce (Nivel Inicial)"},
	"San Roque":           {"Sandra Esquivel", "Norma Briend (Nivel Inicial)"},
	"Mercedes":            {"Gonzales, Milagros", "Claudia Fonseca (Nivel Inicial)"},
	"San Martín":          {"Gonzales, Milagros", "Claudia Fonseca (Nivel Inicial)"},
	"Esquina":             {"Edith Sanchez", "Norma Briend (Nivel Inicial)"},
	"Goya":                {"Edith Sanchez", "Norma Monzon", "Norma Briend (Nivel Inicial)"},
	"Curuzú Cuatiá":       {"Leyes Edid", "Claudia Fonseca (Nivel Inicial)"},
	"Sauce":               {"Leyes Edid", "Norma Briend (Nivel Inicial)"},
	"Capital": {
		"Leyes Edid",
		"Fernandez Juan Carlos",
		"Daniel Alberto Gomez",
		"Monica Beatriz Esquivel",
		"Claudia Fonseca (Nivel Inicial)",
		"Patricia Ponce (Nivel Inicial)",
		"Norma Briend (Nivel Inicial)",
	},
	"Gral. Alvear":        {"Nancy Aguilar Rivero", "Claudia Fonseca (Nivel Inicial)"},
	"Santo Tomé":          {"Nancy Aguilar Rivero", "Patricia Ponce (Nivel Inicial)"},
	"Concepción":          {"Blanca Gutierrez", "Patricia Ponce (Nivel Inicial)"},
	"Mburucuyá":           {"Blanca Gutierrez", "Patricia Ponce (Nivel Inicial)"},
	"San Luis del Palmar": {"Fernandez Juan Carlos", "Claudia Fonseca (Nivel Inicial)"},
	"Itatí":               {"Daniel Alberto Gomez", "Patricia Ponce (Nivel Inicial)"},
	"Saladas":             {"Daniel Alberto Gomez", "Patricia Ponce (Nivel Inicial)"},
	"Empedrado":           {"Silvia Zabala", "Norma Briend (Nivel Inicial)"},
	"Bella Vista":         {"Silvia Zabala", "Norma Briend (Nivel Inicial)"},
	"Gral. Paz":           {"Monica Beatriz Esquivel", "Patricia Ponce (Nivel Inicial)"},
	"Paso de los Libres":  {"Dora Liliana Peñalber", "Claudia Fonseca (Nivel Inicial)"},
	"Monte Caseros":       {"Dora Liliana Peñalber", "Claudia Fonseca (Nivel Inicial)"},
	"Lavalle":             {"Norma Briend (Nivel Inicial)"},
}

// TodosSupervisores is the full supervisor roster exposed to the filter UI.
var TodosSupervisores = []string{
	"Virginia Coronel",
	"Sandra Esquivel",
	"Gonzales, Milagros",
	"Edith Sanchez",
	"Leyes Edid",
	"Nancy Aguilar Rivero",
	"Blanca Gutierrez",
	"Fernandez Juan Carlos",
	"Daniel Alberto Gomez",
	"Silvia Zabala",
	"Norma Monzon",
	"Monica Beatriz Esquivel",
	"Dora Liliana Peñalber",
	"Claudia Fonseca (Nivel Inicial)",
	"Patricia Ponce (Nivel Inicial)",
	"Norma Briend (Nivel Inicial)",
}

// DepartamentosDeSupervisor returns the departments a supervisor covers.
// Map iteration order is not stable; callers needing stable output sort it.
func DepartamentosDeSupervisor(supervisor string) []string {
	var deptos []string
	for depto, supervisores := range SupervisoresPorDepartamento {
		for _, s := range supervisores {
			if s == supervisor {
				deptos = append(deptos, depto)
				break
			}
		}
	}
	return deptos
}
