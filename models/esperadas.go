package models

// EscuelasEsperadas is the expected number of institutions per localidad,
// used only for load-progress reporting.
var EscuelasEsperadas = map[string]int{
	"Bella Vista":         35,
	"Berón de Astrada":    6,
	"Capital":             86,
	"Concepción":          40,
	"Curuzú Cuatiá":       51,
	"Empedrado":           40,
	"Esquina":             59,
	"Gral. Alvear":        14,
	"Gral. Paz":           34,
	"Goya":                95,
	"Itatí":               11,
	"Ituzaingó":           37,
	"Lavalle":             43,
	"Mburucuyá":           18,
	"Mercedes":            42,
	"Monte Caseros":       39,
	"Paso de los Libres":  33,
	"San Luis del Palmar": 45,
	"Saladas":             30,
	"San Cosme":           23,
	"San Martín":          29,
	"San Miguel":          19,
	"San Roque":           29,
	"Santo Tomé":          49,
	"Sauce":               20,
}
