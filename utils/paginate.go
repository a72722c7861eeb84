package utils

import (
	"fmt"

	"github.com/GeronimoSerial/relevamiento-consejo/models"
)

// PaginateEscuelas slices a (usually filtered) collection into 1-indexed
// pages of porPagina items and reports the total page count. A page past the
// end yields an empty slice with the count still computed from the full
// collection. porPagina must be positive.
func PaginateEscuelas(escuelas []models.Escuela, pagina, porPagina int) ([]models.Escuela, int, error) {
	if porPagina <= 0 {
		return nil, 0, fmt.Errorf("porPagina must be positive, got %d", porPagina)
	}

	totalPaginas := (len(escuelas) + porPagina - 1) / porPagina

	inicio := (pagina - 1) * porPagina
	fin := pagina * porPagina
	if inicio < 0 || inicio >= len(escuelas) {
		return []models.Escuela{}, totalPaginas, nil
	}
	if fin > len(escuelas) {
		fin = len(escuelas)
	}

	items := make([]models.Escuela, fin-inicio)
	copy(items, escuelas[inicio:fin])
	return items, totalPaginas, nil
}
