package repositories

import (
	"errors"
	"strings"

	"booking-api/domain"

	"gorm.io/gorm"
)

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// notFoundOr traduce gorm.ErrRecordNotFound a un NotFound del dominio;
// cualquier otro error se devuelve tal cual
func notFoundOr(err error, format string, args ...interface{}) error {
	if isRecordNotFound(err) {
		return domain.NewNotFound(format, args...)
	}
	return err
}

// likeEscape es el carácter de escape de los LIKE (la barra invertida se lee
// distinto en MySQL que en Postgres/SQLite)
const likeEscape = "!"

// likeEscaper escapa los comodines que vengan en la búsqueda del usuario
var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// likePattern arma el patrón para búsquedas case-insensitive con LOWER(col) LIKE ? ESCAPE '!'
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
