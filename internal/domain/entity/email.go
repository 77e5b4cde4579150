package entity

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail recorta espacios y pliega mayúsculas; es la clave de unicidad de usuarios.
// Un Caser no es seguro entre goroutines, por eso se crea en cada llamada.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// ValidEmailShape comprueba la forma local@dominio.tld (sin exigir dominio conocido).
func ValidEmailShape(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// EmailDomain parte tras la arroba, ya normalizada.
func EmailDomain(email string) string {
	n := NormalizeEmail(email)
	if i := strings.LastIndexByte(n, '@'); i >= 0 {
		return n[i+1:]
	}
	return ""
}
