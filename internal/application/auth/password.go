package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength longitud mínima tras recortar espacios.
const MinPasswordLength = 8

// sealPassword devuelve el valor a almacenar: hash bcrypt o, si el hash está deshabilitado, el texto plano.
func sealPassword(plain string, hash bool) (string, error) {
	if !hash {
		return plain, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

// passwordMatches compara contra un hash bcrypt o contra texto plano heredado.
// Tolera espacios accidentales: acepta la entrada exacta o recortada.
func passwordMatches(stored, input string) bool {
	candidates := []string{input}
	if t := strings.TrimSpace(input); t != input {
		candidates = append(candidates, t)
	}
	for _, c := range candidates {
		if isBcryptHash(stored) {
			if bcrypt.CompareHashAndPassword([]byte(stored), []byte(c)) == nil {
				return true
			}
			continue
		}
		if subtle.ConstantTimeCompare([]byte(stored), []byte(c)) == 1 {
			return true
		}
	}
	return false
}
