package entity

import "time"

// VerificationTTL vigencia de un código de verificación.
const VerificationTTL = 10 * time.Minute

// VerificationEntry código de verificación vivo para un email (clave verification_<email>).
// CreatedAt y ExpiresAt en milisegundos epoch, igual que el formato heredado.
type VerificationEntry struct {
	Code      string `json:"code"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Expired indica si now es posterior a la expiración.
func (e *VerificationEntry) Expired(now time.Time) bool {
	return now.UnixMilli() > e.ExpiresAt
}
