package entity

import "strings"

// Claves del almacén de documentos (dentro del espacio de nombres de cada cliente).
const (
	KeyRegisteredUsers  = "registeredUsers"
	KeySession          = "user"
	KeyOrders           = "orders"
	KeyLegacyOrders     = "liberty_orders"
	KeyStaffList        = "staffList"
	KeyDisableDemoUsers = "disableDemoUsers"
	KeyAuthCleanupDone  = "auth_cleanup_done_v1"
	KeySchemaVersion    = "schema_version"
	KeyAnalyticsEvents  = "analytics-events"

	KeyGlobalCart   = "cart"
	KeyLegacyCartV1 = "liberty_cart_v1"
	KeyLegacyCart   = "liberty_cart"

	PrefixVerification = "verification_"
	PrefixPending      = "pendingRegistration_"
	PrefixUserCart     = "cart_"
)

// FlagOn valor centinela de las claves bandera.
const FlagOn = "1"

// VerificationKey clave del código vivo de un email.
func VerificationKey(email string) string { return PrefixVerification + email }

// PendingKey clave del registro pendiente de un email.
func PendingKey(email string) string { return PrefixPending + email }

// IsAuthTransientKey indica si key es un código de verificación o un registro pendiente.
func IsAuthTransientKey(key string) bool {
	return strings.HasPrefix(key, PrefixVerification) || strings.HasPrefix(key, PrefixPending)
}

// IsFlagOn acepta la bandera guardada como "1" (JSON) o como 1 sin comillas (formato heredado).
func IsFlagOn(raw []byte) bool {
	return strings.Trim(strings.TrimSpace(string(raw)), `"`) == FlagOn
}
