// Package i18n traduce los mensajes visibles para el usuario (es por defecto, en).
package i18n

import (
	"golang.org/x/text/language"
)

// Supported idiomas disponibles; el primero es el de respaldo.
var Supported = []language.Tag{language.Spanish, language.English}

var matcher = language.NewMatcher(Supported)

// Códigos de mensaje (coinciden con dto.ErrorResponse.Code).
const (
	CodeInvalidInput         = "INVALID_INPUT"
	CodeInvalidName          = "INVALID_NAME"
	CodeInvalidEmail         = "INVALID_EMAIL"
	CodeInvalidPassword      = "INVALID_PASSWORD"
	CodeDuplicateEmail       = "DUPLICATE_EMAIL"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeWrongPassword        = "WRONG_PASSWORD"
	CodeVerificationNotFound = "VERIFICATION_NOT_FOUND"
	CodeVerificationExpired  = "VERIFICATION_EXPIRED"
	CodeVerificationMismatch = "VERIFICATION_MISMATCH"
	CodeStorage              = "STORAGE_ERROR"
	CodeUnauthenticated      = "UNAUTHENTICATED"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeEmptyCart            = "EMPTY_CART"
	CodeIndexOutOfRange      = "INDEX_OUT_OF_RANGE"
	CodeNotPurchasable       = "NOT_PURCHASABLE"
	CodeNotFound             = "NOT_FOUND"
	CodeInternal             = "INTERNAL"

	MsgOwnerAccess   = "OWNER_ACCESS"
	MsgRegistered    = "REGISTERED"
	MsgCodeSent      = "CODE_SENT"
	MsgCodeOnScreen  = "CODE_ON_SCREEN"
	MsgEmailVerified = "EMAIL_VERIFIED"
	MsgUsersPurged   = "USERS_PURGED"
	MsgAllPurged     = "ALL_PURGED"
)

var catalog = map[string]map[language.Tag]string{
	CodeInvalidInput:         {language.Spanish: "Datos de entrada inválidos", language.English: "Invalid input"},
	CodeInvalidName:          {language.Spanish: "El nombre es obligatorio", language.English: "Name is required"},
	CodeInvalidEmail:         {language.Spanish: "Ingresa un correo electrónico válido (ej: usuario@gmail.com)", language.English: "Enter a valid email address (e.g. user@gmail.com)"},
	CodeInvalidPassword:      {language.Spanish: "La contraseña debe tener al menos 8 caracteres", language.English: "Password must be at least 8 characters long"},
	CodeDuplicateEmail:       {language.Spanish: "Este correo ya está registrado", language.English: "This email is already registered"},
	CodeUserNotFound:         {language.Spanish: "Usuario no encontrado. Por favor regístrate primero.", language.English: "User not found. Please sign up first."},
	CodeWrongPassword:        {language.Spanish: "Contraseña incorrecta", language.English: "Wrong password"},
	CodeVerificationNotFound: {language.Spanish: "No se encontró código de verificación. Intenta registrarte de nuevo.", language.English: "No verification code found. Please sign up again."},
	CodeVerificationExpired:  {language.Spanish: "El código de verificación ha expirado. Intenta registrarte de nuevo.", language.English: "The verification code has expired. Please sign up again."},
	CodeVerificationMismatch: {language.Spanish: "Código de verificación incorrecto.", language.English: "Incorrect verification code."},
	CodeStorage:              {language.Spanish: "No se pudo guardar: tu acción no quedó registrada", language.English: "Could not save: your action was not stored"},
	CodeUnauthenticated:      {language.Spanish: "Debes iniciar sesión para continuar", language.English: "You must sign in to continue"},
	CodeUnauthorized:         {language.Spanish: "Token de cliente inválido o ausente", language.English: "Missing or invalid client token"},
	CodeForbidden:            {language.Spanish: "No tienes permiso para esta acción", language.English: "You are not allowed to perform this action"},
	CodeEmptyCart:            {language.Spanish: "Tu carrito está vacío", language.English: "Your cart is empty"},
	CodeIndexOutOfRange:      {language.Spanish: "El producto ya no está en el carrito", language.English: "That item is no longer in the cart"},
	CodeNotPurchasable:       {language.Spanish: "Este producto tiene precio variable: consúltanos", language.English: "This product has a variable price: contact us"},
	CodeNotFound:             {language.Spanish: "Recurso no encontrado", language.English: "Resource not found"},
	CodeInternal:             {language.Spanish: "Error interno", language.English: "Internal error"},

	MsgOwnerAccess:   {language.Spanish: "Acceso como DUEÑO", language.English: "Signed in as OWNER"},
	MsgRegistered:    {language.Spanish: "Registro completado. Sesión iniciada.", language.English: "Sign-up complete. You are signed in."},
	MsgCodeSent:      {language.Spanish: "Código de verificación enviado a tu correo", language.English: "Verification code sent to your email"},
	MsgCodeOnScreen:  {language.Spanish: "No se pudo enviar por email. El código se muestra en pantalla", language.English: "Email could not be sent. The code is shown on screen"},
	MsgEmailVerified: {language.Spanish: "Email verificado correctamente.", language.English: "Email verified."},
	MsgUsersPurged:   {language.Spanish: "Usuarios eliminados", language.English: "Users deleted"},
	MsgAllPurged:     {language.Spanish: "Todos los datos locales fueron eliminados", language.English: "All local data was deleted"},
}

// Match elige el idioma soportado para una cabecera Accept-Language (español si no hay coincidencia).
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Supported[0]
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Supported[0]
	}
	return Supported[idx]
}

// Message texto de code en lang; si falta la traducción usa español y, en último caso, el código.
func Message(lang language.Tag, code string) string {
	msgs, ok := catalog[code]
	if !ok {
		return code
	}
	if m, ok := msgs[lang]; ok {
		return m
	}
	if m, ok := msgs[Supported[0]]; ok {
		return m
	}
	return code
}
