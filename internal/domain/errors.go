package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnauthenticated = errors.New("se requiere una sesión iniciada")
	ErrForbidden       = errors.New("acceso denegado")

	// Validación de registro/login.
	ErrInvalidName     = errors.New("el nombre es obligatorio")
	ErrInvalidEmail    = errors.New("correo electrónico inválido")
	ErrInvalidPassword = errors.New("la contraseña debe tener al menos 8 caracteres")
	ErrDuplicateEmail  = errors.New("el email ya está registrado")

	// Autenticación.
	ErrUserNotFound  = errors.New("usuario no encontrado")
	ErrWrongPassword = errors.New("contraseña incorrecta")

	// Verificación por email.
	ErrVerificationNotFound = errors.New("no se encontró código de verificación")
	ErrVerificationExpired  = errors.New("el código de verificación ha expirado")
	ErrVerificationMismatch = errors.New("código de verificación incorrecto")

	// Carrito y pedidos.
	ErrEmptyCart       = errors.New("el carrito está vacío")
	ErrIndexOutOfRange = errors.New("posición de carrito fuera de rango")
	ErrNotPurchasable  = errors.New("el producto no tiene precio fijo")

	// ErrStorage la escritura no tuvo efecto durable (cuota, backend caído). Siempre recuperable.
	ErrStorage = errors.New("no se pudo guardar en el almacenamiento")
)

// IsValidation indica si err pertenece a la familia de errores de validación de entrada.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidPassword)
}
