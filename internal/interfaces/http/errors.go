package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liberty-store/internal/application/dto"
	"github.com/jhoicas/liberty-store/internal/application/i18n"
	"github.com/jhoicas/liberty-store/internal/domain"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// El orden importa: las validaciones concretas antes que ErrInvalidInput.
var errorTable = []errorMapping{
	{domain.ErrInvalidName, fiber.StatusBadRequest, i18n.CodeInvalidName},
	{domain.ErrInvalidEmail, fiber.StatusBadRequest, i18n.CodeInvalidEmail},
	{domain.ErrInvalidPassword, fiber.StatusBadRequest, i18n.CodeInvalidPassword},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, i18n.CodeInvalidInput},
	{domain.ErrDuplicateEmail, fiber.StatusConflict, i18n.CodeDuplicateEmail},
	{domain.ErrUserNotFound, fiber.StatusNotFound, i18n.CodeUserNotFound},
	{domain.ErrWrongPassword, fiber.StatusUnauthorized, i18n.CodeWrongPassword},
	{domain.ErrVerificationNotFound, fiber.StatusNotFound, i18n.CodeVerificationNotFound},
	{domain.ErrVerificationExpired, fiber.StatusGone, i18n.CodeVerificationExpired},
	{domain.ErrVerificationMismatch, fiber.StatusBadRequest, i18n.CodeVerificationMismatch},
	{domain.ErrStorage, fiber.StatusInsufficientStorage, i18n.CodeStorage},
	{domain.ErrUnauthenticated, fiber.StatusUnauthorized, i18n.CodeUnauthenticated},
	{domain.ErrForbidden, fiber.StatusForbidden, i18n.CodeForbidden},
	{domain.ErrEmptyCart, fiber.StatusConflict, i18n.CodeEmptyCart},
	{domain.ErrIndexOutOfRange, fiber.StatusNotFound, i18n.CodeIndexOutOfRange},
	{domain.ErrNotPurchasable, fiber.StatusUnprocessableEntity, i18n.CodeNotPurchasable},
	{domain.ErrNotFound, fiber.StatusNotFound, i18n.CodeNotFound},
}

// respondError traduce un error de dominio a estado HTTP y mensaje en el idioma del cliente.
func respondError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, i18n.CodeInternal
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			status, code = m.status, m.code
			break
		}
	}
	return respondCode(c, status, code)
}

// respondCode escribe un ErrorResponse con el mensaje traducido de code.
func respondCode(c *fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message(c, code)})
}

// message texto de code en el idioma de Accept-Language.
func message(c *fiber.Ctx, code string) string {
	return i18n.Message(i18n.Match(c.Get(fiber.HeaderAcceptLanguage)), code)
}

func badBody(c *fiber.Ctx) error {
	return respondCode(c, fiber.StatusBadRequest, i18n.CodeInvalidInput)
}
