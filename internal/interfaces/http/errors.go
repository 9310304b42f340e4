package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-ledger/internal/application/dto"
	"github.com/jhoicas/ventas-ledger/internal/domain"
)

// statusByCode estado HTTP por código de dominio.
var statusByCode = map[string]int{
	domain.CodeInvalidOrder:        fiber.StatusBadRequest,
	domain.CodeValidation:          fiber.StatusBadRequest,
	domain.CodeNotFound:            fiber.StatusNotFound,
	domain.CodeInsufficientStock:   fiber.StatusConflict,
	domain.CodeDuplicatePayment:    fiber.StatusConflict,
	domain.CodeDuplicate:           fiber.StatusConflict,
	domain.CodeOverpayment:         fiber.StatusUnprocessableEntity,
	domain.CodeUnauthorized:        fiber.StatusUnauthorized,
	domain.CodeConcurrencyConflict: fiber.StatusServiceUnavailable,
}

// writeError traduce un error de dominio a dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	code := domain.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: domain.CodeInternal, Message: "error interno"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
