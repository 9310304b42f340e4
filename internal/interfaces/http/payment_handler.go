package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-ledger/internal/application/dto"
	"github.com/jhoicas/ventas-ledger/internal/application/ledger"
)

// PaymentHandler registro y consulta de pagos.
type PaymentHandler struct {
	svc *ledger.Service
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(svc *ledger.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// Register godoc
// @Summary      Registrar pago de un pedido
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterPaymentRequest  true  "Pago"
// @Success      201   {object}  dto.RegisterPaymentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.ApplyPayment(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByOrder pagos de un pedido.
func (h *PaymentHandler) ListByOrder(c *fiber.Ctx) error {
	out, err := h.svc.ListPayments(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de cobro del pedido
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.PaymentSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/order/{id}/summary [get]
func (h *PaymentHandler) Summary(c *fiber.Ctx) error {
	out, err := h.svc.GetPaymentSummary(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
