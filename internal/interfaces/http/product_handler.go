package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-ledger/internal/application/dto"
	"github.com/jhoicas/ventas-ledger/internal/application/ledger"
	"github.com/jhoicas/ventas-ledger/internal/application/usecase"
)

// ProductHandler catálogo y correcciones de stock.
type ProductHandler struct {
	uc  *usecase.ProductUseCase
	svc *ledger.Service
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, svc *ledger.Service) *ProductHandler {
	return &ProductHandler{uc: uc, svc: svc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock productos en o bajo su stock mínimo.
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.svc.GetLowStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Release devuelve unidades al stock.
func (h *ProductHandler) Release(c *fiber.Ctx) error {
	var in dto.StockReleaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.ReleaseStock(c.UserContext(), actorFrom(c), c.Params("id"), in.Cantidad)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetStock fija el nivel de stock.
func (h *ProductHandler) SetStock(c *fiber.Ctx) error {
	var in dto.SetStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.SetStock(c.UserContext(), actorFrom(c), c.Params("id"), in.Stock)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
