package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/adapter/http/fiber/middleware"
	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/ports"
)

type OrderHandler struct {
	service ports.OrderService
	log     *zap.Logger
}

func NewOrderHandler(service ports.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log,
	}
}

type CreateOrderRequest struct {
	EmailID        string             `json:"emailId" validate:"required"`
	Items          []domain.OrderItem `json:"items" validate:"required,min=1,dive"`
	DropAddressNo  *int               `json:"dropAddressNo" validate:"required"`
	StoreAddressNo *int               `json:"storeAddressNo"`
}

type UpdateOrderRequest struct {
	OrderID string                 `json:"orderId" validate:"required"`
	Updates map[string]interface{} `json:"updates"`
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	principal, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}
	if err := domain.Validate(req); err != nil {
		return err
	}

	order, err := h.service.CreateOrder(c.UserContext(), principal, ports.CreateOrderRequest{
		CustomerEmail:  req.EmailID,
		Items:          req.Items,
		DropAddressNo:  *req.DropAddressNo,
		StoreAddressNo: req.StoreAddressNo,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Order placed",
		"orderId": order.OrderID,
	})
}

// Update only reaches the service's existence check for now; see
// order.Service.UpdateOrder.
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	if _, err := middleware.CurrentUser(c); err != nil {
		return err
	}

	var req UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}
	if err := domain.Validate(req); err != nil {
		return err
	}

	order, err := h.service.UpdateOrder(c.UserContext(), req.OrderID, req.Updates)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Order updated",
		"order":   order,
	})
}
