package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/ports"
)

type AuthHandler struct {
	service ports.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service ports.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

type RegisterRequest struct {
	EmailID  string `json:"emailId"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	EmailID  string `json:"emailId" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	user, err := h.service.Register(c.UserContext(), req.EmailID, req.Password, domain.Role(req.Role))
	if err != nil {
		return err
	}

	h.log.Info("User registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return c.JSON(fiber.Map{"message": "Registration successful"})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}
	if err := domain.Validate(req); err != nil {
		return err
	}

	token, err := h.service.Login(c.UserContext(), req.EmailID, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"token": token})
}
