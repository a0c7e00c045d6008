package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/karsei/sample-auth-service/internal/api/dto"
	"github.com/karsei/sample-auth-service/internal/service"
	apperrors "github.com/karsei/sample-auth-service/pkg/util"
)

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" {
		return apperrors.NewValidationError("username required", nil)
	}

	pair, err := h.auth.Authorize(c.UserContext(), req.Username)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
