package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/karsei/sample-auth-service/internal/api/dto"
	"github.com/karsei/sample-auth-service/internal/auth"
	apperrors "github.com/karsei/sample-auth-service/pkg/util"
)

// ProfileHandler exposes the authenticated caller's own identity.
type ProfileHandler struct{}

// NewProfileHandler constructs handler.
func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// Me handles GET /api/me.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	return c.JSON(dto.ProfileResponse{
		Username: principal.Username,
		Roles:    principal.Roles,
	})
}
