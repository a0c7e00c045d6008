package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/karsei/sample-auth-service/internal/api/dto"
	"github.com/karsei/sample-auth-service/internal/service"
)

// UsersHandler exposes the admin account listing.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Roles:    user.Roles,
			Active:   user.Active,
		})
	}

	return c.JSON(fiber.Map{"data": items})
}
