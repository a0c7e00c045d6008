package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/karsei/sample-auth-service/pkg/util"
)

const principalKey = "auth_principal"

// Middleware validates bearer tokens and loads principals for protected routes.
type Middleware struct {
	tokens *TokenProvider
	authn  *Authenticator
}

// NewMiddleware constructs the guard for protected route groups.
func NewMiddleware(tokens *TokenProvider, users UserLookup) *Middleware {
	return &Middleware{tokens: tokens, authn: NewAuthenticator(tokens, users)}
}

// Handle enforces authentication. A request passes only when its bearer
// token validates and its subject still resolves to an active user.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	tokenStr, err := ResolveToken(c)
	if err != nil {
		return apperrors.NewUnauthorized(err.Error())
	}

	if !m.tokens.ValidateToken(tokenStr) {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal, err := m.authn.Authenticate(c.UserContext(), tokenStr)
	if err != nil {
		var tokenErr *TokenError
		switch {
		case errors.As(err, &tokenErr):
			return apperrors.NewUnauthorized("invalid token")
		case errors.Is(err, pgx.ErrNoRows):
			return apperrors.NewUnauthorized("user not found")
		default:
			return apperrors.MapError(err)
		}
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated identity set by Handle.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
