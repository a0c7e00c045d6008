package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const bearerPrefix = "Bearer "

// ResolveToken pulls the bearer token out of the Authorization header. The
// scheme match is case-sensitive; anything else is reported as a malformed
// header, including an absent one.
func ResolveToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", newTokenError(ErrorKindInvalidArgument, "malformed authentication header", nil)
	}
	return authHeader[len(bearerPrefix):], nil
}
