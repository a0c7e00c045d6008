package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karsei/sample-auth-service/internal/auth"
)

// resolveHeader runs ResolveToken against a request carrying the given
// Authorization header.
func resolveHeader(t *testing.T, header string) (string, error) {
	t.Helper()

	var (
		token      string
		resolveErr error
	)
	app := fiber.New()
	app.Get("/echo", func(c *fiber.Ctx) error {
		token, resolveErr = auth.ResolveToken(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	if header != "" {
		req.Header.Set(fiber.HeaderAuthorization, header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return token, resolveErr
}

func TestResolveToken(t *testing.T) {
	t.Parallel()

	t.Run("bearer token", func(t *testing.T) {
		t.Parallel()
		token, err := resolveHeader(t, "Bearer abc123")
		require.NoError(t, err)
		assert.Equal(t, "abc123", token)
	})

	t.Run("empty token after prefix", func(t *testing.T) {
		t.Parallel()

		var (
			token      string
			resolveErr error
		)
		app := fiber.New()
		app.Get("/echo", func(c *fiber.Ctx) error {
			// app.Test's wire round-trip strips trailing whitespace from
			// header values (RFC 7230 OWS), so set the value directly on the
			// fasthttp request to preserve the trailing space after "Bearer".
			c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer ")
			token, resolveErr = auth.ResolveToken(c)
			return c.SendStatus(fiber.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/echo", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		require.NoError(t, resolveErr)
		assert.Empty(t, token)
	})

	t.Run("rejected headers", func(t *testing.T) {
		t.Parallel()
		for name, header := range map[string]string{
			"absent":           "",
			"basic scheme":     "Basic dXNlcjpwYXNz",
			"lowercase bearer": "bearer abc123",
			"missing space":    "Bearerabc123",
			"token only":       "abc123",
		} {
			_, err := resolveHeader(t, header)
			require.Error(t, err, name)
			assert.Equal(t, auth.ErrorKindInvalidArgument, auth.KindOf(err), name)
			assert.EqualError(t, err, "malformed authentication header", name)
		}
	})
}
