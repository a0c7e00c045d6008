package auth_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/karsei/sample-auth-service/internal/auth"
	"github.com/karsei/sample-auth-service/internal/domain"
)

const testSecret = "test-signing-secret"

func newProvider(t *testing.T) *auth.TokenProvider {
	t.Helper()
	return auth.NewTokenProvider(auth.NewSigningKey(testSecret), 0, 0, zap.NewNop(), nil)
}

func testUser(roles ...string) *domain.AuthUser {
	return &domain.AuthUser{Username: "alice", Roles: roles, Active: true}
}

// signClaims builds a token outside the provider, with the same secret unless
// another one is given.
func signClaims(t *testing.T, claims *auth.Claims, secret string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func expiredClaims() *auth.Claims {
	return &auth.Claims{
		Roles: []string{"USER"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    auth.Issuer,
			ID:        "alice",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-30 * time.Minute)),
		},
	}
}

func TestGenerateAccessToken(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		provider := newProvider(t)

		token, expiresAt, err := provider.GenerateAccessToken(testUser("USER", "ADMIN"))
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 2*time.Second)

		claims, err := provider.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
		assert.Equal(t, "SampleApi", claims.Issuer)
		assert.Equal(t, claims.Subject, claims.ID)
		assert.Equal(t, []string{"USER", "ADMIN"}, claims.Roles)
		assert.Equal(t, 10*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	})

	t.Run("nil user", func(t *testing.T) {
		t.Parallel()
		provider := newProvider(t)

		_, _, err := provider.GenerateAccessToken(nil)
		require.Error(t, err)
		assert.Equal(t, auth.ErrorKindInvalidArgument, auth.KindOf(err))
	})

	t.Run("empty username", func(t *testing.T) {
		t.Parallel()
		provider := newProvider(t)

		_, _, err := provider.GenerateAccessToken(&domain.AuthUser{})
		require.Error(t, err)
		assert.Equal(t, auth.ErrorKindInvalidArgument, auth.KindOf(err))
	})

	t.Run("custom ttl", func(t *testing.T) {
		t.Parallel()
		provider := auth.NewTokenProvider(auth.NewSigningKey(testSecret), 5*time.Minute, time.Hour, zap.NewNop(), nil)

		token, _, err := provider.GenerateAccessToken(testUser("USER"))
		require.NoError(t, err)

		claims, err := provider.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, 5*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	})
}

func TestGenerateRefreshToken(t *testing.T) {
	t.Parallel()

	provider := newProvider(t)

	token, expiresAt, err := provider.GenerateRefreshToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 2*time.Second)

	claims, err := provider.ParseToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.Subject)
	assert.Empty(t, claims.Issuer)
	assert.Empty(t, claims.ID)
	assert.Empty(t, claims.Roles)
	assert.Equal(t, 30*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestParseToken(t *testing.T) {
	t.Parallel()

	t.Run("empty string", func(t *testing.T) {
		t.Parallel()
		provider := newProvider(t)

		_, err := provider.ParseToken("")
		require.Error(t, err)
		assert.Equal(t, auth.ErrorKindInvalidArgument, auth.KindOf(err))
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		provider := newProvider(t)

		_, err := provider.ParseToken("not-a-token")
		require.Error(t, err)
		assert.Equal(t, auth.ErrorKindMalformed, auth.KindOf(err))
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		provider := newProvider(t)

		_, err := provider.ParseToken(signClaims(t, expiredClaims(), testSecret))
		require.Error(t, err)
		assert.Equal(t, auth.ErrorKindExpired, auth.KindOf(err))
	})

	t.Run("wrong key", func(t *testing.T) {
		t.Parallel()
		provider := newProvider(t)

		other, _, err := auth.NewTokenProvider(auth.NewSigningKey("other-secret"), 0, 0, zap.NewNop(), nil).GenerateAccessToken(testUser("USER"))
		require.NoError(t, err)

		_, err = provider.ParseToken(other)
		require.Error(t, err)
		assert.Equal(t, auth.ErrorKindSignature, auth.KindOf(err))
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		t.Parallel()
		provider := newProvider(t)

		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS384, expiredClaims()).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = provider.ParseToken(signed)
		require.Error(t, err)
		assert.Equal(t, auth.ErrorKindUnsupported, auth.KindOf(err))
	})

	t.Run("forged subject", func(t *testing.T) {
		t.Parallel()
		provider := newProvider(t)

		token, _, err := provider.GenerateAccessToken(testUser("USER"))
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		payload, err := base64.RawURLEncoding.DecodeString(parts[1])
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(payload, &body))
		body["sub"] = "mallory"
		forged, err := json.Marshal(body)
		require.NoError(t, err)
		parts[1] = base64.RawURLEncoding.EncodeToString(forged)

		_, err = provider.ParseToken(strings.Join(parts, "."))
		require.Error(t, err)
		assert.Equal(t, auth.ErrorKindSignature, auth.KindOf(err))
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()
		provider := newProvider(t)

		token, _, err := provider.GenerateAccessToken(testUser("USER"))
		require.NoError(t, err)
		assert.True(t, provider.ValidateToken(token))
	})

	t.Run("rejections", func(t *testing.T) {
		t.Parallel()
		provider := newProvider(t)

		wrongKey, _, err := auth.NewTokenProvider(auth.NewSigningKey("other-secret"), 0, 0, zap.NewNop(), nil).GenerateAccessToken(testUser("USER"))
		require.NoError(t, err)

		for name, token := range map[string]string{
			"empty":     "",
			"malformed": "garbage",
			"expired":   signClaims(t, expiredClaims(), testSecret),
			"wrong key": wrongKey,
		} {
			assert.False(t, provider.ValidateToken(token), name)
		}
	})

	t.Run("tampered token", func(t *testing.T) {
		t.Parallel()
		provider := newProvider(t)

		token, _, err := provider.GenerateAccessToken(testUser("USER"))
		require.NoError(t, err)

		tampered := []byte(token)
		mid := len(tampered) / 2
		if tampered[mid] == 'x' {
			tampered[mid] = 'y'
		} else {
			tampered[mid] = 'x'
		}
		assert.False(t, provider.ValidateToken(string(tampered)))
	})

	t.Run("logs rejection kind", func(t *testing.T) {
		t.Parallel()
		core, logs := observer.New(zapcore.InfoLevel)
		provider := auth.NewTokenProvider(auth.NewSigningKey(testSecret), 0, 0, zap.New(core), nil)

		require.False(t, provider.ValidateToken(signClaims(t, expiredClaims(), testSecret)))

		entries := logs.FilterMessage("token is expired").All()
		require.Len(t, entries, 1)
		assert.Equal(t, string(auth.ErrorKindExpired), entries[0].ContextMap()["kind"])
	})
}

func TestSigningKeyRedaction(t *testing.T) {
	t.Parallel()

	key := auth.NewSigningKey("super-secret-value")
	assert.NotContains(t, key.String(), "super-secret-value")
}
