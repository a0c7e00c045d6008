package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/karsei/sample-auth-service/internal/domain"
	"github.com/karsei/sample-auth-service/internal/observability"
)

// Issuer is stamped into every access token.
const Issuer = "SampleApi"

const (
	defaultAccessTTL  = 10 * time.Minute
	defaultRefreshTTL = 30 * time.Minute
)

// TokenProvider issues and validates the HS256 tokens the service hands out.
type TokenProvider struct {
	key        SigningKey
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewTokenProvider builds a provider. Non-positive TTLs fall back to the
// service defaults; a nil logger falls back to a no-op one.
func NewTokenProvider(key SigningKey, accessTTL, refreshTTL time.Duration, logger *zap.Logger, metrics *observability.Metrics) *TokenProvider {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenProvider{
		key:        key,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
		metrics:    metrics,
	}
}

// Claims describes the JWT payload. Refresh tokens leave every field empty
// except the registered timestamps.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs an access token for the user. The token id
// mirrors the subject.
func (tp *TokenProvider) GenerateAccessToken(user *domain.AuthUser) (string, time.Time, error) {
	if user == nil || user.Username == "" {
		return "", time.Time{}, newTokenError(ErrorKindInvalidArgument, "token subject is empty", nil)
	}

	now := time.Now()
	expiresAt := now.Add(tp.accessTTL)
	claims := &Claims{
		Roles: user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    Issuer,
			ID:        user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tp.key.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	tp.metrics.RecordTokenIssued(string(domain.TokenKindAccess))
	return signed, expiresAt, nil
}

// GenerateRefreshToken signs a refresh token carrying only the issued-at and
// expiry timestamps.
func (tp *TokenProvider) GenerateRefreshToken() (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tp.refreshTTL)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tp.key.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	tp.metrics.RecordTokenIssued(string(domain.TokenKindRefresh))
	return signed, expiresAt, nil
}

// ParseToken verifies the signature and standard claims and returns the
// decoded payload. Failures come back as *TokenError with the kind set.
func (tp *TokenProvider) ParseToken(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, newTokenError(ErrorKindInvalidArgument, "token string is empty", nil)
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tp.key.secret, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, newTokenError(ErrorKindMalformed, "invalid token claims", nil)
	}
	return claims, nil
}

// ValidateToken reports whether the token is usable. Every rejection is
// logged with its kind and counted; this is the only place that flattens
// parse failures into a boolean.
func (tp *TokenProvider) ValidateToken(tokenStr string) bool {
	_, err := tp.ParseToken(tokenStr)
	if err == nil {
		return true
	}

	kind := KindOf(err)
	switch kind {
	case ErrorKindSignature:
		tp.logger.Info("invalid token signature", zap.String("kind", string(kind)), zap.Error(err))
	case ErrorKindMalformed:
		tp.logger.Info("invalid token", zap.String("kind", string(kind)), zap.Error(err))
	case ErrorKindExpired:
		tp.logger.Info("token is expired", zap.String("kind", string(kind)), zap.Error(err))
	case ErrorKindUnsupported:
		tp.logger.Info("token is unsupported", zap.String("kind", string(kind)), zap.Error(err))
	case ErrorKindInvalidArgument:
		tp.logger.Info("token string is empty", zap.String("kind", string(kind)), zap.Error(err))
	}
	tp.metrics.RecordTokenRejected(string(kind))
	return false
}

// classifyParseError maps the jwt library sentinels onto the service's
// failure kinds, matched in the parser's own check order.
func classifyParseError(err error) *TokenError {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return newTokenError(ErrorKindMalformed, "invalid token", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return newTokenError(ErrorKindSignature, "invalid token signature", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return newTokenError(ErrorKindExpired, "token is expired", err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return newTokenError(ErrorKindUnsupported, "token is unsupported", err)
	default:
		return newTokenError(ErrorKindMalformed, "invalid token", err)
	}
}
