package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/karsei/sample-auth-service/internal/auth"
	"github.com/karsei/sample-auth-service/internal/domain"
	"github.com/karsei/sample-auth-service/internal/events"
	apperrors "github.com/karsei/sample-auth-service/pkg/util"
)

// AuthService coordinates the login flow: resolve the account, then issue
// one access and one refresh token.
type AuthService struct {
	users      auth.UserLookup
	tokens     *auth.TokenProvider
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(users auth.UserLookup, tokens *auth.TokenProvider, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, dispatcher: dispatcher, logger: logger}
}

// Authorize resolves the username to a stored account and issues a token
// pair. Unknown usernames yield an invalid-argument error, disabled
// accounts an unauthorized one.
func (s *AuthService) Authorize(ctx context.Context, username string) (*domain.TokenPair, error) {
	user, err := s.users.LoadByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.publishRejected(ctx, username, "unregistered username")
			return nil, apperrors.NewInvalidArgument("unregistered username")
		}
		return nil, err
	}
	if !user.Active {
		s.publishRejected(ctx, username, "user disabled")
		return nil, apperrors.NewUnauthorized("user disabled")
	}

	accessToken, accessExp, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExp, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventLoginSucceeded,
		Username: username,
		Payload:  events.LoginSucceededPayload{Roles: user.Roles},
	})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTokensIssued,
		Username: username,
		Payload: events.TokensIssuedPayload{
			AccessExpiresAt:  accessExp,
			RefreshExpiresAt: refreshExp,
		},
	})
	s.logger.Info("tokens issued", zap.String("username", username))

	return &domain.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AuthService) publishRejected(ctx context.Context, username, reason string) {
	s.publishEvent(ctx, events.Event{
		Type:     events.EventLoginRejected,
		Username: username,
		Payload:  events.LoginRejectedPayload{Reason: reason},
	})
}

func (s *AuthService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
