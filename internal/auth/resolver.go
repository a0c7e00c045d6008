package auth

import (
	"context"

	"github.com/karsei/sample-auth-service/internal/domain"
	apperrors "github.com/karsei/sample-auth-service/pkg/util"
)

// UserLookup resolves a username to its stored identity.
type UserLookup interface {
	LoadByUsername(ctx context.Context, username string) (*domain.AuthUser, error)
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	Username      string
	Roles         []string
	Authenticated bool
}

// Authenticator turns a raw token string into a Principal backed by the
// user store.
type Authenticator struct {
	tokens *TokenProvider
	users  UserLookup
}

func NewAuthenticator(tokens *TokenProvider, users UserLookup) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Authenticate parses the token, reloads the subject from the store, and
// returns the resulting principal. The stored roles win over the token's
// roles claim.
func (a *Authenticator) Authenticate(ctx context.Context, tokenStr string) (*Principal, error) {
	claims, err := a.tokens.ParseToken(tokenStr)
	if err != nil {
		return nil, err
	}

	user, err := a.users.LoadByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("user disabled")
	}

	return &Principal{
		Username:      user.Username,
		Roles:         user.Roles,
		Authenticated: true,
	}, nil
}
