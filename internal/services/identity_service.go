package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/auth"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/store"
)

// Identity is the authenticated principal of a request. Token is nil under
// the stateless strategy.
type Identity struct {
	User  *models.User
	Token *models.Token
}

type IdentityResolver interface {
	Resolve(ctx context.Context, rawToken string) (*Identity, error)
}

// StatefulResolver accepts a token only while its hash is stored, so logout
// revokes it immediately.
type StatefulResolver struct {
	users  UserRepository
	tokens TokenRepository
	codec  *auth.TokenCodec
}

func NewStatefulResolver(users UserRepository, tokens TokenRepository, codec *auth.TokenCodec) *StatefulResolver {
	return &StatefulResolver{users: users, tokens: tokens, codec: codec}
}

func (r *StatefulResolver) Resolve(ctx context.Context, rawToken string) (*Identity, error) {
	if rawToken == "" {
		return nil, ErrAuthenticationFailed
	}

	token, err := r.tokens.FindTokenByHash(ctx, auth.HashToken(rawToken))
	if err != nil {
		return nil, lookupError(err)
	}

	payload, err := r.codec.Verify(rawToken)
	if err != nil || payload.Type != auth.TypeAuthentication || payload.UserID != token.UserID {
		slog.Debug("stored token failed verification", "token_id", token.ID)
		return nil, ErrAuthenticationFailed
	}

	user, err := r.users.FindUserByID(ctx, token.UserID)
	if err != nil {
		return nil, lookupError(err)
	}
	return &Identity{User: user, Token: token}, nil
}

// StatelessResolver trusts any token that verifies and whose user still
// exists. Tokens stay valid until they expire.
type StatelessResolver struct {
	users UserRepository
	codec *auth.TokenCodec
}

func NewStatelessResolver(users UserRepository, codec *auth.TokenCodec) *StatelessResolver {
	return &StatelessResolver{users: users, codec: codec}
}

func (r *StatelessResolver) Resolve(ctx context.Context, rawToken string) (*Identity, error) {
	payload, err := r.codec.Verify(rawToken)
	if err != nil || payload.Type != auth.TypeAuthentication {
		return nil, ErrAuthenticationFailed
	}

	user, err := r.users.FindUserByID(ctx, payload.UserID)
	if err != nil {
		return nil, lookupError(err)
	}
	return &Identity{User: user}, nil
}

// lookupError turns a missing row into an authentication failure. Other
// store errors keep their own meaning.
func lookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrAuthenticationFailed
	}
	return storeError(err)
}
