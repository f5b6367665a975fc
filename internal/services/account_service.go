package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/auth"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/store"
)

type AccountService struct {
	users    UserRepository
	tokens   TokenRepository
	vault    *auth.PasswordVault
	codec    *auth.TokenCodec
	stateful bool
}

// NewAccountService wires the account flows. With stateful set, every issued
// token is persisted by hash and logout revokes it.
func NewAccountService(users UserRepository, tokens TokenRepository, vault *auth.PasswordVault, codec *auth.TokenCodec, stateful bool) *AccountService {
	return &AccountService{
		users:    users,
		tokens:   tokens,
		vault:    vault,
		codec:    codec,
		stateful: stateful,
	}
}

func (s *AccountService) Register(ctx context.Context, req dto.RegisterRequest) (*models.PublicUser, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	salt, hash, err := s.vault.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	user := &models.User{
		Email:        req.Email,
		Salt:         salt,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, validationError("email is already registered")
		}
		return nil, storeError(err)
	}

	slog.Info("user registered", "user_id", user.ID.String(), "action", "register")
	public := user.Public()
	return &public, nil
}

// Login returns the user and a fresh bearer token. Unknown email and wrong
// password fail identically.
func (s *AccountService) Login(ctx context.Context, req dto.LoginRequest) (*models.PublicUser, string, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		s.vault.Burn(req.Password)
		return nil, "", ErrAuthenticationFailed
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		s.vault.Burn(req.Password)
		return nil, "", ErrAuthenticationFailed
	}
	if err != nil {
		return nil, "", storeError(err)
	}
	if !s.vault.Verify(req.Password, user.PasswordHash) {
		return nil, "", ErrAuthenticationFailed
	}

	raw, err := s.codec.Issue(user.ID, auth.TypeAuthentication)
	if err != nil {
		slog.Error("token issuance failed", "user_id", user.ID.String(), "action", "login", "error", err.Error())
		return nil, "", ErrAuthenticationFailed
	}

	if s.stateful {
		token := &models.Token{UserID: user.ID, TokenHash: auth.HashToken(raw)}
		if err := s.tokens.CreateToken(ctx, token); err != nil {
			return nil, "", storeError(err)
		}
	}

	slog.Info("user logged in", "user_id", user.ID.String(), "action", "login")
	public := user.Public()
	return &public, raw, nil
}

// Logout revokes the session token. It is a no-op for stateless identities
// and for tokens that are already gone.
func (s *AccountService) Logout(ctx context.Context, identity *Identity) error {
	if !s.stateful || identity == nil || identity.Token == nil {
		return nil
	}
	if err := s.tokens.DeleteToken(ctx, identity.Token.ID); err != nil {
		return storeError(err)
	}
	slog.Info("user logged out", "user_id", identity.User.ID.String(), "action", "logout")
	return nil
}
