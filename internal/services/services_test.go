package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/auth"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/store"
)

type fixture struct {
	store   *store.MemoryStore
	vault   *auth.PasswordVault
	codec   *auth.TokenCodec
	account *AccountService
	todos   *TodoService
}

func newFixture(t *testing.T, stateful bool) *fixture {
	t.Helper()
	vault, err := auth.NewPasswordVault(bcrypt.MinCost)
	require.NoError(t, err)
	codec, err := auth.NewTokenCodec(auth.StaticSecrets{Signing: "test-signing", Encryption: "test-encryption"}, time.Hour)
	require.NoError(t, err)

	s := store.NewMemoryStore()
	return &fixture{
		store:   s,
		vault:   vault,
		codec:   codec,
		account: NewAccountService(s, s, vault, codec, stateful),
		todos:   NewTodoService(s),
	}
}

func (f *fixture) resolver(stateful bool) IdentityResolver {
	if stateful {
		return NewStatefulResolver(f.store, f.store, f.codec)
	}
	return NewStatelessResolver(f.store, f.codec)
}
