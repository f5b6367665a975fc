package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/models"
)

func seedUser(t *testing.T, s *MemoryStore, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Salt: "salt", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u := seedUser(t, s, "a@x.com")
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byEmail, err := s.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := s.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	err = s.CreateUser(ctx, &models.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = s.FindUserByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Tokens(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := seedUser(t, s, "a@x.com")

	tok := &models.Token{UserID: u.ID, TokenHash: "h1"}
	require.NoError(t, s.CreateToken(ctx, tok))

	found, err := s.FindTokenByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, tok.ID, found.ID)
	assert.Equal(t, u.ID, found.UserID)

	assert.ErrorIs(t, s.CreateToken(ctx, &models.Token{UserID: u.ID, TokenHash: "h1"}), ErrDuplicate)
	assert.Error(t, s.CreateToken(ctx, &models.Token{UserID: uuid.New(), TokenHash: "h2"}))

	require.NoError(t, s.DeleteToken(ctx, tok.ID))
	require.NoError(t, s.DeleteToken(ctx, tok.ID), "revoking twice is a no-op")

	_, err = s.FindTokenByHash(ctx, "h1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_TodosAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice@x.com")
	bob := seedUser(t, s, "bob@x.com")

	todo := &models.Todo{UserID: alice.ID, Description: "Walk the dog"}
	require.NoError(t, s.CreateTodo(ctx, todo))

	_, err := s.FindTodo(ctx, bob.ID, todo.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.UpdateTodo(ctx, &models.Todo{ID: todo.ID, UserID: bob.ID, Description: "hijack"})
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.DeleteTodos(ctx, bob.ID, todo.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := s.FindTodo(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "Walk the dog", got.Description)

	n, err = s.DeleteTodos(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryStore_FindTodosFilters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	u := seedUser(t, s, "a@x.com")
	other := seedUser(t, s, "b@x.com")

	for _, td := range []models.Todo{
		{UserID: u.ID, Description: "Buy MILK"},
		{UserID: u.ID, Description: "Go to work", Completed: true},
		{UserID: u.ID, Description: "homework", Completed: false},
		{UserID: other.ID, Description: "work stuff"},
	} {
		td := td
		require.NoError(t, s.CreateTodo(ctx, &td))
	}

	all, err := s.FindTodos(ctx, TodoQuery{OwnerID: u.ID})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Buy MILK", all[0].Description)

	done := true
	completed, err := s.FindTodos(ctx, TodoQuery{OwnerID: u.ID, Completed: &done})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "Go to work", completed[0].Description)

	work, err := s.FindTodos(ctx, TodoQuery{OwnerID: u.ID, Search: "WORK"})
	require.NoError(t, err)
	assert.Len(t, work, 2)

	milk, err := s.FindTodos(ctx, TodoQuery{OwnerID: u.ID, Search: "milk"})
	require.NoError(t, err)
	assert.Len(t, milk, 1)
}

func TestMemoryStore_DeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := seedUser(t, s, "a@x.com")
	require.NoError(t, s.CreateToken(ctx, &models.Token{UserID: u.ID, TokenHash: "h"}))
	require.NoError(t, s.CreateTodo(ctx, &models.Todo{UserID: u.ID, Description: "x"}))

	require.NoError(t, s.DeleteUser(ctx, u.ID))

	_, err := s.FindUserByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindTokenByHash(ctx, "h")
	assert.ErrorIs(t, err, ErrNotFound)
	todos, err := s.FindTodos(ctx, TodoQuery{OwnerID: u.ID})
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestMemoryStore_CanceledContextIsUnavailable(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.FindUserByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, s.Ping(ctx), ErrUnavailable)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%work%", likePattern("WORK"))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}
