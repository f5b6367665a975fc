package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/store"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type TokenRepository interface {
	CreateToken(ctx context.Context, token *models.Token) error
	FindTokenByHash(ctx context.Context, hash string) (*models.Token, error)
	DeleteToken(ctx context.Context, id uuid.UUID) error
}

type TodoRepository interface {
	CreateTodo(ctx context.Context, todo *models.Todo) error
	FindTodos(ctx context.Context, q store.TodoQuery) ([]models.Todo, error)
	FindTodo(ctx context.Context, ownerID, id uuid.UUID) (*models.Todo, error)
	UpdateTodo(ctx context.Context, todo *models.Todo) error
	DeleteTodos(ctx context.Context, ownerID, id uuid.UUID) (int64, error)
}

// Store is everything the API needs from persistence.
type Store interface {
	UserRepository
	TokenRepository
	TodoRepository
	Ping(ctx context.Context) error
}

var (
	_ Store = (*store.GormStore)(nil)
	_ Store = (*store.MemoryStore)(nil)
)
