package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/store"
)

// TodoService scopes every operation to the owner's id. A todo that belongs
// to someone else is reported as ErrNotFound.
type TodoService struct {
	todos TodoRepository
}

func NewTodoService(todos TodoRepository) *TodoService {
	return &TodoService{todos: todos}
}

func (s *TodoService) List(ctx context.Context, ownerID uuid.UUID, filter dto.TodoFilter) ([]models.Todo, error) {
	todos, err := s.todos.FindTodos(ctx, store.TodoQuery{
		OwnerID:   ownerID,
		Completed: filter.Completed,
		Search:    filter.Query,
	})
	if err != nil {
		return nil, storeError(err)
	}
	return todos, nil
}

func (s *TodoService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Todo, error) {
	todo, err := s.todos.FindTodo(ctx, ownerID, id)
	if err != nil {
		return nil, storeError(err)
	}
	return todo, nil
}

func (s *TodoService) Create(ctx context.Context, ownerID uuid.UUID, req dto.CreateTodoRequest) (*models.Todo, error) {
	if req.Description == nil {
		return nil, validationError("description is required")
	}
	desc, err := normalizeDescription(*req.Description)
	if err != nil {
		return nil, err
	}

	todo := &models.Todo{
		Description: desc,
		UserID:      ownerID,
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}
	if err := s.todos.CreateTodo(ctx, todo); err != nil {
		return nil, storeError(err)
	}
	return todo, nil
}

// Update applies the fields present in req. An empty description is ignored
// rather than rejected.
func (s *TodoService) Update(ctx context.Context, ownerID, id uuid.UUID, req dto.UpdateTodoRequest) (*models.Todo, error) {
	todo, err := s.todos.FindTodo(ctx, ownerID, id)
	if err != nil {
		return nil, storeError(err)
	}

	if req.Completed != nil {
		todo.Completed = *req.Completed
	}
	if req.Description != nil && *req.Description != "" {
		desc, err := normalizeDescription(*req.Description)
		if err != nil {
			return nil, err
		}
		todo.Description = desc
	}

	if err := s.todos.UpdateTodo(ctx, todo); err != nil {
		return nil, storeError(err)
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	n, err := s.todos.DeleteTodos(ctx, ownerID, id)
	if err != nil {
		return storeError(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
