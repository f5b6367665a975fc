package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/models"
)

// MemoryStore is an in-process store for local development and tests.
// All writes are serialized by one lock, so the email uniqueness check and
// the insert happen atomically.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]models.User
	emails map[string]uuid.UUID
	tokens map[uuid.UUID]models.Token
	hashes map[string]uuid.UUID
	todos  map[uuid.UUID]models.Todo
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[uuid.UUID]models.User),
		emails: make(map[string]uuid.UUID),
		tokens: make(map[uuid.UUID]models.Token),
		hashes: make(map[string]uuid.UUID),
		todos:  make(map[uuid.UUID]models.Todo),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func live(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return live(ctx)
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := live(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[user.Email]; taken {
		return ErrDuplicate
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	s.emails[user.Email] = user.ID
	return nil
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, ErrNotFound
	}
	user := s.users[id]
	return &user, nil
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// DeleteUser removes a user together with its tokens and todos.
func (s *MemoryStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := live(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil
	}
	delete(s.users, id)
	delete(s.emails, user.Email)
	for tid, t := range s.tokens {
		if t.UserID == id {
			delete(s.tokens, tid)
			delete(s.hashes, t.TokenHash)
		}
	}
	for tid, t := range s.todos {
		if t.UserID == id {
			delete(s.todos, tid)
		}
	}
	return nil
}

func (s *MemoryStore) CreateToken(ctx context.Context, token *models.Token) error {
	if err := live(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[token.UserID]; !ok {
		return fmt.Errorf("token owner %s does not exist", token.UserID)
	}
	if _, taken := s.hashes[token.TokenHash]; taken {
		return ErrDuplicate
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = s.now()
	s.tokens[token.ID] = *token
	s.hashes[token.TokenHash] = token.ID
	return nil
}

func (s *MemoryStore) FindTokenByHash(ctx context.Context, hash string) (*models.Token, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.hashes[hash]
	if !ok {
		return nil, ErrNotFound
	}
	token := s.tokens[id]
	return &token, nil
}

func (s *MemoryStore) DeleteToken(ctx context.Context, id uuid.UUID) error {
	if err := live(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if token, ok := s.tokens[id]; ok {
		delete(s.tokens, id)
		delete(s.hashes, token.TokenHash)
	}
	return nil
}

func (s *MemoryStore) CreateTodo(ctx context.Context, todo *models.Todo) error {
	if err := live(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[todo.UserID]; !ok {
		return fmt.Errorf("todo owner %s does not exist", todo.UserID)
	}
	if todo.ID == uuid.Nil {
		todo.ID = uuid.New()
	}
	now := s.now()
	todo.CreatedAt, todo.UpdatedAt = now, now
	s.todos[todo.ID] = *todo
	return nil
}

func (s *MemoryStore) FindTodos(ctx context.Context, q TodoQuery) ([]models.Todo, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(q.Search)
	todos := make([]models.Todo, 0)
	for _, t := range s.todos {
		if t.UserID != q.OwnerID {
			continue
		}
		if q.Completed != nil && t.Completed != *q.Completed {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		todos = append(todos, t)
	}
	sort.Slice(todos, func(i, j int) bool {
		if todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].ID.String() < todos[j].ID.String()
		}
		return todos[i].CreatedAt.Before(todos[j].CreatedAt)
	})
	return todos, nil
}

func (s *MemoryStore) FindTodo(ctx context.Context, ownerID, id uuid.UUID) (*models.Todo, error) {
	if err := live(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	todo, ok := s.todos[id]
	if !ok || todo.UserID != ownerID {
		return nil, ErrNotFound
	}
	return &todo, nil
}

func (s *MemoryStore) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	if err := live(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.todos[todo.ID]
	if !ok || current.UserID != todo.UserID {
		return ErrNotFound
	}
	current.Description = todo.Description
	current.Completed = todo.Completed
	current.UpdatedAt = s.now()
	s.todos[todo.ID] = current
	*todo = current
	return nil
}

func (s *MemoryStore) DeleteTodos(ctx context.Context, ownerID, id uuid.UUID) (int64, error) {
	if err := live(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok || todo.UserID != ownerID {
		return 0, nil
	}
	delete(s.todos, id)
	return 1, nil
}
