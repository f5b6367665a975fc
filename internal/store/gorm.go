package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/tenant"
)

// GormStore persists users, tokens and todos in PostgreSQL. Every call runs
// under its own timeout; a call that runs out of time fails with ErrUnavailable.
type GormStore struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGormStore(db *gorm.DB, timeout time.Duration) *GormStore {
	return &GormStore{db: db, timeout: timeout}
}

func (s *GormStore) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

func (s *GormStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return translate(sqlDB.PingContext(ctx))
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return translate(db.Create(user).Error)
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) CreateToken(ctx context.Context, token *models.Token) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	return translate(db.Omit(clause.Associations).Create(token).Error)
}

func (s *GormStore) FindTokenByHash(ctx context.Context, hash string) (*models.Token, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var token models.Token
	if err := db.Where("token_hash = ?", hash).First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

// DeleteUser removes the user row. Its tokens and todos go with it through the
// ON DELETE CASCADE foreign keys. Deleting a missing id is not an error.
func (s *GormStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return translate(db.Where("id = ?", id).Delete(&models.User{}).Error)
}

// DeleteToken removes the token row. Deleting a missing id is not an error.
func (s *GormStore) DeleteToken(ctx context.Context, id uuid.UUID) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	return translate(db.Where("id = ?", id).Delete(&models.Token{}).Error)
}

func (s *GormStore) CreateTodo(ctx context.Context, todo *models.Todo) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	if todo.ID == uuid.Nil {
		todo.ID = uuid.New()
	}
	return translate(db.Omit(clause.Associations).Create(todo).Error)
}

func (s *GormStore) FindTodos(ctx context.Context, q TodoQuery) ([]models.Todo, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	query := db.Scopes(tenant.ForOwner(q.OwnerID))
	if q.Completed != nil {
		query = query.Where("completed = ?", *q.Completed)
	}
	if q.Search != "" {
		query = query.Where("LOWER(description) LIKE ?", likePattern(q.Search))
	}

	todos := make([]models.Todo, 0)
	if err := query.Order("created_at ASC").Find(&todos).Error; err != nil {
		return nil, translate(err)
	}
	return todos, nil
}

func (s *GormStore) FindTodo(ctx context.Context, ownerID, id uuid.UUID) (*models.Todo, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	var todo models.Todo
	if err := db.Scopes(tenant.ForOwner(ownerID)).First(&todo, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &todo, nil
}

func (s *GormStore) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	db, cancel := s.conn(ctx)
	defer cancel()
	result := db.Model(todo).
		Scopes(tenant.ForOwner(todo.UserID)).
		Select("description", "completed", "updated_at").
		Updates(todo)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteTodos(ctx context.Context, ownerID, id uuid.UUID) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()
	result := db.Scopes(tenant.ForOwner(ownerID)).Where("id = ?", id).Delete(&models.Todo{})
	return result.RowsAffected, translate(result.Error)
}
