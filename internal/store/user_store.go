package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Migrate() error {
	return s.db.AutoMigrate(&User{})
}

// Create assigns an ID when missing and inserts u.
func (s *UserStore) Create(ctx context.Context, u *User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return &PersistenceError{Op: "create user", Err: errors.New("email is required")}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return &PersistenceError{Op: "create user", Err: err}
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &u, err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &u, err
}

// Resolve finds a user by ID, falling back to email.
func (s *UserStore) Resolve(ctx context.Context, ref string) (*User, error) {
	u, err := s.GetByID(ctx, ref)
	if errors.Is(err, ErrNotFound) && strings.Contains(ref, "@") {
		return s.GetByEmail(ctx, ref)
	}
	return u, err
}

func (s *UserStore) List(ctx context.Context) ([]User, error) {
	var out []User
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, err
}
