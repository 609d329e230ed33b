package identity

import (
	"context"
	"strings"

	"basetrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormUserStore struct {
	db *gorm.DB
}

// NewGormUserStore returns a UserStore backed by the identity database.
func NewGormUserStore(db *gorm.DB) UserStore {
	return &gormUserStore{db: db}
}

func (s *gormUserStore) Create(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *gormUserStore) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormUserStore) FindByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	var user model.User
	ident := strings.ToLower(identifier)
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", ident, ident).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormUserStore) Update(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

type gormBaseStore struct {
	db *gorm.DB
}

// NewGormBaseStore returns a BaseStore backed by the identity database.
func NewGormBaseStore(db *gorm.DB) BaseStore {
	return &gormBaseStore{db: db}
}

func (s *gormBaseStore) Create(ctx context.Context, base *model.Base) error {
	return s.db.WithContext(ctx).Create(base).Error
}

func (s *gormBaseStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Base, error) {
	var base model.Base
	if err := s.db.WithContext(ctx).First(&base, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &base, nil
}

func (s *gormBaseStore) ListActive(ctx context.Context) ([]model.Base, error) {
	var bases []model.Base
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&bases).Error
	if err != nil {
		return nil, err
	}
	return bases, nil
}
