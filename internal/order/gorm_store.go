package order

import (
	"context"
	"errors"

	"siparis-backend/internal/models"

	"gorm.io/gorm"
)

// ErrOrderNotFound is returned by Get for unknown order ids.
var ErrOrderNotFound = errors.New("order not found")

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// CreateWithLines persists the order and all of its lines in one transaction.
func (s *GormStore) CreateWithLines(ctx context.Context, o *models.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
}

func (s *GormStore) Get(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).Preload("Lines").First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// GormProductFinder implements ProductFinder on the catalog table.
type GormProductFinder struct {
	db *gorm.DB
}

func NewGormProductFinder(db *gorm.DB) *GormProductFinder {
	return &GormProductFinder{db: db}
}

func (f *GormProductFinder) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := f.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
