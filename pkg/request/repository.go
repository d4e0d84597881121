package request

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Request{})
}

func (r *Repository) Create(ctx context.Context, req *Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// CreateBatch persists all requests in one batch write and returns the
// number saved.
func (r *Repository) CreateBatch(ctx context.Context, reqs []*Request) (int, error) {
	if len(reqs) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).Create(&reqs).Error; err != nil {
		return 0, err
	}
	return len(reqs), nil
}

func (r *Repository) Get(ctx context.Context, id uint) (*Request, error) {
	var req Request
	result := r.db.WithContext(ctx).First(&req, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &req, result.Error
}

func (r *Repository) List(ctx context.Context, world, contentType string) ([]Request, error) {
	q := r.db.WithContext(ctx).Model(&Request{})
	if world != "" {
		q = q.Where("world = ?", world)
	}
	if contentType != "" {
		q = q.Where("content_type = ?", contentType)
	}
	var reqs []Request
	err := q.Order("recorded DESC").Find(&reqs).Error
	return reqs, err
}

// Mutate applies fn to a request inside a transaction while holding a row
// lock, then saves the result. Concurrent votes or suggestions on the same
// request serialize on the lock instead of losing updates.
func (r *Repository) Mutate(ctx context.Context, id uint, fn func(*Request) error) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, "id = ?", id)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if result.Error != nil {
			return result.Error
		}
		if err := fn(&req); err != nil {
			return err
		}
		return tx.Save(&req).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Pool returns all non-broadcast requests that have at least one suggestion.
func (r *Repository) Pool(ctx context.Context) ([]Request, error) {
	var reqs []Request
	err := r.db.WithContext(ctx).
		Where("has_suggestions = ? AND broadcast = ?", true, false).
		Find(&reqs).Error
	return reqs, err
}
