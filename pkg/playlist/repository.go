package playlist

import (
	"context"
	"errors"
	"time"

	"github.com/aircast/hub/pkg/request"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Playlist{})
}

func (r *Repository) Get(ctx context.Context, key string) (*Playlist, error) {
	var pl Playlist
	result := r.db.WithContext(ctx).First(&pl, "key = ?", key)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &pl, result.Error
}

// Promote moves the request's top suggestion into today's playlist and
// persists playlist and request together in one transaction. The returned
// bool reports whether a promotion actually happened; re-promoting an
// already-broadcast request is a no-op.
func (r *Repository) Promote(ctx context.Context, requestID uint) (*Playlist, bool, error) {
	var pl Playlist
	promoted := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req request.Request
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, "id = ?", requestID)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return request.ErrNotFound
		}
		if result.Error != nil {
			return result.Error
		}

		if req.Broadcast {
			return nil
		}

		key := KeyFor(r.now())
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(Playlist{Key: key}).
			FirstOrCreate(&pl).Error; err != nil {
			return err
		}

		if err := Promote(&pl, &req); err != nil {
			return err
		}

		if err := tx.Save(&pl).Error; err != nil {
			return err
		}
		if err := tx.Save(&req).Error; err != nil {
			return err
		}

		promoted = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !promoted {
		return nil, false, nil
	}
	return &pl, true, nil
}
