package harvest

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HarvestHistory records the last successful harvest per adaptor. Absence of
// a record means the adaptor has never been harvested.
type HarvestHistory struct {
	AdaptorName string    `json:"adaptor_name" gorm:"primaryKey;column:adaptor_name"`
	LastHarvest time.Time `json:"last_harvest" gorm:"column:last_harvest"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (HarvestHistory) TableName() string {
	return "harvest_history"
}

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&HarvestHistory{})
}

// LastHarvest returns the timestamp of the adaptor's last successful
// harvest, or the Unix epoch when none is recorded.
func (r *HistoryRepository) LastHarvest(ctx context.Context, adaptorName string) (time.Time, error) {
	var h HarvestHistory
	result := r.db.WithContext(ctx).First(&h, "adaptor_name = ?", adaptorName)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return time.Unix(0, 0).UTC(), nil
	}
	if result.Error != nil {
		return time.Time{}, result.Error
	}
	return h.LastHarvest, nil
}

func (r *HistoryRepository) Record(ctx context.Context, adaptorName string, ts time.Time) error {
	h := HarvestHistory{AdaptorName: adaptorName, LastHarvest: ts}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "adaptor_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_harvest", "updated_at"}),
		}).
		Create(&h).Error
}
