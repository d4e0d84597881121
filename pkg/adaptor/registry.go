package adaptor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAdaptorNotFound = errors.New("remote adaptor not found")

// RemoteAdaptor is the registration record for an externally operated
// adaptor.
type RemoteAdaptor struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id"`
	Name      string    `json:"name" gorm:"column:name;uniqueIndex"`
	Source    string    `json:"source" gorm:"column:source"`
	Contact   string    `json:"contact" gorm:"column:contact"`
	Trusted   bool      `json:"trusted" gorm:"column:trusted"`
	APIKey    string    `json:"-" gorm:"column:api_key"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (RemoteAdaptor) TableName() string {
	return "remote_adaptors"
}

// BeforeSave regenerates the API key on every save. Callers must capture the
// fresh key from the save response; it does not survive the next update.
func (a *RemoteAdaptor) BeforeSave(tx *gorm.DB) error {
	a.APIKey = GenerateAPIKey(KeyPrefix)
	return nil
}

type Registry struct {
	db *gorm.DB
}

func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

func (r *Registry) AutoMigrate() error {
	return r.db.AutoMigrate(&RemoteAdaptor{})
}

func (r *Registry) Create(ctx context.Context, a *RemoteAdaptor) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *Registry) Get(ctx context.Context, id string) (*RemoteAdaptor, error) {
	var a RemoteAdaptor
	result := r.db.WithContext(ctx).First(&a, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrAdaptorNotFound
	}
	return &a, result.Error
}

func (r *Registry) List(ctx context.Context) ([]RemoteAdaptor, error) {
	var adaptors []RemoteAdaptor
	err := r.db.WithContext(ctx).Order("name").Find(&adaptors).Error
	return adaptors, err
}

// Save persists changes to a registration. The BeforeSave hook renews the
// API key as a side effect.
func (r *Registry) Save(ctx context.Context, a *RemoteAdaptor) error {
	return r.db.WithContext(ctx).Save(a).Error
}
