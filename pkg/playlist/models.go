package playlist

import (
	"errors"
	"time"

	"github.com/aircast/hub/pkg/request"
	"gorm.io/datatypes"
)

var ErrNotFound = errors.New("playlist not found")

// Item is one broadcast-ready entry: the promoted URL plus a non-owning
// back-reference to the source request.
type Item struct {
	URL       string `json:"url"`
	RequestID uint   `json:"request_id"`
}

// Playlist is the ordered broadcast list for one calendar day, created
// lazily on the day's first promotion.
type Playlist struct {
	Key       string                    `json:"key" gorm:"primaryKey;column:key"`
	Items     datatypes.JSONSlice[Item] `json:"items" gorm:"column:items"`
	CreatedAt time.Time                 `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time                 `json:"updated_at" gorm:"column:updated_at"`
}

func (Playlist) TableName() string {
	return "playlists"
}

// KeyFor returns the playlist key for the UTC calendar day of t.
func KeyFor(t time.Time) string {
	return t.UTC().Format("20060102")
}

// Promote appends the request's top suggestion to the playlist and marks
// the request broadcast. A request that is already broadcast is left
// untouched; a request without suggestions cannot be promoted.
func Promote(pl *Playlist, req *request.Request) error {
	if req.Broadcast {
		return nil
	}
	top := req.TopSuggestion()
	if top == nil {
		return request.ErrNoSuggestion
	}
	pl.Items = append(pl.Items, Item{URL: top.URL, RequestID: req.ID})
	req.Broadcast = true
	return nil
}
