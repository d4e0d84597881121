package request

import (
	"errors"
	"time"

	"github.com/aircast/hub/pkg/intake"
	"gorm.io/datatypes"
)

var (
	ErrNotFound            = errors.New("request not found")
	ErrDuplicateSuggestion = errors.New("duplicate content suggestion")
	ErrSuggestionNotFound  = errors.New("no such content suggestion")
	ErrNoSuggestion        = errors.New("request has no suggestions")
	ErrRevisionOutOfRange  = errors.New("revision number out of bounds")
)

// Revision is an immutable snapshot of a request's editable content at a
// point in time. Revisions are only ever appended, never mutated in place.
type Revision struct {
	TextContent     string    `json:"text_content,omitempty"`
	ContentLanguage string    `json:"content_language,omitempty"`
	Language        string    `json:"language,omitempty"`
	Topic           string    `json:"topic,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// Suggestion is a candidate URL proposed in response to a request. URLs are
// unique within a request; votes only ever go up.
type Suggestion struct {
	URL       string    `json:"url"`
	Submitted time.Time `json:"submitted"`
	Votes     int       `json:"votes"`
}

// Request is the central persisted record: one unit of community-requested
// content with its append-only revision history and content suggestions.
// Revisions and suggestions are embedded documents owned by the request.
type Request struct {
	ID uint `json:"id" gorm:"primaryKey;column:id"`

	// Adaptor provenance, copied from the originating adaptor at creation.
	AdaptorName    string `json:"adaptor_name" gorm:"column:adaptor_name"`
	AdaptorSource  string `json:"adaptor_source" gorm:"column:adaptor_source"`
	AdaptorTrusted bool   `json:"adaptor_trusted" gorm:"column:adaptor_trusted"`

	ContentType   string `json:"content_type" gorm:"column:content_type"`
	ContentFormat string `json:"content_format" gorm:"column:content_format"`
	World         string `json:"world" gorm:"column:world"`
	BinaryContent []byte `json:"-" gorm:"column:binary_content"`

	Posted    time.Time  `json:"posted" gorm:"column:posted"`
	Processed time.Time  `json:"processed" gorm:"column:processed"`
	Recorded  time.Time  `json:"recorded" gorm:"column:recorded;autoCreateTime"`
	Edited    *time.Time `json:"edited,omitempty" gorm:"column:edited"`

	HasSuggestions bool `json:"has_suggestions" gorm:"column:has_suggestions;index"`
	Broadcast      bool `json:"broadcast" gorm:"column:broadcast;index"`

	// CurrentRevision indexes into Revisions; nil until the first revision
	// exists. Reverting moves the pointer, it never drops history.
	CurrentRevision *int                            `json:"current_revision,omitempty" gorm:"column:current_revision"`
	Revisions       datatypes.JSONSlice[Revision]   `json:"revisions" gorm:"column:revisions"`
	Suggestions     datatypes.JSONSlice[Suggestion] `json:"content_suggestions" gorm:"column:content_suggestions"`
}

func (Request) TableName() string {
	return "requests"
}

// New builds an unsaved request from a validated intake record.
func New(p *intake.Prepared) *Request {
	r := &Request{
		AdaptorName:    p.AdaptorName,
		AdaptorSource:  p.AdaptorSource,
		AdaptorTrusted: p.AdaptorTrusted,
		ContentType:    p.ContentType,
		ContentFormat:  p.ContentFormat,
		World:          p.World,
		Posted:         p.Posted,
		Processed:      p.Processed,
	}
	if p.ContentType == intake.NonTranscribed {
		r.BinaryContent = p.Binary
	}
	r.SetContent(ContentFields{
		TextContent:     p.Text,
		ContentLanguage: p.ContentLanguage,
		Language:        p.Language,
		Topic:           p.Topic,
	})
	return r
}
