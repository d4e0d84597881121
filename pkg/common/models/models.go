package models

import "time"

// Event bus envelope
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // harvest.completed, request.accepted, playlist.promoted
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// Request intake and workflow DTOs

type SubmitRequest struct {
	Content         string            `json:"content"`
	ContentFormat   string            `json:"content_format"`
	Posted          time.Time         `json:"posted"`
	World           string            `json:"world,omitempty"`
	Language        string            `json:"language,omitempty"`
	ContentLanguage string            `json:"content_language,omitempty"`
	Topic           string            `json:"topic,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

type SubmitResponse struct {
	ID        uint      `json:"id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type SetContentRequest struct {
	TextContent     string `json:"text_content,omitempty"`
	ContentLanguage string `json:"content_language,omitempty"`
	Language        string `json:"language,omitempty"`
	Topic           string `json:"topic,omitempty"`
}

type SetRevisionRequest struct {
	Revision int `json:"revision"`
}

type SuggestRequest struct {
	URL string `json:"url"`
}

type VoteRequest struct {
	URL string `json:"url"`
}

type PoolEntry struct {
	RequestID   uint      `json:"request_id"`
	URL         string    `json:"url"`
	Votes       int       `json:"votes"`
	Submitted   time.Time `json:"submitted"`
	TextContent string    `json:"text_content,omitempty"`
	Topic       string    `json:"topic,omitempty"`
}

type RegisterAdaptorRequest struct {
	Name    string `json:"name"`
	Source  string `json:"source"`
	Contact string `json:"contact"`
	Trusted bool   `json:"trusted"`
}

// APIKey is only valid until the next save of the adaptor record; callers
// must capture it from this response.
type RegisterAdaptorResponse struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	APIKey  string    `json:"api_key"`
	Created time.Time `json:"created"`
}
