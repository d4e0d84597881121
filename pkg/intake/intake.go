// Package intake validates raw harvested candidates before they become
// persisted requests. Every adaptor and the public submission endpoint feed
// candidates through the same Validator; its output is the only input the
// request repository accepts for new records.
package intake

import "time"

// Recognized content formats.
const (
	FormatText = "text/plain"
	FormatPNG  = "image/png"
	FormatJPG  = "image/jpg"
	FormatGIF  = "image/gif"
)

// Content types derived from the declared format.
const (
	Transcribed    = "transcribed"
	NonTranscribed = "non-transcribed"
)

// Request worlds. Remote harvested content is always online since no
// transcription step occurs for it.
const (
	WorldOnline  = "online"
	WorldOffline = "offline"
)

// formatTypes maps a declared format to its content type.
var formatTypes = map[string]string{
	FormatText: Transcribed,
	FormatPNG:  NonTranscribed,
	FormatJPG:  NonTranscribed,
	FormatGIF:  NonTranscribed,
}

// decodedFormats maps Go image registry format names to the subtype used in
// declared formats.
var decodedFormats = map[string]string{
	"png":  "png",
	"jpeg": "jpg",
	"gif":  "gif",
}

// Candidate is a raw intake record produced by an adaptor. AdaptorTrusted is
// a pointer so an absent flag can be told apart from an untrusted adaptor.
type Candidate struct {
	AdaptorName    string
	AdaptorSource  string
	AdaptorTrusted *bool

	Content string
	Format  string
	Posted  time.Time

	World           string
	Language        string
	ContentLanguage string
	Topic           string
}

// Prepared is a validated, persist-ready record. It is treated as immutable
// once returned by the Validator.
type Prepared struct {
	AdaptorName    string
	AdaptorSource  string
	AdaptorTrusted bool

	ContentType   string
	ContentFormat string
	World         string

	Posted    time.Time
	Processed time.Time

	Text   string
	Binary []byte

	Language        string
	ContentLanguage string
	Topic           string
}
