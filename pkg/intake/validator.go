package intake

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"regexp"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

var (
	ErrMissingAdaptorField = errors.New("missing adaptor field")
	ErrInvalidTimestamp    = errors.New("invalid timestamp")
	ErrInvalidFormat       = errors.New("invalid content format")
	ErrMissingContent      = errors.New("missing request content")
	ErrBinaryAsText        = errors.New("binary data as text")
	ErrBinaryDecode        = errors.New("unable to decode binary data")
	ErrImageDecode         = errors.New("cannot load image from data")
	ErrImageFormat         = errors.New("unexpected image format")
)

// base64Re matches only standard Base64-encoded strings using + and / for
// non-alphanumeric characters.
var base64Re = regexp.MustCompile(
	`^([A-Za-z0-9+/]{4})*` + // normal base-64 blocks
		`(` +
		`[A-Za-z0-9+/]{4}` + // non-padded block
		`|[A-Za-z0-9+/]{3}=` + // padded block with 1 pad
		`|[A-Za-z0-9+/]{2}==` + // padded block with 2 pads
		`)$`)

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Kind returns a short machine-readable name for a validation failure, used
// when rejections are logged and dropped.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMissingAdaptorField):
		return "missing-adaptor-field"
	case errors.Is(err, ErrInvalidTimestamp):
		return "invalid-timestamp"
	case errors.Is(err, ErrMissingContent):
		return "missing-content"
	case errors.Is(err, ErrInvalidFormat):
		return "invalid-format"
	case errors.Is(err, ErrBinaryAsText):
		return "binary-as-text"
	case errors.Is(err, ErrBinaryDecode):
		return "binary-decode-error"
	case errors.Is(err, ErrImageDecode):
		return "image-decode-error"
	case errors.Is(err, ErrImageFormat):
		return "image-format-error"
	default:
		return "unknown"
	}
}

type Validator struct {
	now func() time.Time
}

func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// Check runs all intake checks over a candidate, short-circuiting on the
// first failure, and returns a persist-ready record on success.
func (v *Validator) Check(c Candidate) (*Prepared, error) {
	if err := checkAdaptor(c); err != nil {
		return nil, err
	}
	if err := checkTimestamp(c); err != nil {
		return nil, err
	}
	contentType, err := checkContentFormat(c)
	if err != nil {
		return nil, err
	}

	p := &Prepared{
		AdaptorName:     c.AdaptorName,
		AdaptorSource:   c.AdaptorSource,
		AdaptorTrusted:  *c.AdaptorTrusted,
		ContentType:     contentType,
		ContentFormat:   c.Format,
		World:           c.World,
		Posted:          c.Posted,
		Processed:       v.now().UTC(),
		Language:        c.Language,
		ContentLanguage: c.ContentLanguage,
		Topic:           c.Topic,
	}
	if p.World == "" {
		p.World = WorldOnline
	}

	if err := checkContentData(c, p); err != nil {
		return nil, err
	}

	return p, nil
}

func checkAdaptor(c Candidate) error {
	if c.AdaptorName == "" {
		return ValidationError{reason: fmt.Errorf("missing adaptor name: %w", ErrMissingAdaptorField)}
	}
	if c.AdaptorSource == "" {
		return ValidationError{reason: fmt.Errorf("missing adaptor source name: %w", ErrMissingAdaptorField)}
	}
	if c.AdaptorTrusted == nil {
		return ValidationError{reason: fmt.Errorf("missing adaptor trusted flag: %w", ErrMissingAdaptorField)}
	}
	return nil
}

func checkTimestamp(c Candidate) error {
	if c.Posted.IsZero() {
		return ValidationError{reason: ErrInvalidTimestamp}
	}
	return nil
}

func checkContentFormat(c Candidate) (string, error) {
	if c.Content == "" {
		return "", ValidationError{reason: ErrMissingContent}
	}
	contentType, ok := formatTypes[c.Format]
	if !ok {
		return "", ValidationError{reason: fmt.Errorf("format %q: %w", c.Format, ErrInvalidFormat)}
	}
	// Heuristic anti-corruption check: long Base64-looking payloads declared
	// as text are almost always binary uploads with the wrong format. False
	// positives are possible and tolerated.
	if contentType == Transcribed && len(c.Content) > 40 && base64Re.MatchString(c.Content) {
		return "", ValidationError{reason: ErrBinaryAsText}
	}
	return contentType, nil
}

func checkContentData(c Candidate, p *Prepared) error {
	if c.Format == FormatText {
		p.Text = strings.ToValidUTF8(c.Content, "�")
		return nil
	}

	decoded, err := base64.StdEncoding.DecodeString(c.Content)
	if err != nil {
		return ValidationError{reason: fmt.Errorf("%w: %v", ErrBinaryDecode, err)}
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(decoded))
	if err != nil {
		return ValidationError{reason: fmt.Errorf("%w: %v", ErrImageDecode, err)}
	}

	subtype, ok := decodedFormats[format]
	if !ok {
		return ValidationError{reason: fmt.Errorf("image format %s not supported: %w", format, ErrImageFormat)}
	}
	declared := strings.TrimPrefix(c.Format, "image/")
	if subtype != declared {
		return ValidationError{reason: fmt.Errorf("image format %s does not match content format %s: %w",
			subtype, c.Format, ErrImageFormat)}
	}

	p.Binary = decoded
	return nil
}
