package intake

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"
)

func trusted() *bool {
	v := true
	return &v
}

func textCandidate(content string) Candidate {
	return Candidate{
		AdaptorName:    "test-adaptor",
		AdaptorSource:  "test source",
		AdaptorTrusted: trusted(),
		Content:        content,
		Format:         FormatText,
		Posted:         time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func pngBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestCheckAcceptsText(t *testing.T) {
	v := NewValidator()
	c := textCandidate("how do I register a new business?")

	p, err := v.Check(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ContentType != Transcribed {
		t.Errorf("expected content type %q, got %q", Transcribed, p.ContentType)
	}
	if p.Text != c.Content {
		t.Errorf("expected text preserved, got %q", p.Text)
	}
	if p.World != WorldOnline {
		t.Errorf("expected world to default to online, got %q", p.World)
	}
	if !p.AdaptorTrusted {
		t.Error("expected trusted flag copied")
	}
	if p.Processed.IsZero() {
		t.Error("expected processed timestamp to be set")
	}
}

func TestCheckSanitizesInvalidUTF8(t *testing.T) {
	v := NewValidator()
	c := textCandidate("bad \xff byte")

	p, err := v.Check(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(p.Text, "\xff") {
		t.Fatal("expected invalid byte to be replaced")
	}
	if !strings.Contains(p.Text, "�") {
		t.Fatalf("expected replacement rune, got %q", p.Text)
	}
}

func TestCheckMissingAdaptorFields(t *testing.T) {
	v := NewValidator()

	cases := map[string]func(*Candidate){
		"name":    func(c *Candidate) { c.AdaptorName = "" },
		"source":  func(c *Candidate) { c.AdaptorSource = "" },
		"trusted": func(c *Candidate) { c.AdaptorTrusted = nil },
	}
	for name, mutate := range cases {
		c := textCandidate("hello")
		mutate(&c)
		_, err := v.Check(c)
		if !errors.Is(err, ErrMissingAdaptorField) {
			t.Errorf("%s: expected ErrMissingAdaptorField, got %v", name, err)
		}
		if !IsValidationError(err) {
			t.Errorf("%s: expected a validation error", name)
		}
	}
}

func TestCheckRejectsZeroTimestamp(t *testing.T) {
	v := NewValidator()
	c := textCandidate("hello")
	c.Posted = time.Time{}

	_, err := v.Check(c)
	if !errors.Is(err, ErrInvalidTimestamp) {
		t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
	}
}

func TestCheckRejectsMissingContent(t *testing.T) {
	v := NewValidator()
	c := textCandidate("")

	_, err := v.Check(c)
	if !errors.Is(err, ErrMissingContent) {
		t.Fatalf("expected ErrMissingContent, got %v", err)
	}
}

func TestCheckRejectsUnknownFormat(t *testing.T) {
	v := NewValidator()
	c := textCandidate("hello")
	c.Format = "text/html"

	_, err := v.Check(c)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestCheckRejectsBase64AsText(t *testing.T) {
	v := NewValidator()
	c := textCandidate(strings.Repeat("QUJD", 11)) // 44 chars of valid base64

	_, err := v.Check(c)
	if !errors.Is(err, ErrBinaryAsText) {
		t.Fatalf("expected ErrBinaryAsText, got %v", err)
	}
}

func TestCheckAllowsShortBase64LookingText(t *testing.T) {
	v := NewValidator()
	c := textCandidate("abcd1234") // base64-shaped but too short to trip the check

	if _, err := v.Check(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckAcceptsMatchingImage(t *testing.T) {
	v := NewValidator()
	c := textCandidate(pngBase64(t))
	c.Format = FormatPNG

	p, err := v.Check(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ContentType != NonTranscribed {
		t.Errorf("expected content type %q, got %q", NonTranscribed, p.ContentType)
	}
	if len(p.Binary) == 0 {
		t.Error("expected decoded binary content")
	}
	if p.Text != "" {
		t.Error("expected no text content for an image")
	}
}

func TestCheckRejectsUndecodableBase64(t *testing.T) {
	v := NewValidator()
	c := textCandidate("!!! not base64 !!!")
	c.Format = FormatPNG

	_, err := v.Check(c)
	if !errors.Is(err, ErrBinaryDecode) {
		t.Fatalf("expected ErrBinaryDecode, got %v", err)
	}
}

func TestCheckRejectsNonImagePayload(t *testing.T) {
	v := NewValidator()
	c := textCandidate(base64.StdEncoding.EncodeToString([]byte("not an image")))
	c.Format = FormatPNG

	_, err := v.Check(c)
	if !errors.Is(err, ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode, got %v", err)
	}
}

func TestCheckRejectsFormatMismatch(t *testing.T) {
	v := NewValidator()
	c := textCandidate(pngBase64(t))
	c.Format = FormatJPG

	_, err := v.Check(c)
	if !errors.Is(err, ErrImageFormat) {
		t.Fatalf("expected ErrImageFormat, got %v", err)
	}
}

func TestKindNamesFailures(t *testing.T) {
	cases := map[error]string{
		ErrMissingAdaptorField: "missing-adaptor-field",
		ErrInvalidTimestamp:    "invalid-timestamp",
		ErrMissingContent:      "missing-content",
		ErrInvalidFormat:       "invalid-format",
		ErrBinaryAsText:        "binary-as-text",
		ErrBinaryDecode:        "binary-decode-error",
		ErrImageDecode:         "image-decode-error",
		ErrImageFormat:         "image-format-error",
	}
	for err, want := range cases {
		if got := Kind(ValidationError{reason: err}); got != want {
			t.Errorf("Kind(%v) = %q, want %q", err, got, want)
		}
	}
	if got := Kind(errors.New("boom")); got != "unknown" {
		t.Errorf("Kind(non-validation) = %q, want unknown", got)
	}
}
