package request

import "time"

// ContentFields carries the editable content fields for a new revision. An
// empty field means "not provided" and is copied forward from the currently
// active revision.
type ContentFields struct {
	TextContent     string
	ContentLanguage string
	Language        string
	Topic           string
}

// SetContent appends a new revision built from the provided fields and moves
// the current-revision pointer to it. Fields left empty are filled from the
// active revision so revisions never have gaps. A call with no fields at all
// is a no-op.
func (r *Request) SetContent(f ContentFields) {
	if f == (ContentFields{}) {
		return
	}

	if cur := r.Content(); cur != nil {
		if f.TextContent == "" {
			f.TextContent = cur.TextContent
		}
		if f.ContentLanguage == "" {
			f.ContentLanguage = cur.ContentLanguage
		}
		if f.Language == "" {
			f.Language = cur.Language
		}
		if f.Topic == "" {
			f.Topic = cur.Topic
		}
	}

	now := time.Now().UTC()
	r.Revisions = append(r.Revisions, Revision{
		TextContent:     f.TextContent,
		ContentLanguage: f.ContentLanguage,
		Language:        f.Language,
		Topic:           f.Topic,
		Timestamp:       now,
	})
	idx := len(r.Revisions) - 1
	r.CurrentRevision = &idx
	r.Edited = &now
}

// Revert moves the current-revision pointer one step back. It never removes
// revisions and is idempotent at index 0.
func (r *Request) Revert() {
	if r.CurrentRevision == nil || *r.CurrentRevision == 0 {
		return
	}
	idx := *r.CurrentRevision - 1
	r.CurrentRevision = &idx
	now := time.Now().UTC()
	r.Edited = &now
}

// SetRevision moves the current-revision pointer to an arbitrary existing
// revision.
func (r *Request) SetRevision(n int) error {
	if n < 0 || n >= len(r.Revisions) {
		return ErrRevisionOutOfRange
	}
	r.CurrentRevision = &n
	now := time.Now().UTC()
	r.Edited = &now
	return nil
}

// Content returns a copy of the revision the current-revision pointer refers
// to, or nil when the request has no content. An out-of-range pointer is
// treated as no-content rather than a fault.
func (r *Request) Content() *Revision {
	if r.CurrentRevision == nil {
		return nil
	}
	idx := *r.CurrentRevision
	if idx < 0 || idx >= len(r.Revisions) {
		return nil
	}
	rev := r.Revisions[idx]
	return &rev
}

// The editable content fields are always derived from the active revision,
// never stored on the request itself.

func (r *Request) TextContent() string {
	if rev := r.Content(); rev != nil {
		return rev.TextContent
	}
	return ""
}

func (r *Request) ContentLanguage() string {
	if rev := r.Content(); rev != nil {
		return rev.ContentLanguage
	}
	return ""
}

func (r *Request) Language() string {
	if rev := r.Content(); rev != nil {
		return rev.Language
	}
	return ""
}

func (r *Request) Topic() string {
	if rev := r.Content(); rev != nil {
		return rev.Topic
	}
	return ""
}
