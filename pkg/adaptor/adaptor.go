// Package adaptor implements the pluggable source connectors that harvest
// candidate requests from remote systems, plus the registry of remote
// adaptor credentials.
package adaptor

import (
	"context"
	"time"

	"github.com/aircast/hub/pkg/intake"
)

// Info is the basic adaptor metadata copied onto every harvested candidate.
type Info struct {
	Name    string
	Source  string
	Contact string
	Trusted bool
}

// Adaptor is a source connector. GetRequests returns all candidates gathered
// since lastAccess; an empty harvest returns an empty slice, not an error.
// Network and API failures are returned so the caller can retry the same
// window on the next run.
type Adaptor interface {
	Info() Info
	GetRequests(ctx context.Context, lastAccess time.Time) ([]intake.Candidate, error)
}

// Candidate signs a text candidate with the adaptor's provenance. Remote
// harvested content is always online.
func (i Info) Candidate(content string, posted time.Time) intake.Candidate {
	trusted := i.Trusted
	return intake.Candidate{
		AdaptorName:    i.Name,
		AdaptorSource:  i.Source,
		AdaptorTrusted: &trusted,
		Content:        content,
		Format:         intake.FormatText,
		Posted:         posted,
		World:          intake.WorldOnline,
	}
}
