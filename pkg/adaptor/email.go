package adaptor

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aircast/hub/pkg/intake"
)

// EmailEvent is one inbound message from the email webhook batch.
type EmailEvent struct {
	TS  int64 `json:"ts"`
	Msg struct {
		Text string `json:"text"`
	} `json:"msg"`
}

// sigLines mark the beginning of an email signature. Everything from a
// matching line down is stripped.
var sigLines = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[ \t]*--+[ \t]*$`),              // classic -- sig
	regexp.MustCompile(`(?m)^[ \t]*Sent from [a-zA-Z ]*[ \t]*$`), // phones and similar
}

// EmailAdaptor collects requests from inbound email webhook batches. It is
// hook-driven: candidates are ingested one batch at a time as they arrive,
// so GetRequests ignores lastAccess.
type EmailAdaptor struct {
	info   Info
	events []EmailEvent
}

func NewEmailAdaptor(address string, payload []byte) (*EmailAdaptor, error) {
	var events []EmailEvent
	if err := json.Unmarshal(payload, &events); err != nil {
		return nil, fmt.Errorf("parsing email events: %w", err)
	}
	return &EmailAdaptor{
		info: Info{
			Name:    "hub-email",
			Source:  address,
			Contact: address,
			Trusted: true,
		},
		events: events,
	}, nil
}

func (a *EmailAdaptor) Info() Info {
	return a.info
}

func (a *EmailAdaptor) GetRequests(ctx context.Context, lastAccess time.Time) ([]intake.Candidate, error) {
	candidates := make([]intake.Candidate, 0, len(a.events))
	for _, e := range a.events {
		body := StripSignature(e.Msg.Text)
		candidates = append(candidates, a.info.Candidate(body, time.Unix(e.TS, 0).UTC()))
	}
	return candidates, nil
}

// StripSignature removes email signatures from a plain-text message body.
// Two heuristics: anything at and below a line of two or more dashes, and
// anything at and below a "Sent from ..." line. The result is trimmed of
// surrounding whitespace.
func StripSignature(msg string) string {
	for _, re := range sigLines {
		if loc := re.FindStringIndex(msg); loc != nil {
			msg = msg[:loc[0]]
		}
	}
	return strings.TrimSpace(msg)
}
