package harvest

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/aircast/hub/pkg/adaptor"
	"github.com/aircast/hub/pkg/common/logger"
	"github.com/aircast/hub/pkg/intake"
	"github.com/aircast/hub/pkg/request"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeAdaptor struct {
	info       adaptor.Info
	candidates []intake.Candidate
	err        error
	gotLast    time.Time
}

func (a *fakeAdaptor) Info() adaptor.Info { return a.info }

func (a *fakeAdaptor) GetRequests(ctx context.Context, lastAccess time.Time) ([]intake.Candidate, error) {
	a.gotLast = lastAccess
	return a.candidates, a.err
}

type fakeRequestStore struct {
	saved []*request.Request
	err   error
}

func (s *fakeRequestStore) CreateBatch(ctx context.Context, reqs []*request.Request) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.saved = append(s.saved, reqs...)
	return len(reqs), nil
}

type fakeHistoryStore struct {
	last     time.Time
	recorded []time.Time
}

func (s *fakeHistoryStore) LastHarvest(ctx context.Context, adaptorName string) (time.Time, error) {
	return s.last, nil
}

func (s *fakeHistoryStore) Record(ctx context.Context, adaptorName string, ts time.Time) error {
	s.recorded = append(s.recorded, ts)
	return nil
}

type fakeEvents struct {
	published []string
}

func (e *fakeEvents) PublishEvent(ctx context.Context, eventType, source string, data map[string]interface{}) error {
	e.published = append(e.published, eventType)
	return nil
}

func testInfo() adaptor.Info {
	return adaptor.Info{Name: "test-adaptor", Source: "test source", Trusted: true}
}

func TestRunPersistsValidCandidatesAndDropsRejects(t *testing.T) {
	info := testInfo()
	posted := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	src := &fakeAdaptor{
		info: info,
		candidates: []intake.Candidate{
			info.Candidate("first valid request", posted),
			info.Candidate("", posted), // rejected: no content
			info.Candidate("second valid request", posted),
		},
	}
	store := &fakeRequestStore{}
	history := &fakeHistoryStore{last: time.Unix(0, 0).UTC()}
	events := &fakeEvents{}

	runner := NewRunner(intake.NewValidator(), store, history, events)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	runner.now = func() time.Time { return now }

	res, err := runner.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Candidates != 3 || res.Accepted != 2 || res.Rejected != 1 || res.Saved != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(store.saved) != 2 {
		t.Fatalf("expected 2 persisted requests, got %d", len(store.saved))
	}
	if store.saved[0].TextContent() != "first valid request" {
		t.Errorf("unexpected persisted content %q", store.saved[0].TextContent())
	}
	if !src.gotLast.Equal(history.last) {
		t.Errorf("expected adaptor called with last harvest %v, got %v", history.last, src.gotLast)
	}
	if len(history.recorded) != 1 || !history.recorded[0].Equal(now) {
		t.Fatalf("expected harvest timestamp recorded as %v, got %v", now, history.recorded)
	}
	if len(events.published) != 1 || events.published[0] != "harvest.completed" {
		t.Fatalf("expected harvest.completed event, got %v", events.published)
	}
}

func TestRunAdaptorErrorDoesNotAdvanceTimestamp(t *testing.T) {
	src := &fakeAdaptor{info: testInfo(), err: errors.New("connection refused")}
	store := &fakeRequestStore{}
	history := &fakeHistoryStore{last: time.Unix(0, 0).UTC()}

	runner := NewRunner(intake.NewValidator(), store, history, nil)
	if _, err := runner.Run(context.Background(), src); err == nil {
		t.Fatal("expected adaptor error to abort the cycle")
	}
	if len(history.recorded) != 0 {
		t.Fatal("expected no harvest timestamp recorded after an adaptor error")
	}
	if len(store.saved) != 0 {
		t.Fatal("expected nothing persisted after an adaptor error")
	}
}

func TestRunPersistFailureStillAdvancesTimestamp(t *testing.T) {
	info := testInfo()
	src := &fakeAdaptor{
		info:       info,
		candidates: []intake.Candidate{info.Candidate("valid request", time.Now().UTC())},
	}
	store := &fakeRequestStore{err: errors.New("database down")}
	history := &fakeHistoryStore{last: time.Unix(0, 0).UTC()}

	runner := NewRunner(intake.NewValidator(), store, history, nil)
	res, err := runner.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("expected persistence failure not to abort the cycle, got %v", err)
	}
	if res.Saved != 0 {
		t.Fatalf("expected zero saved, got %d", res.Saved)
	}
	if res.Accepted != 1 {
		t.Fatalf("expected candidate still accepted, got %+v", res)
	}
	if len(history.recorded) != 1 {
		t.Fatal("expected harvest timestamp recorded despite persistence failure")
	}
}

func TestIngestReturnsSavedCount(t *testing.T) {
	info := testInfo()
	store := &fakeRequestStore{}
	runner := NewRunner(intake.NewValidator(), store, &fakeHistoryStore{}, nil)

	saved, err := runner.Ingest(context.Background(), []intake.Candidate{
		info.Candidate("hook-delivered request", time.Now().UTC()),
		{}, // rejected: missing provenance
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved != 1 {
		t.Fatalf("expected 1 saved, got %d", saved)
	}
}
