package adaptor

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/aircast/hub/pkg/common/logger"
	"github.com/aircast/hub/pkg/intake"
	"github.com/gorilla/mux"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeIngestor struct {
	candidates []intake.Candidate
	calls      int
}

func (f *fakeIngestor) Ingest(ctx context.Context, candidates []intake.Candidate) (int, error) {
	f.calls++
	f.candidates = append(f.candidates, candidates...)
	return len(candidates), nil
}

func signWebhook(secret, requestURL string, form url.Values) string {
	signed := requestURL
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		signed += k + form.Get(k)
	}
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(signed))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, hook *EmailWebhook, form url.Values, signature string) *httptest.ResponseRecorder {
	t.Helper()

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	hook.Register(api)

	req := httptest.NewRequest(http.MethodPost, "http://hub.example/api/v1/hooks/email",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWebhookIngestsSignedBatch(t *testing.T) {
	const secret = "hook-secret"
	ingestor := &fakeIngestor{}
	hook := NewEmailWebhook(secret, "request@aircast.example", ingestor)

	form := url.Values{}
	form.Set(EventsField, `[{"ts": 1456821000, "msg": {"text": "Play my request"}}]`)
	signature := signWebhook(secret, "http://hub.example/api/v1/hooks/email", form)

	rec := postWebhook(t, hook, form, signature)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(ingestor.candidates) != 1 {
		t.Fatalf("expected 1 ingested candidate, got %d", len(ingestor.candidates))
	}
	if ingestor.candidates[0].Content != "Play my request" {
		t.Errorf("unexpected candidate content %q", ingestor.candidates[0].Content)
	}
}

func TestWebhookBadSignatureLooksLikeSuccess(t *testing.T) {
	ingestor := &fakeIngestor{}
	hook := NewEmailWebhook("hook-secret", "request@aircast.example", ingestor)

	form := url.Values{}
	form.Set(EventsField, `[{"ts": 1456821000, "msg": {"text": "Play my request"}}]`)

	rec := postWebhook(t, hook, form, "bm90LXRoZS1yaWdodC1zaWc=")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected disguised 200 for bad signature, got %d", rec.Code)
	}
	if ingestor.calls != 0 {
		t.Fatal("expected nothing ingested for bad signature")
	}
}

func TestWebhookMissingSignatureLooksLikeSuccess(t *testing.T) {
	ingestor := &fakeIngestor{}
	hook := NewEmailWebhook("hook-secret", "request@aircast.example", ingestor)

	form := url.Values{}
	form.Set(EventsField, `[]`)

	rec := postWebhook(t, hook, form, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected disguised 200 for missing signature, got %d", rec.Code)
	}
	if ingestor.calls != 0 {
		t.Fatal("expected nothing ingested without a signature")
	}
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	const secret = "hook-secret"
	ingestor := &fakeIngestor{}
	hook := NewEmailWebhook(secret, "request@aircast.example", ingestor)

	form := url.Values{}
	form.Set(EventsField, "{not json")
	signature := signWebhook(secret, "http://hub.example/api/v1/hooks/email", form)

	rec := postWebhook(t, hook, form, signature)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed payload, got %d", rec.Code)
	}
}
