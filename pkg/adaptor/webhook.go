package adaptor

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"sort"
	"time"

	"github.com/aircast/hub/pkg/common/logger"
	"github.com/aircast/hub/pkg/intake"
	"github.com/gorilla/mux"
)

// EventsField is the form field carrying the JSON event batch.
const EventsField = "email_events"

// SignatureHeader carries the webhook provider's request signature.
const SignatureHeader = "X-Email-Signature"

// Ingestor runs candidates through intake validation and persists the
// accepted ones.
type Ingestor interface {
	Ingest(ctx context.Context, candidates []intake.Candidate) (int, error)
}

// EmailWebhook handles inbound email batches pushed by the mail provider.
type EmailWebhook struct {
	secret   string
	address  string
	ingestor Ingestor
}

func NewEmailWebhook(secret, address string, ingestor Ingestor) *EmailWebhook {
	return &EmailWebhook{secret: secret, address: address, ingestor: ingestor}
}

func (h *EmailWebhook) Register(router *mux.Router) {
	router.HandleFunc("/hooks/email", h.handleInbound).Methods(http.MethodPost)
}

func (h *EmailWebhook) handleInbound(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	// A bad signature is answered exactly like success so an attacker
	// probing the hook learns nothing from the response.
	if !h.verifySignature(r) {
		logger.Log.Debug("email webhook signature verification failed")
		writeOK(w)
		return
	}

	emailAdaptor, err := NewEmailAdaptor(h.address, []byte(r.PostFormValue(EventsField)))
	if err != nil {
		logger.Log.WithError(err).Warn("invalid email webhook payload")
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	candidates, err := emailAdaptor.GetRequests(r.Context(), time.Time{})
	if err != nil {
		logger.Log.WithError(err).Error("failed to read email candidates")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	saved, err := h.ingestor.Ingest(r.Context(), candidates)
	if err != nil {
		// Persistence problems are logged and treated as zero saved; the
		// provider should not retry a poison batch forever.
		logger.Log.WithError(err).Error("failed to persist email requests")
	}
	logger.Log.WithField("saved", saved).Info("processed email webhook batch")

	writeOK(w)
}

// verifySignature checks the provider's HMAC-SHA1 signature over the
// request URL with all form parameters appended in sorted key order.
func (h *EmailWebhook) verifySignature(r *http.Request) bool {
	signature := r.Header.Get(SignatureHeader)
	if signature == "" {
		return false
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	signed := scheme + "://" + r.Host + r.URL.Path

	keys := make([]string, 0, len(r.PostForm))
	for k := range r.PostForm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		signed += k
		signed += r.PostForm.Get(k)
	}

	mac := hmac.New(sha1.New, []byte(h.secret))
	mac.Write([]byte(signed))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func writeOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
