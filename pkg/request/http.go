package request

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aircast/hub/pkg/common/logger"
	"github.com/aircast/hub/pkg/common/models"
	"github.com/aircast/hub/pkg/intake"
	"github.com/aircast/hub/pkg/locale"
	"github.com/gorilla/mux"
)

// Provenance recorded for requests submitted through the public web form.
const (
	webAdaptorName   = "hub-web"
	webAdaptorSource = "hub web form"
)

type HTTPHandler struct {
	service *Service
	maxBody int64
}

func NewHTTPHandler(service *Service, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, maxBody: maxBody}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/requests", h.handleSubmit).Methods(http.MethodPost)
	router.HandleFunc("/requests", h.handleList).Methods(http.MethodGet)
	router.HandleFunc("/requests/{id:[0-9]+}", h.handleGet).Methods(http.MethodGet)
	router.HandleFunc("/requests/{id:[0-9]+}/content", h.handleSetContent).Methods(http.MethodPatch)
	router.HandleFunc("/requests/{id:[0-9]+}/revisions", h.handleSetRevision).Methods(http.MethodPatch)
	router.HandleFunc("/requests/{id:[0-9]+}/revisions/revert", h.handleRevert).Methods(http.MethodPost)
	router.HandleFunc("/requests/{id:[0-9]+}/suggestions", h.handleSuggest).Methods(http.MethodPost)
	router.HandleFunc("/requests/{id:[0-9]+}/votes", h.handleVote).Methods(http.MethodPost)
	router.HandleFunc("/pool", h.handlePool).Methods(http.MethodGet)
}

// requestView is the API projection of a request. The editable content
// fields are derived from the active revision.
type requestView struct {
	ID              uint         `json:"id"`
	AdaptorName     string       `json:"adaptor_name"`
	AdaptorSource   string       `json:"adaptor_source"`
	AdaptorTrusted  bool         `json:"adaptor_trusted"`
	ContentType     string       `json:"content_type"`
	ContentFormat   string       `json:"content_format"`
	World           string       `json:"world"`
	Posted          time.Time    `json:"posted"`
	Processed       time.Time    `json:"processed"`
	Recorded        time.Time    `json:"recorded"`
	Edited          *time.Time   `json:"edited,omitempty"`
	HasSuggestions  bool         `json:"has_suggestions"`
	Broadcast       bool         `json:"broadcast"`
	CurrentRevision *int         `json:"current_revision,omitempty"`
	Revisions       []Revision   `json:"revisions"`
	Suggestions     []Suggestion `json:"content_suggestions"`
	TextContent     string       `json:"text_content,omitempty"`
	ContentLanguage string       `json:"content_language,omitempty"`
	Language        string       `json:"language,omitempty"`
	LanguageName    string       `json:"language_name,omitempty"`
	Topic           string       `json:"topic,omitempty"`
}

func viewOf(r *Request) requestView {
	v := requestView{
		ID:              r.ID,
		AdaptorName:     r.AdaptorName,
		AdaptorSource:   r.AdaptorSource,
		AdaptorTrusted:  r.AdaptorTrusted,
		ContentType:     r.ContentType,
		ContentFormat:   r.ContentFormat,
		World:           r.World,
		Posted:          r.Posted,
		Processed:       r.Processed,
		Recorded:        r.Recorded,
		Edited:          r.Edited,
		HasSuggestions:  r.HasSuggestions,
		Broadcast:       r.Broadcast,
		CurrentRevision: r.CurrentRevision,
		Revisions:       r.Revisions,
		Suggestions:     r.Rank(),
		TextContent:     r.TextContent(),
		ContentLanguage: r.ContentLanguage(),
		Language:        r.Language(),
		Topic:           r.Topic(),
	}
	if name, ok := locale.LanguageName(v.Language); ok {
		v.LanguageName = name
	}
	return v
}

func (h *HTTPHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var body models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Log.WithError(err).Warn("invalid submission payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	posted := body.Posted
	if posted.IsZero() {
		posted = time.Now().UTC()
	}
	trusted := false
	candidate := intake.Candidate{
		AdaptorName:     webAdaptorName,
		AdaptorSource:   webAdaptorSource,
		AdaptorTrusted:  &trusted,
		Content:         body.Content,
		Format:          body.ContentFormat,
		Posted:          posted,
		World:           body.World,
		Language:        body.Language,
		ContentLanguage: body.ContentLanguage,
		Topic:           body.Topic,
	}

	req, err := h.service.Submit(r.Context(), candidate)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.SubmitResponse{
		ID:        req.ID,
		Status:    "accepted",
		Timestamp: req.Processed,
	})
}

func (h *HTTPHandler) handleList(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.service.List(r.Context(), r.URL.Query().Get("world"), r.URL.Query().Get("content_type"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	views := make([]requestView, 0, len(reqs))
	for i := range reqs {
		views = append(views, viewOf(&reqs[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

func (h *HTTPHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	req, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(viewOf(req))
}

func (h *HTTPHandler) handleSetContent(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	var body models.SetContentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req, err := h.service.SetContent(r.Context(), id, ContentFields{
		TextContent:     body.TextContent,
		ContentLanguage: body.ContentLanguage,
		Language:        body.Language,
		Topic:           body.Topic,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(viewOf(req))
}

func (h *HTTPHandler) handleSetRevision(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	var body models.SetRevisionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req, err := h.service.SetRevision(r.Context(), id, body.Revision)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(viewOf(req))
}

func (h *HTTPHandler) handleRevert(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	req, err := h.service.Revert(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(viewOf(req))
}

func (h *HTTPHandler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	var body models.SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req, err := h.service.Suggest(r.Context(), id, body.URL)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(viewOf(req))
}

func (h *HTTPHandler) handleVote(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	var body models.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req, err := h.service.Vote(r.Context(), id, body.URL)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(viewOf(req))
}

func (h *HTTPHandler) handlePool(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ContentPool(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func requestID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case intake.IsValidationError(err),
		errors.Is(err, ErrInvalidSuggestionURL),
		errors.Is(err, ErrInvalidLanguage),
		errors.Is(err, ErrInvalidTopic),
		errors.Is(err, ErrRevisionOutOfRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrDuplicateSuggestion):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrSuggestionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		logger.Log.WithError(err).Error("request handler failure")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
