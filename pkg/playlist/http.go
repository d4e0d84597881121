package playlist

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aircast/hub/pkg/common/logger"
	"github.com/aircast/hub/pkg/request"
	"github.com/gorilla/mux"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/requests/{id:[0-9]+}/promote", h.handlePromote).Methods(http.MethodPost)
	router.HandleFunc("/playlists/{date:[0-9]{8}}", h.handleGet).Methods(http.MethodGet)
}

func (h *HTTPHandler) handlePromote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	result, err := h.service.Promote(r.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, request.ErrNotFound):
			http.Error(w, "request not found", http.StatusNotFound)
		case errors.Is(err, request.ErrNoSuggestion):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			logger.Log.WithError(err).Error("failed to promote request")
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *HTTPHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	pl, err := h.service.Get(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "playlist not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to fetch playlist")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pl)
}
