package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aircast/hub/pkg/common/logger"
	"github.com/aircast/hub/pkg/common/models"
	"github.com/gorilla/mux"
)

// RegistryHandler exposes remote adaptor registration over HTTP.
type RegistryHandler struct {
	registry *Registry
}

func NewRegistryHandler(registry *Registry) *RegistryHandler {
	return &RegistryHandler{registry: registry}
}

func (h *RegistryHandler) Register(router *mux.Router) {
	router.HandleFunc("/adaptors", h.handleCreate).Methods(http.MethodPost)
	router.HandleFunc("/adaptors", h.handleList).Methods(http.MethodGet)
	router.HandleFunc("/adaptors/{id}", h.handleGet).Methods(http.MethodGet)
	router.HandleFunc("/adaptors/{id}", h.handleUpdate).Methods(http.MethodPut)
}

func (h *RegistryHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body models.RegisterAdaptorRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Name == "" || body.Source == "" || body.Contact == "" {
		http.Error(w, "name, source and contact are required", http.StatusBadRequest)
		return
	}

	a := &RemoteAdaptor{
		Name:    body.Name,
		Source:  body.Source,
		Contact: body.Contact,
		Trusted: body.Trusted,
	}
	if err := h.registry.Create(r.Context(), a); err != nil {
		logger.Log.WithError(err).Error("failed to register adaptor")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// The key in this response is the only chance to capture it; every
	// subsequent save regenerates it.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.RegisterAdaptorResponse{
		ID:      a.ID,
		Name:    a.Name,
		APIKey:  a.APIKey,
		Created: a.CreatedAt,
	})
}

func (h *RegistryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	adaptors, err := h.registry.List(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to list adaptors")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(adaptors)
}

func (h *RegistryHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.registry.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, ErrAdaptorNotFound) {
			http.Error(w, "adaptor not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to fetch adaptor")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a)
}

func (h *RegistryHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	a, err := h.registry.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, ErrAdaptorNotFound) {
			http.Error(w, "adaptor not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to fetch adaptor")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var body models.RegisterAdaptorRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Source != "" {
		a.Source = body.Source
	}
	if body.Contact != "" {
		a.Contact = body.Contact
	}
	a.Trusted = body.Trusted

	if err := h.registry.Save(r.Context(), a); err != nil {
		logger.Log.WithError(err).Error("failed to update adaptor")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.RegisterAdaptorResponse{
		ID:      a.ID,
		Name:    a.Name,
		APIKey:  a.APIKey,
		Created: a.CreatedAt,
	})
}
