package http

import (
	"encoding/json"
	"net/http"

	"github.com/kanavphull/stores-rest-api/internal/service"
	"github.com/kanavphull/stores-rest-api/pkg/validator"
)

// StoreHandler handles HTTP requests for store endpoints.
type StoreHandler struct {
	service *service.StoreService
}

// NewStoreHandler creates a new store HTTP handler.
func NewStoreHandler(svc *service.StoreService) *StoreHandler {
	return &StoreHandler{service: svc}
}

// CreateStoreRequest is the JSON request body for creating a store.
type CreateStoreRequest struct {
	Name string `json:"name" validate:"required,min=1,max=80"`
}

// List handles GET /store
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.List(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: stores})
}

// Get handles GET /store/{id}
func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	store, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: store})
}

// Create handles POST /store
func (h *StoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	store, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: store})
}

// Delete handles DELETE /store/{id}
func (h *StoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"message": "store deleted"}})
}
