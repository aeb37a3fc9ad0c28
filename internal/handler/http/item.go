package http

import (
	"encoding/json"
	"net/http"

	"github.com/kanavphull/stores-rest-api/internal/service"
	"github.com/kanavphull/stores-rest-api/pkg/validator"
)

// ItemHandler handles HTTP requests for item endpoints.
type ItemHandler struct {
	service *service.ItemService
}

// NewItemHandler creates a new item HTTP handler.
func NewItemHandler(svc *service.ItemService) *ItemHandler {
	return &ItemHandler{service: svc}
}

// --- Request DTOs ---

// CreateItemRequest is the JSON request body for creating an item.
type CreateItemRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=80"`
	Price   float64 `json:"price" validate:"gte=0"`
	StoreID int64   `json:"store_id" validate:"required,gt=0"`
}

// UpsertItemRequest is the JSON request body for PUT /item/{id}. StoreID is
// only required when the item does not exist yet.
type UpsertItemRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=80"`
	Price   float64 `json:"price" validate:"gte=0"`
	StoreID int64   `json:"store_id" validate:"omitempty,gt=0"`
}

// --- Handlers ---

// List handles GET /item
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: items})
}

// Get handles GET /item/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: item})
}

// Create handles POST /item
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CreateItemRequest
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

	item, err := h.service.Create(r.Context(), req.Name, req.Price, req.StoreID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: item})
}

// Upsert handles PUT /item/{id}. Updating an existing item returns 200;
// creating the item at that id returns 201.
func (h *ItemHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req UpsertItemRequest
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

	input := service.UpsertItemInput{
		Name:    req.Name,
		Price:   req.Price,
		StoreID: req.StoreID,
	}

	item, created, err := h.service.Upsert(r.Context(), id, input)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, response{Data: item})
}

// Delete handles DELETE /item/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"message": "item deleted"}})
}
