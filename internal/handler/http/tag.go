package http

import (
	"encoding/json"
	"net/http"

	"github.com/kanavphull/stores-rest-api/internal/domain"
	"github.com/kanavphull/stores-rest-api/internal/service"
	"github.com/kanavphull/stores-rest-api/pkg/validator"
)

// TagHandler handles HTTP requests for tag and item-tag link endpoints.
type TagHandler struct {
	service *service.TagService
}

// NewTagHandler creates a new tag HTTP handler.
func NewTagHandler(svc *service.TagService) *TagHandler {
	return &TagHandler{service: svc}
}

// CreateTagRequest is the JSON request body for creating a tag in a store.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=80"`
}

// UnlinkResponse is the body returned when a tag is detached from an item.
type UnlinkResponse struct {
	Message string       `json:"message"`
	Item    *domain.Item `json:"item"`
	Tag     *domain.Tag  `json:"tag"`
}

// --- Handlers ---

// ListForStore handles GET /store/{id}/tag
func (h *TagHandler) ListForStore(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	tags, err := h.service.ListForStore(r.Context(), storeID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: tags})
}

// CreateForStore handles POST /store/{id}/tag
func (h *TagHandler) CreateForStore(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CreateTagRequest
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

	tag, err := h.service.CreateForStore(r.Context(), storeID, req.Name)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: tag})
}

// Get handles GET /tag/{id}
func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	tag, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: tag})
}

// Delete handles DELETE /tag/{id}. A tag still linked to items is refused.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"message": "tag deleted"}})
}

// Link handles POST /item/{id}/tag/{tagID}
func (h *TagHandler) Link(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	tagID, ok := pathID(w, r, "tagID")
	if !ok {
		return
	}

	tag, err := h.service.LinkToItem(r.Context(), itemID, tagID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: tag})
}

// Unlink handles DELETE /item/{id}/tag/{tagID}
func (h *TagHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	tagID, ok := pathID(w, r, "tagID")
	if !ok {
		return
	}

	item, tag, err := h.service.UnlinkFromItem(r.Context(), itemID, tagID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: UnlinkResponse{
		Message: "item removed from tag",
		Item:    item,
		Tag:     tag,
	}})
}
