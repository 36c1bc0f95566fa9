package category

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"bookshelf/internal/httpx"
)

const (
	msgNotFound = "Category not found"
	msgDeleted  = "Category deleted successfully"
)

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// Register mounts the category routes on mux under prefix.
func (h *HTTPHandler) Register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("GET "+prefix, h.List)
	mux.HandleFunc("POST "+prefix, h.Create)
	mux.HandleFunc("GET "+prefix+"/{id}", h.GetByID)
	mux.HandleFunc("PUT "+prefix+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+prefix+"/{id}", h.Delete)
}

// List handles GET /api/categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} Category
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/categories [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		h.internalError(w, r, "list categories", err)
		return
	}
	httpx.JSONSuccess(w, categories)
}

// Create handles POST /api/categories
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body Input true "Category"
// @Success 201 {object} Category
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/categories [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req Input
	if !httpx.DecodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.internalError(w, r, "create category", err)
		return
	}
	httpx.JSONSuccessCreated(w, c)
}

// GetByID handles GET /api/categories/{id}
// @Summary Get category
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} Category
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/categories/{id} [get]
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, "get category", err)
		return
	}
	httpx.JSONSuccess(w, c)
}

// Update handles PUT /api/categories/{id}
// @Summary Replace category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body Input true "Category"
// @Success 200 {object} Category
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/categories/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req Input
	if !httpx.DecodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.service.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.writeError(w, r, "update category", err)
		return
	}
	httpx.JSONSuccess(w, c)
}

// Delete handles DELETE /api/categories/{id}
// @Summary Delete category
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/categories/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, "delete category", err)
		return
	}
	httpx.JSONMessage(w, msgDeleted)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.JSONNotFound(w, r, msgNotFound)
		return
	}
	h.internalError(w, r, op, err)
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(op,
		zap.String("request_id", httpx.RequestIDFrom(r)),
		zap.Error(err),
	)
	httpx.JSONInternalError(w, r)
}
