package book

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"bookshelf/internal/httpx"
)

const (
	msgNotFound = "Book not found"
	msgDeleted  = "Book deleted successfully"
)

type HTTPHandler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// Register mounts the book routes on mux under prefix.
func (h *HTTPHandler) Register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("GET "+prefix, h.List)
	mux.HandleFunc("POST "+prefix, h.Create)
	mux.HandleFunc("GET "+prefix+"/{id}", h.GetByID)
	mux.HandleFunc("PUT "+prefix+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+prefix+"/{id}", h.Delete)
}

// List handles GET /api/books
// @Summary List books
// @Description Filtered, paginated listing. No total count is returned.
// @Tags books
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param name query string false "Case-insensitive substring of the name"
// @Param author query string false "Case-insensitive substring of the author"
// @Param publishedDate query string false "Exact published date"
// @Param categoryId query string false "Exact category reference"
// @Success 200 {array} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	params, details := parseListQuery(r.URL.Query())
	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid query parameters", details)
		return
	}

	books, err := h.service.List(r.Context(), params)
	if err != nil {
		h.internalError(w, r, "list books", err)
		return
	}
	httpx.JSONSuccess(w, books)
}

func parseListQuery(query url.Values) (Query, []httpx.ErrorDetail) {
	var details []httpx.ErrorDetail

	page, ok := positiveInt(query.Get("page"), DefaultPage)
	if !ok {
		details = append(details, httpx.ErrorDetail{Field: "page", Message: "page must be a positive integer"})
	}
	limit, ok := positiveInt(query.Get("limit"), DefaultLimit)
	if !ok {
		details = append(details, httpx.ErrorDetail{Field: "limit", Message: "limit must be a positive integer"})
	}
	// (page-1)*limit must fit in an int.
	if page-1 > math.MaxInt/limit {
		details = append(details, httpx.ErrorDetail{Field: "page", Message: "page is out of range for the given limit"})
		page = DefaultPage
	}

	params := Query{
		Limit: limit,
		Skip:  (page - 1) * limit,
	}

	if name := query.Get("name"); name != "" {
		params.Name = &name
	}
	if author := query.Get("author"); author != "" {
		params.Author = &author
	}
	if categoryID := query.Get("categoryId"); categoryID != "" {
		params.CategoryID = &categoryID
	}
	if published := query.Get("publishedDate"); published != "" {
		t, err := ParseDate(published)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "publishedDate", Message: "publishedDate must be a date (YYYY-MM-DD or RFC 3339)"})
		} else {
			params.PublishedDate = &t
		}
	}

	return params, details
}

func positiveInt(raw string, def int) (int, bool) {
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def, false
	}
	return v, true
}

// Create handles POST /api/books
// @Summary Create book
// @Tags books
// @Accept json
// @Produce json
// @Param request body Input true "Book"
// @Success 201 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req Input
	if !httpx.DecodeAndValidate(w, r, &req) {
		return
	}

	b, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, "create book", err)
		return
	}
	httpx.JSONSuccessCreated(w, b)
}

// GetByID handles GET /api/books/{id}
// @Summary Get book
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} Book
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id} [get]
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, "get book", err)
		return
	}
	httpx.JSONSuccess(w, b)
}

// Update handles PUT /api/books/{id}
// @Summary Replace book
// @Tags books
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param request body Input true "Book"
// @Success 200 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req Input
	if !httpx.DecodeAndValidate(w, r, &req) {
		return
	}

	b, err := h.service.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.writeError(w, r, "update book", err)
		return
	}
	httpx.JSONSuccess(w, b)
}

// Delete handles DELETE /api/books/{id}
// @Summary Delete book
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.MessageResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, "delete book", err)
		return
	}
	httpx.JSONMessage(w, msgDeleted)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONNotFound(w, r, msgNotFound)
	case errors.Is(err, ErrInvalidCategoryID):
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid input",
			[]httpx.ErrorDetail{{Field: "categoryId", Message: "categoryId is not a valid identifier"}})
	case errors.Is(err, ErrInvalidPublishedDate):
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid input",
			[]httpx.ErrorDetail{{Field: "publishedDate", Message: "publishedDate must be a date (YYYY-MM-DD or RFC 3339)"}})
	default:
		h.internalError(w, r, op, err)
	}
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(op,
		zap.String("request_id", httpx.RequestIDFrom(r)),
		zap.Error(err),
	)
	httpx.JSONInternalError(w, r)
}
