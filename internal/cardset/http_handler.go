package cardset

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"cardconjurer/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	log     *zap.Logger
}

func NewHTTPHandler(service *Service, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// ParseID reads the {id} path value as a positive integer.
func ParseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Set not found", nil)
		return
	}
	h.log.Error("set request failed",
		zap.String("request_id", httpx.RequestIDFrom(r)),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

// List handles GET /v1/sets
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	sets, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, sets, map[string]any{"total": len(sets)})
}

// Get handles GET /v1/sets/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid set id", nil)
		return
	}
	s, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, s, nil)
}

// Create handles POST /v1/sets
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if !httpx.DecodeJSON(w, r, &in) || !httpx.Validate(w, r, in) {
		return
	}
	s, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, s)
}

// Update handles PUT /v1/sets/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid set id", nil)
		return
	}
	var in Input
	if !httpx.DecodeJSON(w, r, &in) || !httpx.Validate(w, r, in) {
		return
	}
	s, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, s, nil)
}

// Delete handles DELETE /v1/sets/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid set id", nil)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
