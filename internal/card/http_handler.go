package card

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"cardconjurer/internal/cardset"
	"cardconjurer/internal/cardtext"
	"cardconjurer/internal/httpx"
	"cardconjurer/internal/imagestore"
)

// Response is the API representation of a card. Image fields are URLs.
type Response struct {
	ID         int64         `json:"id"`
	SetID      int64         `json:"set_id"`
	Front      cardtext.Face `json:"front"`
	Back       cardtext.Face `json:"back"`
	FrontArt   string        `json:"front_art"`
	FrontImage string        `json:"front_image"`
	BackArt    string        `json:"back_art"`
	BackImage  string        `json:"back_image"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	View       View          `json:"view"`
	ViewURL    string        `json:"view_url"`
}

type HTTPHandler struct {
	service *Service
	log     *zap.Logger
}

func NewHTTPHandler(service *Service, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

func (h *HTTPHandler) present(c Card) Response {
	return Response{
		ID:         c.ID,
		SetID:      c.SetID,
		Front:      c.Front,
		Back:       c.Back,
		FrontArt:   h.service.ImageURL(c.FrontArt),
		FrontImage: h.service.ImageURL(c.FrontImage),
		BackArt:    h.service.ImageURL(c.BackArt),
		BackImage:  h.service.ImageURL(c.BackImage),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		View:       c.View(),
		ViewURL:    ViewURL(c.ID),
	}
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Card not found", nil)
	case errors.Is(err, cardset.ErrNotFound), errors.Is(err, ErrSetNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "SET_NOT_FOUND", "Set not found", nil)
	case errors.Is(err, imagestore.ErrInvalidDataURL):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_IMAGE", err.Error(), nil)
	case errors.Is(err, ErrInvalidCard):
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), nil)
	default:
		h.log.Error("card request failed",
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// ListBySet handles GET /v1/sets/{id}/cards
func (h *HTTPHandler) ListBySet(w http.ResponseWriter, r *http.Request) {
	setID, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid set id", nil)
		return
	}
	set, cards, err := h.service.ListBySet(r.Context(), setID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out := make([]Response, 0, len(cards))
	for _, c := range cards {
		out = append(out, h.present(c))
	}
	httpx.JSONSuccess(w, r, out, map[string]any{
		"set":   set,
		"total": len(out),
	})
}

// Get handles GET /v1/cards/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid card id", nil)
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, h.present(c), nil)
}

// Create handles POST /v1/cards
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if !httpx.DecodeJSON(w, r, &in) || !httpx.Validate(w, r, in) {
		return
	}
	c, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, h.present(c))
}

// Replace handles PUT /v1/cards/{id}
func (h *HTTPHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid card id", nil)
		return
	}
	var in Input
	if !httpx.DecodeJSON(w, r, &in) || !httpx.Validate(w, r, in) {
		return
	}
	h.update(w, r, id, in.AsPatch())
}

// Patch handles PATCH and POST /v1/cards/{id}
func (h *HTTPHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid card id", nil)
		return
	}
	var p Patch
	if !httpx.DecodeJSON(w, r, &p) || !httpx.Validate(w, r, p) {
		return
	}
	h.update(w, r, id, p)
}

func (h *HTTPHandler) update(w http.ResponseWriter, r *http.Request, id int64, p Patch) {
	c, err := h.service.Update(r.Context(), id, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, h.present(c), nil)
}

// Delete handles DELETE /v1/cards/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid card id", nil)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
