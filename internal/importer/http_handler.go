package importer

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"cardconjurer/internal/cardset"
	"cardconjurer/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	log     *zap.Logger
}

func NewHTTPHandler(service *Service, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// Import handles POST /v1/sets/{id}/import with a legacy card file as the
// body.
func (h *HTTPHandler) Import(w http.ResponseWriter, r *http.Request) {
	setID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || setID <= 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid set id", nil)
		return
	}

	report, err := h.service.Import(r.Context(), setID, "request", r.Body)
	var syntaxErr *json.SyntaxError
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
	case errors.Is(err, cardset.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Set not found", nil)
		return
	case errors.As(err, &tooLarge):
		httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
		return
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	default:
		h.log.Error("import failed",
			zap.String("request_id", httpx.RequestIDFrom(r)),
			zap.Int64("set_id", setID),
			zap.Int("imported", report.Count()),
			zap.Error(err),
		)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Import stopped after an internal error", nil)
		return
	}

	httpx.JSONSuccess(w, r, report, map[string]any{
		"imported": report.Count(),
		"skipped":  len(report.Errors),
	})
}
