package analytics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/tinytrail/tinytrail/internal/errx"
	"github.com/tinytrail/tinytrail/internal/httpx"
	"github.com/tinytrail/tinytrail/internal/identity"
)

// DailyClicksResponse represents one daily bucket in JSON.
type DailyClicksResponse struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Handler provides the HTTP handlers for click analytics.
type Handler struct {
	service  Service
	identity identity.Provider
	logger   *slog.Logger
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service  Service
	Identity identity.Provider
	Logger   *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service:  cfg.Service,
		identity: cfg.Identity,
		logger:   logger,
	}
}

// ClicksByCode handles GET requests for one mapping's daily click counts.
// The startDate and endDate query parameters are RFC 3339 instants and
// the range is half-open: [startDate, endDate).
func (h *Handler) ClicksByCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
	)

	code := r.PathValue("code")

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("startDate"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input",
			"startDate must be an RFC 3339 timestamp", nil)
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("endDate"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input",
			"endDate must be an RFC 3339 timestamp", nil)
		return
	}

	days, err := h.service.ClicksByCodeAndRange(ctx, code, start, end)
	if err != nil {
		h.handleError(ctx, w, err, "failed to compute daily clicks")
		return
	}

	logger.InfoContext(ctx, "daily clicks computed", "code", code, "buckets", len(days))

	responses := make([]DailyClicksResponse, 0, len(days))
	for _, day := range days {
		responses = append(responses, DailyClicksResponse{
			Date:  day.Date.Format(time.DateOnly),
			Count: day.Count,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, responses)
}

// TotalClicks handles GET requests for the caller's combined daily click
// totals. A bearer key is required; startDate and endDate are inclusive
// calendar dates (2006-01-02).
func (h *Handler) TotalClicks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
	)

	owner, err := h.identity.ResolveIdentity(ctx, httpx.BearerToken(r))
	if err != nil {
		logger.WarnContext(ctx, "identity resolution failed", "error", err.Error())
		httpx.WriteError(w, httpx.ErrorKindToStatus(errx.KindOf(err)),
			httpx.ErrorKindToCode(errx.KindOf(err)), "invalid credentials", nil)
		return
	}

	startDate, err := time.Parse(time.DateOnly, r.URL.Query().Get("startDate"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input",
			"startDate must be a calendar date (2006-01-02)", nil)
		return
	}
	endDate, err := time.Parse(time.DateOnly, r.URL.Query().Get("endDate"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input",
			"endDate must be a calendar date (2006-01-02)", nil)
		return
	}

	totals, err := h.service.TotalClicksByUserAndRange(ctx, owner.ID, startDate, endDate)
	if err != nil {
		h.handleError(ctx, w, err, "failed to compute total clicks")
		return
	}

	logger.InfoContext(ctx, "total clicks computed", "owner", owner.ID.String(), "days", len(totals))

	httpx.WriteJSON(w, http.StatusOK, totals)
}

func (h *Handler) handleError(ctx context.Context, w http.ResponseWriter, err error, public string) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.Invalid:
		h.logger.WarnContext(ctx, "invalid analytics request", logAttrs...)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)

	default:
		h.logger.ErrorContext(ctx, public, logAttrs...)
		httpx.WriteError(w, httpx.ErrorKindToStatus(kind), httpx.ErrorKindToCode(kind),
			"Unable to compute analytics at this time", nil)
	}
}
