package shortener

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tinytrail/tinytrail/internal/errx"
	"github.com/tinytrail/tinytrail/internal/httpx"
	"github.com/tinytrail/tinytrail/internal/identity"
	"github.com/tinytrail/tinytrail/internal/metrics"
)

// HTTPCreateMappingRequest represents the JSON request body for
// shortening a URL.
type HTTPCreateMappingRequest struct {
	OriginalURL string `json:"original_url"`
}

// MappingResponse represents the JSON projection of a mapping.
type MappingResponse struct {
	ID          string `json:"id"`
	ShortCode   string `json:"short_code"`
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
	ClickCount  int64  `json:"click_count"`
	CreatedAt   string `json:"created_at"`
	Owner       string `json:"owner,omitempty"`
}

// Handler provides the HTTP handlers for shortening and redirecting.
type Handler struct {
	service  Service
	identity identity.Provider
	metrics  *metrics.Metrics
	logger   *slog.Logger
	baseURL  string
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service  Service
	Identity identity.Provider
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	BaseURL  string // base for constructing short URLs (e.g., "https://trail.ly")
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := cfg.Metrics
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}

	return &Handler{
		service:  cfg.Service,
		identity: cfg.Identity,
		metrics:  m,
		logger:   logger,
		baseURL:  cfg.BaseURL,
	}
}

// CreateMapping handles POST requests to shorten a URL. A bearer key is
// optional; without one the mapping is anonymous.
func (h *Handler) CreateMapping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
	)

	req, err := httpx.DecodeJSON[HTTPCreateMappingRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	var owner *identity.Identity
	if credentials := httpx.BearerToken(r); credentials != "" {
		id, err := h.identity.ResolveIdentity(ctx, credentials)
		if err != nil {
			logger.WarnContext(ctx, "identity resolution failed", "error", err.Error())
			httpx.WriteError(w, httpx.ErrorKindToStatus(errx.KindOf(err)),
				httpx.ErrorKindToCode(errx.KindOf(err)), "invalid credentials", nil)
			return
		}
		owner = &id
	}

	view, err := h.service.Create(ctx, CreateMappingRequest{
		OriginalURL: req.OriginalURL,
		Owner:       owner,
	})
	if err != nil {
		h.handleCreateError(ctx, w, err)
		return
	}

	h.metrics.MappingCreated()

	logger.InfoContext(ctx, "mapping created",
		"mapping_id", view.ID.String(),
		"short_code", view.ShortCode,
		"anonymous", owner == nil,
	)

	httpx.WriteJSON(w, http.StatusCreated, h.toResponse(view))
}

// ListMyMappings handles GET requests for the caller's own mappings.
// A bearer key is required.
func (h *Handler) ListMyMappings(w http.ResponseWriter, r *http.Request) {
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

	views, err := h.service.ListByOwner(ctx, owner)
	if err != nil {
		kind := errx.KindOf(err)
		logger.ErrorContext(ctx, "failed to list mappings", "error", err.Error(), "error_kind", kind)
		httpx.WriteError(w, httpx.ErrorKindToStatus(kind), httpx.ErrorKindToCode(kind),
			"Unable to list short links at this time", nil)
		return
	}

	responses := make([]MappingResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, h.toResponse(view))
	}

	httpx.WriteJSON(w, http.StatusOK, responses)
}

// Redirect handles GET requests to resolve a short code. Each successful
// resolution counts as one click and answers 302 Found.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
	)

	code := r.PathValue("code")
	if code == "" {
		// Not routed through the mux pattern (e.g. direct handler tests).
		code = strings.TrimPrefix(r.URL.Path, "/")
	}
	if err := validateCodeFormat(code); err != nil {
		logger.WarnContext(ctx, "invalid short code", "code", code, "error", err.Error())
		httpx.WriteError(w, http.StatusNotFound, "not_found", "short link doesn't exist", nil)
		return
	}

	originalURL, err := h.service.Resolve(ctx, code)
	if err != nil {
		h.handleResolveError(ctx, w, err, code)
		return
	}

	h.metrics.RedirectServed()

	logger.InfoContext(ctx, "short code resolved",
		"code", code,
		"original_url", originalURL,
		"referer", r.Referer(),
	)

	http.Redirect(w, r, originalURL, http.StatusFound)
}

func (h *Handler) handleCreateError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.Invalid:
		h.logger.WarnContext(ctx, "invalid shorten request", logAttrs...)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)

	case errx.Unavailable:
		h.logger.ErrorContext(ctx, "shorten unavailable", logAttrs...)
		httpx.WriteError(w, http.StatusServiceUnavailable, "unavailable",
			"Unable to create short link at this time. Please try again.", nil)

	default:
		h.logger.ErrorContext(ctx, "unexpected error creating mapping", logAttrs...)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error",
			"Unable to create short link at this time. Please try again.", nil)
	}
}

func (h *Handler) handleResolveError(ctx context.Context, w http.ResponseWriter, err error, code string) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
		"code", code,
	}

	switch kind {
	case errx.NotFound:
		h.metrics.RedirectNotFound()
		h.logger.WarnContext(ctx, "short code not found", logAttrs...)
		httpx.WriteError(w, http.StatusNotFound, "not_found",
			"short link doesn't exist", nil)

	case errx.Invalid:
		h.logger.WarnContext(ctx, "invalid short code", logAttrs...)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_code", err.Error(), nil)

	default:
		h.logger.ErrorContext(ctx, "unexpected error resolving short code", logAttrs...)
		httpx.WriteError(w, httpx.ErrorKindToStatus(kind), httpx.ErrorKindToCode(kind),
			"Unable to resolve this link at this time", nil)
	}
}

func (h *Handler) toResponse(view MappingView) MappingResponse {
	return MappingResponse{
		ID:          view.ID.String(),
		ShortCode:   view.ShortCode,
		ShortURL:    fmt.Sprintf("%s/%s", h.baseURL, view.ShortCode),
		OriginalURL: view.OriginalURL,
		ClickCount:  view.ClickCount,
		CreatedAt:   view.CreatedAt.Format(time.RFC3339),
		Owner:       view.OwnerName,
	}
}

// validateCodeFormat is a lightweight check before calling the service
// layer; anything that cannot be a generated code is a 404, not a lookup.
func validateCodeFormat(code string) error {
	if code == "" {
		return fmt.Errorf("code is required")
	}
	if len(code) > 64 {
		return fmt.Errorf("code too long")
	}
	return nil
}
