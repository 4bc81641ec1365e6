package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adonix/internal/models"
	platformmetrics "adonix/internal/platform/metrics"
	"adonix/internal/platform/middleware"
	"adonix/internal/platform/middleware/cors"
	dErrors "adonix/pkg/domain-errors"
	"adonix/pkg/platform/httputil"
)

// Service defines the newsletter operations the handler exposes.
type Service interface {
	Subscribe(ctx context.Context, listName, emailAddress string) error
	GetList(ctx context.Context, listID string) (*models.NewsletterSubscription, error)
}

// SubscribeRequest is the body of POST /newsletter/subscribe/.
type SubscribeRequest struct {
	ListName     string `json:"listName"`
	EmailAddress string `json:"emailAddress"`
}

// Handler handles newsletter endpoints.
type Handler struct {
	logger     *slog.Logger
	newsletter Service
	origins    cors.RuleSet
	metrics    *platformmetrics.Metrics
	adminToken string
	limit      func(http.Handler) http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithSubscribeLimiter runs mw on the subscribe route after the origin check.
func WithSubscribeLimiter(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.limit = mw
	}
}

// New creates a newsletter Handler. origins gates the public subscribe route;
// adminToken gates list reads.
func New(
	newsletter Service,
	logger *slog.Logger,
	origins cors.RuleSet,
	metrics *platformmetrics.Metrics,
	adminToken string,
	opts ...Option) *Handler {
	h := &Handler{
		logger:     logger,
		newsletter: newsletter,
		origins:    origins,
		metrics:    metrics,
		adminToken: adminToken,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the newsletter routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/newsletter", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(cors.Gate(h.origins, h.logger, h.metrics))
			subscribe := http.Handler(http.HandlerFunc(h.handleSubscribe))
			if h.limit != nil {
				subscribe = h.limit(subscribe)
			}
			r.Method(http.MethodPost, "/subscribe/", subscribe)
			r.Method(http.MethodPost, "/subscribe", subscribe)
			r.Options("/subscribe/", handlePreflight)
			r.Options("/subscribe", handlePreflight)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdminToken(h.adminToken, h.logger))
			r.Get("/{listId}/", h.handleGetList)
			r.Get("/{listId}", h.handleGetList)
		})
	})
}

// handleSubscribe adds an email address to a mailing list, creating the list
// when it does not exist yet.
func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid subscribe request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidParams, "invalid request body"))
		return
	}

	if err := h.newsletter.Subscribe(ctx, req.ListName, req.EmailAddress); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidParams) {
			h.logger.WarnContext(ctx, "subscribe request missing fields",
				"request_id", requestID,
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to subscribe",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to subscribe"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "Success"})
}

// handleGetList returns a mailing list with its subscribers.
func (h *Handler) handleGetList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listID := chi.URLParam(r, "listId")

	list, err := h.newsletter.GetList(ctx, listID)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "failed to load newsletter list",
				"request_id", middleware.GetRequestID(ctx),
				"list_id", listID,
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// handlePreflight answers OPTIONS requests the CORS gate lets through
// without a preflight method header.
func handlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
