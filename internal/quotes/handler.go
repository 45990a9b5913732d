package quotes

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/eksdesign/stand-platform/internal/intake"
	"github.com/eksdesign/stand-platform/internal/observability/metrics"
	"github.com/eksdesign/stand-platform/pkg/logging"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	endpointName     = "quote_request"
	successMessage   = "Thank you for your quote request. Our team will contact you shortly."
	notifyTimeout    = 10 * time.Second
	defaultListLimit = 50
	maxListLimit     = 100
)

// Limiter gates submissions per client.
type Limiter interface {
	Allow(ctx context.Context, clientID string) (bool, error)
}

// Notifier tells staff about a stored quote request.
type Notifier interface {
	QuoteReceived(ctx context.Context, q *QuoteRequest, referenceNumber string) error
}

// Handler serves the public quote form and the admin quote list.
type Handler struct {
	repo      Repository
	limiter   Limiter
	notifier  Notifier
	metrics   *metrics.IntakeMetrics
	logger    *logging.Logger
	refPrefix string
	now       func() time.Time
}

// HandlerConfig wires a Handler. Only Repo is required.
type HandlerConfig struct {
	Repo            Repository
	Limiter         Limiter
	Notifier        Notifier
	Metrics         *metrics.IntakeMetrics
	Logger          *logging.Logger
	ReferencePrefix string
	// Now overrides the clock used for event date checks.
	Now func() time.Time
}

// NewHandler creates a new quotes handler
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Repo == nil {
		panic("quotes: repository required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.ReferencePrefix == "" {
		cfg.ReferencePrefix = DefaultReferencePrefix
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Handler{
		repo:      cfg.Repo,
		limiter:   cfg.Limiter,
		notifier:  cfg.Notifier,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		refPrefix: cfg.ReferencePrefix,
		now:       cfg.Now,
	}
}

// SubmitResponse is returned after a quote request is stored.
type SubmitResponse struct {
	Message         string `json:"message"`
	ID              string `json:"id"`
	ReferenceNumber string `json:"reference_number"`
}

// Submit handles POST /quote-request requests
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	clientIP := intake.ClientIP(r.Header)

	if !h.allow(ctx, clientIP) {
		h.observe(metrics.OutcomeRateLimited, start)
		intake.WriteError(w, http.StatusTooManyRequests, intake.MsgRateLimited)
		return
	}

	var req SubmitRequest
	if err := intake.DecodeJSON(w, r, &req); err != nil {
		h.logger.Warn("quote: invalid body", "error", err)
		h.observe(metrics.OutcomeInvalid, start)
		intake.WriteError(w, http.StatusBadRequest, intake.MsgInvalidBody)
		return
	}

	if err := req.Validate(h.now()); err != nil {
		h.observe(metrics.OutcomeInvalid, start)
		var fieldErr *intake.FieldError
		if errors.As(err, &fieldErr) {
			intake.WriteError(w, http.StatusBadRequest, fieldErr.Message)
			return
		}
		intake.WriteError(w, http.StatusBadRequest, intake.MsgInvalidBody)
		return
	}

	q := req.toQuote(clientIP, intake.UserAgent(r))
	if err := h.repo.Create(ctx, q); err != nil {
		h.logger.Error("quote: failed to store request",
			"error", err,
			"endpoint", endpointName,
			"client_ip", clientIP,
			"request_id", chimw.GetReqID(ctx),
		)
		h.observe(metrics.OutcomeStoreFailed, start)
		intake.WriteError(w, http.StatusInternalServerError, intake.MsgServerFailed)
		return
	}

	ref := ReferenceNumber(h.refPrefix, q.ID)
	h.logger.Info("quote request received", "id", q.ID, "reference_number", ref)
	h.notify(ctx, q, ref)
	h.observe(metrics.OutcomeAccepted, start)
	intake.WriteJSON(w, http.StatusOK, SubmitResponse{
		Message:         successMessage,
		ID:              q.ID,
		ReferenceNumber: ref,
	})
}

// allow consults the limiter. A failing limiter store lets the request through.
func (h *Handler) allow(ctx context.Context, clientIP string) bool {
	if h.limiter == nil {
		return true
	}
	allowed, err := h.limiter.Allow(ctx, clientIP)
	if err != nil {
		h.logger.Warn("quote: rate limit check failed, allowing request", "error", err)
		return true
	}
	return allowed
}

func (h *Handler) notify(ctx context.Context, q *QuoteRequest, ref string) {
	if h.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	err := h.notifier.QuoteReceived(ctx, q, ref)
	h.metrics.ObserveNotification(endpointName, err == nil)
	if err != nil {
		h.logger.Warn("quote: staff notification failed", "error", err, "id", q.ID)
	}
}

func (h *Handler) observe(outcome string, start time.Time) {
	h.metrics.ObserveSubmission(endpointName, outcome, time.Since(start).Seconds())
}

// QuoteView is a stored request plus its reference number.
type QuoteView struct {
	*QuoteRequest
	ReferenceNumber string `json:"reference_number"`
}

// ListResponse is the response for listing quote requests
type ListResponse struct {
	Quotes []QuoteView `json:"quotes"`
	Total  int         `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}

// List handles GET /admin/quotes requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Limit: defaultListLimit}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= maxListLimit {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}
	if status := r.URL.Query().Get("status"); status != "" {
		if !ValidStatus(status) {
			intake.WriteError(w, http.StatusBadRequest, ErrInvalidStatus.Error())
			return
		}
		filter.Status = status
	}

	items, total, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list quote requests", "error", err)
		intake.WriteError(w, http.StatusInternalServerError, "failed to list quote requests")
		return
	}

	views := make([]QuoteView, 0, len(items))
	for _, q := range items {
		views = append(views, h.view(q))
	}
	intake.WriteJSON(w, http.StatusOK, ListResponse{
		Quotes: views,
		Total:  total,
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

// Get handles GET /admin/quotes/{id} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeRepoError(w, err, "failed to load quote request")
		return
	}
	intake.WriteJSON(w, http.StatusOK, h.view(q))
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /admin/quotes/{id}/status requests
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := intake.DecodeJSON(w, r, &req); err != nil {
		intake.WriteError(w, http.StatusBadRequest, intake.MsgInvalidBody)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		h.writeRepoError(w, err, "failed to update quote request")
		return
	}
	h.logger.Info("quote request status updated", "id", id, "status", req.Status)
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /admin/quotes/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeRepoError(w, err, "failed to delete quote request")
		return
	}
	h.logger.Info("quote request deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) view(q *QuoteRequest) QuoteView {
	return QuoteView{QuoteRequest: q, ReferenceNumber: ReferenceNumber(h.refPrefix, q.ID)}
}

func (h *Handler) writeRepoError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrQuoteNotFound):
		intake.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus):
		intake.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback, "error", err)
		intake.WriteError(w, http.StatusInternalServerError, fallback)
	}
}
