package contacts

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
	endpointName     = "contact"
	successMessage   = "Thank you for your message. We will get back to you soon."
	notifyTimeout    = 10 * time.Second
	defaultListLimit = 50
	maxListLimit     = 100
)

// Limiter gates submissions per client.
type Limiter interface {
	Allow(ctx context.Context, clientID string) (bool, error)
}

// Notifier tells staff about a stored message.
type Notifier interface {
	ContactReceived(ctx context.Context, msg *ContactMessage) error
}

// Handler serves the public contact form and the admin inbox.
type Handler struct {
	repo     Repository
	limiter  Limiter
	notifier Notifier
	metrics  *metrics.IntakeMetrics
	logger   *logging.Logger
}

// HandlerConfig wires a Handler. Only Repo is required.
type HandlerConfig struct {
	Repo     Repository
	Limiter  Limiter
	Notifier Notifier
	Metrics  *metrics.IntakeMetrics
	Logger   *logging.Logger
}

// NewHandler creates a new contacts handler
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Repo == nil {
		panic("contacts: repository required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Handler{
		repo:     cfg.Repo,
		limiter:  cfg.Limiter,
		notifier: cfg.Notifier,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

// SubmitResponse is returned after a message is stored.
type SubmitResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// Submit handles POST /contact requests
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
		h.logger.Warn("contact: invalid body", "error", err)
		h.observe(metrics.OutcomeInvalid, start)
		intake.WriteError(w, http.StatusBadRequest, intake.MsgInvalidBody)
		return
	}

	if err := req.Validate(); err != nil {
		var fieldErr *intake.FieldError
		if errors.As(err, &fieldErr) {
			h.observe(metrics.OutcomeInvalid, start)
			intake.WriteError(w, http.StatusBadRequest, fieldErr.Message)
			return
		}
		h.observe(metrics.OutcomeInvalid, start)
		intake.WriteError(w, http.StatusBadRequest, intake.MsgInvalidBody)
		return
	}

	msg := req.toMessage(clientIP, intake.UserAgent(r))
	if err := h.repo.Create(ctx, msg); err != nil {
		h.logger.Error("contact: failed to store message",
			"error", err,
			"endpoint", endpointName,
			"client_ip", clientIP,
			"request_id", chimw.GetReqID(ctx),
		)
		h.observe(metrics.OutcomeStoreFailed, start)
		intake.WriteError(w, http.StatusInternalServerError, intake.MsgServerFailed)
		return
	}

	h.logger.Info("contact message received", "id", msg.ID)
	h.notify(ctx, msg)
	h.observe(metrics.OutcomeAccepted, start)
	intake.WriteJSON(w, http.StatusOK, SubmitResponse{Message: successMessage, ID: msg.ID})
}

// allow consults the limiter. A failing limiter store lets the request through.
func (h *Handler) allow(ctx context.Context, clientIP string) bool {
	if h.limiter == nil {
		return true
	}
	allowed, err := h.limiter.Allow(ctx, clientIP)
	if err != nil {
		h.logger.Warn("contact: rate limit check failed, allowing request", "error", err)
		return true
	}
	return allowed
}

func (h *Handler) notify(ctx context.Context, msg *ContactMessage) {
	if h.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	err := h.notifier.ContactReceived(ctx, msg)
	h.metrics.ObserveNotification(endpointName, err == nil)
	if err != nil {
		h.logger.Warn("contact: staff notification failed", "error", err, "id", msg.ID)
	}
}

func (h *Handler) observe(outcome string, start time.Time) {
	h.metrics.ObserveSubmission(endpointName, outcome, time.Since(start).Seconds())
}

// ListResponse is the response for listing contact messages
type ListResponse struct {
	Messages []*ContactMessage `json:"messages"`
	Total    int               `json:"total"`
	Offset   int               `json:"offset"`
	Limit    int               `json:"limit"`
}

// List handles GET /admin/contacts requests
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

	messages, total, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list contact messages", "error", err)
		intake.WriteError(w, http.StatusInternalServerError, "failed to list contact messages")
		return
	}

	intake.WriteJSON(w, http.StatusOK, ListResponse{
		Messages: messages,
		Total:    total,
		Offset:   filter.Offset,
		Limit:    filter.Limit,
	})
}

// Get handles GET /admin/contacts/{id} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	msg, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeRepoError(w, err, "failed to load contact message")
		return
	}
	intake.WriteJSON(w, http.StatusOK, msg)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /admin/contacts/{id}/status requests
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := intake.DecodeJSON(w, r, &req); err != nil {
		intake.WriteError(w, http.StatusBadRequest, intake.MsgInvalidBody)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		h.writeRepoError(w, err, "failed to update contact message")
		return
	}
	h.logger.Info("contact message status updated", "id", id, "status", req.Status)
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /admin/contacts/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeRepoError(w, err, "failed to delete contact message")
		return
	}
	h.logger.Info("contact message deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeRepoError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrContactNotFound):
		intake.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus):
		intake.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback, "error", err)
		intake.WriteError(w, http.StatusInternalServerError, fallback)
	}
}
