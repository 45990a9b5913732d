package catalog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/eksdesign/stand-platform/internal/intake"
	"github.com/eksdesign/stand-platform/pkg/logging"
	"github.com/go-chi/chi/v5"
)

// Handler serves site content publicly and its CRUD screens to admins.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// GET /stand-types
func (h *Handler) PublicStandTypes(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListStandTypes(r.Context(), true)
	if err != nil {
		h.fail(w, err, "failed to list stand types")
		return
	}
	intake.WriteJSON(w, http.StatusOK, map[string]any{"stand_types": items})
}

// GET /stand-types/{slug}
func (h *Handler) PublicStandType(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.GetStandType(r.Context(), chi.URLParam(r, "slug"), true)
	if err != nil {
		h.fail(w, err, "failed to load stand type")
		return
	}
	intake.WriteJSON(w, http.StatusOK, item)
}

// GET /services
func (h *Handler) PublicServices(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListServices(r.Context(), true)
	if err != nil {
		h.fail(w, err, "failed to list services")
		return
	}
	intake.WriteJSON(w, http.StatusOK, map[string]any{"services": items})
}

// GET /services/{slug}
func (h *Handler) PublicService(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.GetService(r.Context(), chi.URLParam(r, "slug"), true)
	if err != nil {
		h.fail(w, err, "failed to load service")
		return
	}
	intake.WriteJSON(w, http.StatusOK, item)
}

// GET /projects?stand_type=modular&featured=true
func (h *Handler) PublicProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ProjectFilter{
		StandType:     strings.TrimSpace(q.Get("stand_type")),
		FeaturedOnly:  q.Get("featured") == "true",
		PublishedOnly: true,
	}
	items, err := h.store.ListProjects(r.Context(), filter)
	if err != nil {
		h.fail(w, err, "failed to list projects")
		return
	}
	intake.WriteJSON(w, http.StatusOK, map[string]any{"projects": items})
}

// GET /projects/{slug}
func (h *Handler) PublicProject(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.GetProject(r.Context(), chi.URLParam(r, "slug"), true)
	if err != nil {
		h.fail(w, err, "failed to load project")
		return
	}
	intake.WriteJSON(w, http.StatusOK, item)
}

// GET /admin/stand-types
func (h *Handler) AdminListStandTypes(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListStandTypes(r.Context(), false)
	if err != nil {
		h.fail(w, err, "failed to list stand types")
		return
	}
	intake.WriteJSON(w, http.StatusOK, map[string]any{"stand_types": items})
}

// POST /admin/stand-types
func (h *Handler) CreateStandType(w http.ResponseWriter, r *http.Request) {
	var item StandType
	if !h.decodeValid(w, r, &item, item.Validate) {
		return
	}
	if err := h.store.CreateStandType(r.Context(), &item); err != nil {
		h.fail(w, err, "failed to create stand type")
		return
	}
	h.logger.Info("stand type created", "id", item.ID, "slug", item.Slug)
	intake.WriteJSON(w, http.StatusCreated, item)
}

// PUT /admin/stand-types/{id}
func (h *Handler) UpdateStandType(w http.ResponseWriter, r *http.Request) {
	var item StandType
	if !h.decodeValid(w, r, &item, item.Validate) {
		return
	}
	item.ID = chi.URLParam(r, "id")
	if err := h.store.UpdateStandType(r.Context(), &item); err != nil {
		h.fail(w, err, "failed to update stand type")
		return
	}
	intake.WriteJSON(w, http.StatusOK, item)
}

// DELETE /admin/stand-types/{id}
func (h *Handler) DeleteStandType(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteStandType(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err, "failed to delete stand type")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /admin/services
func (h *Handler) AdminListServices(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListServices(r.Context(), false)
	if err != nil {
		h.fail(w, err, "failed to list services")
		return
	}
	intake.WriteJSON(w, http.StatusOK, map[string]any{"services": items})
}

// POST /admin/services
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var item Service
	if !h.decodeValid(w, r, &item, item.Validate) {
		return
	}
	if err := h.store.CreateService(r.Context(), &item); err != nil {
		h.fail(w, err, "failed to create service")
		return
	}
	h.logger.Info("service created", "id", item.ID, "slug", item.Slug)
	intake.WriteJSON(w, http.StatusCreated, item)
}

// PUT /admin/services/{id}
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var item Service
	if !h.decodeValid(w, r, &item, item.Validate) {
		return
	}
	item.ID = chi.URLParam(r, "id")
	if err := h.store.UpdateService(r.Context(), &item); err != nil {
		h.fail(w, err, "failed to update service")
		return
	}
	intake.WriteJSON(w, http.StatusOK, item)
}

// DELETE /admin/services/{id}
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteService(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err, "failed to delete service")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /admin/projects
func (h *Handler) AdminListProjects(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListProjects(r.Context(), ProjectFilter{
		StandType: strings.TrimSpace(r.URL.Query().Get("stand_type")),
	})
	if err != nil {
		h.fail(w, err, "failed to list projects")
		return
	}
	intake.WriteJSON(w, http.StatusOK, map[string]any{"projects": items})
}

// POST /admin/projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var item Project
	if !h.decodeValid(w, r, &item, item.Validate) {
		return
	}
	if err := h.store.CreateProject(r.Context(), &item); err != nil {
		h.fail(w, err, "failed to create project")
		return
	}
	h.logger.Info("project created", "id", item.ID, "slug", item.Slug)
	intake.WriteJSON(w, http.StatusCreated, item)
}

// PUT /admin/projects/{id}
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var item Project
	if !h.decodeValid(w, r, &item, item.Validate) {
		return
	}
	item.ID = chi.URLParam(r, "id")
	if err := h.store.UpdateProject(r.Context(), &item); err != nil {
		h.fail(w, err, "failed to update project")
		return
	}
	intake.WriteJSON(w, http.StatusOK, item)
}

// DELETE /admin/projects/{id}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err, "failed to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeValid decodes the body into dst and runs validate. It writes the
// 400 itself and reports false on failure.
func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, dst any, validate func() error) bool {
	if err := intake.DecodeJSON(w, r, dst); err != nil {
		intake.WriteError(w, http.StatusBadRequest, intake.MsgInvalidBody)
		return false
	}
	if err := validate(); err != nil {
		var fieldErr *intake.FieldError
		if errors.As(err, &fieldErr) {
			intake.WriteError(w, http.StatusBadRequest, fieldErr.Message)
			return false
		}
		intake.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		intake.WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrSlugTaken):
		intake.WriteError(w, http.StatusConflict, "slug already in use")
	default:
		h.logger.Error(msg, "error", err)
		intake.WriteError(w, http.StatusInternalServerError, msg)
	}
}
