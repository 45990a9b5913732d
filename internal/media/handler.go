package media

import (
	"errors"
	"net/http"

	"github.com/eksdesign/stand-platform/internal/intake"
	"github.com/eksdesign/stand-platform/pkg/logging"
)

// multipart framing allowance on top of the file itself
const formOverhead = 1 << 20

type Handler struct {
	uploader *Uploader
	logger   *logging.Logger
}

func NewHandler(uploader *Uploader, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{uploader: uploader, logger: logger}
}

// Upload handles POST /admin/uploads with a multipart "file" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.uploader.Enabled() {
		intake.WriteError(w, http.StatusServiceUnavailable, ErrNotConfigured.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+formOverhead)
	file, _, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			intake.WriteError(w, http.StatusRequestEntityTooLarge, ErrTooLarge.Error())
			return
		}
		intake.WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	res, err := h.uploader.Upload(r.Context(), file)
	switch {
	case err == nil:
		intake.WriteJSON(w, http.StatusCreated, res)
	case errors.Is(err, ErrTooLarge):
		intake.WriteError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, ErrUnsupportedType), errors.Is(err, ErrEmptyUpload):
		intake.WriteError(w, http.StatusUnsupportedMediaType, err.Error())
	default:
		h.logger.Error("media upload failed", "error", err)
		intake.WriteError(w, http.StatusInternalServerError, "upload failed")
	}
}
