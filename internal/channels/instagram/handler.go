package instagram

import (
	"net/http"
	"strconv"

	"github.com/eksdesign/stand-platform/internal/intake"
)

// Handler serves the public feed.
type Handler struct {
	feed *Feed
}

func NewHandler(feed *Feed) *Handler {
	return &Handler{feed: feed}
}

// Feed handles GET /instagram/feed?limit=N
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	limit := DefaultFeedLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}
	result := h.feed.Recent(r.Context(), limit)
	w.Header().Set("Cache-Control", "public, max-age=300")
	intake.WriteJSON(w, http.StatusOK, result)
}
