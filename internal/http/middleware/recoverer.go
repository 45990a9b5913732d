package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/eksdesign/stand-platform/internal/intake"
	"github.com/eksdesign/stand-platform/pkg/logging"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recoverer turns a handler panic into a generic JSON 500. The stack goes to
// the log only.
func Recoverer(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", chimw.GetReqID(r.Context()),
					"stack", string(debug.Stack()),
				)
				intake.WriteError(w, http.StatusInternalServerError, intake.MsgServerFailed)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
