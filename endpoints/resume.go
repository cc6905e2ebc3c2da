package endpoints

import (
	"log"
	"net/http"

	"github.com/pkg/errors"

	"github.com/resumecast/resume-chat-service/internal/store"
)

// ResumeHandler returns the last-loaded grounding text, for diagnostics.
func ResumeHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text := deps.Snapshot.Get()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"context": text,
			"length":  len(text),
		})
	}
}

// ReloadResumeHandler re-fetches the configured default slug into the
// diagnostic snapshot. The route is guarded by the admin token middleware.
func ReloadResumeHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		oldLength := len(deps.Snapshot.Get())

		g, err := deps.Loader.Load(r.Context(), deps.Config.DefaultSlug)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Resume not found")
			return
		}
		if err != nil {
			log.Printf("Resume reload failed for %q: %v", deps.Config.DefaultSlug, err)
			writeError(w, http.StatusServiceUnavailable, "Resume context unavailable")
			return
		}

		deps.Snapshot.Set(g.PublicText)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":     "success",
			"slug":       deps.Config.DefaultSlug,
			"old_length": oldLength,
			"new_length": len(g.PublicText),
		})
	}
}
