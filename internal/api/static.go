package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// mediaHandler serves files under root for a wildcard-mounted route.
// http.ServeFile supplies Content-Type and byte-range semantics, which the
// editor relies on for preview scrubbing. Paths escaping root are refused.
func mediaHandler(root, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rel := chi.URLParam(r, "*")
		if rel == "" {
			http.NotFound(w, r)
			return
		}

		clean := filepath.Clean(rel)
		if clean == ".." || strings.HasPrefix(clean, "../") || filepath.IsAbs(clean) {
			WriteError(w, http.StatusBadRequest, "invalid media path", "BAD_REQUEST")
			return
		}

		http.ServeFile(w, r, filepath.Join(root, clean))
	}
}
