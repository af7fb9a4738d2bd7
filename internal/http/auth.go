package http

import (
	"net/http"
	"strings"

	"pocketarchive/internal/entity"
	"pocketarchive/internal/httpx"
	"pocketarchive/internal/session"
)

// requireUser rejects anonymous requests. The gate is the single source of
// identity; there is no token auth in this design.
func requireUser(gate *session.Gate, w http.ResponseWriter) (*entity.User, bool) {
	u := gate.Current()
	if u == nil {
		httpx.JSONError(w, http.StatusUnauthorized, "no_session", "login required")
		return nil, false
	}
	return u, true
}

func requireLibrarian(gate *session.Gate, w http.ResponseWriter) (*entity.User, bool) {
	u, ok := requireUser(gate, w)
	if !ok {
		return nil, false
	}
	if u.Role != entity.RoleLibrarian {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", "librarian role required")
		return nil, false
	}
	return u, true
}

// pathParam extracts the single path segment after prefix, e.g. the id in
// /books/{id}. An optional trailing suffix like "/return" is allowed.
func pathParam(path, prefix, suffix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(path, prefix)
	if suffix != "" {
		if !strings.HasSuffix(rest, suffix) {
			return "", false
		}
		rest = strings.TrimSuffix(rest, suffix)
	}
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
