package http

import (
	"errors"
	"net/http"

	"pocketarchive/internal/httpx"
	"pocketarchive/internal/lending"
	"pocketarchive/internal/session"
	"pocketarchive/internal/store"
)

// writeDomainError maps domain errors onto the HTTP error envelope. Nothing
// collapses to an empty result: a store outage, a missing record, and a rule
// violation each get their own status and code.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", "record not found")
	case errors.Is(err, store.ErrUnavailable):
		httpx.JSONError(w, http.StatusServiceUnavailable, "store_unavailable", "store unavailable")
	case errors.Is(err, store.ErrConflict):
		httpx.JSONError(w, http.StatusConflict, "conflict", "record conflict")
	case errors.Is(err, lending.ErrNoCopiesAvailable):
		httpx.JSONError(w, http.StatusConflict, "no_copies_available", "no copies available, reserve instead")
	case errors.Is(err, lending.ErrAlreadyBorrowed):
		httpx.JSONError(w, http.StatusConflict, "already_borrowed", "book already borrowed by user")
	case errors.Is(err, lending.ErrAlreadyReserved):
		httpx.JSONError(w, http.StatusConflict, "already_reserved", "book already reserved by user")
	case errors.Is(err, lending.ErrNotActive):
		httpx.JSONError(w, http.StatusConflict, "not_active", "borrow is not active")
	case errors.Is(err, lending.ErrNotPending):
		httpx.JSONError(w, http.StatusConflict, "not_pending", "reservation is not pending")
	case errors.Is(err, session.ErrInvalidRole):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_role", "role must be reader or librarian")
	case errors.Is(err, session.ErrRoleMismatch):
		httpx.JSONError(w, http.StatusConflict, "role_mismatch", "user role does not match requested role")
	case errors.Is(err, session.ErrNoSession):
		httpx.JSONError(w, http.StatusUnauthorized, "no_session", "no active session")
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", "an internal error occurred")
	}
}
