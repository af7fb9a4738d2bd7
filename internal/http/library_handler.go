package http

import (
	"net/http"

	"pocketarchive/internal/catalog"
	"pocketarchive/internal/entity"
	"pocketarchive/internal/httpx"
	"pocketarchive/internal/session"
	"pocketarchive/internal/store"
)

// LibraryHandler serves the logged-in user's personal views.
type LibraryHandler struct {
	store store.Store
	gate  *session.Gate
}

func NewLibraryHandler(st store.Store, gate *session.Gate) *LibraryHandler {
	return &LibraryHandler{store: st, gate: gate}
}

// Loans serves GET /me/loans.
func (h *LibraryHandler) Loans(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authorized(w, r)
	if !ok {
		return
	}
	borrows, err := h.store.ListBorrows(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	books, err := h.store.ListBooks(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSONSuccess(w, catalog.ActiveLoans(user.ID, borrows, books))
}

// History serves GET /me/history.
func (h *LibraryHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authorized(w, r)
	if !ok {
		return
	}
	borrows, err := h.store.ListBorrows(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	books, err := h.store.ListBooks(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSONSuccess(w, catalog.History(user.ID, borrows, books))
}

// Reservations serves GET /me/reservations.
func (h *LibraryHandler) Reservations(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authorized(w, r)
	if !ok {
		return
	}
	reservations, err := h.store.ListReservations(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	books, err := h.store.ListBooks(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSONSuccess(w, catalog.PendingReservations(user.ID, reservations, books))
}

func (h *LibraryHandler) authorized(w http.ResponseWriter, r *http.Request) (*entity.User, bool) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return nil, false
	}
	return requireUser(h.gate, w)
}
