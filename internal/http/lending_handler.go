package http

import (
	"encoding/json"
	"net/http"

	"pocketarchive/internal/entity"
	"pocketarchive/internal/httpx"
	"pocketarchive/internal/lending"
	"pocketarchive/internal/session"
	"pocketarchive/internal/store"
)

type LendingHandler struct {
	svc   *lending.Service
	store store.Store
	gate  *session.Gate
}

func NewLendingHandler(svc *lending.Service, st store.Store, gate *session.Gate) *LendingHandler {
	return &LendingHandler{svc: svc, store: st, gate: gate}
}

type borrowResult struct {
	Borrow entity.Borrow `json:"borrow"`
	Book   entity.Book   `json:"book"`
}

// Borrow serves POST /borrows.
func (h *LendingHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, ok := requireUser(h.gate, w)
	if !ok {
		return
	}
	var payload struct {
		BookID string `json:"bookId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.BookID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", "bookId is required")
		return
	}

	borrow, book, err := h.svc.Borrow(r.Context(), payload.BookID, user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSONCreated(w, borrowResult{Borrow: borrow, Book: book})
}

// Return serves POST /borrows/{id}/return. Readers may only return their
// own loans; librarians process any return.
func (h *LendingHandler) Return(w http.ResponseWriter, r *http.Request) {
	borrowID, ok := pathParam(r.URL.Path, "/borrows/", "/return")
	if !ok || r.Method != http.MethodPost {
		if !ok {
			http.NotFound(w, r)
		} else {
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	user, ok := requireUser(h.gate, w)
	if !ok {
		return
	}
	borrow, err := h.store.GetBorrow(r.Context(), borrowID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if user.Role != entity.RoleLibrarian && borrow.UserID != user.ID {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", "not your borrow")
		return
	}

	updated, book, err := h.svc.Return(r.Context(), borrowID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSONSuccess(w, borrowResult{Borrow: updated, Book: book})
}

// Reserve serves POST /reservations.
func (h *LendingHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	user, ok := requireUser(h.gate, w)
	if !ok {
		return
	}
	var payload struct {
		BookID string `json:"bookId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.BookID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_body", "bookId is required")
		return
	}

	reservation, err := h.svc.Reserve(r.Context(), payload.BookID, user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSONCreated(w, reservation)
}

// Cancel serves POST /reservations/{id}/cancel.
func (h *LendingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	reservationID, ok := pathParam(r.URL.Path, "/reservations/", "/cancel")
	if !ok || r.Method != http.MethodPost {
		if !ok {
			http.NotFound(w, r)
		} else {
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	user, ok := requireUser(h.gate, w)
	if !ok {
		return
	}
	reservation, err := h.store.GetReservation(r.Context(), reservationID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if user.Role != entity.RoleLibrarian && reservation.UserID != user.ID {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", "not your reservation")
		return
	}

	updated, err := h.svc.CancelReservation(r.Context(), reservationID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSONSuccess(w, updated)
}
