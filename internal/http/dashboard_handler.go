package http

import (
	"net/http"
	"time"

	"pocketarchive/internal/catalog"
	"pocketarchive/internal/entity"
	"pocketarchive/internal/httpx"
	"pocketarchive/internal/session"
	"pocketarchive/internal/store"
)

// DashboardHandler serves the librarian monitoring views.
type DashboardHandler struct {
	store store.Store
	gate  *session.Gate
	now   func() time.Time
}

func NewDashboardHandler(st store.Store, gate *session.Gate) *DashboardHandler {
	return &DashboardHandler{store: st, gate: gate, now: time.Now}
}

// Stats serves GET /dashboard/stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireLibrarian(h.gate, w); !ok {
		return
	}
	books, err := h.store.ListBooks(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	borrows, err := h.store.ListBorrows(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.JSONSuccess(w, catalog.ComputeStats(books, users, borrows, h.now()))
}

type activeBorrowRow struct {
	entity.Borrow
	Book    *entity.Book `json:"book,omitempty"`
	User    *entity.User `json:"user,omitempty"`
	Overdue bool         `json:"overdue"`
}

// Borrows serves GET /dashboard/borrows: every active borrow joined with
// its book and user, flagged when overdue.
func (h *DashboardHandler) Borrows(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireLibrarian(h.gate, w); !ok {
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
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	bookIdx := make(map[string]*entity.Book, len(books))
	for i := range books {
		bookIdx[books[i].ID] = &books[i]
	}
	userIdx := make(map[string]*entity.User, len(users))
	for i := range users {
		userIdx[users[i].ID] = &users[i]
	}

	now := h.now()
	rows := []activeBorrowRow{}
	for _, b := range borrows {
		if b.Status != entity.BorrowActive {
			continue
		}
		rows = append(rows, activeBorrowRow{
			Borrow:  b,
			Book:    bookIdx[b.BookID],
			User:    userIdx[b.UserID],
			Overdue: b.DueDate.Before(now),
		})
	}
	httpx.JSONSuccess(w, rows)
}
