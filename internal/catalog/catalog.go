// Package catalog holds the read-side queries: search and filtering over
// books, and the per-user and librarian views that join borrows and
// reservations with their books. Everything here is a pure function of its
// inputs.
package catalog

import (
	"sort"
	"strings"
	"time"

	"pocketarchive/internal/entity"
)

// AllGenres is the synthetic genre value that disables genre filtering.
const AllGenres = "all"

// Loan is a borrow joined with its book. Book is nil when the referenced
// book no longer exists, instead of failing the whole view.
type Loan struct {
	entity.Borrow
	Book *entity.Book `json:"book,omitempty"`
}

// Reservation is a reservation joined with its book, nil when missing.
type Reservation struct {
	entity.Reservation
	Book *entity.Book `json:"book,omitempty"`
}

// Stats are the librarian dashboard aggregates.
type Stats struct {
	TotalCopies     int `json:"totalCopies"`
	AvailableCopies int `json:"availableCopies"`
	TotalUsers      int `json:"totalUsers"`
	ActiveBorrows   int `json:"activeBorrows"`
	OverdueBorrows  int `json:"overdueBorrows"`
}

// Search filters books by a case-insensitive substring match on title or
// author and an exact genre match ("all" disables the genre filter). Input
// order is preserved.
func Search(books []entity.Book, text, genre string) []entity.Book {
	needle := strings.ToLower(strings.TrimSpace(text))
	out := make([]entity.Book, 0, len(books))
	for _, b := range books {
		if needle != "" &&
			!strings.Contains(strings.ToLower(b.Title), needle) &&
			!strings.Contains(strings.ToLower(b.Author), needle) {
			continue
		}
		if genre != "" && genre != AllGenres && b.Genre != genre {
			continue
		}
		out = append(out, b)
	}
	return out
}

// GenreList returns "all" followed by the distinct genres present, in
// first-seen order.
func GenreList(books []entity.Book) []string {
	out := []string{AllGenres}
	seen := make(map[string]bool)
	for _, b := range books {
		if b.Genre == "" || seen[b.Genre] {
			continue
		}
		seen[b.Genre] = true
		out = append(out, b.Genre)
	}
	return out
}

func bookIndex(books []entity.Book) map[string]*entity.Book {
	idx := make(map[string]*entity.Book, len(books))
	for i := range books {
		idx[books[i].ID] = &books[i]
	}
	return idx
}

// ActiveLoans returns the user's active borrows, each joined with its book.
func ActiveLoans(userID string, borrows []entity.Borrow, books []entity.Book) []Loan {
	idx := bookIndex(books)
	var out []Loan
	for _, b := range borrows {
		if b.UserID != userID || b.Status != entity.BorrowActive {
			continue
		}
		out = append(out, Loan{Borrow: b, Book: idx[b.BookID]})
	}
	return out
}

// History returns the user's returned borrows joined with their books,
// most recently returned first.
func History(userID string, borrows []entity.Borrow, books []entity.Book) []Loan {
	idx := bookIndex(books)
	var out []Loan
	for _, b := range borrows {
		if b.UserID != userID || b.Status != entity.BorrowReturned {
			continue
		}
		out = append(out, Loan{Borrow: b, Book: idx[b.BookID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		var ti, tj time.Time
		if out[i].ReturnDate != nil {
			ti = *out[i].ReturnDate
		}
		if out[j].ReturnDate != nil {
			tj = *out[j].ReturnDate
		}
		return ti.After(tj)
	})
	return out
}

// PendingReservations returns the user's pending reservations joined with
// their books.
func PendingReservations(userID string, reservations []entity.Reservation, books []entity.Book) []Reservation {
	idx := bookIndex(books)
	var out []Reservation
	for _, r := range reservations {
		if r.UserID != userID || r.Status != entity.ReservationPending {
			continue
		}
		out = append(out, Reservation{Reservation: r, Book: idx[r.BookID]})
	}
	return out
}

// OverdueLoans returns active borrows whose due date is strictly before now.
// Overdue is computed at query time, never stored.
func OverdueLoans(borrows []entity.Borrow, now time.Time) []entity.Borrow {
	var out []entity.Borrow
	for _, b := range borrows {
		if b.Status == entity.BorrowActive && b.DueDate.Before(now) {
			out = append(out, b)
		}
	}
	return out
}

// ComputeStats aggregates the dashboard counters.
func ComputeStats(books []entity.Book, users []entity.User, borrows []entity.Borrow, now time.Time) Stats {
	s := Stats{TotalUsers: len(users)}
	for _, b := range books {
		s.TotalCopies += b.TotalCopies
		s.AvailableCopies += b.AvailableCopies
	}
	for _, b := range borrows {
		if b.Status != entity.BorrowActive {
			continue
		}
		s.ActiveBorrows++
		if b.DueDate.Before(now) {
			s.OverdueBorrows++
		}
	}
	return s
}
