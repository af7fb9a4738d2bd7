package lending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pocketarchive/internal/entity"
	"pocketarchive/internal/store"
)

// LoanPeriod is how long a borrowed copy may be kept before it is overdue.
const LoanPeriod = 14 * 24 * time.Hour

var (
	// ErrNoCopiesAvailable means every copy is on loan; the caller should
	// offer a reservation instead.
	ErrNoCopiesAvailable = errors.New("no copies available")
	// ErrAlreadyBorrowed means the user already holds an active borrow of
	// this book.
	ErrAlreadyBorrowed = errors.New("book already borrowed by user")
	// ErrAlreadyReserved means the user already holds a pending reservation
	// of this book.
	ErrAlreadyReserved = errors.New("book already reserved by user")
	// ErrNotActive means the borrow is not active, so it cannot be returned.
	ErrNotActive = errors.New("borrow is not active")
	// ErrNotPending means the reservation is not pending, so it cannot be
	// cancelled.
	ErrNotPending = errors.New("reservation is not pending")
)

// Service orchestrates the borrow, return, and reservation workflows. A user
// holds at most one active borrow and one pending reservation per book; both
// rules are enforced here rather than trusted to the caller.
type Service struct {
	repo Repository
	now  func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Borrow loans one copy of the book to the user. It creates the active
// borrow record and atomically decrements the book's available copies,
// returning both.
func (s *Service) Borrow(ctx context.Context, bookID, userID string) (entity.Borrow, entity.Book, error) {
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return entity.Borrow{}, entity.Book{}, fmt.Errorf("borrow: %w", err)
	}
	if book.AvailableCopies == 0 {
		return entity.Borrow{}, entity.Book{}, ErrNoCopiesAvailable
	}

	borrows, err := s.repo.ListBorrows(ctx)
	if err != nil {
		return entity.Borrow{}, entity.Book{}, fmt.Errorf("borrow: %w", err)
	}
	for _, b := range borrows {
		if b.BookID == bookID && b.UserID == userID && b.Status == entity.BorrowActive {
			return entity.Borrow{}, entity.Book{}, ErrAlreadyBorrowed
		}
	}

	now := s.now()
	created, err := s.repo.CreateBorrow(ctx, entity.Borrow{
		BookID:     bookID,
		UserID:     userID,
		BorrowDate: now,
		DueDate:    now.Add(LoanPeriod),
		Status:     entity.BorrowActive,
	})
	if err != nil {
		return entity.Borrow{}, entity.Book{}, fmt.Errorf("borrow: %w", err)
	}

	updated, err := s.repo.AdjustBookCopies(ctx, bookID, -1)
	if err != nil {
		return entity.Borrow{}, entity.Book{}, fmt.Errorf("borrow: adjust copies: %w", err)
	}
	return created, updated, nil
}

// Return closes an active borrow and atomically increments the book's
// available copies, clamped at the total so a stray return never inflates
// the count.
func (s *Service) Return(ctx context.Context, borrowID string) (entity.Borrow, entity.Book, error) {
	borrow, err := s.repo.GetBorrow(ctx, borrowID)
	if err != nil {
		return entity.Borrow{}, entity.Book{}, fmt.Errorf("return: %w", err)
	}
	if borrow.Status != entity.BorrowActive {
		return entity.Borrow{}, entity.Book{}, ErrNotActive
	}

	now := s.now()
	status := entity.BorrowReturned
	updated, err := s.repo.UpdateBorrow(ctx, borrowID, store.BorrowPatch{
		Status:     &status,
		ReturnDate: &now,
	})
	if err != nil {
		return entity.Borrow{}, entity.Book{}, fmt.Errorf("return: %w", err)
	}

	book, err := s.repo.AdjustBookCopies(ctx, borrow.BookID, +1)
	if err != nil {
		return entity.Borrow{}, entity.Book{}, fmt.Errorf("return: adjust copies: %w", err)
	}
	return updated, book, nil
}

// Reserve records a pending reservation for the book. It never touches the
// book's counters: a reservation holds no copy.
func (s *Service) Reserve(ctx context.Context, bookID, userID string) (entity.Reservation, error) {
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		return entity.Reservation{}, fmt.Errorf("reserve: %w", err)
	}

	reservations, err := s.repo.ListReservations(ctx)
	if err != nil {
		return entity.Reservation{}, fmt.Errorf("reserve: %w", err)
	}
	for _, r := range reservations {
		if r.BookID == bookID && r.UserID == userID && r.Status == entity.ReservationPending {
			return entity.Reservation{}, ErrAlreadyReserved
		}
	}

	created, err := s.repo.CreateReservation(ctx, entity.Reservation{
		BookID:          bookID,
		UserID:          userID,
		ReservationDate: s.now(),
		Status:          entity.ReservationPending,
	})
	if err != nil {
		return entity.Reservation{}, fmt.Errorf("reserve: %w", err)
	}
	return created, nil
}

// CancelReservation moves a pending reservation to cancelled. Book counters
// are untouched.
func (s *Service) CancelReservation(ctx context.Context, reservationID string) (entity.Reservation, error) {
	reservation, err := s.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return entity.Reservation{}, fmt.Errorf("cancel reservation: %w", err)
	}
	if reservation.Status != entity.ReservationPending {
		return entity.Reservation{}, ErrNotPending
	}

	status := entity.ReservationCancelled
	updated, err := s.repo.UpdateReservation(ctx, reservationID, store.ReservationPatch{Status: &status})
	if err != nil {
		return entity.Reservation{}, fmt.Errorf("cancel reservation: %w", err)
	}
	return updated, nil
}
