package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"pocketarchive/internal/entity"
)

// ErrNotFound is returned when an update or lookup targets a missing id.
var ErrNotFound = errors.New("record not found")

// ErrUnavailable is returned when the backend itself fails. Callers can
// tell a store outage apart from "no data" and from a missing record.
var ErrUnavailable = errors.New("store unavailable")

// ErrConflict is returned when a create would violate a uniqueness rule,
// currently only the per-store unique user email.
var ErrConflict = errors.New("record conflict")

// Store is the persistence contract for the four record collections.
// Both backends are behaviorally indistinguishable to callers: writes are
// durable before the call returns, and backend-specific errors never leak.
type Store interface {
	ListBooks(ctx context.Context) ([]entity.Book, error)
	GetBook(ctx context.Context, id string) (entity.Book, error)
	CreateBook(ctx context.Context, b entity.Book) (entity.Book, error)
	UpdateBook(ctx context.Context, id string, patch BookPatch) (entity.Book, error)
	// AdjustBookCopies atomically adds delta to a book's available copies,
	// clamped into [0, totalCopies], and returns the updated book. This is
	// the conditional-update primitive the lending workflows rely on instead
	// of an unguarded read-modify-write.
	AdjustBookCopies(ctx context.Context, id string, delta int) (entity.Book, error)

	ListUsers(ctx context.Context) ([]entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (entity.User, error)
	CreateUser(ctx context.Context, u entity.User) (entity.User, error)

	ListBorrows(ctx context.Context) ([]entity.Borrow, error)
	GetBorrow(ctx context.Context, id string) (entity.Borrow, error)
	CreateBorrow(ctx context.Context, b entity.Borrow) (entity.Borrow, error)
	UpdateBorrow(ctx context.Context, id string, patch BorrowPatch) (entity.Borrow, error)

	ListReservations(ctx context.Context) ([]entity.Reservation, error)
	GetReservation(ctx context.Context, id string) (entity.Reservation, error)
	CreateReservation(ctx context.Context, r entity.Reservation) (entity.Reservation, error)
	UpdateReservation(ctx context.Context, id string, patch ReservationPatch) (entity.Reservation, error)

	Ping(ctx context.Context) error
	Close()
}

// BookPatch carries a partial book update; nil fields are left untouched.
type BookPatch struct {
	Title           *string
	Author          *string
	Genre           *string
	Description     *string
	CoverImage      *string
	ISBN            *string
	PublishedYear   *int
	TotalCopies     *int
	AvailableCopies *int
}

type BorrowPatch struct {
	Status     *entity.BorrowStatus
	ReturnDate *time.Time
}

type ReservationPatch struct {
	Status *entity.ReservationStatus
}

const (
	BackendLocal    = "local"
	BackendPostgres = "postgres"
)

// Config selects and parameterizes a backend at construction time.
type Config struct {
	Backend      string
	DataDir      string        // local backend
	DSN          string        // postgres backend
	QueryTimeout time.Duration // postgres backend, defaults to 3s
}

// Open constructs the configured backend. Backend choice happens here and
// only here; callers hold a Store and never inspect its concrete type.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendLocal, "":
		return NewLocal(cfg.DataDir)
	case BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("create pgx pool: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		timeout := cfg.QueryTimeout
		if timeout <= 0 {
			timeout = 3 * time.Second
		}
		return NewPostgres(pool, timeout), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
