package lending

import (
	"context"

	"pocketarchive/internal/entity"
	"pocketarchive/internal/store"
)

// Repository is the slice of the record store the lending workflows need.
// store.Store satisfies it for both backends.
type Repository interface {
	GetBook(ctx context.Context, id string) (entity.Book, error)
	AdjustBookCopies(ctx context.Context, id string, delta int) (entity.Book, error)

	ListBorrows(ctx context.Context) ([]entity.Borrow, error)
	GetBorrow(ctx context.Context, id string) (entity.Borrow, error)
	CreateBorrow(ctx context.Context, b entity.Borrow) (entity.Borrow, error)
	UpdateBorrow(ctx context.Context, id string, patch store.BorrowPatch) (entity.Borrow, error)

	ListReservations(ctx context.Context) ([]entity.Reservation, error)
	GetReservation(ctx context.Context, id string) (entity.Reservation, error)
	CreateReservation(ctx context.Context, r entity.Reservation) (entity.Reservation, error)
	UpdateReservation(ctx context.Context, id string, patch store.ReservationPatch) (entity.Reservation, error)
}
