package lending_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketarchive/internal/entity"
	"pocketarchive/internal/lending"
	"pocketarchive/internal/store"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*lending.Service, store.Store) {
	t.Helper()
	st, err := store.NewLocal(t.TempDir())
	require.NoError(t, err)
	svc := lending.NewService(st, lending.WithClock(func() time.Time { return fixedNow }))
	return svc, st
}

func TestService_BorrowAndReturnRoundTrip(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	// Gatsby seeds with 2 of 3 copies available.
	borrow, book, err := svc.Borrow(ctx, "1", "user-a")
	require.NoError(t, err)
	assert.Equal(t, 1, book.AvailableCopies)
	assert.Equal(t, entity.BorrowActive, borrow.Status)
	assert.Equal(t, fixedNow, borrow.BorrowDate)
	assert.Equal(t, fixedNow.Add(14*24*time.Hour), borrow.DueDate)
	assert.Nil(t, borrow.ReturnDate)

	returned, bookAfter, err := svc.Return(ctx, borrow.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BorrowReturned, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, fixedNow, *returned.ReturnDate)
	assert.Equal(t, 2, bookAfter.AvailableCopies)

	t.Run("borrow record is kept, never deleted", func(t *testing.T) {
		borrows, err := st.ListBorrows(ctx)
		require.NoError(t, err)
		assert.Len(t, borrows, 1)
	})
}

func TestService_BorrowUnavailableBook(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	zero := 0
	_, err := st.UpdateBook(ctx, "5", store.BookPatch{AvailableCopies: &zero})
	require.NoError(t, err)

	_, _, err = svc.Borrow(ctx, "5", "user-a")
	assert.ErrorIs(t, err, lending.ErrNoCopiesAvailable)

	t.Run("reserve succeeds instead", func(t *testing.T) {
		reservation, err := svc.Reserve(ctx, "5", "user-a")
		require.NoError(t, err)
		assert.Equal(t, entity.ReservationPending, reservation.Status)
		assert.Equal(t, fixedNow, reservation.ReservationDate)

		book, err := st.GetBook(ctx, "5")
		require.NoError(t, err)
		assert.Equal(t, 0, book.AvailableCopies, "reserve must not touch counters")
	})
}

func TestService_BorrowRules(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	t.Run("unknown book", func(t *testing.T) {
		_, _, err := svc.Borrow(ctx, "no-such-book", "user-a")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("one active borrow per book and user", func(t *testing.T) {
		_, _, err := svc.Borrow(ctx, "1", "user-a")
		require.NoError(t, err)
		_, _, err = svc.Borrow(ctx, "1", "user-a")
		assert.ErrorIs(t, err, lending.ErrAlreadyBorrowed)
	})

	t.Run("another user may still borrow", func(t *testing.T) {
		_, book, err := svc.Borrow(ctx, "1", "user-b")
		require.NoError(t, err)
		assert.Equal(t, 0, book.AvailableCopies)
	})

}

func TestService_ReturnRules(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	borrow, _, err := svc.Borrow(ctx, "4", "user-a")
	require.NoError(t, err)
	_, _, err = svc.Return(ctx, borrow.ID)
	require.NoError(t, err)

	t.Run("double return", func(t *testing.T) {
		_, _, err := svc.Return(ctx, borrow.ID)
		assert.ErrorIs(t, err, lending.ErrNotActive)
	})

	t.Run("unknown borrow", func(t *testing.T) {
		_, _, err := svc.Return(ctx, "no-such-borrow")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestService_ReturnNeverExceedsTotalCopies(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	// Pride and Prejudice seeds fully available (2 of 2): a return on top
	// of a full shelf must clamp, not overflow.
	borrow, _, err := svc.Borrow(ctx, "4", "user-a")
	require.NoError(t, err)

	full := 2
	_, err = st.UpdateBook(ctx, "4", store.BookPatch{AvailableCopies: &full})
	require.NoError(t, err)

	_, book, err := svc.Return(ctx, borrow.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, book.AvailableCopies)
	assert.LessOrEqual(t, book.AvailableCopies, book.TotalCopies)
}

func TestService_Reservations(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	reservation, err := svc.Reserve(ctx, "2", "user-a")
	require.NoError(t, err)

	t.Run("one pending reservation per book and user", func(t *testing.T) {
		_, err := svc.Reserve(ctx, "2", "user-a")
		assert.ErrorIs(t, err, lending.ErrAlreadyReserved)
	})

	t.Run("unknown book", func(t *testing.T) {
		_, err := svc.Reserve(ctx, "no-such-book", "user-a")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("cancel leaves counters alone", func(t *testing.T) {
		before, err := st.GetBook(ctx, "2")
		require.NoError(t, err)

		cancelled, err := svc.CancelReservation(ctx, reservation.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ReservationCancelled, cancelled.Status)

		after, err := st.GetBook(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, before.AvailableCopies, after.AvailableCopies)
	})

	t.Run("double cancel", func(t *testing.T) {
		_, err := svc.CancelReservation(ctx, reservation.ID)
		assert.ErrorIs(t, err, lending.ErrNotPending)
	})

	t.Run("re-reserve after cancel", func(t *testing.T) {
		_, err := svc.Reserve(ctx, "2", "user-a")
		assert.NoError(t, err)
	})
}
