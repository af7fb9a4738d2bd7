package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketarchive/internal/entity"
	"pocketarchive/internal/store"
	"pocketarchive/internal/testutil"
)

func TestLendingHandler_Borrow(t *testing.T) {
	s := newStack(t)

	t.Run("requires login", func(t *testing.T) {
		resp := do(s.lending.Borrow, testutil.NewRequest(http.MethodPost, "/borrows", map[string]any{"bookId": "1"}))
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	s.loginAs(t, entity.RoleReader)

	t.Run("borrows a copy", func(t *testing.T) {
		resp := do(s.lending.Borrow, testutil.NewRequest(http.MethodPost, "/borrows", map[string]any{"bookId": "1"}))
		require.Equal(t, http.StatusCreated, resp.Code)
		data := resp.Body["data"].(map[string]any)
		borrow := data["borrow"].(map[string]any)
		book := data["book"].(map[string]any)
		assert.Equal(t, "active", borrow["status"])
		assert.EqualValues(t, 1, book["availableCopies"])
	})

	t.Run("second borrow of the same book conflicts", func(t *testing.T) {
		resp := do(s.lending.Borrow, testutil.NewRequest(http.MethodPost, "/borrows", map[string]any{"bookId": "1"}))
		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("missing bookId", func(t *testing.T) {
		resp := do(s.lending.Borrow, testutil.NewRequest(http.MethodPost, "/borrows", map[string]any{}))
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("exhausted book conflicts with no_copies_available", func(t *testing.T) {
		zero := 0
		_, err := s.store.UpdateBook(context.Background(), "5", store.BookPatch{AvailableCopies: &zero})
		require.NoError(t, err)

		resp := do(s.lending.Borrow, testutil.NewRequest(http.MethodPost, "/borrows", map[string]any{"bookId": "5"}))
		assert.Equal(t, http.StatusConflict, resp.Code)
		errBody := resp.Body["error"].(map[string]any)
		assert.Equal(t, "no_copies_available", errBody["code"])
	})
}

func TestLendingHandler_Return(t *testing.T) {
	s := newStack(t)
	reader := s.loginAs(t, entity.RoleReader)

	resp := do(s.lending.Borrow, testutil.NewRequest(http.MethodPost, "/borrows", map[string]any{"bookId": "4"}))
	require.Equal(t, http.StatusCreated, resp.Code)
	borrowID := resp.Body["data"].(map[string]any)["borrow"].(map[string]any)["id"].(string)

	t.Run("another reader cannot return it", func(t *testing.T) {
		other, err := s.gate.Login(context.Background(), entity.RoleReader, "Other", "other@pocketarchive.local")
		require.NoError(t, err)
		require.NotEqual(t, reader.ID, other.ID)

		resp := do(s.lending.Return, testutil.NewRequest(http.MethodPost, "/borrows/"+borrowID+"/return", nil))
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("librarian processes any return", func(t *testing.T) {
		s.loginAs(t, entity.RoleLibrarian)
		resp := do(s.lending.Return, testutil.NewRequest(http.MethodPost, "/borrows/"+borrowID+"/return", nil))
		require.Equal(t, http.StatusOK, resp.Code)
		data := resp.Body["data"].(map[string]any)
		assert.Equal(t, "returned", data["borrow"].(map[string]any)["status"])
		assert.EqualValues(t, 2, data["book"].(map[string]any)["availableCopies"])
	})

	t.Run("double return conflicts", func(t *testing.T) {
		resp := do(s.lending.Return, testutil.NewRequest(http.MethodPost, "/borrows/"+borrowID+"/return", nil))
		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("unknown borrow", func(t *testing.T) {
		resp := do(s.lending.Return, testutil.NewRequest(http.MethodPost, "/borrows/nope/return", nil))
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestLendingHandler_Reservations(t *testing.T) {
	s := newStack(t)
	s.loginAs(t, entity.RoleReader)

	resp := do(s.lending.Reserve, testutil.NewRequest(http.MethodPost, "/reservations", map[string]any{"bookId": "2"}))
	require.Equal(t, http.StatusCreated, resp.Code)
	reservation := resp.Body["data"].(map[string]any)
	assert.Equal(t, "pending", reservation["status"])
	reservationID := reservation["id"].(string)

	t.Run("duplicate pending reservation conflicts", func(t *testing.T) {
		resp := do(s.lending.Reserve, testutil.NewRequest(http.MethodPost, "/reservations", map[string]any{"bookId": "2"}))
		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("cancel", func(t *testing.T) {
		resp := do(s.lending.Cancel, testutil.NewRequest(http.MethodPost, "/reservations/"+reservationID+"/cancel", nil))
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "cancelled", resp.Body["data"].(map[string]any)["status"])
	})

	t.Run("cancel again conflicts", func(t *testing.T) {
		resp := do(s.lending.Cancel, testutil.NewRequest(http.MethodPost, "/reservations/"+reservationID+"/cancel", nil))
		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}
