package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketarchive/internal/testutil"
)

func TestSessionHandler(t *testing.T) {
	s := newStack(t)

	t.Run("anonymous by default", func(t *testing.T) {
		resp := do(s.session.Handle, testutil.NewRequest(http.MethodGet, "/session", nil))
		require.Equal(t, http.StatusOK, resp.Code)
		data := resp.Body["data"].(map[string]any)
		assert.Equal(t, "anonymous", data["state"])
		assert.Nil(t, data["user"])
	})

	t.Run("invalid role is rejected", func(t *testing.T) {
		resp := do(s.session.Handle, testutil.NewRequest(http.MethodPost, "/session", map[string]any{"role": "admin"}))
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "invalid_role", resp.Body["error"].(map[string]any)["code"])
	})

	t.Run("login as reader", func(t *testing.T) {
		resp := do(s.session.Handle, testutil.NewRequest(http.MethodPost, "/session", map[string]any{"role": "reader"}))
		require.Equal(t, http.StatusCreated, resp.Code)
		data := resp.Body["data"].(map[string]any)
		assert.Equal(t, "reader", data["state"])
		user := data["user"].(map[string]any)
		assert.Equal(t, "Reader", user["name"])
		assert.NotEmpty(t, user["email"])
	})

	t.Run("login with a name keeps it", func(t *testing.T) {
		resp := do(s.session.Handle, testutil.NewRequest(http.MethodPost, "/session", map[string]any{
			"role": "librarian", "name": "Ada", "email": "ada@example.com",
		}))
		require.Equal(t, http.StatusCreated, resp.Code)
		user := resp.Body["data"].(map[string]any)["user"].(map[string]any)
		assert.Equal(t, "Ada", user["name"])
		assert.Equal(t, "ada@example.com", user["email"])
	})

	t.Run("role mismatch on a known email", func(t *testing.T) {
		resp := do(s.session.Handle, testutil.NewRequest(http.MethodPost, "/session", map[string]any{
			"role": "reader", "email": "ada@example.com",
		}))
		assert.Equal(t, http.StatusConflict, resp.Code)
		assert.Equal(t, "role_mismatch", resp.Body["error"].(map[string]any)["code"])
	})

	t.Run("logout", func(t *testing.T) {
		resp := do(s.session.Handle, testutil.NewRequest(http.MethodDelete, "/session", nil))
		require.Equal(t, http.StatusNoContent, resp.Code)

		getResp := do(s.session.Handle, testutil.NewRequest(http.MethodGet, "/session", nil))
		assert.Equal(t, "anonymous", getResp.Body["data"].(map[string]any)["state"])

		again := do(s.session.Handle, testutil.NewRequest(http.MethodDelete, "/session", nil))
		assert.Equal(t, http.StatusUnauthorized, again.Code)
		assert.Equal(t, "no_session", again.Body["error"].(map[string]any)["code"])
	})
}
