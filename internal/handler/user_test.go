package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserList_PublicProjection(t *testing.T) {
	e := newTestEcho()
	users := newFakeUserStore()
	registerUser(t, users, "juan", "juan@example.com", "secret1")
	registerUser(t, users, "maria", "maria@example.com", "secret2")
	h := NewUserHandler(users)

	c, rec := doJSON(t, e, http.MethodGet, "/api/users", "")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.EqualValues(t, 2, body["count"])
	for _, raw := range body["users"].([]interface{}) {
		u := raw.(map[string]interface{})
		require.NotContains(t, u, "password_hash")
		require.NotContains(t, u, "PasswordHash")
		require.NotEmpty(t, u["username"])
	}
}

func TestUserList_Empty(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(newFakeUserStore())

	c, rec := doJSON(t, e, http.MethodGet, "/api/users", "")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.EqualValues(t, 0, body["count"])
	require.Len(t, body["users"].([]interface{}), 0)
}
