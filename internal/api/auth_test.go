package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipebite/backend/internal/testhelpers"
	"github.com/swipebite/backend/internal/types"
)

func TestRegisterLoginFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	// The issued token works on the account endpoint.
	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decodeBody(t, w)["username"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	router, _ := newTestRouter(t)

	payload := types.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	}
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router, db := newTestRouter(t)
	testhelpers.CreateUser(t, db, "alice")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePasswordEndpoint(t *testing.T) {
	router, db := newTestRouter(t)
	user, _ := testhelpers.CreateUser(t, db, "alice")
	token := testhelpers.MintToken(t, user)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/change-password", token, types.ChangePasswordRequest{
		OldPassword: "wrong-password",
		NewPassword: "fresh-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/change-password", token, types.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "fresh-password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", types.LoginRequest{
		Email:    "alice@example.com",
		Password: "fresh-password",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateMeEmailConflict(t *testing.T) {
	router, db := newTestRouter(t)
	user, _ := testhelpers.CreateUser(t, db, "alice")
	testhelpers.CreateUser(t, db, "bob")
	token := testhelpers.MintToken(t, user)

	taken := "bob@example.com"
	w := doJSON(t, router, http.MethodPut, "/api/v1/auth/me", token, types.UpdateUserRequest{Email: &taken})
	assert.Equal(t, http.StatusConflict, w.Code)
}
