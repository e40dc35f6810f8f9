package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"cineblog/models"
)

func TestIsAdmin(t *testing.T) {
	assert.False(t, IsAdmin(nil))
	assert.True(t, IsAdmin(&models.User{ID: 1}))
	assert.False(t, IsAdmin(&models.User{ID: 2}))
}

func TestRequireAdmin_Anonymous(t *testing.T) {
	router := setupTestRouter(t, NewCredentialStore(setupTestDB(t)))

	w := get(router, "/admin-only", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_SecondUser(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(t, NewCredentialStore(db))
	createTestUser(db, "first@arrakis.com")

	registered := postForm(router, "/register", registerValues("second@arrakis.com"), nil)
	w := get(router, "/admin-only", registered.Result().Cookies())

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_FirstUser(t *testing.T) {
	router := setupTestRouter(t, NewCredentialStore(setupTestDB(t)))

	registered := postForm(router, "/register", registerValues("first@arrakis.com"), nil)
	w := get(router, "/admin-only", registered.Result().Cookies())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
