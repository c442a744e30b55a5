package routes

import (
	"net/http"
	"testing"

	"github.com/JavierManriquez/incluimap/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/user/register", "", map[string]interface{}{
		"firstName": "maría josé",
		"lastName":  "PÉREZ",
		"email":     "Maria@Example.com",
		"password":  "superseguro1",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody(t, resp)
	assert.Equal(t, "María José", body["firstName"])
	assert.Equal(t, "Pérez", body["lastName"])
	assert.Equal(t, "maria@example.com", body["email"])
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])

	var user models.User
	require.NoError(t, db.Where("email = ?", "maria@example.com").First(&user).Error)
	assert.NotEqual(t, "superseguro1", user.Password, "password must be stored hashed")

	var profileCount int64
	require.NoError(t, db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&profileCount).Error)
	assert.EqualValues(t, 1, profileCount, "the profile is created with the account")
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t)
	createTestUser(t, db, "maria@example.com", "user")

	resp := doJSON(t, app, http.MethodPost, "/api/user/register", "", map[string]interface{}{
		"firstName": "María",
		"lastName":  "Pérez",
		"email":     "MARIA@example.com",
		"password":  "superseguro1",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	setupTestDB(t)
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/user/register", "", map[string]interface{}{
		"firstName": "María",
		"lastName":  "Pérez",
		"email":     "maria@example.com",
		"password":  "corta",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("superseguro1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{FirstName: "María", LastName: "Pérez", Email: "maria@example.com", Password: string(hash)}
	require.NoError(t, db.Create(user).Error)

	// Wrong password first.
	resp := doJSON(t, app, http.MethodPost, "/api/user/login", "", map[string]interface{}{
		"email":    "maria@example.com",
		"password": "equivocada",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doJSON(t, app, http.MethodPost, "/api/user/login", "", map[string]interface{}{
		"email":    "maria@example.com",
		"password": "superseguro1",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.NotEmpty(t, decodeBody(t, resp)["accessToken"])

	// The missing profile was re-materialized on login.
	var profileCount int64
	require.NoError(t, db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&profileCount).Error)
	assert.EqualValues(t, 1, profileCount)
}

func TestLoginUnknownEmail(t *testing.T) {
	setupTestDB(t)
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/user/login", "", map[string]interface{}{
		"email":    "nadie@example.com",
		"password": "loquesea1",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
