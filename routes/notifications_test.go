package routes

import (
	"net/http"
	"testing"

	"github.com/JavierManriquez/incluimap/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNotificationsMarksThemRead(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t)
	user := createTestUser(t, db, "fan@example.com", "user")
	other := createTestUser(t, db, "otra@example.com", "user")
	token := signAccessToken(t, user.ID, "user")

	require.NoError(t, db.Create(&models.Notification{UserID: user.ID, Message: "uno"}).Error)
	require.NoError(t, db.Create(&models.Notification{UserID: user.ID, Message: "dos"}).Error)
	require.NoError(t, db.Create(&models.Notification{UserID: other.ID, Message: "ajena"}).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.EqualValues(t, 2, decodeBody(t, resp)["unread"])

	// Fetching the list is the acknowledgment.
	resp = doJSON(t, app, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	notifications := decodeBody(t, resp)["notifications"].([]interface{})
	require.Len(t, notifications, 2)

	resp = doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.EqualValues(t, 0, decodeBody(t, resp)["unread"])

	// The badge check never marks anything; the other user's row is intact.
	var unread int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", other.ID, false).Count(&unread).Error)
	assert.EqualValues(t, 1, unread)
}

func TestNotificationsRequireAuth(t *testing.T) {
	setupTestDB(t)
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
