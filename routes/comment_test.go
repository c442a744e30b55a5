package routes

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/JavierManriquez/incluimap/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestReport(t *testing.T, db *gorm.DB, placeID, authorID uint) *models.Report {
	t.Helper()
	report := &models.Report{PlaceID: placeID, AuthorID: authorID, Rating: 3}
	require.NoError(t, db.Create(report).Error)
	return report
}

func TestCreateCommentAttributedToActingUser(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t)
	author := createTestUser(t, db, "autora@example.com", "user")
	commenter := createTestUser(t, db, "vecino@example.com", "user")
	place := createTestPlace(t, db, "Plaza Mayor", -33.51, -70.76, "")
	report := createTestReport(t, db, place.ID, author.ID)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/report/%d/comments", report.ID),
		signAccessToken(t, commenter.ID, "user"),
		map[string]interface{}{"text": "  La rampa sigue bloqueada  "})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var comment models.Comment
	require.NoError(t, db.First(&comment).Error)
	assert.Equal(t, commenter.ID, comment.AuthorID)
	assert.Equal(t, "La rampa sigue bloqueada", comment.Text, "text is stored trimmed")
}

func TestCreateCommentRejectsBlankText(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t)
	author := createTestUser(t, db, "autora@example.com", "user")
	place := createTestPlace(t, db, "Plaza Mayor", -33.51, -70.76, "")
	report := createTestReport(t, db, place.ID, author.ID)
	token := signAccessToken(t, author.ID, "user")

	for _, text := range []string{"", "   ", "\n\t "} {
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/report/%d/comments", report.ID),
			token, map[string]interface{}{"text": text})
		require.Equal(t, http.StatusBadRequest, resp.Code, "text %q", text)

		body := decodeBody(t, resp)
		fieldErrors := body["errors"].(map[string]interface{})
		assert.Contains(t, fieldErrors, "text")
	}

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateCommentUnknownReport(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t)
	user := createTestUser(t, db, "vecino@example.com", "user")

	resp := doJSON(t, app, http.MethodPost, "/api/report/999/comments",
		signAccessToken(t, user.ID, "user"),
		map[string]interface{}{"text": "Hola"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetCommentsOldestFirst(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t)
	author := createTestUser(t, db, "autora@example.com", "user")
	place := createTestPlace(t, db, "Plaza Mayor", -33.51, -70.76, "")
	report := createTestReport(t, db, place.ID, author.ID)

	first := models.Comment{ReportID: report.ID, AuthorID: author.ID, Text: "Primero"}
	require.NoError(t, db.Create(&first).Error)
	second := models.Comment{ReportID: report.ID, AuthorID: author.ID, Text: "Segundo"}
	require.NoError(t, db.Create(&second).Error)
	// Force distinct timestamps regardless of clock resolution.
	require.NoError(t, db.Model(&second).Update("created_at", first.CreatedAt.Add(time.Second)).Error)

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/report/%d/comments", report.ID),
		signAccessToken(t, author.ID, "user"), nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody(t, resp)
	comments := body["comments"].([]interface{})
	require.Len(t, comments, 2)
	assert.Equal(t, "Primero", comments[0].(map[string]interface{})["text"])
	assert.Equal(t, "Segundo", comments[1].(map[string]interface{})["text"])
}
