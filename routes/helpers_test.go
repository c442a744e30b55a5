package routes

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/JavierManriquez/incluimap/models"
	"github.com/JavierManriquez/incluimap/storage"
	"github.com/JavierManriquez/incluimap/utils"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "testsecret"

// setupTestDB swaps storage.DB for an in-memory sqlite database with the
// full schema migrated, restoring the previous handle on cleanup.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A pooled second connection would see its own empty in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Place{},
		&models.Report{},
		&models.Comment{},
		&models.Notification{},
	))

	prevDB := storage.DB
	storage.DB = db
	prevRedis := storage.Redis
	if storage.Redis == nil {
		// Token creation writes refresh tokens to Redis and ignores the
		// result, so an unreachable client is fine here.
		storage.Redis = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	}
	os.Unsetenv("SMTP_HOST")

	t.Cleanup(func() {
		storage.DB = prevDB
		storage.Redis = prevRedis
	})
	return db
}

// newTestApp builds an Iris app with the same route layout main registers.
func newTestApp(t *testing.T) *iris.Application {
	t.Helper()
	os.Setenv("ACCESS_TOKEN_SECRET", testSecret)

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(testSecret))
	auth := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})
	optionalAuth := utils.OptionalUserIDFromTokenMiddleware(accessTokenVerifier)

	user := app.Party("/api/user")
	{
		user.Post("/register", Register)
		user.Post("/login", Login)
		user.Get("/profile", auth, utils.UserIDFromTokenMiddleware, GetUserProfile)
		user.Put("/profile", auth, utils.UserIDFromTokenMiddleware, UpdateUserProfile)
	}

	place := app.Party("/api/place")
	{
		place.Post("/", auth, utils.UserIDFromTokenMiddleware, CreatePlace)
		place.Get("/", optionalAuth, GetPlaces)
		place.Get("/{id:uint}", GetPlace)
		place.Delete("/{id:uint}", auth, utils.AdminOnlyMiddleware, DeletePlace)
		place.Post("/{id:uint}/favorite", auth, utils.UserIDFromTokenMiddleware, ToggleFavoritePlace)
	}

	app.Get("/api/favorites", auth, utils.UserIDFromTokenMiddleware, GetFavoritePlaces)

	report := app.Party("/api/report")
	{
		report.Post("/", auth, utils.UserIDFromTokenMiddleware, CreateReport)
		report.Get("/", GetReports)
		report.Get("/mine", auth, utils.UserIDFromTokenMiddleware, GetMyReports)
		report.Get("/{id:uint}", GetReport)
		report.Put("/{id:uint}", auth, utils.UserIDFromTokenMiddleware, UpdateReport)
		report.Delete("/{id:uint}", auth, utils.UserIDFromTokenMiddleware, DeleteReport)
		report.Post("/{id:uint}/comments", auth, utils.UserIDFromTokenMiddleware, CreateComment)
		report.Get("/{id:uint}/comments", GetComments)
	}

	notifications := app.Party("/api/notifications")
	{
		notifications.Get("/", auth, utils.UserIDFromTokenMiddleware, GetNotifications)
		notifications.Get("/unread-count", auth, utils.UserIDFromTokenMiddleware, GetUnreadNotificationCount)
	}

	app.Get("/api/dashboard", auth, GetDashboard)
	app.Get("/api/places", SearchPlaces)
	app.Post("/api/contact", SendContactMessage)

	require.NoError(t, app.Build())
	return app
}

func signAccessToken(t *testing.T, id uint, role string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, testSecret, time.Hour)
	token, err := signer.Sign(utils.AccessToken{ID: id, Role: role})
	require.NoError(t, err)
	return string(token)
}

func doJSON(t *testing.T, app *iris.Application, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw := []byte(nil)
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), "body: %s", resp.Body.String())
	return out
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "irrelevant",
		Role:      role,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.Profile{UserID: user.ID}).Error)
	return user
}

func createTestPlace(t *testing.T, db *gorm.DB, name string, lat, lng float64, tags string) *models.Place {
	t.Helper()
	place := &models.Place{
		Name:    name,
		Address: "Av. Pajaritos 1234",
		Lat:     strconv.FormatFloat(lat, 'f', 6, 64),
		Lng:     strconv.FormatFloat(lng, 'f', 6, 64),
		Tags:    tags,
	}
	require.NoError(t, db.Create(place).Error)
	return place
}

func favoritePlace(t *testing.T, db *gorm.DB, userID uint, place *models.Place) {
	t.Helper()
	profile, err := models.GetOrCreateProfile(db, userID)
	require.NoError(t, err)
	require.NoError(t, db.Model(profile).Association("FavoritePlaces").Append(place))
}

func countNotifications(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ?", userID).Count(&count).Error)
	return count
}
