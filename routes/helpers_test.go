package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"parkpal-server/models"
	"parkpal-server/storage"
	"parkpal-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB installs a fresh in-memory database for one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	storage.UseDB(db)
	return db
}

// buildTestApp creates a minimal Iris app with the API routes and a real JWT
// verifier so handlers can be exercised end to end
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()

	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	os.Setenv("REFRESH_TOKEN_SECRET", "testrefreshsecret")
	storage.InitializeRedis()

	app := iris.New()
	app.Configure(iris.WithoutPathCorrectionRedirection)
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	authed := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	user := app.Party("/api/user")
	{
		user.Post("/register", Register)
		user.Post("/login", Login)
		user.Get("/{id}/spaces/saved", authed, utils.UserIDMiddleware, GetUserSavedSpaces)
		user.Patch("/{id}/spaces/saved", authed, utils.UserIDMiddleware, AlterUserSavedSpaces)
	}

	space := app.Party("/api/space")
	{
		space.Post("/", authed, CreateSpace)
		space.Get("/{id}", GetSpace)
		space.Patch("/{id}", authed, UpdateSpace)
		space.Delete("/{id}", authed, DeleteSpace)
	}

	app.Get("/api/spaces/search", SearchSpaces)

	booking := app.Party("/api/booking")
	{
		booking.Post("/", CreateBooking)
		booking.Get("/vehicle-types", GetVehicleTypes)
		booking.Get("/space/{id}", authed, GetBookingsBySpaceID)
		booking.Post("/{id}/status", authed, UpdateBookingStatus)
	}

	reviews := app.Party("/api/reviews")
	{
		reviews.Get("/space/{spaceId:uint}", ListSpaceReviews)
		reviews.Post("/space/{spaceId:uint}", authed, utils.UserIDFromTokenMiddleware, CreateSpaceReview)
	}

	chat := app.Party("/api/chat")
	{
		chat.Post("/", authed, Chat)
		chat.Get("/history", authed, GetConversation)
	}

	app.Post("/api/payment/intent", CreatePaymentIntent)

	admin := app.Party("/api/admin", authed, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", AdminListUsers)
		admin.Get("/spaces", AdminListSpaces)
		admin.Patch("/reviews/{id:uint}/status", AdminUpdateReviewVisibility)
		admin.Delete("/reviews/{id:uint}", utils.SuperAdminOnlyMiddleware, AdminDeleteReview)
		admin.Get("/feedback", AdminListFeedback)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build test app: %v", err)
	}
	return app
}

// signTestToken returns a signed access token for the given user
func signTestToken(t *testing.T, id uint, role string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 15*time.Minute)
	token, err := signer.Sign(utils.AccessToken{ID: id, Role: role})
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return string(token)
}

func doJSON(t *testing.T, app *iris.Application, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func seedSpace(t *testing.T, title, location, postcode string, pricePerHour float32, totalSpaces int, available bool) models.ParkingSpace {
	t.Helper()
	space := models.ParkingSpace{
		Title:        title,
		Location:     location,
		Postcode:     utils.NormalizePostcode(postcode),
		PricePerHour: pricePerHour,
		TotalSpaces:  totalSpaces,
		IsAvailable:  &available,
	}
	if err := storage.DB.Create(&space).Error; err != nil {
		t.Fatalf("failed to seed space: %v", err)
	}
	return space
}

func seedUser(t *testing.T, firstName, lastName, email, role string) models.User {
	t.Helper()
	active := true
	user := models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Role:      role,
		Active:    &active,
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}
