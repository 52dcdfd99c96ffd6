package main

import (
	"fmt"
	"log"
	"os"

	"parkpal-server/routes"
	"parkpal-server/storage"
	"parkpal-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Health check endpoint
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	// Routes
	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/facebook", routes.FacebookLoginOrSignUp)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/apple", routes.AppleLoginOrSignUp)
		user.Get("/{id}", accessTokenVerifierMiddleware, routes.GetUser)
		user.Get("/{id}/spaces/saved", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserSavedSpaces)
		user.Patch("/{id}/spaces/saved", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AlterUserSavedSpaces)
		user.Post("/feedback", accessTokenVerifierMiddleware, routes.CreateFeedback)
	}

	space := app.Party("/api/space")
	{
		space.Post("/", accessTokenVerifierMiddleware, routes.CreateSpace)
		space.Get("/{id}", routes.GetSpace)
		space.Get("/host/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetSpacesByHostID)
		space.Patch("/{id}", accessTokenVerifierMiddleware, routes.UpdateSpace)
		space.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteSpace)
	}

	// Spaces Search
	spaces := app.Party("/api/spaces")
	{
		spaces.Get("/search", routes.SearchSpaces)
	}

	booking := app.Party("/api/booking")
	{
		booking.Post("/", routes.CreateBooking)
		booking.Get("/vehicle-types", routes.GetVehicleTypes)
		booking.Get("/space/{id}", accessTokenVerifierMiddleware, routes.GetBookingsBySpaceID)
		booking.Get("/user", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserBookings)
		booking.Post("/{id}/status", accessTokenVerifierMiddleware, routes.UpdateBookingStatus)
	}

	// Reviews
	reviews := app.Party("/api/reviews")
	{
		reviews.Get("/space/{spaceId:uint}", routes.ListSpaceReviews)
		reviews.Post("/space/{spaceId:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateSpaceReview)
	}

	chat := app.Party("/api/chat")
	{
		chat.Post("/", accessTokenVerifierMiddleware, routes.Chat)
		chat.Get("/history", accessTokenVerifierMiddleware, routes.GetConversation)
	}

	payment := app.Party("/api/payment")
	{
		payment.Post("/intent", routes.CreatePaymentIntent)
	}

	// Admin routes
	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Get("/spaces", routes.AdminListSpaces)
		admin.Patch("/reviews/{id:uint}/status", routes.AdminUpdateReviewVisibility)
		admin.Delete("/reviews/{id:uint}", utils.SuperAdminOnlyMiddleware, routes.AdminDeleteReview)
		admin.Get("/feedback", routes.AdminListFeedback)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
