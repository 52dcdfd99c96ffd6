package routes

import (
	"log"
	"strings"

	"parkpal-server/models"
	"parkpal-server/storage"
	"parkpal-server/utils"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

type CreateBookingInput struct {
	SpaceID       uint   `json:"spaceID" validate:"required"`
	CustomerName  string `json:"customerName" validate:"required,max=256"`
	CustomerEmail string `json:"customerEmail" validate:"required,email,max=256"`
	CustomerPhone string `json:"customerPhone" validate:"max=32"`
	VehicleReg    string `json:"vehicleReg" validate:"required,max=16"`
	VehicleType   string `json:"vehicleType" validate:"required,max=32"`
	Amount        int64  `json:"amount" validate:"required,gt=0"` // minor units
	Currency      string `json:"currency" validate:"required,len=3"`
	Description   string `json:"description" validate:"max=1000"`
	PriceID       string `json:"priceID" validate:"max=128"`
	ProductID     string `json:"productID" validate:"max=128"`
}

// CreateBooking records a checkout-time booking and claims one space on the
// listing's counter. The guarded update keeps availability from going
// negative; there is no reservation-level lock beyond that.
func CreateBooking(ctx iris.Context) {
	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var space models.ParkingSpace
	if err := storage.DB.First(&space, input.SpaceID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Space not found", ctx)
		return
	}

	if space.IsAvailable != nil && !*space.IsAvailable {
		utils.CreateError(iris.StatusConflict, "Conflict", "Space is not accepting bookings", ctx)
		return
	}

	claim := storage.DB.Model(&models.ParkingSpace{}).
		Where("id = ? AND booked_spaces < total_spaces", input.SpaceID).
		Update("booked_spaces", gorm.Expr("booked_spaces + 1"))
	if claim.Error != nil {
		log.Printf("CreateBooking: counter update failed: %v", claim.Error)
		utils.CreateInternalServerError(ctx)
		return
	}
	if claim.RowsAffected == 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "No spaces available", ctx)
		return
	}

	booking := models.Booking{
		Reference:     uuid.NewString(),
		SpaceID:       input.SpaceID,
		CustomerName:  input.CustomerName,
		CustomerEmail: strings.ToLower(input.CustomerEmail),
		CustomerPhone: input.CustomerPhone,
		VehicleReg:    strings.ToUpper(strings.ReplaceAll(input.VehicleReg, " ", "")),
		VehicleType:   input.VehicleType,
		Amount:        input.Amount,
		Currency:      strings.ToLower(input.Currency),
		Description:   input.Description,
		PriceID:       input.PriceID,
		ProductID:     input.ProductID,
	}

	if err := storage.DB.Create(&booking).Error; err != nil {
		log.Printf("CreateBooking: %v", err)
		// Release the claimed space so the counter stays consistent
		storage.DB.Model(&models.ParkingSpace{}).
			Where("id = ? AND booked_spaces > 0", input.SpaceID).
			Update("booked_spaces", gorm.Expr("booked_spaces - 1"))
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&booking)
}

// GetBookingsBySpaceID lists a space's bookings. Bookings carry customer
// contact details, so only the listing's host or an admin may read them.
func GetBookingsBySpaceID(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var space models.ParkingSpace
	if err := storage.DB.First(&space, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if space.HostID != claims.ID && claims.Role != "admin" && claims.Role != "super_admin" {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "not the host of this space"})
		return
	}

	bookings := []models.Booking{}
	if err := storage.DB.Where("space_id = ?", id).Order("created_at DESC").Find(&bookings).Error; err != nil {
		log.Printf("GetBookingsBySpaceID: %v", err)
		utils.CreateQueryFailed(ctx)
		return
	}

	ctx.JSON(bookings)
}

// GetUserBookings lists bookings tied to the authenticated user's email.
// Bookings carry contact details rather than a user foreign key so guests
// without accounts can book too.
func GetUserBookings(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	bookings := []models.Booking{}
	if err := storage.DB.Where("customer_email = ?", strings.ToLower(user.Email)).
		Order("created_at DESC").Find(&bookings).Error; err != nil {
		log.Printf("GetUserBookings: %v", err)
		utils.CreateQueryFailed(ctx)
		return
	}

	ctx.JSON(bookings)
}

type BookingStatusInput struct {
	Status string `json:"status" validate:"required,max=32"`
}

// UpdateBookingStatus acknowledges a status transition without persisting it.
// Bookings are immutable after checkout; transitions are recorded in the
// server log only.
func UpdateBookingStatus(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input BookingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var booking models.Booking
	if err := storage.DB.First(&booking, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	log.Printf("booking %s status update requested: %s", booking.Reference, input.Status)
	ctx.JSON(iris.Map{"success": true, "status": input.Status})
}

// GetVehicleTypes returns the fixed vehicle-type list for the client's
// vehicle selector
func GetVehicleTypes(ctx iris.Context) {
	ctx.JSON([]iris.Map{
		{"id": "car", "label": "Car"},
		{"id": "small_van", "label": "Small Van"},
		{"id": "large_van", "label": "Large Van"},
		{"id": "motorbike", "label": "Motorbike"},
		{"id": "electric", "label": "Electric Vehicle"},
	})
}
