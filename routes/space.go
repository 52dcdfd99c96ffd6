package routes

import (
	"log"
	"strings"
	"time"

	"parkpal-server/models"
	"parkpal-server/storage"
	"parkpal-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

type CreateSpaceInput struct {
	Title         string      `json:"title" validate:"required,max=256"`
	Description   string      `json:"description" validate:"max=2000"`
	Location      string      `json:"location" validate:"required,max=256"`
	Postcode      string      `json:"postcode" validate:"required,max=10"`
	Address       string      `json:"address" validate:"max=512"`
	Lat           float32     `json:"lat"`
	Lng           float32     `json:"lng"`
	PricePerHour  float32     `json:"pricePerHour" validate:"gte=0"`
	PricePerDay   float32     `json:"pricePerDay" validate:"gte=0"`
	PricePerWeek  float32     `json:"pricePerWeek" validate:"gte=0"`
	PricePerMonth float32     `json:"pricePerMonth" validate:"gte=0"`
	TotalSpaces   int         `json:"totalSpaces" validate:"required,gte=1"`
	AvailableFrom *time.Time  `json:"availableFrom"`
	AvailableTo   *time.Time  `json:"availableTo"`
	IsAvailable   interface{} `json:"isAvailable"`
	Features      []string    `json:"features"`
	ImageURL      string      `json:"imageURL" validate:"max=512"`
}

func CreateSpace(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateSpaceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.AvailableFrom != nil && input.AvailableTo != nil &&
		input.AvailableTo.Before(*input.AvailableFrom) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "availableFrom must not be after availableTo", ctx)
		return
	}

	if !utils.ValidatePostcode(input.Postcode) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "postcode is not a valid UK postcode", ctx)
		return
	}

	// Clients send the flag as bool or string bool; normalize here.
	available := true
	if v, ok := utils.CoerceBool(input.IsAvailable); ok {
		available = v
	}

	space := models.ParkingSpace{
		HostID:        claims.ID,
		Title:         input.Title,
		Description:   input.Description,
		Location:      input.Location,
		Postcode:      utils.NormalizePostcode(input.Postcode),
		Address:       input.Address,
		Lat:           input.Lat,
		Lng:           input.Lng,
		PricePerHour:  input.PricePerHour,
		PricePerDay:   input.PricePerDay,
		PricePerWeek:  input.PricePerWeek,
		PricePerMonth: input.PricePerMonth,
		TotalSpaces:   input.TotalSpaces,
		AvailableFrom: input.AvailableFrom,
		AvailableTo:   input.AvailableTo,
		IsAvailable:   &available,
		Features:      strings.Join(input.Features, ","),
		ImageURL:      input.ImageURL,
	}

	if err := storage.DB.Create(&space).Error; err != nil {
		log.Printf("CreateSpace: %v", err)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&space)
}

func GetSpace(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var space models.ParkingSpace
	if err := storage.DB.Preload("Host").First(&space, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(&space)
}

func GetSpacesByHostID(ctx iris.Context) {
	id := ctx.Params().Get("id")

	spaces := []models.ParkingSpace{}
	if err := storage.DB.Where("host_id = ?", id).Order("created_at DESC").Find(&spaces).Error; err != nil {
		log.Printf("GetSpacesByHostID: %v", err)
		utils.CreateQueryFailed(ctx)
		return
	}

	ctx.JSON(spaces)
}

type UpdateSpaceInput struct {
	Title         *string     `json:"title"`
	Description   *string     `json:"description"`
	PricePerHour  *float32    `json:"pricePerHour"`
	PricePerDay   *float32    `json:"pricePerDay"`
	PricePerWeek  *float32    `json:"pricePerWeek"`
	PricePerMonth *float32    `json:"pricePerMonth"`
	TotalSpaces   *int        `json:"totalSpaces"`
	AvailableFrom *time.Time  `json:"availableFrom"`
	AvailableTo   *time.Time  `json:"availableTo"`
	IsAvailable   interface{} `json:"isAvailable"`
	Features      []string    `json:"features"`
	ImageURL      *string     `json:"imageURL"`
}

func UpdateSpace(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var space models.ParkingSpace
	if err := storage.DB.First(&space, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if space.HostID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "not the host of this space"})
		return
	}

	var input UpdateSpaceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Title != nil {
		space.Title = *input.Title
	}
	if input.Description != nil {
		space.Description = *input.Description
	}
	if input.PricePerHour != nil && *input.PricePerHour >= 0 {
		space.PricePerHour = *input.PricePerHour
	}
	if input.PricePerDay != nil && *input.PricePerDay >= 0 {
		space.PricePerDay = *input.PricePerDay
	}
	if input.PricePerWeek != nil && *input.PricePerWeek >= 0 {
		space.PricePerWeek = *input.PricePerWeek
	}
	if input.PricePerMonth != nil && *input.PricePerMonth >= 0 {
		space.PricePerMonth = *input.PricePerMonth
	}
	if input.TotalSpaces != nil && *input.TotalSpaces >= 1 {
		space.TotalSpaces = *input.TotalSpaces
	}
	if input.AvailableFrom != nil {
		space.AvailableFrom = input.AvailableFrom
	}
	if input.AvailableTo != nil {
		space.AvailableTo = input.AvailableTo
	}
	if v, ok := utils.CoerceBool(input.IsAvailable); ok {
		space.IsAvailable = &v
	}
	if input.Features != nil {
		space.Features = strings.Join(input.Features, ",")
	}
	if input.ImageURL != nil {
		space.ImageURL = *input.ImageURL
	}

	if space.AvailableFrom != nil && space.AvailableTo != nil &&
		space.AvailableTo.Before(*space.AvailableFrom) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "availableFrom must not be after availableTo", ctx)
		return
	}

	if err := storage.DB.Save(&space).Error; err != nil {
		log.Printf("UpdateSpace: %v", err)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(&space)
}

// DeleteSpace soft-disables a listing by clearing its availability flag.
// Rows are never hard-deleted so past bookings keep their context.
func DeleteSpace(ctx iris.Context) {
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

	unavailable := false
	if err := storage.DB.Model(&space).Update("is_available", &unavailable).Error; err != nil {
		log.Printf("DeleteSpace: %v", err)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"success": true})
}
