package routes

import (
	"errors"
	"log"
	"math"
	"time"

	"parkpal-server/models"
	"parkpal-server/storage"
	"parkpal-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type ReviewResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userID"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	User      struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"user"`
}

// ListSpaceReviews returns a space's reviews newest-first along with the mean
// rating (one decimal place, 0 for no reviews) and the total count
func ListSpaceReviews(ctx iris.Context) {
	spaceID := ctx.Params().GetUintDefault("spaceId", 0)
	if spaceID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "bad_request", "message": "Invalid space ID"})
		return
	}

	var reviews []models.Review
	if err := storage.DB.Preload("User").
		Where("space_id = ? AND hidden = ?", spaceID, false).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		log.Printf("ListSpaceReviews: %v", err)
		utils.CreateQueryFailed(ctx)
		return
	}

	var totalRating float64
	for _, review := range reviews {
		totalRating += float64(review.Rating)
	}
	avgRating := 0.0
	if len(reviews) > 0 {
		avgRating = math.Round(totalRating/float64(len(reviews))*10) / 10
	}

	reviewResponses := []ReviewResponse{}
	for _, review := range reviews {
		resp := ReviewResponse{
			ID:        review.ID,
			UserID:    review.UserID,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		}
		resp.User.FirstName = review.User.FirstName
		resp.User.LastName = review.User.LastName
		reviewResponses = append(reviewResponses, resp)
	}

	ctx.JSON(iris.Map{
		"reviews":       reviewResponses,
		"averageRating": avgRating,
		"reviewCount":   len(reviews),
	})
}

// CreateSpaceReview creates a review if the user hasn't reviewed the space yet
func CreateSpaceReview(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	spaceID := ctx.Params().GetUintDefault("spaceId", 0)
	if spaceID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "bad_request", "message": "Invalid space ID"})
		return
	}

	var req CreateReviewRequest
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var space models.ParkingSpace
	if err := storage.DB.First(&space, spaceID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var existing models.Review
	err := storage.DB.Where("space_id = ? AND user_id = ?", spaceID, claims.ID).First(&existing).Error
	if err == nil {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "bad_request", "message": "You have already reviewed this space"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("CreateSpaceReview: existing lookup failed: %v", err)
		utils.CreateInternalServerError(ctx)
		return
	}

	review := models.Review{
		SpaceID: spaceID,
		UserID:  claims.ID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	// The rating bound is also enforced by the store's check constraint, so a
	// caller bypassing validation still can't write an out-of-range value.
	if err := storage.DB.Create(&review).Error; err != nil {
		log.Printf("CreateSpaceReview: %v", err)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": review})
}
