package routes

import (
	"net/http"

	"parkpal-server/models"
	"parkpal-server/storage"
	"parkpal-server/utils"

	"github.com/kataras/iris/v12"
)

// Admin surface. All routes here sit behind the admin role middleware;
// mutations leave an audit trail.

func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	var total int64
	storage.DB.Model(&models.User{}).Count(&total)

	var users []models.User
	if err := storage.DB.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&users).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to list users")
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

func AdminListSpaces(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	var total int64
	storage.DB.Model(&models.ParkingSpace{}).Count(&total)

	var spaces []models.ParkingSpace
	if err := storage.DB.Preload("Host").Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&spaces).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to list spaces")
		return
	}

	utils.JSONPage(ctx, spaces, page, perPage, total)
}

// AdminUpdateReviewVisibility hides or unhides a review
func AdminUpdateReviewVisibility(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var input struct {
		Hidden *bool `json:"hidden" validate:"required"`
	}
	if err := ctx.ReadJSON(&input); err != nil || input.Hidden == nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_payload", "hidden is required")
		return
	}

	var review models.Review
	if err := storage.DB.First(&review, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "review not found")
		return
	}

	before := review
	review.Hidden = *input.Hidden
	if err := storage.DB.Save(&review).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to update review")
		return
	}

	utils.Audit(ctx, "review.visibility", "review", review.ID, before, review)
	ctx.JSON(iris.Map{"data": review})
}

func AdminDeleteReview(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var review models.Review
	if err := storage.DB.First(&review, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "review not found")
		return
	}

	if err := storage.DB.Delete(&review).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to delete review")
		return
	}

	utils.Audit(ctx, "review.delete", "review", review.ID, review, nil)
	ctx.JSON(iris.Map{"success": true})
}

func AdminListFeedback(ctx iris.Context) {
	var list []models.Feedback
	if err := storage.DB.Preload("User").Order("created_at DESC").Find(&list).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to list feedback")
		return
	}
	ctx.JSON(iris.Map{"data": list})
}
