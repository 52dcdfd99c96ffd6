package routes

import (
	"net/http"

	"parkpal-server/models"
	"parkpal-server/storage"
	"parkpal-server/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
)

// POST /api/user/feedback — create feedback (auth required)
func CreateFeedback(ctx iris.Context) {
	token := jsonWT.Get(ctx)
	if token == nil {
		utils.JSONError(ctx, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}
	claims, ok := token.(*utils.AccessToken)
	if !ok {
		utils.JSONError(ctx, http.StatusUnauthorized, "unauthorized", "invalid token")
		return
	}

	var input struct {
		Title   string `json:"title"`
		Message string `json:"message"`
		Rating  *int   `json:"rating"`
		Context string `json:"context"`
	}
	if err := ctx.ReadJSON(&input); err != nil || input.Message == "" {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_payload", "message is required")
		return
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_payload", "rating must be between 1 and 5")
		return
	}

	fb := models.Feedback{
		UserID:  claims.ID,
		Title:   input.Title,
		Message: input.Message,
		Rating:  input.Rating,
		Context: input.Context,
	}
	if err := storage.DB.Create(&fb).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to save feedback")
		return
	}
	ctx.JSON(iris.Map{"data": fb})
}
