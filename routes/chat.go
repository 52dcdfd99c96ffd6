package routes

import (
	"errors"
	"log"

	"parkpal-server/models"
	"parkpal-server/services"
	"parkpal-server/storage"
	"parkpal-server/utils"

	"github.com/kataras/iris/v12"
	jsonWT "github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

// Fixed persona prepended to every completion request.
const assistantSystemPrompt = "You are Parky, the ParkPal assistant. You help drivers find and book " +
	"parking spaces: answer questions about locations, pricing, availability " +
	"and the booking process. Keep replies short and practical. If a question " +
	"is unrelated to parking, politely steer back to parking."

const assistantFallbackReply = "Sorry, I couldn't come up with an answer just now. Please try again."

type ChatInput struct {
	Message      string              `json:"message" validate:"required,max=4000"`
	Conversation []services.ChatTurn `json:"conversation" validate:"dive"`
}

// Chat proxies a user message plus prior turns to the completion API and
// returns the generated reply. Grounding against live listing data is a
// client concern; this handler does not consult the search layer.
func Chat(ctx iris.Context) {
	var input ChatInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	messages := make([]services.ChatTurn, 0, len(input.Conversation)+2)
	messages = append(messages, services.ChatTurn{Role: "system", Content: assistantSystemPrompt})
	for _, turn := range input.Conversation {
		if turn.Role != "user" && turn.Role != "assistant" {
			continue
		}
		messages = append(messages, turn)
	}
	messages = append(messages, services.ChatTurn{Role: "user", Content: input.Message})

	client := services.NewCompletionClient()
	reply, err := client.Complete(ctx.Request().Context(), messages)
	if err != nil {
		log.Printf("Chat: completion failed: %v", err)
		utils.JSONError(ctx, iris.StatusInternalServerError, "completion_failed", "assistant is unavailable")
		return
	}
	if reply == "" {
		reply = assistantFallbackReply
	}

	// History is a separate best-effort write; a storage hiccup never fails
	// the reply.
	if tok := jsonWT.Get(ctx); tok != nil {
		if claims, ok := tok.(*utils.AccessToken); ok {
			persistExchange(claims.ID, input.Message, reply)
		}
	}

	ctx.JSON(iris.Map{"message": reply})
}

func persistExchange(userID uint, message, reply string) {
	var conversation models.Conversation
	err := storage.DB.Where("user_id = ?", userID).First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conversation = models.Conversation{UserID: userID}
		err = storage.DB.Create(&conversation).Error
	}
	if err != nil {
		log.Printf("persistExchange: conversation lookup: %v", err)
		return
	}

	turns := []models.ConversationTurn{
		{ConversationID: conversation.ID, Role: "user", Content: message},
		{ConversationID: conversation.ID, Role: "assistant", Content: reply},
	}
	if err := storage.DB.Create(&turns).Error; err != nil {
		log.Printf("persistExchange: save turns: %v", err)
	}
}

// GetConversation returns the caller's stored chat history, oldest first
func GetConversation(ctx iris.Context) {
	tok := jsonWT.Get(ctx)
	if tok == nil {
		ctx.StopWithStatus(iris.StatusUnauthorized)
		return
	}
	claims := tok.(*utils.AccessToken)

	var conversation models.Conversation
	if err := storage.DB.Where("user_id = ?", claims.ID).First(&conversation).Error; err != nil {
		// No conversation yet is a normal empty history; anything else is a
		// store failure and must not masquerade as one.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(iris.Map{"turns": []models.ConversationTurn{}})
			return
		}
		log.Printf("GetConversation: %v", err)
		utils.CreateQueryFailed(ctx)
		return
	}

	turns := []models.ConversationTurn{}
	if err := storage.DB.Where("conversation_id = ?", conversation.ID).
		Order("id ASC").Limit(100).Find(&turns).Error; err != nil {
		log.Printf("GetConversation: %v", err)
		utils.CreateQueryFailed(ctx)
		return
	}

	ctx.JSON(iris.Map{"turns": turns})
}
