package models

import "gorm.io/gorm"

// Conversation stores the assistant chat history for one user. Turns are
// appended after each completed exchange; the write is independent of the
// completion call and may lag it.
type Conversation struct {
	gorm.Model
	UserID uint               `json:"userID" gorm:"index"`
	Turns  []ConversationTurn `json:"turns,omitempty" gorm:"foreignKey:ConversationID"`
}

type ConversationTurn struct {
	gorm.Model
	ConversationID uint   `json:"conversationID" gorm:"index"`
	Role           string `json:"role" gorm:"size:16"` // user | assistant
	Content        string `json:"content" gorm:"type:text"`
}
