package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Assistant query kinds, used to route prompts and pick follow-up
// suggestions
const (
	QueryGeneral      = "general"
	QueryIngredient   = "ingredient"
	QueryNutrition    = "nutrition"
	QuerySubstitution = "substitution"
	QueryRecommend    = "recommendation"
	QueryDishInfo     = "dish_info"
)

// ValidQueryTypes lists every accepted assistant query kind
var ValidQueryTypes = []string{
	QueryGeneral, QueryIngredient, QueryNutrition,
	QuerySubstitution, QueryRecommend, QueryDishInfo,
}

// AIQueryLog records one assistant exchange for analytics and feedback
type AIQueryLog struct {
	ID             uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"user_id"`
	QueryType      string     `gorm:"size:20;not null;default:'general'" json:"query_type"`
	UserMessage    string     `gorm:"type:text;not null" json:"user_message"`
	AIResponse     string     `gorm:"type:text" json:"ai_response"`
	RelatedDishID  *uuid.UUID `gorm:"type:varchar(36);index" json:"related_dish_id,omitempty"`
	ConversationID string     `gorm:"size:100;index" json:"conversation_id"`
	ResponseTimeMs int        `gorm:"not null;default:0" json:"response_time_ms"`
	WasHelpful     *bool      `json:"was_helpful"`
	FeedbackText   string     `gorm:"type:text" json:"feedback_text"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ConversationTurn is one message inside a stored conversation.
type ConversationTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationContext holds the rolling message history for one
// assistant conversation. Kept in the DB for durability and cached in
// Redis; history is capped at the last 20 turns when loaded.
type ConversationContext struct {
	ID             uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID         uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ConversationID string    `gorm:"size:100;not null;uniqueIndex" json:"conversation_id"`
	ContextData    string    `gorm:"type:jsonb;not null;default:'{}'" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LastMessageAt  time.Time `json:"last_message_at"`
}

// Turns decodes the stored message history. A corrupt or empty blob
// yields no turns.
func (c *ConversationContext) Turns() []ConversationTurn {
	if c.ContextData == "" {
		return nil
	}
	var payload struct {
		Messages []ConversationTurn `json:"messages"`
	}
	if err := json.Unmarshal([]byte(c.ContextData), &payload); err != nil {
		return nil
	}
	return payload.Messages
}

// SetTurns encodes the message history back into the stored blob.
func (c *ConversationContext) SetTurns(turns []ConversationTurn) error {
	payload := struct {
		Messages []ConversationTurn `json:"messages"`
	}{Messages: turns}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	c.ContextData = string(data)
	return nil
}
