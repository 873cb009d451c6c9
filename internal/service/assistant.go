package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/clients/openai"
	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/models"
	"github.com/swipebite/backend/internal/types"
)

var ErrQueryLogNotFound = errors.New("query log entry not found")

const (
	// maxConversationTurns caps the history sent to the model and kept in
	// the conversation record.
	maxConversationTurns = 20
	conversationCacheTTL = 24 * time.Hour
)

const assistantSystemPrompt = "You are Swipe&Bite's food assistant. You help people decide " +
	"what to eat: explain dishes and ingredients, suggest substitutions, give rough " +
	"nutrition guidance and recommend dishes. Keep answers short, friendly and " +
	"practical. You are not a medical professional; for allergy or health concerns, " +
	"tell people to check with the restaurant or a doctor."

// fallbackResponses answer in place of the model when the API is down or
// unconfigured.
var fallbackResponses = map[string]string{
	models.QueryGeneral:      "I'm having trouble thinking right now. Please try again in a moment!",
	models.QueryDishInfo:     "I can't pull up dish details at the moment. The dish page itself lists ingredients and nutrition facts.",
	models.QueryIngredient:   "I can't look up ingredient details right now. Please try again shortly.",
	models.QueryNutrition:    "Nutrition lookups are unavailable right now. The dish card shows calories and macros where we have them.",
	models.QuerySubstitution: "I can't suggest substitutions at the moment. Please try again in a bit.",
	models.QueryRecommend:    "I can't make a personal pick right now, but the swipe feed and trending page are full of ideas!",
}

// followUpSuggestions are the canned next questions offered per query type.
var followUpSuggestions = map[string][]string{
	models.QueryGeneral: {
		"What's trending this week?",
		"Recommend me something spicy",
		"What should I eat for dinner?",
	},
	models.QueryDishInfo: {
		"How is this dish usually made?",
		"Is this dish vegetarian?",
		"What does it pair well with?",
	},
	models.QueryIngredient: {
		"Is it a common allergen?",
		"What can I substitute for it?",
		"Which cuisines use it most?",
	},
	models.QueryNutrition: {
		"How many calories does it have?",
		"Is it high in protein?",
		"Suggest a lighter alternative",
	},
	models.QuerySubstitution: {
		"Suggest a vegan substitute",
		"What's a gluten-free option?",
		"Will the substitute change the taste?",
	},
	models.QueryRecommend: {
		"Surprise me with something new",
		"Recommend a dish under 600 calories",
		"What's good nearby?",
	},
}

// AssistantService runs the chat pipeline: prompt assembly, conversation
// history, the OpenAI call, and the query log.
type AssistantService struct {
	db    *gorm.DB
	redis *redis.Client
	ai    *openai.Client
	log   *logger.Logger
}

// NewAssistantService creates a new AssistantService instance. The Redis
// client may be nil; conversations then load straight from the database.
func NewAssistantService(db *gorm.DB, redisClient *redis.Client, ai *openai.Client, log *logger.Logger) *AssistantService {
	return &AssistantService{
		db:    db,
		redis: redisClient,
		ai:    ai,
		log:   log,
	}
}

// AssistantReply is the payload of every assistant endpoint.
type AssistantReply struct {
	Response       string     `json:"response"`
	QueryType      string     `json:"query_type"`
	ConversationID string     `json:"conversation_id"`
	QueryLogID     uuid.UUID  `json:"query_log_id"`
	ResponseTimeMs int        `json:"response_time_ms"`
	Suggestions    []string   `json:"suggestions"`
	Degraded       bool       `json:"degraded"`
	RelatedDishID  *uuid.UUID `json:"related_dish_id,omitempty"`
}

// Chat answers one free-form message, carrying the rolling conversation.
// A failing or unconfigured model degrades to a canned reply; the turn is
// still logged.
func (s *AssistantService) Chat(ctx context.Context, userID uuid.UUID, req *types.AssistantChatRequest) (*AssistantReply, error) {
	queryType := req.QueryType
	if queryType == "" {
		queryType = DetectQueryType(req.Message)
	}

	var dish *models.Dish
	if req.DishID != nil {
		var d models.Dish
		if err := s.db.WithContext(ctx).Preload("Cuisine").Where("id = ?", *req.DishID).First(&d).Error; err != nil {
			return nil, err
		}
		dish = &d
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = userID.String()
	}

	return s.run(ctx, userID, conversationID, queryType, req.Message, dish)
}

// DishInfo asks about a specific dish through the chat pipeline.
func (s *AssistantService) DishInfo(ctx context.Context, userID, dishID uuid.UUID) (*AssistantReply, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).Preload("Cuisine").Preload("Ingredients").Where("id = ?", dishID).First(&dish).Error; err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Tell me about %s. What is it, how is it usually made, and what should I expect taste-wise?", dish.Name)
	return s.run(ctx, userID, userID.String(), models.QueryDishInfo, message, &dish)
}

// IngredientInfo asks about a single ingredient.
func (s *AssistantService) IngredientInfo(ctx context.Context, userID uuid.UUID, ingredient string) (*AssistantReply, error) {
	message := fmt.Sprintf("What is %s? Where is it used, what does it taste like, and is it a common allergen?", ingredient)
	return s.run(ctx, userID, userID.String(), models.QueryIngredient, message, nil)
}

// Substitution asks for replacements for an ingredient, optionally under
// a dietary restriction.
func (s *AssistantService) Substitution(ctx context.Context, userID uuid.UUID, ingredient, restriction string) (*AssistantReply, error) {
	message := fmt.Sprintf("What can I use instead of %s?", ingredient)
	if restriction != "" {
		message += fmt.Sprintf(" It needs to be %s.", restriction)
	}
	return s.run(ctx, userID, userID.String(), models.QuerySubstitution, message, nil)
}

// Recommendation asks for dish ideas, optionally around a craving. The
// user's diet and allergies ride along in the context line.
func (s *AssistantService) Recommendation(ctx context.Context, userID uuid.UUID, craving string) (*AssistantReply, error) {
	message := "What should I eat today? Recommend a few dishes."
	if craving != "" {
		message = fmt.Sprintf("I'm craving %s. Recommend a few dishes that would hit the spot.", craving)
	}
	return s.run(ctx, userID, userID.String(), models.QueryRecommend, message, nil)
}

// run is the shared pipeline behind every assistant operation.
func (s *AssistantService) run(ctx context.Context, userID uuid.UUID, conversationID, queryType, message string, dish *models.Dish) (*AssistantReply, error) {
	start := time.Now()

	conversation, err := s.loadConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	turns := conversation.Turns()
	if len(turns) > maxConversationTurns {
		turns = turns[len(turns)-maxConversationTurns:]
	}

	messages := make([]openai.Message, 0, len(turns)+2)
	messages = append(messages, openai.Message{
		Role:    openai.RoleSystem,
		Content: assistantSystemPrompt + s.contextLine(ctx, userID, dish),
	})
	for _, turn := range turns {
		messages = append(messages, openai.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, openai.Message{Role: openai.RoleUser, Content: message})

	responseText := ""
	degraded := false
	if s.ai != nil && s.ai.IsConfigured() {
		responseText, err = s.ai.ChatCompletion(ctx, messages)
		if err != nil {
			s.log.Warnw("assistant model call failed, degrading",
				"query_type", queryType, "error", err)
			degraded = true
		}
	} else {
		degraded = true
	}
	if degraded {
		responseText = fallbackResponses[queryType]
		if responseText == "" {
			responseText = fallbackResponses[models.QueryGeneral]
		}
	}

	now := time.Now()
	turns = append(turns,
		models.ConversationTurn{Role: openai.RoleUser, Content: message, Timestamp: now},
		models.ConversationTurn{Role: openai.RoleAssistant, Content: responseText, Timestamp: now},
	)
	if len(turns) > maxConversationTurns {
		turns = turns[len(turns)-maxConversationTurns:]
	}
	if err := s.saveConversation(ctx, conversation, turns); err != nil {
		return nil, err
	}

	elapsed := int(time.Since(start).Milliseconds())
	logRow := models.AIQueryLog{
		ID:             uuid.New(),
		UserID:         userID,
		QueryType:      queryType,
		UserMessage:    message,
		AIResponse:     responseText,
		ConversationID: conversationID,
		ResponseTimeMs: elapsed,
	}
	if dish != nil {
		logRow.RelatedDishID = &dish.ID
	}
	if err := s.db.WithContext(ctx).Create(&logRow).Error; err != nil {
		return nil, err
	}

	reply := &AssistantReply{
		Response:       responseText,
		QueryType:      queryType,
		ConversationID: conversationID,
		QueryLogID:     logRow.ID,
		ResponseTimeMs: elapsed,
		Suggestions:    Suggestions(queryType),
		Degraded:       degraded,
		RelatedDishID:  logRow.RelatedDishID,
	}
	return reply, nil
}

// contextLine summarizes the current dish and the user's preferences for
// the system prompt.
func (s *AssistantService) contextLine(ctx context.Context, userID uuid.UUID, dish *models.Dish) string {
	var parts []string
	if dish != nil {
		entry := "Current dish: " + dish.Name
		if dish.Cuisine != nil {
			entry += " (" + dish.Cuisine.Name + ")"
		}
		if dish.Calories != nil {
			entry += fmt.Sprintf(", %d calories", *dish.Calories)
		}
		parts = append(parts, entry)
	}

	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err == nil {
		if profile.DietType != "" && profile.DietType != models.DietNone {
			parts = append(parts, "User diet: "+profile.DietType)
		}
		if len(profile.Allergies) > 0 {
			parts = append(parts, "User allergies: "+strings.Join(profile.Allergies, ", "))
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return "\n\n" + strings.Join(parts, " | ")
}

func conversationCacheKey(conversationID string) string {
	return "assistant:conversation:" + conversationID
}

// loadConversation fetches the conversation record, trying the Redis cache
// before the database and creating a fresh record when neither has it.
func (s *AssistantService) loadConversation(ctx context.Context, userID uuid.UUID, conversationID string) (*models.ConversationContext, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, conversationCacheKey(conversationID)).Result()
		if err == nil {
			var conversation models.ConversationContext
			if err := json.Unmarshal([]byte(cached), &conversation); err == nil && conversation.UserID == userID {
				conversation.ContextData = cachedContextData(cached)
				return &conversation, nil
			}
		} else if err != redis.Nil {
			s.log.Warnw("conversation cache read failed", "error", err)
		}
	}

	var conversation models.ConversationContext
	err := s.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conversation = models.ConversationContext{
			ID:             uuid.New(),
			UserID:         userID,
			ConversationID: conversationID,
			ContextData:    "{}",
		}
		return &conversation, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// cachedContextData pulls the context_data field back out of a cached
// conversation blob.
func cachedContextData(cached string) string {
	var payload struct {
		ContextData string `json:"context_data"`
	}
	if err := json.Unmarshal([]byte(cached), &payload); err != nil || payload.ContextData == "" {
		return "{}"
	}
	return payload.ContextData
}

// saveConversation persists the updated history to the database and
// refreshes the cache. Cache failures only log.
func (s *AssistantService) saveConversation(ctx context.Context, conversation *models.ConversationContext, turns []models.ConversationTurn) error {
	if err := conversation.SetTurns(turns); err != nil {
		return err
	}
	conversation.LastMessageAt = time.Now()

	if err := s.db.WithContext(ctx).Save(conversation).Error; err != nil {
		return err
	}

	if s.redis != nil {
		blob, err := json.Marshal(struct {
			*models.ConversationContext
			ContextData string `json:"context_data"`
		}{conversation, conversation.ContextData})
		if err == nil {
			err = s.redis.Set(ctx, conversationCacheKey(conversation.ConversationID), blob, conversationCacheTTL).Err()
		}
		if err != nil {
			s.log.Warnw("conversation cache write failed", "error", err)
		}
	}
	return nil
}

// Feedback marks a logged assistant answer as helpful or not. Only the
// owner of the log entry may vote.
func (s *AssistantService) Feedback(ctx context.Context, userID uuid.UUID, req *types.AssistantFeedbackRequest) error {
	result := s.db.WithContext(ctx).Model(&models.AIQueryLog{}).
		Where("id = ? AND user_id = ?", req.QueryLogID, userID).
		Updates(map[string]interface{}{
			"was_helpful":   req.WasHelpful,
			"feedback_text": req.FeedbackText,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQueryLogNotFound
	}
	return nil
}

// History returns the user's query log, newest first.
func (s *AssistantService) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.AIQueryLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var entries []models.AIQueryLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Suggestions returns the follow-up prompts for a query type, falling
// back to the general set.
func Suggestions(queryType string) []string {
	if suggestions, ok := followUpSuggestions[queryType]; ok {
		out := make([]string, len(suggestions))
		copy(out, suggestions)
		return out
	}
	out := make([]string, len(followUpSuggestions[models.QueryGeneral]))
	copy(out, followUpSuggestions[models.QueryGeneral])
	return out
}

// DetectQueryType guesses what kind of question a free-form message is,
// routing it to the right fallback and follow-up suggestions.
func DetectQueryType(message string) string {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, "substitute", "instead of", "replacement", "swap"):
		return models.QuerySubstitution
	case containsAny(lower, "recommend", "suggest", "what should i", "craving", "ideas"):
		return models.QueryRecommend
	case containsAny(lower, "calorie", "protein", "carb", "nutrition", "macro", "healthy"):
		return models.QueryNutrition
	case containsAny(lower, "ingredient", "what is in", "made of", "made with", "contain"):
		return models.QueryIngredient
	}
	return models.QueryGeneral
}

func containsAny(s string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
