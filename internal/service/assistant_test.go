package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/swipebite/backend/config"
	"github.com/swipebite/backend/internal/clients/openai"
	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/models"
	"github.com/swipebite/backend/internal/testhelpers"
	"github.com/swipebite/backend/internal/types"
)

func testOpenAIClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		OpenAIAPIKey:  "test-api-key",
		OpenAIBaseURL: srv.URL,
		OpenAIModel:   "gpt-4",
	}
	return openai.New(cfg, logger.NewNop())
}

func cannedCompletion(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "` + content + `"}}]}`))
	}
}

func TestDetectQueryType(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"What can I use instead of fish sauce?", models.QuerySubstitution},
		{"Recommend me something spicy", models.QueryRecommend},
		{"How many calories are in pad thai?", models.QueryNutrition},
		{"What is pad thai made of?", models.QueryIngredient},
		{"Tell me about Thai food", models.QueryGeneral},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetectQueryType(tc.message), "message: %s", tc.message)
	}
}

func TestSuggestionsFallBackToGeneral(t *testing.T) {
	assert.Len(t, Suggestions(models.QueryNutrition), 3)
	assert.Equal(t, Suggestions(models.QueryGeneral), Suggestions("something-unknown"))
}

func TestChatAgainstLiveModel(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ai := testOpenAIClient(t, cannedCompletion("Pad thai is a stir-fried noodle dish."))
	svc := NewAssistantService(db, nil, ai, logger.NewNop())
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")

	reply, err := svc.Chat(ctx, user.ID, &types.AssistantChatRequest{Message: "What is pad thai?"})
	require.NoError(t, err)
	assert.False(t, reply.Degraded)
	assert.Equal(t, "Pad thai is a stir-fried noodle dish.", reply.Response)
	assert.Equal(t, models.QueryGeneral, reply.QueryType)
	assert.Equal(t, user.ID.String(), reply.ConversationID)
	assert.Len(t, reply.Suggestions, 3)

	// Every turn lands in the query log.
	var logged models.AIQueryLog
	require.NoError(t, db.Where("id = ?", reply.QueryLogID).First(&logged).Error)
	assert.Equal(t, user.ID, logged.UserID)
	assert.Equal(t, "What is pad thai?", logged.UserMessage)
}

func TestChatDegradesWhenUnconfigured(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewAssistantService(db, nil, nil, logger.NewNop())
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")

	reply, err := svc.Chat(ctx, user.ID, &types.AssistantChatRequest{Message: "Recommend me dinner ideas"})
	require.NoError(t, err)
	assert.True(t, reply.Degraded)
	assert.Equal(t, models.QueryRecommend, reply.QueryType)
	assert.Equal(t, fallbackResponses[models.QueryRecommend], reply.Response)

	// The degraded turn is still logged.
	var count int64
	require.NoError(t, db.Model(&models.AIQueryLog{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestChatDegradesOnModelFailure(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ai := testOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "bad request"}}`))
	})
	svc := NewAssistantService(db, nil, ai, logger.NewNop())
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")

	reply, err := svc.Chat(ctx, user.ID, &types.AssistantChatRequest{Message: "hello"})
	require.NoError(t, err)
	assert.True(t, reply.Degraded)
	assert.Equal(t, fallbackResponses[models.QueryGeneral], reply.Response)
}

func TestChatUnknownDish(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewAssistantService(db, nil, nil, logger.NewNop())

	user, _ := testhelpers.CreateUser(t, db, "alice")

	missing := uuid.New()
	_, err := svc.Chat(context.Background(), user.ID, &types.AssistantChatRequest{
		Message: "Tell me about this",
		DishID:  &missing,
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestConversationHistoryCarriesAndTruncates(t *testing.T) {
	db := testhelpers.NewTestDB(t)

	var lastRequest openai.Request
	ai := testOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&lastRequest)
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`))
	})
	svc := NewAssistantService(db, nil, ai, logger.NewNop())
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")

	for i := 0; i < 15; i++ {
		_, err := svc.Chat(ctx, user.ID, &types.AssistantChatRequest{Message: "another question"})
		require.NoError(t, err)
	}

	// History is capped at 20 turns plus the system prompt and the new
	// user message.
	assert.Len(t, lastRequest.Messages, maxConversationTurns+2)

	var conversation models.ConversationContext
	require.NoError(t, db.Where("conversation_id = ?", user.ID.String()).First(&conversation).Error)
	assert.Len(t, conversation.Turns(), maxConversationTurns)
}

func TestDishInfoMentionsDish(t *testing.T) {
	db := testhelpers.NewTestDB(t)

	var lastRequest openai.Request
	ai := testOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&lastRequest)
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "A noodle classic."}}]}`))
	})
	svc := NewAssistantService(db, nil, ai, logger.NewNop())
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")
	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", cuisine.ID)

	reply, err := svc.DishInfo(ctx, user.ID, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QueryDishInfo, reply.QueryType)
	require.NotNil(t, reply.RelatedDishID)
	assert.Equal(t, dish.ID, *reply.RelatedDishID)

	require.NotEmpty(t, lastRequest.Messages)
	assert.Contains(t, lastRequest.Messages[0].Content, "Pad Thai")
}

func TestContextLineCarriesProfile(t *testing.T) {
	db := testhelpers.NewTestDB(t)

	var lastRequest openai.Request
	ai := testOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&lastRequest)
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`))
	})
	svc := NewAssistantService(db, nil, ai, logger.NewNop())
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")
	require.NoError(t, db.Model(&models.UserProfile{}).
		Where("user_id = ?", user.ID).
		Updates(map[string]interface{}{
			"diet_type": models.DietVegan,
			"allergies": models.StringList{"peanut"},
		}).Error)

	_, err := svc.Recommendation(ctx, user.ID, "noodles")
	require.NoError(t, err)

	require.NotEmpty(t, lastRequest.Messages)
	system := lastRequest.Messages[0].Content
	assert.Contains(t, system, "User diet: vegan")
	assert.Contains(t, system, "peanut")
}

func TestFeedback(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewAssistantService(db, nil, nil, logger.NewNop())
	ctx := context.Background()

	alice, _ := testhelpers.CreateUser(t, db, "alice")
	mallory, _ := testhelpers.CreateUser(t, db, "mallory")

	reply, err := svc.Chat(ctx, alice.ID, &types.AssistantChatRequest{Message: "hello"})
	require.NoError(t, err)

	helpful := true
	require.NoError(t, svc.Feedback(ctx, alice.ID, &types.AssistantFeedbackRequest{
		QueryLogID: reply.QueryLogID,
		WasHelpful: &helpful,
	}))

	// Someone else's log entry reads as not found.
	err = svc.Feedback(ctx, mallory.ID, &types.AssistantFeedbackRequest{
		QueryLogID: reply.QueryLogID,
		WasHelpful: &helpful,
	})
	assert.ErrorIs(t, err, ErrQueryLogNotFound)
}

func TestHistoryNewestFirst(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewAssistantService(db, nil, nil, logger.NewNop())
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")

	_, err := svc.Chat(ctx, user.ID, &types.AssistantChatRequest{Message: "first"})
	require.NoError(t, err)
	_, err = svc.Chat(ctx, user.ID, &types.AssistantChatRequest{Message: "second"})
	require.NoError(t, err)

	entries, err := svc.History(ctx, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].UserMessage)

	limited, err := svc.History(ctx, user.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
