package nodes

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
)

// fakeSessionRepo records saves in memory so handler tests can assert on the
// persisted state without a live store.
type fakeSessionRepo struct {
	saved   map[string]*model.ConversationState
	saveErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{saved: map[string]*model.ConversationState{}}
}

func (f *fakeSessionRepo) SaveState(_ context.Context, sessionID string, state *model.ConversationState) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	clone := state.Clone()
	f.saved[sessionID] = &clone
	return nil
}

func (f *fakeSessionRepo) LoadState(_ context.Context, sessionID string) (*model.ConversationState, error) {
	if s, ok := f.saved[sessionID]; ok {
		clone := s.Clone()
		return &clone, nil
	}
	return &model.ConversationState{}, nil
}

func (f *fakeSessionRepo) ClearState(_ context.Context, sessionID string) error {
	delete(f.saved, sessionID)
	return nil
}

func (f *fakeSessionRepo) MessageCount(ctx context.Context, sessionID string) (int, error) {
	s, err := f.LoadState(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return len(s.Messages), nil
}

func strp(v string) *string { return &v }

// TestInputConverterPreHandler_SeedsTurnState checks that each invocation
// starts from the incoming message with the cost accumulator reset.
func TestInputConverterPreHandler_SeedsTurnState(t *testing.T) {
	pre := NewInputConverterPreHandler()

	state := &model.AppState{TotalCostUSD: 1.23}
	in := model.TurnInput{SessionID: "s-1", Message: "wireless earbuds"}

	out, err := pre(context.Background(), in, state)
	require.NoError(t, err)

	assert.Equal(t, in, out)
	assert.Equal(t, "s-1", state.SessionID)
	assert.Equal(t, "wireless earbuds", state.UserMessage)
	assert.Zero(t, state.TotalCostUSD)
}

// TestExtractionChatModelPostHandler_AccumulatesCost checks that token usage
// on the model reply is converted to USD and added to the running total.
func TestExtractionChatModelPostHandler_AccumulatesCost(t *testing.T) {
	post := NewExtractionChatModelPostHandler("gemini-2.5-flash")

	msg := &schema.Message{
		Role:    schema.Assistant,
		Content: "{}",
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{
				PromptTokens:     1_000_000,
				CompletionTokens: 1_000_000,
				TotalTokens:      2_000_000,
			},
		},
	}

	state := &model.AppState{TotalCostUSD: 0.10}
	out, err := post(context.Background(), msg, state)
	require.NoError(t, err)
	assert.Same(t, msg, out)
	// gemini-2.5-flash: 0.30 in + 2.50 out per 1M tokens
	assert.InDelta(t, 0.10+0.30+2.50, state.TotalCostUSD, 1e-9)
}

// TestExtractionChatModelPostHandler_NoUsage checks that replies without
// usage metadata leave the total untouched.
func TestExtractionChatModelPostHandler_NoUsage(t *testing.T) {
	post := NewExtractionChatModelPostHandler("gemini-2.5-flash")

	state := &model.AppState{TotalCostUSD: 0.25}
	_, err := post(context.Background(), &schema.Message{Role: schema.Assistant}, state)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, state.TotalCostUSD, 1e-9)
}

// TestExtractionParserPostHandler_MergesAndPersists checks that the validated
// response is merged into the session state and the result committed.
func TestExtractionParserPostHandler_MergesAndPersists(t *testing.T) {
	repo := newFakeSessionRepo()
	post := NewExtractionParserPostHandler(repo)

	state := &model.AppState{
		SessionID:   "s-1",
		UserMessage: "wireless earbuds",
		FocusBefore: model.FieldProductIdea,
	}
	state.State.AppendUser("wireless earbuds")

	resp := &model.ExtractionResponse{
		AssistantMessage: "Got it. Which country are you importing to?",
		NextFocusField:   model.FieldImportCountry,
		StateUpdates: model.StateUpdates{
			ProductIdea: strp("wireless earbuds"),
		},
	}

	out, err := post(context.Background(), resp, state)
	require.NoError(t, err)
	assert.Same(t, resp, out)

	require.NotEmpty(t, state.State.ProductIdea)
	assert.Equal(t, "wireless earbuds", state.State.ProductIdea)
	assert.Equal(t, resp.AssistantMessage, state.AssistantMessage)

	saved, ok := repo.saved["s-1"]
	require.True(t, ok)
	require.NotEmpty(t, saved.ProductIdea)
	assert.Equal(t, "wireless earbuds", saved.ProductIdea)
	assert.Len(t, saved.Messages, 2)
}

// TestExtractionParserPostHandler_SaveFailureDoesNotFailTurn checks the
// log-and-continue policy on a failed commit.
func TestExtractionParserPostHandler_SaveFailureDoesNotFailTurn(t *testing.T) {
	repo := newFakeSessionRepo()
	repo.saveErr = fmt.Errorf("connection refused")
	post := NewExtractionParserPostHandler(repo)

	state := &model.AppState{SessionID: "s-1", UserMessage: "hi"}
	state.State.AppendUser("hi")

	_, err := post(context.Background(), &model.ExtractionResponse{AssistantMessage: "hello"}, state)
	require.NoError(t, err)
	assert.Equal(t, "hello", state.AssistantMessage)
}

func TestTrimTail(t *testing.T) {
	msgs := []model.ChatMessage{
		{Role: model.RoleUser, Content: "a"},
		{Role: model.RoleAssistant, Content: "b"},
		{Role: model.RoleUser, Content: "c"},
		{Role: model.RoleAssistant, Content: "d"},
	}

	trimmed := trimTail(msgs, 2)
	require.Len(t, trimmed, 2)
	assert.Equal(t, "c", trimmed[0].Content)
	assert.Equal(t, "d", trimmed[1].Content)

	full := trimTail(msgs, 10)
	require.Len(t, full, 4)
	// always a copy, never an alias of the transcript
	full[0].Content = "mutated"
	assert.Equal(t, "a", msgs[0].Content)
}
