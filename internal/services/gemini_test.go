package services

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/jwebster45206/noir-engine/pkg/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGeminiContents(t *testing.T) {
	system, history, last, err := toGeminiContents([]chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: "Interpret commands."},
		{Role: chat.ChatRoleUser, Content: "look"},
		{Role: chat.ChatRoleAgent, Content: `{"verb":"look"}`},
		{Role: chat.ChatRoleUser, Content: "pick up the pipe"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Interpret commands.", system)
	assert.Equal(t, "pick up the pipe", last)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, genai.Text(`{"verb":"look"}`), history[1].Parts[0])
}

func TestToGeminiContents_NeedsUserTurn(t *testing.T) {
	_, _, _, err := toGeminiContents([]chat.ChatMessage{{Role: chat.ChatRoleSystem, Content: "x"}})
	assert.Error(t, err)

	_, _, _, err = toGeminiContents([]chat.ChatMessage{
		{Role: chat.ChatRoleUser, Content: "a"},
		{Role: chat.ChatRoleAgent, Content: "b"},
	})
	assert.Error(t, err)
}

func TestResponseText(t *testing.T) {
	assert.Equal(t, "", responseText(nil))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Smoke "), genai.Blob{MIMEType: "image/png"}, genai.Text("curls.")}},
		}},
	}
	assert.Equal(t, "Smoke curls.", responseText(resp))
}
