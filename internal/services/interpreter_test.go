package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jwebster45206/noir-engine/pkg/chat"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/narration"
	"github.com/jwebster45206/noir-engine/pkg/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = narration.RetryPolicy{Attempts: 3, Delay: time.Millisecond}

func TestInterpreter_PlainPhrasingSkipsModel(t *testing.T) {
	llm := NewMockLLMService()
	in := NewInterpreter(llm, testLogger())

	cmd, err := in.Interpret(context.Background(), "take the rebar", prompts.Scene{}, nil)
	require.NoError(t, err)
	assert.Equal(t, command.Command{Verb: command.Take, Target: "the rebar"}, cmd)
	assert.Empty(t, llm.Calls())
}

func TestInterpreter_UsesModel(t *testing.T) {
	llm := Replying("```json\n{\"verb\": \"Use\", \"target\": \" brass key \", \"target2\": \"drawer\"}\n```")
	in := NewInterpreter(llm, testLogger()).WithRetry(fastRetry)
	recent := []chat.Message{{Speaker: chat.SpeakerPlayer, Text: "go to the desk"}}

	cmd, err := in.Interpret(context.Background(), "try my brass key in that drawer", prompts.Scene{Location: "Construction Site"}, recent)
	require.NoError(t, err)
	assert.Equal(t, command.Command{Verb: command.Use, Target: "brass key", Target2: "drawer"}, cmd)

	calls := llm.Calls()
	require.Len(t, calls, 1)
	msgs := calls[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.ChatRoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "Construction Site")
	assert.Contains(t, msgs[0].Content, "> go to the desk")
	assert.Equal(t, "try my brass key in that drawer", msgs[1].Content)
}

func TestInterpreter_NoModel(t *testing.T) {
	in := NewInterpreter(nil, testLogger())

	cmd, err := in.Interpret(context.Background(), "dance with the foreman", prompts.Scene{}, nil)
	require.NoError(t, err)
	assert.False(t, cmd.Verb.Valid())
}

func TestInterpreter_RetriesThenSucceeds(t *testing.T) {
	llm := NewMockLLMService()
	attempts := 0
	llm.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("overloaded")
		}
		if attempts == 2 {
			return &chat.ChatResponse{Message: "I think you want to look."}, nil
		}
		return &chat.ChatResponse{Message: `{"verb":"smell","target":"letter"}`}, nil
	}
	in := NewInterpreter(llm, testLogger()).WithRetry(fastRetry)

	cmd, err := in.Interpret(context.Background(), "give the letter a sniff", prompts.Scene{}, nil)
	require.NoError(t, err)
	assert.Equal(t, command.Smell, cmd.Verb)
	assert.Equal(t, 3, attempts)
}

func TestInterpreter_GivesUp(t *testing.T) {
	llm := NewMockLLMService()
	llm.SetChatError(errors.New("down"))
	in := NewInterpreter(llm, testLogger()).WithRetry(fastRetry)

	_, err := in.Interpret(context.Background(), "ponder the meaning of rain", prompts.Scene{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, narration.ErrUnavailable)
	assert.Len(t, llm.Calls(), 3)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    command.Command
		wantErr bool
	}{
		{"bare json", `{"verb":"look"}`, command.Command{Verb: command.Look}, false},
		{"prose around json", `Sure! {"verb":"goto","target":"office"} Hope that helps.`, command.Command{Verb: command.Goto, Target: "office"}, false},
		{"unknown verb passes through", `{"verb":"unknown"}`, command.Command{Verb: "unknown"}, false},
		{"no json", "look", command.Command{}, true},
		{"missing verb", `{"target":"x"}`, command.Command{}, true},
		{"broken json", `{"verb":}`, command.Command{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.reply)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoCommand)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
