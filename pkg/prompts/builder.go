package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwebster45206/noir-engine/pkg/chat"
	"github.com/jwebster45206/noir-engine/pkg/narration"
)

// DefaultHistoryLimit is how many transcript lines the interpreter sees.
const DefaultHistoryLimit = 6

// Builder constructs chat messages for LLM interaction using a fluent interface.
type Builder struct {
	scene        *Scene
	rating       string
	transcript   []chat.Message
	historyLimit int
}

// New creates a new prompt builder with default settings.
func New() *Builder {
	return &Builder{historyLimit: DefaultHistoryLimit}
}

// WithScene sets what the player can currently see.
func (b *Builder) WithScene(s Scene) *Builder {
	b.scene = &s
	return b
}

// WithRating sets the cartridge content rating for narration.
func (b *Builder) WithRating(rating string) *Builder {
	b.rating = rating
	return b
}

// WithTranscript sets the recent game transcript, so the model can resolve
// words like "it" or "him".
func (b *Builder) WithTranscript(msgs []chat.Message) *Builder {
	b.transcript = msgs
	return b
}

// WithHistoryLimit sets the chat history window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// BuildInterpret returns the messages asking a model to turn input into a
// command.
func (b *Builder) BuildInterpret(input string) ([]chat.ChatMessage, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("input is required")
	}

	var sb strings.Builder
	sb.WriteString(BuildInterpretSystemPrompt())
	if b.scene != nil {
		scene, err := b.scene.JSON()
		if err != nil {
			return nil, fmt.Errorf("error building scene prompt: %w", err)
		}
		sb.WriteString("\n\n### What the player can see\n```json\n" + scene + "\n```")
	}
	if recent := b.window(); len(recent) > 0 {
		sb.WriteString("\n\n### Recent transcript\n" + chat.Transcript(recent))
	}

	return []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: sb.String()},
		{Role: chat.ChatRoleUser, Content: input},
	}, nil
}

// BuildNarration returns the messages asking a model to expand req.
func (b *Builder) BuildNarration(req narration.Request) ([]chat.ChatMessage, error) {
	if req.Fallback == "" && req.Keyword == "" {
		return nil, fmt.Errorf("narration request has neither keyword nor fallback")
	}

	var sb strings.Builder
	sb.WriteString(NarrationSystemPrompt)
	if p := GetContentRatingPrompt(b.rating); p != "" {
		sb.WriteString("\n\nContent Rating: " + b.rating + " (" + p + ")")
	}
	if b.scene != nil {
		sb.WriteString("\n\nThe detective is at the " + b.scene.Location + ".")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal narration request: %w", err)
	}
	return []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: sb.String()},
		{Role: chat.ChatRoleUser, Content: "Rewrite the fallback line for this moment:\n" + string(payload)},
	}, nil
}

// window returns the most recent transcript lines, skipping system notes.
func (b *Builder) window() []chat.Message {
	var lines []chat.Message
	for _, m := range b.transcript {
		if m.Speaker != chat.SpeakerSystem {
			lines = append(lines, m)
		}
	}
	if b.historyLimit >= 0 && len(lines) > b.historyLimit {
		lines = lines[len(lines)-b.historyLimit:]
	}
	return lines
}
