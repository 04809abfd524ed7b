package chat

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CommandRequest is a player's free-text command sent to the api.
type CommandRequest struct {
	Message string `json:"message"`
}

// CommandResponse carries the messages produced by one player command.
type CommandResponse struct {
	GameID   uuid.UUID `json:"game_id"`
	Messages []Message `json:"messages"`
	Complete bool      `json:"chapter_complete,omitempty"`
}

// Speakers for player-visible messages.
const (
	SpeakerNarrator = "narrator"
	SpeakerSystem   = "system"
	SpeakerPlayer   = "player"
)

// Message is a rendered line of the game transcript.
type Message struct {
	Speaker          string `json:"speaker"`
	Text             string `json:"text"`
	MediaURL         string `json:"media_url,omitempty"`
	MediaType        string `json:"media_type,omitempty"`
	MediaDescription string `json:"media_description,omitempty"`
}

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // Model
	ChatRoleSystem = "system"    // Instructions
)

// ChatMessage is a single message sent to an LLM provider.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse is the text an LLM provider returned.
type ChatResponse struct {
	Message string `json:"message,omitempty"`
}

func (cr *CommandRequest) Validate() error {
	if strings.TrimSpace(cr.Message) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	return nil
}

// Format renders a message as a transcript line. Narration is unprefixed.
func (m Message) Format() string {
	switch m.Speaker {
	case SpeakerSystem:
		return "[" + m.Text + "]"
	case SpeakerPlayer:
		return "> " + m.Text
	default:
		return m.Text
	}
}

// Transcript joins messages into plain text, one paragraph each.
func Transcript(msgs []Message) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, m.Format())
	}
	return strings.Join(lines, "\n\n")
}
