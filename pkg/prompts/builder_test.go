package prompts

import (
	"strings"
	"testing"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/chat"
	"github.com/jwebster45206/noir-engine/pkg/narration"
)

func TestNew(t *testing.T) {
	builder := New()
	if builder.historyLimit != DefaultHistoryLimit {
		t.Errorf("Expected default history limit of %d, got %d", DefaultHistoryLimit, builder.historyLimit)
	}
}

func TestBuilder_BuildInterpret(t *testing.T) {
	transcript := []chat.Message{
		{Speaker: chat.SpeakerPlayer, Text: "look"},
		{Speaker: chat.SpeakerNarrator, Text: "Rain needles down."},
		{Speaker: chat.SpeakerSystem, Text: "Not found."},
		{Speaker: chat.SpeakerPlayer, Text: "examine the dumpster"},
		{Speaker: chat.SpeakerNarrator, Text: "A rust-streaked dumpster, lid down."},
	}
	msgs, err := New().
		WithScene(Scene{Location: "Back Alley", Nearby: []string{"dumpster"}}).
		WithTranscript(transcript).
		WithHistoryLimit(2).
		BuildInterpret("open it")
	if err != nil {
		t.Fatalf("BuildInterpret failed: %v", err)
	}

	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	system := msgs[0].Content
	if msgs[0].Role != chat.ChatRoleSystem {
		t.Errorf("Expected system message first, got %s", msgs[0].Role)
	}
	for _, want := range []string{"take, drop", "unknown", `"location": "Back Alley"`, "> examine the dumpster", "lid down."} {
		if !strings.Contains(system, want) {
			t.Errorf("System prompt missing %q", want)
		}
	}
	for _, unwanted := range []string{"Rain needles down.", "Not found."} {
		if strings.Contains(system, unwanted) {
			t.Errorf("System prompt should not contain %q", unwanted)
		}
	}
	if last := msgs[1]; last.Role != chat.ChatRoleUser || last.Content != "open it" {
		t.Errorf("Unexpected final message %+v", last)
	}
}

func TestBuilder_BuildInterpret_RequiresInput(t *testing.T) {
	if _, err := New().BuildInterpret("   "); err == nil {
		t.Error("Expected error for blank input")
	}
}

func TestBuilder_BuildNarration(t *testing.T) {
	req := narration.Request{
		Keyword:  cartridge.MsgCantBreak,
		Context:  map[string]string{"name": "dumpster"},
		Fallback: "The dumpster won't break.",
	}
	msgs, err := New().
		WithRating(cartridge.RatingG).
		WithScene(Scene{Location: "Back Alley"}).
		BuildNarration(req)
	if err != nil {
		t.Fatalf("BuildNarration failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0].Content, ContentRatingG) {
		t.Error("Expected rating prompt in system message")
	}
	if !strings.Contains(msgs[0].Content, "Back Alley") {
		t.Error("Expected location in system message")
	}
	if !strings.Contains(msgs[1].Content, `"fallback":"The dumpster won't break."`) {
		t.Errorf("Expected request payload in user message, got %s", msgs[1].Content)
	}

	if _, err := New().BuildNarration(narration.Request{}); err == nil {
		t.Error("Expected error for empty request")
	}
}
