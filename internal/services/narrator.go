package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/noir-engine/pkg/narration"
	"github.com/jwebster45206/noir-engine/pkg/prompts"
	"github.com/jwebster45206/noir-engine/pkg/textfilter"
)

// LLMNarrator expands narration keywords with a model. Wrap it in
// narration.Retrying; callers fall back to static text on any error.
type LLMNarrator struct {
	llm    LLMService
	rating string
	filter *textfilter.ProfanityFilter
	logger *slog.Logger
}

var _ narration.Expander = (*LLMNarrator)(nil)

// NewLLMNarrator creates a narrator writing for a cartridge's content
// rating. Output is cleaned for any rating below R.
func NewLLMNarrator(llm LLMService, rating string, logger *slog.Logger) *LLMNarrator {
	if logger == nil {
		logger = slog.Default()
	}
	n := &LLMNarrator{llm: llm, rating: rating, logger: logger}
	if textfilter.ShouldFilterContent(rating) {
		n.filter = textfilter.NewProfanityFilter()
	}
	return n
}

func (n *LLMNarrator) Expand(ctx context.Context, req narration.Request) (string, error) {
	msgs, err := prompts.New().WithRating(n.rating).BuildNarration(req)
	if err != nil {
		return "", err
	}
	resp, err := n.llm.Chat(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("narration request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Message)
	text = strings.TrimSpace(strings.Trim(text, `"“”`))
	if text == "" {
		return "", errors.New("narration reply was empty")
	}
	if n.filter != nil && n.filter.ContainsProfanity(text) {
		n.logger.Debug("Filtered narration", "keyword", req.Keyword, "rating", n.rating)
		text = n.filter.FilterText(text)
	}
	return text, nil
}
