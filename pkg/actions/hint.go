package actions

import (
	"context"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/conditionals"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/state"
)

// HintedFlag marks that the player has had the first hint for a step.
func HintedFlag(stepID string) string { return "hinted:" + stepID }

// CompletedFlag marks that a chapter's completion has been announced.
func CompletedFlag(chapterID string) string { return "chapter_complete:" + chapterID }

// handleHint nudges the player toward the next happy path step. The first
// request gives the gentle hint; asking again spells it out.
func handleHint(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	ch, ok := t.game.ChapterByID(t.ps().ChapterID)
	if !ok || ch.IsComplete(t.ps().Flags) {
		return []effect.Effect{t.system(cartridge.MsgNoHint)}
	}
	step := ch.NextStep(t.ps().Flags)
	if step == nil {
		return []effect.Effect{t.system(cartridge.MsgNoHint)}
	}

	flag := HintedFlag(step.ID)
	if t.v.HasFlag(flag) {
		text := step.DetailedHint
		if text == "" {
			text = step.BaseHint
		}
		return []effect.Effect{effect.Narrate(text)}
	}

	text := step.BaseHint
	for _, h := range step.ConditionalHints {
		if conditionals.Evaluate(h.Conditions, t.v) {
			text = h.Hint
			break
		}
	}
	if text == "" {
		text = step.DetailedHint
	}
	return []effect.Effect{effect.SetFlag{Flag: flag, Value: true}, effect.Narrate(text)}
}

// Epilogue returns the effects that close out a chapter once its
// completion requirements are met. It returns nil before then, and after
// the completion has been announced once.
func (e *Engine) Epilogue(ps *state.PlayerState) []effect.Effect {
	ch, ok := e.game.ChapterByID(ps.ChapterID)
	if !ok || !ch.IsComplete(ps.Flags) || ps.Flags.Has(CompletedFlag(ch.ID)) {
		return nil
	}
	text := ch.CompletionMessage
	if text == "" {
		text = e.game.Message(cartridge.MsgChapterComplete)
	}
	return []effect.Effect{
		effect.SetFlag{Flag: CompletedFlag(ch.ID), Value: true},
		effect.Narrate(text),
	}
}
