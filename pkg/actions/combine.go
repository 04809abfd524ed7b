package actions

import (
	"context"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/outcome"
	"github.com/jwebster45206/noir-engine/pkg/resolve"
)

// handleCombine tries the first item's combine table, then the second's.
func handleCombine(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	if resolve.Normalize(cmd.Target) == "" || resolve.Normalize(cmd.Target2) == "" {
		return t.emptyTarget(command.Combine)
	}
	first := resolve.FindEntity(t.v, cmd.Target, resolve.InventoryOptions())
	if !first.Found() {
		return t.notCarried(first)
	}
	second := resolve.FindEntity(t.v, cmd.Target2, resolve.InventoryOptions())
	if !second.Found() {
		return t.notCarried(second)
	}
	a, b := first.ID, second.ID
	if a == b {
		return []effect.Effect{t.system(cartridge.MsgCombineSelf)}
	}
	if def := outcome.CombineHandler(t.v, a, b); def != nil {
		return t.run(a, command.Combine, def)
	}
	if def := outcome.CombineHandler(t.v, b, a); def != nil {
		return t.run(b, command.Combine, def)
	}
	return t.say(ctx, cartridge.MsgCantCombine, "name", t.name(a), "item", t.name(b))
}
