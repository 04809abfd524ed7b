package actions

import (
	"context"
	"strings"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/outcome"
	"github.com/jwebster45206/noir-engine/pkg/resolve"
)

func handleSearch(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	if resolve.Normalize(cmd.Target) == "" {
		return t.emptyTarget(command.Search)
	}
	r, fail := t.resolve(ctx, cmd.Target, resolve.WorldOptions(), command.Search)
	if fail != nil {
		return fail
	}
	id, name := r.ID, t.name(r.ID)

	class, def := outcome.Classify(t.v, id, string(command.Search))
	switch class {
	case outcome.HasHandler:
		return t.run(id, command.Search, def)
	case outcome.NoCapability:
		return t.say(ctx, cartridge.MsgCantSearch, "name", name)
	}
	if !t.v.ContainerAccessible(id) {
		if t.v.ObjectState(id).IsLocked {
			return t.say(ctx, cartridge.MsgLocked, "name", name)
		}
		return t.say(ctx, cartridge.MsgMustOpen, "name", name)
	}

	// Default search: turn up whatever items lie inside, revealing any
	// that were hidden.
	var reveals []effect.Effect
	var found []string
	for _, child := range t.v.ChildrenOf(id) {
		if k, _ := t.v.KindOf(child); k != cartridge.KindItem {
			continue
		}
		if !t.v.IsRevealed(child) {
			reveals = append(reveals, effect.RevealObject{EntityID: child, RevealedBy: id})
		}
		found = append(found, t.name(child))
	}
	if len(found) == 0 {
		return t.withFocus(t.say(ctx, cartridge.MsgSearchNothing, "name", name), command.Search, id, true)
	}
	msg := t.narrate(ctx, cartridge.MsgSearchFound, "name", name, "items", strings.Join(found, ", "))
	return t.success(id, command.Search, msg, reveals...)
}

func handleSmell(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	if resolve.Normalize(cmd.Target) == "" {
		return t.emptyTarget(command.Smell)
	}
	r, fail := t.resolve(ctx, cmd.Target, resolve.AnyOptions(), command.Smell)
	if fail != nil {
		return fail
	}
	if def := outcome.EffectiveHandler(t.v, r.ID, string(command.Smell)); def != nil {
		return t.run(r.ID, command.Smell, def)
	}
	return t.withFocus(t.say(ctx, cartridge.MsgSmellNothing, "name", t.name(r.ID)), command.Smell, r.ID, true)
}
