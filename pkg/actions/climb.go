package actions

import (
	"context"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/conditionals"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/outcome"
	"github.com/jwebster45206/noir-engine/pkg/resolve"
)

func handleClimb(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	if resolve.Normalize(cmd.Target) == "" {
		return t.emptyTarget(command.Climb)
	}
	r, fail := t.resolve(ctx, cmd.Target, resolve.WorldOptions(), command.Climb)
	if fail != nil {
		return fail
	}
	id, name := r.ID, t.name(r.ID)

	class, def := outcome.Classify(t.v, id, string(command.Climb))
	switch class {
	case outcome.HasHandler:
		return t.run(id, command.Climb, def)
	case outcome.CapabilityOnly:
		return t.withFocus(t.say(ctx, cartridge.MsgClimbNoHandler, "name", name), command.Climb, id, true)
	}
	return t.say(ctx, cartridge.MsgCantClimb, "name", name)
}

func handleMove(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	if resolve.Normalize(cmd.Target) == "" {
		return t.emptyTarget(command.Move)
	}
	r, fail := t.resolve(ctx, cmd.Target, resolve.WorldOptions(), command.Move)
	if fail != nil {
		return fail
	}
	id, name := r.ID, t.name(r.ID)

	class, def := outcome.Classify(t.v, id, string(command.Move))
	switch {
	case class == outcome.NoCapability:
		return t.say(ctx, cartridge.MsgCantMove, "name", name)
	case r.Kind == cartridge.KindObject && !conditionals.IsActionApplicable("move", id, t.v):
		return t.say(ctx, cartridge.MsgAlreadyMoved, "name", name)
	case class == outcome.HasHandler:
		return t.run(id, command.Move, def)
	}
	return t.success(id, command.Move, t.narrate(ctx, cartridge.MsgMoveNoHandler, "name", name),
		effect.SetEntityState{EntityID: id, Patch: effect.EntityPatch{IsMoved: effect.Bool(true)}})
}
