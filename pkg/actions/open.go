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

func handleOpen(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	if resolve.Normalize(cmd.Target) == "" {
		return t.emptyTarget(command.Open)
	}
	r, fail := t.resolve(ctx, cmd.Target, resolve.WorldOptions(), command.Open)
	if fail != nil {
		return fail
	}
	id, name := r.ID, t.name(r.ID)

	class, def := outcome.Classify(t.v, id, string(command.Open))
	if class == outcome.NoCapability {
		return t.say(ctx, cartridge.MsgCantOpen, "name", name)
	}
	if r.Kind == cartridge.KindObject && !conditionals.IsActionApplicable("open", id, t.v) {
		return t.say(ctx, cartridge.MsgAlreadyOpen, "name", name)
	}
	if class == outcome.HasHandler {
		return t.run(id, command.Open, def)
	}
	if t.v.ObjectState(id).IsLocked && !t.v.ObjectState(id).IsBroken {
		return t.say(ctx, cartridge.MsgLocked, "name", name)
	}
	return t.success(id, command.Open, t.narrate(ctx, cartridge.MsgOpened, "name", name),
		effect.SetEntityState{EntityID: id, Patch: effect.EntityPatch{IsOpen: effect.Bool(true)}})
}

func handleClose(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	if resolve.Normalize(cmd.Target) == "" {
		return t.emptyTarget(command.Close)
	}
	r, fail := t.resolve(ctx, cmd.Target, resolve.WorldOptions(), command.Close)
	if fail != nil {
		return fail
	}
	id, name := r.ID, t.name(r.ID)

	class, def := outcome.Classify(t.v, id, string(command.Close))
	if class == outcome.NoCapability {
		return t.say(ctx, cartridge.MsgCantClose, "name", name)
	}
	if r.Kind == cartridge.KindObject && !conditionals.IsActionApplicable("close", id, t.v) {
		return t.say(ctx, cartridge.MsgAlreadyClosed, "name", name)
	}
	if class == outcome.HasHandler {
		return t.run(id, command.Close, def)
	}
	return t.success(id, command.Close, t.narrate(ctx, cartridge.MsgClosed, "name", name),
		effect.SetEntityState{EntityID: id, Patch: effect.EntityPatch{IsOpen: effect.Bool(false)}})
}

func handleBreak(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	if resolve.Normalize(cmd.Target) == "" {
		return t.emptyTarget(command.Break)
	}
	r, fail := t.resolve(ctx, cmd.Target, resolve.WorldOptions(), command.Break)
	if fail != nil {
		return fail
	}
	id, name := r.ID, t.name(r.ID)

	class, def := outcome.Classify(t.v, id, string(command.Break))
	switch {
	case class == outcome.NoCapability:
		return t.say(ctx, cartridge.MsgCantBreak, "name", name)
	case r.Kind == cartridge.KindObject && !conditionals.IsActionApplicable("break", id, t.v):
		return t.say(ctx, cartridge.MsgAlreadyBroken, "name", name)
	case class == outcome.HasHandler:
		return t.run(id, command.Break, def)
	}
	return t.say(ctx, cartridge.MsgBreakNoHandler, "name", name)
}
