package actions

import (
	"context"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/outcome"
	"github.com/jwebster45206/noir-engine/pkg/resolve"
)

func handleTake(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	if resolve.Normalize(cmd.Target) == "" {
		return t.emptyTarget(command.Take)
	}
	r, fail := t.resolve(ctx, cmd.Target, resolve.WorldOptions(), command.Take)
	if fail != nil {
		if r.Status == resolve.NotFound {
			if carried := resolve.FindBestMatch(t.v, r.Input, resolve.InventoryOptions()); carried != nil {
				return []effect.Effect{t.system(cartridge.MsgAlreadyHave, "name", t.name(carried.ID))}
			}
		}
		return fail
	}
	id := r.ID
	transfer := effect.AddToContainer{EntityID: id, ContainerID: effect.InventoryContainer}

	class, def := outcome.Classify(t.v, id, string(command.Take))
	if r.Kind != cartridge.KindItem {
		// Objects only move into the inventory through their own handler.
		if class == outcome.HasHandler {
			return t.run(id, command.Take, def)
		}
		return t.say(ctx, cartridge.MsgCantTake, "name", t.name(id))
	}
	switch class {
	case outcome.HasHandler:
		return t.run(id, command.Take, def, transfer)
	case outcome.CapabilityOnly:
		return t.success(id, command.Take, t.narrate(ctx, cartridge.MsgTaken, "name", t.name(id)), transfer)
	}
	return t.say(ctx, cartridge.MsgCantTake, "name", t.name(id))
}

func handleDrop(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	if resolve.Normalize(cmd.Target) == "" {
		return t.emptyTarget(command.Drop)
	}
	r := resolve.FindEntity(t.v, cmd.Target, resolve.InventoryOptions())
	if !r.Found() {
		return t.notCarried(r)
	}
	id := r.ID
	var pre []effect.Effect
	if t.ps().ActiveDeviceID == id {
		pre = append(pre, effect.ClearDeviceFocus{})
	}
	if def := outcome.EffectiveHandler(t.v, id, string(command.Drop)); def != nil {
		return t.run(id, command.Drop, def, pre...)
	}
	storage := cartridge.ZoneStorageID(t.ps().CurrentLocationID)
	pre = append(pre, effect.AddToContainer{EntityID: id, ContainerID: storage})
	return t.success(id, command.Drop, t.narrate(ctx, cartridge.MsgDropped, "name", t.name(id)), pre...)
}

// notCarried reports a failed inventory lookup, telling undiscovered items
// apart from things the player simply doesn't have.
func (t *turn) notCarried(r resolve.Resolution) []effect.Effect {
	if r.Status == resolve.Gated {
		return []effect.Effect{t.system(cartridge.MsgGated, "target", r.Input)}
	}
	return []effect.Effect{t.system(cartridge.MsgNotInInventory, "target", r.Input)}
}
