package actions

import (
	"context"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/outcome"
	"github.com/jwebster45206/noir-engine/pkg/resolve"
)

// PhotoPrefix prefixes the id of a photograph taken with a camera.
const PhotoPrefix = "photo_"

// handleUse covers devices as well as plain usable things. A raised camera
// turns "use X" into a photograph of X.
func handleUse(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	if resolve.Normalize(cmd.Target) == "" {
		return t.emptyTarget(command.Use)
	}
	r, fail := t.resolve(ctx, cmd.Target, resolve.AnyOptions(), command.Use)
	if fail != nil {
		return fail
	}
	id, name := r.ID, t.name(r.ID)

	if t.isCamera(id) {
		if resolve.Normalize(cmd.Target2) == "" {
			var effects []effect.Effect
			if f := t.engine.focus.RaiseDevice(t.v, id); f != nil {
				effects = append(effects, f)
			}
			return append(effects, t.narrate(ctx, cartridge.MsgDeviceRaised, "name", name))
		}
		subject, fail := t.resolve(ctx, cmd.Target2, resolve.AnyOptions(), command.Use)
		if fail != nil {
			return fail
		}
		return t.photograph(ctx, subject.ID)
	}

	class, def := outcome.Classify(t.v, id, string(command.Use))
	if dev := t.ps().ActiveDeviceID; dev != "" && dev != id && class != outcome.HasHandler && t.isCamera(dev) {
		return t.photograph(ctx, id)
	}

	if resolve.Normalize(cmd.Target2) != "" && r.Kind == cartridge.KindItem {
		other := resolve.FindEntity(t.v, cmd.Target2, resolve.InventoryOptions())
		if other.Found() && other.ID != id {
			if def := outcome.CombineHandler(t.v, id, other.ID); def != nil {
				return t.run(id, command.Use, def)
			}
			if def := outcome.CombineHandler(t.v, other.ID, id); def != nil {
				return t.run(other.ID, command.Use, def)
			}
		}
	}

	switch class {
	case outcome.HasHandler:
		return t.run(id, command.Use, def)
	case outcome.CapabilityOnly:
		return t.withFocus(t.say(ctx, cartridge.MsgUseNoHandler, "name", name), command.Use, id, true)
	}
	return t.say(ctx, cartridge.MsgCantUse, "name", name)
}

func (t *turn) isCamera(id string) bool {
	if it, ok := t.game.Item(id); ok {
		return it.Caps.IsCamera && t.v.InInventory(id)
	}
	if o, ok := t.game.Object(id); ok {
		return o.Caps.IsCamera && t.v.IsPersonal(id)
	}
	return false
}

func (t *turn) photographable(id string) bool {
	if it, ok := t.game.Item(id); ok {
		return it.Caps.IsPhotographable
	}
	if o, ok := t.game.Object(id); ok {
		return o.Caps.IsPhotographable
	}
	return false
}

// photograph files a photo of id in the inventory and lowers the camera.
// A second photo of the same subject adds nothing new.
func (t *turn) photograph(ctx context.Context, id string) []effect.Effect {
	name := t.name(id)
	if !t.photographable(id) {
		return t.say(ctx, cartridge.MsgNotPhotographable, "name", name)
	}
	var effects []effect.Effect
	photoID := PhotoPrefix + id
	if !t.v.Exists(photoID) {
		effects = append(effects, effect.CreateDynamicItem{
			ItemID:      photoID,
			Name:        "photo of the " + name,
			Description: "A snapshot of the " + name + ".",
			ContainerID: effect.InventoryContainer,
			SourceID:    id,
		})
	}
	msg := t.narrate(ctx, cartridge.MsgPhotoTaken, "name", name)
	msg.ImageID = id
	if k, ok := t.v.KindOf(id); ok {
		msg.ImageEntityType = string(k)
	}
	effects = append(effects, msg)
	if t.ps().HasDeviceFocus() {
		effects = append(effects, effect.ClearDeviceFocus{})
	}
	return effects
}
