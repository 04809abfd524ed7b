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

func handleExamine(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	if resolve.Normalize(cmd.Target) == "" {
		return t.emptyTarget(command.Examine)
	}
	r, fail := t.resolve(ctx, cmd.Target, resolve.AnyOptions(), command.Examine)
	if fail != nil {
		return fail
	}
	return t.examine(ctx, r.ID, command.Examine)
}

func (t *turn) examine(ctx context.Context, id string, verb command.Verb) []effect.Effect {
	if def := outcome.EffectiveHandler(t.v, id, string(command.Examine)); def != nil {
		return t.run(id, verb, def)
	}
	desc := t.v.Description(id)
	if desc == "" {
		return t.success(id, verb, t.narrate(ctx, cartridge.MsgNothingSpecial, "name", t.name(id)))
	}
	return t.success(id, verb, effect.Narrate(desc))
}

// handleLook describes the current focus, or the whole location when the
// player isn't at anything. With a target it behaves like examine.
func handleLook(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	if resolve.Normalize(cmd.Target) != "" {
		r, fail := t.resolve(ctx, cmd.Target, resolve.AnyOptions(), command.Look)
		if fail != nil {
			return fail
		}
		return t.examine(ctx, r.ID, command.Examine)
	}

	if f := t.ps().CurrentFocusID; f != "" && t.v.Exists(f) {
		msg := effect.Narrate(t.game.Say(cartridge.MsgLookFocus, "name", t.name(f), "description", t.v.Description(f)))
		msg.ImageID = f
		msg.ImageEntityType = string(cartridge.KindObject)
		return []effect.Effect{msg}
	}

	locID := t.ps().CurrentLocationID
	loc, ok := t.game.Location(locID)
	if !ok {
		return t.dataError(locID, command.Look, "player is in an unknown location")
	}
	scene := effect.Narrate(loc.Description)
	scene.ImageID = locID
	scene.ImageEntityType = "location"

	var seen []string
	for _, id := range t.inView(loc) {
		seen = append(seen, t.name(id))
	}
	if len(seen) == 0 {
		return []effect.Effect{scene, effect.Narrate(t.game.Message(cartridge.MsgNothingHere))}
	}
	return []effect.Effect{scene, effect.Narrate(t.game.Say(cartridge.MsgYouSee, "items", strings.Join(seen, ", ")))}
}

// inView lists the discovered things lying at the top level of a location,
// including anything the player has set down there.
func (t *turn) inView(loc *cartridge.Location) []string {
	zone := cartridge.ZoneStorageID(loc.ID)
	var out []string
	add := func(id string) {
		if t.v.Exists(id) && t.v.IsRevealed(id) && (t.v.ParentOf(id) == "" || t.v.ParentOf(id) == zone) {
			out = append(out, id)
		}
	}
	for _, ids := range [][]string{loc.Objects, loc.Items, loc.NPCs} {
		for _, id := range ids {
			add(id)
		}
	}
	for _, id := range t.v.ChildrenOf(zone) {
		add(id)
	}
	return out
}

func handleRead(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	if resolve.Normalize(cmd.Target) == "" {
		return t.emptyTarget(command.Read)
	}
	r, fail := t.resolve(ctx, cmd.Target, resolve.AnyOptions(), command.Read)
	if fail != nil {
		return fail
	}
	id, name := r.ID, t.name(r.ID)

	var counted []effect.Effect
	if r.Kind == cartridge.KindItem {
		n := t.v.ItemState(id).ReadCount + 1
		counted = append(counted, effect.SetEntityState{EntityID: id, Patch: effect.EntityPatch{ReadCount: effect.Int(n)}})
	}

	class, def := outcome.Classify(t.v, id, string(command.Read))
	switch class {
	case outcome.HasHandler:
		return t.run(id, command.Read, def, counted...)
	case outcome.CapabilityOnly:
		msg := t.narrate(ctx, cartridge.MsgNothingSpecial, "name", name)
		if desc := t.v.Description(id); desc != "" {
			msg = effect.Narrate(desc)
		}
		return t.success(id, command.Read, msg, counted...)
	}
	return t.say(ctx, cartridge.MsgCantRead, "name", name)
}

func handleInventory(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	var names []string
	for _, id := range t.ps().Inventory {
		if t.v.Exists(id) {
			names = append(names, t.name(id))
		}
	}
	if len(names) == 0 {
		return []effect.Effect{t.system(cartridge.MsgInventoryEmpty)}
	}
	return []effect.Effect{t.system(cartridge.MsgInventoryList, "items", strings.Join(names, ", "))}
}
