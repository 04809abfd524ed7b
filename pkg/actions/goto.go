package actions

import (
	"context"
	"maps"
	"slices"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/focus"
	"github.com/jwebster45206/noir-engine/pkg/narration"
	"github.com/jwebster45206/noir-engine/pkg/resolve"
)

var alreadyThere = []string{
	"You're already at the {name}.",
	"You're standing right at the {name}.",
	"The {name} is right in front of you.",
}

// handleGoto moves the player within the location or to another one.
// Things in the current location win ties against other locations. When
// neither matches, a revealed thing elsewhere is reached over an open route.
func handleGoto(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	input := resolve.Normalize(cmd.Target)
	if input == "" {
		return t.emptyTarget(command.Goto)
	}

	local := resolve.FindBestMatch(t.v, input, resolve.Options{
		SearchObjects:      true,
		SearchVisibleItems: true,
		SearchNPCs:         true,
		Accept: func(id string) bool {
			s, _ := resolve.Reach(t.v, id)
			return s == resolve.Found || s == resolve.OutOfReach || s == resolve.Blocked
		},
	})
	locID, locScore := t.matchLocation(input)

	switch {
	case local != nil && local.Score >= locScore:
		return t.approach(ctx, local.ID)
	case locID == t.ps().CurrentLocationID:
		return []effect.Effect{t.alreadyThere(t.game.Locations[locID].Name)}
	case locID != "":
		return t.travel(ctx, locID)
	}

	if effects := t.gotoElsewhere(ctx, input); effects != nil {
		return effects
	}

	r := resolve.FindEntity(t.v, cmd.Target, resolve.Options{SearchObjects: true, SearchVisibleItems: true, SearchNPCs: true})
	if r.Status == resolve.Gated {
		return []effect.Effect{t.system(cartridge.MsgGated, "target", input)}
	}
	if r.ID != "" {
		return []effect.Effect{t.system(cartridge.MsgNoRoute, "name", t.name(r.ID))}
	}
	return []effect.Effect{t.system(cartridge.MsgNotFound, "target", input)}
}

// matchLocation scores the input against every location's name and the
// names of portals leading to it.
func (t *turn) matchLocation(input string) (string, int) {
	best, bestScore := "", 0
	cur := t.ps().CurrentLocationID
	for _, id := range slices.Sorted(maps.Keys(t.game.Locations)) {
		score := 0
		if input == id {
			score = resolve.ScoreID
		} else if m := resolve.MatchesName(t.game.Locations[id].Name, nil, input); m.Matches {
			score = m.Score
		}
		for _, p := range t.portalsTo(id) {
			if m := resolve.MatchesName(p.Name, p.AltNames, input); m.Matches && p.Connects(cur, id) {
				score = max(score, m.Score)
			}
		}
		if score > bestScore {
			best, bestScore = id, score
		}
	}
	return best, bestScore
}

func (t *turn) portalsTo(loc string) []*cartridge.Portal {
	var out []*cartridge.Portal
	for _, id := range slices.Sorted(maps.Keys(t.game.Portals)) {
		p := t.game.Portals[id]
		if p.To == loc || (p.TwoWay && p.From == loc) {
			out = append(out, p)
		}
	}
	return out
}

// openRoute reports whether a revealed portal links the current location to
// loc.
func (t *turn) openRoute(loc string) bool {
	for _, p := range t.portalsTo(loc) {
		if p.Connects(t.ps().CurrentLocationID, loc) && (p.RevealFlag == "" || t.v.HasFlag(p.RevealFlag)) {
			return true
		}
	}
	return false
}

func (t *turn) travel(ctx context.Context, locID string) []effect.Effect {
	loc := t.game.Locations[locID]
	if !t.openRoute(locID) {
		return []effect.Effect{t.system(cartridge.MsgNoRoute, "name", loc.Name)}
	}
	arrive := t.narrate(ctx, cartridge.MsgLocationMoved, "location", loc.Name)
	scene := effect.Narrate(loc.Description)
	scene.ImageID = locID
	scene.ImageEntityType = "location"
	return []effect.Effect{effect.MoveToLocation{LocationID: locID}, arrive, scene}
}

// gotoElsewhere handles a revealed entity in another location: the player
// walks there and over to it when a route is open. It returns nil when no
// such entity matches.
func (t *turn) gotoElsewhere(ctx context.Context, input string) []effect.Effect {
	cur := t.ps().CurrentLocationID
	m := resolve.FindBestMatch(t.v, input, resolve.Options{
		SearchObjects:      true,
		SearchVisibleItems: true,
		SearchNPCs:         true,
		Global:             true,
		Accept: func(id string) bool {
			return t.v.IsRevealed(id) && !t.v.IsRemoved(id) && !t.v.InInventory(id)
		},
	})
	if m == nil {
		return nil
	}
	loc := t.v.LocationOf(m.ID)
	if loc == "" || loc == cur {
		return nil
	}
	if !t.openRoute(loc) {
		return []effect.Effect{t.system(cartridge.MsgNoRoute, "name", t.name(m.ID))}
	}
	effects := t.travel(ctx, loc)
	anchor := t.anchorFor(m.ID, loc)
	if anchor == "" {
		return effects
	}
	effects = append(effects, effect.SetFocus{FocusID: anchor, FocusType: effect.FocusObject})
	return append(effects, t.focusMoved(ctx, "", anchor))
}

// anchorFor returns the place in loc where the player can deal with id: the
// entity itself, its nearest focusable container, or for an NPC the object
// it stands by.
func (t *turn) anchorFor(id, loc string) string {
	if k, _ := t.v.KindOf(id); k == cartridge.KindNPC {
		return t.npcAnchor(id, loc)
	}
	anchor := focus.Anchor(t.v, id)
	if anchor == "" && t.v.ParentOf(id) == "" {
		anchor = id
	}
	return anchor
}

// approach focuses the anchor of id in the current location.
func (t *turn) approach(ctx context.Context, id string) []effect.Effect {
	anchor := t.anchorFor(id, t.ps().CurrentLocationID)
	if k, _ := t.v.KindOf(id); k == cartridge.KindNPC && anchor == "" {
		return t.say(ctx, cartridge.MsgFocusMoved, "name", t.name(id))
	}
	cur := t.ps().CurrentFocusID
	if anchor == "" || anchor == cur {
		return []effect.Effect{t.alreadyThere(t.name(id))}
	}

	var effects []effect.Effect
	if t.ps().InteractionID != "" {
		effects = append(effects, effect.EndInteraction{})
	}
	if t.ps().HasDeviceFocus() {
		effects = append(effects, effect.ClearDeviceFocus{})
	}
	effects = append(effects, effect.SetFocus{FocusID: anchor, FocusType: effect.FocusObject})
	return append(effects, t.focusMoved(ctx, cur, anchor))
}

func (t *turn) focusMoved(ctx context.Context, from, anchor string) effect.Effect {
	msg := effect.Narrate(narration.Text(ctx, t.engine.narrator, narration.Request{
		Keyword:  cartridge.MsgFocusMoved,
		Context:  map[string]string{"from": t.name(from), "to": t.name(anchor)},
		Fallback: resolve.TransitionNarration(t.v, from, anchor),
	}))
	msg.ImageID = anchor
	msg.ImageEntityType = string(cartridge.KindObject)
	if k, _ := t.v.KindOf(anchor); k != cartridge.KindObject {
		msg.ImageEntityType = string(k)
	}
	return msg
}

func (t *turn) npcAnchor(npcID, locID string) string {
	loc, ok := t.game.Location(locID)
	if !ok {
		return ""
	}
	for _, id := range loc.Objects {
		if o, ok := t.game.Object(id); ok && slices.Contains(o.NearbyNPCs, npcID) {
			return id
		}
	}
	return ""
}

// alreadyThere varies its wording by turn so repeats read less mechanically.
// A cartridge override is used as is.
func (t *turn) alreadyThere(name string) effect.Effect {
	if custom, ok := t.game.SystemMessages[cartridge.MsgAlreadyThere]; ok && custom != "" {
		return effect.Narrate(cartridge.Fill(custom, "name", name))
	}
	text := narration.Variant(uint64(t.ps().TurnCount), alreadyThere...)
	return effect.Narrate(cartridge.Fill(text, "name", name))
}
