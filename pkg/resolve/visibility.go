package resolve

import (
	"slices"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/state"
)

// Status classifies whether and how the player can reach an entity.
type Status int

const (
	// Found means the entity is reachable.
	Found Status = iota
	// NotFound means nothing by that name is here.
	NotFound
	// Gated means the entity exists but the player has not discovered it,
	// or it is sealed inside a closed container.
	Gated
	// Blocked means the entity is visible but a locked container keeps the
	// player's hands off it.
	Blocked
	// OutOfReach means the entity is in a sprawling location but outside the
	// player's current focus.
	OutOfReach
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Gated:
		return "gated"
	case Blocked:
		return "blocked"
	case OutOfReach:
		return "out_of_reach"
	}
	return "unknown"
}

// Reach classifies an entity's accessibility. When the status is Blocked,
// blocker names the locked container.
func Reach(v state.View, id string) (status Status, blocker string) {
	if !v.Exists(id) {
		return NotFound, ""
	}
	if v.InInventory(id) || v.IsPersonal(id) {
		return Found, ""
	}
	if !v.IsRevealed(id) {
		return Gated, ""
	}
	if v.LocationOf(id) != v.State.CurrentLocationID {
		return NotFound, ""
	}
	// Sealed or undiscovered containers hide their contents entirely; a
	// locked container that stands open only keeps hands off. The player can
	// always reach into a container they are inside.
	entered := enteredContainer(v, id)
	for _, a := range v.Ancestors(id) {
		if !v.IsRevealed(a) {
			return Gated, ""
		}
		if a == entered || v.ContainerAccessible(a) {
			continue
		}
		if s := v.ObjectState(a); !s.IsOpen {
			return Gated, ""
		}
		if blocker == "" {
			blocker = a
		}
	}
	if loc, ok := v.Game.Location(v.State.CurrentLocationID); ok && loc.IsSprawling() && !withinSprawlingReach(v, id) {
		return OutOfReach, ""
	}
	if blocker != "" {
		return Blocked, blocker
	}
	return Found, ""
}

// IsReachable reports whether the player can currently act on id.
func IsReachable(v state.View, id string) bool {
	s, _ := Reach(v, id)
	return s == Found
}

func withinSprawlingReach(v state.View, id string) bool {
	loc := v.State.CurrentLocationID
	focus := v.State.CurrentFocusID
	if focus != "" && (id == focus || v.IsDescendantOf(id, focus)) {
		return true
	}
	if v.InZoneStorage(id, loc) {
		return true
	}
	if enteredContainer(v, id) != "" {
		return true
	}
	if k, _ := v.KindOf(id); k == cartridge.KindNPC {
		return npcNearby(v, id)
	}
	return false
}

// enteredContainer returns the object id or its ancestor that the player has
// climbed into, if any.
func enteredContainer(v state.View, id string) string {
	for _, c := range append([]string{id}, v.Ancestors(id)...) {
		if o, ok := v.Game.Object(c); ok && o.EnterFlag != "" && v.HasFlag(o.EnterFlag) {
			return c
		}
	}
	return ""
}

// npcNearby reports whether an NPC can be addressed from the current focus.
// An NPC that no object claims as nearby can be addressed from anywhere.
func npcNearby(v state.View, npcID string) bool {
	if focus, ok := v.Game.Object(v.State.CurrentFocusID); ok && slices.Contains(focus.NearbyNPCs, npcID) {
		return true
	}
	loc, ok := v.Game.Location(v.State.CurrentLocationID)
	if !ok {
		return false
	}
	for _, id := range loc.Objects {
		if o, ok := v.Game.Object(id); ok && slices.Contains(o.NearbyNPCs, npcID) {
			return false
		}
	}
	return true
}
