package resolve

import (
	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/state"
)

// Resolution is the outcome of resolving a target phrase.
type Resolution struct {
	Status Status
	ID     string
	Kind   cartridge.Kind
	// BlockerID is the locked container when Status is Blocked.
	BlockerID string
	// Input is the normalized phrase.
	Input string
}

// Found reports whether the phrase resolved to a reachable entity.
func (r Resolution) Found() bool { return r.Status == Found && r.ID != "" }

// FindEntity resolves a phrase to an entity. Reachable entities win over
// unreachable ones regardless of score, and entities inside the current
// focus win over the rest of the room. When nothing reachable matches, the
// best local match is classified so the caller can tell the player why, and
// a final global pass distinguishes undiscovered things from nonsense.
func FindEntity(v state.View, phrase string, opts Options) Resolution {
	input := Normalize(phrase)
	if input == "" {
		return Resolution{Status: NotFound}
	}
	base := opts.Accept
	allowed := func(id string) bool { return base == nil || base(id) }
	reachable := func(id string) bool { return allowed(id) && IsReachable(v, id) }

	if v.State.CurrentFocusID != "" && !opts.RequireFocus {
		focused := opts
		focused.RequireFocus = true
		focused.Accept = reachable
		if r := FindBestMatch(v, input, focused); r != nil {
			return Resolution{Status: Found, ID: r.ID, Kind: r.Category, Input: input}
		}
	}

	local := opts
	local.Global = false
	local.Accept = reachable
	if r := FindBestMatch(v, input, local); r != nil {
		return Resolution{Status: Found, ID: r.ID, Kind: r.Category, Input: input}
	}

	local.Accept = base
	if r := FindBestMatch(v, input, local); r != nil {
		status, blocker := Reach(v, r.ID)
		return Resolution{Status: status, ID: r.ID, Kind: r.Category, BlockerID: blocker, Input: input}
	}

	global := opts
	global.Global = true
	global.RequireFocus = false
	// An item the player has yet to find can be named in a carried-items
	// search too.
	global.SearchVisibleItems = opts.SearchVisibleItems || opts.SearchInventory
	global.Accept = func(id string) bool { return allowed(id) && !v.IsRemoved(id) }
	if r := FindBestMatch(v, input, global); r != nil && !v.IsRevealed(r.ID) {
		return Resolution{Status: Gated, ID: r.ID, Kind: r.Category, Input: input}
	}
	return Resolution{Status: NotFound, Input: input}
}

// FailureMessage renders the player-facing text for an unresolved phrase.
func FailureMessage(v state.View, r Resolution, verb string) string {
	g := v.Game
	switch r.Status {
	case Gated:
		return g.Say(cartridge.MsgGated, "target", r.Input)
	case Blocked:
		return g.Say(cartridge.MsgBlocked, "name", v.Name(r.ID), "container", v.Name(r.BlockerID))
	case OutOfReach:
		return g.Say(cartridge.MsgOutOfReach, "name", v.Name(r.ID))
	}
	if r.Input == "" {
		return g.Say(cartridge.MsgEmptyTarget, "verb", verb)
	}
	return g.Say(cartridge.MsgNotFound, "target", r.Input)
}

// TransitionNarration describes the player moving their attention from one
// object to another within a location. It returns "" when nothing changes.
func TransitionNarration(v state.View, from, to string) string {
	switch {
	case from == to:
		return ""
	case to == "":
		return v.Game.Say(cartridge.MsgStepBack, "name", v.Name(from))
	}
	return v.Game.Say(cartridge.MsgFocusMoved, "name", v.Name(to))
}
