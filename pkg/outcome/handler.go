// Package outcome resolves verb handlers on entities and turns their
// outcomes into ordered effect lists.
package outcome

import (
	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/conditionals"
	"github.com/jwebster45206/noir-engine/pkg/state"
)

// Class distinguishes an entity that handles a verb from one that merely
// supports it and one that does not support it at all.
type Class int

const (
	HasHandler Class = iota
	CapabilityOnly
	NoCapability
)

func (c Class) String() string {
	switch c {
	case HasHandler:
		return "has_handler"
	case CapabilityOnly:
		return "capability_only"
	}
	return "no_capability"
}

// handlers returns the handler set active for the entity. A handler map on
// the entity's current named state replaces the base handler for any verb
// it defines.
func handlers(v state.View, id, verb string) cartridge.Handler {
	if o, ok := v.Game.Object(id); ok {
		if sd, ok := o.States[v.ObjectState(id).CurrentStateID]; ok {
			if h, ok := sd.Handlers[verb]; ok {
				return h
			}
		}
		return o.Handlers[verb]
	}
	if it, ok := v.Game.Item(id); ok {
		if sd, ok := it.States[v.ItemState(id).CurrentStateID]; ok {
			if h, ok := sd.Handlers[verb]; ok {
				return h
			}
		}
		return it.Handlers[verb]
	}
	if n, ok := v.Game.NPC(id); ok {
		return n.Handlers[verb]
	}
	return cartridge.Handler{}
}

// Resolve picks the definition to run from a handler. A single definition
// is always returned, its conditions deciding success or fail later. A
// conditional chain returns the first definition whose conditions hold, or
// nil.
func Resolve(h cartridge.Handler, v state.View) *cartridge.HandlerDef {
	defs := h.Defs()
	if len(defs) == 0 {
		return nil
	}
	if !h.IsConditional() {
		return &defs[0]
	}
	for i := range defs {
		if conditionals.Evaluate(defs[i].Conditions, v) {
			return &defs[i]
		}
	}
	return nil
}

// EffectiveHandler returns the definition that handles verb on the entity,
// or nil.
func EffectiveHandler(v state.View, id, verb string) *cartridge.HandlerDef {
	return Resolve(handlers(v, id, verb), v)
}

// CombineHandler returns the definition for combining item with other,
// taken from item's own combine table.
func CombineHandler(v state.View, item, other string) *cartridge.HandlerDef {
	it, ok := v.Game.Item(item)
	if !ok {
		return nil
	}
	return Resolve(it.Combine[other], v)
}

// Classify reports how an entity relates to a verb, returning the
// definition when it has one.
func Classify(v state.View, id, verb string) (Class, *cartridge.HandlerDef) {
	if def := EffectiveHandler(v, id, verb); def != nil {
		return HasHandler, def
	}
	if HasCapability(v, id, verb) {
		return CapabilityOnly, nil
	}
	return NoCapability, nil
}

// HasCapability reports whether the entity's kind-specific capabilities
// support verb. Verbs that apply to anything, such as examine, are always
// supported.
func HasCapability(v state.View, id, verb string) bool {
	switch verb {
	case "examine", "look", "smell":
		return v.Exists(id)
	}
	if o, ok := v.Game.Object(id); ok {
		c := o.Caps
		switch verb {
		case "take":
			return c.Takable
		case "open", "close":
			return c.Openable
		case "lock", "unlock":
			return c.Lockable
		case "break":
			return c.Breakable
		case "move":
			return c.Movable
		case "read":
			return c.Readable
		case "search":
			return c.Searchable
		case "use":
			return c.Usable
		case "climb":
			return c.Climbable
		case "password":
			return c.Inputtable
		}
		return false
	}
	if it, ok := v.Game.Item(id); ok {
		c := it.Caps
		switch verb {
		case "take", "drop":
			return c.Takable
		case "read":
			return c.Readable
		case "use":
			return c.Usable || c.IsCamera
		case "combine":
			return c.Combinable
		}
		return false
	}
	if _, ok := v.State.World.DynamicItems[id]; ok {
		return verb == "drop" || verb == "take"
	}
	if _, ok := v.Game.NPC(id); ok {
		return verb == "talk"
	}
	return false
}

// Evaluate selects the success or fail branch of a definition. The returned
// outcome is nil when the chosen branch is missing and the definition has no
// fallback text, which callers treat as a data error.
func Evaluate(def *cartridge.HandlerDef, v state.View) (out *cartridge.Outcome, isFail bool) {
	if def == nil {
		return nil, true
	}
	if conditionals.Evaluate(def.Conditions, v) {
		out = def.Success
	} else {
		out, isFail = def.Fail, true
	}
	if out == nil && def.Fallback != "" {
		out = &cartridge.Outcome{Message: def.Fallback}
	}
	return out, isFail
}
