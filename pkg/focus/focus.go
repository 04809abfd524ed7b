// Package focus decides where the player's attention goes after an action.
// Apart from walking over to something, action handlers never set focus
// themselves; they ask the Manager.
//
// A raised device is a separate axis from object focus: the player keeps
// standing where they are while holding the camera up.
package focus

import (
	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/state"
)

// Transition says how a successful action moves focus.
type Transition int

const (
	// Keep leaves focus where it is.
	Keep Transition = iota
	// Target focuses the target itself, or its nearest focusable ancestor.
	Target
	// Ancestor focuses the nearest focusable container of the target, so
	// taking something from a desk leaves the player at the desk.
	Ancestor
)

// Policy maps verbs to transitions. Verbs not listed keep focus.
type Policy map[command.Verb]Transition

// DefaultPolicy is the transition table used by the engine.
var DefaultPolicy = Policy{
	command.Take:    Ancestor,
	command.Open:    Target,
	command.Close:   Target,
	command.Search:  Target,
	command.Break:   Target,
	command.Move:    Target,
	command.Climb:   Target,
	command.Examine: Target,
	command.Use:     Target,
	command.Smell:   Target,
	command.Read:    Target,

	command.Drop:      Keep,
	command.Inventory: Keep,
	command.Combine:   Keep,
	command.Talk:      Keep,
	command.Look:      Keep,
}

// Request describes a finished action.
type Request struct {
	Verb      command.Verb
	TargetID  string
	Succeeded bool
}

// Manager applies a Policy.
type Manager struct {
	policy Policy
}

// NewManager returns a Manager for policy, or DefaultPolicy when nil.
func NewManager(policy Policy) *Manager {
	if policy == nil {
		policy = DefaultPolicy
	}
	return &Manager{policy: policy}
}

// Next returns the focus change for a finished action, or nil. The view is
// the state before the action's effects are applied.
func (m *Manager) Next(v state.View, req Request) effect.Effect {
	if !req.Succeeded || req.TargetID == "" {
		return nil
	}
	if k, ok := v.KindOf(req.TargetID); !ok || k == cartridge.KindNPC {
		return nil
	}
	if v.InInventory(req.TargetID) || v.IsPersonal(req.TargetID) {
		return nil
	}
	current := v.State.CurrentFocusID
	if current != "" && (req.TargetID == current || v.IsDescendantOf(req.TargetID, current)) {
		return nil
	}

	var next string
	switch m.policy[req.Verb] {
	case Target:
		next = nearestFocusable(v, req.TargetID, true)
	case Ancestor:
		next = nearestFocusable(v, req.TargetID, false)
	default:
		return nil
	}
	if next == "" || next == current {
		return nil
	}
	return effect.SetFocus{FocusID: next, FocusType: effect.FocusObject}
}

// nearestFocusable walks up from id. Objects flagged focusable qualify, and
// so do top-level objects, which are always somewhere the player can stand.
func nearestFocusable(v state.View, id string, includeSelf bool) string {
	chain := v.Ancestors(id)
	if includeSelf {
		chain = append([]string{id}, chain...)
	}
	for _, c := range chain {
		if Focusable(v, c) {
			return c
		}
	}
	return ""
}

// Focusable reports whether the player can position themselves at id.
func Focusable(v state.View, id string) bool {
	o, ok := v.Game.Object(id)
	if !ok || o.Personal {
		return false
	}
	return o.Focusable || v.ParentOf(id) == ""
}

// Anchor returns where the player stands to interact with id: id itself
// when focusable, else its nearest focusable container, else "".
func Anchor(v state.View, id string) string {
	return nearestFocusable(v, id, true)
}

// RaiseDevice returns the change that brings a carried device to the ready,
// or nil when it is already raised or not at hand. Object focus is left
// alone.
func (m *Manager) RaiseDevice(v state.View, deviceID string) effect.Effect {
	if !v.InInventory(deviceID) && !v.IsPersonal(deviceID) {
		return nil
	}
	if v.State.ActiveDeviceID == deviceID {
		return nil
	}
	return effect.SetFocus{FocusID: deviceID, FocusType: effect.FocusDevice}
}
