// Package conditionals evaluates declarative cartridge conditions against
// player state.
package conditionals

import (
	"fmt"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
)

// StateView provides the minimal read access needed to evaluate conditions.
// state.View satisfies it.
type StateView interface {
	HasFlag(flag string) bool
	InInventory(id string) bool
	IsRevealed(id string) bool
	CurrentLocation() string
	StateValue(id, key string) (any, bool)
	KindOf(id string) (cartridge.Kind, bool)
	ObjectState(id string) cartridge.ObjectState
}

// Evaluate reports whether every condition holds. An empty list is true.
func Evaluate(conds []cartridge.Condition, v StateView) bool {
	for _, c := range conds {
		if !Check(c, v) {
			return false
		}
	}
	return true
}

// Check evaluates a single condition. Unknown condition types never hold.
func Check(c cartridge.Condition, v StateView) bool {
	switch c.Type {
	case cartridge.CondHasFlag:
		return v.HasFlag(c.Flag)
	case cartridge.CondNoFlag:
		return !v.HasFlag(c.Flag)
	case cartridge.CondHasItem:
		return v.InInventory(c.EntityID)
	case cartridge.CondNoItem:
		return !v.InInventory(c.EntityID)
	case cartridge.CondAtLocation:
		return v.CurrentLocation() == c.EntityID
	case cartridge.CondRevealed:
		return v.IsRevealed(c.EntityID)
	case cartridge.CondState:
		actual, ok := v.StateValue(c.EntityID, c.Key)
		if !ok {
			return false
		}
		return fmt.Sprint(actual) == fmt.Sprint(c.Value)
	default:
		return false
	}
}

// IsActionApplicable reports whether a state-changing verb is meaningful for
// the object's current state. It answers "is there something to do", not
// "would it succeed": for "unlock" it is true exactly when the object is
// locked, so false means it is already unlocked.
func IsActionApplicable(verb, id string, v StateView) bool {
	if k, ok := v.KindOf(id); !ok || k != cartridge.KindObject {
		return false
	}
	s := v.ObjectState(id)
	switch verb {
	case "unlock":
		return s.IsLocked
	case "lock":
		return !s.IsLocked
	case "open":
		return !s.IsOpen
	case "close":
		return s.IsOpen
	case "break":
		return !s.IsBroken
	case "move":
		return !s.IsMoved
	default:
		return false
	}
}
