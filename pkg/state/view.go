package state

import (
	"slices"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/effect"
)

// View is a read-only pairing of a built cartridge with a player's state.
// All derived world facts (effective parent, reveal status, merged entity
// state) are answered here.
type View struct {
	Game  *cartridge.Game
	State *PlayerState
}

func NewView(g *cartridge.Game, ps *PlayerState) View {
	return View{Game: g, State: ps}
}

// KindOf returns the kind of a cartridge entity or dynamic item.
func (v View) KindOf(id string) (cartridge.Kind, bool) {
	if k, ok := v.Game.KindOf(id); ok {
		return k, true
	}
	if _, ok := v.State.World.DynamicItems[id]; ok {
		return cartridge.KindItem, true
	}
	return "", false
}

// Exists reports whether id names an entity that has not been removed.
func (v View) Exists(id string) bool {
	_, ok := v.KindOf(id)
	return ok && !v.IsRemoved(id)
}

func (v View) Name(id string) string {
	if d, ok := v.State.World.DynamicItems[id]; ok {
		return d.Name
	}
	return v.Game.Name(id)
}

func (v View) AltNames(id string) []string {
	return v.Game.AltNames(id)
}

// Description returns the entity's description, preferring the description
// of its current named state.
func (v View) Description(id string) string {
	if d, ok := v.State.World.DynamicItems[id]; ok {
		return d.Description
	}
	if o, ok := v.Game.Object(id); ok {
		if sd, ok := o.States[v.ObjectState(id).CurrentStateID]; ok && sd.Description != "" {
			return sd.Description
		}
		return o.Description
	}
	if it, ok := v.Game.Item(id); ok {
		if sd, ok := it.States[v.ItemState(id).CurrentStateID]; ok && sd.Description != "" {
			return sd.Description
		}
		return it.Description
	}
	if n, ok := v.Game.NPC(id); ok {
		return n.Description
	}
	return ""
}

func (v View) override(id string) (EntityOverride, bool) {
	o, ok := v.State.World.Entities[id]
	return o, ok
}

// IsRemoved reports whether an item has been consumed or destroyed.
func (v View) IsRemoved(id string) bool {
	o, _ := v.override(id)
	return o.Removed
}

// ParentOf returns the effective parent: an object id, a zone storage id,
// effect.InventoryContainer, or "" for location top level.
func (v View) ParentOf(id string) string {
	if o, ok := v.override(id); ok && o.Parent != nil {
		return *o.Parent
	}
	return v.Game.BaseParent(id)
}

// ChildrenOf returns the effective children of a container in a stable
// order: authored children first, then moved-in entities by id.
func (v View) ChildrenOf(containerID string) []string {
	var out []string
	for _, id := range v.Game.BaseChildren(containerID) {
		if v.ParentOf(id) == containerID && !v.IsRemoved(id) {
			out = append(out, id)
		}
	}
	var moved []string
	for id, o := range v.State.World.Entities {
		if o.Parent == nil || *o.Parent != containerID || o.Removed {
			continue
		}
		if v.Game.BaseParent(id) == containerID {
			continue
		}
		moved = append(moved, id)
	}
	slices.Sort(moved)
	return append(out, moved...)
}

// InInventory reports whether the player carries the item.
func (v View) InInventory(id string) bool {
	return slices.Contains(v.State.Inventory, id)
}

// IsPersonal reports whether the entity is equipment that is always with
// the player.
func (v View) IsPersonal(id string) bool {
	o, ok := v.Game.Object(id)
	return ok && o.Personal
}

// IsRevealed reports whether the player has discovered the entity.
func (v View) IsRevealed(id string) bool {
	if v.IsRemoved(id) {
		return false
	}
	if o, ok := v.override(id); ok && o.RevealedBy != "" {
		return true
	}
	if _, ok := v.State.World.DynamicItems[id]; ok {
		return true
	}
	if o, ok := v.Game.Object(id); ok {
		return !o.Hidden
	}
	if it, ok := v.Game.Item(id); ok {
		return !it.Hidden
	}
	if n, ok := v.Game.NPC(id); ok {
		return !n.Hidden
	}
	return false
}

// Ancestors returns the object containers of id, nearest first.
func (v View) Ancestors(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	for p := v.ParentOf(id); p != ""; p = v.ParentOf(p) {
		if k, ok := v.Game.KindOf(p); !ok || k != cartridge.KindObject || seen[p] {
			break
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// IsDescendantOf reports whether id is nested, at any depth, in ancestor.
func (v View) IsDescendantOf(id, ancestor string) bool {
	return ancestor != "" && slices.Contains(v.Ancestors(id), ancestor)
}

// LocationOf returns the location an entity is currently in. Carried items
// are wherever the player is; unplaced entities return "".
func (v View) LocationOf(id string) string {
	root := id
	if anc := v.Ancestors(id); len(anc) > 0 {
		root = anc[len(anc)-1]
	}
	switch p := v.ParentOf(root); {
	case p == effect.InventoryContainer:
		return v.State.CurrentLocationID
	case p != "":
		if loc, ok := v.Game.ZoneStorageLocation(p); ok {
			return loc
		}
		return ""
	}
	if v.IsPersonal(root) {
		return v.State.CurrentLocationID
	}
	return v.Game.HomeLocation(root)
}

// InZoneStorage reports whether id lies in the zone storage of loc.
func (v View) InZoneStorage(id, loc string) bool {
	return v.ParentOf(id) == cartridge.ZoneStorageID(loc)
}

// ObjectState merges the authored state with the player's overrides.
func (v View) ObjectState(id string) cartridge.ObjectState {
	var s cartridge.ObjectState
	if o, ok := v.Game.Object(id); ok {
		s = o.State
	}
	p := v.State.ObjectStates[id]
	if p.IsOpen != nil {
		s.IsOpen = *p.IsOpen
	}
	if p.IsLocked != nil {
		s.IsLocked = *p.IsLocked
	}
	if p.IsBroken != nil {
		s.IsBroken = *p.IsBroken
	}
	if p.IsPoweredOn != nil {
		s.IsPoweredOn = *p.IsPoweredOn
	}
	if p.IsMoved != nil {
		s.IsMoved = *p.IsMoved
	}
	if p.CurrentStateID != nil {
		s.CurrentStateID = *p.CurrentStateID
	}
	return s
}

func (v View) ItemState(id string) cartridge.ItemState {
	var s cartridge.ItemState
	if it, ok := v.Game.Item(id); ok {
		s = it.State
	}
	p := v.State.ItemStates[id]
	if p.ReadCount != nil {
		s.ReadCount = *p.ReadCount
	}
	if p.CurrentStateID != nil {
		s.CurrentStateID = *p.CurrentStateID
	}
	return s
}

func (v View) NPCState(id string) cartridge.NPCState {
	var s cartridge.NPCState
	if n, ok := v.Game.NPC(id); ok {
		s = n.InitialState
	}
	p := v.State.NPCStates[id]
	if p.Stage != nil {
		s.Stage = *p.Stage
	}
	if p.Trust != nil {
		s.Trust = *p.Trust
	}
	if p.Attitude != nil {
		s.Attitude = *p.Attitude
	}
	s.InteractionCount = v.State.NPCInteractions[id]
	return s
}

// CurrentStateID returns the named state of an object or item.
func (v View) CurrentStateID(id string) string {
	k, _ := v.KindOf(id)
	switch k {
	case cartridge.KindObject:
		return v.ObjectState(id).CurrentStateID
	case cartridge.KindItem:
		return v.ItemState(id).CurrentStateID
	}
	return ""
}

// StateValue returns a single state key for condition checks.
func (v View) StateValue(id, key string) (any, bool) {
	k, ok := v.KindOf(id)
	if !ok {
		return nil, false
	}
	switch k {
	case cartridge.KindObject:
		s := v.ObjectState(id)
		switch key {
		case "isOpen":
			return s.IsOpen, true
		case "isLocked":
			return s.IsLocked, true
		case "isBroken":
			return s.IsBroken, true
		case "isPoweredOn":
			return s.IsPoweredOn, true
		case "isMoved":
			return s.IsMoved, true
		case "currentStateId":
			return s.CurrentStateID, true
		}
	case cartridge.KindItem:
		s := v.ItemState(id)
		switch key {
		case "readCount":
			return s.ReadCount, true
		case "currentStateId":
			return s.CurrentStateID, true
		}
	case cartridge.KindNPC:
		s := v.NPCState(id)
		switch key {
		case "stage":
			return s.Stage, true
		case "trust":
			return s.Trust, true
		case "attitude":
			return s.Attitude, true
		case "interactionCount":
			return s.InteractionCount, true
		}
	}
	return nil, false
}

// ContainerAccessible reports whether the contents of an object can be
// reached: it is broken, or it is unlocked and either open or not openable.
func (v View) ContainerAccessible(id string) bool {
	o, ok := v.Game.Object(id)
	if !ok {
		return true
	}
	s := v.ObjectState(id)
	if s.IsBroken {
		return true
	}
	if s.IsLocked {
		return false
	}
	return s.IsOpen || !o.Caps.Openable
}

// MediaFor resolves the state-keyed image for an entity or location.
func (v View) MediaFor(id, entityType string) (string, string) {
	switch cartridge.Kind(entityType) {
	case cartridge.KindObject:
		o, ok := v.Game.Object(id)
		if !ok {
			return "", ""
		}
		s := v.ObjectState(id)
		keys := []string{s.CurrentStateID}
		if s.IsBroken {
			keys = append(keys, "broken")
		}
		if s.IsLocked {
			keys = append(keys, "locked")
		}
		if o.Caps.Openable {
			if s.IsOpen {
				keys = append(keys, "open")
			} else {
				keys = append(keys, "closed")
			}
		}
		return o.Media.Resolve(keys...), o.Media.Description
	case cartridge.KindItem:
		it, ok := v.Game.Item(id)
		if !ok {
			return "", ""
		}
		return it.Media.Resolve(v.ItemState(id).CurrentStateID), it.Media.Description
	case cartridge.KindNPC:
		n, ok := v.Game.NPC(id)
		if !ok {
			return "", ""
		}
		return n.Media.Resolve(v.NPCState(id).Stage), n.Media.Description
	}
	if l, ok := v.Game.Location(id); ok {
		return l.Image, ""
	}
	return "", ""
}

// HasFlag reports whether a story flag is set.
func (v View) HasFlag(flag string) bool {
	return v.State.Flags.Has(flag)
}

// CurrentLocation returns the player's location id.
func (v View) CurrentLocation() string {
	return v.State.CurrentLocationID
}
