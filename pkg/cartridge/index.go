package cartridge

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/noir-engine/pkg/effect"
)

// ZoneStorageSuffix is appended to a location id to form the id of that
// location's zone storage, where dropped items land.
const ZoneStorageSuffix = "__storage"

// BuildError collects every problem found while indexing a cartridge.
type BuildError struct {
	GameID   string
	Problems []string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("cartridge %q: %d problem(s):\n  - %s",
		e.GameID, len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

func (e *BuildError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

type entry struct {
	kind     Kind
	parent   string
	location string
}

// index is the arena over every entity in the cartridge. Parent and child
// links are ids; the Game maps own the entities.
type index struct {
	entries  map[string]entry
	children map[string][]string
	sorted   []string
}

// Build validates the cartridge and indexes its entity graph. It must be
// called once before the game is used; LoadFile does so automatically.
func (g *Game) Build() error {
	berr := &BuildError{GameID: g.ID}
	idx := &index{
		entries:  make(map[string]entry),
		children: make(map[string][]string),
	}
	switch g.Rating {
	case "", RatingG, RatingPG, RatingPG13, RatingR:
	default:
		berr.add("unknown rating %q", g.Rating)
	}

	claim := func(id string, k Kind) {
		if prev, ok := idx.entries[id]; ok {
			berr.add("id %q is used by both a %s and a %s", id, prev.kind, k)
			return
		}
		idx.entries[id] = entry{kind: k}
	}
	for id, o := range g.Objects {
		if o.ID == "" {
			o.ID = id
		} else if o.ID != id {
			berr.add("object key %q does not match id %q", id, o.ID)
		}
		claim(id, KindObject)
	}
	for id, it := range g.Items {
		if it.ID == "" {
			it.ID = id
		} else if it.ID != id {
			berr.add("item key %q does not match id %q", id, it.ID)
		}
		claim(id, KindItem)
	}
	for id, n := range g.NPCs {
		if n.ID == "" {
			n.ID = id
		} else if n.ID != id {
			berr.add("npc key %q does not match id %q", id, n.ID)
		}
		claim(id, KindNPC)
	}
	for id, l := range g.Locations {
		if l.ID == "" {
			l.ID = id
		}
		if _, ok := idx.entries[id]; ok {
			berr.add("location id %q collides with an entity id", id)
		}
		if l.SpatialMode == "" {
			l.SpatialMode = Compact
		} else if l.SpatialMode != Compact && l.SpatialMode != Sprawling {
			berr.add("location %q: unknown spatial mode %q", id, l.SpatialMode)
		}
	}
	for id, p := range g.Portals {
		if p.ID == "" {
			p.ID = id
		}
		if _, ok := g.Locations[p.From]; !ok {
			berr.add("portal %q: unknown from location %q", id, p.From)
		}
		if _, ok := g.Locations[p.To]; !ok {
			berr.add("portal %q: unknown to location %q", id, p.To)
		}
	}

	if _, ok := g.Locations[g.StartLocationID]; !ok {
		berr.add("start location %q does not exist", g.StartLocationID)
	}

	placed := make(map[string]string)
	place := func(id, parent, location string, want ...Kind) {
		e, ok := idx.entries[id]
		if !ok {
			berr.add("%s references unknown id %q", describeOwner(parent, location), id)
			return
		}
		if !slices.Contains(want, e.kind) {
			berr.add("%s lists %q which is a %s", describeOwner(parent, location), id, e.kind)
			return
		}
		if prev, ok := placed[id]; ok {
			berr.add("%q is placed under both %s and %s", id, prev, describeOwner(parent, location))
			return
		}
		placed[id] = describeOwner(parent, location)
		e.parent = parent
		e.location = location
		idx.entries[id] = e
		if parent != "" {
			idx.children[parent] = append(idx.children[parent], id)
		}
	}

	var walk func(objectID, location string, path []string)
	walk = func(objectID, location string, path []string) {
		if slices.Contains(path, objectID) {
			berr.add("object %q contains itself via %s", objectID, strings.Join(path, " > "))
			return
		}
		o, ok := g.Objects[objectID]
		if !ok {
			return
		}
		path = append(path, objectID)
		for _, child := range o.Children.Objects {
			place(child, objectID, location, KindObject)
			walk(child, location, path)
		}
		for _, child := range o.Children.Items {
			place(child, objectID, location, KindItem)
		}
	}

	for _, locID := range sortedKeys(g.Locations) {
		l := g.Locations[locID]
		for _, id := range l.Objects {
			place(id, "", locID, KindObject)
			walk(id, locID, nil)
		}
		for _, id := range l.Items {
			place(id, "", locID, KindItem)
		}
		for _, id := range l.NPCs {
			place(id, "", locID, KindNPC)
		}
	}
	for _, id := range g.StartInventory {
		place(id, effect.InventoryContainer, "", KindItem)
	}

	for id, o := range g.Objects {
		if o.ParentID != "" && idx.entries[id].parent != o.ParentID {
			berr.add("object %q: parentId %q is not the container that lists it", id, o.ParentID)
		}
		checkObjectState(berr, o)
		for _, nid := range o.NearbyNPCs {
			if _, ok := g.NPCs[nid]; !ok {
				berr.add("object %q: unknown nearby npc %q", id, nid)
			}
		}
		checkHandlers(berr, "object "+id, o.Handlers)
		for sid, sd := range o.States {
			checkHandlers(berr, fmt.Sprintf("object %s state %s", id, sid), sd.Handlers)
		}
	}
	for id, it := range g.Items {
		if it.ParentID != "" && idx.entries[id].parent != it.ParentID {
			berr.add("item %q: parentId %q is not the container that lists it", id, it.ParentID)
		}
		for other, h := range it.Combine {
			if _, ok := g.Items[other]; !ok {
				berr.add("item %q: onCombine references unknown item %q", id, other)
			}
			checkHandlers(berr, "item "+id+" combine", map[string]Handler{other: h})
		}
		checkHandlers(berr, "item "+id, it.Handlers)
		for sid, sd := range it.States {
			checkHandlers(berr, fmt.Sprintf("item %s state %s", id, sid), sd.Handlers)
		}
	}
	for id, n := range g.NPCs {
		checkHandlers(berr, "npc "+id, n.Handlers)
	}
	for _, ch := range g.Chapters {
		for _, step := range ch.HappyPath {
			for _, hint := range step.ConditionalHints {
				checkConditions(berr, fmt.Sprintf("chapter %s step %s", ch.ID, step.ID), hint.Conditions)
			}
		}
	}

	if len(berr.Problems) > 0 {
		slices.Sort(berr.Problems)
		return berr
	}

	idx.sorted = sortedKeys(idx.entries)
	g.index = idx
	return nil
}

func checkObjectState(berr *BuildError, o *GameObject) {
	if o.State.IsLocked && !o.Caps.Lockable {
		berr.add("object %q starts locked but is not lockable", o.ID)
	}
	if o.State.IsOpen && !o.Caps.Openable {
		berr.add("object %q starts open but is not openable", o.ID)
	}
	if o.Caps.Inputtable && o.Input == nil {
		berr.add("object %q is inputtable but has no input definition", o.ID)
	}
	if o.Input != nil && o.Input.Validation == "" {
		berr.add("object %q: input has no validation phrase", o.ID)
	}
}

func checkHandlers(berr *BuildError, owner string, handlers map[string]Handler) {
	for verb, h := range handlers {
		for _, def := range h.Defs() {
			checkConditions(berr, owner+" "+verb, def.Conditions)
		}
	}
}

func checkConditions(berr *BuildError, owner string, conds []Condition) {
	for _, c := range conds {
		if !c.Type.Known() {
			berr.add("%s: unknown condition type %q", owner, c.Type)
		}
	}
}

func describeOwner(parent, location string) string {
	switch {
	case parent == effect.InventoryContainer:
		return "start inventory"
	case parent != "":
		return "object " + parent
	default:
		return "location " + location
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Built reports whether Build has succeeded.
func (g *Game) Built() bool { return g.index != nil }

// KindOf returns the kind of a cartridge entity.
func (g *Game) KindOf(id string) (Kind, bool) {
	e, ok := g.index.entries[id]
	return e.kind, ok
}

// BaseParent returns the authored parent of an entity: an object id,
// effect.InventoryContainer for starting inventory, or "" when the entity
// sits directly in a location or is unplaced.
func (g *Game) BaseParent(id string) string {
	return g.index.entries[id].parent
}

// HomeLocation returns the location an entity is authored in, or "".
func (g *Game) HomeLocation(id string) string {
	return g.index.entries[id].location
}

// BaseChildren returns the authored children of an object, objects first.
func (g *Game) BaseChildren(id string) []string {
	return g.index.children[id]
}

// EntityIDs returns every object, item and NPC id in sorted order.
func (g *Game) EntityIDs() []string {
	return g.index.sorted
}

// ZoneStorageID returns the zone storage container id for a location.
func ZoneStorageID(locationID string) string {
	return locationID + ZoneStorageSuffix
}

// ZoneStorageLocation reports whether id names a zone storage container and
// returns its location.
func (g *Game) ZoneStorageLocation(id string) (string, bool) {
	loc, ok := strings.CutSuffix(id, ZoneStorageSuffix)
	if !ok {
		return "", false
	}
	if _, exists := g.Locations[loc]; !exists {
		return "", false
	}
	return loc, true
}
