package state

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/chat"
	"github.com/jwebster45206/noir-engine/pkg/effect"
)

// ErrUnhandledEffect is returned when the reducer meets an effect it has no
// case for. It signals a programming or configuration error.
var ErrUnhandledEffect = errors.New("unhandled effect")

// Reducer applies effects to player state. It is the only code that writes
// PlayerState.
type Reducer struct {
	game   *cartridge.Game
	logger *slog.Logger
}

// NewReducer creates a reducer for a built cartridge.
func NewReducer(g *cartridge.Game, logger *slog.Logger) *Reducer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reducer{game: g, logger: logger}
}

// Apply returns a new state with every effect applied in order, plus the
// messages to show. The input state is not modified. Applying a batch
// counts as one turn.
func (r *Reducer) Apply(ps *PlayerState, effects []effect.Effect) (*PlayerState, []chat.Message, error) {
	next := ps.Clone()
	var msgs []chat.Message
	for i, e := range effects {
		switch e := e.(type) {
		case effect.ShowMessage:
			msgs = append(msgs, r.render(next, e))
		case effect.SetFlag:
			next.Flags.set(e.Flag, e.Value)
		case effect.SetEntityState:
			r.setEntityState(next, e)
		case effect.AddToContainer:
			r.addToContainer(next, e.EntityID, e.ContainerID)
		case effect.RemoveItem:
			r.removeItem(next, e.ItemID)
		case effect.RevealObject:
			r.reveal(next, e.EntityID, e.RevealedBy)
		case effect.SetFocus:
			r.setFocus(next, e)
		case effect.MoveToLocation:
			if _, ok := r.game.Location(e.LocationID); !ok {
				r.logger.Warn("Ignoring move to unknown location", "location", e.LocationID)
				continue
			}
			next.CurrentLocationID = e.LocationID
			next.CurrentFocusID = ""
			next.FocusType = effect.FocusNone
			next.ActiveDeviceID = ""
			next.ConversationNPCID = ""
			next.InteractionID = ""
		case effect.StartConversation:
			next.ConversationNPCID = e.NPCID
		case effect.EndConversation:
			next.ConversationNPCID = ""
		case effect.EndInteraction:
			next.InteractionID = ""
		case effect.IncrementNPCInteraction:
			if next.NPCInteractions == nil {
				next.NPCInteractions = make(map[string]int)
			}
			next.NPCInteractions[e.NPCID]++
		case effect.CreateDynamicItem:
			r.createDynamicItem(next, e)
		case effect.ClearDeviceFocus:
			next.ActiveDeviceID = ""
		default:
			return nil, nil, fmt.Errorf("effect %d (%T): %w", i, e, ErrUnhandledEffect)
		}
	}
	next.TurnCount++
	next.UpdatedAt = time.Now()
	return next, msgs, nil
}

// render converts a message effect, resolving deferred media against the
// state as it stands after every preceding effect.
func (r *Reducer) render(ps *PlayerState, e effect.ShowMessage) chat.Message {
	m := chat.Message{
		Speaker:          string(e.Speaker),
		Text:             e.Text,
		MediaURL:         e.MediaURL,
		MediaType:        string(e.MediaType),
		MediaDescription: e.MediaHint,
	}
	if m.Speaker == "" {
		m.Speaker = chat.SpeakerNarrator
	}
	if m.MediaURL == "" && e.ImageID != "" {
		url, desc := NewView(r.game, ps).MediaFor(e.ImageID, e.ImageEntityType)
		if url != "" {
			m.MediaURL = url
			m.MediaType = string(effect.MediaImage)
			if m.MediaDescription == "" {
				m.MediaDescription = desc
			}
		}
	}
	return m
}

func (r *Reducer) setEntityState(ps *PlayerState, e effect.SetEntityState) {
	k, ok := NewView(r.game, ps).KindOf(e.EntityID)
	if !ok {
		r.logger.Warn("Ignoring state change for unknown entity", "entity", e.EntityID)
		return
	}
	var target *map[string]effect.EntityPatch
	switch k {
	case cartridge.KindObject:
		target = &ps.ObjectStates
	case cartridge.KindItem:
		target = &ps.ItemStates
	case cartridge.KindNPC:
		target = &ps.NPCStates
	}
	if *target == nil {
		*target = make(map[string]effect.EntityPatch)
	}
	(*target)[e.EntityID] = mergePatch((*target)[e.EntityID], e.Patch)
}

func mergePatch(base, p effect.EntityPatch) effect.EntityPatch {
	if p.IsOpen != nil {
		base.IsOpen = p.IsOpen
	}
	if p.IsLocked != nil {
		base.IsLocked = p.IsLocked
	}
	if p.IsBroken != nil {
		base.IsBroken = p.IsBroken
	}
	if p.IsPoweredOn != nil {
		base.IsPoweredOn = p.IsPoweredOn
	}
	if p.IsMoved != nil {
		base.IsMoved = p.IsMoved
	}
	if p.CurrentStateID != nil {
		base.CurrentStateID = p.CurrentStateID
	}
	if p.ReadCount != nil {
		base.ReadCount = p.ReadCount
	}
	if p.Stage != nil {
		base.Stage = p.Stage
	}
	if p.Trust != nil {
		base.Trust = p.Trust
	}
	if p.Attitude != nil {
		base.Attitude = p.Attitude
	}
	return base
}

func (r *Reducer) entities(ps *PlayerState) map[string]EntityOverride {
	if ps.World.Entities == nil {
		ps.World.Entities = make(map[string]EntityOverride)
	}
	return ps.World.Entities
}

func (r *Reducer) validContainer(id string) bool {
	if id == effect.InventoryContainer {
		return true
	}
	if _, ok := r.game.ZoneStorageLocation(id); ok {
		return true
	}
	k, ok := r.game.KindOf(id)
	return ok && k == cartridge.KindObject
}

func (r *Reducer) addToContainer(ps *PlayerState, id, container string) {
	v := NewView(r.game, ps)
	k, ok := v.KindOf(id)
	if !ok || k == cartridge.KindNPC {
		r.logger.Warn("Ignoring move of unknown or immovable entity", "entity", id, "container", container)
		return
	}
	if !r.validContainer(container) {
		r.logger.Warn("Ignoring move into unknown container", "entity", id, "container", container)
		return
	}

	ps.Inventory = slices.DeleteFunc(ps.Inventory, func(s string) bool { return s == id })
	if container == effect.InventoryContainer {
		ps.Inventory = append(ps.Inventory, id)
	}

	ents := r.entities(ps)
	o := ents[id]
	parent := container
	o.Parent = &parent
	o.Removed = false
	if !v.IsRevealed(id) && o.RevealedBy == "" {
		o.RevealedBy = container
	}
	ents[id] = o
}

func (r *Reducer) removeItem(ps *PlayerState, id string) {
	ps.Inventory = slices.DeleteFunc(ps.Inventory, func(s string) bool { return s == id })
	ents := r.entities(ps)
	o := ents[id]
	o.Removed = true
	o.Parent = nil
	ents[id] = o
	if ps.CurrentFocusID == id {
		ps.CurrentFocusID = ""
		ps.FocusType = effect.FocusNone
	}
}

func (r *Reducer) reveal(ps *PlayerState, id, by string) {
	if _, ok := NewView(r.game, ps).KindOf(id); !ok {
		r.logger.Warn("Ignoring reveal of unknown entity", "entity", id)
		return
	}
	if by == "" {
		by = "effect"
	}
	ents := r.entities(ps)
	o := ents[id]
	o.RevealedBy = by
	ents[id] = o
}

func (r *Reducer) setFocus(ps *PlayerState, e effect.SetFocus) {
	if e.FocusType == effect.FocusDevice {
		ps.ActiveDeviceID = e.FocusID
		return
	}
	if e.FocusID == "" || e.FocusType == effect.FocusNone {
		ps.CurrentFocusID = ""
		ps.FocusType = effect.FocusNone
		ps.InteractionID = ""
		return
	}
	ps.CurrentFocusID = e.FocusID
	ps.FocusType = effect.FocusObject
	if o, ok := r.game.Object(e.FocusID); ok && o.Caps.Inputtable {
		ps.InteractionID = e.FocusID
	} else {
		ps.InteractionID = ""
	}
}

func (r *Reducer) createDynamicItem(ps *PlayerState, e effect.CreateDynamicItem) {
	if _, exists := r.game.KindOf(e.ItemID); exists {
		r.logger.Error("Dynamic item id collides with cartridge entity", "item", e.ItemID)
		return
	}
	if ps.World.DynamicItems == nil {
		ps.World.DynamicItems = make(map[string]DynamicItem)
	}
	ps.World.DynamicItems[e.ItemID] = DynamicItem{
		ID:          e.ItemID,
		Name:        e.Name,
		Description: e.Description,
		SourceID:    e.SourceID,
	}
	container := e.ContainerID
	if container == "" {
		container = effect.InventoryContainer
	}
	r.addToContainer(ps, e.ItemID, container)
}
