package state

import (
	"encoding/json"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/effect"
)

// Flags is the player's story flag set. Handlers only read flags; the
// reducer is the only writer.
type Flags struct {
	m map[string]bool
}

// Has reports whether a flag is set.
func (f Flags) Has(flag string) bool {
	return f.m[flag]
}

// Keys returns the set flags in sorted order.
func (f Flags) Keys() []string {
	keys := make([]string, 0, len(f.m))
	for k, v := range f.m {
		if v {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

func (f *Flags) set(flag string, value bool) {
	if f.m == nil {
		f.m = make(map[string]bool)
	}
	if value {
		f.m[flag] = true
	} else {
		delete(f.m, flag)
	}
}

func (f Flags) MarshalJSON() ([]byte, error) {
	if f.m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f.m)
}

func (f *Flags) UnmarshalJSON(data []byte) error {
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	f.m = m
	return nil
}

// FlagsOf builds a flag set, for fixtures and tests.
func FlagsOf(flags ...string) Flags {
	var f Flags
	for _, fl := range flags {
		f.set(fl, true)
	}
	return f
}

// EntityOverride records how an entity has moved or changed visibility
// relative to its authored placement.
type EntityOverride struct {
	Parent     *string `json:"parent,omitempty"`
	RevealedBy string  `json:"revealed_by,omitempty"`
	Removed    bool    `json:"removed,omitempty"`
}

// DynamicItem is an item created at runtime, such as a photograph.
type DynamicItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SourceID    string `json:"source_id,omitempty"`
}

type World struct {
	Entities     map[string]EntityOverride `json:"entities,omitempty"`
	DynamicItems map[string]DynamicItem    `json:"dynamic_items,omitempty"`
}

// PlayerState is one player's progress through a cartridge.
type PlayerState struct {
	GameID      uuid.UUID `json:"game_id"`
	UserID      string    `json:"user_id,omitempty"`
	CartridgeID string    `json:"cartridge_id"`
	ChapterID   string    `json:"chapter_id,omitempty"`

	CurrentLocationID string           `json:"current_location_id"`
	CurrentFocusID    string           `json:"current_focus_id,omitempty"`
	FocusType         effect.FocusType `json:"focus_type"`
	ActiveDeviceID    string           `json:"active_device_id,omitempty"`
	ConversationNPCID string           `json:"conversation_npc_id,omitempty"`
	InteractionID     string           `json:"interaction_id,omitempty"`

	Inventory []string `json:"inventory"`
	Flags     Flags    `json:"flags"`

	ObjectStates    map[string]effect.EntityPatch `json:"object_states,omitempty"`
	ItemStates      map[string]effect.EntityPatch `json:"item_states,omitempty"`
	NPCStates       map[string]effect.EntityPatch `json:"npc_states,omitempty"`
	NPCInteractions map[string]int                `json:"npc_interactions,omitempty"`
	World           World                         `json:"world"`

	TurnCount int       `json:"turn_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates the starting state for a built cartridge.
func New(g *cartridge.Game) *PlayerState {
	now := time.Now()
	ps := &PlayerState{
		GameID:            uuid.New(),
		CartridgeID:       g.ID,
		CurrentLocationID: g.StartLocationID,
		FocusType:         effect.FocusNone,
		Inventory:         slices.Clone(g.StartInventory),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if ps.Inventory == nil {
		ps.Inventory = make([]string, 0)
	}
	if ch, ok := g.ChapterByID(""); ok {
		ps.ChapterID = ch.ID
	}
	return ps
}

// Clone returns a deep copy. Patch pointers are shared; they are never
// written through.
func (ps *PlayerState) Clone() *PlayerState {
	c := *ps
	c.Inventory = slices.Clone(ps.Inventory)
	c.Flags = Flags{m: maps.Clone(ps.Flags.m)}
	c.ObjectStates = maps.Clone(ps.ObjectStates)
	c.ItemStates = maps.Clone(ps.ItemStates)
	c.NPCStates = maps.Clone(ps.NPCStates)
	c.NPCInteractions = maps.Clone(ps.NPCInteractions)
	c.World = World{
		Entities:     maps.Clone(ps.World.Entities),
		DynamicItems: maps.Clone(ps.World.DynamicItems),
	}
	return &c
}

// HasDeviceFocus reports whether a device such as a camera is raised.
func (ps *PlayerState) HasDeviceFocus() bool {
	return ps.ActiveDeviceID != ""
}
