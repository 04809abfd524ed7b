package cartridge

import "github.com/jwebster45206/noir-engine/pkg/effect"

// Kind is the category of an entity in the world graph.
type Kind string

const (
	KindObject Kind = "object"
	KindItem   Kind = "item"
	KindNPC    Kind = "npc"
)

// ObjectCapabilities declares what an object supports.
type ObjectCapabilities struct {
	Takable          bool `json:"takable,omitempty" yaml:"takable,omitempty"`
	Openable         bool `json:"openable,omitempty" yaml:"openable,omitempty"`
	Lockable         bool `json:"lockable,omitempty" yaml:"lockable,omitempty"`
	Breakable        bool `json:"breakable,omitempty" yaml:"breakable,omitempty"`
	Movable          bool `json:"movable,omitempty" yaml:"movable,omitempty"`
	Readable         bool `json:"readable,omitempty" yaml:"readable,omitempty"`
	Searchable       bool `json:"searchable,omitempty" yaml:"searchable,omitempty"`
	Usable           bool `json:"usable,omitempty" yaml:"usable,omitempty"`
	Climbable        bool `json:"climbable,omitempty" yaml:"climbable,omitempty"`
	Inputtable       bool `json:"inputtable,omitempty" yaml:"inputtable,omitempty"`
	IsCamera         bool `json:"isCamera,omitempty" yaml:"isCamera,omitempty"`
	IsPhotographable bool `json:"isPhotographable,omitempty" yaml:"isPhotographable,omitempty"`
}

// ItemCapabilities declares what an item supports.
type ItemCapabilities struct {
	Takable          bool `json:"takable,omitempty" yaml:"takable,omitempty"`
	Readable         bool `json:"readable,omitempty" yaml:"readable,omitempty"`
	Usable           bool `json:"usable,omitempty" yaml:"usable,omitempty"`
	Combinable       bool `json:"combinable,omitempty" yaml:"combinable,omitempty"`
	Consumable       bool `json:"consumable,omitempty" yaml:"consumable,omitempty"`
	IsCamera         bool `json:"isCamera,omitempty" yaml:"isCamera,omitempty"`
	IsPhotographable bool `json:"isPhotographable,omitempty" yaml:"isPhotographable,omitempty"`
}

// ObjectState is the mutable state of an object. Cartridges provide the
// initial values; players carry partial overrides.
type ObjectState struct {
	IsLocked       bool   `json:"isLocked,omitempty" yaml:"isLocked,omitempty"`
	IsOpen         bool   `json:"isOpen,omitempty" yaml:"isOpen,omitempty"`
	IsBroken       bool   `json:"isBroken,omitempty" yaml:"isBroken,omitempty"`
	IsPoweredOn    bool   `json:"isPoweredOn,omitempty" yaml:"isPoweredOn,omitempty"`
	IsMoved        bool   `json:"isMoved,omitempty" yaml:"isMoved,omitempty"`
	CurrentStateID string `json:"currentStateId,omitempty" yaml:"currentStateId,omitempty"`
}

type ItemState struct {
	ReadCount      int    `json:"readCount,omitempty" yaml:"readCount,omitempty"`
	CurrentStateID string `json:"currentStateId,omitempty" yaml:"currentStateId,omitempty"`
}

type NPCState struct {
	Stage            string `json:"stage,omitempty" yaml:"stage,omitempty"`
	Trust            int    `json:"trust,omitempty" yaml:"trust,omitempty"`
	Attitude         string `json:"attitude,omitempty" yaml:"attitude,omitempty"`
	InteractionCount int    `json:"interactionCount,omitempty" yaml:"interactionCount,omitempty"`
}

// Media is a state-keyed image set. Keys are state ids or the derived keys
// "broken", "open", "closed", "locked".
type Media struct {
	Image       string            `json:"image,omitempty" yaml:"image,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	States      map[string]string `json:"states,omitempty" yaml:"states,omitempty"`
}

// Resolve returns the image for the first key present in States, falling
// back to Image.
func (m Media) Resolve(keys ...string) string {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if url, ok := m.States[k]; ok {
			return url
		}
	}
	return m.Image
}

// Children lists the non-owning ids nested under an object.
type Children struct {
	Objects []string `json:"objects,omitempty" yaml:"objects,omitempty"`
	Items   []string `json:"items,omitempty" yaml:"items,omitempty"`
}

// Input describes a keypad or phrase puzzle attached to an object.
type Input struct {
	Type       string   `json:"type,omitempty" yaml:"type,omitempty"` // "phrase" or "keypad"
	Validation string   `json:"validation" yaml:"validation"`
	Hint       string   `json:"hint,omitempty" yaml:"hint,omitempty"`
	Success    *Outcome `json:"success,omitempty" yaml:"success,omitempty"`
	Fail       *Outcome `json:"fail,omitempty" yaml:"fail,omitempty"`
}

// StateDef replaces an entity's handler set while it is in a given state.
type StateDef struct {
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Handlers    map[string]Handler `json:"handlers,omitempty" yaml:"handlers,omitempty"`
}

// GameObject is a fixed or container-like thing in a location.
type GameObject struct {
	ID          string              `json:"id" yaml:"id"`
	Name        string              `json:"name" yaml:"name"`
	AltNames    []string            `json:"alternateNames,omitempty" yaml:"alternateNames,omitempty"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Caps        ObjectCapabilities  `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	State       ObjectState         `json:"state,omitempty" yaml:"state,omitempty"`
	Handlers    map[string]Handler  `json:"handlers,omitempty" yaml:"handlers,omitempty"`
	States      map[string]StateDef `json:"stateHandlers,omitempty" yaml:"stateHandlers,omitempty"`
	Children    Children            `json:"children,omitempty" yaml:"children,omitempty"`
	ParentID    string              `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Input       *Input              `json:"input,omitempty" yaml:"input,omitempty"`
	Personal    bool                `json:"personal,omitempty" yaml:"personal,omitempty"`
	Hidden      bool                `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Focusable   bool                `json:"focusable,omitempty" yaml:"focusable,omitempty"`
	EnterFlag   string              `json:"enterFlag,omitempty" yaml:"enterFlag,omitempty"`
	NearbyNPCs  []string            `json:"nearbyNpcs,omitempty" yaml:"nearbyNpcs,omitempty"`
	Media       Media               `json:"media,omitempty" yaml:"media,omitempty"`
}

// Item is a portable thing the player can carry.
type Item struct {
	ID          string              `json:"id" yaml:"id"`
	Name        string              `json:"name" yaml:"name"`
	AltNames    []string            `json:"alternateNames,omitempty" yaml:"alternateNames,omitempty"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Caps        ItemCapabilities    `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	State       ItemState           `json:"state,omitempty" yaml:"state,omitempty"`
	Handlers    map[string]Handler  `json:"handlers,omitempty" yaml:"handlers,omitempty"`
	States      map[string]StateDef `json:"stateHandlers,omitempty" yaml:"stateHandlers,omitempty"`
	Combine     map[string]Handler  `json:"onCombine,omitempty" yaml:"onCombine,omitempty"`
	ParentID    string              `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Hidden      bool                `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Media       Media               `json:"media,omitempty" yaml:"media,omitempty"`
}

// NPC is a character the player can talk to.
type NPC struct {
	ID                       string             `json:"id" yaml:"id"`
	Name                     string             `json:"name" yaml:"name"`
	AltNames                 []string           `json:"alternateNames,omitempty" yaml:"alternateNames,omitempty"`
	Description              string             `json:"description,omitempty" yaml:"description,omitempty"`
	Persona                  string             `json:"persona,omitempty" yaml:"persona,omitempty"`
	Topics                   []string           `json:"topics,omitempty" yaml:"topics,omitempty"`
	InitialState             NPCState           `json:"initialState,omitempty" yaml:"initialState,omitempty"`
	WelcomeMessage           string             `json:"welcomeMessage,omitempty" yaml:"welcomeMessage,omitempty"`
	StartConversationEffects effect.List        `json:"startConversationEffects,omitempty" yaml:"startConversationEffects,omitempty"`
	Handlers                 map[string]Handler `json:"handlers,omitempty" yaml:"handlers,omitempty"`
	Hidden                   bool               `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Media                    Media              `json:"media,omitempty" yaml:"media,omitempty"`
}
