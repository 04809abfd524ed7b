// Package effect defines the closed set of atomic instructions emitted by the
// command pipeline. Effects describe state changes and messages; they are
// applied, in order, by the state reducer.
package effect

// Type is the wire tag of an effect.
type Type string

const (
	TypeShowMessage             Type = "SHOW_MESSAGE"
	TypeSetFlag                 Type = "SET_FLAG"
	TypeSetEntityState          Type = "SET_ENTITY_STATE"
	TypeAddToContainer          Type = "ADD_TO_CONTAINER"
	TypeRemoveItem              Type = "REMOVE_ITEM"
	TypeRevealObject            Type = "REVEAL_OBJECT"
	TypeSetFocus                Type = "SET_FOCUS"
	TypeMoveToLocation          Type = "MOVE_TO_LOCATION"
	TypeStartConversation       Type = "START_CONVERSATION"
	TypeEndConversation         Type = "END_CONVERSATION"
	TypeEndInteraction          Type = "END_INTERACTION"
	TypeIncrementNPCInteraction Type = "INCREMENT_NPC_INTERACTION"
	TypeCreateDynamicItem       Type = "CREATE_DYNAMIC_ITEM"
	TypeClearDeviceFocus        Type = "CLEAR_DEVICE_FOCUS"
)

// InventoryContainer is the pseudo-container id for the player's inventory.
const InventoryContainer = "inventory"

// Effect is one of the concrete effect structs in this package. The marker
// method keeps the set closed.
type Effect interface {
	Type() Type
	isEffect()
}

// Speaker identifies who a message is attributed to.
type Speaker string

const (
	SpeakerNarrator Speaker = "narrator"
	SpeakerSystem   Speaker = "system"
	SpeakerPlayer   Speaker = "player"
)

// MediaType tells the renderer how to present a message's media.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// ShowMessage displays text to the player. Either MediaURL is set, or the
// renderer looks up an image by ImageID/ImageEntityType once all preceding
// state changes are applied.
type ShowMessage struct {
	Speaker         Speaker
	Text            string
	MediaURL        string
	MediaType       MediaType
	MediaHint       string
	ImageID         string
	ImageEntityType string
}

// SetFlag sets or clears a story flag.
type SetFlag struct {
	Flag  string
	Value bool
}

// EntityPatch is a partial entity state update. Nil fields are untouched.
type EntityPatch struct {
	IsOpen         *bool   `json:"isOpen,omitempty" yaml:"isOpen,omitempty"`
	IsLocked       *bool   `json:"isLocked,omitempty" yaml:"isLocked,omitempty"`
	IsBroken       *bool   `json:"isBroken,omitempty" yaml:"isBroken,omitempty"`
	IsPoweredOn    *bool   `json:"isPoweredOn,omitempty" yaml:"isPoweredOn,omitempty"`
	IsMoved        *bool   `json:"isMoved,omitempty" yaml:"isMoved,omitempty"`
	CurrentStateID *string `json:"currentStateId,omitempty" yaml:"currentStateId,omitempty"`
	ReadCount      *int    `json:"readCount,omitempty" yaml:"readCount,omitempty"`
	Stage          *string `json:"stage,omitempty" yaml:"stage,omitempty"`
	Trust          *int    `json:"trust,omitempty" yaml:"trust,omitempty"`
	Attitude       *string `json:"attitude,omitempty" yaml:"attitude,omitempty"`
}

// SetEntityState patches the runtime state of an object, item or NPC.
type SetEntityState struct {
	EntityID string
	Patch    EntityPatch
}

// AddToContainer moves an entity under a new parent. ContainerID may be an
// object id, a zone storage id, or InventoryContainer.
type AddToContainer struct {
	EntityID    string
	ContainerID string
}

// RemoveItem takes an item out of the inventory and the world.
type RemoveItem struct {
	ItemID string
}

// RevealObject marks a hidden entity as discovered.
type RevealObject struct {
	EntityID   string
	RevealedBy string
}

// FocusType is the kind of thing the player is focused on.
type FocusType string

const (
	FocusNone   FocusType = "none"
	FocusObject FocusType = "object"
	FocusDevice FocusType = "device"
)

// SetFocus changes the player's focus. An empty FocusID clears it.
type SetFocus struct {
	FocusID   string
	FocusType FocusType
}

// MoveToLocation moves the player to another location and clears focus.
type MoveToLocation struct {
	LocationID string
}

type StartConversation struct {
	NPCID string
}

type EndConversation struct{}

// EndInteraction leaves an input/puzzle interaction.
type EndInteraction struct{}

type IncrementNPCInteraction struct {
	NPCID string
}

// CreateDynamicItem spawns an item that is not part of the cartridge, such
// as a photograph.
type CreateDynamicItem struct {
	ItemID      string
	Name        string
	Description string
	ContainerID string
	SourceID    string
}

type ClearDeviceFocus struct{}

func (ShowMessage) Type() Type             { return TypeShowMessage }
func (SetFlag) Type() Type                 { return TypeSetFlag }
func (SetEntityState) Type() Type          { return TypeSetEntityState }
func (AddToContainer) Type() Type          { return TypeAddToContainer }
func (RemoveItem) Type() Type              { return TypeRemoveItem }
func (RevealObject) Type() Type            { return TypeRevealObject }
func (SetFocus) Type() Type                { return TypeSetFocus }
func (MoveToLocation) Type() Type          { return TypeMoveToLocation }
func (StartConversation) Type() Type       { return TypeStartConversation }
func (EndConversation) Type() Type         { return TypeEndConversation }
func (EndInteraction) Type() Type          { return TypeEndInteraction }
func (IncrementNPCInteraction) Type() Type { return TypeIncrementNPCInteraction }
func (CreateDynamicItem) Type() Type       { return TypeCreateDynamicItem }
func (ClearDeviceFocus) Type() Type        { return TypeClearDeviceFocus }

func (ShowMessage) isEffect()             {}
func (SetFlag) isEffect()                 {}
func (SetEntityState) isEffect()          {}
func (AddToContainer) isEffect()          {}
func (RemoveItem) isEffect()              {}
func (RevealObject) isEffect()            {}
func (SetFocus) isEffect()                {}
func (MoveToLocation) isEffect()          {}
func (StartConversation) isEffect()       {}
func (EndConversation) isEffect()         {}
func (EndInteraction) isEffect()          {}
func (IncrementNPCInteraction) isEffect() {}
func (CreateDynamicItem) isEffect()       {}
func (ClearDeviceFocus) isEffect()        {}

// Narrate is shorthand for a narrator message.
func Narrate(text string) ShowMessage {
	return ShowMessage{Speaker: SpeakerNarrator, Text: text}
}

// System is shorthand for a system message.
func System(text string) ShowMessage {
	return ShowMessage{Speaker: SpeakerSystem, Text: text}
}

// IsMessage reports whether e is a SHOW_MESSAGE effect.
func IsMessage(e Effect) bool {
	_, ok := e.(ShowMessage)
	return ok
}

func Bool(b bool) *bool       { return &b }
func String(s string) *string { return &s }
func Int(i int) *int          { return &i }
