package effect

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnknownType is returned when a tagged effect carries a type outside the
// closed set.
var ErrUnknownType = errors.New("unknown effect type")

// Wire is the flat, tagged form of an effect used in cartridges, storage and
// HTTP responses.
type Wire struct {
	Type            Type         `json:"type" yaml:"type"`
	Speaker         Speaker      `json:"speaker,omitempty" yaml:"speaker,omitempty"`
	Text            string       `json:"text,omitempty" yaml:"text,omitempty"`
	MediaURL        string       `json:"mediaUrl,omitempty" yaml:"mediaUrl,omitempty"`
	MediaType       MediaType    `json:"mediaType,omitempty" yaml:"mediaType,omitempty"`
	MediaHint       string       `json:"mediaHint,omitempty" yaml:"mediaHint,omitempty"`
	ImageID         string       `json:"imageId,omitempty" yaml:"imageId,omitempty"`
	ImageEntityType string       `json:"imageEntityType,omitempty" yaml:"imageEntityType,omitempty"`
	Flag            string       `json:"flag,omitempty" yaml:"flag,omitempty"`
	Value           *bool        `json:"value,omitempty" yaml:"value,omitempty"`
	EntityID        string       `json:"entityId,omitempty" yaml:"entityId,omitempty"`
	Patch           *EntityPatch `json:"patch,omitempty" yaml:"patch,omitempty"`
	ContainerID     string       `json:"containerId,omitempty" yaml:"containerId,omitempty"`
	ItemID          string       `json:"itemId,omitempty" yaml:"itemId,omitempty"`
	RevealedBy      string       `json:"revealedBy,omitempty" yaml:"revealedBy,omitempty"`
	FocusID         string       `json:"focusId,omitempty" yaml:"focusId,omitempty"`
	FocusType       FocusType    `json:"focusType,omitempty" yaml:"focusType,omitempty"`
	LocationID      string       `json:"locationId,omitempty" yaml:"locationId,omitempty"`
	NPCID           string       `json:"npcId,omitempty" yaml:"npcId,omitempty"`
	Name            string       `json:"name,omitempty" yaml:"name,omitempty"`
	Description     string       `json:"description,omitempty" yaml:"description,omitempty"`
	SourceID        string       `json:"sourceId,omitempty" yaml:"sourceId,omitempty"`
}

// Encode converts an effect into its wire form.
func Encode(e Effect) Wire {
	w := Wire{Type: e.Type()}
	switch v := e.(type) {
	case ShowMessage:
		w.Speaker = v.Speaker
		w.Text = v.Text
		w.MediaURL = v.MediaURL
		w.MediaType = v.MediaType
		w.MediaHint = v.MediaHint
		w.ImageID = v.ImageID
		w.ImageEntityType = v.ImageEntityType
	case SetFlag:
		w.Flag = v.Flag
		w.Value = Bool(v.Value)
	case SetEntityState:
		w.EntityID = v.EntityID
		patch := v.Patch
		w.Patch = &patch
	case AddToContainer:
		w.EntityID = v.EntityID
		w.ContainerID = v.ContainerID
	case RemoveItem:
		w.ItemID = v.ItemID
	case RevealObject:
		w.EntityID = v.EntityID
		w.RevealedBy = v.RevealedBy
	case SetFocus:
		w.FocusID = v.FocusID
		w.FocusType = v.FocusType
	case MoveToLocation:
		w.LocationID = v.LocationID
	case StartConversation:
		w.NPCID = v.NPCID
	case IncrementNPCInteraction:
		w.NPCID = v.NPCID
	case CreateDynamicItem:
		w.ItemID = v.ItemID
		w.Name = v.Name
		w.Description = v.Description
		w.ContainerID = v.ContainerID
		w.SourceID = v.SourceID
	}
	return w
}

// Decode converts a wire record back into a concrete effect.
func (w Wire) Decode() (Effect, error) {
	switch w.Type {
	case TypeShowMessage:
		speaker := w.Speaker
		if speaker == "" {
			speaker = SpeakerNarrator
		}
		return ShowMessage{
			Speaker:         speaker,
			Text:            w.Text,
			MediaURL:        w.MediaURL,
			MediaType:       w.MediaType,
			MediaHint:       w.MediaHint,
			ImageID:         w.ImageID,
			ImageEntityType: w.ImageEntityType,
		}, nil
	case TypeSetFlag:
		if w.Flag == "" {
			return nil, fmt.Errorf("%s: flag is required", w.Type)
		}
		value := true
		if w.Value != nil {
			value = *w.Value
		}
		return SetFlag{Flag: w.Flag, Value: value}, nil
	case TypeSetEntityState:
		if w.EntityID == "" || w.Patch == nil {
			return nil, fmt.Errorf("%s: entityId and patch are required", w.Type)
		}
		return SetEntityState{EntityID: w.EntityID, Patch: *w.Patch}, nil
	case TypeAddToContainer:
		if w.EntityID == "" || w.ContainerID == "" {
			return nil, fmt.Errorf("%s: entityId and containerId are required", w.Type)
		}
		return AddToContainer{EntityID: w.EntityID, ContainerID: w.ContainerID}, nil
	case TypeRemoveItem:
		if w.ItemID == "" {
			return nil, fmt.Errorf("%s: itemId is required", w.Type)
		}
		return RemoveItem{ItemID: w.ItemID}, nil
	case TypeRevealObject:
		if w.EntityID == "" {
			return nil, fmt.Errorf("%s: entityId is required", w.Type)
		}
		return RevealObject{EntityID: w.EntityID, RevealedBy: w.RevealedBy}, nil
	case TypeSetFocus:
		ft := w.FocusType
		if ft == "" {
			ft = FocusObject
			if w.FocusID == "" {
				ft = FocusNone
			}
		}
		return SetFocus{FocusID: w.FocusID, FocusType: ft}, nil
	case TypeMoveToLocation:
		if w.LocationID == "" {
			return nil, fmt.Errorf("%s: locationId is required", w.Type)
		}
		return MoveToLocation{LocationID: w.LocationID}, nil
	case TypeStartConversation:
		if w.NPCID == "" {
			return nil, fmt.Errorf("%s: npcId is required", w.Type)
		}
		return StartConversation{NPCID: w.NPCID}, nil
	case TypeEndConversation:
		return EndConversation{}, nil
	case TypeEndInteraction:
		return EndInteraction{}, nil
	case TypeIncrementNPCInteraction:
		if w.NPCID == "" {
			return nil, fmt.Errorf("%s: npcId is required", w.Type)
		}
		return IncrementNPCInteraction{NPCID: w.NPCID}, nil
	case TypeCreateDynamicItem:
		if w.ItemID == "" {
			return nil, fmt.Errorf("%s: itemId is required", w.Type)
		}
		container := w.ContainerID
		if container == "" {
			container = InventoryContainer
		}
		return CreateDynamicItem{
			ItemID:      w.ItemID,
			Name:        w.Name,
			Description: w.Description,
			ContainerID: container,
			SourceID:    w.SourceID,
		}, nil
	case TypeClearDeviceFocus:
		return ClearDeviceFocus{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, w.Type)
	}
}

// List is an ordered effect list that encodes as tagged records.
type List []Effect

func (l List) wires() []Wire {
	out := make([]Wire, 0, len(l))
	for _, e := range l {
		out = append(out, Encode(e))
	}
	return out
}

func decodeWires(ws []Wire) (List, error) {
	out := make(List, 0, len(ws))
	for i, w := range ws {
		e, err := w.Decode()
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (l List) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.wires())
}

func (l *List) UnmarshalJSON(data []byte) error {
	var ws []Wire
	if err := json.Unmarshal(data, &ws); err != nil {
		return err
	}
	decoded, err := decodeWires(ws)
	if err != nil {
		return err
	}
	*l = decoded
	return nil
}

func (l List) MarshalYAML() (interface{}, error) {
	return l.wires(), nil
}

func (l *List) UnmarshalYAML(value *yaml.Node) error {
	var ws []Wire
	if err := value.Decode(&ws); err != nil {
		return err
	}
	decoded, err := decodeWires(ws)
	if err != nil {
		return err
	}
	*l = decoded
	return nil
}
