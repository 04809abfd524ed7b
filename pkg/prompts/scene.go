package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/noir-engine/pkg/resolve"
	"github.com/jwebster45206/noir-engine/pkg/state"
)

// Scene is what the player can currently see or hold, by display name. It is
// the only game state a model ever sees.
type Scene struct {
	Location     string   `json:"location"`
	Focus        string   `json:"focus,omitempty"`
	Device       string   `json:"device_raised,omitempty"`
	Conversation string   `json:"talking_to,omitempty"`
	Nearby       []string `json:"nearby,omitempty"`
	Inventory    []string `json:"inventory,omitempty"`
}

// SceneFromView summarizes a player's view of the world.
func SceneFromView(v state.View) Scene {
	ps := v.State
	s := Scene{Location: v.Name(ps.CurrentLocationID)}
	if ps.CurrentFocusID != "" {
		s.Focus = v.Name(ps.CurrentFocusID)
	}
	if ps.ActiveDeviceID != "" {
		s.Device = v.Name(ps.ActiveDeviceID)
	}
	if ps.ConversationNPCID != "" {
		s.Conversation = v.Name(ps.ConversationNPCID)
	}
	for _, id := range v.Game.EntityIDs() {
		if v.InInventory(id) || v.IsPersonal(id) {
			continue
		}
		switch st, _ := resolve.Reach(v, id); st {
		case resolve.Found, resolve.OutOfReach, resolve.Blocked:
			s.Nearby = append(s.Nearby, v.Name(id))
		}
	}
	for _, id := range ps.Inventory {
		if v.Exists(id) {
			s.Inventory = append(s.Inventory, v.Name(id))
		}
	}
	return s
}

// JSON renders the scene for a prompt.
func (s Scene) JSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal scene: %w", err)
	}
	return string(data), nil
}
