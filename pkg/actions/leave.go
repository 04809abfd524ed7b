package actions

import (
	"context"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/effect"
)

// handleLeave backs out of the innermost thing the player is engaged in:
// a conversation, then a puzzle, then a raised device, then the focus.
func handleLeave(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	ps := t.ps()
	switch {
	case ps.ConversationNPCID != "":
		return append([]effect.Effect{effect.EndConversation{}},
			t.narrate(ctx, cartridge.MsgConversationOver, "name", t.name(ps.ConversationNPCID)))
	case ps.InteractionID != "":
		return append([]effect.Effect{effect.EndInteraction{}},
			t.narrate(ctx, cartridge.MsgStepBack, "name", t.name(ps.InteractionID)))
	case ps.HasDeviceFocus():
		return append([]effect.Effect{effect.ClearDeviceFocus{}},
			t.narrate(ctx, cartridge.MsgDeviceLowered, "name", t.name(ps.ActiveDeviceID)))
	case ps.CurrentFocusID != "":
		return append([]effect.Effect{effect.SetFocus{FocusType: effect.FocusNone}},
			t.narrate(ctx, cartridge.MsgStepBack, "name", t.name(ps.CurrentFocusID)))
	}
	return []effect.Effect{t.system(cartridge.MsgNothingToLeave)}
}
