package actions

import (
	"context"
	"strings"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/conditionals"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/outcome"
	"github.com/jwebster45206/noir-engine/pkg/resolve"
)

// passwordFillers are lead-ins players type before the actual answer.
// Multi-word fillers come first.
var passwordFillers = []string{
	"password is",
	"code is",
	"password",
	"enter",
	"type",
	"code",
	"say",
	"the",
}

// Answer strips filler from a typed password and normalizes it for
// comparison.
func Answer(input string) string {
	s := resolve.Normalize(input)
	for {
		trimmed := s
		for _, f := range passwordFillers {
			if rest, ok := strings.CutPrefix(trimmed, f+" "); ok {
				trimmed = rest
				break
			}
		}
		trimmed = strings.Trim(trimmed, "\"'“”‘’:= ")
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

// handlePassword checks an answer against the focused object only. Words
// that appear on other objects in the room never unlock them.
func handlePassword(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	id := t.ps().CurrentFocusID
	if id == "" || t.ps().FocusType != effect.FocusObject {
		return []effect.Effect{t.system(cartridge.MsgNeedFocus)}
	}
	name := t.name(id)
	o, ok := t.game.Object(id)
	if !ok || !o.Caps.Inputtable || o.Input == nil {
		return t.say(ctx, cartridge.MsgNotInputtable, "name", name)
	}
	if !conditionals.IsActionApplicable("unlock", id, t.v) {
		return t.say(ctx, cartridge.MsgAlreadyUnlocked, "name", name)
	}
	answer := Answer(cmd.Target)
	if answer == "" {
		return t.emptyTarget(command.Password)
	}
	src := outcome.Source{EntityID: id, EntityType: cartridge.KindObject}

	if answer != Answer(o.Input.Validation) {
		if o.Input.Fail != nil {
			return outcome.BuildEffects(o.Input.Fail, src)
		}
		return t.say(ctx, cartridge.MsgWrongPassword, "name", name)
	}

	effects := []effect.Effect{
		effect.SetEntityState{EntityID: id, Patch: effect.EntityPatch{IsLocked: effect.Bool(false)}},
	}
	if o.Input.Success != nil {
		effects = append(effects, outcome.BuildEffects(o.Input.Success, src)...)
	} else {
		msg := t.narrate(ctx, cartridge.MsgUnlocked, "name", name)
		msg.ImageID = id
		msg.ImageEntityType = string(cartridge.KindObject)
		effects = append(effects, msg)
	}
	return append(effects, effect.EndInteraction{})
}
