package actions

import (
	"context"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/outcome"
	"github.com/jwebster45206/noir-engine/pkg/resolve"
)

func handleTalk(ctx context.Context, t *turn, cmd command.Command) []effect.Effect {
	target := cmd.Target
	if resolve.Normalize(target) == "" {
		if t.ps().ConversationNPCID == "" {
			return t.emptyTarget(command.Talk)
		}
		target = t.ps().ConversationNPCID
	}
	r, fail := t.resolve(ctx, target, resolve.AnyOptions(), command.Talk)
	if fail != nil {
		return fail
	}
	id, name := r.ID, t.name(r.ID)
	npc, ok := t.game.NPC(id)
	if !ok {
		return t.say(ctx, cartridge.MsgCantTalk, "name", name)
	}
	first := t.v.NPCState(id).InteractionCount == 0

	var changes, lines []effect.Effect
	if t.ps().ConversationNPCID != id {
		changes = append(changes, effect.StartConversation{NPCID: id})
	}
	if first {
		changes = append(changes, npc.StartConversationEffects...)
		if npc.WelcomeMessage != "" {
			lines = append(lines, speech(npc, npc.WelcomeMessage))
		}
	}
	changes = append(changes, effect.IncrementNPCInteraction{NPCID: id})

	if def := outcome.EffectiveHandler(t.v, id, string(command.Talk)); def != nil {
		out, _ := outcome.Evaluate(def, t.v)
		if out == nil {
			return t.dataError(id, command.Talk, "talk handler has no outcome")
		}
		// On first contact the welcome line already covers a reply that
		// only repeats it.
		if !first || out.Message != npc.WelcomeMessage || len(out.Effects) > 0 {
			o := *out
			if o.Speaker == "" {
				o.Speaker = npc.Name
			}
			changes = append(changes, outcome.BuildEffects(&o, outcome.Source{EntityID: id, EntityType: cartridge.KindNPC})...)
		}
	} else if len(lines) == 0 {
		lines = append(lines, t.narrate(ctx, cartridge.MsgNPCSilent, "name", name))
	}

	// State changes go ahead of every line so media lookups see them.
	var effects []effect.Effect
	for _, e := range changes {
		if effect.IsMessage(e) {
			lines = append(lines, e)
		} else {
			effects = append(effects, e)
		}
	}
	return t.withFocus(append(effects, lines...), command.Talk, id, true)
}

func speech(npc *cartridge.NPC, text string) effect.ShowMessage {
	return effect.ShowMessage{
		Speaker:         effect.Speaker(npc.Name),
		Text:            text,
		ImageID:         npc.ID,
		ImageEntityType: string(cartridge.KindNPC),
	}
}
