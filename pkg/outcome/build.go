package outcome

import (
	"path"
	"strings"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/effect"
)

// Source names the entity whose image accompanies an outcome message when
// the outcome carries no explicit media.
type Source struct {
	EntityID   string
	EntityType cartridge.Kind
}

var videoExts = map[string]bool{".mp4": true, ".webm": true, ".ogg": true, ".mov": true}

// MediaTypeFor infers the media type of a URL from its extension.
func MediaTypeFor(url string) effect.MediaType {
	u, _, _ := strings.Cut(url, "?")
	if videoExts[strings.ToLower(path.Ext(u))] {
		return effect.MediaVideo
	}
	return effect.MediaImage
}

// ToMessage builds the primary message for an outcome. Explicit media wins;
// otherwise the image lookup is deferred to the renderer so it sees the
// state after every preceding effect.
func ToMessage(o *cartridge.Outcome, src Source) effect.ShowMessage {
	m := effect.ShowMessage{Speaker: effect.SpeakerNarrator, Text: o.Message}
	if o.Speaker != "" {
		m.Speaker = effect.Speaker(o.Speaker)
	}
	if o.Media != nil {
		m.MediaHint = o.Media.Description
		if m.MediaHint == "" {
			m.MediaHint = o.Media.HintKeyword
		}
		if o.Media.URL != "" {
			m.MediaURL = o.Media.URL
			m.MediaType = MediaTypeFor(o.Media.URL)
			return m
		}
	}
	if src.EntityID != "" {
		m.ImageID = src.EntityID
		m.ImageEntityType = string(src.EntityType)
	}
	return m
}

// BuildEffects flattens an outcome into effects: state changes first, then
// the outcome's own message, then any messages listed among its effects.
// Fail outcomes fall back to the entity image like any other.
func BuildEffects(o *cartridge.Outcome, src Source) []effect.Effect {
	if o == nil {
		return nil
	}
	out := make([]effect.Effect, 0, len(o.Effects)+1)
	var messages []effect.Effect
	for _, e := range o.Effects {
		if effect.IsMessage(e) {
			messages = append(messages, e)
			continue
		}
		out = append(out, e)
	}
	if o.Message != "" {
		out = append(out, ToMessage(o, src))
	}
	return append(out, messages...)
}
