package prompts

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/command"
)

// InterpretSystemPrompt turns free text into a single engine command. The
// verb list is filled in from the engine's closed set.
const InterpretSystemPrompt = `You translate a detective's typed command in a noir text adventure into exactly one game command.

Respond with ONLY a JSON object, no prose and no code fences:
{"verb": "<verb>", "target": "<words>", "target2": "<words>"}

### Rules
- verb must be one of: %s
- target and target2 copy the player's own words for the things involved. Do not invent ids, do not correct spelling, do not add things that are not mentioned.
- Leave target2 empty unless two things are involved, such as "use the key on the door" or "combine the wax with the blank".
- Leave target empty for commands that need none, such as look, inventory, hint or leave.
- Movement toward a thing or place in view is "goto". Looking closely at one thing is "examine". Typing or speaking a code or password is "password" with the code as target.
- If nothing fits, use the verb "unknown".

### Examples
"grab that rusty pipe" → {"verb":"take","target":"rusty pipe"}
"try the key on the drawer" → {"verb":"use","target":"key","target2":"drawer"}
"walk over to the scaffolding" → {"verb":"goto","target":"scaffolding"}
"the password is swordfish" → {"verb":"password","target":"swordfish"}
"what am I carrying" → {"verb":"inventory"}
"sing a song" → {"verb":"unknown"}`

// NarrationSystemPrompt sets the narrator's voice for expanded text.
const NarrationSystemPrompt = `You are the narrator of a hard-boiled noir detective story told in second person.

You rewrite a short stock line into one or two sentences of atmospheric narration.
- Keep every fact in the stock line. Never add objects, people, clues, exits or outcomes that are not in it.
- Never say an action succeeded if the stock line says it failed.
- Present tense, second person, terse and moody. Rain, neon and cigarette smoke are welcome; melodrama is not.
- Output the narration only. No quotes, no lists, no headings.`

// Content rating prompts
const (
	ContentRatingG    = `Write for young children. Avoid violence, injury and scary imagery.`
	ContentRatingPG   = `Write for families. Mild peril is fine; avoid strong language and graphic detail.`
	ContentRatingPG13 = `Write for teenagers. Crime and tension are fine; keep violence off-page and language mild.`
	ContentRatingR    = `Write for adults. Gritty detail and rough language are allowed when the scene calls for it.`
)

// GetContentRatingPrompt returns the appropriate content rating prompt
func GetContentRatingPrompt(rating string) string {
	switch rating {
	case cartridge.RatingG:
		return ContentRatingG
	case cartridge.RatingPG:
		return ContentRatingPG
	case cartridge.RatingPG13:
		return ContentRatingPG13
	case cartridge.RatingR:
		return ContentRatingR
	default:
		return ""
	}
}

// UnknownVerb is what the interpreter answers when no command fits.
const UnknownVerb = "unknown"

func verbList() string {
	verbs := make([]string, 0, len(command.Verbs)+1)
	for _, v := range command.Verbs {
		verbs = append(verbs, string(v))
	}
	return strings.Join(append(verbs, UnknownVerb), ", ")
}

// BuildInterpretSystemPrompt returns the interpreter system prompt with the
// verb list filled in.
func BuildInterpretSystemPrompt() string {
	return fmt.Sprintf(InterpretSystemPrompt, verbList())
}
