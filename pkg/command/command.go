// Package command defines the player intent handed to the action engine and
// a small parser for phrasings that need no language model.
package command

import (
	"fmt"
	"slices"
	"strings"
)

// Verb is one of the fixed set of actions the engine understands.
type Verb string

const (
	Take      Verb = "take"
	Drop      Verb = "drop"
	Open      Verb = "open"
	Close     Verb = "close"
	Break     Verb = "break"
	Search    Verb = "search"
	Smell     Verb = "smell"
	Climb     Verb = "climb"
	Talk      Verb = "talk"
	Combine   Verb = "combine"
	Goto      Verb = "goto"
	Examine   Verb = "examine"
	Use       Verb = "use"
	Inventory Verb = "inventory"
	Password  Verb = "password"
	Move      Verb = "move"
	Look      Verb = "look"
	Read      Verb = "read"
	Leave     Verb = "leave"
	Hint      Verb = "hint"
)

// Verbs lists every verb in a stable order.
var Verbs = []Verb{
	Take, Drop, Open, Close, Break, Search, Smell, Climb, Talk, Combine,
	Goto, Examine, Use, Inventory, Password, Move, Look, Read, Leave, Hint,
}

// Valid reports whether v is a known verb.
func (v Verb) Valid() bool {
	return slices.Contains(Verbs, v)
}

// Command is a normalized player intent.
type Command struct {
	Verb    Verb   `json:"verb"`
	Target  string `json:"target,omitempty"`
	Target2 string `json:"target2,omitempty"`
}

func (c Command) String() string {
	switch {
	case c.Target2 != "":
		return fmt.Sprintf("%s %s + %s", c.Verb, c.Target, c.Target2)
	case c.Target != "":
		return fmt.Sprintf("%s %s", c.Verb, c.Target)
	}
	return string(c.Verb)
}

// Validate checks the verb is known.
func (c Command) Validate() error {
	if !c.Verb.Valid() {
		return fmt.Errorf("unknown verb %q", c.Verb)
	}
	return nil
}

var bare = map[string]Verb{
	"look":        Look,
	"l":           Look,
	"look around": Look,
	"i":           Inventory,
	"inv":         Inventory,
	"inventory":   Inventory,
	"hint":        Hint,
	"help":        Hint,
	"leave":       Leave,
	"back":        Leave,
	"step back":   Leave,
	"stop":        Leave,
}

type prefix struct {
	words string
	verb  Verb
	// joiners split a second target off the remainder.
	joiners []string
}

// Longer phrasings come first so "look at" wins over "look".
var prefixes = []prefix{
	{"enter password", Password, nil},
	{"pick up", Take, nil},
	{"look at", Examine, nil},
	{"look in", Search, nil},
	{"talk to", Talk, nil},
	{"speak to", Talk, nil},
	{"speak with", Talk, nil},
	{"talk with", Talk, nil},
	{"go to", Goto, nil},
	{"walk to", Goto, nil},
	{"head to", Goto, nil},
	{"climb into", Climb, nil},
	{"climb in", Climb, nil},
	{"take", Take, nil},
	{"get", Take, nil},
	{"grab", Take, nil},
	{"drop", Drop, nil},
	{"open", Open, nil},
	{"close", Close, nil},
	{"shut", Close, nil},
	{"break", Break, nil},
	{"smash", Break, nil},
	{"search", Search, nil},
	{"smell", Smell, nil},
	{"sniff", Smell, nil},
	{"climb", Climb, nil},
	{"talk", Talk, nil},
	{"combine", Combine, []string{" with ", " and "}},
	{"goto", Goto, nil},
	{"approach", Goto, nil},
	{"examine", Examine, nil},
	{"inspect", Examine, nil},
	{"x", Examine, nil},
	{"use", Use, []string{" on ", " with "}},
	{"password", Password, nil},
	{"move", Move, nil},
	{"push", Move, nil},
	{"read", Read, nil},
}

// Parse recognizes simple phrasings such as "take the hat" or "combine wax
// with blank". It returns false when the input needs interpretation.
func Parse(input string) (Command, bool) {
	raw := strings.Join(strings.Fields(input), " ")
	lower := strings.ToLower(raw)
	if lower == "" {
		return Command{}, false
	}
	if v, ok := bare[lower]; ok {
		return Command{Verb: v}, true
	}
	for _, p := range prefixes {
		rest, ok := strings.CutPrefix(lower, p.words+" ")
		if !ok {
			continue
		}
		// Keep the player's casing for the target text.
		target := raw[len(raw)-len(rest):]
		cmd := Command{Verb: p.verb, Target: target}
		for _, j := range p.joiners {
			if i := strings.Index(rest, j); i > 0 {
				cmd.Target = strings.TrimSpace(target[:i])
				cmd.Target2 = strings.TrimSpace(target[i+len(j):])
				break
			}
		}
		return cmd, true
	}
	return Command{}, false
}
