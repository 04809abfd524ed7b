package resolve

import (
	"slices"
	"strings"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/state"
)

// Scores by match tier. Substring scores scale with how much of the longer
// string the shorter one covers, so "hard hat" beats "hat" for "hard hat".
// Every alternate-name score sits below the primary substring floor.
const (
	ScoreID           = 1000
	ScoreExact        = 100
	scoreSubstringMin = 50
	scoreSubstringMax = 80
	ScoreAltExact     = 45
	scoreAltSubMin    = 20
	scoreAltSubMax    = 40

	minSubstringLen = 3
)

// Match is the result of comparing a phrase against an entity's names.
type Match struct {
	Matches bool
	Score   int
}

// MatchesName scores normalized input against a name and its alternates.
func MatchesName(name string, alts []string, input string) Match {
	if input == "" {
		return Match{}
	}
	best := 0
	n := Normalize(name)
	switch {
	case n == input:
		return Match{Matches: true, Score: ScoreExact}
	case substring(n, input):
		best = scaled(n, input, scoreSubstringMin, scoreSubstringMax)
	}
	for _, alt := range alts {
		a := Normalize(alt)
		score := 0
		switch {
		case a == input:
			score = ScoreAltExact
		case substring(a, input):
			score = scaled(a, input, scoreAltSubMin, scoreAltSubMax)
		}
		best = max(best, score)
	}
	return Match{Matches: best > 0, Score: best}
}

func substring(a, b string) bool {
	if len(a) < minSubstringLen || len(b) < minSubstringLen {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func scaled(a, b string, lo, hi int) int {
	short, long := len(a), len(b)
	if short > long {
		short, long = long, short
	}
	return lo + (hi-lo)*short/long
}

// Options restrict which entities FindBestMatch considers.
type Options struct {
	SearchInventory    bool
	SearchVisibleItems bool
	SearchObjects      bool
	SearchNPCs         bool
	// RequireFocus drops candidates outside the focus subtree before
	// scoring. With no focus the whole location qualifies.
	RequireFocus bool
	// Global adds every cartridge entity after the local candidates.
	Global bool
	// Accept, when set, drops candidates it returns false for.
	Accept func(id string) bool
}

// Result identifies a matched entity.
type Result struct {
	ID       string
	Category cartridge.Kind
	Score    int
}

type candidate struct {
	id    string
	kind  cartridge.Kind
	inInv bool
}

// FindBestMatch returns the highest scoring candidate for the normalized
// input, or nil. Ties go to the first candidate enumerated: location
// contents depth-first in authored order, then inventory, then personal
// equipment, then the global fallback in id order.
func FindBestMatch(v state.View, input string, opts Options) *Result {
	if input == "" {
		return nil
	}
	var best *Result
	for _, c := range candidates(v, opts) {
		if !allowed(c, opts) {
			continue
		}
		if opts.RequireFocus && !inFocus(v, c.id) {
			continue
		}
		if opts.Accept != nil && !opts.Accept(c.id) {
			continue
		}
		score := 0
		if IsRawID(input) && input == c.id {
			score = ScoreID
		} else if m := MatchesName(v.Name(c.id), v.AltNames(c.id), input); m.Matches {
			score = m.Score
		}
		if score > 0 && (best == nil || score > best.Score) {
			best = &Result{ID: c.id, Category: c.kind, Score: score}
		}
	}
	return best
}

func allowed(c candidate, opts Options) bool {
	switch {
	case c.inInv:
		return opts.SearchInventory
	case c.kind == cartridge.KindObject:
		return opts.SearchObjects
	case c.kind == cartridge.KindItem:
		return opts.SearchVisibleItems
	case c.kind == cartridge.KindNPC:
		return opts.SearchNPCs
	}
	return false
}

func inFocus(v state.View, id string) bool {
	focus := v.State.CurrentFocusID
	if focus == "" {
		return v.LocationOf(id) == v.State.CurrentLocationID && !v.InInventory(id)
	}
	return id == focus || v.IsDescendantOf(id, focus)
}

// candidates enumerates entities in tie-break order without duplicates.
func candidates(v state.View, opts Options) []candidate {
	seen := make(map[string]bool)
	var out []candidate
	add := func(id string) {
		if seen[id] || !v.Exists(id) {
			return
		}
		seen[id] = true
		k, _ := v.KindOf(id)
		out = append(out, candidate{id: id, kind: k, inInv: v.InInventory(id)})
	}
	var walk func(id string)
	walk = func(id string) {
		add(id)
		for _, child := range v.ChildrenOf(id) {
			walk(child)
		}
	}

	locID := v.State.CurrentLocationID
	if loc, ok := v.Game.Location(locID); ok {
		for _, id := range loc.Objects {
			if v.ParentOf(id) == "" {
				walk(id)
			}
		}
		for _, id := range loc.Items {
			if v.ParentOf(id) == "" {
				add(id)
			}
		}
		for _, id := range v.ChildrenOf(cartridge.ZoneStorageID(locID)) {
			add(id)
		}
		for _, id := range loc.NPCs {
			add(id)
		}
	}
	for _, id := range v.State.Inventory {
		add(id)
	}
	for _, id := range v.Game.EntityIDs() {
		if v.IsPersonal(id) {
			walk(id)
		}
	}
	if opts.Global {
		ids := slices.Clone(v.Game.EntityIDs())
		for id := range v.State.World.DynamicItems {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			add(id)
		}
	}
	return out
}

// IsRawID reports whether input looks like an entity id rather than a name.
func IsRawID(input string) bool {
	return strings.HasPrefix(input, "item_") || strings.HasPrefix(input, "obj_") ||
		strings.HasPrefix(input, "npc_") || strings.HasPrefix(input, "photo_")
}

// InventoryOptions returns options matching carried items only.
func InventoryOptions() Options { return Options{SearchInventory: true} }

// WorldOptions returns options matching objects and items in the location.
func WorldOptions() Options {
	return Options{SearchVisibleItems: true, SearchObjects: true}
}

// AnyOptions returns options matching everything local, including NPCs and
// carried items.
func AnyOptions() Options {
	return Options{SearchInventory: true, SearchVisibleItems: true, SearchObjects: true, SearchNPCs: true}
}
