// Package cartridge defines the static, authored world content for a chapter
// of the game: locations, objects, items, NPCs, portals and the happy path.
// A Game is immutable once Build has succeeded.
package cartridge

// SpatialMode controls how much of a location is within reach.
type SpatialMode string

const (
	Compact   SpatialMode = "compact"
	Sprawling SpatialMode = "sprawling"
)

type Location struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string      `json:"image,omitempty" yaml:"image,omitempty"`
	SpatialMode SpatialMode `json:"spatialMode,omitempty" yaml:"spatialMode,omitempty"`
	Objects     []string    `json:"objects,omitempty" yaml:"objects,omitempty"`
	Items       []string    `json:"items,omitempty" yaml:"items,omitempty"`
	NPCs        []string    `json:"npcs,omitempty" yaml:"npcs,omitempty"`
}

// IsSprawling reports whether only the focused zone is within reach.
func (l *Location) IsSprawling() bool {
	return l != nil && l.SpatialMode == Sprawling
}

// Portal connects two locations. A portal with a RevealFlag is usable only
// once that flag is set.
type Portal struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	AltNames   []string `json:"alternateNames,omitempty" yaml:"alternateNames,omitempty"`
	From       string   `json:"from" yaml:"from"`
	To         string   `json:"to" yaml:"to"`
	RevealFlag string   `json:"revealFlag,omitempty" yaml:"revealFlag,omitempty"`
	TwoWay     bool     `json:"twoWay,omitempty" yaml:"twoWay,omitempty"`
}

// Connects reports whether the portal leads from one location to the other.
func (p *Portal) Connects(from, to string) bool {
	if p.From == from && p.To == to {
		return true
	}
	return p.TwoWay && p.From == to && p.To == from
}

// Content ratings. An empty rating is treated as PG13.
const (
	RatingG    = "G"
	RatingPG   = "PG"
	RatingPG13 = "PG13"
	RatingR    = "R"
)

// ContentRating returns the cartridge rating, defaulting to PG13.
func (g *Game) ContentRating() string {
	if g.Rating == "" {
		return RatingPG13
	}
	return g.Rating
}

// Game is a fully resolved cartridge.
type Game struct {
	ID              string                 `json:"id" yaml:"id"`
	Title           string                 `json:"title" yaml:"title"`
	Intro           string                 `json:"intro,omitempty" yaml:"intro,omitempty"`
	Rating          string                 `json:"rating,omitempty" yaml:"rating,omitempty"`
	StartLocationID string                 `json:"startLocation" yaml:"startLocation"`
	StartInventory  []string               `json:"startInventory,omitempty" yaml:"startInventory,omitempty"`
	Locations       map[string]*Location   `json:"locations" yaml:"locations"`
	Objects         map[string]*GameObject `json:"gameObjects,omitempty" yaml:"gameObjects,omitempty"`
	Items           map[string]*Item       `json:"items,omitempty" yaml:"items,omitempty"`
	NPCs            map[string]*NPC        `json:"npcs,omitempty" yaml:"npcs,omitempty"`
	Portals         map[string]*Portal     `json:"portals,omitempty" yaml:"portals,omitempty"`
	Chapters        []Chapter              `json:"chapters,omitempty" yaml:"chapters,omitempty"`
	SystemMessages  map[string]string      `json:"systemMessages,omitempty" yaml:"systemMessages,omitempty"`

	index *index
}

// Message returns the cartridge override for a system message key, or the
// built-in default.
func (g *Game) Message(key string) string {
	if msg, ok := g.SystemMessages[key]; ok && msg != "" {
		return msg
	}
	return defaultMessages[key]
}

// Location returns a location by id.
func (g *Game) Location(id string) (*Location, bool) {
	l, ok := g.Locations[id]
	return l, ok
}

// Object returns a game object by id.
func (g *Game) Object(id string) (*GameObject, bool) {
	o, ok := g.Objects[id]
	return o, ok
}

// Item returns an item by id.
func (g *Game) Item(id string) (*Item, bool) {
	i, ok := g.Items[id]
	return i, ok
}

// NPC returns an NPC by id.
func (g *Game) NPC(id string) (*NPC, bool) {
	n, ok := g.NPCs[id]
	return n, ok
}

// Name returns the display name of any entity, location or portal.
func (g *Game) Name(id string) string {
	if o, ok := g.Objects[id]; ok {
		return o.Name
	}
	if i, ok := g.Items[id]; ok {
		return i.Name
	}
	if n, ok := g.NPCs[id]; ok {
		return n.Name
	}
	if l, ok := g.Locations[id]; ok {
		return l.Name
	}
	if p, ok := g.Portals[id]; ok {
		return p.Name
	}
	return id
}

// AltNames returns the alternate names of an entity.
func (g *Game) AltNames(id string) []string {
	if o, ok := g.Objects[id]; ok {
		return o.AltNames
	}
	if i, ok := g.Items[id]; ok {
		return i.AltNames
	}
	if n, ok := g.NPCs[id]; ok {
		return n.AltNames
	}
	return nil
}

// ChapterByID returns a chapter, or the first chapter when id is empty.
func (g *Game) ChapterByID(id string) (*Chapter, bool) {
	for i := range g.Chapters {
		if id == "" || g.Chapters[i].ID == id {
			return &g.Chapters[i], true
		}
	}
	return nil, false
}
