// Package cartridgetest provides a small, fully built cartridge for tests.
//
// The world has three locations. The alley is compact and holds a closed
// dumpster, a trash pile hiding a shell casing, and a vagrant. The
// construction site is sprawling: scaffolding with locked-but-open zip ties
// around a hard hat, the foreman's desk with a locked drawer, two keypad
// boxes whose descriptions both mention "justice", and a blood stain worth
// photographing. The office is reachable only once its address is known.
package cartridgetest

import (
	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/effect"
)

// Location ids.
const (
	Alley  = "loc_alley"
	Site   = "loc_site"
	Office = "loc_office"
)

// New returns a freshly built fixture cartridge. It panics if the fixture
// fails to build.
func New() *cartridge.Game {
	g := Unbuilt()
	if err := g.Build(); err != nil {
		panic(err)
	}
	return g
}

func msg(text string, effects ...effect.Effect) *cartridge.Outcome {
	return &cartridge.Outcome{Message: text, Effects: effects}
}

// Unbuilt returns the fixture before Build, so tests can break it.
func Unbuilt() *cartridge.Game {
	return &cartridge.Game{
		ID:              "fixture",
		Title:           "Fixture",
		StartLocationID: Alley,
		StartInventory:  []string{"item_camera", "item_notebook", "item_wax_impression", "item_key_blank"},
		Locations: map[string]*cartridge.Location{
			Alley: {
				Name:        "Back Alley",
				Description: "Rain needles down between brick walls.",
				Image:       "alley.png",
				SpatialMode: cartridge.Compact,
				Objects:     []string{"obj_dumpster", "obj_trash_pile", "obj_fire_escape"},
				Items:       []string{"item_cigarette_butt", "item_shell_casing"},
				NPCs:        []string{"npc_vagrant"},
			},
			Site: {
				Name:        "Construction Site",
				Description: "Half-built floors loom over mud and floodlights.",
				SpatialMode: cartridge.Sprawling,
				Objects:     []string{"obj_scaffolding", "obj_foreman_desk", "obj_keypad_safe", "obj_lockbox", "obj_blood_stain"},
				Items:       []string{"item_rebar"},
				NPCs:        []string{"npc_foreman"},
			},
			Office: {
				Name:        "Foreman's Office",
				Description: "A trailer that smells of burnt coffee.",
			},
		},
		Portals: map[string]*cartridge.Portal{
			"portal_gate": {
				Name:   "chain-link gate",
				From:   Alley,
				To:     Site,
				TwoWay: true,
			},
			"portal_trailer": {
				Name:       "trailer door",
				From:       Site,
				To:         Office,
				RevealFlag: "office_address_known",
				TwoWay:     true,
			},
		},
		Objects: map[string]*cartridge.GameObject{
			"obj_dumpster": {
				Name:        "dumpster",
				AltNames:    []string{"bin", "trash bin"},
				Description: "A rust-streaked dumpster, lid down.",
				Caps:        cartridge.ObjectCapabilities{Openable: true, Searchable: true, Climbable: true},
				Children:    cartridge.Children{Items: []string{"item_torn_letter"}},
				Focusable:   true,
				EnterFlag:   "in_dumpster",
				Handlers: map[string]cartridge.Handler{
					"climb": cartridge.Single(cartridge.HandlerDef{
						Success: msg("You haul yourself over the lip and into the dumpster.",
							effect.SetFlag{Flag: "in_dumpster", Value: true}),
					}),
				},
				Media: cartridge.Media{
					Image:  "dumpster.png",
					States: map[string]string{"open": "dumpster_open.png"},
				},
			},
			"obj_trash_pile": {
				Name:        "pile of trash",
				AltNames:    []string{"trash", "garbage"},
				Description: "Wet newspapers and takeout boxes.",
				Caps:        cartridge.ObjectCapabilities{Searchable: true},
				Handlers: map[string]cartridge.Handler{
					"search": cartridge.Conditional(
						cartridge.HandlerDef{
							Conditions: []cartridge.Condition{{Type: cartridge.CondNoFlag, Flag: "found_casing"}},
							Success: msg("Under the newspapers, something brass glints.",
								effect.RevealObject{EntityID: "item_shell_casing", RevealedBy: "obj_trash_pile"},
								effect.SetFlag{Flag: "found_casing", Value: true}),
						},
						cartridge.HandlerDef{Success: msg("Just garbage now.")},
					),
				},
			},
			"obj_fire_escape": {
				Name:        "fire escape",
				Description: "A rusted ladder bolted to the brick.",
				Caps:        cartridge.ObjectCapabilities{Climbable: true},
			},
			"obj_scaffolding": {
				Name:        "scaffolding",
				Description: "Pipes and planks three storeys high.",
				Caps:        cartridge.ObjectCapabilities{Climbable: true},
				Focusable:   true,
				Children:    cartridge.Children{Objects: []string{"obj_scaffolding_zip_ties"}},
			},
			"obj_scaffolding_zip_ties": {
				Name:        "zip ties",
				AltNames:    []string{"ties"},
				Description: "Heavy zip ties cinched around a crossbar.",
				ParentID:    "obj_scaffolding",
				Caps:        cartridge.ObjectCapabilities{Openable: true, Lockable: true, Breakable: true},
				State:       cartridge.ObjectState{IsLocked: true, IsOpen: true},
				Children:    cartridge.Children{Items: []string{"item_hard_hat"}},
				Handlers: map[string]cartridge.Handler{
					"break": cartridge.Single(cartridge.HandlerDef{
						Success: msg("The zip ties snap.",
							effect.SetEntityState{EntityID: "obj_scaffolding_zip_ties", Patch: effect.EntityPatch{IsBroken: effect.Bool(true)}}),
					}),
				},
			},
			"obj_foreman_desk": {
				Name:        "foreman's desk",
				AltNames:    []string{"desk"},
				Description: "A plywood desk under a tarp.",
				Caps:        cartridge.ObjectCapabilities{Searchable: true},
				Focusable:   true,
				Children: cartridge.Children{
					Objects: []string{"obj_desk_drawer"},
					Items:   []string{"item_coffee_mug"},
				},
			},
			"obj_desk_drawer": {
				Name:        "steel drawer",
				AltNames:    []string{"drawer"},
				Description: "A drawer with a brass lock.",
				ParentID:    "obj_foreman_desk",
				Caps:        cartridge.ObjectCapabilities{Openable: true, Lockable: true},
				State:       cartridge.ObjectState{IsLocked: true},
				Children:    cartridge.Children{Items: []string{"item_payroll_ledger"}},
				Handlers: map[string]cartridge.Handler{
					"open": cartridge.Single(cartridge.HandlerDef{
						Conditions: []cartridge.Condition{{Type: cartridge.CondHasItem, EntityID: "item_brass_key"}},
						Success: msg("The brass key turns. The drawer slides open.",
							effect.SetEntityState{EntityID: "obj_desk_drawer", Patch: effect.EntityPatch{IsLocked: effect.Bool(false), IsOpen: effect.Bool(true)}}),
						Fail: msg("The drawer is locked tight."),
					}),
				},
			},
			"obj_keypad_safe": {
				Name:        "wall safe",
				AltNames:    []string{"safe", "keypad"},
				Description: "A keypad safe. Someone scratched JUSTICE into the paint beside it.",
				Caps:        cartridge.ObjectCapabilities{Openable: true, Lockable: true, Inputtable: true},
				State:       cartridge.ObjectState{IsLocked: true},
				Focusable:   true,
				Input: &cartridge.Input{
					Type:       "phrase",
					Validation: "justice",
					Success: msg("The keypad beeps twice. The safe swings open.",
						effect.SetEntityState{EntityID: "obj_keypad_safe", Patch: effect.EntityPatch{IsOpen: effect.Bool(true)}},
						effect.SetFlag{Flag: "safe_opened", Value: true}),
				},
				Children: cartridge.Children{Items: []string{"item_photo_negatives"}},
			},
			"obj_lockbox": {
				Name:        "evidence lockbox",
				AltNames:    []string{"lockbox"},
				Description: "Stenciled: PROPERTY OF THE JUSTICE DEPT.",
				Caps:        cartridge.ObjectCapabilities{Lockable: true, Inputtable: true},
				State:       cartridge.ObjectState{IsLocked: true},
				Focusable:   true,
				Input:       &cartridge.Input{Type: "phrase", Validation: "verdict"},
			},
			"obj_blood_stain": {
				Name:        "blood stain",
				AltNames:    []string{"stain", "blood"},
				Description: "A dark stain soaked into the plywood.",
				Caps:        cartridge.ObjectCapabilities{IsPhotographable: true},
				Focusable:   true,
				Handlers: map[string]cartridge.Handler{
					"smell": cartridge.Single(cartridge.HandlerDef{Success: msg("Copper and rust.")}),
				},
			},
			"obj_phone": {
				Name:        "phone",
				AltNames:    []string{"cell phone"},
				Description: "Your department flip phone.",
				Caps:        cartridge.ObjectCapabilities{Usable: true},
				Personal:    true,
				Handlers: map[string]cartridge.Handler{
					"use": cartridge.Single(cartridge.HandlerDef{Success: msg("No signal down here.")}),
				},
			},
		},
		Items: map[string]*cartridge.Item{
			"item_cigarette_butt": {
				Name:     "cigarette butt",
				AltNames: []string{"butt", "cigarette"},
				Caps:     cartridge.ItemCapabilities{Takable: true},
			},
			"item_shell_casing": {
				Name:        "shell casing",
				AltNames:    []string{"casing", "brass"},
				Description: "A .38 casing, still bright.",
				Caps:        cartridge.ItemCapabilities{Takable: true},
				Hidden:      true,
			},
			"item_torn_letter": {
				Name:        "torn letter",
				AltNames:    []string{"letter"},
				Description: "Half a letter, the ink run by rain.",
				Caps:        cartridge.ItemCapabilities{Takable: true, Readable: true},
				Handlers: map[string]cartridge.Handler{
					"read": cartridge.Single(cartridge.HandlerDef{
						Success: msg("...meet me at the site. Midnight...",
							effect.SetFlag{Flag: "read_letter", Value: true}),
					}),
				},
			},
			"item_hard_hat": {
				Name: "hard hat",
				Caps: cartridge.ItemCapabilities{Takable: true},
			},
			"item_coffee_mug": {
				Name:     "coffee mug",
				AltNames: []string{"mug"},
				Caps:     cartridge.ItemCapabilities{Takable: true},
				Handlers: map[string]cartridge.Handler{
					"drop": cartridge.Single(cartridge.HandlerDef{
						Success: msg("The mug shatters on the concrete.",
							effect.RemoveItem{ItemID: "item_coffee_mug"}),
					}),
				},
			},
			"item_payroll_ledger": {
				Name:     "payroll ledger",
				AltNames: []string{"ledger"},
				Caps:     cartridge.ItemCapabilities{Takable: true, Readable: true},
			},
			"item_photo_negatives": {
				Name:     "photo negatives",
				AltNames: []string{"negatives"},
				Caps:     cartridge.ItemCapabilities{Takable: true},
			},
			"item_rebar": {
				Name:     "length of rebar",
				AltNames: []string{"rebar"},
				Caps:     cartridge.ItemCapabilities{Takable: true},
			},
			"item_camera": {
				Name: "camera",
				Caps: cartridge.ItemCapabilities{Usable: true, IsCamera: true},
			},
			"item_notebook": {
				Name:        "notebook",
				Description: "Your case notes.",
				Caps:        cartridge.ItemCapabilities{Readable: true},
			},
			"item_wax_impression": {
				Name:     "wax impression",
				AltNames: []string{"impression", "wax"},
				Caps:     cartridge.ItemCapabilities{Combinable: true},
				Combine: map[string]cartridge.Handler{
					"item_key_blank": cartridge.Single(cartridge.HandlerDef{
						Success: msg("You file the blank against the impression until it matches.",
							effect.AddToContainer{EntityID: "item_brass_key", ContainerID: effect.InventoryContainer},
							effect.RemoveItem{ItemID: "item_key_blank"},
							effect.RemoveItem{ItemID: "item_wax_impression"}),
					}),
				},
			},
			"item_key_blank": {
				Name:     "key blank",
				AltNames: []string{"blank"},
				Caps:     cartridge.ItemCapabilities{Combinable: true},
				Combine: map[string]cartridge.Handler{
					"item_wax_impression": cartridge.Single(cartridge.HandlerDef{
						Success: msg("The blank won't take the shape from this side."),
					}),
				},
			},
			"item_brass_key": {
				Name:     "brass key",
				AltNames: []string{"key"},
				Hidden:   true,
			},
		},
		NPCs: map[string]*cartridge.NPC{
			"npc_vagrant": {
				Name:           "old vagrant",
				AltNames:       []string{"vagrant", "bum"},
				Description:    "A man in three coats, watching everything.",
				WelcomeMessage: "Spare a dime, detective?",
				StartConversationEffects: effect.List{
					effect.SetFlag{Flag: "met_vagrant", Value: true},
				},
				Handlers: map[string]cartridge.Handler{
					"talk": cartridge.Conditional(
						cartridge.HandlerDef{
							Conditions: []cartridge.Condition{{Type: cartridge.CondHasFlag, Flag: "found_casing"}},
							Success: msg("Heard two shots around midnight. Saw a man run for the site.",
								effect.SetFlag{Flag: "office_address_known", Value: true}),
						},
						cartridge.HandlerDef{Success: msg("Spare a dime, detective?")},
					),
				},
			},
			"npc_foreman": {
				Name:         "foreman",
				Description:  "Thick arms, thin patience.",
				InitialState: cartridge.NPCState{Stage: "guarded", Attitude: "hostile"},
			},
		},
		Chapters: []cartridge.Chapter{{
			ID:    "chapter_one",
			Title: "Rain on Brick",
			HappyPath: []cartridge.HappyPathStep{
				{
					ID:              "search_alley",
					CompletionFlags: []string{"found_casing"},
					BaseHint:        "The alley has more to say.",
					DetailedHint:    "Search the pile of trash.",
					ConditionalHints: []cartridge.ConditionalHint{{
						Conditions: []cartridge.Condition{{Type: cartridge.CondHasFlag, Flag: "met_vagrant"}},
						Hint:       "The vagrant kept glancing at the trash pile.",
					}},
				},
				{
					ID:              "open_safe",
					CompletionFlags: []string{"safe_opened"},
					BaseHint:        "Whatever they hid, it's locked up at the site.",
					DetailedHint:    "Go to the wall safe and enter the word scratched beside it.",
				},
			},
			CompletionRequirements: []string{"safe_opened"},
			CompletionMessage:      "The negatives are yours. Chapter one closes.",
		}},
	}
}
