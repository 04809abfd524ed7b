package conditionals_test

import (
	"testing"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/cartridge/cartridgetest"
	"github.com/jwebster45206/noir-engine/pkg/conditionals"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/state"
	"github.com/stretchr/testify/assert"
)

func view() state.View {
	g := cartridgetest.New()
	ps := state.New(g)
	ps.Flags = state.FlagsOf("met_vagrant")
	ps.ObjectStates = map[string]effect.EntityPatch{
		"obj_dumpster": {IsOpen: effect.Bool(true), CurrentStateID: effect.String("searched")},
	}
	ps.NPCStates = map[string]effect.EntityPatch{"npc_vagrant": {Trust: effect.Int(3)}}
	return state.NewView(g, ps)
}

func TestEvaluate(t *testing.T) {
	v := view()

	tests := []struct {
		name     string
		conds    []cartridge.Condition
		expected bool
	}{
		{"nil list is vacuously true", nil, true},
		{"empty list is vacuously true", []cartridge.Condition{}, true},
		{"has flag", []cartridge.Condition{{Type: cartridge.CondHasFlag, Flag: "met_vagrant"}}, true},
		{"missing flag", []cartridge.Condition{{Type: cartridge.CondHasFlag, Flag: "found_casing"}}, false},
		{"no flag", []cartridge.Condition{{Type: cartridge.CondNoFlag, Flag: "found_casing"}}, true},
		{"has item", []cartridge.Condition{{Type: cartridge.CondHasItem, EntityID: "item_camera"}}, true},
		{"no item", []cartridge.Condition{{Type: cartridge.CondNoItem, EntityID: "item_brass_key"}}, true},
		{"at location", []cartridge.Condition{{Type: cartridge.CondAtLocation, EntityID: cartridgetest.Alley}}, true},
		{"elsewhere", []cartridge.Condition{{Type: cartridge.CondAtLocation, EntityID: cartridgetest.Site}}, false},
		{"revealed", []cartridge.Condition{{Type: cartridge.CondRevealed, EntityID: "item_shell_casing"}}, false},
		{"state bool", []cartridge.Condition{{Type: cartridge.CondState, EntityID: "obj_dumpster", Key: "isOpen", Value: true}}, true},
		{"state bool mismatch", []cartridge.Condition{{Type: cartridge.CondState, EntityID: "obj_dumpster", Key: "isLocked", Value: true}}, false},
		{"state string", []cartridge.Condition{{Type: cartridge.CondState, EntityID: "obj_dumpster", Key: "currentStateId", Value: "searched"}}, true},
		{"state number from json", []cartridge.Condition{{Type: cartridge.CondState, EntityID: "npc_vagrant", Key: "trust", Value: float64(3)}}, true},
		{"state unknown key", []cartridge.Condition{{Type: cartridge.CondState, EntityID: "obj_dumpster", Key: "colour", Value: "red"}}, false},
		{"unknown type", []cartridge.Condition{{Type: "SOMETIMES"}}, false},
		{
			name: "all must hold",
			conds: []cartridge.Condition{
				{Type: cartridge.CondHasFlag, Flag: "met_vagrant"},
				{Type: cartridge.CondHasFlag, Flag: "found_casing"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, conditionals.Evaluate(tt.conds, v))
		})
	}
}

func TestIsActionApplicable(t *testing.T) {
	v := view()

	tests := []struct {
		verb     string
		id       string
		expected bool
	}{
		{"unlock", "obj_desk_drawer", true},
		{"unlock", "obj_dumpster", false},
		{"lock", "obj_dumpster", true},
		{"open", "obj_desk_drawer", true},
		{"open", "obj_dumpster", false},
		{"close", "obj_dumpster", true},
		{"close", "obj_desk_drawer", false},
		{"break", "obj_scaffolding_zip_ties", true},
		{"move", "obj_foreman_desk", true},
		{"unlock", "item_camera", false},
		{"dance", "obj_dumpster", false},
	}
	for _, tt := range tests {
		t.Run(tt.verb+" "+tt.id, func(t *testing.T) {
			assert.Equal(t, tt.expected, conditionals.IsActionApplicable(tt.verb, tt.id, v))
		})
	}
}
