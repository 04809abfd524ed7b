package outcome_test

import (
	"testing"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/cartridge/cartridgetest"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/outcome"
	"github.com/jwebster45206/noir-engine/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newView(t *testing.T, g *cartridge.Game, flags ...string) state.View {
	t.Helper()
	if g == nil {
		g = cartridgetest.New()
	}
	ps := state.New(g)
	ps.Flags = state.FlagsOf(flags...)
	return state.NewView(g, ps)
}

func TestBuildEffects_StateChangesPrecedeMessage(t *testing.T) {
	o := &cartridge.Outcome{
		Message: "The lid bangs open.",
		Effects: effect.List{
			effect.Narrate("A rat bolts."),
			effect.SetEntityState{EntityID: "obj_dumpster", Patch: effect.EntityPatch{IsOpen: effect.Bool(true)}},
			effect.SetFlag{Flag: "opened_dumpster", Value: true},
			effect.System("Achievement unlocked."),
			effect.RevealObject{EntityID: "item_torn_letter", RevealedBy: "obj_dumpster"},
		},
	}

	got := outcome.BuildEffects(o, outcome.Source{EntityID: "obj_dumpster", EntityType: cartridge.KindObject})
	require.Len(t, got, 6)

	types := make([]effect.Type, len(got))
	for i, e := range got {
		types[i] = e.Type()
	}
	assert.Equal(t, []effect.Type{
		effect.TypeSetEntityState,
		effect.TypeSetFlag,
		effect.TypeRevealObject,
		effect.TypeShowMessage,
		effect.TypeShowMessage,
		effect.TypeShowMessage,
	}, types)

	primary := got[3].(effect.ShowMessage)
	assert.Equal(t, "The lid bangs open.", primary.Text)
	assert.Equal(t, "obj_dumpster", primary.ImageID)
	assert.Equal(t, "object", primary.ImageEntityType)
	assert.Equal(t, "A rat bolts.", got[4].(effect.ShowMessage).Text)
	assert.Equal(t, "Achievement unlocked.", got[5].(effect.ShowMessage).Text)
}

func TestBuildEffects_Edges(t *testing.T) {
	assert.Nil(t, outcome.BuildEffects(nil, outcome.Source{}))

	noMessage := outcome.BuildEffects(&cartridge.Outcome{
		Effects: effect.List{effect.SetFlag{Flag: "a", Value: true}},
	}, outcome.Source{})
	assert.Len(t, noMessage, 1)

	fail := outcome.BuildEffects(&cartridge.Outcome{Message: "The lid won't budge."}, outcome.Source{EntityID: "obj_dumpster", EntityType: cartridge.KindObject})
	require.Len(t, fail, 1)
	msg := fail[0].(effect.ShowMessage)
	assert.Equal(t, "obj_dumpster", msg.ImageID, "fail messages still show the entity")
	assert.Equal(t, "object", msg.ImageEntityType)
}

func TestToMessage_Media(t *testing.T) {
	tests := []struct {
		name    string
		media   *cartridge.OutcomeMedia
		src     outcome.Source
		url     string
		mtype   effect.MediaType
		imageID string
	}{
		{"explicit image", &cartridge.OutcomeMedia{URL: "https://cdn/x/scene.PNG"}, outcome.Source{EntityID: "obj_dumpster"}, "https://cdn/x/scene.PNG", effect.MediaImage, ""},
		{"explicit video", &cartridge.OutcomeMedia{URL: "clips/snap.mp4?v=2"}, outcome.Source{}, "clips/snap.mp4?v=2", effect.MediaVideo, ""},
		{"mov video", &cartridge.OutcomeMedia{URL: "x.MOV"}, outcome.Source{}, "x.MOV", effect.MediaVideo, ""},
		{"deferred entity image", nil, outcome.Source{EntityID: "obj_dumpster", EntityType: cartridge.KindObject}, "", "", "obj_dumpster"},
		{"hint only", &cartridge.OutcomeMedia{HintKeyword: "rain"}, outcome.Source{EntityID: "item_rebar", EntityType: cartridge.KindItem}, "", "", "item_rebar"},
		{"nothing", nil, outcome.Source{}, "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := outcome.ToMessage(&cartridge.Outcome{Message: "x", Media: tt.media}, tt.src)
			assert.Equal(t, tt.url, m.MediaURL)
			assert.Equal(t, tt.mtype, m.MediaType)
			assert.Equal(t, tt.imageID, m.ImageID)
			assert.Equal(t, effect.SpeakerNarrator, m.Speaker)
		})
	}

	m := outcome.ToMessage(&cartridge.Outcome{Message: "Hey.", Speaker: "npc_vagrant"}, outcome.Source{})
	assert.Equal(t, effect.Speaker("npc_vagrant"), m.Speaker)
}

func TestEffectiveHandler_ConditionalChain(t *testing.T) {
	def := outcome.EffectiveHandler(newView(t, nil), "obj_trash_pile", "search")
	require.NotNil(t, def)
	assert.Equal(t, "Under the newspapers, something brass glints.", def.Success.Message)

	def = outcome.EffectiveHandler(newView(t, nil, "found_casing"), "obj_trash_pile", "search")
	require.NotNil(t, def)
	assert.Equal(t, "Just garbage now.", def.Success.Message)
}

func TestEffectiveHandler_ChainWithNoMatch(t *testing.T) {
	g := cartridgetest.Unbuilt()
	g.Objects["obj_fire_escape"].Handlers = map[string]cartridge.Handler{
		"climb": cartridge.Conditional(cartridge.HandlerDef{
			Conditions: []cartridge.Condition{{Type: cartridge.CondHasFlag, Flag: "never"}},
			Success:    &cartridge.Outcome{Message: "Up."},
		}),
	}
	require.NoError(t, g.Build())
	assert.Nil(t, outcome.EffectiveHandler(newView(t, g), "obj_fire_escape", "climb"))
}

func TestEffectiveHandler_StateMapTakesPrecedence(t *testing.T) {
	g := cartridgetest.Unbuilt()
	g.Objects["obj_dumpster"].States = map[string]cartridge.StateDef{
		"tipped": {Handlers: map[string]cartridge.Handler{
			"climb": cartridge.Single(cartridge.HandlerDef{Success: &cartridge.Outcome{Message: "It rocks under you."}}),
		}},
	}
	require.NoError(t, g.Build())

	ps := state.New(g)
	v := state.NewView(g, ps)
	assert.Equal(t, "You haul yourself over the lip and into the dumpster.", outcome.EffectiveHandler(v, "obj_dumpster", "climb").Success.Message)

	ps.ObjectStates = map[string]effect.EntityPatch{"obj_dumpster": {CurrentStateID: effect.String("tipped")}}
	assert.Equal(t, "It rocks under you.", outcome.EffectiveHandler(v, "obj_dumpster", "climb").Success.Message)
	assert.Nil(t, outcome.EffectiveHandler(v, "obj_dumpster", "missing"))
}

func TestClassify(t *testing.T) {
	v := newView(t, nil)
	tests := []struct {
		id, verb string
		want     outcome.Class
	}{
		{"obj_dumpster", "climb", outcome.HasHandler},
		{"obj_fire_escape", "climb", outcome.CapabilityOnly},
		{"obj_trash_pile", "climb", outcome.NoCapability},
		{"obj_scaffolding_zip_ties", "break", outcome.HasHandler},
		{"obj_dumpster", "break", outcome.NoCapability},
		{"item_camera", "use", outcome.CapabilityOnly},
		{"npc_foreman", "talk", outcome.CapabilityOnly},
		{"npc_foreman", "take", outcome.NoCapability},
		{"obj_dumpster", "examine", outcome.CapabilityOnly},
	}
	for _, tt := range tests {
		t.Run(tt.id+"/"+tt.verb, func(t *testing.T) {
			got, _ := outcome.Classify(v, tt.id, tt.verb)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestEvaluate(t *testing.T) {
	g := cartridgetest.New()
	drawer, _ := g.Object("obj_desk_drawer")
	def := &drawer.Handlers["open"].Defs()[0]

	out, isFail := outcome.Evaluate(def, newView(t, g))
	assert.True(t, isFail)
	assert.Equal(t, "The drawer is locked tight.", out.Message)

	ps := state.New(g)
	ps.Inventory = append(ps.Inventory, "item_brass_key")
	out, isFail = outcome.Evaluate(def, state.NewView(g, ps))
	assert.False(t, isFail)
	assert.Equal(t, "The brass key turns. The drawer slides open.", out.Message)

	out, isFail = outcome.Evaluate(&cartridge.HandlerDef{
		Conditions: []cartridge.Condition{{Type: cartridge.CondHasFlag, Flag: "never"}},
		Fallback:   "Not yet.",
	}, newView(t, g))
	assert.True(t, isFail)
	assert.Equal(t, "Not yet.", out.Message)

	out, _ = outcome.Evaluate(&cartridge.HandlerDef{}, newView(t, g))
	assert.Nil(t, out)
}

func TestCombineHandler(t *testing.T) {
	v := newView(t, nil)
	ab := outcome.CombineHandler(v, "item_wax_impression", "item_key_blank")
	ba := outcome.CombineHandler(v, "item_key_blank", "item_wax_impression")
	require.NotNil(t, ab)
	require.NotNil(t, ba)
	assert.NotEqual(t, ab.Success.Message, ba.Success.Message)
	assert.Nil(t, outcome.CombineHandler(v, "item_camera", "item_notebook"))
}
