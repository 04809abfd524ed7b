package actions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jwebster45206/noir-engine/pkg/actions"
	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/cartridge/cartridgetest"
	"github.com/jwebster45206/noir-engine/pkg/chat"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/narration"
	"github.com/jwebster45206/noir-engine/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// session plays commands through the engine and reducer the way the game
// service does.
type session struct {
	t   *testing.T
	g   *cartridge.Game
	eng *actions.Engine
	red *state.Reducer
	ps  *state.PlayerState
}

func newSession(t *testing.T, location string, opts ...actions.Option) *session {
	t.Helper()
	return newSessionFor(t, cartridgetest.New(), location, opts...)
}

func newSessionFor(t *testing.T, g *cartridge.Game, location string, opts ...actions.Option) *session {
	t.Helper()
	ps := state.New(g)
	ps.CurrentLocationID = location
	return &session{t: t, g: g, eng: actions.NewEngine(g, opts...), red: state.NewReducer(g, nil), ps: ps}
}

func (s *session) focusOn(id string) {
	s.ps.CurrentFocusID = id
	s.ps.FocusType = effect.FocusObject
}

func (s *session) do(verb command.Verb, targets ...string) ([]effect.Effect, []chat.Message) {
	s.t.Helper()
	cmd := command.Command{Verb: verb}
	if len(targets) > 0 {
		cmd.Target = targets[0]
	}
	if len(targets) > 1 {
		cmd.Target2 = targets[1]
	}
	effects := s.eng.Handle(context.Background(), s.ps, cmd)
	next, msgs, err := s.red.Apply(s.ps, effects)
	require.NoError(s.t, err)
	s.ps = next
	return effects, msgs
}

func (s *session) view() state.View { return state.NewView(s.g, s.ps) }

func texts(msgs []chat.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text
	}
	return out
}

func focusChanges(effects []effect.Effect) []effect.SetFocus {
	var out []effect.SetFocus
	for _, e := range effects {
		if f, ok := e.(effect.SetFocus); ok {
			out = append(out, f)
		}
	}
	return out
}

func TestTake_BlockedByLockedContainer(t *testing.T) {
	s := newSession(t, cartridgetest.Site)
	s.focusOn("obj_scaffolding")

	effects, msgs := s.do(command.Take, "hard hat")
	assert.Equal(t, []string{"The hard hat is secured to the zip ties. You can't get it loose."}, texts(msgs))
	assert.Empty(t, focusChanges(effects))
	assert.NotContains(t, s.ps.Inventory, "item_hard_hat")
}

func TestBreak_BypassesLock(t *testing.T) {
	s := newSession(t, cartridgetest.Site)
	s.focusOn("obj_scaffolding")

	effects, msgs := s.do(command.Break, "zip ties")
	assert.Equal(t, []string{"The zip ties snap."}, texts(msgs))
	assert.Empty(t, focusChanges(effects), "zip ties sit inside the focused scaffolding")
	assert.True(t, s.view().ObjectState("obj_scaffolding_zip_ties").IsBroken)
	assert.True(t, s.view().ObjectState("obj_scaffolding_zip_ties").IsLocked, "breaking leaves the lock flag alone")

	effects, msgs = s.do(command.Take, "hard hat")
	assert.Contains(t, effects, effect.Effect(effect.AddToContainer{EntityID: "item_hard_hat", ContainerID: effect.InventoryContainer}))
	assert.Equal(t, []string{"You take the hard hat."}, texts(msgs))
	assert.Contains(t, s.ps.Inventory, "item_hard_hat")
	assert.Equal(t, "obj_scaffolding", s.ps.CurrentFocusID)

	_, msgs = s.do(command.Break, "zip ties")
	assert.Equal(t, []string{"The zip ties is already broken."}, texts(msgs))
}

func TestTake_SprawlingLocationNeedsFocus(t *testing.T) {
	s := newSession(t, cartridgetest.Site)

	_, msgs := s.do(command.Take, "rebar")
	assert.Equal(t, []string{"The length of rebar is too far away. You'd have to go over to it first."}, texts(msgs))
	assert.NotContains(t, s.ps.Inventory, "item_rebar")

	_, msgs = s.do(command.Goto, "rebar")
	assert.Equal(t, []string{"You move over to the length of rebar."}, texts(msgs))
	assert.Equal(t, "item_rebar", s.ps.CurrentFocusID, "loose items on the ground are their own spot")

	_, msgs = s.do(command.Take, "rebar")
	assert.Equal(t, []string{"You take the length of rebar."}, texts(msgs))
	assert.Contains(t, s.ps.Inventory, "item_rebar")
}

func TestTake_GatedVersusNotFound(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)

	_, msgs := s.do(command.Take, "shell casing")
	require.Len(t, msgs, 1)
	assert.Equal(t, "You haven't found anything like that yet.", msgs[0].Text)
	assert.Equal(t, chat.SpeakerSystem, msgs[0].Speaker)

	_, msgs = s.do(command.Take, "unicorn")
	assert.Equal(t, []string{`You don't see any "unicorn" here.`}, texts(msgs))

	_, msgs = s.do(command.Take, "camera")
	assert.Equal(t, []string{"You already have the camera."}, texts(msgs))

	_, msgs = s.do(command.Take, "  the ")
	assert.Equal(t, []string{"You need to say what you want to take."}, texts(msgs))
}

func TestSearch_RevealsThenTake(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)

	effects, msgs := s.do(command.Search, "trash")
	assert.Equal(t, []string{"Under the newspapers, something brass glints."}, texts(msgs))
	assert.Equal(t, []effect.SetFocus{{FocusID: "obj_trash_pile", FocusType: effect.FocusObject}}, focusChanges(effects))
	assert.True(t, s.ps.Flags.Has("found_casing"))

	_, msgs = s.do(command.Take, "casing")
	assert.Equal(t, []string{"You take the shell casing."}, texts(msgs))
	assert.Contains(t, s.ps.Inventory, "item_shell_casing")

	_, msgs = s.do(command.Search, "trash")
	assert.Equal(t, []string{"Just garbage now."}, texts(msgs))
}

func TestSearch_ClosedContainer(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)

	_, msgs := s.do(command.Search, "dumpster")
	assert.Equal(t, []string{"You'd have to open the dumpster first."}, texts(msgs))

	effects, msgs := s.do(command.Open, "dumpster")
	require.Len(t, msgs, 1)
	assert.Equal(t, "You open the dumpster.", msgs[0].Text)
	assert.Equal(t, "dumpster_open.png", msgs[0].MediaURL, "image reflects the state after the change")
	assert.Equal(t, []effect.SetFocus{{FocusID: "obj_dumpster", FocusType: effect.FocusObject}}, focusChanges(effects))

	_, msgs = s.do(command.Open, "dumpster")
	assert.Equal(t, []string{"The dumpster is already open."}, texts(msgs))

	_, msgs = s.do(command.Search, "dumpster")
	assert.Equal(t, []string{"Searching the dumpster, you find: torn letter."}, texts(msgs))

	_, msgs = s.do(command.Read, "letter")
	assert.Equal(t, []string{"...meet me at the site. Midnight..."}, texts(msgs))
	assert.True(t, s.ps.Flags.Has("read_letter"))
	assert.Equal(t, 1, s.view().ItemState("item_torn_letter").ReadCount)
}

func TestOpen_LockedDrawerUsesHandler(t *testing.T) {
	s := newSession(t, cartridgetest.Site)
	s.focusOn("obj_foreman_desk")

	effects, msgs := s.do(command.Open, "drawer")
	assert.Equal(t, []string{"The drawer is locked tight."}, texts(msgs))
	assert.Empty(t, focusChanges(effects))
	assert.Equal(t, "obj_foreman_desk", s.ps.CurrentFocusID)

	_, msgs = s.do(command.Break, "desk")
	assert.Equal(t, []string{"The foreman's desk isn't something you can break."}, texts(msgs))
	assert.Equal(t, "obj_foreman_desk", s.ps.CurrentFocusID)
}

func TestFailedActionsNeverMoveFocus(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)

	for _, tc := range []struct {
		verb   command.Verb
		target string
	}{
		{command.Break, "dumpster"},
		{command.Take, "fire escape"},
		{command.Read, "dumpster"},
		{command.Close, "dumpster"},
		{command.Open, "nothing at all"},
	} {
		effects, _ := s.do(tc.verb, tc.target)
		assert.Empty(t, focusChanges(effects), "%s %s", tc.verb, tc.target)
		assert.Equal(t, "", s.ps.CurrentFocusID)
	}
}

func TestDrop(t *testing.T) {
	t.Run("to zone storage", func(t *testing.T) {
		s := newSession(t, cartridgetest.Site)

		effects, msgs := s.do(command.Drop, "notebook")
		assert.Contains(t, effects, effect.Effect(effect.AddToContainer{EntityID: "item_notebook", ContainerID: cartridge.ZoneStorageID(cartridgetest.Site)}))
		assert.Equal(t, []string{"You set the notebook down."}, texts(msgs))
		assert.NotContains(t, s.ps.Inventory, "item_notebook")
		assert.True(t, s.view().InZoneStorage("item_notebook", cartridgetest.Site))

		_, msgs = s.do(command.Take, "notebook")
		assert.Equal(t, []string{"You take the notebook."}, texts(msgs), "dropped things stay within reach")
	})

	t.Run("handler", func(t *testing.T) {
		s := newSession(t, cartridgetest.Site)
		var err error
		s.ps, _, err = s.red.Apply(s.ps, []effect.Effect{effect.AddToContainer{EntityID: "item_coffee_mug", ContainerID: effect.InventoryContainer}})
		require.NoError(t, err)

		_, msgs := s.do(command.Drop, "mug")
		assert.Equal(t, []string{"The mug shatters on the concrete."}, texts(msgs))
		assert.True(t, s.view().IsRemoved("item_coffee_mug"))
	})

	t.Run("not carried", func(t *testing.T) {
		s := newSession(t, cartridgetest.Alley)
		_, msgs := s.do(command.Drop, "rebar")
		assert.Equal(t, []string{`You aren't carrying any "rebar".`}, texts(msgs))
	})

	t.Run("undiscovered versus unknown", func(t *testing.T) {
		s := newSession(t, cartridgetest.Alley)
		_, msgs := s.do(command.Drop, "brass key")
		require.Len(t, msgs, 1)
		assert.Equal(t, "You haven't found anything like that yet.", msgs[0].Text)

		_, msgs = s.do(command.Drop, "unicorn horn")
		assert.Equal(t, []string{`You aren't carrying any "unicorn horn".`}, texts(msgs))
	})
}

func TestCombine_UndiscoveredVersusUnknown(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)

	_, msgs := s.do(command.Combine, "brass key", "key blank")
	require.Len(t, msgs, 1)
	assert.Equal(t, "You haven't found anything like that yet.", msgs[0].Text)
	assert.Equal(t, chat.SpeakerSystem, msgs[0].Speaker)

	_, msgs = s.do(command.Combine, "key blank", "unicorn horn")
	assert.Equal(t, []string{`You aren't carrying any "unicorn horn".`}, texts(msgs))
}

func TestCombine_FirstItemTableWins(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)

	_, msgs := s.do(command.Combine, "key blank", "wax impression")
	assert.Equal(t, []string{"The blank won't take the shape from this side."}, texts(msgs))

	_, msgs = s.do(command.Combine, "wax impression", "key blank")
	assert.Equal(t, []string{"You file the blank against the impression until it matches."}, texts(msgs))
	assert.Contains(t, s.ps.Inventory, "item_brass_key")
	assert.NotContains(t, s.ps.Inventory, "item_wax_impression")
	assert.NotContains(t, s.ps.Inventory, "item_key_blank")

	_, msgs = s.do(command.Combine, "camera", "camera")
	assert.Equal(t, []string{"You can't combine something with itself."}, texts(msgs))

	_, msgs = s.do(command.Combine, "camera", "notebook")
	assert.Equal(t, []string{"The camera and the notebook don't go together."}, texts(msgs))
}

func TestPassword(t *testing.T) {
	t.Run("only the focused object is tried", func(t *testing.T) {
		s := newSession(t, cartridgetest.Site)
		s.focusOn("obj_keypad_safe")

		effects, msgs := s.do(command.Password, "the password is Justice")
		require.NotEmpty(t, effects)
		assert.Equal(t, effect.SetEntityState{EntityID: "obj_keypad_safe", Patch: effect.EntityPatch{IsLocked: effect.Bool(false)}}, effects[0])
		assert.Equal(t, effect.EndInteraction{}, effects[len(effects)-1])
		assert.Equal(t, []string{"The keypad beeps twice. The safe swings open."}, texts(msgs))

		v := s.view()
		assert.False(t, v.ObjectState("obj_keypad_safe").IsLocked)
		assert.True(t, v.ObjectState("obj_keypad_safe").IsOpen)
		assert.True(t, v.ObjectState("obj_lockbox").IsLocked)
		assert.True(t, s.ps.Flags.Has("safe_opened"))

		_, msgs = s.do(command.Password, "justice")
		assert.Equal(t, []string{"The wall safe is already unlocked."}, texts(msgs))
	})

	t.Run("a word from another object is wrong here", func(t *testing.T) {
		s := newSession(t, cartridgetest.Site)
		s.focusOn("obj_lockbox")

		_, msgs := s.do(command.Password, "justice")
		assert.Equal(t, []string{"Nothing happens. That isn't it."}, texts(msgs))
		assert.True(t, s.view().ObjectState("obj_lockbox").IsLocked)
		assert.True(t, s.view().ObjectState("obj_keypad_safe").IsLocked)

		_, msgs = s.do(command.Password, "verdict")
		assert.Equal(t, []string{"Something clicks. The evidence lockbox unlocks."}, texts(msgs))
		assert.False(t, s.view().ObjectState("obj_lockbox").IsLocked)
	})

	t.Run("needs focus", func(t *testing.T) {
		s := newSession(t, cartridgetest.Site)
		_, msgs := s.do(command.Password, "justice")
		require.Len(t, msgs, 1)
		assert.Equal(t, "You need to be at something that takes a password first.", msgs[0].Text)
		assert.Equal(t, chat.SpeakerSystem, msgs[0].Speaker)
	})

	t.Run("focus without a keypad", func(t *testing.T) {
		s := newSession(t, cartridgetest.Site)
		s.focusOn("obj_scaffolding")
		_, msgs := s.do(command.Password, "justice")
		assert.Equal(t, []string{"There's nowhere on the scaffolding to enter that."}, texts(msgs))
	})
}

func TestAnswer(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"justice", "justice"},
		{"JUSTICE.", "justice"},
		{"the password is justice", "justice"},
		{`say "justice"`, "justice"},
		{"enter the code justice", "justice"},
		{"the code is 1234", "1234"},
		{"password", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, actions.Answer(tt.in))
		})
	}
}

func TestTalk(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)

	effects, msgs := s.do(command.Talk, "vagrant")
	assert.Equal(t, effect.StartConversation{NPCID: "npc_vagrant"}, effects[0])
	require.Len(t, msgs, 1, "a reply that repeats the welcome line is shown once")
	assert.Equal(t, "Spare a dime, detective?", msgs[0].Text)
	assert.Equal(t, "old vagrant", msgs[0].Speaker)
	assert.Equal(t, "npc_vagrant", s.ps.ConversationNPCID)
	assert.True(t, s.ps.Flags.Has("met_vagrant"))
	assert.Equal(t, 1, s.ps.NPCInteractions["npc_vagrant"])
	assert.Empty(t, focusChanges(effects))

	s.ps.Flags = state.FlagsOf("met_vagrant", "found_casing")
	_, msgs = s.do(command.Talk)
	assert.Equal(t, []string{"Heard two shots around midnight. Saw a man run for the site."}, texts(msgs))
	assert.True(t, s.ps.Flags.Has("office_address_known"))
	assert.Equal(t, 2, s.ps.NPCInteractions["npc_vagrant"])

	_, msgs = s.do(command.Talk, "dumpster")
	assert.Equal(t, []string{"The dumpster isn't much of a conversationalist."}, texts(msgs))
}

func TestTalk_NoHandler(t *testing.T) {
	s := newSession(t, cartridgetest.Site)
	_, msgs := s.do(command.Talk, "foreman")
	assert.Equal(t, []string{"The foreman looks through you and says nothing."}, texts(msgs))
}

func TestGoto(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)

	effects, msgs := s.do(command.Goto, "construction site")
	assert.Equal(t, effect.MoveToLocation{LocationID: cartridgetest.Site}, effects[0])
	assert.Equal(t, []string{"You head to Construction Site.", "Half-built floors loom over mud and floodlights."}, texts(msgs))
	assert.Equal(t, cartridgetest.Site, s.ps.CurrentLocationID)

	_, msgs = s.do(command.Goto, "foreman's office")
	require.Len(t, msgs, 1)
	assert.Equal(t, "You can't get to the Foreman's Office from here.", msgs[0].Text)
	assert.Equal(t, cartridgetest.Site, s.ps.CurrentLocationID)

	effects, msgs = s.do(command.Goto, "scaffolding")
	assert.Equal(t, []effect.SetFocus{{FocusID: "obj_scaffolding", FocusType: effect.FocusObject}}, focusChanges(effects))
	assert.Equal(t, []string{"You move over to the scaffolding."}, texts(msgs))

	effects, msgs = s.do(command.Goto, "scaffolding")
	assert.Empty(t, focusChanges(effects))
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "scaffolding")

	_, msgs = s.do(command.Goto, "drawer")
	assert.Equal(t, "obj_foreman_desk", s.ps.CurrentFocusID, "nested objects focus their container")
	assert.Equal(t, []string{"You move over to the foreman's desk."}, texts(msgs))

	s.ps.Flags = state.FlagsOf("office_address_known")
	_, msgs = s.do(command.Goto, "trailer door")
	assert.Equal(t, cartridgetest.Office, s.ps.CurrentLocationID)
	assert.Equal(t, "", s.ps.CurrentFocusID)
	assert.Equal(t, "You head to Foreman's Office.", msgs[0].Text)

	_, msgs = s.do(command.Goto, "office")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "Foreman's Office")
	assert.Equal(t, cartridgetest.Office, s.ps.CurrentLocationID)
}

func TestGoto_ThingInAnotherLocation(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)

	effects, msgs := s.do(command.Goto, "wall safe")
	require.NotEmpty(t, effects)
	assert.Equal(t, effect.MoveToLocation{LocationID: cartridgetest.Site}, effects[0])
	assert.Equal(t, []effect.SetFocus{{FocusID: "obj_keypad_safe", FocusType: effect.FocusObject}}, focusChanges(effects))
	assert.Equal(t, []string{
		"You head to Construction Site.",
		"Half-built floors loom over mud and floodlights.",
		"You move over to the wall safe.",
	}, texts(msgs))
	assert.Equal(t, cartridgetest.Site, s.ps.CurrentLocationID)
	assert.Equal(t, "obj_keypad_safe", s.ps.CurrentFocusID)

	t.Run("nested thing focuses its container", func(t *testing.T) {
		s := newSession(t, cartridgetest.Alley)
		s.do(command.Goto, "drawer")
		assert.Equal(t, cartridgetest.Site, s.ps.CurrentLocationID)
		assert.Equal(t, "obj_foreman_desk", s.ps.CurrentFocusID)
	})

	t.Run("no open route", func(t *testing.T) {
		s := newSession(t, cartridgetest.Office)
		effects, msgs := s.do(command.Goto, "wall safe")
		assert.Empty(t, focusChanges(effects))
		require.Len(t, msgs, 1)
		assert.Equal(t, "You can't get to the wall safe from here.", msgs[0].Text)
		assert.Equal(t, chat.SpeakerSystem, msgs[0].Speaker)
		assert.Equal(t, cartridgetest.Office, s.ps.CurrentLocationID)
	})

	t.Run("undiscovered thing stays gated", func(t *testing.T) {
		s := newSession(t, cartridgetest.Site)
		_, msgs := s.do(command.Goto, "shell casing")
		assert.Equal(t, []string{"You haven't found anything like that yet."}, texts(msgs))
		assert.Equal(t, cartridgetest.Site, s.ps.CurrentLocationID)
	})
}

func TestSprawlingReach_AnyVerb(t *testing.T) {
	g := cartridgetest.Unbuilt()
	g.Objects["obj_foreman_desk"].NearbyNPCs = []string{"npc_foreman"}
	require.NoError(t, g.Build())

	tests := []struct {
		verb   command.Verb
		target string
		name   string
	}{
		{command.Open, "wall safe", "wall safe"},
		{command.Search, "desk", "foreman's desk"},
		{command.Examine, "lockbox", "evidence lockbox"},
		{command.Smell, "blood stain", "blood stain"},
		{command.Talk, "foreman", "foreman"},
	}
	for _, tt := range tests {
		t.Run(string(tt.verb), func(t *testing.T) {
			s := newSessionFor(t, g, cartridgetest.Site)
			s.focusOn("obj_scaffolding")

			effects, msgs := s.do(tt.verb, tt.target)
			assert.Equal(t, []string{"The " + tt.name + " is too far away. You'd have to go over to it first."}, texts(msgs))
			assert.Empty(t, focusChanges(effects))
			assert.Equal(t, "obj_scaffolding", s.ps.CurrentFocusID)
			assert.Empty(t, s.ps.ConversationNPCID)
		})
	}
}

func TestCamera(t *testing.T) {
	s := newSession(t, cartridgetest.Site)
	s.focusOn("obj_blood_stain")

	effects, msgs := s.do(command.Use, "camera")
	assert.Equal(t, effect.SetFocus{FocusID: "item_camera", FocusType: effect.FocusDevice}, effects[0])
	assert.Equal(t, []string{"You raise the camera. Point it at something."}, texts(msgs))
	assert.Equal(t, "item_camera", s.ps.ActiveDeviceID)
	assert.Equal(t, "obj_blood_stain", s.ps.CurrentFocusID, "raising a device keeps the object focus")

	_, msgs = s.do(command.Use, "stain")
	assert.Equal(t, []string{"You snap a photo of the blood stain."}, texts(msgs))
	assert.Contains(t, s.ps.Inventory, actions.PhotoPrefix+"obj_blood_stain")
	assert.Equal(t, "", s.ps.ActiveDeviceID)

	effects, _ = s.do(command.Use, "camera", "blood stain")
	for _, e := range effects {
		_, created := e.(effect.CreateDynamicItem)
		assert.False(t, created, "a second photo of the same subject adds nothing")
	}

	_, msgs = s.do(command.Use, "camera", "rebar")
	assert.Equal(t, []string{"The length of rebar is too far away. You'd have to go over to it first."}, texts(msgs))

	_, msgs = s.do(command.Drop, "photo of the blood stain")
	assert.Equal(t, []string{"You set the photo of the blood stain down."}, texts(msgs))
}

func TestCamera_NotPhotographable(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)
	_, msgs := s.do(command.Use, "camera", "dumpster")
	assert.Equal(t, []string{"There's nothing worth photographing about the dumpster."}, texts(msgs))
}

func TestUse(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)

	effects, msgs := s.do(command.Use, "phone")
	assert.Equal(t, []string{"No signal down here."}, texts(msgs))
	assert.Empty(t, focusChanges(effects), "personal equipment is not a place")

	_, msgs = s.do(command.Use, "dumpster")
	assert.Equal(t, []string{"You can't think of a way to use the dumpster."}, texts(msgs))

	_, msgs = s.do(command.Use, "wax impression", "key blank")
	assert.Equal(t, []string{"You file the blank against the impression until it matches."}, texts(msgs))
}

func TestLeave(t *testing.T) {
	s := newSession(t, cartridgetest.Site)
	s.focusOn("obj_keypad_safe")
	s.ps.InteractionID = "obj_keypad_safe"
	s.ps.ActiveDeviceID = "item_camera"
	s.ps.ConversationNPCID = "npc_foreman"

	steps := []struct {
		want effect.Effect
		text string
	}{
		{effect.EndConversation{}, "You end the conversation with foreman."},
		{effect.EndInteraction{}, "You step back from the wall safe."},
		{effect.ClearDeviceFocus{}, "You lower the camera."},
		{effect.SetFocus{FocusType: effect.FocusNone}, "You step back from the wall safe."},
	}
	for _, step := range steps {
		effects, msgs := s.do(command.Leave)
		assert.Equal(t, step.want, effects[0])
		assert.Equal(t, []string{step.text}, texts(msgs))
	}

	_, msgs := s.do(command.Leave)
	require.Len(t, msgs, 1)
	assert.Equal(t, "You're not in the middle of anything.", msgs[0].Text)
	assert.Equal(t, chat.SpeakerSystem, msgs[0].Speaker)
}

func TestExamineAndLook(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)

	effects, msgs := s.do(command.Examine, "bin")
	require.Len(t, msgs, 1)
	assert.Equal(t, "A rust-streaked dumpster, lid down.", msgs[0].Text)
	assert.Equal(t, "dumpster.png", msgs[0].MediaURL)
	assert.Equal(t, []effect.SetFocus{{FocusID: "obj_dumpster", FocusType: effect.FocusObject}}, focusChanges(effects))

	_, msgs = s.do(command.Look)
	assert.Equal(t, []string{"You're at the dumpster. A rust-streaked dumpster, lid down."}, texts(msgs))

	_, msgs = s.do(command.Examine, "cigarette")
	assert.Equal(t, []string{"You see nothing special about the cigarette butt."}, texts(msgs))

	_, _ = s.do(command.Leave)
	_, msgs = s.do(command.Look)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Rain needles down between brick walls.", msgs[0].Text)
	assert.Equal(t, "alley.png", msgs[0].MediaURL)
	assert.Equal(t, "You see: dumpster, pile of trash, fire escape, cigarette butt, old vagrant.", msgs[1].Text)
}

func TestReadAndInventory(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)

	_, msgs := s.do(command.Read, "notebook")
	assert.Equal(t, []string{"Your case notes."}, texts(msgs))
	_, _ = s.do(command.Read, "notebook")
	assert.Equal(t, 2, s.view().ItemState("item_notebook").ReadCount)

	_, msgs = s.do(command.Inventory)
	assert.Equal(t, []string{"You're carrying: camera, notebook, wax impression, key blank."}, texts(msgs))

	s.ps.Inventory = nil
	_, msgs = s.do(command.Inventory)
	assert.Equal(t, []string{"Your pockets are empty."}, texts(msgs))
}

func TestClimbAndMove(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)

	_, msgs := s.do(command.Climb, "fire escape")
	assert.Equal(t, []string{"You haul yourself up onto the fire escape. Nothing up here."}, texts(msgs))
	assert.Equal(t, "obj_fire_escape", s.ps.CurrentFocusID)

	_, msgs = s.do(command.Climb, "dumpster")
	assert.Equal(t, []string{"You haul yourself over the lip and into the dumpster."}, texts(msgs))
	assert.True(t, s.ps.Flags.Has("in_dumpster"))

	_, msgs = s.do(command.Move, "dumpster")
	assert.Equal(t, []string{"The dumpster won't budge."}, texts(msgs))
}

func TestSmell(t *testing.T) {
	s := newSession(t, cartridgetest.Site)
	s.focusOn("obj_blood_stain")

	_, msgs := s.do(command.Smell, "blood")
	assert.Equal(t, []string{"Copper and rust."}, texts(msgs))
}

func TestHint(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)

	effects, msgs := s.do(command.Hint)
	assert.Equal(t, effect.SetFlag{Flag: actions.HintedFlag("search_alley"), Value: true}, effects[0])
	assert.Equal(t, []string{"The alley has more to say."}, texts(msgs))

	_, msgs = s.do(command.Hint)
	assert.Equal(t, []string{"Search the pile of trash."}, texts(msgs))

	s.ps.Flags = state.FlagsOf("met_vagrant")
	_, msgs = s.do(command.Hint)
	assert.Equal(t, []string{"The vagrant kept glancing at the trash pile."}, texts(msgs))

	s.ps.Flags = state.FlagsOf("found_casing", "safe_opened")
	_, msgs = s.do(command.Hint)
	assert.Equal(t, []string{"You've done everything this chapter asks of you."}, texts(msgs))
}

func TestEpilogue(t *testing.T) {
	s := newSession(t, cartridgetest.Site)
	assert.Nil(t, s.eng.Epilogue(s.ps))

	s.ps.Flags = state.FlagsOf("safe_opened")
	effects := s.eng.Epilogue(s.ps)
	require.Len(t, effects, 2)
	assert.Equal(t, effect.SetFlag{Flag: actions.CompletedFlag("chapter_one"), Value: true}, effects[0])
	assert.Equal(t, effect.Narrate("The negatives are yours. Chapter one closes."), effects[1])

	next, _, err := s.red.Apply(s.ps, effects)
	require.NoError(t, err)
	assert.Nil(t, s.eng.Epilogue(next), "completion is announced once")
}

func TestHandle_UnknownVerb(t *testing.T) {
	s := newSession(t, cartridgetest.Alley)
	_, msgs := s.do(command.Verb("dance"))
	require.Len(t, msgs, 1)
	assert.Equal(t, "You're not sure how to do that.", msgs[0].Text)
	assert.Equal(t, chat.SpeakerSystem, msgs[0].Speaker)
}

func TestHandle_Deterministic(t *testing.T) {
	script := []command.Command{
		{Verb: command.Search, Target: "trash"},
		{Verb: command.Take, Target: "casing"},
		{Verb: command.Talk, Target: "vagrant"},
		{Verb: command.Goto, Target: "dumpster"},
		{Verb: command.Goto, Target: "dumpster"},
		{Verb: command.Goto, Target: "site"},
		{Verb: command.Goto, Target: "scaffolding"},
		{Verb: command.Take, Target: "hard hat"},
	}
	play := func() ([][]effect.Effect, *state.PlayerState) {
		s := newSession(t, cartridgetest.Alley)
		var all [][]effect.Effect
		for _, cmd := range script {
			effects, _ := s.do(cmd.Verb, cmd.Target)
			all = append(all, effects)
		}
		return all, s.ps
	}
	first, ps1 := play()
	second, ps2 := play()
	assert.Equal(t, first, second)
	assert.Equal(t, ps1.Inventory, ps2.Inventory)
	assert.Equal(t, ps1.Flags.Keys(), ps2.Flags.Keys())
	assert.Equal(t, ps1.CurrentFocusID, ps2.CurrentFocusID)
}

type taggingNarrator struct{ fail bool }

func (n taggingNarrator) Expand(_ context.Context, req narration.Request) (string, error) {
	if n.fail {
		return "", errors.New("model offline")
	}
	return "[" + req.Keyword + "] " + req.Fallback, nil
}

func TestWithNarrator(t *testing.T) {
	s := newSession(t, cartridgetest.Alley, actions.WithNarrator(taggingNarrator{}))
	_, msgs := s.do(command.Take, "cigarette butt")
	assert.Equal(t, []string{"[taken] You take the cigarette butt."}, texts(msgs))

	_, msgs = s.do(command.Take, "unicorn")
	assert.Equal(t, []string{`You don't see any "unicorn" here.`}, texts(msgs), "system lines are never dressed up")

	s = newSession(t, cartridgetest.Alley, actions.WithNarrator(taggingNarrator{fail: true}))
	_, msgs = s.do(command.Take, "cigarette butt")
	assert.Equal(t, []string{"You take the cigarette butt."}, texts(msgs))
}
