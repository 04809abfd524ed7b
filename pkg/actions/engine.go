// Package actions implements the per-verb command handlers. Every handler
// reads the world through a state.View and answers with effects; nothing
// here writes player state.
package actions

import (
	"context"
	"log/slog"

	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/focus"
	"github.com/jwebster45206/noir-engine/pkg/narration"
	"github.com/jwebster45206/noir-engine/pkg/outcome"
	"github.com/jwebster45206/noir-engine/pkg/resolve"
	"github.com/jwebster45206/noir-engine/pkg/state"
)

type handlerFunc func(ctx context.Context, t *turn, cmd command.Command) []effect.Effect

// Engine dispatches commands to verb handlers.
type Engine struct {
	game     *cartridge.Game
	narrator narration.Expander
	focus    *focus.Manager
	logger   *slog.Logger
	handlers map[command.Verb]handlerFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithNarrator sets the flavor-text service. Without one, static text is used.
func WithNarrator(n narration.Expander) Option {
	return func(e *Engine) { e.narrator = n }
}

// WithFocusPolicy replaces the default focus transition table.
func WithFocusPolicy(p focus.Policy) Option {
	return func(e *Engine) { e.focus = focus.NewManager(p) }
}

// WithLogger sets the logger for data integrity problems.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine for a built cartridge.
func NewEngine(g *cartridge.Game, opts ...Option) *Engine {
	e := &Engine{
		game:     g,
		narrator: narration.Static{},
		focus:    focus.NewManager(nil),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.handlers = map[command.Verb]handlerFunc{
		command.Take:      handleTake,
		command.Drop:      handleDrop,
		command.Open:      handleOpen,
		command.Close:     handleClose,
		command.Break:     handleBreak,
		command.Search:    handleSearch,
		command.Smell:     handleSmell,
		command.Climb:     handleClimb,
		command.Move:      handleMove,
		command.Talk:      handleTalk,
		command.Combine:   handleCombine,
		command.Goto:      handleGoto,
		command.Examine:   handleExamine,
		command.Look:      handleLook,
		command.Read:      handleRead,
		command.Use:       handleUse,
		command.Inventory: handleInventory,
		command.Password:  handlePassword,
		command.Leave:     handleLeave,
		command.Hint:      handleHint,
	}
	return e
}

// Game returns the cartridge the engine runs.
func (e *Engine) Game() *cartridge.Game { return e.game }

// Handle resolves one command against ps and returns the effects to apply.
// Player mistakes come back as messages, never as errors.
func (e *Engine) Handle(ctx context.Context, ps *state.PlayerState, cmd command.Command) []effect.Effect {
	t := &turn{engine: e, game: e.game, v: state.NewView(e.game, ps)}
	h, ok := e.handlers[cmd.Verb]
	if !ok {
		return []effect.Effect{t.system(cartridge.MsgUnknownVerb)}
	}
	effects := h(ctx, t, cmd)
	e.logger.Debug("Handled command", "verb", cmd.Verb, "target", cmd.Target, "target2", cmd.Target2, "effects", len(effects))
	return effects
}

// turn carries what a handler needs for one command.
type turn struct {
	engine *Engine
	game   *cartridge.Game
	v      state.View
}

func (t *turn) ps() *state.PlayerState { return t.v.State }

func (t *turn) name(id string) string { return t.v.Name(id) }

func (t *turn) system(key string, pairs ...string) effect.Effect {
	return effect.System(t.game.Say(key, pairs...))
}

// narrate renders a narrator message, letting the narration service dress
// up the static text.
func (t *turn) narrate(ctx context.Context, key string, pairs ...string) effect.ShowMessage {
	fallback := t.game.Say(key, pairs...)
	req := narration.Request{Keyword: key, Fallback: fallback, Context: map[string]string{
		"location": t.v.State.CurrentLocationID,
	}}
	for i := 0; i+1 < len(pairs); i += 2 {
		req.Context[pairs[i]] = pairs[i+1]
	}
	return effect.Narrate(narration.Text(ctx, t.engine.narrator, req))
}

// resolve runs the shared target lookup. On failure it returns the message
// to show instead.
func (t *turn) resolve(ctx context.Context, phrase string, opts resolve.Options, verb command.Verb) (resolve.Resolution, []effect.Effect) {
	r := resolve.FindEntity(t.v, phrase, opts)
	if r.Found() {
		return r, nil
	}
	text := resolve.FailureMessage(t.v, r, string(verb))
	switch r.Status {
	case resolve.OutOfReach:
		return r, []effect.Effect{t.narrate(ctx, cartridge.MsgOutOfReach, "name", t.name(r.ID))}
	case resolve.Blocked:
		return r, []effect.Effect{effect.Narrate(text)}
	}
	return r, []effect.Effect{effect.System(text)}
}

func (t *turn) emptyTarget(verb command.Verb) []effect.Effect {
	return []effect.Effect{t.system(cartridge.MsgEmptyTarget, "verb", string(verb))}
}

// dataError reports broken cartridge data to the operator and a neutral
// line to the player.
func (t *turn) dataError(id string, verb command.Verb, msg string) []effect.Effect {
	t.engine.logger.Error("Cartridge data error", "game_id", t.game.ID, "entity", id, "verb", verb, "error", msg)
	return []effect.Effect{effect.Narrate(t.game.Message(cartridge.MsgDataError))}
}

// run evaluates a handler definition and appends the focus change it earns.
func (t *turn) run(id string, verb command.Verb, def *cartridge.HandlerDef, extra ...effect.Effect) []effect.Effect {
	out, isFail := outcome.Evaluate(def, t.v)
	if out == nil {
		return t.dataError(id, verb, "handler has no outcome for the taken branch")
	}
	kind, _ := t.v.KindOf(id)
	effects := append([]effect.Effect{}, extra...)
	if isFail {
		effects = nil
	}
	effects = append(effects, outcome.BuildEffects(out, outcome.Source{EntityID: id, EntityType: kind})...)
	return t.withFocus(effects, verb, id, !isFail)
}

// withFocus appends the focus manager's verdict for the finished action.
func (t *turn) withFocus(effects []effect.Effect, verb command.Verb, id string, succeeded bool) []effect.Effect {
	if f := t.engine.focus.Next(t.v, focus.Request{Verb: verb, TargetID: id, Succeeded: succeeded}); f != nil {
		effects = append(effects, f)
	}
	return effects
}

// success builds the usual default-path result: state changes, a message
// with the entity's post-change image, then any focus change.
func (t *turn) success(id string, verb command.Verb, msg effect.ShowMessage, changes ...effect.Effect) []effect.Effect {
	kind, _ := t.v.KindOf(id)
	msg.ImageID = id
	msg.ImageEntityType = string(kind)
	effects := append(append([]effect.Effect{}, changes...), msg)
	return t.withFocus(effects, verb, id, true)
}

func (t *turn) say(ctx context.Context, key string, pairs ...string) []effect.Effect {
	return []effect.Effect{t.narrate(ctx, key, pairs...)}
}
