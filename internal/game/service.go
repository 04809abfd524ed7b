// Package game runs player turns: it loads state, interprets the command,
// resolves it into effects, applies them and persists the result.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/noir-engine/internal/logger"
	"github.com/jwebster45206/noir-engine/internal/services"
	"github.com/jwebster45206/noir-engine/pkg/actions"
	"github.com/jwebster45206/noir-engine/pkg/cartridge"
	"github.com/jwebster45206/noir-engine/pkg/chat"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/effect"
	"github.com/jwebster45206/noir-engine/pkg/narration"
	"github.com/jwebster45206/noir-engine/pkg/prompts"
	"github.com/jwebster45206/noir-engine/pkg/state"
	"github.com/jwebster45206/noir-engine/pkg/storage"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrUnknownCartridge  = errors.New("unknown cartridge")
	ErrEmptyCommand      = errors.New("command cannot be empty")
	ErrNoCartridgeLoaded = errors.New("no cartridge loaded")
)

// recentLines is how much transcript the interpreter gets for context.
const recentLines = prompts.DefaultHistoryLimit

// runtime is everything needed to play one cartridge.
type runtime struct {
	game    *cartridge.Game
	engine  *actions.Engine
	reducer *state.Reducer
}

// Service plays games. It is safe for concurrent use; commands for the same
// game run one at a time.
type Service struct {
	runtimes    map[string]*runtime
	store       storage.Storage
	interpreter *services.Interpreter
	locks       *keyedMutex
	logger      *slog.Logger
}

// NewService builds a runtime per cartridge. llm may be nil, in which case
// narration stays static and only plain phrasings are understood.
func NewService(games map[string]*cartridge.Game, store storage.Storage, llm services.LLMService, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		runtimes:    make(map[string]*runtime, len(games)),
		store:       store,
		interpreter: services.NewInterpreter(llm, log),
		locks:       newKeyedMutex(),
		logger:      log,
	}
	for id, g := range games {
		opts := []actions.Option{actions.WithLogger(log)}
		if llm != nil {
			opts = append(opts, actions.WithNarrator(narration.NewRetrying(services.NewLLMNarrator(llm, g.ContentRating(), log), log)))
		}
		s.runtimes[id] = &runtime{
			game:    g,
			engine:  actions.NewEngine(g, opts...),
			reducer: state.NewReducer(g, log),
		}
	}
	return s
}

// WithInterpreter replaces the interpreter, for tests.
func (s *Service) WithInterpreter(i *services.Interpreter) *Service {
	s.interpreter = i
	return s
}

// Cartridges lists the playable cartridge ids in sorted order.
func (s *Service) Cartridges() []string {
	return slices.Sorted(maps.Keys(s.runtimes))
}

func (s *Service) runtimeFor(cartridgeID string) (*runtime, error) {
	if cartridgeID == "" {
		ids := s.Cartridges()
		if len(ids) == 0 {
			return nil, ErrNoCartridgeLoaded
		}
		cartridgeID = ids[0]
	}
	rt, ok := s.runtimes[cartridgeID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCartridge, cartridgeID)
	}
	return rt, nil
}

// NewGame starts a game of a cartridge, or of the first cartridge when
// cartridgeID is empty. The opening messages are the intro and a look
// around the starting location.
func (s *Service) NewGame(ctx context.Context, cartridgeID, userID string) (*state.PlayerState, []chat.Message, error) {
	rt, err := s.runtimeFor(cartridgeID)
	if err != nil {
		return nil, nil, err
	}

	ps := state.New(rt.game)
	ps.UserID = userID
	var effects []effect.Effect
	if rt.game.Intro != "" {
		effects = append(effects, effect.Narrate(rt.game.Intro))
	}
	effects = append(effects, rt.engine.Handle(ctx, ps, command.Command{Verb: command.Look})...)

	next, msgs, err := rt.reducer.Apply(ps, effects)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open game: %w", err)
	}
	if err := s.persist(ctx, next, msgs); err != nil {
		return nil, nil, err
	}
	logger.WithGame(s.logger, next.GameID).Info("Game started", "cartridge", rt.game.ID, "user_id", userID)
	return next, msgs, nil
}

// Game returns a game's state and the last limit transcript messages.
func (s *Service) Game(ctx context.Context, id uuid.UUID, limit int) (*state.PlayerState, []chat.Message, error) {
	ps, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.store.LoadMessages(ctx, id, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	return ps, msgs, nil
}

// DeleteGame removes a game and its transcript.
func (s *Service) DeleteGame(ctx context.Context, id uuid.UUID) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	return s.store.DeleteGame(ctx, id)
}

// Command plays one turn. Player mistakes and an unreachable interpreter are
// reported as messages; errors mean the game is missing or the turn could
// not be applied or saved.
func (s *Service) Command(ctx context.Context, id uuid.UUID, input string) (*chat.CommandResponse, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyCommand
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	log := logger.WithGame(s.logger, id)
	ps, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	rt, err := s.runtimeFor(ps.CartridgeID)
	if err != nil {
		return nil, err
	}

	echo := chat.Message{Speaker: chat.SpeakerPlayer, Text: input}
	recent, err := s.store.LoadMessages(ctx, id, recentLines)
	if err != nil {
		log.Warn("Failed to load recent transcript", "error", err)
	}

	scene := prompts.SceneFromView(state.NewView(rt.game, ps))
	cmd, err := s.interpreter.Interpret(ctx, input, scene, recent)
	if err != nil {
		logger.WithError(log, err).Error("Interpreter unavailable")
		msgs := []chat.Message{echo, {Speaker: chat.SpeakerSystem, Text: rt.game.Message(cartridge.MsgAIUnavailable)}}
		if err := s.store.AppendMessages(ctx, id, msgs); err != nil {
			return nil, fmt.Errorf("failed to save transcript: %w", err)
		}
		return &chat.CommandResponse{GameID: id, Messages: msgs[1:]}, nil
	}

	effects := rt.engine.Handle(ctx, ps, cmd)
	next, msgs, err := rt.reducer.Apply(ps, effects)
	if err != nil {
		logger.WithError(log, err).Error("Failed to apply effects", "command", cmd.String())
		return nil, fmt.Errorf("failed to apply turn: %w", err)
	}
	// The epilogue is applied in the same batch so a completed chapter is
	// still one turn.
	if epilogue := rt.engine.Epilogue(next); len(epilogue) > 0 {
		next, msgs, err = rt.reducer.Apply(ps, append(slices.Clip(effects), epilogue...))
		if err != nil {
			return nil, fmt.Errorf("failed to apply epilogue: %w", err)
		}
	}

	if err := s.persist(ctx, next, append([]chat.Message{echo}, msgs...)); err != nil {
		return nil, err
	}
	log.Info("Turn played", "command", cmd.String(), "effects", len(effects), "turn", next.TurnCount)

	return &chat.CommandResponse{
		GameID:   id,
		Messages: msgs,
		Complete: chapterComplete(rt.game, next),
	}, nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*state.PlayerState, error) {
	ps, err := s.store.LoadGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	if ps == nil {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return ps, nil
}

func (s *Service) persist(ctx context.Context, ps *state.PlayerState, msgs []chat.Message) error {
	if err := s.store.SaveGame(ctx, ps); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	if err := s.store.AppendMessages(ctx, ps.GameID, msgs); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}

func chapterComplete(g *cartridge.Game, ps *state.PlayerState) bool {
	ch, ok := g.ChapterByID(ps.ChapterID)
	return ok && ps.Flags.Has(actions.CompletedFlag(ch.ID))
}
