package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/noir-engine/pkg/chat"
	"github.com/jwebster45206/noir-engine/pkg/command"
	"github.com/jwebster45206/noir-engine/pkg/narration"
	"github.com/jwebster45206/noir-engine/pkg/prompts"
)

// ErrNoCommand is returned when a model reply holds no usable command.
var ErrNoCommand = errors.New("no command in model reply")

// Interpreter turns free text into a command. Plain phrasings are parsed
// locally; everything else goes to the model.
type Interpreter struct {
	llm    LLMService
	retry  narration.RetryPolicy
	logger *slog.Logger
}

// NewInterpreter creates an interpreter. A nil llm means only plain
// phrasings are understood.
func NewInterpreter(llm LLMService, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interpreter{llm: llm, retry: narration.DefaultRetry, logger: logger}
}

// WithRetry returns a copy using a different retry policy.
func (i *Interpreter) WithRetry(p narration.RetryPolicy) *Interpreter {
	c := *i
	c.retry = p
	return &c
}

// Interpret resolves input into a command. An error means the model could
// not be reached or never produced a command; it wraps
// narration.ErrUnavailable after retries.
func (i *Interpreter) Interpret(ctx context.Context, input string, scene prompts.Scene, recent []chat.Message) (command.Command, error) {
	if cmd, ok := command.Parse(input); ok {
		return cmd, nil
	}
	if i.llm == nil {
		return command.Command{Verb: command.Verb(prompts.UnknownVerb)}, nil
	}

	msgs, err := prompts.New().WithScene(scene).WithTranscript(recent).BuildInterpret(input)
	if err != nil {
		return command.Command{}, fmt.Errorf("failed to build interpret prompt: %w", err)
	}

	var cmd command.Command
	err = i.retry.Do(ctx, i.logger, "interpret command", func(ctx context.Context) error {
		resp, err := i.llm.Chat(ctx, msgs)
		if err != nil {
			return err
		}
		cmd, err = ParseCommand(resp.Message)
		return err
	})
	if err != nil {
		return command.Command{}, err
	}
	i.logger.Debug("Interpreted command", "input", input, "command", cmd.String())
	return cmd, nil
}

// ParseCommand extracts the JSON command object from a model reply,
// tolerating code fences or stray prose around it.
func ParseCommand(reply string) (command.Command, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return command.Command{}, fmt.Errorf("%w: %q", ErrNoCommand, reply)
	}

	var raw struct {
		Verb    string `json:"verb"`
		Target  string `json:"target"`
		Target2 string `json:"target2"`
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return command.Command{}, fmt.Errorf("%w: %w", ErrNoCommand, err)
	}
	verb := strings.ToLower(strings.TrimSpace(raw.Verb))
	if verb == "" {
		return command.Command{}, fmt.Errorf("%w: missing verb", ErrNoCommand)
	}
	return command.Command{
		Verb:    command.Verb(verb),
		Target:  strings.TrimSpace(raw.Target),
		Target2: strings.TrimSpace(raw.Target2),
	}, nil
}
