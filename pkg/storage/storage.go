package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/noir-engine/pkg/chat"
	"github.com/jwebster45206/noir-engine/pkg/state"
)

// Storage persists player state and the transcript of each game.
// Cartridges are read-only and loaded separately at startup.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// SaveGame stores ps under its GameID. LoadGame returns nil, nil when
	// the game does not exist.
	SaveGame(ctx context.Context, ps *state.PlayerState) error
	LoadGame(ctx context.Context, id uuid.UUID) (*state.PlayerState, error)
	DeleteGame(ctx context.Context, id uuid.UUID) error

	// AppendMessages adds rendered messages to the end of a game's
	// transcript. LoadMessages returns at most the last limit messages in
	// order; limit <= 0 returns everything kept.
	AppendMessages(ctx context.Context, id uuid.UUID, msgs []chat.Message) error
	LoadMessages(ctx context.Context, id uuid.UUID, limit int) ([]chat.Message, error)
}
