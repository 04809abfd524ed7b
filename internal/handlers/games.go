package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/noir-engine/internal/game"
	"github.com/jwebster45206/noir-engine/pkg/chat"
	"github.com/jwebster45206/noir-engine/pkg/state"
)

// GameService is the part of game.Service the api uses.
type GameService interface {
	Cartridges() []string
	NewGame(ctx context.Context, cartridgeID, userID string) (*state.PlayerState, []chat.Message, error)
	Game(ctx context.Context, id uuid.UUID, limit int) (*state.PlayerState, []chat.Message, error)
	DeleteGame(ctx context.Context, id uuid.UUID) error
	Command(ctx context.Context, id uuid.UUID, input string) (*chat.CommandResponse, error)
}

// CreateGameRequest starts a game. An empty cartridge id picks the default
// cartridge.
type CreateGameRequest struct {
	CartridgeID string `json:"cartridge_id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
}

type CreateGameResponse struct {
	GameID      uuid.UUID      `json:"game_id"`
	CartridgeID string         `json:"cartridge_id"`
	Messages    []chat.Message `json:"messages"`
}

type GameResponse struct {
	State    *state.PlayerState `json:"state"`
	Messages []chat.Message     `json:"messages"`
}

// defaultHistory is how many transcript messages GET returns without a
// history parameter.
const defaultHistory = 50

type GameHandler struct {
	games  GameService
	logger *slog.Logger
}

func NewGameHandler(games GameService, logger *slog.Logger) *GameHandler {
	return &GameHandler{games: games, logger: logger}
}

// ServeHTTP routes:
// POST   /v1/games                 - start a game
// GET    /v1/games/{id}            - state and recent transcript
// DELETE /v1/games/{id}            - delete a game
// POST   /v1/games/{id}/commands   - play a command
func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/games"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	idStr, sub, _ := strings.Cut(path, "/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid game ID", "id", idStr, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game ID format")
		return
	}

	switch {
	case sub == "commands" && r.Method == http.MethodPost:
		h.handleCommand(w, r, id)
	case sub == "commands":
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
	case sub != "":
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	case r.Method == http.MethodGet:
		h.handleRead(w, r, id)
	case r.Method == http.MethodDelete:
		h.handleDelete(w, r, id)
	default:
		h.logger.Warn("Method not allowed for game endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, DELETE")
	}
}

func (h *GameHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("Invalid JSON in request body", "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}
	}
	req.CartridgeID = strings.TrimSpace(req.CartridgeID)

	ps, msgs, err := h.games.NewGame(r.Context(), req.CartridgeID, req.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, CreateGameResponse{
		GameID:      ps.GameID,
		CartridgeID: ps.CartridgeID,
		Messages:    msgs,
	})
}

func (h *GameHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	limit := defaultHistory
	if v := r.URL.Query().Get("history"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, h.logger, http.StatusBadRequest, "history must be a non-negative integer")
			return
		}
		limit = n
	}
	ps, msgs, err := h.games.Game(r.Context(), id, limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, GameResponse{State: ps, Messages: msgs})
}

func (h *GameHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.games.DeleteGame(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.logger.Info("Game deleted", "game_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) handleCommand(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req chat.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'message' field.")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.games.Command(r.Context(), id, req.Message)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

func (h *GameHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		writeError(w, h.logger, http.StatusNotFound, "Game not found")
	case errors.Is(err, game.ErrUnknownCartridge), errors.Is(err, game.ErrEmptyCommand):
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrNoCartridgeLoaded):
		writeError(w, h.logger, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("Game request failed", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
	}
}

// CartridgesHandler lists the playable cartridges.
type CartridgesHandler struct {
	games  GameService
	logger *slog.Logger
}

func NewCartridgesHandler(games GameService, logger *slog.Logger) *CartridgesHandler {
	return &CartridgesHandler{games: games, logger: logger}
}

func (h *CartridgesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string][]string{"cartridges": h.games.Cartridges()})
}
