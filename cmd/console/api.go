package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jwebster45206/noir-engine/pkg/chat"
	"github.com/jwebster45206/noir-engine/pkg/state"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type createGameRequest struct {
	CartridgeID string `json:"cartridge_id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
}

type createGameResponse struct {
	GameID      uuid.UUID      `json:"game_id"`
	CartridgeID string         `json:"cartridge_id"`
	Messages    []chat.Message `json:"messages"`
}

type gameResponse struct {
	State    *state.PlayerState `json:"state"`
	Messages []chat.Message     `json:"messages"`
}

// apiClient talks to the noir engine api.
type apiClient struct {
	client  *http.Client
	baseURL string
}

func (c *apiClient) healthy() bool {
	resp, err := c.client.Get(c.baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func (c *apiClient) listCartridges() ([]string, error) {
	var out struct {
		Cartridges []string `json:"cartridges"`
	}
	if err := c.do(http.MethodGet, "/v1/cartridges", nil, http.StatusOK, &out); err != nil {
		return nil, fmt.Errorf("failed to list cartridges: %w", err)
	}
	return out.Cartridges, nil
}

func (c *apiClient) createGame(cartridgeID, userID string) (*createGameResponse, error) {
	var out createGameResponse
	req := createGameRequest{CartridgeID: cartridgeID, UserID: userID}
	if err := c.do(http.MethodPost, "/v1/games", req, http.StatusCreated, &out); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return &out, nil
}

func (c *apiClient) getGame(id uuid.UUID) (*gameResponse, error) {
	var out gameResponse
	if err := c.do(http.MethodGet, "/v1/games/"+id.String()+"?history=1", nil, http.StatusOK, &out); err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &out, nil
}

func (c *apiClient) sendCommand(id uuid.UUID, message string) (*chat.CommandResponse, error) {
	var out chat.CommandResponse
	req := chat.CommandRequest{Message: message}
	if err := c.do(http.MethodPost, "/v1/games/"+id.String()+"/commands", req, http.StatusOK, &out); err != nil {
		return nil, fmt.Errorf("command failed: %w", err)
	}
	return &out, nil
}

func (c *apiClient) do(method, path string, body any, wantStatus int, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != wantStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(data, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(data))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
