package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/noir-engine/pkg/actions"
	"github.com/jwebster45206/noir-engine/pkg/chat"
	"github.com/jwebster45206/noir-engine/pkg/state"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running noir-engine API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
	CartridgeOverride string // If set, every suite plays this cartridge
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a YAML or JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &suite); err != nil {
			return TestSuite{}, fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
		}
	default:
		if err := json.Unmarshal(content, &suite); err != nil {
			return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
		}
	}
	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Sequences may reference other sequences
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}
		jobs = append(jobs, subJobs...)
	}
	return jobs, nil
}

// RunSuite starts a game from the suite's cartridge and plays its steps in
// order.
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job:     TestJob{Name: suite.Name, Suite: suite},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	cartridgeID := suite.Cartridge
	if r.CartridgeOverride != "" {
		cartridgeID = r.CartridgeOverride
	}

	gameID, err := r.createGame(ctx, cartridgeID, suite.UserID)
	if err != nil {
		result.Error = fmt.Errorf("failed to create game: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.GameID = gameID

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)

		var stepResult TestResult
		if step.Command == ResetGamePrompt {
			stepResult, gameID = r.resetStep(ctx, gameID, cartridgeID, suite.UserID, step)
			result.GameID = gameID
		} else {
			stepResult = r.commandStep(ctx, gameID, step)
		}
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}
		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	// Games are throwaway; a failed delete only leaves one to expire.
	_ = r.deleteGame(ctx, result.GameID)

	result.Duration = time.Since(start)
	return result, result.Error
}

// resetStep replaces the current game with a fresh one from the same
// cartridge and checks the step's expectations against its opening state.
func (r *Runner) resetStep(ctx context.Context, oldID uuid.UUID, cartridgeID, userID string, step TestStep) (TestResult, uuid.UUID) {
	start := time.Now()
	result := TestResult{StepName: step.Name, IsReset: true, ResponseText: "[GAME RESET]"}

	_ = r.deleteGame(ctx, oldID)
	gameID, err := r.createGame(ctx, cartridgeID, userID)
	if err != nil {
		result.Error = fmt.Errorf("failed to reset game: %w", err)
		result.Duration = time.Since(start)
		return result, oldID
	}

	ps, err := r.getState(ctx, gameID)
	if err != nil {
		result.Error = fmt.Errorf("failed to get reset game: %w", err)
	} else if err := checkExpectations(step.Expectations, ps, ""); err != nil {
		result.Error = fmt.Errorf("reset expectation failed: %w", err)
	}
	result.Success = result.Error == nil
	result.Duration = time.Since(start)
	return result, gameID
}

// commandStep sends one command and checks the resulting game state.
func (r *Runner) commandStep(ctx context.Context, gameID uuid.UUID, step TestStep) (result TestResult) {
	start := time.Now()
	result.StepName = step.Name
	defer func() { result.Duration = time.Since(start) }()

	var resp chat.CommandResponse
	path := "/v1/games/" + gameID.String() + "/commands"
	if err := r.do(ctx, http.MethodPost, path, chat.CommandRequest{Message: step.Command}, http.StatusOK, &resp); err != nil {
		result.Error = fmt.Errorf("failed to send command: %w", err)
		return result
	}
	result.ResponseText = responseText(resp.Messages)

	ps, err := r.getState(ctx, gameID)
	if err != nil {
		result.Error = fmt.Errorf("failed to get game after command: %w", err)
		return result
	}
	if err := checkExpectations(step.Expectations, ps, result.ResponseText); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		return result
	}
	result.Success = true
	return result
}

func responseText(msgs []chat.Message) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, m.Text)
	}
	return strings.Join(lines, "\n")
}

func (r *Runner) createGame(ctx context.Context, cartridgeID, userID string) (uuid.UUID, error) {
	var out struct {
		GameID uuid.UUID `json:"game_id"`
	}
	req := map[string]string{"cartridge_id": cartridgeID, "user_id": userID}
	if err := r.do(ctx, http.MethodPost, "/v1/games", req, http.StatusCreated, &out); err != nil {
		return uuid.Nil, err
	}
	return out.GameID, nil
}

func (r *Runner) getState(ctx context.Context, gameID uuid.UUID) (*state.PlayerState, error) {
	var out struct {
		State *state.PlayerState `json:"state"`
	}
	if err := r.do(ctx, http.MethodGet, "/v1/games/"+gameID.String()+"?history=1", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	if out.State == nil {
		return nil, fmt.Errorf("response has no state")
	}
	return out.State, nil
}

func (r *Runner) deleteGame(ctx context.Context, gameID uuid.UUID) error {
	if gameID == uuid.Nil {
		return nil
	}
	return r.do(ctx, http.MethodDelete, "/v1/games/"+gameID.String(), nil, http.StatusNoContent, nil)
}

func (r *Runner) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// checkExpectations validates a step's expectations against the game state
// and the text the step produced.
func checkExpectations(exp Expectations, ps *state.PlayerState, responseText string) error {
	if exp.Location != nil && ps.CurrentLocationID != *exp.Location {
		return fmt.Errorf("expected location %s, got %s", *exp.Location, ps.CurrentLocationID)
	}
	if exp.Focus != nil && ps.CurrentFocusID != *exp.Focus {
		return fmt.Errorf("expected focus %q, got %q", *exp.Focus, ps.CurrentFocusID)
	}

	if len(exp.Inventory) > 0 {
		for _, item := range exp.Inventory {
			if !slices.Contains(ps.Inventory, item) {
				return fmt.Errorf("expected inventory to contain '%s', but it's missing. Actual inventory: %v", item, ps.Inventory)
			}
		}
		for _, item := range ps.Inventory {
			if !slices.Contains(exp.Inventory, item) {
				return fmt.Errorf("inventory contains unexpected item '%s'. Expected inventory: %v, Actual: %v", item, exp.Inventory, ps.Inventory)
			}
		}
	}
	for _, item := range exp.InventoryContains {
		if !slices.Contains(ps.Inventory, item) {
			return fmt.Errorf("expected inventory to contain '%s'. Actual inventory: %v", item, ps.Inventory)
		}
	}

	for _, flag := range exp.Flags {
		if !ps.Flags.Has(flag) {
			return fmt.Errorf("expected flag %s to be set. Flags: %v", flag, ps.Flags.Keys())
		}
	}
	for _, flag := range exp.NoFlags {
		if ps.Flags.Has(flag) {
			return fmt.Errorf("expected flag %s to be unset", flag)
		}
	}

	if exp.TurnCount != nil && ps.TurnCount != *exp.TurnCount {
		return fmt.Errorf("expected turn_count to be %d, got %d", *exp.TurnCount, ps.TurnCount)
	}
	if exp.ChapterComplete != nil {
		if done := ps.ChapterID != "" && ps.Flags.Has(actions.CompletedFlag(ps.ChapterID)); done != *exp.ChapterComplete {
			return fmt.Errorf("expected chapter_complete to be %t, got %t", *exp.ChapterComplete, done)
		}
	}

	lowerResponse := strings.ToLower(responseText)
	for _, expectedText := range exp.ResponseContains {
		if !strings.Contains(lowerResponse, strings.ToLower(expectedText)) {
			return fmt.Errorf("expected response to contain '%s', but it didn't. Response: %q", expectedText, responseText)
		}
	}
	for _, unexpectedText := range exp.ResponseNotContains {
		if strings.Contains(lowerResponse, strings.ToLower(unexpectedText)) {
			return fmt.Errorf("expected response to NOT contain '%s', but it did", unexpectedText)
		}
	}

	if exp.ResponseRegex != "" {
		matched, err := regexp.MatchString(exp.ResponseRegex, responseText)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("response didn't match regex pattern: %s", exp.ResponseRegex)
		}
	}
	return nil
}
