package runner

import (
	"time"

	"github.com/google/uuid"
)

// ResetGamePrompt is a command value that starts a fresh game from the
// suite's cartridge instead of sending a command.
const ResetGamePrompt = "RESET_GAME"

// TestSuite defines a complete integration test scenario.
// It either plays Steps against a cartridge or sequences other Cases.
type TestSuite struct {
	Name      string     `json:"name" yaml:"name"`
	Cartridge string     `json:"cartridge,omitempty" yaml:"cartridge,omitempty"`
	UserID    string     `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Steps     []TestStep `json:"steps,omitempty" yaml:"steps,omitempty"`
	Cases     []string   `json:"cases,omitempty" yaml:"cases,omitempty"`
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is a single command and the state expected after it.
type TestStep struct {
	Name         string       `json:"name,omitempty" yaml:"name,omitempty"`
	Command      string       `json:"command" yaml:"command"`
	Expectations Expectations `json:"expect" yaml:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	Location          *string  `json:"location,omitempty" yaml:"location,omitempty"`
	Focus             *string  `json:"focus,omitempty" yaml:"focus,omitempty"`
	Inventory         []string `json:"inventory,omitempty" yaml:"inventory,omitempty"` // order independent, exact
	InventoryContains []string `json:"inventory_contains,omitempty" yaml:"inventory_contains,omitempty"`
	Flags             []string `json:"flags,omitempty" yaml:"flags,omitempty"`
	NoFlags           []string `json:"no_flags,omitempty" yaml:"no_flags,omitempty"`
	TurnCount         *int     `json:"turn_count,omitempty" yaml:"turn_count,omitempty"`
	ChapterComplete   *bool    `json:"chapter_complete,omitempty" yaml:"chapter_complete,omitempty"`

	ResponseContains    []string `json:"response_contains,omitempty" yaml:"response_contains,omitempty"`
	ResponseNotContains []string `json:"response_not_contains,omitempty" yaml:"response_not_contains,omitempty"`
	ResponseRegex       string   `json:"response_regex,omitempty" yaml:"response_regex,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	StepName     string
	Success      bool
	Error        error
	Duration     time.Duration
	ResponseText string
	IsReset      bool // RESET_GAME steps don't count toward pass/fail metrics
}

// TestJob is one runnable suite, expanded from a case file.
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	GameID   uuid.UUID // last game played by the suite
}
