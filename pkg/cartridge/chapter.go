package cartridge

// FlagChecker is the read-only view of player flags the chapter helpers need.
type FlagChecker interface {
	Has(flag string) bool
}

// Chapter is the happy path for one cartridge chapter, used for hints and
// completion detection.
type Chapter struct {
	ID                     string          `json:"id" yaml:"id"`
	Title                  string          `json:"title,omitempty" yaml:"title,omitempty"`
	HappyPath              []HappyPathStep `json:"happyPath,omitempty" yaml:"happyPath,omitempty"`
	CompletionRequirements []string        `json:"completionRequirements,omitempty" yaml:"completionRequirements,omitempty"`
	CompletionMessage      string          `json:"completionMessage,omitempty" yaml:"completionMessage,omitempty"`
}

type HappyPathStep struct {
	ID               string            `json:"id" yaml:"id"`
	Description      string            `json:"description,omitempty" yaml:"description,omitempty"`
	CompletionFlags  []string          `json:"completionFlags,omitempty" yaml:"completionFlags,omitempty"`
	BaseHint         string            `json:"baseHint,omitempty" yaml:"baseHint,omitempty"`
	DetailedHint     string            `json:"detailedHint,omitempty" yaml:"detailedHint,omitempty"`
	ConditionalHints []ConditionalHint `json:"conditionalHints,omitempty" yaml:"conditionalHints,omitempty"`
}

// ConditionalHint overrides the base hint when its conditions hold.
type ConditionalHint struct {
	Conditions []Condition `json:"conditions" yaml:"conditions"`
	Hint       string      `json:"hint" yaml:"hint"`
}

// Done reports whether every completion flag of the step is set. A step
// with no flags is never done.
func (s *HappyPathStep) Done(flags FlagChecker) bool {
	if len(s.CompletionFlags) == 0 {
		return false
	}
	for _, f := range s.CompletionFlags {
		if !flags.Has(f) {
			return false
		}
	}
	return true
}

// NextStep returns the first incomplete step, or nil when all are done.
func (c *Chapter) NextStep(flags FlagChecker) *HappyPathStep {
	for i := range c.HappyPath {
		if !c.HappyPath[i].Done(flags) {
			return &c.HappyPath[i]
		}
	}
	return nil
}

// IsComplete reports whether the chapter's completion requirements are met.
// Without explicit requirements the chapter completes when every step does.
func (c *Chapter) IsComplete(flags FlagChecker) bool {
	if len(c.CompletionRequirements) == 0 {
		return len(c.HappyPath) > 0 && c.NextStep(flags) == nil
	}
	for _, f := range c.CompletionRequirements {
		if !flags.Has(f) {
			return false
		}
	}
	return true
}
