package cartridge

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/noir-engine/pkg/effect"
	"gopkg.in/yaml.v3"
)

// Outcome is what happens when a handler's success or fail branch is taken.
type Outcome struct {
	Message string        `json:"message,omitempty" yaml:"message,omitempty"`
	Speaker string        `json:"speaker,omitempty" yaml:"speaker,omitempty"`
	Media   *OutcomeMedia `json:"media,omitempty" yaml:"media,omitempty"`
	Effects effect.List   `json:"effects,omitempty" yaml:"effects,omitempty"`
}

type OutcomeMedia struct {
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	HintKeyword string `json:"hintKeyword,omitempty" yaml:"hintKeyword,omitempty"`
}

// HandlerDef is one verb rule: optional conditions plus outcomes.
type HandlerDef struct {
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Success    *Outcome    `json:"success,omitempty" yaml:"success,omitempty"`
	Fail       *Outcome    `json:"fail,omitempty" yaml:"fail,omitempty"`
	Fallback   string      `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Handler is either a single definition or an ordered chain of conditional
// definitions. The zero value is an absent handler.
type Handler struct {
	defs        []HandlerDef
	conditional bool
}

// Single wraps one definition.
func Single(def HandlerDef) Handler {
	return Handler{defs: []HandlerDef{def}}
}

// Conditional builds a priority chain evaluated top to bottom.
func Conditional(defs ...HandlerDef) Handler {
	return Handler{defs: defs, conditional: true}
}

// IsZero reports whether no handler is defined.
func (h Handler) IsZero() bool { return len(h.defs) == 0 }

// IsConditional reports whether h is a priority chain.
func (h Handler) IsConditional() bool { return h.conditional }

// Defs returns the definitions in evaluation order.
func (h Handler) Defs() []HandlerDef { return h.defs }

// UnmarshalJSON accepts either a single handler object or an array.
func (h *Handler) UnmarshalJSON(data []byte) error {
	var list []HandlerDef
	if err := json.Unmarshal(data, &list); err == nil {
		*h = Conditional(list...)
		return nil
	}
	var def HandlerDef
	if err := json.Unmarshal(data, &def); err != nil {
		return fmt.Errorf("handler: not an object or array: %w", err)
	}
	*h = Single(def)
	return nil
}

func (h Handler) MarshalJSON() ([]byte, error) {
	if h.conditional {
		return json.Marshal(h.defs)
	}
	if len(h.defs) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(h.defs[0])
}

// UnmarshalYAML accepts either a mapping or a sequence.
func (h *Handler) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var list []HandlerDef
		if err := value.Decode(&list); err != nil {
			return err
		}
		*h = Conditional(list...)
	case yaml.MappingNode:
		var def HandlerDef
		if err := value.Decode(&def); err != nil {
			return err
		}
		*h = Single(def)
	default:
		return fmt.Errorf("handler at line %d: expected mapping or sequence", value.Line)
	}
	return nil
}
