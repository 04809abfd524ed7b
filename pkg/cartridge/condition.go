package cartridge

// ConditionType is the closed set of declarative predicates.
type ConditionType string

const (
	CondHasFlag    ConditionType = "HAS_FLAG"
	CondNoFlag     ConditionType = "NO_FLAG"
	CondState      ConditionType = "STATE"
	CondHasItem    ConditionType = "HAS_ITEM"
	CondNoItem     ConditionType = "NO_ITEM"
	CondAtLocation ConditionType = "AT_LOCATION"
	CondRevealed   ConditionType = "REVEALED"
)

// Condition is a single predicate. Which fields matter depends on Type:
// flags use Flag, STATE uses EntityID/Key/Value, item and reveal checks use
// EntityID, AT_LOCATION uses EntityID as the location id.
type Condition struct {
	Type     ConditionType `json:"type" yaml:"type"`
	Flag     string        `json:"flag,omitempty" yaml:"flag,omitempty"`
	EntityID string        `json:"entityId,omitempty" yaml:"entityId,omitempty"`
	Key      string        `json:"key,omitempty" yaml:"key,omitempty"`
	Value    any           `json:"value,omitempty" yaml:"value,omitempty"`
}

// Known reports whether the type belongs to the closed set.
func (t ConditionType) Known() bool {
	switch t {
	case CondHasFlag, CondNoFlag, CondState, CondHasItem, CondNoItem, CondAtLocation, CondRevealed:
		return true
	}
	return false
}
