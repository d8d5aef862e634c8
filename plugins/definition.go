package plugins

import (
	"fmt"
	"strings"

	"github.com/mckinlee/crewplan/internal/schedule"
)

// RuleDefinition describes a scoring-rule plugin loaded from YAML or an
// interpreted Go file.
//
// The struct mirrors the on-disk schema under .crewplan/rules/* and is
// intentionally narrow so the engine can validate plugin metadata before
// wiring it into the planner. Rules bias candidate scores and may widen
// role matching; they never change feasibility.
type RuleDefinition struct {
	ID          string              `json:"id" yaml:"id"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Role        string              `json:"role,omitempty" yaml:"role,omitempty"`
	Bonus       float64             `json:"bonus,omitempty" yaml:"bonus,omitempty"`
	Synonyms    map[string][]string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`
}

// Normalized returns a trimmed, copy-on-write variant of the definition.
func (def RuleDefinition) Normalized() RuleDefinition {
	clone := RuleDefinition{
		ID:          strings.TrimSpace(def.ID),
		Description: strings.TrimSpace(def.Description),
		Role:        strings.ToLower(strings.TrimSpace(def.Role)),
		Bonus:       def.Bonus,
	}
	if len(def.Synonyms) > 0 {
		clone.Synonyms = make(map[string][]string, len(def.Synonyms))
		for key, values := range def.Synonyms {
			trimmedKey := strings.ToLower(strings.TrimSpace(key))
			if trimmedKey == "" {
				continue
			}
			cleaned := make([]string, 0, len(values))
			for _, value := range values {
				if v := strings.ToLower(strings.TrimSpace(value)); v != "" {
					cleaned = append(cleaned, v)
				}
			}
			if len(cleaned) > 0 {
				clone.Synonyms[trimmedKey] = cleaned
			}
		}
		if len(clone.Synonyms) == 0 {
			clone.Synonyms = nil
		}
	}
	return clone
}

// Validate ensures the rule definition is well-formed and has an effect.
func (def RuleDefinition) Validate() error {
	normalized := def.Normalized()
	if normalized.ID == "" {
		return fmt.Errorf("rule: id is required")
	}
	if normalized.Bonus == 0 && len(normalized.Synonyms) == 0 {
		return fmt.Errorf("rule %s: needs a bonus or synonyms", normalized.ID)
	}
	if normalized.Bonus != 0 && normalized.Role == "" {
		return fmt.Errorf("rule %s: bonus requires a role", normalized.ID)
	}
	if normalized.Bonus < -1000 || normalized.Bonus > 1000 {
		return fmt.Errorf("rule %s: bonus %g out of range [-1000, 1000]", normalized.ID, normalized.Bonus)
	}
	return nil
}

// ScoringRule converts the definition into the planner's rule form.
func (def RuleDefinition) ScoringRule() schedule.ScoringRule {
	normalized := def.Normalized()
	return schedule.ScoringRule{
		ID:       normalized.ID,
		Role:     normalized.Role,
		Bonus:    normalized.Bonus,
		Synonyms: normalized.Synonyms,
	}
}
