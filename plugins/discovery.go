package plugins

import (
	"fmt"

	"github.com/mckinlee/crewplan/internal/config"
	"github.com/mckinlee/crewplan/internal/schedule"
)

// LoadScoringRules discovers YAML and Go rule definitions under .crewplan/rules
// and returns them in planner form. Duplicate rule IDs across files are an error.
func LoadScoringRules(cfg *config.Config) ([]schedule.ScoringRule, error) {
	if cfg == nil {
		return nil, nil
	}
	defs, err := loadAllDefinitionFiles(cfg.RulesDir())
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, nil
	}
	seen := make(map[string]string)
	rules := make([]schedule.ScoringRule, 0, len(defs))
	for _, file := range defs {
		def := file.Definition
		if existing, ok := seen[def.ID]; ok {
			return nil, fmt.Errorf("rule: duplicate id %s (%s and %s)", def.ID, existing, file.Path)
		}
		seen[def.ID] = file.Path
		rules = append(rules, def.ScoringRule())
	}
	return rules, nil
}

func loadAllDefinitionFiles(dir string) ([]DefinitionFile, error) {
	yamlDefs, err := LoadDefinitionDir(dir)
	if err != nil {
		return nil, err
	}
	goDefs, err := LoadGoDefinitionDir(dir)
	if err != nil {
		return nil, err
	}
	return append(yamlDefs, goDefs...), nil
}
