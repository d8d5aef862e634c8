package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

const goDefinitionFuncName = "RuleDefinitions"

// LoadGoDefinitionDir evaluates every .go file in dir and collects rule definitions declared via RuleDefinitions().
func LoadGoDefinitionDir(dir string) ([]DefinitionFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("rule: read %s: %w", trimmed, err)
	}
	var defs []DefinitionFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".go" {
			continue
		}
		fileDefs, err := loadGoDefinitionFile(filepath.Join(trimmed, entry.Name()))
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
	}
	if len(defs) == 0 {
		return nil, nil
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Path < defs[j].Path })
	return defs, nil
}

func loadGoDefinitionFile(path string) ([]DefinitionFile, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rule: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return nil, fmt.Errorf("rule: %s is empty", path)
	}
	i := interp.New(interp.Options{})
	i.Use(stdlib.Symbols)
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("rule: interpret %s: %w", path, err)
	}
	fnValue, err := i.Eval(goDefinitionFuncName)
	if err != nil {
		return nil, fmt.Errorf("rule: %s must define %s() ([]map[string]any, error): %w", path, goDefinitionFuncName, err)
	}
	raws, callErr := invokeDefinitionFunc(fnValue)
	if callErr != nil {
		return nil, fmt.Errorf("rule: %s: %w", path, callErr)
	}
	files := make([]DefinitionFile, 0, len(raws))
	for idx, raw := range raws {
		def, err := definitionFromMap(raw)
		if err != nil {
			return nil, fmt.Errorf("rule: %s definition[%d]: %w", path, idx, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("rule: %s definition[%d]: %w", path, idx, err)
		}
		files = append(files, DefinitionFile{Definition: def.Normalized(), Path: fmt.Sprintf("%s#%d", path, idx+1)})
	}
	return files, nil
}

// definitionFromMap converts one interpreted map into a RuleDefinition.
// Unlike the YAML path this is strict about keys: a typo in a Go rules
// file fails loudly instead of silently dropping the field.
func definitionFromMap(raw map[string]any) (RuleDefinition, error) {
	var def RuleDefinition
	for key, value := range raw {
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "id":
			s, ok := value.(string)
			if !ok {
				return RuleDefinition{}, fmt.Errorf("id must be a string, got %T", value)
			}
			def.ID = s
		case "description":
			s, ok := value.(string)
			if !ok {
				return RuleDefinition{}, fmt.Errorf("description must be a string, got %T", value)
			}
			def.Description = s
		case "role":
			s, ok := value.(string)
			if !ok {
				return RuleDefinition{}, fmt.Errorf("role must be a string, got %T", value)
			}
			def.Role = s
		case "bonus":
			bonus, err := coerceBonus(value)
			if err != nil {
				return RuleDefinition{}, err
			}
			def.Bonus = bonus
		case "synonyms":
			synonyms, err := coerceSynonyms(value)
			if err != nil {
				return RuleDefinition{}, err
			}
			def.Synonyms = synonyms
		default:
			return RuleDefinition{}, fmt.Errorf("unknown field %q", key)
		}
	}
	return def, nil
}

func coerceBonus(value any) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("bonus must be a number, got %T", value)
	}
}

func coerceSynonyms(value any) (map[string][]string, error) {
	switch v := value.(type) {
	case map[string][]string:
		return v, nil
	case map[string]any:
		result := make(map[string][]string, len(v))
		for role, entry := range v {
			list, err := coerceStringList(entry)
			if err != nil {
				return nil, fmt.Errorf("synonyms[%s]: %w", role, err)
			}
			result[role] = list
		}
		return result, nil
	default:
		return nil, fmt.Errorf("synonyms must map roles to string lists, got %T", value)
	}
}

func coerceStringList(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		result := make([]string, 0, len(v))
		for _, entry := range v {
			s, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", entry)
			}
			result = append(result, s)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("expected string list, got %T", value)
	}
}

func invokeDefinitionFunc(value reflect.Value) ([]map[string]any, error) {
	if !value.IsValid() {
		return nil, fmt.Errorf("missing %s function", goDefinitionFuncName)
	}
	fn := value
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", goDefinitionFuncName)
	}
	results := fn.Call(nil)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("%s must return ([]map[string]any[, error])", goDefinitionFuncName)
	}
	defsVal := results[0]
	if len(results) == 2 {
		if !results[1].IsNil() {
			if e, ok := results[1].Interface().(error); ok && e != nil {
				return nil, e
			}
			return nil, fmt.Errorf("%s returned non-error second value", goDefinitionFuncName)
		}
	}
	defs, ok := defsVal.Interface().([]map[string]any)
	if ok {
		return defs, nil
	}
	if defsVal.Kind() == reflect.Slice {
		result := make([]map[string]any, defsVal.Len())
		for i := 0; i < defsVal.Len(); i++ {
			entry := defsVal.Index(i).Interface()
			m, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s[%d] is not map[string]any", goDefinitionFuncName, i)
			}
			result[i] = m
		}
		return result, nil
	}
	return nil, fmt.Errorf("%s must return []map[string]any", goDefinitionFuncName)
}
