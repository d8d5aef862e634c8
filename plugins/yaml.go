package plugins

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefinitionFile pairs a parsed rule definition with its on-disk source.
// Files holding more than one rule get a "#N" suffix per document so
// error messages can point at the exact one.
type DefinitionFile struct {
	Definition RuleDefinition
	Path       string
}

// ParseDefinitionYAML decodes and validates a single rule definition payload.
func ParseDefinitionYAML(data []byte) (RuleDefinition, error) {
	defs, err := parseDefinitionStream(data)
	if err != nil {
		return RuleDefinition{}, err
	}
	if len(defs) != 1 {
		return RuleDefinition{}, fmt.Errorf("rule: expected one definition, got %d", len(defs))
	}
	return defs[0], nil
}

// parseDefinitionStream decodes a YAML stream into rule definitions. A
// rules file may hold any number of "---"-separated documents, each one
// rule.
func parseDefinitionStream(data []byte) ([]RuleDefinition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("rule: definition payload is empty")
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	var defs []RuleDefinition
	for {
		var def RuleDefinition
		err := decoder.Decode(&def)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rule: decode definition: %w", err)
		}
		if err := def.Validate(); err != nil {
			return nil, err
		}
		defs = append(defs, def.Normalized())
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("rule: definition payload is empty")
	}
	return defs, nil
}

// LoadDefinitionFile reads a YAML rules file from disk. Every document
// in the file becomes one definition.
func LoadDefinitionFile(path string) ([]DefinitionFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("rule: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("rule: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rule: read %s: %w", path, err)
	}
	defs, err := parseDefinitionStream(data)
	if err != nil {
		return nil, fmt.Errorf("rule: %s: %w", path, err)
	}
	cleaned := filepath.Clean(path)
	files := make([]DefinitionFile, 0, len(defs))
	for idx, def := range defs {
		source := cleaned
		if len(defs) > 1 {
			source = fmt.Sprintf("%s#%d", cleaned, idx+1)
		}
		files = append(files, DefinitionFile{Definition: def, Path: source})
	}
	return files, nil
}

// LoadDefinitionDir scans a directory for *.yaml rules and returns the parsed definitions.
// Missing directories are treated as "no rules" to simplify startup.
func LoadDefinitionDir(dir string) ([]DefinitionFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("rule: read %s: %w", trimmed, err)
	}
	var defs []DefinitionFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !isYAMLFile(name) {
			continue
		}
		fileDefs, err := LoadDefinitionFile(filepath.Join(trimmed, name))
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

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
