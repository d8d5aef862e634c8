package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("export: missing frontmatter")
	// ErrMalformedFrontMatter indicates the YAML block could not be parsed.
	ErrMalformedFrontMatter = errors.New("export: malformed frontmatter")
)

// Metadata captures provenance stored in an exported plan's frontmatter.
type Metadata struct {
	Kind          string
	GeneratedAt   time.Time
	ReferenceDate time.Time
	HorizonWeeks  int
	TotalTasks    int
	PlacedTasks   int
	OverflowTasks int
}

// ParseFrontMatter extracts the metadata block and body from a document that starts
// with `---` YAML fences.
func ParseFrontMatter(content []byte) (Metadata, []byte, error) {
	if len(content) == 0 {
		return Metadata{}, nil, ErrMissingFrontMatter
	}
	normalized := normalizeNewlines(content)
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return Metadata{}, nil, ErrMissingFrontMatter
	}
	rest := normalized[4:]
	parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
	if len(parts) < 2 {
		return Metadata{}, nil, ErrMalformedFrontMatter
	}
	metaBytes := parts[0]
	body := parts[1]
	var envelope crewplanEnvelope
	if err := yaml.Unmarshal(metaBytes, &envelope); err != nil {
		return Metadata{}, nil, fmt.Errorf("export: parse frontmatter: %w", err)
	}
	meta, err := envelope.toMetadata()
	if err != nil {
		return Metadata{}, nil, err
	}
	return meta, body, nil
}

// WriteFrontMatter renders metadata + body with YAML fences.
func WriteFrontMatter(meta Metadata, body []byte) ([]byte, error) {
	if meta.Kind == "" {
		return nil, fmt.Errorf("export: metadata missing kind")
	}
	envelope := crewplanEnvelope{}
	envelope.fromMetadata(meta)
	data, err := yaml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("export: encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

type crewplanEnvelope struct {
	Crewplan crewplanMetadata `yaml:"crewplan"`
}

type crewplanMetadata struct {
	Kind          string `yaml:"kind"`
	Generated     string `yaml:"generated"`
	ReferenceDate string `yaml:"reference_date,omitempty"`
	HorizonWeeks  int    `yaml:"horizon_weeks,omitempty"`
	TotalTasks    int    `yaml:"total_tasks"`
	PlacedTasks   int    `yaml:"placed_tasks"`
	OverflowTasks int    `yaml:"overflow_tasks"`
}

func (e crewplanEnvelope) toMetadata() (Metadata, error) {
	if e.Crewplan.Kind == "" {
		return Metadata{}, ErrMalformedFrontMatter
	}
	generated, err := parseTime(e.Crewplan.Generated)
	if err != nil {
		return Metadata{}, fmt.Errorf("export: parse generated timestamp: %w", err)
	}
	meta := Metadata{
		Kind:          e.Crewplan.Kind,
		GeneratedAt:   generated,
		HorizonWeeks:  e.Crewplan.HorizonWeeks,
		TotalTasks:    e.Crewplan.TotalTasks,
		PlacedTasks:   e.Crewplan.PlacedTasks,
		OverflowTasks: e.Crewplan.OverflowTasks,
	}
	if raw := strings.TrimSpace(e.Crewplan.ReferenceDate); raw != "" {
		ref, err := time.Parse(dateLayout, raw)
		if err != nil {
			return Metadata{}, fmt.Errorf("export: parse reference date: %w", err)
		}
		meta.ReferenceDate = ref
	}
	return meta, nil
}

func (e *crewplanEnvelope) fromMetadata(meta Metadata) {
	e.Crewplan.Kind = meta.Kind
	e.Crewplan.Generated = meta.GeneratedAt.UTC().Format(timeLayout)
	if !meta.ReferenceDate.IsZero() {
		e.Crewplan.ReferenceDate = meta.ReferenceDate.Format(dateLayout)
	}
	e.Crewplan.HorizonWeeks = meta.HorizonWeeks
	e.Crewplan.TotalTasks = meta.TotalTasks
	e.Crewplan.PlacedTasks = meta.PlacedTasks
	e.Crewplan.OverflowTasks = meta.OverflowTasks
}

const (
	timeLayout = "2006-01-02T15:04:05Z07:00"
	dateLayout = "2006-01-02"
)

func parseTime(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("export: empty generated timestamp")
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func normalizeNewlines(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}
