package plugins

import "testing"

func TestRuleDefinitionValidate(t *testing.T) {
	def := RuleDefinition{
		ID:    "favor-design",
		Role:  " Designer ",
		Bonus: 15,
	}
	if err := def.Validate(); err != nil {
		t.Fatalf("expected valid rule, got %v", err)
	}
	rule := def.ScoringRule()
	if rule.Role != "designer" {
		t.Fatalf("expected lowercased role, got %q", rule.Role)
	}
	if rule.Bonus != 15 {
		t.Fatalf("expected bonus 15, got %g", rule.Bonus)
	}
}

func TestRuleDefinitionFractionalBonus(t *testing.T) {
	def := RuleDefinition{
		ID:    "slight-edge",
		Role:  "developer",
		Bonus: 12.5,
	}
	if err := def.Validate(); err != nil {
		t.Fatalf("expected valid rule, got %v", err)
	}
	rule := def.ScoringRule()
	if rule.Bonus != 12.5 {
		t.Fatalf("expected bonus 12.5, got %g", rule.Bonus)
	}
}

func TestRuleDefinitionValidateFailures(t *testing.T) {
	cases := []struct {
		name string
		def  RuleDefinition
	}{
		{"missing id", RuleDefinition{Role: "developer", Bonus: 10}},
		{"no effect", RuleDefinition{ID: "noop"}},
		{"bonus without role", RuleDefinition{ID: "floating", Bonus: 10}},
		{"bonus out of range", RuleDefinition{ID: "huge", Role: "developer", Bonus: 5000}},
	}
	for _, tc := range cases {
		if err := tc.def.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestRuleDefinitionSynonymsOnly(t *testing.T) {
	def := RuleDefinition{
		ID: "broaden-dev",
		Synonyms: map[string][]string{
			" Developer ": {" SRE ", ""},
		},
	}
	if err := def.Validate(); err != nil {
		t.Fatalf("expected synonym-only rule to validate, got %v", err)
	}
	rule := def.ScoringRule()
	got, ok := rule.Synonyms["developer"]
	if !ok || len(got) != 1 || got[0] != "sre" {
		t.Fatalf("expected trimmed lowercase synonyms, got %v", rule.Synonyms)
	}
}
