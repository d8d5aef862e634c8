package schedule

import "testing"

func TestRoleCompatible(t *testing.T) {
	synonyms := DefaultRoleSynonyms()
	cases := []struct {
		name     string
		required string
		role     string
		want     bool
	}{
		{"exact case-insensitive", "Developer", "developer", true},
		{"synonym contains", "developer", "Senior Backend Engineer", true},
		{"contained by synonym", "developer", "dev", true},
		{"designer never takes manager work", "designer", "Manager", false},
		{"other is universal", "designer", "Other", true},
		{"general is universal", "developer", "General", true},
		{"empty requirement is universal", "", "Manager", true},
		{"blank requirement is universal", "   ", "Manager", true},
		{"any requirement is universal", "any", "Copywriter", true},
		{"unknown role needs exact match", "astronaut", "Developer", false},
		{"unknown role exact match", "astronaut", "Astronaut", true},
		{"blank resource role only takes open work", "developer", "", false},
		{"copywriter synonym", "copywriter", "Content Strategist", true},
		{"manager synonym", "manager", "Tech Lead", true},
	}
	for _, tc := range cases {
		if got := RoleCompatible(tc.required, tc.role, synonyms); got != tc.want {
			t.Fatalf("%s: RoleCompatible(%q, %q) = %v, want %v", tc.name, tc.required, tc.role, got, tc.want)
		}
	}
}

func TestMergeSynonymsDoesNotMutateBase(t *testing.T) {
	base := DefaultRoleSynonyms()
	before := len(base["developer"])
	merged := mergeSynonyms(base, map[string][]string{"Developer": {"rustacean"}})
	if len(base["developer"]) != before {
		t.Fatalf("base table was mutated")
	}
	if !RoleCompatible("developer", "Rustacean", merged) {
		t.Fatalf("merged synonym should match")
	}
}
