package schedule

import "strings"

// DefaultRoleSynonyms maps canonical required roles to resource-role
// substrings they accept. Matching is substring in either direction, so
// "Senior Developer" satisfies "developer" and "dev" satisfies
// "developer" too.
func DefaultRoleSynonyms() map[string][]string {
	return map[string][]string{
		"developer":  {"developer", "engineer", "programmer", "dev", "swe"},
		"designer":   {"designer", "design", "ux", "ui"},
		"manager":    {"manager", "management", "lead", "pm"},
		"copywriter": {"copywriter", "writer", "copy", "content"},
	}
}

// RoleCompatible reports whether a resource with the given role label
// may take a task declaring the required role. An empty or "any"
// requirement accepts every resource; a resource labelled "other" or
// "general" accepts every requirement. Otherwise the comparison is
// case-insensitive: exact match first, then the synonym table with
// contains-either-way semantics.
func RoleCompatible(required, resourceRole string, synonyms map[string][]string) bool {
	req := strings.ToLower(strings.TrimSpace(required))
	if req == "" || req == "any" {
		return true
	}
	role := strings.ToLower(strings.TrimSpace(resourceRole))
	if role == "other" || role == "general" {
		return true
	}
	if role == req {
		return true
	}
	if role == "" {
		return false
	}
	for _, syn := range synonyms[req] {
		syn = strings.ToLower(strings.TrimSpace(syn))
		if syn == "" {
			continue
		}
		if strings.Contains(role, syn) || strings.Contains(syn, role) {
			return true
		}
	}
	return false
}

// MergeRoleSynonyms overlays extra synonym entries onto a base table
// without mutating either input. Extra entries append to any list the
// base already has for the same canonical role. Callers loading project
// config use this to widen the defaults rather than replace them.
func MergeRoleSynonyms(base, extra map[string][]string) map[string][]string {
	return mergeSynonyms(base, extra)
}

// mergeSynonyms overlays extra synonym entries onto a base table
// without mutating either input. Extra entries append to any list the
// base already has for the same canonical role.
func mergeSynonyms(base, extra map[string][]string) map[string][]string {
	if len(extra) == 0 {
		return base
	}
	merged := make(map[string][]string, len(base)+len(extra))
	for role, list := range base {
		merged[role] = append([]string(nil), list...)
	}
	for role, list := range extra {
		key := strings.ToLower(strings.TrimSpace(role))
		if key == "" {
			continue
		}
		merged[key] = append(merged[key], list...)
	}
	return merged
}
