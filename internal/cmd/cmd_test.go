package cmd

import (
	"testing"
	"time"
)

func TestRootRegistersSubcommands(t *testing.T) {
	want := map[string]bool{
		"init":     false,
		"plan":     false,
		"project":  false,
		"serve":    false,
		"tui":      false,
		"check":    false,
	}
	for _, sub := range rootCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("expected %s subcommand registered", name)
		}
	}
}

func TestParseReferenceFlag(t *testing.T) {
	ref, err := parseReferenceFlag("2026-08-26")
	if err != nil {
		t.Fatalf("parse reference: %v", err)
	}
	want := time.Date(2026, time.August, 26, 0, 0, 0, 0, time.UTC)
	if !ref.Equal(want) {
		t.Fatalf("expected %s, got %s", want, ref)
	}
	if ref, err := parseReferenceFlag(" "); err != nil || !ref.IsZero() {
		t.Fatalf("expected zero time for blank flag, got %s err %v", ref, err)
	}
	if _, err := parseReferenceFlag("yesterday"); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}
