package main

import (
	"testing"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/studyline/internal/constants"
)

func parseArgs(t *testing.T, args ...string) *kong.Context {
	t.Helper()
	parser, err := kong.New(&CLI,
		kong.Name(constants.AppName),
		kong.Exit(func(int) { t.Fatalf("parser exited for %v", args) }),
		kong.Vars{
			"version":         constants.Version,
			"default_feature": constants.DefaultFeature,
			"default_config":  constants.DefaultConfigPath,
		},
	)
	if err != nil {
		t.Fatalf("failed to build parser: %v", err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%v) error = %v", args, err)
	}
	return kctx
}

func TestNeedsStore(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"init", []string{"init"}, false},
		{"plan init", []string{"plan", "init", "bio", "--day", "a"}, true},
		{"plan show", []string{"plan", "show", "bio"}, true},
		{"keyring set", []string{"keyring", "set", "postgres://localhost/studyline"}, false},
		{"keyring get", []string{"keyring", "get"}, false},
		{"streak record", []string{"streak", "record"}, true},
		{"backup list", []string{"backup", "list"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kctx := parseArgs(t, tt.args...)
			if got := needsStore(kctx.Selected()); got != tt.want {
				t.Errorf("needsStore(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestNeedsStoreNilNode(t *testing.T) {
	if !needsStore(nil) {
		t.Error("needsStore(nil) should default to loading the store")
	}
}
