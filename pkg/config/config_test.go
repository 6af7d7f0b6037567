package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Options
	}{
		{"empty", "", Defaults()},
		{"partial", "strict: true\nmax_call_depth: 16\n", Options{
			Strict:          true,
			MaxCallDepth:    16,
			RegExpCacheSize: 64,
			LogLevel:        "info",
			Indent:          "  ",
		}},
		{"full", "log_level: debug\nregexp_cache_size: 8\nindent: \"\\t\"\nassert_bindings: true\n", Options{
			MaxCallDepth:    512,
			RegExpCacheSize: 8,
			LogLevel:        "debug",
			AssertBindings:  true,
			Indent:          "\t",
		}},
		{"unlimited", "max_call_depth: -1\nregexp_cache_size: -1\n", Options{
			MaxCallDepth:    -1,
			RegExpCacheSize: -1,
			LogLevel:        "info",
			Indent:          "  ",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"unknown_key: 1\n",
		"max_call_depth: lots\n",
		"max_call_depth: 1.5\n",
		"regexp_cache_size: [1]\n",
		"log_level: chatty\n",
	} {
		if _, err := Parse([]byte(input)); err == nil {
			t.Errorf("Expected error for %q", input)
		}
	}
}

func TestLoad(t *testing.T) {
	opts, err := Load("")
	if err != nil || opts != Defaults() {
		t.Errorf("Expected defaults for an empty path, got %+v (%v)", opts, err)
	}

	path := filepath.Join(t.TempDir(), "jscore.yaml")
	if err := os.WriteFile(path, []byte("log_level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err = Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if level, _ := opts.Level(); level != slog.LevelWarn {
		t.Errorf("Expected warn level, got %v", level)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for a missing file")
	}
}
