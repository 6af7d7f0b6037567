package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

func TestReadText(t *testing.T) {
	doc := `{"name":"h` + "é" + `"}`
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(doc)
	if err != nil {
		t.Fatalf("Encoding fixture failed: %v", err)
	}
	tests := []struct {
		name  string
		input string
	}{
		{"plain", doc},
		{"utf-8 bom", "\uFEFF" + doc},
		{"utf-16 bom", utf16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readText(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("readText failed: %v", err)
			}
			if got != doc {
				t.Errorf("Expected %q, got %q", doc, got)
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte("\uFEFF{\"a\": [1, true], \"b\": {}}"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := formatJSON(path, "  ", &buf); err != nil {
		t.Fatalf("formatJSON failed: %v", err)
	}
	expected := "{\n  \"a\": [\n    1,\n    true\n  ],\n  \"b\": {}\n}\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}

	buf.Reset()
	if err := formatJSON(path, "", &buf); err != nil {
		t.Fatalf("formatJSON failed: %v", err)
	}
	if buf.String() != "{\"a\":[1,true],\"b\":{}}\n" {
		t.Errorf("Unexpected compact output %q", buf.String())
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("[1,"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := formatJSON(bad, "  ", &buf); err == nil {
		t.Error("Expected malformed input to fail")
	}
	if err := formatJSON(filepath.Join(t.TempDir(), "absent.json"), "", &buf); err == nil {
		t.Error("Expected a missing file to fail")
	}
}
