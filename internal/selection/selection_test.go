package selection

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/joseph-ayodele/scan2pdf/internal/common"
)

func TestParseValid(t *testing.T) {
	m, err := Parse([]byte(`{"directory": "/scans", "files": ["a.jpg", "B.JPEG"]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Directory != "/scans" || !reflect.DeepEqual(m.Files, []string{"a.jpg", "B.JPEG"}) {
		t.Errorf("manifest = %+v", m)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"not json":      `{`,
		"missing files": `{"directory": "/scans"}`,
		"wrong type":    `{"files": "a.jpg"}`,
		"empty name":    `{"files": [""]}`,
		"duplicate":     `{"files": ["a.jpg", "a.jpg"]}`,
		"not an image":  `{"files": ["a.png"]}`,
		"unknown field": `{"files": ["a.jpg"], "recursive": true}`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			if !errors.Is(err, common.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLoadResolvesRelativeDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pick.json")
	if err := os.WriteFile(path, []byte(`{"directory": "scans", "files": ["a.jpg"]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Directory != filepath.Join(dir, "scans") {
		t.Errorf("Directory = %q", m.Directory)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}
