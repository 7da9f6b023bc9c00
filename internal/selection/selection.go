// Package selection loads the optional JSON manifest naming which files to convert.
package selection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/scan2pdf/internal/common"
)

const manifestSchema = `{
	"type": "object",
	"additionalProperties": false,
	"required": ["files"],
	"properties": {
		"directory": {"type": "string", "minLength": 1},
		"files": {
			"type": "array",
			"uniqueItems": true,
			"items": {"type": "string", "minLength": 1, "pattern": "(?i)\\.jpe?g$"}
		}
	}
}`

var schema = jsonschema.MustCompileString("manifest.json", manifestSchema)

// Manifest lists file names (relative to Directory) selected for conversion.
type Manifest struct {
	Directory string   `json:"directory,omitempty"`
	Files     []string `json:"files"`
}

// Load reads and validates a manifest. A relative Directory is resolved
// against the manifest's own location.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}
	if m.Directory != "" && !filepath.IsAbs(m.Directory) {
		m.Directory = filepath.Join(filepath.Dir(path), m.Directory)
	}
	return m, nil
}

// Parse validates data against the manifest schema and decodes it.
func Parse(data []byte) (Manifest, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Manifest{}, common.NewAppError("INVALID_MANIFEST", "manifest is not valid JSON", common.WrapError(common.ErrInvalidInput, err.Error()))
	}
	if err := schema.Validate(v); err != nil {
		return Manifest{}, common.NewAppError("INVALID_MANIFEST", err.Error(), common.ErrInvalidInput)
	}

	var m Manifest
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, common.NewAppError("INVALID_MANIFEST", "decode manifest", err)
	}
	return m, nil
}
