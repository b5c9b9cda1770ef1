package pluginpkg

import (
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// entryPointPattern is the "<dotted.module>:<ClassName>" wire shape of
// entry_point. The same expression is embedded in manifestSchema, and
// that schema is what enforces it before entry_point is split and
// resolved to a file.
var entryPointPattern = regexp.MustCompile(`^[A-Za-z0-9_.]+:[A-Za-z0-9_]+$`)

// manifestSchema is the built-in Draft-7 JSON Schema plugin manifests
// must satisfy. It is a stricter, earlier-failing superset of "missing
// entry_point": name, version, and entry_point must be non-empty
// strings and entry_point must additionally match the expression of
// entryPointPattern.
const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "version", "entry_point"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "version": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "entry_point": {
      "type": "string",
      "pattern": "^[A-Za-z0-9_.]+:[A-Za-z0-9_]+$"
    },
    "author": {"type": "string"},
    "license": {"type": "string"},
    "dependencies": {
      "type": "array",
      "items": {"type": "string"}
    }
  }
}`

var manifestSchemaLoader = gojsonschema.NewStringLoader(manifestSchema)

// ValidateManifest checks raw manifest bytes against manifestSchema
// before any field is trusted for loading.
func ValidateManifest(raw []byte) error {
	documentLoader := gojsonschema.NewBytesLoader(raw)
	result, err := gojsonschema.Validate(manifestSchemaLoader, documentLoader)
	if err != nil {
		return &ManifestInvalid{Reason: err.Error()}
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return &ManifestInvalid{Reason: strings.Join(details, "; ")}
	}
	return nil
}
