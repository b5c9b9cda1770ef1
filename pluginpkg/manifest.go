// Package pluginpkg implements the on-disk plugin package format: the
// .plg archive, its manifest, the loader that turns one into a running
// pluginapi.Plugin, and the template generator that scaffolds new
// packages.
package pluginpkg

import "encoding/json"

// Manifest is the parsed contents of plugin_manifest.json.
type Manifest struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description,omitempty"`
	EntryPoint   string   `json:"entry_point"`
	Author       string   `json:"author,omitempty"`
	License      string   `json:"license,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// ParseManifest unmarshals raw manifest bytes without validating them
// against the schema; callers validate first with ValidateManifest.
func ParseManifest(raw []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return Manifest{}, &ManifestInvalid{Reason: err.Error()}
	}
	return m, nil
}
