package pluginpkg

import "fmt"

// ManifestMissing is returned when no plugin_manifest.json can be
// located in the extracted package root or its single subdirectory.
type ManifestMissing struct {
	Dir string
}

func (e *ManifestMissing) Error() string {
	return fmt.Sprintf("pluginpkg: no plugin_manifest.json found under %s", e.Dir)
}

// ManifestInvalid is returned for JSON syntax errors or schema
// validation failures.
type ManifestInvalid struct {
	Reason string
}

func (e *ManifestInvalid) Error() string {
	return fmt.Sprintf("pluginpkg: invalid manifest: %s", e.Reason)
}

// EntryModuleMissing is returned when entry_point's module path does
// not resolve to a file next to the manifest.
type EntryModuleMissing struct {
	Path string
}

func (e *EntryModuleMissing) Error() string {
	return fmt.Sprintf("pluginpkg: entry module %q not found", e.Path)
}

// EntryClassMissing is returned when the exported factory symbol named
// in entry_point is not present in the opened shared object.
type EntryClassMissing struct {
	Symbol string
	Path   string
}

func (e *EntryClassMissing) Error() string {
	return fmt.Sprintf("pluginpkg: symbol %q not found in %s", e.Symbol, e.Path)
}

// EntryClassNotAPlugin is returned when the resolved symbol is not a
// func() (pluginapi.Plugin, error) factory, or the factory itself
// returns an error.
type EntryClassNotAPlugin struct {
	Symbol string
	Reason string
}

func (e *EntryClassNotAPlugin) Error() string {
	return fmt.Sprintf("pluginpkg: symbol %q is not a usable plugin factory: %s", e.Symbol, e.Reason)
}

// DuplicatePlugin is returned by Load when a shared object with the
// same contents has already been opened by this Loader, since
// plugin.Open's registry is append-only and cannot load it again.
type DuplicatePlugin struct {
	Path string
}

func (e *DuplicatePlugin) Error() string {
	return fmt.Sprintf("pluginpkg: %s already loaded in this process", e.Path)
}
