package pluginpkg

import (
	"archive/zip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCamelCase(t *testing.T) {
	cases := map[string]string{
		"rsi":        "Rsi",
		"RSI":        "Rsi",
		"moving_avg": "MovingAvg",
		"FOO_bar":    "FooBar",
	}
	for in, want := range cases {
		assert.Equal(t, want, ToCamelCase(in), "input %q", in)
	}
}

func TestGenerateTemplateCreatesManifestAndSource(t *testing.T) {
	dir := t.TempDir()
	folder, err := GenerateTemplate("rsi", "indicator", dir)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(folder, "plugin_manifest.json"))
	require.NoError(t, err)

	var m Manifest
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "rsi", m.Name)
	assert.Equal(t, "rsi.rsi:Rsi", m.EntryPoint)

	require.NoError(t, ValidateManifest(raw))

	source, err := os.ReadFile(filepath.Join(folder, "rsi.go"))
	require.NoError(t, err)
	assert.Contains(t, string(source), "func Rsi() (pluginapi.Plugin, error)")
	assert.Contains(t, string(source), "func (p *RsiImpl) Compute(")

	_, err = os.Stat(filepath.Join(folder, "requirements.txt"))
	require.NoError(t, err)
}

func TestGenerateTemplateUnknownCategoryFallsBackToBarePlugin(t *testing.T) {
	dir := t.TempDir()
	folder, err := GenerateTemplate("widget", "nonexistent_category", dir)
	require.NoError(t, err)

	source, err := os.ReadFile(filepath.Join(folder, "widget.go"))
	require.NoError(t, err)
	assert.Contains(t, string(source), "func (p *WidgetImpl) Process() error")
}

func TestPackageTemplateProducesLoadableZip(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	folder, err := GenerateTemplate("alpha", "exchange", srcDir)
	require.NoError(t, err)

	archivePath, err := PackageTemplate(folder, outDir)
	require.NoError(t, err)
	assert.Equal(t, "alpha.plg", filepath.Base(archivePath))

	r, err := zip.OpenReader(archivePath)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "alpha/plugin_manifest.json")
	assert.Contains(t, names, "alpha/alpha.go")
}
