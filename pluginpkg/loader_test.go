package pluginpkg

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zipDir(t *testing.T, dir, archivePath string) {
	t.Helper()
	out, err := os.Create(archivePath)
	require.NoError(t, err)
	defer out.Close()

	zw := zip.NewWriter(out)
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)
		rel, err := filepath.Rel(dir, path)
		require.NoError(t, err)
		if info.IsDir() || rel == "." {
			return nil
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		_, err = w.Write(data)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}

func TestLoadManifestMissing(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "readme.txt"), []byte("nothing here"), 0o644))

	archive := filepath.Join(t.TempDir(), "bad.plg")
	zipDir(t, src, archive)

	l := NewLoader(nil)
	_, err := l.Load(archive)
	require.Error(t, err)
	var mm *ManifestMissing
	assert.ErrorAs(t, err, &mm)
}

func TestLoadManifestInvalidSchema(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "plugin_manifest.json"), []byte(`{"name":"Alpha"}`), 0o644))

	archive := filepath.Join(t.TempDir(), "bad.plg")
	zipDir(t, src, archive)

	l := NewLoader(nil)
	_, err := l.Load(archive)
	require.Error(t, err)
	var mi *ManifestInvalid
	assert.ErrorAs(t, err, &mi)
}

func TestLoadEntryModuleMissing(t *testing.T) {
	src := t.TempDir()
	manifest := `{"name":"Alpha","version":"0.1","entry_point":"alpha.alpha:Alpha"}`
	require.NoError(t, os.WriteFile(filepath.Join(src, "plugin_manifest.json"), []byte(manifest), 0o644))

	archive := filepath.Join(t.TempDir(), "alpha.plg")
	zipDir(t, src, archive)

	l := NewLoader(nil)
	_, err := l.Load(archive)
	require.Error(t, err)
	var emm *EntryModuleMissing
	assert.ErrorAs(t, err, &emm)
}

func TestLoadAllSkipsBadPackagesAndContinues(t *testing.T) {
	dir := t.TempDir()

	badSrc := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(badSrc, "plugin_manifest.json"), []byte(`not json`), 0o644))
	zipDir(t, badSrc, filepath.Join(dir, "bad.plg"))

	l := NewLoader(nil)
	loaded := l.LoadAll(dir)
	assert.Empty(t, loaded)
}

func TestManifestFoundOneLevelDeep(t *testing.T) {
	src := t.TempDir()
	nested := filepath.Join(src, "alpha")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	manifest := `{"name":"Alpha","version":"0.1","entry_point":"alpha.alpha:Alpha"}`
	require.NoError(t, os.WriteFile(filepath.Join(nested, "plugin_manifest.json"), []byte(manifest), 0o644))

	archive := filepath.Join(t.TempDir(), "alpha.plg")
	zipDir(t, src, archive)

	l := NewLoader(nil)
	_, err := l.Load(archive)
	require.Error(t, err)
	var emm *EntryModuleMissing
	assert.ErrorAs(t, err, &emm, "manifest one level deep should still be found, failing only at entry module resolution")
}
