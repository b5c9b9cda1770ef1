package pluginpkg

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"plugin"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/coreframe/trnx/pluginapi"
)

// Factory is the type every entry_point symbol must have.
type Factory func() (pluginapi.Plugin, error)

// Loaded bundles a plugin instance with the diagnostics the rest of
// the system needs about where it came from.
type Loaded struct {
	Plugin     pluginapi.Plugin
	ClassName  string
	SourcePath string
}

// Loader extracts .plg archives, resolves their entry point through
// the host's dynamic loader, and instantiates the plugin. A Loader
// remembers which shared objects (identified by a SHA-256 of their
// contents) it has already opened in this process, since plugin.Open's
// internal registry is process-lifetime and append-only, and refuses a
// second one with DuplicatePlugin instead of opening it again.
type Loader struct {
	mu      sync.Mutex
	opened  map[string]struct{}
	Log     *logrus.Logger
}

// NewLoader returns a ready-to-use Loader. A nil logger falls back to
// logrus's standard logger.
func NewLoader(log *logrus.Logger) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{opened: make(map[string]struct{}), Log: log}
}

// Load implements the loader contract of a single .plg archive.
func (l *Loader) Load(path string) (*Loaded, error) {
	extractDir, err := os.MkdirTemp("", "trnx-plugin-*")
	if err != nil {
		return nil, fmt.Errorf("pluginpkg: create extraction dir: %w", err)
	}
	if err := extractZip(path, extractDir); err != nil {
		return nil, fmt.Errorf("pluginpkg: extract %s: %w", path, err)
	}

	manifestDir, raw, err := findManifest(extractDir)
	if err != nil {
		return nil, err
	}

	if err := ValidateManifest(raw); err != nil {
		return nil, err
	}
	m, err := ParseManifest(raw)
	if err != nil {
		return nil, err
	}

	modulePath, symbolName, err := splitEntryPoint(m.EntryPoint)
	if err != nil {
		return nil, err
	}

	soPath := filepath.Join(manifestDir, filepath.FromSlash(strings.ReplaceAll(modulePath, ".", "/"))+".so")
	soBytes, err := os.ReadFile(soPath)
	if err != nil {
		return nil, &EntryModuleMissing{Path: soPath}
	}
	sum := sha256.Sum256(soBytes)
	soKey := hex.EncodeToString(sum[:])

	l.mu.Lock()
	if _, already := l.opened[soKey]; already {
		l.mu.Unlock()
		return nil, &DuplicatePlugin{Path: path}
	}
	l.opened[soKey] = struct{}{}
	l.mu.Unlock()

	p, err := plugin.Open(soPath)
	if err != nil {
		return nil, fmt.Errorf("pluginpkg: open %s: %w", soPath, err)
	}

	sym, err := p.Lookup(symbolName)
	if err != nil {
		return nil, &EntryClassMissing{Symbol: symbolName, Path: soPath}
	}

	factory, ok := sym.(func() (pluginapi.Plugin, error))
	if !ok {
		return nil, &EntryClassNotAPlugin{Symbol: symbolName, Reason: "symbol is not func() (pluginapi.Plugin, error)"}
	}

	instance, err := factory()
	if err != nil {
		return nil, &EntryClassNotAPlugin{Symbol: symbolName, Reason: err.Error()}
	}

	// ClassName is the entry-point symbol, not the manifest's raw name
	// field: the wiring class name is what the assembler uses to
	// address this plugin from Connect, and that must match the
	// CamelCased symbol GenerateTemplate emits (e.g. "rsi" -> "Rsi"),
	// not the manifest's lowercase display name.
	return &Loaded{Plugin: instance, ClassName: symbolName, SourcePath: path}, nil
}

// LoadAll loads every .plg file directly under dir, running one Load
// per package concurrently (extraction, JSON Schema validation,
// plugin.Open/Lookup and the factory call alike); Load's own mutex
// guards only its record of already-opened shared objects. Failures are
// logged and skipped; the successful subset is returned, in no
// particular order, matching the per-package-survivable contract of
// load_all.
func (l *Loader) LoadAll(dir string) []*Loaded {
	entries, err := os.ReadDir(dir)
	if err != nil {
		l.Log.WithError(err).WithField("dir", dir).Warn("pluginpkg: cannot read plugin directory")
		return nil
	}

	var (
		mu  sync.Mutex
		out []*Loaded
		g   errgroup.Group
	)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".plg") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		g.Go(func() error {
			loaded, err := l.Load(path)
			if err != nil {
				l.Log.WithError(err).WithField("path", path).Warn("pluginpkg: failed to load plugin package")
				return nil
			}
			mu.Lock()
			out = append(out, loaded)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return out
}

func splitEntryPoint(entryPoint string) (modulePath, symbol string, err error) {
	idx := strings.LastIndex(entryPoint, ":")
	if idx < 0 {
		return "", "", &ManifestInvalid{Reason: fmt.Sprintf("entry_point %q missing ':'", entryPoint)}
	}
	return entryPoint[:idx], entryPoint[idx+1:], nil
}

// findManifest locates plugin_manifest.json at root, or one level into
// root's single subdirectory, per the loader contract.
func findManifest(root string) (dir string, raw []byte, err error) {
	direct := filepath.Join(root, "plugin_manifest.json")
	if raw, err = os.ReadFile(direct); err == nil {
		return root, raw, nil
	}

	entries, readErr := os.ReadDir(root)
	if readErr != nil {
		return "", nil, &ManifestMissing{Dir: root}
	}
	var subdirs []string
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e.Name())
		}
	}
	if len(subdirs) != 1 {
		return "", nil, &ManifestMissing{Dir: root}
	}
	nested := filepath.Join(root, subdirs[0])
	nestedManifest := filepath.Join(nested, "plugin_manifest.json")
	if raw, err = os.ReadFile(nestedManifest); err == nil {
		return nested, raw, nil
	}
	return "", nil, &ManifestMissing{Dir: root}
}

func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		targetPath := filepath.Join(destDir, f.Name)
		if !strings.HasPrefix(targetPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("pluginpkg: illegal path in archive: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return err
		}
		if err := extractZipFile(f, targetPath); err != nil {
			return err
		}
	}
	return nil
}

func extractZipFile(f *zip.File, targetPath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
