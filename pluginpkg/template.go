package pluginpkg

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ToCamelCase mirrors the original generator's snake_case/lowercase →
// CamelCase conversion exactly, word-by-word capitalization on "_"
// boundaries.
func ToCamelCase(s string) string {
	words := strings.Split(s, "_")
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
		if len(w) > 1 {
			b.WriteString(strings.ToLower(w[1:]))
		}
	}
	return b.String()
}

// GenerateTemplate creates a package root directory under outputDir
// named plugin_name containing a manifest, an advisory
// requirements.txt, and a stub Go source file implementing the
// category's descriptor (or, for an unknown category, only the bare
// Plugin stubs). It returns the created folder's path.
func GenerateTemplate(pluginName, category, outputDir string) (string, error) {
	folder := filepath.Join(outputDir, pluginName)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("pluginpkg: create template folder: %w", err)
	}

	className := ToCamelCase(pluginName)

	desc, known := CategoryRegistry[category]
	if !known {
		desc = CategoryDescriptor{BaseName: "Plugin"}
	}

	if err := os.WriteFile(filepath.Join(folder, "requirements.txt"), []byte("# add plugin-specific Go module requirements here\n"), 0o644); err != nil {
		return "", err
	}

	manifest := Manifest{
		Name:        pluginName,
		Version:     "0.1",
		Description: fmt.Sprintf("Template for a plugin of type %s.", desc.BaseName),
		EntryPoint:  fmt.Sprintf("%s.%s:%s", pluginName, pluginName, className),
		License:     "MIT",
	}
	manifestBytes, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(folder, "plugin_manifest.json"), manifestBytes, 0o644); err != nil {
		return "", err
	}

	source := renderStubSource(className, desc)
	mainFile := filepath.Join(folder, pluginName+".go")
	if err := os.WriteFile(mainFile, []byte(source), 0o644); err != nil {
		return "", err
	}

	return folder, nil
}

func renderStubSource(className string, desc CategoryDescriptor) string {
	implName := className + "Impl"

	var b strings.Builder
	fmt.Fprintf(&b, "package main\n\n")
	fmt.Fprintf(&b, "import (\n\t\"github.com/coreframe/trnx/pluginapi\"\n\t\"github.com/coreframe/trnx/port\"\n)\n\n")
	fmt.Fprintf(&b, "// %s is a generated stub for the %s category.\n", implName, desc.BaseName)
	fmt.Fprintf(&b, "// TODO: declare real ports and implement Process.\n")
	fmt.Fprintf(&b, "type %s struct {\n\tpluginapi.Base\n}\n\n", implName)

	fmt.Fprintf(&b, "func new%s() *%s {\n\tp := &%s{}\n", implName, implName, implName)
	fmt.Fprintf(&b, "\tp.Init(%q, map[string]port.Descriptor{}, map[string]port.Descriptor{})\n\treturn p\n}\n\n", className)

	fmt.Fprintf(&b, "func (p *%s) DeclareInputs() map[string]port.Descriptor { return map[string]port.Descriptor{} }\n\n", implName)
	fmt.Fprintf(&b, "func (p *%s) DeclareOutputs() map[string]port.Descriptor { return map[string]port.Descriptor{} }\n\n", implName)
	fmt.Fprintf(&b, "func (p *%s) Process() error { return nil }\n\n", implName)

	for _, m := range desc.Methods {
		params := m.Params
		fmt.Fprintf(&b, "// TODO: implement this method\nfunc (p *%s) %s(%s) %s {\n\treturn %s\n}\n\n", implName, m.Name, params, m.Returns, m.ZeroReturn)
	}

	fmt.Fprintf(&b, "// %s is the exported factory symbol named by entry_point in plugin_manifest.json.\n", className)
	fmt.Fprintf(&b, "func %s() (pluginapi.Plugin, error) {\n\treturn new%s(), nil\n}\n", className, implName)

	return b.String()
}

// PackageTemplate zips folder (a directory produced by GenerateTemplate
// or hand-authored in the same shape) into a .plg archive under
// outputDir, named after the folder's base name. It returns the
// archive's path.
func PackageTemplate(folder, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}
	base := filepath.Base(folder)
	archivePath := filepath.Join(outputDir, base+".plg")

	out, err := os.Create(archivePath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	err = filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(filepath.Dir(folder), path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		zw.Close()
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return archivePath, nil
}
