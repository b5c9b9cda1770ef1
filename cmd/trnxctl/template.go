package main

import "github.com/coreframe/trnx/pluginpkg"

// templateGenerate scaffolds the plugin source directory and packages
// it into a .plg archive in one step, returning the archive path.
func templateGenerate(name, category, outDir string) (string, error) {
	folder, err := pluginpkg.GenerateTemplate(name, category, outDir)
	if err != nil {
		return "", err
	}
	return pluginpkg.PackageTemplate(folder, outDir)
}
