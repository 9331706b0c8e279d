package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MANIFEST_FILE names the project manifest looked up in a project directory.
const MANIFEST_FILE = "redline.proj"

// Manifest is a project description, written as key=value lines:
//
//	name = hello
//	entry = src/main.rl
//	output = build
//	build = release
type Manifest struct {
	Name   string `env:"name"`
	Entry  string `env:"entry"`
	Output string `env:"output"`
	Build  string `env:"build"`

	// Directory holding the manifest; Entry and Output are relative to it.
	Dir string
}

func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, MANIFEST_FILE)
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	values, err := parseKeyValues(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	manifest := &Manifest{Dir: dir}
	if err := MapEnvToStruct(values, manifest); err != nil {
		return nil, err
	}
	if manifest.Entry == "" {
		return nil, fmt.Errorf("%s: missing 'entry'", path)
	}
	if _, err := ParseBuildType(manifest.Build); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if manifest.Output == "" {
		manifest.Output = "build"
	}
	if manifest.Name == "" {
		manifest.Name = strings.TrimSuffix(filepath.Base(manifest.Entry), filepath.Ext(manifest.Entry))
	}
	return manifest, nil
}

// ManifestForFile describes a single source file compiled without a
// manifest: output goes to build/ next to it.
func ManifestForFile(path string) *Manifest {
	base := filepath.Base(path)
	return &Manifest{
		Name:   strings.TrimSuffix(base, filepath.Ext(base)),
		Entry:  base,
		Output: "build",
		Dir:    filepath.Dir(path),
	}
}

func (m *Manifest) EntryPath() string { return filepath.Join(m.Dir, m.Entry) }

func (m *Manifest) OutputDir() string { return filepath.Join(m.Dir, m.Output) }

// BuildType is the manifest's build type; an empty value means debug.
func (m *Manifest) BuildType() BuildType {
	bt, _ := ParseBuildType(m.Build)
	return bt
}
