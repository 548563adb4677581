package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// LockFileName sits next to package.yml and pins resolved dependencies.
const LockFileName = "package.lock"

const lockfileFormatVersion = 1

// Lockfile records the exact sources chosen for every dependency.
type Lockfile struct {
	FormatVersion int              `yaml:"format_version"`
	Packages      []*LockedPackage `yaml:"packages"`
}

// LockedPackage pins one dependency to a concrete source and checksum.
type LockedPackage struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Source   string `yaml:"source"`
	Checksum string `yaml:"checksum,omitempty"`
}

// LoadLockfile reads package.lock; a missing file yields an empty lockfile.
func LoadLockfile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Lockfile{FormatVersion: lockfileFormatVersion}, nil
		}
		return nil, fmt.Errorf("lockfile: read %s: %w", path, err)
	}
	var lock Lockfile
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", path, err)
	}
	if lock.FormatVersion == 0 {
		lock.FormatVersion = lockfileFormatVersion
	}
	if lock.FormatVersion != lockfileFormatVersion {
		return nil, fmt.Errorf("lockfile: %s uses unsupported format version %d", path, lock.FormatVersion)
	}
	return &lock, nil
}

// Write persists the lockfile with packages in deterministic order.
func (l *Lockfile) Write(path string) error {
	l.FormatVersion = lockfileFormatVersion
	sort.SliceStable(l.Packages, func(i, j int) bool {
		if l.Packages[i].Name == l.Packages[j].Name {
			return l.Packages[i].Version < l.Packages[j].Version
		}
		return l.Packages[i].Name < l.Packages[j].Name
	})
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("lockfile: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("lockfile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", path, err)
	}
	return nil
}

// Find returns the pinned entry for a dependency name, if present.
func (l *Lockfile) Find(name string) (*LockedPackage, bool) {
	key := sanitizeName(name)
	for _, pkg := range l.Packages {
		if pkg != nil && pkg.Name == key {
			return pkg, true
		}
	}
	return nil, false
}
