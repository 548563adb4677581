package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeManifest(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
name: demo
version: 0.1.0
entry: src/main.sox
authors:
  - Ada
  - Grace
dependencies:
  stdlib: "1.0"
  helpers:
    path: ../helpers
  toolkit:
    git: https://example.com/toolkit.git
    tag: v2.1.0
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Name != "demo" || m.Version != "0.1.0" || m.Entry != "src/main.sox" {
		t.Errorf("manifest header = %+v", m)
	}
	if diff := cmp.Diff([]string{"Ada", "Grace"}, m.Authors); diff != "" {
		t.Errorf("authors mismatch (-want +got):\n%s", diff)
	}
	if dep := m.Dependencies["stdlib"]; dep == nil || dep.Version != "1.0" {
		t.Errorf("stdlib = %+v, want shorthand version", dep)
	}
	if dep := m.Dependencies["helpers"]; dep == nil || dep.Path != "../helpers" {
		t.Errorf("helpers = %+v, want path dependency", dep)
	}
	if dep := m.Dependencies["toolkit"]; dep == nil || dep.Git == "" || dep.Tag != "v2.1.0" {
		t.Errorf("toolkit = %+v, want git dependency pinned by tag", dep)
	}
}

func TestManifestNameIsSanitized(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "name: My Project!\nentry: main.sox\n")
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Name != "my_project_" {
		t.Errorf("name = %q", m.Name)
	}
}

func TestValidationAggregatesIssues(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
name: ""
dependencies:
  broken:
    git: https://example.com/x.git
    version: "1.0"
  empty: {}
`)
	_, err := LoadManifest(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T, want *ValidationError", err)
	}
	msg := verr.Error()
	for _, want := range []string{
		"name must be provided",
		"git dependencies cannot also specify version",
		"must specify version, git, or path",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing issue %q in:\n%s", want, msg)
		}
	}
}

func TestGitDependencyRequiresPin(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
name: demo
dependencies:
  floating:
    git: https://example.com/x.git
`)
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "git dependencies require rev, tag, or branch") {
		t.Fatalf("error = %v", err)
	}
}

func TestUnknownManifestFieldRejected(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "name: demo\nbogus: true\n")
	if _, err := LoadManifest(path); err == nil {
		t.Fatal("unknown top-level fields should be rejected")
	}
}

func TestVersionConstraints(t *testing.T) {
	valid := []string{"1", "1.2", "1.2.3", "*", "~> 1.2", ">= 1.0, < 2.0", "^0.4.1"}
	for _, v := range valid {
		if !isValidVersionConstraint(v) {
			t.Errorf("constraint %q should be valid", v)
		}
	}
	invalid := []string{"", "one", ">=", "1.2.3.4.banana space"}
	for _, v := range invalid {
		if isValidVersionConstraint(v) {
			t.Errorf("constraint %q should be invalid", v)
		}
	}
}

func TestFindManifestClimbs(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, "name: demo\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if found != path {
		t.Errorf("found %q, want %q", found, path)
	}
}

func TestFindManifestMissing(t *testing.T) {
	if _, err := FindManifest(t.TempDir()); err == nil {
		t.Fatal("expected error when no manifest exists")
	}
}

func TestEntryPathResolvesRelativeToManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "name: demo\nentry: scripts/run.sox\n")
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	entry, err := m.EntryPath()
	if err != nil {
		t.Fatalf("EntryPath: %v", err)
	}
	if entry != filepath.Join(dir, "scripts", "run.sox") {
		t.Errorf("entry = %q", entry)
	}
}

func TestLockfileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockFileName)

	lock := &Lockfile{Packages: []*LockedPackage{
		{Name: "zeta", Version: "2.0", Source: "git+https://example.com/z.git@abc"},
		{Name: "alpha", Version: "1.0", Source: "path:../alpha"},
	}}
	if err := lock.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if loaded.FormatVersion != lockfileFormatVersion {
		t.Errorf("format version = %d", loaded.FormatVersion)
	}
	if len(loaded.Packages) != 2 || loaded.Packages[0].Name != "alpha" {
		t.Errorf("packages = %+v, want sorted by name", loaded.Packages)
	}
	if pkg, ok := loaded.Find("zeta"); !ok || pkg.Version != "2.0" {
		t.Errorf("Find(zeta) = %+v, %v", pkg, ok)
	}
}

func TestLoadLockfileMissingIsEmpty(t *testing.T) {
	lock, err := LoadLockfile(filepath.Join(t.TempDir(), LockFileName))
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if len(lock.Packages) != 0 {
		t.Errorf("packages = %+v, want empty", lock.Packages)
	}
}
