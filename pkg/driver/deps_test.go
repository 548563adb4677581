package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initSourceRepo builds a throwaway git repository holding one Sox file and
// returns its path and head commit.
func initSourceRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("git init: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lib.sox"), []byte("print \"from dependency\";\n"), 0o644); err != nil {
		t.Fatalf("writing source file: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := worktree.Add("lib.sox"); err != nil {
		t.Fatalf("git add: %v", err)
	}
	hash, err := worktree.Commit("add lib", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("git commit: %v", err)
	}
	return dir, hash.String()
}

func TestInstallGitDependencyByRev(t *testing.T) {
	repoDir, commit := initSourceRepo(t)

	projectDir := t.TempDir()
	manifestPath := writeManifest(t, projectDir, "name: demo\nentry: main.sox\n")
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	manifest.Dependencies = map[string]*DependencySpec{
		"lib": {Git: repoDir, Rev: commit},
	}

	cacheDir := t.TempDir()
	lock, err := NewInstaller(manifest, cacheDir).Install()
	if err != nil {
		t.Fatalf("Install: %v", err)
	}

	pkg, ok := lock.Find("lib")
	if !ok {
		t.Fatal("lockfile missing 'lib'")
	}
	if pkg.Version != commit {
		t.Errorf("version = %q, want pinned commit %q", pkg.Version, commit)
	}
	if !strings.HasPrefix(pkg.Source, "git+") || !strings.HasSuffix(pkg.Source, "@"+commit) {
		t.Errorf("source = %q", pkg.Source)
	}
	if pkg.Checksum == "" {
		t.Error("checksum must be recorded")
	}

	checkout := PackageSourceDir(cacheDir, "lib", pkg.Version)
	if _, err := os.Stat(filepath.Join(checkout, "lib.sox")); err != nil {
		t.Errorf("checkout missing lib.sox: %v", err)
	}
}

func TestInstallIsIdempotent(t *testing.T) {
	repoDir, commit := initSourceRepo(t)

	projectDir := t.TempDir()
	manifest, err := LoadManifest(writeManifest(t, projectDir, "name: demo\n"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	manifest.Dependencies = map[string]*DependencySpec{
		"lib": {Git: repoDir, Rev: commit},
	}

	cacheDir := t.TempDir()
	installer := NewInstaller(manifest, cacheDir)
	first, err := installer.Install()
	if err != nil {
		t.Fatalf("first Install: %v", err)
	}
	second, err := installer.Install()
	if err != nil {
		t.Fatalf("second Install: %v", err)
	}
	if first.Packages[0].Version != second.Packages[0].Version {
		t.Errorf("versions differ across runs: %q vs %q", first.Packages[0].Version, second.Packages[0].Version)
	}
}

func TestInstallPathDependency(t *testing.T) {
	projectDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(projectDir, "vendor", "helpers"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifest, err := LoadManifest(writeManifest(t, projectDir, "name: demo\n"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	manifest.Dependencies = map[string]*DependencySpec{
		"helpers": {Path: "vendor/helpers"},
	}

	lock, err := NewInstaller(manifest, t.TempDir()).Install()
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	pkg, ok := lock.Find("helpers")
	if !ok || pkg.Source != "path:vendor/helpers" || pkg.Version != "local" {
		t.Errorf("helpers = %+v", pkg)
	}
}

func TestInstallPathDependencyMissing(t *testing.T) {
	projectDir := t.TempDir()
	manifest, err := LoadManifest(writeManifest(t, projectDir, "name: demo\n"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	manifest.Dependencies = map[string]*DependencySpec{
		"ghost": {Path: "does/not/exist"},
	}
	if _, err := NewInstaller(manifest, t.TempDir()).Install(); err == nil {
		t.Fatal("expected error for missing path dependency")
	}
}

func TestInstallRejectsVersionOnlyDependency(t *testing.T) {
	projectDir := t.TempDir()
	manifest, err := LoadManifest(writeManifest(t, projectDir, "name: demo\n"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	manifest.Dependencies = map[string]*DependencySpec{
		"registry-only": {Version: "1.0"},
	}
	if _, err := NewInstaller(manifest, t.TempDir()).Install(); err == nil {
		t.Fatal("expected error for registry-only dependency")
	}
}
