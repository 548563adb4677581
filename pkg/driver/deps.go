package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Installer resolves the manifest's dependencies into the cache directory and
// produces the lockfile entries that pin them.
type Installer struct {
	manifest *Manifest
	cacheDir string
	git      *gitFetcher
	logs     []string
}

func NewInstaller(manifest *Manifest, cacheDir string) *Installer {
	return &Installer{
		manifest: manifest,
		cacheDir: cacheDir,
		git:      &gitFetcher{cacheDir: cacheDir},
	}
}

// Logs returns a human-readable record of the last Install run.
func (ins *Installer) Logs() []string {
	return ins.logs
}

// Install fetches every declared dependency and returns the resulting
// lockfile. Dependencies are processed in name order so repeated runs
// produce identical lockfiles.
func (ins *Installer) Install() (*Lockfile, error) {
	ins.logs = nil
	lock := &Lockfile{FormatVersion: lockfileFormatVersion}
	if ins.manifest == nil {
		return lock, nil
	}

	names := make([]string, 0, len(ins.manifest.Dependencies))
	for name := range ins.manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := ins.manifest.Dependencies[name]
		if spec == nil {
			return nil, fmt.Errorf("dependency %q has no descriptor", name)
		}
		pkg, err := ins.installOne(name, spec)
		if err != nil {
			return nil, err
		}
		lock.Packages = append(lock.Packages, pkg)
		ins.logs = append(ins.logs, fmt.Sprintf("installed %s %s (%s)", pkg.Name, pkg.Version, pkg.Source))
	}
	return lock, nil
}

func (ins *Installer) installOne(name string, spec *DependencySpec) (*LockedPackage, error) {
	switch {
	case spec.Path != "":
		return ins.resolvePathDependency(name, spec)
	case spec.Git != "":
		return ins.git.Fetch(name, spec)
	default:
		return nil, fmt.Errorf("dependency %q: only git and path sources are installable", name)
	}
}

// resolvePathDependency validates a local dependency without copying it; the
// lock entry records the path relative to the manifest.
func (ins *Installer) resolvePathDependency(name string, spec *DependencySpec) (*LockedPackage, error) {
	root := filepath.Dir(ins.manifest.Path)
	target := spec.Path
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, filepath.FromSlash(spec.Path))
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: path %s: %w", name, spec.Path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dependency %q: path %s is not a directory", name, spec.Path)
	}
	return &LockedPackage{
		Name:    sanitizeName(name),
		Version: "local",
		Source:  "path:" + filepath.ToSlash(spec.Path),
	}, nil
}

// PackageSourceDir is where a locked git dependency's checkout lives.
func PackageSourceDir(cacheDir, name, version string) string {
	return filepath.Join(cacheDir, "pkg", "src", sanitizeName(name), sanitizePathSegment(version))
}

type gitFetcher struct {
	cacheDir string
}

// Fetch clones the repository, checks out the pinned revision, and moves the
// checkout into the cache keyed by name and version.
func (g *gitFetcher) Fetch(name string, spec *DependencySpec) (*LockedPackage, error) {
	url := strings.TrimSpace(spec.Git)
	if url == "" {
		return nil, fmt.Errorf("dependency %q: git URL required", name)
	}

	baseDir := filepath.Join(g.cacheDir, "pkg", "src", sanitizeName(name))
	version, commit, err := ensureGitCheckout(baseDir, url, spec)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: %w", name, err)
	}

	checkoutDir := filepath.Join(baseDir, sanitizePathSegment(version))
	checksum, err := dirChecksum(checkoutDir)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: %w", name, err)
	}

	return &LockedPackage{
		Name:     sanitizeName(name),
		Version:  version,
		Source:   fmt.Sprintf("git+%s@%s", url, commit),
		Checksum: checksum,
	}, nil
}

func ensureGitCheckout(baseDir, url string, spec *DependencySpec) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	revision, descriptor, err := gitRevisionFromSpec(spec)
	if err != nil {
		return "", "", err
	}

	// An explicit rev is already pinned; reuse a prior checkout when present.
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(rev))
		if _, err := os.Stat(existing); err == nil {
			return rev, rev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:               url,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return version, hash.String(), nil
}

func gitRevisionFromSpec(spec *DependencySpec) (plumbing.Revision, string, error) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), rev, nil
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag, nil
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch), branch, nil
	}
	return "", "", fmt.Errorf("git dependencies require rev, tag, or branch")
}

func gitPinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

// dirChecksum hashes file paths and contents so lockfile verification catches
// any drift in a cached checkout. The .git directory is excluded.
func dirChecksum(root string) (string, error) {
	hasher := sha256.New()
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if entry.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		io.WriteString(hasher, filepath.ToSlash(rel))
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		_, copyErr := io.Copy(hasher, file)
		file.Close()
		return copyErr
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	result := b.String()
	if result == "" {
		return "head"
	}
	return result
}
