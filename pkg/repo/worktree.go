package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Worktree is the working-directory collaborator. Paths are slash-separated
// and relative to the repository root.
type Worktree interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, content []byte) error
	Remove(path string) error
	Exists(path string) bool
	// Files lists every regular file outside the repository directory,
	// sorted.
	Files() ([]string, error)
}

// DirWorktree is a Worktree rooted at a directory on disk.
type DirWorktree struct {
	Root string
}

// NewDirWorktree returns a Worktree over root.
func NewDirWorktree(root string) *DirWorktree {
	return &DirWorktree{Root: root}
}

// checkLocalPath rejects paths that leave the worktree root or point into
// the repository directory.
func checkLocalPath(path string) error {
	native := filepath.FromSlash(path)
	if !filepath.IsLocal(native) {
		return ErrOutsideRepository
	}
	first, _, _ := strings.Cut(filepath.ToSlash(filepath.Clean(native)), "/")
	if first == gitletDirName {
		return ErrOutsideRepository
	}
	return nil
}

func (w *DirWorktree) abs(path string) (string, error) {
	if err := checkLocalPath(path); err != nil {
		return "", err
	}
	return filepath.Join(w.Root, filepath.FromSlash(path)), nil
}

func (w *DirWorktree) ReadFile(path string) ([]byte, error) {
	abs, err := w.abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return data, nil
}

func (w *DirWorktree) WriteFile(path string, content []byte) error {
	abs, err := w.abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("write %q: mkdir: %w", path, err)
	}
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// Remove deletes path and any parent directories left empty. A missing
// file is not an error.
func (w *DirWorktree) Remove(path string) error {
	abs, err := w.abs(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", path, err)
	}
	w.removeEmptyParents(filepath.Dir(abs))
	return nil
}

func (w *DirWorktree) Exists(path string) bool {
	abs, err := w.abs(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

func (w *DirWorktree) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(w.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == gitletDirName && p != w.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(w.Root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list worktree: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// removeEmptyParents removes empty directories up to (but not including)
// the worktree root.
func (w *DirWorktree) removeEmptyParents(dir string) {
	for {
		if dir == w.Root || !strings.HasPrefix(dir, w.Root) {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		os.Remove(dir)
		dir = filepath.Dir(dir)
	}
}

// RelPath resolves p (absolute, or relative to the process working
// directory) to a slash path relative to the repository root. Paths outside
// the root, or inside .gitlet, fail with ErrOutsideRepository.
func (r *Repo) RelPath(p string) (string, error) {
	abs := p
	if !filepath.IsAbs(p) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", p, err)
		}
		abs = filepath.Join(cwd, p)
	}
	rel, err := filepath.Rel(r.RootDir, abs)
	if err != nil {
		return "", ErrOutsideRepository
	}
	rel = filepath.ToSlash(rel)
	if err := checkLocalPath(rel); err != nil {
		return "", err
	}
	return rel, nil
}
