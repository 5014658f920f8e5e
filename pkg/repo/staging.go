package repo

import (
	"fmt"
	"slices"
	"sort"

	"github.com/odvcencio/gitlet/pkg/object"
)

// Stage holds the pending additions and removals between commits.
//
// A path is never both added and removed: staging one side drops the
// other. Removals is an append log and may repeat a path; Touched records
// the order decisions were applied.
type Stage struct {
	Additions map[string]object.Hash `json:"additions"`
	Removals  []string               `json:"removals"`
	Touched   []string               `json:"touched"`
}

// NewStage returns an empty stage.
func NewStage() *Stage {
	return &Stage{Additions: make(map[string]object.Hash)}
}

// Empty reports whether nothing is staged.
func (s *Stage) Empty() bool {
	return len(s.Additions) == 0 && len(s.Removals) == 0
}

// Clear drops all pending state in place.
func (s *Stage) Clear() {
	clear(s.Additions)
	s.Removals = s.Removals[:0]
	s.Touched = s.Touched[:0]
}

// IsRemoved reports whether path is staged for removal.
func (s *Stage) IsRemoved(path string) bool {
	return slices.Contains(s.Removals, path)
}

func (s *Stage) add(path string, h object.Hash) {
	s.unremove(path)
	s.Additions[path] = h
	s.Touched = append(s.Touched, path)
}

func (s *Stage) remove(path string) {
	delete(s.Additions, path)
	s.Removals = append(s.Removals, path)
	s.Touched = append(s.Touched, path)
}

func (s *Stage) unremove(path string) {
	s.Removals = slices.DeleteFunc(s.Removals, func(p string) bool { return p == path })
}

// revert drops every pending decision for path.
func (s *Stage) revert(path string) {
	delete(s.Additions, path)
	s.unremove(path)
}

// FoldInto applies the stage to parentTree and returns the resulting tree.
// Each path's final state is read from Additions and Removals directly, so
// the result does not depend on the order of Touched. parentTree is not
// modified.
func (s *Stage) FoldInto(parentTree map[string]object.Hash) map[string]object.Hash {
	tree := make(map[string]object.Hash, len(parentTree)+len(s.Additions))
	for p, h := range parentTree {
		tree[p] = h
	}
	for p, h := range s.Additions {
		tree[p] = h
	}
	for _, p := range s.Removals {
		delete(tree, p)
	}
	return tree
}

// StagedPaths returns the paths staged for addition, sorted.
func (s *Stage) StagedPaths() []string {
	out := make([]string, 0, len(s.Additions))
	for p := range s.Additions {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// RemovedPaths returns the distinct paths staged for removal, sorted.
func (s *Stage) RemovedPaths() []string {
	out := slices.Clone(s.Removals)
	sort.Strings(out)
	return slices.Compact(out)
}

func (s *Stage) clone() *Stage {
	c := NewStage()
	for p, h := range s.Additions {
		c.Additions[p] = h
	}
	c.Removals = slices.Clone(s.Removals)
	c.Touched = slices.Clone(s.Touched)
	return c
}

// Stage returns a copy of the pending stage.
func (r *Repo) Stage() *Stage {
	return r.stage.clone()
}

// Add stages the working copy of path. It fails with ErrOutsideRepository
// for a path that leaves the worktree and ErrFileNotFound when the file is
// absent.
func (r *Repo) Add(path string) error {
	if err := checkLocalPath(path); err != nil {
		return err
	}
	if !r.Worktree.Exists(path) {
		return ErrFileNotFound
	}
	content, err := r.Worktree.ReadFile(path)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return r.stageAdd(path, content)
}

// stageAdd records path -> digest(path, content). Content equal to the tip
// version cancels any pending change to path instead.
func (r *Repo) stageAdd(path string, content []byte) error {
	tip, err := r.tipCommit()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	h, err := r.Store.BlobDigest(path, content)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	if tracked, ok := tip.Tree[path]; ok && tracked == h {
		r.stage.revert(path)
		r.Logger.Debug("staged revert", "path", path)
		return r.saveStage()
	}

	if _, err := r.Store.PutBlob(path, content); err != nil {
		return fmt.Errorf("add: write blob %q: %w", path, err)
	}
	r.stage.add(path, h)
	r.Logger.Debug("staged addition", "path", path, "blob", h.Short())
	return r.saveStage()
}

// Remove unstages path if it is staged for addition; otherwise, when the
// tip tracks path, it stages a removal and deletes the working file. Any
// other path fails with ErrNothingToRemove.
func (r *Repo) Remove(path string) error {
	if _, staged := r.stage.Additions[path]; staged {
		delete(r.stage.Additions, path)
		r.Logger.Debug("unstaged", "path", path)
		return r.saveStage()
	}

	tip, err := r.tipCommit()
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	if _, tracked := tip.Tree[path]; !tracked {
		return ErrNothingToRemove
	}

	r.stage.remove(path)
	if err := r.saveStage(); err != nil {
		return err
	}
	if err := r.Worktree.Remove(path); err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	r.Logger.Debug("staged removal", "path", path)
	return nil
}
