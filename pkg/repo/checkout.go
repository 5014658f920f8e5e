package repo

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/object"
)

// CheckoutBranch switches the working tree and head to the tip of name.
//
//  1. Validate the branch and refuse untracked files the target would
//     overwrite
//  2. Delete files tracked by the current tip
//  3. Write every file tracked by the target tip
//  4. Clear the stage and point head at name
func (r *Repo) CheckoutBranch(name string) error {
	targetHash, ok := r.branches[name]
	if !ok {
		return ErrUnknownBranch
	}
	if name == r.head {
		return ErrAlreadyOnBranch
	}

	current, err := r.tipCommit()
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	target, err := r.Store.GetCommit(targetHash)
	if err != nil {
		return fmt.Errorf("checkout: read commit %s: %w", targetHash, err)
	}
	if err := r.checkUntracked(current.Tree, target.Tree); err != nil {
		return err
	}

	if err := r.replaceWorktree(current.Tree, target.Tree); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	r.stage.Clear()
	if err := r.saveStage(); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	prev := r.head
	r.head = name
	if err := r.saveHead(); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	r.Logger.Debug("checked out branch", "from", prev, "to", name, "commit", targetHash.Short())
	return nil
}

// CheckoutPath restores one file from a commit into the working tree. An
// empty ref means the current tip. The stage is left alone.
func (r *Repo) CheckoutPath(ref, path string) error {
	h := r.HeadTip()
	if ref != "" {
		resolved, err := r.ResolveCommit(ref)
		if err != nil {
			return err
		}
		h = resolved
	}
	c, err := r.Store.GetCommit(h)
	if err != nil {
		return fmt.Errorf("checkout: read commit %s: %w", h, err)
	}
	blob, ok := c.Tree[path]
	if !ok {
		return ErrFileNotInCommit
	}
	content, err := r.Store.GetBlob(blob)
	if err != nil {
		return fmt.Errorf("checkout: read blob for %q: %w", path, err)
	}
	if err := r.Worktree.WriteFile(path, content); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	r.Logger.Debug("checked out file", "path", path, "commit", h.Short())
	return nil
}

// Reset replaces the working tree with the tree of ref and rebinds the
// current branch to it. No history is rewritten.
func (r *Repo) Reset(ref string) error {
	targetHash, err := r.ResolveCommit(ref)
	if err != nil {
		return err
	}
	current, err := r.tipCommit()
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	target, err := r.Store.GetCommit(targetHash)
	if err != nil {
		return fmt.Errorf("reset: read commit %s: %w", targetHash, err)
	}
	if err := r.checkUntracked(current.Tree, target.Tree); err != nil {
		return err
	}

	if err := r.replaceWorktree(current.Tree, target.Tree); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	r.stage.Clear()
	if err := r.saveStage(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := r.moveBranch(r.head, targetHash); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

// checkUntracked fails when a working file unknown to current would be
// overwritten by target.
func (r *Repo) checkUntracked(current, target map[string]object.Hash) error {
	files, err := r.Worktree.Files()
	if err != nil {
		return err
	}
	for _, p := range files {
		_, tracked := current[p]
		_, incoming := target[p]
		if !tracked && incoming {
			return &UntrackedFileError{Path: p}
		}
	}
	return nil
}

// replaceWorktree removes the files of current that target drops and
// writes every file of target.
func (r *Repo) replaceWorktree(current, target map[string]object.Hash) error {
	for p := range current {
		if _, keep := target[p]; keep {
			continue
		}
		if err := r.Worktree.Remove(p); err != nil {
			return err
		}
	}
	for _, p := range sortedKeys(target) {
		content, err := r.Store.GetBlob(target[p])
		if err != nil {
			return fmt.Errorf("read blob for %q: %w", p, err)
		}
		if err := r.Worktree.WriteFile(p, content); err != nil {
			return err
		}
	}
	return nil
}
