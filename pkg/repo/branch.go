package repo

import (
	"fmt"
	"sort"

	"github.com/odvcencio/gitlet/pkg/object"
)

// CurrentBranch returns the name of the checked-out branch.
func (r *Repo) CurrentBranch() string {
	return r.head
}

// Branches returns every branch name, sorted.
func (r *Repo) Branches() []string {
	names := make([]string, 0, len(r.branches))
	for name := range r.branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BranchTip returns the commit a branch points at.
func (r *Repo) BranchTip(name string) (object.Hash, error) {
	h, ok := r.branches[name]
	if !ok {
		return "", ErrUnknownBranch
	}
	return h, nil
}

// Tip resolves ref as a branch name first and then as a commit digest or
// unique digest prefix.
func (r *Repo) Tip(ref string) (object.Hash, error) {
	if h, ok := r.branches[ref]; ok {
		return h, nil
	}
	return r.ResolveCommit(ref)
}

// ResolveCommit resolves a full or abbreviated commit digest.
func (r *Repo) ResolveCommit(ref string) (object.Hash, error) {
	h, err := r.Store.ResolvePrefix(ref)
	if err != nil {
		return "", resolveError(ref, err)
	}
	return h, nil
}

// HeadTip returns the commit the current branch points at.
func (r *Repo) HeadTip() object.Hash {
	return r.branches[r.head]
}

func (r *Repo) tipCommit() (*object.Commit, error) {
	c, err := r.Store.GetCommit(r.HeadTip())
	if err != nil {
		return nil, fmt.Errorf("read head commit: %w", err)
	}
	return c, nil
}

// CreateBranch points a new branch at the current tip without switching to
// it.
func (r *Repo) CreateBranch(name string) error {
	if name == "" {
		return ErrIncorrectOperands
	}
	if _, exists := r.branches[name]; exists {
		return ErrBranchExists
	}
	r.branches[name] = r.HeadTip()
	if err := r.saveBranches(); err != nil {
		return fmt.Errorf("branch: %w", err)
	}
	r.Logger.Debug("created branch", "branch", name, "commit", r.HeadTip().Short())
	return nil
}

// DeleteBranch removes a branch pointer. Commits stay in the store.
func (r *Repo) DeleteBranch(name string) error {
	if _, exists := r.branches[name]; !exists {
		return ErrUnknownBranch
	}
	if name == r.head {
		return ErrCannotDeleteCurrent
	}
	delete(r.branches, name)
	if err := r.saveBranches(); err != nil {
		return fmt.Errorf("rm-branch: %w", err)
	}
	r.Logger.Debug("deleted branch", "branch", name)
	return nil
}

// SetHead switches head to an existing branch without touching branch
// pointers, the stage or the working tree.
func (r *Repo) SetHead(name string) error {
	if _, exists := r.branches[name]; !exists {
		return ErrUnknownBranch
	}
	r.head = name
	return r.saveHead()
}

// moveBranch rebinds a branch pointer and persists the branch map.
func (r *Repo) moveBranch(name string, h object.Hash) error {
	old := r.branches[name]
	r.branches[name] = h
	if err := r.saveBranches(); err != nil {
		return err
	}
	r.Logger.Debug("moved branch", "branch", name, "from", old.Short(), "to", h.Short())
	return nil
}
