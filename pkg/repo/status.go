package repo

import (
	"fmt"
	"sort"
)

// ModifiedFile is a working-tree change that is not staged.
type ModifiedFile struct {
	Path   string
	Reason string // "modified" or "deleted"
}

// Status is a read-only snapshot of branches, the stage and the working
// tree relative to the current tip.
type Status struct {
	Head      string
	Branches  []string
	Staged    []string
	Removed   []string
	Modified  []ModifiedFile
	Untracked []string
}

// Status reports branches, staged additions and removals, unstaged
// modifications and untracked files. All lists are sorted.
func (r *Repo) Status() (*Status, error) {
	tip, err := r.tipCommit()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	files, err := r.Worktree.Files()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	present := make(map[string]bool, len(files))
	for _, p := range files {
		present[p] = true
	}

	st := &Status{
		Head:     r.head,
		Branches: r.Branches(),
		Staged:   r.stage.StagedPaths(),
		Removed:  r.stage.RemovedPaths(),
	}

	digestOf := func(p string) (string, error) {
		content, err := r.Worktree.ReadFile(p)
		if err != nil {
			return "", err
		}
		h, err := r.Store.BlobDigest(p, content)
		return string(h), err
	}

	for _, p := range collectAllPaths(tip.Tree, r.stage.Additions) {
		staged, isStaged := r.stage.Additions[p]
		tracked, isTracked := tip.Tree[p]

		if !present[p] {
			if isStaged || (isTracked && !r.stage.IsRemoved(p)) {
				st.Modified = append(st.Modified, ModifiedFile{Path: p, Reason: "deleted"})
			}
			continue
		}
		d, err := digestOf(p)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		switch {
		case isStaged && d != string(staged):
			st.Modified = append(st.Modified, ModifiedFile{Path: p, Reason: "modified"})
		case !isStaged && isTracked && d != string(tracked) && !r.stage.IsRemoved(p):
			st.Modified = append(st.Modified, ModifiedFile{Path: p, Reason: "modified"})
		}
	}

	for _, p := range files {
		_, isStaged := r.stage.Additions[p]
		_, isTracked := tip.Tree[p]
		if !isStaged && (!isTracked || r.stage.IsRemoved(p)) {
			st.Untracked = append(st.Untracked, p)
		}
	}

	sort.Slice(st.Modified, func(i, j int) bool { return st.Modified[i].Path < st.Modified[j].Path })
	return st, nil
}
