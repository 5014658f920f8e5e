package repo

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/odvcencio/gitlet/pkg/object"
)

// MergeOutcome names how a merge resolved.
type MergeOutcome string

const (
	// MergeOutcomeAncestor means the other branch is already contained in
	// head; nothing changed.
	MergeOutcomeAncestor MergeOutcome = "ancestor"
	// MergeOutcomeFastForward means head's branch moved to the other tip.
	MergeOutcomeFastForward MergeOutcome = "fast-forward"
	// MergeOutcomeMerged means a merge commit was written.
	MergeOutcomeMerged MergeOutcome = "merged"
)

// File merge statuses.
const (
	FileKept     = "kept"
	FileTaken    = "taken"
	FileRemoved  = "removed"
	FileConflict = "conflict"
)

// FileMergeReport records the merge outcome for a single file.
type FileMergeReport struct {
	Path   string
	Status string
}

// MergeResult is the overall result of a repository-level merge.
type MergeResult struct {
	Outcome      MergeOutcome
	Base         object.Hash
	MergeCommit  object.Hash // set only for MergeOutcomeMerged
	Files        []FileMergeReport
	Conflicts    []string
	HasConflicts bool
}

// Message returns the line a user sees for the result, if any.
func (m *MergeResult) Message() string {
	switch {
	case m.Outcome == MergeOutcomeAncestor:
		return "Given branch is an ancestor of the current branch."
	case m.Outcome == MergeOutcomeFastForward:
		return "Current branch fast-forwarded."
	case m.HasConflicts:
		return "Encountered a merge conflict."
	default:
		return ""
	}
}

type mergeAction int

const (
	actionKeep mergeAction = iota
	actionTakeTheirs
	actionRemove
	actionConflict
)

// classifyMerge decides one path from its blob digest at the split point
// (s), on head (c) and on the other branch (t). Empty means absent.
//
// A file unchanged on head and deleted on the other branch is removed
// rather than kept, the way gitlet's merge calls rm on it. A file deleted
// on both sides is left alone.
func classifyMerge(s, c, t object.Hash) mergeAction {
	switch {
	case s == "":
		switch {
		case t == "":
			return actionKeep
		case c == "":
			return actionTakeTheirs
		case c != t:
			return actionConflict
		default:
			return actionKeep
		}
	case c == "" && t == "":
		return actionKeep
	case t == "":
		if c == s {
			return actionRemove
		}
		return actionConflict
	case c == "":
		if t == s {
			return actionKeep
		}
		return actionConflict
	case c == s:
		if t != s {
			return actionTakeTheirs
		}
		return actionKeep
	case t != s && t != c:
		return actionConflict
	default:
		return actionKeep
	}
}

// Merge merges branch other into the current branch.
//
//  1. Check preconditions before touching anything
//  2. Find the split point
//  3. Stop if other is an ancestor, fast-forward if head is
//  4. Reconcile every path three ways, staging the results
//  5. Commit "Merged {other} into {head}." with other's tip as second parent
//
// Conflicts are written into the file and staged; they never abort the
// merge.
func (r *Repo) Merge(other string) (*MergeResult, error) {
	otherTip, ok := r.branches[other]
	if !ok {
		return nil, ErrUnknownBranch
	}
	if other == r.head {
		return nil, ErrSelfMerge
	}
	if !r.stage.Empty() {
		return nil, ErrDirtyStage
	}
	headTip := r.HeadTip()
	current, err := r.Store.GetCommit(headTip)
	if err != nil {
		return nil, fmt.Errorf("merge: read head commit: %w", err)
	}
	files, err := r.Worktree.Files()
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	for _, p := range files {
		if _, tracked := current.Tree[p]; !tracked {
			return nil, &UntrackedFileError{Path: p}
		}
	}

	base, err := r.MergeBase(r.head, other)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	result := &MergeResult{Base: base}

	if base == otherTip {
		result.Outcome = MergeOutcomeAncestor
		r.Logger.Debug("merge", "other", other, "outcome", result.Outcome)
		return result, nil
	}

	theirs, err := r.Store.GetCommit(otherTip)
	if err != nil {
		return nil, fmt.Errorf("merge: read commit %s: %w", otherTip, err)
	}

	if base == headTip {
		if err := r.replaceWorktree(current.Tree, theirs.Tree); err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		if err := r.moveBranch(r.head, otherTip); err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		r.stage.Clear()
		if err := r.saveStage(); err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		result.Outcome = MergeOutcomeFastForward
		r.Logger.Debug("merge", "other", other, "outcome", result.Outcome, "commit", otherTip.Short())
		return result, nil
	}

	split, err := r.Store.GetCommit(base)
	if err != nil {
		return nil, fmt.Errorf("merge: read split commit %s: %w", base, err)
	}

	for _, p := range collectAllPaths(split.Tree, current.Tree, theirs.Tree) {
		report, err := r.reconcilePath(p, split.Tree[p], current.Tree[p], theirs.Tree[p])
		if err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		result.Files = append(result.Files, report)
		if report.Status == FileConflict {
			result.Conflicts = append(result.Conflicts, p)
		}
	}
	result.HasConflicts = len(result.Conflicts) > 0

	msg := fmt.Sprintf("Merged %s into %s.", other, r.head)
	h, err := r.commitStage(msg, otherTip, nil)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	result.Outcome = MergeOutcomeMerged
	result.MergeCommit = h
	r.Logger.Debug("merge",
		"other", other,
		"outcome", result.Outcome,
		"base", base.Short(),
		"commit", h.Short(),
		"conflicts", len(result.Conflicts))
	return result, nil
}

// reconcilePath applies the decision for one path through the regular
// staging contract.
func (r *Repo) reconcilePath(path string, s, c, t object.Hash) (FileMergeReport, error) {
	report := FileMergeReport{Path: path, Status: FileKept}
	switch classifyMerge(s, c, t) {
	case actionTakeTheirs:
		content, err := r.Store.GetBlob(t)
		if err != nil {
			return report, fmt.Errorf("read blob for %q: %w", path, err)
		}
		if err := r.Worktree.WriteFile(path, content); err != nil {
			return report, err
		}
		if err := r.stageAdd(path, content); err != nil {
			return report, err
		}
		report.Status = FileTaken
	case actionRemove:
		if err := r.Remove(path); err != nil {
			return report, err
		}
		report.Status = FileRemoved
	case actionConflict:
		ours, err := r.readOptionalBlob(c)
		if err != nil {
			return report, fmt.Errorf("read blob for %q: %w", path, err)
		}
		other, err := r.readOptionalBlob(t)
		if err != nil {
			return report, fmt.Errorf("read blob for %q: %w", path, err)
		}
		content := renderFileConflict(ours, other)
		if err := r.Worktree.WriteFile(path, content); err != nil {
			return report, err
		}
		if err := r.stageAdd(path, content); err != nil {
			return report, err
		}
		report.Status = FileConflict
	}
	return report, nil
}

func (r *Repo) readOptionalBlob(h object.Hash) ([]byte, error) {
	if h == "" {
		return nil, nil
	}
	return r.Store.GetBlob(h)
}

func renderFileConflict(ours, theirs []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<<<<<<< HEAD\n")
	buf.Write(ours)
	buf.WriteString("=======\n")
	buf.Write(theirs)
	buf.WriteString(">>>>>>>\n")
	return buf.Bytes()
}

func collectAllPaths(trees ...map[string]object.Hash) []string {
	set := make(map[string]struct{})
	for _, tree := range trees {
		for p := range tree {
			set[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(tree map[string]object.Hash) []string {
	out := make([]string, 0, len(tree))
	for p := range tree {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
