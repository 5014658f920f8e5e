package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/gitlet/pkg/object"
)

// CommitSigner signs canonical commit payload bytes and returns an encoded
// signature string to be persisted in Commit.Signature.
type CommitSigner func(payload []byte) (string, error)

// LogEntry pairs a commit with its digest.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.Commit
}

// Commit folds the stage into a new commit on the current branch.
//
//  1. Reject an empty stage, then a blank message
//  2. Fold the stage onto the tip's tree
//  3. Write the commit with the tip as parent
//  4. Advance the branch and record the parent edge
//  5. Clear the stage
func (r *Repo) Commit(message string) (object.Hash, error) {
	return r.CommitWithSigner(message, nil)
}

// CommitWithSigner creates a new commit and signs it when signer is provided.
func (r *Repo) CommitWithSigner(message string, signer CommitSigner) (object.Hash, error) {
	if r.stage.Empty() {
		return "", ErrEmptyCommit
	}
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}
	return r.commitStage(message, "", signer)
}

// commitStage writes a commit from the current stage. secondParent is set
// only for merge commits, and is part of the commit before it is hashed.
func (r *Repo) commitStage(message string, secondParent object.Hash, signer CommitSigner) (object.Hash, error) {
	parentHash := r.HeadTip()
	parent, err := r.Store.GetCommit(parentHash)
	if err != nil {
		return "", fmt.Errorf("commit: read parent: %w", err)
	}

	c := &object.Commit{
		Message:      message,
		Timestamp:    r.Now().Unix(),
		Parent:       parentHash,
		SecondParent: secondParent,
		Tree:         r.stage.FoldInto(parent.Tree),
	}
	if signer != nil {
		signature, err := signer(object.CommitSigningPayload(c))
		if err != nil {
			return "", fmt.Errorf("commit: sign commit: %w", err)
		}
		c.Signature = signature
	}

	h, err := r.Store.PutCommit(c)
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}

	r.parents[h] = parentHash
	if secondParent != "" {
		r.merges[h] = MergeParents{First: parentHash, Second: secondParent}
	}
	if err := r.saveGraph(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if err := r.moveBranch(r.head, h); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	r.stage.Clear()
	if err := r.saveStage(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	r.Logger.Debug("committed",
		"commit", h.Short(),
		"branch", r.head,
		"files", len(c.Tree),
		"merge", secondParent != "")
	return h, nil
}

// Log walks first parents from the current tip back to the root commit,
// newest first.
func (r *Repo) Log() ([]LogEntry, error) {
	var out []LogEntry
	for cur := r.HeadTip(); cur != ""; {
		c, err := r.Store.GetCommit(cur)
		if err != nil {
			return nil, fmt.Errorf("log: read commit %s: %w", cur, err)
		}
		out = append(out, LogEntry{Hash: cur, Commit: c})
		cur = c.Parent
	}
	return out, nil
}

// GlobalLog returns every stored commit ordered by digest.
func (r *Repo) GlobalLog() ([]LogEntry, error) {
	hashes, err := r.Store.Commits()
	if err != nil {
		return nil, fmt.Errorf("global-log: %w", err)
	}
	out := make([]LogEntry, 0, len(hashes))
	for _, h := range hashes {
		c, err := r.Store.GetCommit(h)
		if err != nil {
			return nil, fmt.Errorf("global-log: read commit %s: %w", h, err)
		}
		out = append(out, LogEntry{Hash: h, Commit: c})
	}
	return out, nil
}

// Find returns the digests of every commit whose message equals message
// exactly, ordered by digest.
func (r *Repo) Find(message string) ([]object.Hash, error) {
	entries, err := r.GlobalLog()
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	var out []object.Hash
	for _, e := range entries {
		if e.Commit.Message == message {
			out = append(out, e.Hash)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoCommitWithMessage
	}
	return out, nil
}
