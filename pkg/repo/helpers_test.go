package repo

import (
	"errors"
	"testing"
	"time"

	"github.com/odvcencio/gitlet/pkg/kv"
	"github.com/odvcencio/gitlet/pkg/object"
)

// testClock returns a clock that advances one second per call so commits
// with identical trees still get distinct digests.
func testClock() func() time.Time {
	tick := int64(1700000000)
	return func() time.Time {
		tick++
		return time.Unix(tick, 0)
	}
}

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	return newTestRepoWithConfig(t, DefaultConfig())
}

func newTestRepoWithConfig(t *testing.T, cfg Config) *Repo {
	t.Helper()
	r, err := Init(t.TempDir(), cfg, WithClock(testClock()))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func writeFile(t *testing.T, r *Repo, path, content string) {
	t.Helper()
	if err := r.Worktree.WriteFile(path, []byte(content)); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, r *Repo, path string) string {
	t.Helper()
	data, err := r.Worktree.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func mustAdd(t *testing.T, r *Repo, path string) {
	t.Helper()
	if err := r.Add(path); err != nil {
		t.Fatalf("Add(%s): %v", path, err)
	}
}

func mustCommit(t *testing.T, r *Repo, message string) object.Hash {
	t.Helper()
	h, err := r.Commit(message)
	if err != nil {
		t.Fatalf("Commit(%q): %v", message, err)
	}
	return h
}

// commitFile writes, stages and commits a single file.
func commitFile(t *testing.T, r *Repo, path, content, message string) object.Hash {
	t.Helper()
	writeFile(t, r, path, content)
	mustAdd(t, r, path)
	return mustCommit(t, r, message)
}

func mustCheckout(t *testing.T, r *Repo, branch string) {
	t.Helper()
	if err := r.CheckoutBranch(branch); err != nil {
		t.Fatalf("CheckoutBranch(%s): %v", branch, err)
	}
}

func mustBranch(t *testing.T, r *Repo, branch string) {
	t.Helper()
	if err := r.CreateBranch(branch); err != nil {
		t.Fatalf("CreateBranch(%s): %v", branch, err)
	}
}

func mustGetCommit(t *testing.T, r *Repo, h object.Hash) *object.Commit {
	t.Helper()
	c, err := r.Store.GetCommit(h)
	if err != nil {
		t.Fatalf("GetCommit(%s): %v", h, err)
	}
	return c
}

// persistedState captures every non-object key so tests can assert that a
// failed call left nothing changed.
func persistedState(t *testing.T, r *Repo) map[string]string {
	t.Helper()
	keys := []string{keyHead, keyBranches, keyParents, keyMerges, keyStageAdditions, keyStageRemovals, keyStageTouched}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v, err := r.db.Get(k)
		if errors.Is(err, kv.ErrNotFound) {
			out[k] = "<absent>"
			continue
		}
		if err != nil {
			t.Fatalf("get %s: %v", k, err)
		}
		out[k] = string(v)
	}
	commits, err := r.Store.Commits()
	if err != nil {
		t.Fatalf("Commits: %v", err)
	}
	for _, h := range commits {
		out["commit:"+string(h)] = ""
	}
	return out
}

func assertSameState(t *testing.T, before, after map[string]string) {
	t.Helper()
	if len(before) != len(after) {
		t.Fatalf("persisted state changed: %d keys before, %d after", len(before), len(after))
	}
	for k, v := range before {
		if after[k] != v {
			t.Fatalf("persisted %s changed: %q -> %q", k, v, after[k])
		}
	}
}
