package repo

import (
	"testing"

	"github.com/odvcencio/gitlet/pkg/object"
)

func mustMerge(t *testing.T, r *Repo, other string) *MergeResult {
	t.Helper()
	res, err := r.Merge(other)
	if err != nil {
		t.Fatalf("Merge(%s): %v", other, err)
	}
	return res
}

// buildPriorMergeHistory creates:
//
//	A -- M1 -- X (master, merge of B1)
//	 \        /
//	  B1 ---- B2 (b)
func buildPriorMergeHistory(t *testing.T, r *Repo) (a, b1, m1, x, b2 object.Hash) {
	t.Helper()
	a = commitFile(t, r, "a.txt", "base", "A")
	mustBranch(t, r, "b")
	mustCheckout(t, r, "b")
	b1 = commitFile(t, r, "b.txt", "1", "B1")
	mustCheckout(t, r, "master")
	m1 = commitFile(t, r, "m.txt", "1", "M1")

	res := mustMerge(t, r, "b")
	if res.Outcome != MergeOutcomeMerged {
		t.Fatalf("first merge outcome = %s", res.Outcome)
	}
	x = res.MergeCommit

	mustCheckout(t, r, "b")
	b2 = commitFile(t, r, "b.txt", "2", "B2")
	mustCheckout(t, r, "master")
	return a, b1, m1, x, b2
}

func TestAncestorsWithDistanceMonotonic(t *testing.T) {
	r := newTestRepo(t)
	buildPriorMergeHistory(t, r)

	for _, branch := range []string{"master", "b"} {
		dist, err := r.AncestorsWithDistance(branch)
		if err != nil {
			t.Fatalf("AncestorsWithDistance(%s): %v", branch, err)
		}
		for h, d := range dist {
			parents, err := r.parentsOf(h)
			if err != nil {
				t.Fatalf("parentsOf: %v", err)
			}
			for _, p := range parents {
				pd, ok := dist[p]
				if !ok {
					t.Fatalf("%s: parent %s of %s missing from ancestors", branch, p.Short(), h.Short())
				}
				if pd <= d {
					t.Fatalf("%s: parent %s distance %d not greater than child %s distance %d", branch, p.Short(), pd, h.Short(), d)
				}
			}
		}
	}
}

func TestAncestorsIncludeSecondParents(t *testing.T) {
	r := newTestRepo(t)
	a, b1, m1, x, _ := buildPriorMergeHistory(t, r)

	dist, err := r.AncestorsWithDistance("master")
	if err != nil {
		t.Fatalf("AncestorsWithDistance: %v", err)
	}
	if dist[x] != 0 || dist[m1] != 1 || dist[b1] != 1 || dist[a] != 2 {
		t.Fatalf("distances: x=%d m1=%d b1=%d a=%d", dist[x], dist[m1], dist[b1], dist[a])
	}
	if len(dist) != 5 {
		t.Fatalf("ancestor count = %d, want 5 (x, m1, b1, a, root)", len(dist))
	}
}

func TestMergeBaseWithoutMergesUsesPaths(t *testing.T) {
	r := newTestRepo(t)
	a := commitFile(t, r, "a.txt", "base", "A")
	mustBranch(t, r, "side")
	commitFile(t, r, "a.txt", "master", "M1")
	mustCheckout(t, r, "side")
	commitFile(t, r, "s.txt", "side", "S1")

	base, err := r.MergeBase("side", "master")
	if err != nil {
		t.Fatalf("MergeBase: %v", err)
	}
	if base != a {
		t.Fatalf("MergeBase = %s, want %s", base.Short(), a.Short())
	}
}

func TestMergeBaseAfterPriorMerge(t *testing.T) {
	r := newTestRepo(t)
	a, b1, _, _, _ := buildPriorMergeHistory(t, r)

	base, err := r.MergeBase("master", "b")
	if err != nil {
		t.Fatalf("MergeBase: %v", err)
	}
	if base == a {
		t.Fatal("MergeBase returned A; the prior merge makes B1 the nearest common ancestor")
	}
	if base != b1 {
		t.Fatalf("MergeBase = %s, want B1 %s", base.Short(), b1.Short())
	}

	res := mustMerge(t, r, "b")
	if res.Outcome != MergeOutcomeMerged || res.HasConflicts {
		t.Fatalf("merge result = %+v", res)
	}
	if got := readFile(t, r, "b.txt"); got != "2" {
		t.Fatalf("b.txt = %q, want 2", got)
	}
}

func TestMergeBaseCrissCrossTieBreak(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "a.txt", "base", "A")
	mustBranch(t, r, "snap")
	m1 := commitFile(t, r, "m.txt", "m", "M1")
	mustBranch(t, r, "m1")

	mustCheckout(t, r, "snap")
	s1 := commitFile(t, r, "s.txt", "s", "S1")
	mustBranch(t, r, "s1")

	// master takes S1 and snap takes M1: two merges whose best common
	// ancestors are both S1 and M1.
	mustCheckout(t, r, "master")
	if res := mustMerge(t, r, "s1"); res.Outcome != MergeOutcomeMerged {
		t.Fatalf("merge s1 outcome = %s", res.Outcome)
	}
	mustCheckout(t, r, "snap")
	if res := mustMerge(t, r, "m1"); res.Outcome != MergeOutcomeMerged {
		t.Fatalf("merge m1 outcome = %s", res.Outcome)
	}

	want := m1
	if s1 < want {
		want = s1
	}
	for _, pair := range [][2]string{{"snap", "master"}, {"master", "snap"}} {
		base, err := r.MergeBase(pair[0], pair[1])
		if err != nil {
			t.Fatalf("MergeBase(%s, %s): %v", pair[0], pair[1], err)
		}
		if base != want {
			t.Fatalf("MergeBase(%s, %s) = %s, want smallest of S1/M1 %s", pair[0], pair[1], base.Short(), want.Short())
		}
	}
}

func TestSplitFromPaths(t *testing.T) {
	head := []object.Hash{"h2", "h1", "c", "root"}
	other := []object.Hash{"o1", "c", "root"}
	if got := splitFromPaths(head, other); got != "c" {
		t.Fatalf("splitFromPaths = %s, want c", got)
	}
	if got := splitFromPaths([]object.Hash{"x"}, []object.Hash{"y"}); got != "" {
		t.Fatalf("disjoint paths = %s, want empty", got)
	}
}
