package repo

import (
	"errors"
	"testing"
)

func TestBranchCreateListDelete(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "a.txt", "x", "first")

	mustBranch(t, r, "feature")
	if got := r.Branches(); len(got) != 2 || got[0] != "feature" || got[1] != "master" {
		t.Fatalf("Branches = %v, want [feature master]", got)
	}
	tip, err := r.BranchTip("feature")
	if err != nil || tip != r.HeadTip() {
		t.Fatalf("BranchTip(feature) = %s, %v; want %s", tip, err, r.HeadTip())
	}
	if r.CurrentBranch() != "master" {
		t.Fatal("CreateBranch must not switch branches")
	}

	if err := r.CreateBranch("feature"); !errors.Is(err, ErrBranchExists) {
		t.Fatalf("duplicate CreateBranch: err = %v, want ErrBranchExists", err)
	}

	if err := r.DeleteBranch("feature"); err != nil {
		t.Fatalf("DeleteBranch: %v", err)
	}
	if got := r.Branches(); len(got) != 1 || got[0] != "master" {
		t.Fatalf("Branches after delete = %v", got)
	}
	if !r.Store.HasCommit(tip) {
		t.Fatal("deleting a branch must keep its commits")
	}
}

func TestDeleteBranchErrors(t *testing.T) {
	r := newTestRepo(t)
	if err := r.DeleteBranch("ghost"); !errors.Is(err, ErrUnknownBranch) {
		t.Fatalf("DeleteBranch(ghost): err = %v, want ErrUnknownBranch", err)
	}
	if err := r.DeleteBranch("master"); !errors.Is(err, ErrCannotDeleteCurrent) {
		t.Fatalf("DeleteBranch(master): err = %v, want ErrCannotDeleteCurrent", err)
	}
}

func TestSetHeadLeavesPointersAlone(t *testing.T) {
	r := newTestRepo(t)
	mustBranch(t, r, "other")
	commitFile(t, r, "a.txt", "x", "first")
	master := r.HeadTip()

	if err := r.SetHead("other"); err != nil {
		t.Fatalf("SetHead: %v", err)
	}
	if r.CurrentBranch() != "other" {
		t.Fatalf("CurrentBranch = %q", r.CurrentBranch())
	}
	if tip, _ := r.BranchTip("master"); tip != master {
		t.Fatal("SetHead moved the master pointer")
	}
	if err := r.SetHead("ghost"); !errors.Is(err, ErrUnknownBranch) {
		t.Fatalf("SetHead(ghost): err = %v", err)
	}
}

func TestTipResolvesBranchesAndPrefixes(t *testing.T) {
	r := newTestRepo(t)
	h := commitFile(t, r, "a.txt", "x", "first")

	got, err := r.Tip("master")
	if err != nil || got != h {
		t.Fatalf("Tip(master) = %s, %v", got, err)
	}
	got, err = r.Tip(string(h[:10]))
	if err != nil || got != h {
		t.Fatalf("Tip(prefix) = %s, %v", got, err)
	}
	if _, err := r.Tip("zzzz"); !errors.Is(err, ErrUnknownCommit) {
		t.Fatalf("Tip(zzzz): err = %v, want ErrUnknownCommit", err)
	}
}
