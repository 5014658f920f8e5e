package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/odvcencio/gitlet/pkg/object"
)

func TestInitCreatesRootCommit(t *testing.T) {
	r := newTestRepo(t)

	if got := r.CurrentBranch(); got != "master" {
		t.Fatalf("CurrentBranch = %q, want master", got)
	}
	if got := r.Branches(); len(got) != 1 || got[0] != "master" {
		t.Fatalf("Branches = %v, want [master]", got)
	}

	root := mustGetCommit(t, r, r.HeadTip())
	if root.Message != object.InitialCommitMessage || root.Timestamp != 0 || root.Parent != "" || len(root.Tree) != 0 {
		t.Fatalf("root commit = %+v", root)
	}
	if !r.Stage().Empty() {
		t.Fatal("new repository has a non-empty stage")
	}

	other := newTestRepo(t)
	if other.HeadTip() != r.HeadTip() {
		t.Errorf("root commits differ between repositories: %s vs %s", r.HeadTip(), other.HeadTip())
	}
}

func TestInitTwiceFails(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, DefaultConfig())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	r.Close()

	_, err = Init(dir, DefaultConfig())
	if !errors.Is(err, ErrRepoExists) {
		t.Fatalf("second Init: err = %v, want ErrRepoExists", err)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second Init: err = %v, want kind ErrInvalidState", err)
	}
}

func TestInitRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = "floppy"
	if _, err := Init(t.TempDir(), cfg); err == nil {
		t.Fatal("Init with unknown backend: expected error")
	}
}

func TestOpenFromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir, DefaultConfig(), WithClock(testClock()))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	commitFile(t, r, "a.txt", "hello", "first")
	writeFile(t, r, "b.txt", "pending")
	mustAdd(t, r, "b.txt")
	tip := r.HeadTip()
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	sub := filepath.Join(dir, "nested", "deeper")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	reopened, err := Open(sub)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	abs, _ := filepath.Abs(dir)
	if reopened.RootDir != abs {
		t.Errorf("RootDir = %q, want %q", reopened.RootDir, abs)
	}
	if reopened.HeadTip() != tip {
		t.Errorf("HeadTip = %s, want %s", reopened.HeadTip(), tip)
	}
	if got := reopened.Stage().StagedPaths(); len(got) != 1 || got[0] != "b.txt" {
		t.Errorf("stage after reopen = %v, want [b.txt]", got)
	}
}

func TestOpenOutsideRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	if !errors.Is(err, ErrNotARepository) {
		t.Fatalf("Open: err = %v, want ErrNotARepository", err)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := Config{
		Core:    CoreConfig{DefaultBranch: "main", Hash: "sha1"},
		Storage: StorageConfig{Backend: BackendDir, Compression: "zstd"},
		User:    UserConfig{SigningKey: "~/.ssh/id_ed25519"},
	}
	r := newTestRepoWithConfig(t, cfg)

	got, err := ReadConfig(r.GitletDir)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if got != r.Config {
		t.Fatalf("ReadConfig = %+v, want %+v", got, r.Config)
	}
	if got.Core.DefaultBranch != "main" || got.Core.Hash != "sha1" || got.Storage.Compression != "zstd" {
		t.Fatalf("ReadConfig = %+v", got)
	}
	if r.CurrentBranch() != "main" {
		t.Errorf("CurrentBranch = %q, want main", r.CurrentBranch())
	}
	if len(r.HeadTip()) != 40 {
		t.Errorf("sha1 repository digest length = %d, want 40", len(r.HeadTip()))
	}
}

func TestReadConfigMissingReturnsDefaults(t *testing.T) {
	cfg, err := ReadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("ReadConfig = %+v, want defaults", cfg)
	}
}

func TestBadgerBackendRepository(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Storage.Backend = BackendBadger
	cfg.Storage.Compression = "zstd"

	r, err := Init(dir, cfg, WithClock(testClock()))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	first := commitFile(t, r, "a.txt", "hello", "first")
	mustBranch(t, r, "feat")
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, gitletDirName, "db")); err != nil {
		t.Fatalf("badger directory missing: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	if reopened.HeadTip() != first {
		t.Fatalf("HeadTip = %s, want %s", reopened.HeadTip(), first)
	}
	log, err := reopened.Log()
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(log) != 2 || log[0].Commit.Message != "first" {
		t.Fatalf("Log = %+v", log)
	}
	mustCheckout(t, reopened, "feat")
	if got := readFile(t, reopened, "a.txt"); got != "hello" {
		t.Errorf("a.txt = %q, want hello", got)
	}
}

func TestDirWorktreeFiles(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "b.txt", "b")
	writeFile(t, r, "dir/a.txt", "a")

	files, err := r.Worktree.Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 2 || files[0] != "b.txt" || files[1] != "dir/a.txt" {
		t.Fatalf("Files = %v, want [b.txt dir/a.txt]", files)
	}

	if err := r.Worktree.Remove("dir/a.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(r.RootDir, "dir")); !os.IsNotExist(err) {
		t.Errorf("empty parent directory not removed: %v", err)
	}
	if err := r.Worktree.Remove("missing.txt"); err != nil {
		t.Errorf("Remove missing: %v", err)
	}
}

func TestRelPath(t *testing.T) {
	r := newTestRepo(t)
	got, err := r.RelPath(filepath.Join(r.RootDir, "dir", "a.txt"))
	if err != nil {
		t.Fatalf("RelPath: %v", err)
	}
	if got != "dir/a.txt" {
		t.Errorf("RelPath = %q, want dir/a.txt", got)
	}

	t.Chdir(r.RootDir)
	got, err = r.RelPath("x.txt")
	if err != nil || got != "x.txt" {
		t.Errorf("RelPath(x.txt) = %q, %v", got, err)
	}
}

func TestRelPathRejectsPathsOutsideRoot(t *testing.T) {
	r := newTestRepo(t)
	t.Chdir(r.RootDir)

	for _, p := range []string{
		"../outside.txt",
		"..",
		filepath.Join(filepath.Dir(r.RootDir), "outside.txt"),
		".gitlet/config.toml",
		"dir/../../outside.txt",
	} {
		if got, err := r.RelPath(p); !errors.Is(err, ErrOutsideRepository) {
			t.Errorf("RelPath(%q) = %q, %v; want ErrOutsideRepository", p, got, err)
		}
	}
	if got, err := r.RelPath("dir/../inside.txt"); err != nil || got != "inside.txt" {
		t.Errorf("RelPath(dir/../inside.txt) = %q, %v", got, err)
	}
}

func TestWorktreeStaysInsideRoot(t *testing.T) {
	r := newTestRepo(t)
	outside := filepath.Join(filepath.Dir(r.RootDir), "outside.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}
	before := persistedState(t, r)

	if err := r.Add("../outside.txt"); !errors.Is(err, ErrOutsideRepository) {
		t.Fatalf("Add(../outside.txt) = %v, want ErrOutsideRepository", err)
	}
	assertSameState(t, before, persistedState(t, r))

	if err := r.Worktree.WriteFile("../outside.txt", []byte("clobbered")); !errors.Is(err, ErrOutsideRepository) {
		t.Fatalf("WriteFile escaped root: %v", err)
	}
	if err := r.Worktree.Remove("../outside.txt"); !errors.Is(err, ErrOutsideRepository) {
		t.Fatalf("Remove escaped root: %v", err)
	}
	if _, err := r.Worktree.ReadFile("/etc/hostname"); !errors.Is(err, ErrOutsideRepository) {
		t.Fatalf("ReadFile of absolute path: %v", err)
	}
	if r.Worktree.Exists("../outside.txt") {
		t.Fatal("Exists reported a file outside the root")
	}
	if err := r.Worktree.WriteFile(".gitlet/refs/head", []byte("x")); !errors.Is(err, ErrOutsideRepository) {
		t.Fatalf("WriteFile into .gitlet: %v", err)
	}
	if err := r.CheckoutPath("", "../outside.txt"); !errors.Is(err, ErrFileNotInCommit) {
		t.Fatalf("CheckoutPath(../outside.txt) = %v, want ErrFileNotInCommit", err)
	}

	data, err := os.ReadFile(outside)
	if err != nil || string(data) != "keep" {
		t.Fatalf("file outside root changed: %q, %v", data, err)
	}
}
