// Package repo implements a gitlet repository session: the staging area,
// the commit graph with its branch pointers, checkout and reset, the
// three-way merge engine, and the read-only queries built on them.
package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/odvcencio/gitlet/pkg/kv"
	"github.com/odvcencio/gitlet/pkg/object"
)

const gitletDirName = ".gitlet"

// Persisted state keys.
const (
	keyHead           = "refs/head"
	keyBranches       = "refs/branches"
	keyParents        = "graph/parents"
	keyMerges         = "graph/merges"
	keyStageAdditions = "stage/additions"
	keyStageRemovals  = "stage/removals"
	keyStageTouched   = "stage/touched"
)

// MergeParents records both parents of a merge commit.
type MergeParents struct {
	First  object.Hash `json:"first"`
	Second object.Hash `json:"second"`
}

// Repo is an opened gitlet repository. All state lives in named fields
// loaded at Open and rewritten by every mutating call.
type Repo struct {
	RootDir   string        // working directory root
	GitletDir string        // .gitlet/ directory
	Store     *object.Store // content-addressed object store
	Worktree  Worktree
	Config    Config
	Logger    *slog.Logger
	Now       func() time.Time

	db       kv.Backend
	head     string
	branches map[string]object.Hash
	parents  map[object.Hash]object.Hash
	merges   map[object.Hash]MergeParents
	stage    *Stage
}

// Option customizes a Repo at Init or Open.
type Option func(*Repo)

// WithLogger sets the logger used for debug records.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repo) {
		if l != nil {
			r.Logger = l
		}
	}
}

// WithClock overrides the commit timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) {
		if now != nil {
			r.Now = now
		}
	}
}

// WithWorktree replaces the on-disk working tree.
func WithWorktree(w Worktree) Option {
	return func(r *Repo) {
		if w != nil {
			r.Worktree = w
		}
	}
}

func newRepo(root string, opts []Option) *Repo {
	r := &Repo{
		RootDir:   root,
		GitletDir: filepath.Join(root, gitletDirName),
		Worktree:  NewDirWorktree(root),
		Logger:    slog.New(slog.DiscardHandler),
		Now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init creates a new repository at path with the root commit on the
// configured default branch. It fails with ErrRepoExists when path already
// holds one.
func Init(path string, cfg Config, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	r := newRepo(abs, opts)

	if _, err := os.Stat(r.GitletDir); err == nil {
		return nil, ErrRepoExists
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := os.MkdirAll(r.GitletDir, 0o755); err != nil {
		return nil, fmt.Errorf("init: mkdir %s: %w", r.GitletDir, err)
	}
	if err := WriteConfig(r.GitletDir, cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	r.Config = cfg
	if err := r.openStorage(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	root, err := r.Store.PutCommit(object.NewRootCommit())
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("init: write root commit: %w", err)
	}
	r.head = cfg.Core.DefaultBranch
	r.branches = map[string]object.Hash{r.head: root}
	r.parents = map[object.Hash]object.Hash{root: ""}
	r.merges = map[object.Hash]MergeParents{}
	r.stage = NewStage()

	if err := r.saveAll(); err != nil {
		r.Close()
		return nil, fmt.Errorf("init: %w", err)
	}
	r.Logger.Debug("initialized repository",
		"root", r.RootDir,
		"branch", r.head,
		"commit", root.Short(),
		"hash", cfg.Core.Hash,
		"backend", cfg.Storage.Backend)
	return r, nil
}

// Open searches upward from path for a .gitlet/ directory and opens the
// repository. It fails with ErrNotARepository if none is found.
func Open(path string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		info, err := os.Stat(filepath.Join(cur, gitletDirName))
		if err == nil && info.IsDir() {
			break
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, ErrNotARepository
		}
		cur = parent
	}

	r := newRepo(cur, opts)
	cfg, err := ReadConfig(r.GitletDir)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	r.Config = cfg
	if err := r.openStorage(); err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := r.load(); err != nil {
		r.Close()
		return nil, fmt.Errorf("open: %w", err)
	}
	return r, nil
}

// Close releases the storage backend.
func (r *Repo) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Repo) openStorage() error {
	switch r.Config.Storage.Backend {
	case BackendBadger:
		db, err := kv.OpenBadger(kv.BadgerConfig{
			Path:       filepath.Join(r.GitletDir, "db"),
			SyncWrites: r.Config.Storage.SyncWrites,
			Logger:     r.Logger,
		})
		if err != nil {
			return err
		}
		r.db = db
	default:
		r.db = kv.NewDir(r.GitletDir)
	}
	r.Store = object.NewStore(r.db,
		object.Algorithm(r.Config.Core.Hash),
		object.Compression(r.Config.Storage.Compression))
	return nil
}

func (r *Repo) load() error {
	head, err := r.db.Get(keyHead)
	if err != nil {
		return fmt.Errorf("read head: %w", err)
	}
	r.head = strings.TrimSpace(string(head))

	r.branches = make(map[string]object.Hash)
	r.parents = make(map[object.Hash]object.Hash)
	r.merges = make(map[object.Hash]MergeParents)
	r.stage = NewStage()

	if err := r.getJSON(keyBranches, &r.branches); err != nil {
		return err
	}
	if err := r.getJSON(keyParents, &r.parents); err != nil {
		return err
	}
	if err := r.getJSON(keyMerges, &r.merges); err != nil {
		return err
	}
	if err := r.getJSON(keyStageAdditions, &r.stage.Additions); err != nil {
		return err
	}
	if err := r.getJSON(keyStageRemovals, &r.stage.Removals); err != nil {
		return err
	}
	if err := r.getJSON(keyStageTouched, &r.stage.Touched); err != nil {
		return err
	}
	if r.stage.Additions == nil {
		r.stage.Additions = make(map[string]object.Hash)
	}
	if _, ok := r.branches[r.head]; !ok {
		return fmt.Errorf("head %q names no branch", r.head)
	}
	return nil
}

// getJSON decodes key into v. A missing key leaves v untouched.
func (r *Repo) getJSON(key string, v any) error {
	data, err := r.db.Get(key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("read %s: unmarshal: %w", key, err)
	}
	return nil
}

func (r *Repo) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("write %s: marshal: %w", key, err)
	}
	if err := r.db.Put(key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (r *Repo) saveHead() error {
	if err := r.db.Put(keyHead, []byte(r.head+"\n")); err != nil {
		return fmt.Errorf("write %s: %w", keyHead, err)
	}
	return nil
}

func (r *Repo) saveBranches() error { return r.putJSON(keyBranches, r.branches) }

func (r *Repo) saveGraph() error {
	if err := r.putJSON(keyParents, r.parents); err != nil {
		return err
	}
	return r.putJSON(keyMerges, r.merges)
}

// saveStage persists the stage. An empty stage is stored as absent keys.
func (r *Repo) saveStage() error {
	if r.stage.Empty() {
		r.stage.Touched = r.stage.Touched[:0]
		for _, key := range []string{keyStageAdditions, keyStageRemovals, keyStageTouched} {
			if err := r.db.Delete(key); err != nil {
				return fmt.Errorf("clear %s: %w", key, err)
			}
		}
		return nil
	}
	if err := r.putJSON(keyStageAdditions, r.stage.Additions); err != nil {
		return err
	}
	if err := r.putJSON(keyStageRemovals, r.stage.Removals); err != nil {
		return err
	}
	return r.putJSON(keyStageTouched, r.stage.Touched)
}

func (r *Repo) saveAll() error {
	if err := r.saveHead(); err != nil {
		return err
	}
	if err := r.saveBranches(); err != nil {
		return err
	}
	if err := r.saveGraph(); err != nil {
		return err
	}
	return r.saveStage()
}
