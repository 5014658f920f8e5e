package object

import (
	"errors"
	"fmt"
	"strings"

	"github.com/odvcencio/gitlet/pkg/kv"
)

const (
	blobPrefix   = "objects/blobs/"
	commitPrefix = "objects/commits/"
)

// Store is an append-only, content-addressed object store for blobs and
// commits layered on a kv.Backend. Objects are written once and never
// mutated or deleted.
type Store struct {
	kv          kv.Backend
	algo        Algorithm
	compression Compression
}

// NewStore creates a Store over backend using the given digest algorithm
// and object body compression.
func NewStore(backend kv.Backend, algo Algorithm, compression Compression) *Store {
	if algo == "" {
		algo = SHA256
	}
	if compression == "" {
		compression = CompressionNone
	}
	return &Store{kv: backend, algo: algo, compression: compression}
}

// Algorithm returns the digest algorithm of the store.
func (s *Store) Algorithm() Algorithm { return s.algo }

// write stores body under key unless it already exists.
func (s *Store) write(key string, body []byte) error {
	ok, err := s.kv.Has(key)
	if err != nil {
		return fmt.Errorf("object write: %w", err)
	}
	if ok {
		return nil
	}
	encoded, err := s.compression.encode(body)
	if err != nil {
		return fmt.Errorf("object write %s: %w", key, err)
	}
	if err := s.kv.Put(key, encoded); err != nil {
		return fmt.Errorf("object write: %w", err)
	}
	return nil
}

func (s *Store) read(key string, h Hash) ([]byte, error) {
	raw, err := s.kv.Get(key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, fmt.Errorf("object read %s: %w", h, ErrNotFound)
		}
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	body, err := s.compression.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return body, nil
}

// ---------------------------------------------------------------------------
// Blobs
// ---------------------------------------------------------------------------

// BlobDigest computes the digest of (path, content) without storing it.
func (s *Store) BlobDigest(path string, content []byte) (Hash, error) {
	return s.algo.HashObject(TypeBlob, blobPayload(path, content))
}

// PutBlob stores content as the blob for path and returns its digest.
// Storing an identical (path, content) pair again is a no-op.
func (s *Store) PutBlob(path string, content []byte) (Hash, error) {
	h, err := s.BlobDigest(path, content)
	if err != nil {
		return "", err
	}
	if err := s.write(blobPrefix+string(h), content); err != nil {
		return "", err
	}
	return h, nil
}

// GetBlob returns the raw content of a blob.
func (s *Store) GetBlob(h Hash) ([]byte, error) {
	return s.read(blobPrefix+string(h), h)
}

// HasBlob reports whether the blob exists.
func (s *Store) HasBlob(h Hash) bool {
	ok, err := s.kv.Has(blobPrefix + string(h))
	return err == nil && ok
}

// ---------------------------------------------------------------------------
// Commits
// ---------------------------------------------------------------------------

// CommitDigest computes the digest of a fully populated commit.
func (s *Store) CommitDigest(c *Commit) (Hash, error) {
	return s.algo.HashObject(TypeCommit, MarshalCommit(c))
}

// PutCommit serializes and stores c, returning its digest. The digest is
// computed from the final field values; callers must not mutate c after.
func (s *Store) PutCommit(c *Commit) (Hash, error) {
	data := MarshalCommit(c)
	h, err := s.algo.HashObject(TypeCommit, data)
	if err != nil {
		return "", err
	}
	if err := s.write(commitPrefix+string(h), data); err != nil {
		return "", err
	}
	return h, nil
}

// GetCommit reads and deserializes a commit.
func (s *Store) GetCommit(h Hash) (*Commit, error) {
	data, err := s.read(commitPrefix+string(h), h)
	if err != nil {
		return nil, err
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	return c, nil
}

// HasCommit reports whether the commit exists.
func (s *Store) HasCommit(h Hash) bool {
	if h == "" {
		return false
	}
	ok, err := s.kv.Has(commitPrefix + string(h))
	return err == nil && ok
}

// Commits lists every stored commit digest in sorted order.
func (s *Store) Commits() ([]Hash, error) {
	return s.listCommits("")
}

func (s *Store) listCommits(prefix string) ([]Hash, error) {
	keys, err := s.kv.List(commitPrefix + prefix)
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}
	out := make([]Hash, 0, len(keys))
	for _, k := range keys {
		out = append(out, Hash(strings.TrimPrefix(k, commitPrefix)))
	}
	return out, nil
}

// ResolvePrefix returns the single commit digest starting with prefix.
// Zero matches yield ErrNotFound and several yield ErrAmbiguousReference.
func (s *Store) ResolvePrefix(prefix string) (Hash, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || strings.Contains(prefix, "/") {
		return "", fmt.Errorf("resolve %q: %w", prefix, ErrNotFound)
	}
	matches, err := s.listCommits(prefix)
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("resolve %q: %w", prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("resolve %q: %d commits match: %w", prefix, len(matches), ErrAmbiguousReference)
	}
}
