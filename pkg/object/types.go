package object

import "errors"

// Hash is a lowercase hex-encoded object digest.
type Hash string

// Short returns the first eight characters of h.
func (h Hash) Short() string {
	if len(h) > 8 {
		return string(h[:8])
	}
	return string(h)
}

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeCommit ObjectType = "commit"
)

var (
	// ErrNotFound marks a digest, commit, branch or file that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguousReference marks a short digest matching several commits.
	ErrAmbiguousReference = errors.New("ambiguous reference")
)

// InitialCommitMessage is the message of every repository's root commit.
const InitialCommitMessage = "initial commit"

// Blob is the snapshot of one file at add time. Its digest covers both the
// path and the content, so identical bytes under two names are two blobs.
type Blob struct {
	Path    string
	Content []byte
}

// Commit is an immutable snapshot of the full path -> blob mapping.
type Commit struct {
	Message      string
	Timestamp    int64 // unix seconds
	Parent       Hash  // empty for the root commit
	SecondParent Hash  // set only on merge commits
	Tree         map[string]Hash
	Signature    string
}

// NewRootCommit returns the fixed root commit: no parent, empty tree,
// message "initial commit" and the Unix epoch as timestamp.
func NewRootCommit() *Commit {
	return &Commit{
		Message:   InitialCommitMessage,
		Timestamp: 0,
		Tree:      map[string]Hash{},
	}
}

// IsMerge reports whether c has a second parent.
func (c *Commit) IsMerge() bool {
	return c.SecondParent != ""
}
