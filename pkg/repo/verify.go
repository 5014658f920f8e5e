package repo

import (
	"fmt"

	"github.com/odvcencio/gitlet/pkg/object"
)

// SignatureVerifier checks a commit signature against its signing payload.
type SignatureVerifier func(payload []byte, signature string) error

// SignatureReport is the signature state of one commit.
type SignatureReport struct {
	Hash   object.Hash
	Signed bool
	Err    error // verification failure; nil when valid or unsigned
}

// Verify re-hashes the object store.
func (r *Repo) Verify() (*object.VerifyReport, error) {
	return r.Store.Verify()
}

// CheckSignatures runs verify over every signed commit on the first-parent
// history of the current branch, newest first.
func (r *Repo) CheckSignatures(verify SignatureVerifier) ([]SignatureReport, error) {
	entries, err := r.Log()
	if err != nil {
		return nil, fmt.Errorf("check signatures: %w", err)
	}
	out := make([]SignatureReport, 0, len(entries))
	for _, e := range entries {
		rep := SignatureReport{Hash: e.Hash, Signed: e.Commit.Signature != ""}
		if rep.Signed {
			rep.Err = verify(object.CommitSigningPayload(e.Commit), e.Commit.Signature)
		}
		out = append(out, rep)
	}
	return out, nil
}
