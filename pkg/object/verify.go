package object

import (
	"fmt"
	"sort"
)

// VerifyReport summarizes an integrity check of the object store.
type VerifyReport struct {
	Commits  int
	Blobs    int
	Problems []string
}

// OK reports whether no problems were found.
func (r *VerifyReport) OK() bool { return len(r.Problems) == 0 }

// Verify re-hashes every stored commit and every blob referenced from a
// commit tree, reporting digests that do not match their keys and tree
// entries pointing at missing blobs. Storage errors abort the check.
func (s *Store) Verify() (*VerifyReport, error) {
	commits, err := s.Commits()
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	report := &VerifyReport{}
	seenBlobs := make(map[Hash]bool)

	for _, h := range commits {
		c, err := s.GetCommit(h)
		if err != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("commit %s: %v", h, err))
			continue
		}
		report.Commits++

		got, err := s.CommitDigest(c)
		if err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}
		if got != h {
			report.Problems = append(report.Problems, fmt.Sprintf("commit %s: digest mismatch (recomputed %s)", h, got))
		}

		paths := make([]string, 0, len(c.Tree))
		for p := range c.Tree {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			bh := c.Tree[p]
			if seenBlobs[bh] {
				continue
			}
			seenBlobs[bh] = true

			if !s.HasBlob(bh) {
				report.Problems = append(report.Problems, fmt.Sprintf("blob %s (%s): missing", bh, p))
				continue
			}
			content, err := s.GetBlob(bh)
			if err != nil {
				report.Problems = append(report.Problems, fmt.Sprintf("blob %s (%s): %v", bh, p, err))
				continue
			}
			report.Blobs++
			want, err := s.BlobDigest(p, content)
			if err != nil {
				return nil, fmt.Errorf("verify: %w", err)
			}
			if want != bh {
				report.Problems = append(report.Problems, fmt.Sprintf("blob %s (%s): digest mismatch (recomputed %s)", bh, p, want))
			}
		}
	}
	return report, nil
}
