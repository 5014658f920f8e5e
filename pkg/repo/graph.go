package repo

import (
	"fmt"
	"slices"

	"github.com/odvcencio/gitlet/pkg/object"
)

// parentsOf returns the parent digests of h: the first parent, then the
// second parent of a merge commit. Commits missing from the parent map are
// read from the store.
func (r *Repo) parentsOf(h object.Hash) ([]object.Hash, error) {
	var out []object.Hash
	first, ok := r.parents[h]
	if !ok {
		c, err := r.Store.GetCommit(h)
		if err != nil {
			return nil, fmt.Errorf("parents of %s: %w", h, err)
		}
		if c.Parent != "" {
			out = append(out, c.Parent)
		}
		if c.SecondParent != "" {
			out = append(out, c.SecondParent)
		}
		return out, nil
	}
	if first != "" {
		out = append(out, first)
	}
	if m, ok := r.merges[h]; ok && m.Second != "" {
		out = append(out, m.Second)
	}
	return out, nil
}

// firstParentPath lists tip and its first-parent ancestors down to the
// root commit.
func (r *Repo) firstParentPath(tip object.Hash) []object.Hash {
	var path []object.Hash
	seen := make(map[object.Hash]bool)
	for cur := tip; cur != "" && !seen[cur]; cur = r.parents[cur] {
		seen[cur] = true
		path = append(path, cur)
	}
	return path
}

// AncestorsWithDistance maps every commit reachable from ref through either
// parent edge to its distance from the tip (0 at the tip). The distance is
// the longest path length, so a commit's parent always sits strictly
// farther away than the commit itself.
func (r *Repo) AncestorsWithDistance(ref string) (map[object.Hash]int, error) {
	tip, err := r.Tip(ref)
	if err != nil {
		return nil, err
	}
	order, edges, err := r.topoOrder(tip)
	if err != nil {
		return nil, err
	}

	dist := map[object.Hash]int{tip: 0}
	for _, n := range order {
		for _, p := range edges[n] {
			if d := dist[n] + 1; d > dist[p] {
				dist[p] = d
			}
		}
	}
	return dist, nil
}

// topoOrder returns the commits reachable from tip ordered so every commit
// precedes its parents, along with the parent edges it walked.
func (r *Repo) topoOrder(tip object.Hash) ([]object.Hash, map[object.Hash][]object.Hash, error) {
	type frame struct {
		node object.Hash
		next int
	}
	edges := make(map[object.Hash][]object.Hash)
	visited := make(map[object.Hash]bool)
	var post []object.Hash

	ps, err := r.parentsOf(tip)
	if err != nil {
		return nil, nil, err
	}
	edges[tip] = ps
	visited[tip] = true
	stack := []frame{{node: tip}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(edges[top.node]) {
			post = append(post, top.node)
			stack = stack[:len(stack)-1]
			continue
		}
		p := edges[top.node][top.next]
		top.next++
		if visited[p] {
			continue
		}
		visited[p] = true
		ps, err := r.parentsOf(p)
		if err != nil {
			return nil, nil, err
		}
		edges[p] = ps
		stack = append(stack, frame{node: p})
	}

	slices.Reverse(post)
	return post, edges, nil
}

// MergeBase returns the split point of two branches.
//
// The first candidate comes from the first-parent paths of both tips: the
// first commit on head's path that also lies on other's path. Once any
// merge commit exists, the candidate is replaced by the common ancestor
// (through either parent edge) closest to head by AncestorsWithDistance,
// with ties going to the smallest digest.
func (r *Repo) MergeBase(head, other string) (object.Hash, error) {
	headTip, err := r.BranchTip(head)
	if err != nil {
		return "", err
	}
	otherTip, err := r.BranchTip(other)
	if err != nil {
		return "", err
	}

	base := splitFromPaths(r.firstParentPath(headTip), r.firstParentPath(otherTip))
	if len(r.merges) == 0 {
		if base == "" {
			return "", fmt.Errorf("merge base of %s and %s: %w", head, other, ErrNotFound)
		}
		r.Logger.Debug("merge base", "head", head, "other", other, "base", base.Short(), "method", "path")
		return base, nil
	}

	headDist, err := r.AncestorsWithDistance(head)
	if err != nil {
		return "", err
	}
	otherDist, err := r.AncestorsWithDistance(other)
	if err != nil {
		return "", err
	}
	best := object.Hash("")
	bestDist := 0
	for h, d := range headDist {
		if _, common := otherDist[h]; !common {
			continue
		}
		if best == "" || d < bestDist || (d == bestDist && h < best) {
			best, bestDist = h, d
		}
	}
	if best == "" {
		return "", fmt.Errorf("merge base of %s and %s: %w", head, other, ErrNotFound)
	}
	r.Logger.Debug("merge base", "head", head, "other", other, "base", best.Short(), "method", "distance", "distance", bestDist)
	return best, nil
}

// splitFromPaths picks the first common commit of each path and keeps the
// one that appears earlier on headPath.
func splitFromPaths(headPath, otherPath []object.Hash) object.Hash {
	onHead := make(map[object.Hash]int, len(headPath))
	for i, h := range headPath {
		onHead[h] = i
	}
	onOther := make(map[object.Hash]bool, len(otherPath))
	for _, h := range otherPath {
		onOther[h] = true
	}

	var split1, split2 object.Hash
	for _, h := range headPath {
		if onOther[h] {
			split1 = h
			break
		}
	}
	for _, h := range otherPath {
		if _, ok := onHead[h]; ok {
			split2 = h
			break
		}
	}
	if split1 == "" || split2 == "" {
		return ""
	}
	if onHead[split1] >= onHead[split2] {
		return split2
	}
	return split1
}
