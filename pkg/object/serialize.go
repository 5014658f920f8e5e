package object

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// blobPayload is the byte string a blob digest is computed over:
//
//	path NUL content
func blobPayload(path string, content []byte) []byte {
	buf := make([]byte, 0, len(path)+1+len(content))
	buf = append(buf, path...)
	buf = append(buf, 0)
	buf = append(buf, content...)
	return buf
}

// MarshalCommit serializes a Commit to a deterministic text format:
//
//	parent H          (omitted for the root commit)
//	merge H           (second parent, merge commits only)
//	timestamp T
//	signature S       (optional)
//	file H path       (one per tree entry, sorted by path)
//
//	message
//
// A path holding a line break, a NUL or a leading double quote is written
// Go-quoted so the header stays one entry per line.
func MarshalCommit(c *Commit) []byte {
	var buf bytes.Buffer
	if c.Parent != "" {
		fmt.Fprintf(&buf, "parent %s\n", c.Parent)
	}
	if c.SecondParent != "" {
		fmt.Fprintf(&buf, "merge %s\n", c.SecondParent)
	}
	fmt.Fprintf(&buf, "timestamp %d\n", c.Timestamp)
	if strings.TrimSpace(c.Signature) != "" {
		fmt.Fprintf(&buf, "signature %s\n", c.Signature)
	}

	paths := make([]string, 0, len(c.Tree))
	for p := range c.Tree {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintf(&buf, "file %s %s\n", c.Tree[p], encodePath(p))
	}

	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a Commit from its serialized form.
func UnmarshalCommit(data []byte) (*Commit, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: missing header/message separator")
	}
	header := string(data[:idx])
	c := &Commit{
		Message: string(data[idx+2:]),
		Tree:    make(map[string]Hash),
	}

	sawTimestamp := false
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: malformed header line %q", line)
		}
		switch key {
		case "parent":
			c.Parent = Hash(val)
		case "merge":
			c.SecondParent = Hash(val)
		case "timestamp":
			ts, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: bad timestamp %q: %w", val, err)
			}
			c.Timestamp = ts
			sawTimestamp = true
		case "signature":
			c.Signature = val
		case "file":
			h, raw, ok := strings.Cut(val, " ")
			if !ok || h == "" || raw == "" {
				return nil, fmt.Errorf("unmarshal commit: malformed file entry %q", val)
			}
			p, err := decodePath(raw)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: file entry %q: %w", val, err)
			}
			if _, dup := c.Tree[p]; dup {
				return nil, fmt.Errorf("unmarshal commit: duplicate file entry %q", p)
			}
			c.Tree[p] = Hash(h)
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header key %q", key)
		}
	}
	if !sawTimestamp {
		return nil, fmt.Errorf("unmarshal commit: missing timestamp")
	}
	return c, nil
}

func encodePath(p string) string {
	if strings.ContainsAny(p, "\n\r\x00") || strings.HasPrefix(p, `"`) {
		return strconv.Quote(p)
	}
	return p
}

func decodePath(raw string) (string, error) {
	if !strings.HasPrefix(raw, `"`) {
		return raw, nil
	}
	return strconv.Unquote(raw)
}
