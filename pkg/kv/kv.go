// Package kv provides the key-value persistence layer underneath a gitlet
// repository. Keys are slash-separated paths such as "objects/blobs/<hash>"
// or "refs/head"; values are opaque bytes.
package kv

import "errors"

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("kv: key not found")

// Backend is a flat key-value store addressed by slash-separated keys.
//
// List returns the keys that live directly under the directory part of
// prefix and whose final segment starts with the remainder of prefix. For
// example List("objects/commits/ab") returns every commit key whose hash
// begins with "ab", but never keys nested one level deeper. Results are
// sorted.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Has(key string) (bool, error)
	Delete(key string) error
	List(prefix string) ([]string, error)
	Close() error
}
