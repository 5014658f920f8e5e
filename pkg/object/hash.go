package object

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/multiformats/go-multihash"
)

// Algorithm names the digest function a repository was created with.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	// SHA1 yields 40-character digests compatible with gitlet-era tooling.
	SHA1 Algorithm = "sha1"
)

// ParseAlgorithm validates a configured algorithm name. Empty means SHA256.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case "", SHA256:
		return SHA256, nil
	case SHA1:
		return SHA1, nil
	default:
		return "", fmt.Errorf("unknown hash algorithm %q", name)
	}
}

func (a Algorithm) code() uint64 {
	if a == SHA1 {
		return multihash.SHA1
	}
	return multihash.SHA2_256
}

// HexLen is the length of a full hex digest produced by a.
func (a Algorithm) HexLen() int {
	if a == SHA1 {
		return 40
	}
	return 64
}

// HashObject digests the envelope "type len\0content", mirroring Git's
// object hashing, and returns the hex-encoded digest bytes.
func (a Algorithm) HashObject(objType ObjectType, data []byte) (Hash, error) {
	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	buf := make([]byte, 0, len(header)+len(data))
	buf = append(buf, header...)
	buf = append(buf, data...)

	mh, err := multihash.Sum(buf, a.code(), -1)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", objType, err)
	}
	decoded, err := multihash.Decode(mh)
	if err != nil {
		return "", fmt.Errorf("hash %s: decode multihash: %w", objType, err)
	}
	return Hash(hex.EncodeToString(decoded.Digest)), nil
}
