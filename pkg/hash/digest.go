package hash

import (
	"bytes"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Digest is an immutable pair of (algorithm, digest bytes). A Digest
// whose bytes are all zero is the placeholder for its algorithm.
type Digest struct {
	algorithm *Algorithm
	bytes     []byte
}

// BadDigest is the zero value of Digest. It is returned alongside
// errors from constructors in this package.
var BadDigest Digest

// NewDigest constructs a Digest from an algorithm and a byte slice,
// validating that the slice has exactly the algorithm's digest length.
// The provided slice is copied; the caller retains ownership of the
// original.
func NewDigest(algorithm *Algorithm, digestBytes []byte) (Digest, error) {
	if len(digestBytes) != algorithm.DigestLength() {
		return BadDigest, status.Errorf(
			codes.InvalidArgument,
			"digest for %s must be %d bytes, got %d",
			algorithm, algorithm.DigestLength(), len(digestBytes))
	}
	return Digest{
		algorithm: algorithm,
		bytes:     append([]byte(nil), digestBytes...),
	}, nil
}

// Algorithm returns the algorithm that produced this digest.
func (d Digest) Algorithm() *Algorithm {
	return d.algorithm
}

// Bytes returns the raw digest bytes. Callers must not mutate the
// returned slice.
func (d Digest) Bytes() []byte {
	return d.bytes
}

// IsPlaceholder returns true iff the digest's bytes are all zero.
func (d Digest) IsPlaceholder() bool {
	for _, b := range d.bytes {
		if b != 0 {
			return false
		}
	}
	return true
}

// Equal returns true iff both digests use the same algorithm and have
// identical bytes.
func (d Digest) Equal(other Digest) bool {
	return d.algorithm.Equal(other.algorithm) && bytes.Equal(d.bytes, other.bytes)
}

// Hasher is a single-use, incrementally-updated digest computation. It
// mirrors the standard library's hash.Hash, but narrowed to the
// operations this module needs and tagged with the Algorithm that
// produced it so that Sum() can return a typed Digest directly.
//
// A Hasher must not be reused after Sum() has been called.
type Hasher interface {
	// Write feeds bytes into the hasher's running state.
	Write(p []byte) (int, error)
	// Sum finalizes the hasher and returns the resulting Digest.
	Sum() Digest
}

type hasher struct {
	algorithm *Algorithm
	h         interface {
		Write(p []byte) (int, error)
		Sum(b []byte) []byte
	}
}

func (h *hasher) Write(p []byte) (int, error) {
	return h.h.Write(p)
}

func (h *hasher) Sum() Digest {
	sum := h.h.Sum(nil)
	d, err := NewDigest(h.algorithm, sum)
	if err != nil {
		// The underlying hash.Hash implementation is contractually
		// bound to produce Size() bytes; a mismatch here is a bug in
		// this package, not in caller-supplied data.
		panic(err)
	}
	return d
}
