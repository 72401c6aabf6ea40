// Package hashid implements the two digest-identifier encoding schemes
// described by the self-hash protocol: a legacy-compatible KERI-style
// prefix scheme, and an extensible multibase/multicodec scheme. Both
// produce an Identifier, an opaque, self-describing ASCII token that
// can be decoded back into a hash.Digest.
package hashid

import (
	"github.com/buildbarn/bb-selfhash/pkg/hash"
)

// Identifier is a digest, encoded as an opaque ASCII textual token that
// names its own algorithm. Once constructed, an Identifier is treated
// as immutable and self-describing; callers generally do not need to
// know which scheme produced it.
type Identifier interface {
	// Algorithm returns the hash algorithm this identifier was
	// produced with.
	Algorithm() *hash.Algorithm
	// Digest returns the underlying (algorithm, bytes) pair.
	Digest() hash.Digest
	// String returns the identifier's textual form.
	String() string
	// IsPlaceholder returns true iff the underlying digest is the
	// all-zero placeholder for its algorithm.
	IsPlaceholder() bool
}

// Equal returns true iff a and b encode the same digest, regardless of
// which scheme (or which base, in the multibase scheme) produced them.
// Comparison is always performed on normalized raw bytes, never on the
// textual form.
func Equal(a, b Identifier) bool {
	return a.Digest().Equal(b.Digest())
}

// Parse decodes s using whichever scheme recognizes it, trying the
// KERI-style prefix scheme first (it is unambiguous by length) and
// falling back to the multibase/multicodec scheme. This is the
// "accept either when decoding" behavior spec.md's design notes call
// for.
func Parse(s string) (Identifier, error) {
	if id, err := DecodeKERI(s); err == nil {
		return id, nil
	}
	return DecodeMultibase(s)
}

type identifier struct {
	digest hash.Digest
	s      string
}

func (id identifier) Algorithm() *hash.Algorithm { return id.digest.Algorithm() }
func (id identifier) Digest() hash.Digest        { return id.digest }
func (id identifier) String() string             { return id.s }
func (id identifier) IsPlaceholder() bool        { return id.digest.IsPlaceholder() }
