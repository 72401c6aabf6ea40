// Package selfhash implements the self-hash protocol: computing,
// writing and verifying a document's own digest identifier across an
// arbitrary, algorithm-agnostic collection of "slots" inside it.
//
// The protocol itself knows nothing about JSON, paths, or any
// particular serialization; it operates entirely in terms of the
// Document interface. See pkg/selfhashjson for the JSON binding.
package selfhash

import (
	"io"

	"github.com/buildbarn/bb-selfhash/pkg/hash"
	"github.com/buildbarn/bb-selfhash/pkg/hashid"
)

// Document is a self-hashable value: an iterable collection of slots
// and a canonical byte serializer. Implementations are responsible
// for cloning before mutation, so that a failed operation never
// leaves the caller's original document observably modified.
type Document interface {
	// Slots returns the current value of every declared self-hash
	// slot, in a fixed, deterministic order. A nil entry represents
	// an unset slot (absent or null).
	Slots() ([]hashid.Identifier, error)

	// WriteDigestData clones the document, substitutes every slot
	// with algorithm's placeholder identifier (rewriting only the
	// identifier portion of URL slots, preserving their scheme and
	// path), canonically serializes the clone, and writes the result
	// to w.
	WriteDigestData(algorithm *hash.Algorithm, w io.Writer) error

	// WithSlotsSetTo returns a new Document with every slot set to
	// the identifier form of id. A slot that does not yet exist is
	// materialized provided its parent already exists; if a parent is
	// absent, the operation fails.
	WithSlotsSetTo(id hashid.Identifier) (Document, error)
}

// Encoder turns a computed digest into an Identifier, letting callers
// choose between the KERI-style prefix scheme and the
// multibase/multicodec scheme (and, for the latter, the base
// alphabet) at the point a self-hash is written.
type Encoder func(hash.Digest) (hashid.Identifier, error)

// KERIEncoder is an Encoder that uses the KERI-style prefix scheme.
func KERIEncoder(d hash.Digest) (hashid.Identifier, error) {
	return hashid.EncodeKERI(d), nil
}
