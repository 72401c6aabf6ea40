package hash

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Algorithm is one member of the closed set of hash algorithms this
// module knows how to compute self-hashes with. Algorithm objects are
// static: one package-level instance exists for each supported
// algorithm for the lifetime of the process.
type Algorithm struct {
	name          string
	digestLength  int
	keriPrefix    string
	multicodeName string
	hasherFactory func() hash.Hash
	disabled      bool

	placeholderOnce sync.Once
	placeholder     Digest
}

// String returns the algorithm's canonical name (e.g. "BLAKE3").
func (a *Algorithm) String() string {
	return a.name
}

// DigestLength returns the fixed digest length, in bytes, produced by
// this algorithm.
func (a *Algorithm) DigestLength() int {
	return a.digestLength
}

// KERIPrefix returns the single- or double-character prefix used to
// identify this algorithm in the KERI-style prefix scheme.
func (a *Algorithm) KERIPrefix() string {
	return a.keriPrefix
}

// MulticodecName returns the name under which this algorithm is
// registered in the multicodec table consumed by the multibase scheme
// (e.g. "sha2-256", "blake3").
func (a *Algorithm) MulticodecName() string {
	return a.multicodeName
}

// NewHasher returns a fresh, single-use Hasher for this algorithm. It
// fails deterministically (rather than silently substituting a
// different algorithm) if the algorithm has been disabled in this
// build.
func (a *Algorithm) NewHasher() (Hasher, error) {
	if a.disabled {
		return nil, status.Errorf(codes.Unimplemented, "hash algorithm %s is not available in this build", a.name)
	}
	return &hasher{algorithm: a, h: a.hasherFactory()}, nil
}

// Placeholder returns the all-zero digest used to stand in for this
// algorithm's self-hash slots while digest data is being written. The
// value is computed once per algorithm and memoized, per spec: the
// computation is trivial (it is simply digestLength zero bytes) but the
// memoization keeps every caller sharing one immutable instance.
func (a *Algorithm) Placeholder() Digest {
	a.placeholderOnce.Do(func() {
		a.placeholder = Digest{algorithm: a, bytes: make([]byte, a.digestLength)}
	})
	return a.placeholder
}

// Equal returns true iff the two algorithms are the same member of the
// closed enumeration. Algorithm identity is by canonical name.
func (a *Algorithm) Equal(other *Algorithm) bool {
	return a == other || (a != nil && other != nil && a.name == other.name)
}

var (
	// BLAKE3 is the BLAKE3 hash algorithm (32-byte digests).
	BLAKE3 = &Algorithm{
		name:          "BLAKE3",
		digestLength:  32,
		keriPrefix:    "E",
		multicodeName: "blake3",
		hasherFactory: func() hash.Hash { return blake3.New() },
	}
	// SHA256 is SHA-256 (32-byte digests).
	SHA256 = &Algorithm{
		name:          "SHA-256",
		digestLength:  sha256.Size,
		keriPrefix:    "I",
		multicodeName: "sha2-256",
		hasherFactory: sha256.New,
	}
	// SHA384 is SHA-384 (48-byte digests).
	SHA384 = &Algorithm{
		name:          "SHA-384",
		digestLength:  sha512.Size384,
		keriPrefix:    "D",
		multicodeName: "sha2-384",
		hasherFactory: sha512.New384,
	}
	// SHA512 is SHA-512 (64-byte digests).
	SHA512 = &Algorithm{
		name:          "SHA-512",
		digestLength:  sha512.Size,
		keriPrefix:    "0G",
		multicodeName: "sha2-512",
		hasherFactory: sha512.New,
	}
	// SHA3_224 is SHA3-224 (28-byte digests).
	SHA3_224 = &Algorithm{
		name:          "SHA3-224",
		digestLength:  28,
		keriPrefix:    "1H",
		multicodeName: "sha3-224",
		hasherFactory: sha3.New224,
	}
	// SHA3_256 is SHA3-256 (32-byte digests).
	SHA3_256 = &Algorithm{
		name:          "SHA3-256",
		digestLength:  32,
		keriPrefix:    "H",
		multicodeName: "sha3-256",
		hasherFactory: sha3.New256,
	}
	// SHA3_384 is SHA3-384 (48-byte digests).
	SHA3_384 = &Algorithm{
		name:          "SHA3-384",
		digestLength:  48,
		keriPrefix:    "1D",
		multicodeName: "sha3-384",
		hasherFactory: sha3.New384,
	}
	// SHA3_512 is SHA3-512 (64-byte digests).
	SHA3_512 = &Algorithm{
		name:          "SHA3-512",
		digestLength:  64,
		keriPrefix:    "1E",
		multicodeName: "sha3-512",
		hasherFactory: sha3.New512,
	}

	// allAlgorithms is the registry backing Algorithms(), ByName() and
	// ByKERIPrefix().
	allAlgorithms = []*Algorithm{BLAKE3, SHA256, SHA384, SHA512, SHA3_224, SHA3_256, SHA3_384, SHA3_512}
)

// Algorithms returns every algorithm supported by this build, in a
// fixed, deterministic order.
func Algorithms() []*Algorithm {
	return allAlgorithms
}

// ByName looks up an algorithm by its canonical name.
func ByName(name string) (*Algorithm, error) {
	for _, a := range allAlgorithms {
		if a.name == name {
			return a, nil
		}
	}
	return nil, status.Errorf(codes.InvalidArgument, "unknown hash algorithm %q", name)
}

// ByKERIPrefix looks up an algorithm by its KERI-style prefix. Unknown
// prefixes are rejected outright; they are never accepted as a
// not-yet-understood future algorithm.
func ByKERIPrefix(prefix string) (*Algorithm, error) {
	for _, a := range allAlgorithms {
		if a.keriPrefix == prefix {
			return a, nil
		}
	}
	return nil, status.Errorf(codes.InvalidArgument, "unknown KERI hash prefix %q", prefix)
}

// ByMulticodecName looks up an algorithm by its multicodec table name.
func ByMulticodecName(name string) (*Algorithm, error) {
	for _, a := range allAlgorithms {
		if a.multicodeName == name {
			return a, nil
		}
	}
	return nil, status.Errorf(codes.InvalidArgument, "unknown multicodec hash name %q", name)
}

// disableForTesting marks an algorithm as unavailable, to exercise the
// feature-gating path in NewHasher(). It is only called from tests in
// this package and is not exposed outside it.
func disableForTesting(a *Algorithm, disabled bool) {
	a.disabled = disabled
}
