package hashid

import (
	"github.com/buildbarn/bb-selfhash/pkg/hash"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// EncodeKERI encodes a digest using the KERI-style prefix scheme: the
// algorithm's short prefix, followed by the base64url-no-pad encoding
// of the digest bytes. 32-byte digests produce 44-character
// identifiers; 64-byte digests produce 88-character identifiers, per
// spec.md §3.
func EncodeKERI(d hash.Digest) Identifier {
	return identifier{
		digest: d,
		s:      d.Algorithm().KERIPrefix() + encodeBase64URL(d.Bytes()),
	}
}

// DecodeKERI decodes a KERI-style prefix-scheme identifier. It rejects
// strings of the wrong length, strings with an unrecognized prefix, and
// payloads whose decoded length does not match the algorithm's digest
// length or that carry nonzero residual bits.
func DecodeKERI(s string) (Identifier, error) {
	prefixLen, err := keriPrefixLength(s)
	if err != nil {
		return nil, err
	}
	prefix, payload := s[:prefixLen], s[prefixLen:]

	algorithm, err := hash.ByKERIPrefix(prefix)
	if err != nil {
		return nil, err
	}

	digestBytes, err := decodeBase64URL(payload, algorithm.DigestLength())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "malformed KERI identifier %q: %s", s, err)
	}
	d, err := hash.NewDigest(algorithm, digestBytes)
	if err != nil {
		return nil, err
	}
	return identifier{digest: d, s: s}, nil
}

// keriPrefixLength determines whether s has a 1-character or
// 2-character KERI prefix, based on its total length. Each algorithm's
// bucket is its prefix length plus the base64url length of its digest:
// 44 characters for the 32-byte digests (1-character prefix), 88 for
// the 64-byte digests (2-character prefix), 65 for SHA-384 ("D"), 40
// for SHA3-224 ("1H") and 66 for SHA3-384 ("1D"). Any other length is
// rejected outright, even if it would otherwise decode.
//
// The prefixes for SHA-384, SHA3-224, SHA3-256, SHA3-384 and SHA3-512
// are an ADDED extension of the KERI scheme beyond spec.md's three
// named prefixes (see DESIGN.md).
func keriPrefixLength(s string) (int, error) {
	for _, a := range hash.Algorithms() {
		charLen := len(a.KERIPrefix()) + base64EncodedLength(a.DigestLength())
		if len(s) == charLen && len(s) >= len(a.KERIPrefix()) {
			return len(a.KERIPrefix()), nil
		}
	}
	return 0, status.Errorf(codes.InvalidArgument, "KERI identifier %q has an unrecognized length (%d characters)", s, len(s))
}

// base64EncodedLength returns the number of base64url-no-pad characters
// needed to encode n bytes.
func base64EncodedLength(n int) int {
	return (n*8 + 5) / 6
}
