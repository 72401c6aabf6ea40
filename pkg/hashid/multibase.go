package hashid

import (
	"github.com/buildbarn/bb-selfhash/pkg/hash"

	mbase "github.com/multiformats/go-multibase"
	mh "github.com/multiformats/go-multihash"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// multibaseEncodings names the bases this module supports emitting on,
// per spec.md §3 ("hex lower/upper, base32 lower/upper, base58btc,
// base64url").
var multibaseEncodings = map[string]mbase.Encoding{
	"base16":      mbase.Base16,
	"base16upper": mbase.Base16Upper,
	"base32":      mbase.Base32,
	"base32upper": mbase.Base32Upper,
	"base58btc":   mbase.Base58BTC,
	"base64url":   mbase.Base64url,
}

// MultibaseEncodingByName looks up one of the supported base selectors
// by name, for use with EncodeMultibase.
func MultibaseEncodingByName(name string) (mbase.Encoding, error) {
	enc, ok := multibaseEncodings[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "unknown multibase encoding %q", name)
	}
	return enc, nil
}

// EncodeMultibase encodes a digest using the multibase/multicodec
// scheme: the digest bytes are wrapped into a multihash (a
// codec-varint, a length-varint, and the digest bytes), which is then
// multibase-encoded with the given base selector.
func EncodeMultibase(d hash.Digest, base mbase.Encoding) (Identifier, error) {
	code, ok := mh.Names[d.Algorithm().MulticodecName()]
	if !ok {
		return nil, status.Errorf(codes.Internal, "no multicodec entry for algorithm %s", d.Algorithm())
	}
	multihashBytes, err := mh.Encode(d.Bytes(), code)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode multihash: %s", err)
	}
	s, err := mbase.Encode(base, multihashBytes)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode multibase: %s", err)
	}
	return identifier{digest: d, s: s}, nil
}

// DecodeMultibase decodes a multibase/multicodec identifier. The base
// selector is read from the string's leading character; the remaining
// bytes are decoded as a multihash and mapped back to a supported
// hash.Algorithm by multicodec name.
func DecodeMultibase(s string) (Identifier, error) {
	_, data, err := mbase.Decode(s)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "malformed multibase identifier %q: %s", s, err)
	}
	decoded, err := mh.Decode(data)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "malformed multihash in identifier %q: %s", s, err)
	}
	algorithm, err := hash.ByMulticodecName(decoded.Name)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "identifier %q uses unsupported multicodec %q", s, decoded.Name)
	}
	d, err := hash.NewDigest(algorithm, decoded.Digest)
	if err != nil {
		return nil, err
	}
	return identifier{digest: d, s: s}, nil
}
