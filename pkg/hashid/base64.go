package hashid

import (
	"encoding/base64"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// base64Codec is the no-padding, URL-safe base64 alphabet used by the
// KERI-style prefix scheme (spec component G: "byte-oriented no-alloc
// base64url helpers for the fixed digest sizes used by the prefix
// scheme"). The original implementation hand-rolled fixed-size,
// no-allocation encode/decode helpers for exactly 256 and 512 bit
// digests (see original_source/src/base64.rs); this module supports a
// wider algorithm family (224, 256, 384 and 512 bit digests), so the
// helpers below operate generically on byte length while preserving
// the same validation contract.
var base64Codec = base64.RawURLEncoding

// encodeBase64URL returns the base64url-no-pad encoding of digestBytes.
func encodeBase64URL(digestBytes []byte) string {
	return base64Codec.EncodeToString(digestBytes)
}

// decodeBase64URL decodes a base64url-no-pad string that is expected to
// represent exactly expectedLen bytes. It rejects strings whose decoded
// form re-encodes to something other than the input, which catches the
// case where the input carries residual high-order bits beyond
// expectedLen*8 (the base64 alignment padding must be zero).
func decodeBase64URL(s string, expectedLen int) ([]byte, error) {
	decoded, err := base64Codec.DecodeString(s)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid base64url encoding: %s", err)
	}
	if len(decoded) != expectedLen {
		return nil, status.Errorf(codes.InvalidArgument, "expected %d decoded bytes, got %d", expectedLen, len(decoded))
	}
	if encodeBase64URL(decoded) != s {
		return nil, status.Errorf(codes.InvalidArgument, "base64url payload has nonzero residual bits")
	}
	return decoded, nil
}
