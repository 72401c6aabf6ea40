// Package canonicaljson wraps the RFC 8785 JSON Canonicalization
// Scheme (JCS), the serializer the self-hash protocol's write-digest-data
// step feeds into the hasher. Byte-for-byte canonical output across
// implementations is load-bearing: two documents that are
// semantically equal but canonicalize differently would compute
// different self-hashes.
package canonicaljson

import (
	"io"

	canonicaljson "github.com/gibson042/canonicaljson-go"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Marshal returns the canonical JSON encoding of v.
func Marshal(v interface{}) ([]byte, error) {
	data, err := canonicaljson.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to canonicalize JSON: %s", err)
	}
	return data, nil
}

// WriteTo canonicalizes v and writes the result to w, for direct use
// as a hasher's write-digest-data sink.
func WriteTo(w io.Writer, v interface{}) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return status.Errorf(codes.Internal, "failed to write canonicalized JSON: %s", err)
	}
	return nil
}
