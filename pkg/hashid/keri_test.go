package hashid_test

import (
	"testing"

	"github.com/buildbarn/bb-selfhash/pkg/hash"
	"github.com/buildbarn/bb-selfhash/pkg/hashid"
	"github.com/buildbarn/bb-selfhash/pkg/testutil"

	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestEncodeDecodeKERIRoundTrip(t *testing.T) {
	for _, algorithm := range hash.Algorithms() {
		hasher, err := algorithm.NewHasher()
		require.NoError(t, err)
		_, err = hasher.Write([]byte("round trip me"))
		require.NoError(t, err)
		d := hasher.Sum()

		id := hashid.EncodeKERI(d)
		require.True(t, d.Algorithm().Equal(id.Algorithm()))

		decoded, err := hashid.DecodeKERI(id.String())
		require.NoError(t, err)
		require.True(t, d.Equal(decoded.Digest()))
		require.Equal(t, id.String(), decoded.String())
	}
}

func TestEncodeKERILengthsAndPrefixes(t *testing.T) {
	// 32-byte digests produce 44-character identifiers; 64-byte digests
	// produce 88-character identifiers, per spec.md §3.
	sha256Hasher, err := hash.SHA256.NewHasher()
	require.NoError(t, err)
	_, err = sha256Hasher.Write([]byte("abc"))
	require.NoError(t, err)
	id := hashid.EncodeKERI(sha256Hasher.Sum())
	require.Len(t, id.String(), 44)
	require.Equal(t, "I", id.String()[:1])

	sha512Hasher, err := hash.SHA512.NewHasher()
	require.NoError(t, err)
	_, err = sha512Hasher.Write([]byte("abc"))
	require.NoError(t, err)
	id = hashid.EncodeKERI(sha512Hasher.Sum())
	require.Len(t, id.String(), 88)
	require.Equal(t, "0G", id.String()[:2])
}

func TestDecodeKERIUnrecognizedLength(t *testing.T) {
	_, err := hashid.DecodeKERI("Itooshort")
	testutil.RequireEqualStatus(t, status.Errorf(codes.InvalidArgument, "KERI identifier %q has an unrecognized length (9 characters)", "Itooshort"), err)
}

func TestDecodeKERIUnknownPrefix(t *testing.T) {
	// 44 characters, but starting with a prefix no algorithm claims.
	_, err := hashid.DecodeKERI("Zxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx")
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}
