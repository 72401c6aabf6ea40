package selfhashjson_test

import (
	"strings"
	"testing"

	"github.com/buildbarn/bb-selfhash/pkg/hash"
	"github.com/buildbarn/bb-selfhash/pkg/selfhash"
	"github.com/buildbarn/bb-selfhash/pkg/selfhashjson"

	"github.com/stretchr/testify/require"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// S1: trivial default configuration.
func TestDefaultConfigComputeThenVerify(t *testing.T) {
	doc, err := selfhashjson.Default(map[string]interface{}{"thing": float64(3)})
	require.NoError(t, err)

	newDoc, id, err := selfhash.SelfHash(doc, hash.BLAKE3, selfhash.KERIEncoder)
	require.NoError(t, err)

	result := newDoc.(*selfhashjson.SelfHashableJSON)
	selfHash, ok := result.Value()["selfHash"].(string)
	require.True(t, ok)
	require.Equal(t, id.String(), selfHash)
	require.Equal(t, "E", selfHash[:1])

	verified, err := selfhash.VerifySelfHashes(result)
	require.NoError(t, err)
	require.Equal(t, id.String(), verified.String())
}

// S2: explicit null slot, then tamper.
func TestExplicitNullSlotThenTamperFails(t *testing.T) {
	doc, err := selfhashjson.New(
		map[string]interface{}{"thing": float64(3), "selfie": nil},
		[]string{"$.selfie"}, nil)
	require.NoError(t, err)

	newDoc, _, err := selfhash.SelfHash(doc, hash.SHA256, selfhash.KERIEncoder)
	require.NoError(t, err)

	_, err = selfhash.VerifySelfHashes(newDoc)
	require.NoError(t, err)

	result := newDoc.(*selfhashjson.SelfHashableJSON)
	tampered, err := selfhashjson.New(result.Value(), []string{"$.selfie"}, nil)
	require.NoError(t, err)
	tampered.Value()["selfie"] = "I" + strings.Repeat("A", 43)

	_, err = selfhash.VerifySelfHashes(tampered)
	require.Error(t, err)
}

// S3: nested slot materialized.
func TestNestedSlotIsMaterialized(t *testing.T) {
	doc, err := selfhashjson.New(
		map[string]interface{}{"thing": float64(3), "blah": map[string]interface{}{"stuff": true}},
		[]string{"$.blah.selfie"}, nil)
	require.NoError(t, err)

	newDoc, _, err := selfhash.SelfHash(doc, hash.BLAKE3, selfhash.KERIEncoder)
	require.NoError(t, err)

	result := newDoc.(*selfhashjson.SelfHashableJSON)
	blah := result.Value()["blah"].(map[string]interface{})
	_, ok := blah["selfie"].(string)
	require.True(t, ok)

	_, err = selfhash.VerifySelfHashes(result)
	require.NoError(t, err)
}

// S4: URL slot.
func TestURLSlot(t *testing.T) {
	doc, err := selfhashjson.New(
		map[string]interface{}{"thing": float64(3), "$id": "vjson:///"},
		nil, []string{"$.$id"})
	require.NoError(t, err)

	newDoc, id, err := selfhash.SelfHash(doc, hash.BLAKE3, selfhash.KERIEncoder)
	require.NoError(t, err)

	result := newDoc.(*selfhashjson.SelfHashableJSON)
	url, ok := result.Value()["$id"].(string)
	require.True(t, ok)
	require.Equal(t, "vjson:///"+id.String(), url)

	verified, err := selfhash.VerifySelfHashes(result)
	require.NoError(t, err)
	require.Equal(t, id.String(), verified.String())
}

// S5: multi-slot coherence, then corrupt one slot.
func TestMultiSlotCoherenceThenCorruptionFails(t *testing.T) {
	doc, err := selfhashjson.New(
		map[string]interface{}{"thing": float64(3), "selfHash": nil, "$id": "vjson:///"},
		[]string{"$.selfHash"}, []string{"$.$id"})
	require.NoError(t, err)

	newDoc, id, err := selfhash.SelfHash(doc, hash.SHA256, selfhash.KERIEncoder)
	require.NoError(t, err)

	result := newDoc.(*selfhashjson.SelfHashableJSON)
	require.Equal(t, id.String(), result.Value()["selfHash"])
	require.Equal(t, "vjson:///"+id.String(), result.Value()["$id"])

	other, err := selfhash.ComputeSelfHash(doc, hash.BLAKE3)
	require.NoError(t, err)
	otherID, err := selfhash.KERIEncoder(other)
	require.NoError(t, err)
	require.NotEqual(t, id.String(), otherID.String())

	corrupted, err := selfhashjson.New(result.Value(), []string{"$.selfHash"}, []string{"$.$id"})
	require.NoError(t, err)
	corrupted.Value()["selfHash"] = otherID.String()

	_, err = selfhash.VerifySelfHashes(corrupted)
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
}

// S6: cross-algorithm round-trip produces distinct identifiers.
func TestCrossAlgorithmRoundTrip(t *testing.T) {
	seen := map[string]struct{}{}
	for _, algorithm := range hash.Algorithms() {
		doc, err := selfhashjson.Default(map[string]interface{}{"thing": float64(3)})
		require.NoError(t, err)

		newDoc, id, err := selfhash.SelfHash(doc, algorithm, selfhash.KERIEncoder)
		require.NoError(t, err)

		_, seenBefore := seen[id.String()]
		require.False(t, seenBefore)
		seen[id.String()] = struct{}{}

		_, err = selfhash.VerifySelfHashes(newDoc)
		require.NoError(t, err)
	}
}

func TestNewRejectsOverlappingPaths(t *testing.T) {
	_, err := selfhashjson.New(map[string]interface{}{"a": "b"}, []string{"$.a"}, []string{"$.a"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestNewRejectsZeroSlots(t *testing.T) {
	_, err := selfhashjson.New(map[string]interface{}{}, nil, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestConstructionFailsOnMissingURLSlot(t *testing.T) {
	_, err := selfhashjson.New(map[string]interface{}{"thing": float64(1)}, nil, []string{"$.$id"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestVerifyFailsWithAllSlotsUnset(t *testing.T) {
	doc, err := selfhashjson.Default(map[string]interface{}{"thing": float64(1)})
	require.NoError(t, err)
	_, err = selfhash.VerifySelfHashes(doc)
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
}
