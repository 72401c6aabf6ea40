package selfhash

import (
	"github.com/buildbarn/bb-selfhash/pkg/hash"
	"github.com/buildbarn/bb-selfhash/pkg/hashid"
	"github.com/buildbarn/bb-selfhash/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ComputeSelfHash creates a fresh hasher for algorithm, feeds it
// d's digest data, and finalizes it into a digest. It does not modify
// d or consult its current slot values.
func ComputeSelfHash(d Document, algorithm *hash.Algorithm) (hash.Digest, error) {
	hasher, err := algorithm.NewHasher()
	if err != nil {
		return hash.BadDigest, err
	}
	if err := d.WriteDigestData(algorithm, hasher); err != nil {
		return hash.BadDigest, err
	}
	return hasher.Sum(), nil
}

// SetSlotsTo returns a copy of d with every slot set to the identifier
// form of id.
func SetSlotsTo(d Document, id hashid.Identifier) (Document, error) {
	return d.WithSlotsSetTo(id)
}

// VerifySelfHashes implements the full slot-consistency state machine:
// it fails if every slot is unset ("no commitment"), if only some
// slots are set ("partial"), if the set slots disagree with one
// another ("inconsistent"), or if the common claimed identifier does
// not match the document's actual computed self-hash. On success it
// returns the verified identifier.
func VerifySelfHashes(d Document) (hashid.Identifier, error) {
	slots, err := d.Slots()
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, status.Error(codes.InvalidArgument, "document declares no self-hash slots")
	}

	var common hashid.Identifier
	setCount, unsetCount := 0, 0
	for _, slot := range slots {
		if slot == nil {
			unsetCount++
			continue
		}
		setCount++
		if common == nil {
			common = slot
		} else if !hashid.Equal(common, slot) {
			return nil, status.Errorf(codes.FailedPrecondition,
				"self-hash slots are inconsistent: %q and %q", common.String(), slot.String())
		}
	}

	if setCount == 0 {
		return nil, status.Error(codes.FailedPrecondition, "document carries no self-hash commitment: all slots are unset")
	}
	if unsetCount > 0 {
		return nil, status.Error(codes.FailedPrecondition, "document is malformed: some self-hash slots are set and others are unset")
	}

	algorithm := common.Algorithm()
	computed, err := ComputeSelfHash(d, algorithm)
	if err != nil {
		return nil, err
	}
	if !computed.Equal(common.Digest()) {
		computedIdentifier := hashid.EncodeKERI(computed)
		return nil, status.Errorf(codes.FailedPrecondition,
			"self-hash verification failed: claimed %q, computed %q", common.String(), computedIdentifier.String())
	}
	return common, nil
}

// SelfHash computes the document's self-hash under algorithm, writes
// it into every slot using encode, and returns the resulting document
// together with the identifier now embedded in it. As a sanity check,
// it re-runs VerifySelfHashes over the result; a failure there
// indicates a contract violation in the Document implementation (a
// slot left unset, or still equal to the placeholder) rather than a
// caller error, and is reported as an internal error.
func SelfHash(d Document, algorithm *hash.Algorithm, encode Encoder) (Document, hashid.Identifier, error) {
	digest, err := ComputeSelfHash(d, algorithm)
	if err != nil {
		return nil, nil, err
	}
	id, err := encode(digest)
	if err != nil {
		return nil, nil, err
	}
	newDocument, err := SetSlotsTo(d, id)
	if err != nil {
		return nil, nil, err
	}
	verified, err := VerifySelfHashes(newDocument)
	if err != nil {
		return nil, nil, util.StatusWrapWithCode(err, codes.Internal, "self-hash post-condition check failed")
	}
	return newDocument, verified, nil
}
