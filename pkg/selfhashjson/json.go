// Package selfhashjson binds the self-hash protocol (pkg/selfhash) to
// JSON documents, using restricted dotted path expressions to locate
// slots and the JSON Canonicalization Scheme (pkg/canonicaljson) as
// the canonical serializer.
package selfhashjson

import (
	"io"

	"github.com/buildbarn/bb-selfhash/pkg/canonicaljson"
	"github.com/buildbarn/bb-selfhash/pkg/hash"
	"github.com/buildbarn/bb-selfhash/pkg/hashid"
	"github.com/buildbarn/bb-selfhash/pkg/selfhash"
	"github.com/buildbarn/bb-selfhash/pkg/selfhashurl"
	"github.com/buildbarn/bb-selfhash/pkg/util"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultSelfHashPath is the top-level field used when no custom path
// configuration is supplied.
const DefaultSelfHashPath = "$.selfHash"

// SelfHashableJSON is a selfhash.Document backed by a decoded JSON
// object and a configurable set of self-hash and self-hash-URL slot
// paths.
type SelfHashableJSON struct {
	value            map[string]interface{}
	selfHashPaths    []path
	selfHashURLPaths []path
}

var _ selfhash.Document = (*SelfHashableJSON)(nil)

// New constructs a SelfHashableJSON over value, with the given
// self-hash and self-hash-URL path expressions. The two path sets
// must be disjoint, every path must terminate in a plain field name,
// and at least one slot must be declared in total.
func New(value map[string]interface{}, selfHashPathExprs, selfHashURLPathExprs []string) (*SelfHashableJSON, error) {
	if err := util.Require(value != nil, "self-hashable JSON document must be an object"); err != nil {
		return nil, err
	}

	selfHashPaths, err := parsePaths(selfHashPathExprs)
	if err != nil {
		return nil, err
	}
	selfHashURLPaths, err := parsePaths(selfHashURLPathExprs)
	if err != nil {
		return nil, err
	}
	if err := util.Require(len(selfHashPaths)+len(selfHashURLPaths) > 0, "at least one self-hash or self-hash-URL path must be configured"); err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, p := range selfHashPaths {
		seen[p.String()] = struct{}{}
	}
	for _, p := range selfHashURLPaths {
		if _, ok := seen[p.String()]; ok {
			return nil, status.Errorf(codes.InvalidArgument, "path %q is configured as both a self-hash path and a self-hash-URL path", p)
		}
	}

	j := &SelfHashableJSON{
		value:            value,
		selfHashPaths:    selfHashPaths,
		selfHashURLPaths: selfHashURLPaths,
	}
	// Querying every configured slot now, at construction time, rather
	// than waiting for the first Slots()/WithSlotsSetTo() call,
	// surfaces shape violations (a self-hash slot holding a number, a
	// missing required self-hash-URL slot, ...) as a construction
	// error rather than deferring them.
	if _, err := j.Slots(); err != nil {
		return nil, err
	}
	return j, nil
}

// Default constructs a SelfHashableJSON using only the convenience
// default: the top-level field "selfHash" as the single self-hash
// path, with no self-hash-URL paths.
func Default(value map[string]interface{}) (*SelfHashableJSON, error) {
	return New(value, []string{DefaultSelfHashPath}, nil)
}

func parsePaths(exprs []string) ([]path, error) {
	paths := make([]path, 0, len(exprs))
	for _, expr := range exprs {
		p, err := parsePath(expr)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// Value returns the underlying decoded JSON object.
func (j *SelfHashableJSON) Value() map[string]interface{} {
	return j.value
}

// Slots implements selfhash.Document.
func (j *SelfHashableJSON) Slots() ([]hashid.Identifier, error) {
	slots := make([]hashid.Identifier, 0, len(j.selfHashPaths)+len(j.selfHashURLPaths))

	for _, p := range j.selfHashPaths {
		v, found := p.read(j.value)
		if !found {
			slots = append(slots, nil)
			continue
		}
		switch x := v.(type) {
		case nil:
			slots = append(slots, nil)
		case string:
			id, err := hashid.Parse(x)
			if err != nil {
				return nil, status.Errorf(codes.InvalidArgument, "self-hash slot %q is not a valid identifier: %s", p, err)
			}
			slots = append(slots, id)
		default:
			return nil, status.Errorf(codes.InvalidArgument, "self-hash slot %q must be a string or null", p)
		}
	}

	for _, p := range j.selfHashURLPaths {
		v, found := p.read(j.value)
		if !found {
			return nil, status.Errorf(codes.InvalidArgument, "required self-hash-URL slot %q is missing", p)
		}
		s, ok := v.(string)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "self-hash-URL slot %q must be a string", p)
		}
		u, err := selfhashurl.Parse(s)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "self-hash-URL slot %q: %s", p, err)
		}
		if !u.HasIdentifier() {
			slots = append(slots, nil)
			continue
		}
		id, err := u.Identifier()
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "self-hash-URL slot %q: %s", p, err)
		}
		slots = append(slots, id)
	}

	return slots, nil
}

// WriteDigestData implements selfhash.Document. The placeholder
// identifier written into every slot is always encoded with the
// KERI-style prefix scheme: the placeholder's textual form must be
// stable regardless of which scheme the eventual real digest is
// encoded with, since write-digest-data runs identically on both the
// computing and the verifying side (see DESIGN.md).
func (j *SelfHashableJSON) WriteDigestData(algorithm *hash.Algorithm, w io.Writer) error {
	placeholder := hashid.EncodeKERI(algorithm.Placeholder())

	clone := deepCopyJSON(j.value).(map[string]interface{})
	if err := j.writeSlots(clone, placeholder); err != nil {
		return err
	}
	return canonicaljson.WriteTo(w, clone)
}

// WithSlotsSetTo implements selfhash.Document.
func (j *SelfHashableJSON) WithSlotsSetTo(id hashid.Identifier) (selfhash.Document, error) {
	clone := deepCopyJSON(j.value).(map[string]interface{})
	if err := j.writeSlots(clone, id); err != nil {
		return nil, err
	}
	return &SelfHashableJSON{
		value:            clone,
		selfHashPaths:    j.selfHashPaths,
		selfHashURLPaths: j.selfHashURLPaths,
	}, nil
}

// writeSlots writes id's identifier form into every configured slot
// of document, materializing self-hash fields that do not yet exist
// and rewriting only the identifier portion of self-hash-URL fields
// (which must already exist).
func (j *SelfHashableJSON) writeSlots(document map[string]interface{}, id hashid.Identifier) error {
	for _, p := range j.selfHashPaths {
		if err := p.write(document, id.String()); err != nil {
			return err
		}
	}
	for _, p := range j.selfHashURLPaths {
		v, found := p.read(document)
		if !found {
			return status.Errorf(codes.FailedPrecondition, "required self-hash-URL slot %q is missing", p)
		}
		s, ok := v.(string)
		if !ok {
			return status.Errorf(codes.FailedPrecondition, "self-hash-URL slot %q must be a string", p)
		}
		u, err := selfhashurl.Parse(s)
		if err != nil {
			return status.Errorf(codes.FailedPrecondition, "self-hash-URL slot %q: %s", p, err)
		}
		if err := p.write(document, u.WithIdentifier(id).String()); err != nil {
			return err
		}
	}
	return nil
}
