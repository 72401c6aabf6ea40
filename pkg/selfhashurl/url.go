// Package selfhashurl implements the self-hash URL slot value: a
// string that both names a resolvable location and carries, as its
// terminal path component, the self-hash of the document it appears
// in.
package selfhashurl

import (
	"strings"

	"github.com/buildbarn/bb-selfhash/pkg/hashid"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CanonicalScheme is the scheme prefix used by New for freshly built
// URLs. acceptedSchemes also accepts the legacy "selfhash:///" prefix
// when parsing an existing URL, and WithIdentifier keeps whichever
// scheme a URL was parsed with, per the decision recorded in
// DESIGN.md.
const CanonicalScheme = "vjson:///"

// acceptedSchemes lists every scheme prefix recognized when parsing an
// existing URL, in preference order.
var acceptedSchemes = []string{"vjson:///", "selfhash:///"}

// URL is a self-hash URL slot value: a scheme prefix followed by an
// embedded digest identifier.
type URL struct {
	scheme     string
	identifier string
}

// Parse validates that s starts with a recognized scheme prefix and
// returns a URL wrapping it. It does not require the remainder to be a
// valid identifier yet (a freshly placeholder-initialized URL such as
// "vjson:///" has an empty remainder).
func Parse(s string) (URL, error) {
	for _, scheme := range acceptedSchemes {
		if strings.HasPrefix(s, scheme) {
			return URL{scheme: scheme, identifier: s[len(scheme):]}, nil
		}
	}
	return URL{}, status.Errorf(codes.InvalidArgument, "self-hash URL %q does not start with a recognized scheme", s)
}

// String returns the URL's full textual form.
func (u URL) String() string {
	return u.scheme + u.identifier
}

// HasIdentifier reports whether the URL currently carries a non-empty
// identifier portion, regardless of whether that portion actually
// parses as a valid identifier.
func (u URL) HasIdentifier() bool {
	return u.identifier != ""
}

// Identifier extracts and decodes the embedded digest identifier.
func (u URL) Identifier() (hashid.Identifier, error) {
	if u.identifier == "" {
		return nil, status.Error(codes.FailedPrecondition, "self-hash URL has no embedded identifier")
	}
	id, err := hashid.Parse(u.identifier)
	if err != nil {
		return nil, status.Errorf(codes.FailedPrecondition, "self-hash URL has no embedded identifier: %s", err)
	}
	return id, nil
}

// WithIdentifier returns a new URL with the identifier portion
// replaced by id, preserving the scheme prefix this URL was parsed
// with (or CanonicalScheme, for a URL built fresh by New).
func (u URL) WithIdentifier(id hashid.Identifier) URL {
	return URL{scheme: u.scheme, identifier: id.String()}
}

// New builds a fresh self-hash URL using the canonical scheme and no
// embedded identifier, suitable as a pre-compute placeholder value
// (e.g. `"vjson:///"`).
func New() URL {
	return URL{scheme: CanonicalScheme}
}
