package selfhashjson

import (
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// path is a parsed self-hash path expression: a restricted dotted
// path with no wildcards or bracket indexing, e.g. "$.blah.selfie"
// parses to []string{"blah", "selfie"}. An empty path denotes the
// root object itself.
//
// No library in the retrieval pack implements this exact restricted
// dot-path-with-parent-materialization contract (see DESIGN.md), so
// this is a small hand-written walker over encoding/json's native
// map[string]interface{} representation.
type path []string

// parsePath parses a path expression of the form "$" or
// "$.segment(.segment)*", where every segment is a non-empty plain
// identifier containing no wildcard or indexing syntax.
func parsePath(expr string) (path, error) {
	if expr == "$" {
		return path{}, nil
	}
	const rootPrefix = "$."
	if !strings.HasPrefix(expr, rootPrefix) {
		return nil, status.Errorf(codes.InvalidArgument, "path %q must start with \"$.\" or be exactly \"$\"", expr)
	}
	segments := strings.Split(expr[len(rootPrefix):], ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, status.Errorf(codes.InvalidArgument, "path %q has an empty segment", expr)
		}
		if strings.ContainsAny(segment, "[]*") {
			return nil, status.Errorf(codes.InvalidArgument, "path %q contains an unsupported wildcard or index segment", expr)
		}
	}
	return path(segments), nil
}

func (p path) String() string {
	if len(p) == 0 {
		return "$"
	}
	return "$." + strings.Join(p, ".")
}

// read looks up p's value within root. It reports found=false, with
// no error, when any component of the path (including the terminal
// field) is absent — a non-match, not a malformed-document condition.
func (p path) read(root map[string]interface{}) (interface{}, bool) {
	var cur interface{} = root
	for _, segment := range p {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, ok := m[segment]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// write sets p's terminal field to newValue, materializing it if
// necessary. The terminal field's parent object is located by
// stripping the last path segment; root ("$") is handled directly
// since it is not reached by walking any segments. If the parent does
// not exist (or exists but is not an object), write fails: slot
// parents must pre-exist.
func (p path) write(root map[string]interface{}, newValue interface{}) error {
	if len(p) == 0 {
		return status.Error(codes.InvalidArgument, "path \"$\" does not name a field that can be written")
	}
	parent := root
	if len(p) > 1 {
		v, ok := path(p[:len(p)-1]).read(root)
		if !ok {
			return status.Errorf(codes.FailedPrecondition, "parent of slot path %q does not exist", p)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return status.Errorf(codes.FailedPrecondition, "parent of slot path %q is not an object", p)
		}
		parent = m
	}
	parent[p[len(p)-1]] = newValue
	return nil
}
