package selfhashjson

// deepCopyJSON recursively clones a decoded JSON value (as produced by
// encoding/json into interface{}: map[string]interface{}, []interface{},
// string, float64, bool, or nil), so that write-digest-data and
// slot-writing never observably mutate the caller's original document.
func deepCopyJSON(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		clone := make(map[string]interface{}, len(x))
		for k, elem := range x {
			clone[k] = deepCopyJSON(elem)
		}
		return clone
	case []interface{}:
		clone := make([]interface{}, len(x))
		for i, elem := range x {
			clone[i] = deepCopyJSON(elem)
		}
		return clone
	default:
		// Strings, float64, bool, and nil are all immutable values;
		// no further cloning is needed.
		return x
	}
}
