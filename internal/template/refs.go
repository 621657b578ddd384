package template

// renameRefs rewrites intrinsic references to a logical resource name so a
// fragment can be instantiated more than once in one document.
func renameRefs(v any, from, to string) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			switch k {
			case "Ref":
				if s, ok := val.(string); ok && s == from {
					t[k] = to
					continue
				}
			case "Fn::GetAtt":
				if list, ok := val.([]any); ok && len(list) > 0 && list[0] == from {
					list[0] = to
					continue
				}
			}
			t[k] = renameRefs(val, from, to)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = renameRefs(val, from, to)
		}
		return t
	default:
		return v
	}
}
