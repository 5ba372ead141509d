package schema

// Merge returns a deep merge of override into base. Mappings are merged key by
// key, sequences are concatenated (base elements first), any other combination
// takes the override value. Neither argument is modified and the result shares
// no mappings or sequences with them.
func Merge(base, override any) any {
	switch o := override.(type) {
	case map[string]any:
		b, ok := base.(map[string]any)
		if !ok {
			return DeepCopy(o)
		}
		out := DeepCopy(b).(map[string]any)
		for k, v := range o {
			if bv, found := out[k]; found {
				out[k] = Merge(bv, v)
			} else {
				out[k] = DeepCopy(v)
			}
		}
		return out
	case []any:
		b, ok := base.([]any)
		if !ok {
			return DeepCopy(o)
		}
		out := make([]any, 0, len(b)+len(o))
		for _, v := range b {
			out = append(out, DeepCopy(v))
		}
		for _, v := range o {
			out = append(out, DeepCopy(v))
		}
		return out
	default:
		return override
	}
}

// DeepCopy copies mappings and sequences of a document tree. Scalars are
// shared.
func DeepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, v2 := range x {
			m[k] = DeepCopy(v2)
		}
		return m
	case []any:
		s := make([]any, len(x))
		for i, v2 := range x {
			s[i] = DeepCopy(v2)
		}
		return s
	default:
		return v
	}
}
