package helpers

// TraverseNestedMap retrieves a value from nested generic maps (the
// shape yaml.Unmarshal produces) by key path. Returns the value and
// true when found, nil and false otherwise.
func TraverseNestedMap(data interface{}, keyPath []string) (interface{}, bool) {
	if len(keyPath) == 0 {
		return data, true
	}

	switch node := data.(type) {
	case map[string]interface{}:
		next, exists := node[keyPath[0]]
		if !exists {
			return nil, false
		}
		return TraverseNestedMap(next, keyPath[1:])
	default:
		return nil, false
	}
}
