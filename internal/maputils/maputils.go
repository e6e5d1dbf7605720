package maputils

import "fmt"

// BoolVal returns the value of the key as bool.
// If the key does not exist, found is false.
// If they key exist but has a different type an error is returned.
func BoolVal(m map[string]any, key string) (val, found bool, err error) {
	iVal, ok := m[key]
	if !ok {
		return false, false, nil
	}

	val, ok = iVal.(bool)
	if !ok {
		return false, true, fmt.Errorf("value of key %q has type %T, expected bool", key, iVal)
	}

	return val, true, nil
}
