package query

import (
	"encoding/json"
	"fmt"
)

// Key identifies a cached query. Keys are compared by value through Hash:
// two keys built from equal parameters are the same key.
type Key []any

// Hash returns the canonical form of k. Elements are encoded as JSON, so
// maps hash independently of insertion order.
func (k Key) Hash() string {
	b, err := json.Marshal([]any(k))
	if err != nil {
		return fmt.Sprintf("%#v", []any(k))
	}
	return string(b)
}

func (k Key) Equal(other Key) bool {
	return k.Hash() == other.Hash()
}

// HasPrefix reports whether prefix matches the leading elements of k.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	return k[:len(prefix)].Equal(prefix)
}

func (k Key) String() string {
	return k.Hash()
}
