package store

import (
	"encoding/json"
	"fmt"
)

// marshalSnapshot serializes an entity value-copy for embedding in a ledger
// record column.
func marshalSnapshot(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	return string(data), nil
}

func unmarshalSnapshot(data string, into any) error {
	if err := json.Unmarshal([]byte(data), into); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	return nil
}
