package export

import (
	"encoding/json"
	"fmt"
)

// JSON encodes the exact in-memory value with indentation. No field is
// renamed or reordered on the way out.
func JSON(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return data, nil
}
