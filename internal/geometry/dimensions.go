package geometry

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadDimensions overlays the JSON object in path onto dst, which should hold
// the defaults. Keys absent from the file keep their default value.
func LoadDimensions(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dimensions: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode dimensions %s: %w", path, err)
	}
	return nil
}
