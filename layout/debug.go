package layout

import (
	"encoding/json"
	"os"
)

// DebugDump pairs the final outcome with the attempt trace that produced it.
type DebugDump struct {
	Outcome  Outcome   `json:"outcome"`
	Attempts []Attempt `json:"attempts"`
}

// WriteDebugJSON writes the outcome and attempt trace as JSON, for debugging
// or visualization.
func WriteDebugJSON(dump DebugDump, path string) error {
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
