// Package output prints the JSON envelope gitmem commands emit on stdout.
// Agents are the primary consumer, so compact machine-readable JSON is the
// default; humans opt into indentation via GITMEM_PRETTY_JSON.
package output

import (
	"encoding/json"
	"io"
	"os"
)

// SchemaVersion is bumped only on breaking envelope changes.
const SchemaVersion = "v1"

// Envelope is the fixed shape of every command's stdout. Exactly one of Data
// or Error is set.
type Envelope struct {
	SchemaVersion string `json:"schema_version"`
	Success       bool   `json:"success"`
	Data          any    `json:"data,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Print encodes v to w, one JSON document per line.
func Print(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if pretty := os.Getenv("GITMEM_PRETTY_JSON"); pretty == "1" || pretty == "true" {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// PrintSuccess writes a success envelope carrying data.
func PrintSuccess(w io.Writer, data any) error {
	return Print(w, Envelope{SchemaVersion: SchemaVersion, Success: true, Data: data})
}

// PrintError writes a failure envelope. The returned error reflects the
// write, not err: callers report failures in-band and still exit 0 unless
// they choose otherwise.
func PrintError(w io.Writer, err error) error {
	return Print(w, Envelope{SchemaVersion: SchemaVersion, Success: false, Error: err.Error()})
}
