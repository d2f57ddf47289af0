// Package hookio parses the event envelope Claude Code delivers to
// PostToolUse hooks on stdin.
package hookio

import (
	"encoding/json"
	"io"
	"os"
	"strconv"
)

// maxStdinBytes caps stdin reads. Hook payloads are small JSON objects;
// 1 MB is generous headroom that prevents unbounded allocation.
const maxStdinBytes = 1 << 20

// ExitCodeEnv carries the observed command's exit status out-of-band.
// Unset or unparseable values are treated as success.
const ExitCodeEnv = "GITMEM_TOOL_EXIT_CODE"

// Envelope is the parsed hook input: the shell command Claude Code ran,
// its captured output, and the working directory.
type Envelope struct {
	Command    string
	Output     string
	WorkingDir string
	ExitStatus int
}

type rawEnvelope struct {
	ToolInput struct {
		Command string `json:"command"`
	} `json:"tool_input"`
	ToolResponse json.RawMessage `json:"tool_response"`
	CWD          string          `json:"cwd"`
}

// Read parses one envelope from r. Malformed JSON yields a zero envelope
// rather than an error; the gate will discard it downstream.
func Read(r io.Reader) Envelope {
	data, err := io.ReadAll(io.LimitReader(r, maxStdinBytes))
	if err != nil {
		return Envelope{ExitStatus: exitStatusFromEnv()}
	}

	var raw rawEnvelope
	_ = json.Unmarshal(data, &raw)

	return Envelope{
		Command:    raw.ToolInput.Command,
		Output:     flattenResponse(raw.ToolResponse),
		WorkingDir: raw.CWD,
		ExitStatus: exitStatusFromEnv(),
	}
}

// flattenResponse accepts tool_response as either a JSON string or any other
// JSON value. Non-string forms are kept as their raw text so pattern
// extraction can still scan them.
func flattenResponse(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func exitStatusFromEnv() int {
	v := os.Getenv(ExitCodeEnv)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
