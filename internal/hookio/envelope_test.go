package hookio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRead_ParsesEnvelope(t *testing.T) {
	in := `{
		"tool_input": {"command": "git commit -m \"feat: x\""},
		"tool_response": "3 files changed",
		"cwd": "/home/dev/widget"
	}`

	env := Read(strings.NewReader(in))
	require.Equal(t, `git commit -m "feat: x"`, env.Command)
	require.Equal(t, "3 files changed", env.Output)
	require.Equal(t, "/home/dev/widget", env.WorkingDir)
	require.Equal(t, 0, env.ExitStatus)
}

func TestRead_NonStringResponseKeptAsRawText(t *testing.T) {
	in := `{"tool_input":{"command":"gh api repos/a/b/pulls/7/reviews"},"tool_response":[{"state":"APPROVED"}],"cwd":"/tmp"}`

	env := Read(strings.NewReader(in))
	require.Equal(t, `[{"state":"APPROVED"}]`, env.Output)
}

func TestRead_MissingResponse(t *testing.T) {
	env := Read(strings.NewReader(`{"tool_input":{"command":"git commit"},"cwd":"/tmp"}`))
	require.Equal(t, "git commit", env.Command)
	require.Empty(t, env.Output)
}

func TestRead_MalformedJSONYieldsZeroEnvelope(t *testing.T) {
	env := Read(strings.NewReader("{not json"))
	require.Empty(t, env.Command)
	require.Empty(t, env.Output)
	require.Empty(t, env.WorkingDir)
}

func TestRead_ExitStatusFromEnv(t *testing.T) {
	t.Setenv(ExitCodeEnv, "1")
	env := Read(strings.NewReader(`{"tool_input":{"command":"git commit"}}`))
	require.Equal(t, 1, env.ExitStatus)

	t.Setenv(ExitCodeEnv, "garbage")
	env = Read(strings.NewReader(`{}`))
	require.Equal(t, 0, env.ExitStatus)
}

func TestRead_OversizedInputIsBounded(t *testing.T) {
	// A payload past the cap still parses nothing but must not error or hang.
	big := `{"tool_input":{"command":"` + strings.Repeat("x", maxStdinBytes) + `"}}`
	env := Read(strings.NewReader(big))
	require.Empty(t, env.Command)
}
