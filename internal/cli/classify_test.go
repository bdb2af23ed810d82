package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeWithStdin(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassify_FromStdin(t *testing.T) {
	input := "SELECT * FROM users\nINSERT INTO users (name) VALUES ('x')\n\nDROP TABLE users\n"

	out, err := executeWithStdin(t, input, "classify")
	require.NoError(t, err)

	assert.Contains(t, out, "SELECT SELECT * FROM users")
	assert.Contains(t, out, "INSERT INSERT INTO users (name) VALUES ('x')")
	assert.Contains(t, out, "OTHER  DROP TABLE users")
	assert.Contains(t, out, "SELECT: 1")
	assert.Contains(t, out, "INSERT: 1")
	assert.Contains(t, out, "OTHER: 1")
}

func TestClassify_FromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "statements.sql", "UPDATE t SET a = 1\nDELETE FROM t\n")

	out, err := execute(t, "classify", path)
	require.NoError(t, err)
	assert.Contains(t, out, "UPDATE: 1")
	assert.Contains(t, out, "DELETE: 1")
}

func TestClassify_JSONOutput(t *testing.T) {
	out, err := executeWithStdin(t, "SELECT 1\nSELECT 2\n", "classify", "--format", "json")
	require.NoError(t, err)

	var result ClassifyResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Statements, 2)
	assert.Equal(t, 2, result.Counts["SELECT"])
}

func TestClassify_MissingFile(t *testing.T) {
	_, err := execute(t, "classify", "/no/such/file.sql")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
