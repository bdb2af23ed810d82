package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqltally/internal/scope"
	"github.com/roach88/sqltally/internal/sqlkind"
	"github.com/roach88/sqltally/internal/testutil"
)

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenarioFile(t, `
name: cart-read
description: Loading a cart issues a single joined select.
statements:
  - SELECT * FROM carts WHERE id = ?
expect:
  select: 1
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "cart-read", scenario.Name)
	require.Len(t, scenario.Statements, 1)
	assert.Empty(t, scenario.ScopeID, "scope_id stays unset so each run gets a fresh ID")

	expectation, err := scenario.Expectation()
	require.NoError(t, err)
	assert.Equal(t, 1, expectation.Expected(sqlkind.Select))
	assert.Equal(t, 0, expectation.Expected(sqlkind.Insert), "undeclared kinds default to zero")
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	path := writeScenarioFile(t, `
name: typo
statements:
  - SELECT 1
expects:
  select: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_MissingName(t *testing.T) {
	path := writeScenarioFile(t, `
statements:
  - SELECT 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLoadScenario_NoStatements(t *testing.T) {
	path := writeScenarioFile(t, `
name: empty
expect:
  select: 0
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one statement")
}

func TestLoadScenario_UnknownKind(t *testing.T) {
	path := writeScenarioFile(t, `
name: bad-kind
statements:
  - SELECT 1
expect:
  truncate: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown kind "truncate"`)
}

func TestLoadScenario_NegativeCount(t *testing.T) {
	path := writeScenarioFile(t, `
name: negative
statements:
  - SELECT 1
expect:
  select: -1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestScenario_EffectiveScopeID(t *testing.T) {
	gen := testutil.NewFixedIDGenerator("generated-id")

	pinned := &Scenario{Name: "x", ScopeID: "fixed-id"}
	assert.Equal(t, scope.ID("fixed-id"), pinned.EffectiveScopeID(gen), "a pinned scope_id wins over the generator")

	unpinned := &Scenario{Name: "x"}
	assert.Equal(t, scope.ID("generated-id"), unpinned.EffectiveScopeID(gen))
}
