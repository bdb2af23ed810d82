package harness

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

// scenarioSchema is the CUE schema every scenario file must satisfy.
// The definition is closed, so unknown fields (typos like "expects:")
// are rejected with a position-carrying error.
const scenarioSchema = `
#Scenario: {
	name:         string & !=""
	description?: string
	scope_id?:    string & !=""
	statements?: [...string]
	deferred?: [...string]
	expect?: {
		select?: int & >=0
		insert?: int & >=0
		update?: int & >=0
		delete?: int & >=0
		other?:  int & >=0
	}
}
`

// ValidateScenarioFile checks a scenario YAML file against the CUE schema
// without running it.
//
// This is a shape check for fast editor/CI feedback: field names, types,
// and count bounds. Semantic checks that need the parsed scenario (at
// least one statement, known kinds) happen in LoadScenario.
func ValidateScenarioFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read scenario file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	cctx := cuecontext.New()
	schema := cctx.CompileString(scenarioSchema).LookupPath(cue.ParsePath("#Scenario"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}

	value := cctx.Encode(raw)
	if err := value.Err(); err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("scenario %s violates schema:\n%s", path, cueerrors.Details(err, nil))
	}

	return nil
}
