package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"golang.org/x/text/unicode/norm"
)

// TraceSnapshot is the serialized form of a scenario run compared against
// golden files.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	ScopeID      string       `json:"scope_id"`
	Pass         bool         `json:"pass"`
	Trace        []TraceEvent `json:"trace"`
}

// AssertGolden compares a result's trace snapshot against
// testdata/golden/<name>.golden.
//
// Statement text is NFC normalized so that golden comparison is stable
// across Unicode representations of the same statement (editors and
// copy-paste can silently change composition).
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: result.Name,
		ScopeID:      result.ScopeID,
		Pass:         result.Pass,
		Trace:        make([]TraceEvent, len(result.Trace)),
	}
	for i, event := range result.Trace {
		event.Statement = norm.NFC.String(event.Statement)
		snapshot.Trace[i] = event
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, result.Name, data)
	return nil
}
