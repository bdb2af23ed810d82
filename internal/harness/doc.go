// Package harness runs declarative statement-count scenarios through the
// engine.
//
// A scenario is a YAML file naming the statements a simulated test body
// emits, optionally statements a write-behind layer defers until flush,
// and the expected per-kind counts. The harness replays the statements
// through the engine's full lifecycle (open scope, body, flush, evaluate,
// close) and reports pass/fail with the engine's diagnostic text.
//
// Scenarios serve two audiences: the CLI (`sqltally check`) runs them as
// executable documentation of a codebase's query budget, and the test
// suite compares their traces against golden files for regression
// coverage.
package harness
