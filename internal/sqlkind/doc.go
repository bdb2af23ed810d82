// Package sqlkind classifies raw SQL statement text by its leading verb.
//
// Classification is deliberately coarse: a statement is a SELECT, INSERT,
// UPDATE, DELETE, or OTHER, decided by the first keyword after any leading
// whitespace and comments. Nothing past the leading keyword is inspected,
// so parameters, CTE bodies, and trailing clauses never affect the result.
package sqlkind
