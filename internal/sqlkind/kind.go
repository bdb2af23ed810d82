package sqlkind

import "strings"

// Kind is the coarse operation classification of a SQL statement.
type Kind string

const (
	Select Kind = "SELECT"
	Insert Kind = "INSERT"
	Update Kind = "UPDATE"
	Delete Kind = "DELETE"

	// Other covers everything else: DDL, stored-procedure calls, pragmas,
	// transaction control, and statements whose leading token is unrecognized.
	Other Kind = "OTHER"
)

// Kinds lists every classification in a stable order.
// Used by the evaluator and CLI to iterate deterministically.
var Kinds = []Kind{Select, Insert, Update, Delete, Other}

// Classify maps raw statement text to its operation kind.
//
// The raw text may be prefixed with whitespace, line comments ("--" or "#"),
// and block comments ("/* ... */"); drivers and ORMs commonly prepend an
// origin annotation comment. All such prefixes are skipped before the first
// keyword is matched case-insensitively.
//
// Classify is total: every input, including the empty string and malformed
// SQL, maps to exactly one Kind. Unrecognized leading keywords map to Other.
func Classify(raw string) Kind {
	rest := skipLeading(raw)

	// Isolate the first keyword token.
	end := 0
	for end < len(rest) && isWordByte(rest[end]) {
		end++
	}
	word := rest[:end]

	switch {
	case strings.EqualFold(word, "select"):
		return Select
	case strings.EqualFold(word, "insert"):
		return Insert
	case strings.EqualFold(word, "update"):
		return Update
	case strings.EqualFold(word, "delete"):
		return Delete
	default:
		return Other
	}
}

// skipLeading advances past whitespace and comments until the first
// significant byte. Unterminated comments consume the rest of the input,
// which classifies as Other.
func skipLeading(s string) string {
	for {
		s = strings.TrimLeft(s, " \t\r\n\v\f")

		switch {
		case strings.HasPrefix(s, "--"), strings.HasPrefix(s, "#"):
			idx := strings.IndexByte(s, '\n')
			if idx < 0 {
				return ""
			}
			s = s[idx+1:]

		case strings.HasPrefix(s, "/*"):
			idx := strings.Index(s[2:], "*/")
			if idx < 0 {
				return ""
			}
			s = s[2+idx+2:]

		default:
			return s
		}
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
