// Package sqlgen renders a reconstructed record set as a PostgreSQL import
// script: explicit-column INSERT statements in fixed table order, followed
// by sequence advancement. Rendering is pure text generation — nothing here
// touches a database.
package sqlgen

import "strconv"

// Literal renders a Go value as a SQL literal.
//
// nil (and nil typed pointers) render as NULL, booleans as bare true/false,
// integers as bare numerics. Strings are single-quoted with embedded single
// quotes doubled and embedded backslashes doubled; the empty string renders
// as '', never as NULL. Backslash doubling is the contract here — the
// destination runs with backslash-aware string parsing, and blending the
// non-doubling variant would corrupt file paths in the blob columns.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case *int64:
		if x == nil {
			return "NULL"
		}
		return strconv.FormatInt(*x, 10)
	case string:
		return quote(x)
	case *string:
		if x == nil {
			return "NULL"
		}
		return quote(*x)
	default:
		// Builders only produce the types above; anything else is a
		// structural bug worth surfacing in the output.
		return "NULL /* unrenderable */"
	}
}

func quote(s string) string {
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '\'')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			buf = append(buf, '\'', '\'')
		case '\\':
			buf = append(buf, '\\', '\\')
		default:
			buf = append(buf, s[i])
		}
	}
	buf = append(buf, '\'')
	return string(buf)
}
