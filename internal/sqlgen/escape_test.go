package sqlgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteral_Nulls(t *testing.T) {
	assert.Equal(t, "NULL", Literal(nil))
	assert.Equal(t, "NULL", Literal((*int64)(nil)))
	assert.Equal(t, "NULL", Literal((*string)(nil)))
}

func TestLiteral_Booleans(t *testing.T) {
	assert.Equal(t, "true", Literal(true))
	assert.Equal(t, "false", Literal(false))
}

func TestLiteral_Numbers(t *testing.T) {
	assert.Equal(t, "42", Literal(42))
	assert.Equal(t, "1000", Literal(int64(1000)))

	n := int64(4711)
	assert.Equal(t, "4711", Literal(&n))
}

func TestLiteral_Strings(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"plain", "hello", "'hello'"},
		{"empty renders as quotes not NULL", "", "''"},
		{"single quote doubled", "O'Brien", "'O''Brien'"},
		{"backslash doubled", `C:\files`, `'C:\\files'`},
		{"both", `O'Brien\Co`, `'O''Brien\\Co'`},
		{"json blob", `{"applicant_name":"O'Brien"}`, `'{"applicant_name":"O''Brien"}'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Literal(tt.in))

			s := tt.in
			assert.Equal(t, tt.expected, Literal(&s))
		})
	}
}

// unquoteSQL reverses the rendering: strips the outer quotes and collapses
// the doubled escapes, emulating a backslash-aware SQL string reader.
func unquoteSQL(t *testing.T, lit string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(lit, "'") && strings.HasSuffix(lit, "'"))
	body := lit[1 : len(lit)-1]

	var out strings.Builder
	for i := 0; i < len(body); i++ {
		switch {
		case body[i] == '\'' && i+1 < len(body) && body[i+1] == '\'':
			out.WriteByte('\'')
			i++
		case body[i] == '\\' && i+1 < len(body) && body[i+1] == '\\':
			out.WriteByte('\\')
			i++
		default:
			out.WriteByte(body[i])
		}
	}
	return out.String()
}

func TestLiteral_RoundTrip(t *testing.T) {
	inputs := []string{
		"plain",
		"O'Brien",
		`back\slash`,
		`mixed '\' quoting`,
		`''''`,
		`\\\\`,
		"unicode: Čairo 😀",
	}
	for _, in := range inputs {
		assert.Equal(t, in, unquoteSQL(t, Literal(in)), "round trip of %q", in)
	}
}
