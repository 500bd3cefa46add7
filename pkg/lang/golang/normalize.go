package golang

import (
	"go/constant"
	"go/token"
	"strconv"
)

// normalizeLiteral maps literal text to a spelling-independent form:
// quote and escape choices for strings and runes, base and digit-separator
// choices for numbers. Two literals normalize equal exactly when they
// denote the same constant. Text that does not parse as a literal, which
// the parser only produces under error recovery, is kept verbatim.
func normalizeLiteral(kind token.Token, value string) string {
	switch kind {
	case token.STRING, token.CHAR:
		unquoted, err := strconv.Unquote(value)
		if err != nil {
			return value
		}

		return unquoted
	case token.INT, token.FLOAT, token.IMAG:
		exact := constant.MakeFromLiteral(value, kind, 0)
		if exact.Kind() == constant.Unknown {
			return value
		}

		return exact.ExactString()
	default:
		return value
	}
}
