package python

import "strings"

// punctuation lists tokens whose presence is governed by formatting:
// grouping, separators and fixed structural markers. Operators are
// deliberately absent; "+" versus "-" is a semantic change.
var punctuation = map[string]bool{
	",":  true,
	"(":  true,
	")":  true,
	"[":  true,
	"]":  true,
	"{":  true,
	"}":  true,
	":":  true,
	";":  true,
	".":  true,
	"=":  true,
	"->": true,
}

// stringAffix strips the quote characters from a string delimiter token,
// keeping prefix letters that change the literal's meaning. 'a' and "a"
// then compare equal while b'a' and 'a' do not. Prefix case is folded,
// matching the language's treatment.
func stringAffix(delimiter string) string {
	return strings.TrimRight(strings.ToLower(delimiter), `'"`)
}
