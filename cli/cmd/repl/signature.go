package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/konf/lang"
)

// signature describes a callable for the parameter hint line.
type signature struct {
	name   string
	params []string
}

func (s signature) String() string {
	return s.name + "(" + strings.Join(s.params, ", ") + ")"
}

// konfCalls are the call forms allowed inside ^( … ).
var konfCalls = map[string]signature{
	lang.KeywordMax: {lang.KeywordMax, []string{"a", "b"}},
	lang.KeywordPow: {lang.KeywordPow, []string{"base", "exp"}},
}

// queryCalls are the functions most useful in =queries over a table.
// Source: https://expr-lang.org/docs/language-definition
var queryCalls = map[string]signature{
	"oct":     {"oct", []string{"v"}},
	"dec":     {"dec", []string{"v"}},
	"len":     {"len", []string{"v"}},
	"all":     {"all", []string{"array", "predicate"}},
	"any":     {"any", []string{"array", "predicate"}},
	"none":    {"none", []string{"array", "predicate"}},
	"map":     {"map", []string{"array", "mapper"}},
	"filter":  {"filter", []string{"array", "predicate"}},
	"find":    {"find", []string{"array", "predicate"}},
	"count":   {"count", []string{"array", "predicate"}},
	"sum":     {"sum", []string{"array"}},
	"mean":    {"mean", []string{"array"}},
	"min":     {"min", []string{"...v"}},
	"max":     {"max", []string{"...v"}},
	"keys":    {"keys", []string{"map"}},
	"values":  {"values", []string{"map"}},
	"sort":    {"sort", []string{"array", "order"}},
	"reverse": {"reverse", []string{"array"}},
	"first":   {"first", []string{"array"}},
	"last":    {"last", []string{"array"}},
	"string":  {"string", []string{"v"}},
	"int":     {"int", []string{"v"}},
	"type":    {"type", []string{"v"}},
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is the call enclosing the cursor, if any.
type functionCall struct {
	name     string
	argIndex int // 0-based
	inCall   bool
}

// detectFunctionCall reports the innermost call whose argument list contains
// the cursor. A parenthesis not preceded by a name (a statement or ^( … )
// group) is not a call.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	open := -1
	depth := 0

scan:
	for i := cursor; i > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')', ']':
			depth++

		case '(', '[':
			if depth == 0 {
				if r == '(' {
					open = i
				}

				break scan
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	name, _, _ := wordBounds(input[:open], open)
	if name == "" {
		return functionCall{}
	}

	args := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				args++
			}
		}
	}

	return functionCall{name: name, argIndex: args, inCall: true}
}

// lookupSignature returns the signature of name as seen from input.
func lookupSignature(input, name string) (signature, bool) {
	calls := konfCalls
	if classify(input) == kindQuery {
		calls = queryCalls
	}

	sig, ok := calls[name]

	return sig, ok
}

// renderSignatureHint renders sig with the parameter at argIdx highlighted.
// A variadic final parameter stays highlighted for every extra argument.
func renderSignatureHint(sig signature, argIdx int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(sig.name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range sig.params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")

		if argIdx == i || (variadic && argIdx > i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
