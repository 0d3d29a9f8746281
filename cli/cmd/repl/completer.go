package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/konf/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "source", "reset", "clear", "quit"}

// keywords are offered as completions in konf input.
var keywords = []string{lang.KeywordDefine, lang.KeywordMax, lang.KeywordPow}

// queryFunctions are the functions konf adds to expr-lang queries.
var queryFunctions = []string{"oct", "dec"}

// isWordRune reports whether r can be part of a completable word. konf
// identifiers are lowercase letters; queries also allow expr-lang names.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the word at the cursor position and its byte
// boundaries within input. It returns an empty word when the cursor sits
// between two non-word runes.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidates returns the completion candidates for eval-mode input: the
// session's constants plus either the konf keywords or, for queries, the
// expr-lang builtins and konf query functions.
func candidates(table *lang.Table, input string) []string {
	names := table.Names()

	if classify(input) == kindQuery {
		names = append(names, queryFunctions...)

		for _, fn := range builtin.Builtins {
			names = append(names, fn.Name)
		}
	} else {
		names = append(names, keywords...)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches ranks candidates against the word under the cursor.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, wordStart, wordEnd
	}

	var list []string

	if m.mode == modeCtrl {
		list = ctrlCommands
	} else {
		list = candidates(m.session.Table(), input)
	}

	return fuzzy.Find(word, list), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted. Functions get a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// isFunction reports whether name completes to a call.
func isFunction(name string) bool {
	if name == lang.KeywordMax || name == lang.KeywordPow ||
		slices.Contains(queryFunctions, name) {
		return true
	}

	_, ok := builtin.Index[name]

	return ok
}

// previewWidth bounds the value shown next to each constant by list.
const previewWidth = 40

func preview(v lang.Value) string {
	s := v.Octal()
	if len(s) > previewWidth {
		return s[:previewWidth-3] + "..."
	}

	return s
}
