// Package rejection implements the analysis core over office-action rejection
// datasets: year extraction, the action-type category normalizer and the
// filter/aggregate views.
package rejection

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

// ─────────────────────────────────────────────────────────────────────────────
// Rewrite rules
// ─────────────────────────────────────────────────────────────────────────────

// Whitespace is matched with Unicode semantics: the ASCII \s set plus \v,
// the information separators U+001C..U+001F, NEL and every rune of the Z
// categories.  RE2's own \s is ASCII-only.
const whitespaceRunes = `\s\v\x{1c}-\x{1f}\x{85}\p{Z}`

var unicodeClasses = strings.NewReplacer(
	`\s`, "["+whitespaceRunes+"]",
	`\S`, "[^"+whitespaceRunes+"]",
)

// RewriteRule replaces every match of Pattern in an action-type value with
// the canonical Label.
type RewriteRule struct {
	Pattern *regexp.Regexp
	Label   rtypes.Label
	// WordStart rejects matches preceded by a Unicode letter, digit or
	// underscore.
	WordStart bool
}

// newRule compiles expr with Unicode whitespace classes.  A leading \b
// becomes WordStart, since RE2 word boundaries only know ASCII.
func newRule(expr string, label rtypes.Label) RewriteRule {
	wordStart := strings.HasPrefix(expr, `\b`)
	expr = strings.TrimPrefix(expr, `\b`)
	return RewriteRule{
		Pattern:   regexp.MustCompile(unicodeClasses.Replace(expr)),
		Label:     label,
		WordStart: wordStart,
	}
}

// Apply replaces every non-overlapping match, scanning left to right, and
// reports whether anything matched.
func (r RewriteRule) Apply(value string) (string, bool) {
	var (
		b       strings.Builder
		last    int
		from    int
		matched bool
	)
	for from <= len(value) {
		loc := r.Pattern.FindStringIndex(value[from:])
		if loc == nil {
			break
		}
		start, end := from+loc[0], from+loc[1]
		if r.WordStart && !atWordStart(value, start) {
			_, size := utf8.DecodeRuneInString(value[start:])
			if size == 0 {
				break
			}
			from = start + size
			continue
		}
		b.WriteString(value[last:start])
		b.WriteString(string(r.Label))
		last, from, matched = end, end, true
		if end == start {
			_, size := utf8.DecodeRuneInString(value[end:])
			if size == 0 {
				break
			}
			from += size
		}
	}
	if !matched {
		return value, false
	}
	b.WriteString(value[last:])
	return b.String(), true
}

func atWordStart(s string, i int) bool {
	if i == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(prev)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// rewriteRules is evaluated top to bottom and each rule sees the output of
// the previous one.  The order is part of the contract: turning this into a
// map changes the result for values holding several sub-phrases.
//
// The cancel and allowed rules consume a trailing whitespace character when
// it follows the root directly, so "cancel claims" becomes "Cancelledclaims".
var rewriteRules = []RewriteRule{
	newRule(`\breject\S*`, rtypes.LabelRejected),
	newRule(`\bobject\S*`, rtypes.LabelObjection),
	newRule(`withdr(a|e)\S*`, rtypes.LabelWithdrawn),
	newRule(`\bcancel(\s|\S*)`, rtypes.LabelCancelled),
	newRule(`\binterpr\S*`, rtypes.LabelInterpretationIssue),
	newRule(`\ballow(ed\s|ed\S*|\s)`, rtypes.LabelAllowed),
	newRule(`\ballowa\S*`, rtypes.LabelAllowableIfResolved),
}

// RewriteRules returns a copy of the ordered rewrite rule list.
func RewriteRules() []RewriteRule {
	out := make([]RewriteRule, len(rewriteRules))
	copy(out, rewriteRules)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Detection patterns
// ─────────────────────────────────────────────────────────────────────────────

var allowFollowedBySpace = regexp.MustCompile(unicodeClasses.Replace(`allow\s`))

// detectors are case-sensitive and evaluated independently, so one value may
// match several categories ("allowed" and "allowable" commonly overlap).
var detectors = map[rtypes.Category]func(string) bool{
	rtypes.CategoryReject:    contains("reject"),
	rtypes.CategoryWithdraw:  contains("with"),
	rtypes.CategoryCancel:    contains("canc"),
	rtypes.CategoryObject:    contains("obj"),
	rtypes.CategoryInterpret: contains("interpret"),
	rtypes.CategoryAllowed: func(s string) bool {
		return strings.Contains(s, "allowe") || allowFollowedBySpace.MatchString(s)
	},
	rtypes.CategoryAllowable: contains("allowa"),
}

func contains(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, sub) }
}

// MatchesCategory reports whether an action-type value matches the detection
// pattern of c.  Unknown categories never match.
func MatchesCategory(value string, c rtypes.Category) bool {
	detect, ok := detectors[c]
	return ok && detect(value)
}

// DetectCategories returns every category whose detection pattern matches
// value, in the order of rtypes.Categories.
func DetectCategories(value string) []rtypes.Category {
	var out []rtypes.Category
	for _, c := range rtypes.Categories() {
		if MatchesCategory(value, c) {
			out = append(out, c)
		}
	}
	return out
}
