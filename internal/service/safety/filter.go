package safety

import "regexp"

// Filter reports whether input text matches the crisis pattern set.
// It is a pluggable capability so the pattern set can be swapped
// without touching orchestration logic.
type Filter interface {
	Matches(text string) bool
}

// Ensure RegexFilter implements Filter
var _ Filter = (*RegexFilter)(nil)

// crisisPatterns is the fixed set of crisis-language patterns. This is
// a known-weak heuristic: paraphrase or other languages bypass it. Its
// job is not to catch everything but to guarantee that the most
// explicit phrasings always get the crisis reply, with no dependency
// on the completion provider.
var crisisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsuicide\b`),
	regexp.MustCompile(`(?i)\bsuicidal\b`),
	regexp.MustCompile(`(?i)\bkill (myself|me)\b`),
	regexp.MustCompile(`(?i)\bend (my|this) (own )?life\b`),
	regexp.MustCompile(`(?i)\bend it all\b`),
	regexp.MustCompile(`(?i)\btake my (own )?life\b`),
	regexp.MustCompile(`(?i)\bwant to die\b`),
	regexp.MustCompile(`(?i)\bbetter off dead\b`),
	regexp.MustCompile(`(?i)\bself[- ]harm\b`),
	regexp.MustCompile(`(?i)\bhurt (myself|me)\b`),
	regexp.MustCompile(`(?i)\bdon'?t want to (live|be alive)\b`),
}

// RegexFilter matches input against the fixed crisis pattern set
type RegexFilter struct {
	patterns []*regexp.Regexp
}

// NewRegexFilter creates a filter with the built-in pattern set
func NewRegexFilter() *RegexFilter {
	return &RegexFilter{patterns: crisisPatterns}
}

// Matches reports whether any crisis pattern matches the text
func (f *RegexFilter) Matches(text string) bool {
	for _, p := range f.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
