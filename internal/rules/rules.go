package rules

import (
	"regexp"
)

// Category classifies what a rule detects.
type Category string

const (
	CategoryEmail      Category = "email"
	CategoryPhone      Category = "phone"
	CategorySSN        Category = "ssn"
	CategoryCreditCard Category = "credit_card"
	CategoryInjection  Category = "injection"
	CategoryToxicity   Category = "toxicity"
	// CategoryHallucination has no patterns of its own — it exists so the
	// hallucination heuristic can carry a configurable severity like every
	// pattern-backed category.
	CategoryHallucination Category = "hallucination"
	CategoryOffTopic      Category = "offtopic"
)

// Severity decides what happens when a rule matches.
type Severity int

const (
	SeverityWarn Severity = iota + 1
	SeverityBlock
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarn:
		return "warn"
	case SeverityBlock:
		return "block"
	default:
		return "unspecified"
	}
}

// Rule is an immutable detection rule: a compiled pattern tied to a category.
// Patterns that must match case-insensitively carry the (?i) flag; structural
// PII patterns (SSN, card digit groups) are evaluated literally.
type Rule struct {
	Category Category
	Detail   string
	re       *regexp.Regexp
}

func newRule(cat Category, detail, pattern string) Rule {
	return Rule{
		Category: cat,
		Detail:   detail,
		re:       regexp.MustCompile(pattern),
	}
}

// Matches reports whether the rule's pattern occurs in text.
func (r Rule) Matches(text string) bool {
	return r.re.MatchString(text)
}

// Find returns the first matched substring, or "" if no match.
func (r Rule) Find(text string) string {
	return r.re.FindString(text)
}

// Match pairs a triggered rule with the substring that triggered it.
type Match struct {
	Rule Rule
	Text string
}

// Table is an ordered, immutable set of rules partitioned by concern.
// Construct once at startup and inject; matching is a pure function of the
// input text and the table contents.
type Table struct {
	pii        []Rule
	injection  []Rule
	toxicity   []Rule
	offTopic   []Rule
	severities map[Category]Severity
}

// PIICategories evaluates every PII rule and returns all matching categories
// in declaration order. Multiple PII kinds can co-occur in one query.
func (t *Table) PIICategories(text string) []Category {
	var matched []Category
	for _, r := range t.pii {
		if r.Matches(text) {
			matched = append(matched, r.Category)
		}
	}
	return matched
}

// FirstInjection returns the first injection rule that matches, in
// declaration order (fixed priority).
func (t *Table) FirstInjection(text string) (Match, bool) {
	return firstMatch(t.injection, text)
}

// FirstToxic returns the first toxicity rule that matches.
func (t *Table) FirstToxic(text string) (Match, bool) {
	return firstMatch(t.toxicity, text)
}

// FirstOffTopic returns the first off-topic rule that matches.
func (t *Table) FirstOffTopic(text string) (Match, bool) {
	return firstMatch(t.offTopic, text)
}

// Severity returns the configured severity for a category.
// Categories without an explicit entry default to blocking.
func (t *Table) Severity(c Category) Severity {
	if s, ok := t.severities[c]; ok {
		return s
	}
	return SeverityBlock
}

// WithPolicy returns a copy of the table with per-category severity
// overrides applied. The rule lists are shared — they are immutable.
func (t *Table) WithPolicy(p Policy) *Table {
	if len(p.Severities) == 0 {
		return t
	}
	severities := make(map[Category]Severity, len(t.severities))
	for c, s := range t.severities {
		severities[c] = s
	}
	for c, s := range p.Severities {
		severities[c] = s
	}
	return &Table{
		pii:        t.pii,
		injection:  t.injection,
		toxicity:   t.toxicity,
		offTopic:   t.offTopic,
		severities: severities,
	}
}

func firstMatch(rules []Rule, text string) (Match, bool) {
	for _, r := range rules {
		if m := r.Find(text); m != "" {
			return Match{Rule: r, Text: m}, true
		}
	}
	return Match{}, false
}
