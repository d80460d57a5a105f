// Package normalization provides pure normalization primitives for billing
// data: canonicalizing free-text service descriptions into stable service
// names and extracting billing periods embedded in them.
package normalization

import (
	"regexp"
	"strings"
)

// rewriteRule is one entry of the ordered canonicalization table. Rules run
// top to bottom; later rules assume earlier ones already ran, so the order is
// pinned by tests.
type rewriteRule struct {
	pattern     *regexp.Regexp
	replacement string
}

var canonicalRules = []rewriteRule{
	// 1. Embedded date ranges and "Service Period" suffixes.
	{regexp.MustCompile(`(?i)\bservice\s+period\s*:?.*$`), ""},
	{regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}\s*(?:-|–|to)\s*\d{1,2}/\d{1,2}/\d{4}`), ""},
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}\s*(?:-|–|to)\s*\d{4}-\d{2}-\d{2}`), ""},
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}`), ""},
	{regexp.MustCompile(`(?i)\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+\d{4}\b`), ""},

	// 2. CSP-billing noise token family, including the recurring typo variants.
	{regexp.MustCompile(`(?i)\b(?:csp\s*billing|cspbilling|csp\s*billling|csp\s*biling)\b`), ""},

	// 3. "Service:" / "Service -" prefixes.
	{regexp.MustCompile(`(?i)^\s*service\s*[:\-]\s*`), ""},

	// 4. Spacing variants of the CSP separator token, then redundant repeats.
	{regexp.MustCompile(`(?i)\bcsp\s*-\s*|\bcsp\s+`), "CSP - "},
	{regexp.MustCompile(`(?:\s*-\s*){2,}`), " - "},

	// 5. Region qualifier phrasings collapse to one canonical suffix form.
	{regexp.MustCompile(`(?i)\s*(?:\(\s*(?:us|usa|united states)\s*\)|[\-–]\s*(?:us|usa|united states)|\b(?:us|usa|united states)\s+region)\s*$`), " (US)"},
}

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	trailingPattern   = regexp.MustCompile(`[\s\-:]+$`)
	leadingPattern    = regexp.MustCompile(`^[\s\-:]+`)
)

// CanonicalizeServiceName normalizes a free-text line description into the
// stable service name used for aggregation. The transform is idempotent:
// canonicalizing an already-canonical name returns it unchanged.
func CanonicalizeServiceName(description string) string {
	name := description
	for _, rule := range canonicalRules {
		name = rule.pattern.ReplaceAllString(name, rule.replacement)
	}

	// 6. Collapse whitespace and strip dangling separators.
	name = whitespacePattern.ReplaceAllString(name, " ")
	name = trailingPattern.ReplaceAllString(name, "")
	name = leadingPattern.ReplaceAllString(name, "")

	return strings.TrimSpace(name)
}

// fallbackServiceName names lines whose description carries no service
// information at all (e.g. a line that is only a date range).
const fallbackServiceName = "Miscellaneous"

// ServiceNameOrFallback canonicalizes a description and guarantees a
// non-empty result: when canonicalization strips everything, the trimmed raw
// description is used instead, and an empty description falls back to a
// generic bucket name. Every ingestion path derives service names through
// this so the same line always lands on the same service.
func ServiceNameOrFallback(description string) string {
	name := CanonicalizeServiceName(description)
	if name == "" {
		name = strings.TrimSpace(description)
	}
	if name == "" {
		name = fallbackServiceName
	}
	return name
}
