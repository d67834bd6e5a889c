package main

import "regexp"

// Patterns for the three special symbol classes. The mention and emoticon
// patterns capture the token body in group 1 because RE2 has no lookaround;
// the surrounding marker characters are consumed but not reported.
var (
	// @frank @sally @foo_bar_BAZ123 — a run of word characters after '@'.
	// '-' is not a word character and terminates a mention.
	mentionPattern = regexp.MustCompile(`@(\w+)`)

	// (lol) (agree) — 1 to 15 alphanumerics inside a single paren pair.
	emoticonPattern = regexp.MustCompile(`\(([a-zA-Z0-9]{1,15})\)`)

	// http://what.com over a restricted URL character set, or a bare
	// domain.tld token with a 2-6 letter final segment.
	urlPattern = regexp.MustCompile(
		`(?:https?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*(),]|%[0-9a-fA-F]{2})+)|(?:\S+\.[a-zA-Z]{2,6})`)
)

// SymbolExtractor scans raw message text for mentions, emoticons and URLs.
// It is stateless and performs no I/O.
type SymbolExtractor struct{}

// NewSymbolExtractor creates a new symbol extractor.
func NewSymbolExtractor() *SymbolExtractor {
	return &SymbolExtractor{}
}

// Extract returns the mention, emoticon and URL tokens of text, each in order
// of appearance. The slices are not deduplicated; that is the caller's
// responsibility.
func (e *SymbolExtractor) Extract(text string) (mentions, emoticons, urls []string) {
	return e.Mentions(text), e.Emoticons(text), e.URLs(text)
}

// Mentions returns every @name token in text, in order, without the '@'.
func (e *SymbolExtractor) Mentions(text string) []string {
	return captureGroups(mentionPattern, text)
}

// Emoticons returns every (name) token in text, in order, without the parens.
func (e *SymbolExtractor) Emoticons(text string) []string {
	return captureGroups(emoticonPattern, text)
}

// URLs returns every URL-shaped token in text, in order.
func (e *SymbolExtractor) URLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

func captureGroups(pattern *regexp.Regexp, text string) []string {
	matches := pattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(matches))
	for _, match := range matches {
		tokens = append(tokens, match[1])
	}
	return tokens
}
