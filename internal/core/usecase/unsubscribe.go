package usecase

import "regexp"

// Ordered: an "unsubscribe ..." address or URL beats a bare mailto
// found elsewhere in the text. Matching runs against the original-case
// text; the patterns themselves are case-insensitive.
var unsubscribePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)unsubscribe[:\s]+(?:mailto:)?([^\s<>]+@[^\s<>]+)`),
	regexp.MustCompile(`(?i)unsubscribe[:\s]+(https?://[^\s<>]+)`),
	regexp.MustCompile(`(?i)mailto:([^\s<>]+@[^\s<>]+)`),
}

// ExtractUnsubscribeTarget returns the first unsubscribe address or
// URL found in text, preferring the captured group over the full match.
func ExtractUnsubscribeTarget(text string) (string, bool) {
	for _, pattern := range unsubscribePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if len(match) > 1 && match[1] != "" {
			return match[1], true
		}
		return match[0], true
	}
	return "", false
}
