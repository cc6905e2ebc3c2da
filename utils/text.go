// Package utils holds small shared helpers. CleanGeneratedText is the answer
// post-processor used by both the chat and text-improvement flows.
package utils

import (
	"strings"
	"unicode/utf8"
)

// leadInPrefixes are boilerplate phrases models prepend to their actual
// output. Matching is a case-insensitive prefix check; order matters and the
// first match wins, so longer variants come before their shorter prefixes.
var leadInPrefixes = []string{
	"here is the improved text:",
	"here is the improved version:",
	"here is the rewritten text:",
	"here's the improved text:",
	"here's the improved version:",
	"here's the rewritten text:",
	"improved text:",
	"improved version:",
	"rewritten text:",
	"certainly, here",
	"sure, here",
	"of course, here",
	"output:",
	"answer:",
	"response:",
}

// preambleMarkers flag an explanatory preamble ("I rewrote your text to...")
// when they appear near the start of the output.
var preambleMarkers = []string{
	"i rewrote",
	"i improved",
	"i made",
	"i've improved",
	"i have improved",
	"this version",
	"changes made",
}

// explanatoryStarts disqualify a line from being the recovered payload.
var explanatoryStarts = []string{"here", "i ", "the ", "this "}

// maxCleanPasses bounds the strip pipeline. Three layers of stacked
// wrappers is already beyond anything observed in real output.
const maxCleanPasses = 3

// CleanGeneratedText strips conversational wrappers, quote artifacts, and
// preamble phrases from raw model output so only the substantive answer
// remains. It is idempotent, and best-effort otherwise: it improves typical
// outputs rather than guaranteeing extraction.
func CleanGeneratedText(raw string) string {
	text := strings.TrimSpace(raw)

	// Wrappers stack (a lead-in over a preamble over quotes), so the
	// pipeline runs until the text stops changing.
	for i := 0; i < maxCleanPasses; i++ {
		prev := text
		text = stripQuotes(text)
		text = stripLeadIn(text)
		text = stripPreamble(text)
		text = stripQuotes(strings.TrimSpace(text))
		if text == prev {
			break
		}
	}

	return text
}

// stripQuotes removes one layer of matching surrounding quotes, double
// before single.
func stripQuotes(s string) string {
	for _, q := range []byte{'"', '\''} {
		if len(s) >= 2 && s[0] == q && s[len(s)-1] == q {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

func stripLeadIn(s string) string {
	lower := strings.ToLower(s)
	for _, prefix := range leadInPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(s[len(prefix):])
		}
	}
	return s
}

// stripPreamble recovers the payload from outputs that open with an
// explanation of the rewrite. If the head of the text contains a marker,
// everything after the first colon is taken; failing that, the longest
// non-explanatory line wins.
func stripPreamble(s string) string {
	head := strings.ToLower(s)
	if len(head) > 100 {
		head = head[:100]
	}

	found := false
	for _, marker := range preambleMarkers {
		if strings.Contains(head, marker) {
			found = true
			break
		}
	}
	if !found {
		return s
	}

	if idx := strings.Index(s, ":"); idx >= 0 && idx < len(s)-1 {
		if payload := strings.TrimSpace(s[idx+1:]); payload != "" {
			return payload
		}
	}

	best := ""
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 20 || len(line) <= len(best) {
			continue
		}
		if startsExplanatory(line) {
			continue
		}
		best = line
	}
	if best != "" {
		return best
	}
	return s
}

func startsExplanatory(line string) bool {
	lower := strings.ToLower(line)
	for _, prefix := range explanatoryStarts {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Truncate bounds a string to at most max bytes without splitting a rune,
// used to keep request provenance fields within their column limits.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
