// Package analytics classifies and records completed chat exchanges. It is a
// side effect off the critical path: recording failures never surface into
// the response.
package analytics

import "strings"

// Sentiment labels for a recorded exchange.
const (
	SentimentPositive = "POSITIVE"
	SentimentNeutral  = "NEUTRAL"
	SentimentNegative = "NEGATIVE"
)

// positiveLengthThreshold is the minimum answer length treated as a
// substantive, positive response.
const positiveLengthThreshold = 100

// topicKeywords maps topic tags to the question substrings that trigger
// them. Matching is deliberately coarse keyword matching; false positives
// (e.g. "python" inside an unrelated mention) are accepted.
var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{"skills", []string{"skill", "technolog", "tech stack", "tools", "framework", "language"}},
	{"experience", []string{"experience", "work history", "worked", "role", "position", "job"}},
	{"education", []string{"education", "degree", "university", "school", "certif", "course"}},
	{"projects", []string{"project", "portfolio", "built", "side project"}},
	{"aws", []string{"aws", "amazon web services", "cloud"}},
	{"python", []string{"python"}},
	{"javascript", []string{"javascript", "typescript", "react", "node"}},
	{"docker", []string{"docker", "kubernetes", "container"}},
	{"leadership", []string{"lead", "mentor", "manage", "team"}},
	{"compensation", []string{"salary", "compensation", "pay", "rate", "expectation"}},
	{"availability", []string{"available", "availability", "start date", "notice", "relocat"}},
}

// hedgingPhrases mark a non-answer: the assistant admitting it does not have
// the requested information.
var hedgingPhrases = []string{
	"i don't have that information",
	"i do not have that information",
	"i don't have that specific information",
	"not mentioned in",
	"no information about",
	"don't have details",
}

// ClassifyTopics tags a question with every matching topic, falling back to
// "general". Same input always yields the same tags in the same order.
func ClassifyTopics(question string) []string {
	lower := strings.ToLower(question)

	var topics []string
	for _, entry := range topicKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				topics = append(topics, entry.topic)
				break
			}
		}
	}
	if len(topics) == 0 {
		topics = []string{"general"}
	}
	return topics
}

// ClassifySentiment grades an answer: hedging phrases mean NEGATIVE (the
// question was not really answered), long answers without hedging are
// POSITIVE, everything else is NEUTRAL. The second return value is the
// "answered well" flag and mirrors the negative case.
func ClassifySentiment(answer string) (string, bool) {
	lower := strings.ToLower(answer)
	for _, phrase := range hedgingPhrases {
		if strings.Contains(lower, phrase) {
			return SentimentNegative, false
		}
	}
	if len(answer) > positiveLengthThreshold {
		return SentimentPositive, true
	}
	return SentimentNeutral, true
}
