package brain

import "strings"

// Classification is the verdict on one piece of text.
type Classification struct {
	Abusive bool
	Closing bool
}

// Classifier decides whether text is abusive and whether it reads as a
// conversation close. The transition logic only consumes this interface, so
// the keyword matcher below can be swapped for a model without touching the
// state machine.
type Classifier interface {
	Classify(text string) Classification
}

// KeywordClassifier flags text by case-insensitive substring match. Known
// limitation: closing detection can false-positive on a candidate's own
// phrasing echoed back by the generator.
type KeywordClassifier struct {
	abuse   []string
	closing []string
}

// DefaultAbuseKeywords is the stock abusive-language list.
func DefaultAbuseKeywords() []string {
	return []string{
		"stupid", "idiot", "fuck", "shit", "asshole",
		"dumb", "moron", "retard", "bitch", "shut up",
	}
}

// DefaultClosingPhrases is the stock set of phrases that signal the
// generator has wrapped up the conversation.
func DefaultClosingPhrases() []string {
	return []string{"thank you", "goodbye", "hear back"}
}

// NewKeywordClassifier builds a classifier over the given keyword sets,
// falling back to the defaults for any empty set.
func NewKeywordClassifier(abuse, closing []string) *KeywordClassifier {
	if len(abuse) == 0 {
		abuse = DefaultAbuseKeywords()
	}
	if len(closing) == 0 {
		closing = DefaultClosingPhrases()
	}
	return &KeywordClassifier{
		abuse:   lowerAll(abuse),
		closing: lowerAll(closing),
	}
}

func (k *KeywordClassifier) Classify(text string) Classification {
	lower := strings.ToLower(text)
	return Classification{
		Abusive: containsAny(lower, k.abuse),
		Closing: containsAny(lower, k.closing),
	}
}

func containsAny(lower string, keywords []string) bool {
	if strings.TrimSpace(lower) == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
