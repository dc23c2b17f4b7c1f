package memory

// KeywordCap is the maximum number of keywords kept per extraction and per
// session.
const KeywordCap = 10

const minTokenLength = 4

// stopwords are common words excluded from keyword extraction. Tokens shorter
// than minTokenLength never reach this list.
var stopwords = map[string]bool{
	"this": true, "that": true, "with": true, "have": true, "will": true,
	"your": true, "from": true, "they": true, "know": true, "want": true,
	"been": true, "good": true, "much": true, "some": true, "time": true,
	"very": true, "when": true, "come": true, "here": true, "just": true,
	"like": true, "long": true, "make": true, "many": true, "more": true,
	"only": true, "over": true, "such": true, "take": true, "than": true,
	"them": true, "well": true, "were": true, "what": true, "about": true,
	"after": true, "again": true, "also": true, "because": true,
	"before": true, "could": true, "should": true, "would": true,
	"there": true, "their": true,
}

// Extractor derives a small, deduplicated keyword list from free text.
type Extractor struct {
	cap int
}

// NewExtractor creates an extractor capped at n keywords (KeywordCap if n<=0).
func NewExtractor(n int) *Extractor {
	if n <= 0 {
		n = KeywordCap
	}
	return &Extractor{cap: n}
}

// Extract lowercases text, tokenizes on word boundaries, discards short
// tokens and stopwords, and returns at most the configured number of
// keywords. Duplicates are dropped and first-occurrence order is preserved,
// so the result is deterministic for a given input.
func (e *Extractor) Extract(text string) []string {
	seen := make(map[string]bool)
	var keywords []string

	for _, tok := range tokenize(text) {
		if len(tok) < minTokenLength || stopwords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		keywords = append(keywords, tok)
		if len(keywords) == e.cap {
			break
		}
	}
	return keywords
}

// tokenize splits text into lowercase alphanumeric words, in order.
func tokenize(text string) []string {
	var words []string
	current := make([]byte, 0, 16)

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			current = append(current, byte(r))
		case r >= 'A' && r <= 'Z':
			current = append(current, byte(r)+32)
		default:
			flush()
		}
	}
	flush()
	return words
}
