package memory

import "strings"

// topicWindow is how many recent topic emissions feed the current-topic
// ranking.
const topicWindow = 10

// topicDef pairs a topic label with the phrases that trigger it.
type topicDef struct {
	label    string
	patterns []string
}

// taxonomy is the fixed topic set, in emission order. A topic is emitted when
// any of its patterns appears as a substring of the lowercased turn text.
var taxonomy = []topicDef{
	{"greeting", []string{"hello", "hi", "hey", "good morning", "good evening"}},
	{"question", []string{"what", "how", "why", "when", "where", "who"}},
	{"learning", []string{"learn", "teach", "explain", "understand", "study"}},
	{"emotion", []string{"feel", "happy", "sad", "angry", "excited", "love", "hate"}},
	{"capability", []string{"can you", "able", "capable", "function", "feature"}},
	{"personal", []string{"name", "age", "family", "friend", "yourself"}},
	{"technical", []string{"computer", "software", "code", "program", "system", "data"}},
	{"weather", []string{"weather", "rain", "sun", "temperature", "cold", "hot"}},
	{"time", []string{"time", "today", "tomorrow", "yesterday", "clock", "date"}},
}

// TopicDetector labels turns against the fixed taxonomy.
type TopicDetector struct{}

// NewTopicDetector creates a detector over the built-in taxonomy.
func NewTopicDetector() *TopicDetector {
	return &TopicDetector{}
}

// Detect returns the topic labels matching the turn, in taxonomy order.
// Multiple topics may match one turn; none is also valid.
func (d *TopicDetector) Detect(userInput, response string) []string {
	text := strings.ToLower(userInput + " " + response)

	var labels []string
	for _, def := range taxonomy {
		for _, p := range def.patterns {
			if strings.Contains(text, p) {
				labels = append(labels, def.label)
				break
			}
		}
	}
	return labels
}

// RankTopics ranks the last topicWindow emissions by frequency, descending.
// Ties keep first-seen order within that window, so the result is
// deterministic.
func (d *TopicDetector) RankTopics(emissions []string) []string {
	if len(emissions) > topicWindow {
		emissions = emissions[len(emissions)-topicWindow:]
	}

	counts := make(map[string]int)
	var order []string
	for _, label := range emissions {
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
	}

	ranked := make([]string, len(order))
	copy(ranked, order)
	// Insertion sort keeps first-seen order stable for equal counts.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && counts[ranked[j]] > counts[ranked[j-1]]; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}
