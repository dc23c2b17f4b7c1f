package memory

import "testing"

func TestDetect(t *testing.T) {
	d := NewTopicDetector()

	tests := []struct {
		name     string
		input    string
		response string
		want     []string
	}{
		{
			name:  "weather question matches both taxonomies",
			input: "What's the weather today?",
			want:  []string{"question", "weather", "time"},
		},
		{
			name:  "greeting",
			input: "Hello there!",
			want:  []string{"greeting"},
		},
		{
			name:     "response text also matches",
			input:    "Tell us the plan",
			response: "I can explain how the software works",
			want:     []string{"question", "learning", "technical"},
		},
		{
			name:  "no match",
			input: "zzz qqq",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.input, tt.response)
			if len(got) != len(tt.want) {
				t.Fatalf("Detect(%q, %q) = %v, want %v", tt.input, tt.response, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Detect(%q, %q) = %v, want %v", tt.input, tt.response, got, tt.want)
				}
			}
		})
	}
}

func TestRankTopics(t *testing.T) {
	d := NewTopicDetector()

	tests := []struct {
		name      string
		emissions []string
		want      []string
	}{
		{
			name:      "frequency descending",
			emissions: []string{"weather", "question", "weather", "time", "weather", "question"},
			want:      []string{"weather", "question", "time"},
		},
		{
			name:      "ties keep first-seen order",
			emissions: []string{"greeting", "question", "greeting", "question"},
			want:      []string{"greeting", "question"},
		},
		{
			name: "only the last ten emissions count",
			emissions: []string{
				"weather", "weather", "weather", "weather", "weather",
				"time", "time", "time", "time", "time",
				"question", "question", "question", "question", "question",
			},
			want: []string{"time", "question"},
		},
		{
			name:      "empty",
			emissions: nil,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.RankTopics(tt.emissions)
			if len(got) != len(tt.want) {
				t.Fatalf("RankTopics(%v) = %v, want %v", tt.emissions, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("RankTopics(%v) = %v, want %v", tt.emissions, got, tt.want)
				}
			}
		})
	}
}
