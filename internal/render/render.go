// Package render provides terminal output formatting for the ari CLI.
package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/joss/ari/internal/memory"
)

// Renderer handles output formatting.
type Renderer struct {
	pretty bool
}

// New creates a new renderer. Pretty mode adds color and rules; plain mode
// keeps the output machine-friendly.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// Stats formats the aggregate memory counters.
func (r *Renderer) Stats(st memory.Stats) string {
	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Memory Stats\n"))
		sb.WriteString(strings.Repeat("─", 40) + "\n")
	}
	fmt.Fprintf(&sb, "Sessions:       %d (%d active in 24h)\n", st.TotalSessions, st.ActiveSessions)
	fmt.Fprintf(&sb, "Conversations:  %d\n", st.TotalConversations)
	fmt.Fprintf(&sb, "Window:         %d/%d turns\n", st.CurrentSessionLength, st.MaxContextLength)
	return sb.String()
}

// Sessions formats a session listing.
func (r *Renderer) Sessions(sessions []*memory.Session) string {
	if len(sessions) == 0 {
		return "No sessions found"
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Sessions\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}
	for _, s := range sessions {
		timeStr := s.LastInteraction.Format("2006-01-02 15:04")
		if r.pretty {
			fmt.Fprintf(&sb, "%s %s %s (%d turns)\n",
				color.HiBlackString(timeStr), shortID(s.SessionID), s.UserID, s.ConversationCount)
		} else {
			fmt.Fprintf(&sb, "[%s] %s %s %d\n", timeStr, s.SessionID, s.UserID, s.ConversationCount)
		}
		if r.pretty && len(s.ContextKeywords) > 0 {
			fmt.Fprintf(&sb, "  keywords: %s\n", strings.Join(s.ContextKeywords, ", "))
		}
	}
	return sb.String()
}

// Similar formats a similarity search result.
func (r *Renderer) Similar(results []memory.SimilarSession) string {
	if len(results) == 0 {
		return "No similar conversations found"
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Similar Conversations\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}
	for _, m := range results {
		if r.pretty {
			fmt.Fprintf(&sb, "%s %s (%d turns)\n",
				color.GreenString("[%3.0f%%]", m.Score*100), shortID(m.SessionID), m.ConversationCount)
		} else {
			fmt.Fprintf(&sb, "[%.2f] %s %d\n", m.Score, m.SessionID, m.ConversationCount)
		}
		if len(m.Topics) > 0 {
			fmt.Fprintf(&sb, "  topics: %s\n", strings.Join(dedupe(m.Topics), ", "))
		}
	}
	return sb.String()
}

// Context formats a conversation context bundle: session, ranked topics,
// keywords, then the recent turns.
func (r *Renderer) Context(b memory.ContextBundle) string {
	if b.SessionID == "" && len(b.Turns) == 0 {
		return "No conversation context"
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Conversation Context\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}
	if b.SessionID != "" {
		id := b.SessionID
		if r.pretty {
			id = shortID(id)
		}
		fmt.Fprintf(&sb, "Session:  %s\n", id)
	}
	if len(b.Topics) > 0 {
		fmt.Fprintf(&sb, "Topics:   %s\n", strings.Join(b.Topics, ", "))
	}
	if len(b.Keywords) > 0 {
		fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(b.Keywords, ", "))
	}
	if len(b.Turns) > 0 {
		sb.WriteString(r.Turns(b.Turns))
	}
	return sb.String()
}

// Turns formats a transcript.
func (r *Renderer) Turns(turns []memory.ConversationTurn) string {
	if len(turns) == 0 {
		return "No turns recorded"
	}

	var sb strings.Builder
	for _, t := range turns {
		timeStr := t.Timestamp.Format("15:04:05")
		status := "✓"
		if !t.Success {
			status = "✗"
		}
		if r.pretty {
			if t.Success {
				status = color.GreenString(status)
			} else {
				status = color.RedString(status)
			}
			fmt.Fprintf(&sb, "%s %s #%d\n", status, color.HiBlackString(timeStr), t.Position)
			fmt.Fprintf(&sb, "  > %s\n", t.UserInput)
			fmt.Fprintf(&sb, "  < %s\n", t.AriResponse)
		} else {
			fmt.Fprintf(&sb, "[%s] %s #%d > %s | < %s\n", timeStr, status, t.Position, t.UserInput, t.AriResponse)
		}
	}
	return sb.String()
}

// Features formats the response-generation feature bundle.
func (r *Renderer) Features(f memory.FeatureBundle) string {
	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Context Features\n"))
		sb.WriteString(strings.Repeat("─", 40) + "\n")
	}
	fmt.Fprintf(&sb, "Length:       %d turns\n", f.ConversationLength)
	fmt.Fprintf(&sb, "Duration:     %.1f min\n", f.SessionMinutes)
	fmt.Fprintf(&sb, "Success rate: %.2f\n", f.SuccessRate)
	if len(f.TopTopics) > 0 {
		fmt.Fprintf(&sb, "Topics:       %s\n", strings.Join(f.TopTopics, ", "))
	}
	if len(f.Keywords) > 0 {
		fmt.Fprintf(&sb, "Keywords:     %s\n", strings.Join(f.Keywords, ", "))
	}
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func dedupe(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	var out []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}
