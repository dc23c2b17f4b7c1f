package memory

import (
	"sort"
	"time"
)

// activeWithin is the recency horizon for counting a session as active.
const activeWithin = 24 * time.Hour

// Stats are the aggregate counters reported by MemoryStats.
type Stats struct {
	TotalSessions        int `json:"total_sessions"`
	ActiveSessions       int `json:"active_sessions"`
	TotalConversations   int `json:"total_conversations"`
	CurrentSessionLength int `json:"current_session_length"`
	MaxContextLength     int `json:"max_context_length"`
}

func computeStats(sessions map[string]*Session, window *Window, now time.Time) Stats {
	st := Stats{
		TotalSessions:        len(sessions),
		CurrentSessionLength: window.Len(),
		MaxContextLength:     window.Capacity(),
	}
	for _, s := range sessions {
		st.TotalConversations += s.ConversationCount
		last := s.LastInteraction
		if last.IsZero() {
			last = s.StartTime
		}
		if now.Sub(last) <= activeWithin {
			st.ActiveSessions++
		}
	}
	return st
}

// sortedSessions orders sessions by last interaction, newest first, with the
// id as a deterministic tie-break.
func sortedSessions(sessions map[string]*Session) []*Session {
	out := make([]*Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastInteraction.Equal(out[j].LastInteraction) {
			return out[i].LastInteraction.After(out[j].LastInteraction)
		}
		return out[i].SessionID < out[j].SessionID
	})
	return out
}
