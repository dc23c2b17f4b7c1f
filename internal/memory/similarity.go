package memory

import "sort"

// SimilarSession is one ranked result of a similarity search.
type SimilarSession struct {
	SessionID         string   `json:"session_id"`
	Score             float64  `json:"score"`
	Topics            []string `json:"topics"`
	ConversationCount int      `json:"conversation_count"`
}

// FindSimilarConversations scores the input's keywords against the persisted
// keyword sets of historical sessions and returns up to max results, best
// first. The search reads the store directly, bypassing the live window; the
// active session is never part of the results. Sessions with no keyword
// overlap are skipped, so a fresh memory directory yields an empty list.
// Scores are Jaccard indices in [0, 1].
func (m *Manager) FindSimilarConversations(input string, max int) []SimilarSession {
	if max <= 0 {
		max = 5
	}

	sessions, err := m.store.Load()
	if err != nil {
		m.log.Warn("similarity_load_failed", nil, err)
		return nil
	}

	current := m.extractor.Extract(input)
	if len(current) == 0 {
		return nil
	}

	type scored struct {
		SimilarSession
		last int64
	}
	var matches []scored
	for id, s := range sessions {
		if id == m.activeID {
			continue
		}
		score := jaccard(current, s.ContextKeywords)
		if score == 0 {
			continue
		}
		matches = append(matches, scored{
			SimilarSession: SimilarSession{
				SessionID:         id,
				Score:             score,
				Topics:            s.Topics,
				ConversationCount: s.ConversationCount,
			},
			last: s.LastInteraction.UnixNano(),
		})
	}

	// Score descending; ties broken by recency then id so the ranking is
	// stable across the map's iteration order.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].last != matches[j].last {
			return matches[i].last > matches[j].last
		}
		return matches[i].SessionID < matches[j].SessionID
	})

	if len(matches) > max {
		matches = matches[:max]
	}
	out := make([]SimilarSession, len(matches))
	for i, match := range matches {
		out[i] = match.SimilarSession
	}
	return out
}

// jaccard computes |a∩b| / |a∪b| over two keyword lists treated as sets.
// Zero when the intersection is empty.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, k := range a {
		setA[k] = true
	}

	intersection := 0
	union := len(setA)
	seenB := make(map[string]bool, len(b))
	for _, k := range b {
		if seenB[k] {
			continue
		}
		seenB[k] = true
		if setA[k] {
			intersection++
		} else {
			union++
		}
	}

	if intersection == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
