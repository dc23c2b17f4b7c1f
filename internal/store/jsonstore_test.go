package store

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/ari/internal/memory"
)

func testSession(id, user string, count int, keywords ...string) *memory.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &memory.Session{
		SessionID:         id,
		UserID:            user,
		StartTime:         now.Add(-time.Hour),
		LastInteraction:   now,
		ConversationCount: count,
		Topics:            []string{"greeting", "question"},
		ContextKeywords:   keywords,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st, err := NewJSONStore(t.TempDir())
	require.NoError(t, err)

	sessions := map[string]*memory.Session{
		"s1": testSession("s1", "alice", 3, "python", "weather"),
		"s2": testSession("s2", "bob", 7, "music"),
	}

	require.NoError(t, st.Save(sessions, "", memory.NewWindow(10)))

	loaded, err := st.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, sessions["s1"].UserID, loaded["s1"].UserID)
	assert.Equal(t, sessions["s1"].ConversationCount, loaded["s1"].ConversationCount)
	assert.ElementsMatch(t, sessions["s1"].ContextKeywords, loaded["s1"].ContextKeywords)
	assert.Equal(t, sessions["s2"].Topics, loaded["s2"].Topics)
	assert.True(t, sessions["s2"].LastInteraction.Equal(loaded["s2"].LastInteraction))
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	st, err := NewJSONStore(t.TempDir())
	require.NoError(t, err)

	sessions, err := st.Load()
	require.NoError(t, err, "missing index is empty state, not an error")
	assert.Empty(t, sessions)
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	st, err := NewJSONStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(st.HistoryPath(), []byte("{not json"), 0644))

	sessions, err := st.Load()
	assert.True(t, IsCorrupt(err))
	assert.Empty(t, sessions, "corrupt index degrades to empty state")
}

func TestLoadReimposesKeywordCap(t *testing.T) {
	st, err := NewJSONStore(t.TempDir())
	require.NoError(t, err)

	many := make([]string, 0, 15)
	for _, k := range []string{
		"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf",
		"hotel", "india", "juliet", "kilo", "lima", "mike", "alpha", "bravo",
	} {
		many = append(many, k)
	}
	sessions := map[string]*memory.Session{
		"s1": testSession("s1", "alice", 1, many...),
	}
	require.NoError(t, st.Save(sessions, "", memory.NewWindow(10)))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, loaded["s1"].ContextKeywords, memory.KeywordCap)
}

func TestTranscriptCompactionMerge(t *testing.T) {
	st, err := NewJSONStore(t.TempDir())
	require.NoError(t, err)

	sessions := map[string]*memory.Session{"s1": testSession("s1", "alice", 0)}

	// First flush: positions 0..2 fill the window.
	w := memory.NewWindow(3)
	for i := 0; i < 3; i++ {
		w.Append(memory.ConversationTurn{Timestamp: time.Now(), UserInput: "a", Position: i})
	}
	require.NoError(t, st.Save(sessions, "s1", w))

	// Window slid: positions 2..4. The flushed 0 and 1 must survive.
	w.Append(memory.ConversationTurn{Timestamp: time.Now(), UserInput: "b", Position: 3})
	w.Append(memory.ConversationTurn{Timestamp: time.Now(), UserInput: "b", Position: 4})
	require.NoError(t, st.Save(sessions, "s1", w))

	turns, err := st.LoadTranscript("s1")
	require.NoError(t, err)
	require.Len(t, turns, 5)
	for i, turn := range turns {
		assert.Equal(t, i, turn.Position, "transcript positions stay contiguous")
	}
}

func TestTranscriptEmptyWindow(t *testing.T) {
	st, err := NewJSONStore(t.TempDir())
	require.NoError(t, err)

	sessions := map[string]*memory.Session{"s1": testSession("s1", "alice", 0)}
	require.NoError(t, st.Save(sessions, "s1", memory.NewWindow(10)))

	raw, err := os.ReadFile(st.TranscriptPath("s1"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw), "empty transcript is an empty array")
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	st, err := NewJSONStore(dir)
	require.NoError(t, err)

	sessions := map[string]*memory.Session{"s1": testSession("s1", "alice", 1)}
	for i := 0; i < 5; i++ {
		require.NoError(t, st.Save(sessions, "s1", memory.NewWindow(10)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-", "leftover temp file")
	}
}
