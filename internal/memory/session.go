// Package memory implements ARI's conversation context memory: a bounded
// window over the active conversation, per-session metadata (keywords,
// topics, counters), persistence of transcripts and session history, and
// keyword-overlap retrieval of similar past sessions.
package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joss/ari/internal/config"
	"github.com/joss/ari/internal/logging"
)

// DefaultUserID is recorded when a session starts without a caller-supplied
// user.
const DefaultUserID = "default_user"

// Session is one logical conversation with its accumulated metadata.
// ContextKeywords carries set semantics (deduplicated, first-occurrence
// order, capped at KeywordCap) but serializes as a plain array.
type Session struct {
	SessionID         string    `json:"session_id"`
	UserID            string    `json:"user_id"`
	StartTime         time.Time `json:"start_time"`
	LastInteraction   time.Time `json:"last_interaction"`
	ConversationCount int       `json:"conversation_count"`
	Topics            []string  `json:"topics"`
	MoodIndicators    []string  `json:"mood_indicators"`
	ContextKeywords   []string  `json:"context_keywords"`
}

// mergeKeywords folds new keywords into the session's set, preserving
// first-occurrence order and the cap.
func (s *Session) mergeKeywords(keywords []string, max int) {
	seen := make(map[string]bool, len(s.ContextKeywords))
	for _, k := range s.ContextKeywords {
		seen[k] = true
	}
	for _, k := range keywords {
		if len(s.ContextKeywords) >= max {
			break
		}
		if !seen[k] {
			seen[k] = true
			s.ContextKeywords = append(s.ContextKeywords, k)
		}
	}
}

// Store persists session history and the active transcript.
type Store interface {
	// Save writes the full sessions index and, when a session is active,
	// its transcript.
	Save(sessions map[string]*Session, activeID string, window *Window) error
	// Load reads the sessions index. A missing index is an empty map, not
	// an error.
	Load() (map[string]*Session, error)
}

// Archiver copies a superseded session and its transcript into long-term
// storage.
type Archiver interface {
	ArchiveSession(ctx context.Context, s *Session, turns []ConversationTurn) error
}

// ContextBundle is the recent-conversation view handed to callers.
type ContextBundle struct {
	SessionID string             `json:"session_id"`
	Turns     []ConversationTurn `json:"recent_turns"`
	Keywords  []string           `json:"context_keywords"`
	Topics    []string           `json:"current_topics"`
}

// FeatureBundle is the flattened view consumed by response generators.
type FeatureBundle struct {
	ConversationLength int      `json:"conversation_length"`
	RecentInputs       []string `json:"recent_inputs"`
	RecentResponses    []string `json:"recent_responses"`
	TopTopics          []string `json:"top_topics"`
	Keywords           []string `json:"keywords"`
	SessionMinutes     float64  `json:"session_minutes"`
	SuccessRate        float64  `json:"success_rate"`
}

// Manager owns the session lifecycle and orchestrates the window, keyword
// extraction, topic detection, persistence and similarity retrieval.
//
// A Manager is not safe for concurrent use: every call runs synchronously to
// completion and there is no internal locking. Multi-threaded hosts must
// serialize access, for example behind a mutex or a single-writer goroutine.
type Manager struct {
	cfg       config.Config
	store     Store
	archive   Archiver
	log       *logging.Logger
	extractor *Extractor
	topics    *TopicDetector

	sessions map[string]*Session
	activeID string
	window   *Window
	nextPos  int

	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithArchiver makes the manager copy superseded sessions into an archive
// when a new session starts.
func WithArchiver(a Archiver) Option {
	return func(m *Manager) { m.archive = a }
}

// NewManager creates a manager over the given store. The config controls the
// window capacity, keyword cap and flush cadence.
func NewManager(cfg config.Config, st Store, opts ...Option) *Manager {
	cfg = cfg.Normalized()
	m := &Manager{
		cfg:       cfg,
		store:     st,
		log:       logging.New("memory"),
		extractor: NewExtractor(cfg.KeywordCap),
		topics:    NewTopicDetector(),
		sessions:  make(map[string]*Session),
		window:    NewWindow(cfg.MaxContextLength),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartNewSession creates and activates a fresh session and returns its id.
// The previous session is superseded, not deleted: its last flushed state
// stays in the sessions index and its own transcript file. The window and
// turn positions reset.
func (m *Manager) StartNewSession(userID string) string {
	if userID == "" {
		userID = DefaultUserID
	}

	if prev := m.activeSession(); prev != nil && m.archive != nil {
		if err := m.archive.ArchiveSession(context.Background(), prev, m.window.Turns()); err != nil {
			m.log.Warn("archive_failed", map[string]interface{}{"session": prev.SessionID}, err)
		}
	}

	now := m.now()
	s := &Session{
		SessionID:       uuid.NewString(),
		UserID:          userID,
		StartTime:       now,
		LastInteraction: now,
	}
	m.sessions[s.SessionID] = s
	m.activeID = s.SessionID
	m.window.Reset()
	m.nextPos = 0

	m.log.Info("session_started", map[string]interface{}{
		"session": s.SessionID,
		"user":    userID,
	})
	return s.SessionID
}

// TurnOption customizes a recorded turn.
type TurnOption func(*ConversationTurn, *Session)

// WithResponseType labels the response (default "unknown").
func WithResponseType(t string) TurnOption {
	return func(turn *ConversationTurn, _ *Session) { turn.ResponseType = t }
}

// WithSuccess marks whether the exchange succeeded (default true).
func WithSuccess(ok bool) TurnOption {
	return func(turn *ConversationTurn, _ *Session) { turn.Success = ok }
}

// WithMood records an opaque mood label on the session. The core collects
// these but does not process them further.
func WithMood(label string) TurnOption {
	return func(_ *ConversationTurn, s *Session) {
		s.MoodIndicators = append(s.MoodIndicators, label)
	}
}

// AddConversationTurn records one exchange. If no session is active, one is
// started for the default user. The turn enters the window (evicting the
// oldest when full), session metadata is updated, and every FlushEvery-th
// turn the state is flushed to disk. Storage failures during that auto-flush
// are logged and swallowed; they never reach the caller.
func (m *Manager) AddConversationTurn(userInput, response string, opts ...TurnOption) ConversationTurn {
	if m.activeSession() == nil {
		m.StartNewSession(DefaultUserID)
	}
	s := m.sessions[m.activeID]

	turn := ConversationTurn{
		Timestamp:    m.now(),
		UserInput:    userInput,
		AriResponse:  response,
		ResponseType: "unknown",
		Success:      true,
		Position:     m.nextPos,
	}
	for _, opt := range opts {
		opt(&turn, s)
	}
	m.nextPos++
	m.window.Append(turn)

	s.ConversationCount++
	s.LastInteraction = turn.Timestamp
	s.mergeKeywords(m.extractor.Extract(userInput), m.cfg.KeywordCap)
	s.Topics = append(s.Topics, m.topics.Detect(userInput, response)...)

	if s.ConversationCount%m.cfg.FlushEvery == 0 {
		if err := m.store.Save(m.sessions, m.activeID, m.window); err != nil {
			m.log.Warn("autoflush_failed", map[string]interface{}{"session": m.activeID}, err)
		}
	}
	return turn
}

// ConversationContext returns the last min(n, window length) turns plus the
// active session's keywords and ranked topics. n <= 0 means the default of
// 10.
func (m *Manager) ConversationContext(n int) ContextBundle {
	if n <= 0 {
		n = 10
	}
	b := ContextBundle{
		SessionID: m.activeID,
		Turns:     m.window.Recent(n),
	}
	if s := m.activeSession(); s != nil {
		b.Keywords = append(b.Keywords, s.ContextKeywords...)
		b.Topics = m.topics.RankTopics(s.Topics)
	}
	return b
}

// ContextFromSession rebuilds a context bundle from a persisted session and
// its transcript, for callers inspecting memory without a live window. n
// bounds the turns kept, most recent first-to-last; n <= 0 means 10.
func ContextFromSession(s *Session, turns []ConversationTurn, n int) ContextBundle {
	if n <= 0 {
		n = 10
	}
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	b := ContextBundle{Turns: turns}
	if s != nil {
		b.SessionID = s.SessionID
		b.Keywords = append(b.Keywords, s.ContextKeywords...)
		b.Topics = NewTopicDetector().RankTopics(s.Topics)
	}
	return b
}

// ResponseFeatures returns the flattened feature view for response
// generation: window length, last 5 inputs and responses, top 5 topics, up
// to KeywordCap keywords, session duration in minutes, and the success rate
// over the last 10 turns. With an empty window the success rate is the 0.5
// placeholder the downstream generator expects.
func (m *Manager) ResponseFeatures() FeatureBundle {
	f := FeatureBundle{
		ConversationLength: m.window.Len(),
		SuccessRate:        0.5,
	}

	for _, t := range m.window.Recent(5) {
		f.RecentInputs = append(f.RecentInputs, t.UserInput)
		f.RecentResponses = append(f.RecentResponses, t.AriResponse)
	}

	if s := m.activeSession(); s != nil {
		ranked := m.topics.RankTopics(s.Topics)
		if len(ranked) > 5 {
			ranked = ranked[:5]
		}
		f.TopTopics = ranked
		f.Keywords = append(f.Keywords, s.ContextKeywords...)
		f.SessionMinutes = m.now().Sub(s.StartTime).Minutes()
	}

	if recent := m.window.Recent(10); len(recent) > 0 {
		ok := 0
		for _, t := range recent {
			if t.Success {
				ok++
			}
		}
		f.SuccessRate = float64(ok) / float64(len(recent))
	}
	return f
}

// MemoryStats derives aggregate counters over all known sessions.
func (m *Manager) MemoryStats() Stats {
	return computeStats(m.sessions, m.window, m.now())
}

// SavePersistent flushes the sessions index and the active transcript to
// disk, independently of the auto-flush cadence. Unlike the auto-flush, the
// error is returned to the caller.
func (m *Manager) SavePersistent() error {
	return m.store.Save(m.sessions, m.activeID, m.window)
}

// LoadPersistent hydrates the sessions index from disk, merging it under any
// in-memory sessions (the live session wins on id collision). A missing
// index file leaves the state untouched and returns nil.
func (m *Manager) LoadPersistent() error {
	loaded, err := m.store.Load()
	if err != nil {
		return err
	}
	for id, s := range loaded {
		if _, live := m.sessions[id]; !live {
			m.sessions[id] = s
		}
	}
	return nil
}

// ActiveSessionID returns the current session id, or "" before the first
// turn or StartNewSession call.
func (m *Manager) ActiveSessionID() string {
	return m.activeID
}

// KnownSessions returns all known sessions, most recently interacted first.
func (m *Manager) KnownSessions() []*Session {
	return sortedSessions(m.sessions)
}

func (m *Manager) activeSession() *Session {
	if m.activeID == "" {
		return nil
	}
	return m.sessions[m.activeID]
}
