// Package store persists conversation memory: a JSON sessions index plus
// per-session transcript files, and an optional sqlite archive for
// superseded sessions.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joss/ari/internal/logging"
	"github.com/joss/ari/internal/memory"
)

// historyFile is the aggregate sessions index, one per memory directory.
const historyFile = "conversation_history.json"

// JSONStore reads and writes the on-disk session files. All writes go
// through a temp file and rename, so a crash mid-flush never leaves a
// half-written file behind.
type JSONStore struct {
	dir string
	log *logging.Logger
}

// NewJSONStore opens a store rooted at dir, creating it if needed.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &IOError{Op: "create dir", Path: dir, Err: err}
	}
	return &JSONStore{dir: dir, log: logging.New("store")}, nil
}

// Dir returns the memory directory.
func (s *JSONStore) Dir() string {
	return s.dir
}

// HistoryPath returns the sessions index path.
func (s *JSONStore) HistoryPath() string {
	return filepath.Join(s.dir, historyFile)
}

// TranscriptPath returns the transcript path for a session.
func (s *JSONStore) TranscriptPath(sessionID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("session_%s.json", sessionID))
}

// Save writes the full sessions index (every known session, superseded ones
// included) and, when a session is active, its transcript.
//
// Transcripts are compaction-merged rather than blindly overwritten:
// previously persisted turns whose position precedes the window's first
// position are kept, then the current window is appended. Any turn present
// in the window at flush time is therefore never lost to eviction.
func (s *JSONStore) Save(sessions map[string]*memory.Session, activeID string, window *memory.Window) error {
	if err := s.writeAtomic(s.HistoryPath(), sessions); err != nil {
		return err
	}
	if activeID == "" {
		return nil
	}
	return s.saveTranscript(activeID, window.Turns())
}

func (s *JSONStore) saveTranscript(sessionID string, turns []memory.ConversationTurn) error {
	merged := turns
	if len(turns) > 0 && turns[0].Position > 0 {
		persisted, err := s.LoadTranscript(sessionID)
		if err != nil {
			// A broken transcript must not block the flush; start over
			// from the window.
			s.log.Warn("transcript_merge_skipped", map[string]interface{}{"session": sessionID}, err)
			persisted = nil
		}
		merged = merged[:0:0]
		for _, t := range persisted {
			if t.Position < turns[0].Position {
				merged = append(merged, t)
			}
		}
		merged = append(merged, turns...)
	}
	if merged == nil {
		merged = []memory.ConversationTurn{}
	}
	return s.writeAtomic(s.TranscriptPath(sessionID), merged)
}

// Load reads the sessions index. A missing file is an empty map with no
// error; malformed JSON is an empty map plus a corruption error the caller
// can log or surface.
func (s *JSONStore) Load() (map[string]*memory.Session, error) {
	path := s.HistoryPath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]*memory.Session{}, nil
	}
	if err != nil {
		return map[string]*memory.Session{}, &IOError{Op: "read", Path: path, Err: err}
	}

	sessions := make(map[string]*memory.Session)
	if err := json.Unmarshal(data, &sessions); err != nil {
		return map[string]*memory.Session{}, &CorruptError{Path: path, Err: err}
	}

	// Re-impose keyword set semantics on what came off disk.
	for _, sess := range sessions {
		sess.ContextKeywords = dedupeCapped(sess.ContextKeywords, memory.KeywordCap)
	}
	return sessions, nil
}

// LoadTranscript reads a session's transcript. Missing file means no turns.
func (s *JSONStore) LoadTranscript(sessionID string) ([]memory.ConversationTurn, error) {
	path := s.TranscriptPath(sessionID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	var turns []memory.ConversationTurn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	return turns, nil
}

// writeAtomic marshals v and renames a temp file over path.
func (s *JSONStore) writeAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &IOError{Op: "marshal", Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return &IOError{Op: "create temp", Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

func dedupeCapped(keywords []string, max int) []string {
	seen := make(map[string]bool, len(keywords))
	var out []string
	for _, k := range keywords {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
		if len(out) == max {
			break
		}
	}
	return out
}
