package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"flowdash/internal/modules/session/domain"
	sessionout "flowdash/internal/modules/session/port/out"
)

// FileSessionStore mirrors the full collection as one pretty-printed JSON
// array. It doubles as the fallback source when the sqlite backend is
// unreadable and as a hand-inspectable export of the raw data.
type FileSessionStore struct {
	path string
}

func NewFileSessionStore(path string) sessionout.SessionStore {
	return &FileSessionStore{path: path}
}

func (s *FileSessionStore) Name() string { return "json" }

func (s *FileSessionStore) LoadAll(_ context.Context) ([]domain.Session, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sessions file: %w", err)
	}
	var sessions []domain.Session
	if err := json.Unmarshal(payload, &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions file: %w", err)
	}
	return sessions, nil
}

func (s *FileSessionStore) ReplaceAll(_ context.Context, sessions []domain.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create sessions dir: %w", err)
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	payload, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write sessions file: %w", err)
	}
	return nil
}
