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

// FileMetaStore keeps the lightweight fast-changing state (current session,
// reminder interval) in its own small JSON file so every tick-rate mutation
// avoids rewriting the full session collection.
type FileMetaStore struct {
	path string
}

func NewFileMetaStore(path string) sessionout.MetaStore {
	return &FileMetaStore{path: path}
}

func (s *FileMetaStore) Load(_ context.Context) (domain.Meta, bool, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Meta{}, false, nil
		}
		return domain.Meta{}, false, fmt.Errorf("read meta file: %w", err)
	}
	meta := domain.Meta{}
	if err := json.Unmarshal(payload, &meta); err != nil {
		return domain.Meta{}, false, fmt.Errorf("decode meta file: %w", err)
	}
	return meta, true, nil
}

func (s *FileMetaStore) Save(_ context.Context, meta domain.Meta) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create meta dir: %w", err)
	}
	payload, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write meta file: %w", err)
	}
	return nil
}
