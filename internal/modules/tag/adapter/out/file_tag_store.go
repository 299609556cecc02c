package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"flowdash/internal/modules/tag/domain"
	tagout "flowdash/internal/modules/tag/port/out"
)

type FileTagStore struct {
	path string
}

func NewFileTagStore(path string) tagout.TagStore {
	return &FileTagStore{path: path}
}

func (s *FileTagStore) LoadAll(_ context.Context) ([]domain.Tag, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read tags file: %w", err)
	}
	var tags []domain.Tag
	if err := json.Unmarshal(payload, &tags); err != nil {
		return nil, fmt.Errorf("decode tags file: %w", err)
	}
	return tags, nil
}

func (s *FileTagStore) ReplaceAll(_ context.Context, tags []domain.Tag) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create tags dir: %w", err)
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	payload, err := json.MarshalIndent(tags, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write tags file: %w", err)
	}
	return nil
}
