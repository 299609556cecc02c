package config

import (
	"fmt"
	"path/filepath"
)

// Config derives every file location from a single data directory.
type Config struct {
	DataDir      string
	DBPath       string
	SessionsPath string
	TagsPath     string
	MetaPath     string
	NotifyPath   string
	LogPath      string
}

func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:      dataDir,
		DBPath:       filepath.Join(dataDir, "flowdash.db"),
		SessionsPath: filepath.Join(dataDir, "sessions.json"),
		TagsPath:     filepath.Join(dataDir, "tags.json"),
		MetaPath:     filepath.Join(dataDir, "meta.json"),
		NotifyPath:   filepath.Join(dataDir, "notify.yaml"),
		LogPath:      filepath.Join(dataDir, "flowdash.log"),
	}, nil
}
