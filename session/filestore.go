package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileCheckpointStore persists checkpoints as JSON files under a root
// directory, one file per session id. Writes go through a temp file and
// rename so a crash never leaves a partially written checkpoint.
type fileCheckpointStore struct {
	root string
}

// NewFileCheckpointStore creates a CheckpointStore backed by the filesystem.
// Session ids map 1:1 to "<id>.json" files under root.
func NewFileCheckpointStore(root string) CheckpointStore {
	return &fileCheckpointStore{root: root}
}

func (s *fileCheckpointStore) path(sessionID string) string {
	return filepath.Join(s.root, sessionID+".json")
}

func (s *fileCheckpointStore) Save(cp Checkpoint) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("checkpoint save failed: %s: %w", cp.SessionID, err)
	}

	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("checkpoint save failed: %s: %w", cp.SessionID, err)
	}

	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("checkpoint save failed: %s: %w", cp.SessionID, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("checkpoint save failed: %s: %w", cp.SessionID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("checkpoint save failed: %s: %w", cp.SessionID, err)
	}

	if err := os.Rename(tmpName, s.path(cp.SessionID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("checkpoint save failed: %s: %w", cp.SessionID, err)
	}

	return nil
}

func (s *fileCheckpointStore) Load(sessionID string) (Checkpoint, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return Checkpoint{}, fmt.Errorf("checkpoint not found: %s", sessionID)
		}
		return Checkpoint{}, fmt.Errorf("checkpoint load failed: %s: %w", sessionID, err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, fmt.Errorf("checkpoint load failed: %s: %w", sessionID, err)
	}
	return cp, nil
}

func (s *fileCheckpointStore) Delete(sessionID string) error {
	if err := os.Remove(s.path(sessionID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("checkpoint delete failed: %s: %w", sessionID, err)
	}
	return nil
}

func (s *fileCheckpointStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("checkpoint list failed: %w", err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
