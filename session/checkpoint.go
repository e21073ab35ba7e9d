package session

import (
	"fmt"
	"sync"
	"time"
)

// Checkpoint is a durable snapshot of a suspended session. The runner saves
// one at every human-input suspension so that a resume call needs nothing
// beyond the session id and the reply text — even across process restarts.
type Checkpoint struct {
	SessionID string    `json:"session_id"`
	Stage     string    `json:"stage"`
	State     State     `json:"state"`
	SavedAt   time.Time `json:"saved_at"`
}

// CheckpointStore persists suspended-session snapshots keyed by session id.
//
// Implementations must be safe for concurrent use: multiple sessions may
// suspend and resume at the same time against one store.
type CheckpointStore interface {
	// Save persists the checkpoint, overwriting any existing one for the
	// same session id.
	Save(cp Checkpoint) error

	// Load retrieves the checkpoint for a session id.
	// Returns an error if no checkpoint exists.
	Load(sessionID string) (Checkpoint, error)

	// Delete removes the checkpoint for a session id.
	// Missing checkpoints are not an error.
	Delete(sessionID string) error

	// List returns the session ids with stored checkpoints.
	List() ([]string, error)
}

// memoryCheckpointStore keeps checkpoints in process memory. Suitable for
// tests and single-process sessions; snapshots are lost on restart.
type memoryCheckpointStore struct {
	mu  sync.RWMutex
	cps map[string]Checkpoint
}

// NewMemoryCheckpointStore creates an in-memory CheckpointStore. It is
// registered by default under the name "memory".
func NewMemoryCheckpointStore() CheckpointStore {
	return &memoryCheckpointStore{cps: make(map[string]Checkpoint)}
}

func (m *memoryCheckpointStore) Save(cp Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cps[cp.SessionID] = cp
	return nil
}

func (m *memoryCheckpointStore) Load(sessionID string) (Checkpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cp, exists := m.cps[sessionID]
	if !exists {
		return Checkpoint{}, fmt.Errorf("checkpoint not found: %s", sessionID)
	}
	return cp, nil
}

func (m *memoryCheckpointStore) Delete(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.cps, sessionID)
	return nil
}

func (m *memoryCheckpointStore) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.cps))
	for id := range m.cps {
		ids = append(ids, id)
	}
	return ids, nil
}

var (
	checkpointStores = map[string]CheckpointStore{
		"memory": NewMemoryCheckpointStore(),
	}
	storeMutex sync.RWMutex
)

// GetCheckpointStore retrieves a CheckpointStore by name from the registry.
// The "memory" store is registered by default; custom stores are added via
// RegisterCheckpointStore before the runner is constructed.
func GetCheckpointStore(name string) (CheckpointStore, error) {
	storeMutex.RLock()
	defer storeMutex.RUnlock()

	store, exists := checkpointStores[name]
	if !exists {
		return nil, fmt.Errorf("unknown checkpoint store: %s", name)
	}
	return store, nil
}

// RegisterCheckpointStore adds a named CheckpointStore to the registry.
func RegisterCheckpointStore(name string, store CheckpointStore) {
	storeMutex.Lock()
	defer storeMutex.Unlock()

	checkpointStores[name] = store
}
