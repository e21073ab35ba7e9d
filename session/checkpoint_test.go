package session_test

import (
	"testing"

	"github.com/tailored-agentic-units/brainstorm/session"
)

func sampleCheckpoint(id string) session.Checkpoint {
	s := session.New("topic", session.KindProject)
	s.ID = id
	s.Ideas = []session.Idea{{Kind: session.KindProject, Title: "idea", Rationale: "r"}}
	return session.Checkpoint{
		SessionID: id,
		Stage:     "human_filter_ideas",
		State:     s,
	}
}

func runStoreTests(t *testing.T, store session.CheckpointStore) {
	t.Helper()

	cp := sampleCheckpoint("s1")
	if err := store.Save(cp); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := store.Load("s1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Stage != "human_filter_ideas" || loaded.State.Topic != "topic" {
		t.Errorf("Load() = %+v", loaded)
	}
	if len(loaded.State.Ideas) != 1 || loaded.State.Ideas[0].Title != "idea" {
		t.Errorf("state ideas did not round-trip: %+v", loaded.State.Ideas)
	}

	// Save overwrites.
	cp.Stage = "human_select_idea"
	if err := store.Save(cp); err != nil {
		t.Fatalf("Save() overwrite error: %v", err)
	}
	loaded, err = store.Load("s1")
	if err != nil {
		t.Fatalf("Load() after overwrite error: %v", err)
	}
	if loaded.Stage != "human_select_idea" {
		t.Errorf("overwrite not applied, stage = %s", loaded.Stage)
	}

	if err := store.Save(sampleCheckpoint("s2")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	ids, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("List() = %v, want 2 ids", ids)
	}

	if err := store.Delete("s1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Load("s1"); err == nil {
		t.Error("Load() succeeded after Delete()")
	}

	// Deleting a missing checkpoint is not an error.
	if err := store.Delete("never-existed"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}

	if _, err := store.Load("never-existed"); err == nil {
		t.Error("Load(missing) succeeded")
	}
}

func TestMemoryCheckpointStore(t *testing.T) {
	runStoreTests(t, session.NewMemoryCheckpointStore())
}

func TestFileCheckpointStore(t *testing.T) {
	runStoreTests(t, session.NewFileCheckpointStore(t.TempDir()))
}

func TestFileCheckpointStoreEmptyDir(t *testing.T) {
	store := session.NewFileCheckpointStore(t.TempDir() + "/nested/missing")
	ids, err := store.List()
	if err != nil {
		t.Fatalf("List() on missing dir error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("List() = %v, want empty", ids)
	}
}

func TestCheckpointStoreRegistry(t *testing.T) {
	if _, err := session.GetCheckpointStore("memory"); err != nil {
		t.Errorf("memory store not registered: %v", err)
	}
	if _, err := session.GetCheckpointStore("bogus"); err == nil {
		t.Error("unknown store name resolved")
	}

	session.RegisterCheckpointStore("custom-test", session.NewMemoryCheckpointStore())
	if _, err := session.GetCheckpointStore("custom-test"); err != nil {
		t.Errorf("registered store not resolvable: %v", err)
	}
}
