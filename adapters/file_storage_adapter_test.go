package adapters

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorageAdapter_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spool.json")

	adapter := NewFileStorageAdapter(path)
	batches := []Batch{*testBatch(), {ClientContext: "{}"}}

	if err := adapter.Save(batches); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := adapter.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded) != 2 || loaded[0].Events[0].EventType != "IntentRequest" || loaded[1].ClientContext != "{}" {
		t.Fatal("loaded batches do not match saved batches")
	}
}

func TestFileStorageAdapter_LoadNonExistent(t *testing.T) {
	adapter := NewFileStorageAdapter(filepath.Join(t.TempDir(), "nonexistent.json"))
	loaded, err := adapter.Load()
	if err != nil {
		t.Fatalf("expected no error for nonexistent file: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatal("expected empty slice for nonexistent file")
	}
}

func TestFileStorageAdapter_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clear.json")
	adapter := NewFileStorageAdapter(path)
	adapter.Save([]Batch{*testBatch()})

	if err := adapter.Clear(); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected file to be deleted")
	}

	if err := adapter.Clear(); err != nil {
		t.Fatalf("clearing a missing spool should succeed: %v", err)
	}
}

func TestFileStorageAdapter_SaveError(t *testing.T) {
	adapter := NewFileStorageAdapter("/invalid/path/test.json")
	err := adapter.Save([]Batch{*testBatch()})
	if err == nil {
		t.Fatal("expected error for invalid path")
	}
}

func TestFileStorageAdapter_LoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.json")
	os.WriteFile(path, []byte("invalid json"), 0644)

	adapter := NewFileStorageAdapter(path)
	_, err := adapter.Load()
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestFileStorageAdapter_SaveMarshalError(t *testing.T) {
	adapter := NewFileStorageAdapter(filepath.Join(t.TempDir(), "marshal.json"))
	batch := testBatch()
	batch.Events[0].Attributes = map[string]any{"invalid": make(chan int)}

	if err := adapter.Save([]Batch{*batch}); err == nil {
		t.Fatal("expected error for unmarshalable data")
	}
}
