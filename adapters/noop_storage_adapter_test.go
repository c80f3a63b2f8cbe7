package adapters

import (
	"testing"
)

func TestNoOpStorageAdapter_Save(t *testing.T) {
	adapter := NewNoOpStorageAdapter()

	if err := adapter.Save([]Batch{*testBatch()}); err != nil {
		t.Errorf("Save should always return nil, got: %v", err)
	}
}

func TestNoOpStorageAdapter_Load(t *testing.T) {
	adapter := NewNoOpStorageAdapter()

	batches, err := adapter.Load()
	if err != nil {
		t.Errorf("Load should return nil error, got: %v", err)
	}

	if batches == nil {
		t.Error("Load should return empty slice, not nil")
	}

	if len(batches) != 0 {
		t.Errorf("Load should return empty slice, got %d batches", len(batches))
	}
}

func TestNoOpStorageAdapter_Clear(t *testing.T) {
	adapter := NewNoOpStorageAdapter()

	if err := adapter.Clear(); err != nil {
		t.Errorf("Clear should always return nil, got: %v", err)
	}
}

func TestNoOpStorageAdapter_Interface(t *testing.T) {
	var _ StorageAdapter = (*NoOpStorageAdapter)(nil)
}
