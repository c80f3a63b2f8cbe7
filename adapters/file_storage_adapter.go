package adapters

import (
	"encoding/json"
	"errors"
	"os"
)

// FileStorageAdapter spools batches as JSON in a single file.
type FileStorageAdapter struct {
	filepath string
}

// Ensure FileStorageAdapter implements StorageAdapter interface
var _ StorageAdapter = (*FileStorageAdapter)(nil)

// NewFileStorageAdapter creates a new FileStorageAdapter instance.
//
// Parameters:
//   - filepath: Path to the file where batches will be stored
func NewFileStorageAdapter(filepath string) *FileStorageAdapter {
	return &FileStorageAdapter{filepath: filepath}
}

// Save persists batches to a JSON file.
func (f *FileStorageAdapter) Save(batches []Batch) error {
	data, err := json.Marshal(batches)
	if err != nil {
		return err
	}
	return os.WriteFile(f.filepath, data, 0644)
}

// Load retrieves batches from the JSON file.
// Returns empty array if file doesn't exist.
func (f *FileStorageAdapter) Load() ([]Batch, error) {
	data, err := os.ReadFile(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Batch{}, nil
		}
		return nil, err
	}
	var batches []Batch
	if err := json.Unmarshal(data, &batches); err != nil {
		return nil, err
	}
	return batches, nil
}

// Clear removes the storage file. A missing file is not an error.
func (f *FileStorageAdapter) Clear() error {
	if err := os.Remove(f.filepath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
