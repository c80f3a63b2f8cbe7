package adapters

// StorageAdapter is an interface for spooling batches that could not be delivered.
// Implement this interface to use custom storage backends (database, Redis, S3, etc.).
type StorageAdapter interface {
	// Save replaces the spool contents with batches.
	//
	// Parameters:
	//   - batches: Array of batches to save
	//
	// Returns error if save fails.
	Save(batches []Batch) error

	// Load retrieves spooled batches.
	//
	// Returns array of batches or error.
	Load() ([]Batch, error)

	// Clear removes all spooled batches.
	//
	// Returns error if clear fails.
	Clear() error
}
