package device

import "context"

// Store persists the device collection. Implementations keep insertion
// order, replace whole records on Put and must be safe for concurrent use.
// Read-modify-write sequences are serialized by the registry, not the store.
type Store interface {
	// Load returns every stored device in insertion order
	Load(ctx context.Context) ([]Device, error)

	// Get returns a single device by id, or ErrNotFound
	Get(ctx context.Context, id string) (*Device, error)

	// Put inserts a new device or replaces an existing one in place
	Put(ctx context.Context, d Device) error

	// Delete removes a device by id, or returns ErrNotFound
	Delete(ctx context.Context, id string) error

	// Backend names the storage implementation (file, sqlite)
	Backend() string

	// Close releases the underlying resources
	Close() error
}

// Registry is the device collection as seen by the API and MCP layers.
type Registry interface {
	// ListDevices returns all registered devices in insertion order
	ListDevices(ctx context.Context) ([]Device, error)

	// GetDevice returns a single device by id
	GetDevice(ctx context.Context, id string) (*Device, error)

	// AddDevice validates and registers a new device, switched off
	AddDevice(ctx context.Context, in Input) (*Device, error)

	// RemoveDevice unregisters a device
	RemoveDevice(ctx context.Context, id string) (*Device, error)

	// SetDeviceState records the commanded power state of a device
	SetDeviceState(ctx context.Context, id string, on bool) (*Device, error)

	// Health returns a liveness snapshot without polling any device
	Health(ctx context.Context) Health
}
