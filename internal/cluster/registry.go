package cluster

import "context"

// Registry is the discovery capability interface: a key/value directory
// of NodeAddress records under "coordinator" and "backends/<id>". Two
// interchangeable providers exist: FileRegistry for local development,
// and an SSM-backed provider for cloud deployments (out of scope per the
// simulation spec; treated as an external collaborator, see
// NewSSMRegistry).
//
// All operations are idempotent: registering twice upserts, and
// unregistering a missing key succeeds silently.
type Registry interface {
	RegisterCoordinator(ctx context.Context, addr NodeAddress) error
	UnregisterCoordinator(ctx context.Context) error
	DiscoverCoordinator(ctx context.Context) (NodeAddress, bool, error)

	RegisterBackend(ctx context.Context, instanceID string, addr NodeAddress) error
	UnregisterBackend(ctx context.Context, instanceID string) error
	DiscoverBackends(ctx context.Context) ([]BackendEntry, error)
}

// BackendEntry pairs a discovered backend's instance id with its
// address, since DiscoverBackends returns a snapshot in unspecified
// order.
type BackendEntry struct {
	InstanceID string
	Addr       NodeAddress
}
