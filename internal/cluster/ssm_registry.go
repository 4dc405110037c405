package cluster

import (
	"context"
	"errors"
)

// ErrSSMNotConfigured is returned by every SSMRegistry method. The
// AWS-SSM-backed registry is an external collaborator per the
// simulation's scope: this type exists only so callers can select a
// Registry implementation by deployment mode without a type switch; the
// cloud parameter-store wiring itself is not implemented here.
var ErrSSMNotConfigured = errors.New("cluster: SSM registry backend is not configured in this build")

// SSMRegistry is a stub Registry backed by AWS Systems Manager Parameter
// Store in the original deployment (params under /colony/coordinator and
// /colony/backends/<id>). See DESIGN.md for why only the interface
// contract is implemented.
type SSMRegistry struct{}

// NewSSMRegistry always returns an error: wiring real AWS credentials
// and an ssm.Client is out of scope for this rewrite.
func NewSSMRegistry() (*SSMRegistry, error) {
	return nil, ErrSSMNotConfigured
}

func (s *SSMRegistry) RegisterCoordinator(context.Context, NodeAddress) error { return ErrSSMNotConfigured }
func (s *SSMRegistry) UnregisterCoordinator(context.Context) error            { return ErrSSMNotConfigured }
func (s *SSMRegistry) DiscoverCoordinator(context.Context) (NodeAddress, bool, error) {
	return NodeAddress{}, false, ErrSSMNotConfigured
}
func (s *SSMRegistry) RegisterBackend(context.Context, string, NodeAddress) error {
	return ErrSSMNotConfigured
}
func (s *SSMRegistry) UnregisterBackend(context.Context, string) error { return ErrSSMNotConfigured }
func (s *SSMRegistry) DiscoverBackends(context.Context) ([]BackendEntry, error) {
	return nil, ErrSSMNotConfigured
}

// NewRegistry selects a Registry implementation by deployment mode,
// mirroring the original's create_cluster_registry factory.
func NewRegistry(mode string, fileBaseDir string) (Registry, error) {
	switch mode {
	case "aws":
		return NewSSMRegistry()
	default:
		return NewFileRegistry(fileBaseDir)
	}
}
