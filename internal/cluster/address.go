package cluster

import "fmt"

// NodeAddress is the registry's unit of value: where a coordinator or
// worker can be reached. InternalPort speaks the binary RPC protocol
// (package wire); HTTPPort serves the read-only observability API.
type NodeAddress struct {
	PrivateIP    string `json:"private_ip"`
	PublicIP     string `json:"public_ip"`
	InternalPort int    `json:"internal_port"`
	HTTPPort     int    `json:"http_port"`
}

// InternalAddr returns the host:port to dial for the binary RPC
// protocol, preferring the private IP (both ends are assumed to share a
// network in this deployment model).
func (a NodeAddress) InternalAddr() string {
	return fmt.Sprintf("%s:%d", a.PrivateIP, a.InternalPort)
}

// HTTPAddr returns the host:port base for the read-only HTTP API.
func (a NodeAddress) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", a.PrivateIP, a.HTTPPort)
}

// Equal reports whether two addresses refer to the same (private_ip,
// internal_port) pair — the identity used when a coordinator filters
// itself out of a discovered backend list.
func (a NodeAddress) Equal(other NodeAddress) bool {
	return a.PrivateIP == other.PrivateIP && a.InternalPort == other.InternalPort
}
