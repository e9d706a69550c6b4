// Package netutil resolves host network details for injected container env.
package netutil

import (
	"fmt"
	"net"

	"github.com/bnema/gateway-core/internal/boundaries/out"
)

// defaultProbePort is used when the target host carries no port.
const defaultProbePort = "80"

// Resolver finds the local address the kernel would use to reach a host.
type Resolver struct{}

var _ out.LocalIPResolver = Resolver{}

// NewResolver creates a Resolver.
func NewResolver() Resolver {
	return Resolver{}
}

// LocalIP "connects" a UDP socket to host and reports its local address.
// UDP connect only selects a route, no packet is sent.
func (Resolver) LocalIP(host string) (string, error) {
	target := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		target = net.JoinHostPort(host, defaultProbePort)
	}

	conn, err := net.Dial("udp", target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve local ip towards %s: %w", host, err)
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "", fmt.Errorf("unexpected local address type %T", conn.LocalAddr())
	}
	return addr.IP.String(), nil
}
