package node

import (
	"fmt"
	"net"
	"strings"

	ma "github.com/multiformats/go-multiaddr"
)

// NormalizeAddress validates an endpoint given either as host:port or as a
// multiaddr such as /ip4/127.0.0.1/tcp/60000, and returns it as host:port.
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if strings.HasPrefix(address, "/") {
		return fromMultiaddr(address)
	}

	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", address, err)
	}
	if port == "" {
		return "", fmt.Errorf("invalid address %q: missing port", address)
	}
	return net.JoinHostPort(host, port), nil
}

func fromMultiaddr(address string) (string, error) {
	m, err := ma.NewMultiaddr(address)
	if err != nil {
		return "", fmt.Errorf("invalid multiaddr %q: %w", address, err)
	}

	var host string
	for _, code := range []int{ma.P_IP4, ma.P_IP6, ma.P_DNS4, ma.P_DNS6, ma.P_DNS} {
		if v, err := m.ValueForProtocol(code); err == nil {
			host = v
			break
		}
	}
	if host == "" {
		return "", fmt.Errorf("multiaddr %q has no host component", address)
	}

	port, err := m.ValueForProtocol(ma.P_TCP)
	if err != nil {
		return "", fmt.Errorf("multiaddr %q has no tcp component", address)
	}
	return net.JoinHostPort(host, port), nil
}
