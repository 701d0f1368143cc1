// Package httplistener provides the net.Listener construction DefaultDriver
// needs for both "tcp" and "unix" addresses.
package httplistener

import (
	"fmt"
	"net"
	"os"
)

// NewListener opens a listener on network ("tcp" or "unix") at addr. For
// "unix" it removes any stale socket file left behind by a previous,
// uncleanly terminated process before binding.
func NewListener(network, addr string) (net.Listener, error) {
	switch network {
	case "tcp", "tcp4", "tcp6":
		return net.Listen(network, addr)
	case "unix", "unixpacket":
		if err := os.Remove(addr); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("httplistener: remove stale socket %s: %w", addr, err)
		}
		return net.Listen(network, addr)
	default:
		return nil, fmt.Errorf("httplistener: unsupported network %q", network)
	}
}
