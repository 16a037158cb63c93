package domain

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// Port is a validated TCP port number. Port 0 asks the kernel for an
// ephemeral port.
type Port uint16

// NewPort parses a decimal port number in the range 0-65535.
func NewPort(value string) (Port, error) {
	if value == "" {
		return 0, errors.New("port must be non-empty")
	}

	port, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("port must be a number between 0 and 65535: %s", value)
	}

	return Port(port), nil
}

// BindAddress represents a network address where a server can bind to listen
// for incoming connections.
//
// Valid address formats:
//   - "localhost:8080"
//   - "127.0.0.1:8080"
//   - "0.0.0.0:8080"
//   - ":8080" (binds to all interfaces)
//   - "[::1]:8080" (IPv6)
type BindAddress string

// NewBindAddress joins host and port into a BindAddress. An empty host
// binds to all interfaces.
func NewBindAddress(host string, port Port) (BindAddress, error) {
	value := net.JoinHostPort(host, strconv.Itoa(int(port)))

	if _, _, err := net.SplitHostPort(value); err != nil {
		return "", fmt.Errorf("invalid bind address format: %w", err)
	}

	return BindAddress(value), nil
}
