package domain

import (
	"errors"
	"fmt"
	"net"
)

// Address of the collector, in host:port form.
type Address string

// NewAddress validates the given string and returns it as an Address.
// It returns an error if the address is empty or has no port.
func NewAddress(address string) (Address, error) {
	if len(address) == 0 {
		return "", errors.New("address cannot be empty")
	}
	if _, _, err := net.SplitHostPort(address); err != nil {
		return "", fmt.Errorf("address must be in host:port form: %w", err)
	}
	return Address(address), nil
}
