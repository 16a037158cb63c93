package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DataDir represents a validated directory holding the sensor log files.
type DataDir string

// NewDataDir creates a new DataDir.
func NewDataDir(path string) (DataDir, error) {
	if len(path) == 0 {
		return "", errors.New("data directory cannot be empty")
	}

	cleanPath := filepath.Clean(path)
	if strings.ContainsAny(cleanPath, "<>\"|?*") {
		return "", fmt.Errorf("data directory contains invalid characters: %s", cleanPath)
	}

	return DataDir(cleanPath), nil
}
