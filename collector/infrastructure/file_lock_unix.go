//go:build unix

package infrastructure

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// fder is implemented by files backed by an OS descriptor, such as *os.File.
type fder interface {
	Fd() uintptr
}

// lockFile takes an advisory flock on f so writers in other processes are
// serialized with this one. Files without a descriptor (in-memory
// filesystems) are left unlocked.
func lockFile(f any, exclusive bool) (unlock func(), err error) {
	file, ok := f.(fder)
	if !ok {
		return func() {}, nil
	}

	how := unix.LOCK_SH
	if exclusive {
		how = unix.LOCK_EX
	}

	fd := int(file.Fd())
	for {
		err = unix.Flock(fd, how)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("error on locking file: %w", err)
	}

	return func() { _ = unix.Flock(fd, unix.LOCK_UN) }, nil
}
