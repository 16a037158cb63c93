//go:build !unix

package infrastructure

// lockFile is a no-op where flock is unavailable; in-process serialization
// still comes from KeyedLocker.
func lockFile(_ any, _ bool) (unlock func(), err error) {
	return func() {}, nil
}
