//go:build !unix

package fsutil

// Directory handles cannot be flushed outside unix.
func isSyncUnsupported(err error) bool { return err != nil }
