//go:build !windows

package index

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// Non-blocking flock keeps a second mapdex process from interleaving
// snapshot writes; a busy lock is reported, never waited on.
func lockFileExclusiveNonBlocking(file *os.File) error {
	return unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

func unlockFile(file *os.File) error {
	return unix.Flock(int(file.Fd()), unix.LOCK_UN)
}

func isWouldBlockError(err error) bool {
	// EWOULDBLOCK and EAGAIN are the same errno on every supported unix.
	return errors.Is(err, unix.EWOULDBLOCK)
}
