//go:build unix

package settings

import (
	"errors"
	"os"
	"syscall"
)

type fileLock struct {
	f *os.File
}

// acquireFileLock takes a non-blocking exclusive flock on path.
func acquireFileLock(path string) (*fileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600) // #nosec G304
	if err != nil {
		return nil, ioError("open lock file", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return nil, ErrLocked
		}
		return nil, ioError("lock "+path, err)
	}
	return &fileLock{f: f}, nil
}

// Unlock releases the lock. The lock file stays so a waiting installer
// never locks an unlinked inode.
func (l *fileLock) Unlock() error {
	if l.f == nil {
		return nil
	}
	_ = syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	err := l.f.Close()
	l.f = nil
	return err
}
