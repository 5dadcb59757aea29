//go:build windows

package flock

import "golang.org/x/sys/windows"

// LockFileEx locks a byte range; one byte is enough for an advisory lock.
const (
	reserved  = 0
	rangeLow  = 1
	rangeHigh = 0
)

func exclusive(fd uintptr) error {
	return windows.LockFileEx(windows.Handle(fd),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		reserved, rangeLow, rangeHigh, &windows.Overlapped{})
}

func unlock(fd uintptr) error {
	return windows.UnlockFileEx(windows.Handle(fd), reserved, rangeLow, rangeHigh, &windows.Overlapped{})
}
