// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// Win32 error codes that leave the ReadDirectoryChangesW-based watcher in an
// unrecoverable state.
const (
	// ERROR_TOO_MANY_OPEN_FILES: per-process handle limit, like EMFILE.
	errnoTooManyOpenFiles = syscall.Errno(4)
	// ERROR_INVALID_HANDLE: the watched directory was deleted or unmounted.
	errnoInvalidHandle = syscall.Errno(6)
	// ERROR_NOT_ENOUGH_MEMORY: no room for the notification buffer.
	errnoNotEnoughMemory = syscall.Errno(8)
)

// isFatalFsnotifyError reports whether an fsnotify error means the watcher
// cannot continue.
func isFatalFsnotifyError(err error) bool {
	return errors.Is(err, errnoTooManyOpenFiles) ||
		errors.Is(err, errnoInvalidHandle) ||
		errors.Is(err, errnoNotEnoughMemory)
}
