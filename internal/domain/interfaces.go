package domain

import (
	"context"
	"time"
)

// ShellResult is the structured outcome of one device shell command.
type ShellResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined returns stdout and stderr joined for marker scanning.
func (r ShellResult) Combined() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}

// DeviceShell executes shell commands on the currently addressed device.
// Implementations must return ErrTransportUnavailable, ErrTimeout, or
// ErrDeviceOffline (possibly wrapped) for the corresponding failures.
type DeviceShell interface {
	// Shell runs a command on the device's shell, bounded by timeout.
	Shell(ctx context.Context, timeout time.Duration, args ...string) (ShellResult, error)
}

// FileTransfer copies files between the device and the local filesystem.
// Each transfer is independent; a failed pull never aborts a batch.
type FileTransfer interface {
	// Pull copies one remote file to a local path.
	Pull(ctx context.Context, remotePath, localPath string) error
}

// RemoteDeleter removes individual files from the device's camera storage.
type RemoteDeleter interface {
	// DeleteFile deletes a single file by basename.
	DeleteFile(ctx context.Context, name string) error
}
