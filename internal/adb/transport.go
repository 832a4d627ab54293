package adb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/cmercer/camdeck/internal/domain"
)

const (
	// DefaultTimeout bounds interactive device calls.
	DefaultTimeout = 5 * time.Second

	// PullTimeout bounds single-file transfers, which can be large videos.
	PullTimeout = 60 * time.Second
)

// offlineMarkers are the adb output fragments that mean the device
// session dropped. Only consulted when a command exits non-zero, so a
// file that happens to be named "offline.jpg" never trips detection.
var offlineMarkers = []string{
	"device offline",
	"no devices/emulators found",
	"device unauthorized",
	"connection reset",
}

// deviceNotFound matches adb's disconnect message, which embeds the
// serial once a wireless target was addressed:
// "error: device '192.168.1.50:5555' not found".
var deviceNotFound = regexp.MustCompile(`device ('[^']*' )?not found`)

// Runner executes the bridge binary. The exec-backed runner is the
// default; tests substitute a scripted one.
type Runner interface {
	Run(ctx context.Context, name string, args []string) (domain.ShellResult, error)
}

// execRunner spawns the real adb process
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args []string) (domain.ShellResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := domain.ShellResult{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Non-zero exit is a structured result, not a runner failure
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			return res, domain.ErrTransportUnavailable
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return res, domain.ErrTimeout
		}
		return res, err
	}

	return res, nil
}

// Transport wraps the adb executable. Every call spawns an external
// process; callers must not assume low latency.
type Transport struct {
	adbPath string
	runner  Runner
	logger  *slog.Logger
}

// NewTransport creates a Transport for the given adb binary path.
// An empty path resolves "adb" from PATH.
func NewTransport(adbPath string, logger *slog.Logger) *Transport {
	if adbPath == "" {
		adbPath = "adb"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{
		adbPath: adbPath,
		runner:  execRunner{},
		logger:  logger,
	}
}

// Command runs adb with the given arguments, bounded by timeout.
// Failures are mapped to the sentinel taxonomy: missing binary to
// ErrTransportUnavailable, deadline to ErrTimeout, and offline markers
// in the output of a failed command to ErrDeviceOffline.
func (t *Transport) Command(ctx context.Context, timeout time.Duration, args ...string) (domain.ShellResult, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	res, err := t.runner.Run(ctx, t.adbPath, args)
	t.logger.Debug("adb command",
		"args", strings.Join(args, " "),
		"exit", res.ExitCode,
		"elapsed", time.Since(start),
		"error", err)

	if err != nil {
		return res, err
	}
	if res.ExitCode != 0 && isOffline(res.Combined()) {
		return res, fmt.Errorf("adb %s: %w", args[0], domain.ErrDeviceOffline)
	}
	return res, nil
}

func isOffline(output string) bool {
	lower := strings.ToLower(output)
	for _, marker := range offlineMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return deviceNotFound.MatchString(lower)
}
