package adb

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// LiveView launches scrcpy for interactive phone-screen mirroring.
// The process is long-lived and unsupervised: Start does not wait on
// it, and Stop is a best-effort terminate-by-name, not a managed
// child-process lifecycle.
type LiveView struct {
	scrcpyPath string
	logger     *slog.Logger
}

// NewLiveView creates a LiveView launcher. An empty path resolves
// "scrcpy" from PATH.
func NewLiveView(scrcpyPath string, logger *slog.Logger) *LiveView {
	if scrcpyPath == "" {
		scrcpyPath = "scrcpy"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveView{scrcpyPath: scrcpyPath, logger: logger}
}

// Start launches the mirroring window. --stay-awake keeps the phone
// screen on while mirrored.
func (v *LiveView) Start() error {
	if _, err := exec.LookPath(v.scrcpyPath); err != nil {
		return fmt.Errorf("scrcpy not found: %w", err)
	}

	cmd := exec.Command(v.scrcpyPath, "--stay-awake")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting scrcpy: %w", err)
	}

	v.logger.Info("live view started", "pid", cmd.Process.Pid)
	return nil
}

// Stop terminates any running scrcpy process by name. Errors are
// ignored; there may be nothing to stop.
func (v *LiveView) Stop() {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("taskkill", "/f", "/im", "scrcpy.exe")
	default:
		cmd = exec.Command("pkill", "-x", "scrcpy")
	}
	if err := cmd.Run(); err != nil {
		v.logger.Debug("live view stop", "error", err)
	}
}
