package adb

import (
	"context"
	"fmt"

	"github.com/cmercer/camdeck/internal/domain"
)

// keycodeCamera is the hardware camera key (KEYCODE_CAMERA).
const keycodeCamera = "27"

// LaunchCameraApp starts the vendor camera activity on the device.
// Fire and forget: the activity manager acknowledges the intent, the
// app itself is not monitored.
func LaunchCameraApp(ctx context.Context, sh domain.DeviceShell, pkg string) error {
	res, err := sh.Shell(ctx, DefaultTimeout, "am", "start", "-n", pkg+"/.Camera")
	if err != nil {
		return fmt.Errorf("launching camera app: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("launching camera app: %s", res.Combined())
	}
	return nil
}

// TriggerShutter presses the hardware camera key. Fire and forget.
func TriggerShutter(ctx context.Context, sh domain.DeviceShell) error {
	res, err := sh.Shell(ctx, DefaultTimeout, "input", "keyevent", keycodeCamera)
	if err != nil {
		return fmt.Errorf("triggering shutter: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("triggering shutter: %s", res.Combined())
	}
	return nil
}
