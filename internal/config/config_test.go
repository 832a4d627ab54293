package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Save.Dir == "" {
		t.Errorf("expected a default save directory")
	}
	if cfg.Device.CameraDir != "/sdcard/DCIM/Camera" {
		t.Errorf("unexpected camera dir: %s", cfg.Device.CameraDir)
	}
	if cfg.Device.CameraPackage != "com.sec.android.app.camera" {
		t.Errorf("unexpected camera package: %s", cfg.Device.CameraPackage)
	}
	if cfg.Device.WirelessPort != 5555 {
		t.Errorf("unexpected wireless port: %d", cfg.Device.WirelessPort)
	}
	if !cfg.Cleanup.DeleteAfterSave || !cfg.Cleanup.ClearThumbnails || !cfg.Cleanup.RescanMedia {
		t.Errorf("cleanup must default to fully enabled: %+v", cfg.Cleanup)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("unexpected log level: %s", cfg.Logging.Level)
	}
}

func TestLoadConfigWritesDefaultFileOnFirstRun(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Device.WirelessPort != 5555 {
		t.Errorf("first run must yield the defaults, got port %d", cfg.Device.WirelessPort)
	}

	path := filepath.Join(defaultConfigPath(), "config.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("first run must create the config file at %s: %v", path, err)
	}
}
