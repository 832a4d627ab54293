package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Save    SaveSettings  `mapstructure:"save"`
	Device  DeviceConfig  `mapstructure:"device"`
	Cleanup CleanupConfig `mapstructure:"cleanup"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SaveSettings holds the local capture destination
type SaveSettings struct {
	Dir string `mapstructure:"dir"` // Root directory for pulled photos
}

// DeviceConfig holds the device bridge configuration
type DeviceConfig struct {
	ADBPath       string `mapstructure:"adb_path"`       // adb binary, resolved from PATH when empty
	ScrcpyPath    string `mapstructure:"scrcpy_path"`    // scrcpy binary for live view
	CameraDir     string `mapstructure:"camera_dir"`     // Remote camera-roll directory
	CameraPackage string `mapstructure:"camera_package"` // Vendor camera app package
	WirelessPort  int    `mapstructure:"wireless_port"`  // tcpip debug port
}

// CleanupConfig holds the post-save device cleanup behavior
type CleanupConfig struct {
	DeleteAfterSave bool `mapstructure:"delete_after_save"` // Clear the camera folder after Finalize
	ClearThumbnails bool `mapstructure:"clear_thumbnails"`  // Also clear the Gallery thumbnail cache
	RescanMedia     bool `mapstructure:"rescan_media"`      // Broadcast a media-scanner rescan
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Save: SaveSettings{
			Dir: defaultSaveDir(),
		},
		Device: DeviceConfig{
			ADBPath:       "",
			ScrcpyPath:    "",
			CameraDir:     "/sdcard/DCIM/Camera",
			CameraPackage: "com.sec.android.app.camera",
			WirelessPort:  5555,
		},
		Cleanup: CleanupConfig{
			DeleteAfterSave: true,
			ClearThumbnails: true,
			RescanMedia:     true,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultSaveDir returns the default captures directory
func defaultSaveDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "camdeck", "captures")
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "camdeck", "camdeck.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "camdeck", "camdeck.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "camdeck")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "camdeck")
	}
}

// DefaultDataDir returns the directory for durable data (intake ledger)
func DefaultDataDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "camdeck")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "camdeck")
	}
}

// LoadConfig loads configuration from file and environment. A missing
// config file is not an error; the defaults are written out so a file
// exists to edit from the first run onward.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("CAMDECK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := SaveConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.Save.Dir == "" {
		cfg.Save.Dir = defaultSaveDir()
	}

	return cfg, nil
}

// SaveConfig writes the current configuration to the config file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to keep snake_case key names
	viper.Set("save.dir", cfg.Save.Dir)

	viper.Set("device.adb_path", cfg.Device.ADBPath)
	viper.Set("device.scrcpy_path", cfg.Device.ScrcpyPath)
	viper.Set("device.camera_dir", cfg.Device.CameraDir)
	viper.Set("device.camera_package", cfg.Device.CameraPackage)
	viper.Set("device.wireless_port", cfg.Device.WirelessPort)

	viper.Set("cleanup.delete_after_save", cfg.Cleanup.DeleteAfterSave)
	viper.Set("cleanup.clear_thumbnails", cfg.Cleanup.ClearThumbnails)
	viper.Set("cleanup.rescan_media", cfg.Cleanup.RescanMedia)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SetSaveDir updates just the save directory, the only setting changed
// from inside the application.
func SetSaveDir(cfg *Config, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	cfg.Save.Dir = dir
	return SaveConfig(cfg)
}
