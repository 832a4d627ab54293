package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmercer/camdeck/internal/adb"
	"github.com/cmercer/camdeck/internal/domain"
)

// DefaultCameraDir is where Samsung's camera app writes captures.
const DefaultCameraDir = "/sdcard/DCIM/Camera"

// thumbnailGlob is the Gallery app's hidden thumbnail cache.
const thumbnailGlob = "/sdcard/DCIM/.thumbnails/*"

// Options controls the optional cleanup steps of DeleteAll. Both are
// cosmetic and best-effort: they never fail the overall call.
type Options struct {
	ClearThumbnails bool
	RescanMedia     bool
}

// Catalog lists and deletes files in the device's camera directory.
type Catalog struct {
	sh        domain.DeviceShell
	cameraDir string
	logger    *slog.Logger
}

// New creates a Catalog over the given shell. An empty cameraDir uses
// the Samsung default.
func New(sh domain.DeviceShell, cameraDir string, logger *slog.Logger) *Catalog {
	if cameraDir == "" {
		cameraDir = DefaultCameraDir
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{sh: sh, cameraDir: cameraDir, logger: logger}
}

// List returns the camera directory's media files in device-reported
// order, filtered to recognized extensions. A missing directory or a
// failed shell call is a normal empty state, not a fault.
func (c *Catalog) List(ctx context.Context) []domain.RemoteFileEntry {
	res, err := c.sh.Shell(ctx, adb.DefaultTimeout, "ls", "-1", shellQuote(c.cameraDir))
	if err != nil || res.ExitCode != 0 {
		c.logger.Debug("catalog list returned empty", "exit", res.ExitCode, "error", err)
		return nil
	}
	if strings.Contains(res.Combined(), "No such file or directory") {
		return nil
	}

	var entries []domain.RemoteFileEntry
	for _, line := range strings.Split(res.Stdout, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		kind, ok := domain.KindForName(name)
		if !ok {
			continue
		}
		entries = append(entries, domain.RemoteFileEntry{Name: name, Kind: kind})
	}
	return entries
}

// Newest returns the most recently modified media file, per the
// device's own mtime ordering.
func (c *Catalog) Newest(ctx context.Context) (domain.RemoteFileEntry, bool) {
	res, err := c.sh.Shell(ctx, adb.DefaultTimeout, "ls", "-t", shellQuote(c.cameraDir))
	if err != nil || res.ExitCode != 0 {
		return domain.RemoteFileEntry{}, false
	}
	for _, line := range strings.Split(res.Stdout, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if kind, ok := domain.KindForName(name); ok {
			return domain.RemoteFileEntry{Name: name, Kind: kind}, true
		}
	}
	return domain.RemoteFileEntry{}, false
}

// DeleteFile implements domain.RemoteDeleter. The name is shell-quoted
// before use; a file that is already gone is not an error.
func (c *Catalog) DeleteFile(ctx context.Context, name string) error {
	res, err := c.sh.Shell(ctx, adb.DefaultTimeout, "rm", "-f", shellQuote(c.cameraDir+"/"+name))
	if err != nil {
		return err
	}
	if res.ExitCode != 0 && !isAlreadyGone(res.Combined()) {
		return fmt.Errorf("deleting %s: %s", name, res.Combined())
	}
	return nil
}

// DeleteAll deletes every listed file individually. Per-file failures
// never abort the batch: "no such file" counts as skipped, any other
// non-zero exit as an error. The optional thumbnail clear and media
// rescan run afterward regardless of the per-file outcome.
func (c *Catalog) DeleteAll(ctx context.Context, opts Options) domain.DeleteSummary {
	var summary domain.DeleteSummary

	for _, entry := range c.List(ctx) {
		res, err := c.sh.Shell(ctx, adb.DefaultTimeout, "rm", "-f", shellQuote(c.cameraDir+"/"+entry.Name))
		switch {
		case err == nil && res.ExitCode == 0:
			summary.Deleted++
		case err == nil && isAlreadyGone(res.Combined()):
			summary.Skipped++
		default:
			c.logger.Warn("remote delete failed", "name", entry.Name, "error", err, "output", res.Combined())
			summary.Errors++
		}
	}

	if opts.ClearThumbnails {
		// Glob on purpose: the cache dir holds generated files with
		// predictable names, and a partial clear is harmless.
		_, _ = c.sh.Shell(ctx, adb.DefaultTimeout, "rm", "-f", thumbnailGlob)
	}
	if opts.RescanMedia {
		_, _ = c.sh.Shell(ctx, adb.DefaultTimeout,
			"am", "broadcast",
			"-a", "android.intent.action.MEDIA_SCANNER_SCAN_FILE",
			"-d", "file://"+c.cameraDir)
	}

	c.logger.Info("delete all finished",
		"deleted", summary.Deleted, "skipped", summary.Skipped, "errors", summary.Errors)
	return summary
}

// RemotePath returns the absolute device path for a camera file name.
func (c *Catalog) RemotePath(name string) string {
	return c.cameraDir + "/" + name
}

func isAlreadyGone(output string) bool {
	return strings.Contains(output, "No such file")
}

// shellQuote wraps a path in single quotes so names with spaces or
// shell-special characters survive the device shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
