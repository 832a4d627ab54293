package cache

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cmercer/camdeck/internal/domain"
)

// Puller mirrors remote camera files into a local directory tree.
//
// The contract is best-effort, not completeness: files that fail to
// pull and do not already exist locally are omitted from the result,
// and a pull is skipped entirely when the destination file is already
// present. Repeated calls against the same listing are idempotent.
type Puller struct {
	ft        domain.FileTransfer
	cameraDir string
	logger    *slog.Logger
}

// New creates a Puller. cameraDir is the remote directory the entries
// were listed from.
func New(ft domain.FileTransfer, cameraDir string, logger *slog.Logger) *Puller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Puller{ft: ft, cameraDir: cameraDir, logger: logger}
}

// PullAll mirrors each remote entry into destDir, preserving the input
// listing's order. Local basenames always equal remote names.
func (p *Puller) PullAll(ctx context.Context, entries []domain.RemoteFileEntry, destDir string) []domain.LocalAsset {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		p.logger.Error("failed to create destination directory", "dir", destDir, "error", err)
		return nil
	}

	var assets []domain.LocalAsset
	pulled, skipped, failed := 0, 0, 0

	for _, entry := range entries {
		localPath := filepath.Join(destDir, entry.Name)

		if _, err := os.Stat(localPath); err == nil {
			skipped++
		} else {
			if err := p.ft.Pull(ctx, p.cameraDir+"/"+entry.Name, localPath); err != nil {
				p.logger.Warn("pull failed", "name", entry.Name, "error", err)
			} else {
				pulled++
			}
		}

		// Include whatever is actually on disk now, whether pulled
		// this call or pre-existing.
		if _, err := os.Stat(localPath); err == nil {
			assets = append(assets, domain.LocalAsset{RemoteName: entry.Name, LocalPath: localPath})
		} else {
			failed++
		}
	}

	p.logger.Info("pull all finished",
		"dest", destDir, "pulled", pulled, "skipped", skipped, "missing", failed)
	return assets
}
