package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// MediaKind distinguishes remote media types by extension
type MediaKind int

const (
	MediaKindImage MediaKind = iota
	MediaKindVideo
)

// imageExts and videoExts are the recognized camera-roll extensions.
// Anything else (including names with no extension at all) is excluded
// from catalog listings.
var (
	imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".heic": true}
	videoExts = map[string]bool{".mp4": true, ".mov": true}
)

// RemoteFileEntry is a single file in the device's camera directory.
// Entries are ephemeral: rebuilt on every listing, never cached.
type RemoteFileEntry struct {
	Name string    // Basename on the device, e.g. "20260831_101502.jpg"
	Kind MediaKind // Inferred from the extension
}

// KindForName infers the media kind for a file name.
// The second return is false for unrecognized extensions.
func KindForName(name string) (MediaKind, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case imageExts[ext]:
		return MediaKindImage, true
	case videoExts[ext]:
		return MediaKindVideo, true
	default:
		return 0, false
	}
}

// LocalAsset is a remote file mirrored into the local cache.
// Invariant: filepath.Base(LocalPath) == RemoteName (pulls never rename).
type LocalAsset struct {
	RemoteName string // Basename on the device
	LocalPath  string // Path of the local copy
}

// DeviceHandle identifies the currently addressed device. At most one
// handle is current at a time; it is dropped on any offline error.
type DeviceHandle struct {
	Address       string // Serial or "ip:port"
	EstablishedAt time.Time
}

// DeleteSummary is the aggregate result of a batched remote delete.
// A per-file "no such file" counts as skipped, not as an error.
type DeleteSummary struct {
	Deleted int
	Skipped int
	Errors  int
}

// Failed reports whether any file failed for a reason other than
// already being gone.
func (s DeleteSummary) Failed() bool { return s.Errors > 0 }

// IntakeRecord is the durable trace of one completed intake cycle.
type IntakeRecord struct {
	Tag         string    `json:"tag"`
	DestDir     string    `json:"dest_dir"`
	PulledCount int       `json:"pulled_count"`
	CompletedAt time.Time `json:"completed_at"`
}
