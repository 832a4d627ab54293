package review

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/cmercer/camdeck/internal/domain"
)

// ItemError records a single file's failure within a batch operation.
type ItemError struct {
	Name string
	Err  error
}

// RemoteDeleteResult is the aggregate outcome of DeleteRemoteSelected.
type RemoteDeleteResult struct {
	Removed int
	Errors  []ItemError
}

// ExportResult is the aggregate outcome of Export. Files already
// present at the destination are skipped, not overwritten.
type ExportResult struct {
	Exported int
	Skipped  int
	Errors   []ItemError
}

// Session is a cursor over an ordered sequence of pulled assets with
// selection, deletion, and export operations. Invariants:
//
//   - 0 <= cursor < len(assets) whenever assets is non-empty
//   - selected holds only valid indices; any removal at index i drops
//     i and decrements every selected index above it
//   - an empty asset sequence ends the session (Ended returns true)
//
// The session assumes single-owner access: the presentation layer
// holds one Session and applies transitions sequentially.
type Session struct {
	assets   []domain.LocalAsset
	cursor   int
	selected map[int]bool
	remote   domain.RemoteDeleter
	logger   *slog.Logger
}

// NewSession creates a review session over pulled assets, in pull
// order. remote may be nil for sessions that never delete remotely.
func NewSession(assets []domain.LocalAsset, remote domain.RemoteDeleter, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		assets:   append([]domain.LocalAsset(nil), assets...),
		selected: make(map[int]bool),
		remote:   remote,
		logger:   logger,
	}
}

// Len returns the number of assets remaining.
func (s *Session) Len() int { return len(s.assets) }

// Ended reports whether the session has no assets left.
func (s *Session) Ended() bool { return len(s.assets) == 0 }

// Cursor returns the current index. Meaningless once Ended.
func (s *Session) Cursor() int { return s.cursor }

// Current returns the asset under the cursor.
func (s *Session) Current() (domain.LocalAsset, bool) {
	if s.Ended() {
		return domain.LocalAsset{}, false
	}
	return s.assets[s.cursor], true
}

// Asset returns the asset at index i.
func (s *Session) Asset(i int) (domain.LocalAsset, bool) {
	if i < 0 || i >= len(s.assets) {
		return domain.LocalAsset{}, false
	}
	return s.assets[i], true
}

// Next advances the cursor by one, clamped at the end.
func (s *Session) Next() {
	if s.cursor < len(s.assets)-1 {
		s.cursor++
	}
}

// Prev moves the cursor back by one, clamped at the start.
func (s *Session) Prev() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// JumpTo moves the cursor to the 1-based position n. Out-of-range
// input is a silent no-op.
func (s *Session) JumpTo(n int) {
	if n >= 1 && n <= len(s.assets) {
		s.cursor = n - 1
	}
}

// ToggleSelect flips the current asset's membership in the selection.
func (s *Session) ToggleSelect() {
	if s.Ended() {
		return
	}
	if s.selected[s.cursor] {
		delete(s.selected, s.cursor)
	} else {
		s.selected[s.cursor] = true
	}
}

// IsSelected reports whether the asset at index i is selected.
func (s *Session) IsSelected(i int) bool { return s.selected[i] }

// SelectedCount returns the number of selected assets.
func (s *Session) SelectedCount() int { return len(s.selected) }

// DeleteLocalCurrent removes the current asset's local file (best
// effort) and evicts it from the sequence. Returns true when the
// session has ended as a result.
func (s *Session) DeleteLocalCurrent() bool {
	if s.Ended() {
		return true
	}
	asset := s.assets[s.cursor]
	if err := os.Remove(asset.LocalPath); err != nil && !os.IsNotExist(err) {
		// Proceed anyway: the asset leaves the review either way.
		s.logger.Warn("local delete failed", "path", asset.LocalPath, "error", err)
	}
	s.removeAt(s.cursor)
	return s.Ended()
}

// DeleteRemoteSelected deletes every selected asset from the device,
// in descending index order so earlier indices stay stable. On a
// successful remote delete the local copy is also removed (best
// effort) and the asset evicted; remote state is authoritative, so a
// failed local cleanup still counts as success. On a failed remote
// delete the asset stays in place and the error is accumulated. The
// selection is cleared afterward regardless of partial failure.
func (s *Session) DeleteRemoteSelected(ctx context.Context) RemoteDeleteResult {
	var result RemoteDeleteResult

	indices := make([]int, 0, len(s.selected))
	for i := range s.selected {
		indices = append(indices, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))

	for _, i := range indices {
		asset := s.assets[i]
		if err := s.remote.DeleteFile(ctx, asset.RemoteName); err != nil {
			s.logger.Warn("remote delete failed", "name", asset.RemoteName, "error", err)
			result.Errors = append(result.Errors, ItemError{Name: asset.RemoteName, Err: err})
			continue
		}
		if err := os.Remove(asset.LocalPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("local cleanup after remote delete failed", "path", asset.LocalPath, "error", err)
		}
		s.removeAt(i)
		result.Removed++
	}

	s.selected = make(map[int]bool)
	return result
}

// Export copies assets into destDir, preserving filenames. When
// selectedOnly is true only the selection is exported, otherwise every
// asset. Per-file failures are collected, never raised individually.
func (s *Session) Export(destDir string, selectedOnly bool) ExportResult {
	var result ExportResult

	if err := os.MkdirAll(destDir, 0755); err != nil {
		result.Errors = append(result.Errors, ItemError{Name: destDir, Err: err})
		return result
	}

	for i, asset := range s.assets {
		if selectedOnly && !s.selected[i] {
			continue
		}
		dst := filepath.Join(destDir, asset.RemoteName)
		if _, err := os.Stat(dst); err == nil {
			result.Skipped++
			continue
		}
		if err := copyFile(asset.LocalPath, dst); err != nil {
			result.Errors = append(result.Errors, ItemError{Name: asset.RemoteName, Err: err})
			continue
		}
		result.Exported++
	}

	s.logger.Info("export finished",
		"dest", destDir, "exported", result.Exported,
		"skipped", result.Skipped, "errors", len(result.Errors))
	return result
}

// removeAt evicts the asset at index i, re-indexes the selection, and
// clamps the cursor back into range.
func (s *Session) removeAt(i int) {
	s.assets = append(s.assets[:i], s.assets[i+1:]...)

	reindexed := make(map[int]bool, len(s.selected))
	for idx := range s.selected {
		switch {
		case idx < i:
			reindexed[idx] = true
		case idx > i:
			reindexed[idx-1] = true
		}
	}
	s.selected = reindexed

	if s.cursor > i || s.cursor >= len(s.assets) {
		if s.cursor > 0 {
			s.cursor--
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
