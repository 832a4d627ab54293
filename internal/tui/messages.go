package tui

import (
	"github.com/cmercer/camdeck/internal/domain"
	"github.com/cmercer/camdeck/internal/intake"
	"github.com/cmercer/camdeck/internal/review"
)

// Message types for the TUI

// ErrMsg represents an error from a background operation
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ConnectedMsg signals a successful wireless connect
type ConnectedMsg struct {
	Handle domain.DeviceHandle
}

// StatusMsg carries a transient status line update
type StatusMsg struct {
	Text string
}

// PhotoTakenMsg signals that the shutter fired and the newest capture
// was pulled
type PhotoTakenMsg struct {
	LocalPath string
}

// ReviewReadyMsg signals that a pull for review completed
type ReviewReadyMsg struct {
	Assets    []domain.LocalAsset
	Transient bool // true when pulled into the temp review dir
}

// DownloadDoneMsg signals that a bulk download into the save dir
// completed
type DownloadDoneMsg struct {
	Count int
	Dest  string
}

// RemoteDeletedMsg signals that a batched remote delete completed
type RemoteDeletedMsg struct {
	Result review.RemoteDeleteResult
}

// ExportDoneMsg signals that an export completed
type ExportDoneMsg struct {
	Result review.ExportResult
	Dest   string
}

// FinalizeDoneMsg signals that the intake workflow finalized
type FinalizeDoneMsg struct {
	Result intake.FinalizeResult
}

// RecentIntakesMsg carries the intake history for display
type RecentIntakesMsg struct {
	Records []domain.IntakeRecord
}

// MetaLoadedMsg carries the inspector line for the current photo
type MetaLoadedMsg struct {
	Path string
	Line string
}
