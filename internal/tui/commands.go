package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cmercer/camdeck/internal/adb"
	"github.com/cmercer/camdeck/internal/cache"
	"github.com/cmercer/camdeck/internal/catalog"
	"github.com/cmercer/camdeck/internal/domain"
	"github.com/cmercer/camdeck/internal/intake"
	"github.com/cmercer/camdeck/internal/meta"
	"github.com/cmercer/camdeck/internal/review"
)

// Command factories for async operations. Each exposed core operation
// runs whole on a background worker; only the final typed result is
// marshalled back for display.

const batchTimeout = 10 * time.Minute

// connectCmd establishes the wireless device session
func connectCmd(session *adb.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		handle, err := session.ConnectWirelessly(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "connecting wirelessly"}
		}
		return ConnectedMsg{Handle: handle}
	}
}

// launchCameraCmd opens the vendor camera app on the phone
func launchCameraCmd(session *adb.Session, pkg string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := adb.LaunchCameraApp(ctx, session, pkg); err != nil {
			return ErrMsg{Err: err, Context: "opening camera app"}
		}
		return StatusMsg{Text: "Camera app opened on phone"}
	}
}

// takePhotoCmd triggers the shutter, lets the capture settle, then
// pulls the newest file into the save directory
func takePhotoCmd(session *adb.Session, cat *catalog.Catalog, puller *cache.Puller, saveDir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := adb.TriggerShutter(ctx, session); err != nil {
			return ErrMsg{Err: err, Context: "taking photo"}
		}
		time.Sleep(500 * time.Millisecond)

		newest, ok := cat.Newest(ctx)
		if !ok {
			return ErrMsg{Err: fmt.Errorf("no capture appeared on the phone"), Context: "taking photo"}
		}
		assets := puller.PullAll(ctx, []domain.RemoteFileEntry{newest}, saveDir)
		if len(assets) == 0 {
			return ErrMsg{Err: fmt.Errorf("failed to pull %s", newest.Name), Context: "taking photo"}
		}
		return PhotoTakenMsg{LocalPath: assets[0].LocalPath}
	}
}

// pullForReviewCmd pulls the current catalog into destDir for a
// standalone review
func pullForReviewCmd(cat *catalog.Catalog, puller *cache.Puller, destDir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
		defer cancel()

		entries := cat.List(ctx)
		assets := puller.PullAll(ctx, entries, destDir)
		return ReviewReadyMsg{Assets: assets}
	}
}

// intakeReviewCmd pulls the phone's current contents through the
// workflow for an interim look before the batch is finalized
func intakeReviewCmd(wf *intake.Workflow, tempDir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
		defer cancel()

		return ReviewReadyMsg{Assets: wf.PullForReview(ctx, tempDir), Transient: true}
	}
}

// downloadAllCmd pulls every remote file straight into the save dir
func downloadAllCmd(cat *catalog.Catalog, puller *cache.Puller, saveDir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
		defer cancel()

		entries := cat.List(ctx)
		assets := puller.PullAll(ctx, entries, saveDir)
		return DownloadDoneMsg{Count: len(assets), Dest: saveDir}
	}
}

// deleteRemoteSelectedCmd deletes the selected assets from the phone
func deleteRemoteSelectedCmd(sess *review.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
		defer cancel()

		return RemoteDeletedMsg{Result: sess.DeleteRemoteSelected(ctx)}
	}
}

// exportCmd copies review assets into destDir
func exportCmd(sess *review.Session, destDir string, selectedOnly bool) tea.Cmd {
	return func() tea.Msg {
		return ExportDoneMsg{Result: sess.Export(destDir, selectedOnly), Dest: destDir}
	}
}

// finalizeCmd runs the intake workflow's pull-and-clear step
func finalizeCmd(wf *intake.Workflow) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
		defer cancel()

		return FinalizeDoneMsg{Result: wf.Finalize(ctx)}
	}
}

// recentIntakesCmd loads the intake history from the ledger
func recentIntakesCmd(ledger *intake.Ledger, n int) tea.Cmd {
	return func() tea.Msg {
		if ledger == nil {
			return RecentIntakesMsg{}
		}
		records, err := ledger.Recent(n)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading intake history"}
		}
		return RecentIntakesMsg{Records: records}
	}
}

// loadMetaCmd reads the inspector line for a local photo
func loadMetaCmd(path string) tea.Cmd {
	return func() tea.Msg {
		info, err := meta.Read(path)
		if err != nil {
			return MetaLoadedMsg{Path: path, Line: filepath.Base(path)}
		}
		line := info.TakenAt
		if info.Camera != "" {
			line += " · " + info.Camera
		}
		line += fmt.Sprintf(" · %.1f MB", float64(info.SizeBytes)/(1024*1024))
		return MetaLoadedMsg{Path: path, Line: line}
	}
}
