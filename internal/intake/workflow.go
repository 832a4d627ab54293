package intake

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmercer/camdeck/internal/cache"
	"github.com/cmercer/camdeck/internal/catalog"
	"github.com/cmercer/camdeck/internal/domain"
)

// Stage is the workflow's current position:
//
//	PromptTag -> (ResolveConflict)? -> AwaitCapture -> ReviewLoop -> Done
type Stage int

const (
	StagePromptTag Stage = iota
	StageResolveConflict
	StageAwaitCapture
	StageReviewLoop
	StageDone
)

// ConflictChoice resolves a tag whose destination already has files.
// There is no default; the presentation layer must obtain an explicit
// choice.
type ConflictChoice int

const (
	ConflictAppend ConflictChoice = iota // proceed into the existing directory
	ConflictRetry                        // go back and prompt for a different tag
	ConflictAbort                        // end the workflow
)

// LoopChoice is the finish / view-now / capture-more decision.
type LoopChoice int

const (
	LoopFinish LoopChoice = iota
	LoopView
	LoopMore
)

// FinalizeResult reports the outcome of the final pull-and-clear step.
// Pull success is never retracted by a later cleanup failure.
type FinalizeResult struct {
	Tag          string
	Dest         string
	Pulled       int
	PullFailures int
	Cleaned      bool // whether delete-after ran
	Cleanup      domain.DeleteSummary
}

// Message renders the user-facing summary, distinguishing what
// succeeded from what failed.
func (r FinalizeResult) Message() string {
	if r.Pulled == 0 && r.PullFailures == 0 {
		return "No photos found on the phone."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Saved %d file(s) to %s.", r.Pulled, r.Dest)
	if r.PullFailures > 0 {
		fmt.Fprintf(&b, " %d file(s) could not be pulled.", r.PullFailures)
	}
	switch {
	case !r.Cleaned:
		b.WriteString(" Phone photos were not deleted.")
	case r.Cleanup.Failed():
		fmt.Fprintf(&b, " Phone cleanup failed for %d file(s).", r.Cleanup.Errors)
	default:
		b.WriteString(" Phone camera folder cleared.")
	}
	return b.String()
}

// Workflow orchestrates one capture batch: tag it, wait for the user
// to shoot, optionally review, then pull everything into the tag's
// destination directory and clear the device.
type Workflow struct {
	catalog     *catalog.Catalog
	puller      *cache.Puller
	ledger      *Ledger // optional
	saveRoot    string
	deleteAfter bool
	deleteOpts  catalog.Options
	logger      *slog.Logger

	stage   Stage
	tag     string
	dest    string
	aborted bool
}

// NewWorkflow creates a workflow rooted at saveRoot. ledger may be nil
// when no history should be kept.
func NewWorkflow(cat *catalog.Catalog, puller *cache.Puller, ledger *Ledger, saveRoot string, deleteAfter bool, deleteOpts catalog.Options, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		catalog:     cat,
		puller:      puller,
		ledger:      ledger,
		saveRoot:    saveRoot,
		deleteAfter: deleteAfter,
		deleteOpts:  deleteOpts,
		logger:      logger,
		stage:       StagePromptTag,
	}
}

// Stage returns the workflow's current stage.
func (w *Workflow) Stage() Stage { return w.stage }

// Tag returns the accepted asset tag.
func (w *Workflow) Tag() string { return w.tag }

// Dest returns the resolved destination directory.
func (w *Workflow) Dest() string { return w.dest }

// Aborted reports whether the workflow ended without finalizing.
func (w *Workflow) Aborted() bool { return w.aborted }

// SubmitTag accepts the user's asset tag. Empty or cancelled input
// aborts the whole workflow. A tag whose directory already has files
// moves to StageResolveConflict instead of proceeding.
func (w *Workflow) SubmitTag(tag string) Stage {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		w.abort()
		return w.stage
	}

	w.tag = tag
	w.dest = filepath.Join(w.saveRoot, tag)

	if dirHasFiles(w.dest) {
		w.stage = StageResolveConflict
	} else {
		w.stage = StageAwaitCapture
	}
	return w.stage
}

// ResolveConflict applies the user's explicit choice for an existing
// non-empty tag directory.
func (w *Workflow) ResolveConflict(choice ConflictChoice) Stage {
	switch choice {
	case ConflictAppend:
		w.stage = StageAwaitCapture
	case ConflictRetry:
		w.tag, w.dest = "", ""
		w.stage = StagePromptTag
	case ConflictAbort:
		w.abort()
	}
	return w.stage
}

// CaptureAcknowledged moves past the "capture photos now" notice. No
// device polling happens during capture; the camera runs on the phone
// itself.
func (w *Workflow) CaptureAcknowledged() Stage {
	if w.stage == StageAwaitCapture {
		w.stage = StageReviewLoop
	}
	return w.stage
}

// Choose applies the finish / view / more decision. LoopView keeps the
// workflow in the review loop; the caller runs a transient review via
// PullForReview and comes back. LoopMore returns to AwaitCapture.
// LoopFinish leaves the workflow ready for Finalize.
func (w *Workflow) Choose(choice LoopChoice) Stage {
	if w.stage != StageReviewLoop {
		return w.stage
	}
	switch choice {
	case LoopMore:
		w.stage = StageAwaitCapture
	case LoopFinish:
		w.stage = StageDone
	}
	return w.stage
}

// PullForReview pulls whatever currently exists on the device into a
// transient directory for an interim review session. The transient
// directory is not the final destination.
func (w *Workflow) PullForReview(ctx context.Context, tempDir string) []domain.LocalAsset {
	entries := w.catalog.List(ctx)
	if len(entries) == 0 {
		return nil
	}
	return w.puller.PullAll(ctx, entries, tempDir)
}

// Finalize pulls every remote file into the resolved destination and,
// if configured, clears the device afterward. Per-file pull failures
// never abort the batch; a cleanup failure is reported alongside the
// save result, never in place of it.
func (w *Workflow) Finalize(ctx context.Context) FinalizeResult {
	result := FinalizeResult{Tag: w.tag, Dest: w.dest}

	entries := w.catalog.List(ctx)
	if len(entries) == 0 {
		w.stage = StageDone
		return result
	}

	assets := w.puller.PullAll(ctx, entries, w.dest)
	result.Pulled = len(assets)
	result.PullFailures = len(entries) - len(assets)

	if w.deleteAfter {
		result.Cleaned = true
		result.Cleanup = w.catalog.DeleteAll(ctx, w.deleteOpts)
	}

	if w.ledger != nil && result.Pulled > 0 {
		rec := domain.IntakeRecord{
			Tag:         w.tag,
			DestDir:     w.dest,
			PulledCount: result.Pulled,
			CompletedAt: time.Now(),
		}
		if err := w.ledger.Record(rec); err != nil {
			w.logger.Warn("failed to record intake", "tag", w.tag, "error", err)
		}
	}

	w.stage = StageDone
	w.logger.Info("intake finalized",
		"tag", w.tag, "pulled", result.Pulled,
		"pull_failures", result.PullFailures, "cleaned", result.Cleaned)
	return result
}

func (w *Workflow) abort() {
	w.aborted = true
	w.stage = StageDone
}

func dirHasFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
