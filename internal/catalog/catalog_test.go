package catalog

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/cmercer/camdeck/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeShell dispatches on the command verb and records every call.
type fakeShell struct {
	calls [][]string
	fn    func(args []string) (domain.ShellResult, error)
}

func (f *fakeShell) Shell(ctx context.Context, timeout time.Duration, args ...string) (domain.ShellResult, error) {
	f.calls = append(f.calls, args)
	return f.fn(args)
}

func listingShell(listing string) *fakeShell {
	sh := &fakeShell{}
	sh.fn = func(args []string) (domain.ShellResult, error) {
		switch args[0] {
		case "ls":
			return domain.ShellResult{Stdout: listing}, nil
		case "rm":
			return domain.ShellResult{}, nil
		default:
			return domain.ShellResult{}, nil
		}
	}
	return sh
}

func TestListFiltersUnrecognizedNames(t *testing.T) {
	listing := strings.Join([]string{
		"20260831_101502.jpg",
		"20260831_101509.mp4",
		"clip.MOV",
		".thumbnails", // no recognized extension
		"notes",       // no dot at all
		"archive.zip", // dot but unknown extension
		"",
	}, "\n")

	cat := New(listingShell(listing), "", testLogger())
	entries := cat.List(context.Background())

	want := []string{"20260831_101502.jpg", "20260831_101509.mp4", "clip.MOV"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(entries), entries)
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entry %d: expected %s, got %s", i, name, entries[i].Name)
		}
	}
	if entries[0].Kind != domain.MediaKindImage {
		t.Errorf("expected jpg to be an image")
	}
	if entries[1].Kind != domain.MediaKindVideo {
		t.Errorf("expected mp4 to be a video")
	}
}

func TestListMissingDirectoryIsEmpty(t *testing.T) {
	sh := &fakeShell{fn: func(args []string) (domain.ShellResult, error) {
		return domain.ShellResult{
			Stderr:   "ls: /sdcard/DCIM/Camera: No such file or directory",
			ExitCode: 1,
		}, nil
	}}

	if entries := New(sh, "", testLogger()).List(context.Background()); entries != nil {
		t.Fatalf("missing directory must be a normal empty state, got %v", entries)
	}
}

func TestListShellErrorIsEmpty(t *testing.T) {
	sh := &fakeShell{fn: func(args []string) (domain.ShellResult, error) {
		return domain.ShellResult{}, domain.ErrDeviceOffline
	}}

	if entries := New(sh, "", testLogger()).List(context.Background()); entries != nil {
		t.Fatalf("a failed shell call must yield an empty listing, got %v", entries)
	}
}

func TestDeleteFileQuotesName(t *testing.T) {
	sh := listingShell("")
	cat := New(sh, "/sdcard/DCIM/Camera", testLogger())

	if err := cat.DeleteFile(context.Background(), "it's a photo.jpg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := strings.Join(sh.calls[0], " ")
	want := `rm -f '/sdcard/DCIM/Camera/it'\''s a photo.jpg'`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDeleteAllClassifiesOutcomes(t *testing.T) {
	listing := "a.jpg\nb.jpg\nc.jpg"
	sh := &fakeShell{}
	sh.fn = func(args []string) (domain.ShellResult, error) {
		if args[0] == "ls" {
			return domain.ShellResult{Stdout: listing}, nil
		}
		// rm: b.jpg already gone, c.jpg a real failure
		target := args[len(args)-1]
		switch {
		case strings.Contains(target, "b.jpg"):
			return domain.ShellResult{Stderr: "rm: b.jpg: No such file or directory", ExitCode: 1}, nil
		case strings.Contains(target, "c.jpg"):
			return domain.ShellResult{Stderr: "rm: c.jpg: Permission denied", ExitCode: 1}, nil
		default:
			return domain.ShellResult{}, nil
		}
	}

	summary := New(sh, "", testLogger()).DeleteAll(context.Background(), Options{})
	if summary.Deleted != 1 || summary.Skipped != 1 || summary.Errors != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !summary.Failed() {
		t.Errorf("a permission failure must mark the summary failed")
	}
}

func TestDeleteAllOptionalCleanup(t *testing.T) {
	sh := listingShell("a.jpg")
	summary := New(sh, "", testLogger()).DeleteAll(context.Background(), Options{
		ClearThumbnails: true,
		RescanMedia:     true,
	})

	if summary.Deleted != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var sawThumbnails, sawRescan bool
	for _, call := range sh.calls {
		joined := strings.Join(call, " ")
		if strings.Contains(joined, ".thumbnails") {
			sawThumbnails = true
		}
		if call[0] == "am" && strings.Contains(joined, "MEDIA_SCANNER_SCAN_FILE") {
			sawRescan = true
		}
	}
	if !sawThumbnails {
		t.Errorf("expected a thumbnail cache clear")
	}
	if !sawRescan {
		t.Errorf("expected a media rescan broadcast")
	}
}

func TestNewestSkipsUnrecognizedNames(t *testing.T) {
	sh := &fakeShell{fn: func(args []string) (domain.ShellResult, error) {
		return domain.ShellResult{Stdout: ".thumbnails\nnewest.jpg\nolder.jpg"}, nil
	}}

	entry, ok := New(sh, "", testLogger()).Newest(context.Background())
	if !ok || entry.Name != "newest.jpg" {
		t.Fatalf("expected newest.jpg, got %v %v", entry, ok)
	}
}
