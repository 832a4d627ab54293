package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/cmercer/camdeck/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTransfer writes a stub file per pull and counts transfers.
type fakeTransfer struct {
	pulls int
	fail  map[string]bool
}

func (f *fakeTransfer) Pull(ctx context.Context, remotePath, localPath string) error {
	if f.fail[path.Base(remotePath)] {
		return errors.New("pull failed")
	}
	f.pulls++
	return os.WriteFile(localPath, []byte("image-data"), 0644)
}

func entries(names ...string) []domain.RemoteFileEntry {
	out := make([]domain.RemoteFileEntry, len(names))
	for i, n := range names {
		out[i] = domain.RemoteFileEntry{Name: n}
	}
	return out
}

func TestPullAllIsIdempotent(t *testing.T) {
	dest := t.TempDir()
	ft := &fakeTransfer{}
	puller := New(ft, "/sdcard/DCIM/Camera", testLogger())
	listing := entries("a.jpg", "b.jpg", "c.mp4")

	first := puller.PullAll(context.Background(), listing, dest)
	if len(first) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(first))
	}
	if ft.pulls != 3 {
		t.Fatalf("expected 3 transfers, got %d", ft.pulls)
	}

	second := puller.PullAll(context.Background(), listing, dest)
	if len(second) != 3 {
		t.Fatalf("expected 3 assets on repeat, got %d", len(second))
	}
	if ft.pulls != 3 {
		t.Errorf("repeat pull must not transfer again, got %d transfers", ft.pulls)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("asset %d changed between calls: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestPullAllOmitsFailedFiles(t *testing.T) {
	dest := t.TempDir()
	ft := &fakeTransfer{fail: map[string]bool{"b.jpg": true}}
	puller := New(ft, "/sdcard/DCIM/Camera", testLogger())

	assets := puller.PullAll(context.Background(), entries("a.jpg", "b.jpg", "c.jpg"), dest)

	if len(assets) != 2 {
		t.Fatalf("expected the failed file to be omitted, got %d assets", len(assets))
	}
	for _, asset := range assets {
		if asset.RemoteName == "b.jpg" {
			t.Errorf("failed pull must not surface as an asset")
		}
	}
}

func TestPullAllIncludesPreexistingFiles(t *testing.T) {
	dest := t.TempDir()
	if err := os.WriteFile(filepath.Join(dest, "old.jpg"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// Even a failing transport cannot hide a file that is already local
	ft := &fakeTransfer{fail: map[string]bool{"old.jpg": true}}
	assets := New(ft, "/sdcard/DCIM/Camera", testLogger()).
		PullAll(context.Background(), entries("old.jpg"), dest)

	if len(assets) != 1 || assets[0].RemoteName != "old.jpg" {
		t.Fatalf("pre-existing file must be included, got %v", assets)
	}
	if ft.pulls != 0 {
		t.Errorf("pre-existing file must not be transferred")
	}
}

func TestPullAllPreservesListingOrder(t *testing.T) {
	dest := t.TempDir()
	listing := entries("z.jpg", "a.jpg", "m.jpg")

	assets := New(&fakeTransfer{}, "/sdcard/DCIM/Camera", testLogger()).
		PullAll(context.Background(), listing, dest)

	for i, entry := range listing {
		if assets[i].RemoteName != entry.Name {
			t.Errorf("position %d: expected %s, got %s", i, entry.Name, assets[i].RemoteName)
		}
		if filepath.Base(assets[i].LocalPath) != entry.Name {
			t.Errorf("local basename must equal remote name, got %s", assets[i].LocalPath)
		}
	}
}
