package adb

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/cmercer/camdeck/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type scripted struct {
	res domain.ShellResult
	err error
}

// fakeRunner replays scripted results in order and records every call.
type fakeRunner struct {
	calls   [][]string
	results []scripted
}

func (f *fakeRunner) Run(ctx context.Context, name string, args []string) (domain.ShellResult, error) {
	f.calls = append(f.calls, args)
	if len(f.results) == 0 {
		return domain.ShellResult{}, nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.res, r.err
}

func newTestTransport(runner Runner) *Transport {
	return &Transport{adbPath: "adb", runner: runner, logger: testLogger()}
}

func TestCommandMapsOfflineMarkers(t *testing.T) {
	tests := []struct {
		name    string
		res     domain.ShellResult
		offline bool
	}{
		{
			name:    "offline in stderr with non-zero exit",
			res:     domain.ShellResult{Stderr: "adb: error: device offline", ExitCode: 1},
			offline: true,
		},
		{
			name:    "device not found with serial",
			res:     domain.ShellResult{Stderr: "adb: error: device '192.168.1.50:5555' not found", ExitCode: 1},
			offline: true,
		},
		{
			name:    "device not found without serial",
			res:     domain.ShellResult{Stderr: "error: device not found", ExitCode: 1},
			offline: true,
		},
		{
			name:    "no devices",
			res:     domain.ShellResult{Stderr: "adb: no devices/emulators found", ExitCode: 1},
			offline: true,
		},
		{
			name:    "zero exit never classified offline",
			res:     domain.ShellResult{Stdout: "offline.jpg\nphoto.jpg", ExitCode: 0},
			offline: false,
		},
		{
			name:    "plain failure stays a plain result",
			res:     domain.ShellResult{Stderr: "rm: permission denied", ExitCode: 1},
			offline: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTransport(&fakeRunner{results: []scripted{{res: tt.res}}})
			_, err := tr.Command(context.Background(), 0, "shell", "ls")
			if tt.offline && !errors.Is(err, domain.ErrDeviceOffline) {
				t.Fatalf("expected ErrDeviceOffline, got %v", err)
			}
			if !tt.offline && errors.Is(err, domain.ErrDeviceOffline) {
				t.Fatalf("unexpected ErrDeviceOffline for %q", tt.res.Combined())
			}
		})
	}
}

func TestCommandPassesThroughSentinels(t *testing.T) {
	for _, sentinel := range []error{domain.ErrTransportUnavailable, domain.ErrTimeout} {
		tr := newTestTransport(&fakeRunner{results: []scripted{{err: sentinel}}})
		_, err := tr.Command(context.Background(), 0, "devices")
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected %v, got %v", sentinel, err)
		}
	}
}

func TestCommandReturnsStructuredResult(t *testing.T) {
	runner := &fakeRunner{results: []scripted{{
		res: domain.ShellResult{Stdout: "a.jpg\nb.jpg", Stderr: "warn", ExitCode: 0},
	}}}
	tr := newTestTransport(runner)

	res, err := tr.Command(context.Background(), 0, "shell", "ls", "-1", "/sdcard/DCIM/Camera")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stdout != "a.jpg\nb.jpg" {
		t.Errorf("unexpected stdout: %q", res.Stdout)
	}
	if res.Combined() != "a.jpg\nb.jpg\nwarn" {
		t.Errorf("unexpected combined output: %q", res.Combined())
	}
	if len(runner.calls) != 1 || runner.calls[0][0] != "shell" {
		t.Errorf("unexpected call recording: %v", runner.calls)
	}
}
