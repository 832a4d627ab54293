package adb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cmercer/camdeck/internal/domain"
)

// Session owns the currently addressed device. It routes every shell
// and pull call through the active handle once one is established, and
// drops the handle whenever a call reports the device offline, so the
// next operation reconnects instead of retrying a stale target.
//
// State machine: Disconnected -> Connected -> (Disconnected on failure).
type Session struct {
	transport *Transport
	port      int
	logger    *slog.Logger

	mu     sync.Mutex
	handle *domain.DeviceHandle
}

// NewSession creates a Session over the given transport. port is the
// wireless debug port, conventionally 5555.
func NewSession(transport *Transport, port int, logger *slog.Logger) *Session {
	if port <= 0 {
		port = 5555
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		transport: transport,
		port:      port,
		logger:    logger,
	}
}

// Current returns the active device handle, if any.
func (s *Session) Current() (domain.DeviceHandle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return domain.DeviceHandle{}, false
	}
	return *s.handle, true
}

// Invalidate drops the active handle.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle != nil {
		s.logger.Info("invalidating device handle", "address", s.handle.Address)
		s.handle = nil
	}
}

// route prefixes args with the serial selector when a handle exists,
// so commands stay unambiguous with multiple devices attached.
func (s *Session) route(args ...string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return args
	}
	return append([]string{"-s", s.handle.Address}, args...)
}

// Shell implements domain.DeviceShell.
func (s *Session) Shell(ctx context.Context, timeout time.Duration, args ...string) (domain.ShellResult, error) {
	res, err := s.transport.Command(ctx, timeout, s.route(append([]string{"shell"}, args...)...)...)
	if errors.Is(err, domain.ErrDeviceOffline) {
		s.Invalidate()
	}
	return res, err
}

// Pull implements domain.FileTransfer.
func (s *Session) Pull(ctx context.Context, remotePath, localPath string) error {
	_, err := s.transport.Command(ctx, PullTimeout, s.route("pull", remotePath, localPath)...)
	if errors.Is(err, domain.ErrDeviceOffline) {
		s.Invalidate()
	}
	return err
}

// ConnectWirelessly switches the device to network debugging and
// connects to it over Wi-Fi. Precondition (surfaced to the user, not
// checked in-band): the phone is already attached over USB with
// debugging enabled and on the same network.
func (s *Session) ConnectWirelessly(ctx context.Context) (domain.DeviceHandle, error) {
	res, err := s.transport.Command(ctx, DefaultTimeout, "shell", "ip", "route")
	if err != nil {
		return domain.DeviceHandle{}, fmt.Errorf("querying device routes: %w", err)
	}
	if strings.TrimSpace(res.Stdout) == "" || !strings.Contains(res.Stdout, "src") {
		return domain.DeviceHandle{}, domain.ErrNoRouteFound
	}

	ip, ok := parseRouteSource(res.Stdout)
	if !ok {
		return domain.DeviceHandle{}, domain.ErrRouteParse
	}

	if _, err := s.transport.Command(ctx, DefaultTimeout, "tcpip", strconv.Itoa(s.port)); err != nil {
		return domain.DeviceHandle{}, fmt.Errorf("enabling tcp mode: %w", err)
	}

	address := net.JoinHostPort(ip, strconv.Itoa(s.port))
	res, err = s.transport.Command(ctx, DefaultTimeout, "connect", address)
	if err != nil {
		return domain.DeviceHandle{}, fmt.Errorf("connecting to %s: %w", address, err)
	}
	if !strings.Contains(strings.ToLower(res.Combined()), "connected to") {
		return domain.DeviceHandle{}, fmt.Errorf("%w: %s", domain.ErrConnectRejected, res.Combined())
	}

	handle := domain.DeviceHandle{Address: address, EstablishedAt: time.Now()}
	s.mu.Lock()
	s.handle = &handle
	s.mu.Unlock()

	s.logger.Info("connected wirelessly", "address", address)
	return handle, nil
}

// parseRouteSource extracts the device's own IP from `ip route`
// output: the token immediately following the last "src" marker.
func parseRouteSource(out string) (string, bool) {
	idx := strings.LastIndex(out, "src")
	if idx < 0 {
		return "", false
	}
	fields := strings.Fields(out[idx+len("src"):])
	if len(fields) == 0 {
		return "", false
	}
	if net.ParseIP(fields[0]) == nil {
		return "", false
	}
	return fields[0], true
}
