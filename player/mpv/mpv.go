// Package mpv drives an mpv process over its JSON-IPC socket and exposes it as the
// engine's streaming session and media element.
package mpv

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/eventcast/eventcast/constant"
	"github.com/eventcast/eventcast/log"
	"github.com/eventcast/eventcast/player"
	"github.com/eventcast/eventcast/where"
	"github.com/sirupsen/logrus"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// ErrNotRunning is returned by IPC calls made before Start or after Close.
var ErrNotRunning = errors.New("mpv is not running")

// ErrLoadSuperseded is returned by a Load that a later Load replaced before mpv opened it.
var ErrLoadSuperseded = errors.New("load superseded")

// MPV implements player.Session and player.MediaElement on top of a single idle mpv process.
type MPV struct {
	binary string

	// lifecycle
	procMu   sync.Mutex
	cmd      *exec.Cmd
	exited   chan struct{}
	listener *EventListener

	// ipcMu serializes socket round trips
	ipcMu sync.Mutex

	mu         sync.Mutex
	socketPath string
	retries    int
	config     player.SessionConfig
	state      state
	timeUpdate map[int]func()
	nextID     int
	loadSeq    uint64

	supportedOnce sync.Once
	supported     bool
}

// Option configures an MPV.
type Option func(*MPV)

// WithBinary sets the mpv executable, looked up on PATH when not absolute.
func WithBinary(path string) Option {
	return func(m *MPV) {
		if path != "" {
			m.binary = path
		}
	}
}

// New creates an MPV backend. The process is not started until Start.
func New(opts ...Option) *MPV {
	m := &MPV{
		binary:     "mpv",
		exited:     make(chan struct{}),
		retries:    defaultRetries,
		config:     player.DefaultSessionConfig(),
		state:      newState(),
		timeUpdate: make(map[int]func()),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *MPV) logger() *logrus.Entry {
	return log.WithFields(log.Fields{"component": "mpv"})
}

// Start spawns mpv in idle mode, waits for its IPC socket and subscribes to property changes.
// Calling Start on a running instance does nothing.
func (m *MPV) Start(ctx context.Context) error {
	m.procMu.Lock()
	defer m.procMu.Unlock()

	if m.runningLocked() {
		return nil
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	socketPath := filepath.Join(where.Temp(), fmt.Sprintf("%s-%x.sock", constant.Eventcast, randomBytes))

	m.mu.Lock()
	args := append([]string{
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		"--no-video",
		"--input-ipc-server=" + socketPath,
	}, configArgs(m.config)...)
	m.mu.Unlock()

	cmd := exec.Command(m.binary, args...)

	// Detach from the parent process group so terminal signals reach us, not mpv.
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	m.cmd = cmd
	m.exited = exited

	if err := waitForSocket(ctx, socketPath, exited); err != nil {
		select {
		case <-exited:
		default:
			m.logger().Warn("killing mpv: socket never became ready")
			_ = killProcess(cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.mu.Lock()
	m.socketPath = socketPath
	m.mu.Unlock()

	m.listener = NewEventListener(socketPath, m.handleEvent)
	if err := m.listener.Start(); err != nil {
		m.closeLocked()
		return err
	}

	m.logger().WithFields(logrus.Fields{"pid": cmd.Process.Pid, "socket": socketPath}).Info("mpv started")
	return nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	m.procMu.Lock()
	defer m.procMu.Unlock()
	return m.exited
}

func (m *MPV) runningLocked() bool {
	if m.cmd == nil {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func waitForSocket(ctx context.Context, socketPath string, exited <-chan struct{}) error {
	for i := 0; i < socketWaitRetries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-exited:
			return errors.New("mpv exited before socket was ready")
		case <-time.After(socketWaitDelay):
		}

		conn, err := net.Dial("unix", socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", socketPath, socketWaitRetries)
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	m.procMu.Lock()
	defer m.procMu.Unlock()
	return m.closeLocked()
}

func (m *MPV) closeLocked() error {
	if m.listener != nil {
		m.listener.Stop()
		m.listener = nil
	}

	m.mu.Lock()
	socketPath := m.socketPath
	m.mu.Unlock()

	if m.cmd == nil {
		return nil
	}

	if socketPath != "" {
		_, _ = m.sendCommand("quit")
	}

	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		_ = killProcess(m.cmd)
	}

	m.mu.Lock()
	m.socketPath = ""
	m.state = newState()
	m.mu.Unlock()

	m.cmd = nil
	if socketPath != "" {
		_ = os.Remove(socketPath)
	}

	return nil
}

// Supported reports whether the mpv binary can be found. The lookup happens once.
func (m *MPV) Supported() bool {
	m.supportedOnce.Do(func() {
		_, err := exec.LookPath(m.binary)
		m.supported = err == nil
	})
	return m.supported
}

func (m *MPV) set(property string, value any) error {
	_, err := m.sendCommand("set_property", property, value)
	return err
}

func (m *MPV) getString(name string) (string, error) {
	data, err := m.sendCommand("get_property", name)
	if err != nil {
		return "", err
	}

	s, ok := data.(string)
	if !ok {
		return "", fmt.Errorf("property %s: expected string, got %T", name, data)
	}
	return s, nil
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in URL")
	}

	// would be parsed as an option by loadfile
	if strings.HasPrefix(l, "-") {
		return "", errors.New("url must not start with '-'")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}
