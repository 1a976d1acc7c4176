package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// ipcMessage is anything mpv writes back: a reply carries request_id and error, an event carries event.
type ipcMessage struct {
	Data      any    `json:"data"`
	Error     string `json:"error"`
	RequestID int64  `json:"request_id"`
	Event     string `json:"event"`
}

const (
	defaultRetries = 3
	retryDelay     = 100 * time.Millisecond
	readDeadline   = time.Second
)

var requestSeq atomic.Int64

// CommandError is a failure reported by mpv itself. It is never retried.
type CommandError struct {
	Command string
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("mpv: %s: %s", e.Command, e.Message)
}

// ErrPropertyUnavailable matches, through errors.Is, the CommandError mpv returns for a
// property without a value, which is normal while nothing is loaded.
var ErrPropertyUnavailable = errors.New("property unavailable")

func (e *CommandError) Is(target error) bool {
	return target == ErrPropertyUnavailable && e.Message == ErrPropertyUnavailable.Error()
}

// IsPropertyUnavailable is shorthand for errors.Is(err, ErrPropertyUnavailable).
func IsPropertyUnavailable(err error) bool {
	return errors.Is(err, ErrPropertyUnavailable)
}

// sendCommand sends one JSON-IPC command, retrying transient connection errors.
// Commands are serialized.
func (m *MPV) sendCommand(command ...any) (any, error) {
	m.ipcMu.Lock()
	defer m.ipcMu.Unlock()

	m.mu.Lock()
	socketPath, retries := m.socketPath, m.retries
	m.mu.Unlock()

	if socketPath == "" {
		return nil, ErrNotRunning
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := doSendCommand(socketPath, command)
		if err == nil {
			return result, nil
		}

		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", retries, lastErr)
}

// doSendCommand performs a single IPC round trip on a fresh connection.
// Events broadcast to the connection before the reply are skipped.
func doSendCommand(socketPath string, command []any) (any, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	return roundTrip(conn, bufio.NewReader(conn), command, nil)
}

// roundTrip writes command and reads until its reply. Events read on the way are
// handed to onEvent when it is set.
func roundTrip(conn net.Conn, reader *bufio.Reader, command []any, onEvent func([]byte)) (any, error) {
	id := requestSeq.Add(1)

	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// mpv requires newline-delimited JSON
	if _, err = conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		var msg ipcMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		if msg.Event != "" {
			if onEvent != nil {
				onEvent(line)
			}
			continue
		}
		if msg.RequestID != id {
			continue
		}

		if msg.Error != "" && msg.Error != "success" {
			name, _ := command[0].(string)
			return nil, &CommandError{Command: name, Message: msg.Error}
		}

		return msg.Data, nil
	}
}
