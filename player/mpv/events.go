package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/eventcast/eventcast/log"
)

// EventCallback is the function signature for mpv event notifications.
// Property changes pass the property name; other events pass the event name and the whole message.
type EventCallback func(name string, data any)

// observedProperties are pushed by mpv whenever they change.
var observedProperties = []string{
	"time-pos",
	"duration",
	"pause",
	"speed",
	"volume",
	"demuxer-cache-state",
	"path",
}

// EventListener provides real-time mpv event monitoring via observe_property.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   EventCallback
	done       chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a new event listener for the given socket.
func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		done:       make(chan struct{}),
	}
}

// Start opens a persistent connection, registers the property observers on it
// and starts the read loop. Observers belong to the connection that created them.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	reader := bufio.NewReader(conn)
	for i, name := range observedProperties {
		if _, err := roundTrip(conn, reader, []any{"observe_property", i + 1, name}, el.processEvent); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		conn.Close()
		return fmt.Errorf("clear deadline: %w", err)
	}

	el.conn = conn
	el.listening = true
	go el.readLoop(reader)

	log.WithFields(log.Fields{"socket": el.socketPath, "properties": len(observedProperties)}).
		Info("mpv event listener started")
	return nil
}

// Stop terminates the event listener.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	el.listening = false
	close(el.done)
	if el.conn != nil {
		el.conn.Close()
	}
}

// Done is closed when the listener stops, either by Stop or because mpv went away.
func (el *EventListener) Done() <-chan struct{} {
	return el.done
}

// readLoop reads newline-delimited events until the connection closes.
func (el *EventListener) readLoop(reader *bufio.Reader) {
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			el.processEvent(line)
		}
		if err == nil {
			continue
		}

		el.mu.Lock()
		stopped := !el.listening
		if !stopped {
			el.listening = false
			close(el.done)
		}
		el.mu.Unlock()

		if !stopped && !errors.Is(err, net.ErrClosed) {
			log.Warnf("mpv event listener read error: %v", err)
		}
		return
	}
}

// processEvent parses and dispatches a single mpv event line.
func (el *EventListener) processEvent(line []byte) {
	if el.callback == nil {
		return
	}

	var event map[string]any
	if err := json.Unmarshal(line, &event); err != nil {
		return
	}

	eventType, ok := event["event"].(string)
	if !ok {
		return
	}

	switch eventType {
	case "property-change":
		if name, _ := event["name"].(string); name != "" {
			el.callback(name, event["data"])
		}
	default:
		// e.g. end-file, playback-restart
		el.callback(eventType, event)
	}
}
