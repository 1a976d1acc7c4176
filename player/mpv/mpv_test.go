package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/eventcast/eventcast/player"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeServer speaks just enough of mpv's IPC protocol to drive MPV without a process.
type fakeServer struct {
	mu       sync.Mutex
	dir      string
	path     string
	listener net.Listener
	commands [][]any
	props    map[string]any

	// ignoreLoads leaves path untouched on loadfile
	ignoreLoads bool
}

func newFakeServer() *fakeServer {
	dir, err := os.MkdirTemp("", "mpv")
	So(err, ShouldBeNil)

	path := filepath.Join(dir, "s.sock")
	listener, err := net.Listen("unix", path)
	So(err, ShouldBeNil)

	s := &fakeServer{dir: dir, path: path, listener: listener, props: make(map[string]any)}
	go s.serve()
	return s
}

func (s *fakeServer) close() {
	s.listener.Close()
	os.RemoveAll(s.dir)
}

func (s *fakeServer) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeServer) handle(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}

		var cmd ipcCommand
		if err := json.Unmarshal(line, &cmd); err != nil {
			return
		}

		for _, out := range s.reply(cmd) {
			if _, err := conn.Write(append(out, '\n')); err != nil {
				return
			}
		}
	}
}

func (s *fakeServer) reply(cmd ipcCommand) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commands = append(s.commands, cmd.Command)

	var (
		out  [][]byte
		resp = map[string]any{"request_id": cmd.RequestID, "error": "success"}
	)

	switch cmd.Command[0] {
	case "get_property":
		if v, ok := s.props[cmd.Command[1].(string)]; ok {
			resp["data"] = v
		} else {
			resp["error"] = "property unavailable"
		}
	case "set_property":
		s.props[cmd.Command[1].(string)] = cmd.Command[2]
	case "loadfile":
		if !s.ignoreLoads {
			s.props["path"] = cmd.Command[1]
		}
	case "observe_property":
		name := cmd.Command[2].(string)
		if v, ok := s.props[name]; ok {
			event, _ := json.Marshal(map[string]any{"event": "property-change", "name": name, "data": v})
			out = append(out, event)
		}
	}

	// an unrelated broadcast before every reply
	noise, _ := json.Marshal(map[string]any{"event": "idle"})
	out = append(out, noise)

	body, _ := json.Marshal(resp)
	return append(out, body)
}

func (s *fakeServer) setIgnoreLoads(ignore bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignoreLoads = ignore
}

func (s *fakeServer) sawCommand(name string) bool {
	for _, n := range s.names() {
		if n == name {
			return true
		}
	}
	return false
}

func (s *fakeServer) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.commands))
	for _, c := range s.commands {
		name := c[0].(string)
		if name == "set_property" {
			name += " " + c[1].(string)
		}
		names = append(names, name)
	}
	return names
}

func newAttached(s *fakeServer) *MPV {
	m := New()
	m.socketPath = s.path
	return m
}

func TestIPC(t *testing.T) {
	Convey("Given an MPV attached to a fake socket", t, func() {
		server := newFakeServer()
		Reset(server.close)
		m := newAttached(server)

		Convey("Load should prepare, load and wait for the path", func() {
			err := m.Load(context.Background(), "https://cdn.example.com/1.mp3", 12, "audio/mpeg")
			So(err, ShouldBeNil)
			So(server.names(), ShouldResemble, []string{
				"set_property pause",
				"set_property start",
				"set_property demuxer-lavf-format",
				"loadfile",
				"get_property",
			})
			So(server.props["start"], ShouldEqual, "12")
			So(server.props["demuxer-lavf-format"], ShouldEqual, "mp3")
			So(m.AssetURI(), ShouldEqual, "https://cdn.example.com/1.mp3")
			So(m.CurrentTime(), ShouldEqual, 12)
			So(m.Paused(), ShouldBeTrue)
		})

		Convey("Load should give up when the context ends", func() {
			server.setIgnoreLoads(true)
			ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
			defer cancel()

			err := m.Load(ctx, "https://cdn.example.com/1.mp3", 0, "")
			So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
		})

		Convey("Load should stop waiting once a later load replaces it", func() {
			server.setIgnoreLoads(true)

			first := make(chan error, 1)
			go func() {
				first <- m.Load(context.Background(), "https://cdn.example.com/1.mp3", 0, "")
			}()

			for i := 0; i < 100 && !server.sawCommand("loadfile"); i++ {
				time.Sleep(10 * time.Millisecond)
			}
			So(server.sawCommand("loadfile"), ShouldBeTrue)

			server.setIgnoreLoads(false)
			So(m.Load(context.Background(), "https://cdn.example.com/2.mp3", 0, ""), ShouldBeNil)
			So(m.AssetURI(), ShouldEqual, "https://cdn.example.com/2.mp3")

			select {
			case err := <-first:
				So(errors.Is(err, ErrLoadSuperseded), ShouldBeTrue)
			case <-time.After(2 * time.Second):
				So("first load still waiting", ShouldBeEmpty)
			}
		})

		Convey("Load should give up after the session retry timeout", func() {
			server.setIgnoreLoads(true)
			m.config.RetryTimeout = 200 * time.Millisecond

			done := make(chan error, 1)
			go func() {
				done <- m.Load(context.Background(), "https://cdn.example.com/1.mp3", 0, "")
			}()

			select {
			case err := <-done:
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			case <-time.After(2 * time.Second):
				So("load still waiting", ShouldBeEmpty)
			}
		})

		Convey("Load should reject unsafe targets before talking to mpv", func() {
			So(m.Load(context.Background(), "--script=evil.lua", 0, ""), ShouldNotBeNil)
			So(server.names(), ShouldBeEmpty)
		})

		Convey("SetVolume should scale to mpv's range", func() {
			m.SetVolume(0.5)
			So(server.props["volume"], ShouldEqual, 50)
			So(m.Volume(), ShouldEqual, 0.5)
		})

		Convey("TrickPlay should set speed and unpause", func() {
			So(m.TrickPlay(1), ShouldBeNil)
			So(server.props["speed"], ShouldEqual, 1)
			So(server.props["pause"], ShouldEqual, false)
			So(m.Paused(), ShouldBeFalse)
		})

		Convey("Play and Pause should toggle the pause property", func() {
			So(m.Play(context.Background()), ShouldBeNil)
			So(m.Paused(), ShouldBeFalse)
			m.Pause()
			So(server.props["pause"], ShouldEqual, true)
			So(m.Paused(), ShouldBeTrue)
		})

		Convey("mpv errors should not be retried", func() {
			_, err := m.getString("chapter-list")
			So(IsPropertyUnavailable(err), ShouldBeTrue)
			So(errors.Is(err, ErrPropertyUnavailable), ShouldBeTrue)
			So(server.names(), ShouldHaveLength, 1)
		})

		Convey("Configure should apply to a running process", func() {
			So(m.Configure(player.DefaultSessionConfig()), ShouldBeNil)
			So(server.props["cache-secs"], ShouldEqual, "10")
			So(server.props["network-timeout"], ShouldEqual, "30")
			So(m.retries, ShouldEqual, 5)
		})

		Convey("The event listener should observe on its own connection", func() {
			server.props["volume"] = 80.0

			var (
				mu    sync.Mutex
				names []string
			)
			listener := NewEventListener(server.path, func(name string, _ any) {
				mu.Lock()
				defer mu.Unlock()
				names = append(names, name)
			})
			So(listener.Start(), ShouldBeNil)
			listener.Stop()

			mu.Lock()
			defer mu.Unlock()
			So(names, ShouldContain, "volume")
			So(names, ShouldContain, "idle")
			So(server.names(), ShouldHaveLength, len(observedProperties))
		})
	})

	Convey("A detached MPV should refuse IPC", t, func() {
		m := New()
		_, err := m.sendCommand("get_property", "pid")
		So(errors.Is(err, ErrNotRunning), ShouldBeTrue)
		So(m.Configure(player.DefaultSessionConfig()), ShouldBeNil)
	})
}

func TestPropertyCache(t *testing.T) {
	Convey("Given an MPV receiving property changes", t, func() {
		m := New()

		var ticks int
		cancel := m.OnTimeUpdate(func() { ticks++ })

		Convey("time-pos should update the clock and fire time updates", func() {
			m.handleEvent("time-pos", 42.5)
			So(m.CurrentTime(), ShouldEqual, 42.5)
			So(ticks, ShouldEqual, 1)

			m.handleEvent("time-pos", nil)
			So(ticks, ShouldEqual, 1)

			cancel()
			m.handleEvent("time-pos", 43.0)
			So(ticks, ShouldEqual, 1)
		})

		Convey("Other properties should not fire time updates", func() {
			m.handleEvent("pause", false)
			m.handleEvent("speed", 1.5)
			m.handleEvent("volume", 80.0)
			So(ticks, ShouldEqual, 0)
			So(m.Paused(), ShouldBeFalse)
			So(m.PlaybackRate(), ShouldEqual, 1.5)
			So(m.Volume(), ShouldAlmostEqual, 0.8)
		})

		Convey("Volume above mpv's 100 should be clamped", func() {
			m.handleEvent("volume", 130.0)
			So(m.Volume(), ShouldEqual, 1)
		})

		Convey("A live stream should take its duration from the seekable window", func() {
			m.handleEvent("duration", nil)
			m.handleEvent("demuxer-cache-state", map[string]any{
				"seekable-ranges": []any{
					map[string]any{"start": 30.0, "end": 90.0},
					map[string]any{"start": 10.0, "end": 60.0},
				},
			})
			So(m.SeekRange(), ShouldResemble, player.Range{Start: 10, End: 90})
			So(m.Duration(), ShouldEqual, 90)
		})

		Convey("A recorded file should report its own duration", func() {
			m.handleEvent("duration", 300.0)
			So(m.Duration(), ShouldEqual, 300)
			So(m.SeekRange(), ShouldResemble, player.Range{Start: 0, End: 300})
		})

		Convey("GoToLive without a window should fail", func() {
			So(m.GoToLive(context.Background()), ShouldNotBeNil)
		})

		Convey("A failed file should be remembered", func() {
			m.handleEvent("end-file", map[string]any{"event": "end-file", "reason": "error", "file_error": "loading failed"})
			So(m.state.loadError, ShouldEqual, "loading failed")

			m.handleEvent("end-file", map[string]any{"event": "end-file", "reason": "eof"})
			So(m.state.loadError, ShouldEqual, "loading failed")
		})

		Convey("Unload should reset everything but volume", func() {
			m.handleEvent("volume", 40.0)
			m.handleEvent("time-pos", 12.0)
			m.Unload()
			So(m.CurrentTime(), ShouldEqual, 0)
			So(m.Volume(), ShouldAlmostEqual, 0.4)
			So(m.Paused(), ShouldBeTrue)
		})
	})
}

func TestProcessEvent(t *testing.T) {
	Convey("Given an event listener", t, func() {
		type call struct {
			name string
			data any
		}
		var calls []call
		el := NewEventListener("", func(name string, data any) {
			calls = append(calls, call{name, data})
		})

		Convey("Property changes should pass name and data", func() {
			el.processEvent([]byte(`{"event":"property-change","id":1,"name":"time-pos","data":3.5}`))
			So(calls, ShouldResemble, []call{{"time-pos", 3.5}})
		})

		Convey("Other events should pass the whole message", func() {
			el.processEvent([]byte(`{"event":"end-file","reason":"eof"}`))
			So(calls, ShouldHaveLength, 1)
			So(calls[0].name, ShouldEqual, "end-file")
			So(calls[0].data.(map[string]any)["reason"], ShouldEqual, "eof")
		})

		Convey("Replies and garbage should be ignored", func() {
			el.processEvent([]byte(`{"request_id":1,"error":"success"}`))
			el.processEvent([]byte(`not json`))
			el.processEvent([]byte(`{"event":"property-change","data":1}`))
			So(calls, ShouldBeEmpty)
		})
	})
}

func TestConfig(t *testing.T) {
	Convey("Session policy should map onto mpv options", t, func() {
		cfg := player.DefaultSessionConfig()

		So(maxReconnectDelay(cfg), ShouldEqual, 16)
		So(configArgs(cfg), ShouldResemble, []string{
			"--cache-secs=10",
			"--demuxer-readahead-secs=2",
			"--network-timeout=30",
			"--stream-lavf-o=reconnect=1,reconnect_streamed=1,reconnect_delay_max=16",
		})

		cfg.RetryMaxAttempts = 0
		cfg.RetryBackoffFactor = 0.5
		So(maxReconnectDelay(cfg), ShouldEqual, 1)
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		for _, bad := range []string{"", "   ", "-flag", "ftp://host/a.mp3", "https://a/b\n.mp3"} {
			_, err := sanitizeMediaTarget(bad)
			So(err, ShouldNotBeNil)
		}

		got, err := sanitizeMediaTarget(" https://cdn.example.com/a.m3u8?x=1 ")
		So(err, ShouldBeNil)
		So(got, ShouldEqual, "https://cdn.example.com/a.m3u8?x=1")

		got, err = sanitizeMediaTarget("./media/../media/a.mp3")
		So(err, ShouldBeNil)
		So(got, ShouldEqual, "media/a.mp3")
	})
}
