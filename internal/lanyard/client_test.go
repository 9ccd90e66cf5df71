package lanyard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dwizi/presence/internal/health"
)

type fakeSocket struct {
	inbound chan []byte
	closed  chan struct{}
	once    sync.Once

	mu        sync.Mutex
	writes    []outboundFrame
	lateWrite []int
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{
		inbound: make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (f *fakeSocket) ReadMessage() (int, []byte, error) {
	select {
	case data := <-f.inbound:
		return websocket.TextMessage, data, nil
	case <-f.closed:
		return 0, nil, errors.New("socket closed")
	}
}

func (f *fakeSocket) WriteJSON(v any) error {
	frame, ok := v.(outboundFrame)
	if !ok {
		return errors.New("unexpected frame type")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-f.closed:
		f.lateWrite = append(f.lateWrite, frame.Op)
		return errors.New("socket closed")
	default:
	}
	f.writes = append(f.writes, frame)
	return nil
}

func (f *fakeSocket) writesAfterClose() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lateWrite)
}

func (f *fakeSocket) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeSocket) send(payload string) {
	f.inbound <- []byte(payload)
}

func (f *fakeSocket) framesWithOp(op int) []outboundFrame {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []outboundFrame{}
	for _, frame := range f.writes {
		if frame.Op == op {
			out = append(out, frame)
		}
	}
	return out
}

type fakeDialer struct {
	mu      sync.Mutex
	sockets []*fakeSocket
	dials   int
	err     error
}

func (f *fakeDialer) Dial(ctx context.Context, rawURL string) (Socket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dials++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.sockets) == 0 {
		return nil, errors.New("no socket available")
	}
	socket := f.sockets[0]
	f.sockets = f.sockets[1:]
	return socket, nil
}

func (f *fakeDialer) dialCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dials
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func channelSink() (Sink, chan Event) {
	events := make(chan Event, 128)
	return SinkFunc(func(event Event) { events <- event }), events
}

func waitForEvent(t *testing.T, events <-chan Event, match func(Event) bool) Event {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case event := <-events:
			if match(event) {
				return event
			}
		case <-deadline:
			t.Fatal("timed out waiting for event")
			return nil
		}
	}
}

func waitUntil(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func isPresence(event Event) bool {
	_, ok := event.(PresenceEvent)
	return ok
}

func TestHelloStartsHeartbeatAndSubscribes(t *testing.T) {
	socket := newFakeSocket()
	dialer := &fakeDialer{sockets: []*fakeSocket{socket}}
	sink, events := channelSink()
	client := New("745203026335236178", "wss://lanyard.test/socket", "", sink, testLogger(), WithDialer(dialer))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- client.Start(ctx) }()

	socket.send(`{"op":1,"d":{"heartbeat_interval":20}}`)
	waitUntil(t, func() bool { return len(socket.framesWithOp(opHeartbeat)) >= 2 })

	initialize := socket.framesWithOp(opInitialize)
	if len(initialize) != 1 {
		t.Fatalf("expected exactly one initialize frame, got %d", len(initialize))
	}
	payload, ok := initialize[0].D.(initializePayload)
	if !ok || payload.SubscribeToID != "745203026335236178" {
		t.Fatalf("unexpected initialize payload %#v", initialize[0].D)
	}
	if client.State() != StateStreaming {
		t.Fatalf("expected streaming state, got %s", client.State())
	}

	socket.send(`{"op":0,"t":"INIT_STATE","d":{"activities":[{"name":"Code"}]}}`)
	first := waitForEvent(t, events, isPresence).(PresenceEvent)
	if first.Source != SourceStream || first.Snapshot.Activities[0].Name != "Code" {
		t.Fatalf("unexpected init event %+v", first)
	}
	socket.send(`{"op":0,"t":"PRESENCE_UPDATE","d":{"activities":[]}}`)
	second := waitForEvent(t, events, isPresence).(PresenceEvent)
	if len(second.Snapshot.Activities) != 0 {
		t.Fatalf("expected empty update, got %+v", second.Snapshot)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("start did not return after cancel")
	}
	if client.State() != StateDisconnected {
		t.Fatalf("expected disconnected after shutdown, got %s", client.State())
	}
}

func TestSecondHelloReplacesHeartbeat(t *testing.T) {
	socket := newFakeSocket()
	dialer := &fakeDialer{sockets: []*fakeSocket{socket}}
	client := New("1", "wss://lanyard.test/socket", "", nil, testLogger(), WithDialer(dialer))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Start(ctx) }()

	socket.send(`{"op":1,"d":{"heartbeat_interval":10}}`)
	waitUntil(t, func() bool { return len(socket.framesWithOp(opHeartbeat)) >= 2 })
	socket.send(`{"op":1,"d":{"heartbeat_interval":3600000}}`)
	waitUntil(t, func() bool { return len(socket.framesWithOp(opInitialize)) == 2 })

	before := len(socket.framesWithOp(opHeartbeat))
	time.Sleep(100 * time.Millisecond)
	if after := len(socket.framesWithOp(opHeartbeat)); after != before {
		t.Fatalf("first heartbeat kept running after the second hello: before=%d after=%d", before, after)
	}
}

func TestCloseStopsHeartbeat(t *testing.T) {
	socket := newFakeSocket()
	dialer := &fakeDialer{sockets: []*fakeSocket{socket}}
	sink, events := channelSink()
	client := New("1", "wss://lanyard.test/socket", "", sink, testLogger(), WithDialer(dialer), WithReconnectDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Start(ctx) }()

	socket.send(`{"op":1,"d":{"heartbeat_interval":10}}`)
	waitUntil(t, func() bool { return len(socket.framesWithOp(opHeartbeat)) >= 2 })
	_ = socket.Close()
	waitForEvent(t, events, func(event Event) bool {
		typed, ok := event.(StatusEvent)
		return ok && typed.Text == TextReconnect
	})

	before := socket.writesAfterClose()
	time.Sleep(100 * time.Millisecond)
	if after := socket.writesAfterClose(); after != before {
		t.Fatalf("heartbeat kept writing to the closed socket: before=%d after=%d", before, after)
	}
}

func TestReconnectsAfterClose(t *testing.T) {
	first := newFakeSocket()
	second := newFakeSocket()
	dialer := &fakeDialer{sockets: []*fakeSocket{first, second}}
	sink, events := channelSink()
	registry := health.NewRegistry()
	client := New("1", "wss://lanyard.test/socket", "", sink, testLogger(), WithDialer(dialer), WithReconnectDelay(20*time.Millisecond))
	client.SetHealthReporter(registry)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Start(ctx) }()

	first.send(`{"op":1,"d":{"heartbeat_interval":60000}}`)
	waitUntil(t, func() bool { return client.State() == StateStreaming })
	_ = first.Close()

	status := waitForEvent(t, events, func(event Event) bool {
		typed, ok := event.(StatusEvent)
		return ok && typed.Text == TextReconnect
	}).(StatusEvent)
	if !status.Show {
		t.Fatal("expected reconnect status to show the loading indicator")
	}
	waitUntil(t, func() bool { return dialer.dialCount() == 2 })

	second.send(`{"op":1,"d":{"heartbeat_interval":60000}}`)
	waitUntil(t, func() bool { return client.State() == StateStreaming })
	if got := len(second.framesWithOp(opInitialize)); got != 1 {
		t.Fatalf("expected initialize on the new socket, got %d", got)
	}
}

func TestReconnectsAfterDialFailure(t *testing.T) {
	dialer := &fakeDialer{err: errors.New("connection refused")}
	client := New("1", "wss://lanyard.test/socket", "", nil, testLogger(), WithDialer(dialer), WithReconnectDelay(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Start(ctx) }()

	waitUntil(t, func() bool { return dialer.dialCount() >= 3 })
}

func TestInvalidSocketFallsBackToPolling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/v1/users/42" {
			http.NotFound(w, req)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"activities": []map[string]any{{"name": "Spotify", "timestamps": map[string]any{"start": 1, "end": 2}}},
			},
		})
	}))
	defer server.Close()

	dialer := &fakeDialer{}
	sink, events := channelSink()
	client := New("42", "https://not-a-socket.test", server.URL+"/v1", sink, testLogger(),
		WithDialer(dialer),
		WithFallbackDelay(10*time.Millisecond),
		WithPollRate(0),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Start(ctx) }()

	event := waitForEvent(t, events, isPresence).(PresenceEvent)
	if event.Source != SourcePoll {
		t.Fatalf("expected poll source, got %s", event.Source)
	}
	if len(event.Snapshot.Activities) != 1 || event.Snapshot.Activities[0].Name != "Spotify" {
		t.Fatalf("unexpected snapshot %+v", event.Snapshot)
	}
	if dialer.dialCount() != 0 {
		t.Fatalf("expected no socket dials, got %d", dialer.dialCount())
	}
}

func TestStartIsNoOpWhileRunning(t *testing.T) {
	socket := newFakeSocket()
	dialer := &fakeDialer{sockets: []*fakeSocket{socket}}
	client := New("1", "wss://lanyard.test/socket", "", nil, testLogger(), WithDialer(dialer))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Start(ctx) }()
	waitUntil(t, func() bool { return client.State() == StateAwaitingHello })

	returned := make(chan error, 1)
	go func() { returned <- client.Start(ctx) }()
	select {
	case err := <-returned:
		if err != nil {
			t.Fatalf("expected nil from duplicate start, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("duplicate start blocked")
	}
	if dialer.dialCount() != 1 {
		t.Fatalf("expected a single dial, got %d", dialer.dialCount())
	}
}

func TestStreamsFromRealWebsocketServer(t *testing.T) {
	upgrader := websocket.Upgrader{}
	subscribed := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		if err := conn.WriteJSON(map[string]any{"op": 1, "d": map[string]any{"heartbeat_interval": 30000}}); err != nil {
			return
		}
		var initialize struct {
			Op int `json:"op"`
			D  struct {
				SubscribeToID string `json:"subscribe_to_id"`
			} `json:"d"`
		}
		if err := conn.ReadJSON(&initialize); err != nil {
			return
		}
		subscribed <- initialize.D.SubscribeToID
		_ = conn.WriteJSON(map[string]any{
			"op": 0,
			"t":  "INIT_STATE",
			"d":  map[string]any{"activities": []map[string]any{{"name": "Visual Studio Code", "details": "Editing"}}},
		})
		// hold the connection open until the client goes away
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	sink, events := channelSink()
	socketURL := "ws" + strings.TrimPrefix(server.URL, "http")
	client := New("99", socketURL, "", sink, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Start(ctx) }()

	select {
	case id := <-subscribed:
		if id != "99" {
			t.Fatalf("expected subscription for 99, got %s", id)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server never received initialize")
	}
	event := waitForEvent(t, events, isPresence).(PresenceEvent)
	if event.Snapshot.Activities[0].Details != "Editing" {
		t.Fatalf("unexpected snapshot %+v", event.Snapshot)
	}
}
