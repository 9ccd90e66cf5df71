package lanyard

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/dwizi/presence/internal/health"
	"github.com/dwizi/presence/internal/presenceerr"
)

const (
	componentName = "transport:lanyard"

	defaultSocketURL      = "wss://api.lanyard.rest/socket"
	defaultRESTBase       = "https://api.lanyard.rest/v1"
	defaultReconnectDelay = 5 * time.Second
	defaultFallbackDelay  = 1 * time.Second
	defaultPollPerMinute  = 30
	defaultHTTPTimeout    = 12 * time.Second
)

type Client struct {
	subjectID      string
	socketURL      string
	restBase       string
	dialer         Dialer
	httpClient     *http.Client
	limiter        *rate.Limiter
	reconnectDelay time.Duration
	fallbackDelay  time.Duration
	sink           Sink
	logger         *slog.Logger
	reporter       health.Reporter
	now            func() time.Time

	running atomic.Bool
	stateMu sync.Mutex
	state   ConnState
}

type Option func(*Client)

func WithDialer(dialer Dialer) Option {
	return func(client *Client) {
		client.dialer = dialer
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

func WithReconnectDelay(delay time.Duration) Option {
	return func(client *Client) {
		if delay > 0 {
			client.reconnectDelay = delay
		}
	}
}

func WithFallbackDelay(delay time.Duration) Option {
	return func(client *Client) {
		if delay > 0 {
			client.fallbackDelay = delay
		}
	}
}

// WithPollRate caps REST polls per minute. Zero or less disables the cap.
func WithPollRate(perMinute int) Option {
	return func(client *Client) {
		if perMinute <= 0 {
			client.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		client.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60), 2)
	}
}

func New(subjectID, socketURL, restBase string, sink Sink, logger *slog.Logger, opts ...Option) *Client {
	if strings.TrimSpace(socketURL) == "" {
		socketURL = defaultSocketURL
	}
	if strings.TrimSpace(restBase) == "" {
		restBase = defaultRESTBase
	}
	if sink == nil {
		sink = SinkFunc(func(Event) {})
	}
	if logger == nil {
		logger = slog.Default()
	}
	client := &Client{
		subjectID:      strings.TrimSpace(subjectID),
		socketURL:      strings.TrimSpace(socketURL),
		restBase:       strings.TrimRight(strings.TrimSpace(restBase), "/"),
		dialer:         websocketDialer{dialer: websocket.DefaultDialer},
		httpClient:     newHTTPClient(defaultHTTPTimeout),
		reconnectDelay: defaultReconnectDelay,
		fallbackDelay:  defaultFallbackDelay,
		sink:           sink,
		logger:         logger.With("component", componentName, "subject_id", strings.TrimSpace(subjectID)),
		now:            time.Now,
		state:          StateDisconnected,
	}
	WithPollRate(defaultPollPerMinute)(client)
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

func (c *Client) SetHealthReporter(reporter health.Reporter) {
	c.reporter = reporter
}

// Start runs the connection lifecycle until ctx is done. Calling it again
// while it is running is a no-op.
func (c *Client) Start(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return nil
	}
	defer c.running.Store(false)

	if c.subjectID == "" {
		return presenceerr.ErrNoSubject
	}
	if c.reporter != nil {
		c.reporter.Starting(componentName, "starting")
	}
	c.sink.Emit(StatusEvent{Show: true, Text: TextConnecting})

	if err := validateSocketURL(c.socketURL); err != nil {
		c.logger.Error("lanyard socket unavailable, falling back to polling", "error", err, "delay", c.fallbackDelay.String())
		if c.reporter != nil {
			c.reporter.Degrade(componentName, "socket unavailable, polling", err)
		}
		if !sleepContext(ctx, c.fallbackDelay) {
			c.stopped()
			return nil
		}
		c.Refresh(ctx)
		<-ctx.Done()
		c.stopped()
		return nil
	}

	for {
		err := c.runSession(ctx)
		_ = c.transition(StateDisconnected)
		if ctx.Err() != nil {
			c.stopped()
			return nil
		}
		if c.reporter != nil {
			c.reporter.Degrade(componentName, "socket closed", err)
		}
		c.logger.Warn("lanyard socket closed, reconnecting", "error", err, "delay", c.reconnectDelay.String())
		c.sink.Emit(StatusEvent{Show: true, Text: TextReconnect})
		if !sleepContext(ctx, c.reconnectDelay) {
			c.stopped()
			return nil
		}
	}
}

func (c *Client) stopped() {
	if c.reporter != nil {
		c.reporter.Stopped(componentName, "stopped")
	}
	c.logger.Info("lanyard transport stopped")
}

func (c *Client) runSession(ctx context.Context) error {
	logger := c.logger.With("session_id", uuid.NewString())
	if err := c.transition(StateConnecting); err != nil {
		return err
	}
	conn, err := c.dialer.Dial(ctx, c.socketURL)
	if err != nil {
		return fmt.Errorf("dial lanyard socket: %w", err)
	}
	defer conn.Close()
	if err := c.transition(StateAwaitingHello); err != nil {
		return err
	}
	logger.Info("lanyard socket connected")
	c.sink.Emit(StatusEvent{Text: TextRetrieving})

	// unblock the read loop on shutdown
	stopWatch := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stopWatch()

	var writeMu sync.Mutex
	cancelHeartbeat := context.CancelFunc(func() {})
	defer func() {
		cancelHeartbeat()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read lanyard message: %w", err)
		}
		decoded, err := decodeMessage(data)
		if err != nil {
			logger.Error("decode lanyard message failed", "error", err)
			continue
		}

		switch typed := decoded.(type) {
		case helloMessage:
			interval := typed.interval
			if interval <= 0 {
				logger.Warn("hello without heartbeat interval, using default", "default", defaultHeartbeatInterval.String())
				interval = defaultHeartbeatInterval
			}
			cancelHeartbeat()
			heartbeatCtx, cancel := context.WithCancel(ctx)
			cancelHeartbeat = cancel
			go c.heartbeatLoop(heartbeatCtx, conn, &writeMu, interval, logger)

			if err := writeFrame(conn, &writeMu, initializeFrame(c.subjectID)); err != nil {
				return fmt.Errorf("send initialize: %w", err)
			}
			if err := c.transition(StateStreaming); err != nil {
				return err
			}
			logger.Info("lanyard subscription sent", "heartbeat_interval", interval.String())
			if c.reporter != nil {
				c.reporter.Beat(componentName, "streaming")
			}
		case presenceMessage:
			if c.reporter != nil {
				c.reporter.Beat(componentName, "presence received")
			}
			logger.Debug("lanyard presence received", "type", typed.kind, "activities", len(typed.snapshot.Activities))
			c.sink.Emit(PresenceEvent{
				Source:     SourceStream,
				Snapshot:   typed.snapshot,
				ReceivedAt: c.now(),
			})
		case ignoredMessage:
			logger.Debug("lanyard message ignored", "op", typed.op, "type", typed.t)
		}
	}
}

func (c *Client) heartbeatLoop(ctx context.Context, conn Socket, writeMu *sync.Mutex, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := writeFrame(conn, writeMu, heartbeatFrame()); err != nil {
				logger.Error("heartbeat failed", "error", err)
				return
			}
			if c.reporter != nil {
				c.reporter.Beat(componentName, "heartbeat sent")
			}
		}
	}
}

func writeFrame(conn Socket, writeMu *sync.Mutex, frame outboundFrame) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	return conn.WriteJSON(frame)
}

func sleepContext(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
