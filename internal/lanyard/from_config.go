package lanyard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dwizi/presence/internal/config"
)

// NewFromConfig builds a client with every transport setting taken from cfg.
func NewFromConfig(cfg config.Config, sink Sink, logger *slog.Logger, opts ...Option) *Client {
	base := []Option{
		WithReconnectDelay(cfg.ReconnectDelay()),
		WithFallbackDelay(cfg.FallbackDelay()),
		WithPollRate(cfg.PollRatePerMinute),
		WithHTTPClient(newHTTPClient(cfg.HTTPTimeout())),
	}
	return New(cfg.SubjectID, cfg.SocketURL, cfg.RESTBase, sink, logger, append(base, opts...)...)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}
