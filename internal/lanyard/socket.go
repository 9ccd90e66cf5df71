package lanyard

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/dwizi/presence/internal/presenceerr"
)

// Socket is the part of a WebSocket connection the transport needs.
// *websocket.Conn satisfies it.
type Socket interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v any) error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, rawURL string) (Socket, error)
}

type websocketDialer struct {
	dialer *websocket.Dialer
}

func (d websocketDialer) Dial(ctx context.Context, rawURL string) (Socket, error) {
	conn, _, err := d.dialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func validateSocketURL(rawURL string) error {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("%w: %v", presenceerr.ErrInvalidSocketURL, err)
	}
	switch parsed.Scheme {
	case "ws", "wss":
	default:
		return fmt.Errorf("%w: unsupported scheme %q", presenceerr.ErrInvalidSocketURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: missing host", presenceerr.ErrInvalidSocketURL)
	}
	return nil
}
