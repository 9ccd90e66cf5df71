package lanyard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dwizi/presence/internal/presence"
	"github.com/dwizi/presence/internal/presenceerr"
)

type restResponse struct {
	Success bool               `json:"success"`
	Data    *presence.Snapshot `json:"data"`
	Error   *restError         `json:"error"`
}

type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Poll fetches the subject's current presence once over REST.
func (c *Client) Poll(ctx context.Context) (presence.Snapshot, error) {
	if c.subjectID == "" {
		return presence.Snapshot{}, presenceerr.ErrNoSubject
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return presence.Snapshot{}, fmt.Errorf("wait for poll slot: %w", err)
	}

	endpoint := fmt.Sprintf("%s/users/%s", c.restBase, url.PathEscape(c.subjectID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return presence.Snapshot{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "presence/0.1")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return presence.Snapshot{}, fmt.Errorf("fetch lanyard presence: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return presence.Snapshot{}, fmt.Errorf("%w: status=%d body=%s", presenceerr.ErrUnexpectedStatus, res.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	var decoded restResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&decoded); err != nil {
		return presence.Snapshot{}, fmt.Errorf("decode lanyard presence: %w", err)
	}
	if !decoded.Success {
		reason := "success flag not set"
		if decoded.Error != nil && strings.TrimSpace(decoded.Error.Message) != "" {
			reason = decoded.Error.Message
		}
		return presence.Snapshot{}, fmt.Errorf("%w: %s", presenceerr.ErrLookupFailed, reason)
	}
	snapshot := presence.Snapshot{Activities: []presence.Activity{}}
	if decoded.Data != nil && decoded.Data.Activities != nil {
		snapshot.Activities = decoded.Data.Activities
	}
	return snapshot, nil
}

// Refresh runs one poll and reports the outcome as events, the same way a
// streamed update would arrive.
func (c *Client) Refresh(ctx context.Context) {
	c.sink.Emit(StatusEvent{Show: true, Text: TextPolling})
	snapshot, err := c.Poll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		// a rejected lookup leaves the polling indicator up instead of blanking
		if errors.Is(err, presenceerr.ErrLookupFailed) {
			c.logger.Warn("lanyard lookup rejected", "error", err)
			if c.reporter != nil {
				c.reporter.Degrade(componentName, "lookup rejected", err)
			}
			return
		}
		c.logger.Error("lanyard poll failed", "error", err)
		if c.reporter != nil {
			c.reporter.Degrade(componentName, "poll failed", err)
		}
		c.sink.Emit(FailureEvent{Err: err})
		return
	}
	if c.reporter != nil {
		c.reporter.Beat(componentName, "poll succeeded")
	}
	c.sink.Emit(PresenceEvent{
		Source:     SourcePoll,
		Snapshot:   snapshot,
		ReceivedAt: c.now(),
	})
}
