package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultSubjectID = "745203026335236178"
	DefaultSocketURL = "wss://api.lanyard.rest/socket"
	DefaultRESTBase  = "https://api.lanyard.rest/v1"
)

type Link struct {
	Label string
	URL   string
}

type Config struct {
	SubjectID string
	SocketURL string
	RESTBase  string

	ReconnectDelayMS   int
	FallbackDelayMS    int
	BlankDelayMS       int
	RefreshDelayMS     int
	TickMS             int
	HTTPTimeoutSeconds int
	PollRatePerMinute  int

	LogFile string

	Title         string
	Tagline       string
	Links         []Link
	TypingEnabled bool
}

func FromEnv() Config {
	return Config{
		SubjectID:          stringOrDefault("PRESENCE_SUBJECT_ID", DefaultSubjectID),
		SocketURL:          stringOrDefault("PRESENCE_SOCKET_URL", DefaultSocketURL),
		RESTBase:           strings.TrimRight(stringOrDefault("PRESENCE_REST_BASE", DefaultRESTBase), "/"),
		ReconnectDelayMS:   intOrDefault("PRESENCE_RECONNECT_DELAY_MS", 5000),
		FallbackDelayMS:    intOrDefault("PRESENCE_FALLBACK_DELAY_MS", 1000),
		BlankDelayMS:       intOrDefault("PRESENCE_BLANK_DELAY_MS", 2000),
		RefreshDelayMS:     intOrDefault("PRESENCE_REFRESH_DELAY_MS", 2000),
		TickMS:             intOrDefault("PRESENCE_TICK_MS", 1000),
		HTTPTimeoutSeconds: intOrDefault("PRESENCE_HTTP_TIMEOUT_SECONDS", 12),
		PollRatePerMinute:  intOrDefault("PRESENCE_POLL_RATE_PER_MINUTE", 30),
		LogFile:            strings.TrimSpace(os.Getenv("PRESENCE_LOG_FILE")),
		Title:              stringOrDefault("PRESENCE_TITLE", "presence"),
		Tagline:            stringOrDefault("PRESENCE_TAGLINE", "what i'm up to, live"),
		Links:              linksOrDefault("PRESENCE_LINKS", nil),
		TypingEnabled:      boolOrDefault("PRESENCE_TYPING_ENABLED", true),
	}
}

func (c Config) ReconnectDelay() time.Duration {
	return millis(c.ReconnectDelayMS)
}

func (c Config) FallbackDelay() time.Duration {
	return millis(c.FallbackDelayMS)
}

func (c Config) BlankDelay() time.Duration {
	return millis(c.BlankDelayMS)
}

func (c Config) RefreshDelay() time.Duration {
	return millis(c.RefreshDelayMS)
}

func (c Config) TickInterval() time.Duration {
	return millis(c.TickMS)
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func millis(value int) time.Duration {
	return time.Duration(value) * time.Millisecond
}

func stringOrDefault(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func intOrDefault(name string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}

func boolOrDefault(name string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// linksOrDefault parses "label=url" pairs separated by commas. Entries
// without a label or url are skipped.
func linksOrDefault(name string, fallback []Link) []Link {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	links := []Link{}
	for _, entry := range strings.Split(value, ",") {
		label, url, ok := strings.Cut(entry, "=")
		label = strings.TrimSpace(label)
		url = strings.TrimSpace(url)
		if !ok || label == "" || url == "" {
			continue
		}
		links = append(links, Link{Label: label, URL: url})
	}
	if len(links) == 0 {
		return fallback
	}
	return links
}
