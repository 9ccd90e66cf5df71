package lanyard

import "fmt"

type ConnState string

const (
	StateDisconnected  ConnState = "disconnected"
	StateConnecting    ConnState = "connecting"
	StateAwaitingHello ConnState = "awaiting_hello"
	StateStreaming     ConnState = "streaming"
)

var allowedTransitions = map[ConnState][]ConnState{
	StateDisconnected:  {StateConnecting},
	StateConnecting:    {StateAwaitingHello, StateDisconnected},
	StateAwaitingHello: {StateStreaming, StateDisconnected},
	// a repeated hello restarts the heartbeat without leaving the stream
	StateStreaming: {StateStreaming, StateDisconnected},
}

func canTransition(from, to ConnState) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (c *Client) State() ConnState {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

func (c *Client) transition(to ConnState) error {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if c.state == to && to == StateDisconnected {
		return nil
	}
	if !canTransition(c.state, to) {
		return fmt.Errorf("invalid connection transition %s -> %s", c.state, to)
	}
	c.state = to
	return nil
}
