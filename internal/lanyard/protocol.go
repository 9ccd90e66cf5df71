package lanyard

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dwizi/presence/internal/presence"
)

const (
	opEvent      = 0
	opHello      = 1
	opInitialize = 2
	opHeartbeat  = 3

	eventInitState      = "INIT_STATE"
	eventPresenceUpdate = "PRESENCE_UPDATE"

	defaultHeartbeatInterval = 30 * time.Second
)

type envelope struct {
	Op int             `json:"op"`
	T  string          `json:"t,omitempty"`
	D  json.RawMessage `json:"d,omitempty"`
}

type helloPayload struct {
	HeartbeatIntervalMS int64 `json:"heartbeat_interval"`
}

type initializePayload struct {
	SubscribeToID string `json:"subscribe_to_id"`
}

type outboundFrame struct {
	Op int `json:"op"`
	D  any `json:"d,omitempty"`
}

// message is the decoded form of one inbound frame.
type message interface {
	isMessage()
}

type helloMessage struct {
	interval time.Duration
}

type presenceMessage struct {
	kind     string
	snapshot presence.Snapshot
}

type ignoredMessage struct {
	op int
	t  string
}

func (helloMessage) isMessage()    {}
func (presenceMessage) isMessage() {}
func (ignoredMessage) isMessage()  {}

func decodeMessage(data []byte) (message, error) {
	var frame envelope
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	switch frame.Op {
	case opHello:
		var hello helloPayload
		if err := json.Unmarshal(frame.D, &hello); err != nil {
			return nil, fmt.Errorf("decode hello body: %w", err)
		}
		return helloMessage{interval: time.Duration(hello.HeartbeatIntervalMS) * time.Millisecond}, nil
	case opEvent:
		if frame.T != eventInitState && frame.T != eventPresenceUpdate {
			return ignoredMessage{op: frame.Op, t: frame.T}, nil
		}
		var snapshot presence.Snapshot
		if len(frame.D) > 0 {
			if err := json.Unmarshal(frame.D, &snapshot); err != nil {
				return nil, fmt.Errorf("decode %s body: %w", frame.T, err)
			}
		}
		if snapshot.Activities == nil {
			snapshot.Activities = []presence.Activity{}
		}
		return presenceMessage{kind: frame.T, snapshot: snapshot}, nil
	default:
		return ignoredMessage{op: frame.Op, t: frame.T}, nil
	}
}

func initializeFrame(subjectID string) outboundFrame {
	return outboundFrame{Op: opInitialize, D: initializePayload{SubscribeToID: subjectID}}
}

func heartbeatFrame() outboundFrame {
	return outboundFrame{Op: opHeartbeat}
}
