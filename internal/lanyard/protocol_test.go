package lanyard

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodeHello(t *testing.T) {
	decoded, err := decodeMessage([]byte(`{"op":1,"d":{"heartbeat_interval":30000}}`))
	if err != nil {
		t.Fatalf("decode hello: %v", err)
	}
	hello, ok := decoded.(helloMessage)
	if !ok {
		t.Fatalf("expected hello message, got %T", decoded)
	}
	if hello.interval != 30*time.Second {
		t.Fatalf("expected 30s interval, got %s", hello.interval)
	}
}

func TestDecodePresenceEvents(t *testing.T) {
	for _, kind := range []string{eventInitState, eventPresenceUpdate} {
		payload := `{"op":0,"t":"` + kind + `","d":{"discord_status":"online","activities":[{"name":"Spotify","details":"Song","timestamps":{"start":1000,"end":2000}},{"name":"Code"}]}}`
		decoded, err := decodeMessage([]byte(payload))
		if err != nil {
			t.Fatalf("decode %s: %v", kind, err)
		}
		event, ok := decoded.(presenceMessage)
		if !ok {
			t.Fatalf("expected presence message for %s, got %T", kind, decoded)
		}
		if len(event.snapshot.Activities) != 2 {
			t.Fatalf("expected two activities, got %d", len(event.snapshot.Activities))
		}
		if event.snapshot.Activities[0].End() != 2000 {
			t.Fatalf("expected end timestamp 2000, got %d", event.snapshot.Activities[0].End())
		}
	}
}

func TestDecodePresenceWithoutActivities(t *testing.T) {
	decoded, err := decodeMessage([]byte(`{"op":0,"t":"INIT_STATE","d":{}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	event := decoded.(presenceMessage)
	if event.snapshot.Activities == nil || len(event.snapshot.Activities) != 0 {
		t.Fatalf("expected empty non-nil activity list, got %#v", event.snapshot.Activities)
	}
}

func TestDecodeIgnoresUnknownFrames(t *testing.T) {
	for _, payload := range []string{`{"op":0,"t":"SOMETHING_ELSE","d":{}}`, `{"op":9}`} {
		decoded, err := decodeMessage([]byte(payload))
		if err != nil {
			t.Fatalf("decode %s: %v", payload, err)
		}
		if _, ok := decoded.(ignoredMessage); !ok {
			t.Fatalf("expected ignored message for %s, got %T", payload, decoded)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := decodeMessage([]byte(`not json`)); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := decodeMessage([]byte(`{"op":1,"d":"nope"}`)); err == nil {
		t.Fatal("expected hello body decode error")
	}
}

func TestOutboundFrames(t *testing.T) {
	initialize, err := json.Marshal(initializeFrame("745203026335236178"))
	if err != nil {
		t.Fatalf("marshal initialize: %v", err)
	}
	if string(initialize) != `{"op":2,"d":{"subscribe_to_id":"745203026335236178"}}` {
		t.Fatalf("unexpected initialize frame %s", initialize)
	}
	heartbeat, err := json.Marshal(heartbeatFrame())
	if err != nil {
		t.Fatalf("marshal heartbeat: %v", err)
	}
	if string(heartbeat) != `{"op":3}` {
		t.Fatalf("unexpected heartbeat frame %s", heartbeat)
	}
}
