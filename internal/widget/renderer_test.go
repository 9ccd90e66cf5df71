package widget

import (
	"strings"
	"testing"
	"time"

	"github.com/dwizi/presence/internal/presence"
)

var baseTime = time.UnixMilli(1_700_000_000_000)

func activity(name string, start, end int64) presence.Activity {
	a := presence.Activity{Name: name}
	if start > 0 || end > 0 {
		a.Timestamps = &presence.Timestamps{Start: start, End: end}
	}
	return a
}

func snapshotOf(activities ...presence.Activity) presence.Snapshot {
	return presence.Snapshot{Activities: activities}
}

func TestRenderVisibilityByActivityCount(t *testing.T) {
	cases := []struct {
		name          string
		snapshot      presence.Snapshot
		wantVisible   bool
		wantExtras    bool
		wantToggleFor string
	}{
		{name: "empty", snapshot: snapshotOf(), wantVisible: false},
		{name: "one", snapshot: snapshotOf(activity("Code", 0, 0)), wantVisible: true},
		{
			name:          "three",
			snapshot:      snapshotOf(activity("Code", 0, 0), activity("Spotify", 0, 0), activity("Game", 0, 0)),
			wantVisible:   true,
			wantExtras:    true,
			wantToggleFor: "+ more activities (2)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			renderer := NewRenderer()
			renderer.Render(tc.snapshot, baseTime)
			frame := renderer.Frame()
			if frame.Visible != tc.wantVisible {
				t.Fatalf("visible = %v, want %v", frame.Visible, tc.wantVisible)
			}
			if frame.Details.Visible != tc.wantVisible {
				t.Fatalf("details visible = %v, want %v", frame.Details.Visible, tc.wantVisible)
			}
			if frame.Extras.Visible != tc.wantExtras {
				t.Fatalf("extras visible = %v, want %v", frame.Extras.Visible, tc.wantExtras)
			}
			if tc.wantExtras && frame.Extras.Toggle != tc.wantToggleFor {
				t.Fatalf("toggle = %q, want %q", frame.Extras.Toggle, tc.wantToggleFor)
			}
		})
	}
}

func TestRenderPrimaryMediaAndElapsed(t *testing.T) {
	now := baseTime.UnixMilli()
	renderer := NewRenderer()
	renderer.Render(snapshotOf(activity("Spotify", now-50_000, now+50_000)), baseTime)
	details := renderer.Frame().Details
	if details.Time != "" {
		t.Fatalf("media item should not show elapsed text, got %q", details.Time)
	}
	if !details.Progress.Visible || details.Progress.Percent != 50 {
		t.Fatalf("unexpected progress %+v", details.Progress)
	}
	if details.Progress.Current != "0:50" || details.Progress.Total != "1:40" {
		t.Fatalf("unexpected labels %+v", details.Progress)
	}

	renderer.Render(snapshotOf(activity("Code", now-90_000, 0)), baseTime)
	details = renderer.Frame().Details
	if details.Time != "for 1m 30s" || details.Progress.Visible {
		t.Fatalf("unexpected non-media details %+v", details)
	}
}

func TestToggleStatePreservedAcrossRender(t *testing.T) {
	renderer := NewRenderer()
	snapshot := snapshotOf(activity("Code", 0, 0), activity("Game", 0, 0))
	renderer.Render(snapshot, baseTime)
	if !renderer.Toggle() {
		t.Fatal("expected toggle to apply")
	}
	if got := renderer.Frame().Extras.Toggle; got != "- hide activities" {
		t.Fatalf("toggle label = %q", got)
	}

	renderer.Render(snapshotOf(activity("Other", 0, 0), activity("Thing", 0, 0)), baseTime)
	frame := renderer.Frame()
	if !frame.Extras.Open {
		t.Fatal("expected extras to stay open after re-render")
	}
	if frame.Extras.Toggle != "- hide activities" {
		t.Fatalf("toggle label = %q", frame.Extras.Toggle)
	}
	if frame.Extras.Items[0].Name != "Thing" {
		t.Fatalf("expected rebuilt items, got %+v", frame.Extras.Items)
	}

	renderer.Toggle()
	if got := renderer.Frame().Extras.Toggle; got != "+ more activities (1)" {
		t.Fatalf("toggle label = %q", got)
	}
}

func TestToggleIgnoredWhileExtrasHidden(t *testing.T) {
	renderer := NewRenderer()
	renderer.Render(snapshotOf(activity("Code", 0, 0)), baseTime)
	if renderer.Toggle() {
		t.Fatal("toggle should not apply without secondary activities")
	}
	if renderer.Frame().Extras.Open {
		t.Fatal("extras should stay closed")
	}
}

func TestRepaintUsesTagsOnly(t *testing.T) {
	now := baseTime.UnixMilli()
	renderer := NewRenderer()
	renderer.Render(snapshotOf(
		presence.Activity{Name: "Code", Details: "main.go", Timestamps: &presence.Timestamps{Start: now - 1000}},
		activity("Spotify", now-10_000, now+10_000),
		activity("Game", now-60_000, 0),
	), baseTime)
	renderer.Toggle()

	later := baseTime.Add(10 * time.Second)
	renderer.RepaintPrimary(presence.Activity{Name: "ignored", Timestamps: &presence.Timestamps{Start: now - 1000}}, later)
	renderer.RepaintExtras(later)
	frame := renderer.Frame()
	if frame.Details.Name != "Code" || frame.Details.Description != "main.go" {
		t.Fatalf("repaint must not touch name or description: %+v", frame.Details)
	}
	if frame.Details.Time != "for 11s" {
		t.Fatalf("primary time = %q", frame.Details.Time)
	}
	if frame.Extras.Items[0].Progress.Percent != 100 || frame.Extras.Items[0].Progress.Current != "0:20" {
		t.Fatalf("unexpected media item progress %+v", frame.Extras.Items[0].Progress)
	}
	if frame.Extras.Items[1].Time != "for 1m 10s" {
		t.Fatalf("secondary time = %q", frame.Extras.Items[1].Time)
	}
}

func TestLoadingAndBlank(t *testing.T) {
	renderer := NewRenderer()
	renderer.Render(snapshotOf(activity("Code", 0, 0), activity("Game", 0, 0)), baseTime)

	renderer.ShowLoading("reconnecting...")
	frame := renderer.Frame()
	if !frame.Loading.Visible || frame.Loading.Text != "reconnecting..." {
		t.Fatalf("unexpected loading %+v", frame.Loading)
	}
	if frame.Details.Visible || frame.Extras.Visible {
		t.Fatal("loading should hide the activity regions")
	}

	renderer.SetLoadingText("failed to load activity data")
	renderer.Blank()
	frame = renderer.Frame()
	if frame.Loading.Visible || frame.Details.Visible || frame.Extras.Visible {
		t.Fatalf("expected blank frame, got %+v", frame)
	}
	if frame.Loading.Text != "failed to load activity data" {
		t.Fatalf("loading text = %q", frame.Loading.Text)
	}
}

func TestFrameIsACopy(t *testing.T) {
	renderer := NewRenderer()
	renderer.Render(snapshotOf(activity("Code", 0, 0), activity("Game", 0, 0)), baseTime)
	frame := renderer.Frame()
	frame.Extras.Items[0].Name = "changed"
	if renderer.Frame().Extras.Items[0].Name != "Game" {
		t.Fatal("mutating a returned frame changed the renderer")
	}
}

func TestPlainText(t *testing.T) {
	now := baseTime.UnixMilli()
	renderer := NewRenderer()
	renderer.Render(snapshotOf(
		presence.Activity{Name: "Spotify", Details: "Song", State: "Artist", Timestamps: &presence.Timestamps{Start: now - 50_000, End: now + 50_000}},
		activity("Code", 0, 0),
	), baseTime)
	text := renderer.Frame().PlainText()
	for _, want := range []string{"Spotify", "Song • Artist", "[##########----------] 0:50 / 1:40", "+ more activities (1)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("plain text missing %q:\n%s", want, text)
		}
	}
	if (Frame{}).PlainText() != "" {
		t.Fatal("hidden frame should render empty")
	}
}
