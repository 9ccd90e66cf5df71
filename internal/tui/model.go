package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dwizi/presence/internal/config"
	"github.com/dwizi/presence/internal/health"
	"github.com/dwizi/presence/internal/lanyard"
	"github.com/dwizi/presence/internal/session"
)

type pageID string

const (
	pagePresence pageID = "presence"
	pageLinks    pageID = "links"

	healthStaleAfter = 90 * time.Second
)

type transportMsg struct {
	event lanyard.Event
}

type tickMsg time.Time

type refreshDueMsg struct {
	end int64
}

type blankDueMsg struct {
	generation uint64
}

// Refresher triggers one presence fetch; results arrive as transport
// events.
type Refresher interface {
	Refresh(ctx context.Context)
}

type model struct {
	ctx       context.Context
	cfg       config.Config
	logger    *slog.Logger
	session   *session.Session
	refresher Refresher
	health    *health.Registry
	now       func() time.Time
	opener    func(string) error

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	banner  banner
	links   linkCursor
	page    pageID

	width      int
	height     int
	statusText string
	errorText  string
	quitting   bool
}

func newModel(ctx context.Context, cfg config.Config, sess *session.Session, refresher Refresher, registry *health.Registry, logger *slog.Logger) model {
	if logger == nil {
		logger = slog.Default()
	}
	t := newTheme()
	return model{
		ctx:       ctx,
		cfg:       cfg,
		logger:    logger.With("component", "tui"),
		session:   sess,
		refresher: refresher,
		health:    registry,
		now:       time.Now,
		opener:    openURL,
		keys:      newKeyMap(),
		help:      help.New(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(t.spinner),
		),
		banner: newBanner(cfg.Title, cfg.Tagline, cfg.TypingEnabled),
		links:  newLinkCursor(cfg.Links),
		page:   pagePresence,
		width:  80,
		height: 24,
	}
}

// Run starts the transport and the terminal program and blocks until the
// user quits or ctx is done.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	registry := health.NewRegistry()
	sess := session.New(session.Options{
		TickInterval: cfg.TickInterval(),
		RefreshDelay: cfg.RefreshDelay(),
		BlankDelay:   cfg.BlankDelay(),
	}, logger)
	sess.SetHealthReporter(registry)

	var program *tea.Program
	sink := lanyard.SinkFunc(func(event lanyard.Event) {
		program.Send(transportMsg{event: event})
	})
	client := lanyard.NewFromConfig(cfg, sink, logger)
	client.SetHealthReporter(registry)

	monitor := health.NewMonitor(registry, 5*time.Second, healthStaleAfter, logger)
	group, groupCtx := errgroup.WithContext(ctx)
	program = tea.NewProgram(
		newModel(groupCtx, cfg, sess, client, registry, logger),
		tea.WithContext(groupCtx),
	)

	group.Go(func() error {
		return client.Start(groupCtx)
	})
	group.Go(func() error {
		return monitor.Start(groupCtx)
	})
	group.Go(func() error {
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && groupCtx.Err() != nil {
			return nil
		}
		return err
	})
	return group.Wait()
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		tickAfter(m.session.TickInterval()),
		m.spinner.Tick,
		m.banner.start(),
	)
}

func tickAfter(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case transportMsg:
		return m.handleTransport(typed.event)
	case tickMsg:
		result := m.session.Tick(time.Time(typed))
		cmds := []tea.Cmd{tickAfter(m.session.TickInterval())}
		if result.Refresh != nil {
			end := result.Refresh.End
			cmds = append(cmds, tea.Tick(result.Refresh.Delay, func(time.Time) tea.Msg {
				return refreshDueMsg{end: end}
			}))
		}
		return m, tea.Batch(cmds...)
	case refreshDueMsg:
		if !m.session.RefreshDue(typed.end) {
			return m, nil
		}
		m.logger.Info("activity ended, refreshing presence", "end", typed.end)
		return m, m.refreshCmd()
	case blankDueMsg:
		m.session.BlankDue(typed.generation)
		return m, nil
	case typingMsg:
		var cmd tea.Cmd
		m.banner, cmd = m.banner.advance()
		return m, cmd
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(typed)
		return m, cmd
	case openLinkMsg:
		return m, m.openLinkCmd(typed.index)
	case linkOpenedMsg:
		if typed.err != nil {
			m.errorText = fmt.Sprintf("open %s: %v", typed.label, typed.err)
			return m, nil
		}
		m.errorText = ""
		m.statusText = "opened " + typed.label
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m model) handleTransport(event lanyard.Event) (tea.Model, tea.Cmd) {
	effect := m.session.Handle(event, m.now())
	switch typed := event.(type) {
	case lanyard.PresenceEvent:
		m.errorText = ""
		m.statusText = fmt.Sprintf("presence via %s at %s", typed.Source, m.now().Format("15:04:05"))
	case lanyard.FailureEvent:
		m.errorText = typed.Err.Error()
	case lanyard.StatusEvent:
		m.statusText = typed.Text
	}
	if effect.Blank == nil {
		return m, nil
	}
	generation := effect.Blank.Generation
	return m, tea.Tick(effect.Blank.Delay, func(time.Time) tea.Msg {
		return blankDueMsg{generation: generation}
	})
}

func (m model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Presence):
		m.page = pagePresence
		return m, nil
	case key.Matches(msg, m.keys.Links):
		m.page = pageLinks
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.statusText = "refreshing"
		return m, m.refreshCmd()
	}

	if m.page == pageLinks {
		return m.handleLinksKey(msg)
	}
	if key.Matches(msg, m.keys.Toggle) {
		m.session.Toggle()
	}
	return m, nil
}

func (m model) handleLinksKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		m.links = m.links.next()
	case key.Matches(msg, m.keys.Prev):
		m.links = m.links.prev()
	case key.Matches(msg, m.keys.Open):
		var ok bool
		m.links, ok = m.links.choose()
		if !ok {
			return m, nil
		}
		index := m.links.current
		return m, tea.Tick(linkOpenDelay, func(time.Time) tea.Msg {
			return openLinkMsg{index: index}
		})
	}
	return m, nil
}

func (m model) refreshCmd() tea.Cmd {
	if m.refresher == nil {
		return nil
	}
	refresher := m.refresher
	ctx := m.ctx
	return func() tea.Msg {
		refresher.Refresh(ctx)
		return nil
	}
}

func (m model) openLinkCmd(index int) tea.Cmd {
	if index < 0 || index >= len(m.links.links) {
		return nil
	}
	link := m.links.links[index]
	opener := m.opener
	return func() tea.Msg {
		return linkOpenedMsg{label: link.Label, err: opener(link.URL)}
	}
}

func (m model) View() tea.View {
	view := tea.NewView(m.renderView())
	view.AltScreen = true
	return view
}
