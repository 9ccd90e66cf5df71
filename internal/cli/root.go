package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dwizi/presence/internal/config"
	"github.com/dwizi/presence/internal/health"
	"github.com/dwizi/presence/internal/lanyard"
	"github.com/dwizi/presence/internal/session"
	"github.com/dwizi/presence/internal/tui"
	"github.com/dwizi/presence/internal/widget"
)

const version = "0.1.0"

type globalFlags struct {
	subject  string
	restBase string
}

func NewRoot(logger *slog.Logger) *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "presence",
		Short:         "Live activity presence widget backed by Lanyard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.subject, "subject", "", "subject id to track (overrides PRESENCE_SUBJECT_ID)")
	root.PersistentFlags().StringVar(&flags.restBase, "rest-base", "", "REST base url (overrides PRESENCE_REST_BASE)")

	root.AddCommand(newTUICommand(logger, flags))
	root.AddCommand(newWatchCommand(logger, flags))
	root.AddCommand(newFetchCommand(logger, flags))
	root.AddCommand(newVersionCommand())

	return root
}

func (f *globalFlags) config() config.Config {
	cfg := config.FromEnv()
	if subject := strings.TrimSpace(f.subject); subject != "" {
		cfg.SubjectID = subject
	}
	if restBase := strings.TrimSpace(f.restBase); restBase != "" {
		cfg.RESTBase = strings.TrimRight(restBase, "/")
	}
	return cfg
}

func newTUICommand(logger *slog.Logger, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive presence widget",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.config()
			tuiLogger, closeLog, err := fileLogger(cfg.LogFile)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return tui.Run(ctx, cfg, tuiLogger)
		},
	}
}

// fileLogger sends logs to path as JSON lines, or nowhere when path is
// empty; the terminal UI owns stdout.
func fileLogger(path string) (*slog.Logger, func(), error) {
	if strings.TrimSpace(path) == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = file.Close() }, nil
}

func newWatchCommand(logger *slog.Logger, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream presence headlessly and print each changed frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.config()
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runWatch(ctx, cfg, cmd.OutOrStdout(), logger)
		},
	}
}

func runWatch(ctx context.Context, cfg config.Config, out io.Writer, logger *slog.Logger) error {
	registry := health.NewRegistry()
	sess := session.New(session.Options{
		TickInterval: cfg.TickInterval(),
		RefreshDelay: cfg.RefreshDelay(),
		BlankDelay:   cfg.BlankDelay(),
	}, logger)
	sess.SetHealthReporter(registry)

	inbox := session.NewInbox(64)
	client := lanyard.NewFromConfig(cfg, inbox, logger)
	client.SetHealthReporter(registry)

	printer := &watchPrinter{out: out}
	monitor := health.NewMonitor(registry, watchHealthInterval, 90*time.Second, logger)
	monitor.OnTransition(printer.transition)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return monitor.Start(groupCtx)
	})
	group.Go(func() error {
		return sess.Run(groupCtx, client, inbox, printer.frame)
	})
	return group.Wait()
}

var watchHealthInterval = 5 * time.Second

// watchPrinter serializes frame and health output from the session loop
// and the monitor onto one writer.
type watchPrinter struct {
	mu   sync.Mutex
	out  io.Writer
	last string
}

func (p *watchPrinter) frame(frame widget.Frame) {
	text := frame.PlainText()
	p.mu.Lock()
	defer p.mu.Unlock()
	if text == p.last {
		return
	}
	p.last = text
	fmt.Fprintf(p.out, "--- %s\n%s\n", time.Now().Format(time.TimeOnly), text)
}

func (p *watchPrinter) transition(change health.Transition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "--- %s health %s: %s -> %s\n", time.Now().Format(time.TimeOnly), change.Component, change.From, change.To)
}

func newFetchCommand(logger *slog.Logger, flags *globalFlags) *cobra.Command {
	var jsonMode bool
	var timeoutSec int
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Poll presence once over REST and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.config()
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutSec)*time.Second)
			defer cancel()

			client := lanyard.NewFromConfig(cfg, nil, logger, lanyard.WithPollRate(0))
			snapshot, err := client.Poll(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonMode {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(snapshot)
			}
			renderer := widget.NewRenderer()
			renderer.Render(snapshot, time.Now())
			text := renderer.Frame().PlainText()
			if text == "" {
				text = "no activity"
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonMode, "json", false, "print the raw activity snapshot as JSON")
	cmd.Flags().IntVar(&timeoutSec, "timeout-sec", 15, "request timeout in seconds")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print CLI version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
	}
}
