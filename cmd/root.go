// Package cmd implements the CLI command structure for tasklist.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/cue"
	"github.com/nibzard/tasklist-go/internal/logging"
	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/tasks"
	"github.com/nibzard/tasklist-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the tasklist CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tasklist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	cfg := cws.Config
	env := &cliEnv{cfg: cfg, stdout: stdout, stderr: stderr}

	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, env, remainingArgs)
	case "add":
		return addCommand(ctx, env, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, env, remainingArgs)
	case "done", "toggle":
		return doneCommand(ctx, env, remainingArgs)
	case "edit":
		return editCommand(ctx, env, remainingArgs)
	case "rm", "delete":
		return rmCommand(ctx, env, remainingArgs)
	case "stats":
		return statsCommand(ctx, env, remainingArgs)
	case "config":
		return configCommand(env, cws, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, env, remainingArgs)
	case "tail", "logs":
		return tailCommand(ctx, env, remainingArgs)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// cliEnv carries the resolved config and output streams to commands.
type cliEnv struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

func (e *cliEnv) logger(w io.Writer) *log.Logger {
	return logging.New(w, logging.OptionsFromConfig(e.cfg.LogLevel, e.cfg.LogFormat, e.cfg.LogTimestamps, e.cfg.LogCaller))
}

// app bundles the store with the resources it depends on.
type app struct {
	backend storage.Backend
	cues    *cue.Dispatcher
	store   *tasks.Store
}

// openApp opens the configured backend, builds the cue dispatcher and
// loads the task list. bell receives the terminal bell when the bell player
// is configured.
func openApp(ctx context.Context, cfg *config.Config, logger *log.Logger, bell io.Writer) (*app, error) {
	backend, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage, err)
	}

	var player cue.Player = cue.NopPlayer{}
	if cfg.Sounds.Enabled {
		p, err := cue.NewPlayer(cfg.Sounds.Player, bell)
		if err != nil {
			logger.Warn("Sound cues disabled", "err", err)
		} else {
			player = p
		}
	}
	cues := cue.NewDispatcher(cue.Options{
		Player:  player,
		Assets:  cfg.CueAssets(),
		Timeout: msDuration(cfg.Sounds.TimeoutMS),
		Logger:  logger,
	})

	store := tasks.New(backend,
		tasks.WithKey(cfg.StorageKey),
		tasks.WithNotifier(cues),
		tasks.WithLogger(logger),
	)
	if err := store.Load(ctx); err != nil {
		cues.Close()
		backend.Close()
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	return &app{backend: backend, cues: cues, store: store}, nil
}

// Close lets in-flight cues finish, bounded by their timeout, then releases
// the backend.
func (a *app) Close() error {
	a.cues.Wait()
	a.cues.Close()
	return a.backend.Close()
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// tuiCommand runs the interactive task list.
func tuiCommand(ctx context.Context, env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("tasklist tui", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY; use 'tasklist ls' or 'tasklist help'")
	}

	// The TUI owns the terminal, so diagnostics go to a per-run log file.
	logW := io.Discard
	runLog, err := logging.NewRunLog(env.cfg.LogDir)
	if err != nil {
		fmt.Fprintf(env.stderr, "Warning: session log disabled: %v\n", err)
	} else {
		defer runLog.Close()
		logW = runLog.Writer()
	}
	logger := env.logger(logW)
	logger.Info("Starting session", "storage", env.cfg.Storage, "key", env.cfg.StorageKey, "variant", env.cfg.Variant)

	a, err := openApp(ctx, env.cfg, logger, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	variant, err := tasks.ParseVariant(env.cfg.Variant)
	if err != nil {
		return err
	}
	err = ui.Run(ctx, a.store, ui.Options{
		Variant: variant,
		Theme:   env.cfg.Theme,
		Logger:  logger,
	})
	a.cues.Close()
	return err
}

// tailCommand prints the latest TUI session log.
func tailCommand(ctx context.Context, env *cliEnv, args []string) error {
	fs := flag.NewFlagSet("tasklist tail", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logPath, err := logging.FindLatestLog(env.cfg.LogDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(env.stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(env.stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(env.stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(env.stdout)

	return logging.TailLog(ctx, env.stdout, logPath, *n, *follow)
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasklist version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasklist - a terminal task list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasklist [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Interactive task list (default command)")
	fmt.Fprintln(w, "  add <text>          Add a task")
	fmt.Fprintln(w, "  ls [-json]          List tasks with positions")
	fmt.Fprintln(w, "  done <n>            Toggle task n completed")
	fmt.Fprintln(w, "  edit <n> <text>     Replace the text of task n")
	fmt.Fprintln(w, "  rm <n> | rm -done   Delete task n, or every completed task")
	fmt.Fprintln(w, "  stats [-json]       Show completed and pending counts")
	fmt.Fprintln(w, "  config [-example]   Show resolved configuration and its sources")
	fmt.Fprintln(w, "  doctor              Check storage, saved tasks and sound setup")
	fmt.Fprintln(w, "  tail [-f] [-n N]    Show the latest TUI session log")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Positions are 1-based, as shown by 'tasklist ls'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
