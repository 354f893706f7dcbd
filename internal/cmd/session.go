package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/nova-tracer/nova-tracer/internal/config"
	"github.com/nova-tracer/nova-tracer/internal/hookset"
	nlog "github.com/nova-tracer/nova-tracer/internal/log"
	"github.com/nova-tracer/nova-tracer/internal/settings"
	"github.com/nova-tracer/nova-tracer/internal/ui"
)

// session bundles what every subcommand needs for one invocation.
type session struct {
	cfg     *config.Config
	file    *settings.File
	out     *ui.Printer
	in      io.Reader
	logger  *slog.Logger
	runID   string
	closers []io.Closer
}

// newSession loads configuration, opens the installer log and resolves the
// settings file. The returned context carries the logger.
func newSession(ctx context.Context, cmd *cli.Command) (context.Context, *session, error) {
	root := cmd.Root()

	cfg, err := config.Load(cmd.String(flagConfig))
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to load installer config: %w\n  Suggestion: Check the file referenced by --config or %s", err, config.NewXDGConfig().ConfigDir)
	}
	if f := cmd.String(flagLogFormat); f != "" {
		if !config.IsValidLoggingFormat(f) {
			return ctx, nil, fmt.Errorf("invalid --log-format '%s'. Valid: jsonl, pretty", f)
		}
		cfg.Log.Format = f
	}

	rt := &session{
		cfg:   cfg,
		out:   ui.NewPrinter(root.Writer),
		in:    root.Reader,
		runID: nlog.NewRunID(),
	}

	var handlers []slog.Handler
	logPath := cfg.Log.Path
	if logPath == "" {
		xdg := config.NewXDGConfig()
		if err := xdg.EnsureDirectories(); err != nil {
			rt.out.Warn("%v", err)
		}
		logPath = xdg.LogPath()
	}
	if w, err := config.SetupLogRotation(config.ExpandHome(logPath), cfg.Log); err == nil {
		rt.closers = append(rt.closers, w)
		handlers = append(handlers, nlog.NewHandler(w, cfg.Log.Format, slog.LevelInfo))
	} else {
		rt.out.Warn("Installer log disabled: %v", err)
	}
	if cmd.Bool(flagVerbose) {
		handlers = append(handlers, nlog.NewHandler(root.ErrWriter, config.LoggingFormatPretty, slog.LevelDebug))
	}
	rt.logger = nlog.New(rt.runID, handlers...).With("command", cmd.Name)
	ctx = nlog.WithLogger(ctx, rt.logger)

	path, err := cfg.ResolveSettingsPath(cmd.String(flagSettings), cmd.Bool(flagProject))
	if err != nil {
		rt.Close()
		return ctx, nil, fmt.Errorf("failed to locate settings path: %w\n  Suggestion: Pass --settings with an explicit path", err)
	}
	rt.file = settings.NewFile(path)

	rt.logger.Debug("session ready", "settings", path, "config", cfg.Source)
	return ctx, rt, nil
}

// Close flushes and closes the installer log.
func (rt *session) Close() {
	for _, c := range rt.closers {
		_ = c.Close()
	}
	rt.closers = nil
}

// ownership returns the predicate for this run, including configured
// legacy markers.
func (rt *session) ownership() hookset.Ownership {
	return hookset.NewOwnership(rt.cfg.ExtraMarkers...)
}

// hookSet builds the hooks to install from the config and --root.
func (rt *session) hookSet(cmd *cli.Command) (*hookset.HookSet, error) {
	root, err := rt.cfg.ResolveInstallRoot(cmd.String(flagRoot))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve install root: %w", err)
	}
	hs, err := hookset.New(root, hookset.Options{
		Runner:    rt.cfg.Runner,
		Timeouts:  rt.cfg.Timeouts,
		Ownership: rt.ownership(),
	})
	if errors.Is(err, hookset.ErrUntagged) {
		return nil, fmt.Errorf("%w\n  Suggestion: Install into a directory named %q or add the root to extraMarkers in the installer config", err, hookset.MarkerInstallDir)
	}
	if err != nil {
		return nil, err
	}
	return hs, nil
}

// lockAndLoad takes the settings lock and reads the current document. The
// caller must call unlock.
func (rt *session) lockAndLoad() (doc *settings.Document, unlock func(), err error) {
	release, err := rt.file.Lock()
	if errors.Is(err, settings.ErrLocked) {
		return nil, nil, fmt.Errorf("%w: %s\n  Suggestion: Wait for the other nova-tracer process to finish", err, rt.file.Path)
	}
	if err != nil {
		return nil, nil, err
	}
	unlock = func() {
		if err := release(); err != nil {
			rt.logger.Warn("failed to release settings lock", "error", err)
		}
	}

	doc, _, err = rt.file.Load()
	if err != nil {
		unlock()
		if errors.Is(err, settings.ErrMalformedConfig) {
			return nil, nil, fmt.Errorf("failed to load settings from %s: %w\n  Suggestion: Fix the JSON by hand; the file was left unchanged", rt.file.Path, err)
		}
		return nil, nil, fmt.Errorf("failed to load settings from %s: %w", rt.file.Path, err)
	}
	return doc, unlock, nil
}

// commit backs up the current file, writes doc and prunes old backups.
func (rt *session) commit(ctx context.Context, doc *settings.Document) error {
	logger := nlog.FromContext(ctx)

	backup, err := rt.file.Backup()
	if err != nil {
		return fmt.Errorf("failed to back up %s: %w", rt.file.Path, err)
	}
	if backup != "" {
		rt.out.Detail("Backup: %s", backup)
		logger.Info("backup written", "path", backup)
	}

	if err := rt.file.Write(doc); err != nil {
		return fmt.Errorf("error saving settings: %w", err)
	}
	logger.Info("settings written", "path", rt.file.Path)

	removed, err := rt.file.Prune(rt.cfg.Backups.Keep)
	if err != nil {
		// The settings file is already written; a stale backup is not fatal.
		rt.out.Warn("Failed to prune old backups: %v", err)
		logger.Warn("backup prune failed", "error", err)
	}
	if len(removed) > 0 {
		logger.Info("old backups pruned", "count", len(removed))
	}
	return nil
}

// confirm asks a y/N question. Non-interactive stdin never confirms.
func (rt *session) confirm(question string) (bool, error) {
	if f, ok := rt.in.(*os.File); ok && !ui.IsTerminal(f) {
		return false, errors.New("refusing to continue without confirmation on a non-interactive terminal\n  Suggestion: Re-run with --yes")
	}
	_, _ = fmt.Fprintf(rt.out.Writer(), "%s (y/N): ", question)

	var response string
	_, _ = fmt.Fscanln(rt.in, &response)
	return response == "y" || response == "Y" || response == "yes", nil
}
