package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/nova-tracer/nova-tracer/internal/hookset"
	nlog "github.com/nova-tracer/nova-tracer/internal/log"
	"github.com/nova-tracer/nova-tracer/internal/prereq"
	"github.com/nova-tracer/nova-tracer/internal/settings"
	"github.com/nova-tracer/nova-tracer/internal/ui"
)

// NewInstallCommand creates the install command
func NewInstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Register the nova-tracer hooks in Claude Code settings",
		Description: `Merge the nova-tracer hooks into settings.json. Hooks from earlier
nova-tracer installs are replaced; hooks from other tools are kept as they are.
Running install twice leaves the file unchanged.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Value:   false,
				Usage:   "Show what would change without writing",
			},
			&cli.BoolFlag{
				Name:  "skip-checks",
				Value: false,
				Usage: "Do not check for uv/python3 on PATH",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, rt, err := newSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runInstall(ctx, cmd, rt, prereq.NewChecker())
		},
	}
}

func runInstall(ctx context.Context, cmd *cli.Command, rt *session, checker *prereq.Checker) error {
	logger := nlog.FromContext(ctx)
	dryRun := cmd.Bool("dry-run")

	hs, err := rt.hookSet(cmd)
	if err != nil {
		return err
	}
	logger.Info("install started", "settings", rt.file.Path, "root", hs.Root(), "dry_run", dryRun)

	if !cmd.Bool("skip-checks") {
		if err := checkPrerequisites(ctx, rt.out, checker, rt.cfg.Runner); err != nil {
			return err
		}
	}
	checkScripts(ctx, rt.out, hs, dryRun)

	doc, unlock, err := rt.lockAndLoad()
	if err != nil {
		return err
	}
	defer unlock()

	merged, summary, err := settings.Merge(doc, hs)
	if err != nil {
		logger.Error("merge failed", "error", err)
		return fmt.Errorf("failed to merge hooks into %s: %w\n  Suggestion: Fix the reported entry by hand; the file was left unchanged", rt.file.Path, err)
	}

	if merged.Equal(doc) && rt.file.Exists() {
		rt.out.Success("nova-tracer hooks already up to date in %s", rt.file.Path)
		logger.Info("install skipped", "reason", "up to date")
		return nil
	}

	rt.out.Title("Changes to %s:", rt.file.Path)
	printSummary(ctx, rt.out, summary)

	if dryRun {
		return printDryRun(rt.out, merged)
	}

	if err := rt.commit(ctx, merged); err != nil {
		return err
	}

	rt.out.Success("Successfully installed %d nova-tracer hook(s)", summary.Added())
	rt.out.Field("Settings", rt.file.Path)
	rt.out.Field("Install root", hs.Root())
	logger.Info("install finished", "added", summary.Added(), "removed", summary.Removed())
	return nil
}

// checkPrerequisites reports on the runner's dependencies and fails when a
// required one is missing.
func checkPrerequisites(ctx context.Context, out *ui.Printer, checker *prereq.Checker, runner string) error {
	logger := nlog.FromContext(ctx)
	if checker.Skipped() {
		logger.Info("prerequisite check skipped")
		return nil
	}

	results, err := checker.Check(prereq.RequiredFor(runner))
	for _, r := range results {
		switch {
		case r.Found:
			logger.Debug("dependency found", "name", r.Name, "path", r.Path)
		case !r.Required:
			out.Warn("%s not found on PATH (%s)", r.Name, r.Hint)
			logger.Warn("recommended dependency missing", "name", r.Name)
		}
	}
	if err != nil {
		logger.Error("required dependency missing", "error", err)
		return fmt.Errorf("%w\n  Suggestion: Install it, or pass --skip-checks if the hooks run elsewhere", err)
	}
	return nil
}

// checkScripts warns about hook scripts missing under the install root and
// makes present ones executable.
func checkScripts(ctx context.Context, out *ui.Printer, hs *hookset.HookSet, dryRun bool) {
	logger := nlog.FromContext(ctx)
	for _, path := range hs.Scripts() {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			out.Warn("Hook script not found: %s", path)
			logger.Warn("hook script missing", "path", path)
			continue
		}
		if err != nil {
			out.Warn("Cannot inspect hook script %s: %v", path, err)
			continue
		}
		if dryRun || info.Mode().Perm()&0o111 != 0 {
			continue
		}
		if err := os.Chmod(path, 0o755); err != nil { // #nosec G302 - hook scripts must be executable
			out.Warn("Failed to make %s executable: %v", path, err)
			continue
		}
		logger.Info("hook script made executable", "path", path)
	}
}
