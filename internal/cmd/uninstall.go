package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	nlog "github.com/nova-tracer/nova-tracer/internal/log"
	"github.com/nova-tracer/nova-tracer/internal/settings"
)

// NewUninstallCommand creates the uninstall command
func NewUninstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "uninstall",
		Usage: "Remove every nova-tracer hook from Claude Code settings",
		Description: `Remove all hook commands installed by nova-tracer, including those from
older installs at other paths. Hooks from other tools are kept; groups and
categories left empty are removed.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Value:   false,
				Usage:   "Skip interactive confirmation",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Value:   false,
				Usage:   "Show what would change without writing",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, rt, err := newSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runUninstall(ctx, cmd, rt)
		},
	}
}

func runUninstall(ctx context.Context, cmd *cli.Command, rt *session) error {
	logger := nlog.FromContext(ctx)
	dryRun := cmd.Bool("dry-run")
	logger.Info("uninstall started", "settings", rt.file.Path, "dry_run", dryRun)

	if !rt.file.Exists() {
		rt.out.Info("No settings file at %s; nothing to remove.", rt.file.Path)
		return nil
	}

	doc, unlock, err := rt.lockAndLoad()
	if err != nil {
		return err
	}
	defer unlock()

	cleaned, summary, err := settings.Uninstall(doc, rt.ownership())
	if err != nil {
		logger.Error("uninstall failed", "error", err)
		return fmt.Errorf("failed to remove hooks from %s: %w\n  Suggestion: Fix the reported entry by hand; the file was left unchanged", rt.file.Path, err)
	}

	if summary.Removed() == 0 {
		rt.out.Info("No nova-tracer hooks found in %s", rt.file.Path)
		logger.Info("uninstall skipped", "reason", "nothing owned")
		return nil
	}

	rt.out.Title("This will remove %d nova-tracer hook(s) from %s:", summary.Removed(), rt.file.Path)
	printSummary(ctx, rt.out, summary)

	if dryRun {
		return printDryRun(rt.out, cleaned)
	}

	if !cmd.Bool("yes") {
		ok, err := rt.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			rt.out.Info("Cancelled.")
			logger.Info("uninstall cancelled")
			return nil
		}
	}

	if err := rt.commit(ctx, cleaned); err != nil {
		return err
	}

	rt.out.Success("Successfully removed %d nova-tracer hook(s)", summary.Removed())
	rt.out.Field("Settings", rt.file.Path)
	logger.Info("uninstall finished", "removed", summary.Removed())
	return nil
}
