package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	nlog "github.com/nova-tracer/nova-tracer/internal/log"
)

// NewBackupsCommand creates the backups command with its subcommands
func NewBackupsCommand() *cli.Command {
	return &cli.Command{
		Name:        "backups",
		Usage:       "List or prune settings.json backups",
		Description: `Every write of settings.json first copies the file to settings.json.backup.<timestamp>.`,
		Commands: []*cli.Command{
			newBackupsListCommand(),
			newBackupsPruneCommand(),
		},
	}
}

func newBackupsListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List backups of the settings file, oldest first",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, rt, err := newSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			backups, err := rt.file.Backups()
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				rt.out.Info("No backups of %s", rt.file.Path)
				return nil
			}

			rows := make([][]string, 0, len(backups))
			for _, b := range backups {
				modified := "?"
				size := "?"
				if info, err := os.Stat(b); err == nil {
					modified = info.ModTime().Format(time.DateTime)
					size = fmt.Sprintf("%d B", info.Size())
				}
				rows = append(rows, []string{filepath.Base(b), modified, size})
			}
			rt.out.Title("Backups in %s:", filepath.Dir(rt.file.Path))
			rt.out.Table([]string{"File", "Modified", "Size"}, rows)
			return nil
		},
	}
}

func newBackupsPruneCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune",
		Usage: "Delete all but the newest backups",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "keep",
				Aliases: []string{"k"},
				Value:   0,
				Usage:   "Number of backups to keep (default from config, else 10)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, rt, err := newSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			keep := rt.cfg.Backups.Keep
			if cmd.IsSet("keep") {
				keep = cmd.Int("keep")
			}
			if keep < 1 {
				return fmt.Errorf("--keep must be at least 1, got %d", keep)
			}

			removed, err := rt.file.Prune(keep)
			if err != nil {
				return err
			}
			nlog.FromContext(ctx).Info("backups pruned", "removed", len(removed), "keep", keep)
			if len(removed) == 0 {
				rt.out.Info("Nothing to prune (keeping %d)", keep)
				return nil
			}
			for _, r := range removed {
				rt.out.Detail("removed %s", filepath.Base(r))
			}
			rt.out.Success("Pruned %d backup(s), kept the newest %d", len(removed), keep)
			return nil
		},
	}
}
