// Package cmd implements the nova-tracer command line.
package cmd

import (
	"github.com/urfave/cli/v3"

	"github.com/nova-tracer/nova-tracer/internal/constants"
)

// Global flag names
const (
	flagSettings  = "settings"
	flagProject   = "project"
	flagRoot      = "root"
	flagConfig    = "config"
	flagVerbose   = "verbose"
	flagLogFormat = "log-format"
)

// NewRootCommand builds the nova-tracer CLI.
func NewRootCommand(info VersionInfo) *cli.Command {
	return &cli.Command{
		Name:    constants.BinaryName,
		Usage:   constants.ProjectTagline,
		Version: info.Version,
		Description: `Registers the nova-tracer hook scripts in Claude Code's settings.json
and removes them again, leaving hooks installed by other tools untouched.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagSettings,
				Aliases: []string{"s"},
				Usage:   "Path to the Claude Code settings file (default ~/.claude/settings.json)",
			},
			&cli.BoolFlag{
				Name:    flagProject,
				Aliases: []string{"p"},
				Value:   false,
				Usage:   "Use the project settings file (./.claude/settings.json)",
			},
			&cli.StringFlag{
				Name:    flagRoot,
				Aliases: []string{"r"},
				Usage:   "Directory the hook scripts are installed in (default ~/.nova-tracer)",
			},
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "Installer config file (.yml, .yaml, .toml or .json)",
			},
			&cli.BoolFlag{
				Name:  flagVerbose,
				Value: false,
				Usage: "Echo log records to stderr",
			},
			&cli.StringFlag{
				Name:  flagLogFormat,
				Usage: "Installer log format: jsonl or pretty (default from config, else jsonl)",
			},
		},
		Commands: []*cli.Command{
			NewInstallCommand(),
			NewUninstallCommand(),
			NewStatusCommand(),
			NewBackupsCommand(),
			NewVersionCmd(info),
		},
	}
}
