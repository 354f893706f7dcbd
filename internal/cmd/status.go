package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/urfave/cli/v3"

	"github.com/nova-tracer/nova-tracer/internal/constants"
	"github.com/nova-tracer/nova-tracer/internal/hookset"
	nlog "github.com/nova-tracer/nova-tracer/internal/log"
	"github.com/nova-tracer/nova-tracer/internal/prereq"
	"github.com/nova-tracer/nova-tracer/internal/settings"
)

// Category states shown by status
const (
	stateUpToDate     = "up to date"
	stateStale        = "stale"
	stateNotInstalled = "not installed"
	stateMalformed    = "malformed"
)

// NewStatusCommand creates the status command
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show which nova-tracer hooks are registered",
		Description: `Report, per hook category, how many commands belong to nova-tracer and to
other tools, and whether the registered hooks match what install would write.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only show one category (SessionStart, UserPromptSubmit, PreToolUse, PostToolUse, SessionEnd)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var only hookset.Category
			if name := cmd.String("category"); name != "" {
				c, err := resolveCategory(name)
				if err != nil {
					return err
				}
				only = c
			}

			ctx, rt, err := newSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runStatus(ctx, cmd, rt, only)
		},
	}
}

// resolveCategory accepts a category name in any case and suggests close
// matches for typos.
func resolveCategory(name string) (hookset.Category, error) {
	if c, err := hookset.ParseCategory(name); err == nil {
		return c, nil
	}
	for _, c := range hookset.Categories() {
		if strings.EqualFold(string(c), name) {
			return c, nil
		}
	}

	msg := fmt.Sprintf("unknown hook category '%s'", name)
	if matches := fuzzy.Find(name, hookset.CategoryNames()); len(matches) > 0 {
		suggestions := make([]string, 0, len(matches))
		for _, m := range matches {
			suggestions = append(suggestions, m.Str)
		}
		msg += fmt.Sprintf("\n  Did you mean: %s?", strings.Join(suggestions, ", "))
	}
	return "", fmt.Errorf("%s\nValid categories: %s", msg, strings.Join(hookset.CategoryNames(), ", "))
}

func runStatus(ctx context.Context, cmd *cli.Command, rt *session, only hookset.Category) error {
	logger := nlog.FromContext(ctx)
	out := rt.out

	hs, err := rt.hookSet(cmd)
	if err != nil {
		return err
	}

	out.Title("%s status", constants.AppName)
	settingsState := rt.file.Path
	if !rt.file.Exists() {
		settingsState += " (missing)"
	}
	out.Field("Settings", settingsState)
	out.Field("Install root", hs.Root())
	source := rt.cfg.Source
	if source == "" {
		source = "defaults"
	}
	out.Field("Config", source)

	doc, _, err := rt.file.Load()
	if err != nil {
		out.Fail("Cannot read settings: %v", err)
		logger.Error("status failed", "error", err)
		return fmt.Errorf("failed to load settings from %s: %w", rt.file.Path, err)
	}

	report := settings.Inspect(doc, hs)
	if report.Err != nil {
		out.Fail("%v", report.Err)
	}

	var rows [][]string
	for _, c := range report.Categories {
		if only != "" && c.Category != only {
			continue
		}
		rows = append(rows, []string{
			string(c.Category),
			strconv.Itoa(c.Groups),
			fmt.Sprintf("%d/%d", c.Owned, c.Expected),
			strconv.Itoa(c.Foreign),
			categoryState(c, report.Err),
		})
		if c.Err != nil {
			out.Fail("%v", c.Err)
		}
	}
	out.Info("")
	out.Table([]string{"Category", "Groups", "Owned", "Other", "State"}, rows)
	out.Info("")

	printScriptStatus(out.Writer(), hs)
	printPrereqStatus(rt, prereq.NewChecker())

	switch {
	case report.Err != nil:
		out.Fail("Settings cannot be merged until the errors above are fixed")
	case report.UpToDate() && report.Installed():
		out.Success("nova-tracer hooks are installed and up to date")
	case report.Installed():
		out.Warn("nova-tracer hooks are out of date. Run '%s install' to update them", constants.BinaryName)
	default:
		out.Warn("nova-tracer hooks are not installed. Run '%s install'", constants.BinaryName)
	}

	logger.Info("status reported", "installed", report.Installed(), "up_to_date", report.UpToDate())
	return nil
}

func categoryState(c settings.CategoryReport, docErr error) string {
	switch {
	case docErr != nil || c.Err != nil:
		return stateMalformed
	case c.Owned == 0 && c.Expected > 0:
		return stateNotInstalled
	case c.UpToDate:
		return stateUpToDate
	default:
		return stateStale
	}
}

func printScriptStatus(w io.Writer, hs *hookset.HookSet) {
	scripts := hs.Scripts()
	present := 0
	var missing []string
	for _, path := range scripts {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, path)
			continue
		}
		present++
	}
	_, _ = fmt.Fprintf(w, "Hook scripts: %d/%d present\n", present, len(scripts))
	for _, m := range missing {
		_, _ = fmt.Fprintf(w, "  missing: %s\n", m)
	}
}

func printPrereqStatus(rt *session, checker *prereq.Checker) {
	if checker.Skipped() {
		rt.out.Info("Prerequisites: check skipped (%s)", constants.EnvSkipPrereq)
		return
	}
	results, _ := checker.Check(prereq.RequiredFor(rt.cfg.Runner))
	for _, r := range results {
		kind := "recommended"
		if r.Required {
			kind = "required"
		}
		if r.Found {
			rt.out.Info("Prerequisite %s (%s): %s", r.Name, kind, r.Path)
		} else {
			rt.out.Info("Prerequisite %s (%s): not found", r.Name, kind)
		}
	}
}
