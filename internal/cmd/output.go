package cmd

import (
	"context"
	"fmt"
	"strings"

	nlog "github.com/nova-tracer/nova-tracer/internal/log"
	"github.com/nova-tracer/nova-tracer/internal/settings"
	"github.com/nova-tracer/nova-tracer/internal/ui"
)

// describeChange renders one category change, e.g.
// "PreToolUse: removed 3, added 3 (created)".
func describeChange(c settings.CategoryChange) string {
	var parts []string
	if c.Removed > 0 {
		parts = append(parts, fmt.Sprintf("removed %d", c.Removed))
	}
	if c.Added > 0 {
		parts = append(parts, fmt.Sprintf("added %d", c.Added))
	}
	if len(parts) == 0 {
		parts = append(parts, "no commands")
	}

	var notes []string
	if c.Created {
		notes = append(notes, "created")
	}
	if c.GroupsDropped > 0 {
		notes = append(notes, fmt.Sprintf("%d empty group(s) dropped", c.GroupsDropped))
	}
	if c.Dropped {
		notes = append(notes, "category removed")
	}

	s := fmt.Sprintf("%s: %s", c.Category, strings.Join(parts, ", "))
	if len(notes) > 0 {
		s += " (" + strings.Join(notes, "; ") + ")"
	}
	return s
}

func printSummary(ctx context.Context, out *ui.Printer, summary settings.ChangeSummary) {
	logger := nlog.FromContext(ctx)
	for _, c := range summary.Changes {
		out.Detail("%s", describeChange(c))
		logger.Info("category updated",
			"category", string(c.Category),
			"removed", c.Removed,
			"added", c.Added,
			"created", c.Created,
			"dropped", c.Dropped,
		)
	}
	if summary.HooksCreated {
		out.Detail("hooks: created")
	}
	if summary.HooksRemoved {
		out.Detail("hooks: removed (no hooks left)")
	}
}

// printDryRun shows the hooks subtree that would be written.
func printDryRun(out *ui.Printer, doc *settings.Document) error {
	data, ok, err := doc.HooksJSON()
	if err != nil {
		return err
	}
	if !ok {
		out.Info("Resulting settings contain no hooks.")
	} else {
		out.Info("Resulting hooks:")
		out.Block(string(data))
	}
	out.Warn("Dry run: no changes written")
	return nil
}
