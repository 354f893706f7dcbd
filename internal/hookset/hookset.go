// Package hookset describes the Claude Code hooks that nova-tracer installs
// and decides which existing hook commands belong to it.
package hookset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// DefaultRunner prefixes every hook command.
	DefaultRunner = "uv run"
	// ScriptDir is the directory under the install root holding hook scripts.
	ScriptDir = "hooks"
)

var (
	// ErrEmptyRoot is returned when no install root is given.
	ErrEmptyRoot = errors.New("install root is empty")
	// ErrUntagged is returned when a generated command would not be
	// recognised by the ownership predicate.
	ErrUntagged = errors.New("hook command carries no ownership marker")
)

// HookCommand is a single command binding inside a matcher group.
type HookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout *int   `json:"timeout,omitempty"`
}

// HookMatcher is a matcher pattern with the commands it triggers.
type HookMatcher struct {
	Matcher string        `json:"matcher"`
	Hooks   []HookCommand `json:"hooks"`
}

// Script describes one hook script and where it is registered.
type Script struct {
	Name     string
	Category Category
	Matchers []string
	Timeout  int
}

// DefaultScripts returns the hook scripts shipped with nova-tracer, in
// installation order.
func DefaultScripts() []Script {
	return []Script{
		{Name: "session-start.py", Category: SessionStart, Matchers: []string{""}},
		{Name: "user-prompt-capture.py", Category: UserPromptSubmit, Matchers: []string{""}},
		{Name: "pre-tool-guard.py", Category: PreToolUse, Matchers: []string{"Bash", "Write", "Edit"}, Timeout: 10},
		{Name: "post-tool-nova-guard.py", Category: PostToolUse, Matchers: []string{"*"}, Timeout: 60},
		{Name: "session-end.py", Category: SessionEnd, Matchers: []string{""}, Timeout: 30},
	}
}

// Options tune how commands are rendered.
type Options struct {
	// Runner replaces DefaultRunner, e.g. "python3".
	Runner string
	// Timeouts overrides per-script timeouts keyed by script name.
	// A value <= 0 removes the timeout.
	Timeouts map[string]int
	// Ownership is the predicate every generated command must satisfy.
	Ownership Ownership
}

// HookSet is the read-only set of hook groups owned by this installer.
type HookSet struct {
	root      string
	ownership Ownership
	groups    map[Category][]HookMatcher
	scripts   []string
}

// New builds the hook set for scripts installed under root. Every
// generated command is checked once against the ownership predicate.
func New(root string, opts Options) (*HookSet, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrEmptyRoot
	}
	root = filepath.Clean(root)

	runner := strings.TrimSpace(opts.Runner)
	if runner == "" {
		runner = DefaultRunner
	}

	hs := &HookSet{
		root:      root,
		ownership: opts.Ownership,
		groups:    make(map[Category][]HookMatcher),
	}

	for _, s := range DefaultScripts() {
		path := filepath.Join(root, ScriptDir, s.Name)
		hs.scripts = append(hs.scripts, path)

		cmd := runner + " " + shellQuote(path)
		if !hs.ownership.Owns(cmd) {
			return nil, fmt.Errorf("%w: %s (install root must contain %q)", ErrUntagged, cmd, MarkerInstallDir)
		}

		timeout := s.Timeout
		if override, ok := opts.Timeouts[s.Name]; ok {
			timeout = override
		}

		for _, m := range s.Matchers {
			binding := HookCommand{Type: "command", Command: cmd}
			if timeout > 0 {
				t := timeout
				binding.Timeout = &t
			}
			hs.groups[s.Category] = append(hs.groups[s.Category], HookMatcher{
				Matcher: m,
				Hooks:   []HookCommand{binding},
			})
		}
	}

	return hs, nil
}

// Root returns the install root the commands point at.
func (h *HookSet) Root() string {
	return h.root
}

// Ownership returns the predicate used to recognise owned commands.
func (h *HookSet) Ownership() Ownership {
	return h.ownership
}

// Owns reports whether command belongs to this installer.
func (h *HookSet) Owns(command string) bool {
	return h.ownership.Owns(command)
}

// GroupsFor returns a copy of the groups to install for c.
func (h *HookSet) GroupsFor(c Category) []HookMatcher {
	src := h.groups[c]
	if len(src) == 0 {
		return nil
	}
	out := make([]HookMatcher, len(src))
	for i, g := range src {
		hooks := make([]HookCommand, len(g.Hooks))
		for j, b := range g.Hooks {
			if b.Timeout != nil {
				t := *b.Timeout
				b.Timeout = &t
			}
			hooks[j] = b
		}
		out[i] = HookMatcher{Matcher: g.Matcher, Hooks: hooks}
	}
	return out
}

// BindingCount returns the number of commands installed for c.
func (h *HookSet) BindingCount(c Category) int {
	n := 0
	for _, g := range h.groups[c] {
		n += len(g.Hooks)
	}
	return n
}

// Scripts returns the absolute script paths referenced by the hook set.
func (h *HookSet) Scripts() []string {
	out := make([]string, len(h.scripts))
	copy(out, h.scripts)
	return out
}

// shellQuote single-quotes s when the shell would otherwise split or
// expand it.
func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`&|;<>()*?[]{}!#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
