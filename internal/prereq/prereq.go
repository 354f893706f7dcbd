// Package prereq checks that the programs the installed hooks run with are
// available on PATH.
package prereq

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/nova-tracer/nova-tracer/internal/constants"
)

// ErrMissingDependency is wrapped by every MissingDependencyError.
var ErrMissingDependency = errors.New("missing dependency")

// MissingDependencyError reports a required program that is not on PATH.
type MissingDependencyError struct {
	Name string
	Hint string
}

func (e *MissingDependencyError) Error() string {
	msg := fmt.Sprintf("required dependency %q not found on PATH", e.Name)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *MissingDependencyError) Unwrap() error {
	return ErrMissingDependency
}

// Dependency is a program the hooks need.
type Dependency struct {
	Name     string
	Required bool
	Hint     string
}

// Result is the outcome of looking up one dependency.
type Result struct {
	Dependency
	Path  string
	Found bool
}

var hints = map[string]string{
	"uv":      "install from https://docs.astral.sh/uv/",
	"python3": "install Python 3.10 or newer",
}

// RequiredFor returns the dependencies implied by a hook runner such as
// "uv run". The runner's executable is required; python3 is recommended
// unless it already is the runner.
func RequiredFor(runner string) []Dependency {
	fields := strings.Fields(runner)
	if len(fields) == 0 {
		fields = []string{"uv"}
	}
	exe := fields[0]

	deps := []Dependency{{Name: exe, Required: true, Hint: hints[exe]}}
	if exe != "python3" {
		deps = append(deps, Dependency{Name: "python3", Hint: hints["python3"]})
	}
	return deps
}

// Checker looks dependencies up on PATH.
type Checker struct {
	LookPath func(file string) (string, error)
	Getenv   func(key string) string
}

// NewChecker returns a Checker using the process environment.
func NewChecker() *Checker {
	return &Checker{LookPath: exec.LookPath, Getenv: os.Getenv}
}

// Skipped reports whether NOVA_TRACER_SKIP_PREREQ disables checking.
func (c *Checker) Skipped() bool {
	v := strings.TrimSpace(c.Getenv(constants.EnvSkipPrereq))
	if v == "" {
		return false
	}
	skip, err := strconv.ParseBool(v)
	return err != nil || skip
}

// Check looks up every dependency. It returns all results and a
// MissingDependencyError for the first missing required one.
func (c *Checker) Check(deps []Dependency) ([]Result, error) {
	if c.Skipped() {
		return nil, nil
	}

	var missing error
	results := make([]Result, 0, len(deps))
	for _, d := range deps {
		r := Result{Dependency: d}
		if path, err := c.LookPath(d.Name); err == nil {
			r.Path, r.Found = path, true
		} else if d.Required && missing == nil {
			missing = &MissingDependencyError{Name: d.Name, Hint: d.Hint}
		}
		results = append(results, r)
	}
	return results, missing
}
