// Package deps resolves external programs podkit shells out to.
package deps

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotConfigured is reported for a requirement with an empty command line.
var ErrNotConfigured = errors.New("command not configured")

// Requirement names an external program. Command may carry arguments
// ("code --wait"); only its first field is looked up on PATH.
type Requirement struct {
	Name     string
	Command  string
	Optional bool
}

// Status is the outcome of resolving a Requirement.
type Status struct {
	Requirement
	Path string
	Err  error
}

// Available reports whether the program was found.
func (s Status) Available() bool {
	return s.Err == nil
}

// Resolve looks up the program behind req.
func Resolve(req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	status := Status{Requirement: req}
	fields := strings.Fields(req.Command)
	if len(fields) == 0 {
		status.Err = ErrNotConfigured
		return status
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		status.Err = fmt.Errorf("binary %q not found", fields[0])
		return status
	}
	status.Path = path
	return status
}

// Check resolves every requirement in order.
func Check(reqs ...Requirement) []Status {
	out := make([]Status, len(reqs))
	for i, req := range reqs {
		out[i] = Resolve(req)
	}
	return out
}

// Command builds an exec.Cmd from a command line such as "code --wait",
// appending args after the configured arguments.
func Command(ctx context.Context, commandLine string, args ...string) (*exec.Cmd, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, ErrNotConfigured
	}
	return exec.CommandContext(ctx, fields[0], append(fields[1:], args...)...), nil
}
