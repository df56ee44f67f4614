// Package host adapts the execution environments the step can run under to
// the greeting.InputReader and greeting.Reporter contracts.
package host

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/machship/hello-world-step/greeting"
)

const (
	KindGitHub   = "github"
	KindMachship = "machship"
)

type Host interface {
	greeting.InputReader
	greeting.Reporter
}

var (
	_ Host = (*GitHub)(nil)
	_ Host = (*Machship)(nil)
)

// Kinds lists the accepted host names, sorted.
func Kinds() []string {
	kinds := []string{KindGitHub, KindMachship}
	sort.Strings(kinds)
	return kinds
}

// Options carries what the adapters need from the process. GitHub workflow
// commands go to Stdout; Machship failures go to Stderr.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Inputs MachshipInputs
}

// New builds the host named by kind.
func New(kind string, opts Options) (Host, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindGitHub:
		return NewGitHub(opts.Stdout), nil
	case KindMachship:
		return NewMachship(opts.Stderr, opts.Inputs), nil
	default:
		return nil, fmt.Errorf("unknown host %q, expected one of %s", kind, strings.Join(Kinds(), ", "))
	}
}
