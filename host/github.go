package host

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sethvargo/go-githubactions"
)

// GitHub runs the step as a GitHub Actions action. Inputs come from INPUT_*
// variables, outputs go to $GITHUB_OUTPUT and the event payload is read from
// $GITHUB_EVENT_PATH.
type GitHub struct {
	action *githubactions.Action
	w      io.Writer
	getenv func(string) string
}

func NewGitHub(w io.Writer, opts ...githubactions.Option) *GitHub {
	opts = append([]githubactions.Option{githubactions.WithWriter(w)}, opts...)
	return &GitHub{
		action: githubactions.New(opts...),
		w:      w,
		getenv: os.Getenv,
	}
}

func (g *GitHub) GetInput(name string) (string, error) {
	return g.action.GetInput(name), nil
}

func (g *GitHub) EventPayload() (map[string]any, error) {
	ctx, err := g.action.Context()
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow context: %w", err)
	}
	if ctx.Event == nil {
		return map[string]any{}, nil
	}
	return ctx.Event, nil
}

// SetOutput appends to $GITHUB_OUTPUT, or issues the legacy set-output
// command when the runner did not provide the file.
func (g *GitHub) SetOutput(name, value string) (err error) {
	if g.getenv("GITHUB_OUTPUT") == "" {
		_, err = fmt.Fprintf(g.w, "::set-output name=%s::%s\n", escapeProperty(name), escapeData(value))
		return err
	}

	// The library panics when the environment file cannot be written.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	g.action.SetOutput(name, value)
	return nil
}

func (g *GitHub) SetFailed(message string) {
	g.action.Errorf("%s", message)
}

func escapeData(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}

func escapeProperty(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C").Replace(s)
}
