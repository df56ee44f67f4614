// Package greeting implements the hello-world step: greet the configured
// name, publish the time of day and echo the triggering event payload.
package greeting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

const (
	InputWhoToGreet = "who-to-greet"
	OutputTime      = "time"
	PayloadPrefix   = "The event payload: "

	// TimeLayout renders the time portion of a date, e.g.
	// "14:39:07 GMT+0200 (CEST)".
	TimeLayout = "15:04:05 GMT-0700 (MST)"
)

// InputReader resolves the step's inputs from the execution environment.
type InputReader interface {
	GetInput(name string) (string, error)
	EventPayload() (map[string]any, error)
}

// Reporter hands results and failures back to the execution environment.
type Reporter interface {
	SetOutput(name, value string) error
	SetFailed(message string)
}

type Config struct {
	Stdout io.Writer
	Clock  func() time.Time
	Logger *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Stdout: os.Stdout,
		Clock:  time.Now,
		Logger: slog.Default(),
	}
}

type Step struct {
	in     InputReader
	out    Reporter
	config Config
}

// NewStep fills any zero field of config from DefaultConfig.
func NewStep(in InputReader, out Reporter, config Config) *Step {
	defaults := DefaultConfig()
	if config.Stdout == nil {
		config.Stdout = defaults.Stdout
	}
	if config.Clock == nil {
		config.Clock = defaults.Clock
	}
	if config.Logger == nil {
		config.Logger = defaults.Logger
	}

	return &Step{
		in:     in,
		out:    out,
		config: config,
	}
}

// Message returns the greeting line for name.
func Message(name string) string {
	return "Hello " + name + "!"
}

func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// MarshalPayload renders payload as 2-space indented JSON. A nil payload
// renders as an empty object.
func MarshalPayload(payload map[string]any) (string, error) {
	if payload == nil {
		payload = map[string]any{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "", err
	}

	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// Execute runs the step once. The first error stops the run and is
// reported to the Reporter with its message unchanged before being returned.
func (s *Step) Execute() error {
	if err := s.run(); err != nil {
		s.config.Logger.Error("Step failed", "error", err)
		s.out.SetFailed(err.Error())
		return err
	}

	return nil
}

func (s *Step) run() error {
	logger := s.config.Logger

	name, err := s.in.GetInput(InputWhoToGreet)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(s.config.Stdout, Message(name)); err != nil {
		return err
	}

	now := FormatTime(s.config.Clock())
	if err := s.out.SetOutput(OutputTime, now); err != nil {
		return err
	}
	logger.Debug("Published output", "name", OutputTime, "value", now)

	payload, err := s.in.EventPayload()
	if err != nil {
		return err
	}

	text, err := MarshalPayload(payload)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(s.config.Stdout, PayloadPrefix+text); err != nil {
		return err
	}

	return nil
}
