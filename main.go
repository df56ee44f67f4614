package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/machship/hello-world-step/greeting"
	"github.com/machship/hello-world-step/host"
	"github.com/machship/hello-world-step/logging"
)

func main() {
	if err := newCommand(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}

func newCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "hello-world",
		Usage:     "Greet someone, publish the time and print the triggering event",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Usage:   "Execution environment (" + strings.Join(host.Kinds(), ", ") + ")",
				Value:   host.KindGitHub,
				Sources: cli.EnvVars("STEP_HOST"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "Optional dotenv file loaded before the step runs, for local runs",
				Sources: cli.EnvVars("STEP_ENV_FILE"),
			},
			&cli.StringFlag{
				Name:  "inputs",
				Usage: "Inline YAML inputs (machship host)",
			},
			&cli.StringFlag{
				Name:  "inputs-file",
				Usage: "Path to a YAML inputs file (machship host)",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logging.Setup(stderr, command.String("log-level"))
			logger := logging.WithModule("hello-world")

			if err := loadEnv(command.String("env-file")); err != nil {
				logger.ErrorContext(ctx, "Failed to load env file", "error", err)
				return err
			}

			h, err := host.New(command.String("host"), host.Options{
				Stdout: stdout,
				Stderr: stderr,
				Inputs: host.MachshipInputs{
					Inline: command.String("inputs"),
					File:   command.String("inputs-file"),
				},
			})
			if err != nil {
				logger.ErrorContext(ctx, "Failed to set up host", "error", err)
				return err
			}

			config := greeting.DefaultConfig()
			config.Stdout = stdout
			config.Logger = logger.With("host", command.String("host"))

			return greeting.NewStep(h, h, config).Execute()
		},
	}
}

// loadEnv loads path into the environment without overriding variables that
// are already set. A missing file is ignored.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
