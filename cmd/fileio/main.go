package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/fileio/internal"
	"github.com/starford/fileio/internal/lineio"
	pkgconfig "github.com/starford/fileio/pkg/config"
)

// env is what every subcommand needs: the loaded config, a logger and the
// streams to use.
type env struct {
	cfg    *internal.Config
	logger *slog.Logger
	in     io.Reader
	out    io.Writer
}

// load reads the config named by --config. The default location may be
// absent; an explicitly given one must exist.
func load(cmd *cli.Command, in io.Reader, out, logOut io.Writer) (*env, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if cmd.IsSet("config") {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if _, err := pkgconfig.LoadIfExists(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if lvl := cmd.String("log-level"); lvl != "" {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", lvl, err)
		}
	}

	logger := internal.NewLogger(cfg.App, logOut)
	slog.SetDefault(logger)

	return &env{cfg: cfg, logger: logger, in: in, out: out}, nil
}

// editor returns the line editor for the path given as first argument.
func (e *env) editor(cmd *cli.Command) (*lineio.File, error) {
	path := cmd.Args().First()
	if path == "" {
		return nil, fmt.Errorf("%s: missing file path", cmd.Name)
	}
	return internal.NewEditor(e.cfg, path, e.logger)
}

func newApp(in io.Reader, out, logOut io.Writer) *cli.Command {
	// action adapts a subcommand body to a cli action with the loaded env.
	action := func(fn body) cli.ActionFunc {
		return func(ctx context.Context, cmd *cli.Command) error {
			e, err := load(cmd, in, out, logOut)
			if err != nil {
				return err
			}
			return fn(ctx, cmd, e)
		}
	}

	return &cli.Command{
		Name:   "fileio",
		Usage:  "Read and edit text files line by line",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Override app.log_level (debug, info, warn, error)",
				Sources: cli.EnvVars("APP_LOG_LEVEL"),
			},
		},
		Commands: commands(action),
	}
}

func main() {
	cmd := newApp(os.Stdin, os.Stdout, os.Stderr)

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
