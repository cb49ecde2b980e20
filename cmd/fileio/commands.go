package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/starford/fileio/internal"
	"github.com/starford/fileio/internal/watch"
)

type body func(ctx context.Context, cmd *cli.Command, e *env) error

type adapter func(body) cli.ActionFunc

func commands(action adapter) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "cat",
			Usage:     "Print the whole file",
			ArgsUsage: "<path>",
			Action: action(func(_ context.Context, cmd *cli.Command, e *env) error {
				f, err := e.editor(cmd)
				if err != nil {
					return err
				}
				content, err := f.ReadAll()
				if err != nil {
					return err
				}
				_, err = io.WriteString(e.out, content)
				return err
			}),
		},
		{
			Name:      "lines",
			Usage:     "Print the file's lines",
			ArgsUsage: "<path>",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "non-empty", Usage: "Trim lines and skip blank ones"},
			},
			Action: action(func(_ context.Context, cmd *cli.Command, e *env) error {
				f, err := e.editor(cmd)
				if err != nil {
					return err
				}
				read := f.ReadLines
				if cmd.Bool("non-empty") {
					read = f.ReadNonEmptyLines
				}
				lines, err := read()
				if err != nil {
					return err
				}
				return printLines(e.out, lines)
			}),
		},
		{
			Name:      "count",
			Usage:     "Print the number of lines",
			ArgsUsage: "<path>",
			Action: action(func(_ context.Context, cmd *cli.Command, e *env) error {
				f, err := e.editor(cmd)
				if err != nil {
					return err
				}
				n, err := f.CountLines()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(e.out, n)
				return err
			}),
		},
		{
			Name:      "empty",
			Usage:     "Print whether the file is missing or has no content",
			ArgsUsage: "<path>",
			Action: action(func(_ context.Context, cmd *cli.Command, e *env) error {
				f, err := e.editor(cmd)
				if err != nil {
					return err
				}
				empty, err := f.IsEmpty()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(e.out, empty)
				return err
			}),
		},
		{
			Name:      "exists",
			Usage:     "Print whether the file exists",
			ArgsUsage: "<path>",
			Action: action(func(_ context.Context, cmd *cli.Command, e *env) error {
				f, err := e.editor(cmd)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(e.out, f.Exists())
				return err
			}),
		},
		{
			Name:      "touch",
			Usage:     "Create an empty file if it does not exist",
			ArgsUsage: "<path>",
			Action: action(func(_ context.Context, cmd *cli.Command, e *env) error {
				f, err := e.editor(cmd)
				if err != nil {
					return err
				}
				created, err := f.CreateIfMissing()
				if err != nil {
					return err
				}
				e.logger.Info("touch", slog.String("path", f.Path()), slog.Bool("created", created))
				return nil
			}),
		},
		{
			Name:      "write",
			Usage:     "Replace the file content; \"-\" reads it from stdin",
			ArgsUsage: "<path> <content|->",
			Action: action(func(_ context.Context, cmd *cli.Command, e *env) error {
				f, err := e.editor(cmd)
				if err != nil {
					return err
				}
				if cmd.Args().Len() != 2 {
					return fmt.Errorf("write: expected <path> <content>")
				}
				content := cmd.Args().Get(1)
				if content == "-" {
					data, err := io.ReadAll(e.in)
					if err != nil {
						return fmt.Errorf("write: read stdin: %w", err)
					}
					content = string(data)
				}
				return f.Write(content)
			}),
		},
		{
			Name:      "write-lines",
			Usage:     "Replace the file content with the given lines",
			ArgsUsage: "<path> [line...]",
			Action: action(func(_ context.Context, cmd *cli.Command, e *env) error {
				f, err := e.editor(cmd)
				if err != nil {
					return err
				}
				return f.WriteLines(cmd.Args().Tail())
			}),
		},
		{
			Name:      "append",
			Usage:     "Append each argument as a new line",
			ArgsUsage: "<path> <line...>",
			Action: action(func(_ context.Context, cmd *cli.Command, e *env) error {
				f, err := e.editor(cmd)
				if err != nil {
					return err
				}
				return f.AppendLines(cmd.Args().Tail())
			}),
		},
		{
			Name:      "set",
			Usage:     "Replace line n, padding the file with empty lines if needed",
			ArgsUsage: "<path> <n> <content>",
			Action: action(func(_ context.Context, cmd *cli.Command, e *env) error {
				f, err := e.editor(cmd)
				if err != nil {
					return err
				}
				if cmd.Args().Len() != 3 {
					return fmt.Errorf("set: expected <path> <n> <content>")
				}
				n, err := lineArg(cmd, 1)
				if err != nil {
					return err
				}
				return f.WriteLine(n, cmd.Args().Get(2))
			}),
		},
		{
			Name:      "insert",
			Usage:     "Insert lines before line n",
			ArgsUsage: "<path> <n> <line...>",
			Action: action(func(_ context.Context, cmd *cli.Command, e *env) error {
				f, err := e.editor(cmd)
				if err != nil {
					return err
				}
				if cmd.Args().Len() < 3 {
					return fmt.Errorf("insert: expected <path> <n> <line...>")
				}
				n, err := lineArg(cmd, 1)
				if err != nil {
					return err
				}
				return f.InsertLines(n, cmd.Args().Slice()[2:])
			}),
		},
		{
			Name:      "remove",
			Usage:     "Remove line n, or the inclusive range n..end",
			ArgsUsage: "<path> <n> [end]",
			Action: action(func(_ context.Context, cmd *cli.Command, e *env) error {
				f, err := e.editor(cmd)
				if err != nil {
					return err
				}
				start, err := lineArg(cmd, 1)
				if err != nil {
					return err
				}
				end := start
				if cmd.Args().Len() > 2 {
					if end, err = lineArg(cmd, 2); err != nil {
						return err
					}
				}
				return f.RemoveLines(start, end)
			}),
		},
		{
			Name:      "range",
			Usage:     "Print the inclusive line range start..end",
			ArgsUsage: "<path> <start> <end>",
			Action: action(func(_ context.Context, cmd *cli.Command, e *env) error {
				f, err := e.editor(cmd)
				if err != nil {
					return err
				}
				start, err := lineArg(cmd, 1)
				if err != nil {
					return err
				}
				end, err := lineArg(cmd, 2)
				if err != nil {
					return err
				}
				lines, err := f.ReadRange(start, end)
				if err != nil {
					return err
				}
				return printLines(e.out, lines)
			}),
		},
		{
			Name:      "replace",
			Usage:     "Replace every occurrence of a literal string",
			ArgsUsage: "<path> <find> <replace>",
			Action: action(func(_ context.Context, cmd *cli.Command, e *env) error {
				f, err := e.editor(cmd)
				if err != nil {
					return err
				}
				if cmd.Args().Len() != 3 {
					return fmt.Errorf("replace: expected <path> <find> <replace>")
				}
				n, err := f.FindReplace(cmd.Args().Get(1), cmd.Args().Get(2))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(e.out, n)
				return err
			}),
		},
		{
			Name:      "watch",
			Usage:     "Report changes to the file until interrupted",
			ArgsUsage: "<path>",
			Action:    action(runWatch),
		},
		{
			Name:      "demo",
			Usage:     "Run the demonstration sequence against an example file",
			ArgsUsage: "[path]",
			Action: action(func(ctx context.Context, cmd *cli.Command, e *env) error {
				if p := cmd.Args().First(); p != "" {
					e.cfg.Demo.Path = p
				}
				return internal.Run(ctx,
					internal.WithConfig(e.cfg),
					internal.WithLogger(e.logger),
					internal.WithOutput(e.out))
			}),
		},
	}
}

func runWatch(ctx context.Context, cmd *cli.Command, e *env) error {
	f, err := e.editor(cmd)
	if err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, cancel := context.WithCancel(gCtx)

	g.Go(func() error {
		defer cancel()
		return watch.Watch(watchCtx, f, e.cfg.Watch.Debounce, e.logger, func(ev watch.Event) {
			fmt.Fprintf(e.out, "%s %s lines=%d sha256=%s\n", ev.Kind, ev.Path, ev.Lines, ev.Checksum)
		})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			e.logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-watchCtx.Done():
		}
		return nil
	})

	return g.Wait()
}

// lineArg parses the i-th argument as a line number.
func lineArg(cmd *cli.Command, i int) (int, error) {
	s := cmd.Args().Get(i)
	if s == "" {
		return 0, fmt.Errorf("%s: missing line number", cmd.Name)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid line number %q", cmd.Name, s)
	}
	return n, nil
}

func printLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
