package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/clitelang/clite/diag"
	"github.com/clitelang/clite/interp"
	"github.com/clitelang/clite/lexer"
	"github.com/clitelang/clite/lint"
	"github.com/clitelang/clite/parser"
)

func main() {
	app := &cli.App{
		Name:  "clite",
		Usage: "run and lint clite programs",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "print a stack trace alongside errors",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "also append JSON logs to `PATH`",
			},
		},
		Before: func(c *cli.Context) error {
			return setupLogging(c.Bool("verbose"), c.String("log-file"))
		},
		Commands: []*cli.Command{
			runCommand(),
			lintCommand(),
			astCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "execute a source file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "entry",
				Aliases: []string{"e"},
				Value:   interp.DefaultEntry,
				Usage:   "entry function name",
			},
			&cli.BoolFlag{
				Name:  "no-entry",
				Usage: "load the program without calling the entry function",
			},
			&cli.BoolFlag{
				Name:  "dump-ast",
				Usage: "dump the parsed AST before running",
			},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("usage: clite run FILE", 2)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: cannot read %s: %v", path, err), 2)
			}
			src := string(data)

			toks, err := lexer.Tokenize(src)
			if err != nil {
				return fail(c, err, path, src)
			}
			slog.Debug("tokenized", "file", path, "tokens", len(toks))

			prog, err := parser.Parse(toks)
			if err != nil {
				return fail(c, err, path, src)
			}
			slog.Debug("parsed", "file", path, "functions", len(prog.Functions))

			if c.Bool("dump-ast") {
				repr.Println(prog)
			}

			in := interp.New()
			if err := in.Run(prog, c.String("entry"), !c.Bool("no-entry")); err != nil {
				return fail(c, err, path, src)
			}
			return nil
		},
	}
}

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "scan source files for common mistakes",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fail-on-warn",
				Usage: "exit non-zero if any warning was produced",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "lint configuration file (YAML)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("usage: clite lint FILE...", 2)
			}
			var cfg *lint.Config
			if path := c.String("config"); path != "" {
				loaded, err := lint.LoadConfig(path)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: cannot read config %s: %v", path, err), 2)
				}
				cfg = loaded
			}

			linter := lint.New(cfg)
			warns, err := linter.LintFiles(c.Args().Slice())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 2)
			}
			for _, w := range warns {
				fmt.Println(w)
			}
			slog.Debug("lint finished", "files", c.NArg(), "warnings", len(warns))

			if (c.Bool("fail-on-warn") || linter.FailOnWarn()) && len(warns) > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func astCommand() *cli.Command {
	return &cli.Command{
		Name:      "ast",
		Usage:     "parse a source file and dump its AST",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("usage: clite ast FILE", 2)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: cannot read %s: %v", path, err), 2)
			}
			src := string(data)

			toks, err := lexer.Tokenize(src)
			if err != nil {
				return fail(c, err, path, src)
			}
			prog, err := parser.Parse(toks)
			if err != nil {
				return fail(c, err, path, src)
			}
			repr.Println(prog)
			return nil
		},
	}
}

// fail prints the rendered diagnostic (and a stack trace under --debug) and
// maps the error to exit status 1.
func fail(c *cli.Context, err error, path, src string) error {
	if c.Bool("debug") {
		tracerr.PrintSourceColor(tracerr.Wrap(err))
	}
	fmt.Fprint(os.Stderr, diag.Render(err, path, src))
	return cli.Exit("", 1)
}
