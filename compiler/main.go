package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xiaobogaga/minijava/compiler/internal"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

func main() {
	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "compile minijava files to llvm ir, one .ll file per source",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags:       flags(),
	}

	checkCmd := &cli.Command{
		Name:        "check",
		Description: "run the semantic checks only",
		Action:      checkAct,
		Args:        cli.Args{},
		Flags:       flags(),
	}

	app := &cli.Command{
		Name:        "minijavac",
		Description: "minijavac is a compiler for minijava",
		Flags: []*cli.Flag{
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			compileCmd,
			checkCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func flags() []*cli.Flag {
	return []*cli.Flag{
		cli.NewFlag("config", "", "config file, looked up from the working directory if not set"),
		cli.NewFlag("out,o", "", "output directory, the directory of each source if not set"),
		cli.NewFlag("declarations", false, "print the declarations of each file"),
		cli.NewFlag("offsets", false, "print the field and method offsets of each file"),
		cli.NewFlag("color", "", "auto, always or never"),
		cli.HelpFlag,
	}
}

func compileAct(c *cli.Command) error {
	return run(c, true)
}

func checkAct(c *cli.Command) error {
	return run(c, false)
}

func run(c *cli.Command, lower bool) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	cfg, err := loadConfig(c)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	if len(c.Args) == 0 {
		return errors.New("no input files")
	}

	rep := internal.NewReporter(os.Stdout, cfg.UseColor(os.Stdout))
	failed := 0

	for i, a := range c.Args {
		rep.Title(i+1, filepath.Base(a))

		err := compileFile(ctx, cfg, rep, a, lower)
		if err != nil {
			failed++

			// Problems of the program itself are part of the report, the rest goes to stderr.
			if internal.IsSourceError(err) {
				rep.Failed(err)
			} else {
				fmt.Fprintf(os.Stderr, "%v: %v\n", a, err)
			}

			tlog.Printw("file failed", "file", a, "err", err)
		}

		rep.Footer()
	}

	if failed != 0 {
		return errors.New("%d of %d files failed", failed, len(c.Args))
	}

	return nil
}

func compileFile(ctx context.Context, cfg *internal.Config, rep *internal.Reporter, name string, lower bool) error {
	res, err := internal.AnalyzeFile(ctx, name)
	if err != nil {
		return err
	}

	rep.Passed("SEM_CHECK")

	if cfg.PrintDeclarations {
		rep.Declarations(res.Symbols)
	}

	if cfg.PrintOffsets {
		rep.Offsets(res.Symbols)
	}

	if !lower {
		return nil
	}

	res.Module, err = internal.Lower(ctx, res.Goal, res.Symbols)
	if err != nil {
		return errors.Wrap(err, "lower")
	}

	out := cfg.OutputPath(name)

	err = os.MkdirAll(filepath.Dir(out), 0o755)
	if err != nil {
		return errors.Wrap(err, "create output dir")
	}

	err = os.WriteFile(out, []byte(res.IR()), 0o644)
	if err != nil {
		return errors.Wrap(err, "write ir")
	}

	rep.Passed("IR: " + out)

	return nil
}

// loadConfig reads the config file and applies the command line flags over it.
func loadConfig(c *cli.Command) (cfg *internal.Config, err error) {
	path := c.String("config")
	if path == "" {
		path, err = internal.FindConfig(".")
		if err != nil {
			return nil, err
		}
	}

	if path != "" {
		cfg, err = internal.LoadConfig(path)
		if err != nil {
			return nil, err
		}

		tlog.Printw("config loaded", "path", path)
	} else {
		cfg = internal.DefaultConfig()
	}

	if out := c.String("out"); out != "" {
		cfg.OutputDir = out
	}

	if c.Bool("declarations") {
		cfg.PrintDeclarations = true
	}

	if c.Bool("offsets") {
		cfg.PrintOffsets = true
	}

	if color := c.String("color"); color != "" {
		err = cfg.SetColor(color)
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
