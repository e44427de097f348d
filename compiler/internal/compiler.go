package internal

import (
	"bytes"
	"context"
	"os"

	"github.com/llir/llvm/ir"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

// Result is everything produced for one file. Module is nil when only the checks were run.
type Result struct {
	Name    string
	Goal    *GoalAst
	Symbols *SymbolTable
	Module  *ir.Module
}

// IR returns the generated module as text.
func (r *Result) IR() string {
	if r.Module == nil {
		return ""
	}
	return r.Module.String()
}

func CompileFile(ctx context.Context, name string) (*Result, error) {
	text, err := readFile(ctx, name)
	if err != nil {
		return nil, err
	}
	return Compile(ctx, name, text)
}

func AnalyzeFile(ctx context.Context, name string) (*Result, error) {
	text, err := readFile(ctx, name)
	if err != nil {
		return nil, err
	}
	return Analyze(ctx, name, text)
}

func readFile(ctx context.Context, name string) ([]byte, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return text, nil
}

// Compile runs all three passes. The first error stops the file and no module is returned.
func Compile(ctx context.Context, name string, text []byte) (*Result, error) {
	res, err := Analyze(ctx, name, text)
	if err != nil {
		return nil, err
	}

	res.Module, err = Lower(ctx, res.Goal, res.Symbols)
	if err != nil {
		return nil, errors.Wrap(err, "lower")
	}

	return res, nil
}

// Analyze parses the file and runs the declarator and the type checker.
func Analyze(ctx context.Context, name string, text []byte) (*Result, error) {
	goal, err := Parse(ctx, name, text)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	st, err := Declare(ctx, goal)
	if err != nil {
		return nil, errors.Wrap(err, "declare")
	}

	err = Check(ctx, goal, st)
	if err != nil {
		return nil, errors.Wrap(err, "check")
	}

	return &Result{Name: name, Goal: goal, Symbols: st}, nil
}

func Parse(ctx context.Context, name string, text []byte) (goal *GoalAst, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "parse", "name", name)
	defer tr.Finish("err", &err)

	parser := &Parser{}
	goal, err = parser.Parse(bytes.NewReader(text))
	if err != nil {
		return nil, err
	}

	tr.Printw("parsed", "classes", len(goal.Classes)+1, "tokens", len(parser.currentTokens))

	return goal, nil
}
