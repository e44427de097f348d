package internal

import (
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
)

// SemanticError is raised by the declarator and the type checker. The first one aborts the file.
type SemanticError struct {
	Msg  string
	Name string
	// Line is the line of the declaration the error is about, 0 when unknown.
	Line int
	From loc.PC
}

func (e *SemanticError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("semantic error at line %d: %s", e.Line, e.Msg)
	}
	return "semantic error: " + e.Msg
}

// SyntaxError comes from the tokenizer or the parser and is never turned into a SemanticError.
type SyntaxError struct {
	Near string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Near == "" {
		return "syntax error: unexpected end of input"
	}
	if e.Msg != "" {
		return fmt.Sprintf("syntax error near %s at line %d, msg: %s", e.Near, e.Line, e.Msg)
	}
	return fmt.Sprintf("syntax error near %s at line %d", e.Near, e.Line)
}

// UnsupportedError is returned by the code generator for constructs it accepts but can't lower.
type UnsupportedError struct {
	Construct string
}

func (e *UnsupportedError) Error() string {
	return "unsupported expression: " + e.Construct
}

func makeSemanticError(name string, format string, msg ...interface{}) error {
	return &SemanticError{
		Msg:  fmt.Sprintf(format, msg...),
		Name: name,
		From: loc.Caller(1),
	}
}

// atLine sets the line of a SemanticError that doesn't have one yet.
func atLine(err error, line int) error {
	var se *SemanticError
	if errors.As(err, &se) && se.Line == 0 {
		se.Line = line
	}
	return err
}

func makeUnsupportedError(construct string) error {
	return &UnsupportedError{Construct: construct}
}

func IsSemanticError(err error) bool {
	var se *SemanticError
	return errors.As(err, &se)
}

func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

func IsUnsupportedError(err error) bool {
	var ue *UnsupportedError
	return errors.As(err, &ue)
}

// IsSourceError reports whether err is about the compiled program rather than the environment.
func IsSourceError(err error) bool {
	return IsSemanticError(err) || IsSyntaxError(err) || IsUnsupportedError(err)
}
