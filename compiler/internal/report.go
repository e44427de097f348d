package internal

import (
	"fmt"
	"io"
	"strings"
)

const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
)

const separator = "------------------------------------------------"

// Reporter writes the human readable per-file output of the driver.
type Reporter struct {
	w     io.Writer
	color bool
}

func NewReporter(w io.Writer, color bool) *Reporter {
	return &Reporter{w: w, color: color}
}

func (r *Reporter) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + colorReset
}

// Title opens the output of the n-th file, counting from 1.
func (r *Reporter) Title(n int, name string) {
	fmt.Fprintln(r.w, r.paint(colorBold, fmt.Sprintf("---------------- File #%d: %s ----------------", n, name)))
}

func (r *Reporter) Footer() {
	fmt.Fprintf(r.w, "%s\n\n", separator)
}

func (r *Reporter) Passed(stage string) {
	fmt.Fprintln(r.w, r.paint(colorGreen, stage+" OK!"))
}

func (r *Reporter) Failed(err error) {
	fmt.Fprintln(r.w, r.paint(colorRed, err.Error()))
}

func (r *Reporter) Declarations(st *SymbolTable) {
	fmt.Fprintln(r.w, r.paint(colorBold, "----------------- Declarations -----------------"))
	WriteDeclarations(r.w, st)
}

func (r *Reporter) Offsets(st *SymbolTable) {
	fmt.Fprintln(r.w, r.paint(colorBold, "-------------------- Offsets -------------------"))
	WriteOffsets(r.w, st)
}

// WriteDeclarations prints every entry as `[id] > scope :: ... name`, classes in declaration order
// followed by their members.
func WriteDeclarations(w io.Writer, st *SymbolTable) {
	for _, c := range st.Classes() {
		line := fmt.Sprintf("[%d] > %s", c.ID(), c.Name())
		if super := st.Superclass(c); super != nil {
			line += fmt.Sprintf(" extends '%s'", super.Name())
		}
		fmt.Fprintln(w, line)

		for _, id := range c.Fields.IDs() {
			writeVarDeclaration(w, st.Var(id), c.Name())
		}
		for _, id := range c.Methods.IDs() {
			m := st.Method(id)
			fmt.Fprintf(w, "[%d] > %s :: %s(%s) %s\n", m.ID(), c.Name(), m.Name(), paramList(st, m), m.ReturnType)

			scope := c.Name() + " :: " + m.Name()
			for _, pid := range m.Params.IDs() {
				writeVarDeclaration(w, st.Var(pid), scope)
			}
			for _, lid := range m.Locals.IDs() {
				writeVarDeclaration(w, st.Var(lid), scope)
			}
		}
	}
}

func writeVarDeclaration(w io.Writer, v *VarEntry, scope string) {
	fmt.Fprintf(w, "[%d] > %s :: %s %s %s\n", v.ID(), scope, v.Kind, v.Type, v.Name())
}

func paramList(st *SymbolTable, m *MethodEntry) string {
	params := st.ParamTypes(m)
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.String())
	}
	return strings.Join(names, ", ")
}

// WriteOffsets prints `Class.member: offset` for every class except the main one, fields first.
// Methods overriding an inherited one have no line of their own.
func WriteOffsets(w io.Writer, st *SymbolTable) {
	for _, c := range st.Classes() {
		for _, o := range c.FieldOffsets {
			fmt.Fprintf(w, "%s.%s: %d\n", c.Name(), st.Entry(o.Member).Name(), o.Offset)
		}
		for _, o := range c.MethodOffsets {
			fmt.Fprintf(w, "%s.%s: %d\n", c.Name(), st.Entry(o.Member).Name(), o.Offset)
		}
	}
}
