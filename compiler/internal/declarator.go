package internal

import (
	"context"

	"tlog.app/go/tlog"
)

// Pass 1. Declare walks the declarations of a file once, creates every entry of the symbol table and
// lays out each class. Types of fields and variables are not checked here since a class may be used
// before it is declared.

type declarator struct {
	st *SymbolTable
	tr tlog.Span
}

func Declare(ctx context.Context, goal *GoalAst) (st *SymbolTable, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "pass1: declare", "classes", len(goal.Classes)+1)
	defer tr.Finish("err", &err)

	d := &declarator{st: NewSymbolTable(), tr: tr}
	err = d.declareMainClass(goal.Main)
	if err != nil {
		return nil, err
	}
	for _, class := range goal.Classes {
		err = d.declareClass(class)
		if err != nil {
			return nil, err
		}
	}
	tr.Printw("declared", "entries", len(d.st.Entries()))
	return d.st, nil
}

func (d *declarator) declareMainClass(ast *MainClassAst) error {
	c, err := d.st.declareClass(ast.ClassName, NoEntry, true)
	if err != nil {
		return atLine(err, ast.Line)
	}
	m, err := d.st.declareMethod(c, "main", VoidType)
	if err != nil {
		return atLine(err, ast.Line)
	}
	// The String[] parameter can't be used by the program so it isn't declared.
	for _, local := range ast.Locals {
		_, err = d.st.declareLocal(m, local.VarName, local.VarType)
		if err != nil {
			return atLine(err, local.Line)
		}
	}
	d.tr.Printw("main class declared", "class", c.Name(), "args", ast.ArgsName, "locals", len(ast.Locals))
	return nil
}

func (d *declarator) declareClass(ast *ClassAst) error {
	super := NoEntry
	if ast.SuperName != "" {
		superClass, ok := d.st.LookupClass(ast.SuperName)
		if !ok {
			return atLine(makeSemanticError(ast.SuperName, "superclass %s of class %s is not declared",
				ast.SuperName, ast.ClassName), ast.Line)
		}
		super = superClass.ID()
	}
	c, err := d.st.declareClass(ast.ClassName, super, false)
	if err != nil {
		return atLine(err, ast.Line)
	}
	sc := scopeContext{class: c}
	for _, field := range ast.Fields {
		_, err = d.st.declareField(c, field.VarName, field.VarType)
		if err != nil {
			return atLine(err, field.Line)
		}
	}
	for _, method := range ast.Methods {
		err = d.declareMethod(sc, method)
		if err != nil {
			return err
		}
	}
	d.st.makeOffsets(c)
	d.tr.Printw("class declared", "class", c.Name(), "super", ast.SuperName,
		"fields", c.Fields.Len(), "methods", c.Methods.Len(),
		"next_field", c.NextFieldOffset, "next_method", c.NextMethodOffset)
	return nil
}

func (d *declarator) declareMethod(sc scopeContext, ast *MethodAst) error {
	name, err := resolveIdentifier(d.st, sc, ast.MethodName, ResolveDeclare)
	if err != nil {
		return atLine(err, ast.Line)
	}
	m, err := d.st.declareMethod(sc.class, name.Name, ast.ReturnTP)
	if err != nil {
		return atLine(err, ast.Line)
	}
	for _, param := range ast.Params {
		_, err = d.st.declareParam(m, param.ParamName, param.ParamTP)
		if err != nil {
			return atLine(err, param.Line)
		}
	}
	// Overrides are checked once the signature is complete, before any local is declared.
	err = d.checkOverride(sc.class, m)
	if err != nil {
		return atLine(err, ast.Line)
	}
	for _, local := range ast.Locals {
		_, err = d.st.declareLocal(m, local.VarName, local.VarType)
		if err != nil {
			return atLine(err, local.Line)
		}
	}
	return nil
}

// checkOverride requires a method with the name of an inherited one to have exactly its signature.
func (d *declarator) checkOverride(c *ClassEntry, m *MethodEntry) error {
	inherited, ok := d.st.LookupMethod(d.st.Superclass(c), m.Name())
	if !ok {
		return nil
	}
	if !d.st.SameSignature(m, inherited) {
		return makeSemanticError(m.Name(), "method %s.%s is incompatible with %s.%s it overrides",
			c.Name(), m.Name(), d.st.OwnerClass(inherited).Name(), inherited.Name())
	}
	return nil
}
