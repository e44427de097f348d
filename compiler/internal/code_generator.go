package internal

import (
	"context"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"tlog.app/go/tlog"
)

// Pass 3. Lower turns a checked file into an llvm module: one vtable per class, the runtime, and one
// function per method named `Class.method` taking the receiver as an opaque i8* first.
//
// Objects start with an 8 byte vtable pointer followed by the fields at their layout offsets.

const vtablePointerSize = 8

type codeGenerator struct {
	st      *SymbolTable
	module  *ir.Module
	runtime *runtimeFuncs
	funcs   map[EntryID]*ir.Func
	vtables map[EntryID][]*MethodEntry
	tr      tlog.Span
}

// funcContext is the state of the function being generated. Temporaries and labels are numbered from
// zero in every function.
type funcContext struct {
	sc     scopeContext
	fn     *ir.Func
	block  *ir.Block
	this   value.Value
	slots  map[string]*ir.InstAlloca
	temps  int
	labels int
}

func Lower(ctx context.Context, goal *GoalAst, st *SymbolTable) (module *ir.Module, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "pass3: lower")
	defer tr.Finish("err", &err)

	g := &codeGenerator{
		st:      st,
		module:  ir.NewModule(),
		funcs:   map[EntryID]*ir.Func{},
		vtables: map[EntryID][]*MethodEntry{},
		tr:      tr,
	}
	g.runtime = declareRuntime(g.module)
	g.declareMethods()
	g.generateVTables()
	defineRuntime(g.module, g.runtime)

	err = g.generateMainClass(goal.Main)
	if err != nil {
		return nil, err
	}
	for _, class := range goal.Classes {
		err = g.generateClass(class)
		if err != nil {
			return nil, err
		}
	}
	if tr.If("dump_ir") {
		tr.Printw("ir", "text", g.module.String())
	}
	return g.module, nil
}

// VTable returns the slots of c: the superclass's slots with redeclared methods replaced in place,
// followed by the methods c introduces in declaration order. The main class has none.
func VTable(st *SymbolTable, c *ClassEntry) []*MethodEntry {
	return vtable(st, c, nil)
}

func vtable(st *SymbolTable, c *ClassEntry, memo map[EntryID][]*MethodEntry) []*MethodEntry {
	if c.EntryPoint {
		return nil
	}
	if slots, ok := memo[c.ID()]; ok {
		return slots
	}
	var slots []*MethodEntry
	if super := st.Superclass(c); super != nil {
		slots = append(slots, vtable(st, super, memo)...)
	}
	for _, id := range c.Methods.IDs() {
		m := st.Method(id)
		replaced := false
		for i, slot := range slots {
			if slot.Name() == m.Name() {
				slots[i], replaced = m, true
				break
			}
		}
		if !replaced {
			slots = append(slots, m)
		}
	}
	if memo != nil {
		memo[c.ID()] = slots
	}
	return slots
}

func irType(tp VariableType) types.Type {
	switch tp.TP {
	case VoidVariableType:
		return types.Void
	case IntVariableType:
		return types.I32
	case BooleanVariableType:
		return types.I1
	case IntArrayVariableType:
		return types.I32Ptr
	}
	return types.I8Ptr
}

func (g *codeGenerator) declareMethods() {
	for _, c := range g.st.Classes() {
		for _, id := range c.Methods.IDs() {
			m := g.st.Method(id)
			var f *ir.Func
			if c.EntryPoint {
				f = g.module.NewFunc("main", types.I32)
			} else {
				params := []*ir.Param{ir.NewParam("this", types.I8Ptr)}
				for _, pid := range m.Params.IDs() {
					p := g.st.Var(pid)
					params = append(params, ir.NewParam("p."+p.Name(), irType(p.Type)))
				}
				f = g.module.NewFunc(c.Name()+"."+m.Name(), irType(m.ReturnType), params...)
			}
			g.funcs[m.ID()] = f
		}
	}
}

func (g *codeGenerator) generateVTables() {
	for _, c := range g.st.Classes() {
		slots := vtable(g.st, c, g.vtables)
		elems := make([]constant.Constant, 0, len(slots))
		for _, m := range slots {
			elems = append(elems, constant.NewBitCast(g.funcs[m.ID()], types.I8Ptr))
		}
		tp := types.NewArray(uint64(len(elems)), types.I8Ptr)
		g.module.NewGlobalDef("."+c.Name()+"_vtable", constant.NewArray(tp, elems...))
		if g.tr.If("vtables") {
			names := make([]string, 0, len(slots))
			for _, m := range slots {
				names = append(names, g.st.OwnerClass(m).Name()+"."+m.Name())
			}
			g.tr.Printw("vtable", "class", c.Name(), "slots", names)
		}
	}
}

func (g *codeGenerator) generateMainClass(ast *MainClassAst) error {
	c, _ := g.st.LookupClass(ast.ClassName)
	main, _ := g.st.LookupMethod(c, "main")
	fc := g.newFuncContext(scopeContext{class: c, method: main})
	err := g.generateStatementsCode(fc, ast.Statements)
	if err != nil {
		return err
	}
	fc.block.NewRet(constant.NewInt(types.I32, 0))
	return nil
}

func (g *codeGenerator) generateClass(ast *ClassAst) error {
	c, _ := g.st.LookupClass(ast.ClassName)
	for _, method := range ast.Methods {
		id, _ := c.Methods.Lookup(method.MethodName)
		err := g.generateMethodCode(scopeContext{class: c, method: g.st.Method(id)}, method)
		if err != nil {
			return err
		}
	}
	return nil
}

// define <ret> @Class.method(i8* %this, <type> %p.a, ...)
// every parameter is copied into its own stack slot before the body runs.
func (g *codeGenerator) generateMethodCode(sc scopeContext, ast *MethodAst) error {
	fc := g.newFuncContext(sc)
	err := g.generateStatementsCode(fc, ast.Statements)
	if err != nil {
		return err
	}
	ret, err := g.generateExpressionCode(fc, ast.Return)
	if err != nil {
		return err
	}
	fc.block.NewRet(ret)
	g.tr.Printw("method generated", "method", fc.fn.Name(), "temps", fc.temps, "labels", fc.labels)
	return nil
}

func (g *codeGenerator) newFuncContext(sc scopeContext) *funcContext {
	fn := g.funcs[sc.method.ID()]
	fc := &funcContext{sc: sc, fn: fn, slots: map[string]*ir.InstAlloca{}}
	fc.block = fn.NewBlock("")
	if !sc.class.EntryPoint {
		fc.this = fn.Params[0]
	}
	for i, id := range sc.method.Params.IDs() {
		p := g.st.Var(id)
		slot := fc.alloca(p)
		fc.block.NewStore(fn.Params[i+1], slot)
	}
	for _, id := range sc.method.Locals.IDs() {
		fc.alloca(g.st.Var(id))
	}
	return fc
}

func (fc *funcContext) alloca(v *VarEntry) *ir.InstAlloca {
	slot := fc.block.NewAlloca(irType(v.Type))
	slot.SetName(v.Name())
	fc.slots[v.Name()] = slot
	return slot
}

func (fc *funcContext) nextTemp() string {
	name := fmt.Sprintf("_%d", fc.temps)
	fc.temps++
	return name
}

func (fc *funcContext) newBlock(prefix string) *ir.Block {
	block := fc.fn.NewBlock(fmt.Sprintf("%s.%d", prefix, fc.labels))
	fc.labels++
	return block
}

func (g *codeGenerator) generateStatementsCode(fc *funcContext, stms []StatementAst) error {
	for _, stm := range stms {
		err := g.generateStatementCode(fc, stm)
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *codeGenerator) generateStatementCode(fc *funcContext, stm StatementAst) error {
	switch stm := stm.(type) {
	case *BlockStatementAst:
		return g.generateStatementsCode(fc, stm.Statements)
	case *IfStatementAst:
		return g.generateIfStatementCode(fc, stm)
	case *WhileStatementAst:
		return g.generateWhileStatementCode(fc, stm)
	case *PrintStatementAst:
		v, err := g.generateExpressionCode(fc, stm.Value)
		if err != nil {
			return err
		}
		fc.block.NewCall(g.runtime.printInt, v)
		return nil
	case *AssignStatementAst:
		return g.generateAssignStatementCode(fc, stm)
	case *ArrayAssignStatementAst:
		return makeUnsupportedError("array element assignment to " + stm.VarName)
	}
	return makeUnsupportedError(fmt.Sprintf("%T", stm))
}

//	br i1 cond, label %then.N, label %else.N+1
//	then.N:  ... br label %endif.N+2
//	else.N+1: ... br label %endif.N+2
//	endif.N+2:
func (g *codeGenerator) generateIfStatementCode(fc *funcContext, stm *IfStatementAst) error {
	cond, err := g.generateExpressionCode(fc, stm.Condition)
	if err != nil {
		return err
	}
	thenBlock, elseBlock, endBlock := fc.newBlock("then"), fc.newBlock("else"), fc.newBlock("endif")
	fc.block.NewCondBr(cond, thenBlock, elseBlock)

	fc.block = thenBlock
	err = g.generateStatementCode(fc, stm.IfTrueStatement)
	if err != nil {
		return err
	}
	fc.block.NewBr(endBlock)

	fc.block = elseBlock
	err = g.generateStatementCode(fc, stm.IfFalseStatement)
	if err != nil {
		return err
	}
	fc.block.NewBr(endBlock)

	fc.block = endBlock
	return nil
}

func (g *codeGenerator) generateWhileStatementCode(fc *funcContext, stm *WhileStatementAst) error {
	loopBlock, bodyBlock, endBlock := fc.newBlock("loop"), fc.newBlock("body"), fc.newBlock("endloop")
	fc.block.NewBr(loopBlock)

	fc.block = loopBlock
	cond, err := g.generateExpressionCode(fc, stm.Condition)
	if err != nil {
		return err
	}
	fc.block.NewCondBr(cond, bodyBlock, endBlock)

	fc.block = bodyBlock
	err = g.generateStatementCode(fc, stm.Statement)
	if err != nil {
		return err
	}
	fc.block.NewBr(loopBlock)

	fc.block = endBlock
	return nil
}

func (g *codeGenerator) generateAssignStatementCode(fc *funcContext, stm *AssignStatementAst) error {
	v, err := g.generateExpressionCode(fc, stm.Value)
	if err != nil {
		return err
	}
	addr, _, err := g.addressOf(fc, stm.VarName)
	if err != nil {
		return err
	}
	fc.block.NewStore(v, addr)
	return nil
}

// addressOf returns the stack slot of a param or a local, or the address of a field of this.
func (g *codeGenerator) addressOf(fc *funcContext, name string) (value.Value, types.Type, error) {
	res, err := resolveIdentifier(g.st, fc.sc, name, ResolveUseSite)
	if err != nil {
		return nil, nil, err
	}
	tp := irType(res.Type)
	if res.Var.Kind != FieldVar {
		return fc.slots[name], tp, nil
	}
	offset, ok := g.st.FieldOffset(res.Var)
	if !ok {
		return nil, nil, makeSemanticError(name, "field %s has no layout", name)
	}
	ptr := fc.block.NewGetElementPtr(types.I8, fc.this, constant.NewInt(types.I32, int64(vtablePointerSize+offset)))
	ptr.SetName(fc.nextTemp())
	addr := fc.block.NewBitCast(ptr, types.NewPointer(tp))
	addr.SetName(fc.nextTemp())
	return addr, tp, nil
}

func (g *codeGenerator) generateExpressionCode(fc *funcContext, expr ExpressionAst) (value.Value, error) {
	switch expr := expr.(type) {
	case *IntegerConstantAst:
		return constant.NewInt(types.I32, int64(expr.Value)), nil
	case *BooleanConstantAst:
		if expr.Value {
			return constant.NewInt(types.I1, 1), nil
		}
		return constant.NewInt(types.I1, 0), nil
	case *IdentifierAst:
		addr, tp, err := g.addressOf(fc, expr.Name)
		if err != nil {
			return nil, err
		}
		load := fc.block.NewLoad(tp, addr)
		load.SetName(fc.nextTemp())
		return load, nil
	case *ThisAst:
		if fc.this == nil {
			return nil, makeUnsupportedError("this in main")
		}
		return fc.this, nil
	case *BracketExpressionAst:
		return g.generateExpressionCode(fc, expr.Inner)
	case *NotExpressionAst:
		operand, err := g.generateExpressionCode(fc, expr.Operand)
		if err != nil {
			return nil, err
		}
		not := fc.block.NewSub(constant.NewInt(types.I1, 1), operand)
		not.SetName(fc.nextTemp())
		return not, nil
	case *BinaryExpressionAst:
		return g.generateBinaryExpressionCode(fc, expr)
	case *ArrayLookupAst:
		return nil, makeUnsupportedError("array lookup")
	case *ArrayLengthAst:
		return nil, makeUnsupportedError("array length")
	case *MethodCallAst:
		return nil, makeUnsupportedError("method call " + expr.MethodName)
	case *ArrayAllocationAst:
		return nil, makeUnsupportedError("array allocation")
	case *ObjectAllocationAst:
		return nil, makeUnsupportedError("object allocation of " + expr.ClassName)
	}
	return nil, makeUnsupportedError(fmt.Sprintf("%T", expr))
}

// Both operands are always evaluated, && doesn't short circuit.
func (g *codeGenerator) generateBinaryExpressionCode(fc *funcContext, expr *BinaryExpressionAst) (value.Value, error) {
	left, err := g.generateExpressionCode(fc, expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := g.generateExpressionCode(fc, expr.Right)
	if err != nil {
		return nil, err
	}
	var inst value.Named
	switch expr.Op.Op {
	case AndOpTP:
		inst = fc.block.NewAnd(left, right)
	case LessOpTP:
		inst = fc.block.NewICmp(enum.IPredSLT, left, right)
	case AddOpTP:
		inst = fc.block.NewAdd(left, right)
	case MinusOpTP:
		inst = fc.block.NewSub(left, right)
	case MultipleOpTP:
		inst = fc.block.NewMul(left, right)
	default:
		return nil, makeUnsupportedError("operator " + expr.Op.Name)
	}
	inst.SetName(fc.nextTemp())
	return inst, nil
}
