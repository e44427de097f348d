package internal

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// The runtime every generated module carries: libc declarations, integer printing and the two traps
// array code jumps to.

type runtimeFuncs struct {
	calloc *ir.Func
	printf *ir.Func
	exit   *ir.Func

	printInt *ir.Func
	throwOOB *ir.Func
	throwNSZ *ir.Func
}

// declareRuntime adds the runtime functions to m without bodies, so user code can call them before
// defineRuntime runs.
func declareRuntime(m *ir.Module) *runtimeFuncs {
	rt := &runtimeFuncs{}
	rt.calloc = m.NewFunc("calloc", types.I8Ptr, ir.NewParam("", types.I32), ir.NewParam("", types.I32))
	rt.printf = m.NewFunc("printf", types.I32, ir.NewParam("", types.I8Ptr))
	rt.printf.Sig.Variadic = true
	rt.exit = m.NewFunc("exit", types.Void, ir.NewParam("", types.I32))

	rt.printInt = m.NewFunc("print_int", types.Void, ir.NewParam("i", types.I32))
	rt.throwOOB = m.NewFunc("throw_oob", types.Void)
	rt.throwNSZ = m.NewFunc("throw_nsz", types.Void)
	return rt
}

func defineRuntime(m *ir.Module, rt *runtimeFuncs) {
	cint := newStringConstant(m, "_cint", "%d\n")
	coob := newStringConstant(m, "_cOOB", "Out of bounds\n")
	cnsz := newStringConstant(m, "_cNSZ", "Negative size\n")

	block := rt.printInt.NewBlock("")
	str := block.NewBitCast(cint, types.I8Ptr)
	str.SetName("_str")
	block.NewCall(rt.printf, str, rt.printInt.Params[0])
	block.NewRet(nil)

	defineTrap(rt, rt.throwOOB, coob)
	defineTrap(rt, rt.throwNSZ, cnsz)
}

func defineTrap(rt *runtimeFuncs, f *ir.Func, msg *ir.Global) {
	block := f.NewBlock("")
	str := block.NewBitCast(msg, types.I8Ptr)
	str.SetName("_str")
	block.NewCall(rt.printf, str)
	block.NewCall(rt.exit, constant.NewInt(types.I32, 1))
	block.NewRet(nil)
}

func newStringConstant(m *ir.Module, name string, s string) *ir.Global {
	g := m.NewGlobalDef(name, constant.NewCharArrayFromString(s+"\x00"))
	g.Immutable = true
	return g
}
