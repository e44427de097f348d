package internal

import "fmt"

// ResolveMode tells resolveIdentifier what kind of name the caller expects.
type ResolveMode int

const (
	// ResolveDeclare returns the bare name, for new declarations.
	ResolveDeclare ResolveMode = iota
	// ResolveTypeReference requires a declared class.
	ResolveTypeReference
	// ResolveMethodReference looks the name up among the methods of the scope's class and its ancestors.
	ResolveMethodReference
	// ResolveUseSite looks a variable up from the scope's method outwards.
	ResolveUseSite
)

func (m ResolveMode) String() string {
	switch m {
	case ResolveDeclare:
		return "declare"
	case ResolveTypeReference:
		return "type"
	case ResolveMethodReference:
		return "method"
	case ResolveUseSite:
		return "use"
	}
	return fmt.Sprintf("ResolveMode(%d)", int(m))
}

// scopeContext is the class and method a traversal is currently in. method is nil outside method bodies.
type scopeContext struct {
	class  *ClassEntry
	method *MethodEntry
}

func (sc scopeContext) inMethod(m *MethodEntry) scopeContext {
	sc.method = m
	return sc
}

type Resolution struct {
	Name   string
	Type   VariableType
	Var    *VarEntry
	Method *MethodEntry
	Class  *ClassEntry
}

func resolveIdentifier(st *SymbolTable, sc scopeContext, name string, mode ResolveMode) (Resolution, error) {
	switch mode {
	case ResolveTypeReference:
		c, ok := st.LookupClass(name)
		if !ok {
			return Resolution{}, makeSemanticError(name, "class %s is not declared", name)
		}
		return Resolution{Name: name, Type: ClassType(name), Class: c}, nil
	case ResolveMethodReference:
		m, ok := st.LookupMethod(sc.class, name)
		if !ok {
			return Resolution{}, makeSemanticError(name, "method %s is not declared in class %s", name, sc.class.Name())
		}
		return Resolution{Name: name, Type: m.ReturnType, Method: m}, nil
	case ResolveUseSite:
		if sc.method == nil {
			return Resolution{}, makeSemanticError(name, "variable %s used outside of a method", name)
		}
		v, ok := st.LookupForUse(sc.method, name)
		if !ok {
			return Resolution{}, makeSemanticError(name, "variable %s is not declared", name)
		}
		return Resolution{Name: name, Type: v.Type, Var: v}, nil
	case ResolveDeclare:
		return Resolution{Name: name}, nil
	}
	return Resolution{}, makeSemanticError(name, "cannot resolve %s in %v mode", name, mode)
}

// resolveType checks that every class named by tp exists.
func resolveType(st *SymbolTable, sc scopeContext, tp VariableType) error {
	if !tp.IsClass() {
		return nil
	}
	_, err := resolveIdentifier(st, sc, tp.Name, ResolveTypeReference)
	return err
}
