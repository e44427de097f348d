package internal

// The symbol table of one minijava file. All entries are owned by the SymbolTable and live as long as it
// does, entries refer to each other by EntryID only.

type EntryID int

// NoEntry is the parent of a class and the classType of a variable that isn't class-typed.
const NoEntry EntryID = -1

// Entry is one of *ClassEntry, *MethodEntry or *VarEntry.
type Entry interface {
	ID() EntryID
	Name() string
	Parent() EntryID
	entry()
}

type entryBase struct {
	id     EntryID
	name   string
	parent EntryID
}

func (e *entryBase) ID() EntryID     { return e.id }
func (e *entryBase) Name() string    { return e.name }
func (e *entryBase) Parent() EntryID { return e.parent }

type ClassEntry struct {
	entryBase
	Fields  *Scope
	Methods *Scope
	// Super is NoEntry when the class doesn't extend anything.
	Super EntryID
	// EntryPoint marks the main class. It has no fields and only the main method, and gets no layout.
	EntryPoint bool

	FieldOffsets  []MemberOffset
	MethodOffsets []MemberOffset
	// NextFieldOffset and NextMethodOffset are the first free bytes after this class's members,
	// subclasses start laying out from here.
	NextFieldOffset  int
	NextMethodOffset int
}

type MemberOffset struct {
	Member EntryID
	Offset int
}

type MethodEntry struct {
	entryBase
	ReturnType VariableType
	Params     *Scope
	Locals     *Scope
}

type VarKind int

const (
	FieldVar VarKind = iota
	ParamVar
	LocalVar
)

func (k VarKind) String() string {
	switch k {
	case FieldVar:
		return "field"
	case ParamVar:
		return "param"
	}
	return "local"
}

type VarEntry struct {
	entryBase
	Type VariableType
	Kind VarKind
	// ClassType is filled by the type checker when Type names a class.
	ClassType EntryID
}

func (*ClassEntry) entry()  {}
func (*MethodEntry) entry() {}
func (*VarEntry) entry()    {}

// Scope maps names to entries and remembers insertion order.
type Scope struct {
	ids   []EntryID
	index map[string]EntryID
}

func newScope() *Scope {
	return &Scope{index: map[string]EntryID{}}
}

func (scope *Scope) Lookup(name string) (EntryID, bool) {
	id, ok := scope.index[name]
	return id, ok
}

func (scope *Scope) Has(name string) bool {
	_, ok := scope.index[name]
	return ok
}

// IDs returns entries in insertion order.
func (scope *Scope) IDs() []EntryID {
	return scope.ids
}

func (scope *Scope) Len() int {
	return len(scope.ids)
}

func (scope *Scope) insert(name string, id EntryID) bool {
	if _, ok := scope.index[name]; ok {
		return false
	}
	scope.index[name] = id
	scope.ids = append(scope.ids, id)
	return true
}

type SymbolTable struct {
	entries []Entry
	classes *Scope
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{classes: newScope()}
}

func (st *SymbolTable) Entry(id EntryID) Entry {
	if id < 0 || int(id) >= len(st.entries) {
		return nil
	}
	return st.entries[id]
}

// Entries returns every entry in creation order.
func (st *SymbolTable) Entries() []Entry {
	return st.entries
}

func (st *SymbolTable) Class(id EntryID) *ClassEntry {
	c, _ := st.Entry(id).(*ClassEntry)
	return c
}

func (st *SymbolTable) Method(id EntryID) *MethodEntry {
	m, _ := st.Entry(id).(*MethodEntry)
	return m
}

func (st *SymbolTable) Var(id EntryID) *VarEntry {
	v, _ := st.Entry(id).(*VarEntry)
	return v
}

// Classes returns classes in declaration order, main class first.
func (st *SymbolTable) Classes() []*ClassEntry {
	ret := make([]*ClassEntry, 0, st.classes.Len())
	for _, id := range st.classes.IDs() {
		ret = append(ret, st.Class(id))
	}
	return ret
}

func (st *SymbolTable) LookupClass(name string) (*ClassEntry, bool) {
	id, ok := st.classes.Lookup(name)
	if !ok {
		return nil, false
	}
	return st.Class(id), true
}

func (st *SymbolTable) Superclass(c *ClassEntry) *ClassEntry {
	if c.Super == NoEntry {
		return nil
	}
	return st.Class(c.Super)
}

// OwnerClass returns the class a method or a field is declared in.
func (st *SymbolTable) OwnerClass(e Entry) *ClassEntry {
	switch e := e.(type) {
	case *ClassEntry:
		return e
	case *MethodEntry:
		return st.Class(e.parent)
	case *VarEntry:
		if e.Kind == FieldVar {
			return st.Class(e.parent)
		}
		return st.OwnerClass(st.Method(e.parent))
	}
	return nil
}

// LookupField searches c and then its ancestors.
func (st *SymbolTable) LookupField(c *ClassEntry, name string) (*VarEntry, bool) {
	for ; c != nil; c = st.Superclass(c) {
		if id, ok := c.Fields.Lookup(name); ok {
			return st.Var(id), true
		}
	}
	return nil, false
}

// LookupMethod searches c and then its ancestors.
func (st *SymbolTable) LookupMethod(c *ClassEntry, name string) (*MethodEntry, bool) {
	for ; c != nil; c = st.Superclass(c) {
		if id, ok := c.Methods.Lookup(name); ok {
			return st.Method(id), true
		}
	}
	return nil, false
}

// LookupForUse resolves a variable used inside m: locals, then params, then the fields of the class
// declaring m including inherited ones.
func (st *SymbolTable) LookupForUse(m *MethodEntry, name string) (*VarEntry, bool) {
	if id, ok := m.Locals.Lookup(name); ok {
		return st.Var(id), true
	}
	if id, ok := m.Params.Lookup(name); ok {
		return st.Var(id), true
	}
	return st.LookupField(st.OwnerClass(m), name)
}

// Inherits reports whether ancestor is a strict ancestor of c.
func (st *SymbolTable) Inherits(c *ClassEntry, ancestor *ClassEntry) bool {
	for p := st.Superclass(c); p != nil; p = st.Superclass(p) {
		if p.id == ancestor.id {
			return true
		}
	}
	return false
}

// IsSubtype is equality for primitive and array types and the reflexive transitive closure of extends
// for class types.
func (st *SymbolTable) IsSubtype(sub, super VariableType) bool {
	if sub.TP != super.TP {
		return false
	}
	if !sub.IsClass() || sub.Name == super.Name {
		return true
	}
	subClass, ok := st.LookupClass(sub.Name)
	if !ok {
		return false
	}
	superClass, ok := st.LookupClass(super.Name)
	if !ok {
		return false
	}
	return st.Inherits(subClass, superClass)
}

func (st *SymbolTable) ParamTypes(m *MethodEntry) []VariableType {
	ret := make([]VariableType, 0, m.Params.Len())
	for _, id := range m.Params.IDs() {
		ret = append(ret, st.Var(id).Type)
	}
	return ret
}

// SameSignature is the override rule: same return type and the same parameter types, no covariance.
func (st *SymbolTable) SameSignature(a, b *MethodEntry) bool {
	if a.ReturnType != b.ReturnType {
		return false
	}
	pa, pb := st.ParamTypes(a), st.ParamTypes(b)
	if len(pa) != len(pb) {
		return false
	}
	for i := range pa {
		if pa[i] != pb[i] {
			return false
		}
	}
	return true
}

// MatchArgs reports whether a call of m with arguments of the given types is well typed.
func (st *SymbolTable) MatchArgs(m *MethodEntry, args []VariableType) bool {
	params := st.ParamTypes(m)
	if len(params) != len(args) {
		return false
	}
	for i := range params {
		if !st.IsSubtype(args[i], params[i]) {
			return false
		}
	}
	return true
}

func (st *SymbolTable) add(e Entry) {
	st.entries = append(st.entries, e)
}

func (st *SymbolTable) nextID() EntryID {
	return EntryID(len(st.entries))
}

func (st *SymbolTable) declareClass(name string, super EntryID, entryPoint bool) (*ClassEntry, error) {
	if st.classes.Has(name) {
		return nil, makeSemanticError(name, "class %s is already declared", name)
	}
	c := &ClassEntry{
		entryBase:  entryBase{id: st.nextID(), name: name, parent: NoEntry},
		Fields:     newScope(),
		Methods:    newScope(),
		Super:      super,
		EntryPoint: entryPoint,
	}
	st.add(c)
	st.classes.insert(name, c.id)
	return c, nil
}

func (st *SymbolTable) declareField(c *ClassEntry, name string, tp VariableType) (*VarEntry, error) {
	if c.Fields.Has(name) {
		return nil, makeSemanticError(name, "field %s is already declared in class %s", name, c.name)
	}
	v := st.newVar(c.id, name, tp, FieldVar)
	c.Fields.insert(name, v.id)
	return v, nil
}

func (st *SymbolTable) declareMethod(c *ClassEntry, name string, returnTP VariableType) (*MethodEntry, error) {
	if c.Methods.Has(name) {
		return nil, makeSemanticError(name, "method %s is already declared in class %s", name, c.name)
	}
	m := &MethodEntry{
		entryBase:  entryBase{id: st.nextID(), name: name, parent: c.id},
		ReturnType: returnTP,
		Params:     newScope(),
		Locals:     newScope(),
	}
	st.add(m)
	c.Methods.insert(name, m.id)
	return m, nil
}

// Params and locals share one namespace.
func (st *SymbolTable) declareParam(m *MethodEntry, name string, tp VariableType) (*VarEntry, error) {
	if m.Params.Has(name) {
		return nil, makeSemanticError(name, "parameter %s is already declared in method %s", name, m.name)
	}
	v := st.newVar(m.id, name, tp, ParamVar)
	m.Params.insert(name, v.id)
	return v, nil
}

func (st *SymbolTable) declareLocal(m *MethodEntry, name string, tp VariableType) (*VarEntry, error) {
	if m.Params.Has(name) || m.Locals.Has(name) {
		return nil, makeSemanticError(name, "variable %s is already declared in method %s", name, m.name)
	}
	v := st.newVar(m.id, name, tp, LocalVar)
	m.Locals.insert(name, v.id)
	return v, nil
}

func (st *SymbolTable) newVar(parent EntryID, name string, tp VariableType, kind VarKind) *VarEntry {
	v := &VarEntry{
		entryBase: entryBase{id: st.nextID(), name: name, parent: parent},
		Type:      tp,
		Kind:      kind,
		ClassType: NoEntry,
	}
	st.add(v)
	return v
}

// makeOffsets lays out c right after its superclass. Methods overriding an inherited one keep the
// ancestor's slot and get no new offset.
func (st *SymbolTable) makeOffsets(c *ClassEntry) {
	if c.EntryPoint {
		return
	}
	c.FieldOffsets, c.MethodOffsets = nil, nil
	if super := st.Superclass(c); super != nil {
		c.NextFieldOffset, c.NextMethodOffset = super.NextFieldOffset, super.NextMethodOffset
	}
	for _, id := range c.Fields.IDs() {
		c.FieldOffsets = append(c.FieldOffsets, MemberOffset{Member: id, Offset: c.NextFieldOffset})
		c.NextFieldOffset += st.Var(id).Type.Size()
	}
	super := st.Superclass(c)
	for _, id := range c.Methods.IDs() {
		if _, overrides := st.LookupMethod(super, st.Method(id).name); overrides {
			continue
		}
		c.MethodOffsets = append(c.MethodOffsets, MemberOffset{Member: id, Offset: c.NextMethodOffset})
		c.NextMethodOffset += methodSlotSize
	}
}

const methodSlotSize = 8

// FieldOffset returns the byte offset of field v inside its class's field area.
func (st *SymbolTable) FieldOffset(v *VarEntry) (int, bool) {
	c := st.Class(v.parent)
	if c == nil {
		return 0, false
	}
	for _, o := range c.FieldOffsets {
		if o.Member == v.id {
			return o.Offset, true
		}
	}
	return 0, false
}
