// Package ir defines the structural hardware description the generators
// assemble and the renderer prints. Nodes are plain values owned by the
// generator call that creates them.
package ir

// Design is the set of modules generated for one buffer.
type Design struct {
	Modules  []*Module
	TopLevel *Module
}

// Module returns the module with the given name, or nil.
func (d *Design) Module(name string) *Module {
	if d == nil {
		return nil
	}
	for _, m := range d.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Module models a hardware module with parameters, ports and body items.
type Module struct {
	Name   string
	Params []Param
	Ports  []Port
	Items  []Item
}

// Port returns the port with the given name.
func (m *Module) Port(name string) (Port, bool) {
	for _, p := range m.Ports {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// Param is a module parameter with its default value.
type Param struct {
	Name  string
	Value Expr
}

// Port represents a module IO port.
type Port struct {
	Name      string
	Direction PortDirection
	Kind      SignalKind
	// Width is the bit count; nil means a scalar.
	Width Expr
}

// PortDirection enumerates supported port directions.
type PortDirection int

const (
	Input PortDirection = iota
	Output
	InOut
)

func (d PortDirection) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	case InOut:
		return "inout"
	default:
		return "?"
	}
}

// SignalKind classifies how a signal is driven.
type SignalKind int

const (
	Wire SignalKind = iota
	Reg
)

func (k SignalKind) String() string {
	if k == Reg {
		return "reg"
	}
	return "wire"
}

// Item is implemented by every module body node.
type Item interface {
	isItem()
}

// Decl declares a net or register, optionally as an array [Length:0].
type Decl struct {
	Name   string
	Kind   SignalKind
	Width  Expr
	Length Expr
	Init   Expr
}

// Localparam declares a module-local constant.
type Localparam struct {
	Name  string
	Value Expr
}

// Genvar declares a generate loop variable.
type Genvar struct {
	Name string
}

// Instance instantiates a submodule.
type Instance struct {
	Module string
	Name   string
	Params []Connection
	Ports  []Connection
}

// Connection binds a formal parameter or port to an actual expression.
type Connection struct {
	Name  string
	Value Expr
}

// Always is a procedural block triggered by its sensitivity list.
type Always struct {
	Sens []Event
	Body []Stmt
}

// Edge qualifies an event in a sensitivity list.
type Edge int

const (
	AnyEdge Edge = iota
	Rising
	Falling
)

// Event is one entry of a sensitivity list.
type Event struct {
	Edge   Edge
	Signal Expr
}

// Assign is a continuous assignment.
type Assign struct {
	LHS Expr
	RHS Expr
}

// Generate wraps items in a generate region.
type Generate struct {
	Items []Item
}

// GenIf is a conditional generate construct.
type GenIf struct {
	Cond Expr
	Then []Item
	Else []Item
}

// GenFor is a generate loop: for (Var = From; Var < To; Var = Var + 1)
// with a named block.
type GenFor struct {
	Var   string
	From  Expr
	To    Expr
	Label string
	Body  []Item
}

func (*Decl) isItem()       {}
func (*Localparam) isItem() {}
func (*Genvar) isItem()     {}
func (*Instance) isItem()   {}
func (*Always) isItem()     {}
func (*Assign) isItem()     {}
func (*Generate) isItem()   {}
func (*GenIf) isItem()      {}
func (*GenFor) isItem()     {}

// Stmt is implemented by procedural statements.
type Stmt interface {
	isStmt()
}

// NonBlocking is a "<=" assignment.
type NonBlocking struct {
	LHS Expr
	RHS Expr
}

// Blocking is a "=" assignment.
type Blocking struct {
	LHS Expr
	RHS Expr
}

// If is a procedural conditional; Else may be empty.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// Case is a case statement over Subject.
type Case struct {
	Subject Expr
	Items   []CaseItem
}

// CaseItem is one arm of a Case. A nil Match is the default arm.
type CaseItem struct {
	Match []Expr
	Body  []Stmt
}

func (*NonBlocking) isStmt() {}
func (*Blocking) isStmt()    {}
func (*If) isStmt()          {}
func (*Case) isStmt()        {}

// Expr is implemented by expressions.
type Expr interface {
	isExpr()
}

// Ident references a named signal, parameter or genvar.
type Ident struct {
	Name string
}

// Int is an unsized decimal constant.
type Int struct {
	Value int
}

// Literal is verbatim constant text such as 2'b01.
type Literal struct {
	Text string
}

// Index selects one element or bit: Base[Index].
type Index struct {
	Base  Expr
	Index Expr
}

// Binary is a binary operation.
type Binary struct {
	Op    BinOp
	Left  Expr
	Right Expr
}

// Unary is a prefix operation.
type Unary struct {
	Op UnOp
	X  Expr
}

func (*Ident) isExpr()   {}
func (*Int) isExpr()     {}
func (*Literal) isExpr() {}
func (*Index) isExpr()   {}
func (*Binary) isExpr()  {}
func (*Unary) isExpr()   {}

// BinOp enumerates supported binary ops.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Lt
	Gt
	Eq
	LogicalAnd
	LogicalOr
)

// Symbol returns the operator's source spelling.
func (op BinOp) Symbol() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Lt:
		return "<"
	case Gt:
		return ">"
	case Eq:
		return "=="
	case LogicalAnd:
		return "&&"
	case LogicalOr:
		return "||"
	default:
		return "?"
	}
}

// UnOp enumerates supported unary ops.
type UnOp int

const (
	Not UnOp = iota
	Neg
)

// Symbol returns the operator's source spelling.
func (op UnOp) Symbol() string {
	if op == Neg {
		return "-"
	}
	return "!"
}
