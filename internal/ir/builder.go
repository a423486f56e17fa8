package ir

import (
	"fmt"
	"strings"
)

// Id references a name.
func Id(name string) *Ident { return &Ident{Name: name} }

// N is an unsized integer constant.
func N(v int) *Int { return &Int{Value: v} }

// Lit is verbatim constant text.
func Lit(text string) *Literal { return &Literal{Text: text} }

// Bits returns a sized binary literal of n copies of bit, e.g. 4'b1111.
func Bits(n int, bit byte) *Literal {
	return Lit(fmt.Sprintf("%d'b%s", n, strings.Repeat(string(bit), n)))
}

// At selects element idx of the named array or bus.
func At(name string, idx Expr) *Index { return &Index{Base: Id(name), Index: idx} }

// AtN selects constant element idx of the named array or bus.
func AtN(name string, idx int) *Index { return At(name, N(idx)) }

// Plus builds a + b.
func Plus(a, b Expr) *Binary { return &Binary{Op: Add, Left: a, Right: b} }

// Minus builds a - b.
func Minus(a, b Expr) *Binary { return &Binary{Op: Sub, Left: a, Right: b} }

// Less builds a < b.
func Less(a, b Expr) *Binary { return &Binary{Op: Lt, Left: a, Right: b} }

// Greater builds a > b.
func Greater(a, b Expr) *Binary { return &Binary{Op: Gt, Left: a, Right: b} }

// And builds a && b.
func And(a, b Expr) *Binary { return &Binary{Op: LogicalAnd, Left: a, Right: b} }

// Negate builds !x.
func Negate(x Expr) *Unary { return &Unary{Op: Not, X: x} }

// Width converts a width given by name into a width expression. An empty
// name means a scalar.
func Width(name string) Expr {
	if name == "" {
		return nil
	}
	return Id(name)
}

// PortInfo is the tuple form used to declare many ports at once.
type PortInfo struct {
	Name      string
	Direction PortDirection
	Width     Expr
	Kind      SignalKind
}

// InputWire declares an input net port.
func InputWire(name string, width Expr) Port {
	return Port{Name: name, Direction: Input, Kind: Wire, Width: width}
}

// OutputWire declares an output net port.
func OutputWire(name string, width Expr) Port {
	return Port{Name: name, Direction: Output, Kind: Wire, Width: width}
}

// OutputReg declares an output register port.
func OutputReg(name string, width Expr) Port {
	return Port{Name: name, Direction: Output, Kind: Reg, Width: width}
}

// PortsFromInfo converts port tuples into ports, preserving order.
func PortsFromInfo(info []PortInfo) []Port {
	ports := make([]Port, 0, len(info))
	for _, in := range info {
		ports = append(ports, Port{Name: in.Name, Direction: in.Direction, Kind: in.Kind, Width: in.Width})
	}
	return ports
}

// NewDecl declares a net or register. A non-nil length makes it an array
// with indices [length:0].
func NewDecl(name string, kind SignalKind, width, length Expr) *Decl {
	return &Decl{Name: name, Kind: kind, Width: width, Length: length}
}

// RegInit declares a register with an initial value.
func RegInit(name string, width, init Expr) *Decl {
	return &Decl{Name: name, Kind: Reg, Width: width, Init: init}
}

// ConstParam declares an integer module parameter.
func ConstParam(name string, value int) Param {
	return Param{Name: name, Value: N(value)}
}

// NewLocalparam declares a module-local constant.
func NewLocalparam(name string, value Expr) *Localparam {
	return &Localparam{Name: name, Value: value}
}

// NewInstance instantiates module under the instance name.
func NewInstance(module, name string, params, ports []Connection) *Instance {
	return &Instance{Module: module, Name: name, Params: params, Ports: ports}
}

// Bind connects formal to the identifier actual.
func Bind(formal, actual string) Connection {
	return Connection{Name: formal, Value: Id(actual)}
}

// BindExpr connects formal to an arbitrary expression.
func BindExpr(formal string, actual Expr) Connection {
	return Connection{Name: formal, Value: actual}
}

// Pairs converts positional (formal, actual) name pairs into connections.
func Pairs(pairs ...[2]string) []Connection {
	conns := make([]Connection, 0, len(pairs))
	for _, p := range pairs {
		conns = append(conns, Bind(p[0], p[1]))
	}
	return conns
}

// PosEdge is a rising-edge sensitivity on the named signal.
func PosEdge(name string) Event { return Event{Edge: Rising, Signal: Id(name)} }

// Clocked builds a procedural block with the given sensitivity list.
func Clocked(sens []Event, body ...Stmt) *Always {
	return &Always{Sens: sens, Body: body}
}

// Set builds lhs <= rhs.
func Set(lhs, rhs Expr) *NonBlocking { return &NonBlocking{LHS: lhs, RHS: rhs} }

// IfElse builds a procedural conditional.
func IfElse(cond Expr, then, els []Stmt) *If {
	return &If{Cond: cond, Then: then, Else: els}
}

// NewCase builds a case statement.
func NewCase(subject Expr, items ...CaseItem) *Case {
	return &Case{Subject: subject, Items: items}
}

// When is a case arm matching a single value.
func When(match Expr, body ...Stmt) CaseItem {
	return CaseItem{Match: []Expr{match}, Body: body}
}

// Default is the default case arm.
func Default(body ...Stmt) CaseItem {
	return CaseItem{Body: body}
}

// Stmts groups statements for IfElse arms.
func Stmts(s ...Stmt) []Stmt { return s }
