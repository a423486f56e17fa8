package passes

import (
	"fmt"

	"bufgen/internal/diag"
	"bufgen/internal/ir"
)

// NetCheck verifies the structure of a generated design: every name used is
// declared, instances of modules in the design connect every port exactly
// once with matching widths and without an output driving a parent input,
// and names are unique. Instances of library primitives are only checked
// for declared names.
type NetCheck struct {
	reporter   *diag.Reporter
	primitives map[string]bool
	problems   int
}

// NewNetCheck constructs the pass. primitives names the library modules
// the design may instantiate without defining them.
func NewNetCheck(reporter *diag.Reporter, primitives ...string) *NetCheck {
	known := make(map[string]bool, len(primitives))
	for _, p := range primitives {
		known[p] = true
	}
	return &NetCheck{reporter: reporter, primitives: known}
}

// Name implements the Pass interface.
func (n *NetCheck) Name() string {
	return "net-check"
}

// Run executes the pass over the entire design.
func (n *NetCheck) Run(design *ir.Design) error {
	if design == nil {
		return fmt.Errorf("net check requires a non-nil design")
	}
	n.problems = 0
	seen := make(map[string]bool, len(design.Modules))
	for _, module := range design.Modules {
		if seen[module.Name] {
			n.report(module.Name, "module defined twice")
		}
		seen[module.Name] = true
		n.visitModule(design, module)
	}
	if n.problems > 0 {
		return fmt.Errorf("found %d structural problems", n.problems)
	}
	return nil
}

// symbol is one declared name of a module.
type symbol struct {
	width  ir.Expr
	array  bool
	port   bool
	dir    ir.PortDirection
	signal bool
}

type scope struct {
	module  *ir.Module
	symbols map[string]symbol
}

func (n *NetCheck) visitModule(design *ir.Design, m *ir.Module) {
	sc := &scope{module: m, symbols: make(map[string]symbol)}
	declare := func(name string, sym symbol) {
		if _, dup := sc.symbols[name]; dup {
			n.report(m.Name, "%q declared more than once", name)
			return
		}
		sc.symbols[name] = sym
	}
	for _, p := range m.Params {
		declare(p.Name, symbol{})
	}
	for _, p := range m.Ports {
		declare(p.Name, symbol{width: p.Width, port: true, dir: p.Direction, signal: true})
	}
	walkItems(m.Items, func(item ir.Item) {
		switch it := item.(type) {
		case *ir.Decl:
			declare(it.Name, symbol{width: it.Width, array: it.Length != nil, signal: true})
		case *ir.Localparam:
			declare(it.Name, symbol{})
		case *ir.Genvar:
			declare(it.Name, symbol{})
		}
	})

	for _, p := range m.Ports {
		n.checkExpr(sc, m.Name, p.Width)
	}
	n.visitItems(design, sc, m.Items)
}

func walkItems(items []ir.Item, fn func(ir.Item)) {
	for _, item := range items {
		fn(item)
		switch it := item.(type) {
		case *ir.Generate:
			walkItems(it.Items, fn)
		case *ir.GenIf:
			walkItems(it.Then, fn)
			walkItems(it.Else, fn)
		case *ir.GenFor:
			walkItems(it.Body, fn)
		}
	}
}

func (n *NetCheck) visitItems(design *ir.Design, sc *scope, items []ir.Item) {
	loc := sc.module.Name
	instances := make(map[string]bool)
	for _, item := range items {
		switch it := item.(type) {
		case *ir.Decl:
			n.checkExpr(sc, loc, it.Width)
			n.checkExpr(sc, loc, it.Length)
			n.checkExpr(sc, loc, it.Init)
		case *ir.Localparam:
			n.checkExpr(sc, loc, it.Value)
		case *ir.Assign:
			n.checkExpr(sc, loc, it.LHS)
			n.checkExpr(sc, loc, it.RHS)
		case *ir.Always:
			for _, ev := range it.Sens {
				n.checkExpr(sc, loc, ev.Signal)
			}
			n.checkStmts(sc, loc, it.Body)
		case *ir.Instance:
			if instances[it.Name] {
				n.report(loc, "instance name %q used more than once", it.Name)
			}
			instances[it.Name] = true
			n.visitInstance(design, sc, it)
		case *ir.Generate:
			n.visitItems(design, sc, it.Items)
		case *ir.GenIf:
			n.checkExpr(sc, loc, it.Cond)
			n.visitItems(design, sc, it.Then)
			n.visitItems(design, sc, it.Else)
		case *ir.GenFor:
			if _, ok := sc.symbols[it.Var]; !ok {
				n.report(loc, "loop variable %q is not a declared genvar", it.Var)
			}
			n.checkExpr(sc, loc, it.From)
			n.checkExpr(sc, loc, it.To)
			n.visitItems(design, sc, it.Body)
		}
	}
}

func (n *NetCheck) checkStmts(sc *scope, loc string, stmts []ir.Stmt) {
	for _, s := range stmts {
		switch st := s.(type) {
		case *ir.NonBlocking:
			n.checkExpr(sc, loc, st.LHS)
			n.checkExpr(sc, loc, st.RHS)
		case *ir.Blocking:
			n.checkExpr(sc, loc, st.LHS)
			n.checkExpr(sc, loc, st.RHS)
		case *ir.If:
			n.checkExpr(sc, loc, st.Cond)
			n.checkStmts(sc, loc, st.Then)
			n.checkStmts(sc, loc, st.Else)
		case *ir.Case:
			n.checkExpr(sc, loc, st.Subject)
			for _, item := range st.Items {
				for _, m := range item.Match {
					n.checkExpr(sc, loc, m)
				}
				n.checkStmts(sc, loc, item.Body)
			}
		}
	}
}

func (n *NetCheck) checkExpr(sc *scope, loc string, e ir.Expr) {
	switch x := e.(type) {
	case *ir.Ident:
		if _, ok := sc.symbols[x.Name]; !ok {
			n.report(loc, "%q is not declared", x.Name)
		}
	case *ir.Index:
		n.checkExpr(sc, loc, x.Base)
		n.checkExpr(sc, loc, x.Index)
	case *ir.Binary:
		n.checkExpr(sc, loc, x.Left)
		n.checkExpr(sc, loc, x.Right)
	case *ir.Unary:
		n.checkExpr(sc, loc, x.X)
	}
}

func (n *NetCheck) visitInstance(design *ir.Design, sc *scope, inst *ir.Instance) {
	loc := sc.module.Name + "/" + inst.Name
	for _, c := range inst.Params {
		n.checkExpr(sc, loc, c.Value)
	}
	for _, c := range inst.Ports {
		n.checkExpr(sc, loc, c.Value)
	}

	sub := design.Module(inst.Module)
	if sub == nil {
		if !n.primitives[inst.Module] {
			n.report(loc, "module %q is neither generated nor a known primitive", inst.Module)
		}
		return
	}

	bindings := make(map[string]ir.Expr, len(sub.Params))
	for _, p := range sub.Params {
		bindings[p.Name] = p.Value
	}
	for _, c := range inst.Params {
		if _, ok := bindings[c.Name]; !ok {
			n.report(loc, "module %s has no parameter %q", sub.Name, c.Name)
			continue
		}
		bindings[c.Name] = c.Value
	}

	connected := make(map[string]bool, len(inst.Ports))
	for _, c := range inst.Ports {
		if connected[c.Name] {
			n.report(loc, "port %q connected more than once", c.Name)
			continue
		}
		connected[c.Name] = true
		formal, ok := sub.Port(c.Name)
		if !ok {
			n.report(loc, "module %s has no port %q", sub.Name, c.Name)
			continue
		}
		if id, ok := c.Value.(*ir.Ident); ok && formal.Direction == ir.Output {
			if sym := sc.symbols[id.Name]; sym.port && sym.dir == ir.Input {
				n.report(loc, "output %q drives input %q", c.Name, id.Name)
			}
		}
		actual, known := actualWidth(sc, c.Value)
		if !known {
			continue
		}
		want := ir.ExprString(substitute(formal.Width, bindings))
		if got := ir.ExprString(actual); want != got {
			n.report(loc, "port %q is %s bits wide but %s is %s", c.Name, widthLabel(want), ir.ExprString(c.Value), widthLabel(got))
		}
	}
	for _, p := range sub.Ports {
		if !connected[p.Name] {
			n.report(loc, "port %q is not connected", p.Name)
		}
	}
}

// actualWidth returns the width of a connected expression when it can be
// determined structurally.
func actualWidth(sc *scope, e ir.Expr) (ir.Expr, bool) {
	switch x := e.(type) {
	case *ir.Ident:
		sym, ok := sc.symbols[x.Name]
		if !ok || !sym.signal || sym.array {
			return nil, false
		}
		return sym.width, true
	case *ir.Index:
		base, ok := x.Base.(*ir.Ident)
		if !ok {
			return nil, false
		}
		sym, ok := sc.symbols[base.Name]
		if !ok || !sym.signal {
			return nil, false
		}
		if sym.array {
			return sym.width, true
		}
		return nil, true
	default:
		return nil, false
	}
}

func substitute(e ir.Expr, bindings map[string]ir.Expr) ir.Expr {
	switch x := e.(type) {
	case *ir.Ident:
		if v, ok := bindings[x.Name]; ok {
			return v
		}
		return x
	case *ir.Binary:
		return &ir.Binary{Op: x.Op, Left: substitute(x.Left, bindings), Right: substitute(x.Right, bindings)}
	case *ir.Unary:
		return &ir.Unary{Op: x.Op, X: substitute(x.X, bindings)}
	case *ir.Index:
		return &ir.Index{Base: substitute(x.Base, bindings), Index: substitute(x.Index, bindings)}
	default:
		return e
	}
}

func widthLabel(w string) string {
	if w == "" {
		return "1"
	}
	return w
}

func (n *NetCheck) report(loc, format string, args ...any) {
	n.problems++
	n.reporter.Errorf(loc, format, args...)
}
