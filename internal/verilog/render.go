// Package verilog renders the structural IR as Verilog-2001 source and reads
// module headers back from rendered text.
package verilog

import (
	"fmt"
	"io"
	"strings"

	"bufgen/internal/ir"
)

// Render returns the source text of the given modules, in order.
func Render(modules ...*ir.Module) string {
	p := &printer{}
	for i, m := range modules {
		if i > 0 {
			p.b.WriteString("\n")
		}
		p.emitModule(m)
	}
	return p.b.String()
}

// Emit writes the source text of the given modules to w.
func Emit(w io.Writer, modules ...*ir.Module) error {
	_, err := io.WriteString(w, Render(modules...))
	return err
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) printIndent() {
	for i := 0; i < p.indent; i++ {
		p.b.WriteString("  ")
	}
}

func (p *printer) line(format string, args ...any) {
	p.printIndent()
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteByte('\n')
}

func (p *printer) emitModule(m *ir.Module) {
	if len(m.Params) > 0 {
		p.line("module %s #", m.Name)
		p.line("(")
		p.indent++
		for i, param := range m.Params {
			p.line("parameter %s = %s%s", param.Name, ir.ExprString(param.Value), comma(i, len(m.Params)))
		}
		p.indent--
		p.line(")")
	} else {
		p.line("module %s", m.Name)
	}
	p.line("(")
	p.indent++
	for i, port := range m.Ports {
		p.line("%s%s", declHead(port.Direction.String()+" "+port.Kind.String(), port.Width, port.Name), comma(i, len(m.Ports)))
	}
	p.indent--
	p.line(");")
	p.b.WriteString("\n")
	p.indent++
	p.emitItems(m.Items)
	p.indent--
	p.b.WriteString("\n")
	p.line("endmodule")
}

func comma(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func declHead(kind string, width ir.Expr, name string) string {
	if r := ir.RangeString(width); r != "" {
		return kind + " " + r + " " + name
	}
	return kind + " " + name
}

func (p *printer) emitItems(items []ir.Item) {
	for _, item := range items {
		p.emitItem(item)
	}
}

func (p *printer) emitItem(item ir.Item) {
	switch it := item.(type) {
	case *ir.Decl:
		s := declHead(it.Kind.String(), it.Width, it.Name)
		if it.Length != nil {
			s += " [" + ir.ExprString(it.Length) + ":0]"
		}
		if it.Init != nil {
			s += " = " + ir.ExprString(it.Init)
		}
		p.line("%s;", s)
	case *ir.Localparam:
		p.line("localparam %s = %s;", it.Name, ir.ExprString(it.Value))
	case *ir.Genvar:
		p.line("genvar %s;", it.Name)
	case *ir.Assign:
		p.line("assign %s = %s;", ir.ExprString(it.LHS), ir.ExprString(it.RHS))
	case *ir.Instance:
		p.emitInstance(it)
	case *ir.Always:
		p.b.WriteString("\n")
		p.line("always @(%s) begin", ir.SensString(it.Sens))
		p.indent++
		p.emitStmts(it.Body)
		p.indent--
		p.line("end")
	case *ir.Generate:
		p.b.WriteString("\n")
		p.line("generate")
		p.emitItems(it.Items)
		p.line("endgenerate")
	case *ir.GenIf:
		p.line("if(%s) begin", ir.ExprString(it.Cond))
		p.indent++
		p.emitItems(it.Then)
		p.indent--
		if len(it.Else) > 0 {
			p.line("end else begin")
			p.indent++
			p.emitItems(it.Else)
			p.indent--
		}
		p.line("end")
	case *ir.GenFor:
		v := it.Var
		p.line("for(%s=%s; %s<%s; %s=%s+1) begin : %s",
			v, ir.ExprString(it.From), v, ir.ExprString(it.To), v, v, it.Label)
		p.indent++
		p.emitItems(it.Body)
		p.indent--
		p.line("end")
	default:
		p.line("// unsupported item %T", item)
	}
}

func (p *printer) emitInstance(inst *ir.Instance) {
	p.b.WriteString("\n")
	p.line("%s", inst.Module)
	if len(inst.Params) > 0 {
		p.line("#(")
		p.indent++
		for i, c := range inst.Params {
			p.line(".%s(%s)%s", c.Name, ir.ExprString(c.Value), comma(i, len(inst.Params)))
		}
		p.indent--
		p.line(")")
	}
	p.line("%s", inst.Name)
	p.line("(")
	p.indent++
	for i, c := range inst.Ports {
		p.line(".%s(%s)%s", c.Name, ir.ExprString(c.Value), comma(i, len(inst.Ports)))
	}
	p.indent--
	p.line(");")
}

func (p *printer) emitStmts(stmts []ir.Stmt) {
	for _, s := range stmts {
		p.emitStmt(s)
	}
}

func (p *printer) emitStmt(stmt ir.Stmt) {
	switch s := stmt.(type) {
	case *ir.NonBlocking:
		p.line("%s <= %s;", ir.ExprString(s.LHS), ir.ExprString(s.RHS))
	case *ir.Blocking:
		p.line("%s = %s;", ir.ExprString(s.LHS), ir.ExprString(s.RHS))
	case *ir.If:
		p.line("if(%s) begin", ir.ExprString(s.Cond))
		p.indent++
		p.emitStmts(s.Then)
		p.indent--
		if len(s.Else) > 0 {
			p.line("end else begin")
			p.indent++
			p.emitStmts(s.Else)
			p.indent--
		}
		p.line("end")
	case *ir.Case:
		p.line("case(%s)", ir.ExprString(s.Subject))
		p.indent++
		for _, item := range s.Items {
			if item.Match == nil {
				p.line("default: begin")
			} else {
				labels := make([]string, 0, len(item.Match))
				for _, m := range item.Match {
					labels = append(labels, ir.ExprString(m))
				}
				p.line("%s: begin", strings.Join(labels, ", "))
			}
			p.indent++
			p.emitStmts(item.Body)
			p.indent--
			p.line("end")
		}
		p.indent--
		p.line("endcase")
	default:
		p.line("// unsupported statement %T", stmt)
	}
}
