package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes a simple human-readable representation of the design.
func Dump(design *Design, w io.Writer) {
	if design == nil {
		fmt.Fprintln(w, "<nil design>")
		return
	}
	for _, module := range design.Modules {
		top := ""
		if module == design.TopLevel {
			top = " (top)"
		}
		fmt.Fprintf(w, "module %s%s\n", module.Name, top)
		dumpParams(module, w)
		dumpPorts(module, w)
		dumpItems(module.Items, w, 1)
		fmt.Fprintln(w)
	}
}

func dumpParams(module *Module, w io.Writer) {
	if len(module.Params) == 0 {
		return
	}
	fmt.Fprintln(w, "  params:")
	for _, p := range module.Params {
		fmt.Fprintf(w, "    %s = %s\n", p.Name, ExprString(p.Value))
	}
}

func dumpPorts(module *Module, w io.Writer) {
	if len(module.Ports) == 0 {
		return
	}
	fmt.Fprintln(w, "  ports:")
	for _, port := range module.Ports {
		fmt.Fprintf(w, "    %-3s %-4s %s %s\n",
			portDirection(port.Direction),
			port.Kind,
			port.Name,
			widthString(port.Width),
		)
	}
}

func dumpItems(items []Item, w io.Writer, depth int) {
	pad := strings.Repeat("  ", depth)
	for _, item := range items {
		switch it := item.(type) {
		case *Decl:
			arr := ""
			if it.Length != nil {
				arr = fmt.Sprintf(" x[%s:0]", ExprString(it.Length))
			}
			fmt.Fprintf(w, "%s%s %s %s%s\n", pad, it.Kind, it.Name, widthString(it.Width), arr)
		case *Localparam:
			fmt.Fprintf(w, "%slocalparam %s = %s\n", pad, it.Name, ExprString(it.Value))
		case *Genvar:
			fmt.Fprintf(w, "%sgenvar %s\n", pad, it.Name)
		case *Instance:
			fmt.Fprintf(w, "%sinstance %s %s (%d params, %d ports)\n", pad, it.Module, it.Name, len(it.Params), len(it.Ports))
		case *Always:
			fmt.Fprintf(w, "%salways @(%s) %d stmts\n", pad, SensString(it.Sens), len(it.Body))
		case *Assign:
			fmt.Fprintf(w, "%sassign %s = %s\n", pad, ExprString(it.LHS), ExprString(it.RHS))
		case *Generate:
			fmt.Fprintf(w, "%sgenerate\n", pad)
			dumpItems(it.Items, w, depth+1)
		case *GenIf:
			fmt.Fprintf(w, "%sif %s\n", pad, ExprString(it.Cond))
			dumpItems(it.Then, w, depth+1)
			if len(it.Else) > 0 {
				fmt.Fprintf(w, "%selse\n", pad)
				dumpItems(it.Else, w, depth+1)
			}
		case *GenFor:
			fmt.Fprintf(w, "%sfor %s in [%s, %s) : %s\n", pad, it.Var, ExprString(it.From), ExprString(it.To), it.Label)
			dumpItems(it.Body, w, depth+1)
		default:
			fmt.Fprintf(w, "%s<unknown item %T>\n", pad, item)
		}
	}
}

// ExprString renders an expression in hardware-description syntax.
func ExprString(e Expr) string {
	switch x := e.(type) {
	case nil:
		return ""
	case *Ident:
		return x.Name
	case *Int:
		return strconv.Itoa(x.Value)
	case *Literal:
		return x.Text
	case *Index:
		return ExprString(x.Base) + "[" + ExprString(x.Index) + "]"
	case *Binary:
		return operand(x.Left) + " " + x.Op.Symbol() + " " + operand(x.Right)
	case *Unary:
		return x.Op.Symbol() + operand(x.X)
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func operand(e Expr) string {
	if _, ok := e.(*Binary); ok {
		return "(" + ExprString(e) + ")"
	}
	return ExprString(e)
}

// RangeString renders a bit width as a [msb:0] range, or "" for a scalar.
// Constant widths are folded; symbolic widths render as [W-1:0].
func RangeString(width Expr) string {
	switch w := width.(type) {
	case nil:
		return ""
	case *Int:
		return fmt.Sprintf("[%d:0]", w.Value-1)
	default:
		return "[" + operand(width) + "-1:0]"
	}
}

// SensString renders a sensitivity list.
func SensString(sens []Event) string {
	parts := make([]string, 0, len(sens))
	for _, ev := range sens {
		switch ev.Edge {
		case Rising:
			parts = append(parts, "posedge "+ExprString(ev.Signal))
		case Falling:
			parts = append(parts, "negedge "+ExprString(ev.Signal))
		default:
			parts = append(parts, ExprString(ev.Signal))
		}
	}
	return strings.Join(parts, " or ")
}

func widthString(width Expr) string {
	if width == nil {
		return "1b"
	}
	return ExprString(width) + "b"
}

func portDirection(dir PortDirection) string {
	switch dir {
	case Input:
		return "in"
	case Output:
		return "out"
	case InOut:
		return "io"
	default:
		return "?"
	}
}
