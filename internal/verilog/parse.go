package verilog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Header is the interface of one parsed module.
type Header struct {
	Name   string
	Params []ParamDecl
	Ports  []PortDecl
}

// ParamDecl is one parameter of a module header.
type ParamDecl struct {
	Name  string
	Value string
}

// PortDecl is one ANSI-style port of a module header.
type PortDecl struct {
	Name      string
	Direction string
	Kind      string
	// Range is the packed range such as "[DATA_WIDTH-1:0]", or "" for a
	// scalar.
	Range string
}

// ParamValues returns the integer-valued parameters of the header.
func (h Header) ParamValues() map[string]int {
	values := make(map[string]int, len(h.Params))
	for _, p := range h.Params {
		if v, err := strconv.Atoi(p.Value); err == nil {
			values[p.Name] = v
		}
	}
	return values
}

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`//[^\n]*`)
	attribute    = regexp.MustCompile(`(?s)\(\*.*?\*\)`)
	moduleKw     = regexp.MustCompile(`\bmodule\s+([A-Za-z_][A-Za-z0-9_$]*)`)
)

// ParseModules extracts the header of every module in src. Only ANSI port
// lists are understood; module bodies are skipped.
func ParseModules(src string) ([]Header, error) {
	text := attribute.ReplaceAllString(src, " ")
	text = blockComment.ReplaceAllString(text, " ")
	text = lineComment.ReplaceAllString(text, "")

	var headers []Header
	for {
		loc := moduleKw.FindStringSubmatchIndex(text)
		if loc == nil {
			break
		}
		h := Header{Name: text[loc[2]:loc[3]]}
		rest := strings.TrimSpace(text[loc[1]:])
		if strings.HasPrefix(rest, "#") {
			body, tail, err := balanced(strings.TrimSpace(rest[1:]))
			if err != nil {
				return nil, fmt.Errorf("verilog: module %s parameters: %w", h.Name, err)
			}
			for _, entry := range splitTop(body) {
				param, err := parseParam(entry)
				if err != nil {
					return nil, fmt.Errorf("verilog: module %s: %w", h.Name, err)
				}
				h.Params = append(h.Params, param)
			}
			rest = strings.TrimSpace(tail)
		}
		body, tail, err := balanced(rest)
		if err != nil {
			return nil, fmt.Errorf("verilog: module %s ports: %w", h.Name, err)
		}
		for _, entry := range splitTop(body) {
			port, err := parsePort(entry)
			if err != nil {
				return nil, fmt.Errorf("verilog: module %s: %w", h.Name, err)
			}
			h.Ports = append(h.Ports, port)
		}
		end := strings.Index(tail, "endmodule")
		if end < 0 {
			return nil, fmt.Errorf("verilog: module %s has no endmodule", h.Name)
		}
		text = tail[end+len("endmodule"):]
		headers = append(headers, h)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("verilog: no module found")
	}
	return headers, nil
}

// balanced splits s, which must start with '(', into the text inside the
// matching parenthesis and the text after it.
func balanced(s string) (string, string, error) {
	if !strings.HasPrefix(s, "(") {
		return "", "", fmt.Errorf("expected '('")
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], nil
			}
		}
	}
	return "", "", fmt.Errorf("unbalanced parenthesis")
}

// splitTop splits on commas outside parentheses, braces and brackets.
func splitTop(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" {
		parts = append(parts, s[start:])
	}
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseParam(entry string) (ParamDecl, error) {
	entry = strings.TrimSpace(strings.TrimPrefix(entry, "parameter"))
	name, value, ok := strings.Cut(entry, "=")
	if !ok {
		return ParamDecl{}, fmt.Errorf("parameter %q has no default", entry)
	}
	return ParamDecl{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)}, nil
}

func parsePort(entry string) (PortDecl, error) {
	fields := strings.Fields(entry)
	if len(fields) < 2 {
		return PortDecl{}, fmt.Errorf("malformed port %q", entry)
	}
	port := PortDecl{Direction: fields[0], Kind: "wire"}
	switch port.Direction {
	case "input", "output", "inout":
	default:
		return PortDecl{}, fmt.Errorf("port %q has no direction", entry)
	}
	rest := fields[1:]
	if rest[0] == "wire" || rest[0] == "reg" {
		port.Kind = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 && strings.HasPrefix(rest[0], "[") {
		var rng []string
		for len(rest) > 0 {
			rng = append(rng, rest[0])
			done := strings.HasSuffix(rest[0], "]")
			rest = rest[1:]
			if done {
				break
			}
		}
		port.Range = strings.Join(rng, "")
	}
	if len(rest) != 1 {
		return PortDecl{}, fmt.Errorf("malformed port %q", entry)
	}
	port.Name = rest[0]
	return port, nil
}

// EvalWidth returns the bit width of a packed range such as
// "[ADDR_WIDTH-1:0]", resolving names through params. An empty range is one
// bit wide.
func EvalWidth(rng string, params map[string]int) (int, error) {
	if rng == "" {
		return 1, nil
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(rng, "["), "]")
	msb, lsb, ok := strings.Cut(inner, ":")
	if !ok {
		return 0, fmt.Errorf("verilog: malformed range %q", rng)
	}
	hi, err := evalSum(msb, params)
	if err != nil {
		return 0, err
	}
	lo, err := evalSum(lsb, params)
	if err != nil {
		return 0, err
	}
	return hi - lo + 1, nil
}

// evalSum evaluates a flat sum of integer terms and names.
func evalSum(expr string, params map[string]int) (int, error) {
	expr = strings.NewReplacer(" ", "", "(", "", ")", "").Replace(expr)
	total, sign, start := 0, 1, 0
	flush := func(term string, sign int) error {
		if term == "" {
			return nil
		}
		if v, err := strconv.Atoi(term); err == nil {
			total += sign * v
			return nil
		}
		v, ok := params[term]
		if !ok {
			return fmt.Errorf("verilog: unknown name %q in %q", term, expr)
		}
		total += sign * v
		return nil
	}
	for i, r := range expr {
		if r == '+' || r == '-' {
			if err := flush(expr[start:i], sign); err != nil {
				return 0, err
			}
			sign = 1
			if r == '-' {
				sign = -1
			}
			start = i + 1
		}
	}
	if err := flush(expr[start:], sign); err != nil {
		return 0, err
	}
	return total, nil
}
