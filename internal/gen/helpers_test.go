package gen

import (
	"bufgen/internal/config"
	"bufgen/internal/ir"
)

func standardConfig() config.BufferConfig {
	return config.BufferConfig{
		Width:      32,
		Type:       "float",
		Dims:       []int{4, 6},
		NSections:  2,
		Partitions: []config.PartitionDim{config.FactorDim(2), config.FactorDim(3)},
		Memcore:    config.BRAM,
	}
}

func hybridConfig() config.BufferConfig {
	c := standardConfig()
	c.NSections = 1
	c.Memcore = config.URAM
	return c
}

func portNames(m *ir.Module) []string {
	names := make([]string, 0, len(m.Ports))
	for _, p := range m.Ports {
		names = append(names, p.Name)
	}
	return names
}

func instances(items []ir.Item) []*ir.Instance {
	var out []*ir.Instance
	for _, item := range items {
		switch it := item.(type) {
		case *ir.Instance:
			out = append(out, it)
		case *ir.Generate:
			out = append(out, instances(it.Items)...)
		case *ir.GenIf:
			out = append(out, instances(it.Then)...)
			out = append(out, instances(it.Else)...)
		case *ir.GenFor:
			out = append(out, instances(it.Body)...)
		}
	}
	return out
}

func instanceOf(m *ir.Module, module string) []*ir.Instance {
	var out []*ir.Instance
	for _, inst := range instances(m.Items) {
		if inst.Module == module {
			out = append(out, inst)
		}
	}
	return out
}

func connection(inst *ir.Instance, port string) (string, bool) {
	for _, c := range inst.Ports {
		if c.Name == port {
			return ir.ExprString(c.Value), true
		}
	}
	return "", false
}

func alwaysBlocks(m *ir.Module) []*ir.Always {
	var out []*ir.Always
	for _, item := range m.Items {
		if a, ok := item.(*ir.Always); ok {
			out = append(out, a)
		}
	}
	return out
}

// assignments collects every non-blocking assignment to target in stmts,
// descending into conditionals and case arms. Default arms are skipped when
// skipDefault is set.
func assignments(stmts []ir.Stmt, target string, skipDefault bool) []string {
	var out []string
	for _, s := range stmts {
		switch st := s.(type) {
		case *ir.NonBlocking:
			if ir.ExprString(st.LHS) == target {
				out = append(out, ir.ExprString(st.RHS))
			}
		case *ir.If:
			out = append(out, assignments(st.Then, target, skipDefault)...)
			out = append(out, assignments(st.Else, target, skipDefault)...)
		case *ir.Case:
			for _, item := range st.Items {
				if item.Match == nil && skipDefault {
					continue
				}
				out = append(out, assignments(item.Body, target, skipDefault)...)
			}
		}
	}
	return out
}
