package gen

import (
	"bufgen/internal/config"
	"bufgen/internal/index"
	"bufgen/internal/ir"
)

// relaySignals is the order request and response signals travel through a
// relay stage.
var relaySignals = []string{"address", "ce", "d", "we", "q"}

func stagePrefix(idx string) string { return "mem_" + idx }

// RelayMemcores builds the pipelined bank array and its register stage. The
// array exposes the bank-array interface plus LEVEL: LEVEL-1 register stages
// followed by the bank array itself, or the bank array alone when LEVEL is
// zero.
func RelayMemcores(names Names, cfg config.BufferConfig, latency int) (top, reg *ir.Module) {
	g := cfg.Geometry()
	return relayMemcoresTop(names, cfg, g, latency), relayMemcoresReg(names.RelayMemcoresReg, cfg, g)
}

func relayMemcoresReg(name string, cfg config.BufferConfig, g config.Geometry) *ir.Module {
	m := &ir.Module{
		Name:   name,
		Params: append(bankParams(cfg, g), ir.ConstParam("IS_SIMPLE", 0)),
		Ports:  clockReset(),
	}
	var body []ir.Stmt
	for idx := range index.Enumerate(g.DimPatterns) {
		prefix := stagePrefix(idx)
		for k := 0; k < memcoresGroups; k++ {
			for _, sig := range relaySignals {
				port := prefix + "producer_" + sig + portIndex(k)
				width := sigWidth(sig, "ADDR_WIDTH", "DATA_WIDTH")
				if sig == "q" {
					m.Ports = append(m.Ports, ir.OutputReg(port, width))
				} else {
					m.Ports = append(m.Ports, ir.InputWire(port, width))
				}
			}
		}
		for k := 0; k < memcoresGroups; k++ {
			for _, sig := range relaySignals {
				port := prefix + "consumer_" + sig + portIndex(k)
				width := sigWidth(sig, "ADDR_WIDTH", "DATA_WIDTH")
				if sig == "q" {
					m.Ports = append(m.Ports, ir.InputWire(port, width))
				} else {
					m.Ports = append(m.Ports, ir.OutputReg(port, width))
				}
			}
		}
		for k := 0; k < memcoresGroups; k++ {
			producer, consumer := prefix+"producer_", prefix+"consumer_"
			n := portIndex(k)
			body = append(body, ir.Set(ir.Id(producer+"q"+n), ir.Id(consumer+"q"+n)))
			for _, sig := range relaySignals[:4] {
				body = append(body, ir.Set(ir.Id(consumer+sig+n), ir.Id(producer+sig+n)))
			}
		}
	}
	m.Items = []ir.Item{ir.Clocked([]ir.Event{ir.PosEdge("clk")}, body...)}
	return m
}

func relayMemcoresTop(names Names, cfg config.BufferConfig, g config.Geometry, latency int) *ir.Module {
	params := append(bankParams(cfg, g), ir.ConstParam("LEVEL", latency), ir.ConstParam("IS_SIMPLE", 0))
	m := &ir.Module{
		Name:   names.RelayMemcores,
		Params: params,
		Ports:  append(clockReset(), memcoresPorts(g.DimPatterns, "ADDR_WIDTH", "DATA_WIDTH")...),
	}
	for idx := range index.Enumerate(g.DimPatterns) {
		for k := 0; k < memcoresGroups; k++ {
			for _, sig := range relaySignals {
				m.Items = append(m.Items, ir.NewDecl(stagePrefix(idx)+sig+portIndex(k), ir.Wire,
					sigWidth(sig, "ADDR_WIDTH", "DATA_WIDTH"), ir.Id("LEVEL")))
			}
		}
	}
	m.Items = append(m.Items, &ir.Genvar{Name: "i"})

	i := ir.Id("i")
	next := ir.Plus(ir.Id("i"), ir.N(1))
	stage := &ir.GenIf{
		Cond: ir.Less(i, ir.Minus(ir.Id("LEVEL"), ir.N(1))),
		Then: []ir.Item{relayStageInstance(names.RelayMemcoresReg, g.DimPatterns, i, next)},
		Else: []ir.Item{stageMemcoresInstance(names.Memcores, g.DimPatterns, i)},
	}
	pipelined := []ir.Item{&ir.GenFor{Var: "i", From: ir.N(0), To: ir.Id("LEVEL"), Label: "inst", Body: []ir.Item{stage}}}
	for idx := range index.Enumerate(g.DimPatterns) {
		for k := 0; k < memcoresGroups; k++ {
			n := portIndex(k)
			for _, sig := range relaySignals[:4] {
				pipelined = append(pipelined, &ir.Assign{
					LHS: ir.AtN(stagePrefix(idx)+sig+n, 0),
					RHS: ir.Id(MemcoresPrefix(idx) + sig + n),
				})
			}
			pipelined = append(pipelined, &ir.Assign{
				LHS: ir.Id(MemcoresPrefix(idx) + "q" + n),
				RHS: ir.AtN(stagePrefix(idx)+"q"+n, 0),
			})
		}
	}

	direct := ir.NewInstance(names.Memcores, "unit", memoryParams("", true), clockResetBinds())
	for idx := range index.Enumerate(g.DimPatterns) {
		for k := 0; k < memcoresGroups; k++ {
			direct.Ports = append(direct.Ports, bindGroup(MemcoresPrefix(idx), k, MemcoresPrefix(idx), k)...)
		}
	}

	m.Items = append(m.Items, &ir.Generate{Items: []ir.Item{&ir.GenIf{
		Cond: ir.Greater(ir.Id("LEVEL"), ir.N(0)),
		Then: pipelined,
		Else: []ir.Item{direct},
	}}})
	return m
}

// relayStageInstance wires register stage i between arrays [at] and [next].
func relayStageInstance(module string, patterns []int, at, next ir.Expr) *ir.Instance {
	ports := clockResetBinds()
	for idx := range index.Enumerate(patterns) {
		prefix := stagePrefix(idx)
		for k := 0; k < memcoresGroups; k++ {
			for _, sig := range relaySignals {
				ports = append(ports, ir.BindExpr(prefix+"producer_"+sig+portIndex(k), ir.At(prefix+sig+portIndex(k), at)))
			}
		}
		for k := 0; k < memcoresGroups; k++ {
			for _, sig := range relaySignals {
				ports = append(ports, ir.BindExpr(prefix+"consumer_"+sig+portIndex(k), ir.At(prefix+sig+portIndex(k), next)))
			}
		}
	}
	return ir.NewInstance(module, "unit", memoryParams("", true), ports)
}

// stageMemcoresInstance places the bank array on arrays [at].
func stageMemcoresInstance(module string, patterns []int, at ir.Expr) *ir.Instance {
	ports := clockResetBinds()
	for idx := range index.Enumerate(patterns) {
		for k := 0; k < memcoresGroups; k++ {
			for _, sig := range apSignals {
				ports = append(ports, ir.BindExpr(MemcoresPrefix(idx)+sig+portIndex(k), ir.At(stagePrefix(idx)+sig+portIndex(k), at)))
			}
		}
	}
	return ir.NewInstance(module, "unit", memoryParams("", true), ports)
}
