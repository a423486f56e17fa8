package gen

import (
	"bufgen/internal/config"
	"bufgen/internal/index"
	"bufgen/internal/ir"
)

// Lane arbiter states.
const (
	StateLane0 = "LANE0"
	StateLane1 = "LANE1"
)

// Pulse inputs that move the arbiter between lanes.
const (
	Lane0Read = "fifo_to_lane0_read"
	Lane1Read = "fifo_to_lane1_read"
)

// Registers of the lane arbiter.
const (
	Switchbar     = "switchbar"
	SwitchbarNext = "switchbar_next"
	ThisState     = "this_state"
	NextState     = "next_state"
)

const laneGroups = 2

// LaneswitchesPrefix is the port prefix of side ("mem", "lane0", "lane1")
// of bank idx on the lane-switch module.
func LaneswitchesPrefix(idx, side string) string {
	return "laneswitches_i" + idx + side + "_"
}

// Laneswitches builds the lane switch of a single-section buffer. Every bank
// gets one laneswitch primitive routing its two memory ports to lane0
// (producer) or lane1 (consumer); a two-state arbiter drives the per-bank
// select bits so that all banks always face the same lane.
func Laneswitches(name string, cfg config.BufferConfig) *ir.Module {
	g := cfg.Geometry()
	m := &ir.Module{
		Name:   name,
		Params: bankParams(cfg, g),
		Ports:  clockReset(),
	}
	m.Ports = append(m.Ports, ir.InputWire(Lane0Read, nil), ir.InputWire(Lane1Read, nil))
	for idx := range index.Enumerate(g.DimPatterns) {
		m.Ports = append(m.Ports, apMasterPorts(LaneswitchesPrefix(idx, "mem"), laneGroups, "ADDR_WIDTH", "DATA_WIDTH")...)
	}
	for idx := range index.Enumerate(g.DimPatterns) {
		for _, lane := range []string{"lane0", "lane1"} {
			m.Ports = append(m.Ports, apMemoryPorts(LaneswitchesPrefix(idx, lane), laneGroups, "ADDR_WIDTH", "DATA_WIDTH")...)
		}
	}

	m.Items = append(m.Items, arbiterDecls(g.BankCount)...)
	count := 0
	for idx := range index.Enumerate(g.DimPatterns) {
		m.Items = append(m.Items, laneswitchInstance(idx, count))
		count++
	}
	m.Items = append(m.Items, arbiterProcesses(g.BankCount)...)
	return m
}

func laneswitchInstance(idx string, count int) *ir.Instance {
	ports := append(clockResetBinds(), ir.BindExpr("switch", ir.AtN(Switchbar, count)))
	for _, side := range []string{"mem", "lane0", "lane1"} {
		for k := 0; k < laneGroups; k++ {
			ports = append(ports, bindGroup("laneswitch_"+side+"_", k, LaneswitchesPrefix(idx, side), k)...)
		}
	}
	return ir.NewInstance(LaneswitchPrimitive, "laneswitch_"+idx, memoryParams("", false), ports)
}

func arbiterDecls(banks int) []ir.Item {
	return []ir.Item{
		ir.NewDecl(Switchbar, ir.Reg, ir.N(banks), nil),
		ir.NewDecl(SwitchbarNext, ir.Reg, ir.N(banks), nil),
		ir.RegInit(ThisState, ir.N(2), ir.Lit("2'b00")),
		ir.RegInit(NextState, ir.N(2), ir.Lit("2'b00")),
		ir.NewLocalparam(StateLane0, ir.Lit("2'b00")),
		ir.NewLocalparam(StateLane1, ir.Lit("2'b01")),
	}
}

// arbiterProcesses returns the two processes of the arbiter. The pulse
// process alone drives next_state and switchbar_next; the clocked process
// alone drives this_state and switchbar. A simultaneous pair of pulses
// selects lane1.
func arbiterProcesses(banks int) []ir.Item {
	zeros := ir.Bits(banks, '0')
	ones := ir.Bits(banks, '1')

	toLane1 := ir.IfElse(ir.Id(Lane1Read), ir.Stmts(
		ir.Set(ir.Id(SwitchbarNext), ones),
		ir.Set(ir.Id(NextState), ir.Id(StateLane1)),
	), nil)
	toLane0 := ir.IfElse(ir.And(ir.Id(Lane0Read), ir.Negate(ir.Id(Lane1Read))), ir.Stmts(
		ir.Set(ir.Id(SwitchbarNext), zeros),
		ir.Set(ir.Id(NextState), ir.Id(StateLane0)),
	), nil)
	transitions := ir.NewCase(ir.Id(ThisState),
		ir.When(ir.Id(StateLane0), toLane1),
		ir.When(ir.Id(StateLane1), toLane0),
		ir.Default(ir.Set(ir.Id(SwitchbarNext), ir.Bits(banks, 'X'))),
	)
	pulse := ir.Clocked(
		[]ir.Event{ir.PosEdge(Lane0Read), ir.PosEdge(Lane1Read), ir.PosEdge("reset")},
		ir.IfElse(ir.Id("reset"), ir.Stmts(
			ir.Set(ir.Id(NextState), ir.Id(StateLane0)),
			ir.Set(ir.Id(SwitchbarNext), zeros),
		), ir.Stmts(transitions)),
	)

	drive := ir.Clocked(
		[]ir.Event{ir.PosEdge("clk")},
		ir.IfElse(ir.Id("reset"), ir.Stmts(
			ir.Set(ir.Id(ThisState), ir.Id(StateLane0)),
			ir.Set(ir.Id(Switchbar), zeros),
		), ir.Stmts(
			ir.Set(ir.Id(ThisState), ir.Id(NextState)),
			ir.Set(ir.Id(Switchbar), ir.Id(SwitchbarNext)),
		)),
	)
	return []ir.Item{pulse, drive}
}
