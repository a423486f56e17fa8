package gen

import (
	"strings"

	"bufgen/internal/config"
	"bufgen/internal/index"
	"bufgen/internal/ir"
)

// BufferPrefix is the port prefix of the given role for bank idx on the
// double buffer; it expands config.BufferCorePrefix.
func BufferPrefix(idx string, role config.Role) string {
	return strings.Replace(config.BufferCorePrefix, config.Placeholder, idx, 1) + role.String() + "_"
}

func locsigPrefix(idx string) string {
	return "locsig_i" + idx + "laneswitches_memcores_"
}

// variant distinguishes the plain double buffer from its relay counterpart.
type variant struct {
	name         string
	memcores     string
	laneswitches string
	relay        bool
	latency      int
}

// DoubleBuffer builds the ping-pong buffer: a free-buffer FIFO preloaded with
// every section index, an occupied-buffer FIFO and the bank array, reached
// through the lane switch when the buffer has a single section.
func DoubleBuffer(names Names, cfg config.BufferConfig) *ir.Module {
	return doubleBuffer(variant{
		name:         names.Buffer,
		memcores:     names.Memcores,
		laneswitches: names.Laneswitches,
	}, cfg)
}

// RelayBuffer builds the pipelined double buffer. Its FIFOs are relay
// stations and its bank array is the relay bank array; LEVEL defaults to
// latency.
func RelayBuffer(names Names, cfg config.BufferConfig, latency int) *ir.Module {
	return doubleBuffer(variant{
		name:         names.RelayBuffer,
		memcores:     names.RelayMemcores,
		laneswitches: names.Laneswitches,
		relay:        true,
		latency:      latency,
	}, cfg)
}

func doubleBuffer(v variant, cfg config.BufferConfig) *ir.Module {
	g := cfg.Geometry()
	params := []ir.Param{
		ir.ConstParam("MEMORY_DATA_WIDTH", cfg.Width),
		ir.ConstParam("MEMORY_ADDR_WIDTH", g.AddressWidth),
		ir.ConstParam("MEMORY_ADDR_RANGE", g.BankDepth),
		ir.ConstParam("FIFO_DATA_WIDTH", config.FIFOIndexWidth),
		ir.ConstParam("FIFO_ADDR_WIDTH", g.FIFOAddrWidth),
		ir.ConstParam("FIFO_DEPTH", g.FIFODepth),
		ir.ConstParam("FREE_FIFO_RESET_LENGTH", g.FIFODepth),
	}
	if v.relay {
		params = append(params, ir.ConstParam("LEVEL", v.latency))
	}
	params = append(params, ir.ConstParam("IS_SIMPLE", 0))

	m := &ir.Module{Name: v.name, Params: params}
	m.Ports = append(clockReset(), doubleBufferFIFOPorts()...)
	groups := g.Shape.Groups()
	for idx := range index.Enumerate(g.DimPatterns) {
		for _, role := range []config.Role{config.Producer, config.Consumer} {
			m.Ports = append(m.Ports, apMemoryPorts(BufferPrefix(idx, role), groups, "MEMORY_ADDR_WIDTH", "MEMORY_DATA_WIDTH")...)
		}
	}

	if g.Shape == config.Dual {
		for idx := range index.Enumerate(g.DimPatterns) {
			for k := 0; k < laneGroups; k++ {
				for _, sig := range apSignals {
					width := sigWidth(sig, "MEMORY_ADDR_WIDTH", "MEMORY_DATA_WIDTH")
					m.Items = append(m.Items, ir.NewDecl(locsigPrefix(idx)+sig+portIndex(k), ir.Wire, width, nil))
				}
			}
		}
		m.Items = append(m.Items, laneswitchesInstance(v.laneswitches, g.DimPatterns))
	}
	m.Items = append(m.Items, memcoresInstance(v, g))

	occupied, free := FIFOPrimitive, InitializedFIFOPrimitive
	if v.relay {
		occupied, free = RelayStationPrimitive, InitializedRelayStationPrimitive
	}
	m.Items = append(m.Items,
		fifoInstance(occupied, "occupied_buffers", OccupiedBuffers, v.relay),
		fifoInstance(free, "free_buffers", FreeBuffers, v.relay),
	)
	return m
}

func laneswitchesInstance(module string, patterns []int) *ir.Instance {
	ports := append(clockResetBinds(),
		ir.Bind(Lane0Read, FreeBuffers+"_read"),
		ir.Bind(Lane1Read, OccupiedBuffers+"_read"),
	)
	for idx := range index.Enumerate(patterns) {
		for k := 0; k < laneGroups; k++ {
			ports = append(ports, bindGroup(LaneswitchesPrefix(idx, "mem"), k, locsigPrefix(idx), k)...)
		}
		for k := 0; k < laneGroups; k++ {
			ports = append(ports, bindGroup(LaneswitchesPrefix(idx, "lane0"), k, BufferPrefix(idx, config.Producer), k)...)
		}
		for k := 0; k < laneGroups; k++ {
			ports = append(ports, bindGroup(LaneswitchesPrefix(idx, "lane1"), k, BufferPrefix(idx, config.Consumer), k)...)
		}
	}
	return ir.NewInstance(module, "laneswitches", memoryParams("MEMORY_", false), ports)
}

func memcoresInstance(v variant, g config.Geometry) *ir.Instance {
	params := memoryParams("MEMORY_", true)
	if v.relay {
		params = append(params, ir.Bind("LEVEL", "LEVEL"))
	}
	ports := clockResetBinds()
	for idx := range index.Enumerate(g.DimPatterns) {
		prefix := MemcoresPrefix(idx)
		if g.Shape == config.Dual {
			for k := 0; k < memcoresGroups; k++ {
				ports = append(ports, bindGroup(prefix, k, locsigPrefix(idx), k)...)
			}
			continue
		}
		ports = append(ports, bindGroup(prefix, 0, BufferPrefix(idx, config.Producer), 0)...)
		ports = append(ports, bindGroup(prefix, 1, BufferPrefix(idx, config.Consumer), 0)...)
	}
	return ir.NewInstance(v.memcores, "memcores", params, ports)
}
