// Package gen builds the hardware modules of a partitioned buffer channel:
// the bank array, the lane switch used by single-section buffers, the
// ping-pong double buffer and their pipelined relay counterparts.
package gen

import (
	"bufgen/internal/config"
	"bufgen/internal/ir"
)

// Names holds every module name derived from one buffer name.
type Names struct {
	Memcores         string
	Laneswitches     string
	Buffer           string
	RelayMemcores    string
	RelayMemcoresReg string
	RelayBuffer      string
}

// NamesFor derives the module names of the buffer called name.
func NamesFor(name string) Names {
	return Names{
		Memcores:         "memcores_" + name,
		Laneswitches:     "laneswitches_" + name,
		Buffer:           "buffer_" + name,
		RelayMemcores:    "relay_memcores_" + name,
		RelayMemcoresReg: "relay_memcores_" + name + "_reg",
		RelayBuffer:      "relay_buffer_" + name,
	}
}

// Primitive modules instantiated by the generated code but supplied by the
// runtime library.
const (
	LaneswitchPrimitive              = "laneswitch"
	FIFOPrimitive                    = "fifo"
	InitializedFIFOPrimitive         = "initialized_fifo"
	RelayStationPrimitive            = "relay_station"
	InitializedRelayStationPrimitive = "initialized_relay_station"
)

// Primitives lists every library module a generated design may reference.
var Primitives = []string{
	config.BRAM.Primitive(),
	config.URAM.Primitive(),
	LaneswitchPrimitive,
	FIFOPrimitive,
	InitializedFIFOPrimitive,
	RelayStationPrimitive,
	InitializedRelayStationPrimitive,
}

// apSignals is the signal order of one ap_memory port group.
var apSignals = []string{"address", "d", "q", "ce", "we"}

// sigWidth returns the width of signal sig of an ap_memory group.
func sigWidth(sig, addrWidth, dataWidth string) ir.Expr {
	switch sig {
	case "address":
		return ir.Id(addrWidth)
	case "d", "q":
		return ir.Id(dataWidth)
	default:
		return nil
	}
}

// apMemoryPorts declares groups ap_memory port groups named
// <prefix><signal><k> as seen by the memory: requests come in, q goes out.
func apMemoryPorts(prefix string, groups int, addrWidth, dataWidth string) []ir.Port {
	return memoryPorts(prefix, groups, addrWidth, dataWidth, false)
}

// apMasterPorts declares the requesting side of an ap_memory interface.
func apMasterPorts(prefix string, groups int, addrWidth, dataWidth string) []ir.Port {
	return memoryPorts(prefix, groups, addrWidth, dataWidth, true)
}

func memoryPorts(prefix string, groups int, addrWidth, dataWidth string, master bool) []ir.Port {
	ports := make([]ir.Port, 0, groups*len(apSignals))
	for k := 0; k < groups; k++ {
		for _, sig := range apSignals {
			name := prefix + sig + portIndex(k)
			width := sigWidth(sig, addrWidth, dataWidth)
			if (sig == "q") != master {
				ports = append(ports, ir.OutputWire(name, width))
			} else {
				ports = append(ports, ir.InputWire(name, width))
			}
		}
	}
	return ports
}

// bindGroup connects port group k of formal prefix to group j of actual
// prefix, signal by signal.
func bindGroup(formal string, k int, actual string, j int) []ir.Connection {
	conns := make([]ir.Connection, 0, len(apSignals))
	for _, sig := range apSignals {
		conns = append(conns, ir.Bind(formal+sig+portIndex(k), actual+sig+portIndex(j)))
	}
	return conns
}

func portIndex(k int) string {
	return string(rune('0' + k))
}

// clockReset returns the clk and reset input ports every module carries.
func clockReset() []ir.Port {
	return []ir.Port{ir.InputWire("clk", nil), ir.InputWire("reset", nil)}
}

func clockResetBinds() []ir.Connection {
	return ir.Pairs([2]string{"clk", "clk"}, [2]string{"reset", "reset"})
}

// memoryParams are the parameter bindings shared by every bank-array
// instance; the prefix selects the parent's parameter names.
func memoryParams(prefix string, simple bool) []ir.Connection {
	conns := ir.Pairs(
		[2]string{"DATA_WIDTH", prefix + "DATA_WIDTH"},
		[2]string{"ADDR_WIDTH", prefix + "ADDR_WIDTH"},
		[2]string{"ADDR_RANGE", prefix + "ADDR_RANGE"},
	)
	if simple {
		conns = append(conns, ir.Bind("IS_SIMPLE", "IS_SIMPLE"))
	}
	return conns
}

// bankParams are the defaults of a module parameterised directly by bank
// geometry.
func bankParams(cfg config.BufferConfig, g config.Geometry) []ir.Param {
	return []ir.Param{
		ir.ConstParam("DATA_WIDTH", cfg.Width),
		ir.ConstParam("ADDR_WIDTH", g.AddressWidth),
		ir.ConstParam("ADDR_RANGE", g.BankDepth),
	}
}
