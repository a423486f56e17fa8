package gen

import (
	"bufgen/internal/config"
	"bufgen/internal/index"
	"bufgen/internal/ir"
)

// memcoresGroups is the number of physical ports on every bank.
const memcoresGroups = 2

// MemcoresPrefix is the port prefix of bank idx on the bank-array module.
func MemcoresPrefix(idx string) string { return "memcores_i" + idx }

// Memcores builds the bank array: one dual-port memory primitive per index
// point, each exposing both physical ports on the module interface.
func Memcores(name string, cfg config.BufferConfig) *ir.Module {
	g := cfg.Geometry()
	m := &ir.Module{
		Name:   name,
		Params: append(bankParams(cfg, g), ir.ConstParam("IS_SIMPLE", 0)),
		Ports:  append(clockReset(), memcoresPorts(g.DimPatterns, "ADDR_WIDTH", "DATA_WIDTH")...),
	}
	primitive := cfg.Memcore.Primitive()
	for idx := range index.Enumerate(g.DimPatterns) {
		m.Items = append(m.Items, memcoreInstance(primitive, idx))
	}
	return m
}

func memcoreInstance(primitive, idx string) *ir.Instance {
	params := ir.Pairs(
		[2]string{"DATA_WIDTH", "DATA_WIDTH"},
		[2]string{"ADDRESS_WIDTH", "ADDR_WIDTH"},
		[2]string{"ADDRESS_RANGE", "ADDR_RANGE"},
		[2]string{"IS_SIMPLE", "IS_SIMPLE"},
	)
	ports := clockResetBinds()
	prefix := MemcoresPrefix(idx)
	for k := 0; k < memcoresGroups; k++ {
		ports = append(ports, bindGroup("", k, prefix, k)...)
	}
	return ir.NewInstance(primitive, "core_"+idx, params, ports)
}

// memcoresPorts is the bank-array interface as seen from the instantiating
// module, shared by the plain and relay bank arrays.
func memcoresPorts(patterns []int, addrWidth, dataWidth string) []ir.Port {
	var ports []ir.Port
	for idx := range index.Enumerate(patterns) {
		ports = append(ports, apMemoryPorts(MemcoresPrefix(idx), memcoresGroups, addrWidth, dataWidth)...)
	}
	return ports
}
