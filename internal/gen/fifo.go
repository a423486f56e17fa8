package gen

import "bufgen/internal/ir"

// Buffer-index FIFO port prefixes on the double buffer.
const (
	FreeBuffers     = "fifo_free_buffers"
	OccupiedBuffers = "fifo_occupied_buffers"
)

// fifoPorts declares the eight FIFO ports of prefix as seen from the
// FIFO: status and read data go out, everything else comes in.
func fifoPorts(prefix, dataWidth string) []ir.Port {
	return ir.PortsFromInfo([]ir.PortInfo{
		{Name: prefix + "_full_n", Direction: ir.Output},
		{Name: prefix + "_write_ce", Direction: ir.Input},
		{Name: prefix + "_write", Direction: ir.Input},
		{Name: prefix + "_din", Direction: ir.Input, Width: ir.Width(dataWidth)},
		{Name: prefix + "_empty_n", Direction: ir.Output},
		{Name: prefix + "_read_ce", Direction: ir.Input},
		{Name: prefix + "_read", Direction: ir.Input},
		{Name: prefix + "_dout", Direction: ir.Output, Width: ir.Width(dataWidth)},
	})
}

func doubleBufferFIFOPorts() []ir.Port {
	return append(fifoPorts(FreeBuffers, "FIFO_DATA_WIDTH"), fifoPorts(OccupiedBuffers, "FIFO_DATA_WIDTH")...)
}

// fifoInstance instantiates a FIFO primitive wired to the ports of prefix.
// Relay stations take LEVEL; initialized variants take the reset length.
func fifoInstance(primitive, name, prefix string, relay bool) *ir.Instance {
	params := ir.Pairs(
		[2]string{"DATA_WIDTH", "FIFO_DATA_WIDTH"},
		[2]string{"ADDR_WIDTH", "FIFO_ADDR_WIDTH"},
		[2]string{"DEPTH", "FIFO_DEPTH"},
	)
	if relay {
		params = append(params, ir.Bind("LEVEL", "LEVEL"))
	}
	if primitive == InitializedFIFOPrimitive || primitive == InitializedRelayStationPrimitive {
		params = append(params, ir.Bind("INIT_LENGTH", "FREE_FIFO_RESET_LENGTH"))
	}
	ports := clockResetBinds()
	for _, sig := range []string{"full_n", "write_ce", "write", "din", "empty_n", "read_ce", "read", "dout"} {
		ports = append(ports, ir.Bind("if_"+sig, prefix+"_"+sig))
	}
	return ir.NewInstance(primitive, name, params, ports)
}
