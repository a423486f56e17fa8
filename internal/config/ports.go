package config

import "strings"

// PortShape is the number of memory port groups each role sees per bank.
type PortShape int

const (
	// Single gives each role one port group; used when sections give every
	// role exclusive banks.
	Single PortShape = iota
	// Dual gives each role two port groups on a bank array shared through
	// the lane switch.
	Dual
)

// Groups returns 1 for Single and 2 for Dual.
func (s PortShape) Groups() int {
	if s == Dual {
		return 2
	}
	return 1
}

func (s PortShape) String() string {
	if s == Dual {
		return "dual"
	}
	return "single"
}

// PortShape selects the port-group shape from the section count.
func (c BufferConfig) PortShape() PortShape {
	if c.Hybrid() {
		return Dual
	}
	return Single
}

// Role identifies the side of the buffer a task sits on.
type Role int

const (
	Producer Role = iota
	Consumer
)

func (r Role) String() string {
	if r == Consumer {
		return "consumer"
	}
	return "producer"
}

// Direction of a wire as seen from the task using the buffer.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Placeholder marks where the bank index suffix goes in a name template.
const Placeholder = "{}"

// WireSuffix describes one wire a task needs to reach a buffer port.
type WireSuffix struct {
	// Suffix is the wire name template, possibly containing Placeholder.
	Suffix string
	// Width is the bit width.
	Width int
	// Direction is seen from the task.
	Direction Direction
	// PortSuffix is the suffix of the task's external port, possibly
	// containing Placeholder.
	PortSuffix string
	// Required is false for ports a task may leave unused.
	Required bool
}

// Name expands Suffix for the bank index suffix idx.
func (w WireSuffix) Name(idx string) string {
	return strings.Replace(w.Suffix, Placeholder, idx, 1)
}

// Port expands PortSuffix for the bank index suffix idx.
func (w WireSuffix) Port(idx string) string {
	return strings.Replace(w.PortSuffix, Placeholder, idx, 1)
}

// FIFOPortNames returns the eight buffer-index FIFO control ports a task of
// the given role drives or observes.
func (c BufferConfig) FIFOPortNames(role Role) [8]string {
	src, sink := "free_buffers", "occupied_buffers"
	if role == Consumer {
		src, sink = sink, src
	}
	return [8]string{
		"fifo_" + src + "_empty_n",
		"fifo_" + src + "_read",
		"fifo_" + src + "_dout",
		"fifo_" + sink + "_full_n",
		"fifo_" + sink + "_write",
		"fifo_" + sink + "_din",
		"fifo_" + src + "_read_ce",
		"fifo_" + sink + "_write_ce",
	}
}

// ProducerFIFOPortNames is FIFOPortNames(Producer).
func (c BufferConfig) ProducerFIFOPortNames() [8]string { return c.FIFOPortNames(Producer) }

// ConsumerFIFOPortNames is FIFOPortNames(Consumer).
func (c BufferConfig) ConsumerFIFOPortNames() [8]string { return c.FIFOPortNames(Consumer) }

// FIFOIndexWidth is the width of a buffer index travelling through the FIFOs.
const FIFOIndexWidth = 32

// FIFOSuffixes returns the six FIFO wires of a task with the given role.
func (c BufferConfig) FIFOSuffixes(role Role) []WireSuffix {
	src, sink := "free_buffers", "occupied_buffers"
	if role == Consumer {
		src, sink = sink, src
	}
	return []WireSuffix{
		{"_fifo_" + src + "_empty_n", 1, Input, "_src_empty_n", true},
		{"_fifo_" + src + "_read", 1, Output, "_src_read", true},
		{"_fifo_" + src + "_dout", FIFOIndexWidth, Input, "_src_dout", true},
		{"_fifo_" + sink + "_full_n", 1, Input, "_sink_full_n", true},
		{"_fifo_" + sink + "_write", 1, Output, "_sink_write", true},
		{"_fifo_" + sink + "_din", FIFOIndexWidth, Output, "_sink_din", true},
	}
}

// ProducerFIFOSuffixes is FIFOSuffixes(Producer).
func (c BufferConfig) ProducerFIFOSuffixes() []WireSuffix { return c.FIFOSuffixes(Producer) }

// ConsumerFIFOSuffixes is FIFOSuffixes(Consumer).
func (c BufferConfig) ConsumerFIFOSuffixes() []WireSuffix { return c.FIFOSuffixes(Consumer) }

// BufferCorePrefix is the name template prefix of every per-bank buffer port.
const BufferCorePrefix = "buffer_core" + Placeholder

// MemorySignals lists the signals of one memory port group in table order.
var MemorySignals = []string{"address", "ce", "d", "we", "q"}

// MemorySuffixes returns the memory wires of a task with the given role: one
// port group of five signals, or two groups when the shape is Dual. The whole
// second group is optional because some tasks use a single port.
func (c BufferConfig) MemorySuffixes(role Role) []WireSuffix {
	addrWidth := c.AddressWidth()
	groups := c.PortShape().Groups()
	out := make([]WireSuffix, 0, groups*len(MemorySignals))
	for g := 0; g < groups; g++ {
		port := string(rune('0' + g))
		for _, sig := range MemorySignals {
			w := WireSuffix{
				Suffix:     BufferCorePrefix + role.String() + "_" + sig + port,
				Width:      1,
				Direction:  Output,
				PortSuffix: "_data_" + Placeholder + sig + port,
				Required:   g == 0 && memoryRequired(role, sig),
			}
			switch sig {
			case "address":
				w.Width = addrWidth
			case "d":
				w.Width = c.Width
			case "q":
				w.Width = c.Width
				w.Direction = Input
			}
			out = append(out, w)
		}
	}
	return out
}

func memoryRequired(role Role, sig string) bool {
	switch sig {
	case "address", "ce":
		return true
	case "d", "we":
		return role == Producer
	default:
		return role == Consumer
	}
}

// ProducerMemorySuffixes is MemorySuffixes(Producer).
func (c BufferConfig) ProducerMemorySuffixes() []WireSuffix { return c.MemorySuffixes(Producer) }

// ConsumerMemorySuffixes is MemorySuffixes(Consumer).
func (c BufferConfig) ConsumerMemorySuffixes() []WireSuffix { return c.MemorySuffixes(Consumer) }

// BufferPortNames returns the per-bank memory port templates without a role;
// callers insert "<index><role>_" in place of Placeholder.
func (c BufferConfig) BufferPortNames() []string {
	groups := c.PortShape().Groups()
	out := make([]string, 0, groups*len(MemorySignals))
	for g := 0; g < groups; g++ {
		port := string(rune('0' + g))
		for _, sig := range MemorySignals {
			out = append(out, BufferCorePrefix+sig+port)
		}
	}
	return out
}
