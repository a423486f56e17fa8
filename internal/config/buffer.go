// Package config models a partitioned on-chip buffer channel and derives its
// physical memory geometry and the port-name tables shared by producer and
// consumer tasks.
package config

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"
	"strconv"
	"strings"
)

// BufferConfig is the abstract description of one buffer channel. It is
// treated as immutable once built; use Clone before modifying a copy.
type BufferConfig struct {
	// Width is the bit width of one word.
	Width int
	// Type is an informational element type tag such as "float".
	Type string
	// Dims holds the extent of every array dimension.
	Dims []int
	// NSections multiplies the depth of every bank.
	NSections int
	// Partitions holds one descriptor per entry of Dims.
	Partitions []PartitionDim
	// Memcore selects the bank primitive.
	Memcore MemcoreKind
}

// Clone returns a deep copy.
func (c BufferConfig) Clone() BufferConfig {
	c.Dims = slices.Clone(c.Dims)
	c.Partitions = slices.Clone(c.Partitions)
	return c
}

// Equal reports whether two configurations describe the same buffer.
func (c BufferConfig) Equal(o BufferConfig) bool {
	return c.Width == o.Width &&
		c.Type == o.Type &&
		c.NSections == o.NSections &&
		c.Memcore == o.Memcore &&
		slices.Equal(c.Dims, o.Dims) &&
		slices.Equal(c.Partitions, o.Partitions)
}

// Key returns a canonical string usable as a map key; equal configurations
// have equal keys.
func (c BufferConfig) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "w%d/%s/s%d/%s/", c.Width, c.Type, c.NSections, c.Memcore)
	for i, d := range c.Dims {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(d))
	}
	b.WriteByte('/')
	for i, p := range c.Partitions {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s:%d", p.Kind, p.Factor)
	}
	return b.String()
}

// Validate checks the caller contract every geometry method relies on.
func (c BufferConfig) Validate() error {
	var errs []error
	if c.Width <= 0 {
		errs = append(errs, fmt.Errorf("width must be positive, got %d", c.Width))
	}
	if c.NSections <= 0 {
		errs = append(errs, fmt.Errorf("n_sections must be positive, got %d", c.NSections))
	}
	if len(c.Dims) != len(c.Partitions) {
		errs = append(errs, fmt.Errorf("dims has %d entries but partitions has %d", len(c.Dims), len(c.Partitions)))
	}
	for i, d := range c.Dims {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("dimension %d must be positive, got %d", i, d))
		}
	}
	for i, p := range c.Partitions {
		if p.Kind == Factor && p.Factor <= 0 {
			errs = append(errs, fmt.Errorf("partition %d factor must be positive, got %d", i, p.Factor))
		}
	}
	return errors.Join(errs...)
}

func (c BufferConfig) mustBeShaped() {
	if len(c.Dims) != len(c.Partitions) {
		panic(fmt.Sprintf("config: dims has %d entries but partitions has %d", len(c.Dims), len(c.Partitions)))
	}
}

// DimPatterns returns the number of banks contributed by every dimension.
func (c BufferConfig) DimPatterns() []int {
	c.mustBeShaped()
	patterns := make([]int, len(c.Dims))
	for i, dim := range c.Dims {
		patterns[i] = c.Partitions[i].Pattern(dim)
	}
	return patterns
}

// BankCount is the number of parallel physical banks.
func (c BufferConfig) BankCount() int {
	count := 1
	for _, p := range c.DimPatterns() {
		count *= p
	}
	return count
}

// BankDepth is the number of words addressable in one bank.
func (c BufferConfig) BankDepth() int {
	depth := c.NSections
	for i, p := range c.DimPatterns() {
		if p <= 0 {
			panic(fmt.Sprintf("config: partition pattern of dimension %d must be positive, got %d", i, p))
		}
		depth *= ceilDiv(c.Dims[i], p)
	}
	if depth <= 0 {
		panic(fmt.Sprintf("config: bank depth must be positive, got %d", depth))
	}
	return depth
}

// AddressWidth is the width of a bank address bus. A single-word bank still
// gets a one-bit address.
func (c BufferConfig) AddressWidth() int {
	return max(1, ceilLog2(c.BankDepth()))
}

// FIFODepth is the depth of both buffer-index FIFOs of the double buffer.
func (c BufferConfig) FIFODepth() int {
	if c.NSections <= 0 {
		panic(fmt.Sprintf("config: n_sections must be positive, got %d", c.NSections))
	}
	return c.NSections
}

// FIFOAddrWidth is the address width of the buffer-index FIFOs.
func (c BufferConfig) FIFOAddrWidth() int {
	return max(1, ceilLog2(c.FIFODepth()))
}

// Hybrid reports whether the buffer time-shares a single bank array between
// the producer and consumer roles.
func (c BufferConfig) Hybrid() bool {
	return c.NSections == 1
}

// Geometry bundles every value derived from a configuration.
type Geometry struct {
	DimPatterns   []int
	BankCount     int
	BankDepth     int
	AddressWidth  int
	FIFODepth     int
	FIFOAddrWidth int
	Shape         PortShape
}

// Geometry computes all derived values at once.
func (c BufferConfig) Geometry() Geometry {
	return Geometry{
		DimPatterns:   c.DimPatterns(),
		BankCount:     c.BankCount(),
		BankDepth:     c.BankDepth(),
		AddressWidth:  c.AddressWidth(),
		FIFODepth:     c.FIFODepth(),
		FIFOAddrWidth: c.FIFOAddrWidth(),
		Shape:         c.PortShape(),
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// ceilLog2 returns ceil(log2(n)) for n >= 1.
func ceilLog2(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("config: logarithm of non-positive value %d", n))
	}
	return bits.Len(uint(n - 1))
}
