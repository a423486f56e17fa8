package config

import (
	"fmt"
	"strings"
)

// PartitionKind says how one array dimension is split across banks.
type PartitionKind int

const (
	// Normal keeps the dimension inside a single bank.
	Normal PartitionKind = iota
	// Complete unrolls every element of the dimension into its own bank.
	Complete
	// Factor splits the dimension into Factor banks.
	Factor
)

func (k PartitionKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Complete:
		return "complete"
	case Factor:
		return "factor"
	default:
		return fmt.Sprintf("PartitionKind(%d)", int(k))
	}
}

// PartitionDim describes the partitioning of one dimension. It is a value
// type; two descriptors are equal when kind and factor are equal.
type PartitionDim struct {
	Kind   PartitionKind
	Factor int
}

// NormalDim returns an unpartitioned dimension.
func NormalDim() PartitionDim { return PartitionDim{Kind: Normal} }

// CompleteDim returns a fully partitioned dimension.
func CompleteDim() PartitionDim { return PartitionDim{Kind: Complete} }

// FactorDim returns a dimension split into n banks.
func FactorDim(n int) PartitionDim { return PartitionDim{Kind: Factor, Factor: n} }

// ParsePartition converts the textual partition type used in configuration
// records. The factor is only meaningful for "factor".
func ParsePartition(typ string, factor int) (PartitionDim, error) {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "normal":
		return NormalDim(), nil
	case "complete":
		return CompleteDim(), nil
	case "factor", "cyclic", "block":
		return FactorDim(factor), nil
	default:
		return PartitionDim{}, fmt.Errorf("config: unknown partition type %q", typ)
	}
}

// Pattern returns the number of parallel banks this dimension contributes
// for a dimension of the given extent.
func (p PartitionDim) Pattern(extent int) int {
	switch p.Kind {
	case Normal:
		return 1
	case Complete:
		return extent
	default:
		return p.Factor
	}
}

func (p PartitionDim) String() string {
	if p.Kind == Factor {
		return fmt.Sprintf("factor-%d", p.Factor)
	}
	return p.Kind.String()
}

// MemcoreKind selects the physical memory primitive used for every bank.
type MemcoreKind int

const (
	BRAM MemcoreKind = iota
	URAM
)

// ParseMemcoreKind maps "URAM" to URAM; every other value selects BRAM.
func ParseMemcoreKind(s string) MemcoreKind {
	if strings.EqualFold(strings.TrimSpace(s), "URAM") {
		return URAM
	}
	return BRAM
}

func (k MemcoreKind) String() string {
	if k == URAM {
		return "URAM"
	}
	return "BRAM"
}

// Primitive is the name of the memory primitive module for this kind.
func (k MemcoreKind) Primitive() string {
	if k == URAM {
		return "memcore_uram"
	}
	return "memcore_bram"
}
