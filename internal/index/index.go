// Package index enumerates the bank index space of a partitioned buffer and
// renders each point as the suffix used in every per-bank port, wire and
// instance name.
package index

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Count returns the number of points in the index space, i.e. the product of
// patterns.
func Count(patterns []int) int {
	total := 1
	for _, p := range patterns {
		total *= p
	}
	return total
}

// Enumerate yields one suffix per point of the index space in odometer order,
// last dimension fastest. Dimensions with pattern 1 contribute nothing; a
// non-empty suffix always ends in "_". An all-1 pattern yields the single
// empty suffix.
//
// Each call returns an independent sequence, so generators can walk the same
// space separately and still agree on names.
func Enumerate(patterns []int) iter.Seq[string] {
	for i, p := range patterns {
		if p < 1 {
			panic(fmt.Sprintf("index: pattern %d of dimension %d must be positive", p, i))
		}
	}
	dims := slices.Clone(patterns)
	return func(yield func(string) bool) {
		indices := make([]int, len(dims))
		total := Count(dims)
		for n := 0; n < total; n++ {
			if !yield(suffix(dims, indices)) {
				return
			}
			for i := len(dims) - 1; i >= 0; i-- {
				if indices[i] == dims[i]-1 {
					indices[i] = 0
					continue
				}
				indices[i]++
				break
			}
		}
	}
}

func suffix(dims, indices []int) string {
	var b strings.Builder
	for i, d := range dims {
		if d == 1 {
			continue
		}
		b.WriteString(strconv.Itoa(indices[i]))
		b.WriteByte('_')
	}
	return b.String()
}
