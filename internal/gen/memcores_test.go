package gen

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bufgen/internal/config"
	"bufgen/internal/index"
	"bufgen/internal/ir"
)

var _ = Describe("Memcores", func() {
	var (
		cfg config.BufferConfig
		m   *ir.Module
	)

	BeforeEach(func() {
		cfg = standardConfig()
		m = Memcores("memcores_b0", cfg)
	})

	It("should instantiate one primitive per index point", func() {
		cores := instanceOf(m, "memcore_bram")
		Expect(cores).To(HaveLen(6))
		names := make([]string, 0, len(cores))
		for _, c := range cores {
			names = append(names, c.Name)
		}
		Expect(names).To(Equal([]string{
			"core_0_0_", "core_0_1_", "core_0_2_",
			"core_1_0_", "core_1_1_", "core_1_2_",
		}))
	})

	It("should declare both physical ports of every bank", func() {
		Expect(m.Ports).To(HaveLen(2 + 6*10))
		Expect(portNames(m)[:7]).To(Equal([]string{
			"clk", "reset",
			"memcores_i0_0_address0", "memcores_i0_0_d0", "memcores_i0_0_q0",
			"memcores_i0_0_ce0", "memcores_i0_0_we0",
		}))
		q, ok := m.Port("memcores_i1_2_q1")
		Expect(ok).To(BeTrue())
		Expect(q.Direction).To(Equal(ir.Output))
		Expect(ir.ExprString(q.Width)).To(Equal("DATA_WIDTH"))
		addr, _ := m.Port("memcores_i1_2_address1")
		Expect(addr.Direction).To(Equal(ir.Input))
		Expect(ir.ExprString(addr.Width)).To(Equal("ADDR_WIDTH"))
	})

	It("should carry the bank geometry as parameter defaults", func() {
		g := cfg.Geometry()
		Expect(m.Params).To(Equal([]ir.Param{
			ir.ConstParam("DATA_WIDTH", 32),
			ir.ConstParam("ADDR_WIDTH", g.AddressWidth),
			ir.ConstParam("ADDR_RANGE", g.BankDepth),
			ir.ConstParam("IS_SIMPLE", 0),
		}))
	})

	It("should wire each primitive to its own prefix", func() {
		core := instanceOf(m, "memcore_bram")[4]
		Expect(core.Name).To(Equal("core_1_1_"))
		actual, ok := connection(core, "we1")
		Expect(ok).To(BeTrue())
		Expect(actual).To(Equal("memcores_i1_1_we1"))
		Expect(ir.ExprString(core.Params[1].Value)).To(Equal("ADDR_WIDTH"))
		Expect(core.Params[1].Name).To(Equal("ADDRESS_WIDTH"))
	})

	It("should select the URAM primitive", func() {
		m := Memcores("memcores_b1", hybridConfig())
		Expect(instanceOf(m, "memcore_uram")).To(HaveLen(6))
		Expect(instanceOf(m, "memcore_bram")).To(BeEmpty())
	})

	It("should use an empty suffix for an unpartitioned buffer", func() {
		c := config.BufferConfig{
			Width: 8, Dims: []int{16}, NSections: 2,
			Partitions: []config.PartitionDim{config.NormalDim()},
		}
		m := Memcores("memcores_flat", c)
		cores := instanceOf(m, "memcore_bram")
		Expect(cores).To(HaveLen(1))
		Expect(cores[0].Name).To(Equal("core_"))
		_, ok := m.Port("memcores_iaddress0")
		Expect(ok).To(BeTrue())
	})

	It("should agree with the double buffer on index suffixes", func() {
		buf := DoubleBuffer(NamesFor("b0"), cfg)
		for idx := range index.Enumerate(cfg.DimPatterns()) {
			_, ok := m.Port(MemcoresPrefix(idx) + "address0")
			Expect(ok).To(BeTrue())
			_, ok = buf.Port(BufferPrefix(idx, config.Producer) + "address0")
			Expect(ok).To(BeTrue())
		}
	})
})
