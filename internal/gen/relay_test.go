package gen

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bufgen/internal/config"
	"bufgen/internal/ir"
)

var _ = Describe("RelayMemcores", func() {
	var (
		names    Names
		cfg      config.BufferConfig
		top, reg *ir.Module
	)

	BeforeEach(func() {
		names = NamesFor("b0")
		cfg = standardConfig()
		top, reg = RelayMemcores(names, cfg, 2)
	})

	It("should keep the bank-array interface", func() {
		plain := Memcores(names.Memcores, cfg)
		Expect(top.Name).To(Equal("relay_memcores_b0"))
		Expect(top.Ports).To(Equal(plain.Ports))
		Expect(top.Params).To(ContainElement(ir.ConstParam("LEVEL", 2)))
	})

	It("should register requests forward and read data backward", func() {
		Expect(reg.Name).To(Equal("relay_memcores_b0_reg"))
		p, _ := reg.Port("mem_0_1_producer_q1")
		Expect(p.Direction).To(Equal(ir.Output))
		Expect(p.Kind).To(Equal(ir.Reg))
		c, _ := reg.Port("mem_0_1_consumer_address0")
		Expect(c.Direction).To(Equal(ir.Output))
		Expect(c.Kind).To(Equal(ir.Reg))
		cq, _ := reg.Port("mem_0_1_consumer_q0")
		Expect(cq.Direction).To(Equal(ir.Input))

		blocks := alwaysBlocks(reg)
		Expect(blocks).To(HaveLen(1))
		Expect(assignments(blocks[0].Body, "mem_0_1_producer_q1", false)).To(Equal([]string{"mem_0_1_consumer_q1"}))
		Expect(assignments(blocks[0].Body, "mem_0_1_consumer_we0", false)).To(Equal([]string{"mem_0_1_producer_we0"}))
	})

	It("should chain register stages and end in the bank array", func() {
		gen := top.Items[len(top.Items)-1].(*ir.Generate)
		outer := gen.Items[0].(*ir.GenIf)
		Expect(ir.ExprString(outer.Cond)).To(Equal("LEVEL > 0"))

		loop := outer.Then[0].(*ir.GenFor)
		Expect(loop.Label).To(Equal("inst"))
		Expect(ir.ExprString(loop.To)).To(Equal("LEVEL"))
		stage := loop.Body[0].(*ir.GenIf)
		Expect(ir.ExprString(stage.Cond)).To(Equal("i < (LEVEL - 1)"))

		regInst := stage.Then[0].(*ir.Instance)
		Expect(regInst.Module).To(Equal(names.RelayMemcoresReg))
		in, _ := connection(regInst, "mem_1_0_producer_address0")
		Expect(in).To(Equal("mem_1_0_address0[i]"))
		out, _ := connection(regInst, "mem_1_0_consumer_address0")
		Expect(out).To(Equal("mem_1_0_address0[i + 1]"))

		last := stage.Else[0].(*ir.Instance)
		Expect(last.Module).To(Equal(names.Memcores))
		q, _ := connection(last, "memcores_i1_0_q1")
		Expect(q).To(Equal("mem_1_0_q1[i]"))
	})

	It("should feed stage zero from the module ports", func() {
		outer := top.Items[len(top.Items)-1].(*ir.Generate).Items[0].(*ir.GenIf)
		var assigns []string
		for _, item := range outer.Then {
			if a, ok := item.(*ir.Assign); ok {
				assigns = append(assigns, ir.ExprString(a.LHS)+"="+ir.ExprString(a.RHS))
			}
		}
		Expect(assigns).To(HaveLen(6 * 2 * 5))
		Expect(assigns).To(ContainElements(
			"mem_0_0_d1[0]=memcores_i0_0_d1",
			"memcores_i0_0_q1=mem_0_0_q1[0]",
		))
	})

	It("should bypass the pipeline when LEVEL is zero", func() {
		outer := top.Items[len(top.Items)-1].(*ir.Generate).Items[0].(*ir.GenIf)
		Expect(outer.Else).To(HaveLen(1))
		direct := outer.Else[0].(*ir.Instance)
		Expect(direct.Module).To(Equal(names.Memcores))
		a, _ := connection(direct, "memcores_i1_2_address1")
		Expect(a).To(Equal("memcores_i1_2_address1"))
	})

	It("should place the bank array alone when LEVEL is one", func() {
		// With LEVEL = 1 the only loop iteration takes the else arm, so the
		// relay array reduces to one bank-array instance on stage zero.
		outer := top.Items[len(top.Items)-1].(*ir.Generate).Items[0].(*ir.GenIf)
		stage := outer.Then[0].(*ir.GenFor).Body[0].(*ir.GenIf)
		last := stage.Else[0].(*ir.Instance)
		Expect(last.Ports).To(HaveLen(2 + 6*10))
		for _, c := range last.Ports[2:] {
			Expect(ir.ExprString(c.Value)).To(HaveSuffix("[i]"))
		}
	})
})

var _ = Describe("RelayBuffer", func() {
	names := NamesFor("b0")

	It("should use relay stations and the relay bank array", func() {
		m := RelayBuffer(names, standardConfig(), 3)
		Expect(m.Name).To(Equal("relay_buffer_b0"))
		Expect(m.Params).To(ContainElement(ir.ConstParam("LEVEL", 3)))
		Expect(instanceOf(m, RelayStationPrimitive)).To(HaveLen(1))
		free := instanceOf(m, InitializedRelayStationPrimitive)
		Expect(free).To(HaveLen(1))
		Expect(free[0].Params).To(ContainElements(ir.Bind("LEVEL", "LEVEL"), ir.Bind("INIT_LENGTH", "FREE_FIFO_RESET_LENGTH")))
		cores := instanceOf(m, names.RelayMemcores)
		Expect(cores).To(HaveLen(1))
		Expect(cores[0].Params).To(ContainElement(ir.Bind("LEVEL", "LEVEL")))
	})

	It("should keep the plain buffer's interface", func() {
		for _, cfg := range []config.BufferConfig{standardConfig(), hybridConfig()} {
			plain := DoubleBuffer(names, cfg)
			relay := RelayBuffer(names, cfg, 2)
			Expect(relay.Ports).To(Equal(plain.Ports))
		}
	})

	It("should include the lane switch for a single section", func() {
		m := RelayBuffer(names, hybridConfig(), 2)
		Expect(instanceOf(m, names.Laneswitches)).To(HaveLen(1))
		Expect(instanceOf(RelayBuffer(names, standardConfig(), 2), names.Laneswitches)).To(BeEmpty())
	})
})
