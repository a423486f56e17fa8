package gen

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bufgen/internal/config"
	"bufgen/internal/ir"
)

var _ = Describe("DoubleBuffer", func() {
	names := NamesFor("b0")

	Context("with several sections", func() {
		var m *ir.Module

		BeforeEach(func() {
			m = DoubleBuffer(names, standardConfig())
		})

		It("should expose one port group per role", func() {
			Expect(m.Ports).To(HaveLen(2 + 16 + 6*2*5))
			_, ok := m.Port("buffer_core0_0_producer_address1")
			Expect(ok).To(BeFalse())
			p, ok := m.Port("buffer_core1_2_consumer_q0")
			Expect(ok).To(BeTrue())
			Expect(p.Direction).To(Equal(ir.Output))
		})

		It("should wire the bank array directly to both roles", func() {
			Expect(instanceOf(m, names.Laneswitches)).To(BeEmpty())
			cores := instanceOf(m, names.Memcores)
			Expect(cores).To(HaveLen(1))
			a, _ := connection(cores[0], "memcores_i0_1_address0")
			Expect(a).To(Equal("buffer_core0_1_producer_address0"))
			b, _ := connection(cores[0], "memcores_i0_1_q1")
			Expect(b).To(Equal("buffer_core0_1_consumer_q0"))
		})

		It("should size the FIFOs from the section count", func() {
			Expect(m.Params).To(ContainElements(
				ir.ConstParam("FIFO_DATA_WIDTH", 32),
				ir.ConstParam("FIFO_ADDR_WIDTH", 1),
				ir.ConstParam("FIFO_DEPTH", 2),
				ir.ConstParam("FREE_FIFO_RESET_LENGTH", 2),
			))
			free := instanceOf(m, InitializedFIFOPrimitive)
			Expect(free).To(HaveLen(1))
			Expect(free[0].Name).To(Equal("free_buffers"))
			Expect(free[0].Params[len(free[0].Params)-1]).To(Equal(ir.Bind("INIT_LENGTH", "FREE_FIFO_RESET_LENGTH")))
			occ := instanceOf(m, FIFOPrimitive)
			Expect(occ).To(HaveLen(1))
			d, _ := connection(occ[0], "if_dout")
			Expect(d).To(Equal("fifo_occupied_buffers_dout"))
		})

		It("should expose every FIFO port named by the port tables", func() {
			cfg := standardConfig()
			for _, role := range []config.Role{config.Producer, config.Consumer} {
				for _, name := range cfg.FIFOPortNames(role) {
					_, ok := m.Port(name)
					Expect(ok).To(BeTrue(), name)
				}
			}
		})
	})

	Context("with a single section", func() {
		var m *ir.Module

		BeforeEach(func() {
			m = DoubleBuffer(names, hybridConfig())
		})

		It("should expose two port groups per role", func() {
			Expect(m.Ports).To(HaveLen(2 + 16 + 6*2*10))
			_, ok := m.Port("buffer_core0_0_consumer_we1")
			Expect(ok).To(BeTrue())
		})

		It("should reach the banks through the lane switch", func() {
			ls := instanceOf(m, names.Laneswitches)
			Expect(ls).To(HaveLen(1))
			r0, _ := connection(ls[0], Lane0Read)
			Expect(r0).To(Equal("fifo_free_buffers_read"))
			r1, _ := connection(ls[0], Lane1Read)
			Expect(r1).To(Equal("fifo_occupied_buffers_read"))
			lane, _ := connection(ls[0], "laneswitches_i1_1_lane1_address1")
			Expect(lane).To(Equal("buffer_core1_1_consumer_address1"))
			mem, _ := connection(ls[0], "laneswitches_i1_1_mem_q0")
			Expect(mem).To(Equal("locsig_i1_1_laneswitches_memcores_q0"))

			cores := instanceOf(m, names.Memcores)[0]
			c, _ := connection(cores, "memcores_i1_1_q0")
			Expect(c).To(Equal(mem))
		})

		It("should declare the lane-switch nets", func() {
			var decls []string
			for _, item := range m.Items {
				if d, ok := item.(*ir.Decl); ok {
					decls = append(decls, d.Name)
				}
			}
			Expect(decls).To(HaveLen(6 * 10))
			Expect(decls).To(ContainElement("locsig_i0_0_laneswitches_memcores_we1"))
		})
	})
})

var _ = Describe("Port interface", func() {
	It("should match the producer and consumer memory tables", func() {
		for _, cfg := range []config.BufferConfig{standardConfig(), hybridConfig()} {
			m := DoubleBuffer(NamesFor("b0"), cfg)
			for _, role := range []config.Role{config.Producer, config.Consumer} {
				for _, w := range cfg.MemorySuffixes(role) {
					for _, idx := range []string{"0_0_", "1_2_"} {
						p, ok := m.Port(w.Name(idx))
						Expect(ok).To(BeTrue(), w.Name(idx))
						if w.Direction == config.Output {
							Expect(p.Direction).To(Equal(ir.Input))
						} else {
							Expect(p.Direction).To(Equal(ir.Output))
						}
					}
				}
			}
		}
	})
})
