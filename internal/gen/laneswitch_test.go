package gen

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bufgen/internal/config"
	"bufgen/internal/ir"
)

var _ = Describe("Laneswitches", func() {
	var (
		cfg config.BufferConfig
		m   *ir.Module
	)

	BeforeEach(func() {
		cfg = hybridConfig()
		m = Laneswitches("laneswitches_b0", cfg)
	})

	It("should expose the lane pulses and three port sides per bank", func() {
		Expect(portNames(m)[:4]).To(Equal([]string{"clk", "reset", Lane0Read, Lane1Read}))
		// mem side: 2 groups; lanes: 2 lanes x 2 groups; 5 signals each.
		Expect(m.Ports).To(HaveLen(4 + 6*(10+20)))
	})

	It("should drive the memory side and receive the lanes", func() {
		addr, ok := m.Port("laneswitches_i0_2_mem_address1")
		Expect(ok).To(BeTrue())
		Expect(addr.Direction).To(Equal(ir.Output))
		q, _ := m.Port("laneswitches_i0_2_mem_q0")
		Expect(q.Direction).To(Equal(ir.Input))

		laneAddr, ok := m.Port("laneswitches_i1_0_lane1_address0")
		Expect(ok).To(BeTrue())
		Expect(laneAddr.Direction).To(Equal(ir.Input))
		laneQ, _ := m.Port("laneswitches_i1_0_lane0_q1")
		Expect(laneQ.Direction).To(Equal(ir.Output))
	})

	It("should give every bank its own select bit", func() {
		switches := instanceOf(m, LaneswitchPrimitive)
		Expect(switches).To(HaveLen(6))
		for i, sw := range switches {
			sel, ok := connection(sw, "switch")
			Expect(ok).To(BeTrue())
			Expect(sel).To(Equal(ir.ExprString(ir.AtN(Switchbar, i))))
		}
		actual, _ := connection(switches[5], "laneswitch_lane1_d1")
		Expect(actual).To(Equal("laneswitches_i1_2_lane1_d1"))
	})

	It("should declare the arbiter before using it", func() {
		decl, ok := m.Items[0].(*ir.Decl)
		Expect(ok).To(BeTrue())
		Expect(decl.Name).To(Equal(Switchbar))
		Expect(ir.ExprString(decl.Width)).To(Equal("6"))
	})

	Describe("arbiter", func() {
		var pulse, drive *ir.Always

		BeforeEach(func() {
			blocks := alwaysBlocks(m)
			Expect(blocks).To(HaveLen(2))
			pulse, drive = blocks[0], blocks[1]
		})

		It("should react to either pulse and to reset", func() {
			Expect(ir.SensString(pulse.Sens)).To(Equal(
				"posedge fifo_to_lane0_read or posedge fifo_to_lane1_read or posedge reset"))
			Expect(ir.SensString(drive.Sens)).To(Equal("posedge clk"))
		})

		It("should drive every register from exactly one process", func() {
			for _, reg := range []string{NextState, SwitchbarNext} {
				Expect(assignments(pulse.Body, reg, false)).NotTo(BeEmpty())
				Expect(assignments(drive.Body, reg, false)).To(BeEmpty())
			}
			for _, reg := range []string{ThisState, Switchbar} {
				Expect(assignments(drive.Body, reg, false)).NotTo(BeEmpty())
				Expect(assignments(pulse.Body, reg, false)).To(BeEmpty())
			}
		})

		It("should only ever select all banks for one lane", func() {
			values := assignments(pulse.Body, SwitchbarNext, true)
			Expect(values).To(ConsistOf("6'b000000", "6'b111111", "6'b000000"))
			Expect(assignments(drive.Body, Switchbar, false)).To(ConsistOf("6'b000000", SwitchbarNext))
		})

		It("should move to the state matching the select pattern", func() {
			Expect(assignments(pulse.Body, NextState, true)).To(Equal([]string{StateLane0, StateLane1, StateLane0}))
		})

		It("should give the occupied queue priority", func() {
			root := pulse.Body[0].(*ir.If)
			cs := root.Else[0].(*ir.Case)
			lane1Arm := cs.Items[1]
			Expect(ir.ExprString(lane1Arm.Match[0])).To(Equal(StateLane1))
			cond := lane1Arm.Body[0].(*ir.If).Cond
			Expect(ir.ExprString(cond)).To(Equal("fifo_to_lane0_read && !fifo_to_lane1_read"))
		})

		It("should reset into lane0", func() {
			root := drive.Body[0].(*ir.If)
			Expect(ir.ExprString(root.Cond)).To(Equal("reset"))
			Expect(assignments(root.Then, ThisState, false)).To(Equal([]string{StateLane0}))
		})
	})
})
