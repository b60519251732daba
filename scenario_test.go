package rcheevos

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// These specs walk the concrete scenarios against RAM = [00, 12, 34, AB, 56]
// (addresses 0..4). Each frame refreshes the registry a trigger, leaderboard
// or rich presence script was compiled against before evaluating it, the
// same order Runtime.DoFrame uses.

var _ = Describe("Trigger evaluation", func() {
	var ram map[uint32]uint32
	var peek PeekFunc

	BeforeEach(func() {
		ram = map[uint32]uint32{0: 0x00, 1: 0x12, 2: 0x34, 3: 0xAB, 4: 0x56}
		peek = fakePeek(ram)
	})

	Context("a single always-true condition", func() {
		It("increments its hit count on the first call", func() {
			reg := NewRegistry()
			trig, err := CompileTrigger("0xH0001=18", reg)
			Expect(err).NotTo(HaveOccurred())

			reg.Refresh(peek, nil)
			trig.Evaluate(peek, nil) // true on its first frame: stays Waiting, but the hit still counts
			Expect(trig.Required.Conditions[0].CurrentHits).To(Equal(uint32(1)))
		})
	})

	Context("a hit-target condition followed by a plain condition", func() {
		It("triggers on the second do_frame call once the target is set", func() {
			reg := NewRegistry()
			trig, err := CompileTrigger("0xH0001=20(2)_0xH0002=52", reg)
			Expect(err).NotTo(HaveOccurred())

			ram[1] = 20

			reg.Refresh(peek, nil)
			trig.Evaluate(peek, nil) // Waiting -> Active
			Expect(trig.State).NotTo(Equal(StateTriggered))

			reg.Refresh(peek, nil)
			ev := trig.Evaluate(peek, nil)
			Expect(ev).To(Equal(EventTriggered))
			Expect(trig.State).To(Equal(StateTriggered))

			reg.Refresh(peek, nil)
			trig.Evaluate(peek, nil) // Triggered short-circuits further evaluation
			Expect(trig.Required.Conditions[1].CurrentHits).To(Equal(uint32(2)))
		})
	})

	Context("AddSource contributing to the following comparison", func() {
		It("is false until the combined value reaches the target", func() {
			reg := NewRegistry()
			trig, err := CompileTrigger("A:0xH0001_0xH0002=22", reg)
			Expect(err).NotTo(HaveOccurred())

			reg.Refresh(peek, nil)
			trig.Evaluate(peek, nil) // Waiting -> Active
			Expect(trig.State).NotTo(Equal(StateTriggered))

			ram[2] = 4
			reg.Refresh(peek, nil)
			trig.Evaluate(peek, nil)
			Expect(trig.State).To(Equal(StateTriggered))
		})
	})

	Context("PauseIf latching at its hit target", func() {
		It("stays paused once latched regardless of later memory changes", func() {
			reg := NewRegistry()
			trig, err := CompileTrigger("0xH0001=18_P:0xH0002=52.1.", reg)
			Expect(err).NotTo(HaveOccurred())

			reg.Refresh(peek, nil)
			trig.Evaluate(peek, nil) // Waiting -> Active; pause hits reach target this frame
			reg.Refresh(peek, nil)
			trig.Evaluate(peek, nil) // Active -> Paused, now that Active observes the pause
			Expect(trig.State).To(Equal(StatePaused))

			ram[2] = 0
			reg.Refresh(peek, nil)
			trig.Evaluate(peek, nil)
			Expect(trig.State).To(Equal(StatePaused))
		})
	})

	Context("AddAddress scoping the next condition's address", func() {
		It("follows the pointer at RAM[0] when reading the target condition", func() {
			reg := NewRegistry()
			trig, err := CompileTrigger("I:0xH0000_0xH0002=22", reg)
			Expect(err).NotTo(HaveOccurred())
			ram[0] = 1

			reg.Refresh(peek, nil)
			trig.Evaluate(peek, nil) // RAM[3] still 0xAB: false, Waiting -> Active
			ram[3] = 22
			reg.Refresh(peek, nil)
			Expect(trig.Evaluate(peek, nil)).To(Equal(EventTriggered))

			reg2 := NewRegistry()
			trig2, err := CompileTrigger("I:0xH0000_0xH0002=22", reg2)
			Expect(err).NotTo(HaveOccurred())
			ram[0] = 2
			reg2.Refresh(peek, nil)
			trig2.Evaluate(peek, nil) // RAM[4] still 0x56: false, Waiting -> Active
			ram[4] = 22
			reg2.Refresh(peek, nil)
			Expect(trig2.Evaluate(peek, nil)).To(Equal(EventTriggered))

			reg3 := NewRegistry()
			trig3, err := CompileTrigger("I:0xH0000_0xH0002=22", reg3)
			Expect(err).NotTo(HaveOccurred())
			ram[0] = 100 // reads RAM[102], which is unmapped and reads as 0: never equals 22
			reg3.Refresh(peek, nil)
			trig3.Evaluate(peek, nil)
			reg3.Refresh(peek, nil)
			trig3.Evaluate(peek, nil)
			Expect(trig3.State).NotTo(Equal(StateTriggered))
		})
	})
})

var _ = Describe("Leaderboard attempt lifecycle", func() {
	It("starts, tracks the value, and fires a single Triggered event", func() {
		ram := map[uint32]uint32{0: 0, 2: 0x34}
		peek := fakePeek(ram)
		reg := NewRegistry()

		lb, err := CompileLeaderboard("STA:0xH00=1::CAN:0xH00=2::SUB:0xH00=3::VAL:0xH02", reg)
		Expect(err).NotTo(HaveOccurred())

		reg.Refresh(peek, nil)
		ev := lb.Evaluate(peek, nil) // RAM[0]=0: inner triggers see their first (false) frame
		Expect(ev).To(Equal(LboardEventNone))

		ram[0] = 1
		reg.Refresh(peek, nil)
		ev = lb.Evaluate(peek, nil) // Active -> Started
		Expect(ev).To(Equal(LboardEventStarted))
		Expect(lb.LastValue).To(Equal(uint32(0x34)))

		ram[0] = 3
		reg.Refresh(peek, nil)
		ev = lb.Evaluate(peek, nil) // Started -> Triggered
		Expect(ev).To(Equal(LboardEventTriggered))
		Expect(lb.LastValue).To(Equal(uint32(0x34)))

		reg.Refresh(peek, nil)
		ev = lb.Evaluate(peek, nil) // RAM[0] still 3: no new Started fires
		Expect(ev).NotTo(Equal(LboardEventStarted))
	})
})

var _ = Describe("Rich presence lookup rendering", func() {
	It("renders the matching entry or an empty substitution when none matches", func() {
		ram := map[uint32]uint32{0: 0}
		peek := fakePeek(ram)
		reg := NewRegistry()

		rp, err := CompileRichPresence("Lookup:L\n0=Zero\n1=One\n\nDisplay:\nAt @L(0xH0000)\n", reg)
		Expect(err).NotTo(HaveOccurred())

		reg.Refresh(peek, nil)
		Expect(rp.Evaluate(peek, nil)).To(Equal("At Zero"))

		ram[0] = 1
		reg.Refresh(peek, nil)
		Expect(rp.Evaluate(peek, nil)).To(Equal("At One"))

		ram[0] = 2
		reg.Refresh(peek, nil)
		Expect(rp.Evaluate(peek, nil)).To(Equal("At "))
	})
})

var _ = Describe("Serialisation round-trip", func() {
	It("restores identical trigger state when the source MD5 matches", func() {
		rt := NewRuntime(nil)
		ram := map[uint32]uint32{0: 1}
		peek := fakePeek(ram)

		Expect(rt.ActivateAchievement(1, "0xH0000=1.2.")).To(Succeed())
		rt.DoFrame(peek, nil, nil)
		rt.DoFrame(peek, nil, nil)

		var buf bytes.Buffer
		Expect(rt.SerializeProgress(&buf)).To(Succeed())

		fresh := NewRuntime(nil)
		Expect(fresh.ActivateAchievement(1, "0xH0000=1.2.")).To(Succeed())
		Expect(fresh.DeserializeProgress(buf.Bytes())).To(Succeed())

		Expect(fresh.triggers[1].trigger.State).To(Equal(rt.triggers[1].trigger.State))
		Expect(fresh.triggers[1].trigger.Required.Conditions[0].CurrentHits).
			To(Equal(rt.triggers[1].trigger.Required.Conditions[0].CurrentHits))
	})
})
