package rhythm_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xiy/reflective-mcp/internal/morphospace"
	"github.com/xiy/reflective-mcp/internal/rhythm"
	"github.com/xiy/reflective-mcp/pkg/types"
)

func toolErrorKind(err error) types.ErrorKind {
	var te *types.ToolError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

var _ = Describe("Factors", func() {
	var gen *rhythm.Generator

	BeforeEach(func() {
		gen = rhythm.NewGenerator(rhythm.DefaultSeed)
	})

	DescribeTable("stays inside [0,1] with the requested length",
		func(w rhythm.Waveform, total int, cycles float64) {
			factors, err := gen.Factors(total, cycles, w)
			Expect(err).NotTo(HaveOccurred())
			Expect(factors).To(HaveLen(total))
			for _, f := range factors {
				Expect(f).To(BeNumerically(">=", 0))
				Expect(f).To(BeNumerically("<=", 1))
			}
		},
		Entry("sinusoidal", rhythm.Sinusoidal, 24, 2.0),
		Entry("triangular", rhythm.Triangular, 24, 3.0),
		Entry("square", rhythm.Square, 24, 4.0),
		Entry("drift", rhythm.Drift, 20, 2.0),
		Entry("single step", rhythm.Sinusoidal, 1, 0.5),
	)

	It("emits only the endpoints for a square wave", func() {
		factors, err := gen.Factors(24, 4, rhythm.Square)
		Expect(err).NotTo(HaveOccurred())
		for _, f := range factors {
			Expect(f).To(Or(Equal(0.0), Equal(1.0)))
		}
		Expect(factors[:3]).To(Equal([]float64{0, 0, 0}))
		Expect(factors[3:6]).To(Equal([]float64{1, 1, 1}))
	})

	It("starts a sine wave at the midpoint and peaks a quarter cycle later", func() {
		factors, err := gen.Factors(12, 1, rhythm.Sinusoidal)
		Expect(err).NotTo(HaveOccurred())
		Expect(factors[0]).To(BeNumerically("~", 0.5, 1e-12))
		Expect(factors[3]).To(BeNumerically("~", 1.0, 1e-12))
		Expect(factors[9]).To(BeNumerically("~", 0.0, 1e-12))
	})

	It("ramps a triangle wave linearly", func() {
		factors, err := gen.Factors(8, 1, rhythm.Triangular)
		Expect(err).NotTo(HaveOccurred())
		Expect(factors[0]).To(BeNumerically("~", 0.0, 1e-12))
		Expect(factors[2]).To(BeNumerically("~", 0.5, 1e-12))
		Expect(factors[4]).To(BeNumerically("~", 1.0, 1e-12))
		Expect(factors[6]).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("reproduces drift for the same seed", func() {
		a, err := rhythm.NewGenerator(7).Factors(20, 2, rhythm.Drift)
		Expect(err).NotTo(HaveOccurred())
		b, err := rhythm.NewGenerator(7).Factors(20, 2, rhythm.Drift)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("rejects unknown waveforms with the available list", func() {
		_, err := gen.Factors(10, 1, rhythm.Waveform("sawtooth"))
		Expect(toolErrorKind(err)).To(Equal(types.KindInvalidWaveform))
		var te *types.ToolError
		Expect(errors.As(err, &te)).To(BeTrue())
		Expect(te.Available).To(ConsistOf("sinusoidal", "triangular", "square", "drift"))
	})

	It("rejects empty and oversized sequences", func() {
		_, err := gen.Factors(0, 1, rhythm.Sinusoidal)
		Expect(toolErrorKind(err)).To(Equal(types.KindMalformedInput))
		_, err = gen.Factors(rhythm.MaxSteps+1, 1, rhythm.Sinusoidal)
		Expect(toolErrorKind(err)).To(Equal(types.KindMalformedInput))
		_, err = gen.Factors(4, math.NaN(), rhythm.Sinusoidal)
		Expect(toolErrorKind(err)).To(Equal(types.KindMalformedInput))
	})
})

var _ = Describe("Rotate", func() {
	in := []float64{0, 1, 2, 3, 4, 5}

	It("moves the leading samples to the end", func() {
		Expect(rhythm.Rotate(in, 0.5, 4)).To(Equal([]float64{2, 3, 4, 5, 0, 1}))
	})

	It("wraps offsets larger than the sequence", func() {
		Expect(rhythm.Rotate(in, 2, 4)).To(Equal([]float64{2, 3, 4, 5, 0, 1}))
	})

	It("rotates right for negative offsets", func() {
		Expect(rhythm.Rotate(in, -0.25, 4)).To(Equal([]float64{5, 0, 1, 2, 3, 4}))
	})

	It("leaves the input untouched", func() {
		_ = rhythm.Rotate(in, 0.5, 4)
		Expect(in).To(Equal([]float64{0, 1, 2, 3, 4, 5}))
	})
})

var _ = Describe("TotalSteps", func() {
	It("floors fractional products", func() {
		Expect(rhythm.TotalSteps(1.5, 16)).To(Equal(24))
		Expect(rhythm.TotalSteps(1.3, 5)).To(Equal(6))
		Expect(rhythm.TotalSteps(0.29, 100)).To(Equal(29))
	})
})

var _ = Describe("Sequence", func() {
	var gen *rhythm.Generator

	BeforeEach(func() {
		gen = rhythm.NewGenerator(rhythm.DefaultSeed)
	})

	It("interpolates each step from its blend factor", func() {
		seq, err := gen.Sequence(rhythm.Request{
			StateA:        "mirror_still",
			StateB:        "frosted_pane",
			Waveform:      rhythm.Square,
			Cycles:        1,
			StepsPerCycle: 4,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(seq.TotalSteps).To(Equal(4))
		Expect(seq.Steps).To(HaveLen(4))

		a, _ := morphospace.States.Get("mirror_still")
		b, _ := morphospace.States.Get("frosted_pane")
		Expect(seq.Steps[0].Vector).To(Equal(a.Vector))
		Expect(seq.Steps[3].Vector).To(Equal(b.Vector))
		Expect(seq.Steps[1].CyclePosition).To(Equal(0.25))
	})

	It("applies the phase offset before interpolation", func() {
		base, err := gen.Sequence(rhythm.Request{StateA: "mirror_still", StateB: "rippled_pool", Cycles: 2, StepsPerCycle: 12})
		Expect(err).NotTo(HaveOccurred())
		shifted, err := gen.Sequence(rhythm.Request{StateA: "mirror_still", StateB: "rippled_pool", Cycles: 2, StepsPerCycle: 12, PhaseOffset: 0.25})
		Expect(err).NotTo(HaveOccurred())
		Expect(shifted.Steps[0].BlendFactor).To(Equal(base.Steps[3].BlendFactor))
		Expect(shifted.Steps[0].Step).To(Equal(0))
	})

	It("names the unknown state and lists the valid ones", func() {
		_, err := gen.Sequence(rhythm.Request{StateA: "mirror_still", StateB: "lava_lamp", Cycles: 1, StepsPerCycle: 4})
		Expect(toolErrorKind(err)).To(Equal(types.KindUnknownIdentifier))
		Expect(err.Error()).To(ContainSubstring("lava_lamp"))
		var te *types.ToolError
		Expect(errors.As(err, &te)).To(BeTrue())
		Expect(te.Available).To(Equal(morphospace.States.IDs()))
	})

	It("rejects sequences shorter than one step", func() {
		_, err := gen.Sequence(rhythm.Request{StateA: "mirror_still", StateB: "frosted_pane", Cycles: 0.1, StepsPerCycle: 4})
		Expect(toolErrorKind(err)).To(Equal(types.KindMalformedInput))
	})
})

var _ = Describe("Presets", func() {
	It("references known states", func() {
		for _, p := range rhythm.Presets.All() {
			Expect(morphospace.States.Has(p.StateA)).To(BeTrue(), p.Name)
			Expect(morphospace.States.Has(p.StateB)).To(BeTrue(), p.Name)
		}
	})

	It("produces floor(cycles*steps) samples for every preset", func() {
		gen := rhythm.NewGenerator(rhythm.DefaultSeed)
		for _, p := range rhythm.Presets.All() {
			seq, err := gen.ApplyPreset(p.Name, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(seq.Steps).To(HaveLen(int(math.Floor(p.Cycles * float64(p.StepsPerCycle)))))
		}
	})

	It("rejects unknown preset names", func() {
		_, err := rhythm.NewGenerator(1).ApplyPreset("disco_ball", 0)
		Expect(toolErrorKind(err)).To(Equal(types.KindUnknownIdentifier))
	})
})
