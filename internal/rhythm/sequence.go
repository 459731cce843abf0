package rhythm

import (
	"github.com/xiy/reflective-mcp/internal/morphospace"
	"github.com/xiy/reflective-mcp/internal/taxonomy"
	"github.com/xiy/reflective-mcp/pkg/types"
)

// Request describes one rhythmic walk between two canonical states.
type Request struct {
	StateA        string
	StateB        string
	Waveform      Waveform
	Cycles        float64
	StepsPerCycle int
	PhaseOffset   float64
}

// Step is one sample of a rhythmic sequence.
type Step struct {
	Step          int                `json:"step"`
	BlendFactor   float64            `json:"blend_factor"`
	CyclePosition float64            `json:"cycle_position"`
	Vector        morphospace.Vector `json:"parameters"`
}

// Sequence is the full rhythmic walk.
type Sequence struct {
	StateA        string   `json:"state_a"`
	StateB        string   `json:"state_b"`
	Waveform      Waveform `json:"waveform"`
	Cycles        float64  `json:"cycles"`
	StepsPerCycle int      `json:"steps_per_cycle"`
	PhaseOffset   float64  `json:"phase_offset"`
	TotalSteps    int      `json:"total_steps"`
	Steps         []Step   `json:"steps"`
}

// Preset is a stored rhythmic recipe.
type Preset struct {
	Name          string   `json:"name"`
	StateA        string   `json:"state_a"`
	StateB        string   `json:"state_b"`
	Waveform      Waveform `json:"waveform"`
	Cycles        float64  `json:"cycles"`
	StepsPerCycle int      `json:"steps_per_cycle"`
	Description   string   `json:"description"`
}

// Request converts the preset into a sequence request.
func (p Preset) Request(phaseOffset float64) Request {
	return Request{
		StateA:        p.StateA,
		StateB:        p.StateB,
		Waveform:      p.Waveform,
		Cycles:        p.Cycles,
		StepsPerCycle: p.StepsPerCycle,
		PhaseOffset:   phaseOffset,
	}
}

// Presets holds the rhythmic presets in declaration order.
var Presets = taxonomy.NewTable("rhythmic preset", "presets", func(p Preset) string { return p.Name }, presets)

// Sequence interpolates between the two requested states using the
// requested waveform. Both states are resolved before any sampling so an
// unknown name never yields a partial sequence.
func (g *Generator) Sequence(req Request) (Sequence, error) {
	a, err := morphospace.States.Get(req.StateA)
	if err != nil {
		return Sequence{}, err
	}
	b, err := morphospace.States.Get(req.StateB)
	if err != nil {
		return Sequence{}, err
	}
	w, err := ParseWaveform(string(req.Waveform))
	if err != nil {
		return Sequence{}, err
	}
	if req.StepsPerCycle < 1 {
		return Sequence{}, types.MalformedInput("Steps per cycle must be at least 1, got %d", req.StepsPerCycle)
	}
	if !(req.Cycles > 0) {
		return Sequence{}, types.MalformedInput("Cycles must be a positive number, got %v", req.Cycles)
	}

	total := TotalSteps(req.Cycles, req.StepsPerCycle)
	factors, err := g.Factors(total, req.Cycles, w)
	if err != nil {
		return Sequence{}, err
	}
	factors = Rotate(factors, req.PhaseOffset, req.StepsPerCycle)

	steps := make([]Step, len(factors))
	for i, f := range factors {
		steps[i] = Step{
			Step:          i,
			BlendFactor:   f,
			CyclePosition: float64(i%req.StepsPerCycle) / float64(req.StepsPerCycle),
			Vector:        morphospace.Interpolate(a.Vector, b.Vector, f),
		}
	}
	return Sequence{
		StateA:        a.Name,
		StateB:        b.Name,
		Waveform:      w,
		Cycles:        req.Cycles,
		StepsPerCycle: req.StepsPerCycle,
		PhaseOffset:   req.PhaseOffset,
		TotalSteps:    total,
		Steps:         steps,
	}, nil
}

// ApplyPreset runs the named preset with an optional phase offset.
func (g *Generator) ApplyPreset(name string, phaseOffset float64) (Sequence, error) {
	p, err := Presets.Get(name)
	if err != nil {
		return Sequence{}, err
	}
	return g.Sequence(p.Request(phaseOffset))
}

var presets = []Preset{
	{
		Name:          "tidal_shimmer",
		StateA:        "mirror_still",
		StateB:        "rippled_pool",
		Waveform:      Sinusoidal,
		Cycles:        2,
		StepsPerCycle: 12,
		Description:   "Calm mirror water swelling into rippled caustics and settling again",
	},
	{
		Name:          "frost_breath",
		StateA:        "mirror_still",
		StateB:        "frosted_pane",
		Waveform:      Triangular,
		Cycles:        3,
		StepsPerCycle: 8,
		Description:   "Glass fogging and clearing at an even breathing pace",
	},
	{
		Name:          "neon_flicker",
		StateA:        "neon_puddle",
		StateB:        "chrome_sphere",
		Waveform:      Square,
		Cycles:        4,
		StepsPerCycle: 6,
		Description:   "Hard cuts between a neon street puddle and a chrome orb",
	},
	{
		Name:          "gilded_pulse",
		StateA:        "brushed_panel",
		StateB:        "gilded_relic",
		Waveform:      Sinusoidal,
		Cycles:        1.5,
		StepsPerCycle: 16,
		Description:   "Satin metal slowly warming into ornate gold",
	},
	{
		Name:          "prism_drift",
		StateA:        "crystal_facet",
		StateB:        "marble_hall",
		Waveform:      Drift,
		Cycles:        2,
		StepsPerCycle: 10,
		Description:   "Cut crystal wandering toward polished stone and back",
	},
}
