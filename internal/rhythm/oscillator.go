// Package rhythm generates periodic blend factors and walks the appearance
// space between two canonical states with them.
package rhythm

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/xiy/reflective-mcp/pkg/types"
)

// Waveform is the shape of one oscillation cycle.
type Waveform string

const (
	Sinusoidal Waveform = "sinusoidal"
	Triangular Waveform = "triangular"
	Square     Waveform = "square"
	// Drift wanders between the endpoints along seeded coherent noise.
	Drift Waveform = "drift"
)

// Waveforms lists the supported waveform kinds.
var Waveforms = []Waveform{Sinusoidal, Triangular, Square, Drift}

const (
	// DefaultSeed seeds the drift waveform when none is configured.
	DefaultSeed int64 = 1618

	// MaxSteps bounds the length of one generated sequence.
	MaxSteps = 4096

	driftFrequency = 2.0
)

// ParseWaveform validates a waveform name. An empty name selects Sinusoidal.
func ParseWaveform(name string) (Waveform, error) {
	if name == "" {
		return Sinusoidal, nil
	}
	for _, w := range Waveforms {
		if string(w) == name {
			return w, nil
		}
	}
	names := make([]string, len(Waveforms))
	for i, w := range Waveforms {
		names[i] = string(w)
	}
	return "", &types.ToolError{
		Kind:      types.KindInvalidWaveform,
		Message:   "Unknown waveform: " + name,
		Subject:   "waveforms",
		Available: names,
	}
}

// Generator produces blend factor sequences. It is safe for concurrent use.
type Generator struct {
	seed  int64
	noise opensimplex.Noise
}

// NewGenerator returns a generator whose drift waveform uses seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{seed: seed, noise: opensimplex.NewNormalized(seed)}
}

// Seed returns the drift seed.
func (g *Generator) Seed() int64 { return g.seed }

// Factors returns exactly totalSteps blend factors in [0,1] describing cycles
// oscillations of the given waveform.
func (g *Generator) Factors(totalSteps int, cycles float64, w Waveform) ([]float64, error) {
	if totalSteps < 1 {
		return nil, types.MalformedInput("Total steps must be at least 1, got %d", totalSteps)
	}
	if totalSteps > MaxSteps {
		return nil, types.MalformedInput("Total steps must not exceed %d, got %d", MaxSteps, totalSteps)
	}
	if !(cycles > 0) || math.IsInf(cycles, 0) {
		return nil, types.MalformedInput("Cycles must be a positive number, got %v", cycles)
	}
	if _, err := ParseWaveform(string(w)); err != nil {
		return nil, err
	}

	out := make([]float64, totalSteps)
	n := float64(totalSteps)
	for i := range out {
		x := cycles * float64(i) / n
		switch w {
		case Triangular:
			t := x - math.Floor(x)
			if t < 0.5 {
				out[i] = 2 * t
			} else {
				out[i] = 2 * (1 - t)
			}
		case Square:
			t := x - math.Floor(x)
			if t < 0.5 {
				out[i] = 0
			} else {
				out[i] = 1
			}
		case Drift:
			out[i] = clamp01(g.noise.Eval2(x*driftFrequency, 0))
		default:
			out[i] = 0.5 * (1 + math.Sin(2*math.Pi*x))
		}
	}
	return out, nil
}

// Rotate moves the first floor(offset*stepsPerCycle) samples to the end.
// Negative offsets rotate the other way. Length is preserved.
func Rotate(factors []float64, offset float64, stepsPerCycle int) []float64 {
	out := make([]float64, len(factors))
	n := len(factors)
	if n == 0 {
		return out
	}
	shift := int(math.Floor(offset * float64(stepsPerCycle)))
	shift = ((shift % n) + n) % n
	copy(out, factors[shift:])
	copy(out[n-shift:], factors[:shift])
	return out
}

// TotalSteps is floor(cycles*stepsPerCycle), tolerant of float noise such as
// 0.29*100 evaluating just below 29.
func TotalSteps(cycles float64, stepsPerCycle int) int {
	return int(math.Floor(cycles*float64(stepsPerCycle) + 1e-9))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
