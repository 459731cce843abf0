// Package prompt assembles image-generation prompt text from points in the
// appearance space, either as a single composite or as keyframes sampled
// from a rhythmic preset.
package prompt

import (
	"math"
	"strings"

	"github.com/xiy/reflective-mcp/internal/morphospace"
	"github.com/xiy/reflective-mcp/internal/rhythm"
	"github.com/xiy/reflective-mcp/pkg/types"
)

// Source kinds recorded with a composite prompt.
const (
	SourceVector       = "vector"
	SourcePreset       = "preset"
	SourceDefaultState = "default_state"
)

const colorsPerPrompt = 2

// Builder resolves vectors and renders prompt text.
type Builder struct {
	gen          *rhythm.Generator
	defaultState morphospace.State
}

// NewBuilder returns a builder whose fallback vector is the named canonical
// state.
func NewBuilder(gen *rhythm.Generator, defaultState string) (*Builder, error) {
	st, err := morphospace.States.Get(defaultState)
	if err != nil {
		return nil, err
	}
	return &Builder{gen: gen, defaultState: st}, nil
}

// CompositeRequest selects the vector for a composite prompt. Vector wins
// over Preset, and the default state is used when neither is set.
type CompositeRequest struct {
	Vector      *morphospace.Vector
	Preset      string
	StylePrefix string
}

// Composite is one rendered prompt with the lookup that produced it.
type Composite struct {
	Prompt     string             `json:"prompt"`
	SourceKind string             `json:"source_kind"`
	Source     string             `json:"source"`
	Vector     morphospace.Vector `json:"parameters"`
	Archetype  string             `json:"archetype"`
	Distance   float64            `json:"distance"`
	Keywords   []string           `json:"keywords"`
	Colors     []string           `json:"colors"`
}

// Composite renders a single prompt.
func (b *Builder) Composite(req CompositeRequest) (Composite, error) {
	var (
		v          morphospace.Vector
		kind, name string
	)
	switch {
	case req.Vector != nil:
		v, kind, name = *req.Vector, SourceVector, SourceVector
	case req.Preset != "":
		p, err := rhythm.Presets.Get(req.Preset)
		if err != nil {
			return Composite{}, err
		}
		a, err := morphospace.States.Get(p.StateA)
		if err != nil {
			return Composite{}, err
		}
		bs, err := morphospace.States.Get(p.StateB)
		if err != nil {
			return Composite{}, err
		}
		v, kind, name = morphospace.Interpolate(a.Vector, bs.Vector, 0.5), SourcePreset, p.Name
	default:
		v, kind, name = b.defaultState.Vector, SourceDefaultState, b.defaultState.Name
	}

	m := morphospace.Nearest(v)
	return Composite{
		Prompt:     Assemble(req.StylePrefix, m.Archetype),
		SourceKind: kind,
		Source:     name,
		Vector:     v,
		Archetype:  m.Archetype.Name,
		Distance:   m.Distance,
		Keywords:   append([]string(nil), m.Archetype.Keywords...),
		Colors:     leadingColors(m.Archetype),
	}, nil
}

// Assemble joins an optional style prefix, the archetype keywords and its
// first two colors with ", ".
func Assemble(stylePrefix string, a morphospace.Archetype) string {
	parts := make([]string, 0, len(a.Keywords)+colorsPerPrompt+1)
	if s := strings.TrimSpace(stylePrefix); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, a.Keywords...)
	parts = append(parts, leadingColors(a)...)
	return strings.Join(parts, ", ")
}

func leadingColors(a morphospace.Archetype) []string {
	n := min(colorsPerPrompt, len(a.ColorAssociations))
	return append([]string(nil), a.ColorAssociations[:n]...)
}

// SequenceRequest asks for keyframe prompts along a preset.
type SequenceRequest struct {
	Preset      string
	Keyframes   int
	StylePrefix string
	PhaseOffset float64
}

// Keyframe is one sampled point of a sequence with its prompt.
type Keyframe struct {
	Step        int                `json:"step"`
	BlendFactor float64            `json:"blend_factor"`
	Vector      morphospace.Vector `json:"parameters"`
	Archetype   string             `json:"archetype"`
	Distance    float64            `json:"distance"`
	Prompt      string             `json:"prompt"`
}

// Sequence is the keyframe prompt list for a preset.
type Sequence struct {
	Preset      string     `json:"preset"`
	Waveform    string     `json:"waveform"`
	PhaseOffset float64    `json:"phase_offset"`
	TotalSteps  int        `json:"total_steps"`
	Keyframes   []Keyframe `json:"keyframes"`
}

// Sequence runs the preset and renders a prompt at each sampled keyframe.
func (b *Builder) Sequence(req SequenceRequest) (Sequence, error) {
	if req.Keyframes < 1 {
		return Sequence{}, types.MalformedInput("Keyframes must be at least 1, got %d", req.Keyframes)
	}
	seq, err := b.gen.ApplyPreset(req.Preset, req.PhaseOffset)
	if err != nil {
		return Sequence{}, err
	}

	idx := KeyframeIndices(len(seq.Steps), req.Keyframes)
	frames := make([]Keyframe, 0, len(idx))
	for _, i := range idx {
		st := seq.Steps[i]
		m := morphospace.Nearest(st.Vector)
		frames = append(frames, Keyframe{
			Step:        st.Step,
			BlendFactor: st.BlendFactor,
			Vector:      st.Vector,
			Archetype:   m.Archetype.Name,
			Distance:    m.Distance,
			Prompt:      Assemble(req.StylePrefix, m.Archetype),
		})
	}
	return Sequence{
		Preset:      req.Preset,
		Waveform:    string(seq.Waveform),
		PhaseOffset: req.PhaseOffset,
		TotalSteps:  seq.TotalSteps,
		Keyframes:   frames,
	}, nil
}

// KeyframeIndices picks k evenly spaced indices in [0, n). The first and
// last index are always included for k >= 2. k is capped at n and repeated
// indices are dropped.
func KeyframeIndices(n, k int) []int {
	if n < 1 || k < 1 {
		return nil
	}
	k = min(k, n)
	if k == 1 {
		return []int{0}
	}
	out := make([]int, 0, k)
	for j := 0; j < k; j++ {
		i := int(math.Round(float64(j) * float64(n-1) / float64(k-1)))
		if len(out) > 0 && out[len(out)-1] == i {
			continue
		}
		out = append(out, i)
	}
	return out
}
