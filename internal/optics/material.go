package optics

import (
	"slices"

	"github.com/xiy/reflective-mcp/internal/taxonomy"
)

// MaterialGuidance condenses a material for prompt composition.
type MaterialGuidance struct {
	ReflectionStrength float64  `json:"reflection_strength"`
	SurfaceClarity     float64  `json:"surface_clarity"`
	DistortionLevel    float64  `json:"distortion_level"`
	Keywords           []string `json:"keywords"`
}

// MaterialReport is a material joined with its reflection type.
type MaterialReport struct {
	Material            taxonomy.Material       `json:"material"`
	ReflectionBehavior  taxonomy.ReflectionType `json:"reflection_behavior"`
	CompositionGuidance MaterialGuidance        `json:"composition_guidance"`
}

// MaterialProperties looks up a material and its reflection behaviour.
func MaterialProperties(id string) (MaterialReport, error) {
	m, err := taxonomy.Materials.Get(id)
	if err != nil {
		return MaterialReport{}, err
	}
	rt, err := taxonomy.ReflectionTypes.Get(m.ReflectionType)
	if err != nil {
		return MaterialReport{}, err
	}
	return MaterialReport{
		Material:           m,
		ReflectionBehavior: rt,
		CompositionGuidance: MaterialGuidance{
			ReflectionStrength: m.ReflectionCoefficient,
			SurfaceClarity:     rt.Clarity,
			DistortionLevel:    rt.Distortion,
			Keywords:           slices.Concat(m.Keywords, rt.Keywords),
		},
	}, nil
}
