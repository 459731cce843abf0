// Package optics implements the deterministic reflection utilities: Schlick
// Fresnel reflectance, effective visibility of a lit scenario, scenario
// comparison, keyword detection and prompt enhancement vocabulary.
package optics

import (
	"math"

	"github.com/xiy/reflective-mcp/internal/taxonomy"
	"github.com/xiy/reflective-mcp/pkg/types"
)

// DefaultMaterial is used when a Fresnel request omits the material.
const DefaultMaterial = "mirror_glass"

// FresnelParameters echoes the intermediate optical values.
type FresnelParameters struct {
	F0BaseReflectance float64 `json:"f0_base_reflectance"`
	CosTheta          float64 `json:"cos_theta"`
	IOR               float64 `json:"ior"`
}

// FresnelResult is a Fresnel reflectance with its composition guidance.
type FresnelResult struct {
	ViewingAngle        float64           `json:"viewing_angle"`
	Material            string            `json:"material"`
	FresnelIntensity    float64           `json:"fresnel_intensity"`
	Prominence          string            `json:"prominence"`
	CompositionGuidance string            `json:"composition_guidance"`
	OpticalParameters   FresnelParameters `json:"optical_parameters"`

	// Intensity is the unrounded reflectance.
	Intensity float64 `json:"-"`
}

type band struct {
	above float64
	label string
	text  string
}

var fresnelBands = []band{
	{0.8, "dominant", "Strong reflection, nearly mirror-like. Use as primary visual element."},
	{0.5, "prominent", "Visible reflection blending with surface. Balance reflection and material properties."},
	{0.2, "subtle", "Gentle reflection accent. Emphasize surface material over reflection."},
	{math.Inf(-1), "minimal", "Very weak reflection. Focus on material properties and transmitted/scattered light."},
}

func classify(v float64, bands []band) band {
	for _, b := range bands {
		if v > b.above {
			return b
		}
	}
	return bands[len(bands)-1]
}

// F0 is the reflectance at normal incidence for a refractive index.
func F0(ior float64) float64 {
	r := (ior - 1) / (ior + 1)
	return r * r
}

// Schlick approximates Fresnel reflectance at angleDegrees from the normal.
func Schlick(f0, angleDegrees float64) float64 {
	cos := math.Cos(angleDegrees * math.Pi / 180)
	return f0 + (1-f0)*math.Pow(1-cos, 5)
}

// Fresnel computes the reflectance of a material at the given viewing angle.
// An empty material id selects DefaultMaterial.
func Fresnel(angleDegrees float64, materialID string) (FresnelResult, error) {
	if math.IsNaN(angleDegrees) || math.IsInf(angleDegrees, 0) {
		return FresnelResult{}, types.MalformedInput("Viewing angle must be a finite number of degrees")
	}
	if materialID == "" {
		materialID = DefaultMaterial
	}
	m, err := taxonomy.Materials.Get(materialID)
	if err != nil {
		return FresnelResult{}, err
	}
	f0 := F0(m.IOR)
	intensity := Schlick(f0, angleDegrees)
	b := classify(intensity, fresnelBands)
	return FresnelResult{
		ViewingAngle:        angleDegrees,
		Material:            m.ID,
		FresnelIntensity:    Round3(intensity),
		Prominence:          b.label,
		CompositionGuidance: b.text,
		OpticalParameters: FresnelParameters{
			F0BaseReflectance: Round3(f0),
			CosTheta:          Round3(math.Cos(angleDegrees * math.Pi / 180)),
			IOR:               m.IOR,
		},
		Intensity: intensity,
	}, nil
}

// Round3 rounds to three decimals, the precision of every reported score.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
