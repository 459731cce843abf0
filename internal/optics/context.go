package optics

import (
	"math"
	"slices"

	"github.com/xiy/reflective-mcp/internal/taxonomy"
)

// DefaultViewingAngle is used when a scenario omits the viewing angle.
const DefaultViewingAngle = 45.0

// Scenario is one material/geometry/lighting/angle combination.
type Scenario struct {
	MaterialID   string  `json:"material"`
	Geometry     string  `json:"geometry"`
	Environment  string  `json:"environment"`
	ViewingAngle float64 `json:"viewing_angle"`
}

// ReflectionParameters are the derived reflection scores.
type ReflectionParameters struct {
	EffectiveVisibility float64 `json:"effective_visibility"`
	DistortionIndex     float64 `json:"distortion_index"`
	Clarity             float64 `json:"clarity"`
	FresnelContribution float64 `json:"fresnel_contribution"`
}

// Guidance is the compositional reading of a visibility score.
type Guidance struct {
	Prominence        string  `json:"prominence"`
	CompositionalRole string  `json:"compositional_role"`
	ContrastRatio     float64 `json:"contrast_ratio"`
	LightIntensity    float64 `json:"light_intensity"`
}

// MaterialOptics is the material subset relevant to image prompts.
type MaterialOptics struct {
	ReflectionCoefficient float64 `json:"reflection_coefficient"`
	Roughness             float64 `json:"roughness"`
	Metallic              float64 `json:"metallic"`
	IOR                   float64 `json:"ior"`
	ColorTint             *string `json:"color_tint"`
}

// Lighting is the environment subset relevant to image prompts.
type Lighting struct {
	ColorTemperature int     `json:"color_temperature"`
	Intensity        float64 `json:"intensity"`
}

// Vocabulary collects the keywords and parameters for prompt writing.
type Vocabulary struct {
	Keywords          []string       `json:"keywords"`
	OpticalProperties MaterialOptics `json:"optical_properties"`
	LightingGuidance  Lighting       `json:"lighting_guidance"`
}

// Analysis is the full evaluation of a scenario.
type Analysis struct {
	Scenario             Scenario             `json:"scenario"`
	ReflectionParameters ReflectionParameters `json:"reflection_parameters"`
	CompositionGuidance  Guidance             `json:"composition_guidance"`
	Vocabulary           Vocabulary           `json:"image_generation_vocabulary"`
}

var visibilityBands = []band{
	{0.7, "dominant", "primary visual feature"},
	{0.4, "prominent", "significant compositional element"},
	{0.2, "subtle", "accent detail"},
	{math.Inf(-1), "minimal", "trace effect"},
}

// Analyze evaluates a scenario. Identifiers are checked in the order
// material, geometry, environment and the first unknown one is reported.
func Analyze(s Scenario) (Analysis, error) {
	m, err := taxonomy.Materials.Get(s.MaterialID)
	if err != nil {
		return Analysis{}, err
	}
	g, err := taxonomy.Geometries.Get(s.Geometry)
	if err != nil {
		return Analysis{}, err
	}
	env, err := taxonomy.Environments.Get(s.Environment)
	if err != nil {
		return Analysis{}, err
	}
	rt, err := taxonomy.ReflectionTypes.Get(m.ReflectionType)
	if err != nil {
		return Analysis{}, err
	}
	fr, err := Fresnel(s.ViewingAngle, m.ID)
	if err != nil {
		return Analysis{}, err
	}

	geomClarity := 1 - g.ReflectionDistortion
	// Visibility scales the reported (3-decimal) Fresnel intensity.
	visibility := m.ReflectionCoefficient * fr.FresnelIntensity * env.ReflectionVisibility * geomClarity
	distortion := m.Roughness*0.5 + g.ReflectionDistortion*0.5
	b := classify(visibility, visibilityBands)

	return Analysis{
		Scenario: s,
		ReflectionParameters: ReflectionParameters{
			EffectiveVisibility: Round3(visibility),
			DistortionIndex:     Round3(distortion),
			Clarity:             Round3(rt.Clarity * geomClarity),
			FresnelContribution: fr.FresnelIntensity,
		},
		CompositionGuidance: Guidance{
			Prominence:        b.label,
			CompositionalRole: b.text,
			ContrastRatio:     env.ContrastRatio,
			LightIntensity:    env.LightIntensity,
		},
		Vocabulary: Vocabulary{
			Keywords: slices.Concat(m.Keywords, rt.Keywords, g.Keywords, env.Keywords),
			OpticalProperties: MaterialOptics{
				ReflectionCoefficient: m.ReflectionCoefficient,
				Roughness:             m.Roughness,
				Metallic:              m.Metallic,
				IOR:                   m.IOR,
				ColorTint:             m.ColorTint,
			},
			LightingGuidance: Lighting{
				ColorTemperature: env.ColorTemperature,
				Intensity:        env.LightIntensity,
			},
		},
	}, nil
}
