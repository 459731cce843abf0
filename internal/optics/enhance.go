package optics

import (
	"fmt"
	"math"
	"strings"

	"github.com/xiy/reflective-mcp/pkg/types"
)

const (
	DefaultGeometry    = "flat"
	DefaultEnvironment = "bright_daylight"
	DefaultProminence  = 0.7
)

// EnhanceRequest asks for reflection vocabulary to weave into a base prompt.
type EnhanceRequest struct {
	BasePrompt    string
	Scenario      Scenario
	Prominence    float64
	StyleModifier string
}

// Enhancement is the prompt enhancement payload.
type Enhancement struct {
	BasePrompt string `json:"base_prompt"`
	Reflection struct {
		Primary             []string `json:"primary_descriptors"`
		Secondary           []string `json:"secondary_descriptors"`
		EffectiveVisibility float64  `json:"effective_visibility"`
		Prominence          string   `json:"prominence"`
	} `json:"reflection_enhancement"`
	Technical struct {
		Material          string         `json:"material"`
		Geometry          string         `json:"geometry"`
		OpticalProperties MaterialOptics `json:"optical_properties"`
		Lighting          Lighting       `json:"lighting"`
		ViewingAngle      float64        `json:"viewing_angle"`
	} `json:"technical_parameters"`
	Structure struct {
		Order              []string `json:"order"`
		ExampleIntegration string   `json:"example_integration"`
	} `json:"suggested_prompt_structure"`
	StyleModifier string `json:"style_modifier"`
}

var promptOrder = []string{
	"1. Base scene description",
	"2. Surface material specification",
	"3. Reflection characteristics",
	"4. Lighting and environment",
	"5. Viewing angle/perspective",
	"6. Style modifier (if any)",
}

// Enhance analyses the scenario and splits its vocabulary into primary and
// secondary descriptors, weighting visibility by the requested prominence.
func Enhance(req EnhanceRequest) (Enhancement, error) {
	if math.IsNaN(req.Prominence) || req.Prominence < 0 || req.Prominence > 1 {
		return Enhancement{}, types.MalformedInput("Reflection prominence must be between 0 and 1, got %v", req.Prominence)
	}
	a, err := Analyze(req.Scenario)
	if err != nil {
		return Enhancement{}, err
	}
	kw := a.Vocabulary.Keywords

	var out Enhancement
	out.BasePrompt = req.BasePrompt
	out.Reflection.Primary = window(kw, 0, 4)
	out.Reflection.Secondary = window(kw, 4, 8)
	out.Reflection.EffectiveVisibility = Round3(a.ReflectionParameters.EffectiveVisibility * req.Prominence)
	out.Reflection.Prominence = a.CompositionGuidance.Prominence
	out.Technical.Material = a.Scenario.MaterialID
	out.Technical.Geometry = a.Scenario.Geometry
	out.Technical.OpticalProperties = a.Vocabulary.OpticalProperties
	out.Technical.Lighting = a.Vocabulary.LightingGuidance
	out.Technical.ViewingAngle = a.Scenario.ViewingAngle
	out.Structure.Order = append([]string(nil), promptOrder...)
	out.Structure.ExampleIntegration = exampleIntegration(req.BasePrompt, a, out.Reflection.Primary)
	out.StyleModifier = req.StyleModifier
	return out, nil
}

func exampleIntegration(base string, a Analysis, primary []string) string {
	material := strings.ReplaceAll(a.Scenario.MaterialID, "_", " ")
	env := strings.ReplaceAll(a.Scenario.Environment, "_", " ")
	if len(primary) == 0 {
		return fmt.Sprintf("%s, %s surface, %s lighting", base, material, env)
	}
	return fmt.Sprintf("%s, %s surface with %s, %s lighting", base, material, primary[0], env)
}

func window(s []string, from, to int) []string {
	from = min(from, len(s))
	to = min(to, len(s))
	return append([]string{}, s[from:to]...)
}
