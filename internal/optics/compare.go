package optics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/xiy/reflective-mcp/pkg/types"
)

const (
	visibilityContrastDelta = 0.4
	distortionContrastDelta = 0.3
)

// ScenarioSpec is one entry of a comparison request. Missing fields take
// the defaults mirror_glass, flat, bright_daylight and 45 degrees.
type ScenarioSpec struct {
	Label        string   `json:"label"`
	MaterialID   string   `json:"material_id"`
	Geometry     string   `json:"geometry"`
	Environment  string   `json:"environment"`
	ViewingAngle *float64 `json:"viewing_angle"`
}

// Scenario resolves defaults.
func (s ScenarioSpec) Scenario() Scenario {
	out := Scenario{
		MaterialID:   s.MaterialID,
		Geometry:     s.Geometry,
		Environment:  s.Environment,
		ViewingAngle: DefaultViewingAngle,
	}
	if out.MaterialID == "" {
		out.MaterialID = DefaultMaterial
	}
	if out.Geometry == "" {
		out.Geometry = DefaultGeometry
	}
	if out.Environment == "" {
		out.Environment = DefaultEnvironment
	}
	if s.ViewingAngle != nil {
		out.ViewingAngle = *s.ViewingAngle
	}
	return out
}

// Span is the min, max and spread of a score across scenarios.
type Span struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Delta float64 `json:"delta"`
}

// NewSpan summarises a non-empty list of values.
func NewSpan(values []float64) Span {
	lo, hi := slices.Min(values), slices.Max(values)
	return Span{Min: Round3(lo), Max: Round3(hi), Delta: Round3(hi - lo)}
}

// ScenarioSummary is the per-scenario row of a comparison.
type ScenarioSummary struct {
	Label      string  `json:"label"`
	Visibility float64 `json:"visibility"`
	Distortion float64 `json:"distortion"`
	Prominence string  `json:"prominence"`
	Role       string  `json:"role"`
}

// Insights are the cross-scenario observations.
type Insights struct {
	VisibilityRange    []float64 `json:"visibility_range"`
	DistortionRange    []float64 `json:"distortion_range"`
	ContrastRange      []float64 `json:"contrast_range"`
	AestheticTradeOffs []string  `json:"aesthetic_trade_offs"`
	VisibilitySpan     Span      `json:"visibility_span"`
	DistortionSpan     Span      `json:"distortion_span"`
}

// Comparison is the result of comparing two or more scenarios.
type Comparison struct {
	Scenarios []ScenarioSummary `json:"scenarios"`
	Insights  Insights          `json:"comparative_insights"`
}

// DecodeScenarios parses a JSON array of scenarios, or a JSON string holding
// one.
func DecodeScenarios(raw json.RawMessage) ([]ScenarioSpec, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, types.MalformedInput("Invalid JSON format for scenarios")
		}
		raw = bytes.TrimSpace([]byte(s))
	}
	if len(raw) == 0 || raw[0] != '[' {
		return nil, types.MalformedInput("Invalid JSON format for scenarios")
	}
	var specs []ScenarioSpec
	if err := json.Unmarshal(raw, &specs); err != nil {
		return nil, types.MalformedInput("Invalid JSON format for scenarios")
	}
	return specs, nil
}

// Compare analyses every scenario and reports their spread.
func Compare(specs []ScenarioSpec) (Comparison, error) {
	if len(specs) < 2 {
		return Comparison{}, &types.ToolError{
			Kind:    types.KindInvalidArity,
			Message: fmt.Sprintf("Provide at least 2 scenarios as JSON array, got %d", len(specs)),
		}
	}

	out := Comparison{
		Scenarios: make([]ScenarioSummary, 0, len(specs)),
		Insights: Insights{
			VisibilityRange:    make([]float64, 0, len(specs)),
			DistortionRange:    make([]float64, 0, len(specs)),
			ContrastRange:      make([]float64, 0, len(specs)),
			AestheticTradeOffs: []string{},
		},
	}
	for i, spec := range specs {
		label := spec.Label
		if label == "" {
			label = "Unlabeled"
		}
		a, err := Analyze(spec.Scenario())
		if err != nil {
			return Comparison{}, scenarioError(i, label, err)
		}
		p := a.ReflectionParameters
		g := a.CompositionGuidance
		out.Scenarios = append(out.Scenarios, ScenarioSummary{
			Label:      label,
			Visibility: p.EffectiveVisibility,
			Distortion: p.DistortionIndex,
			Prominence: g.Prominence,
			Role:       g.CompositionalRole,
		})
		out.Insights.VisibilityRange = append(out.Insights.VisibilityRange, p.EffectiveVisibility)
		out.Insights.DistortionRange = append(out.Insights.DistortionRange, p.DistortionIndex)
		out.Insights.ContrastRange = append(out.Insights.ContrastRange, g.ContrastRatio)
	}

	out.Insights.VisibilitySpan = NewSpan(out.Insights.VisibilityRange)
	out.Insights.DistortionSpan = NewSpan(out.Insights.DistortionRange)
	out.Insights.AestheticTradeOffs = tradeOffs(out.Insights.VisibilitySpan, out.Insights.DistortionSpan)
	return out, nil
}

func tradeOffs(vis, dist Span) []string {
	notes := []string{}
	if vis.Delta > visibilityContrastDelta {
		notes = append(notes, "Significant visibility variation - creates strong compositional contrast")
	}
	if dist.Delta > distortionContrastDelta {
		notes = append(notes, "High distortion variation - geometric effects will be prominent differentiator")
	}
	return notes
}

func scenarioError(index int, label string, err error) error {
	te, ok := err.(*types.ToolError)
	if !ok {
		return fmt.Errorf("scenario %d (%s): %w", index, label, err)
	}
	cp := *te
	cp.Message = fmt.Sprintf("Scenario %d (%s): %s", index, label, te.Message)
	return &cp
}
