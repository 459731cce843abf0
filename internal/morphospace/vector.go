// Package morphospace models the 5-dimensional appearance space of reflective
// surfaces: parameter vectors, the canonical states used as interpolation
// anchors and the visual archetypes used for vocabulary lookup.
package morphospace

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/xiy/reflective-mcp/pkg/types"
)

// DefaultDimension is used for any dimension missing from decoded input.
const DefaultDimension = 0.5

// Dimensions lists the vector dimensions in their canonical order.
var Dimensions = []string{"clarity", "roughness", "metallic", "distortion", "drama"}

// Vector is a point in the normalized appearance space.
type Vector struct {
	Clarity    float64 `json:"clarity"`
	Roughness  float64 `json:"roughness"`
	Metallic   float64 `json:"metallic"`
	Distortion float64 `json:"distortion"`
	Drama      float64 `json:"drama"`
}

// Midpoint returns the vector with every dimension at DefaultDimension.
func Midpoint() Vector {
	return FromValues([5]float64{DefaultDimension, DefaultDimension, DefaultDimension, DefaultDimension, DefaultDimension})
}

// Values returns the dimensions in the order of Dimensions.
func (v Vector) Values() [5]float64 {
	return [5]float64{v.Clarity, v.Roughness, v.Metallic, v.Distortion, v.Drama}
}

// FromValues builds a vector from values ordered as Dimensions.
func FromValues(d [5]float64) Vector {
	return Vector{Clarity: d[0], Roughness: d[1], Metallic: d[2], Distortion: d[3], Drama: d[4]}
}

// Interpolate blends a toward b by alpha, per dimension. Alpha is not clamped.
func Interpolate(a, b Vector, alpha float64) Vector {
	av, bv := a.Values(), b.Values()
	var out [5]float64
	for i := range av {
		out[i] = av[i]*(1-alpha) + bv[i]*alpha
	}
	return FromValues(out)
}

// Distance is the Euclidean distance between two vectors.
func Distance(a, b Vector) float64 {
	av, bv := a.Values(), b.Values()
	var sum float64
	for i := range av {
		d := av[i] - bv[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// DecodeVector parses named numeric dimensions. The payload may be a JSON
// object or a string holding one. Missing dimensions default to 0.5 and
// unknown keys are ignored.
func DecodeVector(raw json.RawMessage) (Vector, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Vector{}, types.MalformedInput("Invalid parameter payload: %v", err)
		}
		raw = bytes.TrimSpace([]byte(s))
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Vector{}, types.MalformedInput("Parameters must be an object of named numeric dimensions")
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Vector{}, types.MalformedInput("Invalid JSON format for parameters: %v", err)
	}

	out := Midpoint().Values()
	for i, dim := range Dimensions {
		val, ok := fields[dim]
		if !ok || val == nil {
			continue
		}
		f, ok := val.(float64)
		if !ok {
			return Vector{}, types.MalformedInput("Parameter %q must be numeric", dim)
		}
		out[i] = f
	}
	return FromValues(out), nil
}
