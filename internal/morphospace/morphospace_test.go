package morphospace

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xiy/reflective-mcp/internal/taxonomy"
	"github.com/xiy/reflective-mcp/pkg/types"
)

func TestInterpolate_Endpoints(t *testing.T) {
	t.Parallel()
	for _, a := range States.All() {
		for _, b := range States.All() {
			if got := Interpolate(a.Vector, b.Vector, 0); got != a.Vector {
				t.Fatalf("Interpolate(%s, %s, 0) = %+v, want %+v", a.Name, b.Name, got, a.Vector)
			}
			if got := Interpolate(a.Vector, b.Vector, 1); got != b.Vector {
				t.Fatalf("Interpolate(%s, %s, 1) = %+v, want %+v", a.Name, b.Name, got, b.Vector)
			}
		}
	}
}

func TestInterpolate_StaysBetweenEndpoints(t *testing.T) {
	t.Parallel()
	const eps = 1e-12
	for _, a := range States.All() {
		for _, b := range States.All() {
			for _, alpha := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
				got := Interpolate(a.Vector, b.Vector, alpha).Values()
				av, bv := a.Vector.Values(), b.Vector.Values()
				for i := range got {
					lo, hi := math.Min(av[i], bv[i]), math.Max(av[i], bv[i])
					if got[i] < lo-eps || got[i] > hi+eps {
						t.Fatalf("%s->%s alpha=%v dim %s = %v outside [%v, %v]", a.Name, b.Name, alpha, Dimensions[i], got[i], lo, hi)
					}
				}
			}
		}
	}
}

func TestInterpolate_MirrorToFrostedMidpoint(t *testing.T) {
	t.Parallel()
	a, err := States.Get("mirror_still")
	if err != nil {
		t.Fatalf("Get(mirror_still) error = %v", err)
	}
	b, err := States.Get("frosted_pane")
	if err != nil {
		t.Fatalf("Get(frosted_pane) error = %v", err)
	}
	got := Interpolate(a.Vector, b.Vector, 0.5)
	if math.Abs(got.Clarity-0.525) > 1e-9 {
		t.Fatalf("expected clarity 0.525, got %v", got.Clarity)
	}
}

func TestNearest_ArchetypeMapsToItself(t *testing.T) {
	t.Parallel()
	for _, a := range Archetypes.All() {
		m := Nearest(a.Vector)
		if m.Archetype.Name != a.Name {
			t.Fatalf("Nearest(%s) = %s", a.Name, m.Archetype.Name)
		}
		if m.Distance != 0 {
			t.Fatalf("Nearest(%s) distance = %v, want 0", a.Name, m.Distance)
		}
	}
}

func TestNearest_FirstDeclaredWinsTies(t *testing.T) {
	t.Parallel()
	first := Archetype{Name: "first", Vector: Vector{Clarity: 0.25}}
	second := Archetype{Name: "second", Vector: Vector{Clarity: 0.75}}
	m := nearestOf(Vector{Clarity: 0.5}, []Archetype{first, second})
	if m.Archetype.Name != "first" {
		t.Fatalf("expected tie to resolve to first, got %s", m.Archetype.Name)
	}
	m = nearestOf(Vector{Clarity: 0.5}, []Archetype{second, first})
	if m.Archetype.Name != "second" {
		t.Fatalf("expected tie to resolve to second, got %s", m.Archetype.Name)
	}
}

func TestDecodeVector_DefaultsMissingDimensions(t *testing.T) {
	t.Parallel()
	got, err := DecodeVector(json.RawMessage(`{"clarity": 0.9, "metallic": 1, "sparkle": 3}`))
	if err != nil {
		t.Fatalf("DecodeVector() error = %v", err)
	}
	want := Vector{Clarity: 0.9, Roughness: 0.5, Metallic: 1, Distortion: 0.5, Drama: 0.5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("vector mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeVector_EmptyObjectIsMidpoint(t *testing.T) {
	t.Parallel()
	got, err := DecodeVector(json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("DecodeVector() error = %v", err)
	}
	if diff := cmp.Diff(Midpoint(), got); diff != "" {
		t.Fatalf("vector mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeVector_AcceptsQuotedObject(t *testing.T) {
	t.Parallel()
	got, err := DecodeVector(json.RawMessage(`"{\"drama\": 0.1}"`))
	if err != nil {
		t.Fatalf("DecodeVector() error = %v", err)
	}
	if got.Drama != 0.1 || got.Clarity != DefaultDimension {
		t.Fatalf("unexpected vector %+v", got)
	}
}

func TestDecodeVector_Malformed(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"not json":     `{clarity: high}`,
		"non numeric":  `{"clarity": "high"}`,
		"array":        `[0.1, 0.2]`,
		"null payload": `null`,
		"empty":        ``,
	}
	for name, raw := range cases {
		_, err := DecodeVector(json.RawMessage(raw))
		var te *types.ToolError
		if !errors.As(err, &te) || te.Kind != types.KindMalformedInput {
			t.Errorf("%s: expected malformed input error, got %v", name, err)
		}
	}
}

func TestStates_ReferenceKnownTaxonomy(t *testing.T) {
	t.Parallel()
	for _, s := range States.All() {
		if !taxonomy.Materials.Has(s.Material) {
			t.Errorf("state %s references unknown material %q", s.Name, s.Material)
		}
		if !taxonomy.Geometries.Has(s.Geometry) {
			t.Errorf("state %s references unknown geometry %q", s.Name, s.Geometry)
		}
	}
	if !States.Has(DefaultState) {
		t.Fatalf("default state %q missing", DefaultState)
	}
}

func TestArchetypes_SixDistinctVectorsInRange(t *testing.T) {
	t.Parallel()
	all := Archetypes.All()
	if len(all) != 6 {
		t.Fatalf("expected 6 archetypes, got %d", len(all))
	}
	seen := map[Vector]string{}
	for _, a := range all {
		if prev, ok := seen[a.Vector]; ok {
			t.Fatalf("archetypes %s and %s share a vector", prev, a.Name)
		}
		seen[a.Vector] = a.Name
		for i, v := range a.Vector.Values() {
			if v < 0 || v > 1 {
				t.Errorf("archetype %s dim %s = %v outside [0,1]", a.Name, Dimensions[i], v)
			}
		}
		if len(a.ColorAssociations) < 2 {
			t.Errorf("archetype %s needs at least two colors", a.Name)
		}
	}
}
