package optics

import (
	"strings"

	"github.com/xiy/reflective-mcp/internal/morphospace"
	"github.com/xiy/reflective-mcp/internal/taxonomy"
)

// Detected lists matched identifiers per table, in table order.
type Detected struct {
	Materials       []string `json:"materials"`
	ReflectionTypes []string `json:"reflection_types"`
	Geometries      []string `json:"geometries"`
	Phenomena       []string `json:"phenomena"`
	Environments    []string `json:"environments"`
	Archetypes      []string `json:"archetypes"`
}

func (d Detected) any() bool {
	return len(d.Materials)+len(d.ReflectionTypes)+len(d.Geometries)+
		len(d.Phenomena)+len(d.Environments)+len(d.Archetypes) > 0
}

// KeywordReport is the result of scanning a prompt.
type KeywordReport struct {
	Detected             Detected `json:"detected"`
	Suggestions          []string `json:"suggestions"`
	HasReflectionContent bool     `json:"has_reflection_content"`
}

// DetectKeywords scans prompt for table ids (underscores read as spaces),
// display names and keywords. Matching is case-insensitive substring search.
func DetectKeywords(prompt string) KeywordReport {
	text := strings.ToLower(prompt)

	d := Detected{
		Materials: scan(text, taxonomy.Materials.All(), func(m taxonomy.Material) (string, []string) {
			return m.ID, append([]string{m.Name}, m.Keywords...)
		}),
		ReflectionTypes: scan(text, taxonomy.ReflectionTypes.All(), func(r taxonomy.ReflectionType) (string, []string) {
			return r.ID, append([]string{r.Name}, r.Keywords...)
		}),
		Geometries: scan(text, taxonomy.Geometries.All(), func(g taxonomy.Geometry) (string, []string) {
			return g.ID, append([]string{g.Name}, g.Keywords...)
		}),
		Phenomena: scan(text, taxonomy.Phenomena.All(), func(p taxonomy.Phenomenon) (string, []string) {
			return p.ID, append([]string{p.Name}, p.Keywords...)
		}),
		Environments: scan(text, taxonomy.Environments.All(), func(e taxonomy.Environment) (string, []string) {
			return e.ID, append([]string{e.Name}, e.Keywords...)
		}),
		Archetypes: scan(text, morphospace.Archetypes.All(), func(a morphospace.Archetype) (string, []string) {
			return a.Name, a.Keywords
		}),
	}

	return KeywordReport{
		Detected:             d,
		Suggestions:          suggestions(text, d),
		HasReflectionContent: d.any(),
	}
}

func scan[T any](text string, items []T, terms func(T) (string, []string)) []string {
	out := []string{}
	for _, item := range items {
		id, extra := terms(item)
		if strings.Contains(text, strings.ReplaceAll(id, "_", " ")) {
			out = append(out, id)
			continue
		}
		for _, term := range extra {
			if term != "" && strings.Contains(text, strings.ToLower(term)) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

func suggestions(text string, d Detected) []string {
	out := []string{}
	if len(d.Materials) == 0 {
		switch {
		case strings.Contains(text, "mirror"), strings.Contains(text, "reflection"):
			out = append(out, "Consider: mirror_glass or polished_chrome")
		case strings.Contains(text, "water"):
			out = append(out, "Consider: still_water or rippled_water")
		case strings.Contains(text, "metal"):
			out = append(out, "Consider: polished_chrome, copper, or gold")
		}
	}
	if len(d.Geometries) == 0 {
		out = append(out, "Consider specifying geometry: flat, convex, concave, compound, or faceted")
	}
	if len(d.Environments) == 0 {
		out = append(out, "Consider lighting context: bright_daylight, golden_hour, or night_urban")
	}
	return out
}
