// Package report renders the reference tables and rhythmic sequences for the
// terminal, either as fixed-width tables or as Markdown.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/xiy/reflective-mcp/internal/morphospace"
	"github.com/xiy/reflective-mcp/internal/rhythm"
	"github.com/xiy/reflective-mcp/internal/taxonomy"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// ParseMode maps a --format flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table", "ascii":
		return ASCII, nil
	case "markdown", "md":
		return Markdown, nil
	default:
		return ASCII, fmt.Errorf("unknown format %q (expected table or markdown)", s)
	}
}

func newWriter(title string) table.Writer {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.SetTitle(title)
	return w
}

func render(out io.Writer, w table.Writer, m Mode) error {
	var s string
	if m == Markdown {
		s = w.RenderMarkdown()
	} else {
		s = w.Render()
	}
	_, err := fmt.Fprintln(out, s+"\n")
	return err
}

func rightAligned(cols ...int) []table.ColumnConfig {
	cfgs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		cfgs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	return cfgs
}

// Taxonomy writes one table per reference table.
func Taxonomy(out io.Writer, snap taxonomy.Snapshot, m Mode) error {
	rt := newWriter("Reflection types")
	rt.AppendHeader(table.Row{"id", "name", "coefficient", "clarity", "distortion", "materials"})
	for _, r := range snap.ReflectionTypes {
		rt.AppendRow(table.Row{r.ID, r.Name, r.ReflectionCoefficient, r.Clarity, r.Distortion, strings.Join(r.Materials, ", ")})
	}
	rt.SetColumnConfigs(rightAligned(3, 4, 5))

	mat := newWriter("Surface materials")
	mat.AppendHeader(table.Row{"id", "name", "type", "coefficient", "roughness", "ior", "metallic", "tint"})
	for _, x := range snap.Materials {
		tint := "-"
		if x.ColorTint != nil {
			tint = *x.ColorTint
		}
		mat.AppendRow(table.Row{x.ID, x.Name, x.ReflectionType, x.ReflectionCoefficient, x.Roughness, x.IOR, x.Metallic, tint})
	}
	mat.SetColumnConfigs(rightAligned(4, 5, 6, 7))

	ph := newWriter("Optical phenomena")
	ph.AppendHeader(table.Row{"id", "name", "materials"})
	for _, p := range snap.Phenomena {
		ph.AppendRow(table.Row{p.ID, p.Name, strings.Join(p.ApplicableMaterials, ", ")})
	}

	geo := newWriter("Geometry factors")
	geo.AppendHeader(table.Row{"id", "name", "curvature", "distortion", "coverage"})
	for _, g := range snap.Geometries {
		geo.AppendRow(table.Row{g.ID, g.Name, g.Curvature, g.ReflectionDistortion, g.CoverageUniformity})
	}
	geo.SetColumnConfigs(rightAligned(4, 5))

	env := newWriter("Environmental contexts")
	env.AppendHeader(table.Row{"id", "name", "intensity", "contrast", "kelvin", "visibility"})
	for _, e := range snap.Environments {
		env.AppendRow(table.Row{e.ID, e.Name, e.LightIntensity, e.ContrastRatio, e.ColorTemperature, e.ReflectionVisibility})
	}
	env.SetColumnConfigs(rightAligned(3, 4, 5, 6))

	for _, w := range []table.Writer{rt, mat, ph, geo, env} {
		if err := render(out, w, m); err != nil {
			return err
		}
	}
	return nil
}

// Morphospace writes the canonical states, archetypes and presets.
func Morphospace(out io.Writer, states []morphospace.State, archetypes []morphospace.Archetype, presets []rhythm.Preset, m Mode) error {
	header := table.Row{"name"}
	for _, d := range morphospace.Dimensions {
		header = append(header, d)
	}

	st := newWriter("Canonical states")
	st.AppendHeader(slices.Concat(header, table.Row{"material", "geometry"}))
	for _, s := range states {
		st.AppendRow(append(vectorRow(s.Name, s.Vector), s.Material, s.Geometry))
	}

	ar := newWriter("Visual archetypes")
	ar.AppendHeader(slices.Concat(header, table.Row{"reflectance", "colors"}))
	for _, a := range archetypes {
		ar.AppendRow(append(vectorRow(a.Name, a.Vector), a.OpticalProperties.Reflectance, strings.Join(a.ColorAssociations, ", ")))
	}

	pr := newWriter("Rhythmic presets")
	pr.AppendHeader(table.Row{"name", "state_a", "state_b", "waveform", "cycles", "steps/cycle"})
	for _, p := range presets {
		pr.AppendRow(table.Row{p.Name, p.StateA, p.StateB, p.Waveform, p.Cycles, p.StepsPerCycle})
	}
	pr.SetColumnConfigs(rightAligned(5, 6))

	for _, w := range []table.Writer{st, ar, pr} {
		if err := render(out, w, m); err != nil {
			return err
		}
	}
	return nil
}

// Sequence plots the blend factors of seq and lists every step.
func Sequence(out io.Writer, title string, seq rhythm.Sequence, m Mode) error {
	if len(seq.Steps) > 1 {
		data := make([]float64, len(seq.Steps))
		for i, s := range seq.Steps {
			data[i] = s.BlendFactor
		}
		caption := fmt.Sprintf("%s: %s → %s (%s, %d steps)", title, seq.StateA, seq.StateB, seq.Waveform, seq.TotalSteps)
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
			asciigraph.Caption(caption),
		)
		if _, err := fmt.Fprintln(out, graph+"\n"); err != nil {
			return err
		}
	}

	header := table.Row{"step", "blend", "cycle pos"}
	for _, d := range morphospace.Dimensions {
		header = append(header, d)
	}
	w := newWriter(title)
	w.AppendHeader(header)
	for _, s := range seq.Steps {
		row := table.Row{s.Step, s.BlendFactor, s.CyclePosition}
		for _, v := range s.Vector.Values() {
			row = append(row, fmt.Sprintf("%.3f", v))
		}
		w.AppendRow(row)
	}
	return render(out, w, m)
}

func vectorRow(name string, v morphospace.Vector) table.Row {
	row := table.Row{name}
	for _, x := range v.Values() {
		row = append(row, x)
	}
	return row
}
