package admin

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/xiy/reflective-mcp/internal/reflective"
	"github.com/xiy/reflective-mcp/internal/store"
	"github.com/xiy/reflective-mcp/pkg/types"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	paneStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

type pane struct {
	title string
	body  string
}

func (m model) View() string {
	w, h := 54, 9
	if m.width > 0 {
		w = max(38, (m.width-3)/2)
	}
	if m.height > 0 {
		h = max(8, (m.height-8)/2)
	}

	events := "(no events yet)"
	if len(m.events) > 0 {
		events = strings.Join(m.events, "\n")
	}
	grid := [][]pane{
		{{"Stats", m.renderStats()}, {"Events", events}},
		{{"MCP Requests", requestLines(m.snap.requests)}, {"Prompts (" + filterLabel(m.q.tool) + ")", promptLines(m.snap.prompts)}},
	}

	rows := []string{
		titleStyle.Render(m.title + " admin"),
		hintStyle.Render("q quit • r refresh • f filter prompts • auto refresh every " + refreshInterval.String()),
		"",
	}
	for _, row := range grid {
		cells := make([]string, 0, 2*len(row))
		for i, p := range row {
			if i > 0 {
				cells = append(cells, " ")
			}
			cells = append(cells, paneStyle.Width(w).Height(h).Render(p.title+"\n\n"+p.body))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m model) renderStats() string {
	var b strings.Builder
	s := m.snap.stats
	fmt.Fprintf(&b, "%-17s %s\n", "Prompts stored:", humanize.Comma(s.Prompts))
	fmt.Fprintf(&b, "%-17s %s\n", "Requests logged:", humanize.Comma(s.Requests))
	fmt.Fprintf(&b, "%-17s %s\n", "Failed requests:", humanize.Comma(s.FailedRequests))
	fmt.Fprintf(&b, "%-17s %s", "Last refresh:", sinceOrDash(m.lastTick))
	if len(m.snap.usage) > 0 {
		b.WriteString("\n\nBusiest tools:")
		b.WriteString(usageBars(m.snap.usage[:min(3, len(m.snap.usage))]))
	}
	if m.lastErr != nil {
		b.WriteString("\n\n" + errStyle.Render("Last error: "+truncateText(compactWhitespace(m.lastErr.Error()), 120)))
	}
	return b.String()
}

// usageBars scales each tool's call count against the busiest tool.
func usageBars(rows []store.ToolUsage) string {
	const width = 12
	var top int64 = 1
	for _, u := range rows {
		top = max(top, u.Calls)
	}
	var b strings.Builder
	for _, u := range rows {
		n := int(u.Calls * width / top)
		fmt.Fprintf(&b, "\n  %-24s %s%s %s calls %.1fms",
			truncateText(u.ToolName, 24),
			barStyle.Render(strings.Repeat("█", n)),
			strings.Repeat(" ", width-n),
			humanize.Comma(u.Calls),
			u.AvgDurationMS,
		)
	}
	return b.String()
}

func requestLines(rows []store.MCPRequestLog) string {
	if len(rows) == 0 {
		return "(no MCP requests yet)"
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		label := strings.TrimSpace(r.Method)
		if tool := strings.TrimSpace(r.ToolName); tool != "" {
			label = tool
		}
		status := "ok "
		if !r.Success {
			status = "err"
		}
		lines[i] = fmt.Sprintf("[%s] %s %-30s %4dms", clock(r.CreatedAt), status, truncateText(label, 30), max(0, r.DurationMS))
		if !r.Success && strings.TrimSpace(r.ErrorText) != "" {
			lines[i] += " " + errStyle.Render(truncateText(compactWhitespace(r.ErrorText), 48))
		}
	}
	return strings.Join(lines, "\n")
}

// promptLines tags composite prompts with C and keyframes with K<step>.
func promptLines(rows []types.PromptRecord) string {
	if len(rows) == 0 {
		return "(no prompts yet)"
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		tag := "C"
		if r.Tool != reflective.ToolComposite {
			tag = fmt.Sprintf("K%d", r.Step)
		}
		lines[i] = fmt.Sprintf("[%s] %-3s %-14s :: %s",
			clock(r.CreatedAt), tag, truncateText(r.Archetype, 14), truncateText(compactWhitespace(r.Prompt), 60))
	}
	return strings.Join(lines, "\n")
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}

func sinceOrDash(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func clock(t time.Time) string {
	if t.IsZero() {
		return "--:--:--"
	}
	return t.UTC().Format("15:04:05")
}

func truncateText(s string, limit int) string {
	r := []rune(strings.TrimSpace(s))
	switch {
	case len(r) <= limit:
		return string(r)
	case limit <= 3:
		return string(r[:limit])
	default:
		return string(r[:limit-3]) + "..."
	}
}

func compactWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
