// Package admin renders a terminal dashboard over the request log and prompt
// history tables.
package admin

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/xiy/reflective-mcp/internal/reflective"
	"github.com/xiy/reflective-mcp/internal/store"
	"github.com/xiy/reflective-mcp/pkg/types"
)

const (
	refreshInterval = 2 * time.Second
	maxEvents       = 10
)

type dashboardStore interface {
	Stats(ctx context.Context) (store.Stats, error)
	ToolUsage(ctx context.Context) ([]store.ToolUsage, error)
	RecentMCPRequestLogs(ctx context.Context, limit int) ([]store.MCPRequestLog, error)
	RecentPrompts(ctx context.Context, limit int, tool string) ([]types.PromptRecord, error)
}

// promptFilters cycles the prompt pane between all history and one tool.
var promptFilters = []string{"", reflective.ToolComposite, reflective.ToolSequencePrompts}

type query struct {
	requests int
	prompts  int
	tool     string
}

// snapshot is one refresh of every pane.
type snapshot struct {
	stats    store.Stats
	usage    []store.ToolUsage
	requests []store.MCPRequestLog
	prompts  []types.PromptRecord
}

type tickMsg time.Time

type refreshMsg struct {
	snap snapshot
	err  error
	took time.Duration
}

type model struct {
	ctx    context.Context
	st     dashboardStore
	title  string
	q      query
	filter int

	snap     snapshot
	lastErr  error
	lastTick time.Time
	events   []string

	width, height int
}

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, title string, st dashboardStore) error {
	_, err := tea.NewProgram(newModel(ctx, title, st), tea.WithAltScreen()).Run()
	return err
}

func newModel(ctx context.Context, title string, st dashboardStore) model {
	m := model{
		ctx:   ctx,
		st:    st,
		title: title,
		q:     query{requests: 8, prompts: 8},
	}
	return m.logf("dashboard started")
}

func (m model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(m.ctx, m.st, m.q), tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m.logf("quit"), tea.Quit
		case "r":
			return m.logf("manual refresh"), refreshCmd(m.ctx, m.st, m.q)
		case "f":
			m.filter = (m.filter + 1) % len(promptFilters)
			m.q.tool = promptFilters[m.filter]
			return m.logf("prompt filter: %s", filterLabel(m.q.tool)), refreshCmd(m.ctx, m.st, m.q)
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tickMsg:
		m.lastTick = time.Time(msg)
		return m, tea.Batch(refreshCmd(m.ctx, m.st, m.q), tickCmd())
	case refreshMsg:
		m.lastErr = msg.err
		if msg.err != nil {
			return m.logf("refresh error: %v", msg.err), nil
		}
		m.snap = msg.snap
		return m.logf("refresh ok prompts=%d req=%d failed=%d (%s)",
			msg.snap.stats.Prompts, msg.snap.stats.Requests, msg.snap.stats.FailedRequests, formatDuration(msg.took)), nil
	}
	return m, nil
}

// refreshCmd loads every pane concurrently; the first failure wins.
func refreshCmd(ctx context.Context, st dashboardStore, q query) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		var snap snapshot
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			snap.stats, err = st.Stats(gctx)
			return err
		})
		g.Go(func() (err error) {
			snap.usage, err = st.ToolUsage(gctx)
			return err
		})
		g.Go(func() (err error) {
			snap.requests, err = st.RecentMCPRequestLogs(gctx, q.requests)
			return err
		})
		g.Go(func() (err error) {
			snap.prompts, err = st.RecentPrompts(gctx, q.prompts, q.tool)
			return err
		})
		err := g.Wait()
		return refreshMsg{snap: snap, err: err, took: time.Since(start)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) logf(format string, args ...any) model {
	entry := fmt.Sprintf("[%s] ", time.Now().UTC().Format("15:04:05")) + fmt.Sprintf(format, args...)
	events := append(append([]string(nil), m.events...), entry)
	if len(events) > maxEvents {
		events = events[len(events)-maxEvents:]
	}
	m.events = events
	return m
}

func filterLabel(tool string) string {
	if tool == "" {
		return "all"
	}
	return tool
}
