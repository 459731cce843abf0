package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xiy/reflective-mcp/pkg/types"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	st, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "reflective.db"), logger)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSQLiteStore_PromptHistoryRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := openTestStore(t)

	base := time.Date(2026, 2, 17, 10, 0, 0, 0, time.UTC)
	first, err := st.InsertPrompt(ctx, types.PromptRecord{
		Tool:      "generate_composite_prompt",
		Source:    "mirror_still",
		Archetype: "liquid_mirror",
		Prompt:    "flawless mirror surface, cool silver",
		CreatedAt: base.Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("InsertPrompt(first) error = %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated id")
	}
	for step := 0; step < 3; step++ {
		if _, err := st.InsertPrompt(ctx, types.PromptRecord{
			Tool:      "generate_sequence_prompts",
			Source:    "tidal_shimmer",
			Archetype: "rippled_caustic",
			Prompt:    "dancing caustic light",
			Step:      step * 8,
			CreatedAt: base,
		}); err != nil {
			t.Fatalf("InsertPrompt(step %d) error = %v", step, err)
		}
	}

	all, err := st.RecentPrompts(ctx, 10, "")
	if err != nil {
		t.Fatalf("RecentPrompts() error = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 prompts, got %d", len(all))
	}
	if all[0].Step != 16 || all[3].ID != first.ID {
		t.Fatalf("unexpected order: first=%+v last=%+v", all[0], all[3])
	}
	if !all[3].CreatedAt.Equal(base.Add(-time.Minute)) {
		t.Fatalf("created_at did not round-trip: %v", all[3].CreatedAt)
	}

	composite, err := st.RecentPrompts(ctx, 10, "generate_composite_prompt")
	if err != nil {
		t.Fatalf("RecentPrompts(filtered) error = %v", err)
	}
	if len(composite) != 1 || composite[0].Archetype != "liquid_mirror" {
		t.Fatalf("unexpected filtered prompts %+v", composite)
	}
}

func TestSQLiteStore_RequestLogsStatsAndUsage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := openTestStore(t)

	base := time.Date(2026, 2, 17, 10, 0, 0, 0, time.UTC)
	if err := st.InsertMCPRequestLog(ctx, MCPRequestLog{
		Method:     "initialize",
		Success:    true,
		DurationMS: 2,
		CreatedAt:  base.Add(-1 * time.Minute),
	}); err != nil {
		t.Fatalf("InsertMCPRequestLog(initialize) error = %v", err)
	}
	if err := st.InsertMCPRequestLog(ctx, MCPRequestLog{
		Method:     "tools/call",
		ToolName:   "compute_fresnel_intensity",
		Success:    true,
		DurationMS: 3,
		CreatedAt:  base.Add(-500 * time.Millisecond),
	}); err != nil {
		t.Fatalf("InsertMCPRequestLog(fresnel) error = %v", err)
	}
	if err := st.InsertMCPRequestLog(ctx, MCPRequestLog{
		Method:     "tools/call",
		ToolName:   "generate_rhythmic_sequence",
		Success:    false,
		ErrorText:  "Unknown canonical state: lava_lamp",
		DurationMS: 11,
		CreatedAt:  base,
	}); err != nil {
		t.Fatalf("InsertMCPRequestLog(sequence) error = %v", err)
	}

	logs, err := st.RecentMCPRequestLogs(ctx, 5)
	if err != nil {
		t.Fatalf("RecentMCPRequestLogs() error = %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 request logs, got %d", len(logs))
	}
	if logs[0].ToolName != "generate_rhythmic_sequence" || logs[0].Success {
		t.Fatalf("expected newest request to be the failed sequence call, got %+v", logs[0])
	}
	if logs[1].ToolName != "compute_fresnel_intensity" {
		t.Fatalf("sub-second ordering broken, got %+v", logs[1])
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Requests != 3 || stats.FailedRequests != 1 || stats.Prompts != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	usage, err := st.ToolUsage(ctx)
	if err != nil {
		t.Fatalf("ToolUsage() error = %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("expected usage for 2 tools, got %+v", usage)
	}
	for _, u := range usage {
		if u.ToolName == "generate_rhythmic_sequence" && (u.Failures != 1 || u.AvgDurationMS != 11) {
			t.Fatalf("unexpected usage row %+v", u)
		}
	}
}

func TestSQLiteStore_Prune(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := openTestStore(t)

	now := time.Now().UTC()
	old := now.Add(-48 * time.Hour)
	for _, ts := range []time.Time{old, now} {
		if err := st.InsertMCPRequestLog(ctx, MCPRequestLog{Method: "ping", Success: true, CreatedAt: ts}); err != nil {
			t.Fatalf("InsertMCPRequestLog() error = %v", err)
		}
		if _, err := st.InsertPrompt(ctx, types.PromptRecord{Tool: "generate_composite_prompt", Source: "vector", Archetype: "noir_sheen", Prompt: "p", CreatedAt: ts}); err != nil {
			t.Fatalf("InsertPrompt() error = %v", err)
		}
	}

	res, err := st.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if res.Requests != 1 || res.Prompts != 1 {
		t.Fatalf("expected one row of each pruned, got %+v", res)
	}
	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Requests != 1 || stats.Prompts != 1 {
		t.Fatalf("unexpected stats after prune %+v", stats)
	}
}
