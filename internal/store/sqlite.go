package store

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/xiy/reflective-mcp/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Stats summarizes database counters for admin dashboards.
type Stats struct {
	Prompts        int64 `db:"prompts"`
	Requests       int64 `db:"requests"`
	FailedRequests int64 `db:"failed_requests"`
}

// ToolUsage aggregates tools/call requests per tool.
type ToolUsage struct {
	ToolName      string  `db:"tool_name"`
	Calls         int64   `db:"calls"`
	Failures      int64   `db:"failures"`
	AvgDurationMS float64 `db:"avg_duration_ms"`
}

// PruneResult counts rows removed by Prune.
type PruneResult struct {
	Requests int64
	Prompts  int64
}

// MCPRequestLog captures one incoming MCP request handled by the server.
type MCPRequestLog struct {
	ID         int64
	Method     string
	ToolName   string
	Success    bool
	ErrorText  string
	DurationMS int64
	CreatedAt  time.Time
}

type requestRow struct {
	ID         int64  `db:"id"`
	Method     string `db:"method"`
	ToolName   string `db:"tool_name"`
	Success    int    `db:"success"`
	ErrorText  string `db:"error_text"`
	DurationMS int64  `db:"duration_ms"`
	CreatedAt  string `db:"created_at"`
}

type promptRow struct {
	ID        string `db:"id"`
	Tool      string `db:"tool"`
	Source    string `db:"source"`
	Archetype string `db:"archetype"`
	Prompt    string `db:"prompt"`
	Step      int    `db:"step"`
	CreatedAt string `db:"created_at"`
}

// SQLiteStore is a SQLite-backed history and request log store.
type SQLiteStore struct {
	db     *sqlx.DB
	logger *log.Logger
}

// OpenSQLite opens and initializes the SQLite store.
func OpenSQLite(ctx context.Context, dbPath string, logger *log.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init(ctx context.Context) error {
	for _, stmt := range splitSQLStatements(schemaSQL) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("run schema stmt: %w", err)
		}
	}
	s.logger.Debug("sqlite schema ready")
	return nil
}

func splitSQLStatements(s string) []string {
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p+";")
	}
	return out
}

// InsertPrompt stores one generated prompt, assigning an id and timestamp
// when they are missing.
func (s *SQLiteStore) InsertPrompt(ctx context.Context, rec types.PromptRecord) (types.PromptRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	_, err := s.db.NamedExecContext(ctx, `INSERT INTO prompt_history (
		id, tool, source, archetype, prompt, step, created_at
	) VALUES (:id, :tool, :source, :archetype, :prompt, :step, :created_at)`, promptRow{
		ID:        rec.ID,
		Tool:      rec.Tool,
		Source:    rec.Source,
		Archetype: rec.Archetype,
		Prompt:    rec.Prompt,
		Step:      rec.Step,
		CreatedAt: rec.CreatedAt.Format(timeLayout),
	})
	if err != nil {
		return rec, fmt.Errorf("insert prompt: %w", err)
	}
	return rec, nil
}

// RecentPrompts returns prompts in newest-first order, optionally filtered
// by tool name.
func (s *SQLiteStore) RecentPrompts(ctx context.Context, limit int, tool string) ([]types.PromptRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT id, tool, source, archetype, prompt, step, created_at FROM prompt_history`
	args := []any{}
	if tool = strings.TrimSpace(tool); tool != "" {
		q += ` WHERE tool = ?`
		args = append(args, tool)
	}
	q += ` ORDER BY created_at DESC, step DESC LIMIT ?`
	args = append(args, limit)

	var rows []promptRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	out := make([]types.PromptRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.PromptRecord{
			ID:        r.ID,
			Tool:      r.Tool,
			Source:    r.Source,
			Archetype: r.Archetype,
			Prompt:    r.Prompt,
			Step:      r.Step,
			CreatedAt: parseTime(r.CreatedAt),
		})
	}
	return out, nil
}

// Prune deletes request logs and prompts created before the cutoff.
func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (PruneResult, error) {
	cutoff := before.UTC().Format(timeLayout)
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return PruneResult{}, fmt.Errorf("begin prune: %w", err)
	}
	defer tx.Rollback()

	var res PruneResult
	r, err := tx.ExecContext(ctx, `DELETE FROM mcp_requests WHERE created_at < ?`, cutoff)
	if err != nil {
		return PruneResult{}, fmt.Errorf("prune mcp requests: %w", err)
	}
	if res.Requests, err = r.RowsAffected(); err != nil {
		return PruneResult{}, fmt.Errorf("prune requests rows affected: %w", err)
	}
	r, err = tx.ExecContext(ctx, `DELETE FROM prompt_history WHERE created_at < ?`, cutoff)
	if err != nil {
		return PruneResult{}, fmt.Errorf("prune prompt history: %w", err)
	}
	if res.Prompts, err = r.RowsAffected(); err != nil {
		return PruneResult{}, fmt.Errorf("prune prompts rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return PruneResult{}, fmt.Errorf("commit prune: %w", err)
	}
	return res, nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.GetContext(ctx, &st, `SELECT
	(SELECT count(*) FROM prompt_history) AS prompts,
	(SELECT count(*) FROM mcp_requests) AS requests,
	(SELECT count(*) FROM mcp_requests WHERE success = 0) AS failed_requests`)
	if err != nil {
		return st, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}

// ToolUsage aggregates tools/call requests per tool, busiest first.
func (s *SQLiteStore) ToolUsage(ctx context.Context) ([]ToolUsage, error) {
	var out []ToolUsage
	err := s.db.SelectContext(ctx, &out, `SELECT tool_name,
       count(*) AS calls,
       coalesce(sum(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0) AS failures,
       coalesce(avg(duration_ms), 0) AS avg_duration_ms
FROM mcp_requests
WHERE method = 'tools/call' AND tool_name != ''
GROUP BY tool_name
ORDER BY calls DESC, tool_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("tool usage: %w", err)
	}
	return out, nil
}

// InsertMCPRequestLog stores one request event for admin observability.
func (s *SQLiteStore) InsertMCPRequestLog(ctx context.Context, rec MCPRequestLog) error {
	ts := rec.CreatedAt.UTC()
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	success := 0
	if rec.Success {
		success = 1
	}
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO mcp_requests (
		method, tool_name, success, error_text, duration_ms, created_at
	) VALUES (:method, :tool_name, :success, :error_text, :duration_ms, :created_at)`, requestRow{
		Method:     strings.TrimSpace(rec.Method),
		ToolName:   strings.TrimSpace(rec.ToolName),
		Success:    success,
		ErrorText:  strings.TrimSpace(rec.ErrorText),
		DurationMS: rec.DurationMS,
		CreatedAt:  ts.Format(timeLayout),
	})
	if err != nil {
		return fmt.Errorf("insert mcp request log: %w", err)
	}
	return nil
}

// RecentMCPRequestLogs returns most recent request events in newest-first order.
func (s *SQLiteStore) RecentMCPRequestLogs(ctx context.Context, limit int) ([]MCPRequestLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []requestRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, method, tool_name, success, error_text, duration_ms, created_at
FROM mcp_requests
ORDER BY created_at DESC, id DESC
LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("list mcp request logs: %w", err)
	}

	items := make([]MCPRequestLog, 0, len(rows))
	for _, r := range rows {
		items = append(items, MCPRequestLog{
			ID:         r.ID,
			Method:     r.Method,
			ToolName:   r.ToolName,
			Success:    r.Success == 1,
			ErrorText:  r.ErrorText,
			DurationMS: r.DurationMS,
			CreatedAt:  parseTime(r.CreatedAt),
		})
	}
	return items, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func parseTime(v string) time.Time {
	ts, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}
	}
	return ts
}
