package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xiy/reflective-mcp/internal/metrics"
	"github.com/xiy/reflective-mcp/internal/reflective"
	"github.com/xiy/reflective-mcp/internal/store"
	"github.com/xiy/reflective-mcp/pkg/types"
)

// RequestLogSink receives summarized MCP request events.
type RequestLogSink interface {
	InsertMCPRequestLog(ctx context.Context, rec store.MCPRequestLog) error
}

// dispatcher resolves tool names and runs them. Both transports share it.
type dispatcher struct {
	tools   []tool
	byName  map[string]tool
	metrics *metrics.Recorder
}

func newDispatcher(svc *reflective.Service) *dispatcher {
	tools := toolset(svc)
	byName := make(map[string]tool, len(tools))
	for _, t := range tools {
		byName[t.def.Name] = t
	}
	return &dispatcher{tools: tools, byName: byName}
}

func (d *dispatcher) definitions() []ToolDefinition { return toolDefinitions(d.tools) }

func (d *dispatcher) names() []string {
	out := make([]string, len(d.tools))
	for i, t := range d.tools {
		out[i] = t.def.Name
	}
	return out
}

func (d *dispatcher) call(ctx context.Context, name string, args json.RawMessage) (any, error) {
	name = strings.TrimSpace(name)
	t, ok := d.byName[name]
	if !ok {
		return nil, types.UnknownIdentifier("tool", "tools", name, d.names())
	}
	started := time.Now()
	res, err := t.call(ctx, args)
	d.metrics.ObserveToolCall(name, err == nil, time.Since(started))
	return res, err
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// toolResult is the tools/call result body: the payload as indented JSON text
// plus the same value as structuredContent.
type toolResult struct {
	Content           []textContent `json:"content"`
	StructuredContent any           `json:"structuredContent"`
	IsError           bool          `json:"isError"`
}

// text returns the first text block.
func (r *toolResult) text() string {
	if len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}

func newToolResult(v any, isError bool) (*toolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &toolResult{
		Content:           []textContent{{Type: "text", Text: string(b)}},
		StructuredContent: v,
		IsError:           isError,
	}, nil
}

// failureResult renders err as an isError result. Structured tool errors keep
// their kind and alternatives; anything else is wrapped as malformed input.
func failureResult(err error) *toolResult {
	te := asToolError(err)
	res, merr := newToolResult(te, true)
	if merr != nil {
		return &toolResult{Content: []textContent{{Type: "text", Text: te.Message}}, StructuredContent: te, IsError: true}
	}
	return res
}

func asToolError(err error) *types.ToolError {
	var te *types.ToolError
	if errors.As(err, &te) {
		return te
	}
	return &types.ToolError{Kind: types.KindMalformedInput, Message: err.Error()}
}

// requestLog persists one row per handled request. A nil sink drops rows.
type requestLog struct {
	sink   RequestLogSink
	logger *log.Logger
}

func (l requestLog) record(ctx context.Context, method, toolName string, failure error, d time.Duration) {
	if l.sink == nil {
		return
	}
	if method = strings.TrimSpace(method); method == "" {
		method = "unknown"
	}
	rec := store.MCPRequestLog{
		Method:     method,
		ToolName:   strings.TrimSpace(toolName),
		Success:    failure == nil,
		DurationMS: d.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if failure != nil {
		rec.ErrorText = asToolError(failure).Message
	}
	if err := l.sink.InsertMCPRequestLog(ctx, rec); err != nil {
		l.logger.Warn("failed to persist MCP request log", "error", err)
	}
}
