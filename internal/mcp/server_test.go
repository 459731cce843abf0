package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/xiy/reflective-mcp/internal/config"
	"github.com/xiy/reflective-mcp/internal/reflective"
	"github.com/xiy/reflective-mcp/internal/store"
	"github.com/xiy/reflective-mcp/pkg/types"
)

var allTools = []string{
	"get_reflection_taxonomy",
	"map_material_properties",
	"compute_fresnel_intensity",
	"analyze_reflection_context",
	"detect_reflection_keywords",
	"generate_reflection_prompt_enhancement",
	"compare_reflection_scenarios",
	"list_canonical_states",
	"list_rhythmic_presets",
	"list_visual_archetypes",
	"interpolate_states",
	"generate_rhythmic_sequence",
	"apply_rhythmic_preset",
	"map_parameters_to_vocabulary",
	"generate_composite_prompt",
	"generate_sequence_prompts",
	"get_prompt_history",
	"get_server_info",
}

type captureSink struct {
	rows []store.MCPRequestLog
}

func (c *captureSink) InsertMCPRequestLog(_ context.Context, rec store.MCPRequestLog) error {
	c.rows = append(c.rows, rec)
	return nil
}

func newTestService(t *testing.T) *reflective.Service {
	t.Helper()
	svc, err := reflective.NewService(nil, config.Default(), log.NewWithOptions(io.Discard, log.Options{}))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func newTestServer(t *testing.T, sink RequestLogSink) *Server {
	t.Helper()
	return NewServer(newTestService(t), "reflective-mcp", log.NewWithOptions(io.Discard, log.Options{}), sink)
}

func callResult(t *testing.T, srv *Server, name, args string) *toolResult {
	t.Helper()
	params, err := json.Marshal(map[string]any{"name": name, "arguments": json.RawMessage(args)})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	ex := srv.handle(context.Background(), request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`7`),
		Method:  "tools/call",
		Params:  params,
	})
	if !ex.reply {
		t.Fatal("expected response")
	}
	if ex.resp.Error != nil {
		t.Fatalf("unexpected error response: %+v", ex.resp.Error)
	}
	result, ok := ex.resp.Result.(*toolResult)
	if !ok {
		t.Fatalf("unexpected result type %T", ex.resp.Result)
	}
	return result
}

func TestHandle_ToolsList(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	ex := srv.handle(context.Background(), request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`1`),
		Method:  "tools/list",
	})
	if !ex.reply {
		t.Fatal("expected response")
	}
	if ex.resp.Error != nil {
		t.Fatalf("unexpected error response: %+v", ex.resp.Error)
	}

	result, ok := ex.resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected result type %T", ex.resp.Result)
	}
	tools, ok := result["tools"].([]ToolDefinition)
	if !ok {
		t.Fatalf("unexpected tools type %T", result["tools"])
	}
	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
		if tool.InputSchema["type"] != "object" {
			t.Fatalf("tool %s schema is not an object", tool.Name)
		}
	}
	if diff := cmp.Diff(allTools, names); diff != "" {
		t.Fatalf("tool names mismatch (-want +got):\n%s", diff)
	}
}

func TestHandle_FresnelSuccess(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	result := callResult(t, srv, "compute_fresnel_intensity", `{"viewing_angle_degrees": 0, "material_id": "mirror_glass"}`)
	if result.IsError {
		t.Fatalf("expected success, got %s", result.text())
	}
	var got struct {
		Intensity  float64 `json:"fresnel_intensity"`
		Prominence string  `json:"prominence"`
	}
	if err := json.Unmarshal([]byte(result.text()), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if got.Intensity != 0.043 || got.Prominence != "minimal" {
		t.Fatalf("unexpected fresnel result %+v", got)
	}
}

func TestHandle_UnknownStateIsStructuredFailure(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	result := callResult(t, srv, "interpolate_states", `{"state_a": "mirror_still", "state_b": "lava_lamp", "alpha": 0.5}`)
	if !result.IsError {
		t.Fatalf("expected failure, got %s", result.text())
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(result.text()), &payload); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if payload["kind"] != string(types.KindUnknownIdentifier) {
		t.Fatalf("expected unknown_identifier, got %v", payload["kind"])
	}
	states, ok := payload["available_states"].([]any)
	if !ok || len(states) != 9 {
		t.Fatalf("expected nine available states, got %v", payload["available_states"])
	}
}

func TestHandle_UnknownToolListsTools(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	result := callResult(t, srv, "render_image", `{}`)
	te, ok := result.StructuredContent.(*types.ToolError)
	if !ok {
		t.Fatalf("expected tool error, got %T", result.StructuredContent)
	}
	if diff := cmp.Diff(allTools, te.Available); diff != "" {
		t.Fatalf("available tools mismatch (-want +got):\n%s", diff)
	}
}

func TestHandle_BadArgumentsAreMalformed(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	result := callResult(t, srv, "compute_fresnel_intensity", `{"viewing_angle_degrees": "steep"}`)
	te, ok := result.StructuredContent.(*types.ToolError)
	if !ok || te.Kind != types.KindMalformedInput {
		t.Fatalf("expected malformed input, got %+v", result.StructuredContent)
	}
}

func TestHandle_UnknownMethod(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	ex := srv.handle(context.Background(), request{JSONRPC: "2.0", ID: json.RawMessage(`3`), Method: "resources/list"})
	if !ex.reply || ex.resp.Error == nil || ex.resp.Error.Code != codeMethodNotFound {
		t.Fatalf("expected method not found, got %+v", ex.resp)
	}
	if ex := srv.handle(context.Background(), request{JSONRPC: "2.0", Method: "notifications/cancelled"}); ex.reply {
		t.Fatal("notifications must not be answered")
	}
}

func TestServe_JSONLineInitialize(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	in := bytes.NewBufferString("{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"initialize\",\"params\":{\"protocolVersion\":\"2025-03-26\"}}\n")
	var out bytes.Buffer
	if err := srv.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	line := bytes.TrimSpace(out.Bytes())
	if bytes.Contains(line, []byte("Content-Length:")) {
		t.Fatalf("expected JSON-line response, got framed output: %q", string(line))
	}

	var resp struct {
		Result struct {
			ProtocolVersion string `json:"protocolVersion"`
			ServerInfo      struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	if err := json.Unmarshal(line, &resp); err != nil {
		t.Fatalf("json.Unmarshal(response) error = %v", err)
	}
	if resp.Result.ProtocolVersion != "2025-03-26" {
		t.Fatalf("expected echoed protocol version, got %q", resp.Result.ProtocolVersion)
	}
	if resp.Result.ServerInfo.Name != "reflective-mcp" || resp.Result.ServerInfo.Version != reflective.Version {
		t.Fatalf("unexpected server info %+v", resp.Result.ServerInfo)
	}
}

func TestServe_LogsRequestEvents(t *testing.T) {
	t.Parallel()
	sink := &captureSink{}
	srv := newTestServer(t, sink)

	in := bytes.NewBufferString(
		"{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"tools/call\",\"params\":{\"name\":\"apply_rhythmic_preset\",\"arguments\":{\"preset\":\"moon_pulse\"}}}\n" +
			"{\"jsonrpc\":\"2.0\",\"id\":2,\"method\":\"tools/call\",\"params\":{\"name\":\"apply_rhythmic_preset\",\"arguments\":{\"preset\":\"frost_breath\"}}}\n")
	var out bytes.Buffer
	if err := srv.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	if len(sink.rows) != 2 {
		t.Fatalf("expected 2 request log rows, got %d", len(sink.rows))
	}
	failed := sink.rows[0]
	if failed.Method != "tools/call" || failed.ToolName != "apply_rhythmic_preset" {
		t.Fatalf("unexpected row %+v", failed)
	}
	if failed.Success {
		t.Fatal("expected failed request for unknown preset")
	}
	if failed.ErrorText != "Unknown rhythmic preset: moon_pulse" {
		t.Fatalf("unexpected error text %q", failed.ErrorText)
	}
	if !sink.rows[1].Success {
		t.Fatalf("expected second call to succeed, got %+v", sink.rows[1])
	}
	if got := srv.Snapshot(); got.Requests != 2 || got.Errors != 1 {
		t.Fatalf("unexpected counters %+v", got)
	}
}

func TestServe_ParseErrorKeepsServing(t *testing.T) {
	t.Parallel()
	sink := &captureSink{}
	srv := newTestServer(t, sink)

	in := bytes.NewBufferString("{not json}\n{\"jsonrpc\":\"2.0\",\"id\":9,\"method\":\"ping\"}\n")
	var out bytes.Buffer
	if err := srv.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 responses, got %d: %q", len(lines), out.String())
	}
	var first response
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if first.Error == nil || first.Error.Code != codeParseError {
		t.Fatalf("expected parse error, got %+v", first)
	}
	if len(sink.rows) != 2 || sink.rows[0].Method != "parse_error" || sink.rows[0].Success {
		t.Fatalf("unexpected request log %+v", sink.rows)
	}
	if !sink.rows[1].Success {
		t.Fatalf("expected ping to succeed, got %+v", sink.rows[1])
	}
}
