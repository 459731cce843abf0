package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/xiy/reflective-mcp/internal/metrics"
	"github.com/xiy/reflective-mcp/internal/reflective"
)

// SDKServer exposes the same tools through the MCP Go SDK, used for the
// streamable HTTP transport.
type SDKServer struct {
	MCPServer *sdkmcp.Server

	tools *dispatcher
	log   requestLog
}

// NewSDKServer registers every tool on a new SDK server.
func NewSDKServer(svc *reflective.Service, name string, logger *log.Logger, sink RequestLogSink) *SDKServer {
	s := &SDKServer{
		MCPServer: sdkmcp.NewServer(&sdkmcp.Implementation{Name: name, Version: reflective.Version}, nil),
		tools:     newDispatcher(svc),
		log:       requestLog{sink: sink, logger: logger},
	}
	for _, t := range s.tools.tools {
		s.MCPServer.AddTool(&sdkmcp.Tool{
			Name:        t.def.Name,
			Description: t.def.Description,
			InputSchema: t.def.InputSchema,
		}, s.handler(t.def.Name))
	}
	return s
}

// UseMetrics attaches a tool call recorder.
func (s *SDKServer) UseMetrics(r *metrics.Recorder) { s.tools.metrics = r }

// Handler mounts the streamable MCP endpoint at /mcp and, when a recorder is
// given, Prometheus metrics at /metrics.
func (s *SDKServer) Handler(r *metrics.Recorder) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return s.MCPServer
	}, nil))
	if r != nil {
		mux.Handle("/metrics", r.Handler())
	}
	return mux
}

func (s *SDKServer) handler(name string) sdkmcp.ToolHandler {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		var args json.RawMessage
		if req.Params != nil {
			args = req.Params.Arguments
		}
		started := time.Now()
		res, err := s.tools.call(ctx, name, args)
		var out *toolResult
		if err == nil {
			out, err = newToolResult(res, false)
		}
		if err != nil {
			out = failureResult(err)
		}
		s.log.record(ctx, "tools/call", name, err, time.Since(started))
		return &sdkmcp.CallToolResult{
			Content:           []sdkmcp.Content{&sdkmcp.TextContent{Text: out.text()}},
			StructuredContent: out.StructuredContent,
			IsError:           out.IsError,
		}, nil
	}
}
