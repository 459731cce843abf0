package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xiy/reflective-mcp/internal/metrics"
	"github.com/xiy/reflective-mcp/internal/reflective"
)

const (
	jsonRPCVersion         = "2.0"
	defaultProtocolVersion = "2024-11-05"
)

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Server handles MCP JSON-RPC messages over stdio.
type Server struct {
	tools  *dispatcher
	name   string
	logger *log.Logger
	log    requestLog

	requests atomic.Uint64
	failures atomic.Uint64
}

// NewServer creates an MCP server. A nil sink disables request logging.
func NewServer(svc *reflective.Service, name string, logger *log.Logger, sink RequestLogSink) *Server {
	return &Server{
		tools:  newDispatcher(svc),
		name:   name,
		logger: logger,
		log:    requestLog{sink: sink, logger: logger},
	}
}

// UseMetrics attaches a tool call recorder.
func (s *Server) UseMetrics(r *metrics.Recorder) { s.tools.metrics = r }

// Serve reads requests from in until EOF or ctx is cancelled and writes
// responses to out.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	c := newCodec(in, out)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := c.read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		var req request
		if err := json.Unmarshal(payload, &req); err != nil {
			s.logger.Warn("invalid JSON-RPC request", "error", err, "wire", c.mode)
			s.log.record(ctx, "parse_error", "", err, 0)
			if err := c.write(errorResponse(nil, codeParseError, "parse error", err.Error())); err != nil {
				return err
			}
			continue
		}

		started := time.Now()
		ex := s.handle(ctx, req)
		s.log.record(ctx, req.Method, ex.tool, ex.failure, time.Since(started))
		if !ex.reply {
			continue
		}
		if err := c.write(ex.resp); err != nil {
			return err
		}
	}
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id,omitempty"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// exchange is the outcome of one request. reply is false for notifications.
type exchange struct {
	resp    response
	reply   bool
	tool    string
	failure error
}

func (s *Server) handle(ctx context.Context, req request) exchange {
	s.requests.Add(1)
	if strings.HasPrefix(req.Method, "notifications/") {
		return exchange{}
	}

	ex := exchange{reply: len(req.ID) > 0}
	id := decodeID(req.ID)
	ok := func(result any) exchange {
		ex.resp = response{JSONRPC: jsonRPCVersion, ID: id, Result: result}
		return ex
	}

	switch req.Method {
	case "initialize":
		return ok(s.initializeResult(req.Params))
	case "ping":
		return ok(map[string]any{})
	case "tools/list":
		return ok(map[string]any{"tools": s.tools.definitions()})
	case "tools/call":
		var p struct {
			Name      string          `json:"name"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			ex.failure = err
			ex.resp = errorResponse(id, codeInvalidParams, "invalid params", err.Error())
			return ex
		}
		ex.tool = p.Name
		res, err := s.tools.call(ctx, p.Name, p.Arguments)
		if err == nil {
			var out *toolResult
			if out, err = newToolResult(res, false); err == nil {
				return ok(out)
			}
		}
		s.failures.Add(1)
		s.logger.Debug("tool call failed", "tool", p.Name, "error", err)
		ex.failure = err
		return ok(failureResult(err))
	default:
		ex.failure = fmt.Errorf("method not found: %s", req.Method)
		ex.resp = errorResponse(id, codeMethodNotFound, "method not found", req.Method)
		return ex
	}
}

func (s *Server) initializeResult(params json.RawMessage) map[string]any {
	var p struct {
		ProtocolVersion string `json:"protocolVersion"`
	}
	_ = json.Unmarshal(params, &p)
	pv := strings.TrimSpace(p.ProtocolVersion)
	if pv == "" {
		pv = defaultProtocolVersion
	}
	return map[string]any{
		"protocolVersion": pv,
		"capabilities":    map[string]any{"tools": map[string]any{"listChanged": false}},
		"serverInfo":      map[string]any{"name": s.name, "version": reflective.Version},
	}
}

func errorResponse(id any, code int, msg string, data any) response {
	return response{JSONRPC: jsonRPCVersion, ID: id, Error: &rpcError{Code: code, Message: msg, Data: data}}
}

func decodeID(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// Counters summarises the requests handled by a stdio server.
type Counters struct {
	Requests uint64
	Errors   uint64
}

// Snapshot returns the request and tool error counters.
func (s *Server) Snapshot() Counters {
	return Counters{Requests: s.requests.Load(), Errors: s.failures.Load()}
}
