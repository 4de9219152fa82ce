// Package mcp exposes the engine over the Model Context Protocol.
//
// The entire workflow is one tool, codemaster, driven by its action
// parameter. A single tool keeps the agent's tool inventory small and lets
// the workflow gate, not the protocol surface, decide what is possible.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	codemaster "github.com/codemaster-ai/codemaster"
	"github.com/codemaster-ai/codemaster/pkg/domain"
)

// Server wraps the codemaster Engine and exposes it as an MCP Server.
type Server struct {
	engine    *codemaster.Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *codemaster.Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("codemaster", strings.TrimSpace(codemaster.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// Structured parameters are declared as strings: some MCP clients can
	// only send stringified JSON, and the engine's decoder accepts both.
	tool := mcp.NewTool("codemaster",
		mcp.WithDescription(
			"Workflow orchestration for coding sessions. Drive it with the action "+
				"parameter: create_session, declare_capabilities, "+
				"define_success_and_standards, create_tasklist, map_capabilities, "+
				"execute_next, mark_complete, get_status, collaboration_request, "+
				"edit_task, end_session. Every response includes completion_guidance "+
				"naming the next step."),
		mcp.WithString("action", mcp.Required(),
			mcp.Description("The workflow action to perform")),
		mcp.WithString("session_name",
			mcp.Description("Optional human-readable name for create_session")),
		mcp.WithString("available_tools",
			mcp.Description("JSON array of tool declarations for declare_capabilities: [{name, description, relevance_assessment}]")),
		mcp.WithString("success_metrics",
			mcp.Description("JSON array of measurable success criteria for define_success_and_standards")),
		mcp.WithString("coding_standards",
			mcp.Description("JSON array of coding conventions for define_success_and_standards")),
		mcp.WithString("tasklist",
			mcp.Description("JSON array of tasks for create_tasklist: [{description, planning_phase?, execution_phase?, initial_tool_thoughts?}]")),
		mcp.WithString("task_mappings",
			mcp.Description("JSON array of tool-to-phase assignments for map_capabilities: [{task_id, planning_phase?, execution_phase?}]")),
		mcp.WithString("collaboration_context",
			mcp.Description("What you are blocked on, for collaboration_request")),
		mcp.WithString("task_id",
			mcp.Description("Target task for edit_task")),
		mcp.WithString("updated_task_data",
			mcp.Description("JSON object of task fields to overwrite, for edit_task")),
		mcp.WithString("denoised_plan",
			mcp.Description("Optional condensed plan text stored with create_tasklist")),
		mcp.WithOutputSchema[domain.Response](),
	)
	s.mcpServer.AddTool(tool, mcp.NewStructuredToolHandler(s.handleCodemaster))
}

func (s *Server) handleCodemaster(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Response, error) {
	resp, err := s.engine.ExecuteRaw(ctx, args)
	if err != nil {
		return domain.Response{}, fmt.Errorf("codemaster failed: %w", err)
	}
	return *resp, nil
}

func (s *Server) registerResources() {
	// EXPOSE: codemaster://workflow
	s.mcpServer.AddResource(mcp.NewResource("codemaster://workflow", "Workflow Transition Table",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		type edge struct {
			From        domain.State `json:"from"`
			Event       domain.Event `json:"event"`
			To          domain.State `json:"to"`
			Description string       `json:"description,omitempty"`
		}
		transitions := s.engine.Workflow().Transitions()
		edges := make([]edge, 0, len(transitions))
		for _, t := range transitions {
			to := t.To
			if t.ToResume {
				to = "(resume)"
			}
			edges = append(edges, edge{From: t.From, Event: t.Event, To: to, Description: t.Description})
		}
		jsonBytes, err := json.Marshal(edges)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal workflow table: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "codemaster://workflow",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
