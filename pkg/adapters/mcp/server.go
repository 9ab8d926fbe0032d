// Package mcp exposes the treatment engine as an MCP server so agent
// hosts can drive sessions as tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mindshift "github.com/mindshifting/mindshift"
	"github.com/mindshifting/mindshift/internal/presentation/graph"
	"github.com/mindshifting/mindshift/pkg/domain"
)

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    *mindshift.Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *mindshift.Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("mindshift-mcp", strings.TrimSpace(mindshift.Version)),
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
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
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
	// TOOL: start_session
	startTool := mcp.NewTool("start_session",
		mcp.WithDescription("Start a new treatment session. Returns the opening practitioner message."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Unique session identifier")),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owning user identifier")),
		mcp.WithString("first_name", mcp.Description("First name for personalized prompts (optional)")),
		mcp.WithOutputSchema[mindshift.TurnResult](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	// TOOL: continue_session
	continueTool := mcp.NewTool("continue_session",
		mcp.WithDescription("Advance a session one turn with the user's utterance."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owning user identifier")),
		mcp.WithString("input", mcp.Required(), mcp.Description("User utterance")),
		mcp.WithOutputSchema[mindshift.TurnResult](),
	)
	s.mcpServer.AddTool(continueTool, mcp.NewStructuredToolHandler(s.handleContinue))

	// TOOL: undo_step
	undoTool := mcp.NewTool("undo_step",
		mcp.WithDescription("Roll the session back one step. The returned current_step is authoritative."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owning user identifier")),
		mcp.WithString("to_step", mcp.Description("Step the client expects to land on (optional)")),
		mcp.WithOutputSchema[mindshift.UndoResult](),
	)
	s.mcpServer.AddTool(undoTool, mcp.NewStructuredToolHandler(s.handleUndo))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the protocol step graph as a Mermaid flowchart."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(graph.GenerateMermaid(s.engine.Table(), nil)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (mindshift.TurnResult, error) {
	sessionID, _ := args["session_id"].(string)
	userID, _ := args["user_id"].(string)
	firstName, _ := args["first_name"].(string)

	result, err := s.engine.Start(ctx, sessionID, userID, firstName)
	if err != nil {
		return mindshift.TurnResult{}, fmt.Errorf("start failed: %w", err)
	}
	return result, nil
}

func (s *Server) handleContinue(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (mindshift.TurnResult, error) {
	sessionID, _ := args["session_id"].(string)
	userID, _ := args["user_id"].(string)
	input, _ := args["input"].(string)

	result, err := s.engine.Continue(ctx, sessionID, userID, input)
	if err != nil {
		return mindshift.TurnResult{}, fmt.Errorf("continue failed: %w", err)
	}
	return result, nil
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (mindshift.UndoResult, error) {
	sessionID, _ := args["session_id"].(string)
	userID, _ := args["user_id"].(string)
	toStep, _ := args["to_step"].(string)

	result, err := s.engine.Undo(ctx, sessionID, userID, domain.Step(toStep))
	if err != nil {
		return mindshift.UndoResult{}, fmt.Errorf("undo failed: %w", err)
	}
	return result, nil
}

func (s *Server) registerResources() {
	// EXPOSE: mindshift://graph
	s.mcpServer.AddResource(mcp.NewResource("mindshift://graph", "Protocol Step Graph",
		mcp.WithMIMEType("text/vnd.mermaid"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "mindshift://graph",
				MIMEType: "text/vnd.mermaid",
				Text:     graph.GenerateMermaid(s.engine.Table(), nil),
			},
		}, nil
	})
}
