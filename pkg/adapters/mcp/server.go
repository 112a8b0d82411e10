package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/waypoint"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const sessionsURI = "waypoint://sessions"

// SessionList is the structured result of list_sessions.
type SessionList struct {
	Sessions []domain.SessionStatus `json:"sessions" jsonschema_description:"Published status of every known debug session"`
}

// SessionResponse is the structured result of inspect_session.
type SessionResponse struct {
	Status domain.SessionStatus `json:"status" jsonschema_description:"Latest published status of the session"`
}

// Server exposes the session status store as an MCP server.
// It is read-only: driving a build stays with the line-protocol client.
type Server struct {
	store     ports.StatusStore
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(store ports.StatusStore) *Server {
	s := &Server{
		store:     store,
		mcpServer: server.NewMCPServer("waypoint-mcp", strings.TrimSpace(waypoint.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP server over SSE until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
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

func (s *Server) registerTools() {
	listTool := mcp.NewTool("list_sessions",
		mcp.WithDescription("List every debug session with its state, suspend reason and current location."),
		mcp.WithOutputSchema[SessionList](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListSessions))

	inspectTool := mcp.NewTool("inspect_session",
		mcp.WithDescription("Show the latest published status of one debug session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(inspectTool, mcp.NewStructuredToolHandler(s.handleInspectSession))
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionList, error) {
	sessions, err := s.loadAll(ctx)
	if err != nil {
		return SessionList{}, err
	}
	return SessionList{Sessions: sessions}, nil
}

func (s *Server) handleInspectSession(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	id, _ := args["session_id"].(string)
	if id == "" {
		return SessionResponse{}, errors.New("session_id is required")
	}

	status, err := s.store.Load(ctx, id)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("inspect failed: %w", err)
	}
	return SessionResponse{Status: *status}, nil
}

func (s *Server) loadAll(ctx context.Context) ([]domain.SessionStatus, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list failed: %w", err)
	}

	sessions := make([]domain.SessionStatus, 0, len(ids))
	for _, id := range ids {
		status, err := s.store.Load(ctx, id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s failed: %w", id, err)
		}
		sessions = append(sessions, *status)
	}
	return sessions, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(sessionsURI, "Debug Sessions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		sessions, err := s.loadAll(ctx)
		if err != nil {
			return nil, err
		}
		jsonBytes, _ := json.Marshal(sessions)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      sessionsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
