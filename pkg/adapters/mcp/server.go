package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const treeURI = "wayfinder://tree"

// TreeResponse is returned by every tool and provides a unified structure across adapters.
type TreeResponse struct {
	Tree    wayfinder.Snapshot `json:"tree" jsonschema_description:"The navigation tree of every tab"`
	Handled bool               `json:"handled" jsonschema_description:"Whether the request changed or could change the tree"`
}

// App defines what the MCP server needs from a wayfinder.App.
type App interface {
	Snapshot() wayfinder.Snapshot
	Back(ctx context.Context) (ports.Navigator, error)
	HandleIncomingURL(ctx context.Context, u *url.URL) (bool, error)
	SelectTab(ctx context.Context, id domain.TabID, popToRoot bool) (*wayfinder.Coordinator, error)
}

var _ App = (*wayfinder.App)(nil)

// Server wraps an App and exposes it as an MCP Server.
type Server struct {
	app       App
	store     ports.StateStore
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithStateStore adds the set_requirement tool.
func WithStateStore(store ports.StateStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(app App, opts ...Option) *Server {
	s := &Server{
		app:       app,
		mcpServer: server.NewMCPServer("wayfinder-mcp", strings.TrimSpace(wayfinder.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
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
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
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
	s.mcpServer.AddTool(mcp.NewTool("get_tree",
		mcp.WithDescription("Get the navigation tree of every tab: stacks, presentations, blocked screens and alerts."),
		mcp.WithOutputSchema[TreeResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetTree))

	s.mcpServer.AddTool(mcp.NewTool("open_deeplink",
		mcp.WithDescription("Open a deep link as if the platform delivered it to the app."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Absolute url, e.g. myapp://orders/42")),
		mcp.WithOutputSchema[TreeResponse](),
	), mcp.NewStructuredToolHandler(s.handleOpenDeeplink))

	s.mcpServer.AddTool(mcp.NewTool("navigate_back",
		mcp.WithDescription("Pop the top-most screen, or dismiss the top-most presented stack when it shows only its root."),
		mcp.WithOutputSchema[TreeResponse](),
	), mcp.NewStructuredToolHandler(s.handleNavigateBack))

	s.mcpServer.AddTool(mcp.NewTool("select_tab",
		mcp.WithDescription("Select a tab, dismissing whatever is presented on the current one."),
		mcp.WithString("tab", mcp.Required(), mcp.Description("Tab id")),
		mcp.WithBoolean("pop_to_root", mcp.Description("Also clear the selected tab's path")),
		mcp.WithOutputSchema[TreeResponse](),
	), mcp.NewStructuredToolHandler(s.handleSelectTab))

	if s.store == nil {
		return
	}
	s.mcpServer.AddTool(mcp.NewTool("set_requirement",
		mcp.WithDescription("Mark a requirement (e.g. login) as satisfied or not. Screens gated by it are blocked or unblocked asynchronously."),
		mcp.WithString("requirement", mcp.Required(), mcp.Description("Requirement identifier")),
		mcp.WithBoolean("satisfied", mcp.Required(), mcp.Description("New state")),
	), s.handleSetRequirement)
}

func (s *Server) tree(handled bool) TreeResponse {
	return TreeResponse{Tree: s.app.Snapshot(), Handled: handled}
}

func (s *Server) handleGetTree(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TreeResponse, error) {
	return s.tree(true), nil
}

func (s *Server) handleOpenDeeplink(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TreeResponse, error) {
	raw, _ := args["url"].(string)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return TreeResponse{}, fmt.Errorf("invalid url %q", raw)
	}

	handled, err := s.app.HandleIncomingURL(ctx, u)
	if err != nil {
		var reqErr *domain.RequirementError
		if errors.As(err, &reqErr) {
			s.logger.Warn("MCP deep link stopped by requirement", "url", raw, "requirement", reqErr.Identifier)
		}
		return TreeResponse{}, fmt.Errorf("open deep link failed: %w", err)
	}
	return s.tree(handled), nil
}

func (s *Server) handleNavigateBack(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TreeResponse, error) {
	if _, err := s.app.Back(ctx); err != nil {
		return TreeResponse{}, fmt.Errorf("navigate back failed: %w", err)
	}
	return s.tree(true), nil
}

func (s *Server) handleSelectTab(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TreeResponse, error) {
	id, _ := args["tab"].(string)
	popToRoot, _ := args["pop_to_root"].(bool)

	if _, err := s.app.SelectTab(ctx, domain.TabID(id), popToRoot); err != nil {
		return TreeResponse{}, fmt.Errorf("select tab failed: %w", err)
	}
	return s.tree(true), nil
}

func (s *Server) handleSetRequirement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, _ := args["requirement"].(string)
	satisfied, _ := args["satisfied"].(bool)
	if id == "" {
		return mcp.NewToolResultError("requirement is required"), nil
	}

	if err := s.store.SetSatisfied(ctx, domain.RequirementIdentifier(id), satisfied); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("set requirement failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("requirement %s satisfied=%t", id, satisfied)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(treeURI, "Current Navigation Tree",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.app.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("failed to encode tree: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      treeURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
