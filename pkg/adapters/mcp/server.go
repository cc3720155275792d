package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/stanza/internal/logging"
	"github.com/aretw0/stanza/internal/sanitize"
	"github.com/aretw0/stanza/pkg/domain"
	"github.com/aretw0/stanza/pkg/ports"
	"github.com/aretw0/stanza/pkg/session"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

// ChainsURI is the resource listing the chains a poem can be started from.
const ChainsURI = "stanza://chains"

// Server wraps the Stanza engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.Engine
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*serverConfig)

type serverConfig struct {
	version string
	logger  *slog.Logger
}

// WithVersion sets the version advertised to MCP clients.
func WithVersion(v string) Option {
	return func(c *serverConfig) {
		c.version = strings.TrimSpace(v)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *serverConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Engine, sessions *session.Manager, opts ...Option) *Server {
	cfg := serverConfig{version: "unknown", logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		logger:    cfg.logger,
		mcpServer: server.NewMCPServer("stanza-mcp", cfg.version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: start_poem
	startTool := mcp.NewTool("start_poem",
		mcp.WithDescription("Start a new poem. Replaces any traversal the session already holds."),
		mcp.WithString("session_id", mcp.Description("Session to start in (generated when omitted)")),
		mcp.WithString("chain_id", mcp.Description("Chain to walk (a curated chain is drawn when omitted)")),
		mcp.WithOutputSchema[domain.Turn](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	// TOOL: choose_word
	chooseTool := mcp.NewTool("choose_word",
		mcp.WithDescription("Pick one of the words offered on the latest turn."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("word", mcp.Required(), mcp.Description("One of the offered words")),
		mcp.WithOutputSchema[domain.Turn](),
	)
	s.mcpServer.AddTool(chooseTool, mcp.NewStructuredToolHandler(s.handleChoose))

	// TOOL: get_turn
	turnTool := mcp.NewTool("get_turn",
		mcp.WithDescription("Get the current turn of a session: the offered words or the finished poem."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[domain.Turn](),
	)
	s.mcpServer.AddTool(turnTool, mcp.NewStructuredToolHandler(s.handleGetTurn))

	// TOOL: list_chains
	s.mcpServer.AddTool(mcp.NewTool("list_chains",
		mcp.WithDescription("List the chain IDs a poem can be started from."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := s.chainsJSON(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list chains failed: %v", err)), nil
		}
		return mcp.NewToolResultText(text), nil
	})
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Turn, error) {
	sessionID, _ := args["session_id"].(string)
	chainID, _ := args["chain_id"].(string)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	state, err := s.sessions.Replace(ctx, sessionID, func(ctx context.Context) (*domain.State, error) {
		return s.engine.Start(ctx, sessionID, chainID)
	})
	if err != nil {
		return domain.Turn{}, fmt.Errorf("start failed: %w", err)
	}
	return *domain.TurnFor(state), nil
}

func (s *Server) handleChoose(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Turn, error) {
	sessionID, _ := args["session_id"].(string)
	input, _ := args["word"].(string)

	word, err := sanitize.Word(input)
	if err != nil {
		s.logger.Warn("MCP Choose: Input rejected", "err", err, "size", len(input))
		return domain.Turn{}, fmt.Errorf("input rejected: %w", err)
	}

	state, err := s.sessions.Update(ctx, sessionID, func(ctx context.Context, current *domain.State) (*domain.State, error) {
		return s.engine.Choose(ctx, current, word)
	})
	if err != nil {
		return domain.Turn{}, fmt.Errorf("choose failed: %w", err)
	}
	return *domain.TurnFor(state), nil
}

func (s *Server) handleGetTurn(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Turn, error) {
	sessionID, _ := args["session_id"].(string)
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return domain.Turn{}, err
	}
	return *domain.TurnFor(state), nil
}

func (s *Server) chainsJSON(ctx context.Context) (string, error) {
	ids, err := s.engine.Chains(ctx)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(map[string][]string{"chains": ids})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Server) registerResources() {
	// EXPOSE: stanza://chains
	s.mcpServer.AddResource(mcp.NewResource(ChainsURI, "Available Chains",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.chainsJSON(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list chains: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ChainsURI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	})
}
