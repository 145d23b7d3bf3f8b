package mcp

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/nudge/internal/config"
	"github.com/hpungsan/nudge/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"habit_prompt": {
		def:     promptToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePrompt },
	},
	"habit_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"habit_interpret": {
		def:     interpretToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInterpret },
	},
}

// AllToolNames returns all valid tool names, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with the habit tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(store ops.Store, interp ops.Interpreter, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"nudge",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(store, interp)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	// Register tools (skip disabled)
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(store ops.Store, interp ops.Interpreter, cfg *config.Config, version string) error {
	s := NewServer(store, interp, cfg, version)
	return server.ServeStdio(s)
}
