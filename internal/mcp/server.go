// Package mcp exposes suggestions and the command libraries as MCP tools.
package mcp

import (
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ishfaqbuilds/commandghost/internal/config"
	"github.com/ishfaqbuilds/commandghost/internal/settings"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"suggest", "command", "category", "prefs"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"suggest_show": {
		def:     suggestShowToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSuggestShow },
	},
	"suggest_current": {
		def:     suggestCurrentToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSuggestCurrent },
	},
	"suggest_hide": {
		def:     suggestHideToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSuggestHide },
	},
	"suggest_enabled": {
		def:     suggestEnabledToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSuggestEnabled },
	},
	"suggest_toggle": {
		def:     suggestToggleToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSuggestToggle },
	},
	"command_list": {
		def:     commandListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCommandList },
	},
	"command_add": {
		def:     commandAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCommandAdd },
	},
	"command_edit": {
		def:     commandEditToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCommandEdit },
	},
	"command_delete": {
		def:     commandDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCommandDelete },
	},
	"command_export": {
		def:     commandExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCommandExport },
	},
	"command_import": {
		def:     commandImportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCommandImport },
	},
	"command_reset": {
		def:     commandResetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCommandReset },
	},
	"category_list": {
		def:     categoryListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCategoryList },
	},
	"category_create": {
		def:     categoryCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCategoryCreate },
	},
	"category_rename": {
		def:     categoryRenameToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCategoryRename },
	},
	"category_delete": {
		def:     categoryDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCategoryDelete },
	},
	"prefs_get": {
		def:     prefsGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePrefsGet },
	},
	"prefs_set": {
		def:     prefsSetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePrefsSet },
	},
}

// AllToolNames returns every tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
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

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if !slices.Contains(KnownTypes, name) {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "command_add" → "command").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}
	tools := make([]string, 0)
	for _, name := range AllToolNames() {
		if slices.Contains(types, GetTypeForTool(name)) {
			tools = append(tools, name)
		}
	}
	return tools
}

// enabledTools returns the registered tool names after applying
// cfg.DisabledTypes and cfg.DisabledTools.
func enabledTools(cfg *config.Config) []string {
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	var names []string
	for _, name := range AllToolNames() {
		if !disabled[name] {
			names = append(names, name)
		}
	}
	return names
}

// NewServer creates an MCP server with the ghost tools registered.
func NewServer(s settings.Settings, cfg *config.Config, version string) *server.MCPServer {
	srv := server.NewMCPServer(
		"commandghost",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	h := NewHandlers(s, cfg)
	for _, name := range enabledTools(cfg) {
		entry := toolRegistry[name]
		srv.AddTool(entry.def, entry.handler(h))
	}
	return srv
}

// Run serves the tools over stdio until stdin closes.
func Run(s settings.Settings, cfg *config.Config, version string) error {
	return server.ServeStdio(NewServer(s, cfg, version))
}
