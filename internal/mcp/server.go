// Package mcp implements the Model Context Protocol server, exposing relate
// operations to LLMs. This enables AI assistants to manage the catalogue,
// configure rules, and create references through a standardised protocol.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/relate-io/relate/internal/relation"
	"github.com/relate-io/relate/internal/repo"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// ErrNotInitialised is returned by tools when the store has not been initialised.
// The LLM should call relate_init to create a store before using other tools.
const ErrNotInitialised = "store not initialised - call relate_init first"

// Serve starts the MCP server over stdio, enabling LLM integration.
// Uses stdio transport for compatibility with Claude Desktop and other MCP clients.
//
// Design: The server starts successfully even if no store exists. This allows
// LLMs to call relate_init to create a store, rather than failing with an
// opaque error. Tools that require a store return ErrNotInitialised with
// clear guidance.
func Serve(db string) error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	h := &handlers{db: db}

	// Try to open existing store; nil service is OK (uninitialised mode)
	svc, err := relation.New(db)
	if err != nil && !errors.Is(err, repo.ErrNotInitialised) {
		// Real error (not just uninitialised)
		slog.Error("failed to open store", "error", err)
		return err
	}
	if err == nil {
		h.svc = svc
		defer svc.Close()
	} else {
		slog.Info("relate not initialised, starting in uninitialised mode - call relate_init to create store")
	}

	s := server.NewMCPServer(
		"relate",
		Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	registerResources(s, h)
	registerTools(s, h)

	slog.Info("relate MCP server ready", "version", Version, "transport", "stdio")

	err = server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// handlers provides MCP request handlers with access to the relation store.
// The svc field may be nil if the store has not been initialised.
type handlers struct {
	db  string            // database name for init
	svc *relation.Service // nil if not initialised
}

// requireInit returns an error result if the store is not initialised.
// Tools that require a store should call this first.
func (h *handlers) requireInit() *mcp.CallToolResult {
	if h.svc == nil {
		return mcp.NewToolResultError(ErrNotInitialised)
	}
	return nil
}

// registerResources adds URI-based resource access for guide pages.
func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"relate://guide/{name}",
			"Guide",
			mcp.WithTemplateDescription("Read a relate guide page by name"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		h.readGuideResource,
	)
}

// registerTools exposes relate operations as MCP tools for LLM invocation.
func registerTools(s *server.MCPServer, h *handlers) {
	// Init - works without existing store
	s.AddTool(
		mcp.NewTool("relate_init",
			mcp.WithDescription("Initialise a new relate store. Call this first if other tools return 'store not initialised'."),
			mcp.WithBoolean("local", mcp.Description("If true, database is gitignored (not committed to version control)")),
		),
		h.initStore,
	)

	// Catalogue
	s.AddTool(
		mcp.NewTool("relate_object_add",
			mcp.WithDescription("Catalogue an object at a path with its kind. Re-adding updates kind and title."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Object path (e.g., site/front-page)")),
			mcp.WithString("kind", mcp.Required(), mcp.Description("Content kind (e.g., Document)")),
			mcp.WithString("title", mcp.Description("Display title")),
		),
		h.objectAdd,
	)

	s.AddTool(
		mcp.NewTool("relate_object_list",
			mcp.WithDescription("List catalogued objects"),
			mcp.WithString("prefix", mcp.Description("Filter by path prefix")),
			mcp.WithBoolean("deleted_only", mcp.Description("Show only soft-deleted objects")),
		),
		h.objectList,
	)

	s.AddTool(
		mcp.NewTool("relate_object_search",
			mcp.WithDescription("Search active objects by indexed fields. Values within a field are OR'd, fields are AND'd."),
			mcp.WithArray("kinds", mcp.Description("Match any of these kinds")),
			mcp.WithArray("paths", mcp.Description("Match any of these path prefixes")),
			mcp.WithArray("titles", mcp.Description("Match any of these title substrings")),
		),
		h.objectSearch,
	)

	s.AddTool(
		mcp.NewTool("relate_object_remove",
			mcp.WithDescription("Soft-delete a catalogued object. References touching it are soft-deleted too."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Object path or key")),
		),
		h.objectRemove,
	)

	s.AddTool(
		mcp.NewTool("relate_object_restore",
			mcp.WithDescription("Restore a soft-deleted object"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Object path or key")),
		),
		h.objectRestore,
	)

	// Kind registry
	s.AddTool(
		mcp.NewTool("relate_kind_put",
			mcp.WithDescription("Register a content kind with its capabilities, replacing any previous registration"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Kind name (e.g., Document)")),
			mcp.WithString("title", mcp.Description("Display title")),
			mcp.WithArray("capabilities", mcp.Description("Capabilities this kind provides")),
		),
		h.kindPut,
	)

	s.AddTool(
		mcp.NewTool("relate_kind_list",
			mcp.WithDescription("List registered kinds with their capabilities"),
		),
		h.kindList,
	)

	s.AddTool(
		mcp.NewTool("relate_kind_remove",
			mcp.WithDescription("Unregister a kind. Objects carrying it stay catalogued; run relate_check for fallout."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Kind name")),
		),
		h.kindRemove,
	)

	// Rulesets and rules
	s.AddTool(
		mcp.NewTool("relate_ruleset_put",
			mcp.WithDescription("Create a ruleset (relation type), or retitle an existing one"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Ruleset name (e.g., illustrates)")),
			mcp.WithString("title", mcp.Description("Display title used in validation messages")),
		),
		h.rulesetPut,
	)

	s.AddTool(
		mcp.NewTool("relate_ruleset_list",
			mcp.WithDescription("List rulesets with their rule counts"),
		),
		h.rulesetList,
	)

	s.AddTool(
		mcp.NewTool("relate_ruleset_remove",
			mcp.WithDescription("Remove a ruleset, its rules, and (soft-delete) its references"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Ruleset name")),
		),
		h.rulesetRemove,
	)

	s.AddTool(
		mcp.NewTool("relate_rule_put",
			mcp.WithDescription("Add or replace a constraint rule in a ruleset. Empty source/target lists mean unrestricted."),
			mcp.WithString("ruleset", mcp.Description("Owning ruleset (default: configured default)")),
			mcp.WithString("name", mcp.Required(), mcp.Description("Rule name, unique within the ruleset")),
			mcp.WithString("variant", mcp.Required(), mcp.Description("Rule variant: 'kind' or 'capability'")),
			mcp.WithArray("sources", mcp.Description("Allowed source kinds/capabilities")),
			mcp.WithArray("targets", mcp.Description("Allowed target kinds/capabilities")),
			mcp.WithNumber("position", mcp.Description("Evaluation position (0 = append)")),
		),
		h.rulePut,
	)

	s.AddTool(
		mcp.NewTool("relate_rule_list",
			mcp.WithDescription("List a ruleset's rules in evaluation order"),
			mcp.WithString("ruleset", mcp.Description("Ruleset name (default: configured default)")),
		),
		h.ruleList,
	)

	s.AddTool(
		mcp.NewTool("relate_rule_remove",
			mcp.WithDescription("Remove a rule from a ruleset. Existing references are kept."),
			mcp.WithString("ruleset", mcp.Description("Ruleset name (default: configured default)")),
			mcp.WithString("name", mcp.Required(), mcp.Description("Rule name")),
		),
		h.ruleRemove,
	)

	// References
	s.AddTool(
		mcp.NewTool("relate_ref_add",
			mcp.WithDescription("Create a directed reference from source to target. Every rule in the ruleset validates the pair; all failures are reported together."),
			mcp.WithString("source", mcp.Required(), mcp.Description("Source object path or key")),
			mcp.WithString("target", mcp.Required(), mcp.Description("Target object path or key")),
			mcp.WithString("ruleset", mcp.Description("Governing ruleset (default: configured default)")),
		),
		h.refAdd,
	)

	s.AddTool(
		mcp.NewTool("relate_ref_remove",
			mcp.WithDescription("Remove a reference by ID"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reference ID")),
		),
		h.refRemove,
	)

	s.AddTool(
		mcp.NewTool("relate_ref_list",
			mcp.WithDescription("List references touching an object, or all references in a ruleset"),
			mcp.WithString("path", mcp.Description("Object path or key (either direction)")),
			mcp.WithString("ruleset", mcp.Description("Filter by ruleset")),
		),
		h.refList,
	)

	s.AddTool(
		mcp.NewTool("relate_candidates",
			mcp.WithDescription("List the objects a source could legally reference under a ruleset. Use this before relate_ref_add when unsure what a ruleset allows."),
			mcp.WithString("source", mcp.Required(), mcp.Description("Source object path or key")),
			mcp.WithString("ruleset", mcp.Description("Ruleset (default: configured default)")),
		),
		h.candidates,
	)

	s.AddTool(
		mcp.NewTool("relate_check",
			mcp.WithDescription("Re-validate existing references against current rules, reporting those that no longer satisfy their ruleset"),
			mcp.WithString("ruleset", mcp.Description("Check one ruleset (default: all)")),
			mcp.WithString("path", mcp.Description("Only references touching this path")),
		),
		h.check,
	)

	// Operational
	s.AddTool(
		mcp.NewTool("relate_stats",
			mcp.WithDescription("Get database statistics: object, kind, ruleset, rule, and reference counts"),
		),
		h.stats,
	)

	s.AddTool(
		mcp.NewTool("relate_config_get",
			mcp.WithDescription("Get a configuration value"),
			mcp.WithString("key", mcp.Description("Config key (author.name, defaults.ruleset, limits.max_path) or empty for all")),
		),
		h.configGet,
	)

	s.AddTool(
		mcp.NewTool("relate_config_set",
			mcp.WithDescription("Set a configuration value"),
			mcp.WithString("key", mcp.Required(), mcp.Description("Config key (author.name, defaults.ruleset, limits.max_path)")),
			mcp.WithString("value", mcp.Required(), mcp.Description("Value to set")),
		),
		h.configSet,
	)

	s.AddTool(
		mcp.NewTool("relate_guide",
			mcp.WithDescription("Get help/guide content for relate usage"),
			mcp.WithString("topic", mcp.Description("Guide topic (e.g., 'rules', 'config', 'mcp') or empty for the main guide")),
		),
		h.getGuide,
	)
}
