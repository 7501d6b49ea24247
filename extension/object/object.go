// Package object provides the object extension for catalogue management.
// Registers the object command with subcommands: add, ls, find, show, rm, restore.
//
// Objects are the endpoints of references. relate does not store the objects
// themselves; the catalogue indexes path, kind, and title so rules can be
// evaluated without touching the host system. Each subcommand file is
// separated to isolate its specific flag handling and output formatting.

package object

import (
	"github.com/relate-io/relate/extension"
	"github.com/relate-io/relate/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the object extension.
type Extension struct {
	svc service.Service
}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "object" - this extension manages the object catalogue.
func (e *Extension) Name() string { return "object" }

// Init connects to the shared service for catalogue operations.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the object command with its subcommands.
func (e *Extension) Commands() []*cobra.Command {
	c := &cobra.Command{
		Use:   "object",
		Short: "Manage the object catalogue",
		Long:  `Add, list, inspect, and remove catalogued objects.`,
	}
	c.AddCommand(e.newAddCmd())
	c.AddCommand(e.newLsCmd())
	c.AddCommand(e.newFindCmd())
	c.AddCommand(e.newShowCmd())
	c.AddCommand(e.newRmCmd())
	c.AddCommand(e.newRestoreCmd())
	return []*cobra.Command{c}
}

// MCPTools returns nil - object MCP tools are provided by internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}
