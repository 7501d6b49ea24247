// Package kind provides the kind extension for relate.
// It registers the kind command with subcommands: add, ls, rm, caps.
//
// Kinds are the content types objects carry (Document, Image). Each kind
// optionally provides capabilities, which capability-variant rules resolve
// to concrete kinds at validation time.
package kind

import (
	"fmt"
	"strings"

	"github.com/relate-io/relate/cmd"
	"github.com/relate-io/relate/extension"
	"github.com/relate-io/relate/internal/format"
	"github.com/relate-io/relate/internal/log"
	"github.com/relate-io/relate/internal/service"
	"github.com/relate-io/relate/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the kind extension.
type Extension struct {
	svc service.Service
}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "kind" - this extension manages the kind registry.
func (e *Extension) Name() string { return "kind" }

// Init receives the shared service from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the kind command with its subcommands.
func (e *Extension) Commands() []*cobra.Command {
	c := &cobra.Command{
		Use:   "kind",
		Short: "Manage the kind registry",
		Long:  `Register, list, and remove content kinds and their capabilities.`,
	}
	c.AddCommand(e.newAddCmd())
	c.AddCommand(e.newLsCmd())
	c.AddCommand(e.newRmCmd())
	c.AddCommand(e.newCapsCmd())
	return []*cobra.Command{c}
}

// MCPTools returns nil - kind MCP tools are provided by internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

func (e *Extension) newAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a kind",
		Long: `Register a content kind with optional capabilities.

  relate kind add Document --title "Document" -c searchable -c printable
  relate kind add Image -c searchable

Re-adding a kind replaces its title and capabilities.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runAdd,
	}
	c.Flags().StringP(extension.FlagTitle, "T", "", "Display title")
	c.Flags().StringArrayP(extension.FlagCapability, "c", nil, "Capability this kind provides (repeatable)")
	return c
}

func (e *Extension) runAdd(c *cobra.Command, args []string) error {
	ctx := c.Context()
	name := args[0]
	title, _ := c.Flags().GetString(extension.FlagTitle)
	caps, _ := c.Flags().GetStringArray(extension.FlagCapability)

	err := e.svc.PutKind(ctx, name, title, caps)

	log.Event("kind:add", "put").
		Author(cmd.Author()).
		Detail("kind", name).
		Detail("capabilities", strings.Join(caps, ",")).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("kind add %q: %w", name, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Registered kind %s\n", name)
	}
	return cmd.PrintJSON(map[string]any{"name": name, "capabilities": caps})
}

func (e *Extension) newLsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ls",
		Short: "List registered kinds",
		RunE:  e.runLs,
	}
	c.Flags().StringP(extension.FlagCapability, "c", "", "Only kinds providing this capability")
	return c
}

func (e *Extension) runLs(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	capability, _ := c.Flags().GetString(extension.FlagCapability)

	kinds, err := e.svc.ListKinds(ctx)

	log.Event("kind:ls", "list").
		Author(cmd.Author()).
		Detail("count", len(kinds)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("kind ls: %w", err))
	}

	if capability != "" {
		names, err := e.svc.KindsProviding(ctx, []string{capability})
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("kind ls --capability %q: %w", capability, err))
		}
		keep := make(map[string]bool, len(names))
		for _, n := range names {
			keep[n] = true
		}
		filtered := kinds[:0]
		for _, k := range kinds {
			if keep[k.Name] {
				filtered = append(filtered, k)
			}
		}
		kinds = filtered
	}

	if cmd.JSON() {
		js := make([]store.KindJSON, len(kinds))
		for i, k := range kinds {
			js[i] = k.ToJSON()
		}
		return cmd.PrintJSON(js)
	}

	return format.Kinds(cmd.Out(), kinds)
}

func (e *Extension) newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Unregister a kind",
		Long: `Unregister a kind and its capability associations.

Objects carrying the kind stay catalogued. Rules naming the kind simply
stop matching; run "relate ref check" to surface references that relied
on it.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runRm,
	}
}

func (e *Extension) runRm(c *cobra.Command, args []string) error {
	ctx := c.Context()
	name := args[0]

	err := e.svc.RemoveKind(ctx, name)

	log.Event("kind:rm", "remove").
		Author(cmd.Author()).
		Detail("kind", name).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("kind rm %q: %w", name, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Removed kind %s\n", name)
	}
	return cmd.PrintJSON(map[string]string{"name": name})
}

func (e *Extension) newCapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "caps",
		Short: "List all capabilities",
		Long:  `List every distinct capability any registered kind provides.`,
		RunE:  e.runCaps,
	}
}

func (e *Extension) runCaps(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	caps, err := e.svc.ListCapabilities(ctx)

	log.Event("kind:caps", "list").
		Author(cmd.Author()).
		Detail("count", len(caps)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("kind caps: %w", err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(caps)
	}

	for _, capability := range caps {
		fmt.Fprintln(cmd.Out(), capability)
	}
	return nil
}
