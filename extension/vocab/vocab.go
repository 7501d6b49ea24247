// Package vocab provides the vocabulary extension for relate.
// It registers the candidates command.
//
// The vocabulary answers "what could this object legally reference?" by
// running a ruleset's vocabulary chain over the catalogue. UIs use it to
// populate pickers; here it doubles as a dry run for "relate ref add".
package vocab

import (
	"fmt"

	"github.com/relate-io/relate/cmd"
	"github.com/relate-io/relate/extension"
	"github.com/relate-io/relate/internal/format"
	"github.com/relate-io/relate/internal/log"
	"github.com/relate-io/relate/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the vocab extension.
type Extension struct {
	svc service.Service
}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "vocab" - this extension answers candidate queries.
func (e *Extension) Name() string { return "vocab" }

// Init receives the shared service from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	return nil
}

// Commands returns the candidates command.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newCandidatesCmd(),
	}
}

// MCPTools returns nil - vocab MCP tools are provided by internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

func (e *Extension) newCandidatesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "candidates <source>",
		Short: "List legal reference targets for a source",
		Long: `List the objects a source could legally reference under a ruleset.

  relate candidates site/front-page
  relate candidates site/front-page --ruleset illustrates

When no rule in the ruleset provides a vocabulary, every active object
except the source is a candidate. The source can be a path or key.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runCandidates,
	}
	c.Flags().StringP(extension.FlagRuleset, "r", "", "Ruleset (default: configured default)")
	c.Flags().Bool(extension.FlagPathsOnly, false, "Output paths only")
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Limit number of candidates (0 = no limit)")
	return c
}

func (e *Extension) runCandidates(c *cobra.Command, args []string) error {
	ctx := c.Context()
	rulesetName, _ := c.Flags().GetString(extension.FlagRuleset)
	pathsOnly, _ := c.Flags().GetBool(extension.FlagPathsOnly)
	limit, _ := c.Flags().GetInt(extension.FlagLimit)

	source, err := e.svc.Resolve(ctx, args[0], false)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("resolve %q: %w", args[0], err))
	}

	cands, err := e.svc.Candidates(ctx, rulesetName, source.Path)

	log.Event("vocab:candidates", "candidates").
		Author(cmd.Author()).
		Ruleset(rulesetName).
		Path(source.Path).
		Detail("count", len(cands)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("candidates for %q: %w", source.Path, err))
	}

	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}

	if cmd.JSON() {
		type candidateJSON struct {
			Path  string `json:"path"`
			Kind  string `json:"kind"`
			Title string `json:"title,omitempty"`
		}
		js := make([]candidateJSON, len(cands))
		for i, cand := range cands {
			js[i] = candidateJSON{Path: cand.Path, Kind: cand.Kind, Title: cand.Title}
		}
		return cmd.PrintJSON(js)
	}

	if pathsOnly {
		for _, cand := range cands {
			fmt.Fprintln(cmd.Out(), cand.Path)
		}
		return nil
	}

	return format.Candidates(cmd.Out(), cands)
}
