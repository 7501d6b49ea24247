// add.go implements the "relate object add" command for cataloguing objects.
//
// Separated from object.go to isolate kind lookup and re-add semantics.
//
// Design: Adding an existing path updates kind and title in place rather
// than erroring. The catalogue mirrors a host system where objects change
// kind or title over time; forcing rm-then-add would soft-delete references
// as a side effect.

package object

import (
	"fmt"

	"github.com/relate-io/relate/cmd"
	"github.com/relate-io/relate/extension"
	"github.com/relate-io/relate/internal/log"
	"github.com/spf13/cobra"
)

// addResult contains the outcome of a catalogue add.
type addResult struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

func (e *Extension) newAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add <path>",
		Short: "Catalogue an object",
		Long: `Catalogue an object at a path with its kind.

  relate object add site/front-page --kind Document
  relate object add site/logo --kind Image --title "Site logo"

Re-adding an existing path updates its kind and title.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runAdd,
	}
	c.Flags().StringP(extension.FlagKind, "k", "", "Object kind (required)")
	c.Flags().StringP(extension.FlagTitle, "T", "", "Display title")
	_ = c.MarkFlagRequired(extension.FlagKind)
	return c
}

func (e *Extension) runAdd(c *cobra.Command, args []string) error {
	ctx := c.Context()
	p := args[0]
	kind, _ := c.Flags().GetString(extension.FlagKind)
	title, _ := c.Flags().GetString(extension.FlagTitle)

	// Warn when the kind isn't registered. Cataloguing still succeeds;
	// kinds can be registered after the fact and rules resolve lazily.
	if _, err := e.svc.Kind(ctx, kind); err != nil && !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "warning: kind %q is not registered (see 'relate kind add')\n", kind)
	}

	err := e.svc.AddObject(ctx, p, kind, title)

	log.Event("object:add", "add").
		Author(cmd.Author()).
		Path(p).
		Detail("kind", kind).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("object add %q: %w", p, err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Catalogued %s (%s)\n", p, kind)
	}
	return cmd.PrintJSON(addResult{Path: p, Kind: kind})
}
