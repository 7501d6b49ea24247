// show.go implements the "relate object show" command for object inspection.
//
// Separated from object.go to isolate path-or-key resolution and the
// reference summary attached to the output.

package object

import (
	"fmt"
	"time"

	"github.com/relate-io/relate/cmd"
	"github.com/relate-io/relate/extension"
	"github.com/relate-io/relate/internal/log"
	"github.com/relate-io/relate/internal/store"
	"github.com/spf13/cobra"
)

// showResult combines an object with the references touching it.
type showResult struct {
	Object     store.ObjectJSON      `json:"object"`
	References []store.ReferenceJSON `json:"references,omitempty"`
}

func (e *Extension) newShowCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "show <path|key>",
		Short: "Show a catalogued object and its references",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runShow,
	}
	c.Flags().BoolP(extension.FlagDeleted, "D", false, "Include soft-deleted objects")
	return c
}

func (e *Extension) runShow(c *cobra.Command, args []string) error {
	ctx := c.Context()
	includeDeleted, _ := c.Flags().GetBool(extension.FlagDeleted)

	obj, err := e.svc.Resolve(ctx, args[0], includeDeleted)

	log.Event("object:show", "show").
		Author(cmd.Author()).
		Path(args[0]).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("object show %q: %w", args[0], err))
	}

	refs, err := e.svc.ListReferences(ctx, obj.Path, "")
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("object show %q: list references: %w", args[0], err))
	}

	if cmd.JSON() {
		res := showResult{Object: obj.ToJSON()}
		for _, r := range refs {
			res.References = append(res.References, r.ToJSON())
		}
		return cmd.PrintJSON(res)
	}

	fmt.Fprintf(cmd.Out(), "Path:   %s\n", obj.Path)
	fmt.Fprintf(cmd.Out(), "Key:    %s\n", obj.Key)
	fmt.Fprintf(cmd.Out(), "Kind:   %s\n", obj.Kind)
	if obj.Title != "" {
		fmt.Fprintf(cmd.Out(), "Title:  %s\n", obj.Title)
	}
	fmt.Fprintf(cmd.Out(), "Added:  %s\n", time.Unix(obj.CreatedAt, 0).Format("2006-01-02 15:04"))
	if obj.DeletedAt != nil {
		fmt.Fprintf(cmd.Out(), "Deleted: %s\n", time.Unix(*obj.DeletedAt, 0).Format("2006-01-02 15:04"))
	}

	if len(refs) > 0 {
		fmt.Fprintf(cmd.Out(), "\nReferences (%d):\n", len(refs))
		for _, r := range refs {
			arrow := "->"
			other := r.TargetPath
			if r.TargetPath == obj.Path {
				arrow = "<-"
				other = r.SourcePath
			}
			fmt.Fprintf(cmd.Out(), "  %s  %s  %s %s\n", r.ID, r.Ruleset, arrow, other)
		}
	}
	return nil
}
