// rm.go implements "relate object rm" and "relate object restore".
//
// Separated from object.go to isolate soft-delete semantics.
//
// Design: Removal is a soft-delete so mistakes are recoverable until vacuum.
// References touching the object are cleaned up by the ref extension through
// the event system rather than here, keeping catalogue and reference
// maintenance decoupled.

package object

import (
	"fmt"

	"github.com/relate-io/relate/cmd"
	"github.com/relate-io/relate/internal/log"
	"github.com/spf13/cobra"
)

// rmResult contains the outcome of a remove or restore.
type rmResult struct {
	Path string `json:"path"`
}

func (e *Extension) newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path|key>",
		Short: "Remove an object from the catalogue",
		Long: `Soft-delete a catalogued object.

References touching the object are soft-deleted as well. Both can be
recovered with "relate object restore" and "relate ref check" until vacuum
permanently removes them.`,
		Args: cobra.ExactArgs(1),
		RunE: e.runRm,
	}
}

func (e *Extension) runRm(c *cobra.Command, args []string) error {
	ctx := c.Context()

	obj, err := e.svc.Resolve(ctx, args[0], false)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("object rm %q: %w", args[0], err))
	}

	err = e.svc.RemoveObject(ctx, obj.Path)

	log.Event("object:rm", "remove").
		Author(cmd.Author()).
		Path(obj.Path).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("object rm %q: %w", args[0], err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Removed %s\n", obj.Path)
	}
	return cmd.PrintJSON(rmResult{Path: obj.Path})
}

func (e *Extension) newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <path|key>",
		Short: "Restore a soft-deleted object",
		Long: `Restore a soft-deleted object to the catalogue.

References removed alongside the object are not restored automatically;
recreate them with "relate ref add".`,
		Args: cobra.ExactArgs(1),
		RunE: e.runRestore,
	}
}

func (e *Extension) runRestore(c *cobra.Command, args []string) error {
	ctx := c.Context()

	obj, err := e.svc.Resolve(ctx, args[0], true)
	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("object restore %q: %w", args[0], err))
	}

	err = e.svc.RestoreObject(ctx, obj.Path)

	log.Event("object:restore", "restore").
		Author(cmd.Author()).
		Path(obj.Path).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("object restore %q: %w", args[0], err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Restored %s\n", obj.Path)
	}
	return cmd.PrintJSON(rmResult{Path: obj.Path})
}
