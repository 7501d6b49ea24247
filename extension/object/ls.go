// ls.go implements the "relate object ls" command for listing the catalogue.
//
// Separated from object.go to isolate listing flags and format selection.

package object

import (
	"fmt"

	"github.com/relate-io/relate/cmd"
	"github.com/relate-io/relate/extension"
	"github.com/relate-io/relate/internal/format"
	"github.com/relate-io/relate/internal/log"
	"github.com/relate-io/relate/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newLsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ls [prefix]",
		Short: "List catalogued objects",
		Long:  `List catalogued objects, optionally filtered by path prefix.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  e.runLs,
	}
	c.Flags().BoolP(extension.FlagLong, "l", false, "Long format with key, kind, and title")
	c.Flags().BoolP(extension.FlagDeleted, "D", false, "Show only soft-deleted objects")
	c.Flags().Bool(extension.FlagPathsOnly, false, "Output paths only")
	c.Flags().Bool(extension.FlagCount, false, "Output count only")
	c.Flags().BoolP(extension.FlagTree, "t", false, "Tree format")
	return c
}

func (e *Extension) runLs(c *cobra.Command, args []string) error {
	ctx := c.Context()
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	long, _ := c.Flags().GetBool(extension.FlagLong)
	deletedOnly, _ := c.Flags().GetBool(extension.FlagDeleted)
	pathsOnly, _ := c.Flags().GetBool(extension.FlagPathsOnly)
	countOnly, _ := c.Flags().GetBool(extension.FlagCount)
	tree, _ := c.Flags().GetBool(extension.FlagTree)

	if countOnly {
		n, err := e.svc.CountObjects(ctx, prefix)
		log.Event("object:ls", "count").Author(cmd.Author()).Path(prefix).Write(err)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("object count %q: %w", prefix, err))
		}
		if cmd.JSON() {
			return cmd.PrintJSON(map[string]int64{"count": n})
		}
		fmt.Fprintln(cmd.Out(), n)
		return nil
	}

	objs, err := e.svc.ListObjects(ctx, prefix, deletedOnly, deletedOnly)

	log.Event("object:ls", "list").
		Author(cmd.Author()).
		Path(prefix).
		Detail("count", len(objs)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("object ls %q: %w", prefix, err))
	}

	if cmd.JSON() {
		js := make([]store.ObjectJSON, len(objs))
		for i, o := range objs {
			js[i] = o.ToJSON()
		}
		return cmd.PrintJSON(js)
	}

	switch {
	case pathsOnly:
		return format.Paths(cmd.Out(), objs)
	case tree:
		return format.ObjectTree(cmd.Out(), objs)
	case long:
		return format.ObjectsLong(cmd.Out(), objs)
	default:
		return format.Objects(cmd.Out(), objs)
	}
}
