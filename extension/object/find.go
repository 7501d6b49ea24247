// find.go implements the "relate object find" command for catalogue search.
//
// Separated from ls.go because find queries indexed fields rather than
// walking a prefix. Terms on different fields are AND'd; repeated terms on
// the same field are OR'd, matching how rules resolve their allow-lists.

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

func (e *Extension) newFindCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "find",
		Short: "Search the catalogue by indexed fields",
		Long: `Search active objects by kind, path prefix, or title.

  relate object find --kind Document
  relate object find --kind Document --kind Image   # either kind
  relate object find --kind Document --path site/   # both must match`,
		RunE: e.runFind,
	}
	c.Flags().StringArrayP(extension.FlagKind, "k", nil, "Match kind (repeatable, OR'd)")
	c.Flags().StringArrayP(extension.FlagPath, "p", nil, "Match path prefix (repeatable, OR'd)")
	c.Flags().StringArrayP(extension.FlagTitle, "T", nil, "Match title substring (repeatable, OR'd)")
	c.Flags().BoolP(extension.FlagLong, "l", false, "Long format with key, kind, and title")
	return c
}

func (e *Extension) runFind(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	kinds, _ := c.Flags().GetStringArray(extension.FlagKind)
	paths, _ := c.Flags().GetStringArray(extension.FlagPath)
	titles, _ := c.Flags().GetStringArray(extension.FlagTitle)
	long, _ := c.Flags().GetBool(extension.FlagLong)

	terms := map[string][]string{}
	if len(kinds) > 0 {
		terms["kind"] = kinds
	}
	if len(paths) > 0 {
		terms["path"] = paths
	}
	if len(titles) > 0 {
		terms["title"] = titles
	}
	if len(terms) == 0 {
		return cmd.PrintJSONError(fmt.Errorf("object find requires at least one of --kind, --path, --title"))
	}

	objs, err := e.svc.SearchObjects(ctx, terms)

	log.Event("object:find", "search").
		Author(cmd.Author()).
		Detail("terms", len(terms)).
		Detail("count", len(objs)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("object find: %w", err))
	}

	if cmd.JSON() {
		js := make([]store.ObjectJSON, len(objs))
		for i, o := range objs {
			js[i] = o.ToJSON()
		}
		return cmd.PrintJSON(js)
	}

	if long {
		return format.ObjectsLong(cmd.Out(), objs)
	}
	return format.Objects(cmd.Out(), objs)
}
