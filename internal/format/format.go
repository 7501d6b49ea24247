// Package format provides output formatting utilities for CLI display.
//
// Centralises formatting logic so that command implementations focus on
// business logic while this package handles presentation concerns like
// column alignment and tree rendering.
package format

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/relate-io/relate/internal/ruleset"
	"github.com/relate-io/relate/internal/service"
	"github.com/relate-io/relate/internal/store"
)

// Objects prints catalogued objects in simple list format.
func Objects(w io.Writer, objs []store.Object) error {
	for _, o := range objs {
		prefix := ""
		if o.DeletedAt != nil {
			prefix = "[deleted] "
		}
		fmt.Fprintf(w, "%s  %s%s\n", o.Key, prefix, o.Path)
	}
	return nil
}

// ObjectsLong prints objects in long format with key, kind, date, and title.
func ObjectsLong(w io.Writer, objs []store.Object) error {
	if len(objs) == 0 {
		return nil
	}

	// Find max path and kind lengths for alignment
	maxPath, maxKind := 4, 4 // minimum "PATH" / "KIND"
	for _, o := range objs {
		if len(o.Path) > maxPath {
			maxPath = len(o.Path)
		}
		if len(o.Kind) > maxKind {
			maxKind = len(o.Kind)
		}
	}

	fmt.Fprintf(w, "%-8s  %-*s  %-*s  %-10s  %s\n", "KEY", maxPath, "PATH", maxKind, "KIND", "ADDED", "TITLE")

	for _, o := range objs {
		date := time.Unix(o.CreatedAt, 0).Format("2006-01-02")
		title := o.Title
		if title == "" {
			title = "-"
		}
		deleted := ""
		if o.DeletedAt != nil {
			deleted = " [deleted]"
		}
		fmt.Fprintf(w, "%s  %-*s  %-*s  %s  %s%s\n", o.Key, maxPath, o.Path, maxKind, o.Kind, date, title, deleted)
	}
	return nil
}

// ObjectTree prints objects as a directory tree.
func ObjectTree(w io.Writer, objs []store.Object) error {
	if len(objs) == 0 {
		return nil
	}

	// Build tree structure
	type node struct {
		name     string
		children map[string]*node
		isObj    bool
		kind     string
		deleted  bool
	}

	root := &node{children: make(map[string]*node)}

	for _, o := range objs {
		parts := strings.Split(o.Path, "/")
		current := root

		for i, part := range parts {
			if current.children[part] == nil {
				current.children[part] = &node{
					name:     part,
					children: make(map[string]*node),
				}
			}
			current = current.children[part]
			if i == len(parts)-1 {
				current.isObj = true
				current.kind = o.Kind
				current.deleted = o.DeletedAt != nil
			}
		}
	}

	// Print tree
	var printNode func(n *node, prefix string)
	printNode = func(n *node, prefix string) {
		names := make([]string, 0, len(n.children))
		for name := range n.children {
			names = append(names, name)
		}
		sort.Strings(names)

		for i, name := range names {
			child := n.children[name]
			last := i == len(names)-1

			connector := "├── "
			if last {
				connector = "└── "
			}

			suffix := ""
			if !child.isObj && len(child.children) > 0 {
				suffix = "/"
			}
			if child.isObj {
				suffix += " (" + child.kind + ")"
			}
			if child.deleted {
				suffix += " [deleted]"
			}

			fmt.Fprintf(w, "%s%s%s%s\n", prefix, connector, name, suffix)

			pfx := prefix
			if last {
				pfx += "    "
			} else {
				pfx += "│   "
			}

			if len(child.children) > 0 {
				printNode(child, pfx)
			}
		}
	}

	printNode(root, "")
	return nil
}

// Kinds prints registered kinds with their capabilities.
func Kinds(w io.Writer, kinds []store.KindInfo) error {
	if len(kinds) == 0 {
		return nil
	}

	maxName := 4 // minimum "KIND"
	for _, k := range kinds {
		if len(k.Name) > maxName {
			maxName = len(k.Name)
		}
	}

	fmt.Fprintf(w, "%-*s  %-20s  %s\n", maxName, "KIND", "TITLE", "CAPABILITIES")
	for _, k := range kinds {
		title := k.Title
		if title == "" {
			title = "-"
		}
		caps := "-"
		if len(k.Capabilities) > 0 {
			caps = strings.Join(k.Capabilities, ", ")
		}
		fmt.Fprintf(w, "%-*s  %-20s  %s\n", maxName, k.Name, title, caps)
	}
	return nil
}

// Rulesets prints rulesets with their rule counts.
func Rulesets(w io.Writer, sets []store.RulesetInfo) error {
	if len(sets) == 0 {
		return nil
	}

	maxName := 7 // minimum "RULESET"
	for _, rs := range sets {
		if len(rs.Name) > maxName {
			maxName = len(rs.Name)
		}
	}

	fmt.Fprintf(w, "%-*s  %5s  %s\n", maxName, "RULESET", "RULES", "TITLE")
	for _, rs := range sets {
		title := rs.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(w, "%-*s  %5d  %s\n", maxName, rs.Name, rs.RuleCount, title)
	}
	return nil
}

// allowList renders a rule allow-list; an empty list means unrestricted.
func allowList(vals []string) string {
	if len(vals) == 0 {
		return "*"
	}
	return strings.Join(vals, ", ")
}

// Rules prints a ruleset's rules in position order.
func Rules(w io.Writer, rules []store.RuleConfig) error {
	if len(rules) == 0 {
		return nil
	}

	maxName := 4 // minimum "NAME"
	for _, r := range rules {
		if len(r.Name) > maxName {
			maxName = len(r.Name)
		}
	}

	fmt.Fprintf(w, "%3s  %-*s  %-10s  %-30s  %s\n", "POS", maxName, "NAME", "VARIANT", "SOURCES", "TARGETS")
	for _, r := range rules {
		fmt.Fprintf(w, "%3d  %-*s  %-10s  %-30s  %s\n",
			r.Position, maxName, r.Name, r.Variant,
			allowList(r.AllowedSources), allowList(r.AllowedTargets))
	}
	return nil
}

// References prints references in list format.
func References(w io.Writer, refs []store.Reference) error {
	if len(refs) == 0 {
		return nil
	}

	maxRuleset, maxSource := 7, 6 // minimum "RULESET" / "SOURCE"
	for _, r := range refs {
		if len(r.Ruleset) > maxRuleset {
			maxRuleset = len(r.Ruleset)
		}
		if len(r.SourcePath) > maxSource {
			maxSource = len(r.SourcePath)
		}
	}

	fmt.Fprintf(w, "%-8s  %-*s  %-*s  %s\n", "ID", maxRuleset, "RULESET", maxSource, "SOURCE", "TARGET")
	for _, r := range refs {
		fmt.Fprintf(w, "%s  %-*s  %-*s  %s\n", r.ID, maxRuleset, r.Ruleset, maxSource, r.SourcePath, r.TargetPath)
	}
	return nil
}

// CheckResults prints references that failed re-validation, one block per
// failure so multi-rule messages stay readable.
func CheckResults(w io.Writer, results []service.CheckResult) error {
	for _, res := range results {
		r := res.Reference
		fmt.Fprintf(w, "%s  %s  %s -> %s\n", r.ID, r.Ruleset, r.SourcePath, r.TargetPath)
		for line := range strings.SplitSeq(res.Err.Error(), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	return nil
}

// Candidates prints vocabulary candidates.
func Candidates(w io.Writer, cands []ruleset.Summary) error {
	if len(cands) == 0 {
		return nil
	}

	maxPath := 4 // minimum "PATH"
	for _, c := range cands {
		if len(c.Path) > maxPath {
			maxPath = len(c.Path)
		}
	}

	fmt.Fprintf(w, "%-*s  %-12s  %s\n", maxPath, "PATH", "KIND", "TITLE")
	for _, c := range cands {
		title := c.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(w, "%-*s  %-12s  %s\n", maxPath, c.Path, c.Kind, title)
	}
	return nil
}

// Paths prints just object paths, one per line.
func Paths(w io.Writer, objs []store.Object) error {
	for _, o := range objs {
		fmt.Fprintln(w, o.Path)
	}
	return nil
}
