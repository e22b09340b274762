package main

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/roadmap/pkg/export"
	"github.com/vanderheijden86/roadmap/pkg/render"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
	"github.com/vanderheijden86/roadmap/pkg/viewer"

	"github.com/spf13/cobra"
)

// roleSummary is one row of "roadmap roles".
type roleSummary struct {
	ID          roadmap.RoleID `json:"id"`
	Label       string         `json:"label"`
	Description string         `json:"description,omitempty"`
	Nodes       int            `json:"nodes"`
	Completed   int            `json:"completed"`
	Default     bool           `json:"default,omitempty"`
}

func summarizeRoles(ds *roadmap.Dataset) []roleSummary {
	def := ds.Resolve(ds.Default)
	out := make([]roleSummary, 0, len(ds.Roles))
	for _, r := range ds.Roles {
		if !ds.Has(r.ID) {
			continue
		}
		g := ds.Graphs[r.ID]
		out = append(out, roleSummary{
			ID:          r.ID,
			Label:       r.Label,
			Description: r.Description,
			Nodes:       len(g.Nodes),
			Completed:   g.StatusCounts()[roadmap.StatusCompleted],
			Default:     r.ID == def,
		})
	}
	return out
}

func newRolesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "roles",
		Short:   "List the career roles",
		GroupID: "data",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.dataset()
			if err != nil {
				return err
			}
			rows := summarizeRoles(ds)
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "KEY\tID\tLABEL\tFOCUS\tPROGRESS")
			for i, r := range rows {
				key := " "
				if i < 10 {
					key = fmt.Sprint((i + 1) % 10)
				}
				id := string(r.ID)
				if r.Default {
					id += "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\n", key, id, r.Label, r.Description, r.Completed, r.Nodes)
			}
			return w.Flush()
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var layout string
	cmd := &cobra.Command{
		Use:     "show <role> [node]",
		Short:   "Show a role's stages, or the details of one stage",
		GroupID: "views",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.dataset()
			if err != nil {
				return err
			}
			role, err := a.role(ds, args[0])
			if err != nil {
				return err
			}
			g := ds.Graph(role)

			if len(args) == 2 {
				n, ok := g.Node(args[1])
				if !ok {
					return fmt.Errorf("role %s has no stage %q", role, args[1])
				}
				d := viewer.NewDetail(role, n)
				if a.jsonOutput {
					return printJSON(cmd.OutOrStdout(), d)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(d.Plain(), "\n"))
				return err
			}

			if a.jsonOutput {
				mode, err := a.layout(layout)
				if err != nil {
					return err
				}
				scene := render.BuildScene(g, mode, render.Options{})
				doc := export.NewGraphDocument(g, scene, export.Options{Mode: mode, RoleLabel: ds.RoleLabel(role)})
				return printJSON(cmd.OutOrStdout(), doc)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n\n", ds.RoleLabel(role), role)
			w := newTable(out)
			fmt.Fprintln(w, "ID\tSTATUS\tLABEL\tAFTER")
			for _, n := range g.Nodes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.ID, n.Status, clip(n.Label, 32), strings.Join(g.Parents(n.ID), ", "))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&layout, "layout", "l", "", "layout for --json positions: tree or timeline")
	return cmd
}

func newOrderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "order [role]",
		Short:   "List a role's stages in learning order",
		GroupID: "data",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.dataset()
			if err != nil {
				return err
			}
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			role, err := a.role(ds, arg)
			if err != nil {
				return err
			}
			order, err := roadmap.LearningOrder(ds.Graph(role))
			if err != nil {
				return fmt.Errorf("%s: %w", role, err)
			}
			if a.jsonOutput {
				ids := make([]string, len(order))
				for i, n := range order {
					ids[i] = n.ID
				}
				return printJSON(cmd.OutOrStdout(), ids)
			}
			out := cmd.OutOrStdout()
			for i, n := range order {
				fmt.Fprintf(out, "%2d. %-10s %s [%s]\n", i+1, n.ID, n.Label, n.Status)
			}
			return nil
		},
	}
}
