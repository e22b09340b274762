package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vanderheijden86/roadmap/pkg/export"
	"github.com/vanderheijden86/roadmap/pkg/hooks"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"

	"github.com/spf13/cobra"
)

type exportFlags struct {
	output   string
	format   string
	layout   string
	all      bool
	dir      string
	title    string
	selected string
	width    int
	height   int
	noHooks  bool
}

func newExportCmd(a *app) *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export [role]",
		Short: "Write a roadmap as SVG, PNG, Mermaid, JSON or SQLite",
		Long: `Write a role's graph to a file, or to stdout when -o is omitted.

  roadmap export frontend -o frontend.svg
  roadmap export sample --layout timeline -o sample.png
  roadmap export --all --dir out --format mermaid
  roadmap export --format sqlite -o roadmap.sqlite3`,
		GroupID: "data",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			return runExport(cmd, a, f, arg)
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "svg, png, mermaid, json or sqlite (default from -o, else svg)")
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "layout: tree or timeline")
	cmd.Flags().BoolVar(&f.all, "all", false, "export every role into --dir")
	cmd.Flags().StringVar(&f.dir, "dir", "roadmap-export", "output directory for --all")
	cmd.Flags().StringVar(&f.title, "title", "", "snapshot title (default \"<role> roadmap\")")
	cmd.Flags().StringVar(&f.selected, "select", "", "stage to mark as selected")
	cmd.Flags().IntVar(&f.width, "width", export.DefaultWidth, "snapshot width in pixels")
	cmd.Flags().IntVar(&f.height, "height", export.DefaultHeight, "snapshot height in pixels")
	cmd.Flags().BoolVar(&f.noHooks, "no-hooks", false, "skip hooks from "+hooks.ConfigFile)
	return cmd
}

func (f exportFlags) resolveFormat() (export.Format, error) {
	switch {
	case f.format != "":
		return export.ParseFormat(f.format)
	case f.output != "":
		return export.FormatFromPath(f.output)
	default:
		return export.FormatSVG, nil
	}
}

func runExport(cmd *cobra.Command, a *app, f exportFlags, roleArg string) error {
	ds, err := a.dataset()
	if err != nil {
		return err
	}
	format, err := f.resolveFormat()
	if err != nil {
		return err
	}
	mode, err := a.layout(f.layout)
	if err != nil {
		return err
	}
	if f.width < export.MinWidth || f.height < export.MinHeight {
		return fmt.Errorf("snapshot size must be at least %dx%d", export.MinWidth, export.MinHeight)
	}
	opts := export.Options{
		Mode:     mode,
		Title:    f.title,
		Selected: f.selected,
		Width:    f.width,
		Height:   f.height,
	}
	out := cmd.OutOrStdout()

	if f.all || !format.PerGraph() {
		if !format.PerGraph() && !f.all {
			if f.output == "" {
				return fmt.Errorf("sqlite export needs -o <file>")
			}
			return withHooks(cmd, f, hookContext(ds, ds.GraphIDs(), f.output, format), func() error {
				if err := export.ExportSQLite(cmd.Context(), f.output, ds); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %s (%d roles)\n", f.output, len(ds.GraphIDs()))
				return nil
			})
		}
		if roleArg != "" || f.output != "" {
			return fmt.Errorf("--all writes every role into --dir; drop the role and -o")
		}
		return withHooks(cmd, f, hookContext(ds, ds.GraphIDs(), f.dir, format), func() error {
			paths, err := export.ExportAll(cmd.Context(), ds, f.dir, format, opts)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(out, p)
			}
			return nil
		})
	}

	role, err := a.role(ds, roleArg)
	if err != nil {
		return err
	}
	g := ds.Graph(role)
	if f.selected != "" {
		if _, ok := g.Node(f.selected); !ok {
			return fmt.Errorf("role %s has no stage %q", role, f.selected)
		}
	}
	opts.RoleLabel = ds.RoleLabel(role)

	// Hooks only run for exports that land in a file.
	if f.output == "" || f.output == "-" {
		bw := bufio.NewWriter(out)
		if err := export.Write(bw, g, format, opts); err != nil {
			return err
		}
		return bw.Flush()
	}
	return withHooks(cmd, f, hookContext(ds, []roadmap.RoleID{role}, f.output, format), func() error {
		if err := export.SaveGraph(f.output, g, format, opts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", filepath.Clean(f.output))
		return nil
	})
}

func hookContext(ds *roadmap.Dataset, roles []roadmap.RoleID, path string, format export.Format) hooks.ExportContext {
	ctx := hooks.ExportContext{
		ExportPath:   path,
		ExportFormat: string(format),
		Timestamp:    time.Now().UTC(),
	}
	if abs, err := filepath.Abs(path); err == nil {
		ctx.ExportPath = abs
	}
	for _, id := range roles {
		ctx.Roles = append(ctx.Roles, string(id))
		ctx.NodeCount += len(ds.Graph(id).Nodes)
	}
	return ctx
}

// withHooks runs write between the project's pre-export and post-export
// hooks. A failing pre-export hook cancels the write.
func withHooks(cmd *cobra.Command, f exportFlags, ctx hooks.ExportContext, write func() error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	exec, err := hooks.RunHooks(cwd, ctx, f.noHooks)
	if err != nil {
		return err
	}
	if exec == nil {
		return write()
	}
	defer func() {
		if s := exec.Summary(); s != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), s)
		}
	}()
	if err := exec.RunPreExport(); err != nil {
		return err
	}
	if err := write(); err != nil {
		return err
	}
	return exec.RunPostExport()
}
