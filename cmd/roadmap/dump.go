package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/roadmap/pkg/loader"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"

	"github.com/spf13/cobra"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		format string
		output string
		roles  []string
	)
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the dataset as an editable YAML, JSON or TOML file",
		Long: `Write the current dataset (built-in roadmaps plus any dataset file)
in the dataset file format. The result can be edited and loaded back
with --dataset or by saving it as roadmap.yaml in the working directory.`,
		GroupID: "data",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.dataset()
			if err != nil {
				return err
			}

			f := loader.FormatYAML
			switch {
			case format != "":
				f, err = loader.ParseFormat(format)
			case output != "":
				f, err = loader.FormatFromPath(output)
			}
			if err != nil {
				return err
			}

			if len(roles) > 0 {
				ds, err = subset(a, ds, roles)
				if err != nil {
					return err
				}
			}

			if output == "" {
				return loader.Encode(cmd.OutOrStdout(), ds, f)
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("create parent dir: %w", err)
			}
			file, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := loader.Encode(file, ds, f); err != nil {
				file.Close()
				return err
			}
			return file.Close()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "yaml, json or toml (default from -o, else yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "only these roles (repeatable)")
	return cmd
}

// subset keeps the named roles of ds. The first one becomes the default.
func subset(a *app, ds *roadmap.Dataset, ids []string) (*roadmap.Dataset, error) {
	out := &roadmap.Dataset{Graphs: make(map[roadmap.RoleID]roadmap.Graph, len(ids))}
	for _, arg := range ids {
		id, err := a.role(ds, arg)
		if err != nil {
			return nil, err
		}
		if r, ok := ds.Role(id); ok {
			out.Roles = append(out.Roles, r)
		}
		out.Graphs[id] = ds.Graphs[id]
		if out.Default == "" {
			out.Default = id
		}
	}
	return out, nil
}
