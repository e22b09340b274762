package main

import (
	"errors"
	"fmt"

	"github.com/vanderheijden86/roadmap/pkg/roadmap"

	"github.com/spf13/cobra"
)

// errCheckFailed makes "check" exit non-zero after printing its report.
var errCheckFailed = errors.New("dataset has errors")

type checkReport struct {
	Dataset  string            `json:"dataset,omitempty"`
	Graphs   int               `json:"graphs"`
	Errors   int               `json:"errors"`
	Warnings int               `json:"warnings"`
	Problems []roadmap.Problem `json:"problems"`
}

func newCheckReport(ds *roadmap.Dataset, path string) checkReport {
	problems := roadmap.ValidateDataset(ds)
	rep := checkReport{
		Dataset:  path,
		Graphs:   len(ds.GraphIDs()),
		Problems: problems,
	}
	if rep.Problems == nil {
		rep.Problems = []roadmap.Problem{}
	}
	for _, p := range problems {
		if p.Severity == roadmap.SeverityError {
			rep.Errors++
		} else {
			rep.Warnings++
		}
	}
	return rep
}

func newCheckCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:     "check",
		Short:   "Validate the roadmaps: ids, edges, coordinates and cycles",
		GroupID: "data",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.dataset()
			if err != nil {
				return err
			}
			rep := newCheckReport(ds, a.datasetPath)

			if a.jsonOutput {
				if err := printJSON(cmd.OutOrStdout(), rep); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, p := range rep.Problems {
					fmt.Fprintln(out, p)
				}
				source := "built-in roadmaps"
				if rep.Dataset != "" {
					source = rep.Dataset
				}
				fmt.Fprintf(out, "%s: %d graphs, %d errors, %d warnings\n", source, rep.Graphs, rep.Errors, rep.Warnings)
			}

			if rep.Errors > 0 || (strict && rep.Warnings > 0) {
				return errCheckFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings (dangling edges) as errors")
	return cmd
}
