// Command roadmap browses career roadmaps in the terminal and exports them.
package main

import (
	"fmt"
	"os"

	_ "github.com/vanderheijden86/roadmap/internal/ttyguard"
	"github.com/vanderheijden86/roadmap/pkg/config"
	"github.com/vanderheijden86/roadmap/pkg/debug"
	"github.com/vanderheijden86/roadmap/pkg/loader"
	"github.com/vanderheijden86/roadmap/pkg/metrics"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"

	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	datasetFlag string
	configFlag  string
	jsonOutput  bool
	debugFlag   bool
	timings     bool

	cfg         config.Config
	cfgPath     string
	ds          *roadmap.Dataset
	datasetPath string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "roadmap <command>",
		Short:         "Browse career roadmaps in the terminal",
		Long:          "roadmap shows hand-authored career roadmaps as graphs of skills,\nwith a detail panel, an auto-play tour and static exports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.debugFlag {
				debug.SetEnabled(true)
			}
			a.loadConfig(cmd)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.timings {
				_ = metrics.WriteReport(cmd.ErrOrStderr())
			}
			debug.Sync()
		},
		// Bare "roadmap" opens the viewer.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, a, defaultViewFlags())
		},
	}

	root.PersistentFlags().StringVar(&a.datasetFlag, "dataset", "", "dataset file (YAML, JSON or TOML) layered over the built-in roadmaps")
	root.PersistentFlags().StringVar(&a.configFlag, "config", "", "config file (default "+config.ConfigPath()+")")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "output as JSON")
	root.PersistentFlags().BoolVar(&a.debugFlag, "debug", false, "enable debug logging (same as ROADMAP_DEBUG=1)")
	root.PersistentFlags().BoolVar(&a.timings, "timings", false, "print operation timings to stderr on exit")

	root.AddGroup(
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "data", Title: "Data:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	// Views
	root.AddCommand(newViewCmd(a))
	root.AddCommand(newTourCmd(a))
	root.AddCommand(newShowCmd(a))

	// Data
	root.AddCommand(newRolesCmd(a))
	root.AddCommand(newOrderCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newDumpCmd(a))

	// System
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd())

	return root
}

// loadConfig reads the config file. A broken config is reported and
// replaced by defaults so the viewer still opens.
func (a *app) loadConfig(cmd *cobra.Command) {
	a.cfgPath = a.configFlag
	if a.cfgPath == "" {
		a.cfgPath = config.ConfigPath()
	}
	var err error
	if a.cfgPath == "" {
		a.cfg = config.DefaultConfig()
		return
	}
	a.cfg, err = config.LoadFrom(a.cfgPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (using defaults)\n", err)
		a.cfg = config.DefaultConfig()
	}
}

// dataset loads the dataset once per invocation.
func (a *app) dataset() (*roadmap.Dataset, error) {
	if a.ds != nil {
		return a.ds, nil
	}
	cwd, _ := os.Getwd()
	a.datasetPath = loader.ResolvePath(a.datasetFlag, a.cfg.Roadmap.Dataset, cwd)
	ds, err := loader.LoadDataset(a.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	debug.Log("cli: dataset %q with %d graphs", a.datasetPath, len(ds.Graphs))
	a.ds = ds
	return ds, nil
}

// reload re-reads the dataset file for the viewer.
func (a *app) reload() (*roadmap.Dataset, error) {
	ds, err := loader.LoadDataset(a.datasetPath)
	if err != nil {
		return nil, err
	}
	a.ds = ds
	return ds, nil
}

// role resolves a role argument. CLI commands are strict about unknown
// roles; only the viewer falls back to the default.
func (a *app) role(ds *roadmap.Dataset, arg string) (roadmap.RoleID, error) {
	if arg == "" {
		if a.cfg.Roadmap.DefaultRole != "" {
			return ds.Resolve(roadmap.RoleID(a.cfg.Roadmap.DefaultRole)), nil
		}
		return ds.Resolve(ds.Default), nil
	}
	id := roadmap.RoleID(arg)
	if !ds.Has(id) {
		return "", fmt.Errorf("unknown role %q (see 'roadmap roles')", arg)
	}
	return id, nil
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
