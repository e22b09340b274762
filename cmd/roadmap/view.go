package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/vanderheijden86/roadmap/pkg/debug"
	"github.com/vanderheijden86/roadmap/pkg/render"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
	"github.com/vanderheijden86/roadmap/pkg/ui"
	"github.com/vanderheijden86/roadmap/pkg/viewer"
	"github.com/vanderheijden86/roadmap/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// viewFlags are the viewer options settable on the command line.
type viewFlags struct {
	role             string
	layout           string
	pick             bool
	halt             bool
	interval         time.Duration
	keepTourOnSelect bool
	autoplay         bool
	noWatch          bool
	plain            bool
}

func defaultViewFlags() viewFlags {
	return viewFlags{}
}

func newViewCmd(a *app) *cobra.Command {
	var f viewFlags
	cmd := &cobra.Command{
		Use:     "view",
		Short:   "Open the interactive roadmap viewer",
		GroupID: "views",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, a, f)
		},
	}
	cmd.Flags().StringVarP(&f.role, "role", "r", "", "role to open (default from config, else sde)")
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "layout: tree or timeline")
	cmd.Flags().BoolVar(&f.pick, "pick", false, "choose the role from a list before opening")
	cmd.Flags().BoolVar(&f.halt, "halt", false, "stop the tour on the last node instead of wrapping")
	cmd.Flags().DurationVar(&f.interval, "interval", 0, "delay between tour steps (default 3s)")
	cmd.Flags().BoolVar(&f.keepTourOnSelect, "keep-tour-on-select", false, "keep the tour running when a node is picked by hand")
	cmd.Flags().BoolVar(&f.autoplay, "autoplay", false, "start the tour immediately")
	cmd.Flags().BoolVar(&f.noWatch, "no-watch", false, "do not reload when the dataset file changes")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "render details as plain text instead of Markdown")
	return cmd
}

// tourPolicy merges config and flags. Flags win.
func (a *app) tourPolicy(f viewFlags) (viewer.TourPolicy, error) {
	p := viewer.DefaultTourPolicy()

	interval, err := a.cfg.TourInterval()
	if err != nil {
		return p, err
	}
	if interval > 0 {
		p.Interval = interval
	}
	if f.interval < 0 {
		return p, fmt.Errorf("--interval must be positive, got %s", f.interval)
	}
	if f.interval > 0 {
		p.Interval = f.interval
	}

	end, err := viewer.ParseEndPolicy(a.cfg.Tour.End)
	if err != nil {
		return p, err
	}
	p.End = end
	if f.halt {
		p.End = viewer.EndHalt
	}

	p.StopOnSelect = a.cfg.StopOnSelect() && !f.keepTourOnSelect
	return p, nil
}

// layout picks the flag layout, then the configured one.
func (a *app) layout(flag string) (render.Mode, error) {
	if flag != "" {
		return render.ParseMode(flag)
	}
	return render.ParseMode(a.cfg.Roadmap.Layout)
}

func (a *app) favorites() map[int]roadmap.RoleID {
	out := make(map[int]roadmap.RoleID, len(a.cfg.Favorites))
	for n := range a.cfg.Favorites {
		if id, ok := a.cfg.FavoriteRole(n); ok {
			out[n] = roadmap.RoleID(id)
		}
	}
	return out
}

func runView(cmd *cobra.Command, a *app, f viewFlags) error {
	ds, err := a.dataset()
	if err != nil {
		return err
	}
	mode, err := a.layout(f.layout)
	if err != nil {
		return err
	}
	policy, err := a.tourPolicy(f)
	if err != nil {
		return err
	}

	role := roadmap.RoleID(f.role)
	if role == "" {
		role = roadmap.RoleID(a.cfg.Roadmap.DefaultRole)
	}
	if f.pick {
		picked, err := pickRole(ds, role)
		if err != nil {
			return err
		}
		role = picked
	}

	opts := ui.Options{
		Role:        role,
		Mode:        mode,
		Policy:      policy,
		Markdown:    a.cfg.MarkdownDetails() && !f.plain,
		ShowSidebar: a.cfg.ShowSidebar(),
		Favorites:   a.favorites(),
		Autoplay:    f.autoplay,
	}

	if a.datasetPath != "" {
		opts.Reload = a.reload
		if !f.noWatch {
			w, err := watcher.New(a.datasetPath,
				watcher.WithOnError(func(err error) { debug.Log("watcher: %v", err) }),
			)
			if err == nil {
				err = w.Start()
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: live reload disabled: %v\n", err)
			} else {
				defer w.Stop()
				opts.Watcher = w
			}
		}
	}

	m := ui.NewModel(ds, opts)
	return runTUIProgram(m)
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set ROADMAP_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("ROADMAP_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
			return nil
		}
		return err
	}
	if fm, ok := final.(ui.Model); ok {
		debug.Log("cli: viewer exited=%v role=%s", fm.Exited(), fm.Session().Role())
	}
	return nil
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// roleOptions lists the career roles that have a graph, in listing order.
func roleOptions(ds *roadmap.Dataset) []huh.Option[roadmap.RoleID] {
	opts := make([]huh.Option[roadmap.RoleID], 0, len(ds.Roles))
	for _, r := range ds.Roles {
		if !ds.Has(r.ID) {
			continue
		}
		label := r.Label
		if r.Description != "" {
			label += " (" + r.Description + ")"
		}
		opts = append(opts, huh.NewOption(label, r.ID))
	}
	return opts
}

// pickRole asks for a role. Without a terminal the form falls back to
// huh's accessible mode, which reads a number from stdin.
func pickRole(ds *roadmap.Dataset, current roadmap.RoleID) (roadmap.RoleID, error) {
	choice := ds.Resolve(current)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[roadmap.RoleID]().
				Title("Which career roadmap?").
				Options(roleOptions(ds)...).
				Value(&choice),
		),
	).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("role picker: %w", err)
	}
	return choice, nil
}
