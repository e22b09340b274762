package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/vanderheijden86/roadmap/pkg/viewer"

	"github.com/spf13/cobra"
)

// tourStep is the JSON line printed per stop.
type tourStep struct {
	Step    int    `json:"step"`
	Index   int    `json:"index"`
	ID      string `json:"id"`
	Label   string `json:"label"`
	Status  string `json:"status"`
	Wrapped bool   `json:"wrapped,omitempty"`
}

func newTourCmd(a *app) *cobra.Command {
	var (
		interval time.Duration
		halt     bool
		steps    int
	)
	cmd := &cobra.Command{
		Use:     "tour [role]",
		Short:   "Play a role's tour in the terminal without the viewer",
		Long:    "Print every stop of the auto-play tour as it happens. With the\ndefault wrap policy the tour runs until interrupted or --steps is reached.",
		GroupID: "views",
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
			if steps < 0 {
				return fmt.Errorf("--steps must not be negative")
			}
			policy, err := a.tourPolicy(viewFlags{interval: interval, halt: halt})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runTour(ctx, cmd, a, viewer.NewSession(ds, role, policy), steps)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "delay between steps (default from config, else 3s)")
	cmd.Flags().BoolVar(&halt, "halt", false, "stop on the last node instead of wrapping")
	cmd.Flags().IntVarP(&steps, "steps", "n", 0, "stop after this many steps (0 = no limit)")
	return cmd
}

func runTour(ctx context.Context, cmd *cobra.Command, a *app, s *viewer.Session, steps int) error {
	out := cmd.OutOrStdout()
	if !a.jsonOutput {
		fmt.Fprintf(out, "Touring %s every %s (%s)\n", s.Dataset().RoleLabel(s.Role()), s.Policy().Interval, s.Policy().End)
	}

	var (
		mu     sync.Mutex
		outErr error
	)
	r := viewer.NewTourRunner(s, func(st viewer.Step) {
		mu.Lock()
		defer mu.Unlock()
		if outErr != nil {
			return
		}
		if a.jsonOutput {
			outErr = printJSON(out, tourStep{
				Step:    st.Count,
				Index:   st.Index,
				ID:      st.Node.ID,
				Label:   st.Node.Label,
				Status:  string(st.Node.Status),
				Wrapped: st.Wrapped,
			})
			return
		}
		if st.Wrapped {
			fmt.Fprintln(out, "   (back to the start)")
		}
		_, outErr = fmt.Fprintf(out, "%3d. %-10s %s [%s]\n", st.Count, st.Node.ID, st.Node.Label, st.Node.Status)
	})
	r.SetLimit(steps)

	if err := r.Start(ctx); err != nil {
		return err
	}
	defer r.Stop()

	select {
	case <-r.Done():
	case <-ctx.Done():
	}
	r.Stop()

	mu.Lock()
	defer mu.Unlock()
	return outErr
}
