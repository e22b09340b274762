package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/vanderheijden86/roadmap/pkg/debug"
)

// maxSummaryOutput bounds the stderr excerpt shown per failed hook.
const maxSummaryOutput = 200

// waitDelay bounds how long a timed-out hook may hold its output pipes
// after the shell is killed.
const waitDelay = 250 * time.Millisecond

// HookResult is the outcome of one hook run.
type HookResult struct {
	Hook     Hook
	Phase    HookPhase
	Success  bool
	Error    error
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Executor runs the hooks of one export.
type Executor struct {
	config  *Config
	ctx     ExportContext
	results []HookResult
}

// NewExecutor creates an executor for config. A nil config runs nothing.
func NewExecutor(config *Config, ctx ExportContext) *Executor {
	if config == nil {
		config = &Config{}
	}
	return &Executor{config: config, ctx: ctx}
}

// RunPreExport runs pre-export hooks in order and stops at the first
// failure whose policy is fail.
func (e *Executor) RunPreExport() error {
	for _, h := range e.config.Hooks.PreExport {
		res := e.run(h, PreExport)
		if !res.Success && h.OnError != OnErrorContinue {
			return fmt.Errorf("pre-export hook %q failed: %w", h.Name, res.Error)
		}
	}
	return nil
}

// RunPostExport runs every post-export hook. It returns an error when any
// hook with the fail policy failed.
func (e *Executor) RunPostExport() error {
	var errs []error
	for _, h := range e.config.Hooks.PostExport {
		res := e.run(h, PostExport)
		if !res.Success && h.OnError == OnErrorFail {
			errs = append(errs, fmt.Errorf("post-export hook %q failed: %w", h.Name, res.Error))
		}
	}
	return errors.Join(errs...)
}

// Results returns the results of every hook run so far.
func (e *Executor) Results() []HookResult {
	return e.results
}

func (e *Executor) run(h Hook, phase HookPhase) HookResult {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", h.Command)
	cmd.WaitDelay = waitDelay
	cmd.Env = append(os.Environ(), e.ctx.ToEnv()...)
	for k, v := range h.Env {
		cmd.Env = append(cmd.Env, k+"="+os.ExpandEnv(v))
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := HookResult{
		Hook:     h,
		Phase:    phase,
		Success:  err == nil,
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s", timeout)
		}
		res.Error = err
	}
	debug.Log("hooks: %s %s success=%v in %s", phase, h.Name, res.Success, res.Duration)
	e.results = append(e.results, res)
	return res
}

// Summary describes the hook runs for the user. It is empty when nothing
// ran.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return ""
	}
	var ok, failed int
	for _, r := range e.results {
		if r.Success {
			ok++
		} else {
			failed++
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hooks: %d succeeded, %d failed\n", ok, failed)
	for _, r := range e.results {
		if r.Success {
			continue
		}
		fmt.Fprintf(&sb, "  x %s (%s): %v\n", r.Hook.Name, r.Phase, r.Error)
		if r.Stderr != "" {
			fmt.Fprintf(&sb, "    stderr: %s\n", truncate(r.Stderr, maxSummaryOutput))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RunHooks loads the project's hooks. It returns nil without error when
// hooks are disabled or none are configured.
func RunHooks(projectDir string, ctx ExportContext, noHooks bool) (*Executor, error) {
	if noHooks {
		return nil, nil
	}
	loader := NewLoader(WithProjectDir(projectDir))
	if err := loader.Load(); err != nil {
		return nil, err
	}
	for _, w := range loader.Warnings() {
		debug.Log("hooks: %s", w)
	}
	if !loader.HasHooks() {
		return nil, nil
	}
	return NewExecutor(loader.Config(), ctx), nil
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
