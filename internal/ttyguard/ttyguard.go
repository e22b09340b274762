// Package ttyguard stops terminal capability probes for invocations whose
// stdout is meant for machines. Import it for its side effect before any
// package that touches lipgloss.
//
// Lipgloss queries the terminal background through termenv, which writes
// OSC/DSR sequences to stdout. Those bytes corrupt --json output when the
// command runs under a PTY capture. termenv skips the probe when CI is set.
package ttyguard

import (
	"os"
	"strings"
)

// TestModeEnv forces the guard on.
const TestModeEnv = "ROADMAP_TEST_MODE"

func init() {
	if os.Getenv("CI") != "" {
		return
	}
	if !Quiet(os.Args[1:], os.Getenv(TestModeEnv) != "") {
		return
	}
	_ = os.Setenv("CI", "1")
}

// Quiet reports whether args describe a non-interactive invocation.
func Quiet(args []string, testMode bool) bool {
	if testMode {
		return true
	}
	for i, arg := range args {
		switch {
		case arg == "--json", strings.HasPrefix(arg, "--json="),
			arg == "--help", arg == "-h":
			return true
		case i == 0 && (arg == "version" || arg == "dump" || arg == "check"):
			return true
		}
	}
	return false
}
