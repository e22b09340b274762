package debug

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func withObserver(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prevEnabled := Enabled()
	SetLogger(zap.New(core))
	SetEnabled(true)
	t.Cleanup(func() {
		SetEnabled(prevEnabled)
		SetLogger(nil)
	})
	return logs
}

func TestLogWritesWhenEnabled(t *testing.T) {
	logs := withObserver(t)

	Log("loaded %d roles", 10)
	LogTiming("render", 5*time.Millisecond)
	Section("tour")

	if logs.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", logs.Len())
	}
	if got := logs.All()[0].Message; got != "loaded 10 roles" {
		t.Errorf("unexpected message %q", got)
	}
	if got := logs.All()[2].Message; got != "=== tour ===" {
		t.Errorf("unexpected section %q", got)
	}
}

func TestLogIfAndDisabled(t *testing.T) {
	logs := withObserver(t)

	LogIf(false, "skipped")
	LogIf(true, "kept")
	SetEnabled(false)
	Log("dropped")
	LogEnterExit("noop")()

	if logs.Len() != 1 || logs.All()[0].Message != "kept" {
		t.Fatalf("expected only the conditional entry, got %v", logs.All())
	}
}

func TestLogEnterExit(t *testing.T) {
	logs := withObserver(t)

	LogEnterExit("export")()

	if logs.Len() != 2 {
		t.Fatalf("expected entry and exit, got %d", logs.Len())
	}
	if got := logs.All()[0].Message; got != "-> export" {
		t.Errorf("unexpected entry message %q", got)
	}
}
