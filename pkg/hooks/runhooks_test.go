package hooks

import (
	"os"
	"path/filepath"
	"testing"
)

func writeHooksFile(t *testing.T, dir, content string) {
	t.Helper()
	path := filepath.Join(dir, ConfigFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write hooks.yaml: %v", err)
	}
}

func TestRunHooksNoHooksFlagAndMissingConfig(t *testing.T) {
	tmp := t.TempDir()
	writeHooksFile(t, tmp, "hooks:\n  pre-export:\n    - command: echo hi\n")

	exec, err := RunHooks(tmp, ExportContext{}, true)
	if err != nil || exec != nil {
		t.Fatalf("noHooks should short-circuit, got exec=%v err=%v", exec, err)
	}

	exec, err = RunHooks(t.TempDir(), ExportContext{}, false)
	if err != nil || exec != nil {
		t.Fatalf("missing config should return nil executor without error, got exec=%v err=%v", exec, err)
	}
}

func TestRunHooksLoadsExecutor(t *testing.T) {
	tmp := t.TempDir()
	writeHooksFile(t, tmp, "hooks:\n  pre-export:\n    - name: hello\n      command: echo hi\n")

	exec, err := RunHooks(tmp, svgContext(), false)
	if err != nil {
		t.Fatalf("RunHooks returned error: %v", err)
	}
	if exec == nil || len(exec.config.Hooks.PreExport) != 1 {
		t.Fatalf("executor config not initialized correctly")
	}
	if res := exec.Results(); len(res) != 0 {
		t.Fatalf("results should be empty before runs: %v", res)
	}
}

func TestRunHooksInvalidConfig(t *testing.T) {
	tmp := t.TempDir()
	writeHooksFile(t, tmp, "hooks: [\n")
	if _, err := RunHooks(tmp, ExportContext{}, false); err == nil {
		t.Fatal("broken hooks file should be an error")
	}
}

func TestLoadDefaultUsesCWD(t *testing.T) {
	tmp := t.TempDir()
	writeHooksFile(t, tmp, "hooks:\n  post-export:\n    - command: echo ok\n")
	t.Chdir(tmp)

	loader, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault error: %v", err)
	}
	if !loader.HasHooks() {
		t.Fatalf("expected hooks loaded via cwd")
	}
}

func TestTruncateBehaviour(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate should return original when shorter, got %q", got)
	}
	if got := truncate("abcdefghijklmnopqrstuvwxyz", 8); got != "abcde..." {
		t.Fatalf("unexpected truncation output: %q", got)
	}
	if got := truncate("line one\nline two", 100); got != "line one line two" {
		t.Fatalf("newlines should be flattened, got %q", got)
	}
}
