package runner_test

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// binaryPath builds the pyfmt binary and returns its path.
func binaryPath(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	bin := filepath.Join(dir, "pyfmt")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}

	cmd := exec.CommandContext(t.Context(), "go", "build", "-o", bin, "../../cmd/pyfmt")
	cmd.Dir = filepath.Join(projectRoot(t), "internal", "runner")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, out)
	}
	return bin
}

func projectRoot(t *testing.T) string {
	t.Helper()
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..")
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("unexpected error: %v", err)
	}
	return exitErr.ExitCode()
}

func TestIntegrationStdinFormat(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.CommandContext(t.Context(), bin, "format")
	cmd.Stdin = strings.NewReader("x=1\n")
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "x = 1\n" {
		t.Errorf("stdin format: got %q, want %q", string(out), "x = 1\n")
	}
}

func TestIntegrationCheck(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.CommandContext(t.Context(), bin, "format", "--check")
	cmd.Stdin = strings.NewReader("x = 1\n")
	if code := exitCode(t, cmd.Run()); code != 0 {
		t.Errorf("check formatted: expected exit 0, got %d", code)
	}

	cmd = exec.CommandContext(t.Context(), bin, "format", "--check")
	cmd.Stdin = strings.NewReader("x=1\n")
	if code := exitCode(t, cmd.Run()); code != 1 {
		t.Errorf("check unformatted: expected exit 1, got %d", code)
	}
}

func TestIntegrationDiff(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.CommandContext(t.Context(), bin, "format", "--diff")
	cmd.Stdin = strings.NewReader("x=1\n")
	out, err := cmd.CombinedOutput()
	if code := exitCode(t, err); code != 1 {
		t.Errorf("diff with changes: expected exit 1, got %d", code)
	}

	output := string(out)
	if !strings.Contains(output, "-x=1") {
		t.Errorf("diff missing old line: %s", output)
	}
	if !strings.Contains(output, "+x = 1") {
		t.Errorf("diff missing new line: %s", output)
	}
}

func TestIntegrationWrite(t *testing.T) {
	bin := binaryPath(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "test.py")

	if err := os.WriteFile(path, []byte("x=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.CommandContext(t.Context(), bin, "format", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("write: %v\n%s", err, out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "x = 1\n" {
		t.Errorf("file after write: got %q", string(data))
	}
}

func TestIntegrationVersion(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.CommandContext(t.Context(), bin, "version")
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(string(out), "pyfmt ") {
		t.Errorf("version: got %q", string(out))
	}
}

func TestIntegrationMissingFile(t *testing.T) {
	bin := binaryPath(t)

	cmd := exec.CommandContext(t.Context(), bin, "format", "/nonexistent/file.py")
	if code := exitCode(t, cmd.Run()); code != 2 {
		t.Errorf("missing file: expected exit 2, got %d", code)
	}
}

func TestIntegrationExplicitConfig(t *testing.T) {
	bin := binaryPath(t)
	dir := t.TempDir()

	configPath := filepath.Join(dir, "custom.yml")
	cfg := "format:\n  quote-style: single\n"
	if err := os.WriteFile(configPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.CommandContext(t.Context(), bin, "format", "--config", configPath)
	cmd.Stdin = strings.NewReader("s = \"a\"\n")
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if string(out) != "s = 'a'\n" {
		t.Errorf("config single quotes: got %q, want %q", string(out), "s = 'a'\n")
	}
}

func TestIntegrationServe(t *testing.T) {
	bin := binaryPath(t)
	dir := t.TempDir()
	target := filepath.ToSlash(filepath.Join(dir, "a.py"))

	cmd := exec.CommandContext(t.Context(), bin, "serve")
	cmd.Stdin = strings.NewReader(`{"target":"` + target + `","target-content":"x=1\n"}` + "\n" +
		`{"target-content":"x=1\n"}` + "\n")
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("serve: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		t.Fatalf("serve: got %d response lines, want 2: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], `"format-status":"success"`) {
		t.Errorf("first response: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"plugin-panic"`) {
		t.Errorf("second response: %s", lines[1])
	}
}

func TestIntegrationMultipleFiles(t *testing.T) {
	bin := binaryPath(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.py")
	bad := filepath.Join(dir, "bad.py")
	if err := os.WriteFile(good, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("x=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.CommandContext(t.Context(), bin, "format", "--check", good, bad)
	if code := exitCode(t, cmd.Run()); code != 1 {
		t.Errorf("check mixed: expected exit 1, got %d", code)
	}
}
