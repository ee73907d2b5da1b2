// Package testutil provides shared test helpers for golden file testing.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// Update is a flag that, when set, regenerates golden files from current output.
// Usage: go test ./... -update
var Update = flag.Bool("update", false, "update golden files")

// FormatFunc formats Python source. name is the base name of the input
// file, so callers can tell modules from stubs.
type FormatFunc func(name, input string) (string, error)

// inputNames are tried in order; the expected file shares the extension.
var inputNames = []string{"input.py", "input.pyi"}

// RunGolden runs a single golden file test in the given directory.
// It reads input.py (or input.pyi), applies formatFn, and compares against
// expected.py (or expected.pyi).
func RunGolden(t *testing.T, dir string, formatFn FormatFunc) {
	t.Helper()

	var inputPath string
	for _, name := range inputNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			inputPath = p
			break
		}
	}
	if inputPath == "" {
		t.Fatalf("no input.py or input.pyi in %s", dir)
	}
	expectedPath := filepath.Join(dir, "expected"+filepath.Ext(inputPath))

	inputBytes, err := os.ReadFile(inputPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", inputPath, err)
	}

	actual, err := formatFn(filepath.Base(inputPath), string(inputBytes))
	if err != nil {
		t.Fatalf("formatting %s: %v", inputPath, err)
	}

	if *Update {
		if err := os.WriteFile(expectedPath, []byte(actual), 0o644); err != nil {
			t.Fatalf("failed to update golden file %s: %v", expectedPath, err)
		}
		t.Logf("updated golden file: %s", expectedPath)
		return
	}

	expectedBytes, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", expectedPath, err)
	}

	expected := string(expectedBytes)
	if actual != expected {
		t.Errorf("output mismatch for %s:\n--- expected\n%s\n--- actual\n%s", dir, expected, actual)
	}
}

// RunGoldenDir walks all subdirectories under testdataDir and runs
// RunGolden for each as a subtest.
func RunGoldenDir(t *testing.T, testdataDir string, formatFn FormatFunc) {
	t.Helper()

	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatalf("failed to read testdata dir %s: %v", testdataDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		t.Run(entry.Name(), func(t *testing.T) {
			dir := filepath.Join(testdataDir, entry.Name())
			RunGolden(t, dir, formatFn)
		})
	}
}
