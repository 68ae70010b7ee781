//go:build e2e

package e2e

import (
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestNoArgumentRun writes the default dashboard into the working directory.
func TestNoArgumentRun(t *testing.T) {
	dir := t.TempDir()

	stdout, stderr, err := sensordash(t, dir)
	if err != nil {
		t.Fatalf("sensordash failed: %v\nstderr: %s", err, stderr)
	}

	f, err := os.Open(filepath.Join(dir, "sensor_dashboard.png"))
	if err != nil {
		t.Fatalf("Dashboard not written: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Dashboard is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1500 || b.Dy() != 2000 {
		t.Errorf("Expected 1500x2000 image, got %dx%d", b.Dx(), b.Dy())
	}
	if !strings.Contains(string(stdout), "Dashboard written") {
		t.Errorf("Missing run summary in stdout: %s", stdout)
	}
	if !strings.Contains(string(stderr), `"msg":"Dashboard written"`) {
		t.Errorf("Expected JSON logs on stderr, got: %s", stderr)
	}
}

// TestTableIsReproducible compares sensor values from two independent processes.
func TestTableIsReproducible(t *testing.T) {
	dir := t.TempDir()
	args := []string{"table", "--format", "json", "--seed", "42", "--rows", "50"}

	first := tableValues(t, dir, args...)
	second := tableValues(t, dir, args...)

	if len(first) != 20 {
		t.Fatalf("Expected 20 columns, got %d", len(first))
	}
	for name, values := range first {
		other := second[name]
		if len(values) != 50 || len(other) != 50 {
			t.Fatalf("%s: expected 50 rows, got %d and %d", name, len(values), len(other))
		}
		for i := range values {
			if values[i] != other[i] {
				t.Fatalf("%s[%d] differs between runs: %v != %v", name, i, values[i], other[i])
			}
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "sensor_dashboard.png")); !os.IsNotExist(err) {
		t.Errorf("table must not write an image")
	}
}

func tableValues(t *testing.T, dir string, args ...string) map[string][]float64 {
	t.Helper()

	stdout, stderr, err := sensordash(t, dir, args...)
	if err != nil {
		t.Fatalf("sensordash table failed: %v\nstderr: %s", err, stderr)
	}

	var doc struct {
		Columns []struct {
			Name   string    `json:"name"`
			Values []float64 `json:"values"`
		} `json:"columns"`
	}
	if err := json.Unmarshal(stdout, &doc); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	out := make(map[string][]float64, len(doc.Columns))
	for _, c := range doc.Columns {
		out[c.Name] = c.Values
	}
	return out
}

// TestInvalidProfilesFails exits non-zero and writes nothing.
func TestInvalidProfilesFails(t *testing.T) {
	dir := t.TempDir()
	profiles := filepath.Join(dir, "fleet.hcl")
	if err := os.WriteFile(profiles, []byte(`machine "Solo" {}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := sensordash(t, dir, "--profiles", profiles)

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		t.Fatalf("Expected exit code 1, got %v", err)
	}
	if !strings.Contains(string(stderr), "invalid fleet profile") {
		t.Errorf("Expected profile error on stderr, got: %s", stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "sensor_dashboard.png")); !os.IsNotExist(err) {
		t.Errorf("No image should be written on failure")
	}
}
