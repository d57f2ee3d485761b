package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestE2ERunSuite runs the smoke suite against the stand-in target.
func TestE2ERunSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	tmpDir := t.TempDir()
	p6check := buildP6check(t, tmpDir)
	target := buildFakesh(t, tmpDir)

	output, err := runP6check(t, p6check, "run", "testdata/suite.yaml", "--binary", target)
	if err != nil {
		t.Fatalf("p6check run failed: %v\nOutput: %s", err, output)
	}

	if !strings.Contains(output, "9/9 scenarios passed") {
		t.Errorf("E2E FAIL: not every scenario passed\nOutput: %s", output)
	}
	if strings.Contains(output, "FAIL") {
		t.Errorf("E2E FAIL: unexpected failure line\nOutput: %s", output)
	}
}

// TestE2ERunSelectedScenario checks that -s limits the run.
func TestE2ERunSelectedScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	tmpDir := t.TempDir()
	p6check := buildP6check(t, tmpDir)
	target := buildFakesh(t, tmpDir)

	output, err := runP6check(t, p6check, "run", "testdata/suite.yaml", "--binary", target, "-s", "name-too-long")
	if err != nil {
		t.Fatalf("p6check run failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "1/1 scenarios passed") {
		t.Errorf("expected exactly one scenario\nOutput: %s", output)
	}
	if !strings.Contains(output, "(verdict -4)") {
		t.Errorf("expected verdict -4 in report\nOutput: %s", output)
	}
}

// TestE2ERunReportsFailures checks the exit status and report of a suite
// with a failing scenario.
func TestE2ERunReportsFailures(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	tmpDir := t.TempDir()
	p6check := buildP6check(t, tmpDir)
	target := buildFakesh(t, tmpDir)

	output, err := runP6check(t, p6check, "run", "testdata/failing.yaml", "--binary", target)
	if err == nil {
		t.Fatalf("p6check run succeeded for a failing suite\nOutput: %s", output)
	}

	for _, want := range []string{"PASS passes", "FAIL missing-entry", "missing tokens: neverCreated", "1/2 scenarios passed"} {
		if !strings.Contains(output, want) {
			t.Errorf("output does not contain %q\nOutput: %s", want, output)
		}
	}
}

// TestE2EExec runs ad-hoc batches against one shared target directory.
func TestE2EExec(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	tmpDir := t.TempDir()
	p6check := buildP6check(t, tmpDir)
	target := buildFakesh(t, tmpDir)
	workDir := filepath.Join(tmpDir, "work")
	if err := os.Mkdir(workDir, 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "mkdir and ls",
			args: []string{`mkdir d1\nmkdir d2\nls`, "-e", "d1", "-e", "d2"},
			want: "verdict: 0 (ok)",
		},
		{
			name: "state from the previous session",
			args: []string{"ls", "-e", "d1"},
			want: "verdict: 0 (ok)",
		},
		{
			name: "error code",
			args: []string{`cat my_name_is_too_long\nmy_name_is_too_long\n.`},
			want: "verdict: -4 (name too long)",
		},
		{
			name: "missing token",
			args: []string{"ls", "-e", "nothing"},
			want: "verdict: -1",
		},
	}

	// Subtests share workDir, so they run in order.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"exec", "--binary", target, "--dir", workDir}, tt.args...)
			output, err := runP6check(t, p6check, args...)
			if err != nil {
				t.Fatalf("p6check exec failed: %v\nOutput: %s", err, output)
			}
			if !strings.Contains(output, tt.want) {
				t.Errorf("output does not contain %q\nOutput: %s", tt.want, output)
			}
		})
	}
}

// TestE2EPickNeedsTerminal checks that --pick refuses to run without a tty.
func TestE2EPickNeedsTerminal(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	tmpDir := t.TempDir()
	p6check := buildP6check(t, tmpDir)

	output, err := runP6check(t, p6check, "run", "testdata/suite.yaml", "--pick")
	if err == nil {
		t.Fatalf("--pick succeeded without a terminal\nOutput: %s", output)
	}
	if !strings.Contains(output, "interactive terminal") {
		t.Errorf("unexpected error output: %s", output)
	}
}

func runP6check(t *testing.T, binary string, args ...string) (string, error) {
	t.Helper()

	cmd := exec.Command(binary, args...)
	cmd.Env = append(os.Environ(), "P6_BINARY=", "P6_DIR=", "P6_TIMEOUT=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func buildP6check(t *testing.T, tmpDir string) string {
	t.Helper()
	return goBuild(t, filepath.Join(tmpDir, "p6check"), ".")
}

// buildFakesh builds the stand-in target. It is named p6sh like the real one.
func buildFakesh(t *testing.T, tmpDir string) string {
	t.Helper()
	return goBuild(t, filepath.Join(tmpDir, "p6sh"), "./internal/fakesh")
}

func goBuild(t *testing.T, binaryPath, pkg string) string {
	t.Helper()

	// On Windows, executables need .exe extension
	if filepath.Separator == '\\' {
		binaryPath += ".exe"
	}

	cmd := exec.Command("go", "build", "-o", binaryPath, pkg)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build %s: %v\nOutput: %s", pkg, err, output)
	}

	return binaryPath
}
