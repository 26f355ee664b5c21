//go:build basic || database

// Package integration contains end-to-end tests that drive the auditradar binary.
// These tests are excluded from normal test runs due to build tags.
// To run them: go test -tags basic ./integration or go test -tags database ./integration
package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedBinaryPath holds the path to a shared auditradar binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// exampleDataDir is the sample input tables shipped with the repo, relative to the project root.
const exampleDataDir = "examples/data"

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the auditradar binary, building it once if needed.
func getBinary() string {
	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "auditradar-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "auditradar")
		buildCmd := exec.Command("go", "build", "-o", binPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build auditradar: %v", err))
		}

		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// runCommand runs auditradar from the project root against the example data and returns stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	args = append(args, "--data-dir", exampleDataDir, "--log-level", "error")
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = "../" // Run from project root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}
