package support

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MeKo-Tech/dmscan/internal/testutil"
)

// TestContext holds the state for integration tests.
type TestContext struct {
	// Command execution state
	LastCommand   string
	LastOutput    string
	LastError     error
	LastExitCode  int
	LastStartTime time.Time
	LastDuration  time.Duration

	// Test environment
	WorkingDir string
	TempDir    string
	ImageDir   string
	EnvVars    []string

	// Test artifacts
	CreatedFiles []string
}

// NewTestContext creates a new test context rooted at a fresh temporary
// directory. Commands run inside that directory so no configuration file of
// the developer is picked up.
func NewTestContext() (*TestContext, error) {
	tempDir, err := os.MkdirTemp("", "dmscan-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	imageDir := filepath.Join(tempDir, "images")
	if err := testutil.EnsureDir(imageDir); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	ctx := &TestContext{
		WorkingDir:   tempDir,
		TempDir:      tempDir,
		ImageDir:     imageDir,
		EnvVars:      []string{"HOME=" + tempDir, "XDG_CONFIG_HOME=" + tempDir},
		CreatedFiles: []string{},
	}
	return ctx, nil
}

// Cleanup removes all temporary files and directories created during tests.
func (testCtx *TestContext) Cleanup() error {
	if err := os.RemoveAll(testCtx.TempDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temp directory %s: %w", testCtx.TempDir, err)
	}
	return nil
}

// AddEnvVar adds an environment variable for command execution.
func (testCtx *TestContext) AddEnvVar(name, value string) {
	testCtx.EnvVars = append(testCtx.EnvVars, fmt.Sprintf("%s=%s", name, value))
}

// TrackFile records a file created by a step.
func (testCtx *TestContext) TrackFile(filename string) {
	testCtx.CreatedFiles = append(testCtx.CreatedFiles, filename)
}

// resolve maps a path from a feature file into the scenario's temp directory.
func (testCtx *TestContext) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(testCtx.WorkingDir, name)
}
