package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// iRunCommand executes a command and stores the result.
func (testCtx *TestContext) iRunCommand(command string) error {
	testCtx.LastCommand = command
	testCtx.LastStartTime = time.Now()

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}
	if bin := os.Getenv("DMSCAN_BIN"); bin != "" && parts[0] == "dmscan" {
		parts[0] = bin
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = testCtx.WorkingDir
	cmd.Env = append(os.Environ(), testCtx.EnvVars...)

	output, err := cmd.CombinedOutput()
	testCtx.LastOutput = string(output)
	testCtx.LastError = err
	testCtx.LastDuration = time.Since(testCtx.LastStartTime)

	if err != nil {
		exitError := &exec.ExitError{}
		if errors.As(err, &exitError) {
			testCtx.LastExitCode = exitError.ExitCode()
		} else {
			testCtx.LastExitCode = -1
		}
	} else {
		testCtx.LastExitCode = 0
	}
	return nil
}

// theCommandShouldSucceed verifies the command succeeded.
func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command failed with exit code %d: %w\nOutput: %s",
			testCtx.LastExitCode, testCtx.LastError, testCtx.LastOutput)
	}
	return nil
}

// theCommandShouldFail verifies the command failed.
func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command succeeded when it should have failed\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

// theExitCodeShouldBe verifies the exact exit code.
func (testCtx *TestContext) theExitCodeShouldBe(code int) error {
	if testCtx.LastExitCode != code {
		return fmt.Errorf("expected exit code %d, got %d\nOutput: %s", code, testCtx.LastExitCode, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldContain verifies the output contains specific text.
func (testCtx *TestContext) theOutputShouldContain(expectedText string) error {
	if !strings.Contains(testCtx.LastOutput, expectedText) {
		return fmt.Errorf("output does not contain '%s'\nActual output: %s", expectedText, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldNotContain verifies the output lacks specific text.
func (testCtx *TestContext) theOutputShouldNotContain(text string) error {
	if strings.Contains(testCtx.LastOutput, text) {
		return fmt.Errorf("output unexpectedly contains '%s'\nActual output: %s", text, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldContainLines verifies the number of lines starting with prefix.
func (testCtx *TestContext) theOutputShouldContainLines(count int, prefix string) error {
	n := 0
	for _, line := range strings.Split(testCtx.LastOutput, "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	if n != count {
		return fmt.Errorf("expected %d lines starting with %q, got %d\nOutput: %s", count, prefix, n, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldContainJSONField verifies that the indented JSON object in
// the output has the field. Log records are single-line objects and are
// skipped.
func (testCtx *TestContext) theOutputShouldContainJSONField(field string) error {
	out := testCtx.LastOutput
	start := strings.Index(out, "{\n")
	if start < 0 {
		return fmt.Errorf("no JSON object in output: %s", out)
	}
	var data map[string]any
	if err := json.NewDecoder(strings.NewReader(out[start:])).Decode(&data); err != nil {
		return fmt.Errorf("invalid JSON in output: %w", err)
	}
	if _, ok := data[field]; !ok {
		return fmt.Errorf("JSON has no field %q: %v", field, data)
	}
	return nil
}

// theFileShouldExist verifies a file was written.
func (testCtx *TestContext) theFileShouldExist(name string) error {
	if _, err := os.Stat(testCtx.resolve(name)); err != nil {
		return fmt.Errorf("expected file %s: %w", name, err)
	}
	return nil
}

// theFileShouldContain verifies file content.
func (testCtx *TestContext) theFileShouldContain(name, expected string) error {
	data, err := os.ReadFile(testCtx.resolve(name))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if !strings.Contains(string(data), expected) {
		return fmt.Errorf("file %s does not contain %q", name, expected)
	}
	return nil
}

// RegisterCommonSteps registers command execution and result verification steps.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the exit code should be (\d+)$`, func(s string) error {
		code, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		return testCtx.theExitCodeShouldBe(code)
	})
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, testCtx.theOutputShouldNotContain)
	sc.Step(`^the output should contain (\d+) lines? starting with "([^"]*)"$`, testCtx.theOutputShouldContainLines)
	sc.Step(`^the output should contain the JSON field "([^"]*)"$`, testCtx.theOutputShouldContainJSONField)
	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the file "([^"]*)" should contain "([^"]*)"$`, testCtx.theFileShouldContain)
}
