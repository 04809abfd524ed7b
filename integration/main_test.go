//go:build integration
// +build integration

package integration

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jwebster45206/noir-engine/integration/runner"
)

var caseFlag = flag.String("case", "", "Name of test case to run (from integration/cases/)")
var errFlag = flag.String("err", "continue", "Error handling mode: 'continue' (run all steps) or 'exit' (stop on first failure)")
var cartridgeFlag = flag.String("cartridge", "", "Override the cartridge for all test cases")

func apiBaseURL() string {
	if u := os.Getenv("API_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func TestMain(m *testing.M) {
	fmt.Printf("Running Noir Engine Integration Tests\n")
	fmt.Printf("   API Base URL: %s\n", apiBaseURL())
	os.Exit(m.Run())
}

func newRunner(t *testing.T, mode runner.ErrorHandlingMode) *runner.Runner {
	t.Helper()
	r := runner.NewRunner(apiBaseURL())
	r.ErrorHandlingMode = mode
	r.CartridgeOverride = *cartridgeFlag
	r.Logger = func(format string, args ...interface{}) {
		fmt.Printf(format+"\n", args...)
	}
	if r.CartridgeOverride != "" {
		t.Logf("Cartridge override enabled: %s", r.CartridgeOverride)
	}
	return r
}

func TestIntegrationSuites(t *testing.T) {
	if *caseFlag != "" {
		t.Skip("Skipping bulk run (-case given)")
	}
	files, err := discoverTestFiles("cases")
	if err != nil {
		t.Fatalf("Failed to discover test files: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("No test files found in cases directory")
	}
	runJobs(t, newRunner(t, runner.ErrorHandlingContinue), loadJobs(t, files))
}

// TestSingleSuite runs the cases named by -case, comma-separated.
func TestSingleSuite(t *testing.T) {
	if *caseFlag == "" {
		t.Skip("Skipping single suite test (use -case flag to run)")
	}
	if *errFlag != "exit" && *errFlag != "continue" {
		t.Fatalf("Invalid -err flag value: %s (must be 'exit' or 'continue')", *errFlag)
	}

	var files []string
	for _, name := range strings.Split(*caseFlag, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if filepath.Ext(name) == "" {
			name += ".yaml"
		}
		files = append(files, filepath.Join("cases", name))
	}
	runJobs(t, newRunner(t, runner.ErrorHandlingMode(*errFlag)), loadJobs(t, files))
}

func loadJobs(t *testing.T, files []string) []runner.TestJob {
	t.Helper()
	var jobs []runner.TestJob
	for _, file := range files {
		expanded, err := runner.LoadTestSuiteWithExpansion(file, "cases")
		if err != nil {
			t.Errorf("Failed to load test suite %s: %v", file, err)
			continue
		}
		jobs = append(jobs, expanded...)
	}
	if len(jobs) == 0 {
		t.Fatal("No valid test suites loaded")
	}
	t.Logf("Loaded %d test suites", len(jobs))
	return jobs
}

func runJobs(t *testing.T, r *runner.Runner, jobs []runner.TestJob) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var failed []string
	passed := 0
	for i, job := range jobs {
		t.Logf("[%d/%d] Starting test suite: %s (%d steps)", i+1, len(jobs), job.Name, len(job.Suite.Steps))

		result, err := r.RunSuite(ctx, job.Suite)
		if err != nil && result.Error == nil {
			result.Error = err
		}
		t.Logf("Game ID: %s", result.GameID)

		for _, step := range result.Results {
			switch {
			case step.IsReset && step.Success:
				t.Logf("   ↻ %s (%v)", step.StepName, step.Duration)
			case step.Success:
				t.Logf("   ✓ %s (%v)", step.StepName, step.Duration)
			default:
				t.Errorf("   ✗ %s: %v", step.StepName, step.Error)
			}
		}

		if result.Error != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", job.Name, result.Error))
			t.Errorf("[%d/%d] FAILED: %s", i+1, len(jobs), job.Name)
			if r.ErrorHandlingMode == runner.ErrorHandlingExit {
				break
			}
		} else {
			passed++
			t.Logf("[%d/%d] PASSED: %s in %v", i+1, len(jobs), job.Name, result.Duration)
		}
	}

	t.Logf("Integration Test Summary:")
	t.Logf("   Passed: %d", passed)
	t.Logf("   Failed: %d", len(failed))
	if len(failed) > 0 {
		sort.Strings(failed)
		for _, f := range failed {
			t.Logf("   - %s", f)
		}
		t.Fatalf("Integration tests failed")
	}
}

func discoverTestFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		switch filepath.Ext(path) {
		case ".json", ".yaml", ".yml":
			if !info.IsDir() {
				files = append(files, path)
			}
		}
		return nil
	})
	return files, err
}
