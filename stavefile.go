//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":    Build,
	"t":    Test.Default,
	"l":    Lint.Default,
	"c":    Check,
	"i":    Install,
	"fmt":  Lint.Fmt,
	"fz":   Fuzz.Default,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
	Fuzz  st.Namespace
)

// ---------------------------------------------------------------------------
// Top-level targets
// ---------------------------------------------------------------------------

// Build compiles the reparse binary with version info.
// Skips recompilation when source files have not changed.
func Build() error {
	rebuild, err := target.Dir("bin/reparse", "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println("bin/reparse is up to date")
		return nil
	}
	fmt.Println("Building reparse...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/reparse", "./cmd/reparse")
}

// Check runs format, lint, and test sequentially.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println("Cleaning build artifacts...")
	if err := sh.Rm("bin"); err != nil {
		return err
	}
	if err := sh.Rm("coverage.out"); err != nil {
		return err
	}
	return sh.Rm("coverage.html")
}

// Install installs reparse to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing reparse...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/reparse")
}

// Uninstall removes reparse from $GOBIN or $GOPATH/bin.
func Uninstall() error {
	fmt.Println("Uninstalling reparse...")
	binPath, err := findInstalledBinary("reparse")
	if err != nil {
		return err
	}
	if err := os.Remove(binPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Println("reparse is not installed")
			return nil
		}
		return fmt.Errorf("remove binary: %w", err)
	}
	fmt.Printf("Removed %s\n", binPath)
	return nil
}

// Deps ensures all dependencies are downloaded.
func Deps() error {
	fmt.Println("Downloading dependencies...")
	if err := sh.RunV("go", "mod", "download"); err != nil {
		return err
	}
	return sh.RunV("go", "mod", "tidy")
}

// Coverage generates a test coverage report and opens it.
func Coverage() error {
	st.Deps(Test.Default)
	fmt.Println("Generating coverage report...")
	if err := sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html"); err != nil {
		return err
	}
	return sh.RunV("open", "coverage.html")
}

// ---------------------------------------------------------------------------
// Test namespace
// ---------------------------------------------------------------------------

// Default runs all tests using gotestsum with race detection and coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-v", "-race",
		"-p", nCores,
		"-parallel", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// Verbose runs all tests with standard-verbose output.
func (Test) Verbose() error {
	fmt.Println("Running tests (verbose)...")
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "standard-verbose",
		"--",
		"-v", "-race",
		"-p", nCores,
		"-parallel", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// ---------------------------------------------------------------------------
// Lint namespace
// ---------------------------------------------------------------------------

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without auto-fix (for CI pipelines).
func (Lint) CI() error {
	fmt.Println("Running linters (CI mode)...")
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	fmt.Println("Formatting code...")
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck verifies code formatting without modifying files.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave lint:fmt' to fix", out)
	}
	fmt.Println("✓ Code formatting OK")
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	fmt.Println("Running go vet...")
	return sh.RunV("go", "vet", "./...")
}

// ---------------------------------------------------------------------------
// CI namespace
// ---------------------------------------------------------------------------

// Gate runs every check CI runs, cheapest first.
func (CI) Gate() error {
	fmt.Println("Running CI gate checks...")
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.Vet,
		Lint.CI,
		Build,
		Test.Default,
		CI.ModTidy,
		CI.FuzzSeeds,
	)
	fmt.Println("\n✓ All CI gate checks passed!")
	return nil
}

// ModTidy fails when 'go mod tidy' would change go.mod or go.sum.
func (CI) ModTidy() error {
	fmt.Println("Checking go.mod/go.sum are tidy...")
	files := []string{"go.mod", "go.sum"}
	before := make(map[string][]byte, len(files))
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", name, err)
		}
		before[name] = data
	}

	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}

	for _, name := range files {
		after, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s after tidy: %w", name, err)
		}
		if string(after) != string(before[name]) {
			return fmt.Errorf("%s changed after 'go mod tidy'; commit the result", name)
		}
	}
	fmt.Println("✓ go.mod/go.sum are tidy")
	return nil
}

// FuzzSeeds runs every fuzz target over its seed corpus only.
func (CI) FuzzSeeds() error {
	fmt.Println("Running fuzz seed corpora...")
	for _, target := range fuzzTargets {
		if err := sh.RunV("go", "test", "-run=^"+target.name+"$", target.pkg); err != nil {
			return fmt.Errorf("%s seeds: %w", target.name, err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Bench namespace
// ---------------------------------------------------------------------------

// Default runs Go benchmarks.
func (Bench) Default() error {
	fmt.Println("Running benchmarks...")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-bench=.", "-benchmem",
		"./...",
	)
}

// Engine runs the reparse benchmarks, incremental against full, with a
// longer benchtime so the two are comparable.
func (Bench) Engine() error {
	fmt.Println("Running reparse engine benchmarks...")
	return sh.RunV("go", "test",
		"-run=^$",
		"-bench=Incremental|Full",
		"-benchmem",
		"-benchtime=2s",
		"./pkg/reparse/",
	)
}

// ---------------------------------------------------------------------------
// Fuzz namespace
// ---------------------------------------------------------------------------

// fuzzTargets lists every fuzz test with its package.
var fuzzTargets = []struct{ pkg, name string }{
	{"./pkg/difflog/", "FuzzDiffRoundTrip"},
	{"./pkg/textedit/", "FuzzApplySpan"},
	{"./pkg/lang/markdown/", "FuzzParse"},
	{"./pkg/lang/markdown/", "FuzzReparse"},
	{"./pkg/lang/mini/", "FuzzReparse"},
}

// Default runs each fuzz target for FUZZ_TIME (default 30s).
func (Fuzz) Default() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZ_TIME"), "30s")
	for _, target := range fuzzTargets {
		fmt.Printf("Fuzzing %s %s for %s...\n", target.pkg, target.name, fuzzTime)
		if err := sh.RunV("go", "test",
			"-run=^$",
			"-fuzz=^"+target.name+"$",
			"-fuzztime="+fuzzTime,
			target.pkg,
		); err != nil {
			return fmt.Errorf("fuzz %s: %w", target.name, err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers (unexported — not targets)
// ---------------------------------------------------------------------------

// gitOutput runs a git command and returns trimmed stdout, or empty on error.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		version, commit, date,
	)
}

// findInstalledBinary returns the path where go install would place the binary.
func findInstalledBinary(name string) (string, error) {
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		return filepath.Join(gobin, name), nil
	}
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		gopath = filepath.Join(home, "go")
	}
	return filepath.Join(gopath, "bin", name), nil
}
