// Package testjson parses go test -json NDJSON streams into report suites.
package testjson

import "time"

// go test -json actions this package acts on.
const (
	ActionPass   = "pass"
	ActionFail   = "fail"
	ActionSkip   = "skip"
	ActionOutput = "output"

	// Build events, emitted since Go 1.24 ahead of a package that failed to
	// compile. They carry ImportPath, not Package.
	ActionBuildOutput = "build-output"
	ActionBuildFail   = "build-fail"
)

// TestEvent represents a single event from go test -json output.
type TestEvent struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"` // start, run, pass, fail, skip, output, bench, pause, cont
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"`
	Output  string    `json:"Output"`

	ImportPath  string `json:"ImportPath"`  // build events: "pkg" or "pkg [pkg.test]"
	FailedBuild string `json:"FailedBuild"` // package fail: ImportPath of the broken build
}

// TestResult is one finished test.
type TestResult struct {
	Name     string
	Action   string // ActionPass, ActionFail or ActionSkip
	Duration time.Duration
	Output   []string
}

// PackageResult is every finished test of one package, in run order.
type PackageResult struct {
	Name        string
	Duration    time.Duration
	Tests       []TestResult
	BuildError  string // non-empty if the package failed with no tests run
	Panicked    bool
	PanicOutput []string // panic and goroutine header lines, in order
}
