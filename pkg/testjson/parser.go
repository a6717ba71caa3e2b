package testjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// ParseStream parses go test -json NDJSON from a reader, line by line.
// Returns the parsed results, the number of malformed lines skipped, and any error.
func ParseStream(r io.Reader) ([]PackageResult, int, error) {
	agg := newAggregator()
	scanner := bufio.NewScanner(r)
	// Allow large lines for verbose test output
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var malformed int
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var event TestEvent
		if err := json.Unmarshal(line, &event); err != nil {
			malformed++
			continue
		}
		agg.processEvent(event)
	}
	if err := scanner.Err(); err != nil {
		return nil, malformed, fmt.Errorf("scanning test output: %w", err)
	}
	return agg.results(), malformed, nil
}

// ParseBytes is a convenience for parsing from a byte slice.
func ParseBytes(data []byte) ([]PackageResult, int, error) {
	return ParseStream(bytes.NewReader(data))
}

type aggregator struct {
	packages    map[string]*pkgState
	order       []string
	buildOutput map[string][]string // compiler output keyed by package path
}

type pkgState struct {
	name        string
	duration    time.Duration
	tests       map[string]*TestResult
	testOrder   []string
	buildError  string
	panicked    bool
	panicOutput []string
	outputBuf   map[string][]string // keyed by test name, "" for the package
}

func newAggregator() *aggregator {
	return &aggregator{
		packages:    make(map[string]*pkgState),
		buildOutput: make(map[string][]string),
	}
}

func (a *aggregator) getOrCreate(name string) *pkgState {
	if pkg, ok := a.packages[name]; ok {
		return pkg
	}
	pkg := &pkgState{
		name:      name,
		tests:     make(map[string]*TestResult),
		outputBuf: make(map[string][]string),
	}
	a.packages[name] = pkg
	a.order = append(a.order, name)
	return pkg
}

func (a *aggregator) processEvent(e TestEvent) {
	switch e.Action {
	case ActionBuildOutput:
		if output := strings.TrimRight(e.Output, "\n"); output != "" {
			key := packagePath(e.ImportPath)
			a.buildOutput[key] = append(a.buildOutput[key], output)
		}
		return
	case ActionBuildFail:
		return
	}
	if e.Package == "" {
		return
	}

	pkg := a.getOrCreate(e.Package)
	elapsed := time.Duration(e.Elapsed * float64(time.Second))

	switch e.Action {
	case ActionPass, ActionFail, ActionSkip:
		if e.Test == "" {
			pkg.duration = elapsed
			nothingRan := len(pkg.tests) == 0 && !pkg.panicked
			if e.Action == ActionFail && (e.FailedBuild != "" || nothingRan) {
				pkg.buildError = a.buildError(pkg, e.FailedBuild)
			}
			return
		}
		tr := pkg.finish(e.Test)
		tr.Action = e.Action
		tr.Duration = elapsed
		tr.Output = pkg.outputBuf[e.Test]

	case ActionOutput:
		output := strings.TrimRight(e.Output, "\n")
		if output == "" || isFrameworkLine(output) {
			return
		}
		pkg.outputBuf[e.Test] = append(pkg.outputBuf[e.Test], output)

		if strings.Contains(output, "panic:") || strings.HasPrefix(output, "goroutine ") {
			pkg.panicked = true
			pkg.panicOutput = append(pkg.panicOutput, output)
		}
	}
}

// buildError joins the compiler output of the failed build with what the
// package itself printed. failedBuild is empty for streams from before Go
// 1.24, where the compiler output arrives as package output.
func (a *aggregator) buildError(pkg *pkgState, failedBuild string) string {
	key := pkg.name
	if failedBuild != "" {
		key = packagePath(failedBuild)
	}
	lines := make([]string, 0, len(a.buildOutput[key])+len(pkg.outputBuf[""]))
	lines = append(lines, a.buildOutput[key]...)
	lines = append(lines, pkg.outputBuf[""]...)
	return strings.Join(lines, "\n")
}

// packagePath strips the " [pkg.test]" variant suffix from an import path.
func packagePath(importPath string) string {
	if i := strings.Index(importPath, " ["); i >= 0 {
		return importPath[:i]
	}
	return importPath
}

// isFrameworkLine reports the runner's own "=== RUN" and "--- PASS" lines,
// which duplicate the event stream.
func isFrameworkLine(s string) bool {
	t := strings.TrimSpace(s)
	for _, p := range []string{"=== RUN", "=== PAUSE", "=== CONT", "--- PASS", "--- FAIL", "--- SKIP"} {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}

func (pkg *pkgState) finish(name string) *TestResult {
	if tr, ok := pkg.tests[name]; ok {
		return tr
	}
	tr := &TestResult{Name: name}
	pkg.tests[name] = tr
	pkg.testOrder = append(pkg.testOrder, name)
	return tr
}

func (a *aggregator) results() []PackageResult {
	results := make([]PackageResult, 0, len(a.order))
	for _, name := range a.order {
		pkg := a.packages[name]
		// Skip packages with no test activity
		if len(pkg.tests) == 0 && pkg.buildError == "" && !pkg.panicked {
			continue
		}
		r := PackageResult{
			Name:       pkg.name,
			Duration:   pkg.duration,
			BuildError: pkg.buildError,
			Panicked:   pkg.panicked,
		}
		if pkg.panicked {
			r.PanicOutput = pkg.panicOutput
		}
		for _, testName := range pkg.testOrder {
			r.Tests = append(r.Tests, *pkg.tests[testName])
		}
		results = append(results, r)
	}
	return results
}
