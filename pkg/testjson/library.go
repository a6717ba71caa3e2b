package testjson

import (
	"fmt"
	"strings"

	"github.com/dkoosis/foview/pkg/model"
)

// BuildFailedCase names the synthetic case a package with a build error gets,
// so the failure is still visible under the fail filter.
const BuildFailedCase = "[build failed]"

// PanicCase names the synthetic case for a package whose panic no failing
// test reports, such as one raised from TestMain or an init function.
const PanicCase = "[panic]"

// ToLibrary turns parsed packages into one library: one suite per package,
// one test case per test.
func ToLibrary(name string, results []PackageResult) model.Library {
	lib := model.Library{Name: name}
	for _, r := range results {
		suite := model.Suite{Name: r.Name}
		for _, tr := range r.Tests {
			suite.Cases = append(suite.Cases, toCase(tr))
		}
		if r.BuildError != "" {
			suite.Cases = append(suite.Cases, model.TestCase{
				Name:   BuildFailedCase,
				Status: model.StatusFail,
				Reason: buildReason(r.BuildError),
				Detail: strings.Split(r.BuildError, "\n"),
			})
		}
		if p := panicLine(r.PanicOutput); p != "" && !reportsPanic(suite.Cases) {
			suite.Cases = append(suite.Cases, model.TestCase{
				Name:   PanicCase,
				Status: model.StatusFail,
				Reason: p,
				Detail: r.PanicOutput,
			})
		}
		lib.Suites = append(lib.Suites, suite)
	}
	return lib
}

// Decode parses a go test -json stream into a single-library document.
func Decode(name string, data []byte) (*model.Document, int, error) {
	results, malformed, err := ParseBytes(data)
	if err != nil {
		return nil, malformed, fmt.Errorf("parse go test -json: %w", err)
	}
	doc := model.NewDocument(name, []model.Library{ToLibrary(name, results)}, false)
	return doc, malformed, nil
}

func toCase(tr TestResult) model.TestCase {
	tc := model.TestCase{Name: tr.Name, Detail: tr.Output}
	switch tr.Action {
	case ActionFail:
		tc.Status = model.StatusFail
		tc.Reason = failureReason(tr.Output)
	case ActionSkip:
		tc.Status = model.StatusSkip
	default:
		tc.Status = model.StatusPass
	}
	tc.Duration = tr.Duration
	return tc
}

// failureReason picks the panic message, else the first
// "file_test.go:NN: message" line.
func failureReason(output []string) string {
	if p := panicLine(output); p != "" {
		return p
	}
	for _, line := range output {
		t := strings.TrimSpace(line)
		if strings.Contains(t, "_test.go:") {
			return t
		}
	}
	if len(output) > 0 {
		return strings.TrimSpace(output[0])
	}
	return ""
}

func panicLine(output []string) string {
	for _, line := range output {
		if t := strings.TrimSpace(line); strings.HasPrefix(t, "panic:") {
			return t
		}
	}
	return ""
}

func reportsPanic(cases []model.TestCase) bool {
	for _, c := range cases {
		if c.Status == model.StatusFail && strings.HasPrefix(c.Reason, "panic:") {
			return true
		}
	}
	return false
}

// buildReason skips the "# pkg" header the go tool prints above compiler
// diagnostics.
func buildReason(buildError string) string {
	for _, line := range strings.Split(buildError, "\n") {
		if t := strings.TrimSpace(line); t != "" && !strings.HasPrefix(t, "#") {
			return t
		}
	}
	return firstLine(buildError)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
