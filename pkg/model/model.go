// Package model holds the typed, pre-parsed report tree: libraries own suites,
// suites own test cases. The tree is built once at load and never mutated;
// visibility is derived elsewhere and keyed by NodeID.
package model

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors returned by ParseStatus and Document.Validate.
var (
	ErrUnknownStatus    = errors.New("unknown test status")
	ErrDuplicateLibrary = errors.New("duplicate library name")
	ErrEmptyDocument    = errors.New("report contains no libraries")
	ErrEmptyLibraryName = errors.New("library name is empty")
)

// Status is the recorded outcome of a test case.
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusSkip  Status = "skip"
	StatusXFail Status = "xfail" // expected failure, failed as expected
	StatusXPass Status = "xpass" // expected failure, unexpectedly passed
)

// Statuses lists every known status in display order.
var Statuses = []Status{StatusPass, StatusFail, StatusSkip, StatusXFail, StatusXPass}

// ParseStatus maps a status token to a Status. Tokens are case-sensitive.
func ParseStatus(token string) (Status, error) {
	switch s := Status(token); s {
	case StatusPass, StatusFail, StatusSkip, StatusXFail, StatusXPass:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, token)
	}
}

// NodeID identifies a library, suite or test case by position.
// Library "l0", suite "l0/s1", test case "l0/s1/t3".
type NodeID string

// LibraryID returns the id of the i-th library.
func LibraryID(i int) NodeID { return NodeID(fmt.Sprintf("l%d", i)) }

// SuiteID returns the id of suite j in library i.
func SuiteID(i, j int) NodeID { return NodeID(fmt.Sprintf("l%d/s%d", i, j)) }

// CaseID returns the id of case k in suite j of library i.
func CaseID(i, j, k int) NodeID { return NodeID(fmt.Sprintf("l%d/s%d/t%d", i, j, k)) }

// Location points at the source line a result or event refers to.
type Location struct {
	File string
	Line int
}

// IsZero reports whether no location was recorded.
func (l Location) IsZero() bool { return l.File == "" && l.Line == 0 }

func (l Location) String() string {
	switch {
	case l.File == "":
		return ""
	case l.Line == 0:
		return l.File
	default:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
}

// TestCase is a single test outcome.
type TestCase struct {
	ID       NodeID
	Name     string
	Status   Status
	Stage    string   // test stage the result was recorded in, if any
	Reason   string   // failure or skip reason
	Location Location // where Reason was raised
	Duration time.Duration
	Detail   []string // log events, output and backtrace lines
}

// HasDetail reports whether the case has expandable content.
func (t *TestCase) HasDetail() bool {
	return t.Reason != "" || len(t.Detail) > 0
}

// Suite is an ordered group of test cases.
type Suite struct {
	ID    NodeID
	Name  string
	Cases []TestCase
}

// Library is a named, independently switchable report section.
type Library struct {
	ID     NodeID
	Name   string
	File   string // source file the library was built from, if known
	Abort  string // reason the library's run was aborted, if it was
	Suites []Suite
}

// Document is the whole report.
type Document struct {
	Title     string
	Libraries []Library

	// multi is set by loaders that read a sectioned source.
	multi bool
}

// NewDocument assigns ids to every node and returns the document.
// Callers build the tree with zero ids and let NewDocument number it.
func NewDocument(title string, libs []Library, multi bool) *Document {
	for i := range libs {
		libs[i].ID = LibraryID(i)
		for j := range libs[i].Suites {
			s := &libs[i].Suites[j]
			s.ID = SuiteID(i, j)
			for k := range s.Cases {
				s.Cases[k].ID = CaseID(i, j, k)
			}
		}
	}
	return &Document{Title: title, Libraries: libs, multi: multi}
}

// MultiLibrary reports whether the document came from a multi-section source.
func (d *Document) MultiLibrary() bool { return d.multi || len(d.Libraries) > 1 }

// Validate checks the load-time invariants: at least one library, unique
// non-empty library names, and known status tokens.
func (d *Document) Validate() error {
	if len(d.Libraries) == 0 {
		return ErrEmptyDocument
	}
	seen := make(map[string]int, len(d.Libraries))
	for i, lib := range d.Libraries {
		if lib.Name == "" {
			return fmt.Errorf("library %d: %w", i, ErrEmptyLibraryName)
		}
		if prev, ok := seen[lib.Name]; ok {
			return fmt.Errorf("%w: %q (libraries %d and %d)", ErrDuplicateLibrary, lib.Name, prev, i)
		}
		seen[lib.Name] = i
		for _, s := range lib.Suites {
			for _, c := range s.Cases {
				if _, err := ParseStatus(string(c.Status)); err != nil {
					return fmt.Errorf("%s/%s/%s: %w", lib.Name, s.Name, c.Name, err)
				}
			}
		}
	}
	return nil
}

// LibraryIndex returns the index of the library called name, or -1.
func (d *Document) LibraryIndex(name string) int {
	for i := range d.Libraries {
		if d.Libraries[i].Name == name {
			return i
		}
	}
	return -1
}

// Case looks up a test case by id.
func (d *Document) Case(id NodeID) (*TestCase, bool) {
	for i := range d.Libraries {
		for j := range d.Libraries[i].Suites {
			s := &d.Libraries[i].Suites[j]
			for k := range s.Cases {
				if s.Cases[k].ID == id {
					return &s.Cases[k], true
				}
			}
		}
	}
	return nil, false
}

// CaseCount returns the number of test cases in the library.
func (l *Library) CaseCount() int {
	n := 0
	for _, s := range l.Suites {
		n += len(s.Cases)
	}
	return n
}
