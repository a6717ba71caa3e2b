// Package report splits a delimited multi-library report into sections and
// assembles them into one document.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"

	"github.com/dkoosis/foview/pkg/model"
	"github.com/dkoosis/foview/pkg/moonunit"
	"github.com/dkoosis/foview/pkg/testjson"
)

// Section formats.
const (
	FormatMoonunit = "moonunit"
	FormatTestJSON = "testjson"
)

// ErrNoSections is returned when the input carries no delimiter line.
var ErrNoSections = errors.New("no sections found in report input")

var delimiterRe = regexp.MustCompile(
	`^--- library:(\S+) format:(moonunit|testjson) ---$`,
)

// Section represents one library's raw output within a report.
type Section struct {
	Library string
	Format  string // FormatMoonunit or FormatTestJSON
	Content []byte
}

// IsDelimiter reports whether line opens a section.
func IsDelimiter(line []byte) bool {
	return delimiterRe.Match(bytes.TrimRight(line, "\r"))
}

// Parse splits delimited report input into sections.
func Parse(data []byte) ([]Section, error) {
	data = bytes.TrimRight(data, "\n")
	lines := bytes.Split(data, []byte("\n"))
	var sections []Section
	var current *Section

	for _, line := range lines {
		if m := delimiterRe.FindSubmatch(bytes.TrimRight(line, "\r")); m != nil {
			if current != nil {
				current.Content = trimTrailingNewline(current.Content)
				sections = append(sections, *current)
			}
			current = &Section{
				Library: string(m[1]),
				Format:  string(m[2]),
			}
			continue
		}
		if current != nil {
			current.Content = append(current.Content, line...)
			current.Content = append(current.Content, '\n')
		}
	}
	if current != nil {
		current.Content = trimTrailingNewline(current.Content)
		sections = append(sections, *current)
	}

	if len(sections) == 0 {
		return nil, ErrNoSections
	}
	return sections, nil
}

// Decode parses sectioned input into a multi-library document. A moonunit
// section contributes its suites under the section's library name. The
// returned count is the number of malformed go test -json lines skipped.
func Decode(title string, data []byte) (*model.Document, int, error) {
	sections, err := Parse(data)
	if err != nil {
		return nil, 0, err
	}
	var (
		libs      []model.Library
		malformed int
	)
	for _, s := range sections {
		lib, bad, err := decodeSection(s)
		if err != nil {
			return nil, malformed, fmt.Errorf("section %q: %w", s.Library, err)
		}
		malformed += bad
		libs = append(libs, lib)
	}
	return model.NewDocument(title, libs, true), malformed, nil
}

func decodeSection(s Section) (model.Library, int, error) {
	switch s.Format {
	case FormatTestJSON:
		results, bad, err := testjson.ParseBytes(s.Content)
		if err != nil {
			return model.Library{}, bad, err
		}
		return testjson.ToLibrary(s.Library, results), bad, nil
	case FormatMoonunit:
		doc, err := moonunit.DecodeBytes(s.Content)
		if err != nil {
			return model.Library{}, 0, err
		}
		lib := model.Library{Name: s.Library}
		for _, l := range doc.Libraries {
			if lib.File == "" {
				lib.File = l.File
			}
			if lib.Abort == "" {
				lib.Abort = l.Abort
			}
			lib.Suites = append(lib.Suites, l.Suites...)
		}
		return lib, 0, nil
	default:
		return model.Library{}, 0, fmt.Errorf("unsupported format %q", s.Format)
	}
}

// trimTrailingNewline removes exactly one trailing newline byte, if present.
func trimTrailingNewline(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\n' {
		return b[:len(b)-1]
	}
	return b
}
