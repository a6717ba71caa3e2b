// Package moonunit decodes moonunit XML reports into the report model.
package moonunit

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dkoosis/foview/pkg/model"
)

type xmlReport struct {
	XMLName xml.Name `xml:"moonunit"`
	Title   string   `xml:"title,attr"`
	Runs    []xmlRun `xml:"run"`
}

type xmlRun struct {
	Name      string       `xml:"name,attr"`
	Libraries []xmlLibrary `xml:"library"`
}

type xmlLibrary struct {
	File   string     `xml:"file,attr"`
	Name   string     `xml:"name,attr"`
	Abort  *xmlAbort  `xml:"abort"`
	Suites []xmlSuite `xml:"suite"`
}

type xmlAbort struct {
	Reason string `xml:"reason,attr"`
}

type xmlSuite struct {
	Name  string    `xml:"name,attr"`
	Tests []xmlTest `xml:"test"`
}

type xmlTest struct {
	Name      string     `xml:"name,attr"`
	Events    []xmlEvent `xml:"event"`
	Result    *xmlResult `xml:"result"`
	Backtrace []xmlFrame `xml:"backtrace>frame"`
}

type xmlEvent struct {
	Level string `xml:"level,attr"`
	Stage string `xml:"stage,attr"`
	File  string `xml:"file,attr"`
	Line  int    `xml:"line,attr"`
	Text  string `xml:",chardata"`
}

type xmlResult struct {
	Status string `xml:"status,attr"`
	Stage  string `xml:"stage,attr"`
	File   string `xml:"file,attr"`
	Line   int    `xml:"line,attr"`
	Reason string `xml:",chardata"`
}

type xmlFrame struct {
	BinaryFile string `xml:"binary_file,attr"`
	Function   string `xml:"function,attr"`
	FuncAddr   string `xml:"func_addr,attr"`
	ReturnAddr string `xml:"return_addr,attr"`
}

// statusDebug is written for tests run under a debugger; it carries no
// verdict and is shown as a skip.
const statusDebug = "debug"

// Decode reads a whole moonunit XML report.
func Decode(r io.Reader) (*model.Document, error) {
	var rep xmlReport
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&rep); err != nil {
		return nil, fmt.Errorf("parse moonunit xml: %w", err)
	}

	var libs []model.Library
	for _, run := range rep.Runs {
		for _, xl := range run.Libraries {
			lib, err := convertLibrary(xl)
			if err != nil {
				return nil, err
			}
			libs = append(libs, lib)
		}
	}
	title := rep.Title
	if title == "" && len(rep.Runs) > 0 {
		title = rep.Runs[0].Name
	}
	return model.NewDocument(title, libs, len(libs) > 1), nil
}

// DecodeBytes is a convenience for decoding from a byte slice.
func DecodeBytes(data []byte) (*model.Document, error) {
	return Decode(bytes.NewReader(data))
}

func convertLibrary(xl xmlLibrary) (model.Library, error) {
	lib := model.Library{Name: xl.Name, File: xl.File}
	if lib.Name == "" {
		lib.Name = strings.TrimSuffix(filepath.Base(xl.File), filepath.Ext(xl.File))
	}
	if xl.Abort != nil {
		lib.Abort = xl.Abort.Reason
	}
	for _, xs := range xl.Suites {
		suite := model.Suite{Name: xs.Name}
		for _, xt := range xs.Tests {
			tc, err := convertTest(xt)
			if err != nil {
				return lib, fmt.Errorf("library %q suite %q: %w", lib.Name, xs.Name, err)
			}
			suite.Cases = append(suite.Cases, tc)
		}
		lib.Suites = append(lib.Suites, suite)
	}
	return lib, nil
}

func convertTest(xt xmlTest) (model.TestCase, error) {
	tc := model.TestCase{Name: xt.Name}
	if xt.Result == nil {
		return tc, fmt.Errorf("test %q: missing result", xt.Name)
	}
	token := xt.Result.Status
	if token == statusDebug {
		token = string(model.StatusSkip)
	}
	status, err := model.ParseStatus(token)
	if err != nil {
		return tc, fmt.Errorf("test %q: %w", xt.Name, err)
	}
	tc.Status = status
	tc.Stage = xt.Result.Stage
	tc.Reason = strings.TrimSpace(xt.Result.Reason)
	tc.Location = model.Location{File: xt.Result.File, Line: xt.Result.Line}

	for _, ev := range xt.Events {
		tc.Detail = append(tc.Detail, formatEvent(ev))
	}
	for i, f := range xt.Backtrace {
		tc.Detail = append(tc.Detail, formatFrame(i, f))
	}
	return tc, nil
}

func formatEvent(ev xmlEvent) string {
	var sb strings.Builder
	sb.WriteString("[" + ev.Level + "]")
	if loc := (model.Location{File: ev.File, Line: ev.Line}).String(); loc != "" {
		sb.WriteString(" " + loc + ":")
	}
	sb.WriteString(" " + strings.TrimSpace(ev.Text))
	return sb.String()
}

func formatFrame(i int, f xmlFrame) string {
	fn := f.Function
	if fn == "" {
		fn = "??"
	}
	line := fmt.Sprintf("#%d %s", i, fn)
	if f.ReturnAddr != "" {
		line += " 0x" + f.ReturnAddr
	}
	if f.BinaryFile != "" {
		line += " (" + f.BinaryFile + ")"
	}
	return line
}
