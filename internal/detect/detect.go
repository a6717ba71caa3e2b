// Package detect sniffs input to determine the report format.
package detect

import (
	"bytes"
	"encoding/json"

	"github.com/dkoosis/foview/pkg/report"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown     Format = iota
	GoTestJSON         // go test -json NDJSON stream
	MoonunitXML        // moonunit XML report
	Sectioned          // "--- library:<name> format:<f> ---" delimited report
)

func (f Format) String() string {
	switch f {
	case GoTestJSON:
		return "testjson"
	case MoonunitXML:
		return "moonunit"
	case Sectioned:
		return "sectioned"
	default:
		return "unknown"
	}
}

// xmlProbeLen bounds how far into an XML prolog the root element is sought.
const xmlProbeLen = 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sniff examines the first bytes of input to determine format.
// Input must contain at least the first line.
func Sniff(data []byte) Format {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return Unknown
	}

	switch data[0] {
	case '-':
		if report.IsDelimiter(firstLine(data)) {
			return Sectioned
		}
	case '<':
		if isMoonunit(data) {
			return MoonunitXML
		}
	case '{':
		if isGoTestJSON(firstLine(data)) {
			return GoTestJSON
		}
	}
	return Unknown
}

func firstLine(data []byte) []byte {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return data[:i]
	}
	return data
}

// isMoonunit accepts a document whose root element is <moonunit>, allowing
// an XML declaration and comments before it.
func isMoonunit(data []byte) bool {
	if len(data) > xmlProbeLen {
		data = data[:xmlProbeLen]
	}
	i := bytes.Index(data, []byte("<moonunit"))
	if i < 0 {
		return false
	}
	rest := data[i+len("<moonunit"):]
	return len(rest) == 0 || bytes.IndexByte([]byte(" \t\r\n>/"), rest[0]) >= 0
}

func isGoTestJSON(line []byte) bool {
	var event struct {
		Action     string `json:"Action"`
		Package    string `json:"Package"`
		ImportPath string `json:"ImportPath"`
	}
	if err := json.Unmarshal(line, &event); err != nil {
		return false
	}

	validActions := map[string]bool{
		"start": true, "run": true, "pause": true, "cont": true,
		"pass": true, "bench": true, "fail": true, "output": true, "skip": true,
	}
	// Since Go 1.24 a stream with a compile error opens with build events,
	// which carry ImportPath instead of Package.
	buildActions := map[string]bool{"build-output": true, "build-fail": true}
	if event.ImportPath != "" {
		return buildActions[event.Action]
	}
	return validActions[event.Action]
}
