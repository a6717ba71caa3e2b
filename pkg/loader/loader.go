// Package loader reads a report from a file or stdin, detects its format and
// decodes it into a validated document.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dkoosis/foview/internal/detect"
	"github.com/dkoosis/foview/internal/logging"
	"github.com/dkoosis/foview/pkg/model"
	"github.com/dkoosis/foview/pkg/moonunit"
	"github.com/dkoosis/foview/pkg/report"
	"github.com/dkoosis/foview/pkg/testjson"
)

// StdinName is the path that selects standard input, and the document name
// used for it.
const StdinName = "-"

// ErrUnknownFormat is returned when the input is none of the supported formats.
var ErrUnknownFormat = errors.New("unrecognized report format (want moonunit XML, go test -json or a sectioned report)")

// maxInputBytes caps how much is read from a file or stdin.
const maxInputBytes = 256 << 20

// Result is a decoded report.
type Result struct {
	Doc       *model.Document
	Format    detect.Format
	Malformed int // go test -json lines that were not valid JSON
}

// Read returns the raw bytes of path, or of stdin when path is "" or "-".
func Read(path string, stdin io.Reader) ([]byte, error) {
	var r io.Reader = stdin
	if path != "" && path != StdinName {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open report: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	if len(data) > maxInputBytes {
		return nil, fmt.Errorf("read report: input exceeds %d MiB", maxInputBytes>>20)
	}
	return data, nil
}

// Decode sniffs data and decodes it with the matching decoder. name titles
// single-library go test -json documents.
func Decode(name string, data []byte) (Result, error) {
	format := detect.Sniff(data)
	res := Result{Format: format}
	var err error
	switch format {
	case detect.MoonunitXML:
		res.Doc, err = moonunit.DecodeBytes(data)
	case detect.GoTestJSON:
		res.Doc, res.Malformed, err = testjson.Decode(name, data)
	case detect.Sectioned:
		res.Doc, res.Malformed, err = report.Decode(name, data)
	default:
		return res, ErrUnknownFormat
	}
	if err != nil {
		return res, err
	}
	if res.Doc.Title == "" {
		res.Doc.Title = name
	}
	if err := res.Doc.Validate(); err != nil {
		return res, fmt.Errorf("invalid report: %w", err)
	}
	return res, nil
}

// Load reads, decodes and validates the report at path.
func Load(path string, stdin io.Reader, log *logging.Logger) (Result, error) {
	data, err := Read(path, stdin)
	if err != nil {
		return Result{}, err
	}
	name := DocumentName(path)
	res, err := Decode(name, data)
	if err != nil {
		return res, err
	}
	log.Info("report loaded",
		"source", name,
		"format", res.Format.String(),
		"libraries", len(res.Doc.Libraries))
	if res.Malformed > 0 {
		log.Warn("skipped malformed go test -json lines", "source", name, "count", res.Malformed)
	}
	return res, nil
}

// DocumentName derives a display name from path: the base name without
// extension, or "stdin".
func DocumentName(path string) string {
	if path == "" || path == StdinName {
		return "stdin"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
