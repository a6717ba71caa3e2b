package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/dkoosis/foview/pkg/filter"
	"github.com/dkoosis/foview/pkg/model"
)

// HTML writes a static page of the whole document. Nodes the surface does
// not show carry the hidden attribute, so the page opens in the same state
// the view was in.
type HTML struct{}

// NewHTML creates an HTML exporter.
func NewHTML() *HTML {
	return &HTML{}
}

type htmlPage struct {
	Title     string
	Filter    string
	Libraries []htmlLibrary
}

type htmlLibrary struct {
	Name   string
	Abort  string
	Hidden bool
	Others []string
	Counts string
	Suites []htmlSuite
}

type htmlSuite struct {
	Name   string
	Hidden bool
	Cases  []htmlCase
}

type htmlCase struct {
	ID       string
	Name     string
	Status   string
	Reason   string
	Duration string
	Detail   []string
	Hidden   bool
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 1.5em; }
.suite > h3 { margin: .6em 0 .2em; font-size: 1em; }
.test { padding: .1em .5em; font-family: monospace; }
.test[test-status="pass"], .test[test-status="xfail"] { color: #1a7f37; }
.test[test-status="fail"], .test[test-status="xpass"] { color: #cf222e; }
.test[test-status="skip"] { color: #9a6700; }
.reason, .detail { color: #57606a; margin-left: 2em; }
.menu { color: #57606a; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .Filter}}
<p class="filter">{{.Filter}}</p>
{{- end}}
{{- range .Libraries}}
<section class="library" library-name="{{.Name}}"{{if .Hidden}} hidden{{end}}>
<h2>{{.Name}}</h2>
{{- if .Others}}
<ul class="menu">{{range .Others}}<li>{{.}}</li>{{end}}</ul>
{{- end}}
{{- if .Abort}}
<p class="abort">aborted: {{.Abort}}</p>
{{- end}}
{{- range .Suites}}
<div class="suite"{{if .Hidden}} hidden{{end}}>
<h3>{{.Name}}</h3>
{{- range .Cases}}
<div class="test" id="{{.ID}}" test-name="{{.Name}}" test-status="{{.Status}}"{{if .Hidden}} hidden{{end}}>
{{.Status}} {{.Name}}{{if .Duration}} ({{.Duration}}){{end}}
{{- if .Reason}}
<div class="reason">{{.Reason}}</div>
{{- end}}
{{- if .Detail}}
<details class="detail"><summary>detail</summary><pre>{{range .Detail}}{{.}}
{{end}}</pre></details>
{{- end}}
</div>
{{- end}}
</div>
{{- end}}
<p class="counts">{{.Counts}}</p>
</section>
{{- end}}
</body>
</html>
`))

// Write renders doc to w.
func (h *HTML) Write(w io.Writer, doc *model.Document, surface Surface, c filter.Criteria) error {
	page := htmlPage{Title: doc.Title, Filter: CriteriaLine(c)}
	if page.Title == "" {
		page.Title = "Test report"
	}
	v := Build(doc, surface, c)
	counts := make(map[model.NodeID]string, len(v.Shown))
	for _, lv := range v.Shown {
		counts[lv.Library.ID] = CountsLine(lv.Counts, " · ")
	}

	names := make([]string, 0, len(doc.Libraries))
	for _, lib := range doc.Libraries {
		names = append(names, lib.Name)
	}
	for i := range doc.Libraries {
		lib := &doc.Libraries[i]
		hl := htmlLibrary{
			Name:   lib.Name,
			Abort:  lib.Abort,
			Hidden: !surface.Visible(lib.ID),
			Counts: counts[lib.ID],
		}
		if doc.MultiLibrary() {
			hl.Others = OtherLibraries(names, lib.Name)
		}
		for _, s := range lib.Suites {
			suiteShown := surface.Visible(s.ID)
			hs := htmlSuite{Name: s.Name, Hidden: !suiteShown}
			for k := range s.Cases {
				tc := &s.Cases[k]
				hs.Cases = append(hs.Cases, htmlCase{
					ID:       string(tc.ID),
					Name:     tc.Name,
					Status:   string(tc.Status),
					Reason:   Reason(tc),
					Duration: FormatDuration(tc.Duration),
					Detail:   tc.Detail,
					Hidden:   !suiteShown || !surface.Visible(tc.ID),
				})
			}
			hl.Suites = append(hl.Suites, hs)
		}
		page.Libraries = append(page.Libraries, hl)
	}

	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
