package render

import (
	"encoding/json"
)

// JSON renders the view as structured JSON for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// jsonOutput is the top-level JSON structure.
type jsonOutput struct {
	Version   string        `json:"version"`
	Title     string        `json:"title,omitempty"`
	Libraries []string      `json:"libraries"`
	Filter    jsonFilter    `json:"filter"`
	Shown     []jsonLibrary `json:"shown"`
}

type jsonFilter struct {
	Name string `json:"name,omitempty"`
	Pass bool   `json:"pass"`
	Fail bool   `json:"fail"`
	Skip bool   `json:"skip"`
}

type jsonLibrary struct {
	Name    string         `json:"name"`
	Abort   string         `json:"abort,omitempty"`
	Total   map[string]int `json:"total"`
	Visible map[string]int `json:"visible"`
	Suites  []jsonSuite    `json:"suites"`
}

type jsonSuite struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Cases []jsonCase `json:"cases"`
}

type jsonCase struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Status     string   `json:"status"`
	Reason     string   `json:"reason,omitempty"`
	Location   string   `json:"location,omitempty"`
	DurationMS float64  `json:"duration_ms,omitempty"`
	Detail     []string `json:"detail,omitempty"`
}

// Render formats the view as JSON.
func (j *JSON) Render(v View) string {
	out := jsonOutput{
		Version:   "1",
		Title:     v.Title,
		Libraries: v.Libraries,
		Filter: jsonFilter{
			Name: v.Criteria.Name,
			Pass: v.Criteria.ShowPass,
			Fail: v.Criteria.ShowFail,
			Skip: v.Criteria.ShowSkip,
		},
		Shown: make([]jsonLibrary, 0, len(v.Shown)),
	}

	for _, lv := range v.Shown {
		jl := jsonLibrary{
			Name:    lv.Library.Name,
			Abort:   lv.Library.Abort,
			Total:   map[string]int{},
			Visible: map[string]int{},
			Suites:  make([]jsonSuite, 0, len(lv.Suites)),
		}
		for cat, n := range lv.Counts.Total {
			jl.Total[cat.String()] = n
		}
		for cat, n := range lv.Counts.Visible {
			jl.Visible[cat.String()] = n
		}
		for _, sv := range lv.Suites {
			js := jsonSuite{ID: string(sv.Suite.ID), Name: sv.Suite.Name, Cases: make([]jsonCase, 0, len(sv.Cases))}
			for _, tc := range sv.Cases {
				js.Cases = append(js.Cases, jsonCase{
					ID:         string(tc.ID),
					Name:       tc.Name,
					Status:     string(tc.Status),
					Reason:     tc.Reason,
					Location:   tc.Location.String(),
					DurationMS: float64(tc.Duration.Microseconds()) / 1000,
					Detail:     tc.Detail,
				})
			}
			jl.Suites = append(jl.Suites, js)
		}
		out.Shown = append(out.Shown, jl)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}
