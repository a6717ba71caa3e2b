package viewstate

import "github.com/dkoosis/foview/pkg/model"

// Surface is anything that can show the effects of Reduce.
type Surface interface {
	Apply(effects []model.Effect)
}

type key struct {
	node model.NodeID
	attr model.Attr
}

// Recorder is a Surface that remembers the last value of every attribute.
// The listing renderers and tests read the view back from it.
type Recorder struct {
	attrs   map[key]bool
	applied int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{attrs: make(map[key]bool)}
}

// Apply records each effect in order.
func (r *Recorder) Apply(effects []model.Effect) {
	for _, e := range effects {
		r.attrs[key{e.Node, e.Attr}] = e.On
	}
	r.applied += len(effects)
}

// Get returns the recorded value and whether one was ever set.
func (r *Recorder) Get(id model.NodeID, attr model.Attr) (on, ok bool) {
	on, ok = r.attrs[key{id, attr}]
	return on, ok
}

// Visible reports the node's own visibility flag. It does not consult the
// parent; use Shown for what a viewer actually sees.
func (r *Recorder) Visible(id model.NodeID) bool {
	return r.attrs[key{id, model.AttrVisible}]
}

// Shown reports whether a test case is on screen: its library, its suite and
// itself must all be visible.
func (r *Recorder) Shown(lib *model.Library, suite *model.Suite, tc *model.TestCase) bool {
	return r.Visible(lib.ID) && r.Visible(suite.ID) && r.Visible(tc.ID)
}

// Applied returns the number of effects applied so far.
func (r *Recorder) Applied() int { return r.applied }
