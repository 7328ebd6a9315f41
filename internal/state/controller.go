// Package state holds the search screen's state machine. The Controller is
// the only writer of which region is visible.
package state

import (
	"sync"

	"github.com/pders01/srch/internal/render"
)

type State int

const (
	Idle State = iota
	Loading
	Results
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Results:
		return "results"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Region is one of the toggleable areas of the search screen.
type Region int

const (
	RegionLoading Region = iota
	RegionResults
	RegionError
)

// Releaser frees rendered charts when the results panel is torn down.
type Releaser interface {
	ReleaseAll()
}

// Controller tracks the current state and the sequence number of the most
// recent submission. Responses for older sequences are ignored.
type Controller struct {
	mu      sync.Mutex
	state   State
	seq     uint64
	view    render.View
	message string
	charts  Releaser
}

// New returns a controller in the Idle state. charts may be nil.
func New(charts Releaser) *Controller {
	return &Controller{state: Idle, charts: charts}
}

// Submit starts a new cycle from any state: previous results, error text and
// charts are cleared and the state becomes Loading. It returns the sequence
// number the eventual response must carry.
func (c *Controller) Submit() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.state = Loading
	c.view = render.View{}
	c.message = ""
	if c.charts != nil {
		c.charts.ReleaseAll()
	}
	return c.seq
}

// Succeed moves Loading to Results if seq is still the latest submission.
// draw, when non-nil, runs before the transition and only when it is applied.
func (c *Controller) Succeed(seq uint64, view render.View, draw func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.applicable(seq) {
		return false
	}
	if draw != nil {
		draw()
	}
	c.view = view
	c.state = Results
	return true
}

// Fail moves Loading to Error if seq is still the latest submission.
func (c *Controller) Fail(seq uint64, message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.applicable(seq) {
		return false
	}
	c.message = message
	c.state = Error
	return true
}

func (c *Controller) applicable(seq uint64) bool {
	return c.state == Loading && seq == c.seq
}

// Current reports whether seq is the latest issued sequence number.
func (c *Controller) Current(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq == c.seq
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Seq returns the latest issued sequence number.
func (c *Controller) Seq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// View returns the rendered results; it is empty outside the Results state.
func (c *Controller) View() render.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Message returns the error text; it is empty outside the Error state.
func (c *Controller) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// Visible reports whether r is shown. Exactly one region is visible in
// Loading, Results and Error; none in Idle.
func (c *Controller) Visible(r Region) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Loading:
		return r == RegionLoading
	case Results:
		return r == RegionResults
	case Error:
		return r == RegionError
	default:
		return false
	}
}
