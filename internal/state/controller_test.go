package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/srch/internal/render"
)

type countingReleaser struct{ calls int }

func (r *countingReleaser) ReleaseAll() { r.calls++ }

var regions = []Region{RegionLoading, RegionResults, RegionError}

func visibleCount(c *Controller) int {
	n := 0
	for _, r := range regions {
		if c.Visible(r) {
			n++
		}
	}
	return n
}

func TestController_InitialState(t *testing.T) {
	c := New(nil)
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 0, visibleCount(c), "idle shows no region")
	assert.Equal(t, uint64(0), c.Seq())
}

func TestController_Transitions(t *testing.T) {
	tests := []struct {
		name     string
		run      func(c *Controller)
		expected State
		visible  Region
	}{
		{
			name:     "idle to loading on submit",
			run:      func(c *Controller) { c.Submit() },
			expected: Loading,
			visible:  RegionLoading,
		},
		{
			name: "loading to results on success",
			run: func(c *Controller) {
				seq := c.Submit()
				c.Succeed(seq, render.View{Summary: "ok"}, nil)
			},
			expected: Results,
			visible:  RegionResults,
		},
		{
			name: "loading to error on failure",
			run: func(c *Controller) {
				seq := c.Submit()
				c.Fail(seq, "bad query")
			},
			expected: Error,
			visible:  RegionError,
		},
		{
			name: "results to loading on submit",
			run: func(c *Controller) {
				seq := c.Submit()
				c.Succeed(seq, render.View{Summary: "ok"}, nil)
				c.Submit()
			},
			expected: Loading,
			visible:  RegionLoading,
		},
		{
			name: "error to loading on submit",
			run: func(c *Controller) {
				seq := c.Submit()
				c.Fail(seq, "x")
				c.Submit()
			},
			expected: Loading,
			visible:  RegionLoading,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil)
			tt.run(c)
			assert.Equal(t, tt.expected, c.State())
			assert.True(t, c.Visible(tt.visible))
			assert.Equal(t, 1, visibleCount(c), "exactly one region must be visible")
		})
	}
}

func TestController_SubmitClearsPreviousContent(t *testing.T) {
	rel := &countingReleaser{}
	c := New(rel)

	seq := c.Submit()
	require.True(t, c.Succeed(seq, render.View{Summary: "first"}, nil))
	assert.Equal(t, "first", c.View().Summary)

	seq = c.Submit()
	assert.True(t, c.View().Empty())
	assert.Equal(t, 2, rel.calls, "charts are released on every submission")

	require.True(t, c.Fail(seq, "bad query"))
	assert.Equal(t, "bad query", c.Message())

	c.Submit()
	assert.Equal(t, "", c.Message())
}

func TestController_StaleResponsesAreDiscarded(t *testing.T) {
	c := New(nil)

	first := c.Submit()
	second := c.Submit()
	assert.Greater(t, second, first)

	drew := false
	require.True(t, c.Succeed(second, render.View{Summary: "second"}, func() { drew = true }))
	assert.True(t, drew)

	drew = false
	assert.False(t, c.Succeed(first, render.View{Summary: "first"}, func() { drew = true }))
	assert.False(t, drew, "stale draws must not run")
	assert.False(t, c.Fail(first, "late failure"))

	assert.Equal(t, Results, c.State())
	assert.Equal(t, "second", c.View().Summary)
	assert.Equal(t, "", c.Message())
}

func TestController_ResolveOnlyOnce(t *testing.T) {
	c := New(nil)
	seq := c.Submit()
	require.True(t, c.Fail(seq, "first"))
	assert.False(t, c.Succeed(seq, render.View{Summary: "again"}, nil))
	assert.Equal(t, Error, c.State())
	assert.True(t, c.Current(seq))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "results", Results.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "unknown", State(42).String())
}
