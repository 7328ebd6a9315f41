// Package chart owns the chart instances drawn in the results panel.
package chart

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pders01/srch/internal/aggregate"
)

// Slot names a rendering target. A slot holds at most one live chart.
type Slot string

const (
	SlotSources  Slot = "sourceBreakdown"
	SlotTimeline Slot = "timeline"
)

// Spec describes the chart to draw into a slot.
type Spec struct {
	Title  string
	Series aggregate.Series
	Unit   string
}

// Chart is a live chart instance. Release frees it; a released chart must
// not be drawn again.
type Chart interface {
	View(width int) string
	Release()
}

// Factory creates chart instances.
type Factory interface {
	New(slot Slot, spec Spec) (Chart, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(slot Slot, spec Spec) (Chart, error)

func (f FactoryFunc) New(slot Slot, spec Spec) (Chart, error) { return f(slot, spec) }

// Manager is the only holder of chart instances. Creating and releasing the
// instance of a slot happens under one lock, so a slot never has two live
// charts at once.
type Manager struct {
	mu      sync.Mutex
	factory Factory
	charts  map[Slot]Chart
}

func NewManager(factory Factory) *Manager {
	return &Manager{
		factory: factory,
		charts:  make(map[Slot]Chart),
	}
}

// Render releases the chart currently registered for slot, then creates and
// registers a new one from spec. If creation fails the slot stays empty.
func (m *Manager) Render(slot Slot, spec Spec) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.charts[slot]; ok {
		prev.Release()
		delete(m.charts, slot)
	}

	c, err := m.factory.New(slot, spec)
	if err != nil {
		return fmt.Errorf("creating %s chart: %w", slot, err)
	}
	m.charts[slot] = c
	return nil
}

// Release frees the chart in slot, if any.
func (m *Manager) Release(slot Slot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.charts[slot]; ok {
		c.Release()
		delete(m.charts, slot)
	}
}

// ReleaseAll frees every registered chart.
func (m *Manager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for slot, c := range m.charts {
		c.Release()
		delete(m.charts, slot)
	}
}

// View draws the chart in slot, or returns "" when the slot is empty.
func (m *Manager) View(slot Slot, width int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.charts[slot]; ok {
		return c.View(width)
	}
	return ""
}

func (m *Manager) Live(slot Slot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.charts[slot]
	return ok
}

// Slots lists the slots that currently hold a chart, sorted by name.
func (m *Manager) Slots() []Slot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Slot, 0, len(m.charts))
	for s := range m.charts {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
