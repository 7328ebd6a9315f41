package tui

import (
	"github.com/pders01/srch/internal/api"
	"github.com/pders01/srch/internal/dispatch"
	"github.com/pders01/srch/internal/history"
)

// View is the overlay shown on top of the search screen.
type View int

const (
	ViewMain View = iota
	ViewHealth
	ViewHelp
)

// Focus is the part of the main screen that receives keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusResults
)

type searchDoneMsg struct {
	outcome dispatch.Outcome
}

type healthMsg struct {
	seq    uint64
	health *api.Health
	err    error
}

type historyLoadedMsg struct {
	entries []*history.Entry
	last    string
}

type openedMsg struct {
	target string
	err    error
}
