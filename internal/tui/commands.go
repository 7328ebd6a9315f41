package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/srch/internal/dispatch"
)

const historyRecallLimit = 100

// startSearch moves the screen to Loading and returns the command that
// performs the request.
func (a *App) startSearch(text string) tea.Cmd {
	ticket := a.dispatcher.Begin(text)

	a.lastQuery = ticket.Query.Text
	a.recall.Push(ticket.Query.Text)
	a.clearStatus()
	a.focusInput()

	return tea.Batch(a.spinner.Tick, a.runSearch(ticket))
}

// runSearch performs the request off the UI goroutine. The outcome comes
// back as a message and is applied in Update.
func (a *App) runSearch(t dispatch.Ticket) tea.Cmd {
	return func() tea.Msg {
		return searchDoneMsg{outcome: a.dispatcher.Run(context.Background(), t)}
	}
}

func (a *App) checkHealth() tea.Cmd {
	a.healthSeq++
	seq := a.healthSeq
	a.healthLoading = true
	a.healthResult = nil
	a.healthErr = nil

	checker := a.health
	timeout := a.config.Service.HTTPTimeout
	return func() tea.Msg {
		if checker == nil {
			return healthMsg{seq: seq, err: errors.New("health check unavailable")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		h, err := checker.Health(ctx, false)
		return healthMsg{seq: seq, health: h, err: err}
	}
}

func (a *App) openService() tea.Cmd {
	target := a.config.Service.BaseURL
	opener := a.opener
	return func() tea.Msg {
		if opener == nil {
			return openedMsg{target: target, err: errors.New("no opener configured")}
		}
		if err := opener.Open(target); err != nil {
			return openedMsg{target: target, err: wrapErr("open "+target, err)}
		}
		return openedMsg{target: target}
	}
}

func (a *App) loadHistory() tea.Cmd {
	src := a.history
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := src.Recent(historyRecallLimit)
		if err != nil {
			return historyLoadedMsg{}
		}
		// The last query seeds the input so enter reruns it.
		last, _ := src.LastQuery()
		return historyLoadedMsg{entries: entries, last: last}
	}
}

func (a *App) recallPrev() {
	q, ok := a.recall.Prev(a.input.Value())
	if !ok {
		a.setStatus(MsgNoHistory, StatusInfo)
		return
	}
	a.input.SetValue(q)
	a.input.CursorEnd()
	a.clearStatus()
}

func (a *App) recallNext() {
	q, ok := a.recall.Next()
	if !ok {
		return
	}
	a.input.SetValue(q)
	a.input.CursorEnd()
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 100 {
		wordWrapWidth = 100
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
