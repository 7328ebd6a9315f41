package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/srch/internal/config"
	"github.com/pders01/srch/internal/state"
)

type KeyHandler struct {
	app         *App
	bindings    config.KeyBindings
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, bindings: cfg.Keys.Bindings, modifierKey: modifierKey}
}

func (kh *KeyHandler) mod(binding string) string {
	return kh.modifierKey + binding
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return kh.app, tea.Quit
	}

	if model, cmd, handled := kh.handleGlobalKeys(key); handled {
		return model, cmd
	}

	if kh.app.view != ViewMain {
		return kh.handleOverlayKeys(key)
	}

	if kh.app.focus == FocusResults {
		return kh.handleResultsKeys(msg)
	}
	return kh.handleInputKeys(msg)
}

func (kh *KeyHandler) handleGlobalKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app

	switch key {
	case kh.mod(kh.bindings.Quit):
		return a, tea.Quit, true

	case kh.mod(kh.bindings.Health):
		if a.view == ViewHealth {
			a.view = ViewMain
			kh.restoreFocus()
			return a, nil, true
		}
		a.view = ViewHealth
		a.input.Blur()
		return a, a.checkHealth(), true

	case kh.mod(kh.bindings.Help):
		if a.view == ViewHelp {
			a.view = ViewMain
			kh.restoreFocus()
			return a, nil, true
		}
		a.view = ViewHelp
		a.input.Blur()
		return a, nil, true

	case kh.mod(kh.bindings.Open):
		return a, a.openService(), true
	}

	return nil, nil, false
}

// handleOverlayKeys covers the health and help overlays. They sit on top
// of the search screen and never change its state.
func (kh *KeyHandler) handleOverlayKeys(key string) (tea.Model, tea.Cmd) {
	a := kh.app

	switch key {
	case kh.bindings.Back, "q":
		a.view = ViewMain
		kh.restoreFocus()
		return a, nil
	case "r":
		if a.view == ViewHealth {
			return a, a.checkHealth()
		}
	}
	return a, nil
}

func (kh *KeyHandler) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.String() {
	case "enter":
		return a, a.startSearch(a.input.Value())

	case kh.mod(kh.bindings.Prev), "up":
		a.recallPrev()
		return a, nil

	case kh.mod(kh.bindings.Next), "down":
		a.recallNext()
		return a, nil

	case kh.bindings.Focus:
		if a.ctrl.Visible(state.RegionResults) {
			a.focusResults()
		}
		return a, nil

	case kh.bindings.Back:
		a.input.SetValue("")
		a.recall.Reset()
		a.clearStatus()
		return a, nil
	}

	return kh.delegateToTextInput(msg)
}

func (kh *KeyHandler) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case kh.bindings.Focus, kh.bindings.Back, "/":
		a.focusInput()
		return a, nil
	}

	newViewport, cmd := a.viewport.Update(msg)
	a.viewport = newViewport
	return a, cmd
}

func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.app.status == MsgNoHistory {
		kh.app.clearStatus()
	}
	newInput, cmd := kh.app.input.Update(msg)
	kh.app.input = newInput
	return kh.app, cmd
}

func (kh *KeyHandler) restoreFocus() {
	if kh.app.focus == FocusInput {
		kh.app.input.Focus()
	}
}

// GetHelpForCurrentView returns the short key hints for the status bar.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	switch kh.app.view {
	case ViewHealth:
		return []string{"r: refresh", kh.bindings.Back + ": close"}
	case ViewHelp:
		return []string{kh.bindings.Back + ": close"}
	}

	if kh.app.focus == FocusResults {
		return []string{"↑/↓: scroll", kh.bindings.Focus + ": input", "q: quit"}
	}

	help := []string{"enter: search", kh.mod(kh.bindings.Prev) + "/" + kh.mod(kh.bindings.Next) + ": history"}
	if kh.app.ctrl.Visible(state.RegionResults) {
		help = append(help, kh.bindings.Focus+": results")
	}
	return append(help,
		kh.mod(kh.bindings.Health)+": health",
		kh.mod(kh.bindings.Help)+": help",
		kh.mod(kh.bindings.Quit)+": quit",
	)
}

// HelpMarkdown is the help overlay source, rendered through glamour.
func HelpMarkdown(modifierKey string, b config.KeyBindings) string {
	var sb strings.Builder
	sb.WriteString("# Keys\n\n")
	sb.WriteString("| Key | Action |\n|---|---|\n")
	rows := [][2]string{
		{"enter", "run the search"},
		{modifierKey + b.Prev, "previous query from history"},
		{modifierKey + b.Next, "next query from history"},
		{b.Focus, "switch between input and results"},
		{b.Back, "clear input / close overlay"},
		{modifierKey + b.Health, "service health"},
		{modifierKey + b.Open, "open the service in a browser"},
		{modifierKey + b.Help, "this help"},
		{modifierKey + b.Quit, "quit"},
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("| `%s` | %s |\n", r[0], r[1]))
	}
	sb.WriteString("\nA newer search always replaces an older one, even if the older response arrives later.\n")
	return sb.String()
}
