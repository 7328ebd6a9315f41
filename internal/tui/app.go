package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/srch/internal/api"
	"github.com/pders01/srch/internal/chart"
	"github.com/pders01/srch/internal/config"
	"github.com/pders01/srch/internal/dispatch"
	"github.com/pders01/srch/internal/history"
	"github.com/pders01/srch/internal/render"
	"github.com/pders01/srch/internal/state"
)

// HealthChecker queries the service health endpoint.
type HealthChecker interface {
	Health(ctx context.Context, external bool) (*api.Health, error)
}

type URLOpener interface {
	Open(target string) error
}

// HistorySource provides past queries, newest first.
type HistorySource interface {
	Recent(limit int) ([]*history.Entry, error)
	LastQuery() (string, error)
}

// Deps are the collaborators the App drives. Dispatcher and Config are
// required; the rest may be nil and their features are then disabled.
type Deps struct {
	Config     *config.Config
	Dispatcher *dispatch.Dispatcher
	Charts     *chart.Manager
	Health     HealthChecker
	Opener     URLOpener
	History    HistorySource
}

type App struct {
	config     *config.Config
	dispatcher *dispatch.Dispatcher
	ctrl       *state.Controller
	charts     *chart.Manager
	health     HealthChecker
	opener     URLOpener
	history    HistorySource
	keyHandler *KeyHandler

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	recall   *history.Recall

	view      View
	focus     Focus
	lastQuery string

	healthSeq     uint64
	healthLoading bool
	healthResult  *api.Health
	healthErr     error

	status     string
	statusKind StatusKind

	width  int
	height int

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(deps Deps) *App {
	ti := textinput.New()
	ti.Placeholder = "Search the news…"
	ti.Prompt = "› "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	app := &App{
		config:     deps.Config,
		dispatcher: deps.Dispatcher,
		ctrl:       deps.Dispatcher.Controller(),
		charts:     deps.Charts,
		health:     deps.Health,
		opener:     deps.Opener,
		history:    deps.History,
		input:      ti,
		spinner:    sp,
		viewport:   viewport.New(0, 0),
		recall:     history.NewRecall(nil),
		view:       ViewMain,
		focus:      FocusInput,
	}
	app.keyHandler = NewKeyHandler(app, deps.Config)
	app.resize(80, 24)

	return app
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		a.loadHistory(),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		a.refreshResults()
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if a.ctrl.State() != state.Loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case searchDoneMsg:
		if a.dispatcher.Resolve(msg.outcome) {
			a.refreshResults()
			if a.ctrl.State() != state.Results && a.focus == FocusResults {
				a.focusInput()
			}
		}
		return a, nil

	case healthMsg:
		if msg.seq != a.healthSeq {
			return a, nil
		}
		a.healthLoading = false
		a.healthResult = msg.health
		a.healthErr = msg.err
		return a, nil

	case historyLoadedMsg:
		a.recall = history.FromEntries(msg.entries)
		if a.input.Value() == "" && msg.last != "" {
			a.input.SetValue(msg.last)
			a.input.CursorEnd()
		}
		return a, nil

	case openedMsg:
		if msg.err != nil {
			a.setStatus(msg.err.Error(), StatusError)
		} else {
			a.setStatus(MsgOpened(msg.target), StatusSuccess)
		}
		return a, nil
	}

	if a.focus == FocusResults {
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	inputWidth := a.contentWidth() - 4
	if inputWidth < 10 {
		inputWidth = 10
	}
	a.input.Width = inputWidth

	// header (2) + input frame (3) + separator and status (2)
	vpHeight := height - 7
	if vpHeight < 3 {
		vpHeight = 3
	}
	a.viewport.Width = a.contentWidth()
	a.viewport.Height = vpHeight
}

func (a *App) contentWidth() int {
	w := a.width - 2
	if w < 20 {
		w = a.width
	}
	return w
}

func (a *App) chartWidth() int {
	return min(a.contentWidth(), a.config.UI.Chart.MaxWidth)
}

// refreshResults rebuilds the results viewport from the controller's view
// model and whatever charts are live.
func (a *App) refreshResults() {
	if a.ctrl.State() != state.Results {
		return
	}
	a.viewport.SetContent(a.resultsContent(a.ctrl.View()))
	a.viewport.GotoTop()
}

func (a *App) resultsContent(v render.View) string {
	width := a.contentWidth()
	wrap := lipgloss.NewStyle().Width(width)

	var sections []string
	sections = append(sections,
		LabelStyle.Render(v.ArticlesLabel)+"  "+LabelStyle.Render(v.ConfidenceLabel),
		"",
		HeaderStyle.Render("Summary"),
		wrap.Render(InsightStyle.Render(v.Summary)),
		"",
		HeaderStyle.Render("Key Insights"),
	)
	if len(v.Insights) == 0 {
		sections = append(sections, renderMuted("No insights"))
	}
	for _, in := range v.Insights {
		sections = append(sections, wrap.Render(InsightStyle.Render("• "+in)))
	}

	if a.charts != nil {
		for _, slot := range a.charts.Slots() {
			if !a.charts.Live(slot) {
				continue
			}
			sections = append(sections, "", a.charts.View(slot, a.chartWidth()))
		}
	}

	return strings.Join(sections, "\n")
}

func (a *App) setStatus(msg string, kind StatusKind) {
	a.status = msg
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

func (a *App) focusInput() {
	a.focus = FocusInput
	a.input.Focus()
}

func (a *App) focusResults() {
	a.focus = FocusResults
	a.input.Blur()
}

func (a *App) View() string {
	width := a.contentWidth()

	header := renderHeader(AppName+" · news search", a.dispatcher.Flow().Endpoint, width)
	inputBox := renderInputFrame(a.input.View(), a.focus == FocusInput && a.view == ViewMain, a.input.Width)

	bodyHeight := a.height - lipgloss.Height(header) - lipgloss.Height(inputBox) - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	switch a.view {
	case ViewHealth:
		body = renderCentered(width, bodyHeight, a.healthView())
	case ViewHelp:
		body = renderCentered(width, bodyHeight, a.helpView())
	default:
		body = a.mainRegion(width, bodyHeight)
	}

	separator := SeparatorStyle.Render(strings.Repeat("─", max(a.width, 1)))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		inputBox,
		body,
		separator,
		a.statusBar(),
	)
}

// mainRegion draws whichever region the controller has made visible.
func (a *App) mainRegion(width, height int) string {
	switch {
	case a.ctrl.Visible(state.RegionLoading):
		return renderCentered(width, height,
			a.spinner.View()+" "+renderMuted(fmt.Sprintf("Searching for %q…", truncateEnd(a.lastQuery, width-20))))
	case a.ctrl.Visible(state.RegionResults):
		return a.viewport.View()
	case a.ctrl.Visible(state.RegionError):
		msg := lipgloss.NewStyle().Width(min(width, 72)).Render(ErrorMessageStyle.Render("✗ " + a.ctrl.Message()))
		return renderCentered(width, height, msg)
	default:
		return renderCentered(width, height, GetWelcomeMessage(a.keyHandler.modifierKey))
	}
}

func (a *App) healthView() string {
	var rows []string
	rows = append(rows, TitleStyle.Render("› service health"), "")

	switch {
	case a.healthLoading:
		rows = append(rows, renderMuted(MsgCheckingHealth))
	case a.healthErr != nil:
		rows = append(rows, ErrorMessageStyle.Render("✗ "+render.SingleLine(api.DisplayMessage(a.healthErr))))
	case a.healthResult != nil:
		h := a.healthResult
		rows = append(rows,
			LabelStyle.Render("Status:    ")+statusBadge(h.Status),
			LabelStyle.Render("Version:   ")+InsightStyle.Render(render.SingleLine(h.Version)),
		)
		if h.Timestamp != "" {
			rows = append(rows, LabelStyle.Render("Timestamp: ")+InsightStyle.Render(render.SingleLine(h.Timestamp)))
		}
	}

	rows = append(rows, "", renderHelp("r: refresh • esc: close"))
	return OverlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func statusBadge(status string) string {
	status = render.SingleLine(status)
	if strings.EqualFold(status, "healthy") || strings.EqualFold(status, "ok") {
		return StatusSuccessStyle.Render("● " + status)
	}
	return StatusWarnStyle.Render("● " + status)
}

func (a *App) helpView() string {
	md := HelpMarkdown(a.keyHandler.modifierKey, a.config.Keys.Bindings)

	content := md
	if r, err := a.getRenderer(); err == nil {
		if rendered, rerr := r.Render(md); rerr == nil {
			content = strings.TrimSpace(rendered)
		}
	}
	return OverlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		content,
		"",
		renderHelp("esc: close"),
	))
}

func (a *App) statusBar() string {
	style := lipgloss.NewStyle().Width(a.width).Padding(0, 1)

	if a.status != "" {
		return style.Render(a.statusKind.style().Render(truncateEnd(a.status, a.width-2)))
	}
	commands := a.keyHandler.GetHelpForCurrentView()
	return style.Foreground(MutedColor).Render(truncateEnd(strings.Join(commands, " • "), a.width-2))
}
