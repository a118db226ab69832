package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	integrationdto "roidash/internal/modules/integration/dto"
	integrationin "roidash/internal/modules/integration/port/in"
	reportdto "roidash/internal/modules/report/dto"
	wizarddto "roidash/internal/modules/wizard/dto"
	"roidash/internal/ui/components"
	"roidash/internal/ui/theme"
	baselineview "roidash/internal/ui/views/baseline"
	integrationsview "roidash/internal/ui/views/integrations"
	reportview "roidash/internal/ui/views/report"
	setupview "roidash/internal/ui/views/setup"
	trackingview "roidash/internal/ui/views/tracking"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Step-view ports are defined in their own packages and narrowed further.

type wizardPort interface {
	State(ctx context.Context) wizarddto.SessionState
	Setup(ctx context.Context, input wizarddto.SetupInput) (wizarddto.SetupOutput, error)
	CanProceed(ctx context.Context) bool
	ProceedToBaseline(ctx context.Context) (wizarddto.StepOutput, error)
	Baseline() wizarddto.BaselineMetrics
	StartTracking(ctx context.Context) (wizarddto.StepOutput, error)
	AddTracking(ctx context.Context, date string) (wizarddto.TrackingMetrics, error)
	ViewReport(ctx context.Context) (wizarddto.StepOutput, error)
	GoTo(ctx context.Context, step int) (wizarddto.StepOutput, error)
	Reset(ctx context.Context)
}

type integrationPort interface {
	Available(ctx context.Context) ([]integrationdto.OptionInfo, error)
	Connect(ctx context.Context, optionID string) (integrationin.SyncTask, error)
}

type reportPort interface {
	Show(ctx context.Context) (reportdto.Report, error)
	Export(ctx context.Context, format, dir string) (reportdto.ExportOutput, error)
	Share(ctx context.Context, recipient string) (reportdto.ShareOutput, error)
}

// ─── steps ───────────────────────────────────────────────────────────────────

const (
	stepSetup = iota + 1
	stepIntegrations
	stepBaseline
	stepTracking
	stepReport
	stepCount = stepReport
)

var stepLabels = [stepCount + 1]string{
	"", "Setup", "Integrations", "Baseline", "Tracking", "Report",
}

// ─── async messages ───────────────────────────────────────────────────────────

type stateLoadedMsg struct {
	state wizarddto.SessionState
	show  int
}

type resetDoneMsg struct{}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Back    key.Binding
	Forward key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Sample  key.Binding
	Export  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Back:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous step")),
		Forward: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next unlocked step")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "connect / continue")),
		Sample:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add tracking sample")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export markdown")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Forward, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Sample, k.Export},
		{k.Back, k.Forward},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns step routing, the global help
// overlay and the command palette. Business logic is delegated to ports and
// rendering to the step views.
type Model struct {
	wizard wizardPort

	setupView        setupview.Model
	integrationsView integrationsview.Model
	baselineView     baselineview.Model
	trackingView     trackingview.Model
	reportView       reportview.Model

	// step is the screen on display, reached the furthest one unlocked.
	step    int
	reached int
	client  string

	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	status   string
	width    int
	height   int
}

// ─── constructor ─────────────────────────────────────────────────────────────

// NewModel builds the wizard UI. today prefills the setup form; reports are
// exported to exportDir.
func NewModel(today, exportDir string, wizard wizardPort, integration integrationPort, report reportPort) Model {
	return Model{
		wizard:           wizard,
		setupView:        setupview.New(wizard, today),
		integrationsView: integrationsview.New(integrationsBridge{wizard: wizard, integration: integration}),
		baselineView:     baselineview.New(wizard),
		trackingView:     trackingview.New(trackingBridge{wizard: wizard, report: report}),
		reportView:       reportview.New(report, exportDir),
		step:             stepSetup,
		reached:          stepSetup,
		keys:             defaultKeys(),
		help:             help.New(),
		palette:          components.NewPalette(),
		status:           "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.setupView.Init(), m.loadStateCmd(0))
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The palette takes all key input while open; async results still reach
	// the step views.
	var paletteCmd tea.Cmd
	if m.palette.Visible() {
		m.palette, paletteCmd = m.palette.Update(msg)
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, paletteCmd
		}
	}

	next, cmd := m.route(msg)
	return next, tea.Batch(paletteCmd, cmd)
}

func (m Model) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case stateLoadedMsg:
		return m.show(msg.state, msg.show)

	case components.StepChangedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			return m, nil
		}
		return m, m.loadStateCmd(msg.Step)

	case components.StatusMsg:
		m.status = msg.Text

	case resetDoneMsg:
		m.integrationsView.Leave()
		m.status = "dashboard reset"
		return m, m.loadStateCmd(stepSetup)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		// The setup form owns the keyboard; esc returns to the furthest step
		// once the client exists.
		if m.step == stepSetup && m.setupView.Typing() {
			if msg.String() == "esc" && m.reached > stepSetup {
				return m, m.goToCmd(m.reached)
			}
			return m, m.updateActive(msg)
		}

		switch msg.String() {
		case "q":
			return m.quit()
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "[":
			if m.step > stepSetup {
				return m, m.goToCmd(m.step - 1)
			}
			return m, nil
		case "]":
			if m.step < m.reached {
				return m, m.goToCmd(m.step + 1)
			}
			return m, nil
		}
		return m, m.updateActive(msg)
	}

	return m, m.updateAll(msg)
}

// show switches to step, or to the furthest unlocked step when step is zero.
func (m Model) show(state wizarddto.SessionState, step int) (tea.Model, tea.Cmd) {
	m.reached = max(state.CurrentStep, stepSetup)
	if step == 0 {
		step = m.reached
	}
	step = min(max(step, stepSetup), stepCount)
	m.client = ""
	if state.ClientInfo != nil {
		m.client = state.ClientInfo.Name
	}

	if m.step == stepIntegrations && step != stepIntegrations {
		m.integrationsView.Leave()
	}
	m.step = step

	var cmd tea.Cmd
	switch step {
	case stepSetup:
		cmd = m.setupView.Prefill(state)
	case stepIntegrations:
		cmd = m.integrationsView.Load()
	case stepBaseline:
		cmd = m.baselineView.Start()
	case stepTracking:
		cmd = m.trackingView.Load()
	case stepReport:
		cmd = m.reportView.Load()
	}
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.integrationsView.Leave()
	return m, tea.Quit
}

func (m *Model) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.step {
	case stepSetup:
		m.setupView, cmd = m.setupView.Update(msg)
	case stepIntegrations:
		m.integrationsView, cmd = m.integrationsView.Update(msg)
	case stepBaseline:
		m.baselineView, cmd = m.baselineView.Update(msg)
	case stepTracking:
		m.trackingView, cmd = m.trackingView.Update(msg)
	case stepReport:
		m.reportView, cmd = m.reportView.Update(msg)
	}
	return cmd
}

// updateAll hands async results to every step view; each one ignores what it
// did not ask for. The setup form only sees messages while shown.
func (m *Model) updateAll(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, stepCount)
	var cmd tea.Cmd
	if m.step == stepSetup {
		m.setupView, cmd = m.setupView.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.integrationsView, cmd = m.integrationsView.Update(msg)
	cmds = append(cmds, cmd)
	m.baselineView, cmd = m.baselineView.Update(msg)
	cmds = append(cmds, cmd)
	m.trackingView, cmd = m.trackingView.Update(msg)
	cmds = append(cmds, cmd)
	m.reportView, cmd = m.reportView.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	stepBar := m.renderStepBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(stepBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, stepBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.step {
	case stepSetup:
		return m.setupView.View()
	case stepIntegrations:
		return m.integrationsView.View()
	case stepBaseline:
		return m.baselineView.View()
	case stepTracking:
		return m.trackingView.View()
	case stepReport:
		return m.reportView.View()
	}
	return ""
}

func (m Model) renderStepBar() string {
	parts := make([]string, 0, stepCount)
	for i := stepSetup; i <= stepCount; i++ {
		label := fmt.Sprintf(" %d %s ", i, stepLabels[i])
		switch {
		case i == m.step:
			parts = append(parts, theme.Hot.Render(label))
		case i <= m.reached:
			parts = append(parts, theme.Good.Render(label))
		default:
			parts = append(parts, theme.Muted.Render(label))
		}
	}
	sep := theme.Muted.Render(" › ")
	bar := "roidash  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.client != "" {
		left = theme.Hot.Render("● "+m.client) + "  " + left
	}
	if n := m.integrationsView.Syncing(); n > 0 {
		left += theme.Muted.Render(fmt.Sprintf("  (%d syncing)", n))
	}
	right := theme.Muted.Render("?:help  [ ]:steps  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch {
	case strings.HasPrefix(parts[0], "step:"):
		step, err := strconv.Atoi(strings.TrimPrefix(parts[0], "step:"))
		if err != nil {
			m.status = "usage: step:<1-5>"
			return m, nil
		}
		return m, m.goToCmd(step)

	case parts[0] == "connect":
		if len(parts) < 2 {
			m.status = "usage: connect <integration-id>"
			return m, nil
		}
		if m.step != stepIntegrations {
			m.status = "switch to the Integrations step first"
			return m, nil
		}
		return m, m.integrationsView.Connect(parts[1])

	case parts[0] == "sample":
		date := ""
		if len(parts) >= 2 {
			date = parts[1]
		}
		return m, m.trackingView.AddSample(date)

	case parts[0] == "export":
		format := "md"
		if len(parts) >= 2 {
			format = parts[1]
		}
		return m, m.reportView.Export(format)

	case parts[0] == "share":
		if len(parts) < 2 {
			m.status = "usage: share <email>"
			return m, nil
		}
		return m, m.reportView.Share(parts[1])

	case parts[0] == "reset":
		return m, m.resetCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.setupView, _ = m.setupView.Update(sz)
	m.integrationsView, _ = m.integrationsView.Update(sz)
	m.baselineView, _ = m.baselineView.Update(sz)
	m.trackingView, _ = m.trackingView.Update(sz)
	m.reportView, _ = m.reportView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadStateCmd(show int) tea.Cmd {
	return func() tea.Msg {
		return stateLoadedMsg{state: m.wizard.State(context.Background()), show: show}
	}
}

func (m Model) goToCmd(step int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.wizard.GoTo(context.Background(), step)
		return components.StepChangedMsg{Step: out.Step, Err: err}
	}
}

func (m Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		m.wizard.Reset(context.Background())
		return resetDoneMsg{}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge combines the ports a step view needs into its narrow interface.

type integrationsBridge struct {
	wizard      wizardPort
	integration integrationPort
}

func (b integrationsBridge) Available(ctx context.Context) ([]integrationdto.OptionInfo, error) {
	return b.integration.Available(ctx)
}
func (b integrationsBridge) Connect(ctx context.Context, optionID string) (integrationin.SyncTask, error) {
	return b.integration.Connect(ctx, optionID)
}
func (b integrationsBridge) CanProceed(ctx context.Context) bool {
	return b.wizard.CanProceed(ctx)
}
func (b integrationsBridge) ProceedToBaseline(ctx context.Context) (wizarddto.StepOutput, error) {
	return b.wizard.ProceedToBaseline(ctx)
}

type trackingBridge struct {
	wizard wizardPort
	report reportPort
}

func (b trackingBridge) State(ctx context.Context) wizarddto.SessionState {
	return b.wizard.State(ctx)
}
func (b trackingBridge) AddTracking(ctx context.Context, date string) (wizarddto.TrackingMetrics, error) {
	return b.wizard.AddTracking(ctx, date)
}
func (b trackingBridge) ViewReport(ctx context.Context) (wizarddto.StepOutput, error) {
	return b.wizard.ViewReport(ctx)
}
func (b trackingBridge) Show(ctx context.Context) (reportdto.Report, error) {
	return b.report.Show(ctx)
}
