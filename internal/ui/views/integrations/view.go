package integrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	integrationdto "roidash/internal/modules/integration/dto"
	integrationin "roidash/internal/modules/integration/port/in"
	wizarddto "roidash/internal/modules/wizard/dto"
	"roidash/internal/ui/components"
	"roidash/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the integration and
// wizard use-cases.
type Port interface {
	Available(ctx context.Context) ([]integrationdto.OptionInfo, error)
	Connect(ctx context.Context, optionID string) (integrationin.SyncTask, error)
	CanProceed(ctx context.Context) bool
	ProceedToBaseline(ctx context.Context) (wizarddto.StepOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// OptionsLoadedMsg is sent when the integration catalog finishes loading.
type OptionsLoadedMsg struct {
	Options []integrationdto.OptionInfo
	Err     error
}

type connectedMsg struct {
	optionID string
	task     integrationin.SyncTask
	err      error
}

type syncEventMsg struct {
	optionID string
	event    integrationdto.SyncEvent
	closed   bool
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model lists the integrations for the client's use case and follows running
// syncs. Tasks keep running while the step is shown and are cancelled by Leave.
type Model struct {
	port    Port
	options []integrationdto.OptionInfo
	cursor  int
	tasks   map[string]integrationin.SyncTask
	bar     progress.Model
	spinner spinner.Model
	loading bool
	canGo   bool
	errMsg  string
	width   int
	height  int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		tasks:   map[string]integrationin.SyncTask{},
		bar:     progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Green)), progress.WithWidth(24)),
		spinner: sp,
	}
}

// Load refreshes the option list.
func (m *Model) Load() tea.Cmd {
	m.loading = true
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

// Leave cancels every running sync.
func (m *Model) Leave() {
	for id, task := range m.tasks {
		task.Cancel()
		delete(m.tasks, id)
	}
}

// Syncing reports how many syncs are running.
func (m Model) Syncing() int { return len(m.tasks) }

// Connect starts a sync for optionID, as if it was picked from the list.
func (m *Model) Connect(optionID string) tea.Cmd {
	return m.connectCmd(optionID)
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.bar.Width = max(min(m.width/3, 40), 10)

	case OptionsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.options = msg.Options
		if m.cursor >= len(m.options) {
			m.cursor = max(len(m.options)-1, 0)
		}
		m.canGo = m.port.CanProceed(context.Background())

	case connectedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.tasks[msg.optionID] = msg.task
		return m, tea.Batch(waitForEvent(msg.optionID, msg.task), func() tea.Msg {
			return components.StatusMsg{Text: "connecting " + msg.task.Platform()}
		})

	case syncEventMsg:
		task, ok := m.tasks[msg.optionID]
		if !ok {
			return m, nil
		}
		if msg.closed {
			delete(m.tasks, msg.optionID)
			return m, m.loadCmd()
		}
		m.apply(msg.optionID, msg.event)
		m.canGo = m.port.CanProceed(context.Background())
		cmds := []tea.Cmd{waitForEvent(msg.optionID, task)}
		if msg.event.Done {
			cmds = append(cmds, func() tea.Msg {
				return components.StatusMsg{Text: msg.event.Platform + " connected"}
			})
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.loading && len(m.tasks) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case "enter", "c":
			if len(m.options) == 0 {
				return m, nil
			}
			return m, tea.Batch(m.connectCmd(m.options[m.cursor].ID), m.spinner.Tick)
		case "n":
			return m, m.proceedCmd()
		case "r":
			return m, m.Load()
		}
	}
	return m, nil
}

func (m *Model) apply(optionID string, event integrationdto.SyncEvent) {
	for i := range m.options {
		if m.options[i].ID == optionID {
			m.options[i].Status = event.Status
			m.options[i].SyncProgress = event.Progress
			return
		}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Connect your data") + "\n")
	b.WriteString(theme.Muted.Render("Connect at least one platform and let it sync past 30% to continue.") + "\n\n")

	if m.loading && len(m.options) == 0 {
		b.WriteString(m.spinner.View() + " loading integrations…\n")
	}
	for i, option := range m.options {
		b.WriteString(m.renderOption(option, i == m.cursor) + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + theme.Bad.Render("✗ "+m.errMsg) + "\n")
	}

	b.WriteString("\n")
	if m.canGo {
		b.WriteString(theme.Good.Render("Ready: press n to capture the baseline") + "\n")
	} else {
		b.WriteString(theme.Muted.Render("enter: connect  n: continue  r: refresh") + "\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) renderOption(option integrationdto.OptionInfo, selected bool) string {
	cursor := "  "
	name := option.Name
	if selected {
		cursor = theme.Hot.Render("› ")
		name = theme.Hot.Render(name)
	}
	badge := ""
	if option.Recommended {
		badge = " " + theme.Warn.Render("★ recommended")
	}
	line := fmt.Sprintf("%s%s%s  %s", cursor, name, badge, theme.Muted.Render(fmt.Sprintf("%d metrics", option.MetricsCount)))

	var status string
	switch option.Status {
	case string(wizarddto.StatusConnected):
		status = theme.Good.Render("✓ connected")
	case string(wizarddto.StatusConnecting):
		status = m.bar.ViewAs(float64(option.SyncProgress)/100) + fmt.Sprintf(" %3d%%", option.SyncProgress)
		if _, running := m.tasks[option.ID]; running {
			status = m.spinner.View() + " " + status
		} else {
			status += "  " + theme.Warn.Render("paused, enter to resume")
		}
	default:
		status = theme.Muted.Render("not connected")
	}
	return line + "\n    " + theme.Muted.Render(option.Description) + "\n    " + status
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		options, err := m.port.Available(context.Background())
		return OptionsLoadedMsg{Options: options, Err: err}
	}
}

// connectCmd starts the sync detached from any request context; the task is
// stopped through Leave.
func (m Model) connectCmd(optionID string) tea.Cmd {
	return func() tea.Msg {
		task, err := m.port.Connect(context.Background(), optionID)
		return connectedMsg{optionID: optionID, task: task, err: err}
	}
}

func (m Model) proceedCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.ProceedToBaseline(context.Background())
		return components.StepChangedMsg{Step: out.Step, Err: err}
	}
}

func waitForEvent(optionID string, task integrationin.SyncTask) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-task.Events()
		return syncEventMsg{optionID: optionID, event: event, closed: !ok}
	}
}
