package baseline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	wizarddto "roidash/internal/modules/wizard/dto"
	"roidash/internal/ui/components"
	"roidash/internal/ui/theme"
)

// Port is the minimal interface this view needs from the wizard use-case.
type Port interface {
	Baseline() wizarddto.BaselineMetrics
	StartTracking(ctx context.Context) (wizarddto.StepOutput, error)
}

const (
	loadStep     = 10
	loadInterval = 300 * time.Millisecond
)

type loadTickMsg struct{ gen int }

// Model plays a short collection animation and then shows the 90-day
// baseline.
type Model struct {
	port    Port
	bar     progress.Model
	loaded  int
	gen     int
	metrics wizarddto.BaselineMetrics
	width   int
}

func New(port Port) Model {
	return Model{
		port: port,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// Start restarts the collection animation.
func (m *Model) Start() tea.Cmd {
	m.gen++
	m.loaded = 0
	m.metrics = m.port.Baseline()
	return tick(m.gen)
}

// Ready reports whether the animation finished.
func (m Model) Ready() bool { return m.loaded >= 100 }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(min(m.width-8, 60), 10)

	case loadTickMsg:
		if msg.gen != m.gen || m.Ready() {
			return m, nil
		}
		m.loaded = min(m.loaded+loadStep, 100)
		if m.Ready() {
			return m, nil
		}
		return m, tick(m.gen)

	case tea.KeyMsg:
		if msg.String() == "enter" && m.Ready() {
			return m, m.startTrackingCmd()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Baseline capture") + "\n")
	b.WriteString(theme.Muted.Render("Performance over the 90 days before implementation.") + "\n\n")

	if !m.Ready() {
		b.WriteString("Collecting historical data…\n")
		b.WriteString(m.bar.ViewAs(float64(m.loaded)/100) + "\n")
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	rows := [][2]string{
		{"Support tickets (90 days)", fmt.Sprintf("%.0f", m.metrics.TicketVolume)},
		{"Average handle time", fmt.Sprintf("%.1f min", m.metrics.AvgHandleTime)},
		{"First contact resolution", fmt.Sprintf("%.0f%%", m.metrics.FCRRate)},
		{"Customer satisfaction", fmt.Sprintf("%.1f / 5", m.metrics.CSAT)},
		{"Cost per ticket", fmt.Sprintf("$%.2f", m.metrics.CostPerTicket)},
	}
	label := lipgloss.NewStyle().Width(28).Foreground(theme.Subtext0)
	for _, row := range rows {
		b.WriteString(label.Render(row[0]) + theme.Hot.Render(row[1]) + "\n")
	}
	b.WriteString("\n" + theme.Muted.Render("enter: start tracking") + "\n")
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func tick(gen int) tea.Cmd {
	return tea.Tick(loadInterval, func(time.Time) tea.Msg { return loadTickMsg{gen: gen} })
}

func (m Model) startTrackingCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.StartTracking(context.Background())
		return components.StepChangedMsg{Step: out.Step, Err: err}
	}
}
