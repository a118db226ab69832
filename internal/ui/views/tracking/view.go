package tracking

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	reportdto "roidash/internal/modules/report/dto"
	wizarddto "roidash/internal/modules/wizard/dto"
	"roidash/internal/ui/components"
	"roidash/internal/ui/theme"
)

// Port is the minimal interface this view needs from the wizard and report
// use-cases.
type Port interface {
	State(ctx context.Context) wizarddto.SessionState
	AddTracking(ctx context.Context, date string) (wizarddto.TrackingMetrics, error)
	ViewReport(ctx context.Context) (wizarddto.StepOutput, error)
	Show(ctx context.Context) (reportdto.Report, error)
}

// LoadedMsg carries the session and its derived comparisons.
type LoadedMsg struct {
	State  wizarddto.SessionState
	Report reportdto.Report
	Err    error
}

type sampledMsg struct {
	sample wizarddto.TrackingMetrics
	err    error
}

// recentSamples bounds the sample history shown on screen.
const recentSamples = 5

// Model shows live performance against the baseline and records samples.
type Model struct {
	port   Port
	state  wizarddto.SessionState
	report reportdto.Report
	errMsg string
	width  int
}

func New(port Port) Model {
	return Model{port: port}
}

// Load refreshes the session and comparisons.
func (m *Model) Load() tea.Cmd {
	return m.loadCmd()
}

// AddSample records a sample for date, or for today when date is empty.
func (m *Model) AddSample(date string) tea.Cmd {
	return m.sampleCmd(date)
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case LoadedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.state = msg.State
		m.report = msg.Report

	case sampledMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		return m, tea.Batch(m.loadCmd(), func() tea.Msg {
			return components.StatusMsg{Text: "sample recorded for " + msg.sample.Date}
		})

	case tea.KeyMsg:
		switch msg.String() {
		case "a":
			return m, m.sampleCmd("")
		case "enter":
			return m, m.viewReportCmd()
		case "r":
			return m, m.loadCmd()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Live tracking") + "\n")
	since := "not started"
	if m.state.TrackingStartDate != nil {
		since = *m.state.TrackingStartDate
	}
	b.WriteString(theme.Muted.Render(fmt.Sprintf("Tracking since %s · %d samples", since, len(m.state.TrackingData))) + "\n\n")

	label := lipgloss.NewStyle().Width(36).Foreground(theme.Subtext0)
	value := lipgloss.NewStyle().Width(12)
	for _, c := range m.report.Comparisons {
		change := fmt.Sprintf("%+.1f%%", c.Change)
		if c.Improved() {
			change = theme.Good.Render(change)
		} else {
			change = theme.Bad.Render(change)
		}
		b.WriteString(label.Render(fmt.Sprintf("%s (%s)", c.Metric, c.Unit)) +
			value.Render(formatNumber(c.Before)) + value.Render(formatNumber(c.After)) + change + "\n")
	}

	if n := len(m.state.TrackingData); n > 0 {
		b.WriteString("\n" + theme.Title.Render("Recent samples") + "\n")
		for _, sample := range m.state.TrackingData[max(n-recentSamples, 0):] {
			b.WriteString(theme.Muted.Render(fmt.Sprintf("  %s  %.0f tickets · %.1f min · CSAT %.1f",
				sample.Date, sample.TicketVolume, sample.AvgHandleTime, sample.CSAT)) + "\n")
		}
	}
	if m.errMsg != "" {
		b.WriteString("\n" + theme.Bad.Render("✗ "+m.errMsg) + "\n")
	}
	b.WriteString("\n" + theme.Muted.Render("a: add sample  enter: view report  r: refresh") + "\n")
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		state := m.port.State(ctx)
		report, err := m.port.Show(ctx)
		return LoadedMsg{State: state, Report: report, Err: err}
	}
}

func (m Model) sampleCmd(date string) tea.Cmd {
	return func() tea.Msg {
		sample, err := m.port.AddTracking(context.Background(), date)
		return sampledMsg{sample: sample, err: err}
	}
}

func (m Model) viewReportCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.ViewReport(context.Background())
		return components.StepChangedMsg{Step: out.Step, Err: err}
	}
}
