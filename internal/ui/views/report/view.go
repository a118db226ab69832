package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	reportdto "roidash/internal/modules/report/dto"
	"roidash/internal/ui/components"
	"roidash/internal/ui/theme"
)

// Port is the minimal interface this view needs from the report use-case.
type Port interface {
	Show(ctx context.Context) (reportdto.Report, error)
	Export(ctx context.Context, format, dir string) (reportdto.ExportOutput, error)
	Share(ctx context.Context, recipient string) (reportdto.ShareOutput, error)
}

// LoadedMsg is sent when the report has been built.
type LoadedMsg struct {
	Report reportdto.Report
	Err    error
}

// Model renders the client report in a scrollable viewport.
type Model struct {
	port      Port
	exportDir string
	report    reportdto.Report
	loaded    bool
	output    viewport.Model
	errMsg    string
}

// New creates the view. Exports are written to exportDir.
func New(port Port, exportDir string) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Padding(1, 2)
	return Model{port: port, exportDir: exportDir, output: vp}
}

// Load rebuilds the report.
func (m *Model) Load() tea.Cmd {
	return m.loadCmd()
}

// Export writes the report in format; the outcome is reported in the status bar.
func (m *Model) Export(format string) tea.Cmd {
	port, dir := m.port, m.exportDir
	return func() tea.Msg {
		out, err := port.Export(context.Background(), format, dir)
		if err != nil {
			return components.StatusMsg{Text: "export failed: " + err.Error()}
		}
		return components.StatusMsg{Text: fmt.Sprintf("exported %s report to %s", out.Format, out.Path)}
	}
}

// Share sends the report link to recipient.
func (m *Model) Share(recipient string) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		out, err := port.Share(context.Background(), recipient)
		if err != nil {
			return components.StatusMsg{Text: "share failed: " + err.Error()}
		}
		return components.StatusMsg{Text: fmt.Sprintf("shared with %s: %s", out.Recipient, out.Link)}
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.output.Width = msg.Width
		m.output.Height = max(msg.Height-2, 1)
		m.output.SetContent(m.render())

	case LoadedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		} else {
			m.errMsg = ""
			m.report = msg.Report
			m.loaded = true
		}
		m.output.SetContent(m.render())
		m.output.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			return m, m.Export("md")
		case "r":
			return m, m.loadCmd()
		}
	}
	var cmd tea.Cmd
	m.output, cmd = m.output.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.output.View()
}

func (m Model) render() string {
	if m.errMsg != "" {
		return theme.Bad.Render("✗ " + m.errMsg)
	}
	if !m.loaded {
		return theme.Muted.Render("building report…")
	}
	r := m.report
	var b strings.Builder
	b.WriteString(theme.Title.Render("ROI Report: "+r.Client.Name) + "\n")
	b.WriteString(theme.Muted.Render(fmt.Sprintf("%s · %s · generated %s", r.Client.Industry, r.Client.UseCase, r.GeneratedOn)) + "\n\n")

	b.WriteString(theme.Title.Render("Financial impact (quarter)") + "\n")
	label := lipgloss.NewStyle().Width(22).Foreground(theme.Subtext0)
	b.WriteString(label.Render("Cost savings") + theme.Good.Render(reportdto.Money(r.Impact.Savings)) + "\n")
	b.WriteString(label.Render("Revenue impact") + theme.Good.Render(reportdto.Money(r.Impact.Revenue)) + "\n")
	b.WriteString(label.Render("Combined value") + theme.Hot.Render(reportdto.Money(r.Impact.Combined)) + "\n")
	b.WriteString(label.Render("Annual projection") + theme.Hot.Render(reportdto.Money(r.Impact.AnnualProjection)) + "\n\n")

	b.WriteString(theme.Title.Render("Before & after") + "\n")
	metric := lipgloss.NewStyle().Width(36).Foreground(theme.Subtext0)
	cell := lipgloss.NewStyle().Width(10)
	for _, c := range r.Comparisons {
		change := fmt.Sprintf("%+.1f%%", c.Change)
		if c.Improved() {
			change = theme.Good.Render(change)
		} else {
			change = theme.Bad.Render(change)
		}
		b.WriteString(metric.Render(fmt.Sprintf("%s (%s)", c.Metric, c.Unit)) +
			cell.Render(fmt.Sprintf("%g", c.Before)) + cell.Render(fmt.Sprintf("%g", c.After)) + change + "\n")
	}
	if len(r.Integrations) > 0 {
		b.WriteString("\n" + theme.Muted.Render("Data sources: "+strings.Join(r.Integrations, ", ")) + "\n")
	}
	b.WriteString("\n" + theme.Muted.Render("e: export markdown  :export <fmt>  :share <email>") + "\n")
	return b.String()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		report, err := m.port.Show(context.Background())
		return LoadedMsg{Report: report, Err: err}
	}
}
