package setup

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	wizarddto "roidash/internal/modules/wizard/dto"
	"roidash/internal/ui/components"
	"roidash/internal/ui/forms"
	"roidash/internal/ui/theme"
)

// Port is the minimal interface this view needs from the wizard use-case.
type Port interface {
	Setup(ctx context.Context, input wizarddto.SetupInput) (wizarddto.SetupOutput, error)
}

type savedMsg struct {
	input wizarddto.SetupInput
	out   wizarddto.SetupOutput
	err   error
}

// Model wraps the setup form. A submitted form is handed to Port; on a
// validation error the form is rebuilt with the answers kept.
type Model struct {
	port   Port
	today  string
	input  *wizarddto.SetupInput
	form   *huh.Form
	errMsg string
	width  int
	height int

	submitting bool
}

// New creates the view. today prefills the start date.
func New(port Port, today string) Model {
	m := Model{port: port, today: today}
	m.reset(wizarddto.SetupInput{StartDate: today})
	return m
}

// Prefill rebuilds the form around an existing client record.
func (m *Model) Prefill(state wizarddto.SessionState) tea.Cmd {
	input := wizarddto.SetupInput{StartDate: m.today}
	if c := state.ClientInfo; c != nil {
		input = wizarddto.SetupInput{
			Name:      c.Name,
			Industry:  c.Industry,
			Contact:   c.Contact,
			UseCase:   string(c.UseCase),
			StartDate: c.StartDate,
		}
		for _, metric := range state.SelectedMetrics {
			if metric.Selected {
				input.SelectedMetrics = append(input.SelectedMetrics, metric.Name)
			}
		}
	}
	m.reset(input)
	return m.form.Init()
}

func (m *Model) reset(input wizarddto.SetupInput) {
	m.input = &input
	m.form = forms.NewSetupForm(m.input)
	if m.width > 0 {
		m.form = m.form.WithWidth(m.width)
	}
}

func (m Model) Init() tea.Cmd { return m.form.Init() }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.form = m.form.WithWidth(min(m.width, 96))
		return m, nil
	case savedMsg:
		m.submitting = false
		m.reset(msg.input)
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, m.form.Init()
		}
		m.errMsg = ""
		return m, func() tea.Msg { return components.StepChangedMsg{Step: msg.out.CurrentStep} }
	}
	if m.submitting {
		return m, nil
	}

	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.submitting = true
		input := *m.input
		input.Name = strings.TrimSpace(input.Name)
		input.Contact = strings.TrimSpace(input.Contact)
		input.StartDate = strings.TrimSpace(input.StartDate)
		return m, m.saveCmd(input)
	case huh.StateAborted:
		m.reset(*m.input)
		return m, tea.Batch(m.form.Init(), func() tea.Msg {
			return components.StatusMsg{Text: "setup form cleared"}
		})
	}
	return m, cmd
}

// Typing reports whether the form owns the keyboard.
func (m Model) Typing() bool { return !m.submitting }

func (m Model) saveCmd(input wizarddto.SetupInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Setup(context.Background(), input)
		return savedMsg{input: input, out: out, err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Client setup") + "\n")
	b.WriteString(theme.Muted.Render("Describe the client and the KPIs the implementation should move.") + "\n\n")
	if m.errMsg != "" {
		b.WriteString(theme.Bad.Render("✗ "+m.errMsg) + "\n\n")
	}
	b.WriteString(m.form.View())
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
