package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"roidash/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Sapphire).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 2)

	usageStyle = lipgloss.NewStyle().Foreground(theme.Lavender).Width(28)
	hintStyle  = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

type paletteHint struct {
	usage string
	help  string
}

// Command returns the first word of the usage, the part Tab completes.
func (h paletteHint) command() string {
	if i := strings.IndexByte(h.usage, ' '); i > 0 {
		return h.usage[:i]
	}
	return h.usage
}

// paletteHints must stay in sync with the switch in app/model.go executePalette.
var paletteHints = []paletteHint{
	{"step:1", "client setup"},
	{"step:2", "integrations"},
	{"step:3", "baseline"},
	{"step:4", "live tracking"},
	{"step:5", "report"},
	{"connect <integration-id>", "start syncing an integration"},
	{"sample [YYYY-MM-DD]", "record a tracking sample"},
	{"export <json|yaml|md>", "write the report to disk"},
	{"share <email>", "send the report link"},
	{"reset", "discard the session"},
}

const (
	maxShownHints = 5
	maxHistory    = 20
)

// Palette is a command-palette overlay backed by bubbles/textinput. Tab
// completes the first matching command; up and down walk the history.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	history []string
	recall  int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "step:3, connect zendesk, export md"
	ti.CharLimit = 120
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with an empty input and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.recall = len(p.history)
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.remember(val)
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			if matches := p.matching(); len(matches) > 0 {
				p.input.SetValue(matches[0].command() + " ")
				p.input.CursorEnd()
			}
			return p, nil
		case "up":
			if p.recall > 0 {
				p.recall--
				p.input.SetValue(p.history[p.recall])
				p.input.CursorEnd()
			}
			return p, nil
		case "down":
			if p.recall < len(p.history) {
				p.recall++
				value := ""
				if p.recall < len(p.history) {
					value = p.history[p.recall]
				}
				p.input.SetValue(value)
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p *Palette) remember(value string) {
	if value == "" {
		return
	}
	if n := len(p.history); n > 0 && p.history[n-1] == value {
		return
	}
	p.history = append(p.history, value)
	if len(p.history) > maxHistory {
		p.history = p.history[len(p.history)-maxHistory:]
	}
}

func (p Palette) matching() []paletteHint {
	prefix := strings.ToLower(strings.TrimSpace(p.input.Value()))
	var out []paletteHint
	for _, h := range paletteHints {
		if prefix == "" || strings.HasPrefix(h.usage, prefix) {
			out = append(out, h)
			if len(out) == maxShownHints {
				break
			}
		}
	}
	return out
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Hot.Render("Wizard commands") + "\n")
	sb.WriteString(p.input.View() + "\n")
	if matches := p.matching(); len(matches) > 0 {
		sb.WriteString("\n")
		for _, h := range matches {
			sb.WriteString("  " + usageStyle.Render(h.usage) + hintStyle.Render(h.help) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
