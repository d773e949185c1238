package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/stormview/internal/mediator"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	paneStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	focusedStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("86")).Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	yearStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	sliderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).MarginTop(1)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// Chart is a mediator view the dashboard can also paint: it exposes the
// last rendered frame and a title.
type Chart interface {
	mediator.View
	Frame() string
	Title() string
}

// Pane is one dashboard slot holding an embedded chart.
type Pane struct {
	ID    string
	Chart Chart
}

// Model is the dashboard: a year slider plus the chart panes kept in
// lockstep by the mediator.
type Model struct {
	med     *mediator.Mediator
	slider  *Slider
	readout *Readout
	panes   []Pane
	focus   int
	width   int
}

// NewModel builds the dashboard and binds its year controls to the
// mediator. The panes' views must already be registered with the
// mediator; the dashboard only paints their frames.
func NewModel(med *mediator.Mediator, panes []Pane) Model {
	start, end := med.Bounds()
	slider := NewSlider(start, end)
	readout := NewReadout()
	med.Bind(slider, readout)

	return Model{
		med:     med,
		slider:  slider,
		readout: readout,
		panes:   panes,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.slider.Step(-1)
		case "right", "l":
			m.slider.Step(1)
		case "pgup":
			m.slider.Step(-5)
		case "pgdown":
			m.slider.Step(5)
		case "home":
			start, _ := m.med.Bounds()
			m.slider.Jump(start)
		case "end":
			_, end := m.med.Bounds()
			m.slider.Jump(end)
		case "tab":
			if len(m.panes) > 0 {
				m.focus = (m.focus + 1) % len(m.panes)
			}
		case "u":
			m.med.UpdateAllViews()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("STORMVIEW"))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("season ") + yearStyle.Render(m.readout.Text()))
	b.WriteString("\n")
	b.WriteString(sliderStyle.Render(m.slider.View(40)))
	b.WriteString("\n\n")

	var rendered []string
	for i, p := range m.panes {
		style := paneStyle
		if i == m.focus {
			style = focusedStyle
		}
		content := titleStyle.Render(p.Chart.Title()) + "\n" + p.Chart.Frame()
		rendered = append(rendered, style.Render(content))
	}
	if len(rendered) > 0 {
		if m.width >= 140 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
		} else {
			b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rendered...))
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→:year  PgUp/PgDn:±5  Home/End:bounds  Tab:focus  Q:quit"))
	return b.String()
}

// Run starts the dashboard.
func Run(med *mediator.Mediator, panes []Pane) error {
	p := tea.NewProgram(NewModel(med, panes))
	_, err := p.Run()
	return err
}
