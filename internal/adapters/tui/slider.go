// Package tui provides the interactive housing-reduction slider.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/example/ncirc/internal/ports/primary"
)

const barWidth = 40

// Styles groups the lipgloss styles used by the slider view.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Filled lipgloss.Style
	Empty  lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
}

// DefaultStyles returns the slider's colour scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2E7D32")),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		Value:  lipgloss.NewStyle().Bold(true),
		Filled: lipgloss.NewStyle().Foreground(lipgloss.Color("#43A047")),
		Empty:  lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#E53935")),
		Help:   lipgloss.NewStyle().Faint(true),
	}
}

// SliderOptions bounds the slider.
type SliderOptions struct {
	Initial float64
	Max     float64
	Step    float64
}

// evalFunc evaluates the scenario at one slider position.
type evalFunc func(reduction float64) (*primary.Scenario, error)

// Model is the bubbletea model for the reduction slider.
// Each position change re-evaluates the scenario; a rejected position keeps the previous result.
type Model struct {
	eval   evalFunc
	opts   SliderOptions
	styles Styles

	reduction float64
	scenario  *primary.Scenario
	err       error
}

// NewModel creates a slider model and evaluates its initial position.
func NewModel(ctx context.Context, service primary.ScenarioService, opts SliderOptions) Model {
	if opts.Step <= 0 {
		opts.Step = 1
	}
	m := Model{
		eval: func(reduction float64) (*primary.Scenario, error) {
			return service.ApplyHousingReduction(ctx, primary.ScenarioRequest{Reduction: reduction})
		},
		opts:   opts,
		styles: DefaultStyles(),
	}
	m.evaluate(clamp(opts.Initial, 0, opts.Max))
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "right", "l", "+":
		m.evaluate(clamp(m.reduction+m.opts.Step, 0, m.opts.Max))
	case "left", "h", "-":
		m.evaluate(clamp(m.reduction-m.opts.Step, 0, m.opts.Max))
	case "home", "0":
		m.evaluate(0)
	case "end":
		m.evaluate(m.opts.Max)
	}
	return m, nil
}

func (m *Model) evaluate(reduction float64) {
	scenario, err := m.eval(reduction)
	if err != nil {
		m.err = err
		return
	}
	m.reduction = reduction
	m.scenario = scenario
	m.err = nil
}

// Reduction returns the slider position of the displayed result.
func (m Model) Reduction() float64 {
	return m.reduction
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder
	s := m.styles

	sb.WriteString(s.Title.Render("Nitrogen Circularity – Housing N Loss Reduction"))
	sb.WriteString("\n\n")

	filled := 0
	if m.opts.Max > 0 {
		filled = int(m.reduction / m.opts.Max * barWidth)
	}
	sb.WriteString(s.Filled.Render(strings.Repeat("█", filled)))
	sb.WriteString(s.Empty.Render(strings.Repeat("░", barWidth-filled)))
	sb.WriteString(fmt.Sprintf(" %s\n\n", s.Value.Render(fmt.Sprintf("%g%%", m.reduction))))

	if m.scenario != nil {
		mt := m.scenario.Metrics
		b := m.scenario.Breakdown
		row := func(label, value string) {
			sb.WriteString(s.Label.Render(fmt.Sprintf("%-34s", label)))
			sb.WriteString(s.Value.Render(value))
			sb.WriteString("\n")
		}
		row("N saved from housing emissions", fmt.Sprintf("%.1f kg N/yr", m.scenario.Delta))
		row("External N input", fmt.Sprintf("%.0f kg N/yr", mt.Input))
		row("Circular N", fmt.Sprintf("%.1f kg N/yr (%.1f%%)", mt.Circular, b.CircularPct))
		row("Accessible N", fmt.Sprintf("%.1f kg N/yr (%.1f%%)", mt.Accessible, b.AccessiblePct))
		row("Lost N", fmt.Sprintf("%.1f kg N/yr (%.1f%%)", mt.Lost, b.LostPct))
		row("Environmental loss", fmt.Sprintf("%.1f kg N/yr", mt.Environmental))
		row("Locked-stable soil N", fmt.Sprintf("%.1f kg N/yr", mt.LockedStable))
	}

	if m.err != nil {
		sb.WriteString("\n")
		sb.WriteString(s.Error.Render("✗ " + m.err.Error()))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(s.Help.Render("←/→ adjust • home/end jump • q quit"))
	sb.WriteString("\n")
	return sb.String()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run starts the interactive slider program.
func Run(ctx context.Context, service primary.ScenarioService, opts SliderOptions) error {
	p := tea.NewProgram(NewModel(ctx, service, opts), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
