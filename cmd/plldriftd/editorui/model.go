// Package editorui is a trimmed bubbletea status/param view — enough to
// exercise the parameter store's atomic write side and the bridge's
// telemetry read side end to end, without reimplementing the full GUI
// (explicitly out of core scope).
//
// Grounded on the teacher's pkg/ui/ui.go Model/Init/Update/View shape
// (spinner.Model field, frameMsg ticking at 60Hz, up/down row selection,
// left/right adjusts the selected row), generalized from six hardcoded FM
// parameters to a short fixed list of plldrift parameters plus a
// telemetry readout.
package editorui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"plldrift/internal/bridge"
	"plldrift/internal/param"
)

// row is one editable parameter exposed in the status view.
type row struct {
	label string
	id    param.ID
	step  float64
}

var rows = []row{
	{"Master Volume", param.MasterVolume, 0.05},
	{"Filter Cutoff", param.FilterCutoff, 200},
	{"Filter Resonance", param.FilterResonance, 0.02},
	{"Reverb Mix", param.ReverbMix, 0.02},
	{"PLL Track Speed", param.PLLTrackSpeed, 0.02},
}

// Model is the bubbletea model driving the status view.
type Model struct {
	spinner  spinner.Model
	store    *param.Store
	bridge   *bridge.Bridge
	selected int
}

// NewModel wires a Model to the live store and bridge so its Update
// handlers perform real editor-thread writes and its View reads real
// telemetry.
func NewModel(store *param.Store, b *bridge.Bridge) Model {
	return Model{
		spinner: spinner.New(),
		store:   store,
		bridge:  b,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickEvery60Hz())
}

type frameMsg struct{}

func tickEvery60Hz() tea.Cmd {
	return tea.Every(time.Second/60, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		return m, tickEvery60Hz()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up":
			if m.selected > 0 {
				m.selected--
			}
		case "down":
			if m.selected < len(rows)-1 {
				m.selected++
			}
		case "left":
			m.adjustSelected(-1)
		case "right":
			m.adjustSelected(1)
		}
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m Model) adjustSelected(dir float64) {
	r := rows[m.selected]
	if r.step == 0 {
		return
	}
	sp := m.store.Spec(r.id)
	cur := m.store.Raw(r.id)
	next := cur + dir*r.step
	if next < sp.Min {
		next = sp.Min
	}
	if next > sp.Max {
		next = sp.Max
	}
	m.store.Set(r.id, next)
}

var (
	rowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

func (m Model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s plldrift\n\n", m.spinner.View())
	for i, r := range rows {
		style := rowStyle
		if i == m.selected {
			style = selectedStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%-28s %8.3f", r.label, m.store.Raw(r.id))))
		b.WriteString("\n")
	}
	peakL, peakR := m.bridge.Peak()
	fmt.Fprintf(&b, "\n%s\n", dimStyle.Render(fmt.Sprintf(
		"note=%d  peak=(%.3f, %.3f)  cpu=%.1f%%  preset_v=%d",
		m.bridge.CurrentNote(), peakL, peakR, m.bridge.CPULoad()*100, m.bridge.PresetVersion(),
	)))
	return b.String()
}
