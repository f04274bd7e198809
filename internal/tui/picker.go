// Package tui provides terminal user interface components for adfctl
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/adfctl/internal/diskctl"
	"github.com/firefly-engineering/adfctl/internal/images"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionInsert
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action   Action
	Entry    *images.Entry
	Writable bool
}

// imageItem implements list.Item for image display
type imageItem struct {
	entry images.Entry
	// unit is the drive holding the image, or -1
	unit int
}

func (i imageItem) Title() string {
	return i.entry.Name
}

func (i imageItem) Description() string {
	icon := "○"
	if i.unit >= 0 {
		icon = fmt.Sprintf("● DF%d", i.unit)
	}
	return fmt.Sprintf("%s | %s | %s",
		icon,
		images.HumanSize(i.entry.Size),
		truncatePath(i.entry.RelPath, 40),
	)
}

func (i imageItem) FilterValue() string {
	return i.entry.RelPath
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the image picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	width    int
	height   int
}

// NewPicker creates an image picker. status marks images already mounted
// and may be nil.
func NewPicker(entries []images.Entry, status *diskctl.Status) Model {
	items := buildGroupedItems(entries, status)

	l := list.New(items, newGroupedDelegate(), 80, 20)
	l.Title = "adfctl - Select Image"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	// Start on the first image rather than its group header
	if len(items) > 1 {
		l.Select(1)
	}

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter", "w":
			if item, ok := m.list.SelectedItem().(imageItem); ok {
				entry := item.entry
				m.result = PickerResult{
					Action:   ActionInsert,
					Entry:    &entry,
					Writable: msg.String() == "w",
				}
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil

		case "q", "esc":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit

		case "up", "k", "down", "j":
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			skipHeaders(&m.list, navigationDirection(msg))
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if isHeaderSelected(&m.list) {
		skipHeaders(&m.list, 1)
	}
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Insert  [w] Insert writable  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive image picker
func RunPicker(entries []images.Entry, status *diskctl.Status) (PickerResult, error) {
	if len(entries) == 0 {
		return PickerResult{Action: ActionQuit}, nil
	}

	m := NewPicker(entries, status)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimplePicker is a non-interactive listing of the images, grouped like
// the picker.
func SimplePicker(entries []images.Entry, status *diskctl.Status) string {
	var sb strings.Builder

	sb.WriteString("adfctl - Images\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n")

	if len(entries) == 0 {
		sb.WriteString("\nNo .adf/.hdf files found.\n")
		sb.WriteString("Create one with: adfctl create <name>\n")
		return sb.String()
	}

	for _, item := range buildGroupedItems(entries, status) {
		switch it := item.(type) {
		case headerItem:
			sb.WriteString("\n" + it.label + "\n")
		case imageItem:
			mark := "  "
			if it.unit >= 0 {
				mark = fmt.Sprintf("%d ", it.unit)
			}
			sb.WriteString(fmt.Sprintf("  %s%-32s %10s\n", mark, it.entry.Name, images.HumanSize(it.entry.Size)))
		}
	}

	return sb.String()
}
