package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)
)

// FileMsg reports one finished file to the progress view.
type FileMsg struct {
	Path string
	Err  error
}

// doneMsg ends the program once the event channel closes.
type doneMsg struct{}

// Reporter forwards builder events into a running progress program. The
// channel is buffered for the whole batch so workers never block on the UI,
// even if the user quits it early.
type Reporter struct {
	events chan FileMsg
}

// NewReporter sizes the event buffer for total files.
func NewReporter(total int) *Reporter {
	return &Reporter{events: make(chan FileMsg, total+1)}
}

// FileDone implements the builder's reporter interface.
func (r *Reporter) FileDone(path string, err error) {
	r.events <- FileMsg{Path: path, Err: err}
}

// Close signals the view that the batch is complete.
func (r *Reporter) Close() {
	close(r.events)
}

// Events exposes the receive side for the progress model.
func (r *Reporter) Events() <-chan FileMsg {
	return r.events
}

// ProgressModel is the Bubble Tea model rendering batch progress: a bar,
// done/failed counts and the most recent file.
type ProgressModel struct {
	total   int
	done    int
	failed  int
	last    string
	lastErr error
	bar     progress.Model
	events  <-chan FileMsg
}

// NewProgressModel builds the model for a batch of total files.
func NewProgressModel(total int, events <-chan FileMsg) ProgressModel {
	return ProgressModel{
		total:  total,
		bar:    progress.New(progress.WithDefaultGradient()),
		events: events,
	}
}

// Init starts listening for file events.
func (m ProgressModel) Init() tea.Cmd {
	return waitForFile(m.events)
}

func waitForFile(events <-chan FileMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return msg
	}
}

// Update handles file events, progress bar animation and quit keys.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		width := msg.Width - 8
		if width > 60 {
			width = 60
		}
		if width > 0 {
			m.bar.Width = width
		}

	case FileMsg:
		m.done++
		m.last = msg.Path
		m.lastErr = msg.Err
		if msg.Err != nil {
			m.failed++
		}
		cmd := m.bar.SetPercent(float64(m.done) / float64(m.total))
		return m, tea.Batch(cmd, waitForFile(m.events))

	case doneMsg:
		return m, tea.Quit

	case progress.FrameMsg:
		model, cmd := m.bar.Update(msg)
		m.bar = model.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// View renders the progress screen.
func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("delayset"))
	b.WriteString("\n\n")
	b.WriteString(m.bar.View())
	b.WriteString("\n\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("%d/%d files processed", m.done, m.total)))
	if m.failed > 0 {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(fmt.Sprintf("%d skipped", m.failed)))
	}
	b.WriteString("\n")

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", m.last, m.lastErr)))
	} else if m.last != "" {
		b.WriteString(infoStyle.Render("✓ " + m.last))
	}
	b.WriteString("\n\nPress q to hide the progress view (processing continues).\n")

	return b.String()
}
