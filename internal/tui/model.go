package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/domain"
	"docqa/internal/service"
)

// QAPort is the TUI-facing subset of the session orchestrator.
type QAPort interface {
	Ask(question string) (domain.Answer, error)
	Stats() service.Stats
}

// Model is the Bubble Tea model for the question/answer view.
type Model struct {
	session QAPort
	input   textinput.Model
	view    viewport.Model
	answer  *domain.Answer
	status  string
	ready   bool
}

// New creates the TUI over an indexed session.
func New(session QAPort) Model {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Ask a question about your documents"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	stats := session.Stats()
	return Model{
		session: session,
		input:   ti,
		view:    vp,
		status:  fmt.Sprintf("Indexed %d segments from %d documents. Ask away.", stats.IndexSize, stats.Documents),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ah := answerBoxStyle.GetFrameSize()
		_, qh := questionBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header + stats, input frame, status
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.view.Width = max(20, msg.Width)
		m.view.Height = max(3, vh-ah)
		m.view.SetContent(m.renderAnswer())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				break
			}
			answer, err := m.session.Ask(q)
			if err != nil {
				m.answer = nil
				m.status = statusForError(err)
			} else {
				m.answer = &answer
				m.status = fmt.Sprintf("Answered from %d retrieved segments.", answer.RetrievalCount)
				m.input.SetValue("")
			}
			m.view.SetContent(m.renderAnswer())
			m.view.GotoTop()
			return m, nil
		case "up":
			m.view.LineUp(1)
			return m, nil
		case "down":
			m.view.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the full layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Document Q&A")
	stats := m.session.Stats()
	statsLine := dimStyle.Render(fmt.Sprintf("%d documents / %d indexed segments", stats.Documents, stats.IndexSize))
	answer := answerBoxStyle.Render(m.view.View())
	input := questionBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "  " + statsLine + "\n" + answer + "\n" + input + "\n" + status
}

func (m Model) renderAnswer() string {
	if m.answer == nil {
		return "No answer yet. Type a question and press Enter."
	}
	var b strings.Builder
	b.WriteString(m.answer.Text)
	if len(m.answer.Citations) > 0 {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Render("Sources"))
		b.WriteString("\n")
		for i, c := range m.answer.Citations {
			b.WriteString(renderCitation(i+1, c))
			b.WriteString("\n")
		}
	} else {
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("No highly relevant citations found for this answer."))
	}
	return b.String()
}

func renderCitation(n int, c domain.Citation) string {
	percent := int(c.Relevance * 100)
	marker := lowRelevanceStyle
	switch {
	case percent >= 70:
		marker = highRelevanceStyle
	case percent >= 40:
		marker = midRelevanceStyle
	}
	head := fmt.Sprintf("%s %d. %s (Page %d) - %d%% relevant", marker.Render("●"), n, c.FileName, c.Page, percent)
	if c.Excerpt == "" {
		return head
	}
	return head + "\n   " + dimStyle.Render(c.Excerpt)
}

func statusForError(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotReady), errors.Is(err, domain.ErrEmptyIndex):
		return "No index built yet. Load documents and build the index first."
	case errors.Is(err, domain.ErrRetrieval), errors.Is(err, domain.ErrGeneration):
		return "Error: " + err.Error() + " (please try again)"
	default:
		return "Error: " + err.Error()
	}
}

var (
	answerBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	highRelevanceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	midRelevanceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lowRelevanceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
