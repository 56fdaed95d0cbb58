package frontend

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo-service/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

const (
	boxChecked   = "☑"
	boxUnchecked = "☐"

	emptyText = "No todos yet"
)

// Header строка с количеством задач
func Header(s Stats) string {
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), s.Done,
		pendingStyle.Render("•"), s.Pending,
		accentStyle.Render("Total"), s.Total,
	)
}

// Line одна строка задачи: чекбокс, ID и заголовок
func Line(t model.Todo) string {
	box := mutedStyle.Render(boxUnchecked)
	title := t.Title
	if t.Completed {
		box = successStyle.Render(boxChecked)
		title = doneStyle.Render(title)
	}
	return fmt.Sprintf("%s %s %s", box, mutedStyle.Render(fmt.Sprintf("#%d", t.ID)), title)
}

// Render рисует список целиком в рамке
func Render(l *TodoList) string {
	s := l.Stats()

	lines := []string{
		Header(s),
		mutedStyle.Render(ProgressBar(s.Done, s.Total, 28)),
		"",
	}

	if s.Total == 0 {
		lines = append(lines, mutedStyle.Render(emptyText))
	}
	for _, t := range l.items {
		lines = append(lines, Line(t))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

// OK и Fail форматируют однострочные сообщения CLI
func OK(msg string) string {
	return successStyle.Render("✔ " + msg)
}

func Fail(msg string) string {
	return errorStyle.Render("✖ " + msg)
}

// ProgressBar текстовая полоса прогресса вида [███░░] 3/5
func ProgressBar(done, total, width int) string {
	if width <= 0 {
		width = 28
	}
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf("] %d/%d", done, total)
}
