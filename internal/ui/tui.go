// Package ui реализует терминальную доску задач: четыре колонки статусов,
// перенос задач между колонками и создание задач с клавиатуры.
package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sirajahmedx/task-manager/internal/board"
	"github.com/sirajahmedx/task-manager/internal/domain/models"
)

// TaskService описывает операции сервиса задач, нужные доске.
// Реализуется пакетом client; в тестах подменяется фальшивкой.
type TaskService interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, req models.CreateTaskRequest) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	MoveTask(ctx context.Context, task models.Task, status models.Status) (models.Task, error)
}

var statusTitles = map[models.Status]string{
	models.StatusBacklog: "Бэклог",
	models.StatusTodo:    "К выполнению",
	models.StatusDoing:   "В работе",
	models.StatusDone:    "Готово",
}

var (
	columnStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(28)
	activeColumnStyle = columnStyle.BorderForeground(lipgloss.Color("39"))
	headerStyle       = lipgloss.NewStyle().Bold(true)
	cursorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	doneStyle         = lipgloss.NewStyle().Faint(true)
	errStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle         = lipgloss.NewStyle().Faint(true)
)

type tasksLoadedMsg struct{ tasks []models.Task }

type taskCreatedMsg struct{ task models.Task }

type taskMovedMsg struct{ task models.Task }

type taskDeletedMsg struct{ id string }

type errMsg struct{ err error }

type boardModel struct {
	svc     TaskService
	board   *board.Board
	col     int
	row     int
	input   bool
	title   string
	errText string
	loading bool
}

func newBoardModel(svc TaskService) *boardModel {
	return &boardModel{
		svc:     svc,
		board:   board.New(),
		col:     1, // колонка todo
		loading: true,
	}
}

// Run запускает терминальную доску.
func Run(ctx context.Context, svc TaskService) error {
	program := tea.NewProgram(newBoardModel(svc), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m *boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m *boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.svc.ListTasks(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{tasks}
	}
}

func (m *boardModel) createCmd(title string, status models.Status) tea.Cmd {
	return func() tea.Msg {
		task, err := m.svc.CreateTask(context.Background(), models.CreateTaskRequest{
			Title:  title,
			Status: string(status),
		})
		if err != nil {
			return errMsg{err}
		}
		return taskCreatedMsg{task}
	}
}

func (m *boardModel) moveCmd(task models.Task, status models.Status) tea.Cmd {
	return func() tea.Msg {
		moved, err := m.svc.MoveTask(context.Background(), task, status)
		if err != nil {
			return errMsg{err}
		}
		return taskMovedMsg{moved}
	}
}

func (m *boardModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.DeleteTask(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return taskDeletedMsg{id}
	}
}

// currentTask возвращает задачу под курсором.
func (m *boardModel) currentTask() (models.Task, bool) {
	column := board.Column(m.board.Tasks(), models.Statuses[m.col])
	if len(column) == 0 || m.row >= len(column) {
		return models.Task{}, false
	}
	return column[m.row], true
}

func (m *boardModel) clampRow() {
	column := board.Column(m.board.Tasks(), models.Statuses[m.col])
	if m.row >= len(column) {
		m.row = len(column) - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.input {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)

	case tasksLoadedMsg:
		m.loading = false
		m.errText = ""
		m.board.Replace(msg.tasks)
		m.clampRow()
		return m, nil

	case taskCreatedMsg:
		m.errText = ""
		m.board.Prepend(msg.task)
		return m, nil

	case taskMovedMsg:
		m.errText = ""
		m.board.Patch(msg.task)
		m.clampRow()
		return m, nil

	case taskDeletedMsg:
		m.errText = ""
		m.board.Remove(msg.id)
		m.clampRow()
		return m, nil

	case errMsg:
		// Ошибка показывается, локальное состояние не меняется.
		m.loading = false
		m.errText = msg.err.Error()
		return m, nil
	}

	return m, nil
}

func (m *boardModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "r", "f5":
		m.loading = true
		return m, m.loadCmd()

	case "left", "h":
		if m.col > 0 {
			m.col--
			m.clampRow()
		}
		return m, nil

	case "right", "l":
		if m.col < len(models.Statuses)-1 {
			m.col++
			m.clampRow()
		}
		return m, nil

	case "up", "k":
		if m.row > 0 {
			m.row--
		}
		return m, nil

	case "down", "j":
		column := board.Column(m.board.Tasks(), models.Statuses[m.col])
		if m.row < len(column)-1 {
			m.row++
		}
		return m, nil

	case "[", "H":
		return m.moveCurrent(-1)

	case "]", "L":
		return m.moveCurrent(1)

	case "n", "a":
		m.input = true
		m.title = ""
		return m, nil

	case "d", "x":
		task, ok := m.currentTask()
		if !ok {
			return m, nil
		}
		return m, m.deleteCmd(task.ID)
	}

	return m, nil
}

// moveCurrent переносит задачу под курсором в соседнюю колонку.
// Перенос за край доски и перенос в текущую колонку запроса не создают.
func (m *boardModel) moveCurrent(dir int) (tea.Model, tea.Cmd) {
	task, ok := m.currentTask()
	if !ok {
		return m, nil
	}

	target := m.col + dir
	if target < 0 || target >= len(models.Statuses) {
		return m, nil
	}

	status := models.Statuses[target]
	if !m.board.NeedsMove(task.ID, status) {
		return m, nil
	}
	return m, m.moveCmd(task, status)
}

func (m *boardModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input = false
		m.title = ""
		return m, nil

	case "enter":
		title := strings.TrimSpace(m.title)
		m.input = false
		m.title = ""
		if title == "" {
			return m, nil
		}
		return m, m.createCmd(title, models.Statuses[m.col])

	case "backspace":
		if len(m.title) > 0 {
			runes := []rune(m.title)
			m.title = string(runes[:len(runes)-1])
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.title += string(msg.Runes)
	case tea.KeySpace:
		m.title += " "
	}
	return m, nil
}

func (m *boardModel) View() string {
	if m.loading {
		return "Загрузка задач...\n"
	}

	tasks := m.board.Tasks()
	columns := make([]string, 0, len(models.Statuses))
	for i, status := range models.Statuses {
		column := board.Column(tasks, status)

		var b strings.Builder
		b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", statusTitles[status], len(column))))
		b.WriteString("\n\n")

		for j, task := range column {
			line := task.Title
			if status == models.StatusDone {
				line = doneStyle.Render(line)
			}
			if i == m.col && j == m.row {
				line = cursorStyle.Render("> " + task.Title)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}

		style := columnStyle
		if i == m.col {
			style = activeColumnStyle
		}
		columns = append(columns, style.Render(b.String()))
	}

	view := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	if m.input {
		view += "\n" + "Новая задача: " + m.title + "▌"
	}
	if m.errText != "" {
		view += "\n" + errStyle.Render("Ошибка: "+m.errText)
	}
	view += "\n" + helpStyle.Render("←/→ колонка · ↑/↓ задача · [/] перенести · n создать · d удалить · r обновить · q выход")

	return view
}
