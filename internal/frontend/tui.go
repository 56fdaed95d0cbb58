package frontend

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo-service/internal/model"
)

// API операции сервера, которые нужны интерфейсу. *client.Client ему удовлетворяет.
type API interface {
	List(ctx context.Context) ([]model.Todo, error)
	Create(ctx context.Context, title string) (model.Todo, error)
	Update(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// RunTUI запускает интерактивный список поверх API
func RunTUI(api API, timeout time.Duration) error {
	_, err := tea.NewProgram(newTUIModel(api, timeout), tea.WithAltScreen()).Run()
	return err
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

// Сообщения, которые возвращают асинхронные вызовы API
type (
	loadedMsg  struct{ todos []model.Todo }
	savedMsg   struct{ todo model.Todo }
	removedMsg struct{ id int64 }
	failedMsg  struct{ err error }
)

type keyMap struct {
	add    key.Binding
	edit   key.Binding
	toggle key.Binding
	remove key.Binding
	reload key.Binding
	quit   key.Binding
}

var keys = keyMap{
	add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	remove: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// listItem адаптирует model.Todo к list.Item
type listItem struct {
	todo model.Todo
}

func (i listItem) Title() string       { return i.todo.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Title }

// itemDelegate рисует задачу в одну строку
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render(">") + " "
	}
	fmt.Fprint(w, prefix+Line(it.todo))
}

type tuiModel struct {
	api     API
	timeout time.Duration

	state *TodoList
	list  list.Model
	input textinput.Model

	mode     inputMode
	editID   int64
	deleteID int64

	status    string
	statusErr bool
	busy      bool

	width, height int
}

func newTUIModel(api API, timeout time.Duration) tuiModel {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = Header(Stats{})
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")

	extra := func() []key.Binding {
		return []key.Binding{keys.add, keys.edit, keys.toggle, keys.remove, keys.reload}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	return tuiModel{
		api:     api,
		timeout: timeout,
		state:   NewTodoList(),
		list:    l,
		input:   ti,
		width:   80,
		height:  24,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return m.load()
}

// call выполняет запрос к API с таймаутом вне цикла событий
func (m tuiModel) call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return fn(ctx)
	}
}

func (m tuiModel) load() tea.Cmd {
	return m.call(func(ctx context.Context) tea.Msg {
		todos, err := m.api.List(ctx)
		if err != nil {
			return failedMsg{err}
		}
		return loadedMsg{todos}
	})
}

func (m tuiModel) create(title string) tea.Cmd {
	return m.call(func(ctx context.Context) tea.Msg {
		todo, err := m.api.Create(ctx, title)
		if err != nil {
			return failedMsg{err}
		}
		return savedMsg{todo}
	})
}

func (m tuiModel) update(id int64, patch model.TodoPatch) tea.Cmd {
	return m.call(func(ctx context.Context) tea.Msg {
		todo, err := m.api.Update(ctx, id, patch)
		if err != nil {
			return failedMsg{err}
		}
		return savedMsg{todo}
	})
}

func (m tuiModel) remove(id int64) tea.Cmd {
	return m.call(func(ctx context.Context) tea.Msg {
		deleted, err := m.api.Delete(ctx, id)
		if err != nil {
			return failedMsg{err}
		}
		return removedMsg{deleted}
	})
}

// sync перестраивает элементы списка из состояния
func (m *tuiModel) sync() tea.Cmd {
	todos := m.state.Items()
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, listItem{todo: t})
	}
	m.list.Title = Header(m.state.Stats())
	return m.list.SetItems(items)
}

func (m *tuiModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m tuiModel) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loadedMsg:
		m.busy = false
		m.state.Replace(msg.todos)
		m.setStatus(fmt.Sprintf("loaded %d todos", len(msg.todos)), false)
		return m, m.sync()

	case savedMsg:
		m.busy = false
		m.state.Apply(msg.todo)
		m.setStatus("saved #"+fmt.Sprint(msg.todo.ID), false)
		return m, m.sync()

	case removedMsg:
		m.busy = false
		m.state.Remove(msg.id)
		m.setStatus("deleted #"+fmt.Sprint(msg.id), false)
		return m, m.sync()

	case failedMsg:
		m.busy = false
		m.setStatus(msg.err.Error(), true)
		return m, nil
	}

	if m.mode == modeConfirmDelete {
		if km, ok := msg.(tea.KeyMsg); ok {
			return m.confirmDelete(km)
		}
		return m, nil
	}

	if m.mode != modeBrowse {
		return m.updateInput(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if next, cmd, handled := m.handleKey(km); handled {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit, true

	case key.Matches(msg, keys.reload):
		m.busy = true
		return m, m.load(), true

	case key.Matches(msg, keys.add):
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Placeholder = "New todo title..."
		return m, m.input.Focus(), true

	case key.Matches(msg, keys.edit):
		todo, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		m.mode = modeEdit
		m.editID = todo.ID
		m.input.SetValue(todo.Title)
		m.input.CursorEnd()
		m.input.Placeholder = "Edit title..."
		return m, m.input.Focus(), true

	case key.Matches(msg, keys.toggle):
		todo, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		completed := !todo.Completed
		m.busy = true
		return m, m.update(todo.ID, model.TodoPatch{Completed: &completed}), true

	case key.Matches(msg, keys.remove):
		todo, ok := m.selected()
		if !ok {
			return m, nil, true
		}
		m.mode = modeConfirmDelete
		m.deleteID = todo.ID
		return m, nil, true
	}
	return m, nil, false
}

// confirmDelete удаляет задачу только по "y", любая другая клавиша отменяет
func (m tuiModel) confirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.deleteID
	m.mode = modeBrowse
	m.deleteID = 0

	if msg.String() != "y" {
		m.setStatus("delete cancelled", false)
		return m, nil
	}
	m.busy = true
	return m, m.remove(id)
}

func (m tuiModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			m.mode = modeBrowse
			m.input.SetValue("")
			m.input.Blur()
			return m, nil

		case "enter":
			title := strings.TrimSpace(m.input.Value())
			if title == "" {
				m.setStatus("title required", true)
				return m, nil
			}

			var cmd tea.Cmd
			if m.mode == modeAdd {
				cmd = m.create(title)
			} else {
				cmd = m.update(m.editID, model.TodoPatch{Title: &title})
			}
			m.mode = modeBrowse
			m.input.SetValue("")
			m.input.Blur()
			m.busy = true
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tuiModel) View() string {
	listHeight := m.height - 5
	if m.mode != modeBrowse {
		listHeight -= 4
	}
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(m.width-4, listHeight)

	content := m.list.View()

	if m.mode == modeConfirmDelete {
		prompt := fmt.Sprintf("Delete #%d? ", m.deleteID)
		if todo, ok := m.state.Get(m.deleteID); ok {
			prompt = fmt.Sprintf("Delete #%d %q? ", todo.ID, todo.Title)
		}
		content += "\n" + panelStyle.Render(errorStyle.Render(prompt)+mutedStyle.Render("y / any key to cancel"))
	} else if m.mode != modeBrowse {
		title := "Add todo"
		if m.mode == modeEdit {
			title = fmt.Sprintf("Edit #%d", m.editID)
		}
		bar := panelStyle.Render(title + "\n" + m.input.View())
		content += "\n" + bar
	}

	var status string
	switch {
	case m.busy:
		status = mutedStyle.Render("working...")
	case m.statusErr:
		status = errorStyle.Render("✖ " + m.status)
	default:
		status = mutedStyle.Render(m.status)
	}

	return panelStyle.Render(content + "\n" + status)
}
