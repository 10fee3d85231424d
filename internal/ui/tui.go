// Package ui provides the interactive terminal task list.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/tasks"
)

// Options configures the TUI.
type Options struct {
	Variant tasks.Variant
	// Theme is the initial theme, "light" or "dark".
	Theme string
	// TickInterval is how often elapsed timers refresh. Defaults to 1s.
	TickInterval time.Duration
	Now          func() time.Time
	Logger       *log.Logger
}

// Run starts the TUI over an already loaded store and blocks until the
// user quits or ctx is done.
func Run(ctx context.Context, store *tasks.Store, opts Options) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newModel(ctx, store, opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type focus int

const (
	focusInput focus = iota
	focusList
)

type model struct {
	ctx     context.Context
	store   *tasks.Store
	session *tasks.Session
	logger  *log.Logger
	now     func() time.Time

	variant tasks.Variant
	theme   string
	styles  styles

	input    textinput.Model
	edit     textinput.Model
	editOrig string // task text captured by Begin
	editSeed string // editor value right after Begin
	focus    focus
	cursor   int
	status   string
	showHelp bool
	width    int

	tickInterval time.Duration
}

type tickMsg time.Time

func newModel(ctx context.Context, store *tasks.Store, opts Options) *model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Variant == "" {
		opts.Variant = tasks.VariantTimer
	}
	if opts.Theme == "" {
		opts.Theme = "light"
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	input := textinput.New()
	input.Placeholder = "Add a new task"
	input.Prompt = "+ "
	input.CharLimit = 0
	input.Width = 48
	input.Focus()

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = 0
	edit.Width = 48

	m := &model{
		ctx:          ctx,
		store:        store,
		session:      tasks.NewSession(store),
		logger:       opts.Logger,
		now:          opts.Now,
		variant:      opts.Variant,
		theme:        opts.Theme,
		styles:       newStyles(opts.Theme),
		input:        input,
		edit:         edit,
		focus:        focusInput,
		tickInterval: opts.TickInterval,
	}
	if err := store.Recovered(); err != nil {
		m.status = "Saved tasks were unreadable; started with an empty list."
	}
	return m
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.variant == tasks.VariantTimer {
		cmds = append(cmds, tickCmd(m.tickInterval))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.session.Active() {
			return m.updateEditing(msg)
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 16; w > 10 {
			m.input.Width = w
			m.edit.Width = w
		}
	case tickMsg:
		return m, tickCmd(m.tickInterval)
	}

	var cmd tea.Cmd
	if m.session.Active() {
		m.edit, cmd = m.edit.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		task, ok, err := m.store.Add(m.ctx, m.input.Value())
		if !ok {
			return m, nil
		}
		m.input.SetValue("")
		m.cursor = m.store.Position(task.ID)
		m.setResult("Added task", err)
		return m, nil
	case "tab", "esc", "down":
		if m.store.Len() > 0 {
			m.focusList()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "a", "i":
		return m, m.focusInput()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.store.Len()-1 {
			m.cursor++
		}
	case " ", "enter":
		id := m.store.IDAt(m.cursor)
		if id == "" {
			return m, nil
		}
		_, err := m.store.Toggle(m.ctx, id)
		m.setResult("Toggled task", err)
	case "e":
		if !m.session.BeginAt(m.cursor) {
			return m, nil
		}
		m.editOrig = m.session.Text()
		m.edit.SetValue(m.editOrig)
		m.edit.CursorEnd()
		m.editSeed = m.edit.Value()
		m.status = "Editing: enter to save, esc to cancel"
		return m, m.edit.Focus()
	case "d", "x", "delete":
		id := m.store.IDAt(m.cursor)
		if id == "" {
			return m, nil
		}
		_, err := m.store.Delete(m.ctx, id)
		m.clampCursor()
		m.setResult("Deleted task", err)
		if m.store.Len() == 0 {
			return m, m.focusInput()
		}
	case "C":
		n, err := m.store.ClearCompleted(m.ctx)
		m.clampCursor()
		m.setResult(fmt.Sprintf("Cleared %d completed", n), err)
		if m.store.Len() == 0 {
			return m, m.focusInput()
		}
	case "t":
		if m.variant == tasks.VariantBadge {
			m.toggleTheme()
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.syncEdit()
		ok, err := m.session.Commit(m.ctx)
		m.edit.Blur()
		m.edit.SetValue("")
		if !ok && err == nil {
			m.status = "Task no longer exists"
			return m, nil
		}
		m.setResult("Saved edit", err)
		return m, nil
	case "esc":
		m.session.Cancel()
		m.edit.Blur()
		m.edit.SetValue("")
		m.status = "Edit cancelled"
		return m, nil
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	m.syncEdit()
	return m, cmd
}

// syncEdit copies the editor into the session. The editor flattens
// newlines, so while its value matches what Begin loaded the session holds
// the captured text unchanged.
func (m *model) syncEdit() {
	if v := m.edit.Value(); v != m.editSeed {
		m.session.SetText(v)
		return
	}
	m.session.SetText(m.editOrig)
}

func (m *model) focusInput() tea.Cmd {
	m.focus = focusInput
	return m.input.Focus()
}

func (m *model) focusList() {
	m.focus = focusList
	m.input.Blur()
	m.clampCursor()
}

func (m *model) clampCursor() {
	if n := m.store.Len(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) toggleTheme() {
	if m.theme == "dark" {
		m.theme = "light"
	} else {
		m.theme = "dark"
	}
	m.styles = newStyles(m.theme)
}

// setResult reports a mutation outcome in the status line. A failed write
// leaves the change on screen; the store has already logged it.
func (m *model) setResult(ok string, err error) {
	if err != nil {
		m.status = "Could not save: " + err.Error()
		return
	}
	m.logger.Debug(ok, "tasks", m.store.Len())
	m.status = ok
}

func (m *model) View() string {
	list := m.store.Tasks()
	counts := tasks.Count(list)
	s := m.styles

	var b strings.Builder
	b.WriteString(s.title.Render("Task List"))
	b.WriteString("\n")
	b.WriteString(s.header.Render(fmt.Sprintf("Completed: %d | Pending: %d", counts.Completed, counts.Pending)))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(list) == 0 {
		b.WriteString(s.help.Render("No tasks yet. Type one above and press enter."))
		b.WriteString("\n")
	}
	for _, row := range tasks.Rows(list, m.now(), m.variant) {
		b.WriteString(m.renderRow(row))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		if strings.HasPrefix(m.status, "Could not") || strings.HasPrefix(m.status, "Saved tasks were") {
			b.WriteString(s.warning.Render(m.status))
		} else {
			b.WriteString(s.status.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(s.help.Render(m.helpText()))
	} else {
		b.WriteString(s.help.Render("tab switch • space toggle • e edit • d delete • ? help • q quit"))
	}

	frame := s.frame
	if tasks.Busy(list) {
		frame = s.busyFrame
	}
	if m.width > 0 {
		frame = frame.Width(m.width)
	}
	return frame.Render(b.String())
}

func (m *model) renderRow(row tasks.Row) string {
	s := m.styles
	pointer := "  "
	if m.focus == focusList && row.Position == m.cursor {
		pointer = s.cursor.Render("> ")
	}
	check := "[ ]"
	if row.Completed {
		check = "[x]"
	}

	if m.session.Editing(row.ID) {
		return pointer + check + " " + m.edit.View()
	}

	text := s.row.Render(row.Text)
	if row.Completed {
		text = s.doneRow.Render(row.Text)
	}
	line := pointer + check + " " + text
	switch {
	case row.Elapsed != "":
		line += "  " + s.elapsed.Render(row.Elapsed)
	case row.Badge:
		line += "  " + s.badge.Render("✓ done")
	}
	return line
}

func (m *model) helpText() string {
	lines := []string{
		"Keyboard Shortcuts",
		"  tab, esc      Switch between the input and the list",
		"  enter         Add task (input) / toggle (list)",
		"  space         Toggle completed",
		"  up/k, down/j  Move",
		"  e             Edit task (enter saves, esc cancels)",
		"  d, x          Delete task",
		"  C             Clear completed tasks",
	}
	if m.variant == tasks.VariantBadge {
		lines = append(lines, "  t             Toggle light/dark theme")
	}
	lines = append(lines,
		"  ?             Toggle this help",
		"  q, ctrl+c     Quit",
	)
	return strings.Join(lines, "\n")
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
