// ABOUTME: Interactive bubbletea app for logging moods and browsing history.
// ABOUTME: Picker grid, comment editor, and history screen driven by store notifications.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/mood/internal/history"
	"github.com/2389-research/mood/internal/models"
	"github.com/2389-research/mood/internal/storage"
)

// Screen is the currently displayed part of the app.
type Screen int

const (
	ScreenPicker Screen = iota
	ScreenComment
	ScreenHistory
)

// pickerColumns is the width of the mood grid.
const pickerColumns = 3

type mutationKind int

const (
	mutationAdd mutationKind = iota
	mutationDelete
)

// entriesMsg carries a replaced entry list from the store.
type entriesMsg struct {
	entries []models.MoodEntry
}

// mutationResultMsg carries the result of an async add or delete.
type mutationResultMsg struct {
	kind  mutationKind
	entry models.MoodEntry
	err   error
}

// Model is the bubbletea model for the mood app.
type Model struct {
	journal     storage.MoodJournal
	updates     <-chan []models.MoodEntry
	unsubscribe func()
	now         func() time.Time

	screen   Screen
	cursor   int
	selected models.MoodType
	comment  textarea.Model
	spinner  spinner.Model
	busy     bool

	entries       []models.MoodEntry
	timeRange     history.TimeRange
	historyCursor int

	status   string
	err      error
	width    int
	quitting bool
}

// NewModel creates the app model and subscribes it to journal replacements.
// Call Close when the program exits to drop the subscription.
func NewModel(journal storage.MoodJournal) Model {
	obs := storage.NewChannelObserver(1)
	unsubscribe := journal.Subscribe(obs)

	ta := textarea.New()
	ta.Placeholder = "Anything on your mind? (optional)"
	ta.ShowLineNumbers = false
	ta.SetWidth(50)
	ta.SetHeight(4)
	ta.CharLimit = 500

	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		journal:     journal,
		updates:     obs.C(),
		unsubscribe: unsubscribe,
		now:         time.Now,
		screen:      ScreenPicker,
		comment:     ta,
		spinner:     s,
		entries:     journal.Entries(),
		timeRange:   history.RangeDay,
		width:       80,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitForEntries()
}

// Close removes the store subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Screen returns the active screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.screen {
		case ScreenPicker:
			return m.updatePicker(msg)
		case ScreenComment:
			return m.updateComment(msg)
		case ScreenHistory:
			return m.updateHistory(msg)
		}

	case entriesMsg:
		m.entries = msg.entries
		m.clampHistoryCursor()
		return m, m.waitForEntries()

	case mutationResultMsg:
		m.busy = false
		return m.handleMutationResult(msg)

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	types := models.AllMoodTypes()
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(types)-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor >= pickerColumns {
			m.cursor -= pickerColumns
		}
	case "down", "j":
		if m.cursor+pickerColumns < len(types) {
			m.cursor += pickerColumns
		}
	case "1", "2", "3", "4", "5", "6":
		idx := int(msg.Runes[0] - '1')
		if idx < len(types) {
			m.cursor = idx
			return m.chooseMood(types[idx])
		}
	case "enter", " ":
		return m.chooseMood(types[m.cursor])
	case "tab", "H":
		m.screen = ScreenHistory
		m.status = ""
		m.clampHistoryCursor()
	}
	return m, nil
}

func (m Model) chooseMood(t models.MoodType) (tea.Model, tea.Cmd) {
	m.selected = t
	m.screen = ScreenComment
	m.status = ""
	m.err = nil
	m.comment.Reset()
	return m, m.comment.Focus()
}

func (m Model) updateComment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.comment.Blur()
		m.screen = ScreenPicker
		return m, nil
	case tea.KeyCtrlS:
		entry := models.NewMoodEntryAt(m.selected, m.comment.Value(), m.now())
		m.busy = true
		m.err = nil
		return m, tea.Batch(m.addCmd(entry), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)
	return m, cmd
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "esc", "n":
		m.screen = ScreenPicker
		m.status = ""
	case "tab", "right", "l":
		m.timeRange = history.AllRanges[(int(m.timeRange)+1)%len(history.AllRanges)]
		m.historyCursor = 0
	case "shift+tab", "left", "h":
		n := len(history.AllRanges)
		m.timeRange = history.AllRanges[(int(m.timeRange)+n-1)%n]
		m.historyCursor = 0
	case "up", "k":
		if m.historyCursor > 0 {
			m.historyCursor--
		}
	case "down", "j":
		if m.historyCursor < len(m.view())-1 {
			m.historyCursor++
		}
	case "d", "delete":
		if m.busy {
			return m, nil
		}
		entry, ok := history.EntryAt(m.view(), m.historyCursor)
		if !ok {
			return m, nil
		}
		m.busy = true
		m.err = nil
		return m, tea.Batch(m.deleteCmd(entry), m.spinner.Tick)
	}
	return m, nil
}

func (m Model) handleMutationResult(msg mutationResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		m.status = ""
		return m, nil
	}
	m.err = nil
	switch msg.kind {
	case mutationAdd:
		m.comment.Blur()
		m.comment.Reset()
		m.screen = ScreenHistory
		m.timeRange = history.RangeDay
		m.historyCursor = 0
		m.status = fmt.Sprintf("Saved %s %s", msg.entry.Type.Emoji(), msg.entry.Type.Label())
	case mutationDelete:
		m.status = fmt.Sprintf("Deleted %s entry", msg.entry.Type.Label())
	}
	// Pick up the reloaded list even if the notification has not arrived yet.
	m.entries = m.journal.Entries()
	m.clampHistoryCursor()
	return m, nil
}

// view returns the filtered, display-sorted entries for the current range.
func (m Model) view() []models.MoodEntry {
	return history.View(m.entries, m.timeRange, m.now())
}

func (m *Model) clampHistoryCursor() {
	n := len(m.view())
	if m.historyCursor >= n {
		m.historyCursor = n - 1
	}
	if m.historyCursor < 0 {
		m.historyCursor = 0
	}
}

func (m Model) waitForEntries() tea.Cmd {
	ch := m.updates
	return func() tea.Msg {
		entries, ok := <-ch
		if !ok {
			return nil
		}
		return entriesMsg{entries: entries}
	}
}

func (m Model) addCmd(entry models.MoodEntry) tea.Cmd {
	journal := m.journal
	return func() tea.Msg {
		err := journal.Add(context.Background(), entry)
		return mutationResultMsg{kind: mutationAdd, entry: entry, err: err}
	}
}

func (m Model) deleteCmd(entry models.MoodEntry) tea.Cmd {
	journal := m.journal
	return func() tea.Msg {
		err := journal.Delete(context.Background(), entry)
		return mutationResultMsg{kind: mutationDelete, entry: entry, err: err}
	}
}
