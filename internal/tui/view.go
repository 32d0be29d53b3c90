// ABOUTME: Rendering for the mood app screens.
// ABOUTME: Draws the picker grid, comment editor, and history list with score bars.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/mood/internal/history"
	"github.com/2389-research/mood/internal/models"
)

var (
	brandStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	cellStyle     = lipgloss.NewStyle().Width(14).Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238"))
	selectedCell  = cellStyle.BorderForeground(lipgloss.Color("212")).Bold(true)
	activeTab     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Underline(true)
	inactiveTab   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	highlightLine = lipgloss.NewStyle().Background(lipgloss.Color("236"))
)

// moodColors tints score bars per mood type.
var moodColors = map[models.MoodType]lipgloss.Color{
	models.MoodHappy:   lipgloss.Color("220"),
	models.MoodSad:     lipgloss.Color("33"),
	models.MoodAnxious: lipgloss.Color("141"),
	models.MoodAngry:   lipgloss.Color("196"),
	models.MoodNeutral: lipgloss.Color("250"),
	models.MoodOther:   lipgloss.Color("43"),
}

// maxScore is the widest bar, in cells.
const maxScore = 5

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   MOOD"))
	b.WriteString(titleStyle.Render(" - how are you feeling?"))
	b.WriteString("\n\n")

	switch m.screen {
	case ScreenPicker:
		m.viewPicker(&b)
	case ScreenComment:
		m.viewComment(&b)
	case ScreenHistory:
		m.viewHistory(&b)
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(successStyle.Render("✓ " + m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewPicker(b *strings.Builder) {
	types := models.AllMoodTypes()
	var rows []string
	for start := 0; start < len(types); start += pickerColumns {
		end := min(start+pickerColumns, len(types))
		var cells []string
		for i := start; i < end; i++ {
			t := types[i]
			style := cellStyle
			if i == m.cursor {
				style = selectedCell
			}
			cells = append(cells, style.Render(fmt.Sprintf("%d %s %s", i+1, t.Emoji(), t.Label())))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("arrows/1-6 choose • enter select • tab history • q quit"))
	b.WriteString("\n")
}

func (m Model) viewComment(b *strings.Builder) {
	b.WriteString(fmt.Sprintf("  Feeling: %s %s\n\n", m.selected.Emoji(), m.selected.Label()))
	b.WriteString(m.comment.View())
	b.WriteString("\n\n")
	if m.busy {
		b.WriteString(m.spinner.View())
		b.WriteString(" Saving...\n")
		return
	}
	b.WriteString(mutedStyle.Render("ctrl+s save • esc back"))
	b.WriteString("\n")
}

func (m Model) viewHistory(b *strings.Builder) {
	var tabs []string
	for _, r := range history.AllRanges {
		if r == m.timeRange {
			tabs = append(tabs, activeTab.Render(r.Title()))
		} else {
			tabs = append(tabs, inactiveTab.Render(r.Title()))
		}
	}
	b.WriteString("  " + strings.Join(tabs, "   "))
	b.WriteString("\n\n")

	view := m.view()
	if len(view) == 0 {
		b.WriteString(mutedStyle.Render("  No moods logged in this period."))
		b.WriteString("\n")
	} else {
		summary := history.Summarize(view)
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d entries • average %.1f/%d", summary.Total, summary.AverageScore, maxScore)))
		b.WriteString("\n\n")
		for i, e := range view {
			line := m.historyLine(e)
			if i == m.historyCursor {
				line = highlightLine.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.spinner.View())
		b.WriteString(" Deleting...\n")
		return
	}
	b.WriteString(mutedStyle.Render("tab range • ↑/↓ move • d delete • esc new entry • q quit"))
	b.WriteString("\n")
}

func (m Model) historyLine(e models.MoodEntry) string {
	line := fmt.Sprintf("%s  %s %-8s %s",
		e.Timestamp.Local().Format("Mon Jan 2 15:04"),
		e.Type.Emoji(),
		e.Type.Label(),
		ScoreBar(e.Type),
	)
	if c := e.CommentText(); c != "" {
		room := max(m.width-lipgloss.Width(line)-6, 10)
		line += "  " + mutedStyle.Render(truncate(c, room))
	}
	return line
}

// ScoreBar renders a fixed-width bar proportional to the mood's chart score.
func ScoreBar(t models.MoodType) string {
	filled := int(t.Score())
	filled = min(max(filled, 0), maxScore)
	bar := lipgloss.NewStyle().Foreground(moodColors[t]).Render(strings.Repeat("█", filled))
	return bar + mutedStyle.Render(strings.Repeat("░", maxScore-filled))
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
