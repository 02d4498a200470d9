package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/notelin/pkg/core"
)

const listDateLayout = "02 Jan 2006 15:04"

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	if m.screen == screenEdit {
		m.viewEdit(&b)
	} else {
		m.viewList(&b)
	}

	if d := m.viewDialog(); d != "" {
		b.WriteString("\n")
		b.WriteString(d)
		b.WriteString("\n")
	}

	if m.status != "" {
		style := statusStyle
		if m.failed {
			style = errorStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) viewList(b *strings.Builder) {
	header := titleStyle.Render("Notes") + headerStyle.Render(fmt.Sprintf("  %d, sorted by %s", len(m.notes), strings.ToLower(string(m.method))))
	b.WriteString(header)
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	} else if m.query != "" {
		b.WriteString(headerStyle.Render("search: " + m.query))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.notes) == 0 {
		if m.query != "" {
			b.WriteString(helpStyle.Render("No titles start with " + m.query))
		} else {
			b.WriteString(helpStyle.Render("No notes yet. Press n to create one."))
		}
		b.WriteString("\n")
		return
	}

	width := m.titleWidth()
	for i, n := range m.notes {
		line := fmt.Sprintf("%-*s  %s", width, truncate(titleOf(n), width), dateStyle.Render(n.ChangeDate.Local().Format(listDateLayout)))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
}

func (m Model) viewEdit(b *strings.Builder) {
	heading := "Loading note"
	if m.editing.HasID() {
		heading = fmt.Sprintf("Note #%d", m.editing.ID)
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n")
	b.WriteString(m.title.View())
	b.WriteString("\n\n")
	b.WriteString(m.body.View())
	b.WriteString("\n")
}

func (m Model) viewDialog() string {
	var body string
	switch m.dialog {
	case dialogContext:
		body = "enter open · d delete · i info · esc close"
	case dialogDelete:
		body = errorStyle.Render("Delete this note?") + "\ny yes · n no"
	case dialogDeleteAll:
		body = errorStyle.Render(fmt.Sprintf("Delete all %d notes?", len(m.notes))) + "\ny yes · any other key cancels"
	case dialogInfo:
		body = m.info + "\n\n" + helpStyle.Render("any key closes")
	default:
		return ""
	}
	return dialogStyle.Render(body)
}

func (m Model) help() string {
	switch {
	case m.screen == screenEdit:
		return "tab switch field · ctrl+s save · ctrl+d delete · ctrl+g info · esc discard"
	case m.searching:
		return "type to filter · enter keep · esc clear"
	default:
		return "n new · enter open · m menu · d delete · i info · s sort · / search · X delete all · q quit"
	}
}

func (m Model) titleWidth() int {
	if m.width == 0 {
		return 40
	}
	return max(m.width-lipgloss.Width(listDateLayout)-6, 10)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

// titleOf is the rendered title of n, the placeholder when it is blank.
func titleOf(n core.Note) string {
	if strings.TrimSpace(n.Title) == "" {
		return core.DefaultTitle
	}
	return n.Title
}
