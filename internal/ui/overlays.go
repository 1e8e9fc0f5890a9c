package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/framegrid/internal/logtail"
)

type helpSection struct {
	title string
	items []key.Binding
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	titles := []string{"Navigation", "Extend", "Structure", "Values", "Fields"}
	var sections []helpSection
	for i, group := range m.engine.KeyMap().FullHelp() {
		title := "More"
		if i < len(titles) {
			title = titles[i]
		}
		sections = append(sections, helpSection{title: title, items: group})
	}
	sections = append(sections, helpSection{title: "General", items: m.keys.bindings()})

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, binding := range section.items {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Mouse: drag a frame to move it, its last row or column to resize, empty space to select."))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(min(44, max(m.width-2, 20)))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// refreshLogs reloads the tail of the log file into the log viewport.
func (m *Model) refreshLogs() {
	if m.logPath == "" {
		m.logView.SetContent("no log file configured")
		return
	}
	atBottom := m.logView.AtBottom()
	records, err := logtail.Tail(m.logPath, logTailLines)
	if err != nil {
		m.logView.SetContent("read log: " + err.Error())
		return
	}
	if len(records) == 0 {
		m.logView.SetContent("log is empty")
		return
	}
	m.logView.SetContent(formatRecords(m.theme.Styles(), records))
	if atBottom {
		m.logView.GotoBottom()
	}
}

// formatRecords renders parsed log lines, one per row.
func formatRecords(styles Styles, records []logtail.Record) string {
	rows := make([]string, len(records))
	for i, rec := range records {
		if rec.Level == "" && rec.Message == "" {
			rows[i] = styles.Text.Render(rec.Raw)
			continue
		}
		var b strings.Builder
		if t := rec.ShortTime(); t != "" {
			b.WriteString(styles.FaintText.Render(t))
			b.WriteString(" ")
		}
		b.WriteString(styles.LevelStyle(rec.Level).Render(padRight(rec.Level, 5)))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(rec.Message))
		for _, a := range rec.Attrs {
			b.WriteString(" ")
			b.WriteString(styles.MutedText.Render(a.Key + "="))
			b.WriteString(styles.InfoText.Render(a.Value))
		}
		rows[i] = b.String()
	}
	return strings.Join(rows, "\n")
}

// renderLogs renders the log overlay.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Log") +
		styles.MutedText.Render("  "+m.logPath+"  (L or esc to close)")
	content := title + "\n" + m.logView.View()

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(0, 1)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
	)
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
