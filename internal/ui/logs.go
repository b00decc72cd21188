package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/gantry/internal/logtail"
)

const logTailLines = 400

type logLinesMsg struct {
	lines []string
	err   error
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, logTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) resizeLogViewport() {
	w, h := max(m.width-2, 1), max(m.height-5, 1)
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(w, h)
	}
	m.logViewport.Width = w
	m.logViewport.Height = h
	m.logViewport.SetContent(m.renderLogLines())
}

// setLogLines replaces the tail; the view stays pinned to the bottom unless
// the user scrolled up.
func (m *Model) setLogLines(lines []string, err error) {
	follow := m.logViewport.AtBottom() || len(m.logLines) == 0
	m.logLines = lines
	m.logErr = err
	m.logViewport.SetContent(m.renderLogLines())
	if follow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m Model) renderLog(height int) string {
	title := "Log"
	if m.logFile != "" {
		title = "Log · " + truncate(m.logFile, max(m.width/2, 10))
	}
	var content string
	switch {
	case m.logErr != nil:
		content = m.placeholder(m.logErr.Error(), max(m.width-2, 1))
	case len(m.logLines) == 0:
		content = m.placeholder("No log records yet", max(m.width-2, 1))
	default:
		content = m.logViewport.View()
	}
	return m.renderBox(title, content, m.width, height, true)
}

func (m Model) renderLogLines() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	out := make([]string, len(m.logLines))
	for i, line := range m.logLines {
		out[i] = m.colorizeLogLine(line, styles, bg)
	}
	return strings.Join(out, "\n")
}

// colorizeLogLine styles a slog text record: faint time, coloured level,
// plain message and muted attributes.
func (m Model) colorizeLogLine(line string, styles Styles, bg BgStyle) string {
	e := logtail.Parse(line)
	if e.Level == "" {
		return bg.Render(e.Message, styles.Text)
	}

	var b strings.Builder
	if ts := shortTime(e.Time); ts != "" {
		b.WriteString(bg.Render(ts, styles.FaintText))
		b.WriteString(bg.Space())
	}
	b.WriteString(bg.Render(padRight(e.Level, 5), levelStyle(e.Level, styles).Bold(true)))
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(e.Message, styles.Text))
	for _, a := range e.Attrs {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(a.Key+"=", styles.FaintText))
		valueStyle := styles.MutedText
		if a.Key == "error" {
			valueStyle = styles.DangerText
		}
		b.WriteString(bg.Render(a.Value, valueStyle))
	}
	return b.String()
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}

// shortTime keeps the clock part of an RFC 3339 timestamp.
func shortTime(ts string) string {
	if _, clock, ok := strings.Cut(ts, "T"); ok && len(clock) >= 8 {
		return clock[:8]
	}
	return ts
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
