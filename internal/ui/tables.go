package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// row is one display line of an entity table.
type row struct {
	num    int
	name   string
	status string  // key into Theme.StatusColors; empty hides the badge
	detail string  // free text after the status
	level  float64 // percent, groups and spaces only
}

func (m Model) rows() []row {
	return m.rowsFor(m.current)
}

func (m Model) rowsFor(v View) []row {
	snap := m.snapshot
	var out []row
	switch v {
	case ViewTimelines:
		for _, t := range snap.Timelines {
			status := t.State
			if t.OnStage && status == "" {
				status = "onstage"
			}
			detail := t.Group
			if t.Priority != "" {
				detail = strings.TrimSpace(detail + " " + t.Priority)
			}
			out = append(out, row{num: t.Num, name: t.Name, status: status, detail: detail})
		}
	case ViewGroups:
		for _, g := range snap.Groups {
			out = append(out, row{num: g.Num, name: g.Name, level: g.Level, detail: formatPercent(g.Level)})
		}
	case ViewSpaces:
		for _, s := range snap.Spaces {
			pct := s.IntensityMaster * 100
			detail := formatPercent(pct)
			if s.IsModified {
				detail += " modified"
			}
			out = append(out, row{num: s.Num, name: s.Name, level: pct, detail: detail})
		}
	case ViewScenes:
		for _, s := range snap.Scenes {
			status := s.State
			if s.OnStage && status == "" {
				status = "onstage"
			}
			out = append(out, row{num: s.Num, name: s.Name, status: status, detail: s.Group})
		}
	case ViewTriggers:
		for _, t := range snap.Triggers {
			detail := t.Type
			if t.Trigger != "" {
				detail = strings.TrimSpace(detail + " · " + t.Trigger)
			}
			out = append(out, row{num: t.Num, name: t.Name, detail: detail})
		}
	}
	return out
}

func (m Model) selectedRow() (row, bool) {
	rows := m.rows()
	sel := m.selected[m.current]
	if sel < 0 || sel >= len(rows) {
		return row{}, false
	}
	return rows[sel], true
}

// renderTable renders the current entity view in a titled box.
func (m Model) renderTable(height int) string {
	rows := m.rows()
	title := titleCase(m.current.String())
	if len(rows) > 0 {
		title = fmt.Sprintf("%s (%d)", title, len(rows))
	}

	inner := max(m.width-2, 1)
	var content string
	switch {
	case len(rows) == 0 && !m.snapshot.HasData:
		content = m.placeholder("Waiting for controller data...", inner)
	case len(rows) == 0:
		content = m.placeholder("Nothing here", inner)
	default:
		content = m.renderRows(rows, inner, height-2)
	}
	if m.prompting {
		content += "\n" + m.levelInput.View()
	}
	return m.renderBox(title, content, m.width, height, true)
}

func (m Model) placeholder(text string, width int) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Muted)).
		Background(lipgloss.Color(m.theme.FocusBg)).
		Width(width).
		Render(text)
}

// renderRows renders as many rows as fit, scrolling to keep the selection
// visible.
func (m Model) renderRows(rows []row, width, visible int) string {
	if m.prompting {
		visible--
	}
	visible = max(visible, 1)
	sel := m.selected[m.current]
	start := 0
	if sel >= visible {
		start = sel - visible + 1
	}
	end := min(start+visible, len(rows))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		bgColor := m.theme.FocusBg
		if i == sel {
			bgColor = m.theme.SelectionBg
		}
		line := m.formatRow(rows[i], width, bgColor, i == sel)
		lines = append(lines, lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Width(width).Render(line))
	}
	return strings.Join(lines, "\n")
}

// formatRow renders "#N Name · status detail". Selected rows use the
// selection text color throughout for contrast.
func (m Model) formatRow(r row, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	numStyle, nameStyle, sepStyle, detailStyle := styles.MutedText, styles.Text, styles.FaintText, styles.MutedText
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(r.status)))
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		numStyle, nameStyle, sepStyle, detailStyle, statusStyle = sel, sel, sel, sel, sel
	}

	num := fmt.Sprintf("#%d", r.num)
	var tail []string
	if r.status != "" {
		tail = append(tail, bg.Render(strings.ReplaceAll(r.status, "_", " "), statusStyle))
	}
	if r.detail != "" {
		tail = append(tail, bg.Render(r.detail, detailStyle))
	}
	tailText := strings.Join(tail, bg.Space())

	nameWidth := max(width-lipgloss.Width(num)-lipgloss.Width(tailText)-4, 8)
	out := bg.Render(num, numStyle) + bg.Space() + bg.Render(truncate(r.name, nameWidth), nameStyle)
	if tailText != "" {
		out += bg.Render(" · ", sepStyle) + tailText
	}
	return out
}

// renderHeader renders host, personality, session and keepalive state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("gantry", styles.Logo)}
	if m.ctrl == nil {
		return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
	}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	case !m.ctrl.Authenticated():
		parts = append(parts, bg.Render("● LOGGED OUT", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	parts = append(parts,
		bg.Render(m.ctrl.Host(), styles.Text),
		bg.Render(string(m.ctrl.Personality()), styles.AccentText),
		m.renderKeepalive(styles, bg),
	)
	if id := shortID(m.ctrl.SessionID()); id != "" {
		parts = append(parts, bg.Render("session "+id, styles.FaintText))
	}

	if m.snapshot.LastError != nil {
		msg := truncate(m.snapshot.LastError.Error(), max(m.width/3, 20))
		parts = append(parts, bg.Render(msg, styles.DangerText))
	} else if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render("updated "+m.snapshot.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) renderKeepalive(styles Styles, bg BgStyle) string {
	ka := m.ctrl.KeepaliveStatus()
	label := bg.Render("keepalive", styles.FaintText) + bg.Space()
	switch {
	case !ka.Active:
		return label + bg.Render("stopped", styles.WarningText)
	case ka.ConsecutiveFailures > 0:
		return label + bg.Render(fmt.Sprintf("failing (%d)", ka.ConsecutiveFailures), styles.DangerText)
	case ka.LastTick.IsZero():
		return label + bg.Render("starting", styles.MutedText)
	default:
		return label + bg.Render("ok "+ka.LastTick.Format("15:04:05"), styles.SuccessText)
	}
}

// renderTabs renders the view bar; the current view is highlighted.
func (m Model) renderTabs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	tabs := make([]string, 0, len(m.views))
	for _, v := range m.views {
		name := titleCase(v.String())
		if v == m.current {
			tabs = append(tabs, bg.Render("["+name+"]", styles.AccentText.Bold(true)))
		} else {
			tabs = append(tabs, bg.Render(name, styles.MutedText))
		}
	}
	themeHint := bg.Render("T", styles.Key) + bg.Render(":"+m.theme.Name, styles.FaintText)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Width(m.width).
		Render(bg.Join(tabs, "  ") + bg.Spaces(3) + themeHint)
}

// renderFooter shows the last command outcome, or the view's key hints.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var content string
	if m.status.text != "" {
		style := styles.SuccessText
		if m.status.err {
			style = styles.DangerText
		}
		content = bg.Render(m.status.at.Format("15:04:05"), styles.FaintText) + bg.Space() + bg.Render(m.status.text, style)
	} else {
		hints := m.viewHints()
		parts := make([]string, 0, len(hints))
		for _, h := range hints {
			parts = append(parts, bg.Render(h[0], styles.Key)+bg.Space()+bg.Render(h[1], styles.MutedText))
		}
		content = bg.Join(parts, "  ")
	}
	return styles.Footer.Width(m.width).Render(content)
}

func (m Model) viewHints() [][2]string {
	switch m.current {
	case ViewTimelines:
		return [][2]string{{"s", "start"}, {"r", "release"}, {"t", "toggle"}, {"p", "pause"}, {"u", "resume"}, {"h", "help"}}
	case ViewScenes:
		return [][2]string{{"s", "start"}, {"r", "release"}, {"t", "toggle"}, {"h", "help"}}
	case ViewGroups, ViewSpaces:
		return [][2]string{{"+/-", "level ±10%"}, {"L", "set level"}, {"h", "help"}}
	case ViewTriggers:
		return [][2]string{{"f", "fire"}, {"h", "help"}}
	default:
		return [][2]string{{"j/k", "scroll"}, {"g/G", "top/bottom"}, {"h", "help"}}
	}
}

// shortID keeps the first block of a session UUID, enough to find its
// records in the log view.
func shortID(id string) string {
	head, _, _ := strings.Cut(id, "-")
	return head
}

// formatPercent renders v with at most one decimal, e.g. "80%" or "12.5%".
func formatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64) + "%"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
