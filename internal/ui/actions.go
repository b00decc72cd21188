package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/gantry/internal/pharos"
)

const levelStep = 10

type actionResultMsg struct {
	label string
	err   error
}

// handleActionKey maps command keys onto the selected row of the current view.
func (m Model) handleActionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ctrl == nil {
		return m, nil
	}
	r, ok := m.selectedRow()
	if !ok {
		return m, nil
	}

	switch m.current {
	case ViewTimelines:
		if action, ok := m.timelineAction(msg); ok {
			label := fmt.Sprintf("timeline %d %s", r.num, action)
			return m, m.runAction(label, func(ctx context.Context) error {
				return m.ctrl.Timeline(ctx, action, r.num)
			})
		}
	case ViewScenes:
		if action, ok := m.sceneAction(msg); ok {
			label := fmt.Sprintf("scene %d %s", r.num, action)
			return m, m.runAction(label, func(ctx context.Context) error {
				return m.ctrl.Scene(ctx, action, r.num)
			})
		}
	case ViewGroups, ViewSpaces:
		switch {
		case key.Matches(msg, m.keys.LevelUp):
			return m, m.levelCmd(r, clampLevel(r.level+levelStep))
		case key.Matches(msg, m.keys.LevelDown):
			return m, m.levelCmd(r, clampLevel(r.level-levelStep))
		case key.Matches(msg, m.keys.SetLevel):
			m.prompting = true
			m.levelInput.SetValue("")
			m.levelInput.Focus()
			return m, nil
		}
	case ViewTriggers:
		if key.Matches(msg, m.keys.Fire) {
			label := fmt.Sprintf("trigger %d fire", r.num)
			return m, m.runAction(label, func(ctx context.Context) error {
				return m.ctrl.FireTrigger(ctx, r.num)
			})
		}
	}
	return m, nil
}

func (m Model) timelineAction(msg tea.KeyMsg) (pharos.TimelineAction, bool) {
	switch {
	case key.Matches(msg, m.keys.Start):
		return pharos.TimelineStart, true
	case key.Matches(msg, m.keys.Release):
		return pharos.TimelineRelease, true
	case key.Matches(msg, m.keys.Toggle):
		return pharos.TimelineToggle, true
	case key.Matches(msg, m.keys.Pause):
		return pharos.TimelinePause, true
	case key.Matches(msg, m.keys.Resume):
		return pharos.TimelineResume, true
	}
	return "", false
}

func (m Model) sceneAction(msg tea.KeyMsg) (pharos.SceneAction, bool) {
	switch {
	case key.Matches(msg, m.keys.Start):
		return pharos.SceneStart, true
	case key.Matches(msg, m.keys.Release):
		return pharos.SceneRelease, true
	case key.Matches(msg, m.keys.Toggle):
		return pharos.SceneToggle, true
	}
	return "", false
}

// handlePromptKey drives the level prompt: enter applies, esc cancels.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.prompting = false
		m.levelInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.prompting = false
		m.levelInput.Blur()
		level, err := parseLevel(m.levelInput.Value())
		if err != nil {
			m.status = statusLine{text: err.Error(), err: true, at: time.Now()}
			return m, nil
		}
		r, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		return m, m.levelCmd(r, level)
	}
	var cmd tea.Cmd
	m.levelInput, cmd = m.levelInput.Update(msg)
	return m, cmd
}

func (m Model) levelCmd(r row, level float64) tea.Cmd {
	value := formatPercent(level)
	noun := "group"
	if m.current == ViewSpaces {
		noun = "space"
	}
	label := fmt.Sprintf("%s %d level %s", noun, r.num, value)
	return m.runAction(label, func(ctx context.Context) error {
		return m.ctrl.SetLevel(ctx, r.num, value)
	})
}

// runAction performs fn off the UI goroutine and reports its outcome.
func (m Model) runAction(label string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionResultMsg{label: label, err: fn(ctx)}
	}
}

func (m Model) handleActionResult(msg actionResultMsg) (tea.Model, tea.Cmd) {
	now := time.Now()
	if msg.err != nil {
		m.status = statusLine{text: msg.label + ": " + describeError(msg.err), err: true, at: now}
		return m, nil
	}
	m.status = statusLine{text: msg.label + ": ok", at: now}
	if m.refresh != nil {
		m.refresh()
	}
	if m.store != nil {
		return m, fetchSnapshotCmd(m.store)
	}
	return m, nil
}

// describeError keeps footer messages short; the full chain is in the log.
func describeError(err error) string {
	var pe *pharos.Error
	if errors.As(err, &pe) {
		switch pe.Kind {
		case pharos.KindInvalidRequest:
			return "rejected by controller (invalid request)"
		case pharos.KindAuthOrServer:
			if pe.Status != 0 {
				return fmt.Sprintf("controller refused (status %d)", pe.Status)
			}
			return "controller refused"
		case pharos.KindNetwork:
			return "controller unreachable"
		}
	}
	return err.Error()
}

// parseLevel accepts "50", "50%" or "12.5" and returns a percentage.
func parseLevel(s string) (float64, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
	if err != nil {
		return 0, fmt.Errorf("level %q is not a number", s)
	}
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("level %v out of range 0-100", v)
	}
	return v, nil
}

func clampLevel(v float64) float64 {
	return min(max(v, 0), 100)
}
