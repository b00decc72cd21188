// Package ui implements the gantry operator console with Bubble Tea.
//
// # Overview
//
// The console shows one view per entity family the controller personality
// supports, plus a tail of gantry's own log:
//
//	Designer: Timelines  Groups  Scenes  Triggers  Log
//	Expert:   Spaces  Scenes  Log
//	Generic:  Timelines  Groups  Scenes  Log
//
// The header shows the controller address, the personality, whether the
// session is online and the state of the keepalive loop. The footer shows
// the outcome of the last command or the keys that apply to the view.
//
// # Data Flow
//
// The console never lists anything itself. A refresher in package app fills
// a state.Store; the console reads a snapshot on every tick (one second by
// default). Commands run as tea.Cmds off the UI goroutine and report back
// with actionResultMsg; a successful command asks the refresher for an
// immediate refresh so the new state shows up without waiting.
//
// # Key Bindings
//
//	tab / shift+tab   cycle views
//	j / k, g / G      move selection (scroll in the log view)
//	s r t             start, release, toggle (timelines and scenes)
//	p u               pause, resume (timelines)
//	+ / -             nudge group or space level by 10%
//	L                 type a level (enter applies, esc cancels)
//	f                 fire trigger
//	T                 cycle theme (saved to prefs)
//	h / ?             help
//	e / ctrl+c        quit
//
// The current view and theme are saved to the preferences file and restored
// on the next start.
//
// # Levels
//
// Group levels are shown as reported (0-100). Space intensity masters are
// reported as fractions and shown multiplied by 100. Levels are always sent
// as percentage strings ("60%"), which the controller accepts for both.
package ui
