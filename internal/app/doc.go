// Package app wires configuration, the controller session, the dashboard
// store and the console together.
//
// # Overview
//
// Run is the composition root of `gantry console`:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> prefs.Load()         theme and start view
//	       ├─────> NewController()      personality client from config
//	       ├─────> Authenticate()       token + keepalive
//	       ├─────> Refresher.Refresh()  fill the store before the first frame
//	       ├─────> Refresher.Start()    background dashboard updates
//	       ├─────> ui.Run()             console (blocks)
//	       └─────> Logout() / Close()   on the way out
//
// One-shot CLI commands use WithController, which performs the same
// authenticate / logout bracket around a single function.
//
// # Controller
//
// Controller hides the generic, Designer and Expert clients behind one
// method set. Commands the personality lacks (triggers on Expert, spaces on
// Designer) fail with ErrUnsupported without contacting the controller.
// SetLevel addresses groups on Designer and generic controllers and spaces
// on Expert controllers.
//
// # Refresher
//
// The refresher lists everything the personality supports at a fixed
// interval (refresh_seconds, default 5s) and stores the result. It is
// independent of the session keepalive, which only keeps the token alive
// and runs every 270 seconds. Kick requests an immediate refresh; the
// console kicks after every command so the operator sees its effect without
// waiting for the next tick.
//
// A failed refresh keeps the previous lists and counts a failure; two in a
// row flip the console header to offline. A refresh interrupted by context
// cancellation is not recorded at all.
//
// # Shutdown
//
// The logout on exit uses a context detached from the caller's cancellation
// with its own short timeout, so a Ctrl+C still ends the controller session
// cleanly.
package app
