// Package pharos provides a session-oriented client for the HTTP control API
// of Pharos lighting controllers.
//
// # Overview
//
// A Session owns one controller connection: the controller address, the
// bearer token and a background keepalive loop that refreshes the token
// before the controller expires it. Three personality clients embed a
// Session and add the per-endpoint commands:
//
//   - Client: generic; the controller address is passed to Authenticate
//   - DesignerClient: timelines, groups, scenes and triggers
//   - ExpertClient: spaces and scenes
//
// # Session Lifecycle
//
//	Unauthenticated ──Authenticate──> Authenticated ──Logout──> Unauthenticated
//	      ^                                 │
//	      └────── failed Authenticate ──────┘
//
// Authenticate validates the address (IPv4 dotted quad only), cancels any
// running keepalive, posts the credentials as a multipart form to
// /authenticate and stores the returned token. On success it starts a new
// keepalive loop that immediately lists groups once in the background and
// then repeats every 270 seconds. Calling Authenticate again is always
// safe; at most one keepalive loop runs per session.
//
// Logout calls /logout and, when the controller accepts it, cancels the
// keepalive and clears the token. Close cancels the keepalive without
// contacting the controller and must be called when a session is
// discarded.
//
// # Requests
//
// Every command goes through Session.Invoke, which sends
// "Content-Type: application/json" and "Authorization: Bearer <token>".
// Requests sent before Authenticate carry an empty bearer and fail on the
// controller, not locally. Read responses may carry a "token" field; when
// present it silently replaces the session token. Control requests are
// answered with 204 No Content and are recognized by status alone.
//
// # Error Handling
//
// Every failure is an *Error with an ErrorKind:
//
//   - KindInvalidHostFormat: address rejected before any request
//   - KindInvalidRequest: HTTP 400
//   - KindAuthOrServer: any other non-success status ("Authentication
//     failed"); the real status is kept in Error.Status
//   - KindNetwork: transport failures and undecodable bodies
//   - KindTokenMissing: authenticate succeeded without a token
//
// Use errors.Is with the Err* sentinels, or KindOf:
//
//	if err := c.ControlScene(ctx, pharos.SceneStart, pharos.SceneOptions{Num: 4}); err != nil {
//		if errors.Is(err, pharos.ErrInvalidRequest) {
//			// bad scene number or action
//		}
//	}
//
// # Thread Safety
//
// Sessions are safe for concurrent use. Concurrent reads race on token
// refresh; whichever response lands last wins. Each request is bounded by
// the request timeout (10s by default) and by the caller's context.
//
// # Usage Example
//
//	c := pharos.NewDesignerClient("192.168.1.100")
//	defer c.Close()
//
//	if err := c.Authenticate(ctx, "admin", "pharos"); err != nil {
//		return err
//	}
//	defer c.Logout(ctx)
//
//	scenes, err := c.ListScenes(ctx, "")
//	if err != nil {
//		return err
//	}
//	_ = c.ControlTimeline(ctx, pharos.TimelineStart, pharos.TimelineOptions{Num: 1})
//
// # Testing Considerations
//
// Point a session at an httptest.Server with WithPort and WithHTTPClient,
// and shorten the loop with WithKeepaliveInterval.
package pharos
