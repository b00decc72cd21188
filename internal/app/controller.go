package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/five82/gantry/internal/config"
	"github.com/five82/gantry/internal/logging"
	"github.com/five82/gantry/internal/pharos"
	"github.com/five82/gantry/internal/state"
)

// ErrUnsupported is returned for commands the controller personality lacks.
var ErrUnsupported = errors.New("not supported by this personality")

// Controller hides the three personality clients behind one surface for the
// console and the one-shot commands.
type Controller struct {
	personality pharos.Personality
	host        string

	session  *pharos.Session
	generic  *pharos.Client
	designer *pharos.DesignerClient
	expert   *pharos.ExpertClient
}

// NewController builds the client named by cfg.Personality. Extra options
// are applied after the ones derived from cfg.
func NewController(cfg config.Config, extra ...pharos.Option) (*Controller, error) {
	personality, err := pharos.ParsePersonality(cfg.Personality)
	if err != nil {
		return nil, err
	}

	opts := []pharos.Option{
		pharos.WithScheme(cfg.Scheme),
		pharos.WithPort(cfg.Port),
		pharos.WithKeepaliveInterval(cfg.Keepalive),
		pharos.WithRequestTimeout(cfg.RequestTimeout),
		pharos.WithLogger(logging.WithComponent(logging.Get(), "session")),
	}
	opts = append(opts, extra...)

	c := &Controller{personality: personality, host: cfg.Host}
	switch personality {
	case pharos.PersonalityDesigner:
		c.designer = pharos.NewDesignerClient(cfg.Host, opts...)
		c.session = c.designer.Session
	case pharos.PersonalityExpert:
		c.expert = pharos.NewExpertClient(cfg.Host, opts...)
		c.session = c.expert.Session
	default:
		c.generic = pharos.NewClient(opts...)
		c.session = c.generic.Session
	}
	return c, nil
}

// Personality returns the controller family.
func (c *Controller) Personality() pharos.Personality {
	return c.personality
}

// Host returns the configured controller address.
func (c *Controller) Host() string {
	if h := c.session.Host(); h != "" {
		return h
	}
	return c.host
}

// SessionID identifies the session in the log file.
func (c *Controller) SessionID() string {
	return c.session.ID()
}

// Authenticated reports whether the session holds a token.
func (c *Controller) Authenticated() bool {
	return c.session.Authenticated()
}

// KeepaliveStatus reports the session's keepalive loop.
func (c *Controller) KeepaliveStatus() pharos.KeepaliveStatus {
	return c.session.KeepaliveStatus()
}

// Authenticate logs in. The generic personality adopts the configured host
// at this point.
func (c *Controller) Authenticate(ctx context.Context, username, password string) error {
	if c.generic != nil {
		return c.generic.Authenticate(ctx, c.host, username, password)
	}
	return c.session.Authenticate(ctx, username, password)
}

// Logout ends the controller session.
func (c *Controller) Logout(ctx context.Context) error {
	return c.session.Logout(ctx)
}

// Close stops the keepalive without contacting the controller.
func (c *Controller) Close() {
	c.session.Close()
}

// Fetch lists everything the personality supports. The first failure aborts
// the fetch so a half-updated dashboard is never stored.
func (c *Controller) Fetch(ctx context.Context) (*state.Lists, error) {
	var lists state.Lists
	var err error
	for _, r := range c.personality.Resources() {
		switch r {
		case pharos.ResourceTimelines:
			lists.Timelines, err = c.ListTimelines(ctx, "")
		case pharos.ResourceGroups:
			lists.Groups, err = c.ListGroups(ctx, "")
		case pharos.ResourceScenes:
			lists.Scenes, err = c.ListScenes(ctx, "")
		case pharos.ResourceTriggers:
			lists.Triggers, err = c.ListTriggers(ctx, "")
		case pharos.ResourceSpaces:
			lists.Spaces, err = c.ListSpaces(ctx, "")
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", r, err)
		}
	}
	return &lists, nil
}

// ListTimelines lists timelines on generic and Designer controllers.
func (c *Controller) ListTimelines(ctx context.Context, nums string) ([]pharos.Timeline, error) {
	switch {
	case c.designer != nil:
		return c.designer.ListTimelines(ctx, nums)
	case c.generic != nil:
		return c.generic.ListTimelines(ctx, nums)
	}
	return nil, c.unsupported(pharos.ResourceTimelines)
}

// ListGroups lists groups on generic and Designer controllers.
func (c *Controller) ListGroups(ctx context.Context, nums string) ([]pharos.Group, error) {
	switch {
	case c.designer != nil:
		return c.designer.ListGroups(ctx, nums)
	case c.generic != nil:
		return c.generic.ListGroups(ctx, nums)
	}
	return nil, c.unsupported(pharos.ResourceGroups)
}

// ListScenes lists scenes on every personality.
func (c *Controller) ListScenes(ctx context.Context, nums string) ([]pharos.Scene, error) {
	switch {
	case c.designer != nil:
		return c.designer.ListScenes(ctx, nums)
	case c.expert != nil:
		return c.expert.ListScenes(ctx, nums)
	}
	return c.generic.ListScenes(ctx, nums)
}

// ListTriggers lists triggers on Designer controllers.
func (c *Controller) ListTriggers(ctx context.Context, nums string) ([]pharos.Trigger, error) {
	if c.designer == nil {
		return nil, c.unsupported(pharos.ResourceTriggers)
	}
	return c.designer.ListTriggers(ctx, nums)
}

// ListSpaces lists spaces on Expert controllers.
func (c *Controller) ListSpaces(ctx context.Context, nums string) ([]pharos.Space, error) {
	if c.expert == nil {
		return nil, c.unsupported(pharos.ResourceSpaces)
	}
	return c.expert.ListSpaces(ctx, nums)
}

// Timeline sends a timeline action for num.
func (c *Controller) Timeline(ctx context.Context, action pharos.TimelineAction, num int) error {
	return c.ControlTimeline(ctx, action, pharos.TimelineOptions{Num: num})
}

// ControlTimeline sends a timeline action with every optional field.
func (c *Controller) ControlTimeline(ctx context.Context, action pharos.TimelineAction, opts pharos.TimelineOptions) error {
	switch {
	case c.designer != nil:
		return c.designer.ControlTimeline(ctx, action, opts)
	case c.generic != nil:
		return c.generic.ControlTimeline(ctx, action, opts)
	}
	return c.unsupported(pharos.ResourceTimelines)
}

// Scene sends a scene action for num.
func (c *Controller) Scene(ctx context.Context, action pharos.SceneAction, num int) error {
	return c.ControlScene(ctx, action, pharos.SceneOptions{Num: num})
}

// ControlScene sends a scene action with every optional field.
func (c *Controller) ControlScene(ctx context.Context, action pharos.SceneAction, opts pharos.SceneOptions) error {
	switch {
	case c.designer != nil:
		return c.designer.ControlScene(ctx, action, opts)
	case c.expert != nil:
		return c.expert.ControlScene(ctx, action, opts)
	}
	return c.generic.ControlScene(ctx, action, opts)
}

// SetLevel sets the master intensity of group num, or space num on Expert
// controllers. level is a number or a percentage string.
func (c *Controller) SetLevel(ctx context.Context, num int, level any) error {
	return c.ControlLevel(ctx, pharos.GroupOptions{Num: num, Level: level})
}

// ControlLevel sends a master intensity request with fade and delay.
func (c *Controller) ControlLevel(ctx context.Context, opts pharos.GroupOptions) error {
	switch {
	case c.designer != nil:
		return c.designer.ControlGroup(ctx, pharos.MasterIntensity, opts)
	case c.expert != nil:
		return c.expert.ControlSpace(ctx, pharos.MasterIntensity, opts)
	}
	return c.generic.ControlGroup(ctx, pharos.MasterIntensity, opts)
}

// FireTrigger fires trigger num on Designer controllers.
func (c *Controller) FireTrigger(ctx context.Context, num int) error {
	return c.ControlTrigger(ctx, pharos.TriggerOptions{Num: num})
}

// ControlTrigger fires a trigger with an optional variable and condition
// test.
func (c *Controller) ControlTrigger(ctx context.Context, opts pharos.TriggerOptions) error {
	if c.designer == nil {
		return c.unsupported(pharos.ResourceTriggers)
	}
	return c.designer.ControlTrigger(ctx, pharos.TriggerFire, opts)
}

func (c *Controller) unsupported(r pharos.Resource) error {
	return fmt.Errorf("%s on %s controller: %w", r, c.personality, ErrUnsupported)
}
