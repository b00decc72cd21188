package pharos

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

const (
	timelinePath = "/api/timeline"
	scenePath    = "/api/scene"
	triggerPath  = "/api/trigger"
)

// Personality names the controller family a client talks to.
type Personality string

const (
	PersonalityGeneric  Personality = "generic"
	PersonalityDesigner Personality = "designer"
	PersonalityExpert   Personality = "expert"
)

// Resource names a listable entity family.
type Resource string

const (
	ResourceTimelines Resource = "timelines"
	ResourceGroups    Resource = "groups"
	ResourceScenes    Resource = "scenes"
	ResourceTriggers  Resource = "triggers"
	ResourceSpaces    Resource = "spaces"
)

var personalityResources = map[Personality][]Resource{
	PersonalityGeneric:  {ResourceTimelines, ResourceGroups, ResourceScenes},
	PersonalityDesigner: {ResourceTimelines, ResourceGroups, ResourceScenes, ResourceTriggers},
	PersonalityExpert:   {ResourceSpaces, ResourceScenes},
}

// ParsePersonality accepts generic, designer or expert in any case.
func ParsePersonality(s string) (Personality, error) {
	p := Personality(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := personalityResources[p]; !ok {
		return "", fmt.Errorf("unknown personality %q", s)
	}
	return p, nil
}

// Resources lists what the personality can list and control, in display order.
func (p Personality) Resources() []Resource {
	return slices.Clone(personalityResources[p])
}

// Supports reports whether the personality offers r.
func (p Personality) Supports(r Resource) bool {
	return slices.Contains(personalityResources[p], r)
}

// Client is the generic personality: the controller address is supplied at
// authentication time.
type Client struct {
	*Session
}

// DesignerClient talks to a Designer controller (timelines, groups,
// scenes, triggers).
type DesignerClient struct {
	*Session
}

// ExpertClient talks to an Expert controller (spaces, scenes).
type ExpertClient struct {
	*Session
}

// NewClient builds a generic client with no controller address yet.
func NewClient(opts ...Option) *Client {
	return &Client{Session: NewSession("", opts...)}
}

// NewDesignerClient builds a Designer client for host.
func NewDesignerClient(host string, opts ...Option) *DesignerClient {
	return &DesignerClient{Session: NewSession(host, opts...)}
}

// NewExpertClient builds an Expert client for host.
func NewExpertClient(host string, opts ...Option) *ExpertClient {
	return &ExpertClient{Session: NewSession(host, opts...)}
}

// Authenticate validates host, adopts it as the controller address and logs
// in. An invalid host leaves the client untouched.
func (c *Client) Authenticate(ctx context.Context, host, username, password string) error {
	if !ValidHost(host) {
		return invalidHostError("authenticate", host)
	}
	c.setHost(host)
	return c.Session.Authenticate(ctx, username, password)
}

// ListTimelines returns the project's timelines, optionally filtered by a
// number list such as "1,3-5".
func (c *Client) ListTimelines(ctx context.Context, nums string) ([]Timeline, error) {
	return listTimelines(ctx, c.Session, nums)
}

// ControlTimeline sends a timeline action.
func (c *Client) ControlTimeline(ctx context.Context, action TimelineAction, opts TimelineOptions) error {
	return control(ctx, c.Session, timelinePath, string(action), opts)
}

// ListGroups returns the project's groups.
func (c *Client) ListGroups(ctx context.Context, nums string) ([]Group, error) {
	return listGroups(ctx, c.Session, nums)
}

// ControlGroup sends a group action.
func (c *Client) ControlGroup(ctx context.Context, action GroupAction, opts GroupOptions) error {
	return control(ctx, c.Session, groupPath, string(action), opts)
}

// ListScenes returns the project's scenes.
func (c *Client) ListScenes(ctx context.Context, nums string) ([]Scene, error) {
	return listScenes(ctx, c.Session, nums)
}

// ControlScene sends a scene action.
func (c *Client) ControlScene(ctx context.Context, action SceneAction, opts SceneOptions) error {
	return control(ctx, c.Session, scenePath, string(action), opts)
}

// ListTimelines returns the project's timelines, optionally filtered by a
// number list such as "1,3-5".
func (c *DesignerClient) ListTimelines(ctx context.Context, nums string) ([]Timeline, error) {
	return listTimelines(ctx, c.Session, nums)
}

// ControlTimeline sends a timeline action. Success is a 204 with no body.
func (c *DesignerClient) ControlTimeline(ctx context.Context, action TimelineAction, opts TimelineOptions) error {
	return control(ctx, c.Session, timelinePath, string(action), opts)
}

// ListGroups returns the project's groups. This is also the keepalive read.
func (c *DesignerClient) ListGroups(ctx context.Context, nums string) ([]Group, error) {
	return listGroups(ctx, c.Session, nums)
}

// ControlGroup sends a group action.
func (c *DesignerClient) ControlGroup(ctx context.Context, action GroupAction, opts GroupOptions) error {
	return control(ctx, c.Session, groupPath, string(action), opts)
}

// ListScenes returns the project's scenes and their state.
func (c *DesignerClient) ListScenes(ctx context.Context, nums string) ([]Scene, error) {
	return listScenes(ctx, c.Session, nums)
}

// ControlScene sends a scene action. It propagates to every controller in
// the project.
func (c *DesignerClient) ControlScene(ctx context.Context, action SceneAction, opts SceneOptions) error {
	return control(ctx, c.Session, scenePath, string(action), opts)
}

// ListTriggers returns the project's triggers.
func (c *DesignerClient) ListTriggers(ctx context.Context, nums string) ([]Trigger, error) {
	var env triggerList
	if err := list(ctx, c.Session, triggerPath, nums, &env); err != nil {
		return nil, err
	}
	return env.Triggers, nil
}

// ControlTrigger sends a trigger action.
func (c *DesignerClient) ControlTrigger(ctx context.Context, action TriggerAction, opts TriggerOptions) error {
	return control(ctx, c.Session, triggerPath, string(action), opts)
}

// ListSpaces returns the project's spaces.
func (c *ExpertClient) ListSpaces(ctx context.Context, nums string) ([]Space, error) {
	var env spaceList
	if err := list(ctx, c.Session, groupPath, nums, &env); err != nil {
		return nil, err
	}
	return env.Spaces, nil
}

// ControlSpace sends a space action.
func (c *ExpertClient) ControlSpace(ctx context.Context, action GroupAction, opts GroupOptions) error {
	return control(ctx, c.Session, groupPath, string(action), opts)
}

// ListScenes returns the project's scenes.
func (c *ExpertClient) ListScenes(ctx context.Context, nums string) ([]Scene, error) {
	return listScenes(ctx, c.Session, nums)
}

// ControlScene sends a scene action.
func (c *ExpertClient) ControlScene(ctx context.Context, action SceneAction, opts SceneOptions) error {
	return control(ctx, c.Session, scenePath, string(action), opts)
}

func listTimelines(ctx context.Context, s *Session, nums string) ([]Timeline, error) {
	var env timelineList
	if err := list(ctx, s, timelinePath, nums, &env); err != nil {
		return nil, err
	}
	return env.Timelines, nil
}

func listGroups(ctx context.Context, s *Session, nums string) ([]Group, error) {
	var env groupList
	if err := list(ctx, s, groupPath, nums, &env); err != nil {
		return nil, err
	}
	return env.Groups, nil
}

func listScenes(ctx context.Context, s *Session, nums string) ([]Scene, error) {
	var env sceneList
	if err := list(ctx, s, scenePath, nums, &env); err != nil {
		return nil, err
	}
	return env.Scenes, nil
}

func list(ctx context.Context, s *Session, path, nums string, dest any) error {
	rel := &url.URL{Path: path}
	if nums = strings.TrimSpace(nums); nums != "" {
		rel.RawQuery = url.Values{"num": {nums}}.Encode()
	}
	res, err := s.Invoke(ctx, http.MethodGet, rel.String(), nil)
	if err != nil {
		return err
	}
	if err := res.Decode(dest); err != nil {
		return &Error{Op: "GET " + path, Kind: KindNetwork, Status: res.Status, Message: "decode response", Err: err}
	}
	return nil
}

func control[O any](ctx context.Context, s *Session, path, action string, opts O) error {
	_, err := s.Invoke(ctx, http.MethodPost, path, controlRequest[O]{Action: action, Opts: opts})
	return err
}
