package pharos

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_AuthenticateAdoptsValidHostOnly(t *testing.T) {
	doer := &countingDoer{}
	c := NewClient(WithHTTPClient(doer))
	t.Cleanup(c.Close)

	err := c.Authenticate(context.Background(), "not-an-ip", "admin", "pharos")
	require.ErrorIs(t, err, ErrInvalidHostFormat)
	assert.Empty(t, c.Host())
	assert.Zero(t, doer.calls.Load())

	fc := newFakeController()
	host, opts := startFake(t, fc)
	c = NewClient(opts...)
	t.Cleanup(c.Close)

	require.NoError(t, c.Authenticate(context.Background(), host, "admin", "pharos"))
	assert.Equal(t, host, c.Host())
	assert.Equal(t, "abc123", c.Token())
	assert.True(t, c.KeepaliveActive())
}

func TestClient_CommandsBeforeAuthenticateFail(t *testing.T) {
	fc := newFakeController()
	_, opts := startFake(t, fc)
	c := NewClient(opts...)
	t.Cleanup(c.Close)

	err := c.ControlScene(context.Background(), SceneStart, SceneOptions{Num: 4})
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Contains(t, err.Error(), "authenticate first")

	_, err = c.ListTimelines(context.Background(), "")
	assert.ErrorIs(t, err, ErrNetwork)

	fc.mu.Lock()
	defer fc.mu.Unlock()
	assert.Empty(t, fc.requests)
}

func TestClient_ListsForwardNumFilter(t *testing.T) {
	fc := newFakeController()
	fc.listBodies[groupPath] = `{"groups":[{"num":2,"name":"Stage","level":50}]}`
	host, opts := startFake(t, fc)
	c := NewClient(opts...)
	t.Cleanup(c.Close)
	require.NoError(t, c.Authenticate(context.Background(), host, "admin", "pharos"))

	groups, err := c.ListGroups(context.Background(), " 1,2-4 ")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, Group{Num: 2, Name: "Stage", Level: 50}, groups[0])

	// The keepalive polls the same endpoint without a filter.
	var filtered []recorded
	for _, r := range fc.requestsTo(groupPath) {
		if r.Query.Has("num") {
			filtered = append(filtered, r)
		}
	}
	require.Len(t, filtered, 1)
	assert.Equal(t, "1,2-4", filtered[0].Query.Get("num"))
	assert.Equal(t, "Bearer abc123", filtered[0].Auth)

	_, err = c.ListTimelines(context.Background(), "")
	require.NoError(t, err)
	reqs = fc.requestsTo(timelinePath)
	require.Len(t, reqs, 1)
	assert.False(t, reqs[0].Query.Has("num"))
}

func TestDesignerClient_ControlPayloads(t *testing.T) {
	fc := newFakeController()
	host, opts := startFake(t, fc)
	c := NewDesignerClient(host, opts...)
	t.Cleanup(c.Close)
	ctx := context.Background()

	require.NoError(t, c.ControlTimeline(ctx, TimelineSetRate, TimelineOptions{Num: 3, Rate: "0.5"}))
	require.NoError(t, c.ControlGroup(ctx, MasterIntensity, GroupOptions{Num: 2, Level: "50%", Fade: Float(0)}))
	require.NoError(t, c.ControlScene(ctx, SceneRelease, SceneOptions{Num: 4, Fade: Float(2.5), Group: "A"}))
	require.NoError(t, c.ControlTrigger(ctx, TriggerFire, TriggerOptions{Num: 1, Var: "1,2", Conditions: Bool(false)}))

	tests := []struct {
		path string
		want map[string]any
	}{
		{timelinePath, map[string]any{"action": "set_rate", "num": float64(3), "rate": "0.5"}},
		{groupPath, map[string]any{"action": "master_intensity", "num": float64(2), "level": "50%", "fade": float64(0)}},
		{scenePath, map[string]any{"action": "release", "num": float64(4), "fade": 2.5, "group": "A"}},
		{triggerPath, map[string]any{"action": "fire", "num": float64(1), "var": "1,2", "conditions": false}},
	}
	for _, tt := range tests {
		var posts []recorded
		for _, r := range fc.requestsTo(tt.path) {
			if r.Method == http.MethodPost {
				posts = append(posts, r)
			}
		}
		require.Len(t, posts, 1, tt.path)
		var got map[string]any
		require.NoError(t, json.Unmarshal(posts[0].Body, &got), tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestDesignerClient_ListTriggers(t *testing.T) {
	fc := newFakeController()
	fc.listBodies[triggerPath] = `{"triggers":[{"num":7,"name":"Doorbell","type":"Digital Input"}]}`
	host, opts := startFake(t, fc)
	c := NewDesignerClient(host, opts...)
	t.Cleanup(c.Close)

	triggers, err := c.ListTriggers(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	assert.Equal(t, "Doorbell", triggers[0].Name)
	assert.Equal(t, "Digital Input", triggers[0].Type)
}

func TestExpertClient_SpacesAndScenes(t *testing.T) {
	fc := newFakeController()
	fc.listBodies[groupPath] = `{"spaces":[{"num":1,"name":"Lobby","intensity_master":0.8}],"token":"space-token"}`
	host, opts := startFake(t, fc)
	c := NewExpertClient(host, opts...)
	t.Cleanup(c.Close)
	ctx := context.Background()

	spaces, err := c.ListSpaces(ctx, "")
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.Equal(t, "Lobby", spaces[0].Name)
	assert.InDelta(t, 0.8, spaces[0].IntensityMaster, 1e-9)
	assert.Equal(t, "space-token", c.Token())

	require.NoError(t, c.ControlSpace(ctx, MasterIntensity, GroupOptions{Num: 1, Level: 40}))
	require.NoError(t, c.ControlScene(ctx, SceneToggle, SceneOptions{Num: 9}))

	fc.set(func(f *fakeController) { f.controlStatus = http.StatusForbidden })
	err = c.ControlScene(ctx, SceneToggle, SceneOptions{Num: 9})
	require.ErrorIs(t, err, ErrAuthOrServer)

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusForbidden, pe.Status)
}

func TestList_UndecodableBodyIsNetworkError(t *testing.T) {
	fc := newFakeController()
	fc.listBodies[scenePath] = `{"scenes":"nope"}`
	host, opts := startFake(t, fc)
	c := NewDesignerClient(host, opts...)
	t.Cleanup(c.Close)

	_, err := c.ListScenes(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Contains(t, err.Error(), "decode response")
}

func TestPersonality_Resources(t *testing.T) {
	p, err := ParsePersonality(" Expert ")
	require.NoError(t, err)
	assert.Equal(t, PersonalityExpert, p)
	assert.Equal(t, []Resource{ResourceSpaces, ResourceScenes}, p.Resources())
	assert.False(t, p.Supports(ResourceTriggers))

	assert.True(t, PersonalityDesigner.Supports(ResourceTriggers))
	assert.False(t, PersonalityGeneric.Supports(ResourceTriggers))
	assert.False(t, PersonalityGeneric.Supports(ResourceSpaces))

	_, err = ParsePersonality("architect")
	assert.Error(t, err)
	assert.Empty(t, Personality("architect").Resources())
}
