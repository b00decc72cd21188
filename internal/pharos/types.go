package pharos

import "encoding/json"

// Timeline mirrors an entry of GET /api/timeline.
type Timeline struct {
	Num              int             `json:"num"`
	Name             string          `json:"name"`
	Group            string          `json:"group"`
	Length           int             `json:"length"`
	State            string          `json:"state"`
	OnStage          bool            `json:"onstage"`
	Position         int             `json:"position"`
	Priority         string          `json:"priority"`
	SourceBus        string          `json:"source_bus"`
	TimecodeFormat   string          `json:"timecode_format"`
	TimeOffset       int             `json:"time_offset"`
	AudioBand        int             `json:"audio_band"`
	AudioChannel     string          `json:"audio_channel"`
	AudioPeak        bool            `json:"audio_peak"`
	CustomProperties json.RawMessage `json:"custom_properties,omitempty"`
}

// Group mirrors an entry of GET /api/group on a Designer controller.
type Group struct {
	Num   int     `json:"num"`
	Name  string  `json:"name"`
	Level float64 `json:"level"`
}

// Space mirrors an entry of GET /api/group on an Expert controller.
type Space struct {
	Num             int               `json:"num"`
	Name            string            `json:"name"`
	IsModified      bool              `json:"is_modified"`
	IntensityMaster float64           `json:"intensity_master"`
	ActiveScene     json.RawMessage   `json:"active_scene,omitempty"`
	ChildScenes     []json.RawMessage `json:"child_scene,omitempty"`
	ChildSpaces     []json.RawMessage `json:"child_spaces,omitempty"`
}

// Scene mirrors an entry of GET /api/scene.
type Scene struct {
	Num              int             `json:"num"`
	Name             string          `json:"name"`
	Group            string          `json:"group"`
	State            string          `json:"state"`
	OnStage          bool            `json:"onstage"`
	CustomProperties json.RawMessage `json:"custom_properties,omitempty"`
}

// Trigger mirrors an entry of GET /api/trigger.
type Trigger struct {
	Num        int             `json:"num"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Trigger    string          `json:"trigger_text"`
	Conditions json.RawMessage `json:"conditions,omitempty"`
	Actions    json.RawMessage `json:"actions,omitempty"`
}

// TimelineAction is forwarded verbatim as the "action" field.
type TimelineAction string

const (
	TimelineStart       TimelineAction = "start"
	TimelineRelease     TimelineAction = "release"
	TimelineToggle      TimelineAction = "toggle"
	TimelinePause       TimelineAction = "pause"
	TimelineResume      TimelineAction = "resume"
	TimelineSetRate     TimelineAction = "set_rate"
	TimelineSetPosition TimelineAction = "set_position"
)

// SceneAction is forwarded verbatim as the "action" field.
type SceneAction string

const (
	SceneStart   SceneAction = "start"
	SceneRelease SceneAction = "release"
	SceneToggle  SceneAction = "toggle"
)

// GroupAction is forwarded verbatim as the "action" field.
type GroupAction string

// MasterIntensity is the only group (and space) action the controller offers.
const MasterIntensity GroupAction = "master_intensity"

// TriggerAction is forwarded verbatim as the "action" field.
type TriggerAction string

const TriggerFire TriggerAction = "fire"

// TimelineOptions are the optional fields of a timeline control request.
type TimelineOptions struct {
	Num      int      `json:"num,omitempty"`
	Fade     *float64 `json:"fade,omitempty"`
	Group    string   `json:"group,omitempty"`
	Rate     string   `json:"rate,omitempty"`
	Position string   `json:"position,omitempty"`
}

// GroupOptions are the optional fields of a group or space intensity
// request. Level is a number or a percentage string such as "50%".
type GroupOptions struct {
	Num   int      `json:"num,omitempty"`
	Level any      `json:"level,omitempty"`
	Fade  *float64 `json:"fade,omitempty"`
	Delay *float64 `json:"delay,omitempty"`
}

// SceneOptions are the fields of a scene control request.
type SceneOptions struct {
	Num   int      `json:"num"`
	Fade  *float64 `json:"fade,omitempty"`
	Group string   `json:"group,omitempty"`
}

// TriggerOptions are the fields of a trigger control request.
type TriggerOptions struct {
	Num        int    `json:"num,omitempty"`
	Var        string `json:"var,omitempty"`
	Conditions *bool  `json:"conditions,omitempty"`
}

// Float returns a pointer to v for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v for optional flags.
func Bool(v bool) *bool {
	return &v
}

type controlRequest[O any] struct {
	Action string
	Opts   O
}

// MarshalJSON flattens the action next to the option fields.
func (c controlRequest[O]) MarshalJSON() ([]byte, error) {
	opts, err := json.Marshal(c.Opts)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(opts, &fields); err != nil {
		return nil, err
	}
	action, err := json.Marshal(c.Action)
	if err != nil {
		return nil, err
	}
	fields["action"] = action
	return json.Marshal(fields)
}

type timelineList struct {
	Timelines []Timeline `json:"timelines"`
}

type groupList struct {
	Groups []Group `json:"groups"`
}

type spaceList struct {
	Spaces []Space `json:"spaces"`
}

type sceneList struct {
	Scenes []Scene `json:"scenes"`
}

type triggerList struct {
	Triggers []Trigger `json:"triggers"`
}
