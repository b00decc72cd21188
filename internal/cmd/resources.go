package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/gantry/internal/app"
	"github.com/five82/gantry/internal/pharos"
)

// controlFlags are the optional request fields shared by the control
// commands. Unset flags are omitted from the request.
type controlFlags struct {
	fade       float64
	delay      float64
	group      string
	rate       string
	position   string
	variable   string
	conditions bool
}

func (f *controlFlags) fadePtr(cmd *cobra.Command) *float64 {
	if !cmd.Flags().Changed("fade") {
		return nil
	}
	return pharos.Float(f.fade)
}

func newTimelineCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "List and control timelines",
	}
	cmd.AddCommand(newListCmd(c, pharos.ResourceTimelines, func(ctx context.Context, ctrl *app.Controller, nums string) (any, error) {
		return ctrl.ListTimelines(ctx, nums)
	}))

	actions := []struct {
		action pharos.TimelineAction
		short  string
	}{
		{pharos.TimelineStart, "Start a timeline"},
		{pharos.TimelineRelease, "Release a timeline"},
		{pharos.TimelineToggle, "Start a released timeline or release a running one"},
		{pharos.TimelinePause, "Pause a timeline"},
		{pharos.TimelineResume, "Resume a paused timeline"},
		{pharos.TimelineSetRate, "Set the playback rate (--rate)"},
		{pharos.TimelineSetPosition, "Set the playback position (--position)"},
	}
	for _, a := range actions {
		var f controlFlags
		sub := &cobra.Command{
			Use:   string(a.action) + " <num>",
			Short: a.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				num, err := parseNum(args[0])
				if err != nil {
					return err
				}
				if err := c.require(pharos.ResourceTimelines); err != nil {
					return err
				}
				opts := pharos.TimelineOptions{
					Num:      num,
					Fade:     f.fadePtr(cmd),
					Group:    f.group,
					Rate:     f.rate,
					Position: f.position,
				}
				label := fmt.Sprintf("timeline %d %s", num, a.action)
				return c.control(cmd, label, func(ctx context.Context, ctrl *app.Controller) error {
					return ctrl.ControlTimeline(ctx, a.action, opts)
				})
			},
		}
		sub.Flags().Float64Var(&f.fade, "fade", 0, "Fade time in seconds")
		sub.Flags().StringVar(&f.group, "group", "", "Timeline group")
		switch a.action {
		case pharos.TimelineSetRate:
			sub.Flags().StringVar(&f.rate, "rate", "", "Rate, e.g. 1.0 or a bpm expression")
			_ = sub.MarkFlagRequired("rate")
		case pharos.TimelineSetPosition:
			sub.Flags().StringVar(&f.position, "position", "", "Position in milliseconds")
			_ = sub.MarkFlagRequired("position")
		}
		cmd.AddCommand(sub)
	}
	return cmd
}

func newSceneCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scene",
		Short: "List and control scenes",
	}
	cmd.AddCommand(newListCmd(c, pharos.ResourceScenes, func(ctx context.Context, ctrl *app.Controller, nums string) (any, error) {
		return ctrl.ListScenes(ctx, nums)
	}))

	for _, action := range []pharos.SceneAction{pharos.SceneStart, pharos.SceneRelease, pharos.SceneToggle} {
		var f controlFlags
		sub := &cobra.Command{
			Use:   string(action) + " <num>",
			Short: titleCase(string(action)) + " a scene",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				num, err := parseNum(args[0])
				if err != nil {
					return err
				}
				opts := pharos.SceneOptions{Num: num, Fade: f.fadePtr(cmd), Group: f.group}
				label := fmt.Sprintf("scene %d %s", num, action)
				return c.control(cmd, label, func(ctx context.Context, ctrl *app.Controller) error {
					return ctrl.ControlScene(ctx, action, opts)
				})
			},
		}
		sub.Flags().Float64Var(&f.fade, "fade", 0, "Fade time in seconds")
		sub.Flags().StringVar(&f.group, "group", "", "Scene group")
		cmd.AddCommand(sub)
	}
	return cmd
}

func newGroupCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "List groups and set their level (Designer and generic)",
	}
	cmd.AddCommand(
		newListCmd(c, pharos.ResourceGroups, func(ctx context.Context, ctrl *app.Controller, nums string) (any, error) {
			return ctrl.ListGroups(ctx, nums)
		}),
		newLevelCmd(c, pharos.ResourceGroups),
	)
	return cmd
}

func newSpaceCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "space",
		Short: "List spaces and set their level (Expert)",
	}
	cmd.AddCommand(
		newListCmd(c, pharos.ResourceSpaces, func(ctx context.Context, ctrl *app.Controller, nums string) (any, error) {
			return ctrl.ListSpaces(ctx, nums)
		}),
		newLevelCmd(c, pharos.ResourceSpaces),
	)
	return cmd
}

// newLevelCmd sets the master intensity of a group or space. The level is
// forwarded as a number, or verbatim when it is a percentage string.
func newLevelCmd(c *cli, r pharos.Resource) *cobra.Command {
	var f controlFlags
	noun := strings.TrimSuffix(string(r), "s")
	cmd := &cobra.Command{
		Use:   "level <num> <level>",
		Short: "Set the master intensity of a " + noun + ", e.g. 75 or 50%",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			num, err := parseNum(args[0])
			if err != nil {
				return err
			}
			if err := c.require(r); err != nil {
				return err
			}
			opts := pharos.GroupOptions{Num: num, Level: parseLevelArg(args[1]), Fade: f.fadePtr(cmd)}
			if cmd.Flags().Changed("delay") {
				opts.Delay = pharos.Float(f.delay)
			}
			label := fmt.Sprintf("%s %d level %s", noun, num, args[1])
			return c.control(cmd, label, func(ctx context.Context, ctrl *app.Controller) error {
				return ctrl.ControlLevel(ctx, opts)
			})
		},
	}
	cmd.Flags().Float64Var(&f.fade, "fade", 0, "Fade time in seconds")
	cmd.Flags().Float64Var(&f.delay, "delay", 0, "Delay before the fade in seconds")
	return cmd
}

func newTriggerCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "List and fire triggers (Designer)",
	}

	var f controlFlags
	fire := &cobra.Command{
		Use:   "fire <num>",
		Short: "Fire a trigger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			num, err := parseNum(args[0])
			if err != nil {
				return err
			}
			if err := c.require(pharos.ResourceTriggers); err != nil {
				return err
			}
			opts := pharos.TriggerOptions{Num: num, Var: f.variable}
			if cmd.Flags().Changed("conditions") {
				opts.Conditions = pharos.Bool(f.conditions)
			}
			label := fmt.Sprintf("trigger %d fire", num)
			return c.control(cmd, label, func(ctx context.Context, ctrl *app.Controller) error {
				return ctrl.ControlTrigger(ctx, opts)
			})
		},
	}
	fire.Flags().StringVar(&f.variable, "var", "", "Comma separated trigger variables")
	fire.Flags().BoolVar(&f.conditions, "conditions", true, "Test the trigger conditions before firing")

	cmd.AddCommand(
		newListCmd(c, pharos.ResourceTriggers, func(ctx context.Context, ctrl *app.Controller, nums string) (any, error) {
			return ctrl.ListTriggers(ctx, nums)
		}),
		fire,
	)
	return cmd
}

type listFunc func(ctx context.Context, ctrl *app.Controller, nums string) (any, error)

// newListCmd lists r, optionally filtered by a number selector such as
// "1,3-5" which is forwarded verbatim.
func newListCmd(c *cli, r pharos.Resource, list listFunc) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list [num]",
		Short: "List " + string(r),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.require(r); err != nil {
				return err
			}
			var nums string
			if len(args) == 1 {
				nums = args[0]
			}
			return c.withController(cmd, func(ctx context.Context, ctrl *app.Controller) error {
				items, err := list(ctx, ctrl, nums)
				if err != nil {
					return fmt.Errorf("list %s: %w", r, err)
				}
				if asJSON {
					return printJSON(c.stdout, items)
				}
				return printTable(c.stdout, r, items)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the controller's records as JSON")
	return cmd
}

// control runs one command and reports it.
func (c *cli) control(cmd *cobra.Command, label string, fn func(context.Context, *app.Controller) error) error {
	return c.withController(cmd, func(ctx context.Context, ctrl *app.Controller) error {
		if err := fn(ctx, ctrl); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		printOK(c.stdout, label)
		return nil
	})
}

// parseNum accepts controller numbers, which start at 1. Zero is rejected
// because an omitted num addresses every item.
func parseNum(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}

// parseLevelArg sends plain numbers as JSON numbers and anything else, such
// as "50%", as the string the user typed.
func parseLevelArg(s string) any {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
