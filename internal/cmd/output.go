package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/five82/gantry/internal/pharos"
)

func printOK(w io.Writer, label string) {
	green := color.New(color.FgGreen)
	green.Fprint(w, "ok")
	fmt.Fprintf(w, " %s\n", label)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable renders list results as aligned columns.
func printTable(w io.Writer, r pharos.Resource, items any) error {
	cyan := color.New(color.FgCyan)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	var rows [][]string
	var header []string
	switch v := items.(type) {
	case []pharos.Timeline:
		header = []string{"NUM", "NAME", "STATE", "ONSTAGE", "POSITION", "GROUP"}
		for _, t := range v {
			rows = append(rows, []string{num(t.Num), t.Name, dash(t.State), yesNo(t.OnStage), strconv.Itoa(t.Position), dash(t.Group)})
		}
	case []pharos.Group:
		header = []string{"NUM", "NAME", "LEVEL"}
		for _, g := range v {
			rows = append(rows, []string{num(g.Num), g.Name, percent(g.Level)})
		}
	case []pharos.Space:
		header = []string{"NUM", "NAME", "LEVEL", "MODIFIED"}
		for _, s := range v {
			rows = append(rows, []string{num(s.Num), s.Name, percent(s.IntensityMaster * 100), yesNo(s.IsModified)})
		}
	case []pharos.Scene:
		header = []string{"NUM", "NAME", "STATE", "ONSTAGE", "GROUP"}
		for _, s := range v {
			rows = append(rows, []string{num(s.Num), s.Name, dash(s.State), yesNo(s.OnStage), dash(s.Group)})
		}
	case []pharos.Trigger:
		header = []string{"NUM", "NAME", "TYPE", "TRIGGER"}
		for _, t := range v {
			rows = append(rows, []string{num(t.Num), t.Name, dash(t.Type), dash(t.Trigger)})
		}
	default:
		return fmt.Errorf("cannot print %T", items)
	}

	if len(rows) == 0 {
		fmt.Fprintf(w, "(no %s)\n", r)
		return nil
	}

	cyan.Fprintln(w, titleCase(string(r)))
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func num(n int) string { return "#" + strconv.Itoa(n) }

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func percent(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64) + "%"
}
