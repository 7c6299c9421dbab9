package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/sdejongh/foldermirror/pkg/models"
)

// PlanReport describes what a sync of one pair would do
type PlanReport struct {
	Pair      models.FolderPair     `json:"pair"`
	TwoWay    bool                  `json:"two_way"`
	Validate  bool                  `json:"validate"`
	Generated time.Time             `json:"generated"`
	Counts    map[models.Action]int `json:"counts"`
	Decisions []PlanEntry           `json:"decisions"`
}

// PlanEntry is one decision in a plan report
type PlanEntry struct {
	Action    models.Action    `json:"action"`
	Direction models.Direction `json:"direction"`
	Path      string           `json:"path"`
	From      string           `json:"from"`
	To        string           `json:"to"`
}

// NewPlanReport builds a report from a decision list
func NewPlanReport(pair models.FolderPair, twoWay, validate bool, decisions []models.SyncDecision) *PlanReport {
	report := &PlanReport{
		Pair:      pair,
		TwoWay:    twoWay,
		Validate:  validate,
		Generated: time.Now(),
		Counts:    make(map[models.Action]int),
		Decisions: make([]PlanEntry, 0, len(decisions)),
	}
	for _, d := range decisions {
		report.Counts[d.Action]++
		report.Decisions = append(report.Decisions, PlanEntry{
			Action:    d.Action,
			Direction: d.Direction,
			Path:      filepath.ToSlash(d.RelativePath),
			From:      d.From(),
			To:        d.To(),
		})
	}
	return report
}

// actionOrder is the section order of human plan reports
var actionOrder = []models.Action{
	models.ActionCopyForward,
	models.ActionCopyBackward,
	models.ActionValidateOnly,
	models.ActionSkip,
}

var actionLabels = map[models.Action]string{
	models.ActionCopyForward:  "Copy to target",
	models.ActionCopyBackward: "Copy to source",
	models.ActionValidateOnly: "Validate only",
	models.ActionSkip:         "Up to date",
}

// WritePlan writes reports to w. Format can be "human" or "json".
// Skipped files are listed only when verbose is set.
func WritePlan(w io.Writer, reports []*PlanReport, format string, verbose bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	default:
		for _, r := range reports {
			writePlanHuman(w, r, verbose)
		}
		return nil
	}
}

// WritePlanFile writes reports to path, replacing any existing file
func WritePlanFile(path string, reports []*PlanReport, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plan report: %w", err)
	}
	defer file.Close()

	if err := WritePlan(file, reports, format, true); err != nil {
		return fmt.Errorf("failed to write plan report: %w", err)
	}
	return file.Close()
}

func writePlanHuman(w io.Writer, r *PlanReport, verbose bool) {
	headerColor.Fprintf(w, "Plan for %s\n", r.Pair)
	fmt.Fprintf(w, "Two-way: %v  Validate: %v\n", r.TwoWay, r.Validate)
	fmt.Fprintf(w, "Total decisions: %d\n\n", len(r.Decisions))

	byAction := make(map[models.Action][]PlanEntry)
	for _, e := range r.Decisions {
		byAction[e.Action] = append(byAction[e.Action], e)
	}

	for _, action := range actionOrder {
		entries := byAction[action]
		if len(entries) == 0 {
			continue
		}

		fmt.Fprintf(w, "%s (%d):\n", actionLabels[action], len(entries))
		if action == models.ActionSkip && !verbose {
			dimColor.Fprintf(w, "  (use --verbose to list)\n\n")
			continue
		}
		for _, e := range entries {
			line := fmt.Sprintf("  %s %s\n", e.Direction.Arrow(), e.Path)
			if action.IsCopy() {
				successColor.Fprint(w, line)
			} else {
				fmt.Fprint(w, line)
			}
		}
		fmt.Fprintln(w)
	}
}
