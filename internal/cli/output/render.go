// Package output renders validation reports for the CLI: a plain-text
// table view for terminals and JSON for machines. Rendering is strictly
// downstream of the report model.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/report"
)

// Write renders the report in the given format ("text" or "json").
func Write(w io.Writer, rep *report.Report, format string) error {
	switch format {
	case "json":
		return writeJSON(w, rep)
	default:
		return writeText(w, rep)
	}
}

// WriteJSONFile writes the report as indented JSON to a file.
func WriteJSONFile(path string, rep *report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeJSON(f, rep)
}

func writeJSON(w io.Writer, rep *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func writeText(w io.Writer, rep *report.Report) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Rule", "Kind", "Severity", "Violations", "Status"})
	for _, rs := range rep.Rules {
		status := "pass"
		if !rs.Passed {
			status = "fail"
		}
		t.AppendRow(table.Row{rs.RuleID, rs.Kind, rs.Severity.String(), rs.Count, status})
	}
	t.Render()

	if len(rep.Violations) > 0 {
		fmt.Fprintln(w)
		st := table.NewWriter()
		st.SetOutputMirror(w)
		st.SetStyle(table.StyleLight)
		st.AppendHeader(table.Row{"Severity", "Count"})
		for s := core.SeverityCritical; s >= core.SeverityInfo; s-- {
			if n := rep.BySeverity[s.String()]; n > 0 {
				st.AppendRow(table.Row{s.String(), n})
			}
		}
		st.Render()

		fmt.Fprintln(w)
		writeSamples(w, rep)
	}

	fmt.Fprintf(w, "\n%d rows checked, %d violation(s), threshold %s: ",
		rep.RowCount, rep.TotalViolations(), rep.Threshold)
	if rep.Passed {
		fmt.Fprintln(w, "PASS")
	} else {
		fmt.Fprintln(w, "FAIL")
	}
	return nil
}

// writeSamples prints each failing rule's sampled violations.
func writeSamples(w io.Writer, rep *report.Report) {
	for _, rs := range rep.Rules {
		if rs.Count == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d violation(s), showing %d):\n", rs.RuleID, rs.Count, len(rs.Samples))
		for _, v := range rs.Samples {
			if v.DatasetWide() {
				fmt.Fprintf(w, "  - %s\n", v.Message)
				continue
			}
			fmt.Fprintf(w, "  - row %d: %s\n", v.Row, v.Message)
		}
	}
}
