package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/idelchi/sizefolder/internal/foldersize"
	"github.com/idelchi/sizefolder/internal/report"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// statusColors maps each status to its table colour.
//
//nolint:gochecknoglobals // Palette
var statusColors = map[foldersize.Status]*color.Color{
	foldersize.StatusOK:        color.New(color.FgGreen),
	foldersize.StatusPartial:   color.New(color.FgYellow),
	foldersize.StatusError:     color.New(color.FgRed, color.Bold),
	foldersize.StatusCancelled: color.New(color.FgMagenta),
}

// colorStatus renders a status with its colour.
func colorStatus(s foldersize.Status) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(s.String())
	}

	return s.String()
}

// jsonOutput is the JSON document: the scan summary plus the arranged view.
type jsonOutput struct {
	*foldersize.Summary

	// Displayed contains the results after sorting, filtering and trimming.
	Displayed []foldersize.SubfolderResult `json:"displayed"`
}

// PrintJSON outputs the summary in JSON format.
func PrintJSON(summary *foldersize.Summary, view report.View, writer io.Writer) error {
	data, err := json.MarshalIndent(jsonOutput{
		Summary:   summary,
		Displayed: report.Arrange(summary.Results, view),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintPaths outputs the absolute path of every displayed result that has a
// meaningful size, one per line.
func PrintPaths(summary *foldersize.Summary, view report.View, writer io.Writer) error {
	for _, r := range report.Arrange(summary.Results, view) {
		if !r.Status.Complete() {
			continue
		}

		if _, err := fmt.Fprintln(writer, r.Path); err != nil {
			return err
		}
	}

	return nil
}

// PrintTable outputs the results in human-readable table format.
// The status column always accompanies the size.
func PrintTable(summary *foldersize.Summary, view report.View, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	rows := report.Arrange(summary.Results, view)

	fmt.Fprintf(w, "\nSubfolders of %s:\t\t\t\t\n", summary.Root)

	for i, r := range rows {
		size := "-"
		pct := ""

		if r.Status.Complete() {
			size = report.FormatSize(r.Size)

			if summary.TotalBytes > 0 {
				pct = fmt.Sprintf("(%.1f%%)", 100.0*float64(r.Size)/float64(summary.TotalBytes))
			}
		}

		fmt.Fprintf(w, "  %d) %s\t%s %s\t%s bytes\t%s files\t%s\n",
			i+1, r.Name, size, pct, humanize.Comma(r.Size), humanize.Comma(r.Files), colorStatus(r.Status))
	}

	if len(rows) < len(summary.Results) {
		fmt.Fprintf(w, "  … %d more not shown\t\t\t\t\n", len(summary.Results)-len(rows))
	}

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Subfolders:\t%d\n", len(summary.Results))

	for _, s := range []foldersize.Status{
		foldersize.StatusPartial,
		foldersize.StatusError,
		foldersize.StatusCancelled,
	} {
		if n := summary.StatusCounts[s]; n > 0 {
			fmt.Fprintf(w, "  %s:\t%d\n", colorStatus(s), n)
		}
	}

	fmt.Fprintf(w, "Total size:\t%s (%s bytes)\n", report.FormatSize(summary.TotalBytes), humanize.Comma(summary.TotalBytes))
	fmt.Fprintf(w, "Total files:\t%s\n", humanize.Comma(summary.TotalFiles))

	if summary.ErrorCount > 0 {
		fmt.Fprintf(w, "Unreadable entries:\t%d\n", summary.ErrorCount)
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", summary.Elapsed)

	return w.Flush()
}
