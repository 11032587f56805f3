package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mavenfetch/pkg/deps"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printTitle(title string) {
	fmt.Println(styleTitle.Render(title))
}

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + styleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + styleDim.Render(iconArrow) + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleValue.Render(value))
}

// printSummary prints the outcome of a fetch run.
func printSummary(r *deps.Report, dryRun bool) {
	fmt.Println()
	if dryRun {
		printSuccess("Resolved %s coordinates %s",
			styleNumber.Render(fmt.Sprint(len(r.Resolved))), styleDim.Render("(dry run)"))
		for _, c := range r.Resolved {
			printFile(c.String())
		}
	} else {
		printSuccess("Downloaded %s packages, %s",
			styleNumber.Render(fmt.Sprint(len(r.Downloaded))), formatBytes(r.TotalBytes()))
		for _, d := range r.Downloaded {
			printFile(d.Path)
		}
	}

	if len(r.Skipped) > 0 {
		printWarning("Skipped %d coordinates", len(r.Skipped))
		for _, s := range r.Skipped {
			printDetail("%s: %s", s.Coordinate, s.Reason)
		}
	}
	if len(r.Conflicts) > 0 {
		printWarning("%d version conflicts", len(r.Conflicts))
		for _, c := range r.Conflicts {
			printDetail("%s: kept %s, ignored %s via %s", c.Kept.Key(), c.Kept.Version, c.Rejected.Version, c.Owner)
		}
	}
	printDetail("run %s in %s", r.RunID, r.Duration().Round(time.Millisecond))
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
