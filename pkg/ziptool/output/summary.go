// Package output renders user-facing messages: run summaries, warnings and
// the dry-run entry tree. Styling degrades to plain text on non-terminals.
package output

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Completion renders the one-line summary of a finished run.
func Completion(files int, dest string, size int64) string {
	return fmt.Sprintf("%s %s %s %s %s",
		SuccessStyle.Render("Archived"),
		ValueStyle.Render(countFiles(files)),
		MutedStyle.Render("to"),
		PathStyle.Render(dest),
		SizeStyle.Render(fmt.Sprintf("(%s)", humanize.IBytes(uint64(size)))),
	)
}

// RestoreWarning renders the block shown when a directory could not be
// renamed back after a rename-zip run. The archive itself succeeded; the
// message tells the user how to finish the cleanup by hand.
func RestoreWarning(renamed, original string, err error) string {
	var b strings.Builder
	b.WriteString(WarningStyle.Render("Warning: could not restore the original directory name."))
	b.WriteString("\n  ")
	b.WriteString(fmt.Sprintf("Rename %s back to %s manually.",
		PathStyle.Render(renamed), PathStyle.Render(original)))
	b.WriteString("\n  ")
	b.WriteString(MutedStyle.Render(fmt.Sprintf("Error: %v", err)))
	return b.String()
}

// DryRunHeader labels the preview of entries a run would create.
func DryRunHeader(dest string) string {
	return TitleStyle.Render("Would archive to " + dest)
}

// DryRunFooter summarizes the preview.
func DryRunFooter(files int) string {
	return MutedStyle.Render(fmt.Sprintf("%s would be archived", countFiles(files)))
}

func countFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%s files", humanize.Comma(int64(n)))
}
