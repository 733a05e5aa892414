package fixer

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	removedLine = color.New(color.FgRed)
	addedLine   = color.New(color.FgGreen)
)

// renderChange renders a line diff between the current file content
// and the fixed result, for dry run output.
func renderChange(before, after string) string {
	dmp := diffmatchpatch.New()
	b, a, lineIndex := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(b, a, false), lineIndex)

	var sb strings.Builder
	for _, d := range diffs {
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				sb.WriteString(removedLine.Sprintf("- %s", line))
			case diffmatchpatch.DiffInsert:
				sb.WriteString(addedLine.Sprintf("+ %s", line))
			default:
				sb.WriteString("  " + line)
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
