package verify

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// renderDiff produces a line-oriented diff from expected to actual,
// "-" marking expected lines the actual output lost and "+" marking
// lines it gained.
func renderDiff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	c1, c2, lines := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(c1, c2, false), lines)

	var b strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
