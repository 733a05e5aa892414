package fixer

import (
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refixlabs/refix/checker"
	"github.com/refixlabs/refix/edit"
)

// findingAt builds a fixable finding whose edit replaces the first
// occurrence of old in src.
func findingAt(t *testing.T, src, old, replacement string) checker.Finding {
	t.Helper()
	idx := strings.Index(src, old)
	require.GreaterOrEqual(t, idx, 0, "fixture must contain %q", old)

	e := edit.New(idx, idx+len(old), replacement)
	return checker.Finding{
		Rule:    "test-rule",
		Message: "rewrite " + old,
		Start:   token.Position{Line: 1 + strings.Count(src[:idx], "\n")},
		Edit:    &e,
	}
}

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.go")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFixSource(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		old      string
		new      string
		expected string
	}{
		{
			name: "single rewrite",
			input: `package main

func main() {
	msg := report("boom")
	_ = msg
}
`,
			old: `report("boom")`,
			new: `"boom"`,
			expected: `package main

func main() {
	msg := "boom"
	_ = msg
}
`,
		},
		{
			name: "rewrite output is reformatted",
			input: `package main

func main() {
    msg := report("boom")
    _ = msg
}
`,
			old: `report("boom")`,
			new: `"boom"`,
			expected: `package main

func main() {
	msg := "boom"
	_ = msg
}
`,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			f := New(false)
			got, err := f.FixSource([]byte(tc.input), []checker.Finding{
				findingAt(t, tc.input, tc.old, tc.new),
			})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(got))
		})
	}
}

func TestFixSourceAppliesMultipleEdits(t *testing.T) {
	input := `package main

func main() {
	a := report("one")
	b := report("two")
	_, _ = a, b
}
`
	findings := []checker.Finding{
		findingAt(t, input, `report("one")`, `"one"`),
		findingAt(t, input, `report("two")`, `"two"`),
	}

	got, err := New(false).FixSource([]byte(input), findings)
	require.NoError(t, err)
	assert.Contains(t, string(got), `a := "one"`)
	assert.Contains(t, string(got), `b := "two"`)
}

func TestFixSourceSkipsFindingsWithoutFix(t *testing.T) {
	input := `package main

func main() {
	msg := report("boom")
	_ = msg
}
`
	findings := []checker.Finding{
		{Rule: "advice-only", Message: "this one carries no edit"},
	}

	got, err := New(false).FixSource([]byte(input), findings)
	require.NoError(t, err)
	assert.Equal(t, input, string(got), "nothing fixable leaves the source untouched")
}

func TestFixSourceDropsImportLeftUnused(t *testing.T) {
	input := `package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func check(t *testing.T, ok bool) {
	require.True(t, ok, fmt.Sprintf("boom at 100% off"))
}
`
	finding := findingAt(t, input, `fmt.Sprintf("boom at 100% off")`, `"boom at 100% off"`)
	finding.DropImports = []string{"fmt"}

	got, err := New(false).FixSource([]byte(input), []checker.Finding{finding})
	require.NoError(t, err)
	assert.NotContains(t, string(got), `"fmt"`)
	assert.Contains(t, string(got), `require.True(t, ok, "boom at 100% off")`)
}

func TestFixSourceKeepsImportStillInUse(t *testing.T) {
	input := `package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func check(t *testing.T, ok bool) {
	require.True(t, ok, fmt.Sprintf("boom"))
	fmt.Println("still needed")
}
`
	finding := findingAt(t, input, `fmt.Sprintf("boom")`, `"boom"`)
	finding.DropImports = []string{"fmt"}

	got, err := New(false).FixSource([]byte(input), []checker.Finding{finding})
	require.NoError(t, err)
	assert.Contains(t, string(got), `"fmt"`)
	assert.Contains(t, string(got), `fmt.Println("still needed")`)
}

func TestFixSourceAddsRequestedImport(t *testing.T) {
	input := `package main

func example() error {
	return makeError("handler error")
}
`
	finding := findingAt(t, input, `makeError("handler error")`, `errors.New("handler error")`)
	finding.AddImports = []string{"errors"}

	got, err := New(false).FixSource([]byte(input), []checker.Finding{finding})
	require.NoError(t, err)
	assert.Contains(t, string(got), `import "errors"`)
	assert.Contains(t, string(got), `errors.New("handler error")`)
}

func TestFixSourceRejectsOverlappingFixes(t *testing.T) {
	input := `package main

func main() {
	msg := report("boom")
	_ = msg
}
`
	findings := []checker.Finding{
		findingAt(t, input, `report("boom")`, `"boom"`),
		findingAt(t, input, `"boom"`, `"bang"`),
	}

	_, err := New(false).FixSource([]byte(input), findings)
	require.Error(t, err)

	var overlap *edit.OverlapError
	assert.ErrorAs(t, err, &overlap)
}

func TestFixWritesFileInPlace(t *testing.T) {
	input := `package main

func main() {
	msg := report("boom")
	_ = msg
}
`
	path := writeFixture(t, input)

	findings := []checker.Finding{findingAt(t, input, `report("boom")`, `"boom"`)}
	require.NoError(t, New(false).Fix(path, findings))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), `msg := "boom"`)
	assert.NotContains(t, string(got), "report(")
}

func TestFixDryRunLeavesFileAlone(t *testing.T) {
	input := `package main

func main() {
	msg := report("boom")
	_ = msg
}
`
	path := writeFixture(t, input)

	findings := []checker.Finding{findingAt(t, input, `report("boom")`, `"boom"`)}
	require.NoError(t, New(true).Fix(path, findings))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestFixWithNothingFixableTouchesNothing(t *testing.T) {
	// The file deliberately does not exist: Fix must return before
	// any I/O when no finding carries an edit.
	err := New(false).Fix(filepath.Join(t.TempDir(), "missing.go"), []checker.Finding{
		{Rule: "advice-only", Message: "no edit attached"},
	})
	assert.NoError(t, err)
}

func TestRenderChangeMarksEditedLines(t *testing.T) {
	before := "a\nb\nc\n"
	after := "a\nB\nc\n"

	out := renderChange(before, after)
	assert.Contains(t, out, "- b")
	assert.Contains(t, out, "+ B")
	assert.Contains(t, out, "  a")
}
