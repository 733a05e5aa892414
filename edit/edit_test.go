package edit

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		edits    []Edit
		expected string
	}{
		{
			name:     "no edits",
			src:      "abc",
			edits:    nil,
			expected: "abc",
		},
		{
			name:     "single replacement",
			src:      "hello world",
			edits:    []Edit{New(6, 11, "there")},
			expected: "hello there",
		},
		{
			name: "offsets address the original text",
			src:  "aa bb cc",
			edits: []Edit{
				New(0, 2, "lengthened"),
				New(6, 8, "x"),
			},
			expected: "lengthened bb x",
		},
		{
			name: "slice order does not matter",
			src:  "aa bb cc",
			edits: []Edit{
				New(6, 8, "x"),
				New(0, 2, "lengthened"),
			},
			expected: "lengthened bb x",
		},
		{
			name:     "deletion",
			src:      "keep remove keep",
			edits:    []Edit{New(4, 11, "")},
			expected: "keep keep",
		},
		{
			name:     "insertion",
			src:      "ab",
			edits:    []Edit{Insert(1, "-")},
			expected: "a-b",
		},
		{
			name: "adjacent spans are legal",
			src:  "abcdef",
			edits: []Edit{
				New(0, 3, "X"),
				New(3, 6, "Y"),
			},
			expected: "XY",
		},
		{
			name: "insertion at a replacement boundary",
			src:  "abcdef",
			edits: []Edit{
				Insert(2, "+"),
				New(2, 4, "Z"),
			},
			expected: "ab+Zef",
		},
		{
			name:     "bytes outside spans survive untouched",
			src:      "π≠\x00tau\x00≠π",
			edits:    []Edit{New(6, 9, "rho")},
			expected: "π≠\x00rho\x00≠π",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Apply(tt.src, tt.edits)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	t.Parallel()

	src := "one two three"
	edits := []Edit{New(4, 7, "2"), New(0, 3, "1"), New(8, 13, "3")}

	first, err := Apply(src, edits)
	require.NoError(t, err)
	second, err := Apply(src, edits)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "1 2 3", first)
}

func TestApplyRejectsOverlap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edits []Edit
	}{
		{"partial overlap", []Edit{New(0, 4, "x"), New(2, 6, "y")}},
		{"containment", []Edit{New(0, 8, "x"), New(2, 4, "y")}},
		{"identical spans", []Edit{New(1, 3, "x"), New(1, 3, "y")}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Apply("abcdefgh", tt.edits)
			var overlap *OverlapError
			require.ErrorAs(t, err, &overlap)
		})
	}
}

func TestApplyRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := Apply("abc", []Edit{New(1, 9, "x")})
	assert.Error(t, err)
	_, err = Apply("abc", []Edit{New(-1, 2, "x")})
	assert.Error(t, err)
	_, err = Apply("abc", []Edit{New(2, 1, "x")})
	assert.Error(t, err)
}

func TestReplaceAnchorsAtNodeSpan(t *testing.T) {
	t.Parallel()

	src := `package p

func f() int {
	return add(1, 2)
}`
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "f.go", src, 0)
	require.NoError(t, err)

	var call *ast.CallExpr
	ast.Inspect(file, func(n ast.Node) bool {
		if c, ok := n.(*ast.CallExpr); ok {
			call = c
		}
		return true
	})
	require.NotNil(t, call)

	got, err := Apply(src, []Edit{Replace(fset, call, "3")})
	require.NoError(t, err)
	assert.Contains(t, got, "return 3")
	assert.NotContains(t, got, "add(1, 2)")

	got, err = Apply(src, []Edit{Delete(fset, call)})
	require.NoError(t, err)
	assert.Contains(t, got, "return \n")
}
