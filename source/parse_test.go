package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnit(t *testing.T) {
	t.Parallel()

	u := NewUnit("in/a.go",
		"package p",
		"",
		"func f() {}",
	)
	assert.Equal(t, "in/a.go", u.Name)
	assert.Equal(t, "package p\n\nfunc f() {}\n", u.Text)
	assert.Equal(t, []string{"package p", "", "func f() {}"}, u.Lines())
}

func TestReadUnit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package p\n"), 0o644))

	u, err := ReadUnit(path)
	require.NoError(t, err)
	assert.Equal(t, path, u.Name)
	assert.Equal(t, "package p\n", u.Text)

	_, err = ReadUnit(filepath.Join(t.TempDir(), "missing.go"))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	t.Parallel()

	prog, err := Parse([]Unit{
		NewUnit("a.go", "package p", "func a() {}"),
		NewUnit("b.go", "package p", "func b() {}"),
	})
	require.NoError(t, err)
	require.Len(t, prog.Files, 2)
	assert.NotNil(t, prog.File("a.go"))
	assert.NotNil(t, prog.File("b.go"))
	assert.Nil(t, prog.File("c.go"))

	ctx := prog.Context()
	require.NotNil(t, ctx)
	assert.Same(t, prog.Fset, ctx.Fset)
	assert.NotNil(t, ctx.Resolver)
}

func TestParseReportsSyntaxErrorWithUnit(t *testing.T) {
	t.Parallel()

	_, err := Parse([]Unit{
		NewUnit("good.go", "package p"),
		NewUnit("bad.go", "package p", "func broken( {"),
	})
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "bad.go", perr.Unit)
	assert.Equal(t, "bad.go", perr.Pos.Filename)
	assert.NotEmpty(t, perr.Msg)
}

func TestParseRejectsPackageMismatch(t *testing.T) {
	t.Parallel()

	_, err := Parse([]Unit{
		NewUnit("a.go", "package p"),
		NewUnit("b.go", "package q"),
	})
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "b.go", perr.Unit)
	assert.Contains(t, perr.Msg, "found packages")
}

func TestParseRejectsRedeclaration(t *testing.T) {
	t.Parallel()

	_, err := Parse([]Unit{
		NewUnit("a.go", "package p", "func f() {}"),
		NewUnit("b.go", "package p", "func f() {}"),
	})
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "b.go", perr.Unit)
	assert.Contains(t, perr.Msg, "redeclared")
}

func TestParseAllowsRepeatedInitAndBlank(t *testing.T) {
	t.Parallel()

	_, err := Parse([]Unit{
		NewUnit("a.go", "package p", "func init() {}", "var _ = 1"),
		NewUnit("b.go", "package p", "func init() {}", "var _ = 2"),
	})
	assert.NoError(t, err)
}

func TestParseRejectsEmptyRun(t *testing.T) {
	t.Parallel()

	_, err := Parse(nil)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}
