package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/refixlabs/refix/checker"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const mixedSource = `package demo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func grade(n int) string {
	if n > 90 {
		return "a"
	}
	if n > 80 {
		return "b"
	}
	if n > 70 {
		return "c"
	}
	return "f"
}

func check(t *testing.T, ok bool) {
	require.True(t, ok, fmt.Sprintf("boom at 100%"))
}
`

func newEngine(t *testing.T, config Config) *Engine {
	t.Helper()
	e, err := New(config)
	require.NoError(t, err)
	return e
}

func TestRunSourceAppliesDefaultRules(t *testing.T) {
	e := newEngine(t, DefaultConfig())

	findings, err := e.RunSource("demo.go", []byte(mixedSource))
	require.NoError(t, err)
	require.Len(t, findings, 1, "grade is below the default complexity threshold")

	f := findings[0]
	assert.Equal(t, "eager-sprintf-message", f.Rule)
	assert.Equal(t, "demo.go", f.Unit)
	assert.Equal(t, checker.SeverityWarning, f.Severity)
	assert.True(t, f.HasFix())
}

func TestRunSourceSortsFindingsByPosition(t *testing.T) {
	e := newEngine(t, Config{
		Name: "refix",
		Rules: map[string]RuleConfig{
			"high-cyclomatic-complexity": {Threshold: 3},
		},
	})

	findings, err := e.RunSource("demo.go", []byte(mixedSource))
	require.NoError(t, err)
	require.Len(t, findings, 2)

	assert.Equal(t, "high-cyclomatic-complexity", findings[0].Rule)
	assert.Equal(t, "eager-sprintf-message", findings[1].Rule)
	assert.Less(t, findings[0].Start.Line, findings[1].Start.Line)
}

func TestConfigSeverityOverride(t *testing.T) {
	e := newEngine(t, Config{
		Rules: map[string]RuleConfig{
			"eager-sprintf-message": {Severity: checker.SeverityError},
		},
	})

	findings, err := e.RunSource("demo.go", []byte(mixedSource))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, checker.SeverityError, findings[0].Severity)
}

func TestConfigSeverityOffDisablesRule(t *testing.T) {
	e := newEngine(t, Config{
		Rules: map[string]RuleConfig{
			"eager-sprintf-message": {Severity: checker.SeverityOff},
		},
	})

	findings, err := e.RunSource("demo.go", []byte(mixedSource))
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestConfigUnknownRuleIsSkipped(t *testing.T) {
	e := newEngine(t, Config{
		Rules: map[string]RuleConfig{
			"no-such-rule": {Severity: checker.SeverityError},
		},
	})

	findings, err := e.RunSource("demo.go", []byte(mixedSource))
	require.NoError(t, err)
	assert.Len(t, findings, 1)
}

func TestRunSourceRejectsBrokenSource(t *testing.T) {
	e := newEngine(t, DefaultConfig())

	_, err := e.RunSource("broken.go", []byte("package demo\nfunc {"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.go")
}

func TestNolintSilencesFinding(t *testing.T) {
	src := `package demo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func check(t *testing.T, ok bool) {
	require.True(t, ok, fmt.Sprintf("boom at 100%")) //nolint:eager-sprintf-message
}
`
	e := newEngine(t, DefaultConfig())

	findings, err := e.RunSource("demo.go", []byte(src))
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestNolintOtherRuleKeepsFinding(t *testing.T) {
	src := `package demo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func check(t *testing.T, ok bool) {
	require.True(t, ok, fmt.Sprintf("boom at 100%")) //nolint:high-cyclomatic-complexity
}
`
	e := newEngine(t, DefaultConfig())

	findings, err := e.RunSource("demo.go", []byte(src))
	require.NoError(t, err)
	assert.Len(t, findings, 1)
}

func TestRunReadsFromDisk(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "demo.go")
	require.NoError(t, os.WriteFile(path, []byte(mixedSource), 0o644))

	e := newEngine(t, DefaultConfig())

	findings, err := e.Run(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, path, findings[0].Unit)
}

func TestIgnorePathSkipsSubtree(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "demo.go")
	require.NoError(t, os.WriteFile(path, []byte(mixedSource), 0o644))

	e := newEngine(t, DefaultConfig())
	e.IgnorePath(tempDir)

	findings, err := e.Run(path)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestIgnoreRule(t *testing.T) {
	e := newEngine(t, DefaultConfig())
	e.IgnoreRule("eager-sprintf-message")

	findings, err := e.RunSource("demo.go", []byte(mixedSource))
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestRulesListsRegistry(t *testing.T) {
	e := newEngine(t, Config{
		Rules: map[string]RuleConfig{
			"eager-sprintf-message": {Severity: checker.SeverityError},
		},
	})
	e.IgnoreRule("high-cyclomatic-complexity")

	infos := e.Rules()
	require.Len(t, infos, 2)

	assert.Equal(t, "eager-sprintf-message", infos[0].Name)
	assert.Equal(t, checker.SeverityError, infos[0].Severity)
	assert.True(t, infos[0].Enabled)
	assert.NotEmpty(t, infos[0].Doc)

	assert.Equal(t, "high-cyclomatic-complexity", infos[1].Name)
	assert.False(t, infos[1].Enabled)
}

func TestWatcherLifecycle(t *testing.T) {
	e := newEngine(t, DefaultConfig())

	w, err := NewWatcher(e, zap.NewNop(), nil)
	require.NoError(t, err)

	tempDir := t.TempDir()
	require.NoError(t, w.Watch(tempDir))
	assert.Error(t, w.Watch(tempDir), "watching twice must fail")
	assert.NoError(t, w.Stop())
}
