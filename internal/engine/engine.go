// Package engine wires the rule set, configuration, and //nolint
// suppression filtering into a reusable analysis engine. One engine is
// built per run and applied file by file; walking many files in
// parallel is the caller's business.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/refixlabs/refix/checker"
	"github.com/refixlabs/refix/internal/rules"
	"github.com/refixlabs/refix/source"
)

// Thresholded is implemented by rules that accept a numeric cutoff
// from configuration.
type Thresholded interface {
	WithThreshold(n int) checker.Checker
}

// Engine applies the configured rule set to source units.
type Engine struct {
	rules        map[string]checker.Checker
	severity     map[string]checker.Severity
	ignoredRules map[string]bool
	ignoredPaths []string
}

// New builds an engine from the default rule set with the
// configuration's adjustments applied. Config entries naming unknown
// rules are skipped.
func New(config Config) (*Engine, error) {
	e := &Engine{
		rules:        make(map[string]checker.Checker),
		severity:     make(map[string]checker.Severity),
		ignoredRules: make(map[string]bool),
	}
	for _, c := range rules.Default() {
		e.rules[c.Name()] = c
	}

	for name, rc := range config.Rules {
		rule, ok := e.rules[name]
		if !ok {
			continue
		}
		if rc.Severity == checker.SeverityOff {
			e.IgnoreRule(name)
			continue
		}
		if rc.Severity != "" {
			e.severity[name] = rc.Severity
		}
		if rc.Threshold > 0 {
			if t, ok := rule.(Thresholded); ok {
				e.rules[name] = t.WithThreshold(rc.Threshold)
			}
		}
	}
	return e, nil
}

// IgnoreRule disables a rule for the lifetime of the engine.
func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath excludes a file or directory subtree from Run.
func (e *Engine) IgnorePath(path string) {
	e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(path))
}

func (e *Engine) pathIgnored(path string) bool {
	path = filepath.Clean(path)
	for _, ignored := range e.ignoredPaths {
		if path == ignored || strings.HasPrefix(path, ignored+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run applies all active rules to the given file.
func (e *Engine) Run(filename string) ([]checker.Finding, error) {
	if e.pathIgnored(filename) {
		return nil, nil
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return e.RunSource(filename, src)
}

// RunSource applies all active rules to in-memory source. The name
// labels findings and anchors //nolint scopes; it does not need to
// exist on disk.
func (e *Engine) RunSource(name string, src []byte) ([]checker.Finding, error) {
	prog, err := source.Parse([]source.Unit{{Name: name, Text: string(src)}})
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	file := prog.File(name)
	silenced := collectSuppressions(file, prog.Fset)

	findings := checker.Walk(file, prog.Context(), e.activeCheckers()...)
	findings = silenced.filter(findings)

	for i := range findings {
		if sev, ok := e.severity[findings[i].Rule]; ok {
			findings[i].Severity = sev
		}
	}
	Sort(findings)
	return findings, nil
}

// activeCheckers returns the enabled rules in name order, so repeated
// runs see the same evaluation order.
func (e *Engine) activeCheckers() []checker.Checker {
	names := make([]string, 0, len(e.rules))
	for name := range e.rules {
		if !e.ignoredRules[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	active := make([]checker.Checker, 0, len(names))
	for _, name := range names {
		active = append(active, e.rules[name])
	}
	return active
}

// Sort orders findings by unit, position, then rule, the order every
// surface reports them in.
func Sort(findings []checker.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		if a.Start.Line != b.Start.Line {
			return a.Start.Line < b.Start.Line
		}
		if a.Start.Column != b.Start.Column {
			return a.Start.Column < b.Start.Column
		}
		return a.Rule < b.Rule
	})
}

// RuleInfo describes one registered rule for display purposes.
type RuleInfo struct {
	Name     string
	Doc      string
	Severity checker.Severity
	Enabled  bool
}

// Rules lists every registered rule in name order, including disabled
// ones. Severity is the configured override, or empty when the rule
// decides per finding.
func (e *Engine) Rules() []RuleInfo {
	infos := make([]RuleInfo, 0, len(e.rules))
	for name, rule := range e.rules {
		info := RuleInfo{
			Name:     name,
			Severity: e.severity[name],
			Enabled:  !e.ignoredRules[name],
		}
		if doc, ok := rule.(checker.Documented); ok {
			info.Doc = doc.Doc()
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
