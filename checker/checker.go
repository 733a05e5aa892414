// Package checker defines the contract between the matcher engine
// and the rules built on it: a Checker names a matcher and describes
// the finding (with at most one edit) for each node the matcher
// selects. The walker in this package drives checkers over a file,
// once per node of interest.
package checker

import (
	"go/ast"
	"go/token"

	"github.com/refixlabs/refix/edit"
	"github.com/refixlabs/refix/match"
)

// Severity classifies findings for reporting and configuration.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityOff     Severity = "off"
)

// Finding is one reported match. Edit is nil when the rule matched
// but has no fix to offer, a valid outcome distinct from not
// matching at all. AddImports and DropImports request import
// adjustments alongside the edit; only the on-disk fixer honors
// them, text-level appliers ignore them.
type Finding struct {
	Rule     string
	Message  string
	Unit     string
	Severity Severity
	Start    token.Position
	End      token.Position

	Edit        *edit.Edit
	AddImports  []string
	DropImports []string
}

// HasFix reports whether the finding carries an edit.
func (f Finding) HasFix() bool { return f.Edit != nil }

// Checker pairs a matcher with the fix it anchors. Describe is
// invoked only for nodes the matcher selected and returns the
// finding for that node; fields left at their zero value (rule name,
// span, unit, severity) are completed by the walker.
type Checker interface {
	Name() string
	Matcher() match.Matcher
	Describe(node ast.Node, ctx *match.Context) Finding
}

// KindHinter narrows a checker's traversal to the listed kinds. A
// checker without the hint is evaluated on every node.
type KindHinter interface {
	Kinds() []match.Kind
}

// Documented optionally supplies a one-paragraph description, used
// by the analyzer bridge and the rule listing.
type Documented interface {
	Doc() string
}
