// Package edit defines the textual replacement value produced by
// checkers and the applier that rewrites a document with a set of
// them. Edits are anchored at byte offsets of the original document;
// applying a set never reinterprets offsets against intermediate
// results, so edits cannot drift past one another.
package edit

import (
	"fmt"
	"go/ast"
	"go/token"
	"sort"
	"strings"
)

// Edit replaces the half-open byte span [Start, End) of the original
// document with Text. A zero-width span is an insertion.
type Edit struct {
	Start int
	End   int
	Text  string
}

// New returns an edit over the given span.
func New(start, end int, text string) Edit {
	return Edit{Start: start, End: end, Text: text}
}

// Replace returns an edit covering node's source span.
func Replace(fset *token.FileSet, node ast.Node, text string) Edit {
	return Edit{
		Start: fset.Position(node.Pos()).Offset,
		End:   fset.Position(node.End()).Offset,
		Text:  text,
	}
}

// Delete returns an edit removing node's source span.
func Delete(fset *token.FileSet, node ast.Node) Edit {
	return Replace(fset, node, "")
}

// Insert returns a zero-width edit adding text at offset.
func Insert(offset int, text string) Edit {
	return Edit{Start: offset, End: offset, Text: text}
}

func (e Edit) String() string {
	return fmt.Sprintf("[%d,%d)->%q", e.Start, e.End, e.Text)
}

// OverlapError reports two edits of one application whose spans
// intersect. Overlap is a programming error in the checker that
// produced the edits; the applier never merges or picks between them.
type OverlapError struct {
	First  Edit
	Second Edit
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping edits: %s and %s", e.First, e.Second)
}

// Apply rewrites src with the given edits and returns the result.
// All spans address the original src. Edits are applied in offset
// order regardless of slice order; equal spans keep their slice
// order. Text outside every span is preserved byte for byte.
//
// Apply fails with *OverlapError when two spans intersect and with a
// plain error when a span falls outside src. src is never partially
// applied: any error leaves the caller with the original text.
func Apply(src string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return src, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(src) {
			return "", fmt.Errorf("edit %s out of range for %d-byte document", e, len(src))
		}
		if i > 0 && e.Start < sorted[i-1].End {
			return "", &OverlapError{First: sorted[i-1], Second: e}
		}
	}

	var b strings.Builder
	last := 0
	for _, e := range sorted {
		b.WriteString(src[last:e.Start])
		b.WriteString(e.Text)
		last = e.End
	}
	b.WriteString(src[last:])
	return b.String(), nil
}
