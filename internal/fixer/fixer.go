// Package fixer applies the fixes attached to findings back to the
// files they came from.
package fixer

import (
	"bytes"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"os"

	"github.com/refixlabs/refix/checker"
	"github.com/refixlabs/refix/edit"
)

type Fixer struct {
	DryRun bool
}

func New(dryRun bool) *Fixer {
	return &Fixer{DryRun: dryRun}
}

// Fix rewrites filename with every fix carried by the findings. In dry
// run mode it prints what would change instead of writing.
func (f *Fixer) Fix(filename string, findings []checker.Finding) error {
	fixable := countFixable(findings)
	if fixable == 0 {
		return nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	fixed, err := f.FixSource(src, findings)
	if err != nil {
		return fmt.Errorf("fixing %s: %w", filename, err)
	}

	if f.DryRun {
		for _, fd := range findings {
			if fd.HasFix() {
				fmt.Printf("Would fix %s at %s:%d: %s\n", fd.Rule, filename, fd.Start.Line, fd.Message)
			}
		}
		fmt.Print(renderChange(string(src), string(fixed)))
		return nil
	}

	if err := os.WriteFile(filename, fixed, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	fmt.Printf("Fixed %d issue(s) in %s\n", fixable, filename)
	return nil
}

// FixSource applies every fix carried by the findings to in-memory
// source and returns the formatted result. Findings without a fix are
// skipped. Import adjustments requested by the findings are honored
// after the text edits land.
func (f *Fixer) FixSource(src []byte, findings []checker.Finding) ([]byte, error) {
	edits := make([]edit.Edit, 0, len(findings))
	for _, fd := range findings {
		if fd.HasFix() {
			edits = append(edits, *fd.Edit)
		}
	}
	if len(edits) == 0 {
		return src, nil
	}

	patched, err := edit.Apply(string(src), edits)
	if err != nil {
		return nil, fmt.Errorf("applying edits: %w", err)
	}

	out := []byte(patched)
	if out, err = EnsureImports(out, requiredImports(findings)); err != nil {
		return nil, fmt.Errorf("adding imports: %w", err)
	}
	if out, err = PruneImports(out, droppableImports(findings)); err != nil {
		return nil, fmt.Errorf("pruning imports: %w", err)
	}
	return reformat(out)
}

func countFixable(findings []checker.Finding) int {
	n := 0
	for _, fd := range findings {
		if fd.HasFix() {
			n++
		}
	}
	return n
}

// reformat reprints the whole file so the patched region picks up
// standard formatting.
func reformat(src []byte) ([]byte, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fixed source: %w", err)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, fmt.Errorf("failed to format fixed source: %w", err)
	}
	return buf.Bytes(), nil
}
