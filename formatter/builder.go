// Package formatter renders findings as rustc-style terminal blocks
// and as JSON. Each rule may carry its own block layout; rules without
// one share the general layout.
package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fatih/color"

	"github.com/refixlabs/refix/checker"
	"github.com/refixlabs/refix/source"
)

const tabWidth = 8

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	infoStyle       = color.New(color.FgHiBlue, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
)

// findingFormatter supplies the text template one rule's findings are
// rendered with.
type findingFormatter interface {
	FindingTemplate() string
}

// formatterFor returns the formatter registered for the given rule,
// falling back to the general layout.
func formatterFor(rule string) findingFormatter {
	switch rule {
	case "high-cyclomatic-complexity":
		return &complexityFormatter{}
	default:
		return &generalFormatter{}
	}
}

// Generate renders every finding of one unit against its source text.
// Findings are rendered in the order given; callers sort beforehand.
func Generate(findings []checker.Finding, unit source.Unit) string {
	var builder strings.Builder
	lines := unit.Lines()
	for _, f := range findings {
		builder.WriteString(buildFinding(f, lines, formatterFor(f.Rule)))
	}
	return builder.String()
}

// findingData is the flattened view a template renders.
type findingData struct {
	Severity        string
	Rule            string
	Filename        string
	Padding         string
	StartLine       int
	StartColumn     int
	EndLine         int
	EndColumn       int
	MaxLineNumWidth int
	Message         string
	Suggestion      string
	SnippetLines    []string
	CommonIndent    string
}

func buildFinding(f checker.Finding, lines []string, formatter findingFormatter) string {
	maxLineNumWidth := len(fmt.Sprintf("%d", f.End.Line))
	padding := strings.Repeat(" ", maxLineNumWidth+1)

	var commonIndent string
	if isValidLineRange(f.Start.Line, f.End.Line, lines) {
		commonIndent = findCommonIndent(lines[f.Start.Line-1 : f.End.Line])
	}

	var suggestionText string
	if f.Edit != nil {
		suggestionText = f.Edit.Text
	}

	data := findingData{
		Severity:        string(f.Severity),
		Rule:            f.Rule,
		Filename:        f.Unit,
		StartLine:       f.Start.Line,
		StartColumn:     f.Start.Column,
		EndLine:         f.End.Line,
		EndColumn:       f.End.Column,
		Message:         f.Message,
		Suggestion:      suggestionText,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         padding,
		CommonIndent:    commonIndent,
		SnippetLines:    lines,
	}

	funcMap := template.FuncMap{
		"header":              header,
		"snippet":             codeSnippet,
		"underlineAndMessage": underlineAndMessage,
		"suggestion":          suggestion,
		"complexityDetail":    complexityDetail,
	}

	tmpl := template.Must(template.New("finding").Funcs(funcMap).Parse(formatter.FindingTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("rendering %s finding: %v\n", f.Rule, err)
	}
	return buf.String()
}

// template helpers; each emits newline-terminated lines

func header(severity, rule string, maxLineNumWidth int, filename string, startLine, startColumn int) string {
	var b strings.Builder
	switch checker.Severity(severity) {
	case checker.SeverityError:
		b.WriteString(errorStyle.Sprint("error: "))
	case checker.SeverityInfo:
		b.WriteString(infoStyle.Sprint("info: "))
	default:
		b.WriteString(warningStyle.Sprint("warning: "))
	}
	b.WriteString(ruleStyle.Sprintf("%s\n", rule))
	b.WriteString(lineStyle.Sprintf("%s--> ", strings.Repeat(" ", maxLineNumWidth)))
	b.WriteString(fileStyle.Sprintf("%s:%d:%d\n", filename, startLine, startColumn))
	return b.String()
}

func codeSnippet(snippetLines []string, startLine, endLine, maxLineNumWidth int, commonIndent, padding string) string {
	var b strings.Builder
	b.WriteString(lineStyle.Sprintf("%s|\n", padding))
	for i := startLine; i <= endLine; i++ {
		if i < 1 || i > len(snippetLines) {
			continue
		}
		b.WriteString(lineStyle.Sprintf("%*d | ", maxLineNumWidth, i))
		b.WriteString(strings.TrimPrefix(snippetLines[i-1], commonIndent))
		b.WriteByte('\n')
	}
	return b.String()
}

func underlineAndMessage(message, padding string, startLine, endLine, startColumn, endColumn int, snippetLines []string, commonIndent string) string {
	var b strings.Builder
	b.WriteString(lineStyle.Sprintf("%s| ", padding))

	if !isValidLineRange(startLine, endLine, snippetLines) {
		b.WriteString(messageStyle.Sprintf("%s\n", message))
		return b.String()
	}

	indentWidth := calculateVisualColumn(commonIndent, len(commonIndent)+1)

	start := calculateVisualColumn(snippetLines[startLine-1], startColumn) - indentWidth
	if start < 0 {
		start = 0
	}

	// Single-line spans underline exactly the flagged range. Spans
	// reaching past the first line underline the rest of that line.
	length := 1
	if startLine == endLine {
		end := calculateVisualColumn(snippetLines[startLine-1], endColumn) - indentWidth
		if n := end - start; n > length {
			length = n
		}
	} else {
		line := snippetLines[startLine-1]
		end := calculateVisualColumn(line, len(line)+1) - indentWidth
		if n := end - start; n > length {
			length = n
		}
	}

	b.WriteString(strings.Repeat(" ", start))
	b.WriteString(messageStyle.Sprintf("%s\n", strings.Repeat("~", length)))
	b.WriteString(lineStyle.Sprintf("%s= ", padding))
	b.WriteString(messageStyle.Sprintf("%s\n", message))
	return b.String()
}

func suggestion(text, padding string, maxLineNumWidth, startLine int) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(suggestionStyle.Sprint("Suggestion:\n"))
	b.WriteString(lineStyle.Sprintf("%s|\n", padding))
	for i, line := range strings.Split(text, "\n") {
		b.WriteString(lineStyle.Sprintf("%*d | ", maxLineNumWidth, startLine+i))
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(lineStyle.Sprintf("%s|\n", padding))
	return b.String()
}

func isValidLineRange(startLine, endLine int, snippetLines []string) bool {
	return startLine > 0 &&
		endLine > 0 &&
		startLine <= endLine &&
		startLine <= len(snippetLines) &&
		endLine <= len(snippetLines)
}

// calculateVisualColumn converts a byte-oriented column into a visual
// one, expanding tabs to the next tab stop.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visual := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visual += tabWidth - (visual % tabWidth)
		} else {
			visual++
		}
	}
	return visual
}

// findCommonIndent returns the leading whitespace shared by every
// non-empty line.
func findCommonIndent(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	var indent []rune
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed != "" {
			indent = []rune(line[:len(line)-len(trimmed)])
			break
		}
	}
	if len(indent) == 0 {
		return ""
	}

	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}
		indent = commonPrefix(indent, []rune(line[:len(line)-len(trimmed)]))
		if len(indent) == 0 {
			break
		}
	}
	return string(indent)
}

func commonPrefix(a, b []rune) []rune {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
