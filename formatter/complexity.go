package formatter

import (
	"regexp"
	"strconv"
	"strings"
)

// complexityFormatter appends a risk bucket to complexity findings.
type complexityFormatter struct{}

func (f *complexityFormatter) FindingTemplate() string {
	return `{{header .Severity .Rule .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{complexityDetail .Padding .Message}}
`
}

var complexityPattern = regexp.MustCompile(`complexity of (\d+)`)

func complexityDetail(padding, message string) string {
	m := complexityPattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(lineStyle.Sprintf("%s| ", padding))
	b.WriteString(messageStyle.Sprintf("risk: %s\n", riskFor(n)))
	return b.String()
}

// riskFor buckets a cyclomatic complexity score the way McCabe's
// original guidance does.
func riskFor(complexity int) string {
	switch {
	case complexity <= 10:
		return "low"
	case complexity <= 20:
		return "moderate"
	case complexity <= 50:
		return "high"
	default:
		return "very high"
	}
}
