package formatter

// generalFormatter lays out findings of rules without a dedicated
// template: header, snippet, underline, optional fix preview.
type generalFormatter struct{}

func (f *generalFormatter) FindingTemplate() string {
	return `{{header .Severity .Rule .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{suggestion .Suggestion .Padding .MaxLineNumWidth .StartLine}}
`
}
